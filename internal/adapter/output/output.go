// Package output provides output formatters for tzctl status reports.
package output

import (
	"io"
	"time"
)

// Status is a snapshot of the daemon and its configuration.
type Status struct {
	// Published is the Timezone property read from the bus.
	Published string `json:"published" yaml:"published"`
	// BusError is set when the property could not be read.
	BusError string `json:"bus_error,omitempty" yaml:"bus_error,omitempty"`

	// Configured is the value found in ConfigPath, if any.
	Configured    string `json:"configured" yaml:"configured"`
	ConfigPresent bool   `json:"config_present" yaml:"config_present"`
	ConfigPath    string `json:"config_path" yaml:"config_path"`

	// PID and ReadySince come from the readiness marker.
	PID        int        `json:"pid,omitempty" yaml:"pid,omitempty"`
	ReadySince *time.Time `json:"ready_since,omitempty" yaml:"ready_since,omitempty"`

	// LocaltimeError is the result of the reference cross-check; empty
	// means the files agree.
	LocaltimeError string `json:"localtime_error,omitempty" yaml:"localtime_error,omitempty"`
}

// Formatter formats a status report.
type Formatter interface {
	// Format writes the formatted status to the writer.
	Format(w io.Writer, status *Status) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// ValidFormats returns all valid format values.
func ValidFormats() []FormatType {
	return []FormatType{FormatPlain, FormatJSON, FormatYAML}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter()
	case FormatYAML:
		return NewYAMLFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter()
	}
}
