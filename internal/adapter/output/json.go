package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats status as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes status as an indented JSON object.
func (f *JSONFormatter) Format(w io.Writer, status *Status) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(status)
}
