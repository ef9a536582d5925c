package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// PlainFormatter formats status as aligned human-readable lines.
type PlainFormatter struct {
	now func() time.Time
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter() *PlainFormatter {
	return &PlainFormatter{now: time.Now}
}

// Format writes status as plain text.
func (f *PlainFormatter) Format(w io.Writer, status *Status) error {
	var sb strings.Builder

	published := status.Published
	switch {
	case status.BusError != "":
		published = "unavailable (" + status.BusError + ")"
	case published == "":
		published = "n/a"
	}
	writeField(&sb, "Timezone", published)

	configured := "not set"
	if status.ConfigPresent {
		configured = status.Configured
	}
	writeField(&sb, "Configured", fmt.Sprintf("%s (%s)", configured, status.ConfigPath))

	daemon := "not running"
	if status.PID > 0 {
		daemon = fmt.Sprintf("pid %d", status.PID)
		if status.ReadySince != nil {
			daemon += ", ready " + humanize.RelTime(*status.ReadySince, f.now(), "ago", "from now")
		}
	}
	writeField(&sb, "Daemon", daemon)

	localtime := "in sync"
	if status.LocaltimeError != "" {
		localtime = status.LocaltimeError
	}
	writeField(&sb, "Localtime", localtime)

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeField(sb *strings.Builder, label, value string) {
	fmt.Fprintf(sb, "%12s: %s\n", label, value)
}
