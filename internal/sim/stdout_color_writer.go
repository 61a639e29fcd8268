// ColorStdoutWriter prints human-friendly, colorized telemetry to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"sentinel-sim/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints node rows using ANSI colors. Colors are disabled
// when STDOUT is not a terminal.
type ColorStdoutWriter struct {
	out   io.Writer
	color bool
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter() *ColorStdoutWriter {
	return &ColorStdoutWriter{
		out:   os.Stdout,
		color: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

func (w *ColorStdoutWriter) paint(color, s string) string {
	if !w.color {
		return s
	}
	return color + s + colorReset
}

func statusColor(status string) string {
	switch status {
	case telemetry.StatusRogue:
		return colorRed
	case telemetry.StatusCompromised:
		return colorYellow
	}
	return colorGreen
}

// Write outputs a single node row in colorized format.
func (w *ColorStdoutWriter) Write(row telemetry.NodeRow) error {
	fmt.Fprintf(w.out, "%s %s %s %s %s %s\n",
		w.paint(colorGray, "["+row.Timestamp.Format(time.RFC3339)+"]"),
		w.paint(colorBlue, "session="+row.SessionID),
		w.paint(colorCyan, fmt.Sprintf("node=%d", row.NodeID)),
		w.paint(statusColor(row.Status), "status="+row.Status),
		w.paint(colorMagenta, fmt.Sprintf("temp=%.1f", row.Temperature)),
		w.paint(colorGreen, fmt.Sprintf("batt=%.1f", row.Battery)),
	)
	return nil
}

// WriteBatch outputs multiple node rows.
func (w *ColorStdoutWriter) WriteBatch(rows []telemetry.NodeRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteEvent prints a security event to STDOUT.
func (w *ColorStdoutWriter) WriteEvent(e telemetry.EventRow) error {
	label := "EVENT"
	labelColor := colorCyan
	if e.Kind == telemetry.EventInfection {
		label = "INFECTION"
		labelColor = colorRed
	}
	fmt.Fprintf(w.out, "%s %s %s\n",
		w.paint(colorGray, "["+e.Timestamp.Format(time.RFC3339)+"]"),
		w.paint(labelColor, label),
		e.Message,
	)
	return nil
}

// WriteEvents prints multiple security events.
func (w *ColorStdoutWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, e := range rows {
		_ = w.WriteEvent(e)
	}
	return nil
}
