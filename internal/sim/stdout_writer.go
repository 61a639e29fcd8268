// Writer implementation printing telemetry to STDOUT
package sim

import (
	"encoding/json"
	"fmt"

	"sentinel-sim/internal/telemetry"
)

// StdoutWriter prints telemetry rows to STDOUT as JSON lines.
type StdoutWriter struct{}

// Write outputs a single node row.
func (w *StdoutWriter) Write(row telemetry.NodeRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteBatch outputs multiple node rows.
func (w *StdoutWriter) WriteBatch(rows []telemetry.NodeRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteEvent prints a security event to STDOUT.
func (w *StdoutWriter) WriteEvent(e telemetry.EventRow) error {
	data, _ := json.Marshal(e)
	fmt.Println(string(data))
	return nil
}

// WriteEvents prints multiple security events.
func (w *StdoutWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, e := range rows {
		_ = w.WriteEvent(e)
	}
	return nil
}
