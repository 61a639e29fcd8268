// Telemetry structs with greptime tags
package telemetry

import (
	"os"
	"time"
)

// Node security status constants.
const (
	StatusHealthy     = "Healthy"
	StatusCompromised = "Compromised"
	StatusRogue       = "Rogue"
)

// Node holds runtime state for a simulated sensor node.
type Node struct {
	ID          int
	Status      string
	Temperature float64
	Battery     float64
}

// NodeRow represents one telemetry record for GreptimeDB.
type NodeRow struct {
	SessionID   string    `json:"session_id"`  // TAG
	NodeID      int       `json:"node_id"`     // TAG
	Status      string    `json:"status"`      // FIELD
	Temperature float64   `json:"temperature"` // FIELD
	Battery     float64   `json:"battery"`     // FIELD
	Timestamp   time.Time `json:"ts"`          // TIME INDEX
}

// Security event kinds.
const (
	EventInfection = "infection"
	EventCommand   = "command"
)

// EventRow represents a security event (infection or operator command).
// NodeID and SourceID are -1 when the event is not tied to a single node.
type EventRow struct {
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	NodeID    int       `json:"node_id"`
	SourceID  int       `json:"source_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"ts"`
}

// TelemetryTableName holds the table name used when writing to GreptimeDB.
// It defaults to "sentinel_telemetry" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var TelemetryTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "sentinel_telemetry"
}()

func (NodeRow) TableName() string {
	return TelemetryTableName
}

// EventTableName holds the table name for security events, overridable via
// the SENTINEL_EVENT_TABLE environment variable.
var EventTableName = func() string {
	if env := os.Getenv("SENTINEL_EVENT_TABLE"); env != "" {
		return env
	}
	return "sentinel_events"
}()

func (EventRow) TableName() string {
	return EventTableName
}
