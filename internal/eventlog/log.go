// Package eventlog provides the bounded human-readable audit trail.
package eventlog

import (
	"fmt"
	"time"
)

// DefaultCapacity bounds the log when no explicit capacity is configured.
const DefaultCapacity = 50

// Log is an append-only FIFO of timestamped messages. It is not safe for
// concurrent use; the simulator serializes access under its own mutex.
type Log struct {
	capacity int
	entries  []string
	now      func() time.Time
}

// New creates an empty log. capacity <= 0 falls back to DefaultCapacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity, now: time.Now}
}

// Append adds a message prefixed with a local HH:MM:SS timestamp, evicting
// the oldest entry when the bound is exceeded.
func (l *Log) Append(message string) {
	l.entries = append(l.entries, fmt.Sprintf("[%s] %s", l.now().Format("15:04:05"), message))
	if len(l.entries) > l.capacity {
		l.entries = l.entries[1:]
	}
}

// Entries returns a copy of the log in insertion order.
func (l *Log) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Clear empties the log. Used by network reset.
func (l *Log) Clear() { l.entries = l.entries[:0] }
