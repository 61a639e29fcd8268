package eventlog

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestAppendTimestampFormat(t *testing.T) {
	l := New(50)
	l.now = func() time.Time { return time.Date(2026, 8, 24, 9, 5, 1, 0, time.Local) }
	l.Append("Node 3 injected as Rogue")

	entries := l.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0] != "[09:05:01] Node 3 injected as Rogue" {
		t.Errorf("unexpected entry: %q", entries[0])
	}
}

func TestBoundEnforcedIncrementally(t *testing.T) {
	l := New(50)
	for i := 0; i < 120; i++ {
		l.Append(fmt.Sprintf("event %d", i))
		if l.Len() > 50 {
			t.Fatalf("log exceeded bound after append %d: %d", i, l.Len())
		}
	}
	entries := l.Entries()
	if len(entries) != 50 {
		t.Fatalf("expected 50 entries, got %d", len(entries))
	}
	// Oldest evicted first: the first surviving entry is event 70.
	if !strings.HasSuffix(entries[0], "event 70") {
		t.Errorf("expected oldest surviving entry to be event 70, got %q", entries[0])
	}
	if !strings.HasSuffix(entries[49], "event 119") {
		t.Errorf("expected newest entry to be event 119, got %q", entries[49])
	}
}

func TestOrderPreserved(t *testing.T) {
	l := New(10)
	for i := 0; i < 5; i++ {
		l.Append(fmt.Sprintf("event %d", i))
	}
	entries := l.Entries()
	for i, e := range entries {
		if !strings.HasSuffix(e, fmt.Sprintf("event %d", i)) {
			t.Errorf("entry %d out of order: %q", i, e)
		}
	}
}

func TestClear(t *testing.T) {
	l := New(10)
	l.Append("one")
	l.Append("two")
	l.Clear()
	if l.Len() != 0 {
		t.Errorf("expected empty log after clear, got %d entries", l.Len())
	}
	l.Append("three")
	if l.Len() != 1 {
		t.Errorf("log should accept appends after clear")
	}
}

func TestDefaultCapacity(t *testing.T) {
	l := New(0)
	for i := 0; i < 60; i++ {
		l.Append("x")
	}
	if l.Len() != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, l.Len())
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	l := New(10)
	l.Append("one")
	entries := l.Entries()
	entries[0] = "mutated"
	if l.Entries()[0] == "mutated" {
		t.Errorf("Entries must return a copy")
	}
}
