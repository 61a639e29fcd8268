package telemetry

import (
	"math/rand"
	"testing"
	"time"
)

func testGenerator() *Generator {
	return NewGenerator("session-1", rand.New(rand.NewSource(1)))
}

func TestNewNodeInitialRanges(t *testing.T) {
	gen := testGenerator()
	for i := 0; i < 100; i++ {
		n := gen.NewNode(i)
		if n.ID != i {
			t.Errorf("expected id %d, got %d", i, n.ID)
		}
		if n.Status != StatusHealthy {
			t.Errorf("expected Healthy, got %s", n.Status)
		}
		if n.Temperature < 20 || n.Temperature > 40 {
			t.Errorf("initial temperature out of range: %f", n.Temperature)
		}
		if n.Battery < 50 || n.Battery > 100 {
			t.Errorf("initial battery out of range: %f", n.Battery)
		}
	}
}

func TestUpdateSensorsRow(t *testing.T) {
	gen := testGenerator()
	n := gen.NewNode(3)
	row := gen.UpdateSensors(n)

	if row.SessionID != "session-1" {
		t.Errorf("expected session-1, got %s", row.SessionID)
	}
	if row.NodeID != 3 {
		t.Errorf("expected node 3, got %d", row.NodeID)
	}
	if row.Status != StatusHealthy {
		t.Errorf("expected Healthy, got %s", row.Status)
	}
	if row.Temperature != n.Temperature || row.Battery != n.Battery {
		t.Errorf("row should mirror node state: %+v vs %+v", row, n)
	}
	if time.Since(row.Timestamp) > time.Second {
		t.Errorf("timestamp too old: %v", row.Timestamp)
	}
}

func TestDriftScalesWithSeverity(t *testing.T) {
	// Rogue nodes heat up and drain strictly faster than Healthy ones; over
	// many ticks the ordering holds regardless of the shared rng values.
	gen := testGenerator()
	healthy := &Node{ID: 0, Status: StatusHealthy, Temperature: 30, Battery: 100}
	rogue := &Node{ID: 1, Status: StatusRogue, Temperature: 30, Battery: 100}
	for i := 0; i < 20; i++ {
		gen.UpdateSensors(healthy)
		gen.UpdateSensors(rogue)
	}
	if rogue.Temperature <= healthy.Temperature {
		t.Errorf("rogue temperature %f should exceed healthy %f", rogue.Temperature, healthy.Temperature)
	}
	if rogue.Battery >= healthy.Battery {
		t.Errorf("rogue battery %f should drain below healthy %f", rogue.Battery, healthy.Battery)
	}
}

func TestUpdateSensorsClamps(t *testing.T) {
	gen := testGenerator()
	n := &Node{ID: 0, Status: StatusRogue, Temperature: 99.9, Battery: 0.1}
	for i := 0; i < 200; i++ {
		gen.UpdateSensors(n)
		if n.Temperature < 0 || n.Temperature > 100 {
			t.Fatalf("temperature out of bounds: %f", n.Temperature)
		}
		if n.Battery < 0 || n.Battery > 100 {
			t.Fatalf("battery out of bounds: %f", n.Battery)
		}
	}
	if n.Temperature != 100 {
		t.Errorf("rogue at ceiling should stay clamped to 100, got %f", n.Temperature)
	}
	if n.Battery != 0 {
		t.Errorf("rogue battery should bottom out at 0, got %f", n.Battery)
	}
}

func TestRandomizeRestoresHealthy(t *testing.T) {
	gen := testGenerator()
	n := &Node{ID: 5, Status: StatusRogue, Temperature: 100, Battery: 0}
	gen.Randomize(n)
	if n.Status != StatusHealthy {
		t.Errorf("expected Healthy after randomize, got %s", n.Status)
	}
	if n.Temperature < 20 || n.Temperature > 40 {
		t.Errorf("temperature out of initial range: %f", n.Temperature)
	}
	if n.Battery < 50 || n.Battery > 100 {
		t.Errorf("battery out of initial range: %f", n.Battery)
	}
}

func TestNodeRowTableName(t *testing.T) {
	orig := TelemetryTableName
	TelemetryTableName = "custom"
	defer func() { TelemetryTableName = orig }()
	if (NodeRow{}).TableName() != "custom" {
		t.Errorf("expected custom table name, got %s", (NodeRow{}).TableName())
	}
}

func TestEventRowTableName(t *testing.T) {
	if (EventRow{}).TableName() != EventTableName {
		t.Errorf("expected %s, got %s", EventTableName, (EventRow{}).TableName())
	}
}
