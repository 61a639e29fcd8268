package telemetry

import (
	"math/rand"
	"time"
)

// Generator simulates sensor readings for a network of nodes.
type Generator struct {
	SessionID string
	rng       *rand.Rand
	now       func() time.Time
}

// NewGenerator creates a telemetry generator for a given session. The rng is
// shared with the caller so tests can seed it; nil falls back to a
// time-seeded source.
func NewGenerator(sessionID string, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{SessionID: sessionID, rng: rng, now: time.Now}
}

// NewNode creates a node with randomized initial readings: temperature in
// [20,40], battery in [50,100], status Healthy.
func (g *Generator) NewNode(id int) *Node {
	n := &Node{ID: id}
	g.Randomize(n)
	return n
}

// Randomize restores initial-like readings and Healthy status. Used at
// creation and by network reset.
func (g *Generator) Randomize(n *Node) {
	n.Status = StatusHealthy
	n.Temperature = float64(20 + g.rng.Intn(21))
	n.Battery = float64(50 + g.rng.Intn(51))
}

// UpdateSensors drifts a node's readings one tick and returns a NodeRow ready
// for DB write. Drift rates scale with compromise severity so the dashboard
// shows a health signal without inspecting status directly.
func (g *Generator) UpdateSensors(n *Node) NodeRow {
	switch n.Status {
	case StatusCompromised:
		n.Temperature += g.uniform(0, 1)
		n.Battery -= g.uniform(0.5, 1)
	case StatusRogue:
		n.Temperature += g.uniform(1, 2)
		n.Battery -= g.uniform(1, 2)
	default:
		n.Temperature += g.uniform(-0.5, 0.5)
		n.Battery -= g.uniform(0, 0.5)
	}
	n.Temperature = clamp(n.Temperature, 0, 100)
	n.Battery = clamp(n.Battery, 0, 100)

	return NodeRow{
		SessionID:   g.SessionID,
		NodeID:      n.ID,
		Status:      n.Status,
		Temperature: n.Temperature,
		Battery:     n.Battery,
		Timestamp:   g.now().UTC(),
	}
}

func (g *Generator) uniform(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
