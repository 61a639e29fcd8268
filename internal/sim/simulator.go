// Simulator orchestrating sensor nodes and compromise spread
package sim

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"sentinel-sim/internal/config"
	"sentinel-sim/internal/eventlog"
	"sentinel-sim/internal/telemetry"
	"sentinel-sim/internal/topology"
)

// TelemetryWriter is an interface to support different output writers.
type TelemetryWriter interface {
	Write(telemetry.NodeRow) error
}

// EventWriter handles security event rows.
type EventWriter interface {
	WriteEvent(telemetry.EventRow) error
}

// Optional: writers can also support batch mode
type batchWriter interface {
	WriteBatch([]telemetry.NodeRow) error
}

// Optional: event writers may support batch mode
type batchEventWriter interface {
	WriteEvents([]telemetry.EventRow) error
}

// Defaults matching the reference deployment.
const (
	DefaultNodeCount            = 12
	DefaultEdgeProbability      = 0.3
	DefaultTopologySeed         = 42
	DefaultInfectionProbability = 0.05
)

// Simulator owns the node states, topology, and event log, and serializes
// every tick and command under one mutex.
type Simulator struct {
	sessionID     string
	nodes         []*telemetry.Node
	graph         *topology.Graph
	teleGen       *telemetry.Generator
	log           *eventlog.Log
	writer        TelemetryWriter
	eventWriter   EventWriter
	tickInterval  time.Duration
	infectionProb float64
	rng           *rand.Rand
	now           func() time.Time
	mu            sync.Mutex
}

// NewSimulator builds the node set and fixed topology from config.
// writer and eventWriter may be nil to discard output.
func NewSimulator(sessionID string, cfg *config.SimulationConfig, writer TelemetryWriter, eventWriter EventWriter, tickInterval time.Duration) *Simulator {
	if cfg == nil {
		cfg = &config.SimulationConfig{}
	}
	count := cfg.NodeCount
	if count <= 0 {
		count = DefaultNodeCount
	}
	edgeProb := cfg.EdgeProbability
	if edgeProb <= 0 {
		edgeProb = DefaultEdgeProbability
	}
	seed := cfg.TopologySeed
	if seed == 0 {
		seed = DefaultTopologySeed
	}
	infection := DefaultInfectionProbability
	if cfg.InfectionProbability != nil {
		infection = *cfg.InfectionProbability
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	s := &Simulator{
		sessionID:     sessionID,
		graph:         topology.NewErdosRenyi(count, edgeProb, seed),
		teleGen:       telemetry.NewGenerator(sessionID, rng),
		log:           eventlog.New(cfg.EventLogSize),
		writer:        writer,
		eventWriter:   eventWriter,
		tickInterval:  tickInterval,
		infectionProb: infection,
		rng:           rng,
		now:           time.Now,
	}
	for i := 0; i < count; i++ {
		s.nodes = append(s.nodes, s.teleGen.NewNode(i))
	}
	return s
}

// InjectRogue turns one uniformly chosen Healthy node Rogue. With no Healthy
// node available it only logs; that is the sole precondition failure in the
// system and it is informational, not an error.
func (s *Simulator) InjectRogue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	commandsTotal.WithLabelValues("inject_rogue").Inc()

	var healthy []*telemetry.Node
	for _, n := range s.nodes {
		if n.Status == telemetry.StatusHealthy {
			healthy = append(healthy, n)
		}
	}
	if len(healthy) == 0 {
		s.recordEvent(telemetry.EventCommand, -1, -1, "No Healthy node available to inject Rogue")
		return
	}
	n := healthy[s.rng.Intn(len(healthy))]
	n.Status = telemetry.StatusRogue
	s.recordEvent(telemetry.EventCommand, n.ID, -1, fmt.Sprintf("Node %d injected as Rogue", n.ID))
}

// HealAll returns every Compromised node to Healthy. Rogue nodes are not
// cured; healing removes the downstream infection only.
func (s *Simulator) HealAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	commandsTotal.WithLabelValues("heal_all").Inc()

	for _, n := range s.nodes {
		if n.Status != telemetry.StatusCompromised {
			continue
		}
		n.Status = telemetry.StatusHealthy
		s.recordEvent(telemetry.EventCommand, n.ID, -1, fmt.Sprintf("Node %d healed to Healthy", n.ID))
	}
}

// DetectThreats logs the current Rogue node ids without mutating any state.
func (s *Simulator) DetectThreats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	commandsTotal.WithLabelValues("detect_threats").Inc()

	rogues := []int{}
	for _, n := range s.nodes {
		if n.Status == telemetry.StatusRogue {
			rogues = append(rogues, n.ID)
		}
	}
	s.recordEvent(telemetry.EventCommand, -1, -1, fmt.Sprintf("Detected Rogue Nodes: %v", rogues))
}

// Reset re-randomizes every node back to Healthy and clears the event log,
// leaving the reset notice as its only entry. The topology is untouched.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	commandsTotal.WithLabelValues("reset").Inc()

	for _, n := range s.nodes {
		s.teleGen.Randomize(n)
	}
	s.log.Clear()
	s.recordEvent(telemetry.EventCommand, -1, -1, "Network Reset to Healthy State")
}

// recordEvent appends to the bounded log and forwards the row to the event
// writer. Callers must hold s.mu.
func (s *Simulator) recordEvent(kind string, nodeID, sourceID int, message string) {
	s.log.Append(message)
	if s.eventWriter == nil {
		return
	}
	row := telemetry.EventRow{
		SessionID: s.sessionID,
		Kind:      kind,
		NodeID:    nodeID,
		SourceID:  sourceID,
		Message:   message,
		Timestamp: s.now().UTC(),
	}
	if err := s.eventWriter.WriteEvent(row); err != nil {
		// Event delivery is best-effort; the in-memory log stays authoritative.
		eventWriteFailures.Inc()
	}
}

// Snapshot returns the latest state for all nodes.
func (s *Simulator) Snapshot() []telemetry.NodeRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]telemetry.NodeRow, 0, len(s.nodes))
	ts := s.now().UTC()
	for _, n := range s.nodes {
		rows = append(rows, telemetry.NodeRow{
			SessionID:   s.sessionID,
			NodeID:      n.ID,
			Status:      n.Status,
			Temperature: n.Temperature,
			Battery:     n.Battery,
			Timestamp:   ts,
		})
	}
	return rows
}

// Events returns a copy of the event log in insertion order.
func (s *Simulator) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Entries()
}

// TopologyData carries the static graph for layout rendering.
type TopologyData struct {
	Nodes []int    `json:"nodes"`
	Edges [][2]int `json:"edges"`
}

// Topology returns the node id set and edge set. The graph never changes, so
// no lock is needed.
func (s *Simulator) Topology() TopologyData {
	nodes := make([]int, s.graph.NodeCount())
	for i := range nodes {
		nodes[i] = i
	}
	edges := s.graph.Edges()
	out := make([][2]int, len(edges))
	copy(out, edges)
	return TopologyData{Nodes: nodes, Edges: out}
}

// NetworkHealth summarizes status counts across the network.
type NetworkHealth struct {
	Total       int `json:"total"`
	Healthy     int `json:"healthy"`
	Compromised int `json:"compromised"`
	Rogue       int `json:"rogue"`
}

// Health returns aggregated status counts.
func (s *Simulator) Health() NetworkHealth {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthLocked()
}

func (s *Simulator) healthLocked() NetworkHealth {
	h := NetworkHealth{Total: len(s.nodes)}
	for _, n := range s.nodes {
		switch n.Status {
		case telemetry.StatusCompromised:
			h.Compromised++
		case telemetry.StatusRogue:
			h.Rogue++
		default:
			h.Healthy++
		}
	}
	return h
}

// SessionID returns the session identifier tagged onto every row.
func (s *Simulator) SessionID() string { return s.sessionID }
