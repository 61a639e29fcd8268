package sim

import (
	"context"
	"fmt"
	"time"

	"sentinel-sim/internal/logging"
	"sentinel-sim/internal/telemetry"
)

// Run starts the simulation loop and stops when the context is done.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "tick_interval", s.tickInterval, "nodes", s.graph.NodeCount(), "edges", s.graph.EdgeCount())
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			log.Info("stopping simulator")
			return
		}
	}
}

// tick drifts sensors, evaluates compromise spread, and writes telemetry.
// One critical section per tick so commands never observe a torn update.
func (s *Simulator) tick(ctx context.Context) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	ticksTotal.Inc()

	// Spread is evaluated against the Rogue set as of tick start; a node
	// turned Rogue mid-tick first spreads on the next tick.
	var rogues []int
	for _, n := range s.nodes {
		if n.Status == telemetry.StatusRogue {
			rogues = append(rogues, n.ID)
		}
	}

	batch := make([]telemetry.NodeRow, 0, len(s.nodes))
	for _, n := range s.nodes {
		batch = append(batch, s.teleGen.UpdateSensors(n))
	}

	// Infections are collected first and applied at tick end, so two Rogue
	// neighbors cannot compromise (and log) the same node twice in a tick.
	var infected []int
	pending := make(map[int]bool)
	for _, id := range rogues {
		for _, nb := range s.graph.Neighbors(id) {
			target := s.nodes[nb]
			if target.Status != telemetry.StatusHealthy || pending[nb] {
				continue
			}
			if s.rng.Float64() < s.infectionProb {
				pending[nb] = true
				infected = append(infected, nb)
				s.recordEvent(telemetry.EventInfection, nb, id, fmt.Sprintf("Node %d compromised by Rogue Node %d", nb, id))
			}
		}
	}
	for _, id := range infected {
		s.nodes[id].Status = telemetry.StatusCompromised
	}
	infectionsTotal.Add(float64(len(infected)))
	s.updateStatusGauges()

	if s.writer == nil {
		return
	}

	// Batch support if writer implements WriteBatch
	if bw, ok := s.writer.(batchWriter); ok {
		if err := bw.WriteBatch(batch); err != nil {
			log.Error("batch write failed", "err", err)
		}
	} else {
		for _, row := range batch {
			if err := s.writer.Write(row); err != nil {
				log.Error("write failed", "node_id", row.NodeID, "err", err)
			}
		}
	}
}

func (s *Simulator) updateStatusGauges() {
	h := s.healthLocked()
	nodesByStatus.WithLabelValues(telemetry.StatusHealthy).Set(float64(h.Healthy))
	nodesByStatus.WithLabelValues(telemetry.StatusCompromised).Set(float64(h.Compromised))
	nodesByStatus.WithLabelValues(telemetry.StatusRogue).Set(float64(h.Rogue))
}
