package sim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_ticks_total",
		Help: "Number of completed propagation ticks.",
	})
	infectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_infections_total",
		Help: "Number of nodes compromised by Rogue neighbors.",
	})
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_commands_total",
		Help: "Operator commands executed, by command.",
	}, []string{"command"})
	eventWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_event_write_failures_total",
		Help: "Security event rows that could not be delivered to the event writer.",
	})
	nodesByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sentinel_nodes",
		Help: "Current node count by security status.",
	}, []string{"status"})
)
