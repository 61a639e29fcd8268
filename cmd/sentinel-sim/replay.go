package main

import (
	"github.com/spf13/cobra"

	"sentinel-sim/internal/sim"
)

var (
	replaySpeed float64
	replayJSON  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <telemetry.jsonl>",
	Short: "Replay a recorded telemetry log",
	Long:  "replay re-emits node rows from a JSONL log through the configured writer, preserving (or accelerating) their original pacing.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var writer sim.TelemetryWriter
		if replayJSON {
			writer = &sim.StdoutWriter{}
		} else {
			writer = sim.NewColorStdoutWriter()
		}
		return sim.ReplayLogFile(args[0], writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1, "Playback speed multiplier (<=0 disables delays)")
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "Print rows as JSON lines")
}
