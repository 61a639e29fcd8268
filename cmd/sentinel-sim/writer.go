package main

import (
	"fmt"
	"os"

	"sentinel-sim/internal/sim"
)

// newWriters builds the telemetry/event writer chain. GreptimeDB is used when
// GREPTIMEDB_ENDPOINT is set and printOnly is false; otherwise rows go to
// STDOUT (colorized unless JSON output was requested). An optional JSONL log
// file is fanned in via MultiWriter.
func newWriters(printOnly, jsonOutput, useTUI bool, logFile string) (sim.TelemetryWriter, sim.EventWriter, *sim.TUIWriter, func(), error) {
	var writer sim.TelemetryWriter
	var eventWriter sim.EventWriter
	var tui *sim.TUIWriter
	cleanup := func() {}

	switch {
	case useTUI:
		tui = sim.NewTUIWriter()
		writer = tui
		eventWriter = tui
		cleanup = func() { _ = tui.Close() }
	case !printOnly && os.Getenv("GREPTIMEDB_ENDPOINT") != "":
		endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
		database := os.Getenv("GREPTIMEDB_DATABASE")
		if database == "" {
			database = "public"
		}
		gw, err := sim.NewGreptimeDBWriter(endpoint, database)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("init GreptimeDB writer: %w", err)
		}
		writer = gw
		eventWriter = gw
	case jsonOutput:
		sw := &sim.StdoutWriter{}
		writer = sw
		eventWriter = sw
	default:
		cw := sim.NewColorStdoutWriter()
		writer = cw
		eventWriter = cw
	}

	if logFile != "" {
		fw, err := sim.NewFileWriter(logFile, logFile+".events")
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("create log file: %w", err)
		}
		prev := cleanup
		cleanup = func() {
			prev()
			_ = fw.Close()
		}
		mw := sim.NewMultiWriter(
			[]sim.TelemetryWriter{writer, fw},
			[]sim.EventWriter{eventWriter, fw},
		)
		writer = mw
		eventWriter = mw
	}

	return writer, eventWriter, tui, cleanup, nil
}
