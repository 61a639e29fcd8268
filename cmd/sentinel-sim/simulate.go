package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sentinel-sim/internal/admin"
	"sentinel-sim/internal/config"
	"sentinel-sim/internal/logging"
	"sentinel-sim/internal/sim"
)

var (
	simPrintOnly  bool
	simJSON       bool
	simTUI        bool
	simConfigPath string
	simSchemaPath string
	simTick       time.Duration
	simLogFile    string
	simAdminAddr  string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the real-time sentinel network simulator",
	Long:  "simulate starts the propagation engine, emitting node telemetry and security events until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New()

		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}

		writer, eventWriter, tui, cleanup, err := newWriters(simPrintOnly, simJSON, simTUI, simLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		sessionID := os.Getenv("SESSION_ID")
		if sessionID == "" {
			sessionID = "sentinel-" + uuid.New().String()[:8]
		}

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer cancel()

		simulator := sim.NewSimulator(sessionID, cfg, writer, eventWriter, tickInterval)
		if tui != nil {
			tui.SetCommander(simulator)
		}

		srv := admin.NewServer(simulator)
		go func() {
			logger.Info("admin UI listening", "addr", simAdminAddr)
			if err := srv.Start(ctx, simAdminAddr); err != nil && err != http.ErrServerClosed {
				logger.Error("admin server failed", "err", err)
				os.Exit(1)
			}
		}()

		go simulator.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		logger.Info("sentinel simulation stopped")
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print telemetry to STDOUT instead of writing to DB")
	simulateCmd.Flags().BoolVar(&simJSON, "json", false, "Print telemetry as JSON lines instead of colorized output")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render the interactive dashboard")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	simulateCmd.Flags().DurationVar(&simTick, "tick", time.Second, "Propagation tick interval (e.g. 500ms, 2s)")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export telemetry/event logs (JSONL)")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin-addr", ":8080", "Admin UI listen address")
}
