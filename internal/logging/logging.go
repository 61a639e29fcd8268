// Package logging wires slog through the simulator's contexts.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// New returns the simulator logger: a text handler on STDERR so log lines
// never interleave with telemetry rows on STDOUT. SENTINEL_DEBUG enables
// debug-level output.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("SENTINEL_DEBUG") != "" {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

type ctxKey struct{}

// NewContext stores the logger in ctx for the engine loop and admin server.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or slog.Default() when the
// context carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
