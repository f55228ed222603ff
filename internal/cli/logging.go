package cli

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/automerge/internal/config"
)

// newLogger builds the diagnostic logger. Every record carries the run_id of
// this invocation.
func newLogger(w io.Writer, cfg config.LogConfig, verbose bool) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelWarn
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("run_id", uuid.NewString())
}
