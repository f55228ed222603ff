package command

import (
	"log/slog"
	"time"
)

type loggingRunner struct {
	next   Runner
	logger *slog.Logger
}

// WithLogging wraps r so every invocation is logged at debug level with its
// argv, exit code and duration.
func WithLogging(r Runner, logger *slog.Logger) Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingRunner{next: r, logger: logger}
}

func (l *loggingRunner) Run(workDir, name string, args ...string) (Outcome, error) {
	start := time.Now()
	out, err := l.next.Run(workDir, name, args...)

	attrs := []any{
		"cmd", String(name, args...),
		"dir", workDir,
		"exit_code", out.ExitCode,
		"duration", time.Since(start),
	}
	if err != nil {
		l.logger.Debug("command failed to start", append(attrs, "error", err)...)
		return out, err
	}
	if !out.Success() {
		attrs = append(attrs, "stderr", out.Diagnostic())
	}
	l.logger.Debug("command finished", attrs...)
	return out, nil
}
