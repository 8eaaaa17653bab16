package binstore

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with binstore-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithBin adds a bin field to the logger.
func (l *Logger) WithBin(bin int) *Logger {
	return &Logger{
		Logger: l.Logger.With("bin", bin),
	}
}

// LogSet logs a Set operation.
func (l *Logger) LogSet(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "set failed", "count", count, "error", err)
	} else {
		l.DebugContext(ctx, "set staged", "count", count)
	}
}

// LogGet logs a Get operation.
func (l *Logger) LogGet(ctx context.Context, requested, found int) {
	l.DebugContext(ctx, "get completed", "requested", requested, "found", found)
}

// LogRemove logs a Remove operation.
func (l *Logger) LogRemove(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "remove failed", "count", count, "error", err)
	} else {
		l.DebugContext(ctx, "remove completed", "count", count)
	}
}

// LogSync logs a Sync operation, including per-bin failures if any.
func (l *Logger) LogSync(ctx context.Context, touched, failed int, err error) {
	if err != nil || failed > 0 {
		l.ErrorContext(ctx, "sync completed with failures",
			"touched", touched,
			"failed", failed,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "sync completed",
			"touched", touched,
		)
	}
}

// LogRecovery logs a parity-recovery attempt for a bin.
func (l *Logger) LogRecovery(ctx context.Context, bin int, err error) {
	if err != nil {
		l.WarnContext(ctx, "parity recovery failed",
			"bin", bin,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "parity recovery succeeded",
			"bin", bin,
		)
	}
}

// LogChecksumMismatch logs a shard checksum mismatch.
func (l *Logger) LogChecksumMismatch(ctx context.Context, bin int, path string) {
	l.WarnContext(ctx, "shard checksum mismatch",
		"bin", bin,
		"path", path,
	)
}
