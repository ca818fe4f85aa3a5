package memstore

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with memstore-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithNamespace adds a namespace field to the logger.
func (l *Logger) WithNamespace(ns Namespace) *Logger {
	return &Logger{
		Logger: l.Logger.With("namespace", ns.String()),
	}
}

// WithKey adds a key field to the logger.
func (l *Logger) WithKey(key string) *Logger {
	return &Logger{
		Logger: l.Logger.With("key", key),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogBatch logs a batch invocation.
func (l *Logger) LogBatch(ctx context.Context, ops int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch failed",
			"ops", ops,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "batch completed",
			"ops", ops,
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, query string, resultsFound int) {
	l.DebugContext(ctx, "search completed",
		"query", query,
		"results", resultsFound,
	)
}

// LogEmbedding logs an embedding round-trip.
func (l *Logger) LogEmbedding(ctx context.Context, texts int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "embedding failed",
			"texts", texts,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "embedding completed",
			"texts", texts,
		)
	}
}
