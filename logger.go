package rvec

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/rvec/lazyload"
)

// Logger wraps slog.Logger with rvec-specific context.
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithContextID tags every record with the execution context ID.
func (l *Logger) WithContextID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("context_id", id),
	}
}

// WithPath adds a lazy-load database path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// LogEval logs an evaluation.
func (l *Logger) LogEval(ctx context.Context, warnings int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "eval failed",
			"warnings", warnings,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "eval completed",
			"warnings", warnings,
		)
	}
}

// LogImport logs a cross-context import.
func (l *Logger) LogImport(ctx context.Context, typeName string, err error) {
	if err != nil {
		l.WarnContext(ctx, "import refused",
			"type", typeName,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "import completed",
			"type", typeName,
		)
	}
}

// LogInsert logs a lazy-load insert.
func (l *Logger) LogInsert(ctx context.Context, path string, key lazyload.Key, err error) {
	if err != nil {
		l.ErrorContext(ctx, "lazy-load insert failed",
			"path", path,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "lazy-load insert completed",
			"path", path,
			"offset", key.Offset,
			"length", key.Length,
		)
	}
}

// LogFetch logs a lazy-load fetch.
func (l *Logger) LogFetch(ctx context.Context, path string, key lazyload.Key, err error) {
	if err != nil {
		l.ErrorContext(ctx, "lazy-load fetch failed",
			"path", path,
			"offset", key.Offset,
			"length", key.Length,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "lazy-load fetch completed",
			"path", path,
			"offset", key.Offset,
		)
	}
}

// LogWriteTable logs a table written to the blob store.
func (l *Logger) LogWriteTable(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write.table failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "table written",
			"name", name,
		)
	}
}

// LogClose logs context teardown.
func (l *Logger) LogClose(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "context close failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "context closed")
	}
}
