package lexgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with lexgo-specific helpers. It provides
// structured logging with consistent field names across the engine.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. If handler is
// nil, a default text handler to stderr is used.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogAdd logs a document add operation.
func (l *Logger) LogAdd(ctx context.Context, docID uint32, fields int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "add failed",
			"doc_id", docID,
			"fields", fields,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "add completed",
			"doc_id", docID,
			"fields", fields,
		)
	}
}

// LogCommit logs a commit operation.
func (l *Logger) LogCommit(ctx context.Context, segmentID uint64, docs int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "commit failed",
			"segment_id", segmentID,
			"docs", docs,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "commit completed",
			"segment_id", segmentID,
			"docs", docs,
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, k, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"k", k,
			"results", resultsFound,
		)
	}
}
