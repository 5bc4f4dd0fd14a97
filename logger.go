package ocrknn

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with pipeline-specific context.
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
	return NewWriterLogger(os.Stderr, level, true)
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewWriterLogger(os.Stderr, level, false)
}

// NewWriterLogger creates a Logger that writes to w, as JSON if json is set.
func NewWriterLogger(w io.Writer, level slog.Level, json bool) *Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
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

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithWorkers adds a worker count field to the logger.
func (l *Logger) WithWorkers(workers int) *Logger {
	return &Logger{
		Logger: l.Logger.With("workers", workers),
	}
}

// WithDataset adds a dataset name field to the logger.
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dataset", name),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogLoad logs a dataset load.
func (l *Logger) LogLoad(ctx context.Context, name string, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"dataset", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dataset loaded",
			"dataset", name,
			"records", records,
		)
	}
}

// LogClassify logs a classification run.
func (l *Logger) LogClassify(ctx context.Context, queries, references, k int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "classify failed",
			"queries", queries,
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "classify completed",
			"queries", queries,
			"references", references,
			"k", k,
		)
	}
}

// LogEvaluate logs an evaluation.
func (l *Logger) LogEvaluate(ctx context.Context, total, correct int, accuracy float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "evaluate failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "evaluation completed",
			"total", total,
			"correct", correct,
			"accuracy", accuracy,
		)
	}
}

// LogExport logs a debug image export.
func (l *Logger) LogExport(ctx context.Context, dir string, images int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "export failed",
			"dir", dir,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "images exported",
			"dir", dir,
			"images", images,
		)
	}
}
