package dsopt

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/dsopt/advice"
	"github.com/hupe1980/dsopt/optimizer"
)

// Logger wraps slog.Logger with dsopt-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
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

// WithStructure adds structure type and name fields to the logger.
func (l *Logger) WithStructure(kind, name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("type", kind, "name", name),
	}
}

// LogCreate logs the creation of a named structure.
func (l *Logger) LogCreate(ctx context.Context, kind, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "structure creation failed",
			"type", kind,
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "structure ready",
			"type", kind,
			"name", name,
		)
	}
}

// LogSuggestions logs each suggestion at a level matching its priority.
func (l *Logger) LogSuggestions(ctx context.Context, suggestions []advice.Suggestion) {
	for _, s := range suggestions {
		level := slog.LevelInfo
		switch s.Priority() {
		case advice.PriorityCritical:
			level = slog.LevelError
		case advice.PriorityHigh:
			level = slog.LevelWarn
		}
		l.Log(ctx, level, s.Message(),
			"type", string(s.Kind()),
			"priority", s.Priority().String(),
		)
	}
}

// LogReport logs the headline figures of a report.
func (l *Logger) LogReport(ctx context.Context, r optimizer.Report) {
	l.InfoContext(ctx, "optimization report",
		"structures", r.Summary.TotalStructures,
		"operations", r.Summary.TotalOperations,
		"estimated_bytes", r.Summary.EstimatedBytes,
		"suggestions", r.Summary.Suggestions,
		"critical", r.Summary.Critical,
		"high", r.Summary.High,
	)
}
