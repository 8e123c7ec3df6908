package qsimd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with simulator-specific context.
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
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000), // Unreachable level
		})),
	}
}

// WithQubits adds the register size to the logger.
func (l *Logger) WithQubits(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("qubits", n),
	}
}

// WithKind adds a kernel kind field to the logger.
func (l *Logger) WithKind(kind string) *Logger {
	return &Logger{
		Logger: l.Logger.With("kind", kind),
	}
}

// LogGate logs a gate application.
func (l *Logger) LogGate(ctx context.Context, kind string, targets, controls []int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "gate failed",
			"kind", kind,
			"targets", targets,
			"controls", controls,
			"error", err,
		)
		return
	}
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	l.DebugContext(ctx, "gate applied",
		"kind", kind,
		"targets", targets,
		"controls", controls,
		"duration", duration,
	)
}

// LogExpectation logs an expectation value evaluation.
func (l *Logger) LogExpectation(ctx context.Context, kind string, targets []int, value complex128, err error) {
	if err != nil {
		l.ErrorContext(ctx, "expectation failed",
			"kind", kind,
			"targets", targets,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "expectation computed",
		"kind", kind,
		"targets", targets,
		"real", real(value),
		"imag", imag(value),
	)
}

// LogAlloc logs a state allocation.
func (l *Logger) LogAlloc(ctx context.Context, numQubits int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "state allocation failed",
			"qubits", numQubits,
			"bytes", bytes,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "state allocated",
		"qubits", numQubits,
		"bytes", bytes,
	)
}

// LogSnapshot logs a snapshot save or load.
func (l *Logger) LogSnapshot(ctx context.Context, op string, numQubits int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"op", op,
			"qubits", numQubits,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot completed",
		"op", op,
		"qubits", numQubits,
		"bytes", bytes,
	)
}
