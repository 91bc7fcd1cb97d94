// Package log provides the structured logging interface for the
// liftclass pipeline.
//
// The interface is slog-compatible and implementation-agnostic; the
// shipped provider is backed by zerolog. Structured attribute keys for
// the pipeline's vocabulary (dataset shapes, fold indices, accuracy)
// live in attributes.go so log output stays analyzable.
//
// Example usage:
//
//	provider := log.NewZerologProvider(log.LevelInfo)
//	logger := provider.GetLoggerWithName("trainer")
//	logger.Info("training started",
//	    log.SamplesKey, 15699,
//	    log.FeaturesKey, 52,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are passed as alternating key-value pairs. If the first field
// of Error is an error value it is handled specially: the message is
// logged with the error attached and, when available, the stack trace
// recorded by cockroachdb/errors.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If the first field is an error, stack trace information is
	// included when present.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, value-compatible with slog.Level.
type Level int

// Standard logging levels.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ToLevel parses a level name ("debug", "info", "warn", "error").
// Unknown names map to LevelInfo.
func ToLevel(level string) Level {
	switch level {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// LoggerProvider creates and configures loggers. It exists for
// dependency injection and testing with alternative backends.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for loggers from this provider.
	SetLevel(level Level)
}
