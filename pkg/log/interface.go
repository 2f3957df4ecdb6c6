// Package log provides the structured logging interface used across arbor.
//
// Loggers are backed by zerolog and emit one JSON object per record. Fields are passed
// as alternating key/value pairs, using the keys declared in attributes.go:
//
//	logger := log.GetLoggerWithName("tree").With(log.AlgorithmKey, "cart")
//	logger.Info("fit completed",
//	    log.SamplesKey, 30,
//	    log.CacheHitRateKey, 0.42,
//	)
//
// An error passed as the first field, or as the value of any key, is written together
// with the stack trace recorded by cockroachdb/errors.
package log

import (
	"context"
)

// Logger is a leveled, structured logger.
type Logger interface {
	// Debug logs detailed diagnostic information such as individual split decisions.
	Debug(msg string, fields ...any)

	// Info logs general operational information.
	Info(msg string, fields ...any)

	// Warn logs conditions that do not stop the operation, like an unseen category
	// resolved by fallback.
	Warn(msg string, fields ...any)

	// Error logs error conditions. If the first field is an error it is recorded under
	// the "error" key with its stack trace.
	Error(msg string, fields ...any)

	// With returns a Logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether records at level would be emitted.
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging level. The values match log/slog.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the upper-case name of the level.
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

// LoggerProvider creates loggers that share one output and level.
type LoggerProvider interface {
	// GetLogger returns the root logger.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel changes the minimum level of loggers created afterwards.
	SetLevel(level Level)
}
