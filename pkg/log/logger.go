package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	arborerrors "github.com/ctreelab/arbor/pkg/errors"
)

// zerologLogger implements Logger on top of zerolog. Fields added through With are kept
// as pairs and applied to each event, so error values get the same treatment everywhere.
type zerologLogger struct {
	zl     zerolog.Logger
	fields []any
}

// NewLogger returns a Logger writing JSON records to w at level or above.
func NewLogger(w io.Writer, level Level) Logger {
	zl := zerolog.New(zerolog.SyncWriter(w)).
		Level(toZerologLevel(level)).
		With().Timestamp().Logger()
	return &zerologLogger{zl: zl}
}

func (l *zerologLogger) Debug(msg string, fields ...any) { l.emit(l.zl.Debug(), msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...any)  { l.emit(l.zl.Info(), msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { l.emit(l.zl.Warn(), msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...any) { l.emit(l.zl.Error(), msg, fields) }

func (l *zerologLogger) With(fields ...any) Logger {
	merged := make([]any, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &zerologLogger{zl: l.zl, fields: merged}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.zl.GetLevel()
}

func (l *zerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	e = appendFields(e, l.fields)
	e = appendFields(e, fields)
	e.Msg(msg)
}

// appendFields writes key/value pairs to e. A leading unpaired error is written under
// ErrorKey. Error values carry their stack trace, and zerolog object marshalers (the
// arbor error and warning types) are written as nested objects.
func appendFields(e *zerolog.Event, fields []any) *zerolog.Event {
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			e = appendError(e, ErrorKey, err)
			fields = fields[1:]
		}
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			e = e.Object(key, v)
		case error:
			e = appendError(e, key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}

func appendError(e *zerolog.Event, key string, err error) *zerolog.Event {
	e = e.AnErr(key, err)
	if m, ok := errors.UnwrapAll(err).(zerolog.LogObjectMarshaler); ok {
		e = e.Object(ErrorTypeKey, m)
	}
	if st := extractStacktrace(err); st != "" {
		e = e.Str(StacktraceKey, st)
	}
	return e
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ParseLevel converts "debug", "info", "warn" or "error" to a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, arborerrors.NewConfigurationError("log_level", level, "expected one of debug, info, warn, error")
	}
}

// ===========================================================================
//
//	Global provider
//
// ===========================================================================

type zerologProvider struct {
	mu    sync.RWMutex
	out   io.Writer
	level Level
	root  Logger
}

// NewProvider returns a LoggerProvider whose loggers write to w.
func NewProvider(w io.Writer, level Level) LoggerProvider {
	return &zerologProvider{out: w, level: level, root: NewLogger(w, level)}
}

func (p *zerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.root
}

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

func (p *zerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	p.root = NewLogger(p.out, level)
}

var (
	providerMu      sync.RWMutex
	defaultProvider LoggerProvider = NewProvider(os.Stderr, LevelWarn)
)

// SetProvider replaces the process wide provider.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	defaultProvider = p
}

func provider() LoggerProvider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider
}

// GetLogger returns the root logger of the process wide provider.
func GetLogger() Logger { return provider().GetLogger() }

// GetLoggerWithName returns a component logger from the process wide provider.
func GetLoggerWithName(name string) Logger { return provider().GetLoggerWithName(name) }

// SetLevel changes the level of the process wide provider.
func SetLevel(level Level) { provider().SetLevel(level) }

// Setup configures process wide logging: records use "severity" and "message" field names,
// are written to w at the parsed level, and warnings raised through pkg/errors.Warn are
// routed to the "warnings" component logger.
func Setup(level string, w io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.LevelFieldName = "severity"
	zerolog.MessageFieldName = "message"

	SetProvider(NewProvider(w, lvl))
	arborerrors.SetZerologWarnFunc(func(warning error) {
		GetLoggerWithName("warnings").Warn(warning.Error(), WarningKey, warning)
	})
	return nil
}
