// Package logger provides structured key-value logging for all components.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger with an alternating key-value call surface.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger for the named component, writing to stderr.
// The level is read from LOG_LEVEL (debug|info|warn|error); default info.
func New(component string) *Logger {
	return NewWithWriter(component, os.Stderr)
}

// NewWithWriter creates a logger for the named component writing to w.
func NewWithWriter(component string, w io.Writer) *Logger {
	zl := zerolog.New(w).
		Level(parseLevel(os.Getenv("LOG_LEVEL"))).
		With().
		Timestamp().
		Str("component", component).
		Logger()
	return &Logger{zl: zl}
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// With returns a child logger with the given key-value pairs attached to
// every entry.
func (l *Logger) With(keyvals ...any) *Logger {
	zc := l.zl.With()
	for i := 0; i+1 < len(keyvals); i += 2 {
		zc = zc.Interface(keyString(keyvals[i]), keyvals[i+1])
	}
	return &Logger{zl: zc.Logger()}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, keyvals ...any) {
	emit(l.zl.Debug(), msg, keyvals)
}

// Info logs at info level.
func (l *Logger) Info(msg string, keyvals ...any) {
	emit(l.zl.Info(), msg, keyvals)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, keyvals ...any) {
	emit(l.zl.Warn(), msg, keyvals)
}

// Error logs at error level.
func (l *Logger) Error(msg string, keyvals ...any) {
	emit(l.zl.Error(), msg, keyvals)
}

func emit(e *zerolog.Event, msg string, keyvals []any) {
	for i := 0; i+1 < len(keyvals); i += 2 {
		key := keyString(keyvals[i])
		switch v := keyvals[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case string:
			e = e.Str(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	if len(keyvals)%2 != 0 {
		e = e.Interface("arg", keyvals[len(keyvals)-1])
	}
	e.Msg(msg)
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}
