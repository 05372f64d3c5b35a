// Package logging provides the leveled logger used by the command line,
// server and terminal UI. It is backed by charmbracelet/log.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

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

func (l Level) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	case LevelInfo:
		return log.InfoLevel
	default:
		return log.FatalLevel
	}
}

// ParseLevel parses a log level string, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a leveled, printf-style logger.
type Logger struct {
	l *log.Logger
}

// New creates a logger writing to stderr with "HH:MM:SS.ms" timestamps.
func New(level Level) *Logger {
	return &Logger{l: log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level.charm(),
	})}
}

// SetOutput sets the log output destination.
func (l *Logger) SetOutput(w io.Writer) { l.l.SetOutput(w) }

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) { l.l.SetLevel(level.charm()) }

// WithPrefix returns a logger that prefixes every message.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{l: l.l.WithPrefix(prefix)}
}

// With returns a logger that appends key/value pairs to every message.
func (l *Logger) With(keyvals ...any) *Logger {
	return &Logger{l: l.l.With(keyvals...)}
}

func (l *Logger) Debug(format string, args ...any) { l.l.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.l.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.l.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...any) { l.l.Errorf(format, args...) }

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return &Logger{l: log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})}
}
