// Package logging builds the structured diagnostic logger used across thermo.
//
// The dashboard owns the terminal, so in interactive mode diagnostics go to a
// file that the UI can tail. Headless mode logs to stderr.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger is a wrapper around an slog.Logger with nil checking, so components
// can be constructed without a logger in tests.
type Logger struct{ logger *slog.Logger }

// Wrap the slog logger. A nil logger discards everything.
func Wrap(logger *slog.Logger) Logger {
	return Logger{logger}
}

// Slog returns the wrapped logger, or a discarding logger when nil.
func (l Logger) Slog() *slog.Logger {
	if l.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.logger
}

// Debug logs at debug level.
func (l Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

// Info logs at info level.
func (l Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Error logs at error level.
func (l Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

// With returns a Logger carrying the given attributes.
func (l Logger) With(args ...any) Logger {
	if l.logger == nil {
		return l
	}
	return Logger{l.logger.With(args...)}
}

func (l Logger) log(level slog.Level, msg string, args ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Log(context.Background(), level, msg, args...)
}

// ParseLevel maps debug/info/warn/error to an slog.Level. Unknown values fall
// back to info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to path, or to stderr when path is empty.
// The returned closer must be called on shutdown.
func New(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: level}
	if strings.TrimSpace(path) == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(file, opts)), file, nil
}
