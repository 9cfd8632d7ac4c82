package logging

import (
	"context"
	"log/slog"
	"os"
)

// Logger is a thin wrapper around slog.Logger so callers don't import slog
// everywhere and the output format stays in one place.
type Logger struct {
	l *slog.Logger
}

// NewLogger creates a logger. Development mode uses a human-readable text
// handler at debug level; production uses JSON at info level.
func NewLogger(isDevelopment bool) *Logger {
	var handler slog.Handler
	if isDevelopment {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{l: slog.New(handler)}
}

// WithFields returns a logger that includes the given fields on every record.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{l: l.l.With(args...)}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.l.Debug(msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.l.Info(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.l.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.l.Error(msg, args...)
}

// Log emits a record at an arbitrary level; used by the request middleware
// to pick the level from the response status.
func (l *Logger) Log(ctx context.Context, level slog.Level, msg string, args ...any) {
	l.l.Log(ctx, level, msg, args...)
}
