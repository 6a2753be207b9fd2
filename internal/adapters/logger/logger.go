// Package logger implements the logging adapter using log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/droidrun/depbuilder/internal/core/ports"
)

// LevelSuccess sits between info and warn so completed steps can render
// with their own icon while still passing standard level filtering.
const LevelSuccess = slog.LevelInfo + 2

// Logger implements ports.Logger using log/slog.
type Logger struct {
	slogger *slog.Logger
}

// New creates a console-only logger.
func New() *Logger {
	handler := NewPrettyHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &Logger{slogger: slog.New(handler)}
}

// NewWithFiles creates a logger that writes pretty output to the console,
// every record to logFile and warnings and errors to errFile. Either file
// may be nil to skip that sink.
func NewWithFiles(logFile, errFile io.Writer) *Logger {
	handlers := []slog.Handler{
		NewPrettyHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
	}
	if logFile != nil {
		handlers = append(handlers, slog.NewTextHandler(logFile, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	if errFile != nil {
		handlers = append(handlers, slog.NewTextHandler(errFile, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
	}
	return &Logger{slogger: slog.New(newFanoutHandler(handlers...))}
}

var _ ports.Logger = (*Logger)(nil)

// Info logs a progress message.
func (l *Logger) Info(msg string, args ...any) {
	l.slogger.Log(context.Background(), slog.LevelInfo, msg, args...)
}

// Success logs a completed step.
func (l *Logger) Success(msg string, args ...any) {
	l.slogger.Log(context.Background(), LevelSuccess, msg, args...)
}

// Warn logs a non-fatal condition.
func (l *Logger) Warn(msg string, args ...any) {
	l.slogger.Log(context.Background(), slog.LevelWarn, msg, args...)
}

// Error logs a failure.
func (l *Logger) Error(msg string, args ...any) {
	l.slogger.Log(context.Background(), slog.LevelError, msg, args...)
}

// fanoutHandler forwards each record to every underlying handler.
type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanoutHandler(handlers ...slog.Handler) *fanoutHandler {
	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return newFanoutHandler(next...)
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return newFanoutHandler(next...)
}
