// Package ports defines the core interfaces for the application.
package ports

// Logger defines the interface for user-facing progress output.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Info logs a progress message. Args are slog-style key/value pairs.
	Info(msg string, args ...any)

	// Success logs a completed step.
	Success(msg string, args ...any)

	// Warn logs a non-fatal condition, e.g. an optional package degrading.
	Warn(msg string, args ...any)

	// Error logs a failure.
	Error(msg string, args ...any)
}
