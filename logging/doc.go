// Package logging provides a minimal logging interface and adapters for beachparty.
//
// The Logger interface defines the structured logging methods (Debug, Info, Warn,
// Error) that executors, provisioners and transports use for observability. All
// methods take slog style key/value pairs. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NewLogger building a json or text slog handler from a LoggerConfig
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelInfo, Format: "text"})
//	logger = logging.With(logger, "agent", "beach")
package logging
