// Package logging configures the zerolog logger shared by the offset-page
// packages and binaries.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs every page plan and fetch.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs requests served and sources opened.
	LevelInfo LogLevel = "info"

	// LevelWarn logs upstream failures.
	LevelWarn LogLevel = "warn"

	// LevelError logs failures that abort a request.
	LevelError LogLevel = "error"
)

// Component names used with NewLogger.
const (
	ComponentAdapter = "offsetpage"
	ComponentHTTP    = "httpsource"
	ComponentRedis   = "redissource"
	ComponentProxy   = "offset-proxy"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(string(cfg.Level)))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a logger derived from the global one with the given
// component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: page loop internals
//   - Page plans (page, size, delivered)
//   - Loop termination reason
//   - Rejected pagination requests
//
// Info: request level events
//   - Proxy requests served (offset, limit, fetched)
//   - Server startup/shutdown
//
// Warn: upstream trouble that reaches the caller
//   - HTTP status errors and transport failures
//   - Undecodable items in Redis
//
// Error: the binary cannot serve
//   - Configuration errors
//   - Redis unreachable at startup
//
// Context Fields:
//   - component: emitting package
//   - page, size: page plan
//   - delivered: planning baseline
//   - streamed: items yielded by one execution
//   - status_code, error_class: upstream failures
