package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetupLogging configures the global slog default logger with the given
// log level and format ("json" for structured output, anything else for
// human-readable text). All log output is directed to os.Stderr to keep
// stdout clean for proxy-mode output. Grounded on the teacher's
// config.SetupLogging, same idempotent-replace-default-logger contract.
func SetupLogging(level slog.Level, format string) {
	SetupLoggingWithWriter(level, format, os.Stderr)
}

// SetupLoggingWithWriter is SetupLogging with an explicit writer, for
// tests that capture log output in a buffer.
func SetupLoggingWithWriter(level slog.Level, format string, w io.Writer) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ResolveLogLevel determines the slog.Level from CLI flags and the
// CONDENSER_DEBUG environment variable (highest priority), then
// --verbose, then --quiet, defaulting to Info.
func ResolveLogLevel(verbose, quiet bool) slog.Level {
	if os.Getenv("CONDENSER_DEBUG") == "1" {
		return slog.LevelDebug
	}
	if verbose {
		return slog.LevelDebug
	}
	if quiet {
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ResolveLogFormat reads CONDENSER_LOG_FORMAT ("json" or text, default
// text).
func ResolveLogFormat() string {
	if strings.EqualFold(os.Getenv("CONDENSER_LOG_FORMAT"), "json") {
		return "json"
	}
	return "text"
}

// NewLogger returns a child logger with a "component" attribute, so log
// lines can be filtered by subsystem (e.g. "gateway", "upstream").
func NewLogger(component string) *slog.Logger {
	return slog.Default().With("component", component)
}
