// Package logging configures the process-wide zerolog logger.
//
// The engine never surfaces failures through panics or dialogs; everything
// lands in the event log and here, so the logger is initialized once at
// startup and shared by all packages.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls logger initialization.
type Config struct {
	// Level is the minimum level to emit: "debug", "info", "warn", "error".
	Level string
	// Format is "console" for human-readable output or "json".
	Format string
	// Component is an optional component name attached to every record.
	Component string
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
	}
}

var setupOnce sync.Once

// Setup initializes the global zerolog logger. Safe to call more than once;
// only the first call takes effect.
func Setup(cfg Config) {
	setupOnce.Do(func() {
		level := parseLevel(cfg.Level)
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = time.RFC3339

		var w io.Writer = os.Stderr
		if cfg.Format != "json" {
			w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		}

		logger := zerolog.New(w).With().Timestamp()
		if cfg.Component != "" {
			logger = logger.Str("component", cfg.Component)
		}
		log.Logger = logger.Logger()
	})
}

// parseLevel maps a level name to a zerolog level, defaulting to info.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "trace":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}
