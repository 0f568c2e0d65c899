package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger for a kiosk binary and returns it.
// Development gets a human readable console writer; everything else gets JSON
// with timestamps and caller info.
func Init(service, env, level string) zerolog.Logger {
	return InitWriter(os.Stdout, service, env, level)
}

// InitWriter is Init with an explicit destination.
func InitWriter(out io.Writer, service, env, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(level))

	var logger zerolog.Logger
	if env == "dev" || env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
		}).With().
			Timestamp().
			Str("service", service).
			Logger()
	} else {
		logger = zerolog.New(out).
			With().
			Timestamp().
			Caller().
			Str("service", service).
			Logger()
	}

	log.Logger = logger
	return logger
}

// ParseLevel maps a LOG_LEVEL value onto a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
