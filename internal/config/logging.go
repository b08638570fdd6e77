package config

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger creates a timestamped logger writing to w, at the level named
// by DRIFT_LOG_LEVEL (debug, info, warn, error; default info).
func NewLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          prefix,
	})
	logger.SetLevel(LogLevel())
	return logger
}

// LogLevel parses DRIFT_LOG_LEVEL, falling back to info.
func LogLevel() log.Level {
	level, err := log.ParseLevel(strings.ToLower(GetEnv(EnvLogLevel, "info")))
	if err != nil {
		return log.InfoLevel
	}
	return level
}
