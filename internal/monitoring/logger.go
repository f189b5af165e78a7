// Package monitoring - logger.go provides structured logging via zerolog.
//
// DESIGN: Thin setup around the global zerolog logger. Components log via
// github.com/rs/zerolog/log; Global() is called once at startup and on
// failure to open a file sink the process must not start (the log stream
// is the only evidence the watcher leaves behind).
package monitoring

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggerConfig controls the global logger.
type LoggerConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Global configures the process-wide zerolog logger.
func Global(cfg LoggerConfig) error {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var writer io.Writer
	switch cfg.Output {
	case "stdout", "":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log output '%s': %w", cfg.Output, err)
		}
		writer = f
	}

	if cfg.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return nil
}
