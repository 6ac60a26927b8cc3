package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/mrsinham/srforge/internal/config"
)

// newLogger writes to w in the configured format. verbose forces debug level.
func newLogger(cfg *config.Config, w io.Writer, verbose bool) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	var logger zerolog.Logger
	if cfg.LogFormat == "json" {
		logger = zerolog.New(w)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true})
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}
