package config

import (
	"io"
	"log/slog"

	"github.com/jpl-au/nrdb"
)

// Logger builds the CLI logger writing to w. The config must have passed
// Validate.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := c.Level()
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Database returns the engine configuration for this CLI config.
func (c *Config) Database(log *slog.Logger) nrdb.Config {
	alg, _ := c.HashAlgorithm()
	return nrdb.Config{
		HashAlgorithm: alg,
		SkipSync:      c.SkipSync,
		Logger:        log,
	}
}
