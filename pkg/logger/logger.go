// Package logger builds the application slog.Logger from environment
// configuration: JSON output for production aggregation, text for local
// development, with the service name stamped on every record.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Config holds the logging settings.
type Config struct {
	Level   slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	Format  string     `env:"LOG_FORMAT" envDefault:"json"` // "json" or "text"
	Service string     `env:"LOG_SERVICE" envDefault:"wickandflame"`
}

// New builds a logger from config. Unknown formats fall back to JSON so a
// typo in the environment degrades output style, never startup.
func New(cfg Config) *slog.Logger {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput is New with an explicit output destination, used by tests.
func NewWithOutput(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	log := slog.New(handler)
	if cfg.Service != "" {
		log = log.With(slog.String("service", cfg.Service))
	}
	return log
}
