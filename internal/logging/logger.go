package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/relabs-tech/gps_datalogger/internal/config"
)

// New builds the operational logger: tint on a terminal-style text
// handler, JSON otherwise. Diagnostics output does not go through it.
func New(cfg *config.Config, appName string) *slog.Logger {
	return NewWithWriter(os.Stderr, cfg, appName)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, cfg *config.Config, appName string) *slog.Logger {
	level := ParseLevel(cfg.LogLevel)

	if cfg.LogFormat == "json" {
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
		return slog.New(h).With("app", appName)
	}

	h := tint.NewHandler(w, &tint.Options{
		Level:      level,
		AddSource:  true,
		TimeFormat: time.Kitchen,
	})
	return slog.New(h).With("app", appName)
}

// ParseLevel maps a config value to a level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
