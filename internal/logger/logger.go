package logger

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a config level name to a slog level, defaulting to info
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New builds the CLI logger and installs it as the slog default.
// format "json" selects the JSON handler, anything else the text handler.
func New(w io.Writer, level, format string) *slog.Logger {
	lvl, ok := ParseLevel(level)

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	if !ok {
		l.Warn("invalid log level, defaulting to info", "configured", level)
	}
	return l
}
