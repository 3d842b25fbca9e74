package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logger configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // json or text
	Sentry SentryConfig
}

// New creates a JSON-formatted logger with optional context extractors.
func New(extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewLogHandlerDecorator(newHandler(os.Stdout, "json", slog.LevelInfo), extractors...))
}

// NewFromConfig builds a logger from cfg, writing to w.
// Sentry is attached when cfg.Sentry.DSN is set.
func NewFromConfig(w io.Writer, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	handler := newHandler(w, cfg.Format, ParseLevel(cfg.Level))
	if cfg.Sentry.DSN != "" {
		if sentryHandler, ok := newSentryHandler(handler, cfg.Sentry); ok {
			handler = sentryHandler
		}
	}
	return slog.New(NewLogHandlerDecorator(handler, extractors...))
}

// ParseLevel maps debug, info, warn and error to slog levels. Unknown values mean info.
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

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
