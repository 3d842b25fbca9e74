package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// MinLevel determines which log levels to send to Sentry (e.g., slog.LevelWarn for warnings+errors)
	MinLevel slog.Level
}

// NewWithSentry creates a logger that sends logs to both stdout and Sentry.
// If DSN is empty, only stdout logging is enabled.
func NewWithSentry(cfg SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	return NewFromConfig(os.Stdout, Config{Level: "info", Format: "json", Sentry: cfg}, extractors...)
}

// newSentryHandler fans out to next and Sentry. It reports false if the SDK
// could not be initialized, in which case only next should be used.
func newSentryHandler(next slog.Handler, cfg SentryConfig) (slog.Handler, bool) {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(next).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return nil, false
	}

	// Errors become Sentry issues; warnings are kept as searchable logs.
	eventLevel := []slog.Level{slog.LevelError}
	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: eventLevel,
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return newMultiHandler(next, sentryHandler), true
}
