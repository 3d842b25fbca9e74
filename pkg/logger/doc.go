// Package logger builds slog loggers with context extraction and optional Sentry reporting.
//
// Context extractors pull request-scoped values out of a context on every log
// call. The package ships TemplateExtractor, which adds the email template name
// stored with WithTemplate:
//
//	log := logger.NewFromConfig(os.Stderr, logger.Config{Level: "debug", Format: "text"},
//		logger.TemplateExtractor,
//	)
//	ctx := logger.WithTemplate(context.Background(), "welcome")
//	log.ErrorContext(ctx, "failed to send email")
//	// level=ERROR msg="failed to send email" template=welcome
//
// When Config.Sentry.DSN is set, records are also sent to Sentry: errors create
// issues, warnings are stored as logs. If the SDK fails to initialize, logging
// continues on the primary handler only.
//
// NewNope returns a logger that discards everything.
package logger
