// Package app assembles a Mailer and its provider checks from configuration.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/mailbridge/internal/config"
	"github.com/dmitrymomot/mailbridge/pkg/health"
	"github.com/dmitrymomot/mailbridge/pkg/i18n"
	"github.com/dmitrymomot/mailbridge/pkg/mailer"
	"github.com/dmitrymomot/mailbridge/pkg/mailer/mandrill"
	"github.com/dmitrymomot/mailbridge/pkg/mailer/resend"
	"github.com/dmitrymomot/mailbridge/pkg/mailer/sendgrid"
)

// subjectNamespace and subjectKey locate the translated fallback subject.
const (
	subjectNamespace = "mailer"
	subjectKey       = "default_subject"
)

// App holds the wired components.
type App struct {
	Mailer *mailer.Mailer
	Checks health.Checks
	Logger *slog.Logger
}

// New builds the transport for cfg.Provider and a Mailer around it.
func New(cfg config.Config, log *slog.Logger) (*App, error) {
	transport, checks, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}

	opts := []mailer.Option{
		mailer.WithConfig(cfg.Mailer),
		mailer.WithLogger(log),
	}

	if cfg.SettingsFile != "" {
		data, err := os.ReadFile(cfg.SettingsFile)
		if err != nil {
			return nil, fmt.Errorf("app: failed to read settings: %w", err)
		}
		settings, err := mailer.ParseSettings(data)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		opts = append(opts, mailer.WithSettings(settings))
	}

	if cfg.TranslationsDir != "" {
		translations := os.DirFS(cfg.TranslationsDir)
		inst, err := i18n.New(i18n.WithJSONDir(translations), i18n.WithYAMLDir(translations))
		if err != nil {
			return nil, fmt.Errorf("app: failed to load translations: %w", err)
		}
		opts = append(opts, mailer.WithSubjectTranslator(SubjectTranslator(inst)))
	}

	renderer := mailer.NewRenderer(os.DirFS(cfg.TemplatesRoot))

	return &App{
		Mailer: mailer.New(transport, renderer, opts...),
		Checks: checks,
		Logger: log,
	}, nil
}

// SubjectTranslator looks up "mailer.default_subject" with a {{template}} placeholder.
func SubjectTranslator(inst *i18n.I18n) mailer.SubjectTranslator {
	return func(lang, template string) (string, bool) {
		return inst.Lookup(lang, subjectNamespace, subjectKey, i18n.M{"template": template})
	}
}

func newTransport(cfg config.Config) (mailer.Transport, health.Checks, error) {
	switch cfg.Provider {
	case config.ProviderMandrill:
		client := mandrill.New(cfg.Mandrill)
		return client, health.Checks{config.ProviderMandrill: client.Ping}, nil
	case config.ProviderResend:
		return mailer.SenderTransport(resend.New(cfg.Resend)), health.Checks{}, nil
	case config.ProviderSendGrid:
		return mailer.SenderTransport(sendgrid.New(cfg.SendGrid)), health.Checks{}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.Provider)
	}
}
