// Package config loads mailbridge configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/mailbridge/pkg/logger"
	"github.com/dmitrymomot/mailbridge/pkg/mailer"
	"github.com/dmitrymomot/mailbridge/pkg/mailer/mandrill"
	"github.com/dmitrymomot/mailbridge/pkg/mailer/resend"
	"github.com/dmitrymomot/mailbridge/pkg/mailer/sendgrid"
)

// Supported providers.
const (
	ProviderMandrill = "mandrill"
	ProviderResend   = "resend"
	ProviderSendGrid = "sendgrid"
)

// ErrUnknownProvider indicates MAILER_PROVIDER names no supported provider.
var ErrUnknownProvider = errors.New("config: unknown mail provider")

// Config is the complete application configuration.
type Config struct {
	Provider        string `env:"MAILER_PROVIDER" envDefault:"mandrill"`
	TemplatesRoot   string `env:"MAILER_TEMPLATES_ROOT" envDefault:"."`
	SettingsFile    string `env:"MAILER_SETTINGS_FILE"`
	TranslationsDir string `env:"MAILER_TRANSLATIONS_DIR"`

	Mailer   mailer.Config
	Mandrill mandrill.Config
	Resend   resend.Config
	SendGrid sendgrid.Config
	Log      logger.Config
}

// Load reads the given dotenv files (".env" when none are given) and parses
// the environment into a Config. Missing dotenv files are not an error.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: failed to load env file: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that env parsing can't.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMandrill, ProviderResend, ProviderSendGrid:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
}
