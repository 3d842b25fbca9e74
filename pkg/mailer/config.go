package mailer

// Config holds mailer configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// TemplateDir is the directory (inside the renderer's fs) searched for templates
	// when a send call doesn't override it.
	TemplateDir string `env:"MAILER_TEMPLATE_DIR" envDefault:"templated_email"`
	// FileExtension is appended to the template name, without the leading dot.
	FileExtension string `env:"MAILER_FILE_EXTENSION" envDefault:"email"`
	// DefaultLayout wraps markdown templates. Empty disables layouts.
	DefaultLayout string `env:"MAILER_DEFAULT_LAYOUT"`
	// DefaultFromName is used when the sender address carries no display name.
	DefaultFromName string `env:"MAILER_DEFAULT_FROM_NAME" envDefault:"Nobody"`
	// DeriveText fills an empty plain text part from the rendered HTML.
	DeriveText bool `env:"MAILER_DERIVE_TEXT" envDefault:"false"`
}

func (c Config) withDefaults() Config {
	if c.TemplateDir == "" {
		c.TemplateDir = "templated_email"
	}
	if c.FileExtension == "" {
		c.FileExtension = "email"
	}
	if c.DefaultFromName == "" {
		c.DefaultFromName = "Nobody"
	}
	return c
}
