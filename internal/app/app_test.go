package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailbridge/internal/app"
	"github.com/dmitrymomot/mailbridge/internal/config"
	"github.com/dmitrymomot/mailbridge/pkg/i18n"
	"github.com/dmitrymomot/mailbridge/pkg/logger"
	"github.com/dmitrymomot/mailbridge/pkg/mailer"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNew_WiresSettingsTemplatesAndTranslations(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "templates", "templated_email", "welcome.email"),
		`{{define "html"}}<p>Hi {{.name}}</p>{{end}}{{define "plain"}}Hi {{.name}}{{end}}`)
	writeFile(t, filepath.Join(root, "settings.yaml"), "_default:\n  track_opens: true\n")
	writeFile(t, filepath.Join(root, "i18n", "de", "mailer.yaml"), "default_subject: \"{{template}} E-Mail\"\n")

	cfg := config.Config{
		Provider:        config.ProviderMandrill,
		TemplatesRoot:   filepath.Join(root, "templates"),
		SettingsFile:    filepath.Join(root, "settings.yaml"),
		TranslationsDir: filepath.Join(root, "i18n"),
		Mailer:          mailer.Config{TemplateDir: "templated_email", FileExtension: "email"},
	}

	a, err := app.New(cfg, logger.NewNope())
	require.NoError(t, err)
	require.Contains(t, a.Checks, config.ProviderMandrill)

	msg, err := a.Mailer.Build(context.Background(), mailer.SendParams{
		Template: "welcome",
		From:     "Team team@example.com",
		To:       []string{"user@example.com"},
		Context:  map[string]any{"name": "Ann"},
		Language: "de",
	})
	require.NoError(t, err)

	require.Equal(t, "welcome E-Mail", msg[mailer.KeySubject])
	require.Equal(t, true, msg["track_opens"])
	require.Equal(t, "<p>Hi Ann</p>", msg[mailer.KeyHTML])
	require.Equal(t, "Hi Ann", msg[mailer.KeyText])
}

func TestNew_ProviderTransports(t *testing.T) {
	t.Parallel()

	for _, provider := range []string{config.ProviderResend, config.ProviderSendGrid} {
		a, err := app.New(config.Config{Provider: provider, TemplatesRoot: t.TempDir()}, logger.NewNope())
		require.NoError(t, err, provider)
		require.Empty(t, a.Checks, provider)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := app.New(config.Config{Provider: "pigeon"}, logger.NewNope())
	require.ErrorIs(t, err, config.ErrUnknownProvider)
}

func TestNew_MissingSettingsFile(t *testing.T) {
	t.Parallel()

	_, err := app.New(config.Config{
		Provider:     config.ProviderMandrill,
		SettingsFile: filepath.Join(t.TempDir(), "nope.yaml"),
	}, logger.NewNope())
	require.Error(t, err)
}

func TestSubjectTranslator(t *testing.T) {
	t.Parallel()

	inst, err := i18n.New(i18n.WithTranslations("de", "mailer", map[string]any{
		"default_subject": "{{template}} E-Mail",
	}))
	require.NoError(t, err)

	translate := app.SubjectTranslator(inst)

	got, ok := translate("de", "invoice")
	require.True(t, ok)
	require.Equal(t, "invoice E-Mail", got)

	_, ok = translate("fr", "invoice")
	require.False(t, ok)
}
