package i18n_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailbridge/pkg/i18n"
)

func newSubjects(t *testing.T, opts ...i18n.Option) *i18n.I18n {
	t.Helper()

	base := []i18n.Option{
		i18n.WithDefaultLanguage("en"),
		i18n.WithTranslations("en", "mailer", map[string]any{
			"default_subject": "{{template}} email",
			"subjects": map[string]any{
				"welcome": "Welcome, {{name}}!",
			},
		}),
		i18n.WithTranslations("de", "mailer", map[string]any{
			"default_subject": "{{template}} E-Mail",
		}),
	}

	inst, err := i18n.New(append(base, opts...)...)
	require.NoError(t, err)
	return inst
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults to english", func(t *testing.T) {
		t.Parallel()
		inst, err := i18n.New()
		require.NoError(t, err)
		require.Equal(t, "en", inst.DefaultLanguage())
	})

	t.Run("rejects empty default language", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithDefaultLanguage(""))
		require.ErrorIs(t, err, i18n.ErrEmptyLanguage)
	})

	t.Run("rejects empty language in translations", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithTranslations("", "mailer", map[string]any{"a": "b"}))
		require.ErrorIs(t, err, i18n.ErrEmptyLanguage)
	})

	t.Run("rejects empty namespace in translations", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithTranslations("en", "", map[string]any{"a": "b"}))
		require.ErrorIs(t, err, i18n.ErrEmptyNamespace)
	})

	t.Run("lists languages with translations", func(t *testing.T) {
		t.Parallel()
		inst := newSubjects(t, i18n.WithTranslations("pl", "mailer", map[string]any{"a": "b"}))
		require.Equal(t, []string{"de", "en", "pl"}, inst.Languages())
	})
}

func TestT(t *testing.T) {
	t.Parallel()

	inst := newSubjects(t)

	tests := []struct {
		name         string
		lang         string
		key          string
		placeholders i18n.M
		expected     string
	}{
		{"exact language", "de", "default_subject", i18n.M{"template": "welcome"}, "welcome E-Mail"},
		{"base language", "de-AT", "default_subject", i18n.M{"template": "reset"}, "reset E-Mail"},
		{"default language fallback", "fr", "default_subject", i18n.M{"template": "reset"}, "reset email"},
		{"empty language uses default", "", "default_subject", i18n.M{"template": "x"}, "x email"},
		{"nested key", "en", "subjects.welcome", i18n.M{"name": "Ann"}, "Welcome, Ann!"},
		{"missing key returns key", "en", "nope", nil, "nope"},
		{"unmatched placeholder stays", "en", "subjects.welcome", i18n.M{"other": 1}, "Welcome, {{name}}!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, inst.T(tt.lang, "mailer", tt.key, tt.placeholders))
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	inst := newSubjects(t)

	got, ok := inst.Lookup("de", "mailer", "default_subject", i18n.M{"template": "invoice"})
	require.True(t, ok)
	require.Equal(t, "invoice E-Mail", got)

	got, ok = inst.Lookup("de", "other", "default_subject")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestT_MergesPlaceholderMaps(t *testing.T) {
	t.Parallel()

	inst := newSubjects(t)

	got := inst.T("en", "mailer", "subjects.welcome", i18n.M{"name": "First"}, i18n.M{"name": "Second"})

	require.Equal(t, "Welcome, Second!", got)
}

func TestMissingKeyHandler(t *testing.T) {
	t.Parallel()

	var missing []string
	inst := newSubjects(t, i18n.WithMissingKeyHandler(func(lang, namespace, key string) {
		missing = append(missing, fmt.Sprintf("%s:%s:%s", lang, namespace, key))
	}))

	require.Equal(t, "welcome E-Mail", inst.T("de", "mailer", "default_subject", i18n.M{"template": "welcome"}))
	require.Empty(t, missing)

	require.Equal(t, "absent", inst.T("de", "mailer", "absent"))
	require.Equal(t, []string{"de:mailer:absent"}, missing)

	// Lookup never reports missing keys.
	_, _ = inst.Lookup("de", "mailer", "absent")
	require.Len(t, missing, 1)
}

func TestFlattenedValues(t *testing.T) {
	t.Parallel()

	inst, err := i18n.New(i18n.WithTranslations("en", "test", map[string]any{
		"plural": map[string]string{
			"one":   "One item",
			"other": "Many items",
		},
		"number":  42,
		"boolean": true,
	}))
	require.NoError(t, err)

	require.Equal(t, "One item", inst.T("en", "test", "plural.one"))
	require.Equal(t, "42", inst.T("en", "test", "number"))
	require.Equal(t, "true", inst.T("en", "test", "boolean"))
}

func TestConcurrentReads(t *testing.T) {
	t.Parallel()

	inst := newSubjects(t)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := fmt.Sprintf("tpl%d", n)
			got, ok := inst.Lookup("de", "mailer", "default_subject", i18n.M{"template": name})
			if !ok || got != name+" E-Mail" {
				t.Errorf("unexpected translation %q", got)
			}
		}(i)
	}
	wg.Wait()
}
