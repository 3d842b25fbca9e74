package i18n

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DefaultLang is the default language code used when no default language is specified.
const DefaultLang = "en"

// I18n holds flattened translations. It is immutable after New returns,
// so it is safe for concurrent use.
type I18n struct {
	// Key format: "lang:namespace:key.path"
	translations map[string]string

	// Called when a key is missing in every fallback language.
	missingKeyHandler func(lang, namespace, key string)

	defaultLang string
}

// Option configures the I18n instance during construction.
type Option func(*I18n) error

// New creates a new I18n instance with the given options.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		translations: make(map[string]string),
		defaultLang:  DefaultLang,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return i, nil
}

// WithDefaultLanguage sets the default/fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		i.defaultLang = lang
		return nil
	}
}

// WithTranslations loads translations for a specific language and namespace.
// Nested maps are flattened into dot-separated keys.
func WithTranslations(lang, namespace string, translations map[string]any) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if namespace == "" {
			return ErrEmptyNamespace
		}
		i.add(lang, namespace, translations)
		return nil
	}
}

// WithMissingKeyHandler sets a function called when a key is not found in any
// language, including the default fallback.
func WithMissingKeyHandler(handler func(lang, namespace, key string)) Option {
	return func(i *I18n) error {
		i.missingKeyHandler = handler
		return nil
	}
}

// T translates key and replaces {{placeholders}}.
// Lookup order is the exact language, its base language ("en" for "en-US"),
// then the default language. The key itself is returned when nothing matches.
func (i *I18n) T(lang, namespace, key string, placeholders ...M) string {
	translation, ok := i.Lookup(lang, namespace, key, placeholders...)
	if !ok {
		if i.missingKeyHandler != nil {
			i.missingKeyHandler(lang, namespace, key)
		}
		return key
	}
	return translation
}

// Lookup is T without the key fallback: it reports whether a translation exists.
func (i *I18n) Lookup(lang, namespace, key string, placeholders ...M) (string, bool) {
	for _, candidate := range i.fallbackChain(lang) {
		if translation, ok := i.translations[buildKey(candidate, namespace, key)]; ok {
			return replacePlaceholdersWithMerge(translation, placeholders...), true
		}
	}
	return "", false
}

// DefaultLanguage returns the default/fallback language.
func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

// Languages returns the sorted list of languages with at least one translation.
func (i *I18n) Languages() []string {
	seen := make(map[string]struct{})
	for key := range i.translations {
		lang, _, _ := strings.Cut(key, ":")
		seen[lang] = struct{}{}
	}
	seen[i.defaultLang] = struct{}{}
	return slices.Sorted(maps.Keys(seen))
}

func (i *I18n) fallbackChain(lang string) []string {
	if lang == "" {
		return []string{i.defaultLang}
	}
	chain := []string{lang}
	if base := baseLanguage(lang); base != lang {
		chain = append(chain, base)
	}
	if !slices.Contains(chain, i.defaultLang) {
		chain = append(chain, i.defaultLang)
	}
	return chain
}

func (i *I18n) add(lang, namespace string, translations map[string]any) {
	for key, value := range flattenTranslations(translations, "") {
		i.translations[buildKey(lang, namespace, key)] = value
	}
}

func buildKey(lang, namespace, key string) string {
	return lang + ":" + namespace + ":" + key
}

func flattenTranslations(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string)

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			maps.Copy(result, flattenTranslations(v, fullKey))
		case map[string]string:
			for subKey, subVal := range v {
				result[fullKey+"."+subKey] = subVal
			}
		default:
			result[fullKey] = fmt.Sprintf("%v", v)
		}
	}

	return result
}

func replacePlaceholdersWithMerge(template string, placeholders ...M) string {
	if len(placeholders) == 0 {
		return template
	}

	merged := make(M)
	for _, p := range placeholders {
		maps.Copy(merged, p)
	}

	return ReplacePlaceholders(template, merged)
}

// baseLanguage strips the region from a language tag ("en-US" becomes "en").
func baseLanguage(lang string) string {
	if i := strings.IndexByte(lang, '-'); i > 0 {
		return lang[:i]
	}
	return lang
}
