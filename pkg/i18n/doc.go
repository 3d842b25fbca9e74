// Package i18n provides immutable, concurrency-safe translations with
// language fallback and {{placeholder}} replacement.
//
// mailbridge uses it to localize the fallback subject of templates that
// define none:
//
//	inst, err := i18n.New(
//		i18n.WithDefaultLanguage("en"),
//		i18n.WithTranslations("de", "mailer", map[string]any{
//			"default_subject": "{{template}} E-Mail",
//		}),
//	)
//	subject, ok := inst.Lookup("de-AT", "mailer", "default_subject", i18n.M{"template": "welcome"})
//	// "welcome E-Mail", true
//
// Translations can also be loaded from {lang}/{namespace}.json or .yaml files
// with WithJSONDir and WithYAMLDir. Lookups try the exact language, its base
// language and then the default language.
package i18n
