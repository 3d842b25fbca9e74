package i18n

import (
	"fmt"
	"strings"
)

// M holds placeholder values.
type M map[string]any

// ReplacePlaceholders replaces {{name}} placeholders with values from placeholders.
// Unknown placeholders are left as they are.
//
//	ReplacePlaceholders("{{template}} email", M{"template": "welcome"}) // "welcome email"
func ReplacePlaceholders(template string, placeholders M) string {
	if len(placeholders) == 0 {
		return template
	}

	pairs := make([]string, 0, len(placeholders)*2)
	for key, value := range placeholders {
		pairs = append(pairs, "{{"+key+"}}", fmt.Sprintf("%v", value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
