package mailer

import (
	"fmt"
	"io/fs"
	"maps"

	"gopkg.in/yaml.v3"
)

// DefaultSettingsKey holds message defaults applied to every template.
const DefaultSettingsKey = "_default"

// Settings maps template names to message defaults.
// The DefaultSettingsKey entry applies to all templates and is overridden
// by the template's own entry.
//
//	_default:
//	  track_opens: true
//	  tags: [transactional]
//	welcome:
//	  subject: Welcome aboard
type Settings map[string]map[string]any

// ParseSettings decodes a YAML settings document.
func ParseSettings(data []byte) (Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if s == nil {
		s = Settings{}
	}
	return s, nil
}

// LoadSettings reads and decodes a YAML settings file from fsys.
func LoadSettings(fsys fs.FS, name string) (Settings, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, name, err)
	}
	return ParseSettings(data)
}

// Resolve merges the global defaults and the template's defaults, in that order,
// on top of base. The returned map is new; none of the inputs are modified.
func (s Settings) Resolve(template string, base map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(s[DefaultSettingsKey])+len(s[template]))
	maps.Copy(out, base)
	maps.Copy(out, s[DefaultSettingsKey])
	maps.Copy(out, s[template])
	return out
}

// SetsKey reports whether the global or template defaults define key.
func (s Settings) SetsKey(template, key string) bool {
	if _, ok := s[DefaultSettingsKey][key]; ok {
		return true
	}
	_, ok := s[template][key]
	return ok
}
