package mailer

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

const settingsYAML = `
_default:
  track_opens: true
  tags: [transactional]
welcome:
  subject: Welcome aboard
  tags: [welcome]
`

func TestParseSettings(t *testing.T) {
	t.Parallel()

	s, err := ParseSettings([]byte(settingsYAML))
	require.NoError(t, err)
	require.Equal(t, true, s[DefaultSettingsKey]["track_opens"])
	require.Equal(t, "Welcome aboard", s["welcome"][KeySubject])

	empty, err := ParseSettings(nil)
	require.NoError(t, err)
	require.NotNil(t, empty)

	_, err = ParseSettings([]byte("welcome: [not, a, map]"))
	require.ErrorIs(t, err, ErrInvalidSettings)
}

func TestLoadSettings(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"mail.yaml": &fstest.MapFile{Data: []byte(settingsYAML)}}

	s, err := LoadSettings(fsys, "mail.yaml")
	require.NoError(t, err)
	require.Len(t, s, 2)

	_, err = LoadSettings(fsys, "missing.yaml")
	require.ErrorIs(t, err, ErrInvalidSettings)
}

func TestSettings_Resolve(t *testing.T) {
	t.Parallel()

	s, err := ParseSettings([]byte(settingsYAML))
	require.NoError(t, err)

	base := map[string]any{KeySubject: "welcome email", "async": false}

	got := s.Resolve("welcome", base)
	require.Equal(t, map[string]any{
		KeySubject:    "Welcome aboard",
		"async":       false,
		"track_opens": true,
		KeyTags:       []any{"welcome"},
	}, got)
	require.Equal(t, "welcome email", base[KeySubject], "base must not be modified")

	other := s.Resolve("invoice", base)
	require.Equal(t, "welcome email", other[KeySubject])
	require.Equal(t, []any{"transactional"}, other[KeyTags])

	require.Equal(t, base, Settings(nil).Resolve("welcome", base))
}

func TestSettings_SetsKey(t *testing.T) {
	t.Parallel()

	s := Settings{
		DefaultSettingsKey: {"track_opens": true},
		"welcome":          {KeySubject: "Hi"},
	}

	require.True(t, s.SetsKey("welcome", KeySubject))
	require.True(t, s.SetsKey("invoice", "track_opens"))
	require.False(t, s.SetsKey("invoice", KeySubject))
	require.False(t, Settings(nil).SetsKey("welcome", KeySubject))
}
