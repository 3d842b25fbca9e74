// Package sanitizer converts rendered HTML into plain text.
package sanitizer

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once

	// lineBreaks matches tags that end a visual line.
	lineBreaks = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|h[1-6]|li|tr|table|blockquote|pre)>`)
	// invisible matches elements whose content must not leak into the text.
	invisible = regexp.MustCompile(`(?is)<(head|style|script|title)[^>]*>.*?</(head|style|script|title)>`)
	spaces    = regexp.MustCompile(`[ \t\r\f\v]+`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

func initPolicy() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
}

// HTMLToText strips all markup from s and returns readable plain text.
// Block-level elements become line breaks, entities are decoded and
// whitespace is collapsed.
func HTMLToText(s string) string {
	initPolicy()

	s = invisible.ReplaceAllString(s, "")
	s = lineBreaks.ReplaceAllString(s, "\n")
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = spaces.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")

	return strings.TrimSpace(blankRuns.ReplaceAllString(s, "\n\n"))
}
