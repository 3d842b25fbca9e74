package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var frontmatterDelimiter = []byte("---")

// Template is a markdown email template split into frontmatter and body.
type Template struct {
	Metadata map[string]any
	Body     string
}

// ParseTemplate splits content into YAML frontmatter metadata and markdown body.
// Content that doesn't start with "---" has no frontmatter.
func ParseTemplate(content []byte) (*Template, error) {
	if !bytes.HasPrefix(content, frontmatterDelimiter) {
		return &Template{Metadata: map[string]any{}, Body: string(content)}, nil
	}

	rest := bytes.TrimLeft(content[len(frontmatterDelimiter):], "\r\n")
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	end := bytes.Index(rest, frontmatterDelimiter)
	if end < 0 {
		return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	metadata := map[string]any{}
	if front := rest[:end]; len(bytes.TrimSpace(front)) > 0 {
		if err := yaml.Unmarshal(front, &metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	return &Template{
		Metadata: metadata,
		Body:     string(trimLeadingNewline(rest[end+len(frontmatterDelimiter):])),
	}, nil
}

// trimLeadingNewline drops a single "\n" or "\r\n".
func trimLeadingNewline(b []byte) []byte {
	if bytes.HasPrefix(b, []byte("\r\n")) {
		return b[2:]
	}
	return bytes.TrimPrefix(b, []byte("\n"))
}
