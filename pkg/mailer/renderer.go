package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
)

// Block names looked up in block-format templates.
const (
	BlockSubject = "subject"
	BlockHTML    = "html"
	BlockPlain   = "plain"
)

// markdownExt selects the markdown template format.
const markdownExt = "md"

// Renderer turns a named template into the subject, HTML and plain text parts of an email.
//
// Two file formats are supported, picked by extension:
//
//   - block format (default "email"): a single file with {{define "subject"}},
//     {{define "html"}} and {{define "plain"}} blocks. The html block is executed
//     with html/template, the other two with text/template. Missing blocks yield
//     empty parts.
//   - markdown format ("md"): YAML frontmatter followed by a markdown body. The
//     processed markdown becomes the plain part, its goldmark rendering (wrapped in
//     an optional layout) the HTML part, and the Subject metadata the subject.
type Renderer struct {
	fs fs.FS
	md goldmark.Markdown

	// Caches hold parsed templates, never rendered output.
	templateCache map[string]*cachedTemplate
	layoutCache   map[string]*template.Template
	layoutDir     string

	mu sync.RWMutex
}

type cachedTemplate struct {
	metadata map[string]any
	// markdown format
	body    *texttemplate.Template
	subject *texttemplate.Template
	// block format
	text *texttemplate.Template
	html *template.Template
}

// RendererConfig configures the renderer.
type RendererConfig struct {
	LayoutDir string // Default: "layouts"
}

// RenderOptions locate a template and its layout.
type RenderOptions struct {
	Dir    string // directory holding the template; "" means fs root
	Ext    string // extension without the dot; "" means the name already has one
	Layout string // markdown layout file inside the layout dir; "" for none
}

// Parts holds the rendered pieces of an email.
type Parts struct {
	Metadata map[string]any
	Subject  string
	HTML     string
	Plain    string
}

// NewRenderer creates a new renderer with default config.
func NewRenderer(filesystem fs.FS) *Renderer {
	return NewRendererWithConfig(filesystem, RendererConfig{})
}

// NewRendererWithConfig creates a new renderer with custom config.
func NewRendererWithConfig(filesystem fs.FS, opts RendererConfig) *Renderer {
	if opts.LayoutDir == "" {
		opts.LayoutDir = "layouts"
	}

	return &Renderer{
		fs:        filesystem,
		layoutDir: opts.LayoutDir,
		md: goldmark.New(
			goldmark.WithExtensions(NewButtonExtension()),
		),
		templateCache: make(map[string]*cachedTemplate),
		layoutCache:   make(map[string]*template.Template),
	}
}

// TemplatePath returns the fs path Render reads for name.
func TemplatePath(name string, opts RenderOptions) string {
	file := name
	if ext := strings.TrimPrefix(opts.Ext, "."); ext != "" {
		file = name + "." + ext
	}
	if opts.Dir == "" {
		return path.Clean(file)
	}
	return path.Join(opts.Dir, file)
}

// Render executes the template with data and returns its parts.
func (r *Renderer) Render(name string, opts RenderOptions, data any) (*Parts, error) {
	tmplPath := TemplatePath(name, opts)

	cached, err := r.getTemplate(tmplPath)
	if err != nil {
		return nil, err
	}

	if cached.body != nil {
		return r.renderMarkdown(cached, opts.Layout, data)
	}
	return r.renderBlocks(cached, data)
}

func (r *Renderer) renderBlocks(cached *cachedTemplate, data any) (*Parts, error) {
	parts := &Parts{Metadata: cached.metadata}

	var err error
	if parts.Subject, err = executeTextBlock(cached.text, BlockSubject, data); err != nil {
		return nil, err
	}
	if parts.Plain, err = executeTextBlock(cached.text, BlockPlain, data); err != nil {
		return nil, err
	}

	if cached.html.Lookup(BlockHTML) != nil {
		var buf bytes.Buffer
		if err := cached.html.ExecuteTemplate(&buf, BlockHTML, data); err != nil {
			return nil, fmt.Errorf("%w: failed to execute %s block: %v", ErrRenderFailed, BlockHTML, err)
		}
		parts.HTML = strings.TrimSpace(buf.String())
	}

	return parts, nil
}

func executeTextBlock(tmpl *texttemplate.Template, block string, data any) (string, error) {
	if tmpl.Lookup(block) == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, block, data); err != nil {
		return "", fmt.Errorf("%w: failed to execute %s block: %v", ErrRenderFailed, block, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func (r *Renderer) renderMarkdown(cached *cachedTemplate, layout string, data any) (*Parts, error) {
	var processed bytes.Buffer
	if err := cached.body.Execute(&processed, data); err != nil {
		return nil, fmt.Errorf("%w: failed to execute template: %v", ErrRenderFailed, err)
	}

	var content bytes.Buffer
	if err := r.md.Convert(processed.Bytes(), &content); err != nil {
		return nil, fmt.Errorf("%w: failed to convert markdown: %v", ErrRenderFailed, err)
	}

	parts := &Parts{
		Metadata: cached.metadata,
		Plain:    strings.TrimSpace(processed.String()),
		HTML:     content.String(),
	}

	if cached.subject != nil {
		var subject bytes.Buffer
		if err := cached.subject.Execute(&subject, data); err != nil {
			return nil, fmt.Errorf("%w: failed to execute subject: %v", ErrRenderFailed, err)
		}
		parts.Subject = strings.TrimSpace(subject.String())
	}

	if layout == "" {
		return parts, nil
	}

	layoutTmpl, err := r.getLayout(layout)
	if err != nil {
		return nil, err
	}

	var final bytes.Buffer
	layoutData := map[string]any{
		"Content":  template.HTML(parts.HTML),
		"Metadata": cached.metadata,
		"Subject":  parts.Subject,
	}
	if err := layoutTmpl.Execute(&final, layoutData); err != nil {
		return nil, fmt.Errorf("%w: failed to execute layout: %v", ErrRenderFailed, err)
	}
	parts.HTML = final.String()

	return parts, nil
}

// getTemplate returns a cached template or parses and caches it.
func (r *Renderer) getTemplate(tmplPath string) (*cachedTemplate, error) {
	r.mu.RLock()
	if cached, ok := r.templateCache[tmplPath]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if cached, ok := r.templateCache[tmplPath]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, tmplPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, tmplPath, err)
	}

	var cached *cachedTemplate
	if strings.TrimPrefix(path.Ext(tmplPath), ".") == markdownExt {
		cached, err = parseMarkdownTemplate(tmplPath, content)
	} else {
		cached, err = parseBlockTemplate(tmplPath, content)
	}
	if err != nil {
		return nil, err
	}

	r.templateCache[tmplPath] = cached
	return cached, nil
}

func parseMarkdownTemplate(name string, content []byte) (*cachedTemplate, error) {
	parsed, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}

	body, err := texttemplate.New(name).Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse template body: %v", ErrRenderFailed, err)
	}

	cached := &cachedTemplate{metadata: parsed.Metadata, body: body}

	if subject, ok := parsed.Metadata["Subject"].(string); ok && subject != "" {
		cached.subject, err = texttemplate.New(name + ":subject").Parse(subject)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse subject: %v", ErrRenderFailed, err)
		}
	}

	return cached, nil
}

func parseBlockTemplate(name string, content []byte) (*cachedTemplate, error) {
	text, err := texttemplate.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse template: %v", ErrRenderFailed, err)
	}

	html, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse template: %v", ErrRenderFailed, err)
	}

	return &cachedTemplate{
		metadata: make(map[string]any),
		text:     text,
		html:     html,
	}, nil
}

// getLayout returns a cached layout template or parses and caches it.
func (r *Renderer) getLayout(name string) (*template.Template, error) {
	r.mu.RLock()
	if cached, ok := r.layoutCache[name]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.layoutCache[name]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	layoutTmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse layout: %v", ErrRenderFailed, err)
	}

	r.layoutCache[name] = layoutTmpl
	return layoutTmpl, nil
}
