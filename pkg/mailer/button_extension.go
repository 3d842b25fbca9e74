package mailer

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindButton is the node kind for ButtonNode.
var KindButton = ast.NewNodeKind("Button")

// ButtonNode is a call-to-action link written as [!button|Label](url).
type ButtonNode struct {
	ast.BaseInline
	URL   []byte
	Label []byte
}

// Kind implements ast.Node.
func (n *ButtonNode) Kind() ast.NodeKind {
	return KindButton
}

// Dump implements ast.Node.
func (n *ButtonNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"URL":   string(n.URL),
		"Label": string(n.Label),
	}, nil)
}

var buttonPrefix = []byte("[!button|")

type buttonParser struct{}

// NewButtonParser creates the inline parser for button links.
func NewButtonParser() parser.InlineParser {
	return &buttonParser{}
}

func (p *buttonParser) Trigger() []byte {
	return []byte{'['}
}

func (p *buttonParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, buttonPrefix) {
		return nil
	}

	rest := line[len(buttonPrefix):]
	labelEnd := bytes.IndexByte(rest, ']')
	if labelEnd < 0 || labelEnd+1 >= len(rest) || rest[labelEnd+1] != '(' {
		return nil
	}

	target := rest[labelEnd+2:]
	urlEnd := bytes.IndexByte(target, ')')
	if urlEnd < 0 {
		return nil
	}

	block.Advance(len(buttonPrefix) + labelEnd + 2 + urlEnd + 1)

	return &ButtonNode{
		URL:   bytes.TrimSpace(target[:urlEnd]),
		Label: rest[:labelEnd],
	}
}

// ButtonStyle controls the inline CSS of rendered buttons.
// Email clients drop <style> blocks, so styling must live on the element.
type ButtonStyle struct {
	Background string
	Color      string
}

// DefaultButtonStyle is used when no style is given.
var DefaultButtonStyle = ButtonStyle{Background: "#2563eb", Color: "#ffffff"}

type buttonRenderer struct {
	style ButtonStyle
}

// NewButtonRenderer creates the HTML renderer for button nodes.
func NewButtonRenderer(style ButtonStyle) renderer.NodeRenderer {
	if style.Background == "" {
		style.Background = DefaultButtonStyle.Background
	}
	if style.Color == "" {
		style.Color = DefaultButtonStyle.Color
	}
	return &buttonRenderer{style: style}
}

func (r *buttonRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindButton, r.renderButton)
}

func (r *buttonRenderer) renderButton(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*ButtonNode)

	href := n.URL
	if html.IsDangerousURL(href) {
		href = []byte("#")
	}

	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(href, true)))
	_, _ = w.WriteString(`" class="button" style="display:inline-block;padding:12px 24px;border-radius:6px;text-decoration:none;background:`)
	_, _ = w.Write(util.EscapeHTML([]byte(r.style.Background)))
	_, _ = w.WriteString(`;color:`)
	_, _ = w.Write(util.EscapeHTML([]byte(r.style.Color)))
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(util.EscapeHTML(n.Label))
	_, _ = w.WriteString(`</a>`)

	return ast.WalkContinue, nil
}

type buttonExtension struct {
	style ButtonStyle
}

func (e *buttonExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(NewButtonParser(), 50),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewButtonRenderer(e.style), 50),
	))
}

// NewButtonExtension returns the goldmark extension for [!button|Label](url) links.
// An optional style overrides DefaultButtonStyle.
func NewButtonExtension(style ...ButtonStyle) goldmark.Extender {
	e := &buttonExtension{style: DefaultButtonStyle}
	if len(style) > 0 {
		e.style = style[0]
	}
	return e
}
