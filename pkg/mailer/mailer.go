package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/mail"
	"slices"
	"strings"

	"github.com/dmitrymomot/mailbridge/pkg/logger"
	"github.com/dmitrymomot/mailbridge/pkg/sanitizer"
)

// ContextKeyMessage is the render context key under which templates see the
// message being built, unless the caller already supplied that key.
const ContextKeyMessage = "message"

// SubjectTranslator localizes the default subject.
// It returns false when no translation exists.
type SubjectTranslator func(lang, template string) (string, bool)

// Mailer renders templated emails and hands them to a transport.
type Mailer struct {
	transport Transport
	renderer  *Renderer
	settings  Settings
	translate SubjectTranslator
	logger    *slog.Logger
	config    Config
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithConfig sets the mailer configuration.
func WithConfig(cfg Config) Option {
	return func(m *Mailer) {
		m.config = cfg.withDefaults()
	}
}

// WithSettings sets per-template message defaults.
func WithSettings(s Settings) Option {
	return func(m *Mailer) {
		if s != nil {
			m.settings = s
		}
	}
}

// WithLogger sets the logger used to report delivery failures.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSubjectTranslator localizes the "<template> email" fallback subject.
func WithSubjectTranslator(fn SubjectTranslator) Option {
	return func(m *Mailer) {
		m.translate = fn
	}
}

// New creates a new Mailer with the given transport and renderer.
func New(transport Transport, renderer *Renderer, opts ...Option) *Mailer {
	m := &Mailer{
		transport: transport,
		renderer:  renderer,
		settings:  Settings{},
		logger:    logger.NewNope(),
		config:    Config{}.withDefaults(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SendParams contains the call-time arguments of a templated send.
type SendParams struct {
	Context     map[string]any    // Template data; gets a "message" key unless already present
	Headers     map[string]string // Custom message headers
	ExtraParams map[string]any    // Merged into the message last, overriding anything
	Template    string            // Template name without directory or extension
	From        string            // "Jane Doe jane@example.com" or "Jane Doe <jane@example.com>"
	Language    string            // Language of the fallback subject

	// Template location overrides. Prefix and Suffix win over Dir and Extension.
	TemplatePrefix string
	TemplateSuffix string
	TemplateDir    string
	FileExtension  string
	Layout         string

	To  []string
	CC  []string
	BCC []string

	Options      SendOptions // Forwarded to the transport
	FailSilently bool        // Log and swallow transport errors, except context errors
	DryRun       bool        // Build the message but don't deliver it
}

// Send renders the template and delivers the resulting message.
//
// Message fields are resolved in this order, later wins: the "<template> email"
// fallback subject, the global settings, the template's settings, the rendered
// parts and call arguments, and finally ExtraParams.
// A "subject" block in the template overrides the "<template> email" fallback,
// but not a subject set through settings.
// A dry run returns nil results and no error after the message is built.
// FailSilently swallows provider errors, never context cancellation.
func (m *Mailer) Send(ctx context.Context, params SendParams) ([]Result, error) {
	msg, err := m.Build(ctx, params)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithTemplate(ctx, params.Template)

	if params.DryRun {
		m.logger.DebugContext(ctx, "dry run, email not sent",
			slog.Int("recipients", len(params.To)),
		)
		return nil, nil
	}

	results, err := m.transport.Deliver(ctx, msg, params.Options)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to send email",
			slog.Int("recipients", len(params.To)),
			slog.String("error", err.Error()),
		)
		if params.FailSilently && !isContextError(ctx, err) {
			return nil, nil
		}
		return nil, errors.Join(ErrSendFailed, err)
	}

	return results, nil
}

// Build renders the template and returns the message Send would deliver.
func (m *Mailer) Build(ctx context.Context, params SendParams) (Message, error) {
	if params.Template == "" {
		return nil, ErrNoTemplate
	}
	if len(params.To) == 0 {
		return nil, ErrNoRecipient
	}

	defaults := map[string]any{
		KeySubject: m.defaultSubject(params.Language, params.Template),
	}
	msg := Message(m.settings.Resolve(params.Template, defaults))

	msg[KeyFromName] = m.fromName(params.From)
	msg[KeyFromEmail] = fromAddress(params.From)
	msg[KeyTo] = params.To

	data := make(map[string]any, len(params.Context)+1)
	maps.Copy(data, params.Context)
	if _, ok := data[ContextKeyMessage]; !ok {
		data[ContextKeyMessage] = msg
	}

	parts, err := m.renderer.Render(params.Template, m.renderOptions(params), data)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	msg[KeyHTML] = parts.HTML
	msg[KeyText] = parts.Plain
	if parts.Plain == "" && m.config.DeriveText && parts.HTML != "" {
		msg[KeyText] = sanitizer.HTMLToText(parts.HTML)
	}
	if parts.Subject != "" && !m.settings.SetsKey(params.Template, KeySubject) {
		msg[KeySubject] = parts.Subject
	}

	if len(params.CC) > 0 {
		msg[KeyCCAddress] = strings.Join(params.CC, addressSeparator)
	}
	if len(params.BCC) > 0 {
		msg[KeyBCCAddress] = strings.Join(params.BCC, addressSeparator)
	}
	if len(params.Headers) > 0 {
		msg[KeyHeaders] = params.Headers
	}
	maps.Copy(msg, params.ExtraParams)

	return msg, nil
}

// SendRaw sends a pre-built email without template rendering.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) ([]Result, error) {
	if len(email.To) == 0 {
		return nil, ErrNoRecipient
	}
	if email.Subject == "" {
		return nil, ErrNoSubject
	}
	if email.HTML == "" {
		return nil, ErrNoContent
	}

	msg := Message{
		KeySubject: email.Subject,
		KeyHTML:    email.HTML,
		KeyText:    email.Text,
		KeyTo:      email.To,
	}
	if email.From != "" {
		msg[KeyFromName] = m.fromName(email.From)
		msg[KeyFromEmail] = fromAddress(email.From)
	}
	if len(email.CC) > 0 {
		msg[KeyCCAddress] = strings.Join(email.CC, addressSeparator)
	}
	if len(email.BCC) > 0 {
		msg[KeyBCCAddress] = strings.Join(email.BCC, addressSeparator)
	}
	headers := maps.Clone(email.Headers)
	if email.ReplyTo != "" {
		if headers == nil {
			headers = make(map[string]string, 1)
		}
		headers["Reply-To"] = email.ReplyTo
	}
	if len(headers) > 0 {
		msg[KeyHeaders] = headers
	}
	if len(email.Tags) > 0 {
		msg[KeyTags] = maps.Clone(email.Tags)
	}
	if len(email.Attachments) > 0 {
		msg[KeyAttachments] = slices.Clone(email.Attachments)
	}

	results, err := m.transport.Deliver(ctx, msg, SendOptions{SendAt: email.SendAt})
	if err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}
	return results, nil
}

func (m *Mailer) renderOptions(params SendParams) RenderOptions {
	return RenderOptions{
		Dir:    firstNonEmpty(params.TemplatePrefix, params.TemplateDir, m.config.TemplateDir),
		Ext:    firstNonEmpty(params.TemplateSuffix, params.FileExtension, m.config.FileExtension),
		Layout: firstNonEmpty(params.Layout, m.config.DefaultLayout),
	}
}

func (m *Mailer) defaultSubject(lang, template string) string {
	if m.translate != nil {
		if subject, ok := m.translate(lang, template); ok {
			return subject
		}
	}
	return fmt.Sprintf("%s email", template)
}

// fromName takes every word of the sender but the last one, which is the address.
func (m *Mailer) fromName(from string) string {
	words := strings.Split(from, " ")
	if name := strings.Join(words[:len(words)-1], " "); name != "" {
		return name
	}
	return m.config.DefaultFromName
}

// fromAddress extracts the bare address from "Name <addr>", "Name addr" or "addr".
func fromAddress(from string) string {
	if addr, err := mail.ParseAddress(from); err == nil {
		return addr.Address
	}
	fields := strings.Fields(from)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[len(fields)-1], "<>")
}

// isContextError reports whether err comes from ctx being canceled or
// timing out. Those are never silenced.
func isContextError(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
