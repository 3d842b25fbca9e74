package logger

import (
	"context"
	"log/slog"
)

type templateKey struct{}

// WithTemplate stores the email template name in ctx for TemplateExtractor.
func WithTemplate(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, templateKey{}, name)
}

// TemplateFromContext returns the template name stored by WithTemplate.
func TemplateFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(templateKey{}).(string)
	return name, ok && name != ""
}

// TemplateExtractor adds a "template" attribute to records logged with a
// context carrying a template name.
func TemplateExtractor(ctx context.Context) (slog.Attr, bool) {
	if name, ok := TemplateFromContext(ctx); ok {
		return slog.String("template", name), true
	}
	return slog.Attr{}, false
}
