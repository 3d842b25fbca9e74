// Package mailer renders templated emails and hands them to a transactional email provider.
//
// # Architecture
//
//   - Renderer: loads a named template and renders its subject, HTML and plain text parts
//   - Settings: per-template message defaults, with "_default" applying to every template
//   - Transport: the provider call that accepts the built Message (see the mandrill package)
//   - Sender: typed providers (resend, sendgrid), adapted with SenderTransport
//   - Mailer: merges defaults, renders, builds the Message and delivers it
//
// # Usage
//
//	import (
//		"context"
//		"os"
//
//		"github.com/dmitrymomot/mailbridge/pkg/mailer"
//		"github.com/dmitrymomot/mailbridge/pkg/mailer/mandrill"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		transport := mandrill.New(mandrill.Config{APIKey: os.Getenv("MANDRILL_API_KEY")})
//		renderer := mailer.NewRenderer(os.DirFS("templates"))
//
//		settings, err := mailer.LoadSettings(os.DirFS("."), "mail.yaml")
//		if err != nil {
//			panic(err)
//		}
//
//		m := mailer.New(transport, renderer, mailer.WithSettings(settings))
//
//		results, err := m.Send(ctx, mailer.SendParams{
//			Template: "welcome",
//			From:     "Team <team@example.com>",
//			To:       []string{"user@example.com"},
//			Context:  map[string]any{"Name": "John"},
//			CC:       []string{"support@example.com"},
//		})
//		if err != nil {
//			panic(err)
//		}
//		_ = results
//	}
//
// # Message resolution
//
// The message starts as {"subject": "<template> email"}, then the "_default"
// settings and the template's own settings are merged on top. from_name,
// from_email and to come from the call; html and text come from the rendered
// parts; cc_address and bcc_address are the CC and BCC lists joined with ", ";
// headers are set when given; ExtraParams are merged last and may override any key.
//
// A subject rendered by the template replaces the fallback subject, but never a
// subject set through settings.
//
// Templates see the message being built under the "message" key, unless the
// caller already passed a value for it.
//
// # Templates
//
// The default format is a single "<dir>/<name>.email" file with three blocks:
//
//	{{define "subject"}}Welcome {{.Name}}{{end}}
//	{{define "html"}}<p>Hello <b>{{.Name}}</b></p>{{end}}
//	{{define "plain"}}Hello {{.Name}}{{end}}
//
// Files with the "md" extension are markdown with optional YAML frontmatter:
//
//	---
//	Subject: Welcome {{.Name}}!
//	---
//
//	# Welcome
//
//	Hello {{.Name}}, welcome to our service!
//
//	[!button|Get Started]({{.URL}})
//
// # Failures
//
// Transport errors are logged and returned joined with ErrSendFailed. With
// FailSilently they are logged and swallowed, unless the context was canceled
// or timed out. Template and validation errors are always returned. A DryRun builds the message and stops before delivery.
package mailer
