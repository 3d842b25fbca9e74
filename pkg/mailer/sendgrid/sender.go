package sendgrid

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/dmitrymomot/mailbridge/pkg/mailer"
)

// ErrRejected indicates SendGrid answered with a non-2xx status.
var ErrRejected = errors.New("sendgrid: request rejected")

// Sender implements mailer.Sender using the SendGrid v3 API.
type Sender struct {
	client *sendgrid.Client
	config Config
}

// New creates a new SendGrid sender.
func New(cfg Config) *Sender {
	return &Sender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		config: cfg,
	}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	msg, err := s.buildMessage(email)
	if err != nil {
		return err
	}

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: failed to send email: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, resp.Body)
	}
	return nil
}

func (s *Sender) buildMessage(email *mailer.Email) (*mail.SGMailV3, error) {
	from := mail.NewEmail(s.config.SenderName, s.config.SenderEmail)
	if email.From != "" {
		parsed, err := parseAddress(email.From)
		if err != nil {
			return nil, err
		}
		from = parsed
	}

	m := mail.NewV3Mail()
	m.SetFrom(from)
	m.Subject = email.Subject

	p := mail.NewPersonalization()
	for _, list := range []struct {
		add   func(...*mail.Email)
		addrs []string
	}{
		{p.AddTos, email.To},
		{p.AddCCs, email.CC},
		{p.AddBCCs, email.BCC},
	} {
		for _, addr := range list.addrs {
			parsed, err := parseAddress(addr)
			if err != nil {
				return nil, err
			}
			list.add(parsed)
		}
	}
	m.AddPersonalizations(p)

	// SendGrid requires text/plain before text/html and rejects empty values.
	if email.Text != "" {
		m.AddContent(mail.NewContent("text/plain", email.Text))
	}
	if email.HTML != "" {
		m.AddContent(mail.NewContent("text/html", email.HTML))
	}

	if email.ReplyTo != "" {
		replyTo, err := parseAddress(email.ReplyTo)
		if err != nil {
			return nil, err
		}
		m.SetReplyTo(replyTo)
	}

	for _, name := range slices.Sorted(maps.Keys(email.Headers)) {
		m.SetHeader(name, email.Headers[name])
	}
	if len(email.Tags) > 0 {
		m.AddCategories(slices.Sorted(maps.Keys(email.Tags))...)
	}
	if !email.SendAt.IsZero() {
		m.SetSendAt(int(email.SendAt.Unix()))
	}

	for _, a := range email.Attachments {
		att := mail.NewAttachment()
		att.SetFilename(a.Filename)
		att.SetType(a.ContentType)
		att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		if a.ContentID != "" {
			att.SetContentID(a.ContentID)
			att.SetDisposition("inline")
		} else {
			att.SetDisposition("attachment")
		}
		m.AddAttachment(att)
	}

	return m, nil
}

func parseAddress(addr string) (*mail.Email, error) {
	parsed, err := mail.ParseEmail(addr)
	if err != nil {
		return nil, fmt.Errorf("sendgrid: invalid address %q: %w", addr, err)
	}
	return parsed, nil
}
