package sendgrid

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailbridge/pkg/mailer"
)

func TestSender_buildMessage(t *testing.T) {
	t.Parallel()

	s := New(Config{APIKey: "SG.test", SenderEmail: "noreply@example.com", SenderName: "Example"})
	sendAt := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	m, err := s.buildMessage(&mailer.Email{
		To:      []string{"Jane Doe <user@example.com>"},
		CC:      []string{"cc@example.com"},
		BCC:     []string{"bcc@example.com"},
		ReplyTo: "support@example.com",
		Subject: "Welcome",
		HTML:    "<p>Hi</p>",
		Text:    "Hi",
		Headers: map[string]string{"X-Campaign": "spring"},
		Tags:    mailer.SimpleTags("welcome", "onboarding"),
		Attachments: []mailer.Attachment{
			{Filename: "invoice.pdf", ContentType: "application/pdf", Content: []byte("pdf")},
			{Filename: "logo.png", ContentType: "image/png", ContentID: "logo", Content: []byte("png")},
		},
		SendAt: sendAt,
	})
	require.NoError(t, err)

	require.Equal(t, "Example", m.From.Name)
	require.Equal(t, "noreply@example.com", m.From.Address)
	require.Equal(t, "Welcome", m.Subject)

	require.Len(t, m.Personalizations, 1)
	p := m.Personalizations[0]
	require.Len(t, p.To, 1)
	require.Equal(t, "Jane Doe", p.To[0].Name)
	require.Equal(t, "user@example.com", p.To[0].Address)
	require.Equal(t, "cc@example.com", p.CC[0].Address)
	require.Equal(t, "bcc@example.com", p.BCC[0].Address)

	require.Len(t, m.Content, 2)
	require.Equal(t, "text/plain", m.Content[0].Type)
	require.Equal(t, "text/html", m.Content[1].Type)

	require.Equal(t, "support@example.com", m.ReplyTo.Address)
	require.Equal(t, map[string]string{"X-Campaign": "spring"}, m.Headers)
	require.Equal(t, []string{"onboarding", "welcome"}, m.Categories)
	require.Equal(t, int(sendAt.Unix()), m.SendAt)

	require.Len(t, m.Attachments, 2)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte("pdf")), m.Attachments[0].Content)
	require.Equal(t, "attachment", m.Attachments[0].Disposition)
	require.Equal(t, "inline", m.Attachments[1].Disposition)
	require.Equal(t, "logo", m.Attachments[1].ContentID)
}

func TestSender_buildMessage_FromEmail(t *testing.T) {
	t.Parallel()

	s := New(Config{SenderEmail: "noreply@example.com"})

	m, err := s.buildMessage(&mailer.Email{
		From:    "Team <team@example.com>",
		To:      []string{"user@example.com"},
		Subject: "Hi",
		HTML:    "<p>Hi</p>",
	})
	require.NoError(t, err)
	require.Equal(t, "Team", m.From.Name)
	require.Equal(t, "team@example.com", m.From.Address)
	require.Len(t, m.Content, 1, "empty text part is skipped")
	require.Nil(t, m.ReplyTo)
	require.Empty(t, m.Categories)
}

func TestSender_buildMessage_InvalidAddress(t *testing.T) {
	t.Parallel()

	s := New(Config{SenderEmail: "noreply@example.com"})

	_, err := s.buildMessage(&mailer.Email{
		To:      []string{"not an address"},
		Subject: "Hi",
		HTML:    "<p>Hi</p>",
	})
	require.ErrorContains(t, err, "invalid address")
}

func TestSender_ImplementsSender(t *testing.T) {
	t.Parallel()

	var _ mailer.Sender = New(Config{})
}
