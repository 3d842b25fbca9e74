package mailer

import (
	"fmt"
	"time"
)

// Tags represents email tags/categories that can be either presence-only
// (using struct{}{}) or key-value pairs (using string values).
//   - SendGrid: uses only tag names (categories)
//   - Resend: uses name-value pairs (presence-only tags become name="true")
type Tags map[string]any

// SimpleTags creates presence-only tags from a list of tag names.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email is a fully-prepared email message for typed providers (see Sender).
type Email struct {
	Headers     map[string]string
	Tags        Tags
	Subject     string
	HTML        string
	Text        string
	From        string // "Name <addr>" or bare address; empty means provider default
	ReplyTo     string
	To          []string // at least one required
	CC          []string
	BCC         []string
	Attachments []Attachment
	SendAt      time.Time // zero means immediately
}

// Attachment represents an email attachment.
type Attachment struct {
	Filename    string // Display name for the attachment
	ContentType string // MIME type (e.g., "application/pdf")
	ContentID   string // Optional Content-ID for inline attachments
	Content     []byte // Raw file content
}

// SendOptions are forwarded to the transport next to the message.
type SendOptions struct {
	SendAt time.Time // zero means immediately
	IPPool string    // dedicated IP pool name, if the provider supports it
	Async  bool      // ask the provider to accept the message without waiting
}

// Result is the provider's verdict for one recipient.
type Result struct {
	Email        string `json:"email"`
	Status       string `json:"status"`
	RejectReason string `json:"reject_reason,omitempty"`
	ID           string `json:"_id,omitempty"`
}

// Delivery statuses reported by providers.
const (
	StatusSent      = "sent"
	StatusQueued    = "queued"
	StatusScheduled = "scheduled"
	StatusRejected  = "rejected"
	StatusInvalid   = "invalid"
)
