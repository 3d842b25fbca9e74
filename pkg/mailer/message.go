package mailer

import (
	"fmt"
	"maps"
	"net/mail"
	"strings"
)

// Message keys populated by Mailer.
const (
	KeySubject     = "subject"
	KeyFromEmail   = "from_email"
	KeyFromName    = "from_name"
	KeyTo          = "to"
	KeyHTML        = "html"
	KeyText        = "text"
	KeyCCAddress   = "cc_address"
	KeyBCCAddress  = "bcc_address"
	KeyHeaders     = "headers"
	KeyTags        = "tags"
	KeyAttachments = "attachments"
)

// addressSeparator joins CC and BCC lists into a single address string.
const addressSeparator = ", "

// Message is the vendor message dictionary handed to a Transport.
// Values coming from settings or extra params are carried as-is,
// so any key the provider understands can be set without a code change.
type Message map[string]any

// Clone returns a shallow copy of the message.
func (m Message) Clone() Message {
	if m == nil {
		return Message{}
	}
	return maps.Clone(m)
}

// String returns the value at key formatted as a string, or "" when unset.
func (m Message) String(key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Strings returns the value at key as a string slice.
// A plain string is split on commas, which is how CC and BCC are stored.
func (m Message) Strings(key string) []string {
	switch v := m[key].(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := fmt.Sprint(item); item != nil && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return splitAddresses(v)
	default:
		return []string{fmt.Sprint(v)}
	}
}

// Headers returns a copy of the custom headers stored in the message.
func (m Message) Headers() map[string]string {
	switch v := m[KeyHeaders].(type) {
	case map[string]string:
		return maps.Clone(v)
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, val := range v {
			out[k] = fmt.Sprint(val)
		}
		return out
	default:
		return nil
	}
}

// Email converts the message into the typed Email used by Sender providers.
func (m Message) Email() *Email {
	email := &Email{
		Subject:     m.String(KeySubject),
		HTML:        m.String(KeyHTML),
		Text:        m.String(KeyText),
		To:          m.Strings(KeyTo),
		CC:          m.Strings(KeyCCAddress),
		BCC:         m.Strings(KeyBCCAddress),
		Headers:     m.Headers(),
		Tags:        m.Tags(),
		Attachments: m.Attachments(),
	}

	if addr := m.String(KeyFromEmail); addr != "" {
		email.From = Recipient(m.String(KeyFromName), addr)
	}

	for name, value := range email.Headers {
		if strings.EqualFold(name, "Reply-To") {
			email.ReplyTo = value
			delete(email.Headers, name)
		}
	}

	return email
}

// Tags returns the message tags. A list of names gives presence-only tags;
// a map keeps its values.
func (m Message) Tags() Tags {
	var tags Tags
	switch v := m[KeyTags].(type) {
	case nil:
		return nil
	case Tags:
		tags = maps.Clone(v)
	case map[string]any:
		tags = Tags(maps.Clone(v))
	case map[string]string:
		tags = make(Tags, len(v))
		for name, value := range v {
			tags[name] = value
		}
	default:
		tags = SimpleTags(m.Strings(KeyTags)...)
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// Attachments returns the attachments stored in the message.
func (m Message) Attachments() []Attachment {
	switch v := m[KeyAttachments].(type) {
	case []Attachment:
		return v
	case Attachment:
		return []Attachment{v}
	default:
		return nil
	}
}

// splitAddresses splits a joined address list. Quoted display names may
// contain commas, so the list is parsed first and split on commas only
// when it is not a valid address list.
func splitAddresses(s string) []string {
	if list, err := mail.ParseAddressList(s); err == nil {
		out := make([]string, 0, len(list))
		for _, addr := range list {
			if addr.Name == "" {
				out = append(out, addr.Address)
				continue
			}
			out = append(out, addr.String())
		}
		return out
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
