package mandrill

import (
	"context"
	"encoding/base64"
	"fmt"
	"maps"
	"net/mail"
	"slices"

	"github.com/dmitrymomot/mailbridge/pkg/mailer"
)

// sendAtLayout is the UTC timestamp format Mandrill expects for scheduled sends.
const sendAtLayout = "2006-01-02 15:04:05"

// Message keys specific to Mandrill.
const (
	keyMetadata = "metadata"
	keyImages   = "images"
)

// recipient is Mandrill's "to" entry.
type recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Type  string `json:"type"`
}

// file is Mandrill's "attachments" and "images" entry.
// For images, Name is the Content-ID referenced as cid:<name>.
type file struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Deliver implements mailer.Transport by calling messages/send.
// The message is passed through unchanged except for typed values Mandrill
// can't take as they are: plain "to" strings become recipient objects,
// mailer.Tags become tag names plus metadata, and mailer.Attachment values
// become base64 attachments or inline images.
func (c *Client) Deliver(ctx context.Context, msg mailer.Message, opts mailer.SendOptions) ([]mailer.Result, error) {
	payload := map[string]any{
		"message": toVendorMessage(msg),
		"async":   opts.Async,
	}
	if opts.IPPool != "" {
		payload["ip_pool"] = opts.IPPool
	}
	if !opts.SendAt.IsZero() {
		payload["send_at"] = opts.SendAt.UTC().Format(sendAtLayout)
	}

	var results []mailer.Result
	if err := c.call(ctx, "messages/send.json", payload, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func toVendorMessage(msg mailer.Message) mailer.Message {
	out := msg.Clone()
	if to, ok := toRecipients(msg[mailer.KeyTo]); ok {
		out[mailer.KeyTo] = to
	}
	convertTags(out)
	convertAttachments(out)
	return out
}

func toRecipients(value any) ([]recipient, bool) {
	var addrs []string
	switch to := value.(type) {
	case []string:
		addrs = to
	case []any:
		for _, v := range to {
			s, ok := v.(string)
			if !ok {
				// already in Mandrill's shape, leave it alone
				return nil, false
			}
			addrs = append(addrs, s)
		}
	default:
		return nil, false
	}

	list := make([]recipient, 0, len(addrs))
	for _, a := range addrs {
		r := recipient{Email: a, Type: "to"}
		if parsed, err := mail.ParseAddress(a); err == nil {
			r.Email = parsed.Address
			r.Name = parsed.Name
		}
		list = append(list, r)
	}
	return list, true
}

// convertTags turns a mailer.Tags map into sorted tag names. Tags carrying a
// value are also added to metadata, without replacing metadata already set.
func convertTags(msg mailer.Message) {
	tags, ok := msg[mailer.KeyTags].(mailer.Tags)
	if !ok {
		return
	}
	msg[mailer.KeyTags] = slices.Sorted(maps.Keys(tags))

	metadata := map[string]any{}
	switch existing := msg[keyMetadata].(type) {
	case map[string]any:
		maps.Copy(metadata, existing)
	case map[string]string:
		for k, v := range existing {
			metadata[k] = v
		}
	}
	added := false
	for name, value := range tags {
		if _, presence := value.(struct{}); presence || value == nil {
			continue
		}
		if _, ok := metadata[name]; !ok {
			metadata[name] = fmt.Sprint(value)
			added = true
		}
	}
	if added {
		msg[keyMetadata] = metadata
	}
}

// convertAttachments encodes mailer.Attachment values. Attachments with a
// Content-ID go to "images" so HTML can reference them inline.
func convertAttachments(msg mailer.Message) {
	atts := msg.Attachments()
	if len(atts) == 0 {
		return
	}

	var files, images []file
	for _, a := range atts {
		f := file{
			Type:    a.ContentType,
			Name:    a.Filename,
			Content: base64.StdEncoding.EncodeToString(a.Content),
		}
		if a.ContentID != "" {
			f.Name = a.ContentID
			images = append(images, f)
			continue
		}
		files = append(files, f)
	}

	delete(msg, mailer.KeyAttachments)
	if len(files) > 0 {
		msg[mailer.KeyAttachments] = files
	}
	if len(images) > 0 {
		msg[keyImages] = images
	}
}
