package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSimpleTags(t *testing.T) {
	t.Parallel()

	tags := SimpleTags("welcome", "onboarding")
	require.Equal(t, Tags{"welcome": struct{}{}, "onboarding": struct{}{}}, tags)
	require.Empty(t, SimpleTags())
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Jane Doe <jane@example.com>", Recipient("Jane Doe", "jane@example.com"))
	require.Equal(t, "jane@example.com", Recipient("", "jane@example.com"))
}

func TestMessage_Strings(t *testing.T) {
	t.Parallel()

	msg := Message{
		"slice":  []string{"a@example.com", "b@example.com"},
		"yaml":   []any{"a@example.com", nil, "b@example.com"},
		"joined": "a@example.com, b@example.com,",
		"number": 42,
		"quoted": `"Doe, Jane" <jane@example.com>, b@example.com`,
		"broken": "a@example.com, not an address",
	}

	want := []string{"a@example.com", "b@example.com"}
	require.Equal(t, want, msg.Strings("slice"))
	require.Equal(t, want, msg.Strings("yaml"))
	require.Equal(t, want, msg.Strings("joined"))
	require.Equal(t, []string{"42"}, msg.Strings("number"))
	require.Equal(t, []string{`"Doe, Jane" <jane@example.com>`, "b@example.com"}, msg.Strings("quoted"))
	require.Equal(t, []string{"a@example.com", "not an address"}, msg.Strings("broken"), "falls back to comma split")
	require.Nil(t, msg.Strings("missing"))
}

func TestMessage_String(t *testing.T) {
	t.Parallel()

	msg := Message{"subject": "Hi", "count": 3}
	require.Equal(t, "Hi", msg.String("subject"))
	require.Equal(t, "3", msg.String("count"))
	require.Equal(t, "", msg.String("missing"))
}

func TestMessage_Clone(t *testing.T) {
	t.Parallel()

	orig := Message{KeySubject: "Hi"}
	clone := orig.Clone()
	clone[KeySubject] = "Changed"

	require.Equal(t, "Hi", orig[KeySubject])
	require.Equal(t, Message{}, Message(nil).Clone())
}

func TestMessage_Email(t *testing.T) {
	t.Parallel()

	headers := map[string]any{"Reply-To": "support@example.com", "X-Campaign": "spring"}
	msg := Message{
		KeySubject:    "Welcome",
		KeyFromName:   "Team",
		KeyFromEmail:  "team@example.com",
		KeyTo:         []string{"user@example.com"},
		KeyHTML:       "<p>Hi</p>",
		KeyText:       "Hi",
		KeyCCAddress:  "a@example.com, b@example.com",
		KeyBCCAddress: "audit@example.com",
		KeyHeaders:    headers,
		KeyTags:       []any{"welcome", "onboarding"},
		"track_opens": true,
	}

	email := msg.Email()
	require.Equal(t, &Email{
		Subject: "Welcome",
		From:    "Team <team@example.com>",
		ReplyTo: "support@example.com",
		To:      []string{"user@example.com"},
		CC:      []string{"a@example.com", "b@example.com"},
		BCC:     []string{"audit@example.com"},
		HTML:    "<p>Hi</p>",
		Text:    "Hi",
		Headers: map[string]string{"X-Campaign": "spring"},
		Tags:    SimpleTags("welcome", "onboarding"),
	}, email)

	require.Contains(t, headers, "Reply-To", "message headers must not be modified")
}

func TestMessage_Email_TagsAndAttachments(t *testing.T) {
	t.Parallel()

	attachment := Attachment{Filename: "invoice.pdf", ContentType: "application/pdf", Content: []byte("%PDF")}
	tests := []struct {
		name string
		msg  Message
		tags Tags
		atts []Attachment
	}{
		{
			name: "tags with values",
			msg:  Message{KeyTags: Tags{"campaign": "spring", "welcome": struct{}{}}},
			tags: Tags{"campaign": "spring", "welcome": struct{}{}},
		},
		{
			name: "yaml map",
			msg:  Message{KeyTags: map[string]any{"campaign": "spring"}},
			tags: Tags{"campaign": "spring"},
		},
		{
			name: "string map",
			msg:  Message{KeyTags: map[string]string{"campaign": "spring"}},
			tags: Tags{"campaign": "spring"},
		},
		{
			name: "empty tags",
			msg:  Message{KeyTags: Tags{}},
		},
		{
			name: "attachment list",
			msg:  Message{KeyAttachments: []Attachment{attachment}},
			atts: []Attachment{attachment},
		},
		{
			name: "single attachment",
			msg:  Message{KeyAttachments: attachment},
			atts: []Attachment{attachment},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			email := tt.msg.Email()
			require.Equal(t, tt.tags, email.Tags)
			require.Equal(t, tt.atts, email.Attachments)
		})
	}
}

func TestMessage_Email_NoSender(t *testing.T) {
	t.Parallel()

	email := Message{KeyTo: []string{"user@example.com"}}.Email()
	require.Empty(t, email.From)
	require.Nil(t, email.Headers)
	require.Nil(t, email.Tags)
}

func TestSenderTransport(t *testing.T) {
	t.Parallel()

	msg := Message{
		KeySubject:   "Hi",
		KeyFromName:  "Nobody",
		KeyFromEmail: "team@example.com",
		KeyTo:        []string{"a@example.com", "b@example.com"},
		KeyHTML:      "<p>Hi</p>",
	}

	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.MatchedBy(func(e *Email) bool {
		return e.Subject == "Hi" && e.From == "Nobody <team@example.com>" && len(e.To) == 2 && e.SendAt.IsZero()
	})).Return(nil).Once()

	results, err := SenderTransport(sender).Deliver(context.Background(), msg, SendOptions{})
	require.NoError(t, err)
	require.Equal(t, []Result{
		{Email: "a@example.com", Status: StatusSent},
		{Email: "b@example.com", Status: StatusSent},
	}, results)
	sender.AssertExpectations(t)
}

func TestSenderTransport_Statuses(t *testing.T) {
	t.Parallel()

	msg := Message{KeyTo: []string{"a@example.com"}}
	sendAt := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)

	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	results, err := SenderTransport(sender).Deliver(context.Background(), msg, SendOptions{SendAt: sendAt})
	require.NoError(t, err)
	require.Equal(t, StatusScheduled, results[0].Status)
	require.Equal(t, sendAt, sender.Calls[0].Arguments.Get(1).(*Email).SendAt)

	results, err = SenderTransport(sender).Deliver(context.Background(), msg, SendOptions{Async: true})
	require.NoError(t, err)
	require.Equal(t, StatusQueued, results[0].Status)
}

func TestSenderTransport_Error(t *testing.T) {
	t.Parallel()

	sendErr := errors.New("smtp connection failed")
	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(sendErr)

	results, err := SenderTransport(sender).Deliver(context.Background(), Message{KeyTo: "a@example.com"}, SendOptions{})
	require.ErrorIs(t, err, sendErr)
	require.Nil(t, results)
}

func TestTransportFunc(t *testing.T) {
	t.Parallel()

	var got Message
	tr := TransportFunc(func(_ context.Context, msg Message, _ SendOptions) ([]Result, error) {
		got = msg
		return nil, nil
	})

	_, err := tr.Deliver(context.Background(), Message{KeySubject: "Hi"}, SendOptions{})
	require.NoError(t, err)
	require.Equal(t, Message{KeySubject: "Hi"}, got)
}
