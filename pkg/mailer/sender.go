package mailer

import "context"

// Transport is the provider call that accepts a built Message.
// Options are passed next to the message, not inside it.
type Transport interface {
	Deliver(ctx context.Context, msg Message, opts SendOptions) ([]Result, error)
}

// Sender defines the minimal interface that typed email providers implement.
// It accepts a fully-prepared Email and handles the actual delivery.
type Sender interface {
	// Send delivers an email message.
	// The Email must have To, Subject, and HTML already set.
	Send(ctx context.Context, email *Email) error
}

// TransportFunc adapts a plain function to Transport.
type TransportFunc func(ctx context.Context, msg Message, opts SendOptions) ([]Result, error)

// Deliver calls f.
func (f TransportFunc) Deliver(ctx context.Context, msg Message, opts SendOptions) ([]Result, error) {
	return f(ctx, msg, opts)
}

// SenderTransport wraps a Sender so it can serve as a Mailer transport.
// Every recipient of an accepted email is reported as sent (or scheduled).
func SenderTransport(s Sender) Transport {
	return &senderTransport{sender: s}
}

type senderTransport struct {
	sender Sender
}

func (t *senderTransport) Deliver(ctx context.Context, msg Message, opts SendOptions) ([]Result, error) {
	email := msg.Email()
	email.SendAt = opts.SendAt

	if err := t.sender.Send(ctx, email); err != nil {
		return nil, err
	}

	status := StatusSent
	if !opts.SendAt.IsZero() {
		status = StatusScheduled
	} else if opts.Async {
		status = StatusQueued
	}

	results := make([]Result, 0, len(email.To))
	for _, to := range email.To {
		results = append(results, Result{Email: to, Status: status})
	}
	return results, nil
}
