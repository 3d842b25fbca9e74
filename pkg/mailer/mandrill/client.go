package mandrill

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sendgrid/rest"
)

// Client calls the Mandrill JSON API.
type Client struct {
	rest   *rest.Client
	config Config
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.rest = &rest.Client{HTTPClient: hc}
		}
	}
}

// New creates a Mandrill client.
func New(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	c := &Client{
		rest:   &rest.Client{HTTPClient: &http.Client{Timeout: cfg.Timeout}},
		config: cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping verifies the API key. Mandrill answers {"PING": "PONG!"}.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Ping string `json:"PING"`
	}
	if err := c.call(ctx, "users/ping2.json", map[string]any{}, &out); err != nil {
		return err
	}
	if out.Ping != "PONG!" {
		return fmt.Errorf("%w: ping returned %q", ErrUnexpectedResponse, out.Ping)
	}
	return nil
}

// call posts payload with the API key to the given method path and decodes the reply into out.
func (c *Client) call(ctx context.Context, method string, payload map[string]any, out any) error {
	if c.config.APIKey == "" {
		return ErrNoAPIKey
	}
	payload["key"] = c.config.APIKey

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mandrill: failed to encode %s request: %w", method, err)
	}

	resp, err := c.rest.SendWithContext(ctx, rest.Request{
		Method:  rest.Post,
		BaseURL: strings.TrimSuffix(c.config.BaseURL, "/") + "/" + method,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		Body: body,
	})
	if err != nil {
		return fmt.Errorf("mandrill: %s request failed: %w", method, err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &Error{HTTPStatus: resp.StatusCode}
		if jsonErr := json.Unmarshal([]byte(resp.Body), apiErr); jsonErr != nil || apiErr.Name == "" {
			return fmt.Errorf("%w: %s returned status %d: %s", ErrUnexpectedResponse, method, resp.StatusCode, resp.Body)
		}
		return apiErr
	}

	if err := json.Unmarshal([]byte(resp.Body), out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnexpectedResponse, method, err)
	}
	return nil
}
