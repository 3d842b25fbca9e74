package mandrill

import "time"

// Config holds Mandrill transport configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey  string        `env:"MANDRILL_API_KEY"`
	BaseURL string        `env:"MANDRILL_BASE_URL" envDefault:"https://mandrillapp.com/api/1.0"`
	Timeout time.Duration `env:"MANDRILL_TIMEOUT" envDefault:"10s"`
}

// DefaultBaseURL is the Mandrill API root.
const DefaultBaseURL = "https://mandrillapp.com/api/1.0"
