package logger

import "log/slog"

// NewNope creates a logger that discards everything.
// Mailer uses it when no logger is configured.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
