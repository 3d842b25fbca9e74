package mandrill

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAPIKey indicates the client was built without an API key.
	ErrNoAPIKey = errors.New("mandrill: api key is not set")

	// ErrUnexpectedResponse indicates a response body that could not be decoded.
	ErrUnexpectedResponse = errors.New("mandrill: unexpected response")
)

// Error is an error reported by the Mandrill API.
//
//	{"status": "error", "code": -1, "name": "Invalid_Key", "message": "Invalid API key"}
type Error struct {
	Status     string `json:"status"`
	Name       string `json:"name"`
	Message    string `json:"message"`
	Code       int    `json:"code"`
	HTTPStatus int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("mandrill: %s: %s", e.Name, e.Message)
}

// IsInvalidKey reports whether err is a Mandrill Invalid_Key error.
func IsInvalidKey(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Name == "Invalid_Key"
}
