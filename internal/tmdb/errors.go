package tmdb

import (
	"errors"
	"fmt"
)

// ErrNilClient is returned when a method is called on a nil *Client.
var ErrNilClient = errors.New("tmdb: client is nil")

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Endpoint   string
	StatusCode int
	// Message is TMDB's status_message when the body carried one.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tmdb %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tmdb %s returned status %d", e.Endpoint, e.StatusCode)
}

// IsStatus reports whether err wraps a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

type errorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
