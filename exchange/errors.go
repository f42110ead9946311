package exchange

import (
	"errors"
	"net/http"
)

// Error is an exchange failure with the status and user-facing message to report.
type Error struct {
	Status  int
	Message string
	Err     error
}

func newError(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// StatusOf maps err to an HTTP status, defaulting to 500.
func StatusOf(err error) (int, string) {
	var e *Error
	if errors.As(err, &e) {
		return e.Status, e.Message
	}
	return http.StatusInternalServerError, "Authentication failed"
}
