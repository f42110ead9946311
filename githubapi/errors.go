package githubapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoAccessToken is returned when the token endpoint answers 200 without a token.
var ErrNoAccessToken = errors.New("no access token received")

// TokenError is an OAuth error reported by the token endpoint, e.g. bad_verification_code
// for a replayed or expired code.
type TokenError struct {
	Code        string
	Description string
}

func (e *TokenError) Error() string {
	if e.Description == "" {
		return "github oauth: " + e.Code
	}
	return fmt.Sprintf("github oauth: %s: %s", e.Code, e.Description)
}

// Message is the text shown to users: the description when present, else the code.
func (e *TokenError) Message() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Code
}

// APIError represents a non-2xx response from GitHub.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Message is the top-level error description from GitHub.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: HTTP %d: %s", e.StatusCode, e.Message)
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	msg := http.StatusText(status)
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		msg = payload.Message
	}
	return &APIError{StatusCode: status, Message: msg}
}

// IsUnauthorized reports whether err means the bearer token is expired or revoked.
// GitHub answers 401 with "Bad credentials" in that case.
func IsUnauthorized(err error) bool {
	var apiError *APIError
	if !errors.As(err, &apiError) {
		return false
	}
	return apiError.StatusCode == http.StatusUnauthorized ||
		strings.Contains(strings.ToLower(apiError.Message), "bad credentials")
}
