package oauthmodel

import "errors"

var (
	ErrMissingCode         = errors.New("missing code")
	ErrInvalidCode         = errors.New("invalid code")
	ErrInvalidCodeVerifier = errors.New("invalid code_verifier")
	ErrInvalidRedirectUri  = errors.New("invalid redirect_uri")
)

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}
