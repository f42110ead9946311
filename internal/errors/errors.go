package errors

import (
	"errors"
	"fmt"
)

// Common error types for the sign-in flow and session lifecycle
var (
	// Configuration errors
	ErrMissingClientID    = errors.New("missing OAuth client id")
	ErrOAuthNotConfigured = errors.New("OAuth not configured")

	// Round-trip errors
	ErrInvalidState    = errors.New("invalid state parameter")
	ErrMissingVerifier = errors.New("missing code verifier")
	ErrMissingCode     = errors.New("missing authorization code")

	// Exchange errors
	ErrRedirectURIMismatch = errors.New("redirect_uri mismatch")
	ErrNoAccessToken       = errors.New("no access token received")
	ErrIdentityFetch       = errors.New("failed to fetch user")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
