package authflow

import (
	"crypto/subtle"
	"net/url"

	apperrors "github.com/jrsteele09/go-issue-workspace/internal/errors"
	"github.com/jrsteele09/go-issue-workspace/pkce"
)

// CallbackParams are the query parameters GitHub appends to the callback URL.
type CallbackParams struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

func ParseCallback(q url.Values) CallbackParams {
	return CallbackParams{
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}
}

// ProviderError is an error GitHub reported on the callback, such as access_denied.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Code
}

// Result is what the exchange needs from a validated callback.
type Result struct {
	Code         string
	CodeVerifier string
	RedirectURI  string
}

// CompleteAuthorization validates a callback against the stored context. The
// context is consumed on every path, so a second call for the same attempt
// always fails with ErrInvalidState.
func CompleteAuthorization(store *VerifierStore, p CallbackParams) (Result, error) {
	stored := store.Consume()

	if p.Error != "" {
		return Result{}, &ProviderError{Code: p.Error, Description: p.ErrorDescription}
	}
	if p.Code == "" {
		return Result{}, apperrors.ErrMissingCode
	}
	if stored.State == "" || subtle.ConstantTimeCompare([]byte(stored.State), []byte(p.State)) != 1 {
		return Result{}, apperrors.ErrInvalidState
	}
	if pkce.ValidateVerifier(stored.CodeVerifier) != nil {
		return Result{}, apperrors.ErrMissingVerifier
	}
	return Result{Code: p.Code, CodeVerifier: stored.CodeVerifier, RedirectURI: stored.RedirectURI}, nil
}
