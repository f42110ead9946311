// Package authflow implements the browser-side half of the authorization-code
// flow with PKCE: starting an attempt, validating the callback and handing the
// code to an exchanger.
package authflow

import (
	"errors"
	"fmt"

	"github.com/jrsteele09/go-issue-workspace/storage"
)

// Round-trip storage keys.
const (
	StateKey       = "github_oauth_state"
	VerifierKey    = "github_oauth_code_verifier"
	RedirectURIKey = "github_oauth_redirect_uri"
)

// Context is the transient state of one authorization attempt.
type Context struct {
	State        string
	CodeVerifier string
	// RedirectURI is empty when the provider default callback is used.
	RedirectURI string
}

// VerifierStore keeps the round-trip context in a session-scoped area between
// the redirect to the provider and the callback.
type VerifierStore struct {
	area storage.Area
}

func NewVerifierStore(area storage.Area) *VerifierStore {
	return &VerifierStore{area: area}
}

// Save writes the three keys. A failed write removes whatever was written so a
// half-saved context is never left behind.
func (s *VerifierStore) Save(c Context) error {
	if c.State == "" || c.CodeVerifier == "" {
		return errors.New("round-trip context needs a state and a verifier")
	}
	err := s.area.Set(StateKey, c.State)
	if err == nil {
		err = s.area.Set(VerifierKey, c.CodeVerifier)
	}
	if err == nil {
		if c.RedirectURI != "" {
			err = s.area.Set(RedirectURIKey, c.RedirectURI)
		} else {
			err = s.area.Delete(RedirectURIKey)
		}
	}
	if err != nil {
		s.clear()
		return fmt.Errorf("saving round-trip context: %w", err)
	}
	return nil
}

// Consume returns whatever is stored and deletes all three keys, whether or not
// the caller goes on to accept the values.
func (s *VerifierStore) Consume() Context {
	state, _ := s.area.Get(StateKey)
	verifier, _ := s.area.Get(VerifierKey)
	redirectURI, _ := s.area.Get(RedirectURIKey)
	s.clear()
	return Context{State: state, CodeVerifier: verifier, RedirectURI: redirectURI}
}

func (s *VerifierStore) clear() {
	_ = s.area.Delete(StateKey)
	_ = s.area.Delete(VerifierKey)
	_ = s.area.Delete(RedirectURIKey)
}
