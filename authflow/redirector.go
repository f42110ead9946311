package authflow

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/jrsteele09/go-issue-workspace/internal/errors"
	"github.com/jrsteele09/go-issue-workspace/internal/utils"
	"github.com/jrsteele09/go-issue-workspace/oauthmodel"
	"github.com/jrsteele09/go-issue-workspace/pkce"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// Scopes requested from GitHub: profile read plus repository access for issues.
var Scopes = []string{"read:user", "repo"}

// ConfigSource yields the public OAuth configuration.
type ConfigSource interface {
	AuthConfig(ctx context.Context) (oauthmodel.AuthConfig, error)
}

// StaticConfig is a ConfigSource fixed at build or start time.
type StaticConfig oauthmodel.AuthConfig

func (s StaticConfig) AuthConfig(context.Context) (oauthmodel.AuthConfig, error) {
	return oauthmodel.AuthConfig(s), nil
}

// Navigator performs the full-page navigation to the provider. Nothing after a
// successful Navigate should be relied on to run in a browser.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, url string) error

func (f NavigatorFunc) Navigate(ctx context.Context, url string) error { return f(ctx, url) }

// Redirector starts authorization attempts.
type Redirector struct {
	Config ConfigSource
	// AuthorizeURL defaults to GitHub's authorize endpoint.
	AuthorizeURL string
	// RedirectURI, when set, replaces the configured callback. Loopback clients use this.
	RedirectURI string
}

// AuthorizationURL fetches configuration, creates and saves a fresh context and
// returns the provider URL. Configuration is validated before anything is written.
func (r *Redirector) AuthorizationURL(ctx context.Context, store *VerifierStore) (string, error) {
	if r.Config == nil {
		return "", apperrors.ErrMissingClientID
	}
	cfg, err := r.Config.AuthConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching auth config: %w", err)
	}
	clientID := strings.TrimSpace(cfg.ClientID)
	if clientID == "" {
		return "", apperrors.ErrMissingClientID
	}

	redirectURI := r.RedirectURI
	if redirectURI == "" {
		redirectURI = strings.TrimSpace(utils.Value(cfg.RedirectURI))
	}

	state, err := pkce.NewState()
	if err != nil {
		return "", err
	}
	verifier, err := pkce.NewVerifier()
	if err != nil {
		return "", err
	}
	if err := store.Save(Context{State: state, CodeVerifier: verifier, RedirectURI: redirectURI}); err != nil {
		return "", err
	}

	authorizeURL := r.AuthorizeURL
	if authorizeURL == "" {
		authorizeURL = github.Endpoint.AuthURL
	}
	oc := oauth2.Config{
		ClientID:    clientID,
		Endpoint:    oauth2.Endpoint{AuthURL: authorizeURL},
		RedirectURL: redirectURI,
		Scopes:      Scopes,
	}
	return oc.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", pkce.DeriveCodeChallenge(verifier)),
		oauth2.SetAuthURLParam("code_challenge_method", pkce.MethodS256),
		oauth2.SetAuthURLParam("allow_signup", "true"),
	), nil
}

// InitiateAuthorization builds the URL and navigates to it.
func (r *Redirector) InitiateAuthorization(ctx context.Context, store *VerifierStore, nav Navigator) error {
	u, err := r.AuthorizationURL(ctx, store)
	if err != nil {
		return err
	}
	return nav.Navigate(ctx, u)
}
