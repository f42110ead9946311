// Package exchange implements the confidential half of the sign-in flow: it
// swaps an authorization code for a provider token using the server-held client
// secret and returns the token together with the identity it belongs to.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-issue-workspace/githubapi"
	apperrors "github.com/jrsteele09/go-issue-workspace/internal/errors"
	"github.com/jrsteele09/go-issue-workspace/internal/utils"
	"github.com/jrsteele09/go-issue-workspace/oauthmodel"
	"github.com/jrsteele09/go-issue-workspace/pkce"
	"github.com/rs/zerolog/log"
)

// Input bounds. Anything longer is rejected before the provider is contacted.
const (
	MaxCodeLength     = 512
	MaxVerifierLength = pkce.MaxVerifierLength
	MaxURILength      = 2048
)

// Provider is the upstream OAuth server.
type Provider interface {
	Configured() bool
	ExchangeCode(ctx context.Context, req githubapi.TokenRequest) (githubapi.Token, error)
	FetchUser(ctx context.Context, accessToken string) (githubapi.User, error)
}

// Config is the public half of the OAuth app registration.
type Config struct {
	ClientID string
	// RedirectURI, when set, is the only redirect_uri accepted from callers and
	// the value always sent upstream.
	RedirectURI string
}

// Service exchanges authorization codes. It is safe for concurrent use.
type Service struct {
	clientID    string
	redirectURI string
	provider    Provider
}

func NewService(cfg Config, provider Provider) *Service {
	return &Service{clientID: cfg.ClientID, redirectURI: cfg.RedirectURI, provider: provider}
}

// Configured reports whether exchanges can succeed at all.
func (s *Service) Configured() bool {
	return s.clientID != "" && s.provider != nil && s.provider.Configured()
}

// AuthConfig returns the configuration browsers need to start the flow.
func (s *Service) AuthConfig(_ context.Context) (oauthmodel.AuthConfig, error) {
	if s.clientID == "" {
		return oauthmodel.AuthConfig{}, newError(http.StatusInternalServerError, "OAuth not configured", apperrors.ErrOAuthNotConfigured)
	}
	return oauthmodel.AuthConfig{ClientID: s.clientID, RedirectURI: utils.PtrIfSet(s.redirectURI)}, nil
}

// Exchange validates req, redeems the code upstream and fetches the identity.
// Every failure is an *Error carrying the HTTP status to answer with.
func (s *Service) Exchange(ctx context.Context, req oauthmodel.ExchangeRequest) (oauthmodel.ExchangeResponse, error) {
	if err := s.validate(req); err != nil {
		return oauthmodel.ExchangeResponse{}, err
	}
	if !s.Configured() {
		return oauthmodel.ExchangeResponse{}, newError(http.StatusInternalServerError, "OAuth not configured", apperrors.ErrOAuthNotConfigured)
	}

	tok, err := s.provider.ExchangeCode(ctx, githubapi.TokenRequest{
		Code:         req.Code,
		RedirectURI:  s.redirectURI,
		CodeVerifier: req.CodeVerifier,
	})
	if err != nil {
		var te *githubapi.TokenError
		switch {
		case errors.As(err, &te):
			log.Info().Str("error", te.Code).Msg("provider rejected authorization code")
			return oauthmodel.ExchangeResponse{}, newError(http.StatusBadRequest, te.Message(), err)
		case errors.Is(err, githubapi.ErrNoAccessToken):
			return oauthmodel.ExchangeResponse{}, newError(http.StatusBadRequest, "No access token received", apperrors.ErrNoAccessToken)
		}
		log.Err(err).Msg("OAuth exchange error")
		return oauthmodel.ExchangeResponse{}, newError(http.StatusInternalServerError, "Authentication failed", err)
	}

	user, err := s.provider.FetchUser(ctx, tok.AccessToken)
	if err != nil {
		log.Err(err).Msg("fetching identity for new token")
		return oauthmodel.ExchangeResponse{}, newError(http.StatusInternalServerError, "Failed to fetch user", fmt.Errorf("%w: %v", apperrors.ErrIdentityFetch, err))
	}

	log.Info().Str("login", user.Login).Msg("authorization code exchanged")
	return oauthmodel.ExchangeResponse{
		AccessToken: tok.AccessToken,
		User: oauthmodel.ExchangeUser{
			ID:        user.ID,
			Login:     user.Login,
			AvatarURL: user.AvatarURL,
			Name:      user.DisplayName(),
			Email:     utils.Value(user.Email),
		},
	}, nil
}

// validate applies the input bounds and the canonical redirect_uri rule, in that order.
func (s *Service) validate(req oauthmodel.ExchangeRequest) error {
	if req.Code == "" {
		return newError(http.StatusBadRequest, "Missing code", oauthmodel.ErrMissingCode)
	}
	if len(req.Code) > MaxCodeLength {
		return newError(http.StatusBadRequest, "Invalid code", oauthmodel.ErrInvalidCode)
	}
	if len(req.CodeVerifier) > MaxVerifierLength {
		return newError(http.StatusBadRequest, "Invalid code_verifier", oauthmodel.ErrInvalidCodeVerifier)
	}
	if req.RedirectURI != "" {
		if len(req.RedirectURI) > MaxURILength {
			return newError(http.StatusBadRequest, "Invalid redirect_uri", oauthmodel.ErrInvalidRedirectUri)
		}
		if s.redirectURI != "" && req.RedirectURI != s.redirectURI {
			log.Warn().Int("length", len(req.RedirectURI)).Msg("rejected exchange with foreign redirect_uri")
			return newError(http.StatusBadRequest, "redirect_uri mismatch", apperrors.ErrRedirectURIMismatch)
		}
	}
	return nil
}
