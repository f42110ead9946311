package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-issue-workspace/apiclient"
	"github.com/jrsteele09/go-issue-workspace/authflow"
	"github.com/jrsteele09/go-issue-workspace/exchange"
	apperrors "github.com/jrsteele09/go-issue-workspace/internal/errors"
	"github.com/rs/zerolog/log"
)

// LoginHandler starts a sign-in attempt and sends the browser to GitHub.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nav := authflow.NavigatorFunc(func(_ context.Context, u string) error {
			http.Redirect(w, r, u, http.StatusFound)
			return nil
		})
		err := s.redirector.InitiateAuthorization(r.Context(), s.verifierStore(w, r), nav)
		if err == nil {
			return
		}

		log.Ctx(r.Context()).Error().Err(err).Msg("failed to start sign-in")
		status := http.StatusInternalServerError
		if authflow.Retryable(err) {
			status = http.StatusBadGateway
		}
		s.renderAuthError(w, r, status, "Failed to start sign in", err)
	}
}

// AuthCallbackHandler completes the attempt GitHub redirected back from.
func (s *Server) AuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		p := authflow.ParseCallback(r.URL.Query())
		sessions := s.sessionStore(w, r)

		if p.Code != "" && !s.codes.TryAcquire(p.Code) {
			// A reload after success lands here; the first request already saved the session.
			if _, ok := sessions.Token(); ok {
				http.Redirect(w, r, RouteWorkspace, http.StatusSeeOther)
				return
			}
			s.renderAuthError(w, r, http.StatusConflict, "Sign-in failed", authflow.ErrDuplicateCallback)
			return
		}

		res, err := authflow.CompleteAuthorization(s.verifierStore(w, r), p)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("rejected authorization callback")
			s.renderAuthError(w, r, http.StatusBadRequest, "Sign-in failed", err)
			return
		}

		user, err := authflow.ExchangeAndSave(ctx, s.exchanger, sessions, res, nil, nil)
		if err != nil {
			status, _ := exchange.StatusOf(err)
			var backendErr *apiclient.Error
			if errors.As(err, &backendErr) {
				status = backendErr.Status
			}
			if authflow.Retryable(err) && status < http.StatusInternalServerError {
				status = http.StatusBadGateway
			}
			log.Ctx(ctx).Error().Err(err).Int("status", status).Msg("failed to complete sign-in")
			s.renderAuthError(w, r, status, "Sign-in failed", err)
			return
		}

		log.Ctx(ctx).Info().Str("login", user.Login).Msg("signed in")
		http.Redirect(w, r, RouteWorkspace, http.StatusSeeOther)
	}
}

// callbackMessage is the user-facing text for a failed attempt.
func callbackMessage(err error) string {
	var (
		pe         *authflow.ProviderError
		xe         *exchange.Error
		backendErr *apiclient.Error
	)
	switch {
	case errors.As(err, &pe):
		return pe.Error()
	case errors.Is(err, apperrors.ErrMissingCode):
		return "Missing authorization code"
	case errors.Is(err, apperrors.ErrInvalidState):
		return "Invalid OAuth state. Please try again."
	case errors.Is(err, apperrors.ErrMissingVerifier):
		return "Missing OAuth verifier. Please try again."
	case errors.Is(err, apperrors.ErrMissingClientID):
		return "OAuth configuration is missing client_id"
	case errors.Is(err, authflow.ErrDuplicateCallback):
		return "This sign-in is already being completed."
	case errors.Is(err, authflow.ErrAttemptSuperseded):
		return "Sign-in was interrupted. Please try again."
	case errors.As(err, &xe):
		return xe.Message
	case errors.As(err, &backendErr):
		return backendErr.Message
	}
	return "Authentication failed"
}

func (s *Server) renderAuthError(w http.ResponseWriter, r *http.Request, status int, title string, err error) {
	s.renderPage(w, r, status, pageAuthError, map[string]interface{}{
		"AppName":   s.config.GetAppName(),
		"Title":     title,
		"Message":   callbackMessage(err),
		"Retryable": authflow.Retryable(err),
		"RetryURL":  RouteAuthLogin,
		"HomeURL":   RouteHome,
	})
}
