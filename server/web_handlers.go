package server

import (
	"net/http"

	"github.com/jrsteele09/go-issue-workspace/githubapi"
	"github.com/jrsteele09/go-issue-workspace/internal/utils"
	"github.com/jrsteele09/go-issue-workspace/session"
	"github.com/rs/zerolog/log"
)

// HomeHandler renders the sign-in page.
func (s *Server) HomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, http.StatusOK, pageIndex, map[string]interface{}{
			"AppName":    s.config.GetAppName(),
			"Error":      r.URL.Query().Get("error"),
			"Configured": s.config.GetClientID() != "",
			"LoginURL":   RouteAuthLogin,
		})
	}
}

// WorkspaceHandler re-reads the identity from GitHub before showing anything,
// so the display cookie is never trusted on its own.
func (s *Server) WorkspaceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessions := s.sessionStore(w, r)
		token, ok := sessions.Token()
		if !ok {
			http.Redirect(w, r, s.guard.ResetURL(RouteHome), http.StatusSeeOther)
			return
		}

		gh, err := s.github.FetchUser(ctx, token)
		if err != nil {
			if githubapi.IsUnauthorized(err) {
				log.Ctx(ctx).Info().Msg("stored token rejected by GitHub")
				http.Redirect(w, r, s.guard.ResetURL(RouteHome), http.StatusSeeOther)
				return
			}
			log.Ctx(ctx).Error().Err(err).Msg("failed to load workspace identity")
			s.renderPage(w, r, http.StatusBadGateway, pageAuthError, map[string]interface{}{
				"AppName":   s.config.GetAppName(),
				"Title":     "Workspace unavailable",
				"Message":   "Could not reach GitHub. Please try again.",
				"Retryable": true,
				"RetryURL":  RouteWorkspace,
				"HomeURL":   RouteHome,
			})
			return
		}

		user := session.User{
			ID:        gh.ID,
			Login:     gh.Login,
			Name:      gh.DisplayName(),
			AvatarURL: gh.AvatarURL,
			Email:     utils.Value(gh.Email),
		}
		if err := sessions.Save(token, user); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed to refresh session snapshot")
		}

		s.renderPage(w, r, http.StatusOK, pageWorkspace, map[string]interface{}{
			"AppName":    s.config.GetAppName(),
			"User":       user,
			"SignOutURL": RouteSignOut,
		})
	}
}

// SessionResetHandler clears the session and continues to a safe local path.
func (s *Server) SessionResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next := session.SafeRedirectPath(r.URL.Query().Get("next"))
		if err := s.sessionStore(w, r).Clear(); err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("failed to clear session")
		}
		http.Redirect(w, r, next, http.StatusSeeOther)
	}
}

func (s *Server) SignOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.sessionStore(w, r).Clear(); err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("failed to clear session")
		}
		http.Redirect(w, r, RouteHome, http.StatusSeeOther)
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, http.StatusNotFound, pageNotFound, map[string]interface{}{
			"AppName": s.config.GetAppName(),
			"HomeURL": RouteHome,
		})
	}
}
