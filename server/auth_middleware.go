package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// GuardMiddleware gates HTML routes on the presence of a session token.
// Protected routes without one are sent through the session reset; the sign-in
// page sends signed-in users on to the workspace.
func (s *Server) GuardMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions := s.sessionStore(w, r)
		_, authenticated := sessions.Token()

		decision := s.guard.Decide(r.URL.Path, authenticated)
		if decision.Redirect == "" {
			next(w, r)
			return
		}
		if decision.Clear {
			if err := sessions.Clear(); err != nil {
				log.Ctx(r.Context()).Warn().Err(err).Msg("failed to clear session")
			}
		}
		http.Redirect(w, r, decision.Redirect, http.StatusSeeOther)
	}
}
