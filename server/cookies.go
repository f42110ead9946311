package server

import (
	"net/http"

	"github.com/jrsteele09/go-issue-workspace/authflow"
	"github.com/jrsteele09/go-issue-workspace/session"
	"github.com/jrsteele09/go-issue-workspace/storage"
)

// secureCookies is on in production and whenever the request itself came over TLS.
func (s *Server) secureCookies(r *http.Request) bool {
	return s.config.GetSecureCookies() || getScheme(r, s.config.GetTrustProxy()) == "https"
}

// roundTripArea holds the state, verifier and redirect between the redirect to
// GitHub and the callback. Browser-session cookies whose sealed payload expires
// after the round-trip timeout.
func (s *Server) roundTripArea(w http.ResponseWriter, r *http.Request) *storage.CookieArea {
	return storage.NewCookieArea(w, r, storage.CookieOptions{
		HttpOnly: true,
		Secure:   s.secureCookies(r),
		SameSite: http.SameSiteLaxMode,
		TTL:      s.config.GetRoundTripTimeout(),
		Sealer:   s.sealer,
	})
}

// secretArea holds the access token. Never script-readable.
func (s *Server) secretArea(w http.ResponseWriter, r *http.Request) *storage.CookieArea {
	return storage.NewCookieArea(w, r, storage.CookieOptions{
		HttpOnly: true,
		Secure:   s.secureCookies(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.config.GetSessionMaxAge(),
		Sealer:   s.sealer,
	})
}

// displayArea holds the user snapshot, readable by page scripts.
func (s *Server) displayArea(w http.ResponseWriter, r *http.Request) *storage.CookieArea {
	return storage.NewCookieArea(w, r, storage.CookieOptions{
		Secure:   s.secureCookies(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.config.GetSessionMaxAge(),
	})
}

func (s *Server) sessionStore(w http.ResponseWriter, r *http.Request) *session.Store {
	return session.NewStore(s.secretArea(w, r), s.displayArea(w, r))
}

func (s *Server) verifierStore(w http.ResponseWriter, r *http.Request) *authflow.VerifierStore {
	return authflow.NewVerifierStore(s.roundTripArea(w, r))
}
