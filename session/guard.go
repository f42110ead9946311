package session

import (
	"net/url"
	"strings"
)

// Default route layout of the workspace.
const (
	HomePath         = "/"
	WorkspacePath    = "/workspace"
	CallbackPath     = "/auth/callback"
	SessionResetPath = "/auth/session-reset"
)

// Decision is what the guard wants done with a request.
type Decision struct {
	// Redirect is empty when the request may continue.
	Redirect string
	// Clear asks the caller to clear the session before redirecting.
	Clear bool
}

// Guard gates routes on the presence of a session.
type Guard struct {
	SignInPath      string
	WorkspacePath   string
	ResetPath       string
	ProtectedPrefix string
}

func DefaultGuard() Guard {
	return Guard{
		SignInPath:      HomePath,
		WorkspacePath:   WorkspacePath,
		ResetPath:       SessionResetPath,
		ProtectedPrefix: WorkspacePath,
	}
}

// Decide applies the protected-route and public-route rules. The reset path is
// never gated so that invalidation cannot loop.
func (g Guard) Decide(path string, authenticated bool) Decision {
	switch {
	case path == g.ResetPath:
		return Decision{}
	case g.isProtected(path) && !authenticated:
		return Decision{Redirect: g.ResetURL(g.SignInPath), Clear: true}
	case path == g.SignInPath && authenticated:
		return Decision{Redirect: g.WorkspacePath}
	}
	return Decision{}
}

// ResetURL is where to send a browser whose credential was rejected.
func (g Guard) ResetURL(next string) string {
	return g.ResetPath + "?next=" + url.QueryEscape(SafeRedirectPath(next))
}

func (g Guard) isProtected(path string) bool {
	return path == g.ProtectedPrefix || strings.HasPrefix(path, strings.TrimSuffix(g.ProtectedPrefix, "/")+"/")
}

// SafeRedirectPath returns next when it is a same-origin relative path and HomePath
// otherwise. Protocol-relative values ("//host") and backslash variants that
// browsers normalise to them are rejected.
func SafeRedirectPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return HomePath
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return HomePath
	}
	if strings.ContainsAny(next, "\r\n\t") {
		return HomePath
	}
	return next
}
