package session_test

import (
	"testing"

	"github.com/jrsteele09/go-issue-workspace/session"
	"github.com/stretchr/testify/require"
)

func TestGuard_Decide(t *testing.T) {
	g := session.DefaultGuard()

	tests := []struct {
		name          string
		path          string
		authenticated bool
		want          session.Decision
	}{
		{"workspace without session", "/workspace", false, session.Decision{Redirect: "/auth/session-reset?next=%2F", Clear: true}},
		{"nested workspace without session", "/workspace/octocat/hello", false, session.Decision{Redirect: "/auth/session-reset?next=%2F", Clear: true}},
		{"workspace with session", "/workspace", true, session.Decision{}},
		{"sign-in with session", "/", true, session.Decision{Redirect: "/workspace"}},
		{"sign-in without session", "/", false, session.Decision{}},
		{"reset without session", "/auth/session-reset", false, session.Decision{}},
		{"reset with session", "/auth/session-reset", true, session.Decision{}},
		{"callback is public", "/auth/callback", false, session.Decision{}},
		{"prefix lookalike is public", "/workspaces", false, session.Decision{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, g.Decide(tt.path, tt.authenticated))
		})
	}
}

func TestSafeRedirectPath(t *testing.T) {
	for in, want := range map[string]string{
		"":                         "/",
		"/":                        "/",
		"/workspace":               "/workspace",
		"/workspace?repo=a%2Fb":    "/workspace?repo=a%2Fb",
		"//evil.example.com":       "/",
		"//evil.example.com/path":  "/",
		`/\evil.example.com`:       "/",
		"https://evil.example.com": "/",
		"evil":                     "/",
		"/ok\r\nSet-Cookie: x=y":   "/",
	} {
		require.Equal(t, want, session.SafeRedirectPath(in), in)
	}
}

func TestGuard_ResetURL(t *testing.T) {
	g := session.DefaultGuard()
	require.Equal(t, "/auth/session-reset?next=%2Fworkspace", g.ResetURL("/workspace"))
	require.Equal(t, "/auth/session-reset?next=%2F", g.ResetURL("//evil.example.com"))
}
