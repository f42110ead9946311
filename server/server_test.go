package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/jrsteele09/go-issue-workspace/githubapi"
	"github.com/jrsteele09/go-issue-workspace/internal/config"
	"github.com/jrsteele09/go-issue-workspace/internal/sealed"
	"github.com/jrsteele09/go-issue-workspace/pkce"
	"github.com/jrsteele09/go-issue-workspace/server"
	"github.com/jrsteele09/go-issue-workspace/session"
	"github.com/stretchr/testify/require"
)

const (
	testClientID    = "client-1"
	testRedirectURI = "http://localhost:3000/auth/callback"
	testToken       = "gho_abc"
)

// fakeGitHub answers the token and identity endpoints.
type fakeGitHub struct {
	server *httptest.Server

	mu          sync.Mutex
	tokenBodies []map[string]string
	userCalls   int
	tokenBody   string
	userStatus  int
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()
	f := &fakeGitHub{
		tokenBody:  `{"access_token":"` + testToken + `","token_type":"bearer","scope":"read:user,repo"}`,
		userStatus: http.StatusOK,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.tokenBodies = append(f.tokenBodies, body)
		resp := f.tokenBody
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.userCalls++
		status := f.userStatus
		f.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer "+testToken || status == http.StatusUnauthorized {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"id":1,"login":"octocat","name":"The Octocat","avatar_url":"https://avatars.githubusercontent.com/u/1"}`))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGitHub) tokenCalls() []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]string(nil), f.tokenBodies...)
}

func (f *fakeGitHub) identityCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userCalls
}

func (f *fakeGitHub) set(fn func(f *fakeGitHub)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

type testFixture struct {
	github *fakeGitHub
	server *httptest.Server
	client *http.Client
}

func setupTestFixture(t *testing.T, env map[string]string) *testFixture {
	t.Helper()
	gh := newFakeGitHub(t)

	defaults := map[string]string{
		"ENV":                   "DEV",
		"APP_NAME":              "Issue Workspace",
		"GITHUB_CLIENT_ID":      testClientID,
		"VITE_GITHUB_CLIENT_ID": "",
		"GITHUB_CLIENT_SECRET":  "secret-1",
		"GITHUB_REDIRECT_URI":   testRedirectURI,
		"GITHUB_AUTHORIZE_URL":  gh.server.URL + "/login/oauth/authorize",
		"CORS_ORIGINS":          "https://app.example.com",
		"AUTH_RATE_LIMIT":       "60",
		"TRUST_PROXY":           "false",
	}
	for k, v := range env {
		defaults[k] = v
	}
	for k, v := range defaults {
		t.Setenv(k, v)
	}

	c := config.New()
	codec, err := sealed.NewRandom()
	require.NoError(t, err)
	srv, err := server.New(c, server.Deps{
		GitHub: githubapi.NewClient(githubapi.Config{
			ClientID:     c.GetClientID(),
			ClientSecret: c.GetClientSecret(),
			TokenURL:     gh.server.URL + "/login/oauth/access_token",
			APIURL:       gh.server.URL,
			HTTPClient:   gh.server.Client(),
		}),
		Sealer: codec,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testFixture{
		github: gh,
		server: ts,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (f *testFixture) do(t *testing.T, method, path string, body io.Reader, headers ...string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, f.server.URL+path, body)
	require.NoError(t, err)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func (f *testFixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	return f.do(t, http.MethodGet, path, nil)
}

func (f *testFixture) postJSON(t *testing.T, path, body string) (*http.Response, string) {
	t.Helper()
	return f.do(t, http.MethodPost, path, strings.NewReader(body), "Content-Type", "application/json")
}

// startLogin follows /auth/login and returns the provider URL it redirected to.
func (f *testFixture) startLogin(t *testing.T) *url.URL {
	t.Helper()
	resp, _ := f.get(t, server.RouteAuthLogin)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	u, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	return u
}

func (f *testFixture) signIn(t *testing.T) {
	t.Helper()
	authURL := f.startLogin(t)
	resp, _ := f.get(t, server.RouteAuthCallback+"?code=code-1&state="+url.QueryEscape(authURL.Query().Get("state")))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteWorkspace, resp.Header.Get("Location"))
}

func TestWebFlow_SignInWorkspaceSignOut(t *testing.T) {
	f := setupTestFixture(t, nil)

	authURL := f.startLogin(t)
	q := authURL.Query()
	require.Equal(t, "/login/oauth/authorize", authURL.Path)
	require.Equal(t, testClientID, q.Get("client_id"))
	require.Equal(t, testRedirectURI, q.Get("redirect_uri"))
	require.Equal(t, "read:user repo", q.Get("scope"))
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "S256", q.Get("code_challenge_method"))
	require.Equal(t, "true", q.Get("allow_signup"))
	require.Len(t, q.Get("state"), pkce.StateLength)

	resp, _ := f.get(t, server.RouteAuthCallback+"?code=code-1&state="+url.QueryEscape(q.Get("state")))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteWorkspace, resp.Header.Get("Location"))

	calls := f.github.tokenCalls()
	require.Len(t, calls, 1)
	require.Equal(t, "code-1", calls[0]["code"])
	require.Equal(t, testRedirectURI, calls[0]["redirect_uri"])
	require.Equal(t, q.Get("code_challenge"), pkce.DeriveCodeChallenge(calls[0]["code_verifier"]))

	resp, body := f.get(t, server.RouteWorkspace)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "The Octocat")
	require.Contains(t, body, "@octocat")

	// Signed-in users skip the sign-in page.
	resp, _ = f.get(t, server.RouteHome)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteWorkspace, resp.Header.Get("Location"))

	resp, _ = f.do(t, http.MethodPost, server.RouteSignOut, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteHome, resp.Header.Get("Location"))

	resp, _ = f.get(t, server.RouteWorkspace)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteSessionReset+"?next=%2F", resp.Header.Get("Location"))
}

func TestWebFlow_TokenCookieIsHttpOnly(t *testing.T) {
	f := setupTestFixture(t, nil)
	authURL := f.startLogin(t)

	resp, _ := f.get(t, server.RouteAuthCallback+"?code=code-1&state="+url.QueryEscape(authURL.Query().Get("state")))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	cookies := map[string]*http.Cookie{}
	for _, c := range resp.Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, session.TokenKey)
	require.True(t, cookies[session.TokenKey].HttpOnly)
	require.NotContains(t, cookies[session.TokenKey].Value, testToken)
	require.Equal(t, http.SameSiteLaxMode, cookies[session.TokenKey].SameSite)
	require.Contains(t, cookies, session.UserKey)
	require.False(t, cookies[session.UserKey].HttpOnly)
}

func TestWebFlow_CallbackFailures(t *testing.T) {
	tests := []struct {
		name    string
		query   func(state string) string
		status  int
		message string
	}{
		{
			name:    "state mismatch",
			query:   func(string) string { return "?code=code-1&state=forged" },
			status:  http.StatusBadRequest,
			message: "Invalid OAuth state. Please try again.",
		},
		{
			name: "provider error",
			query: func(state string) string {
				return "?error=access_denied&error_description=" + url.QueryEscape("The user has denied your application access.") + "&state=" + state
			},
			status:  http.StatusBadRequest,
			message: "The user has denied your application access.",
		},
		{
			name:    "missing code",
			query:   func(state string) string { return "?state=" + state },
			status:  http.StatusBadRequest,
			message: "Missing authorization code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t, nil)
			authURL := f.startLogin(t)

			resp, body := f.get(t, server.RouteAuthCallback+tt.query(url.QueryEscape(authURL.Query().Get("state"))))
			require.Equal(t, tt.status, resp.StatusCode)
			require.Contains(t, body, tt.message)
			require.NotContains(t, body, "Try again")
			require.Empty(t, f.github.tokenCalls())

			// The attempt was consumed, so even the right state cannot be reused.
			resp, body = f.get(t, server.RouteAuthCallback+"?code=code-2&state="+url.QueryEscape(authURL.Query().Get("state")))
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Contains(t, body, "Invalid OAuth state")
		})
	}
}

func TestWebFlow_ProviderRejectsCode(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.github.set(func(g *fakeGitHub) {
		g.tokenBody = `{"error":"bad_verification_code","error_description":"The code passed is incorrect or expired."}`
	})
	authURL := f.startLogin(t)

	resp, body := f.get(t, server.RouteAuthCallback+"?code=code-1&state="+url.QueryEscape(authURL.Query().Get("state")))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body, "The code passed is incorrect or expired.")
	require.Zero(t, f.github.identityCalls())

	resp, _ = f.get(t, server.RouteWorkspace)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestWebFlow_ReplayedCallbackExchangesOnce(t *testing.T) {
	f := setupTestFixture(t, nil)
	authURL := f.startLogin(t)
	callback := server.RouteAuthCallback + "?code=code-1&state=" + url.QueryEscape(authURL.Query().Get("state"))

	resp, _ := f.get(t, callback)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = f.get(t, callback)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteWorkspace, resp.Header.Get("Location"))
	require.Len(t, f.github.tokenCalls(), 1)
}

func TestWebFlow_RevokedTokenResetsSession(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.signIn(t)

	f.github.set(func(g *fakeGitHub) { g.userStatus = http.StatusUnauthorized })
	resp, _ := f.get(t, server.RouteWorkspace)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteSessionReset+"?next=%2F", resp.Header.Get("Location"))

	resp, _ = f.get(t, resp.Header.Get("Location"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteHome, resp.Header.Get("Location"))

	// The session is gone, so the workspace guard now bounces without asking GitHub.
	calls := f.github.identityCalls()
	resp, _ = f.get(t, server.RouteWorkspace)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, calls, f.github.identityCalls())
}

func TestWebFlow_WorkspaceUpstreamFailure(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.signIn(t)

	f.github.set(func(g *fakeGitHub) { g.userStatus = http.StatusServiceUnavailable })
	resp, body := f.get(t, server.RouteWorkspace)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Contains(t, body, "Try again")

	// The session survives a transient failure.
	f.github.set(func(g *fakeGitHub) { g.userStatus = http.StatusOK })
	resp, _ = f.get(t, server.RouteWorkspace)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionReset_OnlyLocalRedirects(t *testing.T) {
	f := setupTestFixture(t, nil)

	tests := map[string]string{
		"/workspace":               "/workspace",
		"//evil.example.com":       "/",
		"/\\evil.example.com":      "/",
		"https://evil.example.com": "/",
		"":                         "/",
	}
	for next, want := range tests {
		resp, _ := f.get(t, server.RouteSessionReset+"?next="+url.QueryEscape(next))
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, next)
		require.Equal(t, want, resp.Header.Get("Location"), next)
	}
}

func TestLogin_NotConfigured(t *testing.T) {
	f := setupTestFixture(t, map[string]string{"GITHUB_CLIENT_ID": "", "VITE_GITHUB_CLIENT_ID": ""})

	resp, body := f.get(t, server.RouteAuthLogin)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Contains(t, body, "OAuth not configured")
	for _, c := range resp.Cookies() {
		require.NotEqual(t, "github_oauth_state", c.Name)
	}

	_, body = f.get(t, server.RouteHome)
	require.Contains(t, body, "not configured")
}

func TestAPI_AuthConfig(t *testing.T) {
	f := setupTestFixture(t, nil)

	resp, body := f.get(t, server.RouteAPIAuthConfig)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"client_id":"`+testClientID+`","redirect_uri":"`+testRedirectURI+`"}`, body)

	f = setupTestFixture(t, map[string]string{"GITHUB_REDIRECT_URI": ""})
	_, body = f.get(t, server.RouteAPIAuthConfig)
	require.JSONEq(t, `{"client_id":"`+testClientID+`","redirect_uri":null}`, body)

	f = setupTestFixture(t, map[string]string{"GITHUB_CLIENT_ID": "", "VITE_GITHUB_CLIENT_ID": ""})
	resp, body = f.get(t, server.RouteAPIAuthConfig)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.JSONEq(t, `{"error":"OAuth not configured"}`, body)
}

func TestAPI_Exchange(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{name: "missing code", body: `{}`, status: http.StatusBadRequest, message: "Missing code"},
		{name: "empty code", body: `{"code":""}`, status: http.StatusBadRequest, message: "Missing code"},
		{name: "non-string code", body: `{"code":42}`, status: http.StatusBadRequest, message: "Missing code"},
		{name: "long code", body: `{"code":"` + strings.Repeat("c", 513) + `"}`, status: http.StatusBadRequest, message: "Invalid code"},
		{name: "non-string verifier", body: `{"code":"abc","code_verifier":7}`, status: http.StatusBadRequest, message: "Invalid code_verifier"},
		{name: "long verifier", body: `{"code":"abc","code_verifier":"` + strings.Repeat("v", 129) + `"}`, status: http.StatusBadRequest, message: "Invalid code_verifier"},
		{name: "non-string redirect", body: `{"code":"abc","redirect_uri":true}`, status: http.StatusBadRequest, message: "Invalid redirect_uri"},
		{name: "long redirect", body: `{"code":"abc","redirect_uri":"` + strings.Repeat("u", 2049) + `"}`, status: http.StatusBadRequest, message: "Invalid redirect_uri"},
		{name: "foreign redirect", body: `{"code":"abc","redirect_uri":"https://evil.example.com/cb"}`, status: http.StatusBadRequest, message: "redirect_uri mismatch"},
		{name: "malformed json", body: `{"code":`, status: http.StatusBadRequest, message: "Invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t, nil)
			resp, body := f.postJSON(t, server.RouteAPIAuthExchange, tt.body)
			require.Equal(t, tt.status, resp.StatusCode)
			require.JSONEq(t, `{"error":"`+tt.message+`"}`, body)
			require.Empty(t, f.github.tokenCalls())
		})
	}

	t.Run("success", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		verifier, err := pkce.NewVerifier()
		require.NoError(t, err)

		resp, body := f.postJSON(t, server.RouteAPIAuthExchange, `{"code":"abc","code_verifier":"`+verifier+`","redirect_uri":"`+testRedirectURI+`"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"access_token":"`+testToken+`","user":{"id":1,"login":"octocat","name":"The Octocat","avatar_url":"https://avatars.githubusercontent.com/u/1"}}`, body)
		require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

		calls := f.github.tokenCalls()
		require.Len(t, calls, 1)
		require.Equal(t, verifier, calls[0]["code_verifier"])
		require.Equal(t, testRedirectURI, calls[0]["redirect_uri"])
	})

	t.Run("provider error", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		f.github.set(func(g *fakeGitHub) { g.tokenBody = `{"error":"bad_verification_code"}` })

		resp, body := f.postJSON(t, server.RouteAPIAuthExchange, `{"code":"abc"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.JSONEq(t, `{"error":"bad_verification_code"}`, body)
		require.Zero(t, f.github.identityCalls())
	})

	t.Run("not configured", func(t *testing.T) {
		f := setupTestFixture(t, map[string]string{"GITHUB_CLIENT_SECRET": ""})
		resp, body := f.postJSON(t, server.RouteAPIAuthExchange, `{"code":"abc"}`)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.JSONEq(t, `{"error":"OAuth not configured"}`, body)
	})

	t.Run("body too large", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		resp, _ := f.postJSON(t, server.RouteAPIAuthExchange, `{"code":"`+strings.Repeat("c", 20<<10)+`"}`)
		require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	})
}

func TestAPI_RateLimit(t *testing.T) {
	f := setupTestFixture(t, map[string]string{"AUTH_RATE_LIMIT": "2"})

	for i := 0; i < 2; i++ {
		resp, _ := f.postJSON(t, server.RouteAPIAuthExchange, `{}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.NotEmpty(t, resp.Header.Get("RateLimit"))
	}

	resp, body := f.postJSON(t, server.RouteAPIAuthExchange, `{"code":"abc"}`)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.JSONEq(t, `{"error":"Too many authentication requests. Please try again later."}`, body)
	require.NotEmpty(t, resp.Header.Get("Retry-After"))
	require.Equal(t, "2;w=600", resp.Header.Get("RateLimit-Policy"))
	require.Empty(t, f.github.tokenCalls())
}

func TestWebFlow_CallbackSharesRateLimit(t *testing.T) {
	f := setupTestFixture(t, map[string]string{"AUTH_RATE_LIMIT": "3"})
	f.github.set(func(g *fakeGitHub) {
		g.tokenBody = `{"error":"bad_verification_code","error_description":"The code passed is incorrect or expired."}`
	})

	authURL := f.startLogin(t)
	resp, _ := f.get(t, server.RouteAuthCallback+"?code=guess-1&state="+url.QueryEscape(authURL.Query().Get("state")))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	authURL = f.startLogin(t)
	resp, body := f.get(t, server.RouteAuthCallback+"?code=guess-2&state="+url.QueryEscape(authURL.Query().Get("state")))
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Contains(t, body, "Too many authentication requests. Please try again later.")
	require.Equal(t, "3;w=600", resp.Header.Get("RateLimit-Policy"))
	require.NotEmpty(t, resp.Header.Get("Retry-After"))
	require.Len(t, f.github.tokenCalls(), 1)

	resp, _ = f.get(t, server.RouteAuthLogin)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	resp, _ = f.postJSON(t, server.RouteAPIAuthExchange, `{"code":"guess-3"}`)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Len(t, f.github.tokenCalls(), 1)
}

func TestAPI_PreflightWithoutOrigin(t *testing.T) {
	f := setupTestFixture(t, nil)

	for _, path := range []string{server.RouteAPIAuthExchange, server.RouteAPIAuthConfig} {
		resp, body := f.do(t, http.MethodOptions, path, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode, path)
		require.Empty(t, body)
		require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	}
	require.Empty(t, f.github.tokenCalls())
}

func TestAPI_Cors(t *testing.T) {
	f := setupTestFixture(t, nil)

	resp, _ := f.do(t, http.MethodOptions, server.RouteAPIAuthExchange, nil,
		"Origin", "https://app.example.com",
		"Access-Control-Request-Method", "POST")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")

	resp, _ = f.do(t, http.MethodGet, server.RouteAPIAuthConfig, nil, "Origin", "https://evil.example.com")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	f := setupTestFixture(t, nil)

	resp, _ := f.get(t, server.RouteHome)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	require.Equal(t, "no-referrer", resp.Header.Get("Referrer-Policy"))
	require.Contains(t, resp.Header.Get("Content-Security-Policy"), "frame-ancestors 'none'")
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, _ = f.get(t, "/no-such-page")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHome_ShowsErrorParam(t *testing.T) {
	f := setupTestFixture(t, nil)

	_, body := f.get(t, server.RouteHome+"?error="+url.QueryEscape("<b>Session expired</b>"))
	require.Contains(t, body, "&lt;b&gt;Session expired&lt;/b&gt;")
	require.Contains(t, body, server.RouteAuthLogin)
}
