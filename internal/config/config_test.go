package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-issue-workspace/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, v := range []string{"PORT", "ENV", "GITHUB_CLIENT_ID", "VITE_GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET", "CORS_ORIGINS", "AUTH_RATE_LIMIT", "AUTH_RATE_WINDOW"} {
		t.Setenv(v, "")
	}
	c := config.New()

	require.Equal(t, ":3001", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.False(t, c.GetSecureCookies())
	require.False(t, c.IsOAuthConfigured())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("*"))
	require.Equal(t, 60, c.GetAuthRateLimit())
	require.Equal(t, 10*time.Minute, c.GetAuthRateWindow())
	require.Equal(t, 7*24*time.Hour, c.GetSessionMaxAge())
}

func TestOAuthFromEnv(t *testing.T) {
	t.Setenv("GITHUB_CLIENT_ID", "")
	t.Setenv("VITE_GITHUB_CLIENT_ID", "legacy-id")
	t.Setenv("GITHUB_CLIENT_SECRET", "secret")
	t.Setenv("ENV", "PROD")
	t.Setenv("PORT", ":8080")

	c := config.New()
	require.Equal(t, "legacy-id", c.GetClientID())
	require.True(t, c.IsOAuthConfigured())
	require.True(t, c.GetSecureCookies())
	require.Equal(t, ":8080", c.GetPort())

	t.Setenv("GITHUB_CLIENT_ID", "primary-id")
	require.Equal(t, "primary-id", c.GetClientID())
}

func TestParseOrigins(t *testing.T) {
	o := config.ParseOrigins("https://a.example.com/, https://b.example.com ,")
	require.True(t, o.IsAllowedOrigin("https://a.example.com"))
	require.True(t, o.IsAllowedOrigin("https://b.example.com"))
	require.False(t, o.IsAllowedOrigin("*"))
	require.Len(t, o, 2)
}

func TestParseCookieKeys(t *testing.T) {
	current, keys, err := config.ParseCookieKeys("")
	require.NoError(t, err)
	require.Empty(t, current)
	require.Nil(t, keys)

	current, keys, err = config.ParseCookieKeys("new:AAECAw==,old:BAUG")
	require.NoError(t, err)
	require.Equal(t, "new", current)
	require.Equal(t, []byte{0, 1, 2, 3}, keys["new"])
	require.Equal(t, []byte{4, 5, 6}, keys["old"])

	_, _, err = config.ParseCookieKeys("broken")
	require.Error(t, err)
	_, _, err = config.ParseCookieKeys("id:***")
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ISSUE_WS_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("ISSUE_WS_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("ISSUE_WS_TEST_VALUE"))

	require.NoError(t, config.LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	require.Equal(t, "from-file", os.Getenv("ISSUE_WS_TEST_VALUE"))
}
