package config

import "time"

const (
	clientIDVar       = "GITHUB_CLIENT_ID"
	legacyClientIDVar = "VITE_GITHUB_CLIENT_ID"
	clientSecretVar   = "GITHUB_CLIENT_SECRET"
	redirectURIVar    = "GITHUB_REDIRECT_URI"
	authorizeURLVar   = "GITHUB_AUTHORIZE_URL"
	tokenURLVar       = "GITHUB_TOKEN_URL"
	githubAPIURLVar   = "GITHUB_API_URL"
)

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetAuthorizeURL() string
	GetTokenURL() string
	GetGitHubAPIURL() string
	GetRoundTripTimeout() time.Duration
	GetSessionMaxAge() time.Duration
	IsOAuthConfigured() bool
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetClientID() string {
	return GetEnv(clientIDVar, GetEnv(legacyClientIDVar, ""))
}

// Security: Never log or expose this value
func (OAuth) GetClientSecret() string {
	return GetEnv(clientSecretVar, "")
}

// GetRedirectURI is the canonical callback. When set, the exchange rejects any other.
func (OAuth) GetRedirectURI() string {
	return GetEnv(redirectURIVar, "")
}

// Empty endpoint values select GitHub's public endpoints.
func (OAuth) GetAuthorizeURL() string {
	return GetEnv(authorizeURLVar, "")
}

func (OAuth) GetTokenURL() string {
	return GetEnv(tokenURLVar, "")
}

func (OAuth) GetGitHubAPIURL() string {
	return GetEnv(githubAPIURLVar, "")
}

// GetRoundTripTimeout bounds how long a started sign-in may take to come back.
func (OAuth) GetRoundTripTimeout() time.Duration {
	return 10 * time.Minute
}

func (OAuth) GetSessionMaxAge() time.Duration {
	return 7 * 24 * time.Hour // 1 week
}

func (o OAuth) IsOAuthConfigured() bool {
	return o.GetClientID() != "" && o.GetClientSecret() != ""
}
