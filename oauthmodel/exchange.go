package oauthmodel

// ExchangeRequest is the body of POST /api/auth/exchange.
type ExchangeRequest struct {
	// Code is the authorization code the provider appended to the callback URL.
	// Required: Yes
	// Bounds: 1-512 characters
	// Usage: Single use. A replayed code is rejected by the provider.
	Code string `json:"code"`

	// RedirectURI is the callback the authorization request was sent with.
	// Required: No
	// Bounds: at most 2048 characters
	// Security: Must equal the server's configured redirect URI when one exists
	RedirectURI string `json:"redirect_uri,omitempty"`

	// CodeVerifier is the PKCE secret whose S256 hash was sent as code_challenge.
	// Required: No (the provider rejects the code without it when a challenge was sent)
	// Bounds: 43-128 unreserved characters
	CodeVerifier string `json:"code_verifier,omitempty"`
}

// ExchangeResponse is the success body of POST /api/auth/exchange.
type ExchangeResponse struct {
	// AccessToken is the provider's opaque bearer token.
	// Security: Never log or expose this value
	AccessToken string `json:"access_token"`

	// User is the identity fetched with AccessToken.
	User ExchangeUser `json:"user"`
}

// ExchangeUser is the identity summary returned alongside a fresh token.
type ExchangeUser struct {
	ID        int64  `json:"id,omitempty"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	// Name falls back to Login when the provider profile has no display name.
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
