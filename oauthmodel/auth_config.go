package oauthmodel

// AuthConfig is the public OAuth configuration served at GET /api/auth/config.
// It never carries the client secret.
type AuthConfig struct {
	// ClientID identifies the OAuth app registered with the provider.
	// Required: Yes
	// Example: "Iv1.8a61f9b3a7aba766"
	ClientID string `json:"client_id"`

	// RedirectURI is the canonical callback registered with the provider.
	// Required: No (serialised as null when the server has none configured)
	// Example: "https://issues.example.com/auth/callback"
	// Security: When set, the exchange endpoint rejects any other redirect_uri
	RedirectURI *string `json:"redirect_uri"`
}
