// Package githubapi talks to GitHub's OAuth token endpoint and REST identity endpoint.
package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// APIVersion pins the REST API behaviour.
const APIVersion = "2022-11-28"

const (
	DefaultAPIURL = "https://api.github.com"
	// maxResponseBytes bounds how much of any GitHub response is read.
	maxResponseBytes = 1 << 20
)

// Config holds the confidential client credentials and endpoint overrides.
type Config struct {
	ClientID     string
	ClientSecret string

	// TokenURL defaults to GitHub's public OAuth token endpoint.
	TokenURL string
	// APIURL defaults to https://api.github.com.
	APIURL string

	// HTTPClient defaults to a client with a 15s timeout.
	HTTPClient *http.Client
}

// Client performs server-to-server calls to GitHub.
type Client struct {
	clientID     string
	clientSecret string
	tokenURL     string
	apiURL       string
	httpClient   *http.Client
}

func NewClient(cfg Config) *Client {
	c := &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tokenURL:     cfg.TokenURL,
		apiURL:       strings.TrimRight(cfg.APIURL, "/"),
		httpClient:   cfg.HTTPClient,
	}
	if c.tokenURL == "" {
		c.tokenURL = github.Endpoint.TokenURL
	}
	if c.apiURL == "" {
		c.apiURL = DefaultAPIURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return c
}

// Configured reports whether both halves of the client credential are present.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// TokenRequest is the variable part of an authorization-code exchange.
type TokenRequest struct {
	Code         string
	RedirectURI  string
	CodeVerifier string
}

type tokenRequestBody struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
	CodeVerifier string `json:"code_verifier,omitempty"`
}

type tokenResponseBody struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Token is a successful exchange result.
type Token struct {
	AccessToken string
	TokenType   string
	Scope       string
}

// ExchangeCode posts the code to the token endpoint exactly once. The provider
// reports rejection with a 200 and an error field, which is returned as *TokenError.
// A 200 without a token yields ErrNoAccessToken.
func (c *Client) ExchangeCode(ctx context.Context, req TokenRequest) (Token, error) {
	body, err := json.Marshal(tokenRequestBody{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Code:         req.Code,
		RedirectURI:  req.RedirectURI,
		CodeVerifier: req.CodeVerifier,
	})
	if err != nil {
		return Token{}, fmt.Errorf("encoding token request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(body))
	if err != nil {
		return Token{}, fmt.Errorf("building token request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Token{}, fmt.Errorf("github token endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Token{}, fmt.Errorf("reading token response: %w", err)
	}
	var tr tokenResponseBody
	decodeErr := json.Unmarshal(raw, &tr)
	if decodeErr == nil && tr.Error != "" {
		return Token{}, &TokenError{Code: tr.Error, Description: tr.ErrorDescription}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Token{}, newAPIError(resp.StatusCode, raw)
	}
	if decodeErr != nil {
		return Token{}, fmt.Errorf("decoding token response: %w", decodeErr)
	}
	if tr.AccessToken == "" {
		return Token{}, ErrNoAccessToken
	}
	return Token{AccessToken: tr.AccessToken, TokenType: tr.TokenType, Scope: tr.Scope}, nil
}

// User is the subset of GET /user this workspace displays.
type User struct {
	ID        int64   `json:"id"`
	Login     string  `json:"login"`
	Name      *string `json:"name"`
	AvatarURL string  `json:"avatar_url"`
	Email     *string `json:"email"`
}

// DisplayName returns the profile name, or the login when the profile has none.
func (u User) DisplayName() string {
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		return *u.Name
	}
	return u.Login
}

// FetchUser reads the identity that owns accessToken. A rejected token surfaces
// as an *APIError for which IsUnauthorized is true.
func (c *Client) FetchUser(ctx context.Context, accessToken string) (User, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/user", nil)
	if err != nil {
		return User{}, fmt.Errorf("building user request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/vnd.github+json")
	httpReq.Header.Set("X-GitHub-Api-Version", APIVersion)

	resp, err := c.bearerClient(ctx, accessToken).Do(httpReq)
	if err != nil {
		return User{}, fmt.Errorf("github user endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return User{}, fmt.Errorf("reading user response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return User{}, newAPIError(resp.StatusCode, raw)
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, fmt.Errorf("decoding user response: %w", err)
	}
	if u.Login == "" {
		return User{}, fmt.Errorf("user response has no login")
	}
	return u, nil
}

// bearerClient wraps the configured transport with a static bearer token.
func (c *Client) bearerClient(ctx context.Context, accessToken string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
	client.Timeout = c.httpClient.Timeout
	return client
}
