// Package apiclient calls the workspace backend's /api/auth endpoints.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-issue-workspace/oauthmodel"
)

const (
	ConfigPath   = "/api/auth/config"
	ExchangePath = "/api/auth/exchange"

	maxResponseBytes = 1 << 20
)

// Error is a non-2xx answer from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: HTTP %d: %s", e.Status, e.Message)
}

// Temporary reports whether a manual retry could succeed: rate limiting and
// server-side failures other than missing configuration.
func (e *Error) Temporary() bool {
	if e.Status == http.StatusTooManyRequests {
		return true
	}
	return e.Status >= 500 && e.Message != "OAuth not configured"
}

// Client implements authflow.ConfigSource and authflow.Exchanger over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) AuthConfig(ctx context.Context) (oauthmodel.AuthConfig, error) {
	var cfg oauthmodel.AuthConfig
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ConfigPath, nil)
	if err != nil {
		return cfg, err
	}
	err = c.do(req, &cfg)
	return cfg, err
}

// Exchange posts the code once. It is never retried automatically because codes are single use.
func (c *Client) Exchange(ctx context.Context, in oauthmodel.ExchangeRequest) (oauthmodel.ExchangeResponse, error) {
	var out oauthmodel.ExchangeResponse
	body, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ExchangePath, bytes.NewReader(body))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")
	err = c.do(req, &out)
	return out, err
}

func (c *Client) do(req *http.Request, v any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading %s response: %w", req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er oauthmodel.ErrorResponse
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(raw, &er) == nil && er.Error != "" {
			msg = er.Error
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding %s response: %w", req.URL.Path, err)
	}
	return nil
}
