package config

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	cookieKeysVar     = "COOKIE_KEYS"
	trustProxyVar     = "TRUST_PROXY"
	authRateLimitVar  = "AUTH_RATE_LIMIT"
	authRateWindowVar = "AUTH_RATE_WINDOW"
)

type SecurityConfig interface {
	GetSecureCookies() bool
	GetCookieKeys() (currentID string, keys map[string][]byte, err error)
	GetTrustProxy() bool
	GetAuthRateLimit() int
	GetAuthRateWindow() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetSecureCookies is true outside DEV.
func (Security) GetSecureCookies() bool {
	return EnvVars{}.GetEnv() != "DEV"
}

// GetCookieKeys parses COOKIE_KEYS as "id:base64key[,id:base64key]". The first
// entry seals new cookies; the rest are still accepted. No keys is not an error.
func (Security) GetCookieKeys() (string, map[string][]byte, error) {
	return ParseCookieKeys(GetEnv(cookieKeysVar, ""))
}

func ParseCookieKeys(list string) (string, map[string][]byte, error) {
	if list == "" {
		return "", nil, nil
	}
	var current string
	keys := make(map[string][]byte)
	for _, entry := range strings.Split(list, ",") {
		id, b64, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || id == "" || b64 == "" {
			return "", nil, fmt.Errorf("%s: malformed entry %q", cookieKeysVar, entry)
		}
		key, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			if key, err = base64.RawURLEncoding.DecodeString(b64); err != nil {
				return "", nil, fmt.Errorf("%s: key %s is not base64", cookieKeysVar, id)
			}
		}
		if current == "" {
			current = id
		}
		keys[id] = key
	}
	return current, keys, nil
}

func (Security) GetTrustProxy() bool {
	v, _ := strconv.ParseBool(GetEnv(trustProxyVar, "false"))
	return v
}

func (Security) GetAuthRateLimit() int {
	n, err := strconv.Atoi(GetEnv(authRateLimitVar, "60"))
	if err != nil || n < 1 {
		return 60
	}
	return n
}

func (Security) GetAuthRateWindow() time.Duration {
	d, err := time.ParseDuration(GetEnv(authRateWindowVar, "10m"))
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}
