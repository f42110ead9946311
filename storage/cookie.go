package storage

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// maxCookieValueLen is the browser limit for a single cookie value.
const maxCookieValueLen = 4096

// ErrCookieTooLarge is returned by CookieArea.Set when the encoded value exceeds browser limits.
var ErrCookieTooLarge = errors.New("cookie value too large")

// Sealer encrypts and authenticates cookie values.
type Sealer interface {
	Seal(name, value string, ttl time.Duration) (string, error)
	Open(name, sealed string) (string, error)
}

// CookieOptions are applied to every cookie the area writes.
type CookieOptions struct {
	Path     string
	Domain   string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
	// MaxAge of zero writes browser-session cookies.
	MaxAge time.Duration
	// TTL bounds sealed values independently of the cookie lifetime. Defaults to MaxAge.
	TTL time.Duration
	// Sealer, when set, encrypts values. Otherwise values are URL-escaped so that
	// JSON survives the cookie value grammar.
	Sealer Sealer
}

// CookieArea stores each key in its own cookie on a single request/response pair.
// Writes are visible to later reads on the same area, so a handler can set and then
// read back a value before the response is sent.
type CookieArea struct {
	w       http.ResponseWriter
	r       *http.Request
	opts    CookieOptions
	pending map[string]*string
}

var _ Area = (*CookieArea)(nil)

func NewCookieArea(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieArea {
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.SameSite == 0 {
		opts.SameSite = http.SameSiteLaxMode
	}
	if opts.TTL == 0 {
		opts.TTL = opts.MaxAge
	}
	return &CookieArea{w: w, r: r, opts: opts, pending: make(map[string]*string)}
}

func (c *CookieArea) Get(key string) (string, bool) {
	if v, ok := c.pending[key]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	cookie, err := c.r.Cookie(key)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	v, err := c.decode(key, cookie.Value)
	if err != nil {
		return "", false
	}
	return v, true
}

func (c *CookieArea) Set(key, value string) error {
	encoded, err := c.encode(key, value)
	if err != nil {
		return err
	}
	if len(encoded) > maxCookieValueLen {
		return fmt.Errorf("%w: %s is %d bytes", ErrCookieTooLarge, key, len(encoded))
	}
	cookie := c.cookie(key, encoded)
	if c.opts.MaxAge > 0 {
		cookie.MaxAge = int(c.opts.MaxAge.Seconds())
	}
	http.SetCookie(c.w, cookie)
	c.pending[key] = &value
	return nil
}

func (c *CookieArea) Delete(key string) error {
	cookie := c.cookie(key, "")
	cookie.MaxAge = -1
	http.SetCookie(c.w, cookie)
	c.pending[key] = nil
	return nil
}

func (c *CookieArea) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     c.opts.Path,
		Domain:   c.opts.Domain,
		HttpOnly: c.opts.HttpOnly,
		Secure:   c.opts.Secure,
		SameSite: c.opts.SameSite,
	}
}

func (c *CookieArea) encode(key, value string) (string, error) {
	if c.opts.Sealer == nil {
		return url.QueryEscape(value), nil
	}
	v, err := c.opts.Sealer.Seal(key, value, c.opts.TTL)
	if err != nil {
		return "", fmt.Errorf("sealing cookie %s: %w", key, err)
	}
	return v, nil
}

func (c *CookieArea) decode(key, raw string) (string, error) {
	if c.opts.Sealer == nil {
		return url.QueryUnescape(raw)
	}
	return c.opts.Sealer.Open(key, raw)
}
