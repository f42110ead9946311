// Package sealed encrypts short string values for storage in cookies.
//
// Format: keyID "." base64url(nonce || XChaCha20-Poly1305(cbor(envelope)))
// The cookie name is bound as additional data so a value sealed for one cookie
// cannot be replayed under another.
package sealed

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrFormat  = errors.New("invalid sealed value format")
	ErrInvalid = errors.New("invalid sealed value")
	ErrExpired = errors.New("sealed value expired")
	ErrConfig  = errors.New("invalid sealed codec configuration")
)

// KeySize is the required key length in bytes.
const KeySize = chacha20poly1305.KeySize

// maxSealedLen bounds the attacker-controlled input that Open will decode.
const maxSealedLen = 8192

type envelope struct {
	Value   string `cbor:"1,keyasint"`
	Expires int64  `cbor:"2,keyasint,omitempty"`
}

// Codec seals with the current key and opens with any accepted key.
type Codec struct {
	keyID string
	keys  map[string]cipher.AEAD
	now   func() time.Time
}

// New builds a codec. keys must contain currentKeyID and every key must be KeySize bytes.
func New(currentKeyID string, keys map[string][]byte) (*Codec, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no keys", ErrConfig)
	}
	if _, ok := keys[currentKeyID]; !ok {
		return nil, fmt.Errorf("%w: key %q not found", ErrConfig, currentKeyID)
	}
	c := &Codec{keyID: currentKeyID, keys: make(map[string]cipher.AEAD, len(keys)), now: time.Now}
	for id, k := range keys {
		if id == "" || strings.Contains(id, ".") {
			return nil, fmt.Errorf("%w: invalid key id %q", ErrConfig, id)
		}
		aead, err := chacha20poly1305.NewX(k)
		if err != nil {
			return nil, fmt.Errorf("%w: key %s: %v", ErrConfig, id, err)
		}
		c.keys[id] = aead
	}
	return c, nil
}

// NewRandom builds a codec with a single freshly generated key. Values sealed by it
// do not survive a process restart.
func NewRandom() (*Codec, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating sealing key: %w", err)
	}
	return New("k0", map[string][]byte{"k0": key})
}

// WithClock returns a copy of c that reads time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// Seal encrypts value for the cookie called name. A zero ttl never expires.
func (c *Codec) Seal(name, value string, ttl time.Duration) (string, error) {
	env := envelope{Value: value}
	if ttl > 0 {
		env.Expires = c.now().Add(ttl).Unix()
	}
	plain, err := cbor.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("encoding sealed envelope: %w", err)
	}
	aead := c.keys[c.keyID]
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, plain, []byte(name))
	return c.keyID + "." + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal, rejecting tampered, foreign-key and expired values.
func (c *Codec) Open(name, sealed string) (string, error) {
	if sealed == "" || len(sealed) > maxSealedLen {
		return "", ErrFormat
	}
	keyID, b64, ok := strings.Cut(sealed, ".")
	if !ok || keyID == "" || b64 == "" {
		return "", ErrFormat
	}
	aead, ok := c.keys[keyID]
	if !ok {
		return "", ErrInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(b64)
	if err != nil {
		return "", ErrFormat
	}
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", ErrFormat
	}
	plain, err := aead.Open(nil, raw[:aead.NonceSize()], raw[aead.NonceSize():], []byte(name))
	if err != nil {
		return "", ErrInvalid
	}
	var env envelope
	if err := cbor.Unmarshal(plain, &env); err != nil {
		return "", ErrInvalid
	}
	if env.Expires != 0 && !c.now().Before(time.Unix(env.Expires, 0)) {
		return "", ErrExpired
	}
	return env.Value, nil
}
