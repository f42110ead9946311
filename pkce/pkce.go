// Package pkce generates the random artifacts of an OAuth round trip and derives
// the S256 code challenge sent to the provider.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

// Unreserved is the RFC 3986 unreserved character set used for state nonces and verifiers.
const Unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

const (
	// MethodS256 is the only challenge method this client sends.
	MethodS256 = "S256"

	// StateLength is the number of characters in a state nonce.
	StateLength = 32
	// VerifierLength is the number of characters in a code verifier.
	VerifierLength = 96

	MinVerifierLength = 43
	MaxVerifierLength = 128
)

// GenerateRandomString draws length bytes from crypto/rand and maps each onto the
// unreserved alphabet. An error means the platform cannot provide secure randomness
// and the flow must not continue.
func GenerateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("random string length must be positive, got %d", length)
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("reading secure random bytes: %w", err)
	}
	for i := range b {
		b[i] = Unreserved[int(b[i])%len(Unreserved)]
	}
	return string(b), nil
}

// NewState returns a fresh state nonce.
func NewState() (string, error) {
	return GenerateRandomString(StateLength)
}

// NewVerifier returns a fresh code verifier.
func NewVerifier() (string, error) {
	return GenerateRandomString(VerifierLength)
}

// DeriveCodeChallenge returns base64url(SHA-256(verifier)) without padding.
func DeriveCodeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// ValidateVerifier checks a verifier is 43-128 characters of the unreserved set.
func ValidateVerifier(verifier string) error {
	if len(verifier) < MinVerifierLength || len(verifier) > MaxVerifierLength {
		return fmt.Errorf("code_verifier length must be between %d and %d characters", MinVerifierLength, MaxVerifierLength)
	}
	if i := strings.IndexFunc(verifier, func(r rune) bool { return !strings.ContainsRune(Unreserved, r) }); i >= 0 {
		return fmt.Errorf("code_verifier contains invalid character at position %d", i)
	}
	return nil
}
