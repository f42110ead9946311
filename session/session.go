// Package session owns every read, write and clear of the signed-in session.
// Nothing else in the module should touch the token or user storage keys.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jrsteele09/go-issue-workspace/storage"
	"github.com/rs/zerolog/log"
)

const (
	// TokenKey holds the bearer token. Its area should not be script-readable.
	TokenKey = "github_access_token"
	// UserKey holds the JSON display snapshot of the signed-in user.
	UserKey = "github_user"
	// LegacyKey is the combined token+user record written by the previous storage scheme.
	LegacyKey = "github_session"
)

// ErrEmptyToken is returned by Save when there is no token to persist.
var ErrEmptyToken = errors.New("access token is empty")

// User is a display-only snapshot. It is never used for authorization decisions.
type User struct {
	ID        int64  `json:"id,omitempty"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Email     string `json:"email,omitempty"`
}

// Session is present when a token is stored. User may be nil when the display
// snapshot is missing or unreadable.
type Session struct {
	AccessToken string
	User        *User
}

// Store persists sessions across two areas: one for the secret token and one for
// the display snapshot. They may be the same area.
type Store struct {
	secret  storage.Area
	display storage.Area
}

func NewStore(secret, display storage.Area) *Store {
	return &Store{secret: secret, display: display}
}

// Save writes the split scheme and retires any legacy record.
func (s *Store) Save(token string, user User) error {
	return s.save(token, &user)
}

func (s *Store) save(token string, user *User) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if err := s.secret.Set(TokenKey, token); err != nil {
		return fmt.Errorf("storing access token: %w", err)
	}
	if user != nil {
		b, err := json.Marshal(normalizeUser(*user))
		if err != nil {
			return fmt.Errorf("encoding user: %w", err)
		}
		if err := s.display.Set(UserKey, string(b)); err != nil {
			return fmt.Errorf("storing user: %w", err)
		}
	} else if err := s.display.Delete(UserKey); err != nil {
		return fmt.Errorf("removing stale user: %w", err)
	}
	if err := s.display.Delete(LegacyKey); err != nil {
		return fmt.Errorf("removing legacy session: %w", err)
	}
	return nil
}

// Read returns the current session, migrating a legacy record on first sight.
// Corrupt display data is discarded and never prevents the token from being read.
func (s *Store) Read() (Session, bool) {
	rec := decodeRecord(s.secret, s.display)
	if rec.corruptUser {
		if err := s.display.Delete(UserKey); err != nil {
			log.Warn().Err(err).Msg("removing unreadable user snapshot")
		}
	}
	switch rec.version {
	case versionSplit:
		if rec.legacyPresent {
			if err := s.display.Delete(LegacyKey); err != nil {
				log.Warn().Err(err).Msg("removing superseded legacy session")
			}
		}
	case versionLegacy:
		if err := s.save(rec.token, rec.user); err != nil {
			// The session is still usable for this request; migration is retried on the next read.
			log.Warn().Err(err).Msg("migrating legacy session")
		} else {
			log.Info().Msg("migrated legacy session to split storage")
		}
	default:
		if rec.legacyPresent {
			if err := s.display.Delete(LegacyKey); err != nil {
				log.Warn().Err(err).Msg("removing unreadable legacy session")
			}
		}
		return Session{}, false
	}
	return Session{AccessToken: rec.token, User: rec.user}, true
}

// Token is a shorthand for Read when only the credential matters.
func (s *Store) Token() (string, bool) {
	sess, ok := s.Read()
	return sess.AccessToken, ok
}

// Clear removes every key of both schemes. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	return errors.Join(
		s.secret.Delete(TokenKey),
		s.display.Delete(UserKey),
		s.display.Delete(LegacyKey),
	)
}

func normalizeUser(u User) User {
	u.Login = strings.TrimSpace(u.Login)
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.Login
	}
	return u
}
