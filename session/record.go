package session

import (
	"encoding/json"
	"strings"

	"github.com/jrsteele09/go-issue-workspace/storage"
)

type version int

const (
	versionNone version = iota
	versionLegacy
	versionSplit
)

// record is the outcome of decoding whatever storage generation is present.
type record struct {
	version       version
	token         string
	user          *User
	corruptUser   bool
	legacyPresent bool
}

// legacyRecord is the combined JSON written before token and user were split.
// Older writers used "token" instead of "access_token".
type legacyRecord struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
	User        *User  `json:"user"`
}

// decodeRecord tries the split scheme, then the legacy scheme.
func decodeRecord(secret, display storage.Area) record {
	var rec record
	rawLegacy, legacyOK := display.Get(LegacyKey)
	rec.legacyPresent = legacyOK

	if token, ok := secret.Get(TokenKey); ok && strings.TrimSpace(token) != "" {
		rec.version = versionSplit
		rec.token = strings.TrimSpace(token)
		rec.user, rec.corruptUser = decodeUser(display)
		return rec
	}

	if legacyOK {
		var legacy legacyRecord
		if err := json.Unmarshal([]byte(rawLegacy), &legacy); err == nil {
			token := strings.TrimSpace(legacy.AccessToken)
			if token == "" {
				token = strings.TrimSpace(legacy.Token)
			}
			if token != "" {
				rec.version = versionLegacy
				rec.token = token
				if legacy.User != nil && legacy.User.Login != "" {
					u := normalizeUser(*legacy.User)
					rec.user = &u
				}
				return rec
			}
		}
	}
	return rec
}

func decodeUser(display storage.Area) (*User, bool) {
	raw, ok := display.Get(UserKey)
	if !ok || raw == "" {
		return nil, false
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.Login == "" {
		return nil, true
	}
	u = normalizeUser(u)
	return &u, false
}
