// Package creds reads per-provider credential files from the local
// configuration directory. Absence and malformed content both normalize
// to "absent": an unconfigured provider is an expected state, not an
// error, and must stay distinguishable from a transport failure.
package creds

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/openquota/openquota/internal/core"
)

func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false
	}
	return true
}

// LoadSession reads a session-cookie credential file
// (`{"session": "...", "org": "..."}`).
func LoadSession(path string) (core.AuthData, bool) {
	var raw core.SessionAuth
	if !readJSON(path, &raw) {
		return core.AuthData{}, false
	}
	if strings.TrimSpace(raw.Session) == "" {
		return core.AuthData{}, false
	}
	return core.NewSessionAuth(raw.Session, raw.OrgID), true
}

// LoadToken reads a bearer-token credential file
// (`{"token": "...", "username": "...", "tier": "..."}`).
func LoadToken(path string) (core.AuthData, bool) {
	var raw core.TokenAuth
	if !readJSON(path, &raw) {
		return core.AuthData{}, false
	}
	if strings.TrimSpace(raw.Token) == "" {
		return core.AuthData{}, false
	}
	return core.NewTokenAuth(raw.Token, raw.Username, raw.Tier), true
}

// LoadOAuth reads an OAuth credential file
// (`{"accessToken": "...", "refreshToken": "...", "expiresAt": 0}`).
func LoadOAuth(path string) (core.AuthData, bool) {
	var raw core.OAuthAuth
	if !readJSON(path, &raw) {
		return core.AuthData{}, false
	}
	if strings.TrimSpace(raw.AccessToken) == "" {
		return core.AuthData{}, false
	}
	return core.NewOAuthAuth(raw.AccessToken, raw.RefreshToken, raw.ExpiresAt), true
}
