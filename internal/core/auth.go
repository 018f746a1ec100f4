package core

// AuthKind discriminates the credential variants. Exactly one variant
// pointer on AuthData is non-nil, matching its Kind.
type AuthKind string

const (
	AuthSession AuthKind = "session"
	AuthToken   AuthKind = "token"
	AuthOAuth   AuthKind = "oauth"
)

// SessionAuth is an opaque web-session cookie, optionally scoped to an
// organization.
type SessionAuth struct {
	Session string `json:"session"`
	OrgID   string `json:"org,omitempty"`
}

// TokenAuth is a bearer API token with the account metadata some
// providers return alongside it at login time.
type TokenAuth struct {
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
	Tier     string `json:"tier,omitempty"`
}

// OAuthAuth is an access/refresh token pair with an expiry in Unix
// milliseconds.
type OAuthAuth struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresAt    int64  `json:"expiresAt,omitempty"`
}

// AuthData is the per-provider credential union. It is read-only input
// owned by the caller; adapters never mutate it.
type AuthData struct {
	Kind    AuthKind
	Session *SessionAuth
	Token   *TokenAuth
	OAuth   *OAuthAuth
}

func NewSessionAuth(session, orgID string) AuthData {
	return AuthData{Kind: AuthSession, Session: &SessionAuth{Session: session, OrgID: orgID}}
}

func NewTokenAuth(token, username, tier string) AuthData {
	return AuthData{Kind: AuthToken, Token: &TokenAuth{Token: token, Username: username, Tier: tier}}
}

func NewOAuthAuth(access, refresh string, expiresAt int64) AuthData {
	return AuthData{Kind: AuthOAuth, OAuth: &OAuthAuth{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}}
}

// Secret returns the wire secret for whichever variant is populated.
func (a AuthData) Secret() string {
	switch a.Kind {
	case AuthSession:
		if a.Session != nil {
			return a.Session.Session
		}
	case AuthToken:
		if a.Token != nil {
			return a.Token.Token
		}
	case AuthOAuth:
		if a.OAuth != nil {
			return a.OAuth.AccessToken
		}
	}
	return ""
}
