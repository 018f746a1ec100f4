// Package claudeweb reports plan usage for a Claude web account. Auth is
// the claude.ai session cookie; the usage endpoint answers in rolling
// utilization windows (5h, 7d) with absolute reset timestamps.
package claudeweb

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/openquota/openquota/internal/config"
	"github.com/openquota/openquota/internal/core"
	"github.com/openquota/openquota/internal/creds"
	"github.com/openquota/openquota/internal/httpx"
	"github.com/openquota/openquota/internal/i18n"
	"github.com/openquota/openquota/internal/report"
)

const (
	defaultBaseURL = "https://claude.ai"
	desktopAppName = "Claude"
	cookieDomain   = "claude.ai"
	sessionCookie  = "sessionKey"
	orgCookie      = "lastActiveOrg"
)

type Provider struct {
	baseURL  string
	credPath string
	// test seams for the cookie-store fallbacks
	desktopCookie func(appName, hostSuffix, cookieName string) (string, error)
	browserCookie func(ctx context.Context, domainSuffix, cookieName string) (string, error)
}

func New() *Provider {
	return &Provider{
		baseURL:       defaultBaseURL,
		credPath:      config.CredentialPath("claudeweb"),
		desktopCookie: creds.DesktopSessionCookie,
		browserCookie: creds.BrowserSessionCookie,
	}
}

func (p *Provider) ID() string { return "claudeweb" }

func (p *Provider) Describe() core.ProviderInfo {
	return core.ProviderInfo{
		Name:   "Claude",
		DocURL: "https://claude.ai/settings/usage",
	}
}

type usageResponse struct {
	FiveHour *usageBucket `json:"five_hour"`
	SevenDay *usageBucket `json:"seven_day"`
	Error    *apiError    `json:"error"`
}

type usageBucket struct {
	Utilization float64 `json:"utilization"` // 0–100
	ResetsAt    *string `json:"resets_at"`   // RFC 3339 or null
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (p *Provider) Query(ctx context.Context) core.QueryResult {
	auth, ok := p.loadCredential(ctx)
	if !ok {
		return core.Fail(i18n.T("error.config_required", p.Describe().Name, p.credPath))
	}

	body, err := p.fetchUsage(ctx, auth)
	if err != nil {
		return core.Fail(err.Error())
	}

	usage, err := normalize(body, time.Now())
	if err != nil {
		return core.Fail(err.Error())
	}

	identity := httpx.MaskSecret(auth.Session.Session)
	return core.OK(report.Render(identity, usage))
}

// loadCredential tries the credential file first, then the desktop app's
// cookie store, then installed browsers. Every miss is silent; only the
// final outcome matters.
func (p *Provider) loadCredential(ctx context.Context) (core.AuthData, bool) {
	if auth, ok := creds.LoadSession(p.credPath); ok && auth.Session.OrgID != "" {
		return auth, true
	}

	if session, err := p.desktopCookie(desktopAppName, cookieDomain, sessionCookie); err == nil {
		org, _ := p.desktopCookie(desktopAppName, cookieDomain, orgCookie)
		if org != "" {
			return core.NewSessionAuth(session, org), true
		}
	} else {
		log.Printf("[claudeweb] desktop cookie store: %v", err)
	}

	if session, err := p.browserCookie(ctx, cookieDomain, sessionCookie); err == nil {
		org, _ := p.browserCookie(ctx, cookieDomain, orgCookie)
		if org != "" {
			return core.NewSessionAuth(session, org), true
		}
	} else {
		log.Printf("[claudeweb] browser cookie stores: %v", err)
	}

	return core.AuthData{}, false
}

func (p *Provider) fetchUsage(ctx context.Context, auth core.AuthData) ([]byte, error) {
	url := fmt.Sprintf("%s/api/organizations/%s/usage", p.baseURL, auth.Session.OrgID)
	headers := map[string]string{
		"Cookie":                    fmt.Sprintf("%s=%s", sessionCookie, auth.Session.Session),
		"Accept":                    "application/json",
		"anthropic-client-platform": "web_claude_ai",
	}
	return httpx.Get(ctx, url, headers)
}

func normalize(body []byte, now time.Time) (core.Usage, error) {
	var resp usageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return core.Usage{}, fmt.Errorf("parsing usage response: %w", err)
	}
	if resp.Error != nil {
		return core.Usage{}, httpx.EnvelopeError(resp.Error.Type, resp.Error.Message)
	}

	// the 5h rolling window is the binding limit; fall back to the
	// weekly window when it is absent
	bucket := resp.FiveHour
	if bucket == nil {
		bucket = resp.SevenDay
	}
	if bucket == nil {
		return core.Derive(core.Fields{}, now), nil
	}

	fields := core.Fields{Percent: &bucket.Utilization}
	if bucket.ResetsAt != nil {
		if t, err := time.Parse(time.RFC3339, *bucket.ResetsAt); err == nil {
			fields.ResetAt = &t
		}
	}
	return core.Derive(fields, now), nil
}
