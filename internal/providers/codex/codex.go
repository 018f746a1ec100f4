// Package codex reports rate-limit windows for a ChatGPT Codex account.
// Auth is the OAuth access/refresh/expiry triple the CLI writes at
// login; the usage endpoint answers in used-percent windows with
// absolute reset timestamps.
package codex

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
	defaultBaseURL = "https://chatgpt.com/backend-api"
	usagePath      = "/codex/usage"
)

type Provider struct {
	baseURL  string
	credPath string
}

func New() *Provider {
	return &Provider{
		baseURL:  defaultBaseURL,
		credPath: config.CredentialPath("codex"),
	}
}

func (p *Provider) ID() string { return "codex" }

func (p *Provider) Describe() core.ProviderInfo {
	return core.ProviderInfo{
		Name:   "Codex",
		DocURL: "https://github.com/openai/codex",
	}
}

type usagePayload struct {
	PlanType  string        `json:"plan_type"`
	RateLimit *limitDetails `json:"rate_limit"`
	Credits   *usageCredits `json:"credits"`
}

type limitDetails struct {
	PrimaryWindow   *windowInfo `json:"primary_window"`
	SecondaryWindow *windowInfo `json:"secondary_window"`
}

type windowInfo struct {
	UsedPercent        float64 `json:"used_percent"`
	LimitWindowSeconds int     `json:"limit_window_seconds"`
	ResetAt            int64   `json:"reset_at"` // Unix seconds
}

type usageCredits struct {
	Unlimited bool `json:"unlimited"`
}

func (p *Provider) Query(ctx context.Context) core.QueryResult {
	auth, ok := creds.LoadOAuth(p.credPath)
	if !ok {
		return core.Fail(i18n.T("error.config_required", p.Describe().Name, p.credPath))
	}

	if auth.OAuth.ExpiresAt > 0 && time.UnixMilli(auth.OAuth.ExpiresAt).Before(time.Now()) {
		// the token may still be accepted for a grace period; try it and
		// let the server decide
		log.Printf("[codex] access token past its expiry, attempting anyway")
	}

	body, err := httpx.Get(ctx, p.baseURL+usagePath, map[string]string{
		"Authorization": "Bearer " + auth.OAuth.AccessToken,
		"Accept":        "application/json",
	})
	if err != nil {
		return core.Fail(err.Error())
	}

	usage, err := normalize(body, time.Now())
	if err != nil {
		return core.Fail(err.Error())
	}

	identity := httpx.MaskSecret(auth.OAuth.AccessToken)
	return core.OK(report.Render(identity, usage))
}

func normalize(body []byte, now time.Time) (core.Usage, error) {
	var payload usagePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return core.Usage{}, fmt.Errorf("parsing usage response: %w", err)
	}

	fields := core.Fields{Plan: payload.PlanType}

	// unlimited-credit accounts report no windows at all
	var window *windowInfo
	if payload.RateLimit != nil {
		window = payload.RateLimit.PrimaryWindow
		if window == nil {
			window = payload.RateLimit.SecondaryWindow
		}
	}
	if window == nil {
		return core.Derive(fields, now), nil
	}

	fields.Percent = &window.UsedPercent
	if window.ResetAt > 0 {
		t := time.Unix(window.ResetAt, 0)
		fields.ResetAt = &t
	}
	return core.Derive(fields, now), nil
}
