// Package glm reports prompt quota for a GLM coding plan account. Auth
// is a bearer token issued at login together with the username and plan
// tier. The quota endpoint wraps real API errors inside an HTTP 200
// `{code,msg,data}` envelope; a non-zero code is a transport failure.
package glm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/openquota/openquota/internal/config"
	"github.com/openquota/openquota/internal/core"
	"github.com/openquota/openquota/internal/creds"
	"github.com/openquota/openquota/internal/httpx"
	"github.com/openquota/openquota/internal/i18n"
	"github.com/openquota/openquota/internal/report"
)

const (
	defaultBaseURL = "https://open.bigmodel.cn"
	quotaLimitPath = "/api/monitor/usage/quota/limit"
)

type Provider struct {
	baseURL  string
	credPath string
}

func New() *Provider {
	return &Provider{
		baseURL:  defaultBaseURL,
		credPath: config.CredentialPath("glm"),
	}
}

func (p *Provider) ID() string { return "glm" }

func (p *Provider) Describe() core.ProviderInfo {
	return core.ProviderInfo{
		Name:   "GLM Coding Plan",
		DocURL: "https://docs.bigmodel.cn/",
	}
}

type quotaEnvelope struct {
	Code any             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type quotaData struct {
	Limit           *float64 `json:"limit"`
	Used            *float64 `json:"used"`
	Remaining       *float64 `json:"remaining"`
	UsagePercentage *float64 `json:"usage_percentage"`
	NextResetTime   *int64   `json:"next_reset_time"` // epoch millis
	Plan            string   `json:"plan"`
}

func (p *Provider) Query(ctx context.Context) core.QueryResult {
	auth, ok := creds.LoadToken(p.credPath)
	if !ok {
		return core.Fail(i18n.T("error.config_required", p.Describe().Name, p.credPath))
	}

	body, err := httpx.Get(ctx, p.baseURL+quotaLimitPath, map[string]string{
		"Authorization": "Bearer " + auth.Token.Token,
		"Accept":        "application/json",
	})
	if err != nil {
		return core.Fail(err.Error())
	}

	usage, err := normalize(body, auth.Token.Tier, time.Now())
	if err != nil {
		return core.Fail(err.Error())
	}

	return core.OK(report.Render(identity(auth), usage))
}

func identity(auth core.AuthData) string {
	masked := httpx.MaskSecret(auth.Token.Token)
	if auth.Token.Username != "" {
		return fmt.Sprintf("%s (%s)", auth.Token.Username, masked)
	}
	return masked
}

func normalize(body []byte, tier string, now time.Time) (core.Usage, error) {
	var envelope quotaEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return core.Usage{}, fmt.Errorf("parsing quota envelope: %w", err)
	}
	if code := anyToString(envelope.Code); code != "" && code != "0" {
		return core.Usage{}, httpx.EnvelopeError(code, envelope.Msg)
	}

	var data quotaData
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return core.Usage{}, fmt.Errorf("parsing quota data: %w", err)
		}
	}

	fields := core.Fields{
		Percent:   data.UsagePercentage,
		Total:     data.Limit,
		Used:      data.Used,
		Remaining: data.Remaining,
		Plan:      data.Plan,
	}
	if fields.Plan == "" {
		fields.Plan = tier
	}
	if data.NextResetTime != nil {
		t := time.UnixMilli(*data.NextResetTime)
		fields.ResetAt = &t
	}
	return core.Derive(fields, now), nil
}

func anyToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
