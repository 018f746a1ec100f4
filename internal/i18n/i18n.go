// Package i18n is a pure string-template lookup: a key and its
// arguments in, a display string out. The default catalog is English;
// callers can overlay another catalog at startup.
package i18n

import "fmt"

var catalog = map[string]string{
	"report.account":        "Account: %s",
	"report.account_plan":   "Account: %s · %s",
	"report.no_quota_data":  "No quota data available for this plan.",
	"report.remaining":      "%s %.1f%% remaining",
	"report.used":           "Used: %s / %s",
	"report.reset":          "Resets in %s",
	"report.warning":        "WARNING: %.0f%% of quota used",
	"error.config_required": "%s is not configured. Create %s to enable it.",
}

var overlay map[string]string

// SetCatalog overlays translations on the default catalog. Keys missing
// from the overlay fall back to the built-in strings.
func SetCatalog(translations map[string]string) {
	overlay = translations
}

// T looks a template up by key and expands it with args. Unknown keys
// return the key itself so a missing translation is visible, not fatal.
func T(key string, args ...any) string {
	tpl, ok := overlay[key]
	if !ok {
		tpl, ok = catalog[key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return tpl
	}
	return fmt.Sprintf(tpl, args...)
}
