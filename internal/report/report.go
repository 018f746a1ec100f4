// Package report renders a normalized usage shape into the fixed
// multi-line text every provider shares. Bar and duration rendering are
// pure functions of their inputs; label strings come from the i18n
// catalog.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/openquota/openquota/internal/core"
	"github.com/openquota/openquota/internal/i18n"
)

// HighUsageThreshold is the used-percentage at which the trailing
// warning block is appended.
const HighUsageThreshold = 80.0

const barWidth = 20

// Render produces the full report for one account. identity is already
// masked by the caller.
func Render(identity string, u core.Usage) string {
	var lines []string

	if u.Plan != "" {
		lines = append(lines, i18n.T("report.account_plan", identity, u.Plan))
	} else {
		lines = append(lines, i18n.T("report.account", identity))
	}
	lines = append(lines, "")

	if !u.HasData {
		lines = append(lines, i18n.T("report.no_quota_data"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, i18n.T("report.remaining", Bar(u.RemainingPercent), u.RemainingPercent))

	if u.Used != nil && u.Total != nil {
		lines = append(lines, i18n.T("report.used", formatCount(*u.Used), formatCount(*u.Total)))
	}
	if u.ResetIn != nil {
		lines = append(lines, i18n.T("report.reset", FormatDuration(*u.ResetIn)))
	}

	if used := u.UsedPercent(); used >= HighUsageThreshold {
		lines = append(lines, "", i18n.T("report.warning", used))
	}

	return strings.Join(lines, "\n")
}

// Bar renders a fixed-width progress bar filled proportionally to the
// remaining percentage.
func Bar(remainingPercent float64) string {
	if remainingPercent < 0 {
		remainingPercent = 0
	}
	if remainingPercent > 100 {
		remainingPercent = 100
	}
	filled := int(remainingPercent/100*barWidth + 0.5)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}

// FormatDuration renders a countdown like "1h 0m", "2d 3h" or "45m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d >= 24*time.Hour:
		days := int(d / (24 * time.Hour))
		hours := int(d % (24 * time.Hour) / time.Hour)
		return fmt.Sprintf("%dd %dh", days, hours)
	case d >= time.Hour:
		return fmt.Sprintf("%dh %dm", int(d/time.Hour), int(d%time.Hour/time.Minute))
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	default:
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
