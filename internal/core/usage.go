package core

import "time"

// Usage is the normalized quota shape every provider envelope is mapped
// into. HasData is false when the provider answered successfully but
// carried no interpretable quota snapshot (e.g. an unmetered plan).
type Usage struct {
	Total            *float64
	Used             *float64
	RemainingPercent float64 // 0–100
	ResetIn          *time.Duration
	Plan             string
	HasData          bool
}

// UsedPercent is the inverse of RemainingPercent.
func (u Usage) UsedPercent() float64 {
	return 100 - u.RemainingPercent
}

// Fields carries whatever quota values one provider response happened to
// contain. Derive applies the precedence rules; adapters only fill in
// what the wire actually said.
type Fields struct {
	Percent   *float64 // provider-supplied usage percentage, authoritative
	Total     *float64
	Used      *float64
	Remaining *float64
	ResetAt   *time.Time
	Plan      string
}

// Derive maps raw provider fields to a Usage, in strict precedence order:
//
//  1. an explicit usage percentage wins;
//  2. else total+used derive the percentage;
//  3. else total+remaining derive used first;
//  4. else there is no quota data.
//
// A provider that supplies both a percentage and counts is not
// reconciled; the percentage is taken as-is and the counts are kept for
// display. Reset timestamps in the past clamp to zero, since clock skew
// or stale data could otherwise yield a negative countdown.
func Derive(f Fields, now time.Time) Usage {
	u := Usage{Plan: f.Plan}

	total := f.Total
	used := f.Used
	if used == nil && total != nil && f.Remaining != nil {
		v := *total - *f.Remaining
		used = &v
	}
	u.Total = total
	u.Used = used

	switch {
	case f.Percent != nil:
		u.RemainingPercent = clampPercent(100 - *f.Percent)
		u.HasData = true
	case total != nil && used != nil && *total > 0:
		u.RemainingPercent = clampPercent(100 - *used / *total * 100)
		u.HasData = true
	default:
		return u
	}

	if f.ResetAt != nil {
		eta := f.ResetAt.Sub(now)
		if eta < 0 {
			eta = 0
		}
		u.ResetIn = &eta
	}
	return u
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
