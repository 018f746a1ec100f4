package core

import "context"

// QueryResult is the sole contract a provider façade exposes outward.
// Exactly one of Output/Error is populated; Output is complete,
// display-ready text, never partial.
type QueryResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(output string) QueryResult {
	return QueryResult{Success: true, Output: output}
}

func Fail(message string) QueryResult {
	return QueryResult{Success: false, Error: message}
}

type ProviderInfo struct {
	Name   string // e.g. "Claude", "GLM Coding Plan"
	DocURL string
}

// Provider is one quota adapter. Query composes credential load,
// transport, normalization and formatting, and contains every failure:
// callers never need error handling around it.
type Provider interface {
	ID() string

	Describe() ProviderInfo

	Query(ctx context.Context) QueryResult
}
