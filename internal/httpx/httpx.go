package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RequestTimeout bounds the single HTTP attempt every provider gets per
// query. There are no retries; a slow provider fails rather than hangs.
const RequestTimeout = 10 * time.Second

const maxErrorBodySize = 512

var client = &http.Client{Timeout: RequestTimeout}

// TransportError is raised for a non-success HTTP status, or for a
// provider-internal error code unwrapped from a 200-status envelope.
type TransportError struct {
	StatusCode int
	Code       string // provider-internal status code, if any
	Message    string
	Body       string
}

func (e *TransportError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("API error (code %s): %s", e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	case e.Body != "":
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
}

// EnvelopeError builds the error for a provider that wraps real API
// failures inside a 200-status JSON body.
func EnvelopeError(code, message string) *TransportError {
	return &TransportError{StatusCode: http.StatusOK, Code: code, Message: message}
}

// Get performs one authenticated GET and returns the raw body. Non-2xx
// statuses become a *TransportError carrying the (truncated) error body.
func Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(body)), maxErrorBodySize),
		}
	}
	return body, nil
}

// MaskSecret reveals only the first and last few characters of a secret,
// enough to recognize which key is configured without leaking it.
func MaskSecret(s string) string {
	if len(s) > 8 {
		return s[:4] + "..." + s[len(s)-4:]
	}
	return "****"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
