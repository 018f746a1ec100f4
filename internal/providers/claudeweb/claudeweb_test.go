package claudeweb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func failingDesktop(appName, hostSuffix, cookieName string) (string, error) {
	return "", fmt.Errorf("no desktop store")
}

func failingBrowser(ctx context.Context, domainSuffix, cookieName string) (string, error) {
	return "", fmt.Errorf("no browser store")
}

func writeCred(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claudeweb.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func testProvider(baseURL, credPath string) *Provider {
	return &Provider{
		baseURL:       baseURL,
		credPath:      credPath,
		desktopCookie: failingDesktop,
		browserCookie: failingBrowser,
	}
}

func TestQueryHighUsage(t *testing.T) {
	resetsAt := time.Now().Add(90 * time.Minute).Format(time.RFC3339)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/organizations/org-123/usage") {
			t.Errorf("path = %q, want org-scoped usage endpoint", r.URL.Path)
		}
		if cookie := r.Header.Get("Cookie"); !strings.Contains(cookie, "sessionKey=sk-ant-sid01-secret") {
			t.Errorf("Cookie = %q, want session cookie", cookie)
		}
		fmt.Fprintf(w, `{"five_hour":{"utilization":85.0,"resets_at":%q},"seven_day":{"utilization":30.0,"resets_at":null}}`, resetsAt)
	}))
	defer server.Close()

	p := testProvider(server.URL, writeCred(t, `{"session":"sk-ant-sid01-secret","org":"org-123"}`))
	res := p.Query(context.Background())

	if !res.Success {
		t.Fatalf("Query() = %+v, want success", res)
	}
	if !strings.Contains(res.Output, "15.0% remaining") {
		t.Errorf("output missing remaining percent:\n%s", res.Output)
	}
	if !strings.Contains(res.Output, "WARNING") {
		t.Errorf("output missing high-usage warning:\n%s", res.Output)
	}
	if !strings.Contains(res.Output, "Resets in") {
		t.Errorf("output missing reset countdown:\n%s", res.Output)
	}
	if strings.Contains(res.Output, "sk-ant-sid01-secret") {
		t.Errorf("output leaks the raw session cookie:\n%s", res.Output)
	}
	if res.Error != "" {
		t.Errorf("success result carries error %q", res.Error)
	}
}

func TestQueryEnvelopeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"type":"permission_error","message":"invalid session"}}`))
	}))
	defer server.Close()

	p := testProvider(server.URL, writeCred(t, `{"session":"sk","org":"org-123"}`))
	res := p.Query(context.Background())

	if res.Success {
		t.Fatalf("Query() = %+v, want failure", res)
	}
	if !strings.Contains(res.Error, "invalid session") {
		t.Errorf("error = %q, want provider message included", res.Error)
	}
	if res.Output != "" {
		t.Errorf("failure result carries output %q", res.Output)
	}
}

func TestQueryCredentialAbsentMakesNoNetworkCalls(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	p := testProvider(server.URL, filepath.Join(t.TempDir(), "missing.json"))
	res := p.Query(context.Background())

	if res.Success {
		t.Fatalf("Query() = %+v, want failure", res)
	}
	if !strings.Contains(res.Error, "not configured") {
		t.Errorf("error = %q, want config-required message", res.Error)
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("made %d network calls with absent credential, want 0", got)
	}
}

func TestQueryCookieStoreFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/organizations/org-from-app/usage") {
			t.Errorf("path = %q, want org from desktop cookies", r.URL.Path)
		}
		w.Write([]byte(`{"five_hour":{"utilization":10.0,"resets_at":null}}`))
	}))
	defer server.Close()

	p := testProvider(server.URL, filepath.Join(t.TempDir(), "missing.json"))
	p.desktopCookie = func(appName, hostSuffix, cookieName string) (string, error) {
		switch cookieName {
		case sessionCookie:
			return "cookie-session-value", nil
		case orgCookie:
			return "org-from-app", nil
		}
		return "", fmt.Errorf("unknown cookie %q", cookieName)
	}

	res := p.Query(context.Background())
	if !res.Success {
		t.Fatalf("Query() = %+v, want success via desktop cookies", res)
	}
	if !strings.Contains(res.Output, "90.0% remaining") {
		t.Errorf("output = %q", res.Output)
	}
}

func TestNormalizeNoBuckets(t *testing.T) {
	usage, err := normalize([]byte(`{}`), time.Now())
	if err != nil {
		t.Fatalf("normalize() error: %v", err)
	}
	if usage.HasData {
		t.Error("HasData = true for an empty envelope, want no-quota-data sentinel")
	}
}

func TestNormalizeFallsBackToWeeklyWindow(t *testing.T) {
	usage, err := normalize([]byte(`{"seven_day":{"utilization":40.0,"resets_at":null}}`), time.Now())
	if err != nil {
		t.Fatalf("normalize() error: %v", err)
	}
	if !usage.HasData || usage.RemainingPercent != 60 {
		t.Errorf("usage = %+v, want 60%% remaining from weekly window", usage)
	}
}
