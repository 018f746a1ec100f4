package appupdate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestCheckUpdateAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name":"v2.1.0"}`))
	}))
	defer server.Close()

	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.0.0",
		LatestReleaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if !result.UpdateAvailable {
		t.Errorf("UpdateAvailable = false, want true (%+v)", result)
	}
	if result.LatestVersion != "v2.1.0" {
		t.Errorf("LatestVersion = %q", result.LatestVersion)
	}
}

func TestCheckUpToDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name":"1.0.0"}`))
	}))
	defer server.Close()

	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.0.0",
		LatestReleaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if result.UpdateAvailable {
		t.Errorf("UpdateAvailable = true, want false (%+v)", result)
	}
}

func TestCheckDevBuildSkipsNetwork(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "dev",
		LatestReleaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if result.UpdateAvailable {
		t.Error("dev build flagged for update")
	}
	if calls.Load() != 0 {
		t.Errorf("dev build made %d release requests, want 0", calls.Load())
	}
}

func TestNormalizeReleaseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.2.3", "v1.2.3"},
		{"v1.2.3", "v1.2.3"},
		{"v1.2.3-rc.1", ""},
		{"v1.2.3+build", ""},
		{"dev", ""},
		{"", ""},
		{"  v0.4.0 ", "v0.4.0"},
	}
	for _, tt := range tests {
		if got := normalizeReleaseVersion(tt.in); got != tt.want {
			t.Errorf("normalizeReleaseVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
