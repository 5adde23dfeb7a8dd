package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/tuck/internal/logger"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

func serve(h http.Handler, r *http.Request) int {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec.Code
}

func TestAllowCIDRs(t *testing.T) {
	log := logger.New("error", false)
	h := AllowCIDRs([]string{"127.0.0.1/32"}, false, log)(ok)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "127.0.0.1:5000"
	if code := serve(h, r); code != http.StatusNoContent {
		t.Errorf("loopback = %d", code)
	}
	r.RemoteAddr = "192.168.1.9:5000"
	if code := serve(h, r); code != http.StatusForbidden {
		t.Errorf("lan = %d, want 403", code)
	}

	open := AllowCIDRs(nil, false, log)(ok)
	if code := serve(open, r); code != http.StatusNoContent {
		t.Errorf("empty list = %d, want passthrough", code)
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"localhost:7420", "*.tuck.local"}, logger.New("error", false))(ok)

	tests := map[string]int{
		"localhost:7420":    http.StatusNoContent,
		"LOCALHOST":         http.StatusNoContent,
		"api.tuck.local:80": http.StatusNoContent,
		"tuck.local":        http.StatusForbidden,
		"evil.example":      http.StatusForbidden,
	}
	for host, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Host = host
		if code := serve(h, r); code != want {
			t.Errorf("Host %q = %d, want %d", host, code, want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h := RateLimit(RateLimitConfig{Burst: 2, RefillPerMin: 60, Now: func() time.Time { return now }})(ok)

	req := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/sync", nil)
		r.RemoteAddr = "127.0.0.1:1"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	for i := range 2 {
		if rec := req(); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d = %d", i, rec.Code)
		}
	}
	rec := req()
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") != "1" {
		t.Fatalf("third request = %d, Retry-After %q", rec.Code, rec.Header().Get("Retry-After"))
	}

	now = now.Add(time.Second)
	if rec := req(); rec.Code != http.StatusNoContent {
		t.Errorf("after refill = %d", rec.Code)
	}
}
