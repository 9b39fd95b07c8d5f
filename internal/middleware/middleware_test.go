package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	expected := map[string]string{
		"X-Content-Type-Options":       "nosniff",
		"Cache-Control":                "no-store, no-cache, must-revalidate",
		"Cross-Origin-Opener-Policy":   "same-origin",
		"Cross-Origin-Resource-Policy": "same-origin",
		"Content-Security-Policy":      "default-src 'self'",
	}
	for header, want := range expected {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("header %s = %q, want %q", header, got, want)
		}
	}
}

func TestCachedPromHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_cached_handler_gauge",
		Help: "test gauge",
	})
	registry.MustRegister(gauge)
	gauge.Set(7)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := NewCachedPromHandler(ctx, registry, 10*time.Millisecond)

	t.Run("falls back to live handler before first refresh", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "test_cached_handler_gauge 7") {
			t.Errorf("expected gauge in exposition, got:\n%s", rec.Body.String())
		}
	})

	t.Run("serves cached exposition after refresh", func(t *testing.T) {
		time.Sleep(50 * time.Millisecond)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		if !strings.Contains(rec.Body.String(), "test_cached_handler_gauge 7") {
			t.Errorf("expected gauge in cached exposition, got:\n%s", rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/plain") {
			t.Errorf("unexpected content type %q", ct)
		}
	})
}
