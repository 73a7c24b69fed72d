package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	t.Parallel()

	handler := CORS("http://localhost:3000, https://amatta.goalmate.site")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	tests := []struct {
		name   string
		origin string
		want   string
	}{
		{"first origin", "http://localhost:3000", "http://localhost:3000"},
		{"second origin", "https://amatta.goalmate.site", "https://amatta.goalmate.site"},
		{"unknown origin", "https://evil.example", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/api/todos", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	handler := CORS("http://localhost:3000")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("preflight should not reach the handler")
		}))

	req := httptest.NewRequest("OPTIONS", "/api/todos", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Error("preflight should allow the configured origin")
	}
	if rec.Header().Get("Access-Control-Allow-Methods") != "PATCH" {
		t.Errorf("allow methods = %q, want PATCH", rec.Header().Get("Access-Control-Allow-Methods"))
	}
}
