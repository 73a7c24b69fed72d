package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestExtractor(t *testing.T, opts ...ExtractorOption) *Extractor {
	t.Helper()
	return NewExtractor(5*time.Second, zap.NewNop(), opts...)
}

func htmlServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("write: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtractOGImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "property before content",
			html: `<html><head><meta property="og:image" content="https://cdn/x.jpg"></head></html>`,
			want: "https://cdn/x.jpg",
		},
		{
			name: "content before property",
			html: `<html><head><meta content="https://cdn/y.jpg" property="og:image"></head></html>`,
			want: "https://cdn/y.jpg",
		},
		{
			name: "first match wins",
			html: `<head><meta property="og:image" content="first"><meta property="og:image" content="second"></head>`,
			want: "first",
		},
		{
			name: "missing tag",
			html: `<html><head><title>nope</title></head></html>`,
			want: "",
		},
		{
			name: "malformed markup still parses",
			html: `<head><meta property="og:image" content="https://cdn/z.jpg"<div>`,
			want: "https://cdn/z.jpg",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := htmlServer(t, tt.html)
			p := newTestExtractor(t).Extract(context.Background(), srv.URL+"/page")
			if p.Image != tt.want {
				t.Errorf("Image = %q, want %q", p.Image, tt.want)
			}
		})
	}
}

func TestExtractFaviconNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want func(srvURL string) string
	}{
		{
			name: "absolute url passes through",
			html: `<head><link rel="icon" href="https://static.example.com/fav.png"></head>`,
			want: func(string) string { return "https://static.example.com/fav.png" },
		},
		{
			name: "protocol relative gets https",
			html: `<head><link rel="shortcut icon" href="//cdn.example.com/icon.png"></head>`,
			want: func(string) string { return "https://cdn.example.com/icon.png" },
		},
		{
			name: "rooted path joined to origin",
			html: `<head><link rel="icon" href="/icon.png"></head>`,
			want: func(srvURL string) string { return srvURL + "/icon.png" },
		},
		{
			name: "bare path gets leading slash",
			html: `<head><link rel="apple-touch-icon" href="icon.png"></head>`,
			want: func(srvURL string) string { return srvURL + "/icon.png" },
		},
		{
			name: "attribute order reversed",
			html: `<head><link href="/rev.png" rel="icon"></head>`,
			want: func(srvURL string) string { return srvURL + "/rev.png" },
		},
		{
			name: "no icon tag falls back to favicon.ico",
			html: `<head><title>plain</title></head>`,
			want: func(srvURL string) string { return srvURL + "/favicon.ico" },
		},
		{
			name: "unrelated rel ignored",
			html: `<head><link rel="stylesheet" href="/style.css"></head>`,
			want: func(srvURL string) string { return srvURL + "/favicon.ico" },
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := htmlServer(t, tt.html)
			p := newTestExtractor(t).Extract(context.Background(), srv.URL+"/page")
			if want := tt.want(srv.URL); p.Favicon != want {
				t.Errorf("Favicon = %q, want %q", p.Favicon, want)
			}
		})
	}
}

func TestExtractNeverFails(t *testing.T) {
	t.Parallel()

	t.Run("non-2xx status yields empty preview", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		t.Cleanup(srv.Close)

		p := newTestExtractor(t).Extract(context.Background(), srv.URL)
		if p != (Preview{}) {
			t.Errorf("expected empty preview, got %+v", p)
		}
	})

	t.Run("unreachable host yields empty preview", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		p := newTestExtractor(t).Extract(context.Background(), srv.URL)
		if p != (Preview{}) {
			t.Errorf("expected empty preview, got %+v", p)
		}
	})

	t.Run("malformed url yields empty preview", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"", "not a url", "ftp://example.com/x", "://bad"} {
			if p := newTestExtractor(t).Extract(context.Background(), raw); p != (Preview{}) {
				t.Errorf("Extract(%q) = %+v, want empty", raw, p)
			}
		}
	})
}

func TestExtractSendsIdentifyingUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	t.Cleanup(srv.Close)

	newTestExtractor(t).Extract(context.Background(), srv.URL)
	if gotUA != defaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, defaultUserAgent)
	}
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]Preview
}

func (m *memoryCache) Get(_ context.Context, url string) (Preview, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data[url]
	return p, ok
}

func (m *memoryCache) Set(_ context.Context, url string, p Preview) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string]Preview)
	}
	m.data[url] = p
}

func TestExtractUsesCache(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<head><meta property="og:image" content="https://cdn/c.jpg"></head>`))
	}))
	t.Cleanup(srv.Close)

	ex := newTestExtractor(t, WithCache(&memoryCache{}))
	first := ex.Extract(context.Background(), srv.URL)
	second := ex.Extract(context.Background(), srv.URL)

	if hits != 1 {
		t.Errorf("expected a single upstream fetch, got %d", hits)
	}
	if first != second {
		t.Errorf("cached result mismatch: %+v vs %+v", first, second)
	}
}
