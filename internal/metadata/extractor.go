package metadata

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/goalmate/amatta/internal/logger"
)

const (
	// defaultUserAgent identifies metadata fetches to third-party pages
	defaultUserAgent = "Mozilla/5.0 (compatible; amatta-bot/1.0)"
	// maxBodyBytes bounds how much of a page is read for parsing
	maxBodyBytes = 1_500_000
)

// Preview is the best-effort page decoration for a product link. Empty
// fields mean absent enrichment, never an error.
type Preview struct {
	Image   string `json:"ogImage,omitempty"`
	Favicon string `json:"favicon,omitempty"`
}

// Cache stores previews keyed by page URL. Implementations are
// best-effort: failures are invisible to extraction.
type Cache interface {
	Get(ctx context.Context, url string) (Preview, bool)
	Set(ctx context.Context, url string, p Preview)
}

// Extractor fetches a page and pulls out an Open Graph preview image and a
// favicon URL. Extract never fails outward: preview metadata is cosmetic
// and must not block the primary workflow.
type Extractor struct {
	client    *http.Client
	userAgent string
	cache     Cache
	log       *zap.Logger
}

// ExtractorOption configures an Extractor
type ExtractorOption func(*Extractor)

// WithCache attaches a preview cache.
func WithCache(c Cache) ExtractorOption {
	return func(e *Extractor) { e.cache = c }
}

// WithHTTPClient overrides the HTTP client used for page fetches.
func WithHTTPClient(c *http.Client) ExtractorOption {
	return func(e *Extractor) { e.client = c }
}

// NewExtractor creates an extractor with the given fetch timeout.
func NewExtractor(timeout time.Duration, log *zap.Logger, opts ...ExtractorOption) *Extractor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	e := &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		log:       log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches rawURL and returns its preview metadata. On any failure
// (unparseable URL, network error, non-2xx status, malformed markup) the
// result degrades to empty fields or the favicon-only fallback.
func (e *Extractor) Extract(ctx context.Context, rawURL string) Preview {
	if e.cache != nil {
		if p, ok := e.cache.Get(ctx, rawURL); ok {
			return p
		}
	}

	source, err := url.Parse(rawURL)
	if err != nil || source.Host == "" || (source.Scheme != "http" && source.Scheme != "https") {
		return Preview{}
	}

	doc, err := e.fetch(ctx, rawURL)
	if err != nil {
		e.log.Debug("metadata_fetch_failed",
			zap.String("url", logger.SanitizeURL(rawURL)),
			zap.String("error", logger.SanitizeError(err)),
		)
		return Preview{}
	}

	p := Preview{
		Image:   ogImage(doc),
		Favicon: faviconURL(doc, source),
	}
	if e.cache != nil {
		e.cache.Set(ctx, rawURL, p)
	}
	return p
}

func (e *Extractor) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode}
	}

	limited := io.LimitReader(resp.Body, maxBodyBytes)
	return goquery.NewDocumentFromReader(limited)
}

type statusError struct{ code int }

func (e *statusError) Error() string {
	return "unexpected status " + http.StatusText(e.code)
}

// ogImage returns the content of the first og:image meta tag, or empty.
// goquery parses attributes regardless of their order in the tag.
func ogImage(doc *goquery.Document) string {
	var image string
	doc.Find(`meta[property="og:image"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if content, ok := s.Attr("content"); ok && content != "" {
			image = content
			return false
		}
		return true
	})
	return image
}

// faviconURL returns the normalized favicon for the page, falling back to
// /favicon.ico at the page's origin when no icon link is present.
func faviconURL(doc *goquery.Document, source *url.URL) string {
	var href string
	doc.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel, _ := s.Attr("rel")
		switch strings.ToLower(strings.TrimSpace(rel)) {
		case "icon", "shortcut icon", "apple-touch-icon":
			if h, ok := s.Attr("href"); ok && h != "" {
				href = h
				return false
			}
		}
		return true
	})

	if href == "" {
		return source.Scheme + "://" + source.Host + "/favicon.ico"
	}
	return normalizeFavicon(href, source)
}

// normalizeFavicon rewrites a favicon href into an absolute URL: http(s)
// URLs pass through, protocol-relative URLs get https:, everything else is
// treated as a path relative to the source origin.
func normalizeFavicon(href string, source *url.URL) string {
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return source.Scheme + "://" + source.Host + href
	default:
		return source.Scheme + "://" + source.Host + "/" + href
	}
}
