package metadata

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/goalmate/amatta/internal/logger"
	"github.com/goalmate/amatta/internal/models"
)

// Enricher decorates todo lists with preview metadata. Items are processed
// strictly sequentially with a fixed inter-request delay so the third-party
// pages behind the links are never hammered. This is a self-imposed rate
// limit, not a correctness requirement.
type Enricher struct {
	extractor *Extractor
	delay     time.Duration
	log       *zap.Logger
}

// NewEnricher creates an enricher with the given inter-request delay.
func NewEnricher(extractor *Extractor, delay time.Duration, log *zap.Logger) *Enricher {
	return &Enricher{extractor: extractor, delay: delay, log: log}
}

// EnrichTodos fills in missing preview images and favicons for todos that
// carry a product link. Stops early when ctx is cancelled; individual
// failures leave items undecorated.
func (e *Enricher) EnrichTodos(ctx context.Context, todos []models.Todo) {
	first := true
	for i := range todos {
		if todos[i].URL == "" || todos[i].ImageURL != "" {
			continue
		}
		if !first {
			if !sleep(ctx, e.delay) {
				return
			}
		}
		first = false

		p := e.extractor.Extract(ctx, todos[i].URL)
		todos[i].ImageURL = p.Image
		todos[i].Favicon = p.Favicon
		e.log.Debug("todo_enriched",
			zap.Int("todo_id", todos[i].ID),
			zap.String("url", logger.SanitizeURL(todos[i].URL)),
			zap.Bool("image_found", p.Image != ""),
		)
	}
}

// EnrichRecommendation fills in a missing preview image for a product
// recommendation. Task-only results have no link and are left alone.
func (e *Enricher) EnrichRecommendation(ctx context.Context, rec *models.Recommendation) {
	if rec == nil || rec.TaskOnly || rec.URL == "" {
		return
	}
	p := e.extractor.Extract(ctx, rec.URL)
	if rec.ImageURL == "" {
		rec.ImageURL = p.Image
	}
	rec.Favicon = p.Favicon
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
