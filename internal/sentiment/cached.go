package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pdv-backend/internal/cache"
	"pdv-backend/internal/models"
)

// Cached memoizes successful summaries in Redis, keyed by a hash of the exact input.
// Failures are never cached. A nil cache disables memoization.
type Cached struct {
	next  Summarizer
	cache *cache.Cache
	ttl   time.Duration
}

func NewCached(next Summarizer, c *cache.Cache, ttl time.Duration) *Cached {
	return &Cached{next: next, cache: c, ttl: ttl}
}

func (c *Cached) SummarizeOutlet(ctx context.Context, pointVente string, audience Audience, comments []string) (*models.OutletAnalysis, error) {
	key := cache.Key("sentiment:outlet", append([]string{pointVente, string(audience)}, comments...)...)

	var analysis models.OutletAnalysis
	if c.load(ctx, key, &analysis) {
		return &analysis, nil
	}

	fresh, err := c.next.SummarizeOutlet(ctx, pointVente, audience, comments)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, fresh)
	return fresh, nil
}

func (c *Cached) SummarizeDay(ctx context.Context, date string, outlets []*models.OutletReport) (*models.DayAnalysis, error) {
	input, err := json.Marshal(outlets)
	if err != nil {
		return nil, fmt.Errorf("failed to encode day input: %w", err)
	}
	key := cache.Key("sentiment:day", date, string(input))

	var analysis models.DayAnalysis
	if c.load(ctx, key, &analysis) {
		return &analysis, nil
	}

	fresh, err := c.next.SummarizeDay(ctx, date, outlets)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, fresh)
	return fresh, nil
}

func (c *Cached) load(ctx context.Context, key string, out any) bool {
	data, ok := c.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("[Sentiment] Dropping unreadable cache entry %s: %v", key, err)
		c.cache.Delete(ctx, key)
		return false
	}
	return true
}

func (c *Cached) store(ctx context.Context, key string, v any) {
	if !c.cache.Enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.cache.Set(ctx, key, data, c.ttl)
}
