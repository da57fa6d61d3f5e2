package redis

import (
	"context"
	"errors"
	"time"

	"github.com/pediforte/registry/internal/domain/rules"
)

// activeRulesKey holds the single active document; there is only ever one.
const activeRulesKey = PrefixRules + "active"

// RulesCache implements rules.ActiveDocumentCache using the generic Cache.
type RulesCache struct {
	cache *Cache
}

// NewRulesCache creates a new RulesCache.
func NewRulesCache(cache *Cache) *RulesCache {
	return &RulesCache{cache: cache}
}

// Get returns the cached active document, or rules.ErrNoActiveDocument
// on a miss so callers fall through to the repository.
func (c *RulesCache) Get(ctx context.Context) (*rules.Document, error) {
	var doc rules.Document
	if err := c.cache.Get(ctx, activeRulesKey, &doc); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, rules.ErrNoActiveDocument
		}
		return nil, err
	}
	return &doc, nil
}

// Set caches the active document for the given TTL.
func (c *RulesCache) Set(ctx context.Context, doc *rules.Document, ttl time.Duration) error {
	if doc == nil {
		return nil
	}
	return c.cache.Set(ctx, activeRulesKey, doc, ttl)
}

// Invalidate drops the cached document. Called after Publish and Update.
func (c *RulesCache) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, activeRulesKey)
}
