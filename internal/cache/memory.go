package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dharmasatrya/skyfare/internal/models"
)

// MemoryCache keeps results in process memory with a fixed TTL.
type MemoryCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryCache{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *MemoryCache) Get(ctx context.Context, route models.Route) (models.OfferResult, bool) {
	v, found := c.cache.Get(generateKey(route))
	if !found {
		return models.OfferResult{}, false
	}
	result, ok := v.(models.OfferResult)
	return result, ok
}

func (c *MemoryCache) Set(ctx context.Context, route models.Route, result models.OfferResult) error {
	result.FromCache = false
	c.cache.Set(generateKey(route), result, c.ttl)
	return nil
}

func (c *MemoryCache) Backend() string {
	return "memory"
}

func (c *MemoryCache) Close() error {
	c.cache.Flush()
	return nil
}
