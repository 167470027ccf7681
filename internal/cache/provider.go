package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/dharmasatrya/skyfare/internal/metrics"
	"github.com/dharmasatrya/skyfare/internal/models"
	"github.com/dharmasatrya/skyfare/internal/providers"
)

// CachedProvider serves repeat routes from c and stores fresh results.
// Failed fetches are never cached.
type CachedProvider struct {
	next    providers.Provider
	cache   Cache
	metrics *metrics.Registry
	log     *zap.Logger
}

func NewCachedProvider(next providers.Provider, c Cache, m *metrics.Registry, log *zap.Logger) *CachedProvider {
	if c == nil {
		c = NewNoOpCache()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedProvider{
		next:    next,
		cache:   c,
		metrics: m,
		log:     log.With(zap.String("component", "cache"), zap.String("backend", c.Backend())),
	}
}

func (p *CachedProvider) Name() string {
	return p.next.Name()
}

func (p *CachedProvider) FetchOffers(ctx context.Context, route models.Route) (models.OfferResult, error) {
	if result, found := p.cache.Get(ctx, route); found {
		p.metrics.CacheLookup(p.cache.Backend(), true)
		result.FromCache = true
		return result, nil
	}
	p.metrics.CacheLookup(p.cache.Backend(), false)

	result, err := p.next.FetchOffers(ctx, route)
	if err != nil {
		return models.OfferResult{}, err
	}

	if err := p.cache.Set(ctx, route, result); err != nil {
		p.log.Warn("cache store failed", zap.Error(err))
	}
	return result, nil
}
