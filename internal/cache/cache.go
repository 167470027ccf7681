package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/dharmasatrya/skyfare/internal/models"
)

// Cache stores offer results per route. Lookup failures are reported as misses.
type Cache interface {
	Get(ctx context.Context, route models.Route) (models.OfferResult, bool)
	Set(ctx context.Context, route models.Route, result models.OfferResult) error
	Backend() string
	Close() error
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, route models.Route) (models.OfferResult, bool) {
	return models.OfferResult{}, false
}

func (c *NoOpCache) Set(ctx context.Context, route models.Route, result models.OfferResult) error {
	return nil
}

func (c *NoOpCache) Backend() string {
	return "none"
}

func (c *NoOpCache) Close() error {
	return nil
}

func generateKey(route models.Route) string {
	route = route.Normalize()
	keyData := struct {
		Origin        string
		Destination   string
		DepartureDate string
	}{
		Origin:        route.Origin,
		Destination:   route.Destination,
		DepartureDate: route.Date,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "offers:" + hex.EncodeToString(hash[:])
}
