package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/skyfare/internal/metrics"
	"github.com/dharmasatrya/skyfare/internal/models"
	"github.com/dharmasatrya/skyfare/internal/models/modeltest"
)

type countingProvider struct {
	calls  int
	result models.OfferResult
	err    error
}

func (p *countingProvider) Name() string { return "fake" }

func (p *countingProvider) FetchOffers(ctx context.Context, route models.Route) (models.OfferResult, error) {
	p.calls++
	return p.result, p.err
}

var route = models.Route{Origin: "CDG", Destination: "DAC", Date: "2026-05-15"}

func TestGenerateKey_NormalizesRoute(t *testing.T) {
	a := generateKey(route)
	b := generateKey(models.Route{Origin: " cdg", Destination: "dac ", Date: "2026-05-15"})
	c := generateKey(route.Swapped())

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "offers:")
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	_, found := c.Get(context.Background(), route)
	assert.False(t, found)

	want := models.OfferResult{
		Offers:     []models.FlightOffer{modeltest.Offer("1", "200")},
		Dictionary: models.Dictionary{Carriers: map[string]string{"AF": "AIR FRANCE"}},
	}
	require.NoError(t, c.Set(context.Background(), route, want))

	got, found := c.Get(context.Background(), route)
	require.True(t, found)
	assert.Equal(t, want, got)
}

func TestMemoryCache_Expires(t *testing.T) {
	c := NewMemoryCache(50 * time.Millisecond)
	require.NoError(t, c.Set(context.Background(), route, models.OfferResult{}))

	require.Eventually(t, func() bool {
		_, found := c.Get(context.Background(), route)
		return !found
	}, time.Second, 10*time.Millisecond)
}

func TestCachedProvider_ServesRepeatRoutesFromCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	next := &countingProvider{result: models.OfferResult{
		Offers: []models.FlightOffer{modeltest.Offer("1", "200")},
	}}
	p := NewCachedProvider(next, NewMemoryCache(time.Minute), m, nil)

	first, err := p.FetchOffers(context.Background(), route)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := p.FetchOffers(context.Background(), route)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Offers, second.Offers)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, "fake", p.Name())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("memory", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("memory", "miss")))
}

func TestCachedProvider_DoesNotCacheFailures(t *testing.T) {
	next := &countingProvider{err: errors.New("boom")}
	p := NewCachedProvider(next, NewMemoryCache(time.Minute), nil, nil)

	_, err := p.FetchOffers(context.Background(), route)
	require.Error(t, err)
	_, err = p.FetchOffers(context.Background(), route)
	require.Error(t, err)

	assert.Equal(t, 2, next.calls)
}

func TestCachedProvider_NoOpAlwaysFetches(t *testing.T) {
	next := &countingProvider{}
	p := NewCachedProvider(next, nil, nil, nil)

	for i := 0; i < 2; i++ {
		res, err := p.FetchOffers(context.Background(), route)
		require.NoError(t, err)
		assert.False(t, res.FromCache)
	}
	assert.Equal(t, 2, next.calls)
}
