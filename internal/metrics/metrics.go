package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the service's Prometheus collectors. A nil *Registry is valid
// and records nothing.
type Registry struct {
	// Upstream
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec
	TokenExchangesTotal     *prometheus.CounterVec

	// Cache
	CacheLookupsTotal *prometheus.CounterVec

	// Search
	SessionsActive      prometheus.Gauge
	FetchesTotal        *prometheus.CounterVec
	StaleResponsesTotal prometheus.Counter
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skyfare_upstream_requests_total",
				Help: "Upstream offer API requests by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		UpstreamRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skyfare_upstream_request_duration_seconds",
				Help:    "Upstream offer API latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
			[]string{"endpoint"},
		),
		TokenExchangesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skyfare_token_exchanges_total",
				Help: "Client-credential exchanges by outcome",
			},
			[]string{"outcome"},
		),
		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skyfare_cache_lookups_total",
				Help: "Offer cache lookups by backend and result",
			},
			[]string{"backend", "result"},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "skyfare_sessions_active",
				Help: "Search sessions currently held in memory",
			},
		),
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skyfare_search_fetches_total",
				Help: "Orchestrator fetch cycles by outcome",
			},
			[]string{"outcome"},
		),
		StaleResponsesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "skyfare_search_stale_responses_total",
				Help: "Fetch results discarded because a newer fetch was issued",
			},
		),
	}
}

func (m *Registry) ObserveUpstream(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Registry) TokenExchange(outcome string) {
	if m == nil {
		return
	}
	m.TokenExchangesTotal.WithLabelValues(outcome).Inc()
}

func (m *Registry) CacheLookup(backend string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(backend, result).Inc()
}

func (m *Registry) SessionOpened() {
	if m == nil {
		return
	}
	m.SessionsActive.Inc()
}

func (m *Registry) SessionClosed() {
	if m == nil {
		return
	}
	m.SessionsActive.Dec()
}

func (m *Registry) Fetch(outcome string) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(outcome).Inc()
}

func (m *Registry) StaleResponse() {
	if m == nil {
		return
	}
	m.StaleResponsesTotal.Inc()
}
