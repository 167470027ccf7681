package search

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dharmasatrya/skyfare/internal/airports"
	"github.com/dharmasatrya/skyfare/internal/metrics"
	"github.com/dharmasatrya/skyfare/internal/models"
	"github.com/dharmasatrya/skyfare/internal/providers"
	"github.com/dharmasatrya/skyfare/internal/stats"
)

type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
	StateReady    State = "ready"
	StateError    State = "error"
)

var ErrClosed = errors.New("search orchestrator is closed")

type Config struct {
	Debounce     time.Duration
	FetchTimeout time.Duration
	ChartLimit   int
}

func DefaultConfig() Config {
	return Config{
		Debounce:     500 * time.Millisecond,
		FetchTimeout: 15 * time.Second,
		ChartLimit:   stats.DefaultChartLimit,
	}
}

// Snapshot is a consistent copy of the orchestrator state plus the derived view.
type Snapshot struct {
	State             State               `json:"state"`
	Loading           bool                `json:"loading"`
	Error             string              `json:"error,omitempty"`
	Route             models.Route        `json:"route"`
	Filters           models.FilterConfig `json:"filters"`
	AvailableAirlines []string            `json:"available_airlines"`
	Bookmarks         []string            `json:"bookmarks"`
	View              models.ViewModel    `json:"view"`
}

// Orchestrator owns one browsing session: the route, the fetched offers and
// the filter configuration. Route changes are debounced; only the most
// recently issued fetch may update state.
type Orchestrator struct {
	provider providers.Provider
	cfg      Config
	metrics  *metrics.Registry
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	closed      bool
	route       models.Route
	state       State
	loading     bool
	errMsg      string
	offers      []models.FlightOffer
	dictionary  models.Dictionary
	filters     models.FilterConfig
	available   []string
	bookmarks   map[string]struct{}
	timer       *time.Timer
	debounceGen uint64
	seq         uint64
	cancelFetch context.CancelFunc
	observers   []func(Snapshot)
}

// New creates an orchestrator for route. A complete route schedules the first
// fetch after the debounce window.
func New(provider providers.Provider, route models.Route, cfg Config, m *metrics.Registry, log *zap.Logger) *Orchestrator {
	def := DefaultConfig()
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = def.FetchTimeout
	}
	if cfg.ChartLimit <= 0 {
		cfg.ChartLimit = def.ChartLimit
	}
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		provider:  provider,
		cfg:       cfg,
		metrics:   m,
		log:       log.With(zap.String("component", "search")),
		ctx:       ctx,
		cancel:    cancel,
		route:     route.Normalize(),
		state:     StateIdle,
		filters:   models.DefaultFilterConfig(nil),
		available: []string{},
		bookmarks: make(map[string]struct{}),
	}

	o.mu.Lock()
	o.scheduleLocked()
	o.mu.Unlock()

	return o
}

// OnUpdate registers fn to receive a snapshot after every state change. fn is
// called without the orchestrator lock held.
func (o *Orchestrator) OnUpdate(fn func(Snapshot)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.observers = append(o.observers, fn)
}

// SetRoute replaces the route and restarts the debounce window.
func (o *Orchestrator) SetRoute(route models.Route) error {
	return o.changeRoute(func(models.Route) models.Route { return route.Normalize() })
}

func (o *Orchestrator) UpdateRoute(u models.RouteUpdate) error {
	return o.changeRoute(u.Apply)
}

func (o *Orchestrator) SwapRoute() error {
	return o.changeRoute(models.Route.Swapped)
}

// Retry refetches the current route. It is debounced like a route change.
func (o *Orchestrator) Retry() error {
	return o.changeRoute(func(r models.Route) models.Route { return r })
}

func (o *Orchestrator) changeRoute(next func(models.Route) models.Route) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}

	route := next(o.route)
	if err := CheckRoute(route); err != nil {
		o.mu.Unlock()
		return err
	}
	o.route = route
	o.scheduleLocked()
	o.mu.Unlock()

	o.notify()
	return nil
}

// CheckRoute rejects codes outside the airport directory and malformed dates.
// Equal endpoints are accepted here and surface as the error state on fire.
func CheckRoute(r models.Route) error {
	for _, code := range []string{r.Origin, r.Destination} {
		if code != "" && !airports.IsKnown(code) {
			return models.ErrUnknownAirport
		}
	}
	if r.Date != "" {
		if _, err := time.Parse(models.DateLayout, r.Date); err != nil {
			return models.ErrInvalidDepartureDate
		}
	}
	return nil
}

func (o *Orchestrator) UpdateFilters(u models.FilterUpdate) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}

	cfg, err := u.Apply(o.filters)
	if err != nil {
		o.mu.Unlock()
		return err
	}
	o.filters = cfg
	o.mu.Unlock()

	o.notify()
	return nil
}

// ResetFilters restores the defaults with every available airline selected.
func (o *Orchestrator) ResetFilters() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}
	o.filters = models.DefaultFilterConfig(o.available)
	o.mu.Unlock()

	o.notify()
	return nil
}

// ToggleBookmark flips the bookmark on offerID and reports the new value.
func (o *Orchestrator) ToggleBookmark(offerID string) (bool, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return false, ErrClosed
	}

	_, marked := o.bookmarks[offerID]
	if marked {
		delete(o.bookmarks, offerID)
	} else {
		o.bookmarks[offerID] = struct{}{}
	}
	o.mu.Unlock()

	o.notify()
	return !marked, nil
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	snap := Snapshot{
		State:             o.state,
		Loading:           o.loading,
		Error:             o.errMsg,
		Route:             o.route,
		Filters:           o.filters.Clone(),
		AvailableAirlines: append([]string{}, o.available...),
		Bookmarks:         make([]string, 0, len(o.bookmarks)),
	}
	offers := o.offers
	dict := o.dictionary
	bookmarks := make(map[string]struct{}, len(o.bookmarks))
	for id := range o.bookmarks {
		bookmarks[id] = struct{}{}
		snap.Bookmarks = append(snap.Bookmarks, id)
	}
	o.mu.Unlock()

	sort.Strings(snap.Bookmarks)
	snap.View = BuildView(offers, dict, snap.Filters, bookmarks, o.cfg.ChartLimit)
	return snap
}

// Close cancels the pending timer and any in-flight fetch. Results arriving
// afterwards are discarded. Close is idempotent.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.closed = true
	o.debounceGen++
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.cancelFetch = nil
	o.observers = nil
	o.cancel()
}

func (o *Orchestrator) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.closed
}

func (o *Orchestrator) scheduleLocked() {
	if o.timer != nil {
		o.timer.Stop()
	}
	o.debounceGen++
	gen := o.debounceGen
	o.timer = time.AfterFunc(o.cfg.Debounce, func() { o.fire(gen) })
}

func (o *Orchestrator) fire(gen uint64) {
	o.mu.Lock()
	if o.closed || gen != o.debounceGen {
		o.mu.Unlock()
		return
	}
	o.timer = nil

	route := o.route
	o.seq++
	seq := o.seq
	if o.cancelFetch != nil {
		o.cancelFetch()
		o.cancelFetch = nil
	}

	// An incomplete route issues nothing but still retires any fetch in flight.
	if !route.Complete() {
		abandoned := o.loading
		o.loading = false
		if o.state == StateFetching {
			o.state = StateIdle
		}
		o.mu.Unlock()

		if abandoned {
			o.log.Debug("in-flight fetch abandoned for incomplete route", zap.Uint64("seq", seq))
			o.notify()
		}
		return
	}

	if route.SameEndpoints() {
		o.state = StateError
		o.errMsg = models.ErrInvalidRoute.Error()
		o.loading = false
		o.offers = nil
		o.mu.Unlock()

		o.metrics.Fetch("invalid_route")
		o.log.Debug("route rejected before fetch", zap.String("route", route.Origin+"-"+route.Destination))
		o.notify()
		return
	}

	ctx, cancel := context.WithTimeout(o.ctx, o.cfg.FetchTimeout)
	o.cancelFetch = cancel
	o.state = StateFetching
	o.loading = true
	o.errMsg = ""
	o.mu.Unlock()

	o.log.Debug("fetch issued",
		zap.Uint64("seq", seq),
		zap.String("origin", route.Origin),
		zap.String("destination", route.Destination),
		zap.String("date", route.Date),
	)
	o.notify()

	result, err := o.provider.FetchOffers(ctx, route)
	cancel()
	o.apply(seq, result, err)
}

func (o *Orchestrator) apply(seq uint64, result models.OfferResult, err error) {
	o.mu.Lock()
	if o.closed || seq != o.seq {
		o.mu.Unlock()
		o.metrics.StaleResponse()
		o.log.Debug("stale fetch result discarded", zap.Uint64("seq", seq))
		return
	}

	o.loading = false
	o.cancelFetch = nil

	if err != nil {
		o.state = StateError
		o.errMsg = models.FetchFailureMessage
		o.offers = nil
		o.mu.Unlock()

		o.metrics.Fetch("error")
		o.log.Warn("fetch failed", zap.Uint64("seq", seq), zap.Error(err))
		o.notify()
		return
	}

	offers := result.Offers
	if offers == nil {
		offers = []models.FlightOffer{}
	}
	o.state = StateReady
	o.errMsg = ""
	o.offers = offers
	o.dictionary = result.Dictionary

	if bounds, ok := stats.PriceBounds(offers); ok {
		o.filters.PriceRange = bounds
	}
	o.available = stats.Airlines(offers)
	o.filters.SelectedAirlines = append([]string{}, o.available...)
	o.mu.Unlock()

	outcome := "ok"
	if result.FromCache {
		outcome = "cached"
	}
	o.metrics.Fetch(outcome)
	o.log.Debug("fetch applied", zap.Uint64("seq", seq), zap.Int("offers", len(offers)), zap.Bool("cache_hit", result.FromCache))
	o.notify()
}

func (o *Orchestrator) notify() {
	o.mu.Lock()
	observers := append([]func(Snapshot){}, o.observers...)
	o.mu.Unlock()

	if len(observers) == 0 {
		return
	}
	snap := o.Snapshot()
	for _, fn := range observers {
		fn(snap)
	}
}
