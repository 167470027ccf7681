package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/dharmasatrya/skyfare/internal/metrics"
	"github.com/dharmasatrya/skyfare/internal/models"
	"github.com/dharmasatrya/skyfare/internal/providers"
	"github.com/dharmasatrya/skyfare/internal/search"
)

var ErrNotFound = errors.New("search session not found")

const DefaultTTL = 30 * time.Minute

// Store holds one orchestrator per browsing session. Sessions idle for longer
// than the TTL are evicted and their orchestrator closed.
type Store struct {
	sessions *gocache.Cache
	ttl      time.Duration
	provider providers.Provider
	cfg      search.Config
	metrics  *metrics.Registry
	log      *zap.Logger
}

func NewStore(provider providers.Provider, cfg search.Config, ttl time.Duration, m *metrics.Registry, log *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Store{
		sessions: gocache.New(ttl, ttl/2),
		ttl:      ttl,
		provider: provider,
		cfg:      cfg,
		metrics:  m,
		log:      log.With(zap.String("component", "session")),
	}
	s.sessions.OnEvicted(s.evicted)
	return s
}

// Create starts a session on route and returns its id.
func (s *Store) Create(route models.Route) (string, *search.Orchestrator, error) {
	route = route.Normalize()
	if err := search.CheckRoute(route); err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	o := search.New(s.provider, route, s.cfg, s.metrics, s.log.With(zap.String("session_id", id)))

	s.sessions.Set(id, o, s.ttl)
	s.metrics.SessionOpened()
	s.log.Info("session created",
		zap.String("session_id", id),
		zap.String("origin", route.Origin),
		zap.String("destination", route.Destination),
	)
	return id, o, nil
}

// Get returns the session's orchestrator and extends its lifetime. A session
// evicted between the lookup and the refresh is reported as not found and is
// never put back.
func (s *Store) Get(id string) (*search.Orchestrator, error) {
	v, found := s.sessions.Get(id)
	if !found {
		return nil, ErrNotFound
	}
	o := v.(*search.Orchestrator)
	if o.Closed() {
		return nil, ErrNotFound
	}
	if err := s.sessions.Replace(id, o, s.ttl); err != nil {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *Store) Delete(id string) error {
	if _, found := s.sessions.Get(id); !found {
		return ErrNotFound
	}
	s.sessions.Delete(id)
	return nil
}

func (s *Store) Len() int {
	return s.sessions.ItemCount()
}

// Close tears down every session.
func (s *Store) Close() {
	for id := range s.sessions.Items() {
		s.sessions.Delete(id)
	}
}

func (s *Store) evicted(id string, v any) {
	o, ok := v.(*search.Orchestrator)
	if !ok {
		return
	}
	o.Close()
	s.metrics.SessionClosed()
	s.log.Info("session closed", zap.String("session_id", id))
}
