package amadeus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/dharmasatrya/skyfare/internal/metrics"
	"github.com/dharmasatrya/skyfare/internal/ratelimit"
)

const (
	tokenPath = "/v1/security/oauth2/token"

	// EndpointToken is the rate limiter and metrics key for credential exchanges.
	EndpointToken = "token"

	defaultTokenTTL = 30 * time.Minute
)

var ErrMissingCredentials = errors.New("amadeus client id and secret are required")

type CredentialConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
	// DefaultTTL applies when the exchange response carries no lifetime.
	DefaultTTL time.Duration
}

// CredentialProvider exchanges the client identity for a bearer token and
// keeps it until the declared lifetime elapses. Concurrent callers share one
// in-flight exchange.
type CredentialProvider struct {
	cc         clientcredentials.Config
	httpClient *http.Client
	defaultTTL time.Duration
	limiter    *ratelimit.EndpointLimiter
	metrics    *metrics.Registry
	log        *zap.Logger

	group singleflight.Group

	mu         sync.Mutex
	token      string
	expiresAt  time.Time
	generation uint64
	timer      *time.Timer
}

func NewCredentialProvider(cfg CredentialConfig, limiter *ratelimit.EndpointLimiter, m *metrics.Registry, log *zap.Logger) *CredentialProvider {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = defaultTokenTTL
	}

	return &CredentialProvider{
		cc: clientcredentials.Config{
			ClientID:     strings.TrimSpace(cfg.ClientID),
			ClientSecret: strings.TrimSpace(cfg.ClientSecret),
			TokenURL:     strings.TrimRight(cfg.BaseURL, "/") + tokenPath,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: cfg.HTTPClient,
		defaultTTL: cfg.DefaultTTL,
		limiter:    limiter,
		metrics:    m,
		log:        log.With(zap.String("component", "amadeus.credentials")),
	}
}

// Token returns the cached bearer token, exchanging credentials when none is held.
func (p *CredentialProvider) Token(ctx context.Context) (string, error) {
	if tok, ok := p.cached(); ok {
		return tok, nil
	}
	if p.cc.ClientID == "" || p.cc.ClientSecret == "" {
		return "", ErrMissingCredentials
	}

	ch := p.group.DoChan(EndpointToken, func() (any, error) {
		if tok, ok := p.cached(); ok {
			return tok, nil
		}
		// The exchange outlives any single caller that gives up waiting.
		return p.exchange(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Invalidate drops the cached token; the next Token call exchanges again.
func (p *CredentialProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clearLocked()
}

// ExpiresAt reports when the cached token is scheduled to be dropped.
func (p *CredentialProvider) ExpiresAt() (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token == "" {
		return time.Time{}, false
	}
	return p.expiresAt, true
}

func (p *CredentialProvider) Close() {
	p.Invalidate()
}

func (p *CredentialProvider) cached() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.token, p.token != ""
}

func (p *CredentialProvider) exchange(ctx context.Context) (string, error) {
	if err := p.limiter.Wait(ctx, EndpointToken); err != nil {
		return "", fmt.Errorf("token rate limit: %w", err)
	}

	start := time.Now()
	tok, err := p.cc.Token(context.WithValue(ctx, oauth2.HTTPClient, p.httpClient))
	elapsed := time.Since(start)
	if err != nil {
		p.metrics.TokenExchange("error")
		p.metrics.ObserveUpstream(EndpointToken, "error", elapsed)
		p.log.Warn("credential exchange failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return "", fmt.Errorf("exchange client credentials: %w", err)
	}

	ttl := p.defaultTTL
	if !tok.Expiry.IsZero() {
		if d := time.Until(tok.Expiry); d > 0 {
			ttl = d
		}
	}

	p.store(tok.AccessToken, ttl)
	p.metrics.TokenExchange("ok")
	p.metrics.ObserveUpstream(EndpointToken, "ok", elapsed)
	p.log.Debug("credential exchanged", zap.Duration("ttl", ttl), zap.Duration("elapsed", elapsed))

	return tok.AccessToken, nil
}

func (p *CredentialProvider) store(token string, ttl time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clearLocked()
	gen := p.generation
	p.token = token
	p.expiresAt = time.Now().Add(ttl)
	p.timer = time.AfterFunc(ttl, func() { p.expire(gen) })
}

func (p *CredentialProvider) expire(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		return
	}
	p.clearLocked()
	p.log.Debug("credential expired")
}

// clearLocked bumps the generation so a timer armed for an older token is a no-op.
func (p *CredentialProvider) clearLocked() {
	p.generation++
	p.token = ""
	p.expiresAt = time.Time{}
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
