package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dharmasatrya/skyfare/internal/metrics"
	"github.com/dharmasatrya/skyfare/internal/models"
	"github.com/dharmasatrya/skyfare/internal/providers"
	"github.com/dharmasatrya/skyfare/internal/ratelimit"
)

const (
	ProviderName = "amadeus"

	DefaultBaseURL = "https://test.api.amadeus.com"

	offersPath = "/v2/shopping/flight-offers"

	// EndpointOffers is the rate limiter and metrics key for offer searches.
	EndpointOffers = "flight-offers"

	maxErrorBody = 4 << 10
)

var ErrUnauthorized = errors.New("amadeus rejected the access token")

// TokenSource supplies bearer tokens. Invalidate is called when the API
// rejects a token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

type Config struct {
	BaseURL    string
	Currency   string
	MaxResults int
	Adults     int
	Timeout    time.Duration
}

type Client struct {
	baseURL    string
	currency   string
	maxResults int
	adults     int
	httpClient *http.Client
	tokens     TokenSource
	limiter    *ratelimit.EndpointLimiter
	metrics    *metrics.Registry
	log        *zap.Logger
}

func NewClient(cfg Config, tokens TokenSource, limiter *ratelimit.EndpointLimiter, m *metrics.Registry, log *zap.Logger) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		cfg.Currency = "USD"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 23
	}
	if cfg.Adults <= 0 {
		cfg.Adults = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		currency:   strings.ToUpper(strings.TrimSpace(cfg.Currency)),
		maxResults: cfg.MaxResults,
		adults:     cfg.Adults,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tokens:     tokens,
		limiter:    limiter,
		metrics:    m,
		log:        log.With(zap.String("component", "amadeus.client")),
	}
}

func (c *Client) Name() string {
	return ProviderName
}

// FetchOffers runs one offer search. It never retries; a 401 drops the cached
// token so the next call exchanges again.
func (c *Client) FetchOffers(ctx context.Context, route models.Route) (models.OfferResult, error) {
	log := c.log.With(
		zap.String("op", "FetchOffers"),
		zap.String("origin", route.Origin),
		zap.String("destination", route.Destination),
		zap.String("date", route.Date),
	)

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return models.OfferResult{}, providers.NewProviderError(ProviderName, fmt.Errorf("access token: %w", err))
	}

	if err := c.limiter.Wait(ctx, EndpointOffers); err != nil {
		return models.OfferResult{}, providers.NewProviderError(ProviderName, fmt.Errorf("rate limit: %w", err))
	}

	reqURL, err := c.buildURL(route)
	if err != nil {
		return models.OfferResult{}, providers.NewProviderError(ProviderName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.OfferResult{}, providers.NewProviderError(ProviderName, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(EndpointOffers, "error", time.Since(start))
		log.Warn("offer request failed", zap.Error(err))
		return models.OfferResult{}, providers.NewProviderError(ProviderName, fmt.Errorf("offers request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.metrics.ObserveUpstream(EndpointOffers, "unauthorized", time.Since(start))
		c.tokens.Invalidate()
		log.Warn("access token rejected, cached credential dropped")
		return models.OfferResult{}, providers.NewProviderError(ProviderName, ErrUnauthorized)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.metrics.ObserveUpstream(EndpointOffers, "status_"+strconv.Itoa(resp.StatusCode), time.Since(start))
		err := statusError(resp)
		log.Warn("offer request rejected", zap.Int("status", resp.StatusCode), zap.Error(err))
		return models.OfferResult{}, providers.NewProviderError(ProviderName, err)
	}

	var payload offersResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.ObserveUpstream(EndpointOffers, "decode_error", time.Since(start))
		return models.OfferResult{}, providers.NewProviderError(ProviderName, fmt.Errorf("decode offers response: %w", err))
	}
	c.metrics.ObserveUpstream(EndpointOffers, "ok", time.Since(start))

	offers := payload.offers()
	log.Debug("offers fetched", zap.Int("count", len(offers)), zap.Duration("elapsed", time.Since(start)))

	return models.OfferResult{
		Offers:     offers,
		Dictionary: payload.Dictionaries,
	}, nil
}

func (c *Client) buildURL(route models.Route) (string, error) {
	u, err := url.Parse(c.baseURL + offersPath)
	if err != nil {
		return "", fmt.Errorf("parse amadeus base url: %w", err)
	}

	q := u.Query()
	q.Set("originLocationCode", route.Origin)
	q.Set("destinationLocationCode", route.Destination)
	q.Set("departureDate", route.Date)
	q.Set("adults", strconv.Itoa(c.adults))
	q.Set("currencyCode", c.currency)
	q.Set("max", strconv.Itoa(c.maxResults))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := payload.summary(); msg != "" {
			return fmt.Errorf("amadeus status %s: %s", resp.Status, msg)
		}
	}
	return fmt.Errorf("amadeus status: %s", resp.Status)
}
