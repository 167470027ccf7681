package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dharmasatrya/skyfare/internal/models"
	"github.com/dharmasatrya/skyfare/internal/providers"
	"github.com/dharmasatrya/skyfare/internal/search"
	"github.com/dharmasatrya/skyfare/internal/stats"
)

// SearchHandler serves one-shot searches without a session.
type SearchHandler struct {
	provider   providers.Provider
	chartLimit int
	log        *zap.Logger
}

func NewSearchHandler(p providers.Provider, chartLimit int, log *zap.Logger) *SearchHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SearchHandler{
		provider:   p,
		chartLimit: chartLimit,
		log:        log,
	}
}

func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	if err := req.Validate(); err != nil {
		return domainError(c, err)
	}
	route := req.Route()

	result, err := h.provider.FetchOffers(ctx, route)
	if err != nil {
		h.log.Warn("search fetch failed",
			zap.String("origin", route.Origin),
			zap.String("destination", route.Destination),
			zap.Error(err),
		)
		return errorJSON(c, http.StatusBadGateway, "upstream_error", models.FetchFailureMessage)
	}

	cfg, err := arrivalFilters(result.Offers, req)
	if err != nil {
		return domainError(c, err)
	}

	view := search.BuildView(result.Offers, result.Dictionary, cfg, nil, h.chartLimit)

	return c.JSON(http.StatusOK, models.SearchResponse{
		SearchCriteria: route,
		Filters:        cfg,
		Metadata: models.SearchMetadata{
			TotalResults: len(view.Offers),
			RawResults:   len(result.Offers),
			SearchTimeMs: time.Since(startTime).Milliseconds(),
			CacheHit:     result.FromCache,
		},
		View: view,
	})
}

// arrivalFilters builds the configuration a session would hold right after
// these offers arrived, then applies the request's own filters on top.
func arrivalFilters(offers []models.FlightOffer, req models.SearchRequest) (models.FilterConfig, error) {
	cfg := models.DefaultFilterConfig(stats.Airlines(offers))
	if bounds, ok := stats.PriceBounds(offers); ok {
		cfg.PriceRange = bounds
	}

	if req.Filters != nil {
		var err error
		if cfg, err = req.Filters.Apply(cfg); err != nil {
			return cfg, err
		}
	}
	if req.SortBy != "" {
		key, err := models.ParseSortKey(req.SortBy)
		if err != nil {
			return cfg, err
		}
		cfg.SortBy = key
	}
	return cfg, nil
}
