package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/skyfare/internal/metrics"
	"github.com/dharmasatrya/skyfare/internal/models"
	"github.com/dharmasatrya/skyfare/internal/models/modeltest"
	"github.com/dharmasatrya/skyfare/internal/search"
	"github.com/dharmasatrya/skyfare/internal/session"
)

type stubProvider struct {
	calls  atomic.Int32
	offers []models.FlightOffer
	err    error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) FetchOffers(ctx context.Context, route models.Route) (models.OfferResult, error) {
	p.calls.Add(1)
	if p.err != nil {
		return models.OfferResult{}, p.err
	}
	return models.OfferResult{
		Offers:     p.offers,
		Dictionary: models.Dictionary{Carriers: map[string]string{"AF": "AIR FRANCE"}},
	}, nil
}

func sampleOffers() []models.FlightOffer {
	return []models.FlightOffer{
		modeltest.Offer("1", "500", modeltest.WithCarrier("AF")),
		modeltest.Offer("2", "200", modeltest.WithCarrier("EK"), modeltest.WithSegments(2)),
		modeltest.Offer("3", "800", modeltest.WithCarrier("AF")),
	}
}

func newServer(t *testing.T, p *stubProvider) *echo.Echo {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	store := session.NewStore(p, search.Config{Debounce: 10 * time.Millisecond}, time.Minute, m, nil)
	t.Cleanup(store.Close)

	e := echo.New()
	e.GET("/health", HealthHandler)
	e.GET("/metrics", MetricsHandler(reg))
	api := e.Group("/api/v1")
	api.GET("/airports", AirportsHandler)
	api.POST("/flights/search", NewSearchHandler(p, 10, nil).Search)
	NewSessionHandler(store).Register(api)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthAndAirports(t *testing.T) {
	e := newServer(t, &stubProvider{})

	rec := do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/airports", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]string](t, rec)
	require.Len(t, list, 7)
	assert.Equal(t, "CDG", list[0]["code"])

	rec = do(e, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "skyfare_sessions_active")
}

func TestSearch_FiltersSortsAndAggregates(t *testing.T) {
	p := &stubProvider{offers: sampleOffers()}
	e := newServer(t, p)

	rec := do(e, http.MethodPost, "/api/v1/flights/search",
		`{"origin":"cdg","destination":"dac","departure_date":"2026-05-15","filters":{"direct_only":true},"sort_by":"price_desc"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[models.SearchResponse](t, rec)
	assert.Equal(t, models.Route{Origin: "CDG", Destination: "DAC", Date: "2026-05-15"}, resp.SearchCriteria)
	assert.Equal(t, []string{"3", "1"}, modeltest.IDs(resp.View.Offers))
	assert.Equal(t, models.Range{Min: 200, Max: 800}, resp.Filters.PriceRange)
	assert.Equal(t, []string{"AF", "EK"}, resp.Filters.SelectedAirlines)
	assert.Equal(t, 2, resp.Metadata.TotalResults)
	assert.Equal(t, 3, resp.Metadata.RawResults)
	assert.Equal(t, "650.00", resp.View.Stats.AvgPrice)
	require.Len(t, resp.View.Cards, 2)
	assert.Equal(t, "AIR FRANCE", resp.View.Cards[0].AirlineName)
}

func TestSearch_SameEndpointsNeverFetch(t *testing.T) {
	p := &stubProvider{offers: sampleOffers()}
	e := newServer(t, p)

	rec := do(e, http.MethodPost, "/api/v1/flights/search",
		`{"origin":"CDG","destination":"cdg","departure_date":"2026-05-15"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[models.ErrorResponse](t, rec)
	assert.Equal(t, "Origin and Destination cannot be the same.", resp.Message)
	assert.Equal(t, int32(0), p.calls.Load())
}

func TestSearch_ValidationErrors(t *testing.T) {
	e := newServer(t, &stubProvider{})

	cases := map[string]string{
		"missing origin": `{"destination":"DAC","departure_date":"2026-05-15"}`,
		"bad date":       `{"origin":"CDG","destination":"DAC","departure_date":"May 15"}`,
		"bad sort":       `{"origin":"CDG","destination":"DAC","departure_date":"2026-05-15","sort_by":"cheapest"}`,
		"malformed":      `{"origin":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/api/v1/flights/search", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSearch_UpstreamFailure(t *testing.T) {
	e := newServer(t, &stubProvider{err: errors.New("connection refused")})

	rec := do(e, http.MethodPost, "/api/v1/flights/search",
		`{"origin":"CDG","destination":"DAC","departure_date":"2026-05-15"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	resp := decode[models.ErrorResponse](t, rec)
	assert.Equal(t, models.FetchFailureMessage, resp.Message)
}

func createSession(t *testing.T, e *echo.Echo, body string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/v1/sessions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[sessionResponse](t, rec).ID
}

func waitReady(t *testing.T, e *echo.Echo, id string) search.Snapshot {
	t.Helper()
	var snap search.Snapshot
	require.Eventually(t, func() bool {
		rec := do(e, http.MethodGet, "/api/v1/sessions/"+id, "")
		if rec.Code != http.StatusOK {
			return false
		}
		snap = decode[search.Snapshot](t, rec)
		return snap.State == search.StateReady
	}, 2*time.Second, 10*time.Millisecond)
	return snap
}

func TestSession_Lifecycle(t *testing.T) {
	p := &stubProvider{offers: sampleOffers()}
	e := newServer(t, p)

	id := createSession(t, e, `{"origin":"CDG","destination":"DAC","departure_date":"2026-05-15"}`)
	snap := waitReady(t, e, id)
	assert.Equal(t, []string{"2", "1", "3"}, modeltest.IDs(snap.View.Offers))
	assert.Equal(t, []string{"AF", "EK"}, snap.AvailableAirlines)

	rec := do(e, http.MethodPatch, "/api/v1/sessions/"+id+"/filters", `{"stop_filter":"direct","sort_by":"price_desc"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap = decode[search.Snapshot](t, rec)
	assert.Equal(t, []string{"3", "1"}, modeltest.IDs(snap.View.Offers))

	rec = do(e, http.MethodPatch, "/api/v1/sessions/"+id+"/filters", `{"cabin_class":"lounge"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/sessions/"+id+"/bookmarks/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"offer_id":"3","bookmarked":true}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/v1/sessions/"+id+"/filters/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	snap = decode[search.Snapshot](t, rec)
	assert.Equal(t, models.SortPriceAsc, snap.Filters.SortBy)
	assert.Equal(t, models.Range{Min: 0, Max: 5000}, snap.Filters.PriceRange)
	assert.Equal(t, []string{"3"}, snap.Bookmarks)

	rec = do(e, http.MethodDelete, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(e, http.MethodGet, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSession_DefaultsAndRouteChanges(t *testing.T) {
	p := &stubProvider{offers: sampleOffers()}
	e := newServer(t, p)

	id := createSession(t, e, "")
	snap := waitReady(t, e, id)
	assert.Equal(t, "CDG", snap.Route.Origin)
	assert.Equal(t, "DAC", snap.Route.Destination)
	assert.NotEmpty(t, snap.Route.Date)

	rec := do(e, http.MethodPost, "/api/v1/sessions/"+id+"/route/swap", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	snap = decode[search.Snapshot](t, rec)
	assert.Equal(t, "DAC", snap.Route.Origin)
	assert.Equal(t, "CDG", snap.Route.Destination)

	rec = do(e, http.MethodPut, "/api/v1/sessions/"+id+"/route", `{"origin":"CDG"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Eventually(t, func() bool {
		rec := do(e, http.MethodGet, "/api/v1/sessions/"+id, "")
		snap = decode[search.Snapshot](t, rec)
		return snap.State == search.StateError
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Origin and Destination cannot be the same.", snap.Error)
	assert.Empty(t, snap.View.Offers)

	rec = do(e, http.MethodPut, "/api/v1/sessions/"+id+"/route", `{"destination":"XXX"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/sessions/"+id+"/retry", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestSession_UpstreamFailureSurfacesMessage(t *testing.T) {
	p := &stubProvider{err: errors.New("timeout")}
	e := newServer(t, p)

	id := createSession(t, e, `{"origin":"LHR","destination":"JFK","departure_date":"2026-05-15"}`)

	var snap search.Snapshot
	require.Eventually(t, func() bool {
		rec := do(e, http.MethodGet, "/api/v1/sessions/"+id, "")
		snap = decode[search.Snapshot](t, rec)
		return snap.State == search.StateError
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, models.FetchFailureMessage, snap.Error)
	assert.False(t, snap.Loading)
}

func TestSession_NotFound(t *testing.T) {
	e := newServer(t, &stubProvider{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/sessions/missing"},
		{http.MethodDelete, "/api/v1/sessions/missing"},
		{http.MethodPost, "/api/v1/sessions/missing/retry"},
		{http.MethodPost, "/api/v1/sessions/missing/bookmarks/1"},
	} {
		rec := do(e, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
	}
}

func TestSession_CreateRejectsUnknownAirport(t *testing.T) {
	e := newServer(t, &stubProvider{})

	rec := do(e, http.MethodPost, "/api/v1/sessions", `{"origin":"ZZZ"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
