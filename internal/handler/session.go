package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/skyfare/internal/airports"
	"github.com/dharmasatrya/skyfare/internal/models"
	"github.com/dharmasatrya/skyfare/internal/search"
	"github.com/dharmasatrya/skyfare/internal/session"
)

type SessionHandler struct {
	store *session.Store
	now   func() time.Time
}

func NewSessionHandler(store *session.Store) *SessionHandler {
	return &SessionHandler{
		store: store,
		now:   time.Now,
	}
}

type sessionResponse struct {
	ID       string          `json:"id"`
	Snapshot search.Snapshot `json:"snapshot"`
}

type bookmarkResponse struct {
	OfferID    string `json:"offer_id"`
	Bookmarked bool   `json:"bookmarked"`
}

// Register mounts the session routes on g.
func (h *SessionHandler) Register(g *echo.Group) {
	g.POST("/sessions", h.Create)
	g.GET("/sessions/:id", h.Get)
	g.DELETE("/sessions/:id", h.Delete)
	g.PUT("/sessions/:id/route", h.UpdateRoute)
	g.POST("/sessions/:id/route/swap", h.SwapRoute)
	g.POST("/sessions/:id/retry", h.Retry)
	g.PATCH("/sessions/:id/filters", h.UpdateFilters)
	g.POST("/sessions/:id/filters/reset", h.ResetFilters)
	g.POST("/sessions/:id/bookmarks/:offerId", h.ToggleBookmark)
}

// Create starts a session. Fields missing from the body fall back to the
// default route departing a week from today.
func (h *SessionHandler) Create(c echo.Context) error {
	var req models.RouteUpdate
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	route := req.Apply(models.Route{
		Origin:      airports.DefaultOrigin,
		Destination: airports.DefaultDestination,
		Date:        airports.DefaultDate(h.now()),
	})

	id, o, err := h.store.Create(route)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, sessionResponse{ID: id, Snapshot: o.Snapshot()})
}

func (h *SessionHandler) Get(c echo.Context) error {
	o, err := h.store.Get(c.Param("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, o.Snapshot())
}

func (h *SessionHandler) Delete(c echo.Context) error {
	if err := h.store.Delete(c.Param("id")); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) UpdateRoute(c echo.Context) error {
	var req models.RouteUpdate
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	return h.mutate(c, http.StatusAccepted, func(o *search.Orchestrator) error {
		return o.UpdateRoute(req)
	})
}

func (h *SessionHandler) SwapRoute(c echo.Context) error {
	return h.mutate(c, http.StatusAccepted, (*search.Orchestrator).SwapRoute)
}

func (h *SessionHandler) Retry(c echo.Context) error {
	return h.mutate(c, http.StatusAccepted, (*search.Orchestrator).Retry)
}

func (h *SessionHandler) UpdateFilters(c echo.Context) error {
	var req models.FilterUpdate
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	return h.mutate(c, http.StatusOK, func(o *search.Orchestrator) error {
		return o.UpdateFilters(req)
	})
}

func (h *SessionHandler) ResetFilters(c echo.Context) error {
	return h.mutate(c, http.StatusOK, (*search.Orchestrator).ResetFilters)
}

func (h *SessionHandler) ToggleBookmark(c echo.Context) error {
	o, err := h.store.Get(c.Param("id"))
	if err != nil {
		return domainError(c, err)
	}

	offerID := c.Param("offerId")
	marked, err := o.ToggleBookmark(offerID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, bookmarkResponse{OfferID: offerID, Bookmarked: marked})
}

func (h *SessionHandler) mutate(c echo.Context, status int, fn func(*search.Orchestrator) error) error {
	o, err := h.store.Get(c.Param("id"))
	if err != nil {
		return domainError(c, err)
	}
	if err := fn(o); err != nil {
		return domainError(c, err)
	}
	return c.JSON(status, o.Snapshot())
}
