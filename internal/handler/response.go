package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/skyfare/internal/models"
	"github.com/dharmasatrya/skyfare/internal/search"
	"github.com/dharmasatrya/skyfare/internal/session"
)

func errorJSON(c echo.Context, status int, kind, message string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:   kind,
		Message: message,
		Code:    status,
	})
}

func bindError(c echo.Context, err error) error {
	return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
}

// domainError maps validation and session errors onto HTTP statuses.
func domainError(c echo.Context, err error) error {
	var verr models.ValidationError
	switch {
	case errors.As(err, &verr):
		return errorJSON(c, http.StatusBadRequest, "validation_error", verr.Error())
	case errors.Is(err, session.ErrNotFound), errors.Is(err, search.ErrClosed):
		return errorJSON(c, http.StatusNotFound, "not_found", session.ErrNotFound.Error())
	default:
		return errorJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
