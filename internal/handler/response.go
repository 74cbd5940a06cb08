package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"chweb/internal/service"
	"chweb/pkg/logger"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func fail(c echo.Context, status int) error {
	return c.JSON(status, envelope{Success: false})
}

func badRequest(c echo.Context) error {
	return fail(c, http.StatusBadRequest)
}

func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalid):
		return badRequest(c)
	case errors.Is(err, service.ErrUnauthorized):
		return c.NoContent(http.StatusUnauthorized)
	case errors.Is(err, service.ErrNotFound):
		return fail(c, http.StatusNotFound)
	case errors.Is(err, service.ErrConflict):
		return fail(c, http.StatusConflict)
	default:
		logger.Error("request failed", "module", "handler", "method", c.Request().Method, "path", c.Path(), "result", "failed", "error", err)
		return fail(c, http.StatusInternalServerError)
	}
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func timeString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
