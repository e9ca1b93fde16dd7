package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightchat/internal/models"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

const healthPingTimeout = 2 * time.Second

// HealthHandler always answers 200; a failing cache only marks the response degraded.
func HealthHandler(cache Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := models.HealthResponse{Status: "ok", Cache: "ok"}

		ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
		defer cancel()
		if cache == nil {
			resp.Cache = "disabled"
		} else if err := cache.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Cache = "unavailable"
		}

		return c.JSON(http.StatusOK, resp)
	}
}
