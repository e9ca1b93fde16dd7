package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dharmasatrya/flightchat/internal/auth"
	"github.com/dharmasatrya/flightchat/internal/models"
)

const NoResultsMessage = "No flights found matching your criteria. Try adjusting your search parameters."

type Orchestrator interface {
	BuildDestinationOptions(ctx context.Context, params models.SearchParameters) []models.EnrichedDestination
}

type Locator interface {
	Name(code string) string
	Coordinates(code string) models.Coordinates
}

type TransportLookup interface {
	Lookup(code string) *models.AirportTransportInfo
}

type SearchHandler struct {
	aggregator Orchestrator
	locations  Locator
	transport  TransportLookup
	logger     *zap.Logger
}

func NewSearchHandler(agg Orchestrator, locations Locator, transport TransportLookup, logger *zap.Logger) *SearchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchHandler{
		aggregator: agg,
		locations:  locations,
		transport:  transport,
		logger:     logger.Named("handler"),
	}
}

func (h *SearchHandler) Register(api *echo.Group, protected ...echo.MiddlewareFunc) {
	api.POST("/destinations", h.Search, protected...)
	api.GET("/transport/:code", h.Transport)
	api.GET("/locations/:code", h.Location)
}

// Search handles POST /api/v1/destinations.
func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var params models.SearchParameters
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body",
			Code:    http.StatusBadRequest,
		})
	}

	if err := params.Validate(); err != nil {
		var verr models.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	destinations := h.aggregator.BuildDestinationOptions(ctx, params)

	h.logger.Info("destinations search",
		zap.String("user", auth.UserID(ctx)),
		zap.String("origin", params.Origin),
		zap.String("destination", params.Destination),
		zap.String("departure_date", params.DepartureDate),
		zap.Int("results", len(destinations)),
		zap.Int64("search_time_ms", time.Since(startTime).Milliseconds()),
	)

	resp := models.DestinationsResponse{Destinations: destinations}
	if len(destinations) == 0 {
		resp.Destinations = []models.EnrichedDestination{}
		resp.Message = NoResultsMessage
	}
	return c.JSON(http.StatusOK, resp)
}

// Transport handles GET /api/v1/transport/:code.
func (h *SearchHandler) Transport(c echo.Context) error {
	code := normalizeCode(c.Param("code"))
	info := h.transport.Lookup(code)
	if info == nil {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "No transport data for " + code,
			Code:    http.StatusNotFound,
		})
	}
	return c.JSON(http.StatusOK, info)
}

// Location handles GET /api/v1/locations/:code. Unknown codes are echoed back as unresolvable.
func (h *SearchHandler) Location(c echo.Context) error {
	code := normalizeCode(c.Param("code"))
	coords := h.locations.Coordinates(code)
	return c.JSON(http.StatusOK, models.LocationResponse{
		Code:        code,
		Name:        h.locations.Name(code),
		Coordinates: coords,
		Resolvable:  !coords.IsZero(),
	})
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
