package aggregator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dharmasatrya/flightchat/internal/filter"
	"github.com/dharmasatrya/flightchat/internal/models"
)

type FlightSearcher interface {
	Search(ctx context.Context, params models.SearchParameters) []models.FlightOffer
}

type WeatherSource interface {
	Forecast(ctx context.Context, code, date string) *models.WeatherSnapshot
}

type AttractionSource interface {
	Top(ctx context.Context, code string, limit int) []models.Attraction
}

type TransportSource interface {
	Lookup(code string) *models.AirportTransportInfo
}

type Config struct {
	// MaxDestinations bounds the enrichment fan-out when the request sets no limit.
	MaxDestinations int
	AttractionLimit int
}

func DefaultConfig() Config {
	return Config{
		MaxDestinations: models.DefaultMaxResults,
		AttractionLimit: 5,
	}
}

type Aggregator struct {
	flights     FlightSearcher
	weather     WeatherSource
	attractions AttractionSource
	transport   TransportSource
	config      Config
	logger      *zap.Logger
}

func NewAggregator(flights FlightSearcher, weather WeatherSource, attractions AttractionSource, transport TransportSource, config Config, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxDestinations <= 0 {
		config.MaxDestinations = DefaultConfig().MaxDestinations
	}
	if config.AttractionLimit <= 0 {
		config.AttractionLimit = DefaultConfig().AttractionLimit
	}
	return &Aggregator{
		flights:     flights,
		weather:     weather,
		attractions: attractions,
		transport:   transport,
		config:      config,
		logger:      logger.Named("aggregator"),
	}
}

// BuildDestinationOptions searches flights for params and enriches each retained offer with
// weather, attractions and airport transport. The result follows flight order and is empty,
// never nil, when no flights were found. Enrichment failures only blank their own field.
func (a *Aggregator) BuildDestinationOptions(ctx context.Context, params models.SearchParameters) []models.EnrichedDestination {
	start := time.Now()

	var offers []models.FlightOffer
	if err := a.safely("flights", func() {
		offers = a.flights.Search(ctx, params)
	}); err != nil {
		a.logger.Error("flight search aborted", zap.Error(err))
		return []models.EnrichedDestination{}
	}
	if len(offers) == 0 {
		return []models.EnrichedDestination{}
	}

	width := params.MaxResults
	if width <= 0 {
		width = a.config.MaxDestinations
	}
	offers = filter.Truncate(offers, width)

	results := make([]models.EnrichedDestination, len(offers))
	var g errgroup.Group
	for i, offer := range offers {
		g.Go(func() error {
			results[i] = a.enrich(ctx, offer)
			return nil
		})
	}
	_ = g.Wait()

	a.logger.Info("destinations enriched",
		zap.String("origin", params.Origin),
		zap.Int("flights", len(offers)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results
}

func (a *Aggregator) enrich(ctx context.Context, offer models.FlightOffer) models.EnrichedDestination {
	code := offer.Destination

	var (
		weather     *models.WeatherSnapshot
		attractions []models.Attraction
		transport   *models.AirportTransportInfo
		wg          sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := a.safely("weather", func() {
			weather = a.weather.Forecast(ctx, code, offer.DepartureDate)
		}); err != nil {
			a.logger.Warn("weather enrichment failed", zap.String("destination", code), zap.Error(err))
			weather = nil
		}
	}()
	go func() {
		defer wg.Done()
		if err := a.safely("attractions", func() {
			attractions = a.attractions.Top(ctx, code, a.config.AttractionLimit)
		}); err != nil {
			a.logger.Warn("attractions enrichment failed", zap.String("destination", code), zap.Error(err))
			attractions = nil
		}
	}()

	if err := a.safely("transport", func() {
		transport = a.transport.Lookup(code)
	}); err != nil {
		a.logger.Warn("transport enrichment failed", zap.String("destination", code), zap.Error(err))
		transport = nil
	}

	wg.Wait()

	if attractions == nil {
		attractions = []models.Attraction{}
	}

	return models.EnrichedDestination{
		Destination:        code,
		DestinationName:    offer.DestinationName,
		Flight:             offer,
		Attractions:        attractions,
		Weather:            weather,
		Transport:          transport,
		TotalEstimatedCost: offer.Price.Amount,
	}
}

// safely runs fn and converts a panic into an error.
func (a *Aggregator) safely(branch string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", branch, r)
		}
	}()
	fn()
	return nil
}
