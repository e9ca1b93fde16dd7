package weather

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/dharmasatrya/flightchat/internal/cache"
	"github.com/dharmasatrya/flightchat/internal/models"
	"github.com/dharmasatrya/flightchat/internal/providers"
)

var (
	errUnresolvable = errors.New("location has no coordinates")
	errNoForecast   = errors.New("no forecast for date")
)

// Forecaster is satisfied by providers.OpenWeatherClient.
type Forecaster interface {
	Daily(ctx context.Context, coords models.Coordinates) ([]providers.DailyForecast, error)
}

type CoordinateResolver interface {
	Coordinates(code string) models.Coordinates
}

type Service struct {
	client Forecaster
	cache  *cache.Cache
	coords CoordinateResolver
	ttl    time.Duration
	logger *zap.Logger
}

// NewService builds the weather adapter. A nil client disables forecasts entirely.
func NewService(client Forecaster, c *cache.Cache, coords CoordinateResolver, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = cache.New(nil, logger)
	}
	return &Service{
		client: client,
		cache:  c,
		coords: coords,
		ttl:    ttl,
		logger: logger.Named("weather"),
	}
}

// Forecast returns the daily forecast for code on date (YYYY-MM-DD), or nil when there is none.
// Only found snapshots are cached.
func (s *Service) Forecast(ctx context.Context, code, date string) *models.WeatherSnapshot {
	if s.client == nil {
		return nil
	}

	key := cache.Key("weather", code, date)
	snapshot, _, err := cache.Cached(ctx, s.cache, key, s.ttl, func(ctx context.Context) (*models.WeatherSnapshot, error) {
		return s.fetch(ctx, code, date)
	})

	switch {
	case err == nil:
		return snapshot
	case errors.Is(err, errUnresolvable), errors.Is(err, errNoForecast):
		s.logger.Debug("weather unavailable", zap.String("destination", code), zap.String("date", date), zap.Error(err))
	default:
		s.logger.Error("weather lookup failed", zap.String("destination", code), zap.String("date", date), zap.Error(err))
	}
	return nil
}

func (s *Service) fetch(ctx context.Context, code, date string) (*models.WeatherSnapshot, error) {
	coords := s.coords.Coordinates(code)
	if coords.IsZero() {
		return nil, errUnresolvable
	}

	days, err := s.client.Daily(ctx, coords)
	if err != nil {
		return nil, err
	}

	for _, day := range days {
		if day.LocalDate() != date {
			continue
		}
		snapshot := &models.WeatherSnapshot{
			Destination:    code,
			Date:           date,
			TemperatureAvg: round(day.Temp.Day),
			TemperatureMin: round(day.Temp.Min),
			TemperatureMax: round(day.Temp.Max),
		}
		if len(day.Weather) > 0 {
			snapshot.Description = Translate(day.Weather[0].Description)
			snapshot.Icon = day.Weather[0].Icon
		}
		return snapshot, nil
	}

	return nil, errNoForecast
}

func round(v float64) int {
	return int(math.Round(v))
}
