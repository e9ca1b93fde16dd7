package attractions

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dharmasatrya/flightchat/internal/cache"
	"github.com/dharmasatrya/flightchat/internal/models"
	"github.com/dharmasatrya/flightchat/internal/providers"
)

const (
	DefaultLimit       = 5
	defaultCategory    = "attraction"
	unknownName        = "Unknown"
	detailsConcurrency = 5
)

var (
	errUnresolvable = errors.New("location has no coordinates")
	errNoPlaces     = errors.New("no places found")
)

// PlaceSource is satisfied by providers.OpenTripMapClient.
type PlaceSource interface {
	Radius(ctx context.Context, coords models.Coordinates) ([]providers.Place, error)
	Details(ctx context.Context, xid string) (*providers.PlaceDetails, error)
}

type CoordinateResolver interface {
	Coordinates(code string) models.Coordinates
}

type Service struct {
	client PlaceSource
	cache  *cache.Cache
	coords CoordinateResolver
	ttl    time.Duration
	logger *zap.Logger
}

// NewService builds the attractions adapter. A nil client always yields an empty list.
func NewService(client PlaceSource, c *cache.Cache, coords CoordinateResolver, ttl time.Duration, logger *zap.Logger) *Service {
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
		logger: logger.Named("attractions"),
	}
}

// Top returns up to limit named attractions near code, most relevant first. The result is
// never nil. The cached list is keyed by code alone and truncated after reading.
func (s *Service) Top(ctx context.Context, code string, limit int) []models.Attraction {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if s.client == nil {
		return []models.Attraction{}
	}

	key := cache.Key("attractions", code)
	list, _, err := cache.Cached(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]models.Attraction, error) {
		return s.fetch(ctx, code, limit)
	})

	switch {
	case err == nil:
	case errors.Is(err, errUnresolvable), errors.Is(err, errNoPlaces):
		s.logger.Debug("attractions unavailable", zap.String("destination", code), zap.Error(err))
		return []models.Attraction{}
	default:
		s.logger.Error("attractions lookup failed", zap.String("destination", code), zap.Error(err))
		return []models.Attraction{}
	}

	if len(list) > limit {
		list = list[:limit]
	}
	if list == nil {
		list = []models.Attraction{}
	}
	return list
}

func (s *Service) fetch(ctx context.Context, code string, limit int) ([]models.Attraction, error) {
	coords := s.coords.Coordinates(code)
	if coords.IsZero() {
		return nil, errUnresolvable
	}

	places, err := s.client.Radius(ctx, coords)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, errNoPlaces
	}
	if len(places) > limit {
		places = places[:limit]
	}

	results := make([]models.Attraction, len(places))
	var g errgroup.Group
	g.SetLimit(detailsConcurrency)

	for i, place := range places {
		g.Go(func() error {
			results[i] = s.enrich(ctx, place)
			return nil
		})
	}
	_ = g.Wait()

	valid := make([]models.Attraction, 0, len(results))
	for _, a := range results {
		if a.Name != "" && a.Name != unknownName {
			valid = append(valid, a)
		}
	}
	return valid, nil
}

// enrich merges the detail lookup into the radius entry. A failed, empty or panicking
// lookup keeps the basic fields.
func (s *Service) enrich(ctx context.Context, place providers.Place) (attraction models.Attraction) {
	attraction = models.Attraction{
		Name:     strings.TrimSpace(place.Name),
		Category: category(place.Kinds),
		Coordinates: models.Coordinates{
			Lat: place.Point.Lat,
			Lon: place.Point.Lon,
		},
	}
	if place.Rate != nil {
		rating := float64(*place.Rate)
		attraction.Rating = &rating
	}

	basic := attraction
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("attraction details panicked", zap.String("xid", place.XID), zap.Any("panic", r))
			attraction = basic
		}
	}()

	details, err := s.client.Details(ctx, place.XID)
	if err != nil {
		s.logger.Warn("attraction details failed", zap.String("xid", place.XID), zap.String("name", place.Name), zap.Error(err))
		return attraction
	}
	if details == nil {
		s.logger.Warn("attraction details empty", zap.String("xid", place.XID), zap.String("name", place.Name))
		return attraction
	}

	if name := strings.TrimSpace(details.Name); name != "" {
		attraction.Name = name
	}
	attraction.Description = details.Description()
	attraction.WikipediaURL = details.Wikipedia
	attraction.Image = details.Image()
	return attraction
}

func category(kinds string) string {
	first, _, _ := strings.Cut(kinds, ",")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return defaultCategory
}
