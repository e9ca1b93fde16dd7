package flights

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dharmasatrya/flightchat/internal/cache"
	"github.com/dharmasatrya/flightchat/internal/filter"
	"github.com/dharmasatrya/flightchat/internal/models"
	"github.com/dharmasatrya/flightchat/internal/providers"
)

// Upstream is a live flight source. AmadeusClient is the production implementation.
type Upstream interface {
	Name() string
	SearchOffers(ctx context.Context, params models.SearchParameters, currencyCode string) ([]models.FlightOffer, error)
	SearchDestinations(ctx context.Context, params models.SearchParameters, currencyCode string) ([]models.FlightOffer, error)
}

type Config struct {
	DefaultCurrency string
	DefaultLimit    int
	TTL             time.Duration
	MaxRetries      int
	RetryDelays     []time.Duration
}

func DefaultConfig() Config {
	return Config{
		DefaultCurrency: "PLN",
		DefaultLimit:    10,
		TTL:             30 * time.Minute,
		MaxRetries:      2,
		RetryDelays: []time.Duration{
			100 * time.Millisecond,
			200 * time.Millisecond,
			400 * time.Millisecond,
		},
	}
}

type Service struct {
	upstream Upstream
	cache    *cache.Cache
	names    providers.NameResolver
	config   Config
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for the synthetic date rule.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the flight adapter. A nil upstream switches to synthetic offers.
func NewService(upstream Upstream, c *cache.Cache, names providers.NameResolver, config Config, logger *zap.Logger, opts ...Option) *Service {
	if c == nil {
		c = cache.New(nil, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = DefaultConfig().DefaultCurrency
	}
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = DefaultConfig().DefaultLimit
	}
	s := &Service{
		upstream: upstream,
		cache:    c,
		names:    names,
		config:   config,
		logger:   logger.Named("flights"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthetic reports whether offers come from the local generator instead of a live provider.
func (s *Service) Synthetic() bool {
	return s.upstream == nil
}

// Search returns offers for params, filtered, sorted by price and capped. Upstream failures
// yield an empty list; the distinction from zero matches is only logged.
func (s *Service) Search(ctx context.Context, params models.SearchParameters) []models.FlightOffer {
	key := cache.HashKey("flights", params)

	offers, hit, err := cache.Cached(ctx, s.cache, key, s.config.TTL, func(ctx context.Context) ([]models.FlightOffer, error) {
		return s.fetch(ctx, params)
	})
	if err != nil {
		s.logger.Error("flight search failed",
			zap.String("origin", params.Origin),
			zap.String("destination", params.Destination),
			zap.Error(err),
		)
		return []models.FlightOffer{}
	}
	if offers == nil {
		offers = []models.FlightOffer{}
	}
	if len(offers) == 0 {
		s.logger.Info("no flights matched",
			zap.String("origin", params.Origin),
			zap.String("destination", params.Destination),
			zap.Bool("cached", hit),
		)
	}
	return offers
}

func (s *Service) fetch(ctx context.Context, params models.SearchParameters) ([]models.FlightOffer, error) {
	currencyCode := params.Currency
	if currencyCode == "" {
		currencyCode = s.config.DefaultCurrency
	}

	var raw []models.FlightOffer
	if s.Synthetic() {
		s.logger.Warn("flight provider not configured, using synthetic offers")
		raw = s.synthetic(params, currencyCode)
	} else {
		var err error
		raw, err = s.searchWithRetry(ctx, params, currencyCode)
		if err != nil {
			return nil, err
		}
	}

	limit := params.MaxResults
	if limit <= 0 {
		limit = s.config.DefaultLimit
	}
	return filter.Truncate(filter.Apply(raw, params), limit), nil
}

func (s *Service) searchWithRetry(ctx context.Context, params models.SearchParameters, currencyCode string) ([]models.FlightOffer, error) {
	var lastErr error

	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if attempt > 0 && len(s.config.RetryDelays) > 0 {
			delayIdx := attempt - 1
			if delayIdx >= len(s.config.RetryDelays) {
				delayIdx = len(s.config.RetryDelays) - 1
			}

			select {
			case <-time.After(s.config.RetryDelays[delayIdx]):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		offers, err := s.query(ctx, params, currencyCode)
		if err == nil {
			return offers, nil
		}

		lastErr = err
		s.logger.Warn("flight provider attempt failed",
			zap.String("provider", s.upstream.Name()),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		if !providers.IsTemporary(err) {
			break
		}
	}

	return nil, lastErr
}

func (s *Service) query(ctx context.Context, params models.SearchParameters, currencyCode string) ([]models.FlightOffer, error) {
	if params.HasDestination() {
		return s.upstream.SearchOffers(ctx, params, currencyCode)
	}
	return s.upstream.SearchDestinations(ctx, params, currencyCode)
}
