package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dharmasatrya/flightchat/internal/aggregator"
	"github.com/dharmasatrya/flightchat/internal/attractions"
	"github.com/dharmasatrya/flightchat/internal/auth"
	"github.com/dharmasatrya/flightchat/internal/cache"
	"github.com/dharmasatrya/flightchat/internal/config"
	"github.com/dharmasatrya/flightchat/internal/flights"
	"github.com/dharmasatrya/flightchat/internal/handler"
	"github.com/dharmasatrya/flightchat/internal/locations"
	"github.com/dharmasatrya/flightchat/internal/logger"
	"github.com/dharmasatrya/flightchat/internal/providers"
	"github.com/dharmasatrya/flightchat/internal/ratelimit"
	"github.com/dharmasatrya/flightchat/internal/transport"
	"github.com/dharmasatrya/flightchat/internal/weather"
)

const (
	upstreamTimeout = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	names, err := loadLocations(cfg.LocationsFile)
	if err != nil {
		return err
	}
	table, err := loadTransport(cfg.TransportFile)
	if err != nil {
		return err
	}

	store, err := initializeStore(cfg, log)
	if err != nil {
		return err
	}
	c := cache.New(store, log.Named("cache"))
	defer func() { _ = c.Close() }()

	rateLimiter := ratelimit.NewProviderLimiterWithDefaults()
	for name, rps := range cfg.ProviderRPS {
		rateLimiter.SetProviderLimit(name, rps, int(rps*2))
	}
	base := &http.Client{Timeout: upstreamTimeout}

	flightCfg := flights.DefaultConfig()
	flightCfg.DefaultCurrency = cfg.DefaultCurrency
	flightCfg.TTL = cfg.FlightsTTL
	flightCfg.MaxRetries = cfg.AmadeusMaxRetries

	var upstream flights.Upstream
	if cfg.AmadeusConfigured() {
		amadeus, err := providers.NewAmadeusClient(providers.AmadeusConfig{
			ClientID:     cfg.AmadeusClientID,
			ClientSecret: cfg.AmadeusClientSecret,
			Environment:  cfg.AmadeusEnvironment,
			HTTPClient:   rateLimiter.Client(base, "amadeus"),
		}, names)
		if err != nil {
			return err
		}
		upstream = amadeus
	}
	flightService := flights.NewService(upstream, c, names, flightCfg, log)
	if flightService.Synthetic() {
		log.Warn("flight provider not configured, synthetic offers will be served")
	} else {
		log.Info("flight provider configured", zap.String("environment", cfg.AmadeusEnvironment))
	}

	var forecaster weather.Forecaster
	if client, err := providers.NewOpenWeatherClient(providers.OpenWeatherConfig{
		APIKey:     cfg.OpenWeatherAPIKey,
		HTTPClient: rateLimiter.Client(base, "openweather"),
	}); err == nil {
		forecaster = client
	} else {
		log.Warn("weather provider not configured, forecasts disabled")
	}

	var places attractions.PlaceSource
	if client, err := providers.NewOpenTripMapClient(providers.OpenTripMapConfig{
		APIKey:     cfg.OpenTripMapAPIKey,
		HTTPClient: rateLimiter.Client(base, "opentripmap"),
	}); err == nil {
		places = client
	} else {
		log.Warn("attraction provider not configured, attractions disabled")
	}

	agg := aggregator.NewAggregator(
		flightService,
		weather.NewService(forecaster, c, names, cfg.WeatherTTL, log),
		attractions.NewService(places, c, names, cfg.AttractionsTTL, log),
		table,
		aggregator.DefaultConfig(),
		log,
	)

	if cfg.JWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET not set, running without authentication")
	}

	e := newServer(cfg, log)
	searchHandler := handler.NewSearchHandler(agg, names, table, log)
	searchHandler.Register(e.Group("/api/v1"), auth.Middleware(cfg.JWTSecret))
	e.GET("/health", handler.HealthHandler(c))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting destinations server", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newServer(cfg config.Config, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	accessLog := log.Named("http")
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				accessLog.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			accessLog.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.CORS())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.InboundRPS))))
	e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: cfg.RequestTimeout,
	}))

	return e
}

func initializeStore(cfg config.Config, log *zap.Logger) (cache.Store, error) {
	switch cfg.CacheBackend {
	case "redis":
		store, err := cache.NewRedisStore(cfg.Redis())
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			log.Warn("redis unreachable, cache will miss until it recovers", zap.Error(err))
		} else {
			log.Info("redis cache enabled", zap.String("addr", cfg.RedisAddr()))
		}
		return store, nil
	case "memory":
		log.Info("in-process cache enabled")
		return cache.NewMemoryStore(10 * time.Minute), nil
	default:
		log.Info("cache disabled")
		return cache.NewNoOpStore(), nil
	}
}

func loadLocations(path string) (*locations.Resolver, error) {
	if path != "" {
		return locations.Load(path)
	}
	return locations.Default()
}

func loadTransport(path string) (*transport.Table, error) {
	if path != "" {
		return transport.Load(path)
	}
	return transport.Default()
}
