package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dharmasatrya/flightchat/internal/cache"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "CACHE_BACKEND", "CACHE_ENABLED", "CACHE_TTL_FLIGHTS", "AMADEUS_CLIENT_ID",
		"AMADEUS_CLIENT_SECRET", "AMADEUS_MAX_RETRIES", "DEFAULT_CURRENCY", "RATE_LIMIT_RPS",
		"PROVIDER_RPS_AMADEUS", "REDIS_URL", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, 30*time.Minute, cfg.FlightsTTL)
	assert.Equal(t, 12*time.Hour, cfg.WeatherTTL)
	assert.Equal(t, 168*time.Hour, cfg.AttractionsTTL)
	assert.Equal(t, 2, cfg.AmadeusMaxRetries)
	assert.Equal(t, "PLN", cfg.DefaultCurrency)
	assert.Equal(t, 5.0, cfg.InboundRPS)
	assert.False(t, cfg.AmadeusConfigured())
	assert.Empty(t, cfg.ProviderRPS)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, cache.DefaultRedisConfig(), cfg.Redis())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_BACKEND", "Memory")
	t.Setenv("CACHE_TTL_FLIGHTS", "5m")
	t.Setenv("AMADEUS_CLIENT_ID", "id")
	t.Setenv("AMADEUS_CLIENT_SECRET", "secret")
	t.Setenv("AMADEUS_MAX_RETRIES", "-3")
	t.Setenv("DEFAULT_CURRENCY", "eur")
	t.Setenv("PROVIDER_RPS_AMADEUS", "2.5")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 5*time.Minute, cfg.FlightsTTL)
	assert.True(t, cfg.AmadeusConfigured())
	assert.Equal(t, 0, cfg.AmadeusMaxRetries)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
	assert.Equal(t, map[string]float64{"amadeus": 2.5}, cfg.ProviderRPS)
	assert.Equal(t, 5.0, cfg.InboundRPS)
}

func TestLoad_CacheDisabled(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_ENABLED", "false")

	assert.Equal(t, "none", Load().CacheBackend)
}

func TestGetEnvDuration_Invalid(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")
	assert.Equal(t, time.Second, getEnvDuration("SOME_TIMEOUT", time.Second))
}
