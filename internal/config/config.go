package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dharmasatrya/flightchat/internal/cache"
)

type Config struct {
	Port           string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	CacheBackend  string
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	FlightsTTL     time.Duration
	WeatherTTL     time.Duration
	AttractionsTTL time.Duration

	AmadeusClientID     string
	AmadeusClientSecret string
	AmadeusEnvironment  string
	AmadeusMaxRetries   int
	DefaultCurrency     string

	OpenWeatherAPIKey string
	OpenTripMapAPIKey string

	JWTSecret   string
	InboundRPS  float64
	ProviderRPS map[string]float64

	LocationsFile string
	TransportFile string
}

// Providers whose outbound rate can be tuned with PROVIDER_RPS_<NAME>.
var Providers = []string{"amadeus", "openweather", "opentripmap"}

// Load reads .env (when present) and the process environment. Missing or malformed values fall
// back to defaults.
func Load() Config {
	_ = godotenv.Load()
	redisDefaults := cache.DefaultRedisConfig()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),

		CacheBackend:  strings.ToLower(getEnv("CACHE_BACKEND", "redis")),
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisHost:     getEnv("REDIS_HOST", redisDefaults.Host),
		RedisPort:     getEnv("REDIS_PORT", redisDefaults.Port),
		RedisPassword: getEnv("REDIS_PASSWORD", redisDefaults.Password),
		RedisDB:       getEnvInt("REDIS_DB", redisDefaults.DB),

		FlightsTTL:     getEnvDuration("CACHE_TTL_FLIGHTS", 30*time.Minute),
		WeatherTTL:     getEnvDuration("CACHE_TTL_WEATHER", 12*time.Hour),
		AttractionsTTL: getEnvDuration("CACHE_TTL_ATTRACTIONS", 7*24*time.Hour),

		AmadeusClientID:     getEnv("AMADEUS_CLIENT_ID", ""),
		AmadeusClientSecret: getEnv("AMADEUS_CLIENT_SECRET", ""),
		AmadeusEnvironment:  getEnv("AMADEUS_ENVIRONMENT", "test"),
		AmadeusMaxRetries:   getEnvInt("AMADEUS_MAX_RETRIES", 2),
		DefaultCurrency:     strings.ToUpper(getEnv("DEFAULT_CURRENCY", "PLN")),

		OpenWeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
		OpenTripMapAPIKey: getEnv("OPENTRIPMAP_API_KEY", ""),

		JWTSecret:   getEnv("AUTH_JWT_SECRET", ""),
		InboundRPS:  getEnvFloat("RATE_LIMIT_RPS", 5),
		ProviderRPS: make(map[string]float64),

		LocationsFile: getEnv("LOCATIONS_FILE", ""),
		TransportFile: getEnv("TRANSPORT_FILE", ""),
	}

	for _, name := range Providers {
		if rps := getEnvFloat("PROVIDER_RPS_"+strings.ToUpper(name), 0); rps > 0 {
			cfg.ProviderRPS[name] = rps
		}
	}

	if !getEnvBool("CACHE_ENABLED", true) {
		cfg.CacheBackend = "none"
	}
	if cfg.AmadeusMaxRetries < 0 {
		cfg.AmadeusMaxRetries = 0
	}

	return cfg
}

func (c Config) AmadeusConfigured() bool {
	return c.AmadeusClientID != "" && c.AmadeusClientSecret != ""
}

// Redis returns the connection settings for cache.NewRedisStore.
func (c Config) Redis() cache.RedisConfig {
	return cache.RedisConfig{
		URL:      c.RedisURL,
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

func (c Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
