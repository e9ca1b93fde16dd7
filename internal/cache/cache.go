package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Cache is the JSON read-through/write-through layer in front of every provider.
// Backend failures are logged and never returned: a broken store behaves as an empty one.
type Cache struct {
	store  Store
	logger *zap.Logger
}

func New(store Store, logger *zap.Logger) *Cache {
	if store == nil {
		store = NewNoOpStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: store, logger: logger}
}

// Get decodes the value stored under key into dest and reports whether it was found.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("cache entry undecodable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetWithExpiry stores value under key for ttl and reports whether the write succeeded.
func (c *Cache) SetWithExpiry(ctx context.Context, key string, value any, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache value unencodable", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := c.store.Set(ctx, key, data, ttl); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

func (c *Cache) Close() error {
	return c.store.Close()
}

// Cached is the cache-aside helper shared by every provider adapter. On a hit the stored value
// is returned and fetch is not called. On a miss fetch runs and its result is written back only
// when it returned no error.
func Cached[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, bool, error) {
	var cached T
	if c.Get(ctx, key, &cached) {
		c.logger.Debug("cache hit", zap.String("key", key))
		return cached, true, nil
	}
	c.logger.Debug("cache miss", zap.String("key", key))

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}
	c.SetWithExpiry(ctx, key, value, ttl)
	return value, false, nil
}

// Key joins parts into a readable namespaced key, e.g. Key("weather", "BCN", "2025-06-01").
func Key(prefix string, parts ...string) string {
	return prefix + ":" + strings.Join(parts, ":")
}

// HashKey derives a key from the JSON encoding of v, so every distinct field combination maps
// to a distinct key.
func HashKey(prefix string, v any) string {
	data, _ := json.Marshal(v)
	hash := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(hash[:])
}
