package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderLimiter_SeparateBuckets(t *testing.T) {
	l := NewProviderLimiter(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})

	a := l.GetLimiter("amadeus")
	assert.Same(t, a, l.GetLimiter("amadeus"))
	assert.NotSame(t, a, l.GetLimiter("openweather"))
}

func TestProviderLimiter_SetProviderLimit(t *testing.T) {
	l := NewProviderLimiterWithDefaults()
	l.SetProviderLimit("amadeus", 2, 4)
	assert.Equal(t, 4, l.GetLimiter("amadeus").Burst())

	before := l.GetLimiter("opentripmap")
	l.SetProviderLimit("opentripmap", 0, 4)
	assert.Same(t, before, l.GetLimiter("opentripmap"))
}

func TestTransport_WaitRespectsContext(t *testing.T) {
	l := NewProviderLimiter(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})
	require.True(t, l.GetLimiter("slow").Allow())

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := l.Client(srv.Client(), "slow")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	_, err = client.Do(req)
	assert.Error(t, err)
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_PassesThrough(t *testing.T) {
	l := NewProviderLimiterWithDefaults()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	resp, err := l.Client(nil, "any").Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}
