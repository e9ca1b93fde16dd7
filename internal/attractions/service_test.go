package attractions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightchat/internal/cache"
	"github.com/dharmasatrya/flightchat/internal/locations"
	"github.com/dharmasatrya/flightchat/internal/models"
	"github.com/dharmasatrya/flightchat/internal/providers"
)

type mockPlaces struct {
	places      []providers.Place
	radiusErr   error
	details     map[string]*providers.PlaceDetails
	radiusCalls atomic.Int32

	mu          sync.Mutex
	detailCalls []string
}

func (m *mockPlaces) Radius(context.Context, models.Coordinates) ([]providers.Place, error) {
	m.radiusCalls.Add(1)
	return m.places, m.radiusErr
}

func (m *mockPlaces) Details(_ context.Context, xid string) (*providers.PlaceDetails, error) {
	m.mu.Lock()
	m.detailCalls = append(m.detailCalls, xid)
	m.mu.Unlock()
	if d, ok := m.details[xid]; ok {
		return d, nil
	}
	return nil, errors.New("details unavailable")
}

func place(xid, name, kinds string, rate float64) providers.Place {
	p := providers.Place{XID: xid, Name: name, Kinds: kinds}
	p.Point.Lat, p.Point.Lon = 41.4, 2.17
	r := providers.Rating(rate)
	p.Rate = &r
	return p
}

func newService(t *testing.T, src PlaceSource) *Service {
	t.Helper()
	r, err := locations.Default()
	require.NoError(t, err)
	return NewService(src, cache.New(cache.NewMemoryStore(time.Minute), nil), r, 168*time.Hour, nil)
}

func names(list []models.Attraction) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.Name
	}
	return out
}

func TestTop_EnrichesInOrder(t *testing.T) {
	src := &mockPlaces{
		places: []providers.Place{
			place("1", "Sagrada Familia", "religion,architecture", 3),
			place("2", "Park Güell", "", 7),
			place("3", "Casa Batlló", "architecture", 2),
		},
		details: map[string]*providers.PlaceDetails{
			"1": {Name: "Basílica de la Sagrada Família", Wikipedia: "https://wiki/sf"},
			"2": {Name: "Park Güell"},
			"3": {Name: "Casa Batlló"},
		},
	}
	svc := newService(t, src)

	got := svc.Top(context.Background(), "BCN", 3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Basílica de la Sagrada Família", "Park Güell", "Casa Batlló"}, names(got))
	assert.Equal(t, "religion", got[0].Category)
	assert.Equal(t, "attraction", got[1].Category)
	assert.Equal(t, "https://wiki/sf", got[0].WikipediaURL)
	require.NotNil(t, got[1].Rating)
	assert.Equal(t, 7.0, *got[1].Rating)
}

func TestTop_DetailFailureDegradesToBasicFields(t *testing.T) {
	src := &mockPlaces{
		places: []providers.Place{
			place("1", "Sagrada Familia", "architecture", 3),
			place("2", "Park Güell", "natural", 2),
		},
		details: map[string]*providers.PlaceDetails{
			"1": {Name: "Sagrada Familia"},
		},
	}
	svc := newService(t, src)

	got := svc.Top(context.Background(), "BCN", 5)
	require.Len(t, got, 2)
	assert.Equal(t, "Park Güell", got[1].Name)
	assert.Equal(t, "natural", got[1].Category)
	assert.Empty(t, got[1].Description)
}

// brokenDetails panics for xid "1" and returns no details and no error for the rest.
type brokenDetails struct{ *mockPlaces }

func (b brokenDetails) Details(_ context.Context, xid string) (*providers.PlaceDetails, error) {
	if xid == "1" {
		panic("details exploded")
	}
	return nil, nil
}

func TestTop_PanickingOrEmptyDetailsKeepBasicFields(t *testing.T) {
	src := brokenDetails{&mockPlaces{
		places: []providers.Place{
			place("1", "Sagrada Familia", "architecture", 3),
			place("2", "Park Güell", "natural", 2),
		},
	}}
	svc := newService(t, src)

	var got []models.Attraction
	require.NotPanics(t, func() {
		got = svc.Top(context.Background(), "BCN", 5)
	})
	assert.Equal(t, []string{"Sagrada Familia", "Park Güell"}, names(got))
	assert.Equal(t, "architecture", got[0].Category)
	require.NotNil(t, got[0].Rating)
	assert.Equal(t, 3.0, *got[0].Rating)
	assert.Empty(t, got[1].Description)
}

func TestTop_DropsUnnamed(t *testing.T) {
	src := &mockPlaces{
		places: []providers.Place{
			place("1", "", "architecture", 3),
			place("2", "Unknown", "museums", 3),
			place("3", "Montjuïc", "natural", 3),
			place("4", "", "historic", 3),
		},
		details: map[string]*providers.PlaceDetails{
			"4": {Name: "Barri Gòtic"},
		},
	}
	svc := newService(t, src)

	got := svc.Top(context.Background(), "BCN", 5)
	assert.Equal(t, []string{"Montjuïc", "Barri Gòtic"}, names(got))
	for _, a := range got {
		assert.NotEmpty(t, a.Name)
	}
}

func TestTop_OnlyTopLimitAreDetailed(t *testing.T) {
	var places []providers.Place
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		places = append(places, place(id, "Place "+id, "historic", 3))
	}
	src := &mockPlaces{places: places}
	svc := newService(t, src)

	got := svc.Top(context.Background(), "BCN", 3)
	assert.Len(t, got, 3)
	assert.Len(t, src.detailCalls, 3)
}

func TestTop_CachedByCodeTruncatedOnRead(t *testing.T) {
	src := &mockPlaces{places: []providers.Place{
		place("1", "A", "x", 3),
		place("2", "B", "x", 3),
		place("3", "C", "x", 3),
	}}
	svc := newService(t, src)

	assert.Len(t, svc.Top(context.Background(), "BCN", 3), 3)
	assert.Equal(t, []string{"A"}, names(svc.Top(context.Background(), "BCN", 1)))
	assert.Equal(t, int32(1), src.radiusCalls.Load())
}

func TestTop_DegradedPaths(t *testing.T) {
	t.Run("unresolvable code", func(t *testing.T) {
		src := &mockPlaces{}
		got := newService(t, src).Top(context.Background(), "XXX", 5)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Equal(t, int32(0), src.radiusCalls.Load())
	})

	t.Run("radius failure", func(t *testing.T) {
		src := &mockPlaces{radiusErr: errors.New("502")}
		got := newService(t, src).Top(context.Background(), "BCN", 5)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty result not cached", func(t *testing.T) {
		src := &mockPlaces{}
		svc := newService(t, src)
		svc.Top(context.Background(), "BCN", 5)
		svc.Top(context.Background(), "BCN", 5)
		assert.Equal(t, int32(2), src.radiusCalls.Load())
	})

	t.Run("no client", func(t *testing.T) {
		got := NewService(nil, nil, nil, time.Hour, nil).Top(context.Background(), "BCN", 5)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestTop_ThroughOpenTripMap(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/radius", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"xid":"W1","name":"Torre de Belém","kinds":"historic,fortifications","point":{"lon":-9.2159,"lat":38.6916},"rate":"3h"}]`))
	})
	mux.HandleFunc("/xid/W1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"xid":"W1","name":"Belém Tower","info":{"descr":"Fortified tower"},"preview":{"source":"https://img/belem.jpg"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := providers.NewOpenTripMapClient(providers.OpenTripMapConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	got := newService(t, client).Top(context.Background(), "LIS", 5)
	require.Len(t, got, 1)
	assert.Equal(t, "Belém Tower", got[0].Name)
	assert.Equal(t, "Fortified tower", got[0].Description)
	assert.Equal(t, "https://img/belem.jpg", got[0].Image)
	assert.Equal(t, "historic", got[0].Category)
	require.NotNil(t, got[0].Rating)
	assert.Equal(t, 3.0, *got[0].Rating)
}
