package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightchat/internal/models"
)

func offer(id string, price float64, stops *int, arrival string) models.FlightOffer {
	return models.FlightOffer{
		ID:            id,
		Destination:   "BCN",
		Price:         models.Price{Amount: price, Currency: "PLN"},
		DepartureDate: "2025-06-01",
		Stops:         stops,
		ArrivalTime:   arrival,
	}
}

func ids(offers []models.FlightOffer) []string {
	out := make([]string, len(offers))
	for i, o := range offers {
		out[i] = o.ID
	}
	return out
}

func TestApply_SortsByPriceStable(t *testing.T) {
	offers := []models.FlightOffer{
		offer("a", 400, nil, ""),
		offer("b", 250, nil, ""),
		offer("c", 400, nil, ""),
		offer("d", 100, nil, ""),
	}

	got := Apply(offers, models.SearchParameters{})
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids(got))
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Price.Amount, got[i].Price.Amount)
	}
}

func TestApply_MaxPrice(t *testing.T) {
	limit := 300.0
	offers := []models.FlightOffer{
		offer("a", 300, nil, ""),
		offer("b", 300.01, nil, ""),
		offer("c", 120, nil, ""),
	}

	got := Apply(offers, models.SearchParameters{MaxPrice: &limit})
	assert.Equal(t, []string{"c", "a"}, ids(got))
}

func TestApply_DirectOnly(t *testing.T) {
	offers := []models.FlightOffer{
		offer("direct", 300, models.IntPtr(0), ""),
		offer("one-stop", 200, models.IntPtr(1), ""),
		offer("unknown", 100, nil, ""),
	}

	got := Apply(offers, models.SearchParameters{DirectFlightsOnly: true})
	require.Len(t, got, 1)
	assert.Equal(t, "direct", got[0].ID)
}

func TestApply_MaxArrivalTimeIgnoresDate(t *testing.T) {
	offers := []models.FlightOffer{
		offer("early", 300, nil, "2025-06-02T09:15:00"),
		offer("late", 200, nil, "2025-06-01T21:40:00"),
		offer("edge", 250, nil, "2025-06-01T18:00:00"),
		offer("no-time", 100, nil, ""),
	}

	got := Apply(offers, models.SearchParameters{MaxArrivalTime: "18:00"})
	assert.Equal(t, []string{"no-time", "edge", "early"}, ids(got))
}

func TestApply_InvalidArrivalTimeIsIgnored(t *testing.T) {
	offers := []models.FlightOffer{offer("a", 1, nil, "2025-06-01T23:00:00")}
	assert.Len(t, Apply(offers, models.SearchParameters{MaxArrivalTime: "late"}), 1)
}

func TestApply_TripDuration(t *testing.T) {
	short := offer("short", 100, nil, "")
	short.ReturnDate = models.StringPtr("2025-06-03")
	week := offer("week", 200, nil, "")
	week.ReturnDate = models.StringPtr("2025-06-08")
	oneWay := offer("one-way", 300, nil, "")

	offers := []models.FlightOffer{short, week, oneWay}

	got := Apply(offers, models.SearchParameters{MinDuration: models.IntPtr(5)})
	assert.Equal(t, []string{"week", "one-way"}, ids(got))

	got = Apply(offers, models.SearchParameters{MaxDuration: models.IntPtr(4)})
	assert.Equal(t, []string{"short", "one-way"}, ids(got))
}

func TestTruncate(t *testing.T) {
	offers := []models.FlightOffer{offer("a", 1, nil, ""), offer("b", 2, nil, ""), offer("c", 3, nil, "")}
	assert.Len(t, Truncate(offers, 2), 2)
	assert.Len(t, Truncate(offers, 5), 3)
	assert.Len(t, Truncate(offers, 0), 3)
}

func TestClockMinutes(t *testing.T) {
	m, ok := clockMinutes("2025-06-01T12:30:00")
	require.True(t, ok)
	assert.Equal(t, 750, m)

	m, ok = clockMinutes("2025-06-01T07:05:00+02:00")
	require.True(t, ok)
	assert.Equal(t, 425, m)

	_, ok = clockMinutes("noon")
	assert.False(t, ok)
}
