package filter

import (
	"sort"
	"time"

	"github.com/dharmasatrya/flightchat/internal/models"
)

const timestampLayout = "2006-01-02T15:04:05"

// Apply drops offers that violate params and returns the rest sorted by price ascending.
// Offers with equal prices keep their provider order.
func Apply(offers []models.FlightOffer, params models.SearchParameters) []models.FlightOffer {
	filtered := applyFilters(offers, params)
	sortByPrice(filtered)
	return filtered
}

// Truncate caps offers at n; n <= 0 leaves the slice unchanged.
func Truncate(offers []models.FlightOffer, n int) []models.FlightOffer {
	if n > 0 && len(offers) > n {
		return offers[:n]
	}
	return offers
}

func applyFilters(offers []models.FlightOffer, params models.SearchParameters) []models.FlightOffer {
	result := make([]models.FlightOffer, 0, len(offers))

	maxArrival := -1
	if params.MaxArrivalTime != "" {
		if m, err := parseTimeOfDay(params.MaxArrivalTime); err == nil {
			maxArrival = m
		}
	}

	for _, f := range offers {
		if matchesFilters(f, params, maxArrival) {
			result = append(result, f)
		}
	}

	return result
}

func matchesFilters(f models.FlightOffer, params models.SearchParameters, maxArrival int) bool {
	if f.Price.Amount < 0 {
		return false
	}
	if params.MaxPrice != nil && f.Price.Amount > *params.MaxPrice {
		return false
	}

	if params.DirectFlightsOnly && !f.IsDirect() {
		return false
	}

	if maxArrival >= 0 {
		if arrTime, ok := clockMinutes(f.ArrivalTime); ok && arrTime > maxArrival {
			return false
		}
	}

	if days, ok := tripDays(f); ok {
		if params.MinDuration != nil && days < *params.MinDuration {
			return false
		}
		if params.MaxDuration != nil && days > *params.MaxDuration {
			return false
		}
	}

	return true
}

func parseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// clockMinutes extracts the wall-clock minute of day from a provider timestamp, ignoring the date.
func clockMinutes(timestamp string) (int, bool) {
	if timestamp == "" {
		return 0, false
	}
	if t, err := time.Parse(timestampLayout, timestamp); err == nil {
		return t.Hour()*60 + t.Minute(), true
	}
	if t, err := time.Parse(time.RFC3339, timestamp); err == nil {
		return t.Hour()*60 + t.Minute(), true
	}
	if len(timestamp) >= 16 {
		if m, err := parseTimeOfDay(timestamp[11:16]); err == nil {
			return m, true
		}
	}
	return 0, false
}

func tripDays(f models.FlightOffer) (int, bool) {
	if f.ReturnDate == nil || f.DepartureDate == "" {
		return 0, false
	}
	dep, err := time.Parse(models.DateLayout, f.DepartureDate)
	if err != nil {
		return 0, false
	}
	ret, err := time.Parse(models.DateLayout, *f.ReturnDate)
	if err != nil {
		return 0, false
	}
	return int(ret.Sub(dep).Hours() / 24), true
}

func sortByPrice(offers []models.FlightOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Price.Amount < offers[j].Price.Amount
	})
}
