package flights

import (
	"fmt"
	"time"

	"github.com/dharmasatrya/flightchat/internal/models"
	"github.com/dharmasatrya/flightchat/pkg/currency"
)

var syntheticDestinations = []string{"BCN", "LIS", "ROM", "PAR", "LON"}

const (
	syntheticBasePrice   = 300
	syntheticPriceStep   = 50
	syntheticAirline     = "LOT Polish Airlines"
	syntheticDuration    = "2h 30m"
	syntheticDeparture   = "10:00:00"
	syntheticArrival     = "12:30:00"
	syntheticLeadTimeDay = 7
)

// synthetic builds deterministic offers so the pipeline runs without live credentials.
// One offer per well-known destination, or only the requested one.
func (s *Service) synthetic(params models.SearchParameters, currencyCode string) []models.FlightOffer {
	codes := syntheticDestinations
	if params.HasDestination() {
		codes = []string{params.Destination}
	}

	departure, returnDate := s.syntheticDates(params)

	offers := make([]models.FlightOffer, 0, len(codes))
	for i, code := range codes {
		amount := float64(syntheticBasePrice + syntheticPriceStep*i)
		offer := models.FlightOffer{
			ID:              fmt.Sprintf("synthetic-%s-%d", code, i),
			Destination:     code,
			DestinationName: s.names.Name(code),
			Price: models.Price{
				Amount:    amount,
				Currency:  currencyCode,
				Formatted: currency.Format(amount, currencyCode),
			},
			DepartureDate: departure,
			Airline:       syntheticAirline,
			Stops:         models.IntPtr(0),
			DepartureTime: departure + "T" + syntheticDeparture,
			ArrivalTime:   departure + "T" + syntheticArrival,
			Duration:      syntheticDuration,
		}
		if returnDate != "" {
			offer.ReturnDate = models.StringPtr(returnDate)
		}
		offers = append(offers, offer)
	}
	return offers
}

// syntheticDates keeps the requested dates when the departure is after today (UTC). Otherwise
// the trip is moved to a week from now with the same length.
func (s *Service) syntheticDates(params models.SearchParameters) (string, string) {
	today := truncateDay(s.now())
	fallback := today.AddDate(0, 0, syntheticLeadTimeDay)

	departure, err := time.Parse(models.DateLayout, params.DepartureDate)
	if err != nil {
		return fallback.Format(models.DateLayout), ""
	}

	var tripLength time.Duration
	hasReturn := false
	if params.ReturnDate != "" {
		if ret, err := time.Parse(models.DateLayout, params.ReturnDate); err == nil && !ret.Before(departure) {
			tripLength = ret.Sub(departure)
			hasReturn = true
		}
	}

	if !departure.After(today) {
		departure = fallback
	}

	if !hasReturn {
		return departure.Format(models.DateLayout), ""
	}
	return departure.Format(models.DateLayout), departure.Add(tripLength).Format(models.DateLayout)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
