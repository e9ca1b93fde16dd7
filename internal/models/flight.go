package models

type Price struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted,omitempty"`
}

// FlightOffer is the provider-agnostic shape every flight source is normalized into.
// Timestamps are local wall-clock values in the provider's "2006-01-02T15:04:05" form.
type FlightOffer struct {
	ID              string  `json:"id"`
	Destination     string  `json:"destination"`
	DestinationName string  `json:"destinationName"`
	Price           Price   `json:"price"`
	DepartureDate   string  `json:"departureDate"`
	ReturnDate      *string `json:"returnDate,omitempty"`
	Airline         string  `json:"airline,omitempty"`
	Stops           *int    `json:"stops,omitempty"`
	DepartureTime   string  `json:"departureTime,omitempty"`
	ArrivalTime     string  `json:"arrivalTime,omitempty"`
	Duration        string  `json:"duration,omitempty"`
}

func (f FlightOffer) IsDirect() bool {
	return f.Stops != nil && *f.Stops == 0
}

func IntPtr(v int) *int {
	return &v
}

func StringPtr(v string) *string {
	return &v
}
