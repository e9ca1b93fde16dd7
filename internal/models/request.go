package models

import (
	"strings"
	"time"
)

const (
	DateLayout        = "2006-01-02"
	DefaultMaxResults = 5
)

type SearchParameters struct {
	Origin            string   `json:"origin"`
	Destination       string   `json:"destination,omitempty"`
	DepartureDate     string   `json:"departureDate"`
	ReturnDate        string   `json:"returnDate,omitempty"`
	MaxPrice          *float64 `json:"maxPrice,omitempty"`
	MaxArrivalTime    string   `json:"maxArrivalTime,omitempty"`
	MinDuration       *int     `json:"minDuration,omitempty"`
	MaxDuration       *int     `json:"maxDuration,omitempty"`
	Currency          string   `json:"currency,omitempty"`
	DirectFlightsOnly bool     `json:"directFlightsOnly,omitempty"`
	Preferences       string   `json:"preferences,omitempty"`
	MaxResults        int      `json:"maxResults,omitempty"`
}

// HasDestination reports whether a specific destination was requested.
// "anywhere" is what the extraction step emits for open searches.
func (p SearchParameters) HasDestination() bool {
	return p.Destination != "" && !strings.EqualFold(p.Destination, "anywhere")
}

// Validate normalizes codes and fills defaults. It is the upstream guarantee that origin and
// departure date are present before the aggregator runs.
func (p *SearchParameters) Validate() error {
	p.Origin = strings.ToUpper(strings.TrimSpace(p.Origin))
	p.Destination = strings.ToUpper(strings.TrimSpace(p.Destination))
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if !p.HasDestination() {
		p.Destination = ""
	}

	if p.Origin == "" {
		return ErrMissingOrigin
	}
	if p.DepartureDate == "" {
		return ErrMissingDepartureDate
	}
	departure, err := time.Parse(DateLayout, p.DepartureDate)
	if err != nil {
		return ErrInvalidDepartureDate
	}
	if p.ReturnDate != "" {
		ret, err := time.Parse(DateLayout, p.ReturnDate)
		if err != nil {
			return ErrInvalidReturnDate
		}
		if ret.Before(departure) {
			return ErrReturnBeforeDeparture
		}
	}
	if p.MaxPrice != nil && *p.MaxPrice <= 0 {
		return ErrInvalidMaxPrice
	}
	if p.MaxArrivalTime != "" {
		if _, err := time.Parse("15:04", p.MaxArrivalTime); err != nil {
			return ErrInvalidArrivalTime
		}
	}
	if (p.MinDuration != nil && *p.MinDuration < 0) || (p.MaxDuration != nil && *p.MaxDuration < 0) {
		return ErrInvalidDuration
	}
	if p.MinDuration != nil && p.MaxDuration != nil && *p.MinDuration > *p.MaxDuration {
		return ErrInvalidDuration
	}
	if p.MaxResults < 0 {
		return ErrInvalidMaxResults
	}
	if p.MaxResults == 0 {
		p.MaxResults = DefaultMaxResults
	}
	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin         ValidationError = "origin is required"
	ErrMissingDepartureDate  ValidationError = "departureDate is required"
	ErrInvalidDepartureDate  ValidationError = "departureDate must be YYYY-MM-DD"
	ErrInvalidReturnDate     ValidationError = "returnDate must be YYYY-MM-DD"
	ErrReturnBeforeDeparture ValidationError = "returnDate must not be before departureDate"
	ErrInvalidMaxPrice       ValidationError = "maxPrice must be positive"
	ErrInvalidArrivalTime    ValidationError = "maxArrivalTime must be HH:MM"
	ErrInvalidDuration       ValidationError = "minDuration and maxDuration must be non-negative and ordered"
	ErrInvalidMaxResults     ValidationError = "maxResults must not be negative"
)
