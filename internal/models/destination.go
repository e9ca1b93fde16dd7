package models

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsZero reports the "unresolvable" sentinel returned for unknown location codes.
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lon == 0
}

type WeatherSnapshot struct {
	Destination    string `json:"destination"`
	Date           string `json:"date"`
	TemperatureAvg int    `json:"temperatureAvg"`
	TemperatureMin int    `json:"temperatureMin"`
	TemperatureMax int    `json:"temperatureMax"`
	Description    string `json:"description"`
	Icon           string `json:"icon"`
}

type Attraction struct {
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	Category     string      `json:"category"`
	Coordinates  Coordinates `json:"coordinates"`
	WikipediaURL string      `json:"wikipediaUrl,omitempty"`
	Image        string      `json:"image,omitempty"`
	Rating       *float64    `json:"rating,omitempty"`
}

type TransportOption struct {
	Type           string `json:"type"`
	Price          string `json:"price"`
	Duration       string `json:"duration"`
	Frequency      string `json:"frequency,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
}

type AirportTransportInfo struct {
	AirportCode string            `json:"airportCode"`
	AirportName string            `json:"airportName"`
	Options     []TransportOption `json:"options"`
}

// EnrichedDestination is one flight plus everything fetched about where it lands.
// Weather and Transport are nil when unavailable; Attractions is never nil.
type EnrichedDestination struct {
	Destination        string                `json:"destination"`
	DestinationName    string                `json:"destinationName"`
	Flight             FlightOffer           `json:"flight"`
	Attractions        []Attraction          `json:"attractions"`
	Weather            *WeatherSnapshot      `json:"weather"`
	Transport          *AirportTransportInfo `json:"transport"`
	TotalEstimatedCost float64               `json:"totalEstimatedCost"`
}
