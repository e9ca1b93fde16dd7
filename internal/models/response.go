package models

type DestinationsResponse struct {
	Destinations []EnrichedDestination `json:"destinations"`
	Message      string                `json:"message,omitempty"`
}

type LocationResponse struct {
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Resolvable  bool        `json:"resolvable"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
