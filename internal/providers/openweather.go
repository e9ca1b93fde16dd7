package providers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dharmasatrya/flightchat/internal/models"
)

const (
	openWeatherURL       = "https://api.openweathermap.org"
	openWeatherMaxDays   = 16
	openWeatherDailyPath = "/data/2.5/forecast/daily"
)

type OpenWeatherConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// OpenWeatherClient reads the daily forecast endpoint.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewOpenWeatherClient(cfg OpenWeatherConfig) (*OpenWeatherClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = openWeatherURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenWeatherClient{apiKey: cfg.APIKey, baseURL: baseURL, client: client}, nil
}

func (c *OpenWeatherClient) Name() string {
	return "openweather"
}

// DailyForecast is one element of the daily forecast list. UTCOffset is the location's shift
// from UTC in seconds, copied from the response's city block.
type DailyForecast struct {
	Timestamp int64       `json:"dt"`
	Temp      Temperature `json:"temp"`
	Weather   []Condition `json:"weather"`
	UTCOffset int         `json:"-"`
}

// LocalDate is the forecast day as YYYY-MM-DD in the location's own time zone.
func (d DailyForecast) LocalDate() string {
	return time.Unix(d.Timestamp+int64(d.UTCOffset), 0).UTC().Format(models.DateLayout)
}

type Temperature struct {
	Day float64 `json:"day"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Condition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type dailyForecastResponse struct {
	City struct {
		Timezone int `json:"timezone"`
	} `json:"city"`
	List []DailyForecast `json:"list"`
}

// Daily returns up to 16 days of forecast at coords, metric units.
func (c *OpenWeatherClient) Daily(ctx context.Context, coords models.Coordinates) ([]DailyForecast, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	query.Set("cnt", strconv.Itoa(openWeatherMaxDays))
	query.Set("units", "metric")
	query.Set("appid", c.apiKey)

	var resp dailyForecastResponse
	if err := getJSON(ctx, c.client, c.baseURL, openWeatherDailyPath, query, &resp); err != nil {
		return nil, NewProviderError(c.Name(), err)
	}
	for i := range resp.List {
		resp.List[i].UTCOffset = resp.City.Timezone
	}
	return resp.List, nil
}
