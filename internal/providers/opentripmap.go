package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/dharmasatrya/flightchat/internal/models"
)

const (
	openTripMapURL    = "https://api.opentripmap.com/0.1/en/places"
	openTripMapRadius = 5000
	openTripMapLimit  = 20
	openTripMapKinds  = "interesting_places,museums,architecture,historic,monuments,natural"
)

type OpenTripMapConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type OpenTripMapClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewOpenTripMapClient(cfg OpenTripMapConfig) (*OpenTripMapClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = openTripMapURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenTripMapClient{apiKey: cfg.APIKey, baseURL: baseURL, client: client}, nil
}

func (c *OpenTripMapClient) Name() string {
	return "opentripmap"
}

// Rating accepts both the numeric rate and the "3h" form OpenTripMap uses for heritage places.
type Rating float64

func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*r = Rating(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	str = strings.TrimRightFunc(str, unicode.IsLetter)
	if str == "" {
		return nil
	}
	num, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return nil
	}
	*r = Rating(num)
	return nil
}

// Place is an entry of a radius search.
type Place struct {
	XID   string `json:"xid"`
	Name  string `json:"name"`
	Kinds string `json:"kinds"`
	Point struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"point"`
	Rate *Rating `json:"rate"`
}

// PlaceDetails is the subset of /xid/{xid} used for enrichment.
type PlaceDetails struct {
	XID               string `json:"xid"`
	Name              string `json:"name"`
	Wikipedia         string `json:"wikipedia"`
	WikipediaExtracts *struct {
		Text string `json:"text"`
	} `json:"wikipedia_extracts"`
	Info *struct {
		Descr string `json:"descr"`
	} `json:"info"`
	Preview *struct {
		Source string `json:"source"`
	} `json:"preview"`
}

func (d PlaceDetails) Description() string {
	if d.WikipediaExtracts != nil && d.WikipediaExtracts.Text != "" {
		return d.WikipediaExtracts.Text
	}
	if d.Info != nil {
		return d.Info.Descr
	}
	return ""
}

func (d PlaceDetails) Image() string {
	if d.Preview != nil {
		return d.Preview.Source
	}
	return ""
}

// Radius lists rated places within 5 km of coords.
func (c *OpenTripMapClient) Radius(ctx context.Context, coords models.Coordinates) ([]Place, error) {
	query := url.Values{}
	query.Set("apikey", c.apiKey)
	query.Set("radius", strconv.Itoa(openTripMapRadius))
	query.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	query.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	query.Set("rate", "2")
	query.Set("kinds", openTripMapKinds)
	query.Set("limit", strconv.Itoa(openTripMapLimit))
	query.Set("format", "json")

	var places []Place
	if err := getJSON(ctx, c.client, c.baseURL, "/radius", query, &places); err != nil {
		return nil, NewProviderError(c.Name(), err)
	}
	return places, nil
}

func (c *OpenTripMapClient) Details(ctx context.Context, xid string) (*PlaceDetails, error) {
	query := url.Values{}
	query.Set("apikey", c.apiKey)

	var details PlaceDetails
	if err := getJSON(ctx, c.client, c.baseURL, "/xid/"+url.PathEscape(xid), query, &details); err != nil {
		return nil, NewProviderError(c.Name(), err)
	}
	return &details, nil
}
