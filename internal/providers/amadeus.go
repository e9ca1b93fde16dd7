package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/dharmasatrya/flightchat/internal/models"
	"github.com/dharmasatrya/flightchat/pkg/currency"
)

const (
	amadeusTestURL       = "https://test.api.amadeus.com"
	amadeusProductionURL = "https://api.amadeus.com"
	amadeusMaxOffers     = 20
)

// NameResolver turns a location code into a display name.
type NameResolver interface {
	Name(code string) string
}

type AmadeusConfig struct {
	ClientID     string
	ClientSecret string
	// Environment selects the host: "production" or anything else for the test sandbox.
	Environment string
	// BaseURL overrides the environment-derived host.
	BaseURL    string
	HTTPClient *http.Client
}

func (c AmadeusConfig) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if strings.EqualFold(c.Environment, "production") {
		return amadeusProductionURL
	}
	return amadeusTestURL
}

type AmadeusClient struct {
	baseURL string
	client  *http.Client
	names   NameResolver
}

// NewAmadeusClient returns ErrNotConfigured when credentials are missing; callers use that to
// switch to synthetic offers.
func NewAmadeusClient(cfg AmadeusConfig, names NameResolver) (*AmadeusClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrNotConfigured
	}

	base := cfg.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}

	baseURL := cfg.baseURL()
	credentials := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + "/v1/security/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	// Token requests go through the same throttled transport as API calls.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := credentials.Client(ctx)
	client.Timeout = base.Timeout

	return &AmadeusClient{
		baseURL: baseURL,
		client:  client,
		names:   names,
	}, nil
}

func (c *AmadeusClient) Name() string {
	return "amadeus"
}

type amadeusOffersResponse struct {
	Data         []amadeusOffer `json:"data"`
	Dictionaries struct {
		Carriers map[string]string `json:"carriers"`
	} `json:"dictionaries"`
}

type amadeusOffer struct {
	ID                     string             `json:"id"`
	Itineraries            []amadeusItinerary `json:"itineraries"`
	Price                  amadeusPrice       `json:"price"`
	ValidatingAirlineCodes []string           `json:"validatingAirlineCodes"`
}

type amadeusItinerary struct {
	Duration string           `json:"duration"`
	Segments []amadeusSegment `json:"segments"`
}

type amadeusSegment struct {
	Departure   amadeusEndpoint `json:"departure"`
	Arrival     amadeusEndpoint `json:"arrival"`
	CarrierCode string          `json:"carrierCode"`
	Number      string          `json:"number"`
}

type amadeusEndpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

type amadeusPrice struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	GrandTotal string `json:"grandTotal"`
}

type amadeusDestinationsResponse struct {
	Data []amadeusDestination `json:"data"`
	Meta struct {
		Currency string `json:"currency"`
	} `json:"meta"`
}

type amadeusDestination struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate"`
	Price         struct {
		Total string `json:"total"`
	} `json:"price"`
}

// SearchOffers queries Flight Offers Search for a specific origin/destination pair.
func (c *AmadeusClient) SearchOffers(ctx context.Context, params models.SearchParameters, currencyCode string) ([]models.FlightOffer, error) {
	query := url.Values{}
	query.Set("originLocationCode", params.Origin)
	query.Set("destinationLocationCode", params.Destination)
	query.Set("departureDate", params.DepartureDate)
	if params.ReturnDate != "" {
		query.Set("returnDate", params.ReturnDate)
	}
	query.Set("adults", "1")
	query.Set("currencyCode", currencyCode)
	query.Set("max", strconv.Itoa(amadeusMaxOffers))
	query.Set("nonStop", strconv.FormatBool(params.DirectFlightsOnly))

	var resp amadeusOffersResponse
	if err := getJSON(ctx, c.client, c.baseURL, "/v2/shopping/flight-offers", query, &resp); err != nil {
		return nil, NewProviderError(c.Name(), err)
	}
	return c.normalizeOffers(resp), nil
}

// SearchDestinations queries Flight Inspiration Search for an open destination.
func (c *AmadeusClient) SearchDestinations(ctx context.Context, params models.SearchParameters, currencyCode string) ([]models.FlightOffer, error) {
	query := url.Values{}
	query.Set("origin", params.Origin)
	query.Set("departureDate", params.DepartureDate)
	if d := durationRange(params.MinDuration, params.MaxDuration); d != "" {
		query.Set("duration", d)
	}
	if params.MaxPrice != nil {
		query.Set("maxPrice", strconv.FormatFloat(*params.MaxPrice, 'f', 0, 64))
	}

	var resp amadeusDestinationsResponse
	if err := getJSON(ctx, c.client, c.baseURL, "/v1/shopping/flight-destinations", query, &resp); err != nil {
		return nil, NewProviderError(c.Name(), err)
	}

	code := resp.Meta.Currency
	if code == "" {
		code = currencyCode
	}
	return c.normalizeDestinations(resp.Data, params.DepartureDate, code), nil
}

func (c *AmadeusClient) normalizeOffers(resp amadeusOffersResponse) []models.FlightOffer {
	offers := make([]models.FlightOffer, 0, len(resp.Data))
	for _, o := range resp.Data {
		if len(o.Itineraries) == 0 || len(o.Itineraries[0].Segments) == 0 {
			continue
		}
		amount, ok := parseAmount(o.Price.GrandTotal, o.Price.Total)
		if !ok {
			continue
		}

		outbound := o.Itineraries[0]
		first := outbound.Segments[0]
		last := outbound.Segments[len(outbound.Segments)-1]

		offer := models.FlightOffer{
			ID:              o.ID,
			Destination:     last.Arrival.IATACode,
			DestinationName: c.names.Name(last.Arrival.IATACode),
			Price: models.Price{
				Amount:    amount,
				Currency:  o.Price.Currency,
				Formatted: currency.Format(amount, o.Price.Currency),
			},
			DepartureDate: datePart(first.Departure.At),
			Airline:       carrierName(o, resp.Dictionaries.Carriers),
			Stops:         models.IntPtr(len(outbound.Segments) - 1),
			DepartureTime: first.Departure.At,
			ArrivalTime:   last.Arrival.At,
			Duration:      formatISODuration(outbound.Duration),
		}
		if len(o.Itineraries) > 1 && len(o.Itineraries[1].Segments) > 0 {
			offer.ReturnDate = models.StringPtr(datePart(o.Itineraries[1].Segments[0].Departure.At))
		}
		offers = append(offers, offer)
	}
	return offers
}

func (c *AmadeusClient) normalizeDestinations(data []amadeusDestination, departureDate, currencyCode string) []models.FlightOffer {
	offers := make([]models.FlightOffer, 0, len(data))
	for i, d := range data {
		if d.Destination == "" {
			continue
		}
		amount, ok := parseAmount(d.Price.Total)
		if !ok {
			continue
		}
		date := d.DepartureDate
		if date == "" {
			date = departureDate
		}

		offer := models.FlightOffer{
			ID:              fmt.Sprintf("inspiration-%d", i),
			Destination:     d.Destination,
			DestinationName: c.names.Name(d.Destination),
			Price: models.Price{
				Amount:    amount,
				Currency:  currencyCode,
				Formatted: currency.Format(amount, currencyCode),
			},
			DepartureDate: date,
		}
		if d.ReturnDate != "" {
			offer.ReturnDate = models.StringPtr(d.ReturnDate)
		}
		offers = append(offers, offer)
	}
	return offers
}

// parseAmount returns the first candidate that parses as a non-negative number.
func parseAmount(candidates ...string) (float64, bool) {
	for _, s := range candidates {
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err == nil && v >= 0 {
			return v, true
		}
	}
	return 0, false
}

func carrierName(o amadeusOffer, carriers map[string]string) string {
	code := ""
	if len(o.ValidatingAirlineCodes) > 0 {
		code = o.ValidatingAirlineCodes[0]
	} else if len(o.Itineraries) > 0 && len(o.Itineraries[0].Segments) > 0 {
		code = o.Itineraries[0].Segments[0].CarrierCode
	}
	if name, ok := carriers[code]; ok && name != "" {
		return name
	}
	return code
}

func datePart(timestamp string) string {
	if len(timestamp) >= len(models.DateLayout) {
		return timestamp[:len(models.DateLayout)]
	}
	return timestamp
}

// durationRange renders the flight-destinations duration hint. A lone minimum sends nothing;
// the local trip-length filter applies it.
func durationRange(minDays, maxDays *int) string {
	switch {
	case minDays != nil && maxDays != nil:
		return fmt.Sprintf("%d,%d", *minDays, *maxDays)
	case maxDays != nil:
		return fmt.Sprintf("1,%d", *maxDays)
	}
	return ""
}

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?)?$`)

// formatISODuration renders "PT2H30M" as "2h 30m". Unparseable input is returned unchanged.
func formatISODuration(s string) string {
	matches := isoDurationRe.FindStringSubmatch(s)
	if matches == nil {
		return s
	}

	var days, hours, mins int
	if matches[1] != "" {
		days, _ = strconv.Atoi(matches[1])
	}
	if matches[2] != "" {
		hours, _ = strconv.Atoi(matches[2])
	}
	if matches[3] != "" {
		mins, _ = strconv.Atoi(matches[3])
	}
	hours += days * 24

	switch {
	case hours > 0 && mins > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	case mins > 0:
		return fmt.Sprintf("%dm", mins)
	}
	return s
}
