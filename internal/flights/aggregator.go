package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/trippilot/backend/pkg/logger"
)

// aggregatorFlight mirrors one record from the aggregator feed. Every field
// besides the id is optional; the upstream omits whatever it has not resolved.
type aggregatorFlight struct {
	ID               string   `json:"id"`
	Callsign         *string  `json:"callsign"`
	AirlineShortName *string  `json:"airline_short_name"`
	AirlineICAO      *string  `json:"airline_icao"`
	OriginIATA       *string  `json:"origin_airport_iata"`
	DestinationIATA  *string  `json:"destination_airport_iata"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Heading          *float64 `json:"heading"`
	Altitude         *float64 `json:"altitude"`
	GroundSpeed      *float64 `json:"ground_speed"`
}

// aggregatorResponse mirrors the JSON body of the aggregator feed
type aggregatorResponse struct {
	Flights []aggregatorFlight `json:"flights"`
}

// convert maps an aggregator record onto the provider-neutral raw shape
func (af aggregatorFlight) convert() RawFlight {
	return RawFlight{
		ID:          af.ID,
		Callsign:    af.Callsign,
		AirlineName: af.AirlineShortName,
		AirlineICAO: af.AirlineICAO,
		Origin:      af.OriginIATA,
		Destination: af.DestinationIATA,
		Lat:         af.Latitude,
		Lon:         af.Longitude,
		Heading:     af.Heading,
		AltitudeFt:  af.Altitude,
		SpeedKts:    af.GroundSpeed,
	}
}

// AggregatorClient fetches rich flight records from a third-party
// aggregation feed. Records include resolved origin/destination airports,
// so HasRouteData reports true and the feed is rankable.
type AggregatorClient struct {
	apiURL     string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewAggregatorClient creates a new aggregator provider
func NewAggregatorClient(apiURL string, timeout time.Duration, logger *logger.Logger) *AggregatorClient {
	return &AggregatorClient{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("aggregator-cli"),
	}
}

// Name identifies the provider in logs
func (c *AggregatorClient) Name() string { return "aggregator" }

// HasRouteData reports that aggregator records carry resolved routes
func (c *AggregatorClient) HasRouteData() bool { return true }

// FetchStates fetches the flights currently inside the bounding box.
// The feed takes its bounds as a single "north,south,west,east" string.
func (c *AggregatorClient) FetchStates(ctx context.Context, box BoundingBox) ([]RawFlight, error) {
	reqURL := fmt.Sprintf("%s?bounds=%g,%g,%g,%g",
		c.apiURL, box.LatMax, box.LatMin, box.LonMin, box.LonMax)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching aggregator flight data", logger.String("url", reqURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var data aggregatorResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	raw := make([]RawFlight, 0, len(data.Flights))
	for _, af := range data.Flights {
		raw = append(raw, af.convert())
	}

	c.logger.Debug("Successfully fetched aggregator flight data",
		logger.Int("flight_count", len(raw)))
	return raw, nil
}
