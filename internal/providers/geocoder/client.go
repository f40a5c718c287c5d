package geocoder

import (
	"context"
	"fmt"
	"net/url"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/ratelimit"
)

// PROVIDER_NAME keys the geocoder rate limit
const PROVIDER_NAME = "geocoder"

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location domain.GeoPoint `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Client defines the interface for geocoding operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/geocoder_client.go -package=mocks -mock_names=Client=MockGeocoderClient
type Client interface {
	// Geocode resolves an address to a coordinate, or nil when the address is unknown
	Geocode(ctx context.Context, address string) (*domain.GeoPoint, error)
}

// GoogleClient implements Client against a Google-style geocoding endpoint
type GoogleClient struct {
	httpClient adapter.HTTPClient
	limiter    ratelimit.Limiter
	endpoint   string
	apiKey     string
}

// NewClient creates a new geocoder client
func NewClient(httpClient adapter.HTTPClient, limiter ratelimit.Limiter, endpoint, apiKey string) Client {
	return &GoogleClient{
		httpClient: httpClient,
		limiter:    limiter,
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

// Geocode resolves an address
func (c *GoogleClient) Geocode(ctx context.Context, address string) (*domain.GeoPoint, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)
	endpoint := c.endpoint + "?" + q.Encode()

	resp, err := ratelimit.Do(ctx, c.limiter, PROVIDER_NAME, func(ctx context.Context) (*geocodeResponse, error) {
		var r geocodeResponse
		if err := c.httpClient.GetJSON(ctx, endpoint, nil, &r); err != nil {
			return nil, err
		}
		return &r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call geocoder: %w", err)
	}

	switch resp.Status {
	case statusOK:
	case statusZeroResults:
		return nil, nil
	default:
		return nil, fmt.Errorf("geocoder returned status %s: %s", resp.Status, resp.ErrorMessage)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	location := resp.Results[0].Geometry.Location
	return &location, nil
}
