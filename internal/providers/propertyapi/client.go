package propertyapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/ratelimit"
)

// PROVIDER_NAME keys the PropertyAPI rate limit
const PROVIDER_NAME = "propertyapi"

// Sale is a recorded deed transfer
type Sale struct {
	Date  string   `json:"date,omitempty"`
	Price *float64 `json:"price,omitempty"`
}

// Parcel is the public record of a parcel
type Parcel struct {
	ParcelID   string   `json:"parcelId,omitempty"`
	YearBuilt  *int     `json:"yearBuilt,omitempty"`
	LivingArea *int     `json:"livingArea,omitempty"`
	Stories    *int     `json:"stories,omitempty"`
	Bedrooms   *int     `json:"bedrooms,omitempty"`
	Bathrooms  *float64 `json:"bathrooms,omitempty"`
	HasPool    *bool    `json:"hasPool,omitempty"`
	LastSale   *Sale    `json:"lastSale,omitempty"`
}

type parcelsResponse struct {
	Parcels []Parcel `json:"parcels"`
}

// Client defines the interface for PropertyAPI client operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/propertyapi_client.go -package=mocks -mock_names=Client=MockPropertyAPIClient
type Client interface {
	// LookupParcel returns the parcel at an address, or nil when none is recorded
	LookupParcel(ctx context.Context, address string) (*Parcel, error)
}

// PropertyAPIClient implements Client against the PropertyAPI REST API
type PropertyAPIClient struct {
	httpClient adapter.HTTPClient
	limiter    ratelimit.Limiter
	baseURL    string
	apiKey     string
}

// NewClient creates a new PropertyAPI client
func NewClient(httpClient adapter.HTTPClient, limiter ratelimit.Limiter, baseURL, apiKey string) Client {
	return &PropertyAPIClient{
		httpClient: httpClient,
		limiter:    limiter,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// LookupParcel searches parcels by address
func (c *PropertyAPIClient) LookupParcel(ctx context.Context, address string) (*Parcel, error) {
	endpoint := fmt.Sprintf("%s/v1/parcels?address=%s", c.baseURL, url.QueryEscape(address))
	headers := map[string]string{"X-Api-Key": c.apiKey}

	resp, err := ratelimit.Do(ctx, c.limiter, PROVIDER_NAME, func(ctx context.Context) (*parcelsResponse, error) {
		var r parcelsResponse
		if err := c.httpClient.GetJSON(ctx, endpoint, headers, &r); err != nil {
			return nil, err
		}
		return &r, nil
	})
	if err != nil {
		var statusErr *adapter.HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to call PropertyAPI: %w", err)
	}

	if len(resp.Parcels) == 0 {
		return nil, nil
	}
	return &resp.Parcels[0], nil
}
