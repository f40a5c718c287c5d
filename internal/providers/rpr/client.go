package rpr

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

// PROVIDER_NAME keys the RPR rate limit
const PROVIDER_NAME = "rpr"

// Property is the RPR property summary for an address
type Property struct {
	PropertyID    string   `json:"propertyId,omitempty"`
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *float64 `json:"bathrooms,omitempty"`
	SquareFeet    *int     `json:"sqft,omitempty"`
	YearBuilt     *int     `json:"yearBuilt,omitempty"`
	Stories       *int     `json:"stories,omitempty"`
	CurrentStatus string   `json:"currentStatus,omitempty"`
	LastSaleDate  string   `json:"lastSaleDate,omitempty"`
	LastSalePrice *float64 `json:"lastSalePrice,omitempty"`
}

// searchResponse is the body of GET /properties/search
type searchResponse struct {
	Properties []Property `json:"properties"`
}

// Client defines the interface for RPR client operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/rpr_client.go -package=mocks -mock_names=Client=MockRPRClient
type Client interface {
	// LookupProperty returns the best match for an address, or nil when RPR has no record
	LookupProperty(ctx context.Context, address string) (*Property, error)
}

// RPRClient implements Client against the RPR REST API
type RPRClient struct {
	httpClient adapter.HTTPClient
	limiter    ratelimit.Limiter
	baseURL    string
	token      string
}

// NewClient creates a new RPR client
func NewClient(httpClient adapter.HTTPClient, limiter ratelimit.Limiter, baseURL, token string) Client {
	return &RPRClient{
		httpClient: httpClient,
		limiter:    limiter,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// LookupProperty searches RPR by address
func (c *RPRClient) LookupProperty(ctx context.Context, address string) (*Property, error) {
	endpoint := fmt.Sprintf("%s/properties/search?address=%s", c.baseURL, url.QueryEscape(address))
	headers := map[string]string{"Authorization": "Bearer " + c.token}

	resp, err := ratelimit.Do(ctx, c.limiter, PROVIDER_NAME, func(ctx context.Context) (*searchResponse, error) {
		var r searchResponse
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
		return nil, fmt.Errorf("failed to call RPR: %w", err)
	}

	if len(resp.Properties) == 0 {
		return nil, nil
	}
	return &resp.Properties[0], nil
}
