package nearmap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/ratelimit"
)

// PROVIDER_NAME keys the Nearmap rate limit
const PROVIDER_NAME = "nearmap"

// minConfidence is the confidence above which a detected feature counts as present
const minConfidence = 0.5

// Feature is an AI-detected feature at the point
type Feature struct {
	ClassID     string  `json:"classId"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// Features is the Nearmap AI feature payload for a point
type Features struct {
	SurveyDate         string    `json:"surveyDate,omitempty"`
	RoofConditionScore *float64  `json:"roofConditionScore,omitempty"`
	Features           []Feature `json:"features"`
}

// Detected reports whether a feature whose description contains term was detected with enough confidence
func (f *Features) Detected(term string) bool {
	if f == nil {
		return false
	}
	term = strings.ToLower(term)
	for _, feature := range f.Features {
		if feature.Confidence >= minConfidence && strings.Contains(strings.ToLower(feature.Description), term) {
			return true
		}
	}
	return false
}

// Client defines the interface for Nearmap AI operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/nearmap_client.go -package=mocks -mock_names=Client=MockNearmapClient
type Client interface {
	// FeaturesAt returns the AI features at a point, or nil when the point has no coverage
	FeaturesAt(ctx context.Context, point domain.GeoPoint) (*Features, error)
}

// NearmapClient implements Client against the Nearmap AI feature API
type NearmapClient struct {
	httpClient adapter.HTTPClient
	limiter    ratelimit.Limiter
	baseURL    string
	apiKey     string
}

// NewClient creates a new Nearmap client
func NewClient(httpClient adapter.HTTPClient, limiter ratelimit.Limiter, baseURL, apiKey string) Client {
	return &NearmapClient{
		httpClient: httpClient,
		limiter:    limiter,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// FeaturesAt fetches AI features at a coordinate
func (c *NearmapClient) FeaturesAt(ctx context.Context, point domain.GeoPoint) (*Features, error) {
	endpoint := fmt.Sprintf("%s/ai/features/v4/coverage.json?point=%s,%s&apikey=%s",
		c.baseURL,
		strconv.FormatFloat(point.Lng, 'f', 6, 64),
		strconv.FormatFloat(point.Lat, 'f', 6, 64),
		c.apiKey,
	)

	features, err := ratelimit.Do(ctx, c.limiter, PROVIDER_NAME, func(ctx context.Context) (*Features, error) {
		var f Features
		if err := c.httpClient.GetJSON(ctx, endpoint, nil, &f); err != nil {
			return nil, err
		}
		return &f, nil
	})
	if err != nil {
		var statusErr *adapter.HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to call Nearmap: %w", err)
	}
	return features, nil
}
