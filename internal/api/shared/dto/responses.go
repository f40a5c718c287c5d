package dto

import (
	"github.com/agencyops/renewal-engine/internal/audit"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// NoteFeedResponse represents the notes feed of a comparison
type NoteFeedResponse struct {
	Notes []audit.FeedItem `json:"notes"`
}

// NewNoteFeedResponse wraps feed items, never returning a null list
func NewNoteFeedResponse(items []audit.FeedItem) *NoteFeedResponse {
	if items == nil {
		items = []audit.FeedItem{}
	}
	return &NoteFeedResponse{Notes: items}
}
