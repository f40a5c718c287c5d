package servicerequest

import (
	"encoding/json"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/store"
)

// Bridge turns comparisons into service requests for delivery to AgencyZoom
//
//go:generate mockgen -source=bridge.go -destination=../mocks/servicerequest_bridge.go -package=mocks -mock_names=Bridge=MockBridge
type Bridge interface {
	// Prepare builds the outbox row for req. The row is written with the comparison
	// and delivered later by the dispatcher.
	Prepare(req Request) (*store.EnqueueServiceRequestInput, error)
}

type bridge struct {
	clock adapter.Clock
	queue string
}

// NewBridge creates an outbox-backed bridge. queue names the AgencyZoom pipeline stage.
func NewBridge(clock adapter.Clock, queue string) Bridge {
	return &bridge{clock: clock, queue: queue}
}

func (b *bridge) Prepare(req Request) (*store.EnqueueServiceRequestInput, error) {
	if req.TenantID == "" || req.ComparisonID == "" {
		return nil, fmt.Errorf("%w: tenant and comparison are required", domain.ErrValidation)
	}

	now := b.clock.Now().UTC()
	id := ulid.MustNewDefault(now).String()

	payload, err := json.Marshal(newPayload(id, b.queue, req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal service request: %w", err)
	}

	return &store.EnqueueServiceRequestInput{
		ID:                  id,
		TenantID:            req.TenantID,
		RenewalComparisonID: req.ComparisonID,
		Payload:             payload,
		NextAttemptAt:       now,
	}, nil
}
