package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// Ping checks database connectivity
	Ping(ctx context.Context) error

	// FindBaselinePolicy returns the policy term a renewal replaces, or nil when no term matches
	FindBaselinePolicy(ctx context.Context, filter BaselinePolicyFilter) (*PolicyRecord, error)

	// UpsertComparisonByNaturalKey upgrades a matching placeholder in place or inserts a new comparison.
	// A row that already exists under the natural key is reported as a duplicate, not an error.
	UpsertComparisonByNaturalKey(ctx context.Context, input UpsertComparisonInput) (*UpsertComparisonResult, error)
	// GetComparison retrieves a comparison, or nil when it does not exist
	GetComparison(ctx context.Context, tenantID, comparisonID string) (*domain.RenewalComparison, error)
	// MutateComparison runs a locked read-modify-write of the comparison's mutable fields
	MutateComparison(ctx context.Context, input MutateComparisonInput) (*domain.RenewalComparison, error)

	// AppendAuditEvents appends events to a comparison's audit log
	AppendAuditEvents(ctx context.Context, tenantID, comparisonID string, events []AuditEventInput) error
	// ListAuditEvents returns a comparison's audit events ordered by performed_at then id
	ListAuditEvents(ctx context.Context, filter AuditEventFilter) ([]domain.AuditEvent, error)

	// CreateArchivedTransactions bulk-inserts archived transactions and returns the number of new rows
	CreateArchivedTransactions(ctx context.Context, rows []schema.ArchivedAL3Transaction) (int, error)

	// GetFreshPropertyLookup returns the cached lookup for an address if it has not expired, or nil
	GetFreshPropertyLookup(ctx context.Context, addressKey string, now time.Time) (*schema.PropertyLookup, error)
	// UpsertPropertyLookup writes provider payloads for an address, last write wins
	UpsertPropertyLookup(ctx context.Context, input UpsertPropertyLookupInput) (*schema.PropertyLookup, error)

	// ClaimDueServiceRequests leases up to limit pending rows whose next attempt is due
	ClaimDueServiceRequests(ctx context.Context, input ClaimServiceRequestsInput) ([]schema.ServiceRequestOutbox, error)
	// MarkServiceRequestDelivered marks a row delivered and records the sr_moved audit event
	MarkServiceRequestDelivered(ctx context.Context, input MarkServiceRequestDeliveredInput) error
	// RecordServiceRequestFailure records a failed attempt and reschedules or fails the row
	RecordServiceRequestFailure(ctx context.Context, input RecordServiceRequestFailureInput) error
}

// BaselinePolicyFilter selects the policy term a renewal replaces
type BaselinePolicyFilter struct {
	TenantID string
	// PolicyNumber must already be normalized
	PolicyNumber string
	// CarrierName matches case-insensitively when set
	CarrierName *string
	// Before restricts to terms effective strictly before this date
	Before *domain.Date
}

// PolicyRecord is a policy term with its coverages and customer
type PolicyRecord struct {
	Policy    schema.Policy
	Customer  *schema.Customer
	Coverages []schema.PolicyCoverage
}

// AuditEventInput is an audit event to append
type AuditEventInput struct {
	EventType   domain.AuditEventType
	EventData   json.RawMessage
	PerformedBy string
	PerformedAt time.Time
}

// AuditEventFilter selects audit events of a comparison
type AuditEventFilter struct {
	TenantID     string
	ComparisonID string
	// EventTypes restricts the result when non-empty
	EventTypes []domain.AuditEventType
}

// UpsertComparisonInput is a fully computed comparison plus the events recorded with it
type UpsertComparisonInput struct {
	Comparison domain.RenewalComparison
	// Events are appended in the same transaction when the write is not a duplicate
	Events []AuditEventInput
	// ServiceRequest builds the outbox row once the comparison id is known. It is called inside
	// the transaction when the write is not a duplicate; a nil result queues nothing.
	ServiceRequest func(comparisonID string) (*EnqueueServiceRequestInput, error)
}

// UpsertComparisonResult reports how the natural key was resolved
type UpsertComparisonResult struct {
	ComparisonID string
	Duplicate    bool
	Upgraded     bool
}

// MutateComparisonInput describes a locked read-modify-write
type MutateComparisonInput struct {
	TenantID     string
	ComparisonID string
	// Mutate changes the comparison in place and returns the events to append.
	// Returning an error aborts the transaction.
	Mutate func(c *domain.RenewalComparison) ([]AuditEventInput, error)
}

// UpsertPropertyLookupInput holds provider payloads for an address
type UpsertPropertyLookupInput struct {
	AddressKey      string
	Address         string
	RPRData         json.RawMessage
	PropertyAPIData json.RawMessage
	NearmapData     json.RawMessage
	Location        *domain.GeoPoint
	FetchedAt       time.Time
	ExpiresAt       time.Time
}

// EnqueueServiceRequestInput is a service request outbox row
type EnqueueServiceRequestInput struct {
	ID                  string
	TenantID            string
	RenewalComparisonID string
	Payload             json.RawMessage
	NextAttemptAt       time.Time
}

// ClaimServiceRequestsInput controls a claim of due outbox rows
type ClaimServiceRequestsInput struct {
	Limit int
	Now   time.Time
	// Lease pushes next_attempt_at forward so other dispatchers skip claimed rows
	Lease time.Duration
}

// MarkServiceRequestDeliveredInput marks an outbox row delivered
type MarkServiceRequestDeliveredInput struct {
	ID          string
	DeliveredAt time.Time
	// Event is appended to the comparison's audit log in the same transaction
	Event AuditEventInput
}

// RecordServiceRequestFailureInput records a failed attempt
type RecordServiceRequestFailureInput struct {
	ID            string
	Error         string
	NextAttemptAt time.Time
	// Terminal marks the row failed; it is not retried again
	Terminal bool
}
