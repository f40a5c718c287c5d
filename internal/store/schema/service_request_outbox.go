package schema

import (
	"time"

	"gorm.io/datatypes"
)

// OutboxStatus is the delivery status of a service request
type OutboxStatus string

const (
	// OutboxStatusPending is waiting for (re)delivery
	OutboxStatusPending OutboxStatus = "pending"
	// OutboxStatusDelivered was published to the bridge
	OutboxStatusDelivered OutboxStatus = "delivered"
	// OutboxStatusFailed exhausted its attempts
	OutboxStatusFailed OutboxStatus = "failed"
)

// ServiceRequestOutbox represents the service_request_outbox table - queued service request creations
type ServiceRequestOutbox struct {
	// ID is a ULID, also used as the message id for publish deduplication
	ID string `gorm:"column:id;primaryKey;type:varchar(26)"`
	// TenantID is the agency that owns the comparison
	TenantID string `gorm:"column:tenant_id;not null"`
	// RenewalComparisonID is the comparison the request is for (unique)
	RenewalComparisonID string `gorm:"column:renewal_comparison_id;not null;type:uuid"`
	// Payload is the service request as JSON
	Payload datatypes.JSON `gorm:"column:payload;not null;type:jsonb"`
	// Status is pending, delivered or failed
	Status OutboxStatus `gorm:"column:status;not null;default:pending"`
	// Attempts is the number of publish attempts made
	Attempts int `gorm:"column:attempts;not null;default:0"`
	// LastError is the error of the most recent failed attempt
	LastError string `gorm:"column:last_error;not null;default:''"`
	// NextAttemptAt is when the row becomes due again
	NextAttemptAt time.Time `gorm:"column:next_attempt_at;not null;default:now();type:timestamptz"`
	// DeliveredAt is when the request was published
	DeliveredAt *time.Time `gorm:"column:delivered_at;type:timestamptz"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ServiceRequestOutbox model
func (ServiceRequestOutbox) TableName() string {
	return "service_request_outbox"
}
