package schema

import (
	"time"

	"gorm.io/datatypes"
)

// RenewalAuditLog represents the renewal_audit_log table - append-only history of a comparison
type RenewalAuditLog struct {
	// ID is an auto-incrementing sequence number
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TenantID is the agency that owns the comparison
	TenantID string `gorm:"column:tenant_id;not null"`
	// RenewalComparisonID is the comparison the event belongs to
	RenewalComparisonID string `gorm:"column:renewal_comparison_id;not null;type:uuid"`
	// EventType is the kind of event (ingested, compared, note_posted, ...)
	EventType string `gorm:"column:event_type;not null"`
	// EventData is the event payload as JSON
	EventData datatypes.JSON `gorm:"column:event_data;not null;type:jsonb"`
	// PerformedBy is the user id, or "system" for engine events
	PerformedBy string `gorm:"column:performed_by;not null"`
	// PerformedAt is the timestamp of the event
	PerformedAt time.Time `gorm:"column:performed_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the RenewalAuditLog model
func (RenewalAuditLog) TableName() string {
	return "renewal_audit_log"
}
