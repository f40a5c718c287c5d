package schema

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// RenewalComparison represents the renewal_comparisons table - one row per renewal under review
type RenewalComparison struct {
	// ID is the comparison identifier (UUID), stable across placeholder upgrades
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// TenantID is the agency that owns the renewal
	TenantID string `gorm:"column:tenant_id;not null"`
	// PolicyNumber is the normalized policy number
	PolicyNumber string `gorm:"column:policy_number;not null"`
	// CarrierName is the carrier as reported by the ingesting source
	CarrierName string `gorm:"column:carrier_name;not null"`
	// LineOfBusiness is the normalized line of business
	LineOfBusiness string `gorm:"column:line_of_business;not null;default:''"`
	// RenewalEffectiveDate is the first day of the renewal term
	RenewalEffectiveDate time.Time `gorm:"column:renewal_effective_date;not null;type:date"`
	// CustomerID references the local customer record, resolved best-effort
	CustomerID *string `gorm:"column:customer_id;type:uuid"`
	// PolicyID references the local policy record the baseline was built from
	PolicyID *string `gorm:"column:policy_id;type:uuid"`
	// AssignedAgentID is the agent responsible for the review
	AssignedAgentID *string `gorm:"column:assigned_agent_id"`
	// CurrentPremium is the baseline premium, null when there is no baseline
	CurrentPremium decimal.NullDecimal `gorm:"column:current_premium;type:numeric(12,2)"`
	// RenewalPremium is the premium offered for the renewal term
	RenewalPremium decimal.NullDecimal `gorm:"column:renewal_premium;type:numeric(12,2)"`
	// PremiumChangeAmount is renewal minus current premium
	PremiumChangeAmount decimal.NullDecimal `gorm:"column:premium_change_amount;type:numeric(12,2)"`
	// PremiumChangePercent is the change relative to the current premium, null when undefined
	PremiumChangePercent decimal.NullDecimal `gorm:"column:premium_change_percent;type:numeric(9,2)"`
	// BaselineSnapshot is the JSON policy snapshot before renewal ('null' when absent)
	BaselineSnapshot datatypes.JSON `gorm:"column:baseline_snapshot;not null;type:jsonb"`
	// RenewalSnapshot is the JSON policy snapshot proposed by the carrier
	RenewalSnapshot datatypes.JSON `gorm:"column:renewal_snapshot;not null;type:jsonb"`
	// RenewalFingerprint is the SHA-256 of the canonical renewal snapshot
	RenewalFingerprint string `gorm:"column:renewal_fingerprint;not null;default:''"`
	// MaterialChanges is the JSON array of human readable change descriptions
	MaterialChanges datatypes.JSON `gorm:"column:material_changes;not null;type:jsonb"`
	// CheckResults is the JSON array of graded check results
	CheckResults datatypes.JSON `gorm:"column:check_results;not null;type:jsonb"`
	// CheckSummary is the JSON aggregate derived from CheckResults
	CheckSummary datatypes.JSON `gorm:"column:check_summary;not null;type:jsonb"`
	// Recommendation is accept, review or escalate
	Recommendation string `gorm:"column:recommendation;not null;default:''"`
	// PropertyVerification is the cached verification envelope ('null' until verified)
	PropertyVerification datatypes.JSON `gorm:"column:property_verification;not null;type:jsonb"`
	// Status is the lifecycle state
	Status string `gorm:"column:status;not null"`
	// RenewalSource is the ingestion origin (al3, manual, carrier_download)
	RenewalSource string `gorm:"column:renewal_source;not null"`
	// CreatedAt is the timestamp when the row was first written
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp of the last write
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the RenewalComparison model
func (RenewalComparison) TableName() string {
	return "renewal_comparisons"
}
