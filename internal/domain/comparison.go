package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PremiumDelta holds the derived financial fields of a comparison
type PremiumDelta struct {
	CurrentPremium       decimal.NullDecimal `json:"currentPremium"`
	RenewalPremium       decimal.NullDecimal `json:"renewalPremium"`
	PremiumChangeAmount  decimal.NullDecimal `json:"premiumChangeAmount"`
	PremiumChangePercent decimal.NullDecimal `json:"premiumChangePercent"`
}

// RenewalComparison is the aggregate root of the renewal review workflow
type RenewalComparison struct {
	// Financial fields are derived by the comparison engine and never set independently
	PremiumDelta

	ID                   string                `json:"id"`
	TenantID             string                `json:"tenantId"`
	PolicyNumber         string                `json:"policyNumber"`
	CarrierName          string                `json:"carrierName"`
	LineOfBusiness       LineOfBusiness        `json:"lineOfBusiness,omitempty"`
	RenewalEffectiveDate Date                  `json:"renewalEffectiveDate"`
	CustomerID           *string               `json:"customerId"`
	PolicyID             *string               `json:"policyId"`
	AssignedAgentID      *string               `json:"assignedAgentId"`
	BaselineSnapshot     *PolicySnapshot       `json:"baselineSnapshot"`
	RenewalSnapshot      *PolicySnapshot       `json:"renewalSnapshot"`
	RenewalFingerprint   string                `json:"renewalFingerprint,omitempty"`
	MaterialChanges      []string              `json:"materialChanges"`
	CheckResults         []CheckResult         `json:"checkResults"`
	CheckSummary         CheckSummary          `json:"checkSummary"`
	Recommendation       Recommendation        `json:"recommendation,omitempty"`
	PropertyVerification *PropertyVerification `json:"propertyVerification"`
	Status               ComparisonStatus      `json:"status"`
	RenewalSource        RenewalSource         `json:"renewalSource"`
	CreatedAt            time.Time             `json:"createdAt"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}

// AuditEvent is one append-only entry of a comparison's history
type AuditEvent struct {
	ID                  int64           `json:"id"`
	TenantID            string          `json:"tenantId"`
	RenewalComparisonID string          `json:"renewalComparisonId"`
	EventType           AuditEventType  `json:"eventType"`
	EventData           json.RawMessage `json:"eventData"`
	PerformedBy         string          `json:"performedBy"`
	PerformedAt         time.Time       `json:"performedAt"`
}
