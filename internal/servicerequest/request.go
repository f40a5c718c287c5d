package servicerequest

import (
	"fmt"
	"strings"

	"github.com/agencyops/renewal-engine/internal/domain"
)

// SUBJECT_SUFFIX is appended to the NATS subject prefix to form the publish subject
const SUBJECT_SUFFIX = "service_requests.create"

// Priority of a service request on the AgencyZoom side
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Subject returns the publish subject for a prefix, e.g. "renewals.service_requests.create"
func Subject(prefix string) string {
	prefix = strings.TrimSuffix(prefix, ".")
	if prefix == "" {
		return SUBJECT_SUFFIX
	}
	return prefix + "." + SUBJECT_SUFFIX
}

// Request is a service request to open for a renewal comparison
type Request struct {
	TenantID             string
	ComparisonID         string
	PolicyNumber         string
	CarrierName          string
	RenewalEffectiveDate domain.Date
	CustomerID           *string
	AssignedAgentID      *string
	Recommendation       domain.Recommendation
	MaterialChanges      []string
	CheckSummary         domain.CheckSummary
}

// RequestFromComparison builds the service request for a persisted comparison
func RequestFromComparison(c *domain.RenewalComparison) Request {
	return Request{
		TenantID:             c.TenantID,
		ComparisonID:         c.ID,
		PolicyNumber:         c.PolicyNumber,
		CarrierName:          c.CarrierName,
		RenewalEffectiveDate: c.RenewalEffectiveDate,
		CustomerID:           c.CustomerID,
		AssignedAgentID:      c.AssignedAgentID,
		Recommendation:       c.Recommendation,
		MaterialChanges:      c.MaterialChanges,
		CheckSummary:         c.CheckSummary,
	}
}

// Payload is the message published to the AgencyZoom bridge
type Payload struct {
	ServiceRequestID     string                `json:"serviceRequestId"`
	TenantID             string                `json:"tenantId"`
	RenewalComparisonID  string                `json:"renewalComparisonId"`
	PolicyNumber         string                `json:"policyNumber"`
	CarrierName          string                `json:"carrierName"`
	RenewalEffectiveDate domain.Date           `json:"renewalEffectiveDate"`
	CustomerID           *string               `json:"customerId,omitempty"`
	AssignedAgentID      *string               `json:"assignedAgentId,omitempty"`
	Queue                string                `json:"queue,omitempty"`
	Title                string                `json:"title"`
	Description          string                `json:"description"`
	Priority             Priority              `json:"priority"`
	Recommendation       domain.Recommendation `json:"recommendation"`
}

// newPayload renders a request into the bridge message
func newPayload(id, queue string, r Request) Payload {
	return Payload{
		ServiceRequestID:     id,
		TenantID:             r.TenantID,
		RenewalComparisonID:  r.ComparisonID,
		PolicyNumber:         r.PolicyNumber,
		CarrierName:          r.CarrierName,
		RenewalEffectiveDate: r.RenewalEffectiveDate,
		CustomerID:           r.CustomerID,
		AssignedAgentID:      r.AssignedAgentID,
		Queue:                queue,
		Title:                fmt.Sprintf("Renewal review: %s (%s) effective %s", r.PolicyNumber, r.CarrierName, r.RenewalEffectiveDate),
		Description:          describe(r),
		Priority:             priorityFor(r.Recommendation),
		Recommendation:       r.Recommendation,
	}
}

func describe(r Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recommendation: %s\n", r.Recommendation)
	fmt.Fprintf(&b, "Checks: %d critical, %d warning, %d info\n",
		r.CheckSummary.CriticalCount, r.CheckSummary.WarningCount, r.CheckSummary.InfoCount)
	if len(r.CheckSummary.BlockerRuleIDs) > 0 {
		fmt.Fprintf(&b, "Blocked by: %s\n", strings.Join(r.CheckSummary.BlockerRuleIDs, ", "))
	}
	if len(r.MaterialChanges) == 0 {
		b.WriteString("No material coverage changes")
		return b.String()
	}
	b.WriteString("Material changes:")
	for _, change := range r.MaterialChanges {
		b.WriteString("\n- ")
		b.WriteString(change)
	}
	return b.String()
}

func priorityFor(rec domain.Recommendation) Priority {
	switch rec {
	case domain.RecommendationEscalate:
		return PriorityHigh
	case domain.RecommendationReview:
		return PriorityNormal
	default:
		return PriorityLow
	}
}
