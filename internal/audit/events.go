package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/store"
)

// IngestedData is the payload of an ingested event
type IngestedData struct {
	Source          domain.RenewalSource `json:"source"`
	TransactionType string               `json:"transactionType,omitempty"`
	BatchID         string               `json:"batchId,omitempty"`
	Fingerprint     string               `json:"fingerprint,omitempty"`
}

// ComparedData is the payload of a compared event
type ComparedData struct {
	Recommendation  domain.Recommendation `json:"recommendation"`
	HasBaseline     bool                  `json:"hasBaseline"`
	MaterialChanges int                   `json:"materialChanges"`
	CriticalCount   int                   `json:"criticalCount"`
	WarningCount    int                   `json:"warningCount"`
	PipelineHalted  bool                  `json:"pipelineHalted"`
}

// NoteData is the payload of a note_posted event
type NoteData struct {
	Content string `json:"content"`
}

// DecisionData is the payload of an agent_decision event
type DecisionData struct {
	Decision   domain.Decision         `json:"decision"`
	FromStatus domain.ComparisonStatus `json:"fromStatus"`
	ToStatus   domain.ComparisonStatus `json:"toStatus"`
	Note       string                  `json:"note,omitempty"`
}

// SRMovedData is the payload of an sr_moved event
type SRMovedData struct {
	ServiceRequestID string `json:"serviceRequestId"`
	Subject          string `json:"subject"`
	Queue            string `json:"queue,omitempty"`
	Attempts         int    `json:"attempts"`
}

// PropertyVerifiedData is the payload of a property_verified event
type PropertyVerifiedData struct {
	PropertyLookupID string                     `json:"propertyLookupId"`
	Sources          domain.VerificationSources `json:"sources"`
	CheckCount       int                        `json:"checkCount"`
}

// CheckReviewedData is the payload of a check_reviewed event
type CheckReviewedData struct {
	RuleID   string `json:"ruleId"`
	Reviewed bool   `json:"reviewed"`
}

// NewEvent builds an audit event input with a JSON payload
func NewEvent(eventType domain.AuditEventType, data interface{}, performedBy string, at time.Time) (store.AuditEventInput, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return store.AuditEventInput{}, fmt.Errorf("failed to marshal %s event data: %w", eventType, err)
	}
	if performedBy == "" {
		performedBy = domain.SYSTEM_ACTOR
	}
	return store.AuditEventInput{
		EventType:   eventType,
		EventData:   raw,
		PerformedBy: performedBy,
		PerformedAt: at,
	}, nil
}

// Payloads are flat structs of strings, numbers and bools so marshalling cannot fail
func mustEvent(eventType domain.AuditEventType, data interface{}, performedBy string, at time.Time) store.AuditEventInput {
	ev, err := NewEvent(eventType, data, performedBy, at)
	if err != nil {
		panic(err)
	}
	return ev
}

// Ingested records that a renewal transaction produced or upgraded a comparison
func Ingested(data IngestedData, at time.Time) store.AuditEventInput {
	return mustEvent(domain.AuditEventIngested, data, domain.SYSTEM_ACTOR, at)
}

// Compared records the engine outcome
func Compared(data ComparedData, at time.Time) store.AuditEventInput {
	return mustEvent(domain.AuditEventCompared, data, domain.SYSTEM_ACTOR, at)
}

// NotePosted records a free-text note
func NotePosted(content, author string, at time.Time) store.AuditEventInput {
	return mustEvent(domain.AuditEventNotePosted, NoteData{Content: content}, author, at)
}

// AgentDecision records an agent disposition and the status move it caused
func AgentDecision(data DecisionData, agent string, at time.Time) store.AuditEventInput {
	return mustEvent(domain.AuditEventAgentDecision, data, agent, at)
}

// SRMoved records the hand-off of a service request to AgencyZoom
func SRMoved(data SRMovedData, at time.Time) store.AuditEventInput {
	return mustEvent(domain.AuditEventSRMoved, data, domain.SYSTEM_ACTOR, at)
}

// PropertyVerified records a completed property verification
func PropertyVerified(data PropertyVerifiedData, at time.Time) store.AuditEventInput {
	return mustEvent(domain.AuditEventPropertyVerified, data, domain.SYSTEM_ACTOR, at)
}

// CheckReviewed records a review toggle on one check result
func CheckReviewed(data CheckReviewedData, reviewer string, at time.Time) store.AuditEventInput {
	return mustEvent(domain.AuditEventCheckReviewed, data, reviewer, at)
}
