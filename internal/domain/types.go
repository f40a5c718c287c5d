package domain

// LineOfBusiness represents the normalized line of business of a policy
type LineOfBusiness string

const (
	LineOfBusinessPersonalAuto LineOfBusiness = "personal_auto"
	LineOfBusinessHomeowners   LineOfBusiness = "homeowners"
	LineOfBusinessDwellingFire LineOfBusiness = "dwelling_fire"
	LineOfBusinessCondo        LineOfBusiness = "condo"
	LineOfBusinessRenters      LineOfBusiness = "renters"
	LineOfBusinessUmbrella     LineOfBusiness = "umbrella"
	LineOfBusinessCommercial   LineOfBusiness = "commercial"
	LineOfBusinessOther        LineOfBusiness = "other"
)

// IsValidLineOfBusiness checks if a line of business is known
func IsValidLineOfBusiness(lob LineOfBusiness) bool {
	switch lob {
	case LineOfBusinessPersonalAuto,
		LineOfBusinessHomeowners,
		LineOfBusinessDwellingFire,
		LineOfBusinessCondo,
		LineOfBusinessRenters,
		LineOfBusinessUmbrella,
		LineOfBusinessCommercial,
		LineOfBusinessOther:
		return true
	}
	return false
}

// IsPropertyLine reports whether the line insures a dwelling and carries a property context
func (l LineOfBusiness) IsPropertyLine() bool {
	return l == LineOfBusinessHomeowners || l == LineOfBusinessDwellingFire || l == LineOfBusinessCondo
}

// ComparisonStatus represents the lifecycle state of a renewal comparison
type ComparisonStatus string

const (
	// StatusPendingManualRenewal is a placeholder created by the non-AL3 renewal detector
	StatusPendingManualRenewal ComparisonStatus = "pending_manual_renewal"
	// StatusWaitingAgentReview is an engine-populated comparison awaiting an agent
	StatusWaitingAgentReview ComparisonStatus = "waiting_agent_review"
	// StatusAgentReviewed means an agent looked at it and is following up with the customer
	StatusAgentReviewed ComparisonStatus = "agent_reviewed"
	// StatusRequoteRequested means the agent asked for the policy to be re-shopped
	StatusRequoteRequested ComparisonStatus = "requote_requested"
	// StatusCompleted means the renewal was accepted as is
	StatusCompleted ComparisonStatus = "completed"
	// StatusCancelled means the policy will not be renewed through the agency
	StatusCancelled ComparisonStatus = "cancelled"
)

// IsValidComparisonStatus checks if a status is known
func IsValidComparisonStatus(s ComparisonStatus) bool {
	switch s {
	case StatusPendingManualRenewal,
		StatusWaitingAgentReview,
		StatusAgentReviewed,
		StatusRequoteRequested,
		StatusCompleted,
		StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed
func (s ComparisonStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// RenewalSource identifies how a comparison entered the system
type RenewalSource string

const (
	RenewalSourceAL3             RenewalSource = "al3"
	RenewalSourceManual          RenewalSource = "manual"
	RenewalSourceCarrierDownload RenewalSource = "carrier_download"
)

// Decision is an agent's disposition of a renewal
type Decision string

const (
	DecisionRenewAsIs       Decision = "renew_as_is"
	DecisionRequote         Decision = "requote"
	DecisionContactCustomer Decision = "contact_customer"
	DecisionNonRenew        Decision = "non_renew"
)

// TargetStatus returns the status an agent decision moves a comparison to
func (d Decision) TargetStatus() (ComparisonStatus, bool) {
	switch d {
	case DecisionRenewAsIs:
		return StatusCompleted, true
	case DecisionRequote:
		return StatusRequoteRequested, true
	case DecisionContactCustomer:
		return StatusAgentReviewed, true
	case DecisionNonRenew:
		return StatusCancelled, true
	}
	return "", false
}

// Recommendation is the coarse label derived from the worst check severity
type Recommendation string

const (
	RecommendationAccept   Recommendation = "accept"
	RecommendationReview   Recommendation = "review"
	RecommendationEscalate Recommendation = "escalate"
)

// AuditEventType represents the type of an audit log entry
type AuditEventType string

const (
	AuditEventIngested         AuditEventType = "ingested"
	AuditEventCompared         AuditEventType = "compared"
	AuditEventNotePosted       AuditEventType = "note_posted"
	AuditEventAgentDecision    AuditEventType = "agent_decision"
	AuditEventSRMoved          AuditEventType = "sr_moved"
	AuditEventPropertyVerified AuditEventType = "property_verified"
	AuditEventCheckReviewed    AuditEventType = "check_reviewed"
)
