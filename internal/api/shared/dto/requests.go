package dto

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agencyops/renewal-engine/internal/al3"
	"github.com/agencyops/renewal-engine/internal/api/shared/constants"
	apierrors "github.com/agencyops/renewal-engine/internal/api/shared/errors"
	"github.com/agencyops/renewal-engine/internal/audit"
	"github.com/agencyops/renewal-engine/internal/domain"
)

// BuildBaselineRequest represents the request body for building a baseline snapshot
type BuildBaselineRequest struct {
	PolicyNumber         string       `json:"policyNumber"`
	CarrierName          *string      `json:"carrierName,omitempty"`
	RenewalEffectiveDate *domain.Date `json:"renewalEffectiveDate,omitempty"`
}

// Validate validates the request body
func (r *BuildBaselineRequest) Validate() error {
	if strings.TrimSpace(r.PolicyNumber) == "" {
		return apierrors.NewValidationError("policyNumber is required")
	}
	return nil
}

// ArchiveTransactionsRequest represents the request body for archiving AL3 transactions
type ArchiveTransactionsRequest struct {
	BatchID      string            `json:"batchId"`
	Transactions []al3.Transaction `json:"transactions"`
}

// Validate validates the request body
func (r *ArchiveTransactionsRequest) Validate() error {
	if strings.TrimSpace(r.BatchID) == "" {
		return apierrors.NewValidationError("batchId is required")
	}
	if len(r.Transactions) > constants.MAX_TRANSACTIONS_PER_REQUEST {
		return apierrors.NewValidationError(fmt.Sprintf("maximum %d transactions allowed", constants.MAX_TRANSACTIONS_PER_REQUEST))
	}
	seen := make(map[int]struct{}, len(r.Transactions))
	for _, tx := range r.Transactions {
		if strings.TrimSpace(tx.Type) == "" {
			return apierrors.NewValidationError(fmt.Sprintf("transaction %d has no type", tx.Sequence))
		}
		if _, dup := seen[tx.Sequence]; dup {
			return apierrors.NewValidationError(fmt.Sprintf("duplicate transaction sequence %d", tx.Sequence))
		}
		seen[tx.Sequence] = struct{}{}
	}
	return nil
}

// CreateComparisonRequest represents the request body for creating or upgrading a comparison.
// Premium and coverage deltas are always derived from the snapshots. CheckResults, when present,
// replace the rule engine output.
type CreateComparisonRequest struct {
	RenewalSnapshot      domain.PolicySnapshot  `json:"renewalSnapshot"`
	BaselineSnapshot     *domain.PolicySnapshot `json:"baselineSnapshot,omitempty"`
	RenewalEffectiveDate *domain.Date           `json:"renewalEffectiveDate,omitempty"`
	CheckResults         []domain.CheckResult   `json:"checkResults,omitempty"`
	RenewalSource        domain.RenewalSource   `json:"renewalSource,omitempty"`
	CustomerID           *string                `json:"customerId,omitempty"`
	PolicyID             *string                `json:"policyId,omitempty"`
	AssignedAgentID      *string                `json:"assignedAgentId,omitempty"`
}

// Validate validates the request body
func (r *CreateComparisonRequest) Validate() error {
	if err := domain.ValidateSnapshot(r.RenewalSnapshot); err != nil {
		return apierrors.NewValidationError("renewalSnapshot: " + err.Error())
	}
	if r.BaselineSnapshot != nil {
		if err := domain.ValidateSnapshot(*r.BaselineSnapshot); err != nil {
			return apierrors.NewValidationError("baselineSnapshot: " + err.Error())
		}
	}
	if r.RenewalEffectiveDate == nil && r.RenewalSnapshot.EffectiveDate == nil {
		return apierrors.NewValidationError("renewalEffectiveDate is required")
	}
	if len(r.CheckResults) > constants.MAX_CHECK_RESULTS_PER_COMPARISON {
		return apierrors.NewValidationError(fmt.Sprintf("maximum %d check results allowed", constants.MAX_CHECK_RESULTS_PER_COMPARISON))
	}
	if err := domain.ValidateCheckResults(r.CheckResults); err != nil {
		return apierrors.NewValidationError(err.Error())
	}
	switch r.RenewalSource {
	case "", domain.RenewalSourceAL3, domain.RenewalSourceManual, domain.RenewalSourceCarrierDownload:
	default:
		return apierrors.NewValidationError(fmt.Sprintf("unsupported renewalSource: %s", r.RenewalSource))
	}
	return nil
}

// PostNoteRequest represents the request body for appending a note
type PostNoteRequest struct {
	Content string `json:"content"`
	// Author is used when the caller authenticated with an API key
	Author string `json:"author,omitempty"`
}

// Validate validates the request body
func (r *PostNoteRequest) Validate() error {
	content := strings.TrimSpace(r.Content)
	if content == "" {
		return apierrors.NewValidationError("content is required")
	}
	if utf8.RuneCountInString(content) > audit.MAX_NOTE_LENGTH {
		return apierrors.NewValidationError(fmt.Sprintf("content must be at most %d characters", audit.MAX_NOTE_LENGTH))
	}
	return nil
}

// DecisionRequest represents the request body for an agent decision
type DecisionRequest struct {
	Decision domain.Decision `json:"decision"`
	Note     string          `json:"note,omitempty"`
	// AgentID is used when the caller authenticated with an API key
	AgentID string `json:"agentId,omitempty"`
}

// Validate validates the request body
func (r *DecisionRequest) Validate() error {
	if _, ok := r.Decision.TargetStatus(); !ok {
		return apierrors.NewValidationError(fmt.Sprintf("unsupported decision: %q", r.Decision))
	}
	return nil
}

// ReviewCheckRequest represents the request body for reviewing one check result
type ReviewCheckRequest struct {
	Reviewed *bool `json:"reviewed"`
	// ReviewerID is used when the caller authenticated with an API key
	ReviewerID string `json:"reviewerId,omitempty"`
}

// Validate validates the request body
func (r *ReviewCheckRequest) Validate() error {
	if r.Reviewed == nil {
		return apierrors.NewValidationError("reviewed is required")
	}
	return nil
}
