package renewal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/audit"
	"github.com/agencyops/renewal-engine/internal/baseline"
	"github.com/agencyops/renewal-engine/internal/comparison"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/servicerequest"
	"github.com/agencyops/renewal-engine/internal/store"
)

// CreateInput is a renewal with its engine result, ready to persist
type CreateInput struct {
	TenantID string
	Renewal  domain.PolicySnapshot
	// RenewalEffectiveDate defaults to the renewal snapshot's effective date
	RenewalEffectiveDate *domain.Date
	Baseline             *domain.PolicySnapshot
	Result               *comparison.Result
	Source               domain.RenewalSource

	// Foreign references are resolved from the policy store when none is given
	CustomerID      *string
	PolicyID        *string
	AssignedAgentID *string

	TransactionType string
	BatchID         string
}

// CreateResult reports how the natural key was resolved
type CreateResult struct {
	ComparisonID string `json:"comparisonId"`
	Duplicate    bool   `json:"duplicate"`
	Upgraded     bool   `json:"upgraded"`
}

// DecisionInput is an agent's disposition of a comparison
type DecisionInput struct {
	TenantID     string
	ComparisonID string
	Decision     domain.Decision
	AgentID      string
	Note         string
}

// ReviewInput toggles the reviewed flag of one check result
type ReviewInput struct {
	TenantID     string
	ComparisonID string
	RuleID       string
	Reviewed     bool
	ReviewerID   string
}

// Manager owns the lifecycle of renewal comparison records
//
//go:generate mockgen -source=manager.go -destination=../mocks/renewal_manager.go -package=mocks -mock_names=Manager=MockManager
type Manager interface {
	// CreateOrUpgrade persists a comparison idempotently under its natural key
	CreateOrUpgrade(ctx context.Context, input CreateInput) (*CreateResult, error)
	// ApplyDecision moves a comparison to the status the decision maps to
	ApplyDecision(ctx context.Context, input DecisionInput) (*domain.RenewalComparison, error)
	// SetCheckReviewed marks one check result reviewed or not and recomputes the summary
	SetCheckReviewed(ctx context.Context, input ReviewInput) (*domain.RenewalComparison, error)
	// Get returns a comparison or ErrNotFound
	Get(ctx context.Context, tenantID, comparisonID string) (*domain.RenewalComparison, error)
}

type manager struct {
	store    store.Store
	baseline baseline.Builder
	bridge   servicerequest.Bridge
	jcs      adapter.JCS
	clock    adapter.Clock
}

// NewManager creates a comparison record manager. builder and bridge may be nil.
func NewManager(st store.Store, builder baseline.Builder, bridge servicerequest.Bridge, jcs adapter.JCS, clock adapter.Clock) Manager {
	return &manager{
		store:    st,
		baseline: builder,
		bridge:   bridge,
		jcs:      jcs,
		clock:    clock,
	}
}

func (m *manager) CreateOrUpgrade(ctx context.Context, input CreateInput) (*CreateResult, error) {
	c, err := m.newComparison(input)
	if err != nil {
		return nil, err
	}
	fields := logger.Policy(c.TenantID, c.PolicyNumber, c.CarrierName)

	if c.CustomerID == nil && c.PolicyID == nil && c.AssignedAgentID == nil {
		m.resolveForeignRefs(ctx, c, fields)
	}

	fingerprint, err := adapter.Fingerprint(m.jcs, input.Renewal)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint renewal snapshot: %w", err)
	}
	c.RenewalFingerprint = fingerprint

	now := m.clock.Now().UTC()
	events := []store.AuditEventInput{
		audit.Ingested(audit.IngestedData{
			Source:          c.RenewalSource,
			TransactionType: input.TransactionType,
			BatchID:         input.BatchID,
			Fingerprint:     fingerprint,
		}, now),
		audit.Compared(audit.ComparedData{
			Recommendation:  c.Recommendation,
			HasBaseline:     c.BaselineSnapshot != nil,
			MaterialChanges: len(c.MaterialChanges),
			CriticalCount:   c.CheckSummary.CriticalCount,
			WarningCount:    c.CheckSummary.WarningCount,
			PipelineHalted:  c.CheckSummary.PipelineHalted,
		}, now),
	}

	res, err := m.store.UpsertComparisonByNaturalKey(ctx, store.UpsertComparisonInput{
		Comparison:     *c,
		Events:         events,
		ServiceRequest: m.serviceRequestFor(c),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert comparison: %w", err)
	}
	c.ID = res.ComparisonID

	fields = append(fields, zap.String("comparison_id", res.ComparisonID))
	if res.Duplicate {
		logger.InfoCtx(ctx, "Renewal comparison already exists", fields...)
		return &CreateResult{ComparisonID: res.ComparisonID, Duplicate: true}, nil
	}

	logger.InfoCtx(ctx, "Renewal comparison saved",
		append(fields,
			zap.Bool("upgraded", res.Upgraded),
			zap.String("recommendation", string(c.Recommendation)))...)

	return &CreateResult{ComparisonID: res.ComparisonID, Upgraded: res.Upgraded}, nil
}

// newComparison validates the input and assembles the comparison row
func (m *manager) newComparison(input CreateInput) (*domain.RenewalComparison, error) {
	if input.TenantID == "" {
		return nil, fmt.Errorf("%w: tenantId is required", domain.ErrValidation)
	}
	if input.Result == nil {
		return nil, fmt.Errorf("%w: comparison result is required", domain.ErrValidation)
	}
	if err := domain.ValidateSnapshot(input.Renewal); err != nil {
		return nil, err
	}

	effective := input.RenewalEffectiveDate
	if effective == nil {
		effective = input.Renewal.EffectiveDate
	}
	if effective == nil {
		return nil, fmt.Errorf("%w: renewalEffectiveDate is required", domain.ErrValidation)
	}

	source := input.Source
	if source == "" {
		source = domain.RenewalSourceAL3
	}

	renewal := input.Renewal.Clone()
	var base *domain.PolicySnapshot
	if input.Baseline != nil {
		b := input.Baseline.Clone()
		base = &b
	}

	return &domain.RenewalComparison{
		PremiumDelta:         input.Result.Premium,
		TenantID:             input.TenantID,
		PolicyNumber:         domain.NormalizePolicyNumber(input.Renewal.PolicyNumber),
		CarrierName:          strings.Join(strings.Fields(input.Renewal.CarrierName), " "),
		LineOfBusiness:       input.Renewal.LineOfBusiness,
		RenewalEffectiveDate: *effective,
		CustomerID:           input.CustomerID,
		PolicyID:             input.PolicyID,
		AssignedAgentID:      input.AssignedAgentID,
		BaselineSnapshot:     base,
		RenewalSnapshot:      &renewal,
		MaterialChanges:      nonNil(input.Result.MaterialChanges),
		CheckResults:         input.Result.CheckResults,
		CheckSummary:         input.Result.CheckSummary,
		Recommendation:       input.Result.Recommendation,
		Status:               domain.StatusWaitingAgentReview,
		RenewalSource:        source,
	}, nil
}

// resolveForeignRefs fills customer, policy and agent from the policy store; failures only log
func (m *manager) resolveForeignRefs(ctx context.Context, c *domain.RenewalComparison, fields []zap.Field) {
	if m.baseline == nil {
		return
	}
	carrier := c.CarrierName
	effective := c.RenewalEffectiveDate
	found, err := m.baseline.Build(ctx, baseline.BuildInput{
		TenantID:             c.TenantID,
		PolicyNumber:         c.PolicyNumber,
		CarrierName:          &carrier,
		RenewalEffectiveDate: &effective,
	})
	if err != nil {
		logger.WarnCtx(ctx, "Failed to resolve policy references", append(fields, zap.Error(err))...)
		return
	}
	if found == nil {
		return
	}
	policyID := found.PolicyID
	c.PolicyID = &policyID
	c.CustomerID = found.CustomerID
	c.AssignedAgentID = found.AssignedAgentID
}

// serviceRequestFor builds the outbox row in the upsert transaction, so a redelivered
// renewal that resolves as a duplicate already has its request queued
func (m *manager) serviceRequestFor(c *domain.RenewalComparison) func(comparisonID string) (*store.EnqueueServiceRequestInput, error) {
	if m.bridge == nil {
		return nil
	}
	return func(comparisonID string) (*store.EnqueueServiceRequestInput, error) {
		saved := *c
		saved.ID = comparisonID
		return m.bridge.Prepare(servicerequest.RequestFromComparison(&saved))
	}
}

func (m *manager) ApplyDecision(ctx context.Context, input DecisionInput) (*domain.RenewalComparison, error) {
	target, ok := input.Decision.TargetStatus()
	if !ok {
		return nil, fmt.Errorf("%w: unknown decision %q", domain.ErrValidation, input.Decision)
	}

	now := m.clock.Now().UTC()
	var from domain.ComparisonStatus
	updated, err := m.store.MutateComparison(ctx, store.MutateComparisonInput{
		TenantID:     input.TenantID,
		ComparisonID: input.ComparisonID,
		Mutate: func(c *domain.RenewalComparison) ([]store.AuditEventInput, error) {
			from = c.Status
			if !canDecide(from, target) {
				return nil, fmt.Errorf("%w: %s cannot move from %s to %s", domain.ErrInvalidTransition, input.Decision, from, target)
			}
			c.Status = target
			return []store.AuditEventInput{audit.AgentDecision(audit.DecisionData{
				Decision:   input.Decision,
				FromStatus: from,
				ToStatus:   target,
				Note:       strings.TrimSpace(input.Note),
			}, input.AgentID, now)}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Agent decision applied",
		append(logger.Comparison(input.TenantID, input.ComparisonID),
			zap.String("decision", string(input.Decision)),
			zap.String("from_status", string(from)),
			zap.String("to_status", string(target)),
			zap.String("agent_id", input.AgentID))...)

	return updated, nil
}

func (m *manager) SetCheckReviewed(ctx context.Context, input ReviewInput) (*domain.RenewalComparison, error) {
	if input.RuleID == "" {
		return nil, fmt.Errorf("%w: ruleId is required", domain.ErrValidation)
	}

	now := m.clock.Now().UTC()
	return m.store.MutateComparison(ctx, store.MutateComparisonInput{
		TenantID:     input.TenantID,
		ComparisonID: input.ComparisonID,
		Mutate: func(c *domain.RenewalComparison) ([]store.AuditEventInput, error) {
			idx := -1
			for i := range c.CheckResults {
				if c.CheckResults[i].RuleID == input.RuleID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil, fmt.Errorf("check %s: %w", input.RuleID, domain.ErrNotFound)
			}

			markReviewed(&c.CheckResults[idx], input.Reviewed, input.ReviewerID, now)
			c.CheckSummary = comparison.Summarize(c.CheckResults)
			c.Recommendation = comparison.Recommend(c.CheckSummary)

			return []store.AuditEventInput{audit.CheckReviewed(audit.CheckReviewedData{
				RuleID:   input.RuleID,
				Reviewed: input.Reviewed,
			}, input.ReviewerID, now)}, nil
		},
	})
}

func markReviewed(r *domain.CheckResult, reviewed bool, reviewer string, at time.Time) {
	r.Reviewed = reviewed
	if !reviewed {
		r.ReviewedBy = nil
		r.ReviewedAt = nil
		return
	}
	if reviewer != "" {
		r.ReviewedBy = &reviewer
	}
	r.ReviewedAt = &at
}

func (m *manager) Get(ctx context.Context, tenantID, comparisonID string) (*domain.RenewalComparison, error) {
	c, err := m.store.GetComparison(ctx, tenantID, comparisonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comparison: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("comparison %s: %w", comparisonID, domain.ErrNotFound)
	}
	return c, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
