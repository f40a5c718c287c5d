package executor

import (
	"context"
	"fmt"

	"github.com/agencyops/renewal-engine/internal/api/shared/dto"
	apierrors "github.com/agencyops/renewal-engine/internal/api/shared/errors"
	"github.com/agencyops/renewal-engine/internal/archive"
	"github.com/agencyops/renewal-engine/internal/audit"
	"github.com/agencyops/renewal-engine/internal/baseline"
	"github.com/agencyops/renewal-engine/internal/comparison"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/property"
	"github.com/agencyops/renewal-engine/internal/renewal"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/mock_api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// BuildBaseline reconstructs the current-term snapshot of a policy; nil when no term matches
	BuildBaseline(ctx context.Context, tenantID string, req dto.BuildBaselineRequest) (*baseline.BaselineResult, error)

	// ArchiveTransactions stores non-renewal AL3 transactions of a batch
	ArchiveTransactions(ctx context.Context, tenantID string, req dto.ArchiveTransactionsRequest) (*archive.ArchiveResult, error)

	// CreateComparison compares the snapshots and creates or upgrades the comparison record
	CreateComparison(ctx context.Context, tenantID string, req dto.CreateComparisonRequest) (*renewal.CreateResult, error)

	// GetComparison retrieves a comparison by id
	GetComparison(ctx context.Context, tenantID, comparisonID string) (*domain.RenewalComparison, error)

	// GetPropertyVerification returns the cached verification or runs a fresh one
	GetPropertyVerification(ctx context.Context, tenantID, comparisonID string) (*domain.PropertyVerification, error)

	// GetNotes returns the notes feed of a comparison
	GetNotes(ctx context.Context, tenantID, comparisonID string) (*dto.NoteFeedResponse, error)

	// PostNote appends a note and returns the updated feed
	PostNote(ctx context.Context, tenantID, comparisonID, author string, req dto.PostNoteRequest) (*dto.NoteFeedResponse, error)

	// ApplyDecision records an agent decision
	ApplyDecision(ctx context.Context, tenantID, comparisonID, agentID string, req dto.DecisionRequest) (*domain.RenewalComparison, error)

	// ReviewCheck marks one check result reviewed or not
	ReviewCheck(ctx context.Context, tenantID, comparisonID, ruleID, reviewerID string, req dto.ReviewCheckRequest) (*domain.RenewalComparison, error)
}

// Config holds executor settings
type Config struct {
	RequiredDisclosures map[domain.LineOfBusiness][]string
}

type executor struct {
	config   Config
	baseline baseline.Builder
	archive  archive.Writer
	engine   comparison.Engine
	manager  renewal.Manager
	verifier property.Verifier
	auditLog audit.Log
}

func NewExecutor(
	cfg Config,
	builder baseline.Builder,
	writer archive.Writer,
	engine comparison.Engine,
	manager renewal.Manager,
	verifier property.Verifier,
	auditLog audit.Log,
) Executor {
	return &executor{
		config:   cfg,
		baseline: builder,
		archive:  writer,
		engine:   engine,
		manager:  manager,
		verifier: verifier,
		auditLog: auditLog,
	}
}

func (e *executor) BuildBaseline(ctx context.Context, tenantID string, req dto.BuildBaselineRequest) (*baseline.BaselineResult, error) {
	result, err := e.baseline.Build(ctx, baseline.BuildInput{
		TenantID:             tenantID,
		PolicyNumber:         req.PolicyNumber,
		CarrierName:          req.CarrierName,
		RenewalEffectiveDate: req.RenewalEffectiveDate,
	})
	if err != nil {
		return nil, apierrors.FromError(err, "Failed to build baseline")
	}
	return result, nil
}

func (e *executor) ArchiveTransactions(ctx context.Context, tenantID string, req dto.ArchiveTransactionsRequest) (*archive.ArchiveResult, error) {
	result, err := e.archive.Archive(ctx, tenantID, req.BatchID, req.Transactions)
	if err != nil {
		return nil, apierrors.FromError(err, "Failed to archive transactions")
	}
	return result, nil
}

func (e *executor) CreateComparison(ctx context.Context, tenantID string, req dto.CreateComparisonRequest) (*renewal.CreateResult, error) {
	lob := req.RenewalSnapshot.LineOfBusiness
	result, err := e.engine.Compare(ctx, comparison.Input{
		Baseline: req.BaselineSnapshot,
		Renewal:  req.RenewalSnapshot,
		Metadata: comparison.Metadata{
			CarrierName:         req.RenewalSnapshot.CarrierName,
			LineOfBusiness:      lob,
			RequiredDisclosures: e.config.RequiredDisclosures[lob],
		},
	})
	if err != nil {
		return nil, apierrors.FromError(fmt.Errorf("failed to compare renewal: %w", err), "Failed to compare renewal")
	}

	if len(req.CheckResults) > 0 {
		result.CheckResults = req.CheckResults
		result.CheckSummary = comparison.Summarize(req.CheckResults)
		result.Recommendation = comparison.Recommend(result.CheckSummary)
	}

	created, err := e.manager.CreateOrUpgrade(ctx, renewal.CreateInput{
		TenantID:             tenantID,
		Renewal:              req.RenewalSnapshot,
		RenewalEffectiveDate: req.RenewalEffectiveDate,
		Baseline:             req.BaselineSnapshot,
		Result:               result,
		Source:               req.RenewalSource,
		CustomerID:           req.CustomerID,
		PolicyID:             req.PolicyID,
		AssignedAgentID:      req.AssignedAgentID,
	})
	if err != nil {
		return nil, apierrors.FromError(err, "Failed to create comparison")
	}
	return created, nil
}

func (e *executor) GetComparison(ctx context.Context, tenantID, comparisonID string) (*domain.RenewalComparison, error) {
	c, err := e.manager.Get(ctx, tenantID, comparisonID)
	if err != nil {
		return nil, apierrors.FromError(err, "Comparison not found")
	}
	return c, nil
}

func (e *executor) GetPropertyVerification(ctx context.Context, tenantID, comparisonID string) (*domain.PropertyVerification, error) {
	v, err := e.verifier.Verify(ctx, tenantID, comparisonID)
	if err != nil {
		return nil, apierrors.FromError(err, "Failed to verify property")
	}
	return v, nil
}

func (e *executor) GetNotes(ctx context.Context, tenantID, comparisonID string) (*dto.NoteFeedResponse, error) {
	items, err := e.auditLog.Feed(ctx, tenantID, comparisonID)
	if err != nil {
		return nil, apierrors.FromError(err, "Failed to get notes")
	}
	return dto.NewNoteFeedResponse(items), nil
}

func (e *executor) PostNote(ctx context.Context, tenantID, comparisonID, author string, req dto.PostNoteRequest) (*dto.NoteFeedResponse, error) {
	items, err := e.auditLog.PostNote(ctx, audit.NoteInput{
		TenantID:     tenantID,
		ComparisonID: comparisonID,
		Content:      req.Content,
		Author:       author,
	})
	if err != nil {
		return nil, apierrors.FromError(err, "Failed to post note")
	}
	return dto.NewNoteFeedResponse(items), nil
}

func (e *executor) ApplyDecision(ctx context.Context, tenantID, comparisonID, agentID string, req dto.DecisionRequest) (*domain.RenewalComparison, error) {
	c, err := e.manager.ApplyDecision(ctx, renewal.DecisionInput{
		TenantID:     tenantID,
		ComparisonID: comparisonID,
		Decision:     req.Decision,
		AgentID:      agentID,
		Note:         req.Note,
	})
	if err != nil {
		return nil, apierrors.FromError(err, "Failed to apply decision")
	}
	return c, nil
}

func (e *executor) ReviewCheck(ctx context.Context, tenantID, comparisonID, ruleID, reviewerID string, req dto.ReviewCheckRequest) (*domain.RenewalComparison, error) {
	c, err := e.manager.SetCheckReviewed(ctx, renewal.ReviewInput{
		TenantID:     tenantID,
		ComparisonID: comparisonID,
		RuleID:       ruleID,
		Reviewed:     *req.Reviewed,
		ReviewerID:   reviewerID,
	})
	if err != nil {
		return nil, apierrors.FromError(err, "Failed to review check")
	}
	return c, nil
}
