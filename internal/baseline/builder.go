package baseline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/store"
	"github.com/agencyops/renewal-engine/internal/store/schema"
)

// BuildInput identifies the policy whose current term should be reconstructed
type BuildInput struct {
	TenantID             string       `json:"tenantId"`
	PolicyNumber         string       `json:"policyNumber"`
	CarrierName          *string      `json:"carrierName,omitempty"`
	RenewalEffectiveDate *domain.Date `json:"renewalEffectiveDate,omitempty"`
}

// BaselineResult is the reconstructed snapshot with the records it came from
type BaselineResult struct {
	Snapshot        domain.PolicySnapshot `json:"snapshot"`
	PolicyID        string                `json:"policyId"`
	CustomerID      *string               `json:"customerId"`
	AssignedAgentID *string               `json:"-"`
}

// Builder reconstructs the current-term snapshot of a policy from local policy data
//
//go:generate mockgen -source=builder.go -destination=../mocks/baseline_builder.go -package=mocks -mock_names=Builder=MockBaselineBuilder
type Builder interface {
	// Build returns nil, nil when no local policy term matches
	Build(ctx context.Context, input BuildInput) (*BaselineResult, error)
}

type builder struct {
	store store.Store
}

// NewBuilder creates a baseline builder
func NewBuilder(st store.Store) Builder {
	return &builder{store: st}
}

func (b *builder) Build(ctx context.Context, input BuildInput) (*BaselineResult, error) {
	if input.TenantID == "" {
		return nil, fmt.Errorf("%w: tenantId is required", domain.ErrValidation)
	}
	policyNumber := domain.NormalizePolicyNumber(input.PolicyNumber)
	if policyNumber == "" {
		return nil, fmt.Errorf("%w: policyNumber is required", domain.ErrValidation)
	}

	filter := store.BaselinePolicyFilter{
		TenantID:     input.TenantID,
		PolicyNumber: policyNumber,
		Before:       input.RenewalEffectiveDate,
	}
	if input.CarrierName != nil && strings.TrimSpace(*input.CarrierName) != "" {
		carrier := strings.TrimSpace(*input.CarrierName)
		filter.CarrierName = &carrier
	}

	record, err := b.store.FindBaselinePolicy(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find baseline policy: %w", err)
	}
	if record == nil {
		logger.DebugCtx(ctx, "No baseline policy found", logger.Policy(input.TenantID, policyNumber, stringValue(input.CarrierName))...)
		return nil, nil
	}

	snapshot, err := project(record)
	if err != nil {
		return nil, err
	}

	result := &BaselineResult{
		Snapshot:   snapshot,
		PolicyID:   record.Policy.ID,
		CustomerID: record.Policy.CustomerID,
	}
	if record.Customer != nil {
		result.AssignedAgentID = record.Customer.AssignedAgentID
	}
	return result, nil
}

// project maps a stored policy term into a snapshot
func project(record *store.PolicyRecord) (domain.PolicySnapshot, error) {
	p := record.Policy

	effective := domain.NewDate(p.EffectiveDate)
	snapshot := domain.PolicySnapshot{
		PolicyNumber:   p.PolicyNumber,
		CarrierName:    p.CarrierName,
		LineOfBusiness: domain.LineOfBusiness(p.LineOfBusiness),
		InsuredName:    p.InsuredName,
		EffectiveDate:  &effective,
		Premium:        p.Premium,
		Coverages:      projectCoverages(record.Coverages),
	}
	if p.ExpirationDate != nil {
		expiration := domain.NewDate(*p.ExpirationDate)
		snapshot.ExpirationDate = &expiration
	}

	if c := record.Customer; c != nil {
		if snapshot.InsuredName == "" {
			snapshot.InsuredName = c.Name
		}
		addr := domain.Address{Street: c.Street, City: c.City, State: c.State, Zip: c.Zip}
		if !addr.IsZero() {
			snapshot.InsuredAddress = &addr
		}
	}

	if len(p.Disclosures) > 0 && !isNull(p.Disclosures) {
		if err := json.Unmarshal(p.Disclosures, &snapshot.Disclosures); err != nil {
			return domain.PolicySnapshot{}, fmt.Errorf("failed to unmarshal disclosures of policy %s: %w", p.ID, err)
		}
	}
	if len(p.PropertyContext) > 0 && !isNull(p.PropertyContext) {
		var pc domain.PropertyContext
		if err := json.Unmarshal(p.PropertyContext, &pc); err != nil {
			return domain.PolicySnapshot{}, fmt.Errorf("failed to unmarshal property context of policy %s: %w", p.ID, err)
		}
		snapshot.PropertyContext = &pc
	}

	return snapshot, nil
}

// projectCoverages keeps the stored order; rows arrive sorted by position
func projectCoverages(rows []schema.PolicyCoverage) []domain.Coverage {
	coverages := make([]domain.Coverage, 0, len(rows))
	for _, r := range rows {
		coverages = append(coverages, domain.Coverage{
			Type:        r.CoverageType,
			LimitAmount: r.LimitAmount,
			Deductible:  r.Deductible,
			Description: r.Description,
		})
	}
	return coverages
}

func isNull(data []byte) bool {
	return strings.TrimSpace(string(data)) == "null"
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
