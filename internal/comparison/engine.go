package comparison

import (
	"context"
	"fmt"
	"strings"

	"github.com/agencyops/renewal-engine/internal/domain"
)

// Metadata carries carrier and line of business context for the rules
type Metadata struct {
	CarrierName    string                `json:"carrierName,omitempty"`
	LineOfBusiness domain.LineOfBusiness `json:"lineOfBusiness,omitempty"`
	// RequiredDisclosures lists the disclosure form identifiers the renewal must carry
	RequiredDisclosures []string `json:"requiredDisclosures,omitempty"`
}

// Input is a baseline/renewal pair to compare. Baseline is nil for a first-term renewal.
type Input struct {
	Baseline *domain.PolicySnapshot
	Renewal  domain.PolicySnapshot
	Metadata Metadata
}

// Result is the engine output
type Result struct {
	Premium         domain.PremiumDelta
	Changes         []CoverageChange
	MaterialChanges []string
	CheckResults    []domain.CheckResult
	CheckSummary    domain.CheckSummary
	Recommendation  domain.Recommendation
}

// Engine diffs a renewal against its baseline and grades the differences
//
//go:generate mockgen -source=engine.go -destination=../mocks/comparison_engine.go -package=mocks -mock_names=Engine=MockEngine
type Engine interface {
	// Compare is pure: a rule failure fails the whole comparison
	Compare(ctx context.Context, input Input) (*Result, error)
}

type engine struct {
	rules []Rule
}

// NewEngine creates an engine over the given rules, or the default rule set when none are given
func NewEngine(rules ...Rule) Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &engine{rules: rules}
}

func (e *engine) Compare(ctx context.Context, input Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc := &RuleContext{
		Baseline: input.Baseline,
		Renewal:  input.Renewal,
		Metadata: input.Metadata,
		Premium:  PremiumDelta(input.Baseline, input.Renewal),
	}
	if input.Baseline != nil {
		rc.Changes = DiffCoverages(input.Baseline.Coverages, input.Renewal.Coverages)
	}

	results := make([]domain.CheckResult, 0, len(e.rules))
	for _, rule := range e.rules {
		if domain.IsPropertyRuleID(rule.ID()) {
			return nil, fmt.Errorf("rule %s uses the reserved %s prefix", rule.ID(), domain.PROPERTY_RULE_PREFIX)
		}
		result, err := rule.Evaluate(rc)
		if err != nil {
			return nil, fmt.Errorf("rule %s failed: %w", rule.ID(), err)
		}
		if result == nil {
			continue
		}
		if result.RuleID == "" {
			result.RuleID = rule.ID()
		}
		if !domain.IsValidSeverity(result.Severity) {
			return nil, fmt.Errorf("rule %s returned unknown severity %q", rule.ID(), result.Severity)
		}
		results = append(results, *result)
	}

	summary := Summarize(results)
	return &Result{
		Premium:         rc.Premium,
		Changes:         rc.Changes,
		MaterialChanges: MaterialChanges(rc.Changes),
		CheckResults:    results,
		CheckSummary:    summary,
		Recommendation:  Recommend(summary),
	}, nil
}

// MergeResults replaces the results whose rule id starts with prefix and keeps the rest in order
func MergeResults(existing, replacement []domain.CheckResult, prefix string) []domain.CheckResult {
	merged := make([]domain.CheckResult, 0, len(existing)+len(replacement))
	for _, r := range existing {
		if !strings.HasPrefix(r.RuleID, prefix) {
			merged = append(merged, r)
		}
	}
	return append(merged, replacement...)
}
