package comparison

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agencyops/renewal-engine/internal/domain"
)

// Rule identifiers produced by the comparison engine
const (
	RulePremiumChange         = "PREMIUM-CHANGE"
	RuleCoverageRemoved       = "COVERAGE-REMOVED"
	RuleCoverageAdded         = "COVERAGE-ADDED"
	RuleCoverageLimit         = "COVERAGE-LIMIT"
	RuleCoverageDeductible    = "COVERAGE-DEDUCTIBLE"
	RuleCarrierChange         = "CARRIER-CHANGE"
	RuleLOBMismatch           = "LOB-MISMATCH"
	RuleInsuredAddress        = "INSURED-ADDRESS"
	RuleTermDates             = "TERM-DATES"
	RuleRenewalPremiumPresent = "RENEWAL-PREMIUM-PRESENT"
	RuleDisclosurePresent     = "DISCLOSURE-PRESENT"
)

const (
	categoryPremium    = "premium"
	categoryCoverage   = "coverage"
	categoryPolicy     = "policy"
	categoryCompliance = "compliance"
)

var (
	premiumWarningPercent  = decimal.NewFromInt(10)
	premiumCriticalPercent = decimal.NewFromInt(25)
)

// RuleContext is the input every rule evaluates. Rules must not modify it.
type RuleContext struct {
	Baseline *domain.PolicySnapshot
	Renewal  domain.PolicySnapshot
	Metadata Metadata
	Premium  domain.PremiumDelta
	Changes  []CoverageChange
}

// HasBaseline reports whether a baseline term was found
func (rc *RuleContext) HasBaseline() bool {
	return rc.Baseline != nil
}

// Rule is one independently evaluable check. A nil result means the rule does not apply.
type Rule interface {
	ID() string
	Evaluate(rc *RuleContext) (*domain.CheckResult, error)
}

// ruleFunc adapts a function into a Rule
type ruleFunc struct {
	id string
	fn func(rc *RuleContext) (*domain.CheckResult, error)
}

func (r ruleFunc) ID() string {
	return r.id
}

func (r ruleFunc) Evaluate(rc *RuleContext) (*domain.CheckResult, error) {
	return r.fn(rc)
}

// NewRule creates a rule from a function
func NewRule(id string, fn func(rc *RuleContext) (*domain.CheckResult, error)) Rule {
	return ruleFunc{id: id, fn: fn}
}

// DefaultRules returns the rule set in evaluation order
func DefaultRules() []Rule {
	return []Rule{
		NewRule(RulePremiumChange, premiumChange),
		NewRule(RuleCoverageRemoved, coverageRemoved),
		NewRule(RuleCoverageAdded, coverageAdded),
		NewRule(RuleCoverageLimit, coverageLimit),
		NewRule(RuleCoverageDeductible, coverageDeductible),
		NewRule(RuleCarrierChange, carrierChange),
		NewRule(RuleLOBMismatch, lobMismatch),
		NewRule(RuleInsuredAddress, insuredAddress),
		NewRule(RuleTermDates, termDates),
		NewRule(RuleRenewalPremiumPresent, renewalPremiumPresent),
		NewRule(RuleDisclosurePresent, disclosurePresent),
	}
}

func premiumChange(rc *RuleContext) (*domain.CheckResult, error) {
	if !rc.HasBaseline() {
		return nil, nil
	}
	p := rc.Premium
	if !p.PremiumChangeAmount.Valid {
		return nil, nil
	}

	result := &domain.CheckResult{
		RuleID:        RulePremiumChange,
		Category:      categoryPremium,
		Field:         "premium",
		BaselineValue: p.CurrentPremium.Decimal.StringFixed(2),
		RenewalValue:  p.RenewalPremium.Decimal.StringFixed(2),
	}

	amount := p.PremiumChangeAmount.Decimal
	switch {
	case amount.IsZero():
		result.Severity = domain.SeverityUnchanged
		result.Title = "Premium unchanged"
		return result, nil
	case !p.PremiumChangePercent.Valid:
		result.Severity = domain.SeverityWarning
		result.Title = "Premium changed from zero"
		result.Message = fmt.Sprintf("Premium moved by %s from a zero baseline", amount.StringFixed(2))
		return result, nil
	}

	pct := p.PremiumChangePercent.Decimal
	result.Message = fmt.Sprintf("Premium changed by %s (%s%%)", amount.StringFixed(2), pct.StringFixed(2))
	switch {
	case amount.IsNegative():
		result.Severity = domain.SeverityInfo
		result.Title = "Premium decreased"
	case pct.GreaterThanOrEqual(premiumCriticalPercent):
		result.Severity = domain.SeverityCritical
		result.Title = "Premium increase above 25%"
	case pct.GreaterThanOrEqual(premiumWarningPercent):
		result.Severity = domain.SeverityWarning
		result.Title = "Premium increase above 10%"
	default:
		result.Severity = domain.SeverityInfo
		result.Title = "Premium increased"
	}
	return result, nil
}

func changesOfKind(changes []CoverageChange, kinds ...ChangeKind) []CoverageChange {
	var out []CoverageChange
	for _, c := range changes {
		for _, k := range kinds {
			if c.Kind == k {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func coverageTypes(changes []CoverageChange) string {
	types := make([]string, 0, len(changes))
	for _, c := range changes {
		types = append(types, c.Type)
	}
	return strings.Join(types, ", ")
}

func coverageResult(ruleID, field string, changes []CoverageChange) *domain.CheckResult {
	r := &domain.CheckResult{RuleID: ruleID, Category: categoryCoverage, Field: field}
	if len(changes) > 0 {
		r.Message = strings.Join(MaterialChanges(changes), "; ")
	}
	return r
}

func coverageRemoved(rc *RuleContext) (*domain.CheckResult, error) {
	if !rc.HasBaseline() {
		return nil, nil
	}
	removed := changesOfKind(rc.Changes, ChangeKindRemoved)
	r := coverageResult(RuleCoverageRemoved, "coverages", removed)
	if len(removed) == 0 {
		r.Severity, r.Title = domain.SeverityUnchanged, "No coverage removed"
		return r, nil
	}
	r.Severity = domain.SeverityCritical
	r.Title = "Coverage removed at renewal"
	r.BaselineValue = coverageTypes(removed)
	return r, nil
}

func coverageAdded(rc *RuleContext) (*domain.CheckResult, error) {
	if !rc.HasBaseline() {
		return nil, nil
	}
	added := changesOfKind(rc.Changes, ChangeKindAdded)
	r := coverageResult(RuleCoverageAdded, "coverages", added)
	if len(added) == 0 {
		r.Severity, r.Title = domain.SeverityUnchanged, "No coverage added"
		return r, nil
	}
	r.Severity = domain.SeverityInfo
	r.Title = "Coverage added at renewal"
	r.RenewalValue = coverageTypes(added)
	return r, nil
}

func coverageLimit(rc *RuleContext) (*domain.CheckResult, error) {
	if !rc.HasBaseline() {
		return nil, nil
	}
	changes := changesOfKind(rc.Changes, ChangeKindLimit)
	r := coverageResult(RuleCoverageLimit, "limitAmount", changes)
	if len(changes) == 0 {
		r.Severity, r.Title = domain.SeverityUnchanged, "Coverage limits unchanged"
		return r, nil
	}

	r.Severity, r.Title = domain.SeverityInfo, "Coverage limit increased"
	for _, c := range changes {
		if c.Direction == DirectionDecreased || c.Direction == DirectionChanged {
			r.Severity, r.Title = domain.SeverityWarning, "Coverage limit reduced or changed"
			break
		}
	}
	return r, nil
}

func coverageDeductible(rc *RuleContext) (*domain.CheckResult, error) {
	if !rc.HasBaseline() {
		return nil, nil
	}
	changes := changesOfKind(rc.Changes, ChangeKindDeductible)
	r := coverageResult(RuleCoverageDeductible, "deductible", changes)
	if len(changes) == 0 {
		r.Severity, r.Title = domain.SeverityUnchanged, "Deductibles unchanged"
		return r, nil
	}

	r.Severity, r.Title = domain.SeverityInfo, "Deductible decreased"
	for _, c := range changes {
		if c.Direction == DirectionIncreased || c.Direction == DirectionChanged {
			r.Severity, r.Title = domain.SeverityWarning, "Deductible increased or changed"
			break
		}
	}
	return r, nil
}

func carrierChange(rc *RuleContext) (*domain.CheckResult, error) {
	if !rc.HasBaseline() {
		return nil, nil
	}
	r := &domain.CheckResult{
		RuleID:        RuleCarrierChange,
		Category:      categoryPolicy,
		Field:         "carrierName",
		BaselineValue: rc.Baseline.CarrierName,
		RenewalValue:  rc.Renewal.CarrierName,
	}
	if domain.NormalizeCarrierName(rc.Baseline.CarrierName) == domain.NormalizeCarrierName(rc.Renewal.CarrierName) {
		r.Severity, r.Title = domain.SeverityUnchanged, "Carrier unchanged"
		return r, nil
	}
	r.Severity, r.Title = domain.SeverityWarning, "Carrier changed at renewal"
	return r, nil
}

func lobMismatch(rc *RuleContext) (*domain.CheckResult, error) {
	if !rc.HasBaseline() {
		return nil, nil
	}
	before, after := rc.Baseline.LineOfBusiness, rc.Renewal.LineOfBusiness
	if after == "" {
		after = rc.Metadata.LineOfBusiness
	}
	if before == "" || after == "" {
		return nil, nil
	}

	r := &domain.CheckResult{
		RuleID:        RuleLOBMismatch,
		Category:      categoryPolicy,
		Field:         "lineOfBusiness",
		BaselineValue: string(before),
		RenewalValue:  string(after),
	}
	if before == after {
		r.Severity, r.Title = domain.SeverityUnchanged, "Line of business matches"
		return r, nil
	}
	r.Severity = domain.SeverityCritical
	r.Blocking = true
	r.Title = "Line of business does not match the current term"
	r.Message = "The renewal may have been matched to the wrong policy"
	return r, nil
}

func insuredAddress(rc *RuleContext) (*domain.CheckResult, error) {
	if !rc.HasBaseline() {
		return nil, nil
	}
	before, after := rc.Baseline.InsuredAddress, rc.Renewal.InsuredAddress
	if before.IsZero() && after.IsZero() {
		return nil, nil
	}

	r := &domain.CheckResult{RuleID: RuleInsuredAddress, Category: categoryPolicy, Field: "insuredAddress"}
	if !before.IsZero() {
		r.BaselineValue = before.String()
	}
	if !after.IsZero() {
		r.RenewalValue = after.String()
	}

	switch {
	case before.IsZero():
		r.Severity, r.Title = domain.SeverityInfo, "Insured address added"
	case after.IsZero():
		r.Severity, r.Title = domain.SeverityInfo, "Renewal carries no insured address"
	case before.Key() == after.Key():
		r.Severity, r.Title = domain.SeverityUnchanged, "Insured address unchanged"
	default:
		r.Severity, r.Title = domain.SeverityWarning, "Insured address changed"
	}
	return r, nil
}

func termDates(rc *RuleContext) (*domain.CheckResult, error) {
	if !rc.HasBaseline() || rc.Baseline.ExpirationDate == nil || rc.Renewal.EffectiveDate == nil {
		return nil, nil
	}
	expires, starts := *rc.Baseline.ExpirationDate, *rc.Renewal.EffectiveDate

	r := &domain.CheckResult{
		RuleID:        RuleTermDates,
		Category:      categoryPolicy,
		Field:         "effectiveDate",
		BaselineValue: expires.String(),
		RenewalValue:  starts.String(),
	}
	switch {
	case expires.Equal(starts):
		r.Severity, r.Title = domain.SeverityUnchanged, "Renewal term follows the current term"
	case starts.After(expires.Time):
		r.Severity, r.Title = domain.SeverityWarning, "Coverage gap between terms"
		r.Message = fmt.Sprintf("Current term expires %s but the renewal starts %s", expires, starts)
	default:
		r.Severity, r.Title = domain.SeverityWarning, "Renewal term overlaps the current term"
		r.Message = fmt.Sprintf("Current term expires %s but the renewal starts %s", expires, starts)
	}
	return r, nil
}

func renewalPremiumPresent(rc *RuleContext) (*domain.CheckResult, error) {
	r := &domain.CheckResult{RuleID: RuleRenewalPremiumPresent, Category: categoryPremium, Field: "premium"}
	if rc.Renewal.Premium.Valid {
		r.Severity, r.Title = domain.SeverityUnchanged, "Renewal premium present"
		r.RenewalValue = rc.Renewal.Premium.Decimal.StringFixed(2)
		return r, nil
	}
	r.Severity = domain.SeverityCritical
	r.Blocking = true
	r.Title = "Renewal premium missing"
	r.Message = "The carrier did not send a premium for the renewal term"
	return r, nil
}

func disclosurePresent(rc *RuleContext) (*domain.CheckResult, error) {
	r := &domain.CheckResult{RuleID: RuleDisclosurePresent, Category: categoryCompliance, Field: "disclosures"}

	present := make(map[string]struct{}, len(rc.Renewal.Disclosures))
	for _, d := range rc.Renewal.Disclosures {
		present[strings.ToUpper(strings.TrimSpace(d))] = struct{}{}
	}

	var missing []string
	for _, required := range rc.Metadata.RequiredDisclosures {
		key := strings.ToUpper(strings.TrimSpace(required))
		if _, ok := present[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)

	switch {
	case len(missing) > 0:
		r.Severity = domain.SeverityWarning
		r.Title = "Required disclosure missing"
		r.Message = "Missing: " + strings.Join(missing, ", ")
	case len(present) == 0:
		r.Severity = domain.SeverityInfo
		r.Title = "Renewal carries no disclosure forms"
	default:
		r.Severity = domain.SeverityUnchanged
		r.Title = "Disclosures present"
		r.RenewalValue = strings.Join(rc.Renewal.Disclosures, ", ")
	}
	return r, nil
}
