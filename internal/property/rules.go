package property

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/agencyops/renewal-engine/internal/domain"
)

// Property verification rule identifiers
const (
	RuleYearBuilt     = "PV-YEAR-BUILT"
	RuleSquareFeet    = "PV-SQUARE-FEET"
	RuleStories       = "PV-STORIES"
	RuleListingStatus = "PV-LISTING-STATUS"
	RuleRecentSale    = "PV-RECENT-SALE"
	RuleRoofCondition = "PV-ROOF-CONDITION"
	RulePool          = "PV-POOL"
	RuleTrampoline    = "PV-TRAMPOLINE"
)

const categoryProperty = "property"

const (
	yearBuiltWarningYears = 5
	squareFeetInfoRatio   = 0.05
	squareFeetWarnRatio   = 0.20
	recentSaleWindow      = 365 * 24 * time.Hour
	roofCriticalScore     = 40.0
	roofWarningScore      = 60.0
)

// listingStatuses that mean the dwelling is on the market
var listingStatuses = map[string]bool{
	"active":      true,
	"for_sale":    true,
	"pending":     true,
	"contingent":  true,
	"coming_soon": true,
}

// Evaluate runs the property rules over public data and the policy's dwelling facts.
// A rule without public data for its field produces nothing.
func Evaluate(public domain.PublicPropertyData, pc *domain.PropertyContext, now time.Time) []domain.CheckResult {
	if pc == nil {
		pc = &domain.PropertyContext{}
	}

	results := make([]domain.CheckResult, 0, 8)
	add := func(r *domain.CheckResult) {
		if r != nil {
			r.Category = categoryProperty
			results = append(results, *r)
		}
	}

	add(yearBuilt(public, pc))
	add(squareFeet(public, pc))
	add(stories(public, pc))
	add(listingStatus(public))
	add(recentSale(public, now))
	add(roofCondition(public))
	add(undisclosedFeature(RulePool, "Pool", public.PoolDetected, pc.HasPool))
	add(undisclosedFeature(RuleTrampoline, "Trampoline", public.TrampolineDetected, pc.HasTrampoline))

	return results
}

func yearBuilt(public domain.PublicPropertyData, pc *domain.PropertyContext) *domain.CheckResult {
	if public.YearBuilt == nil {
		return nil
	}
	r := &domain.CheckResult{
		RuleID:       RuleYearBuilt,
		Field:        "propertyContext.yearBuilt",
		Title:        "Year built",
		RenewalValue: strconv.Itoa(*public.YearBuilt),
	}
	if pc.YearBuilt == 0 {
		r.Severity = domain.SeverityInfo
		r.Message = fmt.Sprintf("Public records show year built %d; the policy has none on file", *public.YearBuilt)
		return r
	}
	r.BaselineValue = strconv.Itoa(pc.YearBuilt)
	diff := absInt(pc.YearBuilt - *public.YearBuilt)
	switch {
	case diff == 0:
		r.Severity = domain.SeverityUnchanged
		r.Message = "Year built matches public records"
	case diff > yearBuiltWarningYears:
		r.Severity = domain.SeverityWarning
		r.Message = fmt.Sprintf("Policy year built %d differs from public records %d by %d years", pc.YearBuilt, *public.YearBuilt, diff)
	default:
		r.Severity = domain.SeverityInfo
		r.Message = fmt.Sprintf("Policy year built %d differs slightly from public records %d", pc.YearBuilt, *public.YearBuilt)
	}
	return r
}

func squareFeet(public domain.PublicPropertyData, pc *domain.PropertyContext) *domain.CheckResult {
	if public.SquareFeet == nil || *public.SquareFeet <= 0 {
		return nil
	}
	r := &domain.CheckResult{
		RuleID:       RuleSquareFeet,
		Field:        "propertyContext.squareFeet",
		Title:        "Living area",
		RenewalValue: strconv.Itoa(*public.SquareFeet),
	}
	if pc.SquareFeet == 0 {
		r.Severity = domain.SeverityInfo
		r.Message = fmt.Sprintf("Public records show %d sq ft; the policy has none on file", *public.SquareFeet)
		return r
	}
	r.BaselineValue = strconv.Itoa(pc.SquareFeet)
	ratio := math.Abs(float64(pc.SquareFeet-*public.SquareFeet)) / float64(*public.SquareFeet)
	switch {
	case ratio > squareFeetWarnRatio:
		r.Severity = domain.SeverityWarning
		r.Message = fmt.Sprintf("Policy living area %d sq ft differs from public records %d sq ft by %.0f%%", pc.SquareFeet, *public.SquareFeet, ratio*100)
	case ratio > squareFeetInfoRatio:
		r.Severity = domain.SeverityInfo
		r.Message = fmt.Sprintf("Policy living area %d sq ft differs slightly from public records %d sq ft", pc.SquareFeet, *public.SquareFeet)
	default:
		r.Severity = domain.SeverityUnchanged
		r.Message = "Living area matches public records"
	}
	return r
}

func stories(public domain.PublicPropertyData, pc *domain.PropertyContext) *domain.CheckResult {
	if public.Stories == nil || pc.Stories == 0 {
		return nil
	}
	r := &domain.CheckResult{
		RuleID:        RuleStories,
		Field:         "propertyContext.stories",
		Title:         "Stories",
		BaselineValue: strconv.Itoa(pc.Stories),
		RenewalValue:  strconv.Itoa(*public.Stories),
		Severity:      domain.SeverityUnchanged,
		Message:       "Number of stories matches public records",
	}
	if pc.Stories != *public.Stories {
		r.Severity = domain.SeverityWarning
		r.Message = fmt.Sprintf("Policy lists %d stories, public records show %d", pc.Stories, *public.Stories)
	}
	return r
}

func listingStatus(public domain.PublicPropertyData) *domain.CheckResult {
	if public.ListingStatus == "" {
		return nil
	}
	r := &domain.CheckResult{
		RuleID:       RuleListingStatus,
		Field:        "publicData.listingStatus",
		Title:        "Listing status",
		RenewalValue: public.ListingStatus,
		Severity:     domain.SeverityUnchanged,
		Message:      "Property is not listed for sale",
	}
	if listingStatuses[public.ListingStatus] {
		r.Severity = domain.SeverityCritical
		r.Message = fmt.Sprintf("Property is currently listed (%s); confirm occupancy and ownership before renewing", public.ListingStatus)
	}
	return r
}

func recentSale(public domain.PublicPropertyData, now time.Time) *domain.CheckResult {
	if public.LastSaleDate == nil {
		return nil
	}
	r := &domain.CheckResult{
		RuleID:       RuleRecentSale,
		Field:        "publicData.lastSaleDate",
		Title:        "Recent sale",
		RenewalValue: public.LastSaleDate.String(),
		Severity:     domain.SeverityUnchanged,
		Message:      "No sale in the last 12 months",
	}
	if now.Sub(public.LastSaleDate.Time) <= recentSaleWindow {
		r.Severity = domain.SeverityWarning
		r.Message = fmt.Sprintf("Property sold on %s; verify the named insured still owns it", public.LastSaleDate)
		if public.LastSalePrice.Valid {
			r.Message += fmt.Sprintf(" (sale price %s)", public.LastSalePrice.Decimal.StringFixed(2))
		}
	}
	return r
}

func roofCondition(public domain.PublicPropertyData) *domain.CheckResult {
	if public.RoofConditionScore == nil {
		return nil
	}
	score := *public.RoofConditionScore
	r := &domain.CheckResult{
		RuleID:       RuleRoofCondition,
		Field:        "publicData.roofConditionScore",
		Title:        "Roof condition",
		RenewalValue: strconv.FormatFloat(score, 'f', 1, 64),
	}
	switch {
	case score < roofCriticalScore:
		r.Severity = domain.SeverityCritical
		r.Message = fmt.Sprintf("Aerial imagery rates the roof at %.1f; an inspection is required", score)
	case score < roofWarningScore:
		r.Severity = domain.SeverityWarning
		r.Message = fmt.Sprintf("Aerial imagery rates the roof at %.1f", score)
	default:
		r.Severity = domain.SeverityUnchanged
		r.Message = "Roof condition is acceptable"
	}
	return r
}

// undisclosedFeature flags a liability feature seen in public data that the policy does not declare
func undisclosedFeature(ruleID, name string, detected, declared *bool) *domain.CheckResult {
	if detected == nil {
		return nil
	}
	r := &domain.CheckResult{
		RuleID:       ruleID,
		Field:        "propertyContext.has" + name,
		Title:        name,
		RenewalValue: strconv.FormatBool(*detected),
		Severity:     domain.SeverityUnchanged,
		Message:      name + " declaration is consistent with public data",
	}
	if declared != nil {
		r.BaselineValue = strconv.FormatBool(*declared)
	}
	if *detected && (declared == nil || !*declared) {
		r.Severity = domain.SeverityWarning
		r.Message = name + " detected on the property but not declared on the policy"
	}
	return r
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
