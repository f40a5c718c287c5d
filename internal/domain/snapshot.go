package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Address is a postal address of the insured or the insured location
type Address struct {
	Street string `json:"street" validate:"required"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty" validate:"omitempty,len=2"`
	Zip    string `json:"zip,omitempty"`
}

// IsZero reports whether the address has no street line
func (a *Address) IsZero() bool {
	return a == nil || strings.TrimSpace(a.Street) == ""
}

// String renders the address as a single line, e.g. "12 Oak St, Austin, TX 78701"
func (a Address) String() string {
	parts := make([]string, 0, 3)
	if s := strings.TrimSpace(a.Street); s != "" {
		parts = append(parts, s)
	}
	if c := strings.TrimSpace(a.City); c != "" {
		parts = append(parts, c)
	}
	stateZip := strings.TrimSpace(strings.TrimSpace(a.State) + " " + strings.TrimSpace(a.Zip))
	if stateZip != "" {
		parts = append(parts, stateZip)
	}
	return strings.Join(parts, ", ")
}

// Key returns the normalized form used to key the property lookup cache
func (a Address) Key() string {
	s := strings.ToLower(a.String())
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "#", "")
	return strings.Join(strings.Fields(s), " ")
}

// Coverage is one coverage line of a policy term
type Coverage struct {
	Type        string `json:"type" validate:"required"`
	LimitAmount string `json:"limitAmount,omitempty"`
	Deductible  string `json:"deductible,omitempty"`
	Description string `json:"description,omitempty"`
}

// PropertyContext carries dwelling facts for home and dwelling lines
type PropertyContext struct {
	YearBuilt        int    `json:"yearBuilt,omitempty" validate:"omitempty,gte=1700,lte=2100"`
	SquareFeet       int    `json:"squareFeet,omitempty" validate:"omitempty,gt=0"`
	Stories          int    `json:"stories,omitempty" validate:"omitempty,gt=0,lte=10"`
	ConstructionType string `json:"constructionType,omitempty"`
	RoofYear         int    `json:"roofYear,omitempty" validate:"omitempty,gte=1800,lte=2100"`
	HasPool          *bool  `json:"hasPool,omitempty"`
	HasTrampoline    *bool  `json:"hasTrampoline,omitempty"`
	Occupancy        string `json:"occupancy,omitempty" validate:"omitempty,oneof=owner tenant seasonal vacant"`
}

// PolicySnapshot is the state of a policy term, either reconstructed from local
// policy data (baseline) or supplied by the carrier (renewal).
// A snapshot attached to a comparison is never modified; re-runs attach a new value.
type PolicySnapshot struct {
	PolicyNumber    string              `json:"policyNumber" validate:"required"`
	CarrierName     string              `json:"carrierName" validate:"required"`
	LineOfBusiness  LineOfBusiness      `json:"lineOfBusiness,omitempty" validate:"omitempty,line_of_business"`
	InsuredName     string              `json:"insuredName,omitempty"`
	InsuredAddress  *Address            `json:"insuredAddress,omitempty"`
	EffectiveDate   *Date               `json:"effectiveDate,omitempty"`
	ExpirationDate  *Date               `json:"expirationDate,omitempty"`
	Premium         decimal.NullDecimal `json:"premium"`
	Coverages       []Coverage          `json:"coverages" validate:"dive"`
	Disclosures     []string            `json:"disclosures,omitempty"`
	PropertyContext *PropertyContext    `json:"propertyContext,omitempty"`
}

// Clone returns a deep copy so callers never share slices with a stored snapshot
func (s PolicySnapshot) Clone() PolicySnapshot {
	out := s
	if s.InsuredAddress != nil {
		addr := *s.InsuredAddress
		out.InsuredAddress = &addr
	}
	if s.EffectiveDate != nil {
		d := *s.EffectiveDate
		out.EffectiveDate = &d
	}
	if s.ExpirationDate != nil {
		d := *s.ExpirationDate
		out.ExpirationDate = &d
	}
	out.Coverages = append([]Coverage(nil), s.Coverages...)
	out.Disclosures = append([]string(nil), s.Disclosures...)
	if s.PropertyContext != nil {
		pc := *s.PropertyContext
		out.PropertyContext = &pc
	}
	return out
}

// NormalizePolicyNumber strips formatting so numbers entered by hand match carrier feeds
func NormalizePolicyNumber(policyNumber string) string {
	s := strings.ToUpper(strings.TrimSpace(policyNumber))
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}

// NormalizeCarrierName folds case and whitespace for carrier comparisons
func NormalizeCarrierName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
