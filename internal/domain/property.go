package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VerificationStatus is the state of a property verification envelope
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusComplete VerificationStatus = "complete"
)

// VerificationSources records which providers contributed data
type VerificationSources struct {
	RPR         bool `json:"rpr"`
	PropertyAPI bool `json:"propertyApi"`
	Nearmap     bool `json:"nearmap"`
}

// Any reports whether at least one provider contributed
func (s VerificationSources) Any() bool {
	return s.RPR || s.PropertyAPI || s.Nearmap
}

// GeoPoint is a WGS84 coordinate
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PublicPropertyData is the merged view of public property records and imagery
type PublicPropertyData struct {
	YearBuilt          *int                `json:"yearBuilt,omitempty"`
	SquareFeet         *int                `json:"squareFeet,omitempty"`
	Stories            *int                `json:"stories,omitempty"`
	Bedrooms           *int                `json:"bedrooms,omitempty"`
	Bathrooms          *float64            `json:"bathrooms,omitempty"`
	ListingStatus      string              `json:"listingStatus,omitempty"`
	LastSaleDate       *Date               `json:"lastSaleDate,omitempty"`
	LastSalePrice      decimal.NullDecimal `json:"lastSalePrice"`
	RoofConditionScore *float64            `json:"roofConditionScore,omitempty"`
	PoolDetected       *bool               `json:"poolDetected,omitempty"`
	TrampolineDetected *bool               `json:"trampolineDetected,omitempty"`
}

// PropertyVerification is the envelope cached on a comparison after verification
type PropertyVerification struct {
	Status           VerificationStatus  `json:"status"`
	VerifiedAt       *time.Time          `json:"verifiedAt,omitempty"`
	PropertyLookupID string              `json:"propertyLookupId,omitempty"`
	Address          string              `json:"address"`
	Sources          VerificationSources `json:"sources"`
	PublicData       PublicPropertyData  `json:"publicData"`
	Location         *GeoPoint           `json:"location,omitempty"`
	CheckCount       int                 `json:"checkCount"`
}

// IsComplete reports whether the envelope can be served without recomputation
func (p *PropertyVerification) IsComplete() bool {
	return p != nil && p.Status == VerificationStatusComplete
}
