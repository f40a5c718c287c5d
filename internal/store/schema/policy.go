package schema

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Customer represents the customers table - the insured parties of the agency
type Customer struct {
	ID              string    `gorm:"column:id;primaryKey;type:uuid"`
	TenantID        string    `gorm:"column:tenant_id;not null"`
	Name            string    `gorm:"column:name;not null"`
	Street          string    `gorm:"column:street;not null;default:''"`
	City            string    `gorm:"column:city;not null;default:''"`
	State           string    `gorm:"column:state;not null;default:''"`
	Zip             string    `gorm:"column:zip;not null;default:''"`
	AssignedAgentID *string   `gorm:"column:assigned_agent_id"`
	CreatedAt       time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// Policy represents the policies table - one row per locally stored policy term
type Policy struct {
	ID         string  `gorm:"column:id;primaryKey;type:uuid"`
	TenantID   string  `gorm:"column:tenant_id;not null"`
	CustomerID *string `gorm:"column:customer_id;type:uuid"`
	// PolicyNumber is stored normalized (upper case, no spaces or dashes)
	PolicyNumber   string              `gorm:"column:policy_number;not null"`
	CarrierName    string              `gorm:"column:carrier_name;not null"`
	LineOfBusiness string              `gorm:"column:line_of_business;not null;default:''"`
	InsuredName    string              `gorm:"column:insured_name;not null;default:''"`
	EffectiveDate  time.Time           `gorm:"column:effective_date;not null;type:date"`
	ExpirationDate *time.Time          `gorm:"column:expiration_date;type:date"`
	Premium        decimal.NullDecimal `gorm:"column:premium;type:numeric(12,2)"`
	// Disclosures is a JSON array of disclosure form identifiers
	Disclosures datatypes.JSON `gorm:"column:disclosures;not null;type:jsonb"`
	// PropertyContext is the JSON dwelling context for home lines ('null' otherwise)
	PropertyContext datatypes.JSON `gorm:"column:property_context;not null;type:jsonb"`
	CreatedAt       time.Time      `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Policy model
func (Policy) TableName() string {
	return "policies"
}

// PolicyCoverage represents the policy_coverages table - ordered coverage lines of a policy term
type PolicyCoverage struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	PolicyID     string `gorm:"column:policy_id;not null;type:uuid"`
	Position     int    `gorm:"column:position;not null"`
	CoverageType string `gorm:"column:coverage_type;not null"`
	LimitAmount  string `gorm:"column:limit_amount;not null;default:''"`
	Deductible   string `gorm:"column:deductible;not null;default:''"`
	Description  string `gorm:"column:description;not null;default:''"`
}

// TableName specifies the table name for the PolicyCoverage model
func (PolicyCoverage) TableName() string {
	return "policy_coverages"
}
