package schema

import (
	"time"

	"gorm.io/datatypes"
)

// PropertyLookup represents the property_lookups table - cached provider payloads per address
type PropertyLookup struct {
	// ID is the lookup identifier (UUID), exposed as propertyLookupId
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// AddressKey is the normalized address, unique
	AddressKey string `gorm:"column:address_key;not null;uniqueIndex"`
	// Address is the address as it was looked up
	Address string `gorm:"column:address;not null"`
	// RPRData is the raw RPR payload ('null' when the provider failed)
	RPRData datatypes.JSON `gorm:"column:rpr_data;not null;type:jsonb"`
	// PropertyAPIData is the raw PropertyAPI payload ('null' when the provider failed)
	PropertyAPIData datatypes.JSON `gorm:"column:property_api_data;not null;type:jsonb"`
	// NearmapData is the raw Nearmap AI payload ('null' when the provider failed)
	NearmapData datatypes.JSON `gorm:"column:nearmap_data;not null;type:jsonb"`
	// Latitude is the geocoded latitude
	Latitude *float64 `gorm:"column:latitude"`
	// Longitude is the geocoded longitude
	Longitude *float64 `gorm:"column:longitude"`
	// FetchedAt is when the providers were called
	FetchedAt time.Time `gorm:"column:fetched_at;not null;type:timestamptz"`
	// ExpiresAt is when the payloads stop being reused
	ExpiresAt time.Time `gorm:"column:expires_at;not null;type:timestamptz"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the PropertyLookup model
func (PropertyLookup) TableName() string {
	return "property_lookups"
}
