package schema

import (
	"time"

	"gorm.io/datatypes"
)

// ArchiveDisposition records why a transaction was archived
type ArchiveDisposition string

const (
	// ArchiveDispositionArchived is a non-renewal transaction kept for compliance
	ArchiveDispositionArchived ArchiveDisposition = "archived"
	// ArchiveDispositionQuarantined is a renewal transaction rejected at the ingestion boundary
	ArchiveDispositionQuarantined ArchiveDisposition = "quarantined"
)

// ArchivedAL3Transaction represents the archived_al3_transactions table - write-once AL3 records
type ArchivedAL3Transaction struct {
	// ID is an auto-incrementing sequence number
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TenantID is the agency the batch was downloaded for
	TenantID string `gorm:"column:tenant_id;not null"`
	// BatchID identifies the AL3 download batch
	BatchID string `gorm:"column:batch_id;not null"`
	// Sequence is the position of the transaction within the batch
	Sequence int `gorm:"column:sequence;not null"`
	// TransactionType is the AL3 transaction code (NBS, PCH, END, ...)
	TransactionType string `gorm:"column:transaction_type;not null"`
	// PolicyNumber is the normalized policy number, if present
	PolicyNumber string `gorm:"column:policy_number;not null;default:''"`
	// CarrierName is the carrier, if present
	CarrierName string `gorm:"column:carrier_name;not null;default:''"`
	// EffectiveDate is the transaction effective date, if present
	EffectiveDate *time.Time `gorm:"column:effective_date;type:date"`
	// Disposition is archived or quarantined
	Disposition ArchiveDisposition `gorm:"column:disposition;not null;default:archived"`
	// Reason explains a quarantine
	Reason string `gorm:"column:reason;not null;default:''"`
	// Payload is the parsed transaction as JSON
	Payload datatypes.JSON `gorm:"column:payload;not null;type:jsonb"`
	// ArchivedAt is the timestamp when the row was written
	ArchivedAt time.Time `gorm:"column:archived_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ArchivedAL3Transaction model
func (ArchivedAL3Transaction) TableName() string {
	return "archived_al3_transactions"
}
