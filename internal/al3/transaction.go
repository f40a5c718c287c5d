package al3

import (
	"encoding/json"
	"strings"

	"github.com/agencyops/renewal-engine/internal/domain"
)

// TransactionType is the AL3 transaction code carried in the group header
type TransactionType string

const (
	TransactionTypeRenewal        TransactionType = "RWL"
	TransactionTypeRenewalQuote   TransactionType = "RWQ"
	TransactionTypeNewBusiness    TransactionType = "NBS"
	TransactionTypePolicyChange   TransactionType = "PCH"
	TransactionTypeEndorsement    TransactionType = "END"
	TransactionTypeCancellation   TransactionType = "XLN"
	TransactionTypeReinstatement  TransactionType = "REI"
	TransactionTypeNonRenewal     TransactionType = "NRW"
	TransactionTypeCommission     TransactionType = "COM"
	TransactionTypeAccountCurrent TransactionType = "ACT"
)

// NormalizeTransactionType upper-cases and trims a raw transaction code
func NormalizeTransactionType(raw string) TransactionType {
	return TransactionType(strings.ToUpper(strings.TrimSpace(raw)))
}

// IsRenewal reports whether the transaction feeds the renewal pipeline
func (t TransactionType) IsRenewal() bool {
	return t == TransactionTypeRenewal || t == TransactionTypeRenewalQuote
}

// Transaction is one already-parsed AL3 transaction of a download batch
type Transaction struct {
	// Sequence is the position of the transaction within the batch
	Sequence int `json:"sequence"`
	// Type is the AL3 transaction code
	Type string `json:"type"`
	// PolicyNumber as sent by the carrier
	PolicyNumber string `json:"policyNumber,omitempty"`
	// CarrierName as sent by the carrier
	CarrierName string `json:"carrierName,omitempty"`
	// EffectiveDate is the transaction effective date
	EffectiveDate *domain.Date `json:"effectiveDate,omitempty"`
	// LineOfBusinessCode is the raw AL3 line of business code (AUTOP, HOME, ...)
	LineOfBusinessCode string `json:"lineOfBusinessCode,omitempty"`
	// Snapshot is the policy term the transaction describes; required for renewals
	Snapshot *domain.PolicySnapshot `json:"snapshot,omitempty"`
	// Raw is the parsed transaction body kept for the archive
	Raw json.RawMessage `json:"raw,omitempty"`
}

// Batch is an AL3 download batch for one tenant
type Batch struct {
	TenantID     string        `json:"tenantId"`
	BatchID      string        `json:"batchId"`
	Transactions []Transaction `json:"transactions"`
}
