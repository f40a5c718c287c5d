package al3

import (
	"fmt"
	"strings"

	"github.com/agencyops/renewal-engine/internal/domain"
)

// Renewal is a renewal transaction whose snapshot passed validation
type Renewal struct {
	Transaction Transaction
	// Snapshot is the normalized renewal snapshot
	Snapshot domain.PolicySnapshot
	// EffectiveDate is the renewal effective date, taken from the snapshot or the transaction header
	EffectiveDate domain.Date
}

// Quarantined is a renewal transaction rejected at the ingestion boundary
type Quarantined struct {
	Transaction Transaction
	Reason      string
}

// Classification is the result of splitting a batch
type Classification struct {
	Renewals    []Renewal
	Archive     []Transaction
	Quarantined []Quarantined
}

// Classify routes every transaction of a batch to the renewal pipeline, the archive, or quarantine.
// Routing is by transaction type; renewals without a valid snapshot are quarantined.
func Classify(transactions []Transaction) Classification {
	var c Classification
	for _, tx := range transactions {
		if !NormalizeTransactionType(tx.Type).IsRenewal() {
			c.Archive = append(c.Archive, tx)
			continue
		}

		renewal, err := toRenewal(tx)
		if err != nil {
			c.Quarantined = append(c.Quarantined, Quarantined{Transaction: tx, Reason: err.Error()})
			continue
		}
		c.Renewals = append(c.Renewals, *renewal)
	}
	return c
}

func toRenewal(tx Transaction) (*Renewal, error) {
	if tx.Snapshot == nil {
		return nil, fmt.Errorf("%w: renewal transaction has no snapshot", domain.ErrValidation)
	}

	snapshot := NormalizeSnapshot(*tx.Snapshot, tx.LineOfBusinessCode)
	if snapshot.PolicyNumber == "" {
		snapshot.PolicyNumber = strings.TrimSpace(tx.PolicyNumber)
	}
	if snapshot.CarrierName == "" {
		snapshot.CarrierName = strings.TrimSpace(tx.CarrierName)
	}
	if snapshot.EffectiveDate == nil && tx.EffectiveDate != nil {
		d := *tx.EffectiveDate
		snapshot.EffectiveDate = &d
	}

	if err := domain.ValidateSnapshot(snapshot); err != nil {
		return nil, err
	}
	if snapshot.EffectiveDate == nil || snapshot.EffectiveDate.IsZero() {
		return nil, fmt.Errorf("%w: renewal effective date is missing", domain.ErrValidation)
	}

	return &Renewal{
		Transaction:   tx,
		Snapshot:      snapshot,
		EffectiveDate: *snapshot.EffectiveDate,
	}, nil
}
