package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/agencyops/renewal-engine/internal/al3"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/store"
	"github.com/agencyops/renewal-engine/internal/store/schema"
)

// ArchiveResult reports how many rows were newly written
type ArchiveResult struct {
	Archived int `json:"archived"`
}

// Writer persists AL3 transactions that never enter the renewal pipeline
//
//go:generate mockgen -source=writer.go -destination=../mocks/archive_writer.go -package=mocks -mock_names=Writer=MockArchiveWriter
type Writer interface {
	// Archive bulk-inserts non-renewal transactions of a batch. An empty batch is a no-op.
	Archive(ctx context.Context, tenantID, batchID string, transactions []al3.Transaction) (*ArchiveResult, error)
	// Quarantine archives renewal transactions rejected at the ingestion boundary, with their reason
	Quarantine(ctx context.Context, tenantID, batchID string, rejected []al3.Quarantined) (*ArchiveResult, error)
}

type writer struct {
	store store.Store
}

// NewWriter creates an archive writer
func NewWriter(st store.Store) Writer {
	return &writer{store: st}
}

func (w *writer) Archive(ctx context.Context, tenantID, batchID string, transactions []al3.Transaction) (*ArchiveResult, error) {
	if len(transactions) == 0 {
		return &ArchiveResult{}, nil
	}
	if tenantID == "" || batchID == "" {
		return nil, fmt.Errorf("%w: tenantId and batchId are required", domain.ErrValidation)
	}

	rows := make([]schema.ArchivedAL3Transaction, 0, len(transactions))
	for _, tx := range transactions {
		row, err := toArchiveRow(tenantID, batchID, tx)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return w.write(ctx, tenantID, batchID, rows)
}

func (w *writer) Quarantine(ctx context.Context, tenantID, batchID string, rejected []al3.Quarantined) (*ArchiveResult, error) {
	if len(rejected) == 0 {
		return &ArchiveResult{}, nil
	}
	if tenantID == "" || batchID == "" {
		return nil, fmt.Errorf("%w: tenantId and batchId are required", domain.ErrValidation)
	}

	rows := make([]schema.ArchivedAL3Transaction, 0, len(rejected))
	for _, q := range rejected {
		row, err := toArchiveRow(tenantID, batchID, q.Transaction)
		if err != nil {
			return nil, err
		}
		row.Disposition = schema.ArchiveDispositionQuarantined
		row.Reason = q.Reason
		rows = append(rows, row)

		logger.WarnCtx(ctx, "Quarantined renewal transaction",
			zap.String("tenant_id", tenantID),
			zap.String("batch_id", batchID),
			zap.Int("sequence", q.Transaction.Sequence),
			zap.String("reason", q.Reason),
		)
	}

	return w.write(ctx, tenantID, batchID, rows)
}

func (w *writer) write(ctx context.Context, tenantID, batchID string, rows []schema.ArchivedAL3Transaction) (*ArchiveResult, error) {
	n, err := w.store.CreateArchivedTransactions(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to archive batch %s: %w", batchID, err)
	}

	logger.InfoCtx(ctx, "Archived AL3 transactions",
		zap.String("tenant_id", tenantID),
		zap.String("batch_id", batchID),
		zap.Int("submitted", len(rows)),
		zap.Int("archived", n),
	)

	return &ArchiveResult{Archived: n}, nil
}

func toArchiveRow(tenantID, batchID string, tx al3.Transaction) (schema.ArchivedAL3Transaction, error) {
	payload := tx.Raw
	if len(payload) == 0 {
		data, err := json.Marshal(tx)
		if err != nil {
			return schema.ArchivedAL3Transaction{}, fmt.Errorf("failed to marshal transaction %d: %w", tx.Sequence, err)
		}
		payload = data
	} else if !json.Valid(payload) {
		return schema.ArchivedAL3Transaction{}, fmt.Errorf("%w: transaction %d has an invalid raw payload", domain.ErrValidation, tx.Sequence)
	}

	row := schema.ArchivedAL3Transaction{
		TenantID:        tenantID,
		BatchID:         batchID,
		Sequence:        tx.Sequence,
		TransactionType: string(al3.NormalizeTransactionType(tx.Type)),
		PolicyNumber:    domain.NormalizePolicyNumber(tx.PolicyNumber),
		CarrierName:     tx.CarrierName,
		Disposition:     schema.ArchiveDispositionArchived,
		Payload:         datatypes.JSON(payload),
	}
	if tx.EffectiveDate != nil && !tx.EffectiveDate.IsZero() {
		t := tx.EffectiveDate.Time
		row.EffectiveDate = &t
	}
	if row.PolicyNumber == "" && tx.Snapshot != nil {
		row.PolicyNumber = domain.NormalizePolicyNumber(tx.Snapshot.PolicyNumber)
	}
	return row, nil
}
