package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/agencyops/renewal-engine/internal/al3"
	"github.com/agencyops/renewal-engine/internal/archive"
	"github.com/agencyops/renewal-engine/internal/baseline"
	"github.com/agencyops/renewal-engine/internal/comparison"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/renewal"
)

// DEFAULT_POOL_SIZE is the number of renewals processed at once when none is configured
const DEFAULT_POOL_SIZE = 8

// Config holds the batch processor settings
type Config struct {
	PoolSize  int
	QueueSize int
	// RequiredDisclosures lists the disclosure forms each line of business must carry on renewal
	RequiredDisclosures map[domain.LineOfBusiness][]string
}

// BatchResult counts what happened to each transaction of a batch
type BatchResult struct {
	TenantID    string `json:"tenantId"`
	BatchID     string `json:"batchId"`
	Renewals    int    `json:"renewals"`
	Created     int    `json:"created"`
	Upgraded    int    `json:"upgraded"`
	Duplicates  int    `json:"duplicates"`
	Failed      int    `json:"failed"`
	Archived    int    `json:"archived"`
	Quarantined int    `json:"quarantined"`
}

// Processor runs an AL3 batch through classification, archiving and the renewal pipeline
//
//go:generate mockgen -source=processor.go -destination=../mocks/ingest_processor.go -package=mocks -mock_names=Processor=MockProcessor
type Processor interface {
	// ProcessBatch fails only for an invalid batch or a canceled context.
	// Archive and per-renewal failures are logged and counted.
	ProcessBatch(ctx context.Context, batch al3.Batch) (*BatchResult, error)
}

type processor struct {
	config   Config
	archive  archive.Writer
	baseline baseline.Builder
	engine   comparison.Engine
	manager  renewal.Manager
}

// NewProcessor creates a batch processor
func NewProcessor(cfg Config, writer archive.Writer, builder baseline.Builder, engine comparison.Engine, manager renewal.Manager) Processor {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DEFAULT_POOL_SIZE
	}
	return &processor{
		config:   cfg,
		archive:  writer,
		baseline: builder,
		engine:   engine,
		manager:  manager,
	}
}

func (p *processor) ProcessBatch(ctx context.Context, batch al3.Batch) (*BatchResult, error) {
	if batch.TenantID == "" || batch.BatchID == "" {
		return nil, fmt.Errorf("%w: tenantId and batchId are required", domain.ErrValidation)
	}

	fields := []zap.Field{zap.String("tenant_id", batch.TenantID), zap.String("batch_id", batch.BatchID)}
	classification := al3.Classify(batch.Transactions)
	result := &BatchResult{
		TenantID: batch.TenantID,
		BatchID:  batch.BatchID,
		Renewals: len(classification.Renewals),
	}

	logger.InfoCtx(ctx, "Processing AL3 batch",
		append(fields,
			zap.Int("transactions", len(batch.Transactions)),
			zap.Int("renewals", len(classification.Renewals)),
			zap.Int("archive", len(classification.Archive)),
			zap.Int("quarantined", len(classification.Quarantined)))...)

	if archived, err := p.archive.Archive(ctx, batch.TenantID, batch.BatchID, classification.Archive); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to archive transactions: %w", err), fields...)
	} else {
		result.Archived = archived.Archived
	}
	if quarantined, err := p.archive.Quarantine(ctx, batch.TenantID, batch.BatchID, classification.Quarantined); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to quarantine transactions: %w", err), fields...)
	} else {
		result.Quarantined = quarantined.Archived
	}

	if err := p.processRenewals(ctx, batch, classification.Renewals, result); err != nil {
		return result, err
	}

	logger.InfoCtx(ctx, "AL3 batch processed",
		append(fields,
			zap.Int("created", result.Created),
			zap.Int("upgraded", result.Upgraded),
			zap.Int("duplicates", result.Duplicates),
			zap.Int("failed", result.Failed),
			zap.Int("archived", result.Archived),
			zap.Int("quarantined", result.Quarantined))...)

	return result, nil
}

func (p *processor) processRenewals(ctx context.Context, batch al3.Batch, renewals []al3.Renewal, result *BatchResult) error {
	if len(renewals) == 0 {
		return nil
	}

	var created, upgraded, duplicates, failed atomic.Int32
	pool := pond.NewPool(p.config.PoolSize, pond.WithQueueSize(p.config.QueueSize), pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for _, r := range renewals {
		r := r
		group.Submit(func() {
			res, err := p.processRenewal(ctx, batch, r)
			if err != nil {
				failed.Add(1)
				logger.ErrorCtx(ctx, fmt.Errorf("failed to process renewal: %w", err),
					append(logger.Policy(batch.TenantID, r.Snapshot.PolicyNumber, r.Snapshot.CarrierName),
						zap.String("batch_id", batch.BatchID),
						zap.Int("sequence", r.Transaction.Sequence))...)
				return
			}
			switch {
			case res.Duplicate:
				duplicates.Add(1)
			case res.Upgraded:
				upgraded.Add(1)
			default:
				created.Add(1)
			}
		})
	}
	waitErr := group.Wait()

	result.Created = int(created.Load())
	result.Upgraded = int(upgraded.Load())
	result.Duplicates = int(duplicates.Load())
	result.Failed = int(failed.Load())

	if waitErr != nil && errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("batch %s interrupted: %w", batch.BatchID, ctx.Err())
	}
	return nil
}

// processRenewal runs one renewal through baseline, engine and record manager
func (p *processor) processRenewal(ctx context.Context, batch al3.Batch, r al3.Renewal) (*renewal.CreateResult, error) {
	carrier := r.Snapshot.CarrierName
	effective := r.EffectiveDate

	found, err := p.baseline.Build(ctx, baseline.BuildInput{
		TenantID:             batch.TenantID,
		PolicyNumber:         r.Snapshot.PolicyNumber,
		CarrierName:          &carrier,
		RenewalEffectiveDate: &effective,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build baseline: %w", err)
	}

	input := comparison.Input{
		Renewal: r.Snapshot,
		Metadata: comparison.Metadata{
			CarrierName:         carrier,
			LineOfBusiness:      r.Snapshot.LineOfBusiness,
			RequiredDisclosures: p.config.RequiredDisclosures[r.Snapshot.LineOfBusiness],
		},
	}
	create := renewal.CreateInput{
		TenantID:             batch.TenantID,
		Renewal:              r.Snapshot,
		RenewalEffectiveDate: &effective,
		Source:               domain.RenewalSourceAL3,
		TransactionType:      string(al3.NormalizeTransactionType(r.Transaction.Type)),
		BatchID:              batch.BatchID,
	}
	if found != nil {
		input.Baseline = &found.Snapshot
		create.Baseline = &found.Snapshot
		policyID := found.PolicyID
		create.PolicyID = &policyID
		create.CustomerID = found.CustomerID
		create.AssignedAgentID = found.AssignedAgentID
	}

	compared, err := p.engine.Compare(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to compare renewal: %w", err)
	}
	create.Result = compared

	return p.manager.CreateOrUpgrade(ctx, create)
}
