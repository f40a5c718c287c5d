package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/agencyops/renewal-engine/internal/comparison"
	"github.com/agencyops/renewal-engine/internal/config"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/store/schema"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// naturalKeyColumns is the uniqueness constraint of renewal_comparisons
var naturalKeyColumns = []clause.Column{
	{Name: "tenant_id"},
	{Name: "policy_number"},
	{Name: "carrier_name"},
	{Name: "renewal_effective_date"},
}

type pgStore struct {
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Open connects to PostgreSQL, configures the pool and registers the read replica when one is configured
func Open(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.ReadHost != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(cfg.ReadDSN())},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("failed to register read replica: %w", err)
		}
	}

	if err := ConfigureConnectionPool(db, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime); err != nil {
		return nil, err
	}

	return db, nil
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// calculateSafeBatchSize computes the batch size for bulk inserts that stays under
// PostgreSQL's limit of 65535 parameters per statement.
//
// The headroom covers batch-level overhead such as ON CONFLICT parameters and
// GORM-added timestamp fields.
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000

	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return totalRecords
	}

	return safeBatchSize
}

// isUniqueViolation reports whether err is a unique constraint violation
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// Ping checks database connectivity
func (s *pgStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// FindBaselinePolicy returns the policy term a renewal replaces
func (s *pgStore) FindBaselinePolicy(ctx context.Context, filter BaselinePolicyFilter) (*PolicyRecord, error) {
	var policy schema.Policy

	q := s.db.WithContext(ctx).
		Where("tenant_id = ? AND policy_number = ?", filter.TenantID, filter.PolicyNumber)
	if filter.CarrierName != nil {
		q = q.Where("lower(carrier_name) = lower(?)", strings.TrimSpace(*filter.CarrierName))
	}
	if filter.Before != nil {
		q = q.Where("effective_date < ?::date", filter.Before.String())
	}

	err := q.Order("effective_date DESC").Order("created_at DESC").Order("id").First(&policy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find baseline policy: %w", err)
	}

	record := &PolicyRecord{Policy: policy}

	if err := s.db.WithContext(ctx).
		Where("policy_id = ?", policy.ID).
		Order("position ASC").
		Find(&record.Coverages).Error; err != nil {
		return nil, fmt.Errorf("failed to get policy coverages: %w", err)
	}

	if policy.CustomerID != nil {
		var customer schema.Customer
		err := s.db.WithContext(ctx).
			Where("id = ? AND tenant_id = ?", *policy.CustomerID, filter.TenantID).
			First(&customer).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get customer: %w", err)
		}
		if err == nil {
			record.Customer = &customer
		}
	}

	return record, nil
}

// UpsertComparisonByNaturalKey creates or upgrades a comparison in a single transaction:
//  1. a pending_manual_renewal placeholder matching (tenant, policy number, renewal effective date),
//     regardless of carrier, is upgraded in place and keeps its id
//  2. otherwise the row is inserted with ON CONFLICT DO NOTHING on the natural key
//  3. a dropped insert, or an upgrade that collides with the natural key, resolves to the existing row as a duplicate
//
// Audit events and the service request outbox row commit with a new or upgraded comparison only.
func (s *pgStore) UpsertComparisonByNaturalKey(ctx context.Context, input UpsertComparisonInput) (*UpsertComparisonResult, error) {
	row, err := toComparisonRow(&input.Comparison)
	if err != nil {
		return nil, err
	}
	effectiveDate := input.Comparison.RenewalEffectiveDate.String()

	var result *UpsertComparisonResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Placeholder upgrade
		upgradedID, err := s.upgradePlaceholder(tx, &input.Comparison, row, effectiveDate)
		if err != nil {
			return err
		}
		if upgradedID != "" {
			result = &UpsertComparisonResult{ComparisonID: upgradedID, Upgraded: true}
		}

		// 2. Conflict-tolerant insert
		if result == nil {
			row.ID = uuid.NewString()
			insert := tx.Clauses(clause.OnConflict{
				Columns:   naturalKeyColumns,
				DoNothing: true,
			}).Create(row)
			if insert.Error != nil {
				return fmt.Errorf("failed to insert comparison: %w", insert.Error)
			}
			if insert.RowsAffected > 0 {
				result = &UpsertComparisonResult{ComparisonID: row.ID}
			}
		}

		// 3. Duplicate fallback
		if result == nil {
			existingID, err := s.findComparisonIDByNaturalKey(tx, row, effectiveDate)
			if err != nil {
				return err
			}
			result = &UpsertComparisonResult{ComparisonID: existingID, Duplicate: true}
			return nil
		}

		if len(input.Events) > 0 {
			rows := make([]schema.RenewalAuditLog, 0, len(input.Events))
			for _, e := range input.Events {
				rows = append(rows, toAuditRow(row.TenantID, result.ComparisonID, e))
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to append audit events: %w", err)
			}
		}

		if input.ServiceRequest != nil {
			return s.queueServiceRequest(ctx, tx, input.ServiceRequest, row.TenantID, result.ComparisonID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// upgradePlaceholder replaces a placeholder's computed fields and returns its id, or "" when
// there is no placeholder or the upgrade would collide with an existing row.
// Property verification results already merged into the placeholder survive the upgrade.
func (s *pgStore) upgradePlaceholder(tx *gorm.DB, c *domain.RenewalComparison, row *schema.RenewalComparison, effectiveDate string) (string, error) {
	var placeholder schema.RenewalComparison
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "check_results").
		Where("tenant_id = ? AND policy_number = ? AND renewal_effective_date = ?::date AND status = ?",
			row.TenantID, row.PolicyNumber, effectiveDate, string(domain.StatusPendingManualRenewal)).
		Order("created_at ASC").
		Order("id").
		First(&placeholder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to find placeholder: %w", err)
	}

	checkResults, checkSummary, recommendation, err := keepPropertyResults(c, &placeholder, row)
	if err != nil {
		return "", err
	}

	// The carrier name may change here, which can collide with another row under the natural key
	if err := tx.SavePoint("placeholder_upgrade").Error; err != nil {
		return "", fmt.Errorf("failed to create savepoint: %w", err)
	}

	updates := map[string]interface{}{
		"carrier_name":           row.CarrierName,
		"line_of_business":       row.LineOfBusiness,
		"current_premium":        row.CurrentPremium,
		"renewal_premium":        row.RenewalPremium,
		"premium_change_amount":  row.PremiumChangeAmount,
		"premium_change_percent": row.PremiumChangePercent,
		"baseline_snapshot":      row.BaselineSnapshot,
		"renewal_snapshot":       row.RenewalSnapshot,
		"renewal_fingerprint":    row.RenewalFingerprint,
		"material_changes":       row.MaterialChanges,
		"check_results":          checkResults,
		"check_summary":          checkSummary,
		"recommendation":         recommendation,
		"status":                 row.Status,
		"renewal_source":         row.RenewalSource,
		"updated_at":             time.Now().UTC(),
	}
	// Foreign references already set on the placeholder are kept when the new data has none
	if row.CustomerID != nil {
		updates["customer_id"] = row.CustomerID
	}
	if row.PolicyID != nil {
		updates["policy_id"] = row.PolicyID
	}
	if row.AssignedAgentID != nil {
		updates["assigned_agent_id"] = row.AssignedAgentID
	}

	res := tx.Model(&schema.RenewalComparison{}).
		Where("id = ? AND status = ?", placeholder.ID, string(domain.StatusPendingManualRenewal)).
		Updates(updates)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			if err := tx.RollbackTo("placeholder_upgrade").Error; err != nil {
				return "", fmt.Errorf("failed to roll back placeholder upgrade: %w", err)
			}
			logger.Warn("Placeholder upgrade collides with an existing comparison",
				zap.String("placeholder_id", placeholder.ID),
				zap.String("tenant_id", row.TenantID),
				zap.String("policy_number", row.PolicyNumber))
			return "", nil
		}
		return "", fmt.Errorf("failed to upgrade placeholder: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", nil
	}

	return placeholder.ID, nil
}

// keepPropertyResults merges the placeholder's PV- results into the incoming check set and
// recomputes the summary and recommendation. Without PV- results the incoming columns are returned as is.
func keepPropertyResults(c *domain.RenewalComparison, placeholder, row *schema.RenewalComparison) (datatypes.JSON, datatypes.JSON, string, error) {
	if isJSONNull(placeholder.CheckResults) {
		return row.CheckResults, row.CheckSummary, row.Recommendation, nil
	}
	var existing []domain.CheckResult
	if err := json.Unmarshal(placeholder.CheckResults, &existing); err != nil {
		return nil, nil, "", fmt.Errorf("failed to unmarshal placeholder check results: %w", err)
	}
	verified := make([]domain.CheckResult, 0, len(existing))
	for _, r := range existing {
		if domain.IsPropertyRuleID(r.RuleID) {
			verified = append(verified, r)
		}
	}
	if len(verified) == 0 {
		return row.CheckResults, row.CheckSummary, row.Recommendation, nil
	}

	merged := *c
	merged.CheckResults = comparison.MergeResults(c.CheckResults, verified, domain.PROPERTY_RULE_PREFIX)
	merged.CheckSummary = comparison.Summarize(merged.CheckResults)
	merged.Recommendation = comparison.Recommend(merged.CheckSummary)

	checkResults, checkSummary, err := marshalChecks(&merged)
	if err != nil {
		return nil, nil, "", err
	}
	return checkResults, checkSummary, string(merged.Recommendation), nil
}

func (s *pgStore) findComparisonIDByNaturalKey(tx *gorm.DB, row *schema.RenewalComparison, effectiveDate string) (string, error) {
	var existing schema.RenewalComparison
	err := tx.Select("id").
		Where("tenant_id = ? AND policy_number = ? AND carrier_name = ? AND renewal_effective_date = ?::date",
			row.TenantID, row.PolicyNumber, row.CarrierName, effectiveDate).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Only possible when a placeholder collided with a row that has since been removed
			return "", fmt.Errorf("comparison vanished after conflict: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("failed to select existing comparison: %w", err)
	}
	return existing.ID, nil
}

// GetComparison retrieves a comparison by id within a tenant
func (s *pgStore) GetComparison(ctx context.Context, tenantID, comparisonID string) (*domain.RenewalComparison, error) {
	if _, err := uuid.Parse(comparisonID); err != nil {
		return nil, nil
	}

	var row schema.RenewalComparison
	query := func(db *gorm.DB) error {
		return db.WithContext(ctx).
			Where("id = ? AND tenant_id = ?", comparisonID, tenantID).
			First(&row).Error
	}

	err := query(s.db)
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) && hasDBResolver(s.db) {
		// Replica can lag behind primary; retry on primary before returning nil.
		err = query(s.db.Clauses(dbresolver.Write))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comparison: %w", err)
	}

	return toDomainComparison(&row)
}

// MutateComparison locks the row, applies the mutation and writes back the mutable fields
func (s *pgStore) MutateComparison(ctx context.Context, input MutateComparisonInput) (*domain.RenewalComparison, error) {
	if _, err := uuid.Parse(input.ComparisonID); err != nil {
		return nil, fmt.Errorf("comparison %s: %w", input.ComparisonID, domain.ErrNotFound)
	}

	var updated *domain.RenewalComparison
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row schema.RenewalComparison
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND tenant_id = ?", input.ComparisonID, input.TenantID).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("comparison %s: %w", input.ComparisonID, domain.ErrNotFound)
			}
			return fmt.Errorf("failed to lock comparison: %w", err)
		}

		c, err := toDomainComparison(&row)
		if err != nil {
			return err
		}
		previousStatus := c.Status

		events, err := input.Mutate(c)
		if err != nil {
			return err
		}

		checkResults, checkSummary, err := marshalChecks(c)
		if err != nil {
			return err
		}
		verification, err := marshalJSON(c.PropertyVerification)
		if err != nil {
			return fmt.Errorf("failed to marshal property verification: %w", err)
		}

		now := time.Now().UTC()
		res := tx.Model(&schema.RenewalComparison{}).
			Where("id = ? AND status = ?", row.ID, string(previousStatus)).
			Updates(map[string]interface{}{
				"check_results":         checkResults,
				"check_summary":         checkSummary,
				"recommendation":        string(c.Recommendation),
				"property_verification": verification,
				"status":                string(c.Status),
				"updated_at":            now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update comparison: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrStatusConflict
		}
		c.UpdatedAt = now

		if len(events) > 0 {
			rows := make([]schema.RenewalAuditLog, 0, len(events))
			for _, e := range events {
				rows = append(rows, toAuditRow(row.TenantID, row.ID, e))
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to append audit events: %w", err)
			}
		}

		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// AppendAuditEvents appends events to a comparison's audit log
func (s *pgStore) AppendAuditEvents(ctx context.Context, tenantID, comparisonID string, events []AuditEventInput) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]schema.RenewalAuditLog, 0, len(events))
	for _, e := range events {
		rows = append(rows, toAuditRow(tenantID, comparisonID, e))
	}

	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to append audit events: %w", err)
	}
	return nil
}

// ListAuditEvents returns audit events ordered by performed_at then id
func (s *pgStore) ListAuditEvents(ctx context.Context, filter AuditEventFilter) ([]domain.AuditEvent, error) {
	var rows []schema.RenewalAuditLog

	q := s.db.WithContext(ctx).
		Where("tenant_id = ? AND renewal_comparison_id = ?", filter.TenantID, filter.ComparisonID)
	if len(filter.EventTypes) > 0 {
		types := make([]string, 0, len(filter.EventTypes))
		for _, t := range filter.EventTypes {
			types = append(types, string(t))
		}
		q = q.Where("event_type IN ?", types)
	}

	if err := q.Order("performed_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}

	events := make([]domain.AuditEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, toDomainAuditEvent(row))
	}
	return events, nil
}

// CreateArchivedTransactions bulk-inserts archived transactions, skipping (batch_id, sequence) pairs already stored
func (s *pgStore) CreateArchivedTransactions(ctx context.Context, rows []schema.ArchivedAL3Transaction) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	// 11 inserted columns per row
	batchSize := calculateSafeBatchSize(len(rows), 11)

	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "batch_id"}, {Name: "sequence"}},
		DoNothing: true,
	}).CreateInBatches(&rows, batchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to archive transactions: %w", res.Error)
	}

	return int(res.RowsAffected), nil
}

// GetFreshPropertyLookup returns the cached lookup for an address if it has not expired
func (s *pgStore) GetFreshPropertyLookup(ctx context.Context, addressKey string, now time.Time) (*schema.PropertyLookup, error) {
	var lookup schema.PropertyLookup
	err := s.db.WithContext(ctx).
		Where("address_key = ? AND expires_at > ?", addressKey, now).
		First(&lookup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get property lookup: %w", err)
	}
	return &lookup, nil
}

// UpsertPropertyLookup writes provider payloads for an address; concurrent writers resolve last-write-wins
func (s *pgStore) UpsertPropertyLookup(ctx context.Context, input UpsertPropertyLookupInput) (*schema.PropertyLookup, error) {
	lookup := schema.PropertyLookup{
		ID:              uuid.NewString(),
		AddressKey:      input.AddressKey,
		Address:         input.Address,
		RPRData:         rawOrNull(input.RPRData),
		PropertyAPIData: rawOrNull(input.PropertyAPIData),
		NearmapData:     rawOrNull(input.NearmapData),
		FetchedAt:       input.FetchedAt,
		ExpiresAt:       input.ExpiresAt,
	}
	if input.Location != nil {
		lat, lng := input.Location.Lat, input.Location.Lng
		lookup.Latitude = &lat
		lookup.Longitude = &lng
	}

	// The existing id is kept so earlier propertyLookupId references stay valid
	err := s.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "address_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"address":           lookup.Address,
				"rpr_data":          lookup.RPRData,
				"property_api_data": lookup.PropertyAPIData,
				"nearmap_data":      lookup.NearmapData,
				"latitude":          lookup.Latitude,
				"longitude":         lookup.Longitude,
				"fetched_at":        lookup.FetchedAt,
				"expires_at":        lookup.ExpiresAt,
				"updated_at":        time.Now().UTC(),
			}),
		},
		clause.Returning{},
	).Create(&lookup).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert property lookup: %w", err)
	}

	return &lookup, nil
}

// queueServiceRequest writes the comparison's outbox row inside the upsert transaction.
// A failure rolls back to a savepoint and is logged, so the comparison still commits.
func (s *pgStore) queueServiceRequest(ctx context.Context, tx *gorm.DB, build func(comparisonID string) (*EnqueueServiceRequestInput, error), tenantID, comparisonID string) error {
	fields := logger.Comparison(tenantID, comparisonID)

	input, err := build(comparisonID)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("%w: %w", domain.ErrBridgeFailure, err), fields...)
		return nil
	}
	if input == nil {
		return nil
	}

	if err := tx.SavePoint("service_request").Error; err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}
	created, err := insertServiceRequest(tx, *input)
	if err != nil {
		if err := tx.RollbackTo("service_request").Error; err != nil {
			return fmt.Errorf("failed to roll back service request: %w", err)
		}
		logger.ErrorCtx(ctx, fmt.Errorf("%w: %w", domain.ErrBridgeFailure, err), fields...)
		return nil
	}

	logger.DebugCtx(ctx, "Service request queued",
		append(fields, zap.String("service_request_id", input.ID), zap.Bool("created", created))...)
	return nil
}

// insertServiceRequest adds a service request to the outbox, one per comparison
func insertServiceRequest(tx *gorm.DB, input EnqueueServiceRequestInput) (bool, error) {
	row := schema.ServiceRequestOutbox{
		ID:                  input.ID,
		TenantID:            input.TenantID,
		RenewalComparisonID: input.RenewalComparisonID,
		Payload:             datatypes.JSON(input.Payload),
		Status:              schema.OutboxStatusPending,
		NextAttemptAt:       input.NextAttemptAt,
	}

	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "renewal_comparison_id"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return false, fmt.Errorf("failed to enqueue service request: %w", res.Error)
	}

	return res.RowsAffected > 0, nil
}

// ClaimDueServiceRequests leases due rows with SKIP LOCKED so concurrent dispatchers never claim the same row
func (s *pgStore) ClaimDueServiceRequests(ctx context.Context, input ClaimServiceRequestsInput) ([]schema.ServiceRequestOutbox, error) {
	if input.Limit <= 0 {
		return []schema.ServiceRequestOutbox{}, nil
	}

	var rows []schema.ServiceRequestOutbox
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? AND next_attempt_at <= ?", schema.OutboxStatusPending, input.Now).
			Order("next_attempt_at ASC").
			Limit(input.Limit).
			Find(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to select due service requests: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]string, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.ID)
		}

		leaseUntil := input.Now.Add(input.Lease)
		err = tx.Model(&schema.ServiceRequestOutbox{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"attempts":        gorm.Expr("attempts + 1"),
				"next_attempt_at": leaseUntil,
				"updated_at":      input.Now,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to lease service requests: %w", err)
		}

		for i := range rows {
			rows[i].Attempts++
			rows[i].NextAttemptAt = leaseUntil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// MarkServiceRequestDelivered marks a row delivered and records the stage move on the comparison
func (s *pgStore) MarkServiceRequestDelivered(ctx context.Context, input MarkServiceRequestDeliveredInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row schema.ServiceRequestOutbox
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", input.ID).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("service request %s: %w", input.ID, domain.ErrNotFound)
			}
			return fmt.Errorf("failed to lock service request: %w", err)
		}
		if row.Status == schema.OutboxStatusDelivered {
			return nil
		}

		err = tx.Model(&schema.ServiceRequestOutbox{}).
			Where("id = ?", input.ID).
			Updates(map[string]interface{}{
				"status":       schema.OutboxStatusDelivered,
				"delivered_at": input.DeliveredAt,
				"last_error":   "",
				"updated_at":   input.DeliveredAt,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to mark service request delivered: %w", err)
		}

		audit := toAuditRow(row.TenantID, row.RenewalComparisonID, input.Event)
		if err := tx.Create(&audit).Error; err != nil {
			return fmt.Errorf("failed to append audit event: %w", err)
		}
		return nil
	})
}

// RecordServiceRequestFailure records a failed attempt
func (s *pgStore) RecordServiceRequestFailure(ctx context.Context, input RecordServiceRequestFailureInput) error {
	updates := map[string]interface{}{
		"last_error":      input.Error,
		"next_attempt_at": input.NextAttemptAt,
		"updated_at":      time.Now().UTC(),
	}
	if input.Terminal {
		updates["status"] = schema.OutboxStatusFailed
	}

	res := s.db.WithContext(ctx).Model(&schema.ServiceRequestOutbox{}).
		Where("id = ? AND status = ?", input.ID, schema.OutboxStatusPending).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to record service request failure: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pending service request %s: %w", input.ID, domain.ErrNotFound)
	}
	return nil
}
