package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/store/schema"
)

const testTenant = "tenant-1"

// =============================================================================
// Test Data Builders
// =============================================================================

func dbOf(t *testing.T, s Store) *gorm.DB {
	t.Helper()
	pg, ok := s.(*pgStore)
	require.True(t, ok)
	return pg.db
}

func buildTestComparison(policyNumber, carrier, effective string) domain.RenewalComparison {
	renewal := domain.PolicySnapshot{
		PolicyNumber:  policyNumber,
		CarrierName:   carrier,
		Premium:       decimal.NewNullDecimal(decimal.RequireFromString("1380")),
		EffectiveDate: ptr(domain.MustParseDate(effective)),
		Coverages:     []domain.Coverage{{Type: "BI", LimitAmount: "50/100"}},
	}
	return domain.RenewalComparison{
		PremiumDelta: domain.PremiumDelta{
			RenewalPremium: decimal.NewNullDecimal(decimal.RequireFromString("1380")),
		},
		TenantID:             testTenant,
		PolicyNumber:         policyNumber,
		CarrierName:          carrier,
		LineOfBusiness:       domain.LineOfBusinessPersonalAuto,
		RenewalEffectiveDate: domain.MustParseDate(effective),
		RenewalSnapshot:      &renewal,
		MaterialChanges:      []string{"BI limit increased 25/50 → 50/100"},
		CheckResults: []domain.CheckResult{
			{RuleID: "COVERAGE-LIMIT", Severity: domain.SeverityInfo, Title: "Coverage limit changed"},
		},
		CheckSummary:   domain.CheckSummary{TotalChecks: 1, InfoCount: 1, BlockerRuleIDs: []string{}},
		Recommendation: domain.RecommendationAccept,
		Status:         domain.StatusWaitingAgentReview,
		RenewalSource:  domain.RenewalSourceAL3,
	}
}

func buildEvents() []AuditEventInput {
	return []AuditEventInput{
		{EventType: domain.AuditEventIngested, EventData: json.RawMessage(`{"source":"al3"}`)},
		{EventType: domain.AuditEventCompared, EventData: json.RawMessage(`{"recommendation":"accept"}`)},
	}
}

func insertPlaceholder(t *testing.T, s Store, policyNumber, carrier, effective string) string {
	t.Helper()
	return insertVerifiedPlaceholder(t, s, policyNumber, carrier, effective, nil)
}

// insertVerifiedPlaceholder seeds a placeholder that property verification already ran against
func insertVerifiedPlaceholder(t *testing.T, s Store, policyNumber, carrier, effective string, results []domain.CheckResult) string {
	t.Helper()
	if results == nil {
		results = []domain.CheckResult{}
	}
	checkResults, err := json.Marshal(results)
	require.NoError(t, err)
	verification := datatypes.JSON("null")
	if len(results) > 0 {
		verification = datatypes.JSON(fmt.Sprintf(`{"status":"complete","address":"1 Main St","checkCount":%d}`, len(results)))
	}

	row := schema.RenewalComparison{
		ID:                   uuid.NewString(),
		TenantID:             testTenant,
		PolicyNumber:         policyNumber,
		CarrierName:          carrier,
		RenewalEffectiveDate: domain.MustParseDate(effective).Time,
		BaselineSnapshot:     datatypes.JSON("null"),
		RenewalSnapshot:      datatypes.JSON("null"),
		MaterialChanges:      datatypes.JSON("[]"),
		CheckResults:         datatypes.JSON(checkResults),
		CheckSummary:         datatypes.JSON("{}"),
		PropertyVerification: verification,
		Status:               string(domain.StatusPendingManualRenewal),
		RenewalSource:        string(domain.RenewalSourceManual),
	}
	require.NoError(t, dbOf(t, s).Create(&row).Error)
	return row.ID
}

// outboxRow builds the service request written inside an upsert
func outboxRow(id, payload string, at time.Time) func(string) (*EnqueueServiceRequestInput, error) {
	return func(comparisonID string) (*EnqueueServiceRequestInput, error) {
		return &EnqueueServiceRequestInput{
			ID:                  id,
			TenantID:            testTenant,
			RenewalComparisonID: comparisonID,
			Payload:             json.RawMessage(payload),
			NextAttemptAt:       at,
		}, nil
	}
}

func ptr[T any](v T) *T {
	return &v
}

// =============================================================================
// Test: UpsertComparisonByNaturalKey
// =============================================================================

func testUpsertComparisonByNaturalKey(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("insert then duplicate yields one row", func(t *testing.T) {
		input := UpsertComparisonInput{
			Comparison: buildTestComparison("PA100", "Acme Mutual", "2025-03-01"),
			Events:     buildEvents(),
		}

		first, err := store.UpsertComparisonByNaturalKey(ctx, input)
		require.NoError(t, err)
		assert.False(t, first.Duplicate)
		assert.False(t, first.Upgraded)
		require.NotEmpty(t, first.ComparisonID)

		second, err := store.UpsertComparisonByNaturalKey(ctx, input)
		require.NoError(t, err)
		assert.True(t, second.Duplicate)
		assert.Equal(t, first.ComparisonID, second.ComparisonID)

		var count int64
		dbOf(t, store).Model(&schema.RenewalComparison{}).
			Where("tenant_id = ? AND policy_number = ?", testTenant, "PA100").
			Count(&count)
		assert.Equal(t, int64(1), count)

		events, err := store.ListAuditEvents(ctx, AuditEventFilter{TenantID: testTenant, ComparisonID: first.ComparisonID})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, domain.AuditEventIngested, events[0].EventType)
		assert.Equal(t, domain.AuditEventCompared, events[1].EventType)
		assert.Equal(t, domain.SYSTEM_ACTOR, events[0].PerformedBy)
	})

	t.Run("policy number is stored normalized", func(t *testing.T) {
		input := UpsertComparisonInput{Comparison: buildTestComparison("ho-200 1", "Acme Mutual", "2025-03-01")}
		res, err := store.UpsertComparisonByNaturalKey(ctx, input)
		require.NoError(t, err)

		c, err := store.GetComparison(ctx, testTenant, res.ComparisonID)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "HO2001", c.PolicyNumber)
	})

	t.Run("placeholder with different carrier is upgraded in place", func(t *testing.T) {
		placeholderID := insertPlaceholder(t, store, "PA300", "ACME", "2025-04-01")

		input := UpsertComparisonInput{
			Comparison: buildTestComparison("PA300", "Acme Mutual Insurance Co", "2025-04-01"),
			Events:     buildEvents(),
		}
		res, err := store.UpsertComparisonByNaturalKey(ctx, input)
		require.NoError(t, err)
		assert.True(t, res.Upgraded)
		assert.False(t, res.Duplicate)
		assert.Equal(t, placeholderID, res.ComparisonID)

		c, err := store.GetComparison(ctx, testTenant, placeholderID)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, domain.StatusWaitingAgentReview, c.Status)
		assert.Equal(t, "Acme Mutual Insurance Co", c.CarrierName)
		assert.Equal(t, domain.RenewalSourceAL3, c.RenewalSource)
		require.NotNil(t, c.RenewalSnapshot)
		assert.Equal(t, []string{"BI limit increased 25/50 → 50/100"}, c.MaterialChanges)
		assert.True(t, c.RenewalPremium.Decimal.Equal(decimal.RequireFromString("1380")))

		// Redelivery of the same AL3 data is now a duplicate of the upgraded row
		again, err := store.UpsertComparisonByNaturalKey(ctx, input)
		require.NoError(t, err)
		assert.True(t, again.Duplicate)
		assert.Equal(t, placeholderID, again.ComparisonID)
	})

	t.Run("placeholder upgrade keeps property verification results", func(t *testing.T) {
		placeholderID := insertVerifiedPlaceholder(t, store, "HO350", "Acme", "2025-04-15", []domain.CheckResult{
			{RuleID: "PV-ROOF-CONDITION", Severity: domain.SeverityCritical, Title: "Roof condition score below 40", Reviewed: true},
			{RuleID: "PV-POOL-UNDISCLOSED", Severity: domain.SeverityWarning, Title: "Pool not disclosed"},
			{RuleID: "PREMIUM-CHANGE", Severity: domain.SeverityInfo, Title: "Stale manual entry"},
		})

		res, err := store.UpsertComparisonByNaturalKey(ctx, UpsertComparisonInput{
			Comparison: buildTestComparison("HO350", "Acme", "2025-04-15"),
			Events:     buildEvents(),
		})
		require.NoError(t, err)
		require.True(t, res.Upgraded)
		assert.Equal(t, placeholderID, res.ComparisonID)

		c, err := store.GetComparison(ctx, testTenant, placeholderID)
		require.NoError(t, err)
		require.NotNil(t, c)

		ruleIDs := make([]string, 0, len(c.CheckResults))
		for _, r := range c.CheckResults {
			ruleIDs = append(ruleIDs, r.RuleID)
		}
		assert.Equal(t, []string{"COVERAGE-LIMIT", "PV-ROOF-CONDITION", "PV-POOL-UNDISCLOSED"}, ruleIDs)
		assert.True(t, c.CheckResults[1].Reviewed)

		assert.Equal(t, 3, c.CheckSummary.TotalChecks)
		assert.Equal(t, 1, c.CheckSummary.CriticalCount)
		assert.Equal(t, 1, c.CheckSummary.WarningCount)
		assert.Equal(t, 1, c.CheckSummary.InfoCount)
		assert.Equal(t, 33, c.CheckSummary.ReviewProgress)
		assert.Equal(t, domain.RecommendationEscalate, c.Recommendation)
		assert.True(t, c.PropertyVerification.IsComplete())
	})

	t.Run("placeholder colliding with an existing row resolves as duplicate", func(t *testing.T) {
		existing, err := store.UpsertComparisonByNaturalKey(ctx, UpsertComparisonInput{
			Comparison: buildTestComparison("PA400", "Zenith", "2025-05-01"),
		})
		require.NoError(t, err)
		placeholderID := insertPlaceholder(t, store, "PA400", "zenith ins", "2025-05-01")

		res, err := store.UpsertComparisonByNaturalKey(ctx, UpsertComparisonInput{
			Comparison: buildTestComparison("PA400", "Zenith", "2025-05-01"),
			Events:     buildEvents(),
		})
		require.NoError(t, err)
		assert.True(t, res.Duplicate)
		assert.Equal(t, existing.ComparisonID, res.ComparisonID)

		placeholder, err := store.GetComparison(ctx, testTenant, placeholderID)
		require.NoError(t, err)
		require.NotNil(t, placeholder)
		assert.Equal(t, domain.StatusPendingManualRenewal, placeholder.Status)
	})

	t.Run("placeholder for another effective date is not matched", func(t *testing.T) {
		placeholderID := insertPlaceholder(t, store, "PA500", "Acme", "2025-06-01")

		res, err := store.UpsertComparisonByNaturalKey(ctx, UpsertComparisonInput{
			Comparison: buildTestComparison("PA500", "Acme", "2026-06-01"),
		})
		require.NoError(t, err)
		assert.False(t, res.Upgraded)
		assert.NotEqual(t, placeholderID, res.ComparisonID)
	})
}

// =============================================================================
// Test: GetComparison / MutateComparison
// =============================================================================

func testGetComparison(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("unknown id returns nil", func(t *testing.T) {
		c, err := store.GetComparison(ctx, testTenant, uuid.NewString())
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("malformed id returns nil", func(t *testing.T) {
		c, err := store.GetComparison(ctx, testTenant, "not-a-uuid")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("other tenant cannot read", func(t *testing.T) {
		res, err := store.UpsertComparisonByNaturalKey(ctx, UpsertComparisonInput{
			Comparison: buildTestComparison("PA600", "Acme", "2025-03-01"),
		})
		require.NoError(t, err)

		c, err := store.GetComparison(ctx, "tenant-2", res.ComparisonID)
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("round trips nullable fields", func(t *testing.T) {
		res, err := store.UpsertComparisonByNaturalKey(ctx, UpsertComparisonInput{
			Comparison: buildTestComparison("PA700", "Acme", "2025-03-01"),
		})
		require.NoError(t, err)

		c, err := store.GetComparison(ctx, testTenant, res.ComparisonID)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Nil(t, c.BaselineSnapshot)
		assert.Nil(t, c.PropertyVerification)
		assert.False(t, c.CurrentPremium.Valid)
		assert.False(t, c.PremiumChangePercent.Valid)
		assert.Equal(t, "2025-03-01", c.RenewalEffectiveDate.String())
	})
}

func testMutateComparison(t *testing.T, store Store) {
	ctx := context.Background()

	res, err := store.UpsertComparisonByNaturalKey(ctx, UpsertComparisonInput{
		Comparison: buildTestComparison("PA800", "Acme", "2025-03-01"),
	})
	require.NoError(t, err)

	t.Run("writes mutable fields and events", func(t *testing.T) {
		updated, err := store.MutateComparison(ctx, MutateComparisonInput{
			TenantID:     testTenant,
			ComparisonID: res.ComparisonID,
			Mutate: func(c *domain.RenewalComparison) ([]AuditEventInput, error) {
				c.CheckResults = append(c.CheckResults, domain.CheckResult{
					RuleID: "PV-POOL", Severity: domain.SeverityWarning, Title: "Pool detected",
				})
				c.CheckSummary.TotalChecks = 2
				c.Status = domain.StatusAgentReviewed
				return []AuditEventInput{{EventType: domain.AuditEventAgentDecision, PerformedBy: "agent-7"}}, nil
			},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAgentReviewed, updated.Status)

		c, err := store.GetComparison(ctx, testTenant, res.ComparisonID)
		require.NoError(t, err)
		require.Len(t, c.CheckResults, 2)
		assert.Equal(t, "PV-POOL", c.CheckResults[1].RuleID)
		assert.Equal(t, 2, c.CheckSummary.TotalChecks)
		assert.Equal(t, domain.StatusAgentReviewed, c.Status)

		events, err := store.ListAuditEvents(ctx, AuditEventFilter{
			TenantID:     testTenant,
			ComparisonID: res.ComparisonID,
			EventTypes:   []domain.AuditEventType{domain.AuditEventAgentDecision},
		})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "agent-7", events[0].PerformedBy)
	})

	t.Run("mutation error leaves the row untouched", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := store.MutateComparison(ctx, MutateComparisonInput{
			TenantID:     testTenant,
			ComparisonID: res.ComparisonID,
			Mutate: func(c *domain.RenewalComparison) ([]AuditEventInput, error) {
				c.Status = domain.StatusCancelled
				return nil, boom
			},
		})
		assert.ErrorIs(t, err, boom)

		c, err := store.GetComparison(ctx, testTenant, res.ComparisonID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAgentReviewed, c.Status)
	})

	t.Run("missing comparison", func(t *testing.T) {
		_, err := store.MutateComparison(ctx, MutateComparisonInput{
			TenantID:     testTenant,
			ComparisonID: uuid.NewString(),
			Mutate: func(c *domain.RenewalComparison) ([]AuditEventInput, error) {
				return nil, nil
			},
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

// =============================================================================
// Test: Audit log
// =============================================================================

func testAuditEvents(t *testing.T, store Store) {
	ctx := context.Background()

	res, err := store.UpsertComparisonByNaturalKey(ctx, UpsertComparisonInput{
		Comparison: buildTestComparison("PA900", "Acme", "2025-03-01"),
		Events:     buildEvents(),
	})
	require.NoError(t, err)

	base := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	err = store.AppendAuditEvents(ctx, testTenant, res.ComparisonID, []AuditEventInput{
		{EventType: domain.AuditEventNotePosted, EventData: json.RawMessage(`{"content":"second"}`), PerformedBy: "u1", PerformedAt: base.Add(time.Minute)},
		{EventType: domain.AuditEventNotePosted, EventData: json.RawMessage(`{"content":"first"}`), PerformedBy: "u1", PerformedAt: base},
	})
	require.NoError(t, err)

	t.Run("filters by type and orders by time", func(t *testing.T) {
		events, err := store.ListAuditEvents(ctx, AuditEventFilter{
			TenantID:     testTenant,
			ComparisonID: res.ComparisonID,
			EventTypes:   []domain.AuditEventType{domain.AuditEventNotePosted},
		})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.JSONEq(t, `{"content":"first"}`, string(events[0].EventData))
		assert.JSONEq(t, `{"content":"second"}`, string(events[1].EventData))
	})

	t.Run("empty append is a no-op", func(t *testing.T) {
		assert.NoError(t, store.AppendAuditEvents(ctx, testTenant, res.ComparisonID, nil))
	})
}

// =============================================================================
// Test: Archive
// =============================================================================

func testCreateArchivedTransactions(t *testing.T, store Store) {
	ctx := context.Background()

	rows := []schema.ArchivedAL3Transaction{
		{TenantID: testTenant, BatchID: "batch-1", Sequence: 1, TransactionType: "NBS", Payload: datatypes.JSON(`{}`)},
		{TenantID: testTenant, BatchID: "batch-1", Sequence: 2, TransactionType: "END", PolicyNumber: "PA1", Payload: datatypes.JSON(`{"x":1}`)},
		{
			TenantID: testTenant, BatchID: "batch-1", Sequence: 3, TransactionType: "RWL",
			Disposition: schema.ArchiveDispositionQuarantined, Reason: "missing premium", Payload: datatypes.JSON(`{}`),
		},
	}

	n, err := store.CreateArchivedTransactions(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Redelivered batches are not archived twice
	again := []schema.ArchivedAL3Transaction{
		{TenantID: testTenant, BatchID: "batch-1", Sequence: 1, TransactionType: "NBS", Payload: datatypes.JSON(`{}`)},
	}
	n, err = store.CreateArchivedTransactions(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = store.CreateArchivedTransactions(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var quarantined schema.ArchivedAL3Transaction
	require.NoError(t, dbOf(t, store).Where("batch_id = ? AND sequence = ?", "batch-1", 3).First(&quarantined).Error)
	assert.Equal(t, schema.ArchiveDispositionQuarantined, quarantined.Disposition)
	assert.Equal(t, "missing premium", quarantined.Reason)
}

// =============================================================================
// Test: Baseline policies
// =============================================================================

func testFindBaselinePolicy(t *testing.T, store Store) {
	ctx := context.Background()
	db := dbOf(t, store)

	customer := schema.Customer{
		ID: uuid.NewString(), TenantID: testTenant, Name: "Jane Doe",
		Street: "12 Oak St", City: "Austin", State: "TX", Zip: "78701",
		AssignedAgentID: ptr("agent-1"),
	}
	require.NoError(t, db.Create(&customer).Error)

	older := schema.Policy{
		ID: uuid.NewString(), TenantID: testTenant, CustomerID: &customer.ID,
		PolicyNumber: "HO123", CarrierName: "Acme Mutual", LineOfBusiness: "homeowners",
		EffectiveDate: domain.MustParseDate("2023-03-01").Time,
		Premium:       decimal.NewNullDecimal(decimal.RequireFromString("1100")),
		Disclosures:   datatypes.JSON(`[]`), PropertyContext: datatypes.JSON(`null`),
	}
	current := schema.Policy{
		ID: uuid.NewString(), TenantID: testTenant, CustomerID: &customer.ID,
		PolicyNumber: "HO123", CarrierName: "Acme Mutual", LineOfBusiness: "homeowners",
		EffectiveDate: domain.MustParseDate("2024-03-01").Time,
		Premium:       decimal.NewNullDecimal(decimal.RequireFromString("1200")),
		Disclosures:   datatypes.JSON(`["HO-PRIV"]`), PropertyContext: datatypes.JSON(`{"yearBuilt":1995}`),
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&current).Error)
	require.NoError(t, db.Create(&[]schema.PolicyCoverage{
		{PolicyID: current.ID, Position: 2, CoverageType: "LIAB", LimitAmount: "300000"},
		{PolicyID: current.ID, Position: 1, CoverageType: "DWELL", LimitAmount: "250000", Deductible: "1000"},
	}).Error)

	t.Run("latest term before the renewal date", func(t *testing.T) {
		record, err := store.FindBaselinePolicy(ctx, BaselinePolicyFilter{
			TenantID:     testTenant,
			PolicyNumber: "HO123",
			Before:       ptr(domain.MustParseDate("2025-03-01")),
		})
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, current.ID, record.Policy.ID)
		require.Len(t, record.Coverages, 2)
		assert.Equal(t, "DWELL", record.Coverages[0].CoverageType)
		require.NotNil(t, record.Customer)
		assert.Equal(t, "12 Oak St", record.Customer.Street)
	})

	t.Run("renewal date excludes the current term", func(t *testing.T) {
		record, err := store.FindBaselinePolicy(ctx, BaselinePolicyFilter{
			TenantID:     testTenant,
			PolicyNumber: "HO123",
			Before:       ptr(domain.MustParseDate("2024-03-01")),
		})
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, older.ID, record.Policy.ID)
	})

	t.Run("carrier matches case-insensitively", func(t *testing.T) {
		record, err := store.FindBaselinePolicy(ctx, BaselinePolicyFilter{
			TenantID:     testTenant,
			PolicyNumber: "HO123",
			CarrierName:  ptr("ACME MUTUAL"),
		})
		require.NoError(t, err)
		require.NotNil(t, record)

		record, err = store.FindBaselinePolicy(ctx, BaselinePolicyFilter{
			TenantID:     testTenant,
			PolicyNumber: "HO123",
			CarrierName:  ptr("Other Carrier"),
		})
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("no match returns nil", func(t *testing.T) {
		record, err := store.FindBaselinePolicy(ctx, BaselinePolicyFilter{TenantID: testTenant, PolicyNumber: "NOPE"})
		require.NoError(t, err)
		assert.Nil(t, record)
	})
}

// =============================================================================
// Test: Property lookups
// =============================================================================

func testPropertyLookups(t *testing.T, store Store) {
	ctx := context.Background()
	now := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)

	first, err := store.UpsertPropertyLookup(ctx, UpsertPropertyLookupInput{
		AddressKey: "12 oak st, austin, tx 78701",
		Address:    "12 Oak St, Austin, TX 78701",
		RPRData:    json.RawMessage(`{"yearBuilt":1995}`),
		Location:   &domain.GeoPoint{Lat: 30.27, Lng: -97.74},
		FetchedAt:  now,
		ExpiresAt:  now.Add(domain.DEFAULT_PROPERTY_CACHE_TTL),
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.JSONEq(t, `null`, string(first.PropertyAPIData))

	t.Run("fresh lookup is returned", func(t *testing.T) {
		lookup, err := store.GetFreshPropertyLookup(ctx, "12 oak st, austin, tx 78701", now.Add(24*time.Hour))
		require.NoError(t, err)
		require.NotNil(t, lookup)
		assert.Equal(t, first.ID, lookup.ID)
		require.NotNil(t, lookup.Latitude)
		assert.InDelta(t, 30.27, *lookup.Latitude, 0.0001)
	})

	t.Run("expired lookup is ignored", func(t *testing.T) {
		lookup, err := store.GetFreshPropertyLookup(ctx, "12 oak st, austin, tx 78701", now.Add(8*24*time.Hour))
		require.NoError(t, err)
		assert.Nil(t, lookup)
	})

	t.Run("upsert overwrites payloads and keeps the id", func(t *testing.T) {
		later := now.Add(10 * 24 * time.Hour)
		second, err := store.UpsertPropertyLookup(ctx, UpsertPropertyLookupInput{
			AddressKey:      "12 oak st, austin, tx 78701",
			Address:         "12 Oak St, Austin, TX 78701",
			PropertyAPIData: json.RawMessage(`{"stories":2}`),
			FetchedAt:       later,
			ExpiresAt:       later.Add(domain.DEFAULT_PROPERTY_CACHE_TTL),
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		lookup, err := store.GetFreshPropertyLookup(ctx, "12 oak st, austin, tx 78701", later)
		require.NoError(t, err)
		require.NotNil(t, lookup)
		assert.JSONEq(t, `{"stories":2}`, string(lookup.PropertyAPIData))
		assert.JSONEq(t, `null`, string(lookup.RPRData))
		assert.Nil(t, lookup.Latitude)
	})
}

// =============================================================================
// Test: Service request outbox
// =============================================================================

func testServiceRequestOutbox(t *testing.T, store Store) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	input := UpsertComparisonInput{
		Comparison:     buildTestComparison("SR100", "Acme", "2025-03-01"),
		Events:         buildEvents(),
		ServiceRequest: outboxRow("01HZY0000000000000000000A1", `{"policyNumber":"SR100"}`, now),
	}
	res, err := store.UpsertComparisonByNaturalKey(ctx, input)
	require.NoError(t, err)

	var queued schema.ServiceRequestOutbox
	require.NoError(t, dbOf(t, store).Where("renewal_comparison_id = ?", res.ComparisonID).First(&queued).Error)
	assert.Equal(t, "01HZY0000000000000000000A1", queued.ID)
	assert.Equal(t, schema.OutboxStatusPending, queued.Status)

	t.Run("redelivered duplicate keeps the committed request", func(t *testing.T) {
		input.ServiceRequest = outboxRow("01HZY0000000000000000000A2", `{}`, now)
		again, err := store.UpsertComparisonByNaturalKey(ctx, input)
		require.NoError(t, err)
		assert.True(t, again.Duplicate)

		var count int64
		dbOf(t, store).Model(&schema.ServiceRequestOutbox{}).
			Where("renewal_comparison_id = ?", res.ComparisonID).
			Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("one request per comparison", func(t *testing.T) {
		created, err := insertServiceRequest(dbOf(t, store), EnqueueServiceRequestInput{
			ID: "01HZY0000000000000000000A3", TenantID: testTenant, RenewalComparisonID: res.ComparisonID,
			Payload: json.RawMessage(`{}`), NextAttemptAt: now,
		})
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("failed request build still commits the comparison", func(t *testing.T) {
		failed, err := store.UpsertComparisonByNaturalKey(ctx, UpsertComparisonInput{
			Comparison: buildTestComparison("SR300", "Acme", "2025-03-01"),
			Events:     buildEvents(),
			ServiceRequest: func(string) (*EnqueueServiceRequestInput, error) {
				return nil, errors.New("queue misconfigured")
			},
		})
		require.NoError(t, err)

		c, err := store.GetComparison(ctx, testTenant, failed.ComparisonID)
		require.NoError(t, err)
		require.NotNil(t, c)

		var count int64
		dbOf(t, store).Model(&schema.ServiceRequestOutbox{}).
			Where("renewal_comparison_id = ?", failed.ComparisonID).
			Count(&count)
		assert.Zero(t, count)
	})

	t.Run("rejected outbox insert still commits the comparison", func(t *testing.T) {
		// Reusing a delivered row's id violates the primary key
		rejected, err := store.UpsertComparisonByNaturalKey(ctx, UpsertComparisonInput{
			Comparison:     buildTestComparison("SR400", "Acme", "2025-03-01"),
			Events:         buildEvents(),
			ServiceRequest: outboxRow("01HZY0000000000000000000A1", `{}`, now),
		})
		require.NoError(t, err)
		assert.False(t, rejected.Duplicate)

		events, err := store.ListAuditEvents(ctx, AuditEventFilter{TenantID: testTenant, ComparisonID: rejected.ComparisonID})
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	other, err := store.UpsertComparisonByNaturalKey(ctx, UpsertComparisonInput{
		Comparison:     buildTestComparison("SR200", "Acme", "2025-03-01"),
		ServiceRequest: outboxRow("01HZY0000000000000000000B1", `{"policyNumber":"SR200"}`, now.Add(time.Hour)),
	})
	require.NoError(t, err)
	require.False(t, other.Duplicate)

	t.Run("claim leases only due rows", func(t *testing.T) {
		rows, err := store.ClaimDueServiceRequests(ctx, ClaimServiceRequestsInput{Limit: 10, Now: now, Lease: 5 * time.Minute})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "01HZY0000000000000000000A1", rows[0].ID)
		assert.Equal(t, 1, rows[0].Attempts)

		// Leased rows are not claimed again until the lease runs out
		rows, err = store.ClaimDueServiceRequests(ctx, ClaimServiceRequestsInput{Limit: 10, Now: now.Add(time.Minute), Lease: 5 * time.Minute})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("failure reschedules then fails terminally", func(t *testing.T) {
		err := store.RecordServiceRequestFailure(ctx, RecordServiceRequestFailureInput{
			ID: "01HZY0000000000000000000B1", Error: "nats: timeout", NextAttemptAt: now.Add(2 * time.Hour),
		})
		require.NoError(t, err)

		err = store.RecordServiceRequestFailure(ctx, RecordServiceRequestFailureInput{
			ID: "01HZY0000000000000000000B1", Error: "nats: timeout", NextAttemptAt: now.Add(3 * time.Hour), Terminal: true,
		})
		require.NoError(t, err)

		var row schema.ServiceRequestOutbox
		require.NoError(t, dbOf(t, store).Where("id = ?", "01HZY0000000000000000000B1").First(&row).Error)
		assert.Equal(t, schema.OutboxStatusFailed, row.Status)
		assert.Equal(t, "nats: timeout", row.LastError)

		err = store.RecordServiceRequestFailure(ctx, RecordServiceRequestFailureInput{ID: "01HZY0000000000000000000B1"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delivery records sr_moved", func(t *testing.T) {
		err := store.MarkServiceRequestDelivered(ctx, MarkServiceRequestDeliveredInput{
			ID:          "01HZY0000000000000000000A1",
			DeliveredAt: now.Add(time.Minute),
			Event: AuditEventInput{
				EventType: domain.AuditEventSRMoved,
				EventData: json.RawMessage(`{"toStage":"Renewal Review"}`),
			},
		})
		require.NoError(t, err)

		// Second delivery of the same row is a no-op
		err = store.MarkServiceRequestDelivered(ctx, MarkServiceRequestDeliveredInput{
			ID: "01HZY0000000000000000000A1", DeliveredAt: now.Add(2 * time.Minute),
			Event: AuditEventInput{EventType: domain.AuditEventSRMoved},
		})
		require.NoError(t, err)

		events, err := store.ListAuditEvents(ctx, AuditEventFilter{
			TenantID:     testTenant,
			ComparisonID: res.ComparisonID,
			EventTypes:   []domain.AuditEventType{domain.AuditEventSRMoved},
		})
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})
}

func testPing(t *testing.T, store Store) {
	assert.NoError(t, store.Ping(context.Background()))
}

// RunStoreTests runs all store tests against the given implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"UpsertComparisonByNaturalKey", testUpsertComparisonByNaturalKey},
		{"GetComparison", testGetComparison},
		{"MutateComparison", testMutateComparison},
		{"AuditEvents", testAuditEvents},
		{"CreateArchivedTransactions", testCreateArchivedTransactions},
		{"FindBaselinePolicy", testFindBaselinePolicy},
		{"PropertyLookups", testPropertyLookups},
		{"ServiceRequestOutbox", testServiceRequestOutbox},
		{"Ping", testPing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}

func TestCalculateSafeBatchSize(t *testing.T) {
	assert.Equal(t, 10, calculateSafeBatchSize(10, 11))
	assert.Equal(t, (65535-1000)/11, calculateSafeBatchSize(100000, 11))
	assert.Equal(t, 1, calculateSafeBatchSize(5, 100000))
}

func TestNormalizeConnectionPoolSettings(t *testing.T) {
	open, idle, life, idleTime := NormalizeConnectionPoolSettings(0, 0, 0, 0)
	assert.Equal(t, 20, open)
	assert.Equal(t, 5, idle)
	assert.Equal(t, 5*time.Minute, life)
	assert.Equal(t, 10*time.Minute, idleTime)

	open, idle, _, _ = NormalizeConnectionPoolSettings(3, 10, time.Minute, time.Minute)
	assert.Equal(t, 3, open)
	assert.Equal(t, 3, idle)
}
