package renewal_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/audit"
	"github.com/agencyops/renewal-engine/internal/baseline"
	"github.com/agencyops/renewal-engine/internal/comparison"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/mocks"
	"github.com/agencyops/renewal-engine/internal/renewal"
	"github.com/agencyops/renewal-engine/internal/servicerequest"
	"github.com/agencyops/renewal-engine/internal/store"
)

type testManagerMocks struct {
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	baseline *mocks.MockBaselineBuilder
	bridge   *mocks.MockBridge
	clock    *mocks.MockClock
	now      time.Time
}

func setupTestManager(t *testing.T) (*testManagerMocks, renewal.Manager) {
	err := logger.Initialize(logger.Config{Debug: true})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	ctrl := gomock.NewController(t)
	m := &testManagerMocks{
		ctrl:     ctrl,
		store:    mocks.NewMockStore(ctrl),
		baseline: mocks.NewMockBaselineBuilder(ctrl),
		bridge:   mocks.NewMockBridge(ctrl),
		clock:    mocks.NewMockClock(ctrl),
		now:      time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	m.clock.EXPECT().Now().Return(m.now).AnyTimes()

	return m, renewal.NewManager(m.store, m.baseline, m.bridge, adapter.NewJCS(), m.clock)
}

func ptr[T any](v T) *T {
	return &v
}

func createInput(t *testing.T) renewal.CreateInput {
	effective := domain.MustParseDate("2025-04-01")
	base := &domain.PolicySnapshot{
		PolicyNumber: "PA-123",
		CarrierName:  "Acme Mutual",
		Premium:      decimal.NewNullDecimal(decimal.NewFromInt(1200)),
		Coverages:    []domain.Coverage{{Type: "BI", LimitAmount: "25/50"}},
	}
	ren := domain.PolicySnapshot{
		PolicyNumber:  "pa-123",
		CarrierName:   " Acme  Mutual ",
		EffectiveDate: &effective,
		Premium:       decimal.NewNullDecimal(decimal.NewFromInt(1380)),
		Coverages:     []domain.Coverage{{Type: "BI", LimitAmount: "50/100"}},
	}
	result, err := comparison.NewEngine().Compare(context.Background(), comparison.Input{Baseline: base, Renewal: ren})
	require.NoError(t, err)

	return renewal.CreateInput{
		TenantID:        "tenant-1",
		Renewal:         ren,
		Baseline:        base,
		Result:          result,
		TransactionType: "RWL",
		BatchID:         "batch-1",
	}
}

func TestCreateOrUpgrade_NewComparison(t *testing.T) {
	m, mgr := setupTestManager(t)
	defer m.ctrl.Finish()

	input := createInput(t)
	m.baseline.EXPECT().
		Build(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in baseline.BuildInput) (*baseline.BaselineResult, error) {
			assert.Equal(t, "PA123", in.PolicyNumber)
			assert.Equal(t, "Acme Mutual", *in.CarrierName)
			assert.Equal(t, "2025-04-01", in.RenewalEffectiveDate.String())
			return &baseline.BaselineResult{PolicyID: "pol-1", CustomerID: ptr("cust-1"), AssignedAgentID: ptr("agent-7")}, nil
		})

	var saved domain.RenewalComparison
	m.store.EXPECT().
		UpsertComparisonByNaturalKey(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in store.UpsertComparisonInput) (*store.UpsertComparisonResult, error) {
			saved = in.Comparison
			require.Len(t, in.Events, 2)
			assert.Equal(t, domain.AuditEventIngested, in.Events[0].EventType)
			assert.Equal(t, domain.AuditEventCompared, in.Events[1].EventType)

			var ingested audit.IngestedData
			require.NoError(t, json.Unmarshal(in.Events[0].EventData, &ingested))
			assert.Equal(t, domain.RenewalSourceAL3, ingested.Source)
			assert.Equal(t, "RWL", ingested.TransactionType)
			assert.Len(t, ingested.Fingerprint, 64)

			// The outbox row is built inside the upsert once the id is known
			require.NotNil(t, in.ServiceRequest)
			outbox, err := in.ServiceRequest("cmp-1")
			require.NoError(t, err)
			assert.Equal(t, "sr-1", outbox.ID)
			assert.Equal(t, "cmp-1", outbox.RenewalComparisonID)
			return &store.UpsertComparisonResult{ComparisonID: "cmp-1"}, nil
		})
	m.bridge.EXPECT().
		Prepare(gomock.Any()).
		DoAndReturn(func(req servicerequest.Request) (*store.EnqueueServiceRequestInput, error) {
			assert.Equal(t, "cmp-1", req.ComparisonID)
			assert.Equal(t, "agent-7", *req.AssignedAgentID)
			return &store.EnqueueServiceRequestInput{ID: "sr-1", TenantID: req.TenantID, RenewalComparisonID: req.ComparisonID}, nil
		})

	res, err := mgr.CreateOrUpgrade(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, &renewal.CreateResult{ComparisonID: "cmp-1"}, res)

	assert.Equal(t, "PA123", saved.PolicyNumber)
	assert.Equal(t, "Acme Mutual", saved.CarrierName)
	assert.Equal(t, domain.StatusWaitingAgentReview, saved.Status)
	assert.Equal(t, "180.00", saved.PremiumChangeAmount.Decimal.StringFixed(2))
	assert.Equal(t, "15.00", saved.PremiumChangePercent.Decimal.StringFixed(2))
	assert.Equal(t, []string{"BI limit increased 25/50 → 50/100"}, saved.MaterialChanges)
	assert.Equal(t, "pol-1", *saved.PolicyID)
	assert.NotEmpty(t, saved.RenewalFingerprint)
}

func TestCreateOrUpgrade_DuplicateSkipsBridge(t *testing.T) {
	m, mgr := setupTestManager(t)
	defer m.ctrl.Finish()

	input := createInput(t)
	input.PolicyID = ptr("pol-1")
	m.store.EXPECT().UpsertComparisonByNaturalKey(gomock.Any(), gomock.Any()).
		Return(&store.UpsertComparisonResult{ComparisonID: "cmp-1", Duplicate: true}, nil)

	res, err := mgr.CreateOrUpgrade(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Equal(t, "cmp-1", res.ComparisonID)
}

func TestCreateOrUpgrade_UpgradeAndBestEffortFailures(t *testing.T) {
	m, mgr := setupTestManager(t)
	defer m.ctrl.Finish()

	input := createInput(t)
	m.baseline.EXPECT().Build(gomock.Any(), gomock.Any()).Return(nil, errors.New("replica lag"))
	m.store.EXPECT().UpsertComparisonByNaturalKey(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in store.UpsertComparisonInput) (*store.UpsertComparisonResult, error) {
			// The store logs a failed build and commits the comparison without a request
			_, err := in.ServiceRequest("cmp-9")
			assert.ErrorContains(t, err, "queue misconfigured")
			return &store.UpsertComparisonResult{ComparisonID: "cmp-9", Upgraded: true}, nil
		})
	m.bridge.EXPECT().Prepare(gomock.Any()).Return(nil, errors.New("queue misconfigured"))

	res, err := mgr.CreateOrUpgrade(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, &renewal.CreateResult{ComparisonID: "cmp-9", Upgraded: true}, res)
}

func TestCreateOrUpgrade_WithoutBridge(t *testing.T) {
	m, _ := setupTestManager(t)
	defer m.ctrl.Finish()
	mgr := renewal.NewManager(m.store, nil, nil, adapter.NewJCS(), m.clock)

	input := createInput(t)
	m.store.EXPECT().UpsertComparisonByNaturalKey(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in store.UpsertComparisonInput) (*store.UpsertComparisonResult, error) {
			assert.Nil(t, in.ServiceRequest)
			return &store.UpsertComparisonResult{ComparisonID: "cmp-2"}, nil
		})

	res, err := mgr.CreateOrUpgrade(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "cmp-2", res.ComparisonID)
}

func TestCreateOrUpgrade_Validation(t *testing.T) {
	m, mgr := setupTestManager(t)
	defer m.ctrl.Finish()

	input := createInput(t)
	input.TenantID = ""
	_, err := mgr.CreateOrUpgrade(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrValidation)

	input = createInput(t)
	input.Result = nil
	_, err = mgr.CreateOrUpgrade(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrValidation)

	input = createInput(t)
	input.Renewal.EffectiveDate = nil
	_, err = mgr.CreateOrUpgrade(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrValidation)

	input = createInput(t)
	input.Renewal.CarrierName = ""
	_, err = mgr.CreateOrUpgrade(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// expectMutate runs the manager's mutation against row
func expectMutate(m *testManagerMocks, row *domain.RenewalComparison, events *[]store.AuditEventInput) {
	m.store.EXPECT().
		MutateComparison(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.MutateComparisonInput) (*domain.RenewalComparison, error) {
			evs, err := input.Mutate(row)
			if err != nil {
				return nil, err
			}
			*events = evs
			return row, nil
		})
}

func TestApplyDecision(t *testing.T) {
	tests := []struct {
		name     string
		from     domain.ComparisonStatus
		decision domain.Decision
		want     domain.ComparisonStatus
		wantErr  error
	}{
		{"renew as is", domain.StatusWaitingAgentReview, domain.DecisionRenewAsIs, domain.StatusCompleted, nil},
		{"requote", domain.StatusWaitingAgentReview, domain.DecisionRequote, domain.StatusRequoteRequested, nil},
		{"contact customer", domain.StatusRequoteRequested, domain.DecisionContactCustomer, domain.StatusAgentReviewed, nil},
		{"non renew placeholder", domain.StatusPendingManualRenewal, domain.DecisionNonRenew, domain.StatusCancelled, nil},
		{"requote placeholder", domain.StatusPendingManualRenewal, domain.DecisionRequote, "", domain.ErrInvalidTransition},
		{"terminal", domain.StatusCompleted, domain.DecisionNonRenew, "", domain.ErrInvalidTransition},
		{"same status", domain.StatusAgentReviewed, domain.DecisionContactCustomer, "", domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, mgr := setupTestManager(t)
			defer m.ctrl.Finish()

			row := &domain.RenewalComparison{ID: "cmp-1", TenantID: "tenant-1", Status: tt.from}
			var events []store.AuditEventInput
			expectMutate(m, row, &events)

			got, err := mgr.ApplyDecision(context.Background(), renewal.DecisionInput{
				TenantID:     "tenant-1",
				ComparisonID: "cmp-1",
				Decision:     tt.decision,
				AgentID:      "agent-7",
				Note:         " called ",
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, row.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)

			require.Len(t, events, 1)
			assert.Equal(t, domain.AuditEventAgentDecision, events[0].EventType)
			assert.Equal(t, "agent-7", events[0].PerformedBy)
			var data audit.DecisionData
			require.NoError(t, json.Unmarshal(events[0].EventData, &data))
			assert.Equal(t, tt.from, data.FromStatus)
			assert.Equal(t, tt.want, data.ToStatus)
			assert.Equal(t, "called", data.Note)
		})
	}
}

func TestApplyDecision_UnknownDecision(t *testing.T) {
	m, mgr := setupTestManager(t)
	defer m.ctrl.Finish()

	_, err := mgr.ApplyDecision(context.Background(), renewal.DecisionInput{TenantID: "t", ComparisonID: "c", Decision: "shrug"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSetCheckReviewed(t *testing.T) {
	m, mgr := setupTestManager(t)
	defer m.ctrl.Finish()

	row := &domain.RenewalComparison{
		ID:       "cmp-1",
		TenantID: "tenant-1",
		CheckResults: []domain.CheckResult{
			{RuleID: "PREMIUM-CHANGE", Severity: domain.SeverityWarning},
			{RuleID: "COVERAGE-LIMIT", Severity: domain.SeverityInfo},
			{RuleID: "CARRIER-CHANGE", Severity: domain.SeverityUnchanged},
		},
	}
	var events []store.AuditEventInput
	expectMutate(m, row, &events)

	got, err := mgr.SetCheckReviewed(context.Background(), renewal.ReviewInput{
		TenantID:     "tenant-1",
		ComparisonID: "cmp-1",
		RuleID:       "PREMIUM-CHANGE",
		Reviewed:     true,
		ReviewerID:   "agent-7",
	})
	require.NoError(t, err)
	assert.True(t, got.CheckResults[0].Reviewed)
	assert.Equal(t, "agent-7", *got.CheckResults[0].ReviewedBy)
	assert.Equal(t, m.now, *got.CheckResults[0].ReviewedAt)
	assert.Equal(t, 50, got.CheckSummary.ReviewProgress)
	require.Len(t, events, 1)
	assert.Equal(t, domain.AuditEventCheckReviewed, events[0].EventType)

	// un-review clears the reviewer
	expectMutate(m, row, &events)
	got, err = mgr.SetCheckReviewed(context.Background(), renewal.ReviewInput{
		TenantID: "tenant-1", ComparisonID: "cmp-1", RuleID: "PREMIUM-CHANGE", Reviewed: false, ReviewerID: "agent-7",
	})
	require.NoError(t, err)
	assert.Nil(t, got.CheckResults[0].ReviewedBy)
	assert.Equal(t, 0, got.CheckSummary.ReviewProgress)
}

func TestSetCheckReviewed_UnknownRule(t *testing.T) {
	m, mgr := setupTestManager(t)
	defer m.ctrl.Finish()

	row := &domain.RenewalComparison{ID: "cmp-1", TenantID: "tenant-1"}
	var events []store.AuditEventInput
	expectMutate(m, row, &events)

	_, err := mgr.SetCheckReviewed(context.Background(), renewal.ReviewInput{TenantID: "tenant-1", ComparisonID: "cmp-1", RuleID: "NOPE", Reviewed: true})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet(t *testing.T) {
	m, mgr := setupTestManager(t)
	defer m.ctrl.Finish()

	m.store.EXPECT().GetComparison(gomock.Any(), "tenant-1", "cmp-1").Return(&domain.RenewalComparison{ID: "cmp-1"}, nil)
	c, err := mgr.Get(context.Background(), "tenant-1", "cmp-1")
	require.NoError(t, err)
	assert.Equal(t, "cmp-1", c.ID)

	m.store.EXPECT().GetComparison(gomock.Any(), "tenant-1", "cmp-2").Return(nil, nil)
	_, err = mgr.Get(context.Background(), "tenant-1", "cmp-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, renewal.CanTransition(domain.StatusPendingManualRenewal, domain.StatusWaitingAgentReview))
	assert.True(t, renewal.CanTransition(domain.StatusRequoteRequested, domain.StatusAgentReviewed))
	assert.False(t, renewal.CanTransition(domain.StatusAgentReviewed, domain.StatusWaitingAgentReview))
	assert.False(t, renewal.CanTransition(domain.StatusCancelled, domain.StatusCompleted))
}
