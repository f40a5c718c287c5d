package servicerequest_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/mocks"
	"github.com/agencyops/renewal-engine/internal/servicerequest"
)

func init() {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
}

func testRequest() servicerequest.Request {
	agent := "agent-7"
	return servicerequest.Request{
		TenantID:             "tenant-1",
		ComparisonID:         "6f1d1d4e-4a57-4c55-9a43-0f7c3d0b1a11",
		PolicyNumber:         "PA123",
		CarrierName:          "Acme Mutual",
		RenewalEffectiveDate: domain.MustParseDate("2025-04-01"),
		AssignedAgentID:      &agent,
		Recommendation:       domain.RecommendationEscalate,
		MaterialChanges:      []string{"BI limit increased 25/50 → 50/100"},
		CheckSummary: domain.CheckSummary{
			CriticalCount:  1,
			WarningCount:   2,
			BlockerRuleIDs: []string{"LOB-MISMATCH"},
		},
	}
}

func TestBridge_Prepare(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClock := mocks.NewMockClock(ctrl)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mockClock.EXPECT().Now().Return(now)

	b := servicerequest.NewBridge(mockClock, "Renewals")

	input, err := b.Prepare(testRequest())
	require.NoError(t, err)

	id, err := ulid.ParseStrict(input.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(now.UnixMilli()), id.Time())
	assert.Equal(t, "tenant-1", input.TenantID)
	assert.Equal(t, "6f1d1d4e-4a57-4c55-9a43-0f7c3d0b1a11", input.RenewalComparisonID)
	assert.Equal(t, now, input.NextAttemptAt)

	var payload servicerequest.Payload
	require.NoError(t, json.Unmarshal(input.Payload, &payload))
	assert.Equal(t, input.ID, payload.ServiceRequestID)
	assert.Equal(t, "Renewals", payload.Queue)
	assert.Equal(t, servicerequest.PriorityHigh, payload.Priority)
	assert.Equal(t, "Renewal review: PA123 (Acme Mutual) effective 2025-04-01", payload.Title)
	assert.Equal(t, "Recommendation: escalate\n"+
		"Checks: 1 critical, 2 warning, 0 info\n"+
		"Blocked by: LOB-MISMATCH\n"+
		"Material changes:\n- BI limit increased 25/50 → 50/100", payload.Description)
}

func TestBridge_Prepare_RequiresComparison(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	b := servicerequest.NewBridge(mocks.NewMockClock(ctrl), "")

	_, err := b.Prepare(servicerequest.Request{TenantID: "tenant-1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = b.Prepare(servicerequest.Request{ComparisonID: "cmp-1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "renewals.service_requests.create", servicerequest.Subject("renewals"))
	assert.Equal(t, "renewals.service_requests.create", servicerequest.Subject("renewals."))
	assert.Equal(t, "service_requests.create", servicerequest.Subject(""))
}

func TestRequestFromComparison(t *testing.T) {
	c := &domain.RenewalComparison{
		ID:             "cmp-1",
		TenantID:       "tenant-1",
		PolicyNumber:   "PA123",
		CarrierName:    "Acme",
		Recommendation: domain.RecommendationAccept,
	}
	req := servicerequest.RequestFromComparison(c)
	assert.Equal(t, "cmp-1", req.ComparisonID)
	assert.Equal(t, domain.RecommendationAccept, req.Recommendation)
}
