package servicerequest_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/agencyops/renewal-engine/internal/audit"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/mocks"
	"github.com/agencyops/renewal-engine/internal/servicerequest"
	"github.com/agencyops/renewal-engine/internal/store"
	"github.com/agencyops/renewal-engine/internal/store/schema"
)

const testSubject = "renewals.service_requests.create"

type testDispatcherMocks struct {
	ctrl  *gomock.Controller
	store *mocks.MockStore
	js    *mocks.MockJetStream
	clock *mocks.MockClock
	now   time.Time
}

func setupTestDispatcher(t *testing.T, maxAttempts int) (*testDispatcherMocks, servicerequest.Dispatcher) {
	ctrl := gomock.NewController(t)
	m := &testDispatcherMocks{
		ctrl:  ctrl,
		store: mocks.NewMockStore(ctrl),
		js:    mocks.NewMockJetStream(ctrl),
		clock: mocks.NewMockClock(ctrl),
		now:   time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	m.clock.EXPECT().Now().Return(m.now).AnyTimes()

	d := servicerequest.NewDispatcher(servicerequest.DispatcherConfig{
		Subject:        testSubject,
		BatchSize:      10,
		WorkerPoolSize: 2,
		MaxAttempts:    maxAttempts,
		PublishTimeout: time.Second,
		InitialBackoff: time.Minute,
		MaxBackoff:     time.Hour,
	}, m.store, m.js, m.clock)
	return m, d
}

func outboxRow(t *testing.T, id string, attempts int) schema.ServiceRequestOutbox {
	payload, err := json.Marshal(servicerequest.Payload{ServiceRequestID: id, Queue: "Renewals"})
	require.NoError(t, err)
	return schema.ServiceRequestOutbox{
		ID:                  id,
		TenantID:            "tenant-1",
		RenewalComparisonID: "cmp-" + id,
		Payload:             datatypes.JSON(payload),
		Status:              schema.OutboxStatusPending,
		Attempts:            attempts,
	}
}

func TestDispatcher_RunCycle_Delivers(t *testing.T) {
	m, d := setupTestDispatcher(t, 5)
	defer m.ctrl.Finish()

	row := outboxRow(t, "01A", 1)
	m.store.EXPECT().
		ClaimDueServiceRequests(gomock.Any(), store.ClaimServiceRequestsInput{Limit: 10, Now: m.now, Lease: 3 * time.Second}).
		Return([]schema.ServiceRequestOutbox{row}, nil)
	m.js.EXPECT().
		Publish(gomock.Any(), testSubject, []byte(row.Payload), gomock.Any()).
		Return(&jetstream.PubAck{Stream: "RENEWALS", Sequence: 4}, nil)
	m.store.EXPECT().
		MarkServiceRequestDelivered(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.MarkServiceRequestDeliveredInput) error {
			assert.Equal(t, "01A", input.ID)
			assert.Equal(t, m.now, input.DeliveredAt)
			assert.Equal(t, domain.AuditEventSRMoved, input.Event.EventType)
			var data audit.SRMovedData
			require.NoError(t, json.Unmarshal(input.Event.EventData, &data))
			assert.Equal(t, "Renewals", data.Queue)
			assert.Equal(t, testSubject, data.Subject)
			assert.Equal(t, 1, data.Attempts)
			return nil
		})

	claimed, err := d.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, claimed)
}

func TestDispatcher_RunCycle_SchedulesRetry(t *testing.T) {
	m, d := setupTestDispatcher(t, 5)
	defer m.ctrl.Finish()

	row := outboxRow(t, "01B", 3)
	m.store.EXPECT().ClaimDueServiceRequests(gomock.Any(), gomock.Any()).Return([]schema.ServiceRequestOutbox{row}, nil)
	m.js.EXPECT().Publish(gomock.Any(), testSubject, gomock.Any(), gomock.Any()).Return(nil, errors.New("no responders"))
	m.store.EXPECT().RecordServiceRequestFailure(gomock.Any(), store.RecordServiceRequestFailureInput{
		ID:            "01B",
		Error:         "no responders",
		NextAttemptAt: m.now.Add(4 * time.Minute),
		Terminal:      false,
	}).Return(nil)

	claimed, err := d.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, claimed)
}

func TestDispatcher_RunCycle_TerminalAfterMaxAttempts(t *testing.T) {
	m, d := setupTestDispatcher(t, 3)
	defer m.ctrl.Finish()

	exhausted := outboxRow(t, "01C", 3)
	malformed := outboxRow(t, "01D", 1)
	malformed.Payload = datatypes.JSON(`[1,2`)

	m.store.EXPECT().ClaimDueServiceRequests(gomock.Any(), gomock.Any()).
		Return([]schema.ServiceRequestOutbox{exhausted, malformed}, nil)
	m.js.EXPECT().Publish(gomock.Any(), testSubject, []byte(exhausted.Payload), gomock.Any()).Return(nil, errors.New("timeout"))
	m.store.EXPECT().
		RecordServiceRequestFailure(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.RecordServiceRequestFailureInput) error {
			assert.True(t, input.Terminal, input.ID)
			return nil
		}).
		Times(2)

	_, err := d.RunCycle(context.Background())
	require.NoError(t, err)
}

func TestDispatcher_RunCycle_Empty(t *testing.T) {
	m, d := setupTestDispatcher(t, 3)
	defer m.ctrl.Finish()

	m.store.EXPECT().ClaimDueServiceRequests(gomock.Any(), gomock.Any()).Return(nil, nil)

	claimed, err := d.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, claimed)
}

func TestDispatcher_RunCycle_ClaimError(t *testing.T) {
	m, d := setupTestDispatcher(t, 3)
	defer m.ctrl.Finish()

	m.store.EXPECT().ClaimDueServiceRequests(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := d.RunCycle(context.Background())
	assert.ErrorContains(t, err, "failed to claim service requests")
}

func TestDispatcher_StartStop(t *testing.T) {
	m, d := setupTestDispatcher(t, 3)
	defer m.ctrl.Finish()

	after := make(chan time.Time)
	m.clock.EXPECT().After(gomock.Any()).Return(after).AnyTimes()
	m.store.EXPECT().ClaimDueServiceRequests(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
	// already stopped
	assert.NoError(t, d.Stop(context.Background()))
	assert.Equal(t, "service-request-dispatcher", d.Name())
}

func TestRetryDelay(t *testing.T) {
	assert.Equal(t, time.Minute, servicerequest.RetryDelay(1, time.Minute, time.Hour))
	assert.Equal(t, 2*time.Minute, servicerequest.RetryDelay(2, time.Minute, time.Hour))
	assert.Equal(t, 8*time.Minute, servicerequest.RetryDelay(4, time.Minute, time.Hour))
	assert.Equal(t, time.Hour, servicerequest.RetryDelay(20, time.Minute, time.Hour))
}
