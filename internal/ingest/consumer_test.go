package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/al3"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/ingest"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/mocks"
)

type testConsumerMocks struct {
	ctrl      *gomock.Controller
	js        *mocks.MockJetStream
	processor *mocks.MockProcessor
	msg       *mocks.MockJetStreamMessage
}

func setupTestConsumer(t *testing.T) (*testConsumerMocks, ingest.Consumer) {
	err := logger.Initialize(logger.Config{Debug: true})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	ctrl := gomock.NewController(t)
	m := &testConsumerMocks{
		ctrl:      ctrl,
		js:        mocks.NewMockJetStream(ctrl),
		processor: mocks.NewMockProcessor(ctrl),
		msg:       mocks.NewMockJetStreamMessage(ctrl),
	}
	c := ingest.NewConsumer(ingest.ConsumerConfig{
		StreamName:   "RENEWALS",
		ConsumerName: "renewal-worker",
		Subject:      "renewals.al3.batches",
		MaxDeliver:   3,
		RetryDelay:   time.Minute,
	}, m.js, m.processor, adapter.NewJSON())
	return m, c
}

func (m *testConsumerMocks) delivery(data string, delivered uint64) {
	m.msg.EXPECT().Data().Return([]byte(data)).AnyTimes()
	m.msg.EXPECT().Subject().Return("renewals.al3.batches").AnyTimes()
	m.msg.EXPECT().Metadata().Return(&jetstream.MsgMetadata{NumDelivered: delivered}, nil).AnyTimes()
}

const batchJSON = `{"tenantId":"tenant-1","batchId":"batch-1","transactions":[{"sequence":1,"type":"XLN"}]}`

func TestHandleMessage_Ack(t *testing.T) {
	m, c := setupTestConsumer(t)
	defer m.ctrl.Finish()

	m.delivery(batchJSON, 1)
	m.processor.EXPECT().
		ProcessBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, batch al3.Batch) (*ingest.BatchResult, error) {
			assert.Equal(t, "tenant-1", batch.TenantID)
			require.Len(t, batch.Transactions, 1)
			return &ingest.BatchResult{Archived: 1}, nil
		})
	m.msg.EXPECT().Ack().Return(nil)

	c.HandleMessage(context.Background(), m.msg)
}

func TestHandleMessage_MalformedIsTerminated(t *testing.T) {
	m, c := setupTestConsumer(t)
	defer m.ctrl.Finish()

	m.delivery(`{"tenantId":`, 1)
	m.msg.EXPECT().Term().Return(nil)

	c.HandleMessage(context.Background(), m.msg)
}

func TestHandleMessage_InvalidBatchIsTerminated(t *testing.T) {
	m, c := setupTestConsumer(t)
	defer m.ctrl.Finish()

	m.delivery(`{"tenantId":"tenant-1"}`, 1)
	m.processor.EXPECT().
		ProcessBatch(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: tenantId and batchId are required", domain.ErrValidation))
	m.msg.EXPECT().Term().Return(nil)

	c.HandleMessage(context.Background(), m.msg)
}

func TestHandleMessage_ProcessingErrorIsNaked(t *testing.T) {
	m, c := setupTestConsumer(t)
	defer m.ctrl.Finish()

	m.delivery(batchJSON, 1)
	m.processor.EXPECT().ProcessBatch(gomock.Any(), gomock.Any()).Return(nil, errors.New("interrupted"))
	m.msg.EXPECT().Nak().Return(nil)

	c.HandleMessage(context.Background(), m.msg)
}

func TestHandleMessage_FailedRenewalsAreRedelivered(t *testing.T) {
	m, c := setupTestConsumer(t)
	defer m.ctrl.Finish()

	m.delivery(batchJSON, 2)
	m.processor.EXPECT().ProcessBatch(gomock.Any(), gomock.Any()).Return(&ingest.BatchResult{Renewals: 2, Failed: 1}, nil)
	m.msg.EXPECT().NakWithDelay(time.Minute).Return(nil)

	c.HandleMessage(context.Background(), m.msg)
}

func TestHandleMessage_LastDeliveryIsAcked(t *testing.T) {
	m, c := setupTestConsumer(t)
	defer m.ctrl.Finish()

	m.delivery(batchJSON, 3)
	m.processor.EXPECT().ProcessBatch(gomock.Any(), gomock.Any()).Return(&ingest.BatchResult{Renewals: 2, Failed: 1}, nil)
	m.msg.EXPECT().Ack().Return(nil)

	c.HandleMessage(context.Background(), m.msg)
}

func TestRun_ConsumerSetupFailure(t *testing.T) {
	m, c := setupTestConsumer(t)
	defer m.ctrl.Finish()

	m.js.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), "RENEWALS", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, cfg jetstream.ConsumerConfig) (adapter.Consumer, error) {
			assert.Equal(t, "renewal-worker", cfg.Durable)
			assert.Equal(t, "renewals.al3.batches", cfg.FilterSubject)
			assert.Equal(t, jetstream.AckExplicitPolicy, cfg.AckPolicy)
			return nil, errors.New("stream not found")
		})

	err := c.Run(context.Background())
	assert.ErrorContains(t, err, "stream not found")
}

func TestRun_DispatchesMessages(t *testing.T) {
	m, c := setupTestConsumer(t)
	defer m.ctrl.Finish()

	cons := mocks.NewMockNatsConsumer(m.ctrl)
	consumeCtx := mocks.NewMockConsumeContext(m.ctrl)
	m.js.EXPECT().CreateOrUpdateConsumer(gomock.Any(), "RENEWALS", gomock.Any()).Return(cons, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cons.EXPECT().
		Consume(gomock.Any()).
		DoAndReturn(func(handler adapter.MessageHandler, _ ...jetstream.PullConsumeOpt) (adapter.ConsumeContext, error) {
			go handler(m.msg)
			return consumeCtx, nil
		})
	consumeCtx.EXPECT().Closed().Return(make(chan struct{})).AnyTimes()
	consumeCtx.EXPECT().Stop()

	m.delivery(batchJSON, 1)
	m.processor.EXPECT().ProcessBatch(gomock.Any(), gomock.Any()).Return(&ingest.BatchResult{}, nil)
	m.msg.EXPECT().Ack().DoAndReturn(func() error {
		cancel()
		return nil
	})

	err := c.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
