package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/al3"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/logger"
)

// ConsumerConfig holds the configuration for the AL3 batch consumer
type ConsumerConfig struct {
	StreamName   string
	ConsumerName string
	Subject      string
	AckWait      time.Duration
	MaxDeliver   int
	// MaxInFlight bounds the batches processed at once
	MaxInFlight int
	// RetryDelay is the redelivery delay after a batch with failed renewals
	RetryDelay time.Duration
}

// Consumer feeds AL3 batches from JetStream into the processor
type Consumer interface {
	// Run consumes until ctx ends
	Run(ctx context.Context) error
	// HandleMessage processes a single batch message and settles it
	HandleMessage(ctx context.Context, msg adapter.Message)
}

type consumer struct {
	config    ConsumerConfig
	js        adapter.JetStream
	processor Processor
	json      adapter.JSON
}

// NewConsumer creates a batch consumer
func NewConsumer(cfg ConsumerConfig, js adapter.JetStream, processor Processor, jsonAdapter adapter.JSON) Consumer {
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 4
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 30 * time.Second
	}
	return &consumer{
		config:    cfg,
		js:        js,
		processor: processor,
		json:      jsonAdapter,
	}
}

// Run starts consuming batches
func (c *consumer) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Starting AL3 batch consumer",
		zap.String("stream", c.config.StreamName),
		zap.String("consumer", c.config.ConsumerName),
		zap.String("subject", c.config.Subject))

	cons, err := c.js.CreateOrUpdateConsumer(ctx, c.config.StreamName, jetstream.ConsumerConfig{
		Durable:       c.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       c.config.AckWait,
		MaxDeliver:    c.config.MaxDeliver,
		FilterSubject: c.config.Subject,
	})
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	pool := pond.NewPool(c.config.MaxInFlight, pond.WithContext(ctx))
	defer pool.StopAndWait()

	msgChan := make(chan adapter.Message, c.config.MaxInFlight)
	sub, err := cons.Consume(func(msg adapter.Message) {
		select {
		case msgChan <- msg:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.InfoCtx(ctx, "Started consuming AL3 batches")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down AL3 batch consumer")
			return ctx.Err()
		case <-sub.Closed():
			return errors.New("consume context closed")
		case msg := <-msgChan:
			pool.Submit(func() {
				c.HandleMessage(ctx, msg)
			})
		}
	}
}

// HandleMessage processes one batch message: malformed or invalid batches are terminated,
// batches with failed renewals are redelivered, everything else is acked.
// Reprocessing is safe because comparisons and archive rows are idempotent.
func (c *consumer) HandleMessage(ctx context.Context, msg adapter.Message) {
	var delivered uint64
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		delivered = metadata.NumDelivered
	}

	var batch al3.Batch
	if err := c.json.Unmarshal(msg.Data(), &batch); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to unmarshal AL3 batch: %w", err), zap.String("subject", msg.Subject()))
		terminate(ctx, msg)
		return
	}

	fields := []zap.Field{
		zap.String("tenant_id", batch.TenantID),
		zap.String("batch_id", batch.BatchID),
		zap.Uint64("delivery_count", delivered),
	}
	logger.InfoCtx(ctx, "Received AL3 batch", append(fields, zap.Int("transactions", len(batch.Transactions)))...)

	result, err := c.processor.ProcessBatch(ctx, batch)
	switch {
	case errors.Is(err, domain.ErrValidation):
		logger.ErrorCtx(ctx, fmt.Errorf("rejected AL3 batch: %w", err), fields...)
		terminate(ctx, msg)
		return
	case err != nil:
		logger.ErrorCtx(ctx, fmt.Errorf("failed to process AL3 batch: %w", err), fields...)
		nak(ctx, msg, 0)
		return
	}

	if result.Failed > 0 && (c.config.MaxDeliver <= 0 || int(delivered) < c.config.MaxDeliver) {
		logger.WarnCtx(ctx, "AL3 batch had failed renewals, requesting redelivery",
			append(fields, zap.Int("failed", result.Failed))...)
		nak(ctx, msg, c.config.RetryDelay)
		return
	}

	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to ack message: %w", err), fields...)
	}
}

func terminate(ctx context.Context, msg adapter.Message) {
	if err := msg.Term(); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to terminate message: %w", err))
	}
}

func nak(ctx context.Context, msg adapter.Message, delay time.Duration) {
	var err error
	if delay > 0 {
		err = msg.NakWithDelay(delay)
	} else {
		err = msg.Nak()
	}
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to nak message: %w", err))
	}
}
