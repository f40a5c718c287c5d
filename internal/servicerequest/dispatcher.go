package servicerequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/audit"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/store"
	"github.com/agencyops/renewal-engine/internal/store/schema"
	"github.com/agencyops/renewal-engine/internal/sweeper"
)

const (
	DEFAULT_POLL_INTERVAL   = 5 * time.Second
	DEFAULT_PUBLISH_TIMEOUT = 10 * time.Second
	DEFAULT_MAX_ATTEMPTS    = 8
	DEFAULT_INITIAL_BACKOFF = 30 * time.Second
	DEFAULT_MAX_BACKOFF     = 30 * time.Minute
)

// DispatcherConfig holds configuration for the outbox dispatcher
type DispatcherConfig struct {
	Subject        string
	BatchSize      int
	WorkerPoolSize int
	MaxAttempts    int
	PollInterval   time.Duration
	PublishTimeout time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func (c *DispatcherConfig) applyDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.WorkerPoolSize <= 0 {
		c.WorkerPoolSize = 4
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DEFAULT_MAX_ATTEMPTS
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DEFAULT_POLL_INTERVAL
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = DEFAULT_PUBLISH_TIMEOUT
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = DEFAULT_INITIAL_BACKOFF
	}
	if c.MaxBackoff < c.InitialBackoff {
		c.MaxBackoff = DEFAULT_MAX_BACKOFF
	}
}

// lease keeps a claimed row away from other dispatchers while its publish is in flight
func (c *DispatcherConfig) lease() time.Duration {
	return 3 * c.PublishTimeout
}

// Dispatcher relays due outbox rows to the AgencyZoom bridge subject
//
//go:generate mockgen -source=dispatcher.go -destination=../mocks/servicerequest_dispatcher.go -package=mocks -mock_names=Dispatcher=MockDispatcher
type Dispatcher interface {
	sweeper.Sweeper

	// RunCycle claims due rows and delivers them, returning the number claimed
	RunCycle(ctx context.Context) (int, error)
}

// dispatcher relays outbox rows to the AgencyZoom bridge subject
type dispatcher struct {
	config    DispatcherConfig
	store     store.Store
	js        adapter.JetStream
	clock     adapter.Clock
	pool      pond.Pool
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewDispatcher creates the outbox dispatcher
func NewDispatcher(cfg DispatcherConfig, st store.Store, js adapter.JetStream, clock adapter.Clock) Dispatcher {
	cfg.applyDefaults()
	return &dispatcher{
		config:    cfg,
		store:     st,
		js:        js,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the dispatcher's name
func (d *dispatcher) Name() string {
	return "service-request-dispatcher"
}

// Start runs dispatch cycles until the context is canceled or Stop is called
func (d *dispatcher) Start(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return fmt.Errorf("dispatcher already running")
	}
	defer func() {
		d.running.Store(false)
		close(d.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting service request dispatcher",
		zap.String("subject", d.config.Subject),
		zap.Int("batch_size", d.config.BatchSize),
		zap.Int("worker_pool_size", d.config.WorkerPoolSize),
		zap.Int("max_attempts", d.config.MaxAttempts),
	)

	d.pool = pond.NewPool(
		d.config.WorkerPoolSize,
		pond.WithQueueSize(d.config.BatchSize),
		pond.WithContext(ctx),
	)
	defer d.pool.StopAndWait()

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Service request dispatcher stopping due to context cancellation", zap.Error(ctx.Err()))
			return nil
		case <-d.stopChan:
			logger.InfoCtx(ctx, "Service request dispatcher stop requested")
			return nil
		default:
			claimed, err := d.RunCycle(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorCtx(ctx, err)
			}
			// A full batch means more rows are probably due
			if err != nil || claimed < d.config.BatchSize {
				d.sleep(ctx, d.config.PollInterval)
			}
		}
	}
}

// Stop gracefully stops the dispatcher with timeout support
func (d *dispatcher) Stop(ctx context.Context) error {
	if !d.running.CompareAndSwap(true, false) {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping service request dispatcher")
	close(d.stopChan)

	select {
	case <-d.stoppedCh:
		logger.InfoCtx(ctx, "Service request dispatcher stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Service request dispatcher stop interrupted by context timeout")
		return ctx.Err()
	}
}

func (d *dispatcher) RunCycle(ctx context.Context) (int, error) {
	now := d.clock.Now().UTC()
	rows, err := d.store.ClaimDueServiceRequests(ctx, store.ClaimServiceRequestsInput{
		Limit: d.config.BatchSize,
		Now:   now,
		Lease: d.config.lease(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to claim service requests: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	var delivered, failed atomic.Int32
	pool := d.pool
	if pool == nil {
		pool = pond.NewPool(d.config.WorkerPoolSize, pond.WithContext(ctx))
		defer pool.StopAndWait()
	}
	group := pool.NewGroup()
	for _, row := range rows {
		row := row
		group.Submit(func() {
			if d.deliver(ctx, row) {
				delivered.Add(1)
			} else {
				failed.Add(1)
			}
		})
	}
	if err := group.Wait(); err != nil {
		return len(rows), fmt.Errorf("dispatch cycle interrupted: %w", err)
	}

	logger.InfoCtx(ctx, "Dispatch cycle completed",
		zap.Int("claimed", len(rows)),
		zap.Int32("delivered", delivered.Load()),
		zap.Int32("failed", failed.Load()),
	)
	return len(rows), nil
}

// deliver publishes one row and records the outcome
func (d *dispatcher) deliver(ctx context.Context, row schema.ServiceRequestOutbox) bool {
	fields := append(logger.Comparison(row.TenantID, row.RenewalComparisonID),
		zap.String("service_request_id", row.ID),
		zap.Int("attempt", row.Attempts))

	var payload Payload
	if err := json.Unmarshal(row.Payload, &payload); err != nil {
		d.recordFailure(ctx, row, fmt.Errorf("invalid payload: %w", err), true, fields)
		return false
	}

	pubCtx, cancel := context.WithTimeout(ctx, d.config.PublishTimeout)
	_, err := d.js.Publish(pubCtx, d.config.Subject, row.Payload, jetstream.WithMsgID(row.ID))
	cancel()
	if err != nil {
		d.recordFailure(ctx, row, err, row.Attempts >= d.config.MaxAttempts, fields)
		return false
	}

	deliveredAt := d.clock.Now().UTC()
	event := audit.SRMoved(audit.SRMovedData{
		ServiceRequestID: row.ID,
		Subject:          d.config.Subject,
		Queue:            payload.Queue,
		Attempts:         row.Attempts,
	}, deliveredAt)

	// The message is already published; retrying the bookkeeping avoids a duplicate publish after the lease ends
	err = d.withRetry(ctx, "mark service request delivered", fields, func() error {
		return d.store.MarkServiceRequestDelivered(ctx, store.MarkServiceRequestDeliveredInput{
			ID:          row.ID,
			DeliveredAt: deliveredAt,
			Event:       event,
		})
	})
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to mark service request delivered: %w", err), fields...)
		return false
	}

	logger.InfoCtx(ctx, "Service request delivered", fields...)
	return true
}

func (d *dispatcher) recordFailure(ctx context.Context, row schema.ServiceRequestOutbox, cause error, terminal bool, fields []zap.Field) {
	next := d.clock.Now().UTC().Add(RetryDelay(row.Attempts, d.config.InitialBackoff, d.config.MaxBackoff))
	logger.ErrorCtx(ctx, fmt.Errorf("%w: %w", domain.ErrBridgeFailure, cause),
		append(fields, zap.Bool("terminal", terminal), zap.Time("next_attempt_at", next))...)

	err := d.store.RecordServiceRequestFailure(ctx, store.RecordServiceRequestFailureInput{
		ID:            row.ID,
		Error:         cause.Error(),
		NextAttemptAt: next,
		Terminal:      terminal,
	})
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to record service request failure: %w", err), fields...)
	}
}

// withRetry runs op with a short exponential backoff
func (d *dispatcher) withRetry(ctx context.Context, what string, fields []zap.Field, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second

	var attemptCount int
	notify := func(err error, next time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, what+" failed, retrying",
			append(fields, zap.Error(err), zap.Int("retry", attemptCount), zap.Duration("next_retry_in", next))...)
	}
	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
}

// sleep waits for duration unless the context ends or a stop is requested
func (d *dispatcher) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-d.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-d.stopChan:
		return false
	}
}

// RetryDelay is the wait after the given failed attempt (1-based): initial doubled per attempt, capped at max
func RetryDelay(attempt int, initial, maxDelay time.Duration) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxInterval = maxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	delay := b.NextBackOff()
	for i := 1; i < attempt; i++ {
		delay = b.NextBackOff()
	}
	return delay
}
