package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/archive"
	"github.com/agencyops/renewal-engine/internal/baseline"
	"github.com/agencyops/renewal-engine/internal/comparison"
	"github.com/agencyops/renewal-engine/internal/config"
	"github.com/agencyops/renewal-engine/internal/ingest"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/messaging"
	"github.com/agencyops/renewal-engine/internal/renewal"
	"github.com/agencyops/renewal-engine/internal/servicerequest"
	"github.com/agencyops/renewal-engine/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadWorkerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "renewal-worker",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting renewal worker")

	// Connect to database
	db, err := store.Open(cfg.Database, cfg.Debug)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()

	// Connect to NATS
	natsCfg := messaging.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		SubjectPrefix:  cfg.NATS.SubjectPrefix,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
	}
	nc, js, err := messaging.Connect(natsCfg, adapter.NewNatsJetStream())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer nc.Close()
	if err := messaging.EnsureStream(ctx, js, natsCfg); err != nil {
		logger.FatalCtx(ctx, "Failed to set up stream", zap.Error(err))
	}

	// Wire the batch pipeline
	builder := baseline.NewBuilder(dataStore)
	bridge := servicerequest.NewBridge(clock, cfg.Outbox.AgencyZoomQueue)
	processor := ingest.NewProcessor(ingest.Config{
		PoolSize:            cfg.Worker.WorkerPoolSize,
		QueueSize:           cfg.Worker.WorkerQueueSize,
		RequiredDisclosures: cfg.Comparison.DisclosuresByLine(),
	},
		archive.NewWriter(dataStore),
		builder,
		comparison.NewEngine(),
		renewal.NewManager(dataStore, builder, bridge, adapter.NewJCS(), clock),
	)

	consumer := ingest.NewConsumer(ingest.ConsumerConfig{
		StreamName:   cfg.NATS.StreamName,
		ConsumerName: cfg.NATS.ConsumerName,
		Subject:      messaging.BatchSubject(cfg.NATS.SubjectPrefix),
		AckWait:      cfg.NATS.AckWait,
		MaxDeliver:   cfg.NATS.MaxDeliver,
	}, js, processor, adapter.NewJSON())

	logger.InfoCtx(ctx, "Initialized renewal worker",
		zap.Int("pool_size", cfg.Worker.WorkerPoolSize),
		zap.String("subject", messaging.BatchSubject(cfg.NATS.SubjectPrefix)),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "consumer"))
	}

	cancel()

	// Drain so in-flight acks reach the server
	if err := nc.Drain(); err != nil {
		logger.Error(err, zap.String("component", "nats"))
	}

	logger.Info("Renewal worker stopped")
}
