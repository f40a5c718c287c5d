package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/config"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/messaging"
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
	cfg, err := config.LoadDispatcherConfig(*configFile, *envPath)
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
			"service": "sr-dispatcher",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting service request dispatcher")

	// Connect to database
	db, err := store.Open(cfg.Database, cfg.Debug)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	dataStore := store.NewPGStore(db)

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

	dispatcher := servicerequest.NewDispatcher(servicerequest.DispatcherConfig{
		Subject:        servicerequest.Subject(cfg.NATS.SubjectPrefix),
		BatchSize:      cfg.Outbox.BatchSize,
		WorkerPoolSize: cfg.Worker.WorkerPoolSize,
		MaxAttempts:    cfg.Outbox.MaxAttempts,
		PollInterval:   cfg.Outbox.PollInterval,
		PublishTimeout: cfg.Outbox.PublishTimeout,
		InitialBackoff: cfg.Outbox.InitialBackoff,
		MaxBackoff:     cfg.Outbox.MaxBackoff,
	}, dataStore, js, adapter.NewClock())

	logger.InfoCtx(ctx, "Initialized service request dispatcher",
		zap.Int("batch_size", cfg.Outbox.BatchSize),
		zap.Int("worker_pool_size", cfg.Worker.WorkerPoolSize),
		zap.Duration("poll_interval", cfg.Outbox.PollInterval),
	)

	// Start the dispatcher in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := dispatcher.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	// Cancel context to stop the dispatcher
	cancel()

	// Give in-flight publishes time to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Outbox.PublishTimeout+2*time.Second)
	defer shutdownCancel()

	if err := dispatcher.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	logger.InfoCtx(shutdownCtx, "Dispatcher stopped")
}
