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
	"github.com/agencyops/renewal-engine/internal/api/middleware"
	"github.com/agencyops/renewal-engine/internal/api/server"
	"github.com/agencyops/renewal-engine/internal/api/shared/executor"
	"github.com/agencyops/renewal-engine/internal/archive"
	"github.com/agencyops/renewal-engine/internal/audit"
	"github.com/agencyops/renewal-engine/internal/baseline"
	"github.com/agencyops/renewal-engine/internal/comparison"
	"github.com/agencyops/renewal-engine/internal/config"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/property"
	"github.com/agencyops/renewal-engine/internal/providers/geocoder"
	"github.com/agencyops/renewal-engine/internal/providers/nearmap"
	"github.com/agencyops/renewal-engine/internal/providers/propertyapi"
	"github.com/agencyops/renewal-engine/internal/providers/rpr"
	"github.com/agencyops/renewal-engine/internal/ratelimit"
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
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
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
			"service": "renewal-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Renewal Engine API")

	// Connect to database
	db, err := store.Open(cfg.Database, cfg.Debug)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		zap.Bool("read_replica", cfg.Database.ReadHost != ""),
	)

	// Initialize store and adapters
	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()
	httpClient := adapter.NewHTTPClient(cfg.Property.HTTPClientTimeout)

	// Provider rate limiter is optional; a nil limiter lets every call through
	var limiter ratelimit.Limiter
	if cfg.RateLimiter.Enabled {
		redisClient := adapter.NewRedisClient(cfg.RateLimiter.RedisAddr, cfg.RateLimiter.RedisPassword, cfg.RateLimiter.RedisDB)
		limiter, err = ratelimit.NewLimiter(cfg.RateLimiter, redisClient, clock)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create rate limiter", zap.Error(err))
		}
		defer func() {
			if err := limiter.Close(); err != nil {
				logger.Error(err, zap.String("component", "rate_limiter"))
			}
		}()
		logger.InfoCtx(ctx, "Provider rate limiter enabled", zap.String("redis_addr", cfg.RateLimiter.RedisAddr))
	}

	// Wire the renewal components
	builder := baseline.NewBuilder(dataStore)
	bridge := servicerequest.NewBridge(clock, cfg.Outbox.AgencyZoomQueue)
	manager := renewal.NewManager(dataStore, builder, bridge, adapter.NewJCS(), clock)
	verifier := property.NewVerifier(property.Config{
		ProviderTimeout: cfg.Property.ProviderTimeout,
		CacheTTL:        cfg.Property.CacheTTL,
	}, dataStore, property.Providers{
		RPR:         rpr.NewClient(httpClient, limiter, cfg.Property.RPRURL, cfg.Property.RPRToken),
		PropertyAPI: propertyapi.NewClient(httpClient, limiter, cfg.Property.PropertyAPIURL, cfg.Property.PropertyAPIKey),
		Geocoder:    geocoder.NewClient(httpClient, limiter, cfg.Property.GeocoderURL, cfg.Property.GeocoderAPIKey),
		Nearmap:     nearmap.NewClient(httpClient, limiter, cfg.Property.NearmapURL, cfg.Property.NearmapAPIKey),
	}, clock)

	exec := executor.NewExecutor(
		executor.Config{RequiredDisclosures: cfg.Comparison.DisclosuresByLine()},
		builder,
		archive.NewWriter(dataStore),
		comparison.NewEngine(),
		manager,
		verifier,
		audit.NewLog(dataStore, clock),
	)

	// Create server config
	serverConfig := server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}

	srv := server.New(serverConfig, exec)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
