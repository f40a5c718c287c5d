package ratelimit

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/config"
	"github.com/agencyops/renewal-engine/internal/logger"
)

const (
	// DEFAULT_MAX_WAIT bounds how long a caller waits for a token
	DEFAULT_MAX_WAIT = 30 * time.Second

	healthCheckInterval = 10 * time.Second
)

// Limiter throttles calls to external providers across every process sharing the same Redis
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit_limiter.go -package=mocks -mock_names=Limiter=MockLimiter
type Limiter interface {
	// Wait blocks until a token for the provider is available or ctx ends.
	// Providers without a configured limit pass through immediately.
	Wait(ctx context.Context, provider string) error

	// Close stops the health monitor and closes the Redis connection
	Close() error
}

// Do acquires a token for the provider then runs fn. A nil limiter runs fn directly.
func Do[T any](ctx context.Context, l Limiter, provider string, fn func(ctx context.Context) (T, error)) (T, error) {
	if l != nil {
		if err := l.Wait(ctx, provider); err != nil {
			var zero T
			return zero, fmt.Errorf("rate limit wait for %s: %w", provider, err)
		}
	}
	return fn(ctx)
}

type limiter struct {
	config         config.RateLimiterConfig
	providers      map[string]*providerLimiter
	redis          adapter.RedisClient
	clock          adapter.Clock
	redisAvailable atomic.Bool
	done           chan struct{}
	closeOnce      sync.Once
}

// providerLimiter holds the rate limiting state for a single provider
type providerLimiter struct {
	name               string
	config             config.RateLimitConfig
	distributedLimiter adapter.RedisRateLimiter
	localLimiter       *rate.Limiter
	preFilterLimiter   *rate.Limiter
}

// NewLimiter creates a distributed limiter backed by redis_rate with a local x/time/rate fallback
func NewLimiter(cfg config.RateLimiterConfig, rc adapter.RedisClient, clock adapter.Clock) (Limiter, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisAvailable := true
	if err := rc.Ping(ctx).Err(); err != nil {
		redisAvailable = false
		if !cfg.EnableLocalFallback {
			return nil, fmt.Errorf("redis unavailable and fallback disabled: %w", err)
		}
		logger.Warn("Redis unavailable, will use local fallback", zap.Error(err))
	}

	distributedLimiter := rc.NewRateLimiter()

	providers := make(map[string]*providerLimiter, len(cfg.Providers))
	for name, providerConfig := range cfg.Providers {
		// Each process only gets a share of the global rate while Redis is down
		localRate := max(float64(providerConfig.RequestsPerSecond)*cfg.LocalFallbackMultiplier, 1.0)

		providers[name] = &providerLimiter{
			name:               name,
			config:             providerConfig,
			distributedLimiter: distributedLimiter,
			localLimiter:       rate.NewLimiter(rate.Limit(localRate), providerConfig.Burst),
			preFilterLimiter:   rate.NewLimiter(rate.Limit(providerConfig.RequestsPerSecond), providerConfig.Burst),
		}
	}

	l := &limiter{
		config:    cfg,
		providers: providers,
		redis:     rc,
		clock:     clock,
		done:      make(chan struct{}),
	}
	l.redisAvailable.Store(redisAvailable)

	go l.monitorRedisHealth()

	logger.Info("Provider rate limiter initialized",
		zap.Int("providers", len(cfg.Providers)),
		zap.Bool("redis_available", redisAvailable),
		zap.Bool("local_fallback", cfg.EnableLocalFallback),
	)

	return l, nil
}

func (l *limiter) Wait(ctx context.Context, provider string) error {
	pl, ok := l.providers[provider]
	if !ok {
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, pl.config.MaxWait)
	defer cancel()

	return l.acquireToken(waitCtx, pl)
}

// acquireToken blocks until a token is available
func (l *limiter) acquireToken(ctx context.Context, pl *providerLimiter) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if l.redisAvailable.Load() {
			allowed, retryAfter, err := l.tryDistributedLimit(ctx, pl)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				l.redisAvailable.Store(false)
				if !l.config.EnableLocalFallback {
					return fmt.Errorf("redis rate limiter unavailable: %w", err)
				}

				logger.WarnCtx(ctx, "Redis rate limiter error, falling back to local",
					zap.String("provider", pl.name),
					zap.Error(err),
				)
			} else if allowed {
				return nil
			} else if retryAfter > 0 {
				// Jitter spreads retries to 50-150% of retryAfter
				jitter := time.Duration(float64(retryAfter) * (0.5 + rand.Float64())) //nolint:gosec,G404
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-l.clock.After(jitter):
					continue
				}
			}
		}

		if !l.redisAvailable.Load() && l.config.EnableLocalFallback {
			return pl.localLimiter.Wait(ctx)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.clock.After(100 * time.Millisecond):
		}
	}
}

// tryDistributedLimit returns (allowed, retryAfter, error)
func (l *limiter) tryDistributedLimit(ctx context.Context, pl *providerLimiter) (bool, time.Duration, error) {
	if pl.distributedLimiter == nil {
		return false, 0, fmt.Errorf("distributed limiter not available")
	}

	// Pre-filter locally to keep Redis round trips near the allowed rate
	if err := pl.preFilterLimiter.Wait(ctx); err != nil {
		return false, 0, err
	}

	redisKey := l.config.RedisKeyPrefix + pl.name
	res, err := pl.distributedLimiter.Allow(ctx, redisKey, redis_rate.PerSecond(pl.config.RequestsPerSecond))
	if err != nil {
		return false, 0, err
	}

	if res.Allowed == 0 {
		logger.DebugCtx(ctx, "Rate limit token unavailable, waiting",
			zap.String("provider", pl.name),
			zap.Duration("retry_after", res.RetryAfter),
		)
		return false, res.RetryAfter, nil
	}

	return true, 0, nil
}

// monitorRedisHealth periodically pings Redis and flips back to the distributed limiter once it recovers
func (l *limiter) monitorRedisHealth() {
	ticker := l.clock.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := l.redis.Ping(ctx).Err()
		cancel()

		wasAvailable := l.redisAvailable.Load()
		l.redisAvailable.Store(err == nil)

		if !wasAvailable && err == nil {
			logger.Info("Redis connection restored")
		}
	}
}

func (l *limiter) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		if closeErr := l.redis.Close(); closeErr != nil {
			logger.Warn("Error closing Redis connection", zap.Error(closeErr))
			err = closeErr
		}
	})
	return err
}

// validateConfig validates and sets defaults for the configuration
func validateConfig(cfg *config.RateLimiterConfig) error {
	if cfg.RedisAddr == "" {
		return fmt.Errorf("redis_addr is required")
	}

	for name, provider := range cfg.Providers {
		if provider.RequestsPerSecond <= 0 {
			return fmt.Errorf("provider %s: requests_per_second must be positive", name)
		}
		if provider.Burst <= 0 {
			provider.Burst = provider.RequestsPerSecond
		}
		if provider.MaxWait <= 0 {
			provider.MaxWait = DEFAULT_MAX_WAIT
		}
		cfg.Providers[name] = provider
	}

	if cfg.RedisKeyPrefix == "" {
		cfg.RedisKeyPrefix = "renewal:limiter:"
	}
	if cfg.LocalFallbackMultiplier <= 0 {
		cfg.LocalFallbackMultiplier = 0.5
	}

	return nil
}
