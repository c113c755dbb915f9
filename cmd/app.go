package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/event-listing/internal/cache"
	"github.com/Shivanand-hulikatti/event-listing/internal/database"
	"github.com/Shivanand-hulikatti/event-listing/internal/repository"
	"github.com/Shivanand-hulikatti/event-listing/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	connectAttempts = 5
	connectDelay    = 2 * time.Second
)

// connectDB builds the pool cache and waits for PostgreSQL to accept
// connections. The caller closes the returned cache.
func connectDB(ctx context.Context) (*database.Cache[*pgxpool.Pool], *pgxpool.Pool, error) {
	pools := database.NewPoolCache(cfg.Database, logger.Named("db"))
	pool, err := database.WaitReady(ctx, pools, connectAttempts, connectDelay, logger)
	if err != nil {
		pools.Close()
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	return pools, pool, nil
}

// newEventCache returns the Redis event cache, or a no-op cache when Redis
// is not configured or not reachable.
func newEventCache(ctx context.Context) (service.EventCache, func()) {
	if cfg.RedisURL == "" {
		logger.Info("event cache disabled (REDIS_URL not set)")
		return cache.Nop{}, func() {}
	}
	rc, err := cache.NewRedisEventCache(ctx, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		logger.Warn("event cache unavailable, continuing without it", zap.Error(err))
		return cache.Nop{}, func() {}
	}
	logger.Info("event cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	return rc, func() { _ = rc.Close() }
}

func newService(pools *database.Cache[*pgxpool.Pool], ec service.EventCache) *service.EventService {
	return service.NewEventService(
		repository.NewEventRepository(pools),
		repository.NewBookingRepository(pools),
		ec,
		service.Options{SlugMaxAttempts: cfg.SlugMaxAttempts, Location: cfg.Location},
		logger.Named("service"),
	)
}
