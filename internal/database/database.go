// Package database provides PostgreSQL connection management using pgx.
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Config holds PostgreSQL connection settings. URL, when set, takes
// precedence over the individual fields.
type Config struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	// ConnectTimeout bounds the ping that validates a new pool.
	ConnectTimeout time.Duration
}

// DSN builds a connection string pgx understands.
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Redacted returns DSN with the password masked, for logging.
func (c Config) Redacted() string {
	u, err := url.Parse(c.DSN())
	if err != nil {
		return "postgres://<unparseable>"
	}
	return u.Redacted()
}

// NewPool creates a pgxpool connection pool and validates it with a ping.
// It makes a single attempt; callers that want retries go through Cache.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	poolCfg.MaxConns = 20
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// NewPoolCache returns the process-wide cache for the PostgreSQL pool.
func NewPoolCache(cfg Config, logger *zap.Logger) *Cache[*pgxpool.Pool] {
	connect := func(ctx context.Context) (*pgxpool.Pool, error) {
		logger.Info("connecting to postgres", zap.String("dsn", cfg.Redacted()))
		pool, err := NewPool(ctx, cfg)
		if err != nil {
			logger.Warn("postgres connect failed", zap.Error(err))
			return nil, err
		}
		logger.Info("connected to postgres")
		return pool, nil
	}
	return NewCache(connect, func(p *pgxpool.Pool) { p.Close() })
}

// WaitReady retries cache.Get up to attempts times, sleeping delay between
// tries. It is used at startup to ride out a database that is still
// starting; each failure leaves the cache empty so the next try is fresh.
func WaitReady[C any](ctx context.Context, cache *Cache[C], attempts int, delay time.Duration, logger *zap.Logger) (C, error) {
	var (
		conn C
		err  error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		conn, err = cache.Get(ctx)
		if err == nil {
			return conn, nil
		}
		logger.Warn("db connect attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("of", attempts),
			zap.Error(err))
		if attempt == attempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return conn, ctx.Err()
		}
	}
	return conn, err
}
