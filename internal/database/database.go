package database

import (
	"context"
	"fmt"
	"time"

	"gamestore/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	applicationName = "gamestore"
	pingAttempts    = 5
	pingRetryDelay  = 2 * time.Second
)

// pinger is the part of the pool used to check connectivity.
type pinger interface {
	Ping(ctx context.Context) error
}

// NewPool creates a new PostgreSQL connection pool with sessions in UTC.
// The database is pinged up to pingAttempts times before giving up.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	logger = logger.With().Str("component", "database").Logger()

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName
	poolConfig.ConnConfig.RuntimeParams["timezone"] = "UTC"

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_connections", cfg.MaxConnections).
		Int("min_connections", cfg.MinConnections).
		Msg("creating database connection pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pingWithRetry(ctx, pool, pingAttempts, pingRetryDelay, logger); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info().Msg("database connection pool created successfully")

	return pool, nil
}

// pingWithRetry pings the database up to attempts times, waiting delay
// between tries. It stops early when ctx is done.
func pingWithRetry(ctx context.Context, db pinger, attempts int, delay time.Duration, logger zerolog.Logger) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = db.Ping(ctx); err == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("database not reachable yet")

		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to ping database: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("failed to ping database after %d attempts: %w", attempts, err)
}
