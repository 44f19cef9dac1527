package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paddyrails/mortgage-customer-service/internal/config"
)

//go:embed schema.sql
var schemaSQL string

type pinger interface {
	Ping(ctx context.Context) error
}

// NewConnectionPool keeps retrying until the database answers a ping or
// cfg.ConnectTimeout has passed.
func NewConnectionPool(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is empty in configuration")
	}

	poolConfig, err := configurePool(cfg)
	if err != nil {
		return nil, err
	}

	var dbpool *pgxpool.Pool
	err = retryConnect(ctx, cfg.ConnectTimeout, logger, func() error {
		logger.Info("Connecting to PostgreSQL database...")
		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return fmt.Errorf("unable to create connection pool: %w", err)
		}
		if err := verifyConnection(ctx, p, logger); err != nil {
			p.Close()
			return err
		}
		dbpool = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Successfully connected to PostgreSQL database.", "host", poolConfig.ConnConfig.Host, "db", poolConfig.ConnConfig.Database)
	return dbpool, nil
}

func configurePool(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}

	poolConfig.MaxConns = 10
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	return poolConfig, nil
}

func verifyConnection(ctx context.Context, dbpool pinger, logger *slog.Logger) error {
	logger.Info("Pinging database...")
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := dbpool.Ping(pingCtx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		return fmt.Errorf("failed to ping database on connect: %w", err)
	}

	return nil
}

func retryConnect(ctx context.Context, maxElapsed time.Duration, logger *slog.Logger, operation func() error) error {
	attempt := 0
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = maxElapsed
	bo.Reset()

	err := backoff.Retry(func() error {
		attempt++
		err := operation()
		if err != nil {
			logger.Warn("Database not reachable yet, retrying", "attempt", attempt, "error", err)
		}
		return err
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return fmt.Errorf("giving up on database after %d attempts: %w", attempt, err)
	}
	return nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db DBPool, logger *slog.Logger) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		logger.ErrorContext(ctx, "Failed to apply database schema", "error", err)
		return fmt.Errorf("failed to apply database schema: %w", err)
	}
	logger.InfoContext(ctx, "Database schema is up to date")
	return nil
}
