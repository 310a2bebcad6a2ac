// Package catalog wraps the PostgreSQL-backed metadata catalog: buckets,
// objects, bucket membership, and the per-object error log, plus the
// streaming cursor that drives for_each_object.
package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fstorehq/fstore/internal/logger"
	"github.com/fstorehq/fstore/pkg/config"
)

// Catalog wraps a pgx connection pool and exposes the typed bucket/object/
// maintenance operations the object store needs.
type Catalog struct {
	pool *pgxpool.Pool
}

// Open creates a connection pool from cfg and verifies connectivity.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Catalog, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Connection)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = cfg.MaxConnections
	}

	logger.Info("opening catalog connection pool",
		logger.Component("catalog"),
		"max_conns", poolConfig.MaxConns,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}

	return &Catalog{pool: pool}, nil
}

// Pool exposes the underlying pgxpool.Pool for callers that need raw SQL
// access rather than typed queries (the integration tests apply the schema
// through it).
func (c *Catalog) Pool() *pgxpool.Pool {
	return c.pool
}

// Shutdown closes the connection pool gracefully.
func (c *Catalog) Shutdown() {
	logger.Info("closing catalog connection pool", logger.Component("catalog"))
	c.pool.Close()
}
