// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

// Package postgres implements the Warden user store on PostgreSQL.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// querier is implemented by both Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is the subset of *pgxpool.Pool the store uses. pgxmock.PgxPoolIface
// satisfies it.
type Pool interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ Pool = (*pgxpool.Pool)(nil)

// ConnectOption configures Connect.
type ConnectOption func(*connectConfig)

type connectConfig struct {
	attempts uint64
	base     time.Duration
}

// WithConnectRetry sets how many times Connect retries and the initial backoff.
func WithConnectRetry(attempts uint64, base time.Duration) ConnectOption {
	return func(c *connectConfig) {
		c.attempts = attempts
		if base > 0 {
			c.base = base
		}
	}
}

// Connect opens a pool to dsn and pings it, retrying with exponential
// backoff while the database is unreachable.
func Connect(ctx context.Context, dsn string, opts ...ConnectOption) (*pgxpool.Pool, error) {
	cfg := connectConfig{attempts: 5, base: 200 * time.Millisecond}
	for _, opt := range opts {
		opt(&cfg)
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, oops.Code("STORE_CONNECT_FAILED").
			With("operation", "parse database url").
			Wrap(err)
	}

	var pool *pgxpool.Pool
	backoff := retry.WithMaxRetries(cfg.attempts, retry.NewExponential(cfg.base))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return oops.With("operation", "create pool").Wrap(err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return retry.RetryableError(oops.With("operation", "ping").Wrap(err))
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, oops.Code("STORE_CONNECT_FAILED").
			With("host", poolCfg.ConnConfig.Host).
			With("database", poolCfg.ConnConfig.Database).
			Wrap(err)
	}
	return pool, nil
}
