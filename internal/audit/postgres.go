// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
)

// Execer is the subset of a pgx pool used by PostgresWriter.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresWriter implements Writer for PostgreSQL.
type PostgresWriter struct {
	db Execer
}

// NewPostgresWriter creates a PostgresWriter. The caller owns db.
func NewPostgresWriter(db Execer) *PostgresWriter {
	return &PostgresWriter{db: db}
}

// Write inserts event into user_logs.
func (w *PostgresWriter) Write(ctx context.Context, event Event) error {
	_, err := w.db.Exec(ctx,
		`INSERT INTO user_logs (id, user_id, event_type, created_at) VALUES ($1, $2, $3, $4)`,
		event.ID.String(), event.UserID, int16(event.Type), event.Timestamp)
	if err != nil {
		return oops.With("operation", "insert user log").
			With("event_id", event.ID.String()).
			With("user_id", event.UserID).
			Wrap(err)
	}
	return nil
}

// Close is a no-op; the pool is closed by its owner.
func (w *PostgresWriter) Close() error {
	return nil
}

var _ Writer = (*PostgresWriter)(nil)
