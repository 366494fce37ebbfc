// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/wardenhq/warden/internal/auth"
	"github.com/wardenhq/warden/internal/user"
)

const selectColumns = `id, name, email, login, password, roles, status`

// Store implements user.Store and auth.IdentityFinder using PostgreSQL.
type Store struct {
	repository
	pool Pool
}

// NewStore creates a Store over pool. The caller owns the pool.
func NewStore(pool Pool) *Store {
	return &Store{repository: repository{q: pool}, pool: pool}
}

var (
	_ user.Store          = (*Store)(nil)
	_ auth.IdentityFinder = (*Store)(nil)
)

// Do runs fn in a transaction.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repo user.Repository) error) error {
	//nolint:wrapcheck // fn errors are returned unchanged so callers can match sentinels
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, repository{q: tx})
	})
}

// FindByCredentials returns the active user whose login and password hashes
// match, or auth.ErrNotFound.
func (s *Store) FindByCredentials(ctx context.Context, hashedLogin, hashedPassword string) (*auth.SignedInIdentity, error) {
	var (
		id    int64
		roles int16
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, roles FROM users WHERE login = $1 AND password = $2 AND status = $3`,
		hashedLogin, hashedPassword, int16(user.StatusActive),
	).Scan(&id, &roles)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, oops.Code("USER_STORE_FAILED").
			With("operation", "find by credentials").
			Wrap(err)
	}
	return &auth.SignedInIdentity{UserID: id, Roles: auth.Roles(roles)}, nil
}

// repository implements user.Repository over a pool or transaction.
type repository struct {
	q querier
}

// Insert stores a new account and returns its id.
func (r repository) Insert(ctx context.Context, account *user.Account) (int64, error) {
	var id int64
	err := r.q.QueryRow(ctx,
		`INSERT INTO users (name, email, login, password, roles, status)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		account.Name,
		account.Email,
		account.Login,
		account.Password,
		int16(account.Roles),
		int16(account.Status),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, user.ErrLoginTaken
		}
		return 0, oops.Code("USER_STORE_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}
	return id, nil
}

// Select returns the account with id.
func (r repository) Select(ctx context.Context, id int64) (*user.Account, error) {
	row := r.q.QueryRow(ctx, `SELECT `+selectColumns+` FROM users WHERE id = $1`, id)
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, oops.Code("USER_STORE_FAILED").
			With("operation", "select user").
			With("user_id", id).
			Wrap(err)
	}
	return account, nil
}

// List returns all accounts ordered by id.
func (r repository) List(ctx context.Context) ([]user.Account, error) {
	rows, err := r.q.Query(ctx, `SELECT `+selectColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, oops.Code("USER_STORE_FAILED").With("operation", "list users").Wrap(err)
	}
	defer rows.Close()

	accounts := make([]user.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, oops.Code("USER_STORE_FAILED").With("operation", "scan user row").Wrap(err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("USER_STORE_FAILED").With("operation", "iterate users").Wrap(err)
	}
	return accounts, nil
}

// Update overwrites the account row.
func (r repository) Update(ctx context.Context, account *user.Account) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users
		 SET name = $2, email = $3, login = $4, password = $5, roles = $6, status = $7
		 WHERE id = $1`,
		account.ID,
		account.Name,
		account.Email,
		account.Login,
		account.Password,
		int16(account.Roles),
		int16(account.Status),
	)
	if err != nil {
		return oops.Code("USER_STORE_FAILED").
			With("operation", "update user").
			With("user_id", account.ID).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

// Delete removes the account with id.
func (r repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return oops.Code("USER_STORE_FAILED").
			With("operation", "delete user").
			With("user_id", id).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*user.Account, error) {
	var (
		account       user.Account
		roles, status int16
	)
	if err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.Login,
		&account.Password,
		&roles,
		&status,
	); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with operation context
	}
	account.Roles = auth.Roles(roles)
	account.Status = user.Status(status)
	return &account, nil
}
