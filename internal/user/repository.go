// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package user

import "context"

// Repository provides account persistence.
type Repository interface {
	// Insert stores a new account and returns its id.
	// Returns ErrLoginTaken if the login hash already exists.
	Insert(ctx context.Context, account *Account) (int64, error)

	// Select returns the account with id, or ErrNotFound.
	Select(ctx context.Context, id int64) (*Account, error)

	// List returns all accounts ordered by id.
	List(ctx context.Context) ([]Account, error)

	// Update overwrites every column of the account with account.ID.
	// Returns ErrNotFound if no such account exists.
	Update(ctx context.Context, account *Account) error

	// Delete removes the account with id.
	// Returns ErrNotFound if no such account exists.
	Delete(ctx context.Context, id int64) error
}

// UnitOfWork runs fn inside a single transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}

// Store is a Repository that also supports transactional units of work.
type Store interface {
	Repository
	UnitOfWork
}
