// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

// Package memory provides an in-process user store for tests and local runs.
package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/samber/oops"

	"github.com/wardenhq/warden/internal/audit"
	"github.com/wardenhq/warden/internal/auth"
	"github.com/wardenhq/warden/internal/user"
)

// state is a snapshot of the store's tables.
type state struct {
	accounts map[int64]user.Account
	nextID   int64
}

func (s *state) clone() *state {
	return &state{accounts: maps.Clone(s.accounts), nextID: s.nextID}
}

// Store implements user.Store and auth.IdentityFinder in memory.
// A unit of work runs against a private copy that replaces the live state
// only when fn succeeds. Units of work are serialized; fn must use the
// Repository it is given, not the Store.
type Store struct {
	mu   sync.RWMutex
	live *state
}

// NewStore returns an empty Store. Ids start at 1.
func NewStore() *Store {
	return &Store{live: &state{accounts: make(map[int64]user.Account), nextID: 1}}
}

var (
	_ user.Store          = (*Store)(nil)
	_ auth.IdentityFinder = (*Store)(nil)
)

// Do runs fn against staged state and commits it if fn returns nil.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repo user.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return oops.Code("USER_STORE_FAILED").With("operation", "begin").Wrap(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.live.clone()
	if err := fn(ctx, txRepository{st: staged}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return oops.Code("USER_STORE_FAILED").With("operation", "commit").Wrap(err)
	}
	s.live = staged
	return nil
}

// Insert stores a new account outside any unit of work.
func (s *Store) Insert(ctx context.Context, account *user.Account) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return txRepository{st: s.live}.Insert(ctx, account)
}

// Select returns the account with id.
func (s *Store) Select(ctx context.Context, id int64) (*user.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return txRepository{st: s.live}.Select(ctx, id)
}

// List returns all accounts ordered by id.
func (s *Store) List(ctx context.Context) ([]user.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return txRepository{st: s.live}.List(ctx)
}

// Update overwrites the account.
func (s *Store) Update(ctx context.Context, account *user.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return txRepository{st: s.live}.Update(ctx, account)
}

// Delete removes the account with id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return txRepository{st: s.live}.Delete(ctx, id)
}

// FindByCredentials returns the active account whose hashes match.
func (s *Store) FindByCredentials(ctx context.Context, hashedLogin, hashedPassword string) (*auth.SignedInIdentity, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.Code("USER_STORE_FAILED").With("operation", "find by credentials").Wrap(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.live.accounts {
		if a.Login == hashedLogin && a.Password == hashedPassword && a.Status == user.StatusActive {
			return &auth.SignedInIdentity{UserID: a.ID, Roles: a.Roles}, nil
		}
	}
	return nil, auth.ErrNotFound
}

// txRepository operates on a state the caller has locked.
type txRepository struct {
	st *state
}

func (r txRepository) Insert(ctx context.Context, account *user.Account) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, oops.Code("USER_STORE_FAILED").With("operation", "insert user").Wrap(err)
	}
	for _, existing := range r.st.accounts {
		if existing.Login == account.Login {
			return 0, user.ErrLoginTaken
		}
	}

	stored := *account
	stored.ID = r.st.nextID
	r.st.nextID++
	r.st.accounts[stored.ID] = stored
	return stored.ID, nil
}

func (r txRepository) Select(ctx context.Context, id int64) (*user.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.Code("USER_STORE_FAILED").With("operation", "select user").Wrap(err)
	}
	a, ok := r.st.accounts[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &a, nil
}

func (r txRepository) List(ctx context.Context) ([]user.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.Code("USER_STORE_FAILED").With("operation", "list users").Wrap(err)
	}
	accounts := slices.Collect(maps.Values(r.st.accounts))
	slices.SortFunc(accounts, func(a, b user.Account) int {
		return cmp.Compare(a.ID, b.ID)
	})
	if accounts == nil {
		accounts = []user.Account{}
	}
	return accounts, nil
}

func (r txRepository) Update(ctx context.Context, account *user.Account) error {
	if err := ctx.Err(); err != nil {
		return oops.Code("USER_STORE_FAILED").With("operation", "update user").Wrap(err)
	}
	if _, ok := r.st.accounts[account.ID]; !ok {
		return user.ErrNotFound
	}
	for id, existing := range r.st.accounts {
		if id != account.ID && existing.Login == account.Login {
			return user.ErrLoginTaken
		}
	}
	r.st.accounts[account.ID] = *account
	return nil
}

func (r txRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return oops.Code("USER_STORE_FAILED").With("operation", "delete user").Wrap(err)
	}
	if _, ok := r.st.accounts[id]; !ok {
		return user.ErrNotFound
	}
	delete(r.st.accounts, id)
	return nil
}

// AuditWriter is an audit.Writer that keeps events in memory.
type AuditWriter struct {
	mu     sync.Mutex
	events []audit.Event
}

var _ audit.Writer = (*AuditWriter)(nil)

// Write records event.
func (w *AuditWriter) Write(ctx context.Context, event audit.Event) error {
	if err := ctx.Err(); err != nil {
		return oops.Code("AUDIT_WRITE_FAILED").Wrap(err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, event)
	return nil
}

// Close is a no-op.
func (w *AuditWriter) Close() error {
	return nil
}

// Events returns a copy of the recorded events in write order.
func (w *AuditWriter) Events() []audit.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.events)
}
