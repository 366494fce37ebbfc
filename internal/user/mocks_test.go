// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package user_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wardenhq/warden/internal/user"
)

// mockStore runs units of work directly against itself.
type mockStore struct {
	mock.Mock
	units int
}

func (m *mockStore) Do(ctx context.Context, fn func(ctx context.Context, repo user.Repository) error) error {
	m.units++
	return fn(ctx, m)
}

func (m *mockStore) Insert(ctx context.Context, account *user.Account) (int64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) Select(ctx context.Context, id int64) (*user.Account, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*user.Account)
	return account, args.Error(1)
}

func (m *mockStore) List(ctx context.Context) ([]user.Account, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]user.Account)
	return accounts, args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, account *user.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type prefixHasher struct{}

func (prefixHasher) Hash(plaintext string) string {
	return "h(" + plaintext + ")"
}
