// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package auth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wardenhq/warden/internal/audit"
	"github.com/wardenhq/warden/internal/auth"
)

type mockIdentityFinder struct {
	mock.Mock
}

func (m *mockIdentityFinder) FindByCredentials(ctx context.Context, hashedLogin, hashedPassword string) (*auth.SignedInIdentity, error) {
	args := m.Called(ctx, hashedLogin, hashedPassword)
	identity, _ := args.Get(0).(*auth.SignedInIdentity)
	return identity, args.Error(1)
}

type mockAuditLog struct {
	mock.Mock
}

func (m *mockAuditLog) Append(ctx context.Context, userID int64, eventType audit.EventType) {
	m.Called(ctx, userID, eventType)
}

type mockIssuer struct {
	mock.Mock
}

func (m *mockIssuer) Issue(userID int64, roles auth.Roles) (string, error) {
	args := m.Called(userID, roles)
	return args.String(0), args.Error(1)
}

// prefixHasher is a readable stand-in for argon2 in service tests.
type prefixHasher struct{}

func (prefixHasher) Hash(plaintext string) string {
	return "h(" + plaintext + ")"
}
