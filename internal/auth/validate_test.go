// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wardenhq/warden/internal/auth"
)

func TestValidateSignIn(t *testing.T) {
	long := strings.Repeat("a", auth.MaxCredentialLength+1)

	tests := []struct {
		name string
		req  auth.SignInRequest
		ok   bool
	}{
		{name: "valid", req: auth.SignInRequest{Login: "alice", Password: "s3cret!!"}, ok: true},
		{name: "max length", req: auth.SignInRequest{Login: long[1:], Password: "x"}, ok: true},
		{name: "empty login", req: auth.SignInRequest{Login: "", Password: "s3cret!!"}},
		{name: "blank login", req: auth.SignInRequest{Login: "  \t", Password: "s3cret!!"}},
		{name: "empty password", req: auth.SignInRequest{Login: "alice", Password: ""}},
		{name: "blank password", req: auth.SignInRequest{Login: "alice", Password: "   "}},
		{name: "oversized login", req: auth.SignInRequest{Login: long, Password: "s3cret!!"}},
		{name: "oversized password", req: auth.SignInRequest{Login: "alice", Password: long}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := auth.ValidateSignIn(tt.req)
			assert.Equal(t, tt.ok, r.IsSuccess())
			if tt.ok {
				v, _ := r.Value()
				assert.Equal(t, tt.req, v)
			} else {
				assert.Equal(t, auth.InvalidCredentialsMessage, r.Message())
			}
		})
	}
}

func TestValidateSignedIn(t *testing.T) {
	tests := []struct {
		name     string
		identity *auth.SignedInIdentity
		ok       bool
	}{
		{name: "valid", identity: &auth.SignedInIdentity{UserID: 1, Roles: auth.RoleUser}, ok: true},
		{name: "nil", identity: nil},
		{name: "zero id", identity: &auth.SignedInIdentity{UserID: 0, Roles: auth.RoleUser}},
		{name: "negative id", identity: &auth.SignedInIdentity{UserID: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := auth.ValidateSignedIn(tt.identity)
			assert.Equal(t, tt.ok, r.IsSuccess())
			if tt.ok {
				v, _ := r.Value()
				assert.Equal(t, *tt.identity, v)
			} else {
				assert.Equal(t, auth.InvalidCredentialsMessage, r.Message())
			}
		})
	}
}

func TestValidators_ShareFailureMessage(t *testing.T) {
	malformed := auth.ValidateSignIn(auth.SignInRequest{})
	noMatch := auth.ValidateSignedIn(nil)

	assert.Equal(t, malformed.Message(), noMatch.Message())
}
