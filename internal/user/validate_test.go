// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package user_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wardenhq/warden/internal/auth"
	"github.com/wardenhq/warden/internal/user"
	"github.com/wardenhq/warden/pkg/errutil"
)

func validAdd() user.AddRequest {
	return user.AddRequest{
		Name:     "Alice",
		Email:    "a@x.io",
		Login:    "alice",
		Password: "s3cret!!",
		Roles:    auth.RoleUser | auth.RoleAdmin,
	}
}

func TestValidateAdd(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *user.AddRequest)
		wantMsg string
	}{
		{name: "valid", mutate: func(*user.AddRequest) {}},
		{name: "missing name", mutate: func(r *user.AddRequest) { r.Name = " " }, wantMsg: "name is required"},
		{name: "long name", mutate: func(r *user.AddRequest) { r.Name = strings.Repeat("é", 101) }, wantMsg: "name is too long"},
		{name: "name at limit", mutate: func(r *user.AddRequest) { r.Name = strings.Repeat("é", 100) }},
		{name: "missing email", mutate: func(r *user.AddRequest) { r.Email = "" }, wantMsg: "email is required"},
		{name: "bad email", mutate: func(r *user.AddRequest) { r.Email = "not-an-email" }, wantMsg: "email is invalid"},
		{name: "display name email", mutate: func(r *user.AddRequest) { r.Email = "Alice <a@x.io>" }, wantMsg: "email is invalid"},
		{name: "missing login", mutate: func(r *user.AddRequest) { r.Login = "" }, wantMsg: "login is required"},
		{name: "short login", mutate: func(r *user.AddRequest) { r.Login = "al" }, wantMsg: "login must be between 3 and 100 characters"},
		{name: "login with space", mutate: func(r *user.AddRequest) { r.Login = "al ice" }, wantMsg: "login cannot contain whitespace"},
		{name: "missing password", mutate: func(r *user.AddRequest) { r.Password = "" }, wantMsg: "password is required"},
		{name: "short password", mutate: func(r *user.AddRequest) { r.Password = "short" }, wantMsg: "password must be at least 6 characters"},
		{name: "blank password", mutate: func(r *user.AddRequest) { r.Password = "        " }, wantMsg: "password is required"},
		{name: "password at byte limit", mutate: func(r *user.AddRequest) { r.Password = strings.Repeat("p", auth.MaxCredentialLength) }},
		{name: "password over byte limit", mutate: func(r *user.AddRequest) { r.Password = strings.Repeat("p", auth.MaxCredentialLength+1) }, wantMsg: "password must be at most 256 bytes"},
		{name: "multibyte login over byte limit", mutate: func(r *user.AddRequest) { r.Login = strings.Repeat("€", user.MaxLoginLength) }, wantMsg: "login must be at most 256 bytes"},
		{name: "multibyte login within byte limit", mutate: func(r *user.AddRequest) { r.Login = strings.Repeat("€", 85) }},
		{name: "no roles", mutate: func(r *user.AddRequest) { r.Roles = 0 }, wantMsg: "roles are invalid"},
		{name: "unknown role", mutate: func(r *user.AddRequest) { r.Roles = 16 }, wantMsg: "roles are invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validAdd()
			tt.mutate(&req)

			r := user.ValidateAdd(req)
			if tt.wantMsg == "" {
				assert.Equal(t, req, errutil.AssertSuccess(t, r))
				return
			}
			errutil.AssertFailure(t, r, tt.wantMsg)
		})
	}
}

func TestValidateAdd_AcceptedCredentialsPassSignIn(t *testing.T) {
	pieces := []string{"a", "é", "€", "𝄞", " ", "\t"}
	counts := []int{
		0, 1, user.MinLoginLength, user.MinPasswordLength, 64, 85, 86,
		user.MaxLoginLength, auth.MaxCredentialLength, auth.MaxCredentialLength + 1,
	}

	for _, piece := range pieces {
		for _, n := range counts {
			cred := strings.Repeat(piece, n)
			req := validAdd()
			req.Login = cred
			req.Password = cred
			if !user.ValidateAdd(req).IsSuccess() {
				continue
			}
			signIn := auth.ValidateSignIn(auth.SignInRequest{Login: req.Login, Password: req.Password})
			assert.True(t, signIn.IsSuccess(), "%d x %q accepted by AddUser but rejected at sign-in", n, piece)
		}
	}
}

func TestValidateAdd_ReportsEveryProblem(t *testing.T) {
	r := user.ValidateAdd(user.AddRequest{})

	assert.False(t, r.IsSuccess())
	assert.Equal(t,
		"name is required; email is required; login is required; password is required; roles are invalid",
		r.Message())
}

func TestValidateUpdate(t *testing.T) {
	valid := user.UpdateRequest{
		ID:     1,
		Name:   "Alice",
		Email:  "a@x.io",
		Roles:  auth.RoleUser,
		Status: user.StatusActive,
	}

	tests := []struct {
		name    string
		mutate  func(r *user.UpdateRequest)
		wantMsg string
	}{
		{name: "valid", mutate: func(*user.UpdateRequest) {}},
		{name: "credentials are not validated", mutate: func(r *user.UpdateRequest) { r.Login = ""; r.Password = "x" }},
		{name: "zero id", mutate: func(r *user.UpdateRequest) { r.ID = 0 }, wantMsg: "id must be positive"},
		{name: "bad email", mutate: func(r *user.UpdateRequest) { r.Email = "nope" }, wantMsg: "email is invalid"},
		{name: "no roles", mutate: func(r *user.UpdateRequest) { r.Roles = 0 }, wantMsg: "roles are invalid"},
		{name: "unknown status", mutate: func(r *user.UpdateRequest) { r.Status = 0 }, wantMsg: "status is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			r := user.ValidateUpdate(req)
			if tt.wantMsg == "" {
				assert.True(t, r.IsSuccess(), r.Message())
				return
			}
			assert.Equal(t, tt.wantMsg, r.Message())
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := user.ParseStatus("Inactive")
	assert.NoError(t, err)
	assert.Equal(t, user.StatusInactive, s)
	assert.Equal(t, "Inactive", s.String())

	s, err = user.ParseStatus(" active ")
	assert.NoError(t, err)
	assert.Equal(t, user.StatusActive, s)

	_, err = user.ParseStatus("banned")
	assert.Error(t, err)
}
