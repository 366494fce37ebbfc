// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

// Package user manages Warden user accounts.
package user

import (
	"errors"
	"strings"

	"github.com/samber/oops"

	"github.com/wardenhq/warden/internal/auth"
)

// Sentinel errors returned by Repository implementations.
var (
	ErrNotFound   = errors.New("user not found")
	ErrLoginTaken = errors.New("login already in use")
)

// Status is the lifecycle state of an account.
type Status uint8

// Account statuses.
const (
	StatusActive   Status = 1
	StatusInactive Status = 2
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

// ParseStatus parses a status name, ignoring case.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return StatusActive, nil
	case "inactive":
		return StatusInactive, nil
	default:
		return 0, oops.Code("USER_UNKNOWN_STATUS").
			With("status", s).
			Errorf("unknown status %q", s)
	}
}

// Account is a persisted user. Login and Password hold credential hashes.
type Account struct {
	ID       int64
	Name     string
	Email    string
	Login    string
	Password string
	Roles    auth.Roles
	Status   Status
}

// AddRequest describes a new account. Login and Password are plaintext.
type AddRequest struct {
	Name     string
	Email    string
	Login    string
	Password string
	Roles    auth.Roles
}

// UpdateRequest describes changes to an account.
// Login and Password are accepted but never applied.
type UpdateRequest struct {
	ID       int64
	Name     string
	Email    string
	Login    string
	Password string
	Roles    auth.Roles
	Status   Status
}
