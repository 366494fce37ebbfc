// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package auth

import "errors"

// ErrNotFound is returned by an IdentityFinder when no user matches.
var ErrNotFound = errors.New("not found")

// InvalidCredentialsMessage is the failure message for every rejected sign-in.
const InvalidCredentialsMessage = "invalid login or password"
