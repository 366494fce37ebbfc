// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package auth

import (
	"strings"

	"github.com/wardenhq/warden/internal/result"
)

// MaxCredentialLength bounds login and password input in bytes.
const MaxCredentialLength = 256

// SignInRequest carries the credentials a user typed.
type SignInRequest struct {
	Login    string
	Password string
}

// SignOutRequest identifies the user signing out.
type SignOutRequest struct {
	UserID int64
}

// SignedInIdentity is the store's view of a user whose credentials matched.
type SignedInIdentity struct {
	UserID int64
	Roles  Roles
}

// ValidateSignIn checks that both credentials are present and bounded.
func ValidateSignIn(req SignInRequest) result.Result[SignInRequest] {
	if !validCredential(req.Login) || !validCredential(req.Password) {
		return result.Failure[SignInRequest](InvalidCredentialsMessage)
	}
	return result.Success(req)
}

// ValidateSignedIn checks that a credential lookup produced an identity.
func ValidateSignedIn(identity *SignedInIdentity) result.Result[SignedInIdentity] {
	if identity == nil || identity.UserID <= 0 {
		return result.Failure[SignedInIdentity](InvalidCredentialsMessage)
	}
	return result.Success(*identity)
}

func validCredential(s string) bool {
	return strings.TrimSpace(s) != "" && len(s) <= MaxCredentialLength
}
