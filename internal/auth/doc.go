// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

// Package auth provides sign-in, sign-out and credential primitives for Warden.
//
// # Credentials
//
// Logins and passwords are never stored or compared in plaintext. Both are
// passed through a CredentialHasher, which is deterministic so that a stored
// record can be found by the hash of what the user typed.
//
// # Services
//
// Service coordinates a sign-in request:
//   - ValidateSignIn rejects malformed input before the store is touched
//   - IdentityFinder looks the user up by hashed login and password
//   - ValidateSignedIn rejects a missing identity
//   - the audit log records the login, then a TokenIssuer signs the token
//
// Malformed input and a credential mismatch produce the same failure
// message so callers cannot tell which one happened.
//
// Services are created with NewService, which validates dependencies.
package auth
