// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package user

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wardenhq/warden/internal/auth"
	"github.com/wardenhq/warden/internal/result"
)

// Field constraints. Logins and passwords are also limited to
// auth.MaxCredentialLength bytes so every stored account can sign in.
const (
	MaxNameLength     = 100
	MaxEmailLength    = 300
	MinLoginLength    = 3
	MaxLoginLength    = 100
	MinPasswordLength = 6
)

// ValidateAdd checks every field of an AddRequest. The failure message lists
// each violated rule.
func ValidateAdd(req AddRequest) result.Result[AddRequest] {
	var problems []string
	problems = appendIf(problems, validateName(req.Name))
	problems = appendIf(problems, validateEmail(req.Email))
	problems = appendIf(problems, validateLogin(req.Login))
	problems = appendIf(problems, validatePassword(req.Password))
	if !req.Roles.Valid() {
		problems = append(problems, "roles are invalid")
	}

	if len(problems) > 0 {
		return result.Failure[AddRequest](strings.Join(problems, "; "))
	}
	return result.Success(req)
}

// ValidateUpdate checks an UpdateRequest. Login and Password are ignored.
func ValidateUpdate(req UpdateRequest) result.Result[UpdateRequest] {
	var problems []string
	if req.ID <= 0 {
		problems = append(problems, "id must be positive")
	}
	problems = appendIf(problems, validateName(req.Name))
	problems = appendIf(problems, validateEmail(req.Email))
	if !req.Roles.Valid() {
		problems = append(problems, "roles are invalid")
	}
	if !req.Status.Valid() {
		problems = append(problems, "status is invalid")
	}

	if len(problems) > 0 {
		return result.Failure[UpdateRequest](strings.Join(problems, "; "))
	}
	return result.Success(req)
}

func appendIf(problems []string, problem string) []string {
	if problem == "" {
		return problems
	}
	return append(problems, problem)
}

func validateName(name string) string {
	switch {
	case strings.TrimSpace(name) == "":
		return "name is required"
	case utf8.RuneCountInString(name) > MaxNameLength:
		return "name is too long"
	}
	return ""
}

func validateEmail(email string) string {
	if strings.TrimSpace(email) == "" {
		return "email is required"
	}
	if len(email) > MaxEmailLength {
		return "email is too long"
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "email is invalid"
	}
	return ""
}

func validateLogin(login string) string {
	n := utf8.RuneCountInString(login)
	switch {
	case strings.TrimSpace(login) == "":
		return "login is required"
	case n < MinLoginLength || n > MaxLoginLength:
		return fmt.Sprintf("login must be between %d and %d characters", MinLoginLength, MaxLoginLength)
	case len(login) > auth.MaxCredentialLength:
		return fmt.Sprintf("login must be at most %d bytes", auth.MaxCredentialLength)
	case strings.ContainsFunc(login, unicode.IsSpace):
		return "login cannot contain whitespace"
	}
	return ""
}

func validatePassword(password string) string {
	switch {
	case strings.TrimSpace(password) == "":
		return "password is required"
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return fmt.Sprintf("password must be at least %d characters", MinPasswordLength)
	case len(password) > auth.MaxCredentialLength:
		return fmt.Sprintf("password must be at most %d bytes", auth.MaxCredentialLength)
	}
	return ""
}
