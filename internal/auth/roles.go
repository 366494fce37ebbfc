// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package auth

import (
	"strings"

	"github.com/samber/oops"
)

// Roles is a set of role flags.
type Roles uint8

// Known roles, in display order.
const (
	RoleUser  Roles = 1 << iota // 1
	RoleAdmin                   // 2
)

const allRoles = RoleUser | RoleAdmin

// roleNames lists known roles in ascending flag order.
var roleNames = []struct {
	role Roles
	name string
}{
	{RoleUser, "User"},
	{RoleAdmin, "Admin"},
}

// Valid reports whether r is non-empty and contains only known roles.
func (r Roles) Valid() bool {
	return r != 0 && r&^allRoles == 0
}

// Has reports whether every flag in role is set in r.
func (r Roles) Has(role Roles) bool {
	return role != 0 && r&role == role
}

// Names returns the names of the roles in r in ascending flag order.
// Unknown bits are ignored.
func (r Roles) Names() []string {
	names := make([]string, 0, len(roleNames))
	for _, rn := range roleNames {
		if r&rn.role != 0 {
			names = append(names, rn.name)
		}
	}
	return names
}

// String returns the role names joined with ", ".
func (r Roles) String() string {
	return strings.Join(r.Names(), ", ")
}

// ParseRoles parses a comma-separated list of role names.
// Matching is case-insensitive; surrounding whitespace is ignored.
func ParseRoles(s string) (Roles, error) {
	var roles Roles
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		role, ok := lookupRole(name)
		if !ok {
			return 0, oops.Code("AUTH_UNKNOWN_ROLE").
				With("role", name).
				Errorf("unknown role %q", name)
		}
		roles |= role
	}
	if roles == 0 {
		return 0, oops.Code("AUTH_UNKNOWN_ROLE").Errorf("no roles given")
	}
	return roles, nil
}

func lookupRole(name string) (Roles, bool) {
	for _, rn := range roleNames {
		if strings.EqualFold(rn.name, name) {
			return rn.role, true
		}
	}
	return 0, false
}
