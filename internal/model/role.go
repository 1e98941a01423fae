// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including User, Portfolio entries, Post, and JobApplication.
package model

import "fmt"

// Role is a user's access role. The set of roles is closed: anything
// other than RoleAdmin or RoleUser is rejected at parse time and treated
// as forbidden at request time.
type Role string

const (
	// RoleAdmin grants access to every route plus admin-only management.
	RoleAdmin Role = "admin"
	// RoleUser grants access to the authenticated user surface.
	RoleUser Role = "user"
)

// Valid reports whether r is one of the known roles. Comparison is
// case-sensitive exact match.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Toggle returns the other role.
func (r Role) Toggle() Role {
	if r == RoleAdmin {
		return RoleUser
	}
	return RoleAdmin
}

// ParseRole converts a stored role string to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
