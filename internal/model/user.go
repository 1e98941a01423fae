// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// User represents a registered user record, keyed by email. One record
// exists per email; the record is created on first successful sign-in.
type User struct {
	ID         int64        `json:"id"`
	Email      string       `json:"email"`
	SubjectID  string       `json:"subject_id"`
	Name       string       `json:"name"`
	Role       Role         `json:"role"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	LastSeenAt sql.NullTime `json:"-"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanActOn reports whether the user may operate on resources owned by
// the given email. Admins may act on anyone; everyone else only on
// their own records.
func (u *User) CanActOn(email string) bool {
	return u.IsAdmin() || u.Email == email
}
