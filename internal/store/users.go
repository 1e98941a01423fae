// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/folio-go/internal/model"
)

const userColumns = `id, email, subject_id, name, role, created_at, updated_at, last_seen_at`

// scanUser scans one user row.
func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.SubjectID, &u.Name, &role, &u.CreatedAt, &u.UpdatedAt, &u.LastSeenAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	return u, nil
}

// GetUserByEmail returns the user record for the given email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// CreateUserParams holds fields for creating a user record.
type CreateUserParams struct {
	Email     string
	SubjectID string
	Name      string
	Role      model.Role
}

// CreateUser inserts a new user record and returns it.
func (q *Queries) CreateUser(ctx context.Context, p CreateUserParams) (model.User, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (email, subject_id, name, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Email, p.SubjectID, p.Name, string(p.Role), now, now)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return model.User{
		ID: id, Email: p.Email, SubjectID: p.SubjectID, Name: p.Name,
		Role: p.Role, CreatedAt: now, UpdatedAt: now,
	}, nil
}

// ListUsers returns all user records ordered by creation time.
func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserProfileParams holds the mutable profile fields.
type UpdateUserProfileParams struct {
	Email string
	Name  string
}

// UpdateUserProfile updates the user's display name.
func (q *Queries) UpdateUserProfile(ctx context.Context, p UpdateUserProfileParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE users SET name = ?, updated_at = ? WHERE email = ?`,
		p.Name, time.Now().UTC(), p.Email)
	return rowsAffected(res, err)
}

// SetUserRole sets the role of the user with the given email.
func (q *Queries) SetUserRole(ctx context.Context, email string, role model.Role) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE email = ?`,
		string(role), time.Now().UTC(), email)
	return rowsAffected(res, err)
}

// TouchUserLastSeen records the last successful authenticated request.
func (q *Queries) TouchUserLastSeen(ctx context.Context, email string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET last_seen_at = ? WHERE email = ?`,
		sql.NullTime{Time: time.Now().UTC(), Valid: true}, email)
	return err
}
