// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// Credential is a local identity-provider credential record.
type Credential struct {
	ID           int64
	Email        string
	SubjectID    string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// GetCredentialByEmail returns the local credential for the given email.
func (q *Queries) GetCredentialByEmail(ctx context.Context, email string) (Credential, error) {
	var c Credential
	err := q.db.QueryRowContext(ctx,
		`SELECT id, email, subject_id, name, password_hash, created_at
		 FROM idp_credentials WHERE email = ?`, email).
		Scan(&c.ID, &c.Email, &c.SubjectID, &c.Name, &c.PasswordHash, &c.CreatedAt)
	return c, err
}

// CreateCredentialParams holds fields for creating a local credential.
type CreateCredentialParams struct {
	Email        string
	SubjectID    string
	Name         string
	PasswordHash string
}

// CreateCredential inserts a local identity-provider credential.
func (q *Queries) CreateCredential(ctx context.Context, p CreateCredentialParams) (Credential, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO idp_credentials (email, subject_id, name, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.Email, p.SubjectID, p.Name, p.PasswordHash, now)
	if err != nil {
		return Credential{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Credential{}, err
	}
	return Credential{
		ID: id, Email: p.Email, SubjectID: p.SubjectID,
		Name: p.Name, PasswordHash: p.PasswordHash, CreatedAt: now,
	}, nil
}
