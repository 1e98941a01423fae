// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides database access for all domain entities. Every
// query takes a context and returns model types; sql.ErrNoRows is the
// canonical "not found" signal callers translate at the HTTP boundary.
package store

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is the subset of *sql.DB / *sql.Tx used by Queries.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds all database query methods.
type Queries struct {
	db DBTX
}

// New creates a Queries instance backed by the given database.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance running against the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// rowsAffected translates a zero-row mutation into sql.ErrNoRows so that
// scoped updates (WHERE id = ? AND owner_email = ?) surface as not-found
// instead of silently succeeding against another owner's data.
func rowsAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IsUniqueConstraint reports whether err is a SQLite unique-constraint
// violation. The driver does not expose a typed error for this, so the
// extended result message is matched instead.
func IsUniqueConstraint(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
