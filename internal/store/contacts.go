// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/folio-go/internal/model"
)

// CreateContactMessageParams holds fields for one contact submission.
type CreateContactMessageParams struct {
	Name    string
	Email   string
	Message string
	Browser string
	OS      string
	Country string
}

// CreateContactMessage stores a public contact submission.
func (q *Queries) CreateContactMessage(ctx context.Context, p CreateContactMessageParams) (model.ContactMessage, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO contact_messages (name, email, message, browser, os, country, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Email, p.Message, p.Browser, p.OS, p.Country, now)
	if err != nil {
		return model.ContactMessage{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ContactMessage{}, err
	}
	return model.ContactMessage{
		ID: id, Name: p.Name, Email: p.Email, Message: p.Message,
		Browser: p.Browser, OS: p.OS, Country: p.Country, CreatedAt: now,
	}, nil
}

// ListContactMessages returns all stored submissions, newest first.
func (q *Queries) ListContactMessages(ctx context.Context) ([]model.ContactMessage, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, email, message, browser, os, country, created_at
		 FROM contact_messages ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	messages := make([]model.ContactMessage, 0)
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message,
			&m.Browser, &m.OS, &m.Country, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// DeleteContactMessage removes one submission by id.
func (q *Queries) DeleteContactMessage(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id)
	return rowsAffected(res, err)
}

// PurgeContactMessagesBefore deletes submissions created before the
// cutoff and returns the number of rows removed.
func (q *Queries) PurgeContactMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM contact_messages WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
