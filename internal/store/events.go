// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/folio-go/internal/model"
)

// CreateEventParams holds fields for one event log entry.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserEmail sql.NullString
	Metadata  string
}

// CreateEvent appends an entry to the event log.
func (q *Queries) CreateEvent(ctx context.Context, p CreateEventParams) error {
	metadata := p.Metadata
	if metadata == "" {
		metadata = "{}"
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO events (level, category, message, user_email, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Level, p.Category, p.Message, p.UserEmail, metadata, time.Now().UTC())
	return err
}

// ListEventsParams filters the event log listing.
type ListEventsParams struct {
	Level    string
	Category string
	Limit    int
}

// ListEvents returns event log entries, newest first. A zero limit
// defaults to 100.
func (q *Queries) ListEvents(ctx context.Context, p ListEventsParams) ([]model.Event, error) {
	query := `SELECT id, level, category, message, user_email, metadata, created_at FROM events`
	where := ""
	args := []any{}
	if p.Level != "" {
		where = ` WHERE level = ?`
		args = append(args, p.Level)
	}
	if p.Category != "" {
		if where == "" {
			where = ` WHERE category = ?`
		} else {
			where += ` AND category = ?`
		}
		args = append(args, p.Category)
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 100
	}
	query += where + ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	events := make([]model.Event, 0)
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message,
			&e.UserEmail, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// PurgeEventsBefore deletes event log entries created before the cutoff.
func (q *Queries) PurgeEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
