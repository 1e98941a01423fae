// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/folio-go/internal/model"
)

// ---- Testimonials ----

// CreateTestimonialParams holds fields for one testimonial.
type CreateTestimonialParams struct {
	AuthorName  string
	AuthorTitle string
	Quote       string
	Published   bool
	Position    int
}

// CreateTestimonial inserts a testimonial with a generated id.
func (q *Queries) CreateTestimonial(ctx context.Context, p CreateTestimonialParams) (model.Testimonial, error) {
	now := time.Now().UTC()
	t := model.Testimonial{
		ID: uuid.NewString(), AuthorName: p.AuthorName, AuthorTitle: p.AuthorTitle,
		Quote: p.Quote, Published: p.Published, Position: p.Position,
		CreatedAt: now, UpdatedAt: now,
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO testimonials (id, author_name, author_title, quote, published, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AuthorName, t.AuthorTitle, t.Quote, boolToInt(t.Published), t.Position, now, now)
	if err != nil {
		return model.Testimonial{}, err
	}
	return t, nil
}

// GetTestimonial returns one testimonial by id.
func (q *Queries) GetTestimonial(ctx context.Context, id string) (model.Testimonial, error) {
	var t model.Testimonial
	var published int
	err := q.db.QueryRowContext(ctx,
		`SELECT id, author_name, author_title, quote, published, position, created_at, updated_at
		 FROM testimonials WHERE id = ?`, id).
		Scan(&t.ID, &t.AuthorName, &t.AuthorTitle, &t.Quote, &published,
			&t.Position, &t.CreatedAt, &t.UpdatedAt)
	t.Published = published != 0
	return t, err
}

// UpdateTestimonialParams holds fields for updating one testimonial.
type UpdateTestimonialParams struct {
	ID          string
	AuthorName  string
	AuthorTitle string
	Quote       string
	Published   bool
	Position    int
}

// UpdateTestimonial updates a testimonial in place.
func (q *Queries) UpdateTestimonial(ctx context.Context, p UpdateTestimonialParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE testimonials SET author_name = ?, author_title = ?, quote = ?, published = ?, position = ?, updated_at = ?
		 WHERE id = ?`,
		p.AuthorName, p.AuthorTitle, p.Quote, boolToInt(p.Published), p.Position, time.Now().UTC(), p.ID)
	return rowsAffected(res, err)
}

// DeleteTestimonial removes a testimonial by id.
func (q *Queries) DeleteTestimonial(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = ?`, id)
	return rowsAffected(res, err)
}

// ListTestimonials returns testimonials in display order. When
// publishedOnly is set, drafts are excluded.
func (q *Queries) ListTestimonials(ctx context.Context, publishedOnly bool) ([]model.Testimonial, error) {
	query := `SELECT id, author_name, author_title, quote, published, position, created_at, updated_at
		 FROM testimonials`
	if publishedOnly {
		query += ` WHERE published = 1`
	}
	query += ` ORDER BY position, created_at`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	testimonials := make([]model.Testimonial, 0)
	for rows.Next() {
		var t model.Testimonial
		var published int
		if err := rows.Scan(&t.ID, &t.AuthorName, &t.AuthorTitle, &t.Quote, &published,
			&t.Position, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Published = published != 0
		testimonials = append(testimonials, t)
	}
	return testimonials, rows.Err()
}

// ---- Website updates ----

// CreateWebsiteUpdateParams holds fields for one changelog entry.
type CreateWebsiteUpdateParams struct {
	Title     string
	Body      string
	CreatedBy string
}

// CreateWebsiteUpdate inserts a changelog entry with a generated id.
func (q *Queries) CreateWebsiteUpdate(ctx context.Context, p CreateWebsiteUpdateParams) (model.WebsiteUpdate, error) {
	now := time.Now().UTC()
	u := model.WebsiteUpdate{
		ID: uuid.NewString(), Title: p.Title, Body: p.Body, CreatedBy: p.CreatedBy,
		CreatedAt: now, UpdatedAt: now,
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO website_updates (id, title, body, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Title, u.Body, u.CreatedBy, now, now)
	if err != nil {
		return model.WebsiteUpdate{}, err
	}
	return u, nil
}

// GetWebsiteUpdate returns one changelog entry by id.
func (q *Queries) GetWebsiteUpdate(ctx context.Context, id string) (model.WebsiteUpdate, error) {
	var u model.WebsiteUpdate
	err := q.db.QueryRowContext(ctx,
		`SELECT id, title, body, created_by, created_at, updated_at
		 FROM website_updates WHERE id = ?`, id).
		Scan(&u.ID, &u.Title, &u.Body, &u.CreatedBy, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// UpdateWebsiteUpdate updates a changelog entry's title and body.
func (q *Queries) UpdateWebsiteUpdate(ctx context.Context, id, title, body string) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE website_updates SET title = ?, body = ?, updated_at = ? WHERE id = ?`,
		title, body, time.Now().UTC(), id)
	return rowsAffected(res, err)
}

// DeleteWebsiteUpdate removes a changelog entry by id.
func (q *Queries) DeleteWebsiteUpdate(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM website_updates WHERE id = ?`, id)
	return rowsAffected(res, err)
}

// ListWebsiteUpdates returns changelog entries, newest first.
func (q *Queries) ListWebsiteUpdates(ctx context.Context) ([]model.WebsiteUpdate, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, title, body, created_by, created_at, updated_at
		 FROM website_updates ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	updates := make([]model.WebsiteUpdate, 0)
	for rows.Next() {
		var u model.WebsiteUpdate
		if err := rows.Scan(&u.ID, &u.Title, &u.Body, &u.CreatedBy, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}
