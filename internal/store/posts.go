// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/folio-go/internal/model"
)

const postColumns = `id, slug, author_email, title, content, excerpt, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Slug, &p.AuthorEmail, &p.Title, &p.Content,
		&p.Excerpt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetPostBySlug returns the post with the given slug.
func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	return scanPost(row)
}

// SlugExists reports whether any post already uses the given slug.
func (q *Queries) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE slug = ?`, slug).Scan(&count)
	return count > 0, err
}

// ListPosts returns all posts, newest first.
func (q *Queries) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	posts := make([]model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPostsByAuthor returns one author's posts, newest first.
func (q *Queries) ListPostsByAuthor(ctx context.Context, authorEmail string) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE author_email = ? ORDER BY created_at DESC, id DESC`,
		authorEmail)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	posts := make([]model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CreatePostParams holds fields for creating a post.
type CreatePostParams struct {
	Slug        string
	AuthorEmail string
	Title       string
	Content     string
	Excerpt     string
}

// CreatePost inserts a new post. The slug must already be validated and
// unique; the UNIQUE constraint backstops concurrent creates.
func (q *Queries) CreatePost(ctx context.Context, p CreatePostParams) (model.Post, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO posts (slug, author_email, title, content, excerpt, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.AuthorEmail, p.Title, p.Content, p.Excerpt, now, now)
	if err != nil {
		return model.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, err
	}
	return model.Post{
		ID: id, Slug: p.Slug, AuthorEmail: p.AuthorEmail,
		Title: p.Title, Content: p.Content, Excerpt: p.Excerpt,
		CreatedAt: now, UpdatedAt: now,
	}, nil
}

// UpdatePostParams holds fields for updating a post.
type UpdatePostParams struct {
	Slug    string
	Title   string
	Content string
	Excerpt string
}

// UpdatePost updates a post's title, content and excerpt. The slug is
// immutable once assigned.
func (q *Queries) UpdatePost(ctx context.Context, p UpdatePostParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, excerpt = ?, updated_at = ? WHERE slug = ?`,
		p.Title, p.Content, p.Excerpt, time.Now().UTC(), p.Slug)
	return rowsAffected(res, err)
}

// SetPostExcerpt stores a generated excerpt for a post.
func (q *Queries) SetPostExcerpt(ctx context.Context, slug, excerpt string) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE posts SET excerpt = ?, updated_at = ? WHERE slug = ?`,
		excerpt, time.Now().UTC(), slug)
	return rowsAffected(res, err)
}

// DeletePost removes a post by slug.
func (q *Queries) DeletePost(ctx context.Context, slug string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM posts WHERE slug = ?`, slug)
	return rowsAffected(res, err)
}

// CountPosts returns the total number of posts.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	return count, err
}
