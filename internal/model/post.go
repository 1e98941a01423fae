// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Post is a published blog post. Slugs are unique across all posts;
// only the author (or an admin) may update or delete a post.
type Post struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	AuthorEmail string    `json:"author_email"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Excerpt     string    `json:"excerpt,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
