// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Testimonial is an admin-managed, publicly readable quote.
type Testimonial struct {
	ID          string    `json:"id"`
	AuthorName  string    `json:"author_name"`
	AuthorTitle string    `json:"author_title,omitempty"`
	Quote       string    `json:"quote"`
	Published   bool      `json:"published"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WebsiteUpdate is an admin-authored changelog entry, publicly readable.
type WebsiteUpdate struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
