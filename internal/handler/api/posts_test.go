// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/olegiv/folio-go/internal/model"
)

func TestCreatePost(t *testing.T) {
	h, q := newTestHandler(t)
	alice := seedUser(t, q, "alice@example.com", model.RoleUser)
	router := newTestRouter(h, &alice)

	w := doRequest(t, router, http.MethodPost, "/posts", map[string]any{
		"title":   "My First Post",
		"content": "Hello, world.",
	})
	assertStatus(t, w, http.StatusCreated)

	var post model.Post
	decodeBody(t, w, &post)
	if post.Slug != "my-first-post" {
		t.Errorf("slug = %q, want my-first-post (derived from title)", post.Slug)
	}
	if post.AuthorEmail != "alice@example.com" {
		t.Errorf("author = %q, want the caller's email", post.AuthorEmail)
	}
}

func TestListPostsByAuthor(t *testing.T) {
	h, q := newTestHandler(t)
	alice := seedUser(t, q, "alice@example.com", model.RoleUser)
	bob := seedUser(t, q, "bob@example.com", model.RoleUser)

	for _, p := range []struct {
		user  *model.User
		title string
	}{
		{&alice, "Alice One"},
		{&alice, "Alice Two"},
		{&bob, "Bob One"},
	} {
		w := doRequest(t, newTestRouter(h, p.user), http.MethodPost, "/posts",
			map[string]any{"title": p.title, "content": "x"})
		assertStatus(t, w, http.StatusCreated)
	}

	w := doRequest(t, newTestRouter(h, nil), http.MethodGet, "/posts?author=alice@example.com", nil)
	assertStatus(t, w, http.StatusOK)

	var posts []model.Post
	decodeBody(t, w, &posts)
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	for _, p := range posts {
		if p.AuthorEmail != "alice@example.com" {
			t.Errorf("author = %q, want alice@example.com", p.AuthorEmail)
		}
	}

	w = doRequest(t, newTestRouter(h, nil), http.MethodGet, "/posts", nil)
	assertStatus(t, w, http.StatusOK)
	posts = posts[:0]
	decodeBody(t, w, &posts)
	if len(posts) != 3 {
		t.Errorf("unfiltered len(posts) = %d, want 3", len(posts))
	}
}

func TestCreatePostValidation(t *testing.T) {
	h, q := newTestHandler(t)
	alice := seedUser(t, q, "alice@example.com", model.RoleUser)
	router := newTestRouter(h, &alice)

	tests := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{"missing title", map[string]any{"content": "x"}, "Title is required"},
		{"invalid slug", map[string]any{"title": "T", "slug": "Bad Slug!"}, "Invalid slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/posts", tt.body)
			assertStatus(t, w, http.StatusBadRequest)
			assertErrorMessage(t, w, tt.message)
		})
	}
}

func TestCreatePostDuplicateSlug(t *testing.T) {
	h, q := newTestHandler(t)
	alice := seedUser(t, q, "alice@example.com", model.RoleUser)
	router := newTestRouter(h, &alice)

	w := doRequest(t, router, http.MethodPost, "/posts", map[string]any{
		"title": "Original", "slug": "the-slug", "content": "first",
	})
	assertStatus(t, w, http.StatusCreated)

	before, err := q.CountPosts(context.Background())
	if err != nil {
		t.Fatalf("CountPosts: %v", err)
	}

	w = doRequest(t, router, http.MethodPost, "/posts", map[string]any{
		"title": "Copycat", "slug": "the-slug", "content": "second",
	})
	assertStatus(t, w, http.StatusBadRequest)
	assertErrorMessage(t, w, "Slug already exists")

	after, err := q.CountPosts(context.Background())
	if err != nil {
		t.Fatalf("CountPosts: %v", err)
	}
	if after != before {
		t.Errorf("post count changed on rejected create: %d -> %d", before, after)
	}
}

func TestUpdatePostOwnership(t *testing.T) {
	h, q := newTestHandler(t)
	alice := seedUser(t, q, "alice@example.com", model.RoleUser)
	mallory := seedUser(t, q, "mallory@example.com", model.RoleUser)
	admin := seedUser(t, q, "admin@example.com", model.RoleAdmin)

	w := doRequest(t, newTestRouter(h, &alice), http.MethodPost, "/posts", map[string]any{
		"title": "Alice's Post", "slug": "alices-post", "content": "original",
	})
	assertStatus(t, w, http.StatusCreated)

	// Another user gets 403, and the post is untouched
	w = doRequest(t, newTestRouter(h, &mallory), http.MethodPut, "/posts/alices-post", map[string]any{
		"title": "Hijacked", "content": "evil",
	})
	assertStatus(t, w, http.StatusForbidden)
	assertErrorMessage(t, w, "Forbidden")

	post, err := q.GetPostBySlug(context.Background(), "alices-post")
	if err != nil {
		t.Fatalf("GetPostBySlug: %v", err)
	}
	if post.Title != "Alice's Post" {
		t.Errorf("title = %q, post modified by non-author", post.Title)
	}

	// The author and an admin both may update
	w = doRequest(t, newTestRouter(h, &alice), http.MethodPut, "/posts/alices-post", map[string]any{
		"title": "Updated by Alice", "content": "v2",
	})
	assertStatus(t, w, http.StatusOK)

	w = doRequest(t, newTestRouter(h, &admin), http.MethodPut, "/posts/alices-post", map[string]any{
		"title": "Updated by Admin", "content": "v3",
	})
	assertStatus(t, w, http.StatusOK)

	var updated model.Post
	decodeBody(t, w, &updated)
	if updated.Slug != "alices-post" {
		t.Errorf("slug = %q, slug must not change on update", updated.Slug)
	}
}

func TestDeletePost(t *testing.T) {
	h, q := newTestHandler(t)
	alice := seedUser(t, q, "alice@example.com", model.RoleUser)
	router := newTestRouter(h, &alice)

	w := doRequest(t, router, http.MethodPost, "/posts", map[string]any{
		"title": "Short Lived", "slug": "short-lived",
	})
	assertStatus(t, w, http.StatusCreated)

	w = doRequest(t, router, http.MethodDelete, "/posts/short-lived", nil)
	assertStatus(t, w, http.StatusNoContent)

	w = doRequest(t, router, http.MethodGet, "/posts/short-lived", nil)
	assertStatus(t, w, http.StatusNotFound)
	assertErrorMessage(t, w, "Post not found")
}

func TestGetPostRendersHTML(t *testing.T) {
	h, q := newTestHandler(t)
	alice := seedUser(t, q, "alice@example.com", model.RoleUser)
	router := newTestRouter(h, &alice)

	w := doRequest(t, router, http.MethodPost, "/posts", map[string]any{
		"title":   "Markdown Post",
		"slug":    "markdown-post",
		"content": "# Heading\n\nSome *emphasis* and <script>alert(1)</script>.",
	})
	assertStatus(t, w, http.StatusCreated)

	w = doRequest(t, newTestRouter(h, nil), http.MethodGet, "/posts/markdown-post?render=html", nil)
	assertStatus(t, w, http.StatusOK)

	var resp struct {
		Content string `json:"content"`
		HTML    string `json:"html"`
	}
	decodeBody(t, w, &resp)
	if !strings.Contains(resp.HTML, "<h1") {
		t.Errorf("html should contain a rendered heading, got %q", resp.HTML)
	}
	if strings.Contains(resp.HTML, "<script>") {
		t.Error("rendered html must be sanitized")
	}

	// Without the render flag there is no html field
	w = doRequest(t, newTestRouter(h, nil), http.MethodGet, "/posts/markdown-post", nil)
	assertStatus(t, w, http.StatusOK)
	var plain map[string]any
	decodeBody(t, w, &plain)
	if _, ok := plain["html"]; ok {
		t.Error("html field should be omitted without ?render=html")
	}
}

func TestGenerateExcerptUnconfigured(t *testing.T) {
	h, q := newTestHandler(t)
	alice := seedUser(t, q, "alice@example.com", model.RoleUser)
	router := newTestRouter(h, &alice)

	w := doRequest(t, router, http.MethodPost, "/posts", map[string]any{
		"title": "No AI Here", "slug": "no-ai-here", "content": "text",
	})
	assertStatus(t, w, http.StatusCreated)

	w = doRequest(t, router, http.MethodPost, "/posts/no-ai-here/excerpt", nil)
	assertStatus(t, w, http.StatusServiceUnavailable)
	assertErrorMessage(t, w, "Excerpt generation is not configured")
}
