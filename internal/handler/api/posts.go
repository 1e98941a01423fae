// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/util"
)

// postResponse is a post plus optionally rendered HTML content.
type postResponse struct {
	model.Post
	HTML string `json:"html,omitempty"`
}

// renderPost converts the post's markdown content to sanitized HTML.
func (h *Handler) renderPost(p model.Post) (string, error) {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(p.Content), &buf); err != nil {
		return "", err
	}
	return h.sanitizer.Sanitize(buf.String()), nil
}

// wantsHTML reports whether the request asked for rendered content.
func wantsHTML(r *http.Request) bool {
	return r.URL.Query().Get("render") == "html"
}

// ListPosts returns all posts, newest first, or one author's posts
// with ?author=. With ?render=html each post carries sanitized
// rendered content.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	var posts []model.Post
	var err error
	if author := r.URL.Query().Get("author"); author != "" {
		posts, err = h.queries.ListPostsByAuthor(r.Context(), author)
	} else {
		posts, err = h.queries.ListPosts(r.Context())
	}
	if err != nil {
		slog.Error("listing posts", "error", err)
		WriteInternalError(w)
		return
	}

	if !wantsHTML(r) {
		WriteJSON(w, http.StatusOK, posts)
		return
	}

	rendered := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		html, err := h.renderPost(p)
		if err != nil {
			slog.Error("rendering post", "slug", p.Slug, "error", err)
			WriteInternalError(w)
			return
		}
		rendered = append(rendered, postResponse{Post: p, HTML: html})
	}
	WriteJSON(w, http.StatusOK, rendered)
}

// GetPost returns one post by slug.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.queries.GetPostBySlug(r.Context(), slug)
	if err != nil {
		notFoundOrInternal(w, err, "Post not found")
		return
	}

	if !wantsHTML(r) {
		WriteJSON(w, http.StatusOK, post)
		return
	}

	html, err := h.renderPost(post)
	if err != nil {
		slog.Error("rendering post", "slug", post.Slug, "error", err)
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusOK, postResponse{Post: post, HTML: html})
}

type createPostRequest struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Excerpt string `json:"excerpt"`
}

// CreatePost creates a post authored by the caller. The slug is taken
// from the request when present, otherwise derived from the title; a
// duplicate slug is a 400.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r)

	var req createPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		WriteBadRequest(w, "Title is required")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(req.Title)
	}
	if !util.IsValidSlug(slug) {
		WriteBadRequest(w, "Invalid slug")
		return
	}

	exists, err := h.queries.SlugExists(r.Context(), slug)
	if err != nil {
		slog.Error("checking slug", "error", err)
		WriteInternalError(w)
		return
	}
	if exists {
		WriteBadRequest(w, "Slug already exists")
		return
	}

	post, err := h.queries.CreatePost(r.Context(), store.CreatePostParams{
		Slug:        slug,
		AuthorEmail: caller.Email,
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
	})
	if err != nil {
		// Two concurrent creates can both pass the SlugExists check;
		// the unique index decides the race.
		if store.IsUniqueConstraint(err) {
			WriteBadRequest(w, "Slug already exists")
			return
		}
		slog.Error("creating post", "error", err)
		WriteInternalError(w)
		return
	}

	_ = h.events.LogPostEvent(r.Context(), model.EventLevelInfo,
		"Post created", caller.Email, map[string]any{"slug": post.Slug})

	WriteJSON(w, http.StatusCreated, post)
}

// requireAuthoredPost loads the post and checks the caller may modify
// it. Only the author or an admin passes; everyone else gets 403.
func (h *Handler) requireAuthoredPost(w http.ResponseWriter, r *http.Request) (model.Post, bool) {
	caller := middleware.GetUser(r)
	slug := chi.URLParam(r, "slug")

	post, err := h.queries.GetPostBySlug(r.Context(), slug)
	if err != nil {
		notFoundOrInternal(w, err, "Post not found")
		return model.Post{}, false
	}

	if !caller.CanActOn(post.AuthorEmail) {
		WriteForbidden(w)
		return model.Post{}, false
	}
	return post, true
}

type updatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Excerpt string `json:"excerpt"`
}

// UpdatePost updates a post's title, content and excerpt.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requireAuthoredPost(w, r)
	if !ok {
		return
	}

	var req updatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		WriteBadRequest(w, "Title is required")
		return
	}

	if err := h.queries.UpdatePost(r.Context(), store.UpdatePostParams{
		Slug:    post.Slug,
		Title:   req.Title,
		Content: req.Content,
		Excerpt: req.Excerpt,
	}); err != nil {
		notFoundOrInternal(w, err, "Post not found")
		return
	}

	updated, err := h.queries.GetPostBySlug(r.Context(), post.Slug)
	if err != nil {
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// DeletePost removes a post.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requireAuthoredPost(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeletePost(r.Context(), post.Slug); err != nil {
		notFoundOrInternal(w, err, "Post not found")
		return
	}

	_ = h.events.LogPostEvent(r.Context(), model.EventLevelInfo,
		"Post deleted", middleware.GetUserEmail(r), map[string]any{"slug": post.Slug})

	w.WriteHeader(http.StatusNoContent)
}

// GenerateExcerpt produces an excerpt for the post with the configured
// AI model and stores it. 503 when no AI integration is configured.
func (h *Handler) GenerateExcerpt(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requireAuthoredPost(w, r)
	if !ok {
		return
	}

	if h.excerpts == nil {
		WriteError(w, http.StatusServiceUnavailable, "Excerpt generation is not configured")
		return
	}

	excerpt, err := h.excerpts.Generate(r.Context(), post.Title, post.Content)
	if err != nil {
		slog.Error("generating excerpt", "slug", post.Slug, "error", err)
		WriteError(w, http.StatusBadGateway, "Excerpt generation failed")
		return
	}

	if err := h.queries.SetPostExcerpt(r.Context(), post.Slug, excerpt); err != nil {
		notFoundOrInternal(w, err, "Post not found")
		return
	}
	post.Excerpt = excerpt

	WriteJSON(w, http.StatusOK, post)
}
