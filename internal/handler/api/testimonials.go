// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio-go/internal/store"
)

// ListTestimonials returns published testimonials.
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.queries.ListTestimonials(r.Context(), true)
	if err != nil {
		slog.Error("listing testimonials", "error", err)
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusOK, testimonials)
}

// ListAllTestimonials returns every testimonial, drafts included.
// Admin only.
func (h *Handler) ListAllTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.queries.ListTestimonials(r.Context(), false)
	if err != nil {
		slog.Error("listing testimonials", "error", err)
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusOK, testimonials)
}

type testimonialRequest struct {
	AuthorName  string `json:"author_name"`
	AuthorTitle string `json:"author_title"`
	Quote       string `json:"quote"`
	Published   bool   `json:"published"`
	Position    int    `json:"position"`
}

// CreateTestimonial adds a testimonial. Admin only.
func (h *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AuthorName == "" || req.Quote == "" {
		WriteBadRequest(w, "Author name and quote are required")
		return
	}

	testimonial, err := h.queries.CreateTestimonial(r.Context(), store.CreateTestimonialParams{
		AuthorName:  req.AuthorName,
		AuthorTitle: req.AuthorTitle,
		Quote:       req.Quote,
		Published:   req.Published,
		Position:    req.Position,
	})
	if err != nil {
		slog.Error("creating testimonial", "error", err)
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusCreated, testimonial)
}

// UpdateTestimonial updates a testimonial. Admin only.
func (h *Handler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AuthorName == "" || req.Quote == "" {
		WriteBadRequest(w, "Author name and quote are required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.queries.UpdateTestimonial(r.Context(), store.UpdateTestimonialParams{
		ID:          id,
		AuthorName:  req.AuthorName,
		AuthorTitle: req.AuthorTitle,
		Quote:       req.Quote,
		Published:   req.Published,
		Position:    req.Position,
	}); err != nil {
		notFoundOrInternal(w, err, "Testimonial not found")
		return
	}

	testimonial, err := h.queries.GetTestimonial(r.Context(), id)
	if err != nil {
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusOK, testimonial)
}

// DeleteTestimonial removes a testimonial. Admin only.
func (h *Handler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	if err := h.queries.DeleteTestimonial(r.Context(), chi.URLParam(r, "id")); err != nil {
		notFoundOrInternal(w, err, "Testimonial not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
