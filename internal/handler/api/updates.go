// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/store"
)

// ListWebsiteUpdates returns the public changelog, newest first.
func (h *Handler) ListWebsiteUpdates(w http.ResponseWriter, r *http.Request) {
	updates, err := h.queries.ListWebsiteUpdates(r.Context())
	if err != nil {
		slog.Error("listing website updates", "error", err)
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusOK, updates)
}

// GetWebsiteUpdate returns one changelog entry.
func (h *Handler) GetWebsiteUpdate(w http.ResponseWriter, r *http.Request) {
	update, err := h.queries.GetWebsiteUpdate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		notFoundOrInternal(w, err, "Website update not found")
		return
	}
	WriteJSON(w, http.StatusOK, update)
}

type websiteUpdateRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreateWebsiteUpdate adds a changelog entry. Admin only.
func (h *Handler) CreateWebsiteUpdate(w http.ResponseWriter, r *http.Request) {
	var req websiteUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		WriteBadRequest(w, "Title is required")
		return
	}

	update, err := h.queries.CreateWebsiteUpdate(r.Context(), store.CreateWebsiteUpdateParams{
		Title:     req.Title,
		Body:      req.Body,
		CreatedBy: middleware.GetUserEmail(r),
	})
	if err != nil {
		slog.Error("creating website update", "error", err)
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusCreated, update)
}

// UpdateWebsiteUpdate edits a changelog entry. Admin only.
func (h *Handler) UpdateWebsiteUpdate(w http.ResponseWriter, r *http.Request) {
	var req websiteUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		WriteBadRequest(w, "Title is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.queries.UpdateWebsiteUpdate(r.Context(), id, req.Title, req.Body); err != nil {
		notFoundOrInternal(w, err, "Website update not found")
		return
	}

	update, err := h.queries.GetWebsiteUpdate(r.Context(), id)
	if err != nil {
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusOK, update)
}

// DeleteWebsiteUpdate removes a changelog entry. Admin only.
func (h *Handler) DeleteWebsiteUpdate(w http.ResponseWriter, r *http.Request) {
	if err := h.queries.DeleteWebsiteUpdate(r.Context(), chi.URLParam(r, "id")); err != nil {
		notFoundOrInternal(w, err, "Website update not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
