// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
)

// ListUsers returns all registered users. Admin only.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		slog.Error("listing users", "error", err)
		WriteInternalError(w)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	WriteJSON(w, http.StatusOK, users)
}

// Me returns the caller's own user record.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, middleware.GetUser(r))
}

// GetUser returns one user record. Callers may fetch their own record;
// fetching anyone else requires admin.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r)
	email := chi.URLParam(r, "email")

	if !caller.CanActOn(email) {
		WriteForbidden(w)
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		notFoundOrInternal(w, err, "User not found")
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

// UpdateProfile updates the caller's display name.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r)

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		WriteBadRequest(w, "Name is required")
		return
	}

	if err := h.queries.UpdateUserProfile(r.Context(), store.UpdateUserProfileParams{
		Email: caller.Email,
		Name:  req.Name,
	}); err != nil {
		notFoundOrInternal(w, err, "User not found")
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), caller.Email)
	if err != nil {
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

type switchRoleRequest struct {
	Email string `json:"email"`
}

// SwitchRole toggles the target user's role between admin and user.
// The target defaults to the caller; acting on anyone else requires
// admin. The toggle is deliberate: the role set is closed, so "switch"
// is the whole operation, not a free-form assignment.
func (h *Handler) SwitchRole(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r)

	var req switchRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email := req.Email
	if email == "" {
		email = caller.Email
	}

	if !caller.CanActOn(email) {
		WriteForbidden(w)
		return
	}

	target, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		notFoundOrInternal(w, err, "User not found")
		return
	}

	newRole := target.Role.Toggle()
	if err := h.queries.SetUserRole(r.Context(), target.Email, newRole); err != nil {
		notFoundOrInternal(w, err, "User not found")
		return
	}
	target.Role = newRole

	_ = h.events.LogUserEvent(r.Context(), model.EventLevelInfo,
		"Role switched", caller.Email, map[string]any{
			"target": target.Email,
			"role":   string(newRole),
		})

	WriteJSON(w, http.StatusOK, target)
}
