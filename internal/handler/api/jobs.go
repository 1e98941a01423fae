// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
)

// jobOwner resolves whose applications the request addresses. Regular
// users always act on their own; admins may pass ?email= to act on any
// user's tracker.
func jobOwner(r *http.Request) string {
	caller := middleware.GetUser(r)
	if caller.IsAdmin() {
		if email := r.URL.Query().Get("email"); email != "" {
			return email
		}
	}
	return caller.Email
}

// ListJobApplications returns the owner's applications, optionally
// filtered with ?status=.
func (h *Handler) ListJobApplications(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !model.IsValidJobStatus(status) {
		WriteBadRequest(w, "Invalid status")
		return
	}

	jobs, err := h.queries.ListJobApplications(r.Context(), jobOwner(r), status)
	if err != nil {
		slog.Error("listing job applications", "error", err)
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusOK, jobs)
}

type jobRequest struct {
	Company   string `json:"company"`
	RoleTitle string `json:"role_title"`
	Status    string `json:"status"`
	AppliedAt string `json:"applied_at"` // RFC 3339; empty means now
	URL       string `json:"url"`
	Notes     string `json:"notes"`
}

// parseJobRequest validates the shared create/update fields. A response
// is written and false returned on invalid input.
func parseJobRequest(w http.ResponseWriter, req jobRequest) (status string, appliedAt time.Time, ok bool) {
	if req.Company == "" || req.RoleTitle == "" {
		WriteBadRequest(w, "Company and role title are required")
		return "", time.Time{}, false
	}

	status = req.Status
	if status == "" {
		status = model.JobStatusApplied
	}
	if !model.IsValidJobStatus(status) {
		WriteBadRequest(w, "Invalid status")
		return "", time.Time{}, false
	}

	appliedAt = time.Now().UTC()
	if req.AppliedAt != "" {
		t, err := time.Parse(time.RFC3339, req.AppliedAt)
		if err != nil {
			WriteBadRequest(w, "Invalid applied_at timestamp")
			return "", time.Time{}, false
		}
		appliedAt = t.UTC()
	}
	return status, appliedAt, true
}

// CreateJobApplication records a new application for the owner.
func (h *Handler) CreateJobApplication(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status, appliedAt, ok := parseJobRequest(w, req)
	if !ok {
		return
	}

	job, err := h.queries.CreateJobApplication(r.Context(), store.CreateJobApplicationParams{
		OwnerEmail: jobOwner(r),
		Company:    req.Company,
		RoleTitle:  req.RoleTitle,
		Status:     status,
		AppliedAt:  appliedAt,
		URL:        req.URL,
		Notes:      req.Notes,
	})
	if err != nil {
		slog.Error("creating job application", "error", err)
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusCreated, job)
}

// GetJobApplication returns one application, scoped to the owner.
func (h *Handler) GetJobApplication(w http.ResponseWriter, r *http.Request) {
	job, err := h.queries.GetJobApplication(r.Context(), chi.URLParam(r, "id"), jobOwner(r))
	if err != nil {
		notFoundOrInternal(w, err, "Job application not found")
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// UpdateJobApplication updates an application, scoped to the owner. A
// crafted id belonging to another user is indistinguishable from a
// missing one: 404 either way.
func (h *Handler) UpdateJobApplication(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status, appliedAt, ok := parseJobRequest(w, req)
	if !ok {
		return
	}

	owner := jobOwner(r)
	id := chi.URLParam(r, "id")
	if err := h.queries.UpdateJobApplication(r.Context(), store.UpdateJobApplicationParams{
		ID:         id,
		OwnerEmail: owner,
		Company:    req.Company,
		RoleTitle:  req.RoleTitle,
		Status:     status,
		AppliedAt:  appliedAt,
		URL:        req.URL,
		Notes:      req.Notes,
	}); err != nil {
		notFoundOrInternal(w, err, "Job application not found")
		return
	}

	job, err := h.queries.GetJobApplication(r.Context(), id, owner)
	if err != nil {
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// DeleteJobApplication removes an application, scoped to the owner.
func (h *Handler) DeleteJobApplication(w http.ResponseWriter, r *http.Request) {
	if err := h.queries.DeleteJobApplication(r.Context(), chi.URLParam(r, "id"), jobOwner(r)); err != nil {
		notFoundOrInternal(w, err, "Job application not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
