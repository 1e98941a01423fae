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

// maxUploadBytes bounds multipart image uploads.
const maxUploadBytes = 10 << 20 // 10 MB

// ownerEmail extracts the portfolio owner from the URL.
func ownerEmail(r *http.Request) string {
	return chi.URLParam(r, "email")
}

// requireOwner checks the caller may mutate the addressed portfolio.
// Owners act on their own collections; admins on anyone's.
func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := ownerEmail(r)
	if !middleware.GetUser(r).CanActOn(owner) {
		WriteForbidden(w)
		return "", false
	}
	return owner, true
}

// GetPortfolio returns the aggregate portfolio for one owner: education,
// experience, projects and skill categories in display order.
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.queries.GetPortfolio(r.Context(), ownerEmail(r))
	if err != nil {
		slog.Error("loading portfolio", "error", err)
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusOK, portfolio)
}

// ---- Education ----

type educationRequest struct {
	School    string `json:"school"`
	Degree    string `json:"degree"`
	Field     string `json:"field"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
	Position  int    `json:"position"`
}

// CreateEducation adds an education entry to the owner's portfolio.
func (h *Handler) CreateEducation(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req educationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.School == "" {
		WriteBadRequest(w, "School is required")
		return
	}

	entry, err := h.queries.CreateEducation(r.Context(), store.CreateEducationParams{
		OwnerEmail: owner,
		School:     req.School,
		Degree:     req.Degree,
		Field:      req.Field,
		StartYear:  req.StartYear,
		EndYear:    req.EndYear,
		Position:   req.Position,
	})
	if err != nil {
		slog.Error("creating education entry", "error", err)
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}

// UpdateEducation updates an education entry in the owner's portfolio.
func (h *Handler) UpdateEducation(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req educationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.School == "" {
		WriteBadRequest(w, "School is required")
		return
	}

	if err := h.queries.UpdateEducation(r.Context(), store.UpdateEducationParams{
		ID:         chi.URLParam(r, "id"),
		OwnerEmail: owner,
		School:     req.School,
		Degree:     req.Degree,
		Field:      req.Field,
		StartYear:  req.StartYear,
		EndYear:    req.EndYear,
		Position:   req.Position,
	}); err != nil {
		notFoundOrInternal(w, err, "Education entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteEducation removes an education entry from the owner's portfolio.
func (h *Handler) DeleteEducation(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteEducation(r.Context(), chi.URLParam(r, "id"), owner); err != nil {
		notFoundOrInternal(w, err, "Education entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Experience ----

type experienceRequest struct {
	Company   string `json:"company"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Current   bool   `json:"current"`
	Position  int    `json:"position"`
}

// CreateExperience adds an experience entry to the owner's portfolio.
func (h *Handler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req experienceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Company == "" || req.Title == "" {
		WriteBadRequest(w, "Company and title are required")
		return
	}

	entry, err := h.queries.CreateExperience(r.Context(), store.CreateExperienceParams{
		OwnerEmail: owner,
		Company:    req.Company,
		Title:      req.Title,
		Summary:    req.Summary,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Current:    req.Current,
		Position:   req.Position,
	})
	if err != nil {
		slog.Error("creating experience entry", "error", err)
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}

// UpdateExperience updates an experience entry in the owner's portfolio.
func (h *Handler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req experienceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Company == "" || req.Title == "" {
		WriteBadRequest(w, "Company and title are required")
		return
	}

	if err := h.queries.UpdateExperience(r.Context(), store.UpdateExperienceParams{
		ID:         chi.URLParam(r, "id"),
		OwnerEmail: owner,
		Company:    req.Company,
		Title:      req.Title,
		Summary:    req.Summary,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Current:    req.Current,
		Position:   req.Position,
	}); err != nil {
		notFoundOrInternal(w, err, "Experience entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteExperience removes an experience entry from the owner's portfolio.
func (h *Handler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteExperience(r.Context(), chi.URLParam(r, "id"), owner); err != nil {
		notFoundOrInternal(w, err, "Experience entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Projects ----

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	RepoURL     string `json:"repo_url"`
	Position    int    `json:"position"`
}

// CreateProject adds a project to the owner's portfolio.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req projectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		WriteBadRequest(w, "Name is required")
		return
	}

	project, err := h.queries.CreateProject(r.Context(), store.CreateProjectParams{
		OwnerEmail:  owner,
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
		RepoURL:     req.RepoURL,
		Position:    req.Position,
	})
	if err != nil {
		slog.Error("creating project", "error", err)
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusCreated, project)
}

// UpdateProject updates a project in the owner's portfolio.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req projectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		WriteBadRequest(w, "Name is required")
		return
	}

	if err := h.queries.UpdateProject(r.Context(), store.UpdateProjectParams{
		ID:          chi.URLParam(r, "id"),
		OwnerEmail:  owner,
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
		RepoURL:     req.RepoURL,
		Position:    req.Position,
	}); err != nil {
		notFoundOrInternal(w, err, "Project not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteProject removes a project and its stored images.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.queries.DeleteProject(r.Context(), id, owner); err != nil {
		notFoundOrInternal(w, err, "Project not found")
		return
	}
	if err := h.images.DeleteProjectImages(h.uploadsDir, id); err != nil {
		slog.Warn("deleting project images", "project", id, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadProjectImage accepts a multipart image upload for a project,
// normalizes it and stores an image plus thumbnail.
func (h *Handler) UploadProjectImage(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	// Confirm the project exists and belongs to the owner first.
	project, err := h.queries.GetProject(r.Context(), id, owner)
	if err != nil {
		notFoundOrInternal(w, err, "Project not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteBadRequest(w, "Invalid upload")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		WriteBadRequest(w, "Image file is required")
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.images.ProcessProjectImage(h.uploadsDir, project.ID, file)
	if err != nil {
		WriteBadRequest(w, "Unsupported or corrupt image")
		return
	}

	if err := h.queries.SetProjectImage(r.Context(), project.ID, owner,
		result.ImagePath, result.ThumbPath); err != nil {
		notFoundOrInternal(w, err, "Project not found")
		return
	}

	project.ImagePath = result.ImagePath
	project.ThumbPath = result.ThumbPath
	WriteJSON(w, http.StatusOK, project)
}

// ---- Skill categories ----

type skillCategoryRequest struct {
	Name     string   `json:"name"`
	Skills   []string `json:"skills"`
	Position int      `json:"position"`
}

// CreateSkillCategory adds a skill category to the owner's portfolio.
func (h *Handler) CreateSkillCategory(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req skillCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		WriteBadRequest(w, "Name is required")
		return
	}

	category, err := h.queries.CreateSkillCategory(r.Context(), store.CreateSkillCategoryParams{
		OwnerEmail: owner,
		Name:       req.Name,
		Skills:     req.Skills,
		Position:   req.Position,
	})
	if err != nil {
		slog.Error("creating skill category", "error", err)
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusCreated, category)
}

// UpdateSkillCategory replaces a skill category's name and skill set.
// The skill list is stored in one row, so the replacement is atomic:
// concurrent updates settle on one complete list, never a merge.
func (h *Handler) UpdateSkillCategory(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req skillCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		WriteBadRequest(w, "Name is required")
		return
	}

	if err := h.queries.UpdateSkillCategory(r.Context(), store.UpdateSkillCategoryParams{
		ID:         chi.URLParam(r, "id"),
		OwnerEmail: owner,
		Name:       req.Name,
		Skills:     req.Skills,
		Position:   req.Position,
	}); err != nil {
		notFoundOrInternal(w, err, "Skill category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSkillCategory removes a skill category from the owner's portfolio.
func (h *Handler) DeleteSkillCategory(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteSkillCategory(r.Context(), chi.URLParam(r, "id"), owner); err != nil {
		notFoundOrInternal(w, err, "Skill category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
