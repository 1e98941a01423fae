// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/olegiv/folio-go/internal/ai"
	"github.com/olegiv/folio-go/internal/geoip"
	"github.com/olegiv/folio-go/internal/imaging"
	"github.com/olegiv/folio-go/internal/service"
	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/version"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20 // 1 MB

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db        *sql.DB
	queries   *store.Queries
	events    *service.EventService
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy

	// Optional integrations; nil when not configured.
	geo      *geoip.Reader
	excerpts *ai.ExcerptGenerator

	images     *imaging.Processor
	uploadsDir string
}

// Options configures optional handler integrations.
type Options struct {
	Geo        *geoip.Reader
	Excerpts   *ai.ExcerptGenerator
	UploadsDir string
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB, events *service.EventService, opts Options) *Handler {
	return &Handler{
		db:      db,
		queries: store.New(db),
		events:  events,
		markdown: goldmark.New(
			goldmark.WithRendererOptions(ghtml.WithHardWraps()),
		),
		sanitizer:  bluemonday.UGCPolicy(),
		geo:        opts.Geo,
		excerpts:   opts.Excerpts,
		images:     imaging.NewProcessor(),
		uploadsDir: opts.UploadsDir,
	}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// errorResponse is the flat error body used by every endpoint. Messages
// are fixed per condition; internal error text never reaches the client.
type errorResponse struct {
	Error string `json:"error"`
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, errorResponse{Error: message})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter) {
	WriteError(w, http.StatusForbidden, "Forbidden")
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}

// decodeJSON decodes a bounded JSON request body into dst. A response
// is written and false returned on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return false
	}
	// Reject trailing garbage after the JSON document.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		WriteBadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// notFoundOrInternal translates a store error into 404 for missing rows
// and 500 for everything else. The message is used for the 404 body.
func notFoundOrInternal(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, message)
		return
	}
	WriteInternalError(w)
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, StatusResponse{
		Status:  "ok",
		Version: version.Version,
	})
}
