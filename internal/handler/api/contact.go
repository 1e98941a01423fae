// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mileusna/useragent"

	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
)

const (
	maxContactNameLen    = 200
	maxContactMessageLen = 5000
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// SubmitContact stores a public contact submission. The client's
// browser, OS and country are captured for the admin inbox; message
// content is stored verbatim and only ever returned to admins.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		WriteBadRequest(w, "Name, email and message are required")
		return
	}
	if len(req.Name) > maxContactNameLen || len(req.Message) > maxContactMessageLen {
		WriteBadRequest(w, "Message too long")
		return
	}

	ua := useragent.Parse(r.UserAgent())
	browser, osName := ua.Name, ua.OS
	if browser == "" {
		browser = "Unknown"
	}
	if osName == "" {
		osName = "Unknown"
	}

	country := ""
	if h.geo != nil {
		country = h.geo.Country(clientIP(r))
	}

	msg, err := h.queries.CreateContactMessage(r.Context(), store.CreateContactMessageParams{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
		Browser: browser,
		OS:      osName,
		Country: country,
	})
	if err != nil {
		slog.Error("storing contact message", "error", err)
		WriteInternalError(w)
		return
	}

	_ = h.events.LogContactEvent(r.Context(), model.EventLevelInfo,
		"Contact message received", map[string]any{"id": msg.ID, "country": country})

	WriteJSON(w, http.StatusCreated, map[string]any{"id": msg.ID})
}

// ListContactMessages returns the contact inbox. Admin only.
func (h *Handler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.queries.ListContactMessages(r.Context())
	if err != nil {
		slog.Error("listing contact messages", "error", err)
		WriteInternalError(w)
		return
	}
	WriteJSON(w, http.StatusOK, messages)
}

// DeleteContactMessage removes one inbox entry. Admin only.
func (h *Handler) DeleteContactMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid message ID")
		return
	}

	if err := h.queries.DeleteContactMessage(r.Context(), id); err != nil {
		notFoundOrInternal(w, err, "Contact message not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// eventResponse flattens a stored event for JSON output.
type eventResponse struct {
	ID        int64           `json:"id"`
	Level     string          `json:"level"`
	Category  string          `json:"category"`
	Message   string          `json:"message"`
	UserEmail string          `json:"user_email,omitempty"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListEvents returns the audit event log. Admin only. Supports
// ?level=, ?category= and ?limit=.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			WriteBadRequest(w, "Invalid limit")
			return
		}
		limit = n
	}

	events, err := h.queries.ListEvents(r.Context(), store.ListEventsParams{
		Level:    r.URL.Query().Get("level"),
		Category: r.URL.Query().Get("category"),
		Limit:    limit,
	})
	if err != nil {
		slog.Error("listing events", "error", err)
		WriteInternalError(w)
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			UserEmail: e.UserEmail.String,
			Metadata:  json.RawMessage(e.Metadata),
			CreatedAt: e.CreatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, out)
}

// clientIP extracts the client address for GeoIP lookup, preferring
// reverse-proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if idx := strings.IndexByte(ip, ','); idx != -1 {
			ip = ip[:idx]
		}
		return strings.TrimSpace(ip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
