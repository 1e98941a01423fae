// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic and service layer functionality
// including event logging for audit trails.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
)

// EventService provides event logging functionality.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{
		queries: store.New(db),
	}
}

// LogEvent creates a new event log entry. An empty userEmail records an
// anonymous event.
func (s *EventService) LogEvent(ctx context.Context, level, category, message, userEmail string, metadata map[string]any) error {
	var nullEmail sql.NullString
	if userEmail != "" {
		nullEmail = sql.NullString{String: userEmail, Valid: true}
	}

	metadataJSON := "{}"
	if metadata != nil {
		jsonBytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserEmail: nullEmail,
		Metadata:  metadataJSON,
	})
	if err != nil {
		log.Printf("Failed to log event: %v", err)
		return err
	}

	return nil
}

// LogInfo logs an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message, userEmail string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, userEmail, metadata)
}

// LogWarning logs a warning-level event.
func (s *EventService) LogWarning(ctx context.Context, category, message, userEmail string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelWarning, category, message, userEmail, metadata)
}

// LogError logs an error-level event.
func (s *EventService) LogError(ctx context.Context, category, message, userEmail string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelError, category, message, userEmail, metadata)
}

// LogAuthEvent logs an authentication-related event.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message, userEmail string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAuth, message, userEmail, metadata)
}

// LogUserEvent logs a user-related event.
func (s *EventService) LogUserEvent(ctx context.Context, level, message, userEmail string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryUser, message, userEmail, metadata)
}

// LogPostEvent logs a post-related event.
func (s *EventService) LogPostEvent(ctx context.Context, level, message, userEmail string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryPost, message, userEmail, metadata)
}

// LogJobEvent logs a job-application event.
func (s *EventService) LogJobEvent(ctx context.Context, level, message, userEmail string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryJob, message, userEmail, metadata)
}

// LogContactEvent logs a contact-inbox event.
func (s *EventService) LogContactEvent(ctx context.Context, level, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryContact, message, "", metadata)
}

// LogSystemEvent logs a system-related event.
func (s *EventService) LogSystemEvent(ctx context.Context, level, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategorySystem, message, "", metadata)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	_, err := s.queries.PurgeEventsBefore(ctx, cutoff)
	return err
}
