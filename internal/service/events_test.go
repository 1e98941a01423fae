// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "folio-svc-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	f.Close()

	db, err := store.NewDB(f.Name())
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		os.Remove(f.Name())
	})
	return db
}

func TestLogEvent(t *testing.T) {
	db := testDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	if err := svc.LogAuthEvent(ctx, model.EventLevelWarning, "failed sign-in",
		"alice@example.com", map[string]any{"attempts": 3}); err != nil {
		t.Fatalf("LogAuthEvent: %v", err)
	}
	if err := svc.LogSystemEvent(ctx, model.EventLevelInfo, "started", nil); err != nil {
		t.Fatalf("LogSystemEvent: %v", err)
	}

	q := store.New(db)
	events, err := q.ListEvents(ctx, store.ListEventsParams{Category: model.EventCategoryAuth})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}

	e := events[0]
	if e.Level != model.EventLevelWarning {
		t.Errorf("level = %q, want warning", e.Level)
	}
	if !e.UserEmail.Valid || e.UserEmail.String != "alice@example.com" {
		t.Errorf("user_email = %+v, want alice@example.com", e.UserEmail)
	}
	if e.Metadata == "" || e.Metadata == "{}" {
		t.Errorf("metadata = %q, want the attempts field serialized", e.Metadata)
	}

	// System events carry no user; the column is NULL, not empty string
	system, err := q.ListEvents(ctx, store.ListEventsParams{Category: model.EventCategorySystem})
	if err != nil {
		t.Fatalf("ListEvents(system): %v", err)
	}
	if len(system) != 1 {
		t.Fatalf("len(system) = %d, want 1", len(system))
	}
	if system[0].UserEmail.Valid {
		t.Errorf("system event user_email = %+v, want NULL", system[0].UserEmail)
	}
}

func TestDeleteOldEvents(t *testing.T) {
	db := testDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	if err := svc.LogSystemEvent(ctx, model.EventLevelInfo, "recent", nil); err != nil {
		t.Fatalf("LogSystemEvent: %v", err)
	}

	// Nothing is older than a day
	if err := svc.DeleteOldEvents(ctx, 24*time.Hour); err != nil {
		t.Fatalf("DeleteOldEvents: %v", err)
	}

	events, err := store.New(db).ListEvents(ctx, store.ListEventsParams{})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("len(events) = %d, recent event should survive", len(events))
	}
}
