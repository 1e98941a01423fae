// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "folio-sched-test-*.db")
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

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweepStaleApplications(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := store.New(db)

	old, err := q.CreateJobApplication(ctx, store.CreateJobApplicationParams{
		OwnerEmail: "alice@example.com", Company: "Silent Co", RoleTitle: "R",
		Status: model.JobStatusApplied, AppliedAt: time.Now().UTC().AddDate(0, 0, -60),
	})
	if err != nil {
		t.Fatalf("CreateJobApplication: %v", err)
	}
	fresh, err := q.CreateJobApplication(ctx, store.CreateJobApplicationParams{
		OwnerEmail: "alice@example.com", Company: "Fresh Co", RoleTitle: "R",
		Status: model.JobStatusApplied, AppliedAt: time.Now().UTC().AddDate(0, 0, -10),
	})
	if err != nil {
		t.Fatalf("CreateJobApplication: %v", err)
	}

	s := New(db, quietLogger(), 45, 365)
	if err := s.sweepStaleApplications(); err != nil {
		t.Fatalf("sweepStaleApplications: %v", err)
	}

	got, err := q.GetJobApplication(ctx, old.ID, "alice@example.com")
	if err != nil {
		t.Fatalf("GetJobApplication: %v", err)
	}
	if got.Status != model.JobStatusNoResponse {
		t.Errorf("old status = %q, want no_response", got.Status)
	}

	got, err = q.GetJobApplication(ctx, fresh.ID, "alice@example.com")
	if err != nil {
		t.Fatalf("GetJobApplication: %v", err)
	}
	if got.Status != model.JobStatusApplied {
		t.Errorf("fresh status = %q, want applied", got.Status)
	}

	// The sweep is recorded in the event log
	events, err := q.ListEvents(ctx, store.ListEventsParams{Category: model.EventCategoryJob})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("len(events) = %d, want 1", len(events))
	}
}

func TestPurgeExpiredContacts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := store.New(db)

	if _, err := q.CreateContactMessage(ctx, store.CreateContactMessageParams{
		Name: "Visitor", Email: "v@example.com", Message: "Hi",
	}); err != nil {
		t.Fatalf("CreateContactMessage: %v", err)
	}

	// Retention of a year leaves a fresh message alone
	s := New(db, quietLogger(), 45, 365)
	if err := s.purgeExpiredContacts(); err != nil {
		t.Fatalf("purgeExpiredContacts: %v", err)
	}
	msgs, err := q.ListContactMessages(ctx)
	if err != nil {
		t.Fatalf("ListContactMessages: %v", err)
	}
	if len(msgs) != 1 {
		t.Errorf("len(msgs) = %d, fresh message should survive", len(msgs))
	}

	// Zero-day retention removes it
	s = New(db, quietLogger(), 45, 0)
	if err := s.purgeExpiredContacts(); err != nil {
		t.Fatalf("purgeExpiredContacts: %v", err)
	}
	msgs, err = q.ListContactMessages(ctx)
	if err != nil {
		t.Fatalf("ListContactMessages: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("len(msgs) = %d, want 0 after purge", len(msgs))
	}
}

func TestSchedulerStartStop(t *testing.T) {
	db := testDB(t)

	s := New(db, quietLogger(), 45, 365)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := len(s.cron.Entries()); got != 2 {
		t.Errorf("registered jobs = %d, want 2", got)
	}
	s.Stop()
}

func TestSchedulerNoPurgeWhenRetentionDisabled(t *testing.T) {
	db := testDB(t)

	s := New(db, quietLogger(), 45, 0)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if got := len(s.cron.Entries()); got != 1 {
		t.Errorf("registered jobs = %d, want only the stale sweep", got)
	}
}
