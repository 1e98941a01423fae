// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs: sweeping stale job
// applications and purging expired contact messages.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
)

// Scheduler handles scheduled maintenance tasks.
type Scheduler struct {
	db     *sql.DB
	cron   *cron.Cron
	logger *slog.Logger

	staleJobDays         int
	contactRetentionDays int
}

// New creates a new scheduler instance. staleJobDays controls when an
// application still in 'applied' is considered unanswered;
// contactRetentionDays bounds how long contact messages are kept
// (0 disables the purge).
func New(db *sql.DB, logger *slog.Logger, staleJobDays, contactRetentionDays int) *Scheduler {
	return &Scheduler{
		db:                   db,
		cron:                 cron.New(),
		logger:               logger,
		staleJobDays:         staleJobDays,
		contactRetentionDays: contactRetentionDays,
	}
}

// Start registers the jobs and begins the cron loop: the stale-job
// sweep runs hourly, the contact purge daily.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 * * * *", func() {
		if err := s.sweepStaleApplications(); err != nil {
			s.logger.Error("failed to sweep stale job applications", "error", err)
		}
	}); err != nil {
		return err
	}

	if s.contactRetentionDays > 0 {
		if _, err := s.cron.AddFunc("30 3 * * *", func() {
			if err := s.purgeExpiredContacts(); err != nil {
				s.logger.Error("failed to purge contact messages", "error", err)
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// sweepStaleApplications moves applications that sat in 'applied' past
// the configured window to 'no_response'.
func (s *Scheduler) sweepStaleApplications() error {
	ctx := context.Background()
	queries := store.New(s.db)

	cutoff := time.Now().UTC().AddDate(0, 0, -s.staleJobDays)
	changed, err := queries.MarkStaleApplications(ctx, cutoff)
	if err != nil {
		return err
	}
	if changed == 0 {
		return nil
	}

	s.logger.Info("marked stale job applications", "count", changed, "cutoff", cutoff)

	err = queries.CreateEvent(ctx, store.CreateEventParams{
		Level:    model.EventLevelInfo,
		Category: model.EventCategoryJob,
		Message:  "Stale job applications marked no_response by scheduler",
		Metadata: `{"count":` + itoa(changed) + `}`,
	})
	if err != nil {
		s.logger.Warn("failed to log stale-sweep event", "error", err)
	}
	return nil
}

// purgeExpiredContacts deletes contact messages past the retention window.
func (s *Scheduler) purgeExpiredContacts() error {
	ctx := context.Background()
	queries := store.New(s.db)

	cutoff := time.Now().UTC().AddDate(0, 0, -s.contactRetentionDays)
	removed, err := queries.PurgeContactMessagesBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if removed == 0 {
		return nil
	}

	s.logger.Info("purged expired contact messages", "count", removed, "cutoff", cutoff)

	err = queries.CreateEvent(ctx, store.CreateEventParams{
		Level:    model.EventLevelInfo,
		Category: model.EventCategoryContact,
		Message:  "Expired contact messages purged by scheduler",
		Metadata: `{"count":` + itoa(removed) + `}`,
	})
	if err != nil {
		s.logger.Warn("failed to log contact-purge event", "error", err)
	}
	return nil
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
