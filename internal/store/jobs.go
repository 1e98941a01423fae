// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/folio-go/internal/model"
)

const jobColumns = `id, owner_email, company, role_title, status, applied_at, url, notes, created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (model.JobApplication, error) {
	var j model.JobApplication
	err := row.Scan(&j.ID, &j.OwnerEmail, &j.Company, &j.RoleTitle, &j.Status,
		&j.AppliedAt, &j.URL, &j.Notes, &j.CreatedAt, &j.UpdatedAt)
	return j, err
}

// CreateJobApplicationParams holds fields for one job application.
type CreateJobApplicationParams struct {
	OwnerEmail string
	Company    string
	RoleTitle  string
	Status     string
	AppliedAt  time.Time
	URL        string
	Notes      string
}

// CreateJobApplication inserts a job application with a generated id.
func (q *Queries) CreateJobApplication(ctx context.Context, p CreateJobApplicationParams) (model.JobApplication, error) {
	now := time.Now().UTC()
	j := model.JobApplication{
		ID: uuid.NewString(), OwnerEmail: p.OwnerEmail,
		Company: p.Company, RoleTitle: p.RoleTitle, Status: p.Status,
		AppliedAt: p.AppliedAt, URL: p.URL, Notes: p.Notes,
		CreatedAt: now, UpdatedAt: now,
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO job_applications (id, owner_email, company, role_title, status, applied_at, url, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.OwnerEmail, j.Company, j.RoleTitle, j.Status, j.AppliedAt, j.URL, j.Notes, now, now)
	if err != nil {
		return model.JobApplication{}, err
	}
	return j, nil
}

// GetJobApplication returns one application, scoped to its owner.
func (q *Queries) GetJobApplication(ctx context.Context, id, ownerEmail string) (model.JobApplication, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM job_applications WHERE id = ? AND owner_email = ?`,
		id, ownerEmail)
	return scanJob(row)
}

// UpdateJobApplicationParams holds fields for updating one application.
type UpdateJobApplicationParams struct {
	ID         string
	OwnerEmail string
	Company    string
	RoleTitle  string
	Status     string
	AppliedAt  time.Time
	URL        string
	Notes      string
}

// UpdateJobApplication updates an application in place, scoped to its owner.
func (q *Queries) UpdateJobApplication(ctx context.Context, p UpdateJobApplicationParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE job_applications SET company = ?, role_title = ?, status = ?, applied_at = ?, url = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND owner_email = ?`,
		p.Company, p.RoleTitle, p.Status, p.AppliedAt, p.URL, p.Notes, time.Now().UTC(), p.ID, p.OwnerEmail)
	return rowsAffected(res, err)
}

// SetJobStatus changes one application's status, scoped to its owner.
func (q *Queries) SetJobStatus(ctx context.Context, id, ownerEmail, status string) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE job_applications SET status = ?, updated_at = ? WHERE id = ? AND owner_email = ?`,
		status, time.Now().UTC(), id, ownerEmail)
	return rowsAffected(res, err)
}

// DeleteJobApplication removes an application, scoped to its owner.
func (q *Queries) DeleteJobApplication(ctx context.Context, id, ownerEmail string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM job_applications WHERE id = ? AND owner_email = ?`, id, ownerEmail)
	return rowsAffected(res, err)
}

// ListJobApplications returns the owner's applications, optionally
// filtered by status, most recently applied first.
func (q *Queries) ListJobApplications(ctx context.Context, ownerEmail, status string) ([]model.JobApplication, error) {
	query := `SELECT ` + jobColumns + ` FROM job_applications WHERE owner_email = ?`
	args := []any{ownerEmail}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY applied_at DESC, created_at DESC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	jobs := make([]model.JobApplication, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// MarkStaleApplications moves applications still in 'applied' whose
// applied_at is older than the cutoff to 'no_response'. Returns the
// number of rows changed.
func (q *Queries) MarkStaleApplications(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE job_applications SET status = ?, updated_at = ?
		 WHERE status = ? AND applied_at < ?`,
		model.JobStatusNoResponse, time.Now().UTC(), model.JobStatusApplied, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
