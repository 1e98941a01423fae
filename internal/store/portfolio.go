// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/folio-go/internal/model"
)

// Every portfolio mutation below is scoped by owner_email in the WHERE
// clause. A crafted id belonging to another owner matches zero rows and
// surfaces as sql.ErrNoRows.

// ---- Education ----

// CreateEducationParams holds fields for one education entry.
type CreateEducationParams struct {
	OwnerEmail string
	School     string
	Degree     string
	Field      string
	StartYear  int
	EndYear    int
	Position   int
}

// CreateEducation inserts an education entry with a generated id.
func (q *Queries) CreateEducation(ctx context.Context, p CreateEducationParams) (model.EducationEntry, error) {
	now := time.Now().UTC()
	e := model.EducationEntry{
		ID: uuid.NewString(), OwnerEmail: p.OwnerEmail,
		School: p.School, Degree: p.Degree, Field: p.Field,
		StartYear: p.StartYear, EndYear: p.EndYear, Position: p.Position,
		CreatedAt: now, UpdatedAt: now,
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO education (id, owner_email, school, degree, field, start_year, end_year, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerEmail, e.School, e.Degree, e.Field, e.StartYear, e.EndYear, e.Position, now, now)
	if err != nil {
		return model.EducationEntry{}, err
	}
	return e, nil
}

// UpdateEducationParams holds fields for updating one education entry.
type UpdateEducationParams struct {
	ID         string
	OwnerEmail string
	School     string
	Degree     string
	Field      string
	StartYear  int
	EndYear    int
	Position   int
}

// UpdateEducation updates an education entry in place, scoped to its owner.
func (q *Queries) UpdateEducation(ctx context.Context, p UpdateEducationParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE education SET school = ?, degree = ?, field = ?, start_year = ?, end_year = ?, position = ?, updated_at = ?
		 WHERE id = ? AND owner_email = ?`,
		p.School, p.Degree, p.Field, p.StartYear, p.EndYear, p.Position, time.Now().UTC(), p.ID, p.OwnerEmail)
	return rowsAffected(res, err)
}

// DeleteEducation removes an education entry, scoped to its owner.
func (q *Queries) DeleteEducation(ctx context.Context, id, ownerEmail string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM education WHERE id = ? AND owner_email = ?`, id, ownerEmail)
	return rowsAffected(res, err)
}

// ListEducation returns the owner's education entries in display order.
func (q *Queries) ListEducation(ctx context.Context, ownerEmail string) ([]model.EducationEntry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, owner_email, school, degree, field, start_year, end_year, position, created_at, updated_at
		 FROM education WHERE owner_email = ? ORDER BY position, created_at`, ownerEmail)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := make([]model.EducationEntry, 0)
	for rows.Next() {
		var e model.EducationEntry
		if err := rows.Scan(&e.ID, &e.OwnerEmail, &e.School, &e.Degree, &e.Field,
			&e.StartYear, &e.EndYear, &e.Position, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ---- Experience ----

// CreateExperienceParams holds fields for one experience entry.
type CreateExperienceParams struct {
	OwnerEmail string
	Company    string
	Title      string
	Summary    string
	StartDate  string
	EndDate    string
	Current    bool
	Position   int
}

// CreateExperience inserts an experience entry with a generated id.
func (q *Queries) CreateExperience(ctx context.Context, p CreateExperienceParams) (model.ExperienceEntry, error) {
	now := time.Now().UTC()
	e := model.ExperienceEntry{
		ID: uuid.NewString(), OwnerEmail: p.OwnerEmail,
		Company: p.Company, Title: p.Title, Summary: p.Summary,
		StartDate: p.StartDate, EndDate: p.EndDate, Current: p.Current,
		Position: p.Position, CreatedAt: now, UpdatedAt: now,
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO experience (id, owner_email, company, title, summary, start_date, end_date, current, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerEmail, e.Company, e.Title, e.Summary, e.StartDate, e.EndDate, boolToInt(e.Current), e.Position, now, now)
	if err != nil {
		return model.ExperienceEntry{}, err
	}
	return e, nil
}

// UpdateExperienceParams holds fields for updating one experience entry.
type UpdateExperienceParams struct {
	ID         string
	OwnerEmail string
	Company    string
	Title      string
	Summary    string
	StartDate  string
	EndDate    string
	Current    bool
	Position   int
}

// UpdateExperience updates an experience entry in place, scoped to its owner.
func (q *Queries) UpdateExperience(ctx context.Context, p UpdateExperienceParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE experience SET company = ?, title = ?, summary = ?, start_date = ?, end_date = ?, current = ?, position = ?, updated_at = ?
		 WHERE id = ? AND owner_email = ?`,
		p.Company, p.Title, p.Summary, p.StartDate, p.EndDate, boolToInt(p.Current), p.Position, time.Now().UTC(), p.ID, p.OwnerEmail)
	return rowsAffected(res, err)
}

// DeleteExperience removes an experience entry, scoped to its owner.
func (q *Queries) DeleteExperience(ctx context.Context, id, ownerEmail string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM experience WHERE id = ? AND owner_email = ?`, id, ownerEmail)
	return rowsAffected(res, err)
}

// ListExperience returns the owner's experience entries in display order.
func (q *Queries) ListExperience(ctx context.Context, ownerEmail string) ([]model.ExperienceEntry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, owner_email, company, title, summary, start_date, end_date, current, position, created_at, updated_at
		 FROM experience WHERE owner_email = ? ORDER BY position, created_at`, ownerEmail)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := make([]model.ExperienceEntry, 0)
	for rows.Next() {
		var e model.ExperienceEntry
		var current int
		if err := rows.Scan(&e.ID, &e.OwnerEmail, &e.Company, &e.Title, &e.Summary,
			&e.StartDate, &e.EndDate, &current, &e.Position, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Current = current != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ---- Projects ----

// CreateProjectParams holds fields for one project.
type CreateProjectParams struct {
	OwnerEmail  string
	Name        string
	Description string
	URL         string
	RepoURL     string
	Position    int
}

// CreateProject inserts a project with a generated id.
func (q *Queries) CreateProject(ctx context.Context, p CreateProjectParams) (model.Project, error) {
	now := time.Now().UTC()
	pr := model.Project{
		ID: uuid.NewString(), OwnerEmail: p.OwnerEmail,
		Name: p.Name, Description: p.Description, URL: p.URL, RepoURL: p.RepoURL,
		Position: p.Position, CreatedAt: now, UpdatedAt: now,
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO projects (id, owner_email, name, description, url, repo_url, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pr.ID, pr.OwnerEmail, pr.Name, pr.Description, pr.URL, pr.RepoURL, pr.Position, now, now)
	if err != nil {
		return model.Project{}, err
	}
	return pr, nil
}

// GetProject returns one project, scoped to its owner.
func (q *Queries) GetProject(ctx context.Context, id, ownerEmail string) (model.Project, error) {
	var p model.Project
	err := q.db.QueryRowContext(ctx,
		`SELECT id, owner_email, name, description, url, repo_url, image_path, thumb_path, position, created_at, updated_at
		 FROM projects WHERE id = ? AND owner_email = ?`, id, ownerEmail).
		Scan(&p.ID, &p.OwnerEmail, &p.Name, &p.Description, &p.URL, &p.RepoURL,
			&p.ImagePath, &p.ThumbPath, &p.Position, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// UpdateProjectParams holds fields for updating one project.
type UpdateProjectParams struct {
	ID          string
	OwnerEmail  string
	Name        string
	Description string
	URL         string
	RepoURL     string
	Position    int
}

// UpdateProject updates a project in place, scoped to its owner.
func (q *Queries) UpdateProject(ctx context.Context, p UpdateProjectParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?, url = ?, repo_url = ?, position = ?, updated_at = ?
		 WHERE id = ? AND owner_email = ?`,
		p.Name, p.Description, p.URL, p.RepoURL, p.Position, time.Now().UTC(), p.ID, p.OwnerEmail)
	return rowsAffected(res, err)
}

// SetProjectImage records the stored image and thumbnail paths for a project.
func (q *Queries) SetProjectImage(ctx context.Context, id, ownerEmail, imagePath, thumbPath string) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE projects SET image_path = ?, thumb_path = ?, updated_at = ?
		 WHERE id = ? AND owner_email = ?`,
		imagePath, thumbPath, time.Now().UTC(), id, ownerEmail)
	return rowsAffected(res, err)
}

// DeleteProject removes a project, scoped to its owner.
func (q *Queries) DeleteProject(ctx context.Context, id, ownerEmail string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ? AND owner_email = ?`, id, ownerEmail)
	return rowsAffected(res, err)
}

// ListProjects returns the owner's projects in display order.
func (q *Queries) ListProjects(ctx context.Context, ownerEmail string) ([]model.Project, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, owner_email, name, description, url, repo_url, image_path, thumb_path, position, created_at, updated_at
		 FROM projects WHERE owner_email = ? ORDER BY position, created_at`, ownerEmail)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	projects := make([]model.Project, 0)
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.OwnerEmail, &p.Name, &p.Description, &p.URL, &p.RepoURL,
			&p.ImagePath, &p.ThumbPath, &p.Position, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ---- Skill categories ----

// CreateSkillCategoryParams holds fields for one skill category.
type CreateSkillCategoryParams struct {
	OwnerEmail string
	Name       string
	Skills     []string
	Position   int
}

// CreateSkillCategory inserts a skill category with a generated id.
// The skill set is stored as a JSON array in a single row so updates
// replace it atomically.
func (q *Queries) CreateSkillCategory(ctx context.Context, p CreateSkillCategoryParams) (model.SkillCategory, error) {
	now := time.Now().UTC()
	skills := model.DedupeSkills(p.Skills)
	encoded, err := json.Marshal(skills)
	if err != nil {
		return model.SkillCategory{}, err
	}
	c := model.SkillCategory{
		ID: uuid.NewString(), OwnerEmail: p.OwnerEmail, Name: p.Name,
		Skills: skills, Position: p.Position, CreatedAt: now, UpdatedAt: now,
	}
	_, err = q.db.ExecContext(ctx,
		`INSERT INTO skill_categories (id, owner_email, name, skills, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerEmail, c.Name, string(encoded), c.Position, now, now)
	if err != nil {
		return model.SkillCategory{}, err
	}
	return c, nil
}

// UpdateSkillCategoryParams holds fields for updating one skill category.
type UpdateSkillCategoryParams struct {
	ID         string
	OwnerEmail string
	Name       string
	Skills     []string
	Position   int
}

// UpdateSkillCategory replaces the category name and skill set in one
// single-row update, scoped to its owner.
func (q *Queries) UpdateSkillCategory(ctx context.Context, p UpdateSkillCategoryParams) error {
	encoded, err := json.Marshal(model.DedupeSkills(p.Skills))
	if err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx,
		`UPDATE skill_categories SET name = ?, skills = ?, position = ?, updated_at = ?
		 WHERE id = ? AND owner_email = ?`,
		p.Name, string(encoded), p.Position, time.Now().UTC(), p.ID, p.OwnerEmail)
	return rowsAffected(res, err)
}

// DeleteSkillCategory removes a skill category, scoped to its owner.
func (q *Queries) DeleteSkillCategory(ctx context.Context, id, ownerEmail string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM skill_categories WHERE id = ? AND owner_email = ?`, id, ownerEmail)
	return rowsAffected(res, err)
}

// ListSkillCategories returns the owner's skill categories in display order.
func (q *Queries) ListSkillCategories(ctx context.Context, ownerEmail string) ([]model.SkillCategory, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, owner_email, name, skills, position, created_at, updated_at
		 FROM skill_categories WHERE owner_email = ? ORDER BY position, created_at`, ownerEmail)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	categories := make([]model.SkillCategory, 0)
	for rows.Next() {
		var c model.SkillCategory
		var encoded string
		if err := rows.Scan(&c.ID, &c.OwnerEmail, &c.Name, &encoded,
			&c.Position, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(encoded), &c.Skills); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetPortfolio assembles the aggregate portfolio view for one owner.
func (q *Queries) GetPortfolio(ctx context.Context, ownerEmail string) (model.Portfolio, error) {
	education, err := q.ListEducation(ctx, ownerEmail)
	if err != nil {
		return model.Portfolio{}, err
	}
	experience, err := q.ListExperience(ctx, ownerEmail)
	if err != nil {
		return model.Portfolio{}, err
	}
	projects, err := q.ListProjects(ctx, ownerEmail)
	if err != nil {
		return model.Portfolio{}, err
	}
	skills, err := q.ListSkillCategories(ctx, ownerEmail)
	if err != nil {
		return model.Portfolio{}, err
	}
	return model.Portfolio{
		OwnerEmail:      ownerEmail,
		Education:       education,
		Experience:      experience,
		Projects:        projects,
		SkillCategories: skills,
	}, nil
}

// boolToInt converts a bool to the 0/1 integer SQLite stores.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
