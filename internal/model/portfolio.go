// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// EducationEntry is one education row in a portfolio.
type EducationEntry struct {
	ID         string    `json:"id"`
	OwnerEmail string    `json:"owner_email"`
	School     string    `json:"school"`
	Degree     string    `json:"degree"`
	Field      string    `json:"field,omitempty"`
	StartYear  int       `json:"start_year"`
	EndYear    int       `json:"end_year,omitempty"` // 0 means ongoing
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ExperienceEntry is one work-experience row in a portfolio.
type ExperienceEntry struct {
	ID         string    `json:"id"`
	OwnerEmail string    `json:"owner_email"`
	Company    string    `json:"company"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary,omitempty"`
	StartDate  string    `json:"start_date"`         // YYYY-MM
	EndDate    string    `json:"end_date,omitempty"` // empty while current
	Current    bool      `json:"current"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Project is one project row in a portfolio.
type Project struct {
	ID          string    `json:"id"`
	OwnerEmail  string    `json:"owner_email"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	RepoURL     string    `json:"repo_url,omitempty"`
	ImagePath   string    `json:"image_path,omitempty"`
	ThumbPath   string    `json:"thumb_path,omitempty"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SkillCategory groups a named set of skills in a portfolio. Skill names
// are unique within the category (case-insensitive), insertion order
// preserved.
type SkillCategory struct {
	ID         string    `json:"id"`
	OwnerEmail string    `json:"owner_email"`
	Name       string    `json:"name"`
	Skills     []string  `json:"skills"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Portfolio is the aggregate view of one user's portfolio collections.
type Portfolio struct {
	OwnerEmail      string            `json:"owner_email"`
	Education       []EducationEntry  `json:"education"`
	Experience      []ExperienceEntry `json:"experience"`
	Projects        []Project         `json:"projects"`
	SkillCategories []SkillCategory   `json:"skill_categories"`
}

// DedupeSkills returns names with duplicates removed, comparing
// case-insensitively and keeping the first occurrence's spelling.
func DedupeSkills(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}
