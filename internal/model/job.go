// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Job application statuses.
const (
	JobStatusApplied    = "applied"
	JobStatusScreening  = "screening"
	JobStatusInterview  = "interview"
	JobStatusOffer      = "offer"
	JobStatusRejected   = "rejected"
	JobStatusNoResponse = "no_response"
)

// jobStatuses is the closed set of accepted statuses.
var jobStatuses = map[string]struct{}{
	JobStatusApplied:    {},
	JobStatusScreening:  {},
	JobStatusInterview:  {},
	JobStatusOffer:      {},
	JobStatusRejected:   {},
	JobStatusNoResponse: {},
}

// IsValidJobStatus reports whether s is an accepted application status.
func IsValidJobStatus(s string) bool {
	_, ok := jobStatuses[s]
	return ok
}

// JobApplication is one tracked job application owned by a user.
type JobApplication struct {
	ID         string    `json:"id"`
	OwnerEmail string    `json:"owner_email"`
	Company    string    `json:"company"`
	RoleTitle  string    `json:"role_title"`
	Status     string    `json:"status"`
	AppliedAt  time.Time `json:"applied_at"`
	URL        string    `json:"url,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
