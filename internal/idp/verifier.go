// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package idp verifies bearer credentials against an identity provider.
// Verification is stateless: every request re-checks the token's
// signature and expiry before any handler logic runs.
package idp

import (
	"context"
	"errors"
)

// Identity is the verified identity extracted from a valid credential.
type Identity struct {
	SubjectID string `json:"subject_id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
}

// Verification failure sentinels. Both map to 401 at the HTTP boundary;
// they are distinct so logs can tell a tampered token from a stale one.
var (
	ErrInvalidToken = errors.New("idp: invalid token")
	ErrExpiredToken = errors.New("idp: token expired")
)

// Verifier validates a bearer token and produces the verified identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}
