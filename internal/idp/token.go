// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package idp

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// tokenPayload is the signed claim set carried by a locally issued token.
type tokenPayload struct {
	SubjectID string `json:"sub"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// TokenService issues and verifies HMAC-SHA256 signed bearer tokens.
// Token format: base64url(payload) + "." + base64url(signature).
// It implements Verifier and backs the built-in sign-in endpoint when
// no remote identity provider is configured.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service signing with the given secret.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for the given identity.
func (s *TokenService) Issue(identity Identity) (string, error) {
	now := s.now()
	payload := tokenPayload{
		SubjectID: identity.SubjectID,
		Email:     identity.Email,
		Name:      identity.Name,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding token payload: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(data)
	return encoded + "." + s.sign(encoded), nil
}

// Verify implements Verifier. It checks the signature and expiry of a
// locally issued token without any network or database access.
func (s *TokenService) Verify(_ context.Context, token string) (Identity, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok || encoded == "" || sig == "" {
		return Identity{}, ErrInvalidToken
	}

	expected := s.sign(encoded)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return Identity{}, ErrInvalidToken
	}

	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	var payload tokenPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Identity{}, ErrInvalidToken
	}
	if payload.SubjectID == "" || payload.Email == "" {
		return Identity{}, ErrInvalidToken
	}

	if s.now().Unix() >= payload.ExpiresAt {
		return Identity{}, ErrExpiredToken
	}

	return Identity{
		SubjectID: payload.SubjectID,
		Email:     payload.Email,
		Name:      payload.Name,
	}, nil
}

// sign computes the base64url HMAC-SHA256 signature of the encoded payload.
func (s *TokenService) sign(encoded string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
