// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package idp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// Timeout for verification requests
	verifyTimeout = 10 * time.Second
)

// RemoteVerifier validates bearer tokens against a remote identity
// provider's verification endpoint. The provider responds with the
// token's validity and the subject's identity.
type RemoteVerifier struct {
	verifyURL string
	secret    string // Service credential identifying this backend to the provider
	client    *http.Client
}

// NewRemoteVerifier creates a verifier for the given provider endpoint.
func NewRemoteVerifier(verifyURL, secret string) *RemoteVerifier {
	return &RemoteVerifier{
		verifyURL: verifyURL,
		secret:    secret,
		client:    &http.Client{Timeout: verifyTimeout},
	}
}

// verifyResponse represents the provider's verification API response.
type verifyResponse struct {
	Success    bool     `json:"success"`
	SubjectID  string   `json:"subject_id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify implements Verifier by POSTing the token to the provider.
func (v *RemoteVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	data := url.Values{}
	data.Set("secret", v.secret)
	data.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL,
		strings.NewReader(data.Encode()))
	if err != nil {
		return Identity{}, fmt.Errorf("building verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("verification request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("verification request returned status %d", resp.StatusCode)
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Identity{}, fmt.Errorf("decoding verification response: %w", err)
	}

	if !result.Success {
		for _, code := range result.ErrorCodes {
			if code == "token-expired" {
				return Identity{}, ErrExpiredToken
			}
		}
		return Identity{}, ErrInvalidToken
	}
	if result.SubjectID == "" || result.Email == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		SubjectID: result.SubjectID,
		Email:     result.Email,
		Name:      result.Name,
	}, nil
}
