// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package idp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteVerifierSuccess(t *testing.T) {
	var gotSecret, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotSecret = r.FormValue("secret")
		gotToken = r.FormValue("token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"subject_id":"sub-9","email":"alice@example.com","name":"Alice"}`))
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL, "service-secret")
	identity, err := v.Verify(context.Background(), "the-token")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if gotSecret != "service-secret" {
		t.Errorf("secret = %q, want %q", gotSecret, "service-secret")
	}
	if gotToken != "the-token" {
		t.Errorf("token = %q, want %q", gotToken, "the-token")
	}
	if identity.Email != "alice@example.com" || identity.SubjectID != "sub-9" {
		t.Errorf("unexpected identity: %+v", identity)
	}
}

func TestRemoteVerifierFailure(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		wantErr error
	}{
		{"rejected", `{"success":false,"error-codes":["invalid-token"]}`, http.StatusOK, ErrInvalidToken},
		{"expired", `{"success":false,"error-codes":["token-expired"]}`, http.StatusOK, ErrExpiredToken},
		{"missing identity", `{"success":true}`, http.StatusOK, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			v := NewRemoteVerifier(srv.URL, "secret")
			_, err := v.Verify(context.Background(), "tok")
			if err != tt.wantErr {
				t.Errorf("Verify error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRemoteVerifierProviderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL, "secret")
	if _, err := v.Verify(context.Background(), "tok"); err == nil {
		t.Error("Verify should fail when the provider returns 500")
	}
}
