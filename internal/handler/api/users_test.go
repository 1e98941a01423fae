// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/olegiv/folio-go/internal/model"
)

func TestMe(t *testing.T) {
	h, q := newTestHandler(t)
	alice := seedUser(t, q, "alice@example.com", model.RoleUser)

	w := doRequest(t, newTestRouter(h, &alice), http.MethodGet, "/users/me", nil)
	assertStatus(t, w, http.StatusOK)

	var user model.User
	decodeBody(t, w, &user)
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want alice@example.com", user.Email)
	}
}

func TestGetUserScoping(t *testing.T) {
	h, q := newTestHandler(t)
	alice := seedUser(t, q, "alice@example.com", model.RoleUser)
	seedUser(t, q, "bob@example.com", model.RoleUser)
	admin := seedUser(t, q, "admin@example.com", model.RoleAdmin)

	// Own record is fine
	w := doRequest(t, newTestRouter(h, &alice), http.MethodGet, "/users/alice@example.com", nil)
	assertStatus(t, w, http.StatusOK)

	// Someone else's record is forbidden for a regular user
	w = doRequest(t, newTestRouter(h, &alice), http.MethodGet, "/users/bob@example.com", nil)
	assertStatus(t, w, http.StatusForbidden)

	// Admin may read anyone
	w = doRequest(t, newTestRouter(h, &admin), http.MethodGet, "/users/bob@example.com", nil)
	assertStatus(t, w, http.StatusOK)

	w = doRequest(t, newTestRouter(h, &admin), http.MethodGet, "/users/nobody@example.com", nil)
	assertStatus(t, w, http.StatusNotFound)
	assertErrorMessage(t, w, "User not found")
}

func TestUpdateProfile(t *testing.T) {
	h, q := newTestHandler(t)
	alice := seedUser(t, q, "alice@example.com", model.RoleUser)
	router := newTestRouter(h, &alice)

	w := doRequest(t, router, http.MethodPut, "/users", map[string]any{"name": "Alice B."})
	assertStatus(t, w, http.StatusOK)

	var user model.User
	decodeBody(t, w, &user)
	if user.Name != "Alice B." {
		t.Errorf("name = %q, want Alice B.", user.Name)
	}

	w = doRequest(t, router, http.MethodPut, "/users", map[string]any{"name": ""})
	assertStatus(t, w, http.StatusBadRequest)
	assertErrorMessage(t, w, "Name is required")
}

func TestSwitchRoleSelf(t *testing.T) {
	h, q := newTestHandler(t)
	alice := seedUser(t, q, "alice@example.com", model.RoleUser)
	router := newTestRouter(h, &alice)

	w := doRequest(t, router, http.MethodPut, "/users/switch-role", map[string]any{})
	assertStatus(t, w, http.StatusOK)

	var user model.User
	decodeBody(t, w, &user)
	if user.Role != model.RoleAdmin {
		t.Errorf("role after toggle = %q, want admin", user.Role)
	}

	// Toggling again restores the original role
	w = doRequest(t, router, http.MethodPut, "/users/switch-role", map[string]any{})
	assertStatus(t, w, http.StatusOK)
	decodeBody(t, w, &user)
	if user.Role != model.RoleUser {
		t.Errorf("role after double toggle = %q, want user", user.Role)
	}
}

func TestSwitchRoleOnOthers(t *testing.T) {
	h, q := newTestHandler(t)
	alice := seedUser(t, q, "alice@example.com", model.RoleUser)
	seedUser(t, q, "bob@example.com", model.RoleUser)
	admin := seedUser(t, q, "admin@example.com", model.RoleAdmin)

	// A regular user may not switch someone else's role
	w := doRequest(t, newTestRouter(h, &alice), http.MethodPut, "/users/switch-role",
		map[string]any{"email": "bob@example.com"})
	assertStatus(t, w, http.StatusForbidden)

	bob, err := q.GetUserByEmail(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if bob.Role != model.RoleUser {
		t.Errorf("bob's role = %q, changed by forbidden request", bob.Role)
	}

	// Admin may
	w = doRequest(t, newTestRouter(h, &admin), http.MethodPut, "/users/switch-role",
		map[string]any{"email": "bob@example.com"})
	assertStatus(t, w, http.StatusOK)

	var user model.User
	decodeBody(t, w, &user)
	if user.Email != "bob@example.com" || user.Role != model.RoleAdmin {
		t.Errorf("got %+v, want bob promoted to admin", user)
	}

	w = doRequest(t, newTestRouter(h, &admin), http.MethodPut, "/users/switch-role",
		map[string]any{"email": "nobody@example.com"})
	assertStatus(t, w, http.StatusNotFound)
}

func TestListUsers(t *testing.T) {
	h, q := newTestHandler(t)
	admin := seedUser(t, q, "admin@example.com", model.RoleAdmin)
	seedUser(t, q, "alice@example.com", model.RoleUser)

	w := doRequest(t, newTestRouter(h, &admin), http.MethodGet, "/users", nil)
	assertStatus(t, w, http.StatusOK)

	var users []model.User
	decodeBody(t, w, &users)
	if len(users) != 2 {
		t.Errorf("len(users) = %d, want 2", len(users))
	}
}
