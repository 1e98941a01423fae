// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/folio-go/internal/idp"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/service"
	"github.com/olegiv/folio-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped auth data.
const (
	ContextKeyUser        ContextKey = "user"
	ContextKeyIdentity    ContextKey = "identity"
	ContextKeyRequestPath ContextKey = "request_path"
)

// writeAuthError writes the flat JSON error body used across the API.
// Message text is fixed per status so verifier or database internals
// never reach the client.
func writeAuthError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// Authenticate creates middleware that verifies the bearer token,
// resolves the caller's user record, and stores both the verified
// identity and the user in the request context. Requests without a
// valid token are rejected with 401 before the wrapped handler runs.
//
// The gate never creates user records: a verified identity with no
// user record is rejected with 403. Sign-in is where records are
// provisioned; the identity provider is the source of truth for who
// the caller is, the users table for what they may do.
func Authenticate(verifier idp.Verifier, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, idp.ErrExpiredToken), errors.Is(err, idp.ErrInvalidToken):
					writeAuthError(w, http.StatusUnauthorized, "Authentication required")
				default:
					slog.Error("identity verification failed", "error", err)
					writeAuthError(w, http.StatusInternalServerError, "Internal server error")
				}
				return
			}

			user, err := queries.GetUserByEmail(r.Context(), identity.Email)
			if errors.Is(err, sql.ErrNoRows) {
				// A valid token for an email with no user record means
				// the caller never completed sign-in. Authentication
				// succeeded but there is nothing to authorize against.
				slog.Warn("no user record for verified identity", "email", identity.Email)
				writeAuthError(w, http.StatusForbidden, "Forbidden")
				return
			}
			if err != nil {
				slog.Error("resolving user record", "email", identity.Email, "error", err)
				writeAuthError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			touchLastSeen(queries, user.Email)

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, identity)
			ctx = context.WithValue(ctx, ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// touchLastSeen records request activity in a background goroutine so
// the write never delays the request.
func touchLastSeen(queries *store.Queries, email string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queries.TouchUserLastSeen(ctx, email)
	}()
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetIdentity retrieves the verified identity from the request context.
// Returns nil if no identity is in context.
func GetIdentity(r *http.Request) *idp.Identity {
	identity, ok := r.Context().Value(ContextKeyIdentity).(idp.Identity)
	if !ok {
		return nil
	}
	return &identity
}

// GetUserEmail returns the current user's email from context, or empty string if not found.
func GetUserEmail(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.Email
	}
	return ""
}

// RequireRole creates middleware that admits only callers whose role is
// in the given set. The set is validated when the route is registered:
// an empty set or an unknown role is a programming error and panics at
// startup rather than shipping a route nobody can call correctly.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return RequireRoleWithEventLog(nil, roles...)
}

// RequireRoleWithEventLog is RequireRole with denied attempts recorded
// to the event log when eventService is provided.
func RequireRoleWithEventLog(eventService *service.EventService, roles ...model.Role) func(http.Handler) http.Handler {
	if len(roles) == 0 {
		panic("middleware: RequireRole called with no roles")
	}
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, role := range roles {
		if !role.Valid() {
			panic(fmt.Sprintf("middleware: RequireRole called with unknown role %q", role))
		}
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if _, ok := allowed[user.Role]; !ok {
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"email", user.Email,
					"user_role", user.Role,
					"remote_addr", r.RemoteAddr,
				)

				if eventService != nil {
					_ = eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
						"Access denied: insufficient role", user.Email, map[string]any{
							"method":    r.Method,
							"path":      r.URL.Path,
							"user_role": string(user.Role),
						})
				}

				writeAuthError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates middleware that requires admin role.
// Shorthand for RequireRole(model.RoleAdmin).
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in error logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
