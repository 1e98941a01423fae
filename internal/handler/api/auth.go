// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/folio-go/internal/auth"
	"github.com/olegiv/folio-go/internal/idp"
	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
)

// AuthHandler serves token issuance for the built-in identity provider.
type AuthHandler struct {
	handler *Handler
	tokens  *idp.TokenService
}

// NewAuthHandler creates an AuthHandler issuing tokens with the given service.
func NewAuthHandler(h *Handler, tokens *idp.TokenService) *AuthHandler {
	return &AuthHandler{handler: h, tokens: tokens}
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// IssueToken exchanges a local credential for a signed bearer token.
// Invalid email and invalid password produce the same response so the
// endpoint cannot be used to enumerate accounts.
func (ah *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteBadRequest(w, "Email and password are required")
		return
	}

	cred, err := ah.handler.queries.GetCredentialByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("loading credential", "error", err)
			WriteInternalError(w)
			return
		}
		// Burn time comparably to a real check before rejecting.
		_, _ = auth.CheckPassword(req.Password, "")
		ah.rejectSignIn(w, r, req.Email)
		return
	}

	ok, err := auth.CheckPassword(req.Password, cred.PasswordHash)
	if err != nil || !ok {
		ah.rejectSignIn(w, r, req.Email)
		return
	}

	// Provision the user record on first successful sign-in. The
	// authorization gate only resolves records, it never creates them.
	if _, err := ah.handler.queries.GetUserByEmail(r.Context(), cred.Email); errors.Is(err, sql.ErrNoRows) {
		user, err := ah.handler.queries.CreateUser(r.Context(), store.CreateUserParams{
			Email:     cred.Email,
			SubjectID: cred.SubjectID,
			Name:      cred.Name,
			Role:      model.RoleUser,
		})
		if err != nil {
			slog.Error("provisioning user", "email", cred.Email, "error", err)
			WriteInternalError(w)
			return
		}
		slog.Info("provisioned user on first sign-in", "email", user.Email)
	} else if err != nil {
		slog.Error("resolving user record", "email", cred.Email, "error", err)
		WriteInternalError(w)
		return
	}

	token, err := ah.tokens.Issue(idp.Identity{
		SubjectID: cred.SubjectID,
		Email:     cred.Email,
		Name:      cred.Name,
	})
	if err != nil {
		slog.Error("issuing token", "error", err)
		WriteInternalError(w)
		return
	}

	_ = ah.handler.events.LogAuthEvent(r.Context(), model.EventLevelInfo,
		"Token issued", cred.Email, nil)

	WriteJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(ah.tokens.TTL() / time.Second),
	})
}

// rejectSignIn answers a failed sign-in attempt. The body is identical
// for unknown accounts and wrong passwords.
func (ah *AuthHandler) rejectSignIn(w http.ResponseWriter, r *http.Request, email string) {
	slog.Warn("sign-in rejected", "email", email, "remote_addr", r.RemoteAddr)
	_ = ah.handler.events.LogAuthEvent(r.Context(), model.EventLevelWarning,
		"Sign-in rejected", email, map[string]any{"remote_addr": r.RemoteAddr})
	WriteError(w, http.StatusUnauthorized, "Invalid credentials")
}

// whoAmIResponse describes the authenticated caller.
type whoAmIResponse struct {
	Identity idp.Identity `json:"identity"`
	User     model.User   `json:"user"`
}

// WhoAmI returns the verified identity and resolved user record for the
// current request.
func (h *Handler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	user := middleware.GetUser(r)
	if identity == nil || user == nil {
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	WriteJSON(w, http.StatusOK, whoAmIResponse{Identity: *identity, User: *user})
}
