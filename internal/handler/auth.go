// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the keepsake application.
package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/keepsake-go/internal/middleware"
	"github.com/olegiv/keepsake-go/internal/model"
	"github.com/olegiv/keepsake-go/internal/render"
	"github.com/olegiv/keepsake-go/internal/service"
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	authService    *service.AuthService
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *AuthHandler {
	return &AuthHandler{
		authService:    service.NewAuthService(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// authFormData carries form state back into the login and register templates
// so a failed submission re-renders with the typed values and an inline error.
type authFormData struct {
	Username  string
	FirstName string
	LastName  string
	Error     string
}

// LoginForm renders the login page. Already-authenticated users are sent to
// the market instead.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID) > 0 {
		http.Redirect(w, r, RouteMarket, http.StatusSeeOther)
		return
	}

	h.renderAuth(w, r, "auth/login", "Login", authFormData{})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	if username == "" || password == "" {
		h.renderAuth(w, r, "auth/login", "Login", authFormData{
			Username: username,
			Error:    "Username and password are required.",
		})
		return
	}

	identity, err := h.authService.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			slog.Debug("login failed", "username", username, "remote_addr", r.RemoteAddr)
			h.renderAuth(w, r, "auth/login", "Login", authFormData{
				Username: username,
				Error:    "Invalid username or password.",
			})
			return
		}
		logAndInternalError(w, "login error", "error", err, "username", username)
		return
	}

	h.signIn(w, r, identity, "Welcome back, "+identity.Username+"!")
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID) > 0 {
		http.Redirect(w, r, RouteMarket, http.StatusSeeOther)
		return
	}

	h.renderAuth(w, r, "auth/register", "Register", authFormData{})
}

// Register handles the registration form submission. A successful
// registration signs the new user in immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteRegister) {
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	firstName := strings.TrimSpace(r.PostFormValue("first_name"))
	lastName := strings.TrimSpace(r.PostFormValue("last_name"))

	data := authFormData{Username: username, FirstName: firstName, LastName: lastName}

	if username == "" || password == "" {
		data.Error = "Username and password are required."
		h.renderAuth(w, r, "auth/register", "Register", data)
		return
	}

	identity, err := h.authService.Register(r.Context(), username, password, firstName, lastName)
	if err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			data.Error = "That username is already taken."
			h.renderAuth(w, r, "auth/register", "Register", data)
			return
		}
		logAndInternalError(w, "registration error", "error", err, "username", username)
		return
	}

	slog.Info("user registered", "user_id", identity.UserID, "username", identity.Username)
	h.signIn(w, r, identity, "Welcome, "+identity.Username+"!")
}

// Logout destroys the session and returns to the landing page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		logAndInternalError(w, "session destroy error", "error", err)
		return
	}
	flashSuccess(w, r, h.renderer, RouteRoot, "You have been logged out.")
}

// signIn establishes the session for an authenticated identity. The session
// token is regenerated to prevent session fixation.
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, identity model.Identity, welcome string) {
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, identity.UserID)

	slog.Info("user logged in", "user_id", identity.UserID, "username", identity.Username)
	flashSuccess(w, r, h.renderer, RouteMarket, welcome)
}

func (h *AuthHandler) renderAuth(w http.ResponseWriter, r *http.Request, name, title string, data authFormData) {
	err := h.renderer.Render(w, r, name, render.TemplateData{
		Title: title,
		Data:  data,
	})
	if err != nil {
		logAndInternalError(w, "render error", "error", err, "template", name)
	}
}
