// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/olegiv/keepsake-go/internal/middleware"
	"github.com/olegiv/keepsake-go/internal/model"
	"github.com/olegiv/keepsake-go/internal/render"
	"github.com/olegiv/keepsake-go/internal/store"
)

// UserHandler handles manager edits to user accounts.
type UserHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *sql.DB, renderer *render.Renderer) *UserHandler {
	return &UserHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// Update applies a partial edit to a user row. A field left out of the form
// keeps its current value; a field submitted empty is written as empty. The
// two cases are told apart by key presence in the parsed form, so edit forms
// only submit the fields they expose.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAccount) {
		return
	}

	userID, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil || userID <= 0 {
		flashError(w, r, h.renderer, RouteAccount, "Invalid user.")
		return
	}

	current, err := h.queries.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flashError(w, r, h.renderer, RouteAccount, "User not found.")
			return
		}
		logAndInternalError(w, "failed to get user", "error", err, "user_id", userID)
		return
	}

	params := store.UpdateUserParams{
		Password:  current.Password,
		FirstName: current.FirstName,
		LastName:  current.LastName,
		Role:      current.Role,
		UpdatedAt: time.Now(),
		ID:        current.ID,
	}

	if v, ok := formValue(r, "password"); ok && v != "" {
		params.Password = v
	}
	if v, ok := formValue(r, "first_name"); ok {
		params.FirstName = v
	}
	if v, ok := formValue(r, "last_name"); ok {
		params.LastName = v
	}
	if v, ok := formValue(r, "role"); ok {
		if !model.IsValidRole(v) {
			flashError(w, r, h.renderer, RouteAccount, "Invalid role.")
			return
		}
		params.Role = v
	}

	if _, err := h.queries.UpdateUser(r.Context(), params); err != nil {
		logAndInternalError(w, "failed to update user", "error", err, "user_id", userID)
		return
	}

	slog.Info("user updated",
		"user_id", userID,
		"role", params.Role,
		"edited_by", middleware.GetUserID(r),
	)
	flashSuccess(w, r, h.renderer, RouteAccount, "User "+current.Username+" updated.")
}

// formValue returns the form value for key and whether the key was submitted
// at all. An empty submitted value reports true.
func formValue(r *http.Request, key string) (string, bool) {
	vals, ok := r.PostForm[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}
