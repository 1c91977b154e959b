// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/olegiv/keepsake-go/internal/middleware"
	"github.com/olegiv/keepsake-go/internal/model"
	"github.com/olegiv/keepsake-go/internal/render"
	"github.com/olegiv/keepsake-go/internal/store"
)

// AccountHandler serves the signed-in user's account page.
type AccountHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(db *sql.DB, renderer *render.Renderer) *AccountHandler {
	return &AccountHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// AccountData is the view model for the account page. Users and AllItems are
// populated only for managers, whose account page doubles as the admin panel.
type AccountData struct {
	Claimed   []store.Item
	IsManager bool
	Users     []store.User
	AllItems  []store.Item
	Roles     []string
}

// Account renders the account page: the items the caller currently holds,
// plus user and item administration for managers.
func (h *AccountHandler) Account(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	claimed, err := h.queries.ListItemsByOwner(r.Context(), user.ID)
	if err != nil {
		logAndInternalError(w, "failed to list claimed items", "error", err, "user_id", user.ID)
		return
	}

	data := AccountData{
		Claimed:   claimed,
		IsManager: user.Role == model.RoleManager,
	}

	if data.IsManager {
		data.Roles = model.ValidRoles

		if data.Users, err = h.queries.ListUsers(r.Context()); err != nil {
			logAndInternalError(w, "failed to list users", "error", err)
			return
		}
		if data.AllItems, err = h.queries.ListItems(r.Context()); err != nil {
			logAndInternalError(w, "failed to list items", "error", err)
			return
		}
	}

	err = h.renderer.Render(w, r, "account", render.TemplateData{
		Title: "My Account",
		Data:  data,
		User:  user,
	})
	if err != nil {
		logAndInternalError(w, "render error", "error", err, "template", "account")
	}
}
