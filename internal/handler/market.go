// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/keepsake-go/internal/middleware"
	"github.com/olegiv/keepsake-go/internal/model"
	"github.com/olegiv/keepsake-go/internal/render"
	"github.com/olegiv/keepsake-go/internal/service"
	"github.com/olegiv/keepsake-go/internal/store"
)

// MarketHandler serves the item catalog and the claim/unclaim actions.
type MarketHandler struct {
	queries      *store.Queries
	claimService *service.ClaimService
	renderer     *render.Renderer
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(db *sql.DB, renderer *render.Renderer) *MarketHandler {
	return &MarketHandler{
		queries:      store.New(db),
		claimService: service.NewClaimService(db),
		renderer:     renderer,
	}
}

// MarketItem pairs a catalog row with display data resolved from its owner.
type MarketItem struct {
	store.Item
	OwnerName string
	Mine      bool
}

// MarketData is the view model for the market page.
type MarketData struct {
	Items      []MarketItem
	Categories []string
	Filter     service.CatalogFilter
}

// Market renders the item catalog. The text query, category checkboxes and
// the unclaimed-only toggle all narrow the same listing.
func (h *MarketHandler) Market(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	filter := service.CatalogFilter{
		Query:         strings.TrimSpace(r.URL.Query().Get("q")),
		Categories:    r.URL.Query()["categories"],
		UnclaimedOnly: r.URL.Query().Get("showUnclaimed") != "",
	}

	items, err := h.queries.ListItems(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list items", "error", err)
		return
	}

	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list users", "error", err)
		return
	}
	ownerNames := make(map[int64]string, len(users))
	for _, u := range users {
		ownerNames[u.ID] = u.FullName()
	}

	// Category options come from the unfiltered catalog so narrowing the
	// listing never hides the other checkboxes.
	data := MarketData{
		Categories: service.Categories(items),
		Filter:     filter,
	}
	for _, item := range service.FilterItems(items, filter) {
		mi := MarketItem{Item: item}
		if item.UserID.Valid {
			mi.OwnerName = ownerNames[item.UserID.Int64]
			if user != nil {
				mi.Mine = item.ClaimedBy(user.ID)
			}
		}
		data.Items = append(data.Items, mi)
	}

	err = h.renderer.Render(w, r, "market", render.TemplateData{
		Title: "Market",
		Data:  data,
		User:  user,
	})
	if err != nil {
		logAndInternalError(w, "render error", "error", err, "template", "market")
	}
}

// Claim handles a claim attempt on an item. Losing a race to another user is
// an expected outcome and reported back as a flash, not an error page.
func (h *MarketHandler) Claim(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}
	userID := middleware.GetUserID(r)

	err := h.claimService.Claim(r.Context(), itemID, userID)
	switch {
	case err == nil:
		flashSuccess(w, r, h.renderer, RouteMarket, "Item claimed. It is yours now.")
	case errors.Is(err, model.ErrAlreadyClaimed):
		slog.Warn("claim lost to another user", "item_id", itemID, "user_id", userID)
		flashError(w, r, h.renderer, RouteMarket, "Too late. Someone else claimed that item first.")
	case errors.Is(err, model.ErrItemNotFound):
		flashError(w, r, h.renderer, RouteMarket, "That item no longer exists.")
	default:
		logAndInternalError(w, "claim failed", "error", err, "item_id", itemID, "user_id", userID)
	}
}

// Unclaim releases an item the requester currently holds.
func (h *MarketHandler) Unclaim(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}
	userID := middleware.GetUserID(r)

	err := h.claimService.Unclaim(r.Context(), itemID, userID)
	switch {
	case err == nil:
		flashSuccess(w, r, h.renderer, RouteAccount, "Item returned to the market.")
	case errors.Is(err, model.ErrNotOwner):
		slog.Warn("unclaim by non-owner", "item_id", itemID, "user_id", userID)
		flashError(w, r, h.renderer, RouteAccount, "You can only return items you currently hold.")
	default:
		logAndInternalError(w, "unclaim failed", "error", err, "item_id", itemID, "user_id", userID)
	}
}
