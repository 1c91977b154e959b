// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/keepsake-go/internal/middleware"
	"github.com/olegiv/keepsake-go/internal/render"
	"github.com/olegiv/keepsake-go/internal/service"
	"github.com/olegiv/keepsake-go/internal/store"
)

// ItemHandler handles manager edits to the item catalog.
type ItemHandler struct {
	queries      *store.Queries
	imageService *service.ImageService
	renderer     *render.Renderer
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(db *sql.DB, renderer *render.Renderer, images *service.ImageService) *ItemHandler {
	return &ItemHandler{
		queries:      store.New(db),
		imageService: images,
		renderer:     renderer,
	}
}

// ItemFormData is the view model for the add/edit item form.
type ItemFormData struct {
	Item  store.Item
	IsNew bool
	Error string
}

// AddForm renders the empty item creation form.
func (h *ItemHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "Add Item", ItemFormData{IsNew: true})
}

// Add creates a new catalog item, storing an uploaded photo if one was sent.
func (h *ItemHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		flashError(w, r, h.renderer, RouteItemAdd, "Invalid form data")
		return
	}

	item := store.Item{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Category:    strings.TrimSpace(r.PostFormValue("category")),
	}
	if item.Name == "" {
		h.renderForm(w, r, "Add Item", ItemFormData{Item: item, IsNew: true, Error: "Name is required."})
		return
	}

	imagePath, ok := h.saveUploadedImage(w, r, "Add Item", ItemFormData{Item: item, IsNew: true})
	if !ok {
		return
	}

	now := time.Now()
	created, err := h.queries.CreateItem(r.Context(), store.CreateItemParams{
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		ImagePath:   imagePath,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create item", "error", err, "name", item.Name)
		return
	}

	slog.Info("item created", "item_id", created.ID, "name", created.Name, "created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, RouteAccount, "Item "+created.Name+" added.")
}

// EditForm renders the edit form for an existing item.
func (h *ItemHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	item, ok := h.requireItem(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, "Edit Item", ItemFormData{Item: item})
}

// Edit updates an item's fields and optionally replaces its photo. Ownership
// is untouched: editing an item never claims or releases it.
func (h *ItemHandler) Edit(w http.ResponseWriter, r *http.Request) {
	current, ok := h.requireItem(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		flashError(w, r, h.renderer, RouteAccount, "Invalid form data")
		return
	}

	updated := current
	updated.Name = strings.TrimSpace(r.PostFormValue("name"))
	updated.Description = strings.TrimSpace(r.PostFormValue("description"))
	updated.Category = strings.TrimSpace(r.PostFormValue("category"))
	if updated.Name == "" {
		h.renderForm(w, r, "Edit Item", ItemFormData{Item: updated, Error: "Name is required."})
		return
	}

	imagePath, ok := h.saveUploadedImage(w, r, "Edit Item", ItemFormData{Item: updated})
	if !ok {
		return
	}

	if _, err := h.queries.UpdateItem(r.Context(), store.UpdateItemParams{
		Name:        updated.Name,
		Description: updated.Description,
		Category:    updated.Category,
		UpdatedAt:   time.Now(),
		ID:          current.ID,
	}); err != nil {
		logAndInternalError(w, "failed to update item", "error", err, "item_id", current.ID)
		return
	}

	if imagePath.Valid {
		err := h.queries.UpdateItemImage(r.Context(), store.UpdateItemImageParams{
			ImagePath: imagePath,
			UpdatedAt: time.Now(),
			ID:        current.ID,
		})
		if err != nil {
			logAndInternalError(w, "failed to update item image", "error", err, "item_id", current.ID)
			return
		}
		// The old photo is unreferenced now
		if current.ImagePath.Valid {
			if err := h.imageService.Remove(current.ImagePath.String); err != nil {
				slog.Error("failed to remove replaced image", "error", err, "item_id", current.ID)
			}
		}
	}

	slog.Info("item updated", "item_id", current.ID, "edited_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, RouteAccount, "Item "+updated.Name+" updated.")
}

// Delete removes an item and its stored photo.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.requireItem(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteItem(r.Context(), item.ID); err != nil {
		logAndInternalError(w, "failed to delete item", "error", err, "item_id", item.ID)
		return
	}

	if item.ImagePath.Valid {
		if err := h.imageService.Remove(item.ImagePath.String); err != nil {
			slog.Error("failed to remove image of deleted item", "error", err, "item_id", item.ID)
		}
	}

	slog.Info("item deleted", "item_id", item.ID, "name", item.Name, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, RouteAccount, "Item "+item.Name+" deleted.")
}

// requireItem loads the item named by the {itemID} route parameter, writing
// the error response itself when the item cannot be served.
func (h *ItemHandler) requireItem(w http.ResponseWriter, r *http.Request) (store.Item, bool) {
	itemID, ok := itemIDParam(w, r)
	if !ok {
		return store.Item{}, false
	}

	item, err := h.queries.GetItemByID(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
		} else {
			logAndInternalError(w, "failed to get item", "error", err, "item_id", itemID)
		}
		return store.Item{}, false
	}
	return item, true
}

// saveUploadedImage stores the optional "image" form file. The returned path
// is invalid when no file was uploaded. On a rejected upload it re-renders
// the form with the error and reports false.
func (h *ItemHandler) saveUploadedImage(w http.ResponseWriter, r *http.Request, title string, form ItemFormData) (sql.NullString, bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return sql.NullString{}, true
		}
		flashError(w, r, h.renderer, RouteAccount, "Invalid image upload")
		return sql.NullString{}, false
	}
	defer func() { _ = file.Close() }()

	publicPath, err := h.imageService.Save(file, header)
	if err != nil {
		slog.Warn("image upload rejected", "error", err, "filename", header.Filename)
		form.Error = "Could not save image: " + err.Error()
		h.renderForm(w, r, title, form)
		return sql.NullString{}, false
	}

	return sql.NullString{String: publicPath, Valid: true}, true
}

func (h *ItemHandler) renderForm(w http.ResponseWriter, r *http.Request, title string, data ItemFormData) {
	err := h.renderer.Render(w, r, "item_form", render.TemplateData{
		Title: title,
		Data:  data,
		User:  middleware.GetUser(r),
	})
	if err != nil {
		logAndInternalError(w, "render error", "error", err, "template", "item_form")
	}
}
