// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/keepsake-go/internal/middleware"
	"github.com/olegiv/keepsake-go/internal/render"
)

// HomeHandler serves the landing page.
type HomeHandler struct {
	renderer *render.Renderer
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(renderer *render.Renderer) *HomeHandler {
	return &HomeHandler{renderer: renderer}
}

// Home renders the landing page. The template shows login/register links for
// visitors and market/account links for signed-in users.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != RouteRoot {
		http.NotFound(w, r)
		return
	}

	err := h.renderer.Render(w, r, "home", render.TemplateData{
		Title: "Keepsake",
		User:  middleware.GetUser(r),
	})
	if err != nil {
		logAndInternalError(w, "render error", "error", err, "template", "home")
	}
}
