// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"sort"
	"strings"

	"github.com/olegiv/keepsake-go/internal/store"
)

// CatalogFilter describes the visible-item predicate for the market page.
// The zero value passes every item through unchanged.
type CatalogFilter struct {
	// Query is matched case-insensitively as a substring of item name or
	// description. Empty means no text filtering.
	Query string
	// Categories keeps only items whose category is a member. An empty set
	// keeps everything, it never filters down to nothing.
	Categories []string
	// UnclaimedOnly keeps only items without an owner.
	UnclaimedOnly bool
}

// FilterItems returns the subset of items matching f, preserving input order.
// Pure: the input slice is never modified. The three predicates compose as a
// conjunction, so the result does not depend on evaluation order.
func FilterItems(items []store.Item, f CatalogFilter) []store.Item {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	categories := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		if c != "" {
			categories[c] = true
		}
	}

	var out []store.Item
	for _, item := range items {
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Name), query) &&
			!strings.Contains(strings.ToLower(item.Description), query) {
			continue
		}
		if len(categories) > 0 && !categories[item.Category] {
			continue
		}
		if f.UnclaimedOnly && item.Claimed() {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Categories returns the distinct categories present in items, sorted.
// Callers pass the unfiltered catalog so the selection UI always shows every
// category, not just those surviving the current filter. Items without a
// category never produce a blank option.
func Categories(items []store.Item) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	sort.Strings(out)
	return out
}
