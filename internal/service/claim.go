// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/keepsake-go/internal/model"
	"github.com/olegiv/keepsake-go/internal/store"
)

// ClaimService implements the item ownership state machine. Each item is
// either Unclaimed (no owner) or Claimed by exactly one user, and every
// transition is a single predicate-guarded UPDATE, so concurrent requests
// on the same item are linearized by the store without application locks.
type ClaimService struct {
	queries *store.Queries
}

// NewClaimService creates a new ClaimService.
func NewClaimService(db *sql.DB) *ClaimService {
	return &ClaimService{queries: store.New(db)}
}

// Claim transitions an item from Unclaimed to Claimed(requesterID). The
// update predicate requires the owner column to be NULL, so of any number of
// concurrent claimants exactly one succeeds; the rest get ErrAlreadyClaimed.
// A zero-row result is probed once to tell a vanished item apart from a
// claimed one.
func (s *ClaimService) Claim(ctx context.Context, itemID, requesterID int64) error {
	now := time.Now()
	affected, err := s.queries.ClaimItem(ctx, store.ClaimItemParams{
		UserID:    requesterID,
		ClaimedAt: now,
		UpdatedAt: now,
		ID:        itemID,
	})
	if err != nil {
		return fmt.Errorf("claiming item %d: %w", itemID, err)
	}
	if affected > 0 {
		return nil
	}

	exists, err := s.queries.ItemExists(ctx, itemID)
	if err != nil {
		return fmt.Errorf("checking item %d: %w", itemID, err)
	}
	if !exists {
		return model.ErrItemNotFound
	}
	return model.ErrAlreadyClaimed
}

// Unclaim transitions an item from Claimed(requesterID) back to Unclaimed.
// The predicate requires the requester to be the current owner; a zero-row
// result means someone else owns it or it is already unclaimed, both reported
// as ErrNotOwner. There is no direct Claimed(A)→Claimed(B) transition: an
// item must pass through Unclaimed before another user can claim it.
func (s *ClaimService) Unclaim(ctx context.Context, itemID, requesterID int64) error {
	affected, err := s.queries.UnclaimItem(ctx, store.UnclaimItemParams{
		UpdatedAt: time.Now(),
		ID:        itemID,
		UserID:    requesterID,
	})
	if err != nil {
		return fmt.Errorf("unclaiming item %d: %w", itemID, err)
	}
	if affected == 0 {
		return model.ErrNotOwner
	}
	return nil
}
