// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// User represents a registered family member.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // Stored in clear text per the legacy contract; never expose in JSON
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns the user's display name.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Item represents a catalog entry. UserID is the owning user when claimed;
// ClaimedAt is set iff UserID is set.
type Item struct {
	ID          int64          `json:"id"`
	UserID      sql.NullInt64  `json:"user_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	ImagePath   sql.NullString `json:"image_path"`
	ClaimedAt   sql.NullTime   `json:"claimed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Claimed returns true if the item currently has an owner.
func (i Item) Claimed() bool {
	return i.UserID.Valid
}

// ClaimedBy returns true if the item is currently owned by userID.
func (i Item) ClaimedBy(userID int64) bool {
	return i.UserID.Valid && i.UserID.Int64 == userID
}
