// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "errors"

// Authentication errors.
var (
	// ErrInvalidCredentials is returned when no user row matches the supplied
	// username and credential exactly.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is returned when registering a username that already
	// exists. The UNIQUE constraint on users.username is the source of truth;
	// an insert-time constraint violation maps to this error as well.
	ErrUsernameTaken = errors.New("username already exists")
)

// Claim errors.
var (
	// ErrAlreadyClaimed is returned when claiming an item that has an owner.
	ErrAlreadyClaimed = errors.New("item is already claimed")

	// ErrNotOwner is returned when unclaiming an item the requester does not
	// currently own. This covers both "someone else owns it" and "it is
	// already unclaimed".
	ErrNotOwner = errors.New("item is not claimed by requester")

	// ErrItemNotFound is returned when the item id does not exist.
	ErrItemNotFound = errors.New("item not found")
)
