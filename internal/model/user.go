// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain types shared across the application:
// users, catalog items, roles and the domain error taxonomy.
package model

// User roles. Every user row carries exactly one of these.
const (
	RoleManager = "M"
	RoleUser    = "U"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []string{RoleManager, RoleUser}

// IsValidRole reports whether role is one of the defined role values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Identity is the authenticated caller attached to a session. It is a
// snapshot of the user row at login time; authoritative role checks re-read
// the row from the store.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

// IsManager returns true if the identity has the manager role.
func (i Identity) IsManager() bool {
	return i.Role == RoleManager
}
