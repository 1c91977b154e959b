// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session wires the scs session manager to the application's SQLite
// database, so session rows live next to the users and items they belong to.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// CookieName identifies the session cookie.
const CookieName = "keepsake_session"

// New creates a session manager persisting to the sessions table of db.
// Sessions outlive a server restart; expiry is bounded by lifetime.
// Secure cookies are disabled in development so plain-HTTP localhost works.
func New(db *sql.DB, lifetime time.Duration, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = lifetime

	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	return sm
}
