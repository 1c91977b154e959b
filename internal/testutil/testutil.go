// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the keepsake project.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/olegiv/keepsake-go/internal/model"
	"github.com/olegiv/keepsake-go/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary test database with migrations applied.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "keepsake-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateUser inserts a user row for tests and returns it.
func CreateUser(t *testing.T, db *sql.DB, username, password, role string) store.User {
	t.Helper()

	now := time.Now()
	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Username:  username,
		Password:  password,
		FirstName: "Test",
		LastName:  username,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user
}

// CreateItem inserts an unclaimed item row for tests and returns it.
func CreateItem(t *testing.T, db *sql.DB, name, category string) store.Item {
	t.Helper()

	now := time.Now()
	item, err := store.New(db).CreateItem(context.Background(), store.CreateItemParams{
		Name:        name,
		Description: "test " + name,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("creating test item: %v", err)
	}
	return item
}

// CreateManager inserts a manager user for tests.
func CreateManager(t *testing.T, db *sql.DB, username string) store.User {
	t.Helper()
	return CreateUser(t, db, username, "managerpass", model.RoleManager)
}
