// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the application's business logic: authentication,
// catalog filtering, the claim state machine and item image handling.
package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/keepsake-go/internal/model"
	"github.com/olegiv/keepsake-go/internal/store"
)

// AuthService authenticates and registers users.
type AuthService struct {
	queries *store.Queries
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *sql.DB) *AuthService {
	return &AuthService{queries: store.New(db)}
}

// Authenticate looks up the user by username and compares the credential.
// Credentials are stored and compared in clear text, a known defect carried
// over from the legacy system; the comparison is at least constant-time.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (model.Identity, error) {
	user, err := s.queries.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Identity{}, model.ErrInvalidCredentials
		}
		return model.Identity{}, fmt.Errorf("looking up user: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		return model.Identity{}, model.ErrInvalidCredentials
	}

	return model.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// Register creates a new regular user. The existence pre-check is a fast
// path only: two concurrent registrations can both pass it, so the UNIQUE
// constraint on users.username is the source of truth and an insert-time
// violation also maps to ErrUsernameTaken.
func (s *AuthService) Register(ctx context.Context, username, password, firstName, lastName string) (model.Identity, error) {
	count, err := s.queries.CountUsersByUsername(ctx, username)
	if err != nil {
		return model.Identity{}, fmt.Errorf("checking username: %w", err)
	}
	if count > 0 {
		return model.Identity{}, model.ErrUsernameTaken
	}

	now := time.Now()
	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Username:  username,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Role:      model.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.Identity{}, model.ErrUsernameTaken
		}
		return model.Identity{}, fmt.Errorf("creating user: %w", err)
	}

	return model.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
// Both supported drivers surface the constraint name in the error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
