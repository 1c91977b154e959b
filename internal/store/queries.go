// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by Queries.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries provides typed access to the users and items tables.
type Queries struct {
	db DBTX
}

// New creates a Queries instance bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const userColumns = `id, username, password, first_name, last_name, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateUserParams holds the fields for CreateUser.
type CreateUserParams struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUser inserts a new user row and returns it.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password, first_name, last_name, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+userColumns,
		arg.Username, arg.Password, arg.FirstName, arg.LastName, arg.Role, arg.CreatedAt, arg.UpdatedAt)
	return scanUser(row)
}

// GetUserByID fetches a user by primary key.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByUsername fetches a user by unique username.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// ListUsers returns all users ordered by username.
func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountUsersByUsername counts users with the given username.
func (q *Queries) CountUsersByUsername(ctx context.Context, username string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&count)
	return count, err
}

// UpdateUserParams holds the fields for UpdateUser. All fields are written;
// partial-edit semantics are resolved by the caller against the current row.
type UpdateUserParams struct {
	Password  string
	FirstName string
	LastName  string
	Role      string
	UpdatedAt time.Time
	ID        int64
}

// UpdateUser rewrites a user's mutable fields and returns the updated row.
func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE users SET password = ?, first_name = ?, last_name = ?, role = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+userColumns,
		arg.Password, arg.FirstName, arg.LastName, arg.Role, arg.UpdatedAt, arg.ID)
	return scanUser(row)
}

const itemColumns = `id, user_id, name, description, category, image_path, claimed_at, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (Item, error) {
	var i Item
	err := row.Scan(&i.ID, &i.UserID, &i.Name, &i.Description, &i.Category, &i.ImagePath, &i.ClaimedAt, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func (q *Queries) queryItems(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CreateItemParams holds the fields for CreateItem.
type CreateItemParams struct {
	Name        string
	Description string
	Category    string
	ImagePath   sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateItem inserts a new unclaimed item and returns it.
func (q *Queries) CreateItem(ctx context.Context, arg CreateItemParams) (Item, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO items (name, description, category, image_path, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING `+itemColumns,
		arg.Name, arg.Description, arg.Category, arg.ImagePath, arg.CreatedAt, arg.UpdatedAt)
	return scanItem(row)
}

// GetItemByID fetches an item by primary key.
func (q *Queries) GetItemByID(ctx context.Context, id int64) (Item, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	return scanItem(row)
}

// ListItems returns the full catalog ordered by id.
func (q *Queries) ListItems(ctx context.Context) ([]Item, error) {
	return q.queryItems(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id`)
}

// ListItemsByOwner returns items currently claimed by userID, ordered by claim time.
func (q *Queries) ListItemsByOwner(ctx context.Context, userID int64) ([]Item, error) {
	return q.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE user_id = ? ORDER BY claimed_at`, userID)
}

// ItemExists reports whether an item row with the given id exists.
func (q *Queries) ItemExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM items WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

// UpdateItemParams holds the fields for UpdateItem.
type UpdateItemParams struct {
	Name        string
	Description string
	Category    string
	UpdatedAt   time.Time
	ID          int64
}

// UpdateItem rewrites an item's editable fields and returns the updated row.
// Ownership fields are never touched here; claim transitions go through
// ClaimItem and UnclaimItem.
func (q *Queries) UpdateItem(ctx context.Context, arg UpdateItemParams) (Item, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE items SET name = ?, description = ?, category = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+itemColumns,
		arg.Name, arg.Description, arg.Category, arg.UpdatedAt, arg.ID)
	return scanItem(row)
}

// UpdateItemImageParams holds the fields for UpdateItemImage.
type UpdateItemImageParams struct {
	ImagePath sql.NullString
	UpdatedAt time.Time
	ID        int64
}

// UpdateItemImage replaces the stored image path for an item.
func (q *Queries) UpdateItemImage(ctx context.Context, arg UpdateItemImageParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE items SET image_path = ?, updated_at = ? WHERE id = ?`,
		arg.ImagePath, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteItem removes an item row.
func (q *Queries) DeleteItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	return err
}

// ClaimItemParams holds the fields for ClaimItem.
type ClaimItemParams struct {
	UserID    int64
	ClaimedAt time.Time
	UpdatedAt time.Time
	ID        int64
}

// ClaimItem atomically assigns ownership of an unclaimed item. The predicate
// "user_id IS NULL" makes this a single conditional write: of any number of
// concurrent claimants, at most one sees a nonzero affected-row count.
func (q *Queries) ClaimItem(ctx context.Context, arg ClaimItemParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`UPDATE items SET user_id = ?, claimed_at = ?, updated_at = ?
		 WHERE id = ? AND user_id IS NULL`,
		arg.UserID, arg.ClaimedAt, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// UnclaimItemParams holds the fields for UnclaimItem.
type UnclaimItemParams struct {
	UpdatedAt time.Time
	ID        int64
	UserID    int64
}

// UnclaimItem atomically releases ownership, guarded by the requester being
// the current owner. Same conditional-write discipline as ClaimItem.
func (q *Queries) UnclaimItem(ctx context.Context, arg UnclaimItemParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`UPDATE items SET user_id = NULL, claimed_at = NULL, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		arg.UpdatedAt, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
