package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/keepsake-go/internal/model"
)

// Default manager credentials created by the seed.
const (
	DefaultManagerUsername = "manager1"
	DefaultManagerPassword = "managerpass1"
)

// seedUsers are the initial manager accounts.
var seedUsers = []CreateUserParams{
	{Username: "manager1", Password: "managerpass1", FirstName: "Manager", LastName: "One", Role: model.RoleManager},
	{Username: "manager2", Password: "managerpass2", FirstName: "Manager", LastName: "Two", Role: model.RoleManager},
}

// seedItems is the initial unclaimed catalog.
var seedItems = []CreateItemParams{
	{Name: "Porcelain Teacup", Description: "From her 50th anniversary trip to England.", Category: "keepsakes"},
	{Name: "Quilt Blanket", Description: "Handmade with love by Grandma.", Category: "keepsakes"},
	{Name: "Photo Album", Description: "Family memories through the years.", Category: "books"},
	{Name: "Silver Necklace", Description: "Gift from Grandpa on their 40th anniversary.", Category: "jewelry"},
}

// Seed creates initial data in the database. It is idempotent: when the first
// manager account already exists the seed is skipped entirely.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	if !doSeed {
		return nil
	}

	queries := New(db)

	_, err := queries.GetUserByUsername(ctx, DefaultManagerUsername)
	if err == nil {
		slog.Info("seed data already present, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for manager user: %w", err)
	}

	now := time.Now()
	for _, u := range seedUsers {
		u.CreatedAt = now
		u.UpdatedAt = now
		user, err := queries.CreateUser(ctx, u)
		if err != nil {
			return fmt.Errorf("creating seed user %q: %w", u.Username, err)
		}
		slog.Info("created seed user", "id", user.ID, "username", user.Username, "role", user.Role)
	}

	for _, it := range seedItems {
		it.CreatedAt = now
		it.UpdatedAt = now
		item, err := queries.CreateItem(ctx, it)
		if err != nil {
			return fmt.Errorf("creating seed item %q: %w", it.Name, err)
		}
		slog.Info("created seed item", "id", item.ID, "name", item.Name, "category", item.Category)
	}

	return nil
}
