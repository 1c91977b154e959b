package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/keepsake-go/internal/model"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "keepsake-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createTestUser(t *testing.T, q *Queries, username string) User {
	t.Helper()

	now := time.Now()
	user, err := q.CreateUser(context.Background(), CreateUserParams{
		Username:  username,
		Password:  "secret",
		FirstName: "Test",
		LastName:  "User",
		Role:      model.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func createTestItem(t *testing.T, q *Queries, name, category string) Item {
	t.Helper()

	now := time.Now()
	item, err := q.CreateItem(context.Background(), CreateItemParams{
		Name:        name,
		Description: "a " + name,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	return item
}

func TestCreateAndGetUser(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	created := createTestUser(t, q, "alice")

	got, err := q.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %d; want %d", got.ID, created.ID)
	}
	if got.Role != model.RoleUser {
		t.Errorf("Role = %q; want %q", got.Role, model.RoleUser)
	}
	if got.FullName() != "Test User" {
		t.Errorf("FullName = %q; want %q", got.FullName(), "Test User")
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	createTestUser(t, q, "alice")

	now := time.Now()
	_, err := q.CreateUser(ctx, CreateUserParams{
		Username:  "alice",
		Password:  "other",
		FirstName: "Other",
		LastName:  "Alice",
		Role:      model.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err == nil {
		t.Fatal("second CreateUser with the same username should fail")
	}

	count, err := q.CountUsersByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("CountUsersByUsername: %v", err)
	}
	if count != 1 {
		t.Errorf("user rows named alice = %d; want 1", count)
	}
}

func TestCreateUserInvalidRole(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	now := time.Now()
	_, err := q.CreateUser(ctx, CreateUserParams{
		Username:  "bob",
		Password:  "secret",
		FirstName: "Bob",
		LastName:  "B",
		Role:      "X",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err == nil {
		t.Fatal("CreateUser should reject a role outside {M,U}")
	}
}

func TestClaimItem(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	user := createTestUser(t, q, "alice")
	item := createTestItem(t, q, "Teacup", "keepsakes")

	affected, err := q.ClaimItem(ctx, ClaimItemParams{
		UserID:    user.ID,
		ClaimedAt: time.Now(),
		UpdatedAt: time.Now(),
		ID:        item.ID,
	})
	if err != nil {
		t.Fatalf("ClaimItem: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d; want 1", affected)
	}

	got, err := q.GetItemByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItemByID: %v", err)
	}
	if !got.ClaimedBy(user.ID) {
		t.Errorf("item should be claimed by user %d, got %+v", user.ID, got.UserID)
	}
	// Invariant: owner set iff claim timestamp set
	if got.UserID.Valid != got.ClaimedAt.Valid {
		t.Errorf("owner/claimed_at invariant violated: %+v vs %+v", got.UserID, got.ClaimedAt)
	}
}

func TestClaimItemAlreadyClaimed(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	alice := createTestUser(t, q, "alice")
	bob := createTestUser(t, q, "bob")
	item := createTestItem(t, q, "Quilt", "keepsakes")

	if _, err := q.ClaimItem(ctx, ClaimItemParams{UserID: alice.ID, ClaimedAt: time.Now(), UpdatedAt: time.Now(), ID: item.ID}); err != nil {
		t.Fatalf("first ClaimItem: %v", err)
	}

	affected, err := q.ClaimItem(ctx, ClaimItemParams{UserID: bob.ID, ClaimedAt: time.Now(), UpdatedAt: time.Now(), ID: item.ID})
	if err != nil {
		t.Fatalf("second ClaimItem: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second claim affected = %d; want 0", affected)
	}

	got, _ := q.GetItemByID(ctx, item.ID)
	if !got.ClaimedBy(alice.ID) {
		t.Errorf("item owner changed by losing claim: %+v", got.UserID)
	}
}

func TestConcurrentClaims(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	item := createTestItem(t, q, "Necklace", "jewelry")

	const claimants = 8
	users := make([]User, claimants)
	for i := range users {
		users[i] = createTestUser(t, q, "user"+string(rune('a'+i)))
	}

	var wg sync.WaitGroup
	wins := make(chan int64, claimants)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(u User) {
			defer wg.Done()
			affected, err := q.ClaimItem(ctx, ClaimItemParams{
				UserID:    u.ID,
				ClaimedAt: time.Now(),
				UpdatedAt: time.Now(),
				ID:        item.ID,
			})
			if err != nil {
				t.Errorf("ClaimItem: %v", err)
				return
			}
			if affected == 1 {
				wins <- u.ID
			}
		}(users[i])
	}
	wg.Wait()
	close(wins)

	var winners []int64
	for id := range wins {
		winners = append(winners, id)
	}
	if len(winners) != 1 {
		t.Fatalf("winners = %d; want exactly 1", len(winners))
	}

	got, err := q.GetItemByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItemByID: %v", err)
	}
	if !got.ClaimedBy(winners[0]) {
		t.Errorf("item owned by %+v; want winner %d", got.UserID, winners[0])
	}
}

func TestUnclaimItem(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	alice := createTestUser(t, q, "alice")
	bob := createTestUser(t, q, "bob")
	item := createTestItem(t, q, "Album", "books")

	if _, err := q.ClaimItem(ctx, ClaimItemParams{UserID: alice.ID, ClaimedAt: time.Now(), UpdatedAt: time.Now(), ID: item.ID}); err != nil {
		t.Fatalf("ClaimItem: %v", err)
	}

	// Non-owner cannot unclaim
	affected, err := q.UnclaimItem(ctx, UnclaimItemParams{UpdatedAt: time.Now(), ID: item.ID, UserID: bob.ID})
	if err != nil {
		t.Fatalf("UnclaimItem (bob): %v", err)
	}
	if affected != 0 {
		t.Fatalf("non-owner unclaim affected = %d; want 0", affected)
	}

	// Owner can
	affected, err = q.UnclaimItem(ctx, UnclaimItemParams{UpdatedAt: time.Now(), ID: item.ID, UserID: alice.ID})
	if err != nil {
		t.Fatalf("UnclaimItem (alice): %v", err)
	}
	if affected != 1 {
		t.Fatalf("owner unclaim affected = %d; want 1", affected)
	}

	got, _ := q.GetItemByID(ctx, item.ID)
	if got.UserID.Valid || got.ClaimedAt.Valid {
		t.Errorf("unclaimed item should have null owner and claim time: %+v", got)
	}

	// And bob can claim it now
	affected, err = q.ClaimItem(ctx, ClaimItemParams{UserID: bob.ID, ClaimedAt: time.Now(), UpdatedAt: time.Now(), ID: item.ID})
	if err != nil {
		t.Fatalf("ClaimItem (bob): %v", err)
	}
	if affected != 1 {
		t.Errorf("bob's claim after unclaim affected = %d; want 1", affected)
	}
}

func TestItemExists(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	item := createTestItem(t, q, "Teacup", "keepsakes")

	exists, err := q.ItemExists(ctx, item.ID)
	if err != nil {
		t.Fatalf("ItemExists: %v", err)
	}
	if !exists {
		t.Error("existing item reported missing")
	}

	exists, err = q.ItemExists(ctx, item.ID+100)
	if err != nil {
		t.Fatalf("ItemExists: %v", err)
	}
	if exists {
		t.Error("missing item reported existing")
	}
}

func TestDeleteItemPreservesUsers(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	alice := createTestUser(t, q, "alice")
	item := createTestItem(t, q, "Quilt", "keepsakes")
	if _, err := q.ClaimItem(ctx, ClaimItemParams{UserID: alice.ID, ClaimedAt: time.Now(), UpdatedAt: time.Now(), ID: item.ID}); err != nil {
		t.Fatalf("ClaimItem: %v", err)
	}

	if err := q.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	if _, err := q.GetItemByID(ctx, item.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetItemByID after delete = %v; want sql.ErrNoRows", err)
	}
	if _, err := q.GetUserByID(ctx, alice.ID); err != nil {
		t.Errorf("owner row should survive item delete: %v", err)
	}
}

func TestListItemsByOwner(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	alice := createTestUser(t, q, "alice")
	first := createTestItem(t, q, "Teacup", "keepsakes")
	second := createTestItem(t, q, "Album", "books")
	createTestItem(t, q, "Quilt", "keepsakes") // stays unclaimed

	for i, id := range []int64{first.ID, second.ID} {
		claimedAt := time.Now().Add(time.Duration(i) * time.Second)
		if _, err := q.ClaimItem(ctx, ClaimItemParams{UserID: alice.ID, ClaimedAt: claimedAt, UpdatedAt: claimedAt, ID: id}); err != nil {
			t.Fatalf("ClaimItem: %v", err)
		}
	}

	items, err := q.ListItemsByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListItemsByOwner: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d; want 2", len(items))
	}
	if items[0].ID != first.ID || items[1].ID != second.ID {
		t.Errorf("items not ordered by claim time: %d, %d", items[0].ID, items[1].ID)
	}
}

func TestSeed(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	if err := Seed(ctx, db, true); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	manager, err := q.GetUserByUsername(ctx, DefaultManagerUsername)
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if manager.Role != model.RoleManager {
		t.Errorf("seed manager role = %q; want %q", manager.Role, model.RoleManager)
	}

	items, err := q.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 4 {
		t.Errorf("seed items = %d; want 4", len(items))
	}
	for _, it := range items {
		if it.Claimed() {
			t.Errorf("seed item %q should be unclaimed", it.Name)
		}
	}

	// Running again must not duplicate
	if err := Seed(ctx, db, true); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	items, _ = q.ListItems(ctx)
	if len(items) != 4 {
		t.Errorf("items after second seed = %d; want 4", len(items))
	}
}

func TestSeedDisabled(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	if err := Seed(ctx, db, false); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	users, err := q.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("users after disabled seed = %d; want 0", len(users))
	}
}
