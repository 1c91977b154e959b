// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"

	"github.com/olegiv/keepsake-go/internal/model"
	"github.com/olegiv/keepsake-go/internal/store"
	"github.com/olegiv/keepsake-go/internal/testutil"
)

func TestMarketFiltering(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, "lena", "pw-lena-1", model.RoleUser)
	testutil.CreateItem(t, app.db, "Grandfather clock", "furniture")
	testutil.CreateItem(t, app.db, "Silver teapot", "kitchen")
	testutil.CreateItem(t, app.db, "Clockwork toy", "toys")

	app.login(t, "lena", "pw-lena-1")

	t.Run("unfiltered shows everything", func(t *testing.T) {
		_, body := app.get(t, RouteMarket)
		for _, name := range []string{"Grandfather clock", "Silver teapot", "Clockwork toy"} {
			if !strings.Contains(body, name) {
				t.Errorf("market should list %q", name)
			}
		}
	})

	t.Run("text query narrows", func(t *testing.T) {
		_, body := app.get(t, RouteMarket+"?q=clock")
		if !strings.Contains(body, "Grandfather clock") || !strings.Contains(body, "Clockwork toy") {
			t.Error("query 'clock' should match both clock items")
		}
		if strings.Contains(body, "Silver teapot") {
			t.Error("query 'clock' should not match the teapot")
		}
	})

	t.Run("category narrows", func(t *testing.T) {
		_, body := app.get(t, RouteMarket+"?categories=kitchen")
		if !strings.Contains(body, "Silver teapot") {
			t.Error("kitchen filter should keep the teapot")
		}
		if strings.Contains(body, "Grandfather clock") {
			t.Error("kitchen filter should drop the clock")
		}
		// All category checkboxes stay visible regardless of the filter
		for _, cat := range []string{"furniture", "kitchen", "toys"} {
			if !strings.Contains(body, `value="`+cat+`"`) {
				t.Errorf("category option %q should remain offered", cat)
			}
		}
	})

	t.Run("unclaimed toggle hides claimed items", func(t *testing.T) {
		owner := testutil.CreateUser(t, app.db, "uwe", "pw-uwe-1", model.RoleUser)
		taken := testutil.CreateItem(t, app.db, "Claimed carpet", "furniture")
		if _, err := store.New(app.db).ClaimItem(context.Background(), store.ClaimItemParams{
			UserID:    owner.ID,
			ClaimedAt: taken.CreatedAt,
			UpdatedAt: taken.CreatedAt,
			ID:        taken.ID,
		}); err != nil {
			t.Fatalf("claiming item: %v", err)
		}

		_, body := app.get(t, RouteMarket+"?showUnclaimed=1")
		if strings.Contains(body, "Claimed carpet") {
			t.Error("unclaimed filter should hide the claimed carpet")
		}
		if !strings.Contains(body, "Silver teapot") {
			t.Error("unclaimed filter should keep unclaimed items")
		}
	})
}

func TestClaimLifecycleOverHTTP(t *testing.T) {
	appA := newTestApp(t)
	queries := store.New(appA.db)
	userA := testutil.CreateUser(t, appA.db, "anna", "pw-anna-1", model.RoleUser)
	userB := testutil.CreateUser(t, appA.db, "bart", "pw-bart-1", model.RoleUser)
	item := testutil.CreateItem(t, appA.db, "Walnut desk", "furniture")

	// Two browsers against the same server
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	appB := &testApp{server: appA.server, db: appA.db, client: &http.Client{Jar: jar}}

	appA.login(t, "anna", "pw-anna-1")
	appB.login(t, "bart", "pw-bart-1")

	claimPath := fmt.Sprintf("/claim/%d", item.ID)
	unclaimPath := fmt.Sprintf("/unclaim/%d", item.ID)

	// Anna claims the desk
	_, body := appA.postForm(t, claimPath, url.Values{})
	if !strings.Contains(body, "It is yours now") {
		t.Fatal("first claim should succeed")
	}
	got, err := queries.GetItemByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if !got.ClaimedBy(userA.ID) {
		t.Fatalf("item owner = %v, want %d", got.UserID, userA.ID)
	}

	// Bart is too late
	_, body = appB.postForm(t, claimPath, url.Values{})
	if !strings.Contains(body, "Too late") {
		t.Error("second claim should report the item as taken")
	}
	got, _ = queries.GetItemByID(context.Background(), item.ID)
	if !got.ClaimedBy(userA.ID) {
		t.Error("losing claim must not change the owner")
	}

	// Bart cannot return what he does not hold
	_, body = appB.postForm(t, unclaimPath, url.Values{})
	if !strings.Contains(body, "items you currently hold") {
		t.Error("non-owner unclaim should be refused")
	}
	got, _ = queries.GetItemByID(context.Background(), item.ID)
	if !got.ClaimedBy(userA.ID) {
		t.Error("refused unclaim must not change the owner")
	}

	// Anna returns the desk, then Bart claims it
	_, body = appA.postForm(t, unclaimPath, url.Values{})
	if !strings.Contains(body, "returned to the market") {
		t.Error("owner unclaim should succeed")
	}
	_, body = appB.postForm(t, claimPath, url.Values{})
	if !strings.Contains(body, "It is yours now") {
		t.Error("claim after release should succeed")
	}
	got, _ = queries.GetItemByID(context.Background(), item.ID)
	if !got.ClaimedBy(userB.ID) {
		t.Errorf("item owner = %v, want %d", got.UserID, userB.ID)
	}
}

func TestClaimMissingItem(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, "nils", "pw-nils-1", model.RoleUser)
	app.login(t, "nils", "pw-nils-1")

	_, body := app.postForm(t, "/claim/9999", url.Values{})
	if !strings.Contains(body, "no longer exists") {
		t.Error("claiming a missing item should report it as gone")
	}

	resp, _ := app.postForm(t, "/claim/not-a-number", url.Values{})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("malformed item ID: status %d, want 404", resp.StatusCode)
	}
}
