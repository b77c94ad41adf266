package data

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestUserRepository_FindByUsernameIgnoresCase(t *testing.T) {
	store, teardown := setupStoreTest(t, true)
	defer teardown()

	user, err := store.Users.FindByUsername(context.Background(), "REACT_Guru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected to find user, got nil")
	}
	if user.Name != "Alice" || !user.IsAdmin {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.ID != SeedUserID("react_guru") {
		t.Errorf("expected stable seed id, got %s", user.ID)
	}

	missing, err := store.Users.FindByUsername(context.Background(), "nonexistent")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown username, got %v, %v", missing, err)
	}
}

func TestUserRepository_CreateRejectsDuplicateUsername(t *testing.T) {
	store, teardown := setupStoreTest(t, true)
	defer teardown()
	ctx := context.Background()

	dup := &User{ID: uuid.NewString(), Username: "Tailwind_Fan", Name: "Impostor", JoinedAt: time.Now()}
	if err := store.Users.Create(ctx, dup); err == nil {
		t.Error("expected unique index violation")
	}
}

func TestUserRepository_AdminFlagAndDelete(t *testing.T) {
	store, teardown := setupStoreTest(t, false)
	defer teardown()
	ctx := context.Background()

	user := &User{ID: uuid.NewString(), Username: "newbie", Name: "Newbie", JoinedAt: time.Now()}
	if err := store.Users.Create(ctx, user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Users.SetAdmin(ctx, user.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found, _ := store.Users.GetByID(ctx, user.ID)
	if found == nil || !found.IsAdmin {
		t.Fatalf("expected admin flag to be set, got %+v", found)
	}

	n, err := store.Users.CountContent(ctx, user.ID)
	if err != nil || n != 0 {
		t.Errorf("expected no content, got %d, %v", n, err)
	}

	if err := store.Users.Delete(ctx, user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Users.Delete(ctx, user.ID); err == nil {
		t.Error("expected an error deleting a missing user")
	}
}

func TestUserRepository_GetAll(t *testing.T) {
	store, teardown := setupStoreTest(t, true)
	defer teardown()

	users, err := store.Users.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 4 || users[0].Username != "react_guru" {
		t.Errorf("expected 4 users oldest first, got %+v", users)
	}
}
