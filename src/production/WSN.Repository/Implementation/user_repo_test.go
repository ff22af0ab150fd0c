package implementation

import (
	"context"
	"testing"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

func TestUserRoundTripKeepsPasswordHash(t *testing.T) {
	repo := NewKVUserRepository(NewMemoryKVStore())
	ctx := context.Background()

	user := wsnmodels.User{
		ID:           "u1",
		Email:        "ana@example.com",
		Name:         "Ana",
		PasswordHash: "$2a$10$fakehash",
		Settings:     wsnmodels.DefaultUserSettings(),
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}

	// The hash is hidden from API JSON but must survive storage.
	loaded, err := repo.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.PasswordHash != user.PasswordHash {
		t.Fatalf("password hash lost in round trip: %q", loaded.PasswordHash)
	}
	if !loaded.Settings.NotificationsEnabled || loaded.Settings.AlertThreshold != 50 {
		t.Fatalf("unexpected settings %+v", loaded.Settings)
	}
}

func TestGetUserByEmail(t *testing.T) {
	repo := NewKVUserRepository(NewMemoryKVStore())
	ctx := context.Background()

	user := wsnmodels.User{ID: "u1", Email: "ana@example.com", Name: "Ana", PasswordHash: "h"}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := repo.GetUserByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if loaded.ID != "u1" {
		t.Fatalf("expected u1, got %s", loaded.ID)
	}

	if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); err != interfaces.ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown email, got %v", err)
	}
}

func TestUpdateUserPersistsSettings(t *testing.T) {
	repo := NewKVUserRepository(NewMemoryKVStore())
	ctx := context.Background()

	user := wsnmodels.User{ID: "u1", Email: "ana@example.com", PasswordHash: "h", Settings: wsnmodels.DefaultUserSettings()}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}

	user.Settings.AlertThreshold = 75
	user.Settings.NotificationsEnabled = false
	if err := repo.UpdateUser(ctx, user); err != nil {
		t.Fatalf("update: %v", err)
	}

	loaded, err := repo.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Settings.AlertThreshold != 75 || loaded.Settings.NotificationsEnabled {
		t.Fatalf("settings update not persisted: %+v", loaded.Settings)
	}
	if loaded.PasswordHash != "h" {
		t.Fatalf("password hash lost on update")
	}
}
