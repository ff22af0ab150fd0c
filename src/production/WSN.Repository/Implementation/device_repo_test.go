package implementation

import (
	"context"
	"testing"
	"time"
)

func TestAddUserDeviceMaintainsBothSides(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := NewKVDeviceRepository(NewMemoryKVStore()).WithClock(func() time.Time { return now })
	ctx := context.Background()

	device, err := repo.AddUserDevice(ctx, "u1", "dev-1", "Sensor Sala", "sala")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if device.Status != "active" || device.OwnerID != "u1" {
		t.Fatalf("unexpected device record %+v", device)
	}
	if !device.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, device.CreatedAt)
	}

	devices, err := repo.GetUserDevices(ctx, "u1")
	if err != nil {
		t.Fatalf("get user devices: %v", err)
	}
	if len(devices) != 1 || devices[0] != "dev-1" {
		t.Fatalf("unexpected user devices %v", devices)
	}

	users, err := repo.GetDeviceUsers(ctx, "dev-1")
	if err != nil {
		t.Fatalf("get device users: %v", err)
	}
	if len(users) != 1 || users[0] != "u1" {
		t.Fatalf("unexpected device users %v", users)
	}
}

func TestAddUserDeviceIsIdempotent(t *testing.T) {
	repo := NewKVDeviceRepository(NewMemoryKVStore())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.AddUserDevice(ctx, "u1", "dev-1", "Sensor", "sala"); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	devices, err := repo.GetUserDevices(ctx, "u1")
	if err != nil {
		t.Fatalf("get user devices: %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("expected one device after repeated adds, got %v", devices)
	}
	users, err := repo.GetDeviceUsers(ctx, "dev-1")
	if err != nil {
		t.Fatalf("get device users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected one subscriber after repeated adds, got %v", users)
	}
}

func TestGetListsForUnknownIDs(t *testing.T) {
	repo := NewKVDeviceRepository(NewMemoryKVStore())
	ctx := context.Background()

	devices, err := repo.GetUserDevices(ctx, "nobody")
	if err != nil {
		t.Fatalf("get user devices: %v", err)
	}
	if devices == nil || len(devices) != 0 {
		t.Fatalf("expected empty slice, got %v", devices)
	}

	users, err := repo.GetDeviceUsers(ctx, "dev-none")
	if err != nil {
		t.Fatalf("get device users: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("expected empty slice, got %v", users)
	}
}

func TestDeviceSubscribersAccumulate(t *testing.T) {
	repo := NewKVDeviceRepository(NewMemoryKVStore())
	ctx := context.Background()

	if _, err := repo.AddUserDevice(ctx, "u1", "dev-1", "Sensor", "sala"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := repo.AddUserDevice(ctx, "u2", "dev-1", "Sensor", "sala"); err != nil {
		t.Fatalf("add: %v", err)
	}

	users, err := repo.GetDeviceUsers(ctx, "dev-1")
	if err != nil {
		t.Fatalf("get device users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected both subscribers, got %v", users)
	}
}
