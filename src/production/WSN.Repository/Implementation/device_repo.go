package implementation

import (
	"context"
	"fmt"
	"time"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// KVDeviceRepository maintains both sides of the user/device association:
// user_devices:<user> lists a user's device IDs, device_users:<device> lists
// a device's subscribers, and device:<id> holds the info record.
type KVDeviceRepository struct {
	store interfaces.KVStore
	now   func() time.Time
}

func NewKVDeviceRepository(store interfaces.KVStore) *KVDeviceRepository {
	return &KVDeviceRepository{store: store, now: time.Now}
}

// WithClock replaces the wall clock, for deterministic tests.
func (r *KVDeviceRepository) WithClock(now func() time.Time) *KVDeviceRepository {
	r.now = now
	return r
}

func userDevicesKey(userID string) string {
	return "user_devices:" + userID
}

func deviceUsersKey(deviceID string) string {
	return "device_users:" + deviceID
}

func deviceKey(deviceID string) string {
	return "device:" + deviceID
}

func (r *KVDeviceRepository) AddUserDevice(ctx context.Context, userID, deviceID, deviceName, location string) (*wsnmodels.Device, error) {
	if err := r.appendUnique(ctx, userDevicesKey(userID), deviceID); err != nil {
		return nil, fmt.Errorf("failed to add device %s for user %s: %w", deviceID, userID, err)
	}
	if err := r.appendUnique(ctx, deviceUsersKey(deviceID), userID); err != nil {
		return nil, fmt.Errorf("failed to subscribe user %s to device %s: %w", userID, deviceID, err)
	}

	device := wsnmodels.Device{
		ID:        deviceID,
		Name:      deviceName,
		Location:  location,
		OwnerID:   userID,
		CreatedAt: r.now().UTC(),
		Status:    "active",
	}
	if err := r.store.Set(ctx, deviceKey(deviceID), device); err != nil {
		return nil, fmt.Errorf("failed to store device %s: %w", deviceID, err)
	}
	return &device, nil
}

func (r *KVDeviceRepository) GetUserDevices(ctx context.Context, userID string) ([]string, error) {
	return r.getList(ctx, userDevicesKey(userID))
}

func (r *KVDeviceRepository) GetDeviceUsers(ctx context.Context, deviceID string) ([]string, error) {
	return r.getList(ctx, deviceUsersKey(deviceID))
}

func (r *KVDeviceRepository) GetDevice(ctx context.Context, deviceID string) (*wsnmodels.Device, error) {
	var device wsnmodels.Device
	if err := r.store.Get(ctx, deviceKey(deviceID), &device); err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *KVDeviceRepository) getList(ctx context.Context, key string) ([]string, error) {
	var ids []string
	err := r.store.Get(ctx, key, &ids)
	if err != nil {
		if err == interfaces.ErrNotFound {
			return []string{}, nil
		}
		return nil, err
	}
	return ids, nil
}

func (r *KVDeviceRepository) appendUnique(ctx context.Context, key, id string) error {
	ids, err := r.getList(ctx, key)
	if err != nil {
		return err
	}
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	return r.store.Set(ctx, key, append(ids, id))
}
