package interfaces

import (
	"context"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
)

// DeviceRepository maintains the many-to-many association between users and
// devices plus a per-device info record.
type DeviceRepository interface {
	AddUserDevice(ctx context.Context, userID, deviceID, deviceName, location string) (*wsnmodels.Device, error)

	// GetUserDevices lists the device IDs associated with a user. An
	// unknown user yields an empty list, not an error.
	GetUserDevices(ctx context.Context, userID string) ([]string, error)

	// GetDeviceUsers lists the user IDs subscribed to a device's alerts.
	GetDeviceUsers(ctx context.Context, deviceID string) ([]string, error)

	GetDevice(ctx context.Context, deviceID string) (*wsnmodels.Device, error)
}
