package api_models

import (
	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
)

// SignupRequest creates a user account with default settings.
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CaptureRequest is the device-origin metric capture payload.
type CaptureRequest struct {
	DeviceID string              `json:"device_id" binding:"required"`
	Data     wsnmodels.RawSample `json:"data"`
}

// SettingsUpdate is a partial settings merge; nil fields are left untouched.
type SettingsUpdate struct {
	NotificationsEnabled *bool    `json:"notifications_enabled,omitempty"`
	AlertThreshold       *float64 `json:"alert_threshold,omitempty"`
}

// AddDeviceRequest registers a device for the authenticated user.
type AddDeviceRequest struct {
	DeviceID   string `json:"device_id" binding:"required"`
	DeviceName string `json:"device_name"`
	Location   string `json:"location"`
}
