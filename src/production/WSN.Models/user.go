package wsnmodels

import "time"

// UserSettings control how the trigger engine notifies a user.
type UserSettings struct {
	NotificationsEnabled bool    `bson:"notifications_enabled" json:"notifications_enabled"`
	AlertThreshold       float64 `bson:"alert_threshold" json:"alert_threshold"`
}

// DefaultUserSettings are attached to every new account.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		NotificationsEnabled: true,
		AlertThreshold:       50,
	}
}

// User represents a user in the system.
type User struct {
	ID           string       `bson:"id" json:"id"`
	Email        string       `bson:"email" json:"email"`
	Name         string       `bson:"name" json:"name"`
	PasswordHash string       `bson:"password_hash" json:"-"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt    *time.Time   `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	Settings     UserSettings `bson:"settings" json:"settings"`
}
