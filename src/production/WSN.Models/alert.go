package wsnmodels

import "time"

// Severity is the qualitative importance of an alert.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Alert trigger types raised by the trigger engine.
const (
	AlertTypePresence     = "presence_detected"
	AlertTypeSignalLoss   = "signal_loss"
	AlertTypeUnauthorized = "unauthorized_presence"
	AlertTypeInactivity   = "inactivity"
)

// Alert is a system-generated notification for one user. Only the read and
// acknowledged flags ever change after creation, each monotonically
// false to true.
type Alert struct {
	ID                string     `bson:"id" json:"id"`
	UserID            string     `bson:"user_id" json:"user_id"`
	DeviceID          string     `bson:"device_id" json:"device_id"`
	Type              string     `bson:"type" json:"type"`
	Message           string     `bson:"message" json:"message"`
	Severity          Severity   `bson:"severity" json:"severity"`
	Timestamp         time.Time  `bson:"timestamp" json:"timestamp"`
	Read              bool       `bson:"read" json:"read"`
	Acknowledged      bool       `bson:"acknowledged" json:"acknowledged"`
	ReadAt            *time.Time `bson:"read_at,omitempty" json:"read_at,omitempty"`
	AcknowledgedAt    *time.Time `bson:"acknowledged_at,omitempty" json:"acknowledged_at,omitempty"`
	TriggerConditions string     `bson:"trigger_conditions" json:"trigger_conditions"`
}

// TriggerResult is the outcome of a single trigger check. ShouldAlert false
// means the remaining fields are meaningless.
type TriggerResult struct {
	ShouldAlert bool
	Type        string
	Message     string
	Severity    Severity
}

// AlertHistory is the alert history response for one user: the recent alerts
// plus a per-type occurrence count.
type AlertHistory struct {
	Alerts      []Alert        `json:"history"`
	Statistics  map[string]int `json:"statistics"`
	TotalAlerts int            `json:"total_alerts"`
}

// TriggerConditionFor describes the condition behind an alert type.
func TriggerConditionFor(alertType string) string {
	switch alertType {
	case AlertTypePresence:
		return "Confidence level above threshold"
	case AlertTypeSignalLoss:
		return "RSSI below -90 dBm"
	case AlertTypeUnauthorized:
		return "Presence detected between 2-5 AM"
	case AlertTypeInactivity:
		return "No movement detected for extended period"
	default:
		return "Unknown trigger condition"
	}
}
