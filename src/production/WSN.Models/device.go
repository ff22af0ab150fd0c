package wsnmodels

import "time"

// Device represents a registered sensing device.
type Device struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Location  string    `bson:"location" json:"location"`
	OwnerID   string    `bson:"owner_id" json:"owner_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	Status    string    `bson:"status" json:"status"`
}

// DeviceSummary is the per-device section of the dashboard.
type DeviceSummary struct {
	DeviceID   string        `json:"device_id"`
	Status     string        `json:"status"`
	LatestData *MetricSample `json:"latest_data"`
	Analytics  *Analytics    `json:"analytics"`
}

// DashboardSummary holds the aggregate counters across a user's devices.
type DashboardSummary struct {
	TotalDevices      int       `json:"total_devices"`
	OnlineDevices     int       `json:"online_devices"`
	ActiveAlerts      int       `json:"active_alerts"`
	TotalDetections   int       `json:"total_detections"`
	AverageConfidence float64   `json:"average_confidence"`
	LastUpdate        time.Time `json:"last_update"`
}

// DashboardView is the composed dashboard response.
type DashboardView struct {
	Devices []DeviceSummary  `json:"devices"`
	Alerts  []Alert          `json:"alerts"`
	Summary DashboardSummary `json:"summary"`
	Charts  *ChartData       `json:"charts,omitempty"`
	Period  string           `json:"period"`
}
