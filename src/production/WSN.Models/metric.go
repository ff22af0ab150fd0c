package wsnmodels

import "time"

// RawSample is the payload a sensing device reports with a capture request.
// Every field is optional; the ingest path substitutes defaults for anything
// the device left out.
type RawSample struct {
	RSSI             *float64               `json:"rssi,omitempty"`
	SignalStrength   *float64               `json:"signal_strength,omitempty"`
	PresenceDetected *bool                  `json:"presence_detected,omitempty"`
	ConfidenceLevel  *float64               `json:"confidence_level,omitempty"`
	RoomLocation     string                 `json:"room_location,omitempty"`
	Extra            map[string]interface{} `json:"extra,omitempty"`
}

// MetricSample is one canonical, immutable record in a device's time series.
type MetricSample struct {
	ID               string                 `bson:"id" json:"id"`
	DeviceID         string                 `bson:"device_id" json:"device_id"`
	Timestamp        time.Time              `bson:"timestamp" json:"timestamp"`
	RSSI             float64                `bson:"rssi" json:"rssi"`
	SignalStrength   float64                `bson:"signal_strength" json:"signal_strength"`
	PresenceDetected bool                   `bson:"presence_detected" json:"presence_detected"`
	ConfidenceLevel  float64                `bson:"confidence_level" json:"confidence_level"`
	RoomLocation     string                 `bson:"room_location" json:"room_location"`
	RawData          map[string]interface{} `bson:"raw_data" json:"raw_data"`
}

// Analytics is the aggregate view over one device's samples for a period.
type Analytics struct {
	TotalDetections    int     `json:"total_detections"`
	AverageConfidence  float64 `json:"average_confidence"`
	PresencePercentage float64 `json:"presence_percentage"`
	PeakHours          []int   `json:"peak_hours"`
	DataPoints         int     `json:"data_points"`
}

// HourlyActivity is one hour-of-day bucket of the activity chart.
type HourlyActivity struct {
	Hour              string  `json:"hour"`
	Detections        int     `json:"detections"`
	AverageConfidence float64 `json:"average_confidence"`
}

// ConfidencePoint is one interval of the confidence trend chart.
type ConfidencePoint struct {
	Time       string  `json:"time"`
	Confidence float64 `json:"confidence"`
	Detections int     `json:"detections"`
}

// DetectionEvent is one row of the recent-detections timeline.
type DetectionEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Time       string    `json:"time"`
	Confidence float64   `json:"confidence"`
	DeviceID   string    `json:"device_id"`
	Location   string    `json:"location"`
}

// ChartData bundles the three dashboard chart series.
type ChartData struct {
	HourlyActivity    []HourlyActivity  `json:"hourly_activity"`
	ConfidenceTrend   []ConfidencePoint `json:"confidence_trend"`
	DetectionTimeline []DetectionEvent  `json:"detection_timeline"`
}
