// Package signal derives presence metrics from raw radio readings. The
// functions are pure and advisory: the ingest path stores whatever the device
// supplied and only falls back to these formulas for fields it left out.
package signal

import "math"

// Derived bundles every value computable from a single reading.
type Derived struct {
	PresenceDetected bool    `json:"presence_detected"`
	ConfidenceLevel  float64 `json:"confidence_level"`
	SignalStrength   float64 `json:"signal_strength"`
	MovementDetected bool    `json:"movement_detected"`
}

// DetectPresence reports presence when the RSSI is above -70 dBm.
func DetectPresence(rssi float64) bool {
	return rssi > -70
}

// ConfidenceLevel maps RSSI to a 0-100 certainty score.
func ConfidenceLevel(rssi float64) float64 {
	return clamp(((rssi+100)/50)*100, 0, 100)
}

// NormalizeStrength maps RSSI to a 0-100 signal strength scale.
func NormalizeStrength(rssi float64) float64 {
	return clamp((rssi+100)*2, 0, 100)
}

// DetectMovement reports movement when the RSSI variation between readings
// exceeds 5 dBm. The variation must be supplied by the caller; no history is
// kept here.
func DetectMovement(rssiVariation float64) bool {
	return math.Abs(rssiVariation) > 5
}

// Derive computes the full derived view of one reading.
func Derive(rssi, rssiVariation float64) Derived {
	return Derived{
		PresenceDetected: DetectPresence(rssi),
		ConfidenceLevel:  ConfidenceLevel(rssi),
		SignalStrength:   NormalizeStrength(rssi),
		MovementDetected: DetectMovement(rssiVariation),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
