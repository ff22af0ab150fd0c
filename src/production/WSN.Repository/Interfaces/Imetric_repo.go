package interfaces

import (
	"context"
	"time"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
)

// MetricRepository owns the per-device time series and the latest-sample
// pointer. Samples are append-only; the latest pointer is overwritten on
// every capture regardless of the sample's own timestamp.
type MetricRepository interface {
	// Capture normalizes a raw device sample (substituting defaults for
	// missing fields), appends it to the device's series and overwrites
	// the latest pointer. It fails only on store-level errors.
	Capture(ctx context.Context, deviceID string, raw wsnmodels.RawSample) (*wsnmodels.MetricSample, error)

	// GetSamples returns samples for a device, newest first. Either bound
	// may be nil.
	GetSamples(ctx context.Context, deviceID string, from, to *time.Time) ([]wsnmodels.MetricSample, error)

	// GetLatest returns the most recently captured sample for a device, or
	// ErrNotFound when the device has never reported.
	GetLatest(ctx context.Context, deviceID string) (*wsnmodels.MetricSample, error)
}
