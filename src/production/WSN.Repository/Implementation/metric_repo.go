package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// Defaults substituted for fields a device left out of its capture payload.
const (
	defaultRSSI         = -50
	defaultRoomLocation = "unknown"
)

// KVMetricRepository stores each sample under metric:<device>:<unix-nanos>
// and the latest pointer under latest:<device>.
type KVMetricRepository struct {
	store interfaces.KVStore
	now   func() time.Time
}

func NewKVMetricRepository(store interfaces.KVStore) *KVMetricRepository {
	return &KVMetricRepository{store: store, now: time.Now}
}

// WithClock replaces the wall clock, for deterministic tests.
func (r *KVMetricRepository) WithClock(now func() time.Time) *KVMetricRepository {
	r.now = now
	return r
}

func metricKey(deviceID string, ts time.Time) string {
	return fmt.Sprintf("metric:%s:%020d", deviceID, ts.UnixNano())
}

func latestKey(deviceID string) string {
	return "latest:" + deviceID
}

func (r *KVMetricRepository) Capture(ctx context.Context, deviceID string, raw wsnmodels.RawSample) (*wsnmodels.MetricSample, error) {
	ts := r.now().UTC()

	sample := wsnmodels.MetricSample{
		ID:               metricKey(deviceID, ts),
		DeviceID:         deviceID,
		Timestamp:        ts,
		RSSI:             defaultRSSI,
		SignalStrength:   0,
		PresenceDetected: false,
		ConfidenceLevel:  0,
		RoomLocation:     defaultRoomLocation,
		RawData:          raw.Extra,
	}
	if raw.RSSI != nil {
		sample.RSSI = *raw.RSSI
	}
	if raw.SignalStrength != nil {
		sample.SignalStrength = *raw.SignalStrength
	}
	if raw.PresenceDetected != nil {
		sample.PresenceDetected = *raw.PresenceDetected
	}
	if raw.ConfidenceLevel != nil {
		sample.ConfidenceLevel = *raw.ConfidenceLevel
	}
	if raw.RoomLocation != "" {
		sample.RoomLocation = raw.RoomLocation
	}

	if err := r.store.Set(ctx, sample.ID, sample); err != nil {
		return nil, fmt.Errorf("capture failed for device %s: %w", deviceID, err)
	}

	// Latest pointer is last-write-wins by arrival order.
	if err := r.store.Set(ctx, latestKey(deviceID), sample); err != nil {
		return nil, fmt.Errorf("capture failed for device %s: %w", deviceID, err)
	}

	return &sample, nil
}

func (r *KVMetricRepository) GetSamples(ctx context.Context, deviceID string, from, to *time.Time) ([]wsnmodels.MetricSample, error) {
	entries, err := r.store.GetByPrefix(ctx, "metric:"+deviceID+":")
	if err != nil {
		return nil, err
	}

	samples := make([]wsnmodels.MetricSample, 0, len(entries))
	for _, entry := range entries {
		var sample wsnmodels.MetricSample
		if err := json.Unmarshal(entry.Value, &sample); err != nil {
			return nil, fmt.Errorf("corrupt sample at key %s: %w", entry.Key, err)
		}
		if from != nil && sample.Timestamp.Before(*from) {
			continue
		}
		if to != nil && sample.Timestamp.After(*to) {
			continue
		}
		samples = append(samples, sample)
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Timestamp.After(samples[j].Timestamp)
	})
	return samples, nil
}

func (r *KVMetricRepository) GetLatest(ctx context.Context, deviceID string) (*wsnmodels.MetricSample, error) {
	var sample wsnmodels.MetricSample
	if err := r.store.Get(ctx, latestKey(deviceID), &sample); err != nil {
		return nil, err
	}
	return &sample, nil
}
