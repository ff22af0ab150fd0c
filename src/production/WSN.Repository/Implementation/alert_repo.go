package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// KVAlertRepository keeps one canonical record per alert under
// alert:<user>:<unix-nanos>. The user-scoped key prefix is the per-user
// index, so list and mutate operations touch a single copy.
type KVAlertRepository struct {
	store interfaces.KVStore
	now   func() time.Time
}

func NewKVAlertRepository(store interfaces.KVStore) *KVAlertRepository {
	return &KVAlertRepository{store: store, now: time.Now}
}

// WithClock replaces the wall clock, for deterministic tests.
func (r *KVAlertRepository) WithClock(now func() time.Time) *KVAlertRepository {
	r.now = now
	return r
}

func alertPrefix(userID string) string {
	return "alert:" + userID + ":"
}

func (r *KVAlertRepository) Create(ctx context.Context, userID, deviceID, alertType, message string, severity wsnmodels.Severity) (*wsnmodels.Alert, error) {
	ts := r.now().UTC()

	alert := wsnmodels.Alert{
		ID:                fmt.Sprintf("%s%020d", alertPrefix(userID), ts.UnixNano()),
		UserID:            userID,
		DeviceID:          deviceID,
		Type:              alertType,
		Message:           message,
		Severity:          severity,
		Timestamp:         ts,
		TriggerConditions: wsnmodels.TriggerConditionFor(alertType),
	}

	if err := r.store.Set(ctx, alert.ID, alert); err != nil {
		return nil, fmt.Errorf("failed to create alert for user %s: %w", userID, err)
	}
	return &alert, nil
}

func (r *KVAlertRepository) ListByUser(ctx context.Context, userID string, includeRead bool) ([]wsnmodels.Alert, error) {
	alerts, err := r.scanUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := alerts[:0]
	for _, alert := range alerts {
		if includeRead || !alert.Read {
			filtered = append(filtered, alert)
		}
	}

	sortAlertsNewestFirst(filtered)
	return filtered, nil
}

func (r *KVAlertRepository) MarkRead(ctx context.Context, userID, alertID string) (*wsnmodels.Alert, error) {
	alert, err := r.getOwned(ctx, userID, alertID)
	if err != nil {
		return nil, err
	}

	readAt := r.now().UTC()
	alert.Read = true
	alert.ReadAt = &readAt

	if err := r.store.Set(ctx, alert.ID, alert); err != nil {
		return nil, fmt.Errorf("failed to mark alert %s read: %w", alertID, err)
	}
	return alert, nil
}

func (r *KVAlertRepository) Acknowledge(ctx context.Context, userID, alertID string) (*wsnmodels.Alert, error) {
	alert, err := r.getOwned(ctx, userID, alertID)
	if err != nil {
		return nil, err
	}

	ackedAt := r.now().UTC()
	alert.Acknowledged = true
	alert.AcknowledgedAt = &ackedAt

	if err := r.store.Set(ctx, alert.ID, alert); err != nil {
		return nil, fmt.Errorf("failed to acknowledge alert %s: %w", alertID, err)
	}
	return alert, nil
}

func (r *KVAlertRepository) History(ctx context.Context, userID string, days int) (*wsnmodels.AlertHistory, error) {
	alerts, err := r.scanUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cutoff := r.now().UTC().AddDate(0, 0, -days)
	stats := make(map[string]int)

	recent := alerts[:0]
	for _, alert := range alerts {
		if alert.Timestamp.Before(cutoff) {
			continue
		}
		recent = append(recent, alert)
		stats[alert.Type]++
	}

	sortAlertsNewestFirst(recent)
	return &wsnmodels.AlertHistory{
		Alerts:      recent,
		Statistics:  stats,
		TotalAlerts: len(recent),
	}, nil
}

// getOwned fetches an alert and checks ownership. Missing and foreign alerts
// are indistinguishable to the caller.
func (r *KVAlertRepository) getOwned(ctx context.Context, userID, alertID string) (*wsnmodels.Alert, error) {
	if !strings.HasPrefix(alertID, "alert:") {
		return nil, interfaces.ErrNotFoundOrUnauthorized
	}

	var alert wsnmodels.Alert
	err := r.store.Get(ctx, alertID, &alert)
	if err != nil {
		if err == interfaces.ErrNotFound {
			return nil, interfaces.ErrNotFoundOrUnauthorized
		}
		return nil, err
	}
	if alert.UserID != userID {
		return nil, interfaces.ErrNotFoundOrUnauthorized
	}
	return &alert, nil
}

func (r *KVAlertRepository) scanUser(ctx context.Context, userID string) ([]wsnmodels.Alert, error) {
	entries, err := r.store.GetByPrefix(ctx, alertPrefix(userID))
	if err != nil {
		return nil, err
	}

	alerts := make([]wsnmodels.Alert, 0, len(entries))
	for _, entry := range entries {
		var alert wsnmodels.Alert
		if err := json.Unmarshal(entry.Value, &alert); err != nil {
			return nil, fmt.Errorf("corrupt alert at key %s: %w", entry.Key, err)
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

func sortAlertsNewestFirst(alerts []wsnmodels.Alert) {
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].Timestamp.After(alerts[j].Timestamp)
	})
}
