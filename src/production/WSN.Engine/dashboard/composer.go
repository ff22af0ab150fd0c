// Package dashboard merges latest device state, alerts and analytics into
// one response.
package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Engine/analytics"
	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

const recentAlertLimit = 10

// Composer assembles the dashboard view for one user.
type Composer struct {
	metrics    interfaces.MetricRepository
	devices    interfaces.DeviceRepository
	alerts     interfaces.AlertRepository
	aggregator *analytics.Aggregator
	now        func() time.Time
}

func New(metrics interfaces.MetricRepository, devices interfaces.DeviceRepository, alerts interfaces.AlertRepository, aggregator *analytics.Aggregator) *Composer {
	return &Composer{
		metrics:    metrics,
		devices:    devices,
		alerts:     alerts,
		aggregator: aggregator,
		now:        time.Now,
	}
}

// WithClock replaces the wall clock, for deterministic tests.
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.now = now
	return c
}

// Dashboard builds the composed view. With no explicit device the user's
// whole device list is used; a user without devices gets a zeroed summary,
// not an error.
func (c *Composer) Dashboard(ctx context.Context, userID, deviceID, period string) (*wsnmodels.DashboardView, error) {
	targets := []string{deviceID}
	if deviceID == "" {
		userDevices, err := c.devices.GetUserDevices(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list devices for user %s: %w", userID, err)
		}
		targets = userDevices
	}

	view := &wsnmodels.DashboardView{
		Devices: []wsnmodels.DeviceSummary{},
		Alerts:  []wsnmodels.Alert{},
		Period:  period,
	}
	if len(targets) == 0 {
		return view, nil
	}

	var allSamples []wsnmodels.MetricSample
	for _, device := range targets {
		samples, err := c.metrics.GetSamples(ctx, device, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load samples for device %s: %w", device, err)
		}
		allSamples = append(allSamples, samples...)

		summary := wsnmodels.DeviceSummary{
			DeviceID: device,
			Status:   "offline",
		}
		if latest, err := c.metrics.GetLatest(ctx, device); err == nil {
			summary.Status = "online"
			summary.LatestData = latest
		}
		if deviceAnalytics, err := c.aggregator.Analytics(ctx, device, period); err == nil {
			summary.Analytics = deviceAnalytics
		}
		view.Devices = append(view.Devices, summary)
	}

	alerts, err := c.alerts.ListByUser(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts for user %s: %w", userID, err)
	}
	if len(alerts) > recentAlertLimit {
		alerts = alerts[:recentAlertLimit]
	}
	view.Alerts = alerts

	view.Summary = c.summarize(allSamples, alerts, view.Devices)
	view.Charts = c.aggregator.ChartData(allSamples)
	return view, nil
}

func (c *Composer) summarize(samples []wsnmodels.MetricSample, alerts []wsnmodels.Alert, devices []wsnmodels.DeviceSummary) wsnmodels.DashboardSummary {
	summary := wsnmodels.DashboardSummary{
		TotalDevices: len(devices),
		LastUpdate:   c.now().UTC(),
	}

	for _, device := range devices {
		if device.Status == "online" {
			summary.OnlineDevices++
		}
	}
	for _, alert := range alerts {
		if !alert.Acknowledged {
			summary.ActiveAlerts++
		}
	}

	var confidenceSum float64
	for _, sample := range samples {
		if sample.PresenceDetected {
			summary.TotalDetections++
		}
		confidenceSum += sample.ConfidenceLevel
	}
	if len(samples) > 0 {
		avg := confidenceSum / float64(len(samples))
		summary.AverageConfidence = math.Round(avg*100) / 100
	}
	return summary
}

// DetailedMetrics is the response of the detailed per-device metrics view.
type DetailedMetrics struct {
	Metrics   []wsnmodels.MetricSample `json:"metrics"`
	Analytics *wsnmodels.Analytics     `json:"analytics"`
	DeviceID  string                   `json:"device_id"`
	Start     time.Time                `json:"start"`
	End       time.Time                `json:"end"`
}

// GetDetailedMetrics returns a device's samples for an explicit range. The
// device must belong to the requesting user.
func (c *Composer) GetDetailedMetrics(ctx context.Context, userID, deviceID string, start, end time.Time) (*DetailedMetrics, error) {
	userDevices, err := c.devices.GetUserDevices(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices for user %s: %w", userID, err)
	}
	owned := false
	for _, device := range userDevices {
		if device == deviceID {
			owned = true
			break
		}
	}
	if !owned {
		return nil, interfaces.ErrNotFoundOrUnauthorized
	}

	samples, err := c.metrics.GetSamples(ctx, deviceID, &start, &end)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples for device %s: %w", deviceID, err)
	}

	detailed := &DetailedMetrics{
		Metrics:  samples,
		DeviceID: deviceID,
		Start:    start,
		End:      end,
	}
	if deviceAnalytics, err := c.aggregator.Analytics(ctx, deviceID, analytics.Period24h); err == nil {
		detailed.Analytics = deviceAnalytics
	}
	return detailed, nil
}
