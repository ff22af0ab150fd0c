// Package triggers evaluates the system-defined alert conditions against
// every captured sample.
package triggers

import (
	"context"
	"fmt"
	"time"

	logger "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Logger"
	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// DefaultAlertThreshold is used when a user has no threshold configured.
const DefaultAlertThreshold = 50

// Unauthorized-hours window, inclusive.
const (
	unauthorizedStartHour = 2
	unauthorizedEndHour   = 5
)

// Engine runs the fixed trigger checks for every user subscribed to a
// device and records the resulting alerts.
type Engine struct {
	devices interfaces.DeviceRepository
	users   interfaces.UserRepository
	alerts  interfaces.AlertRepository
	logger  *logger.Logger
	now     func() time.Time
}

func New(devices interfaces.DeviceRepository, users interfaces.UserRepository, alerts interfaces.AlertRepository, log *logger.Logger) *Engine {
	return &Engine{
		devices: devices,
		users:   users,
		alerts:  alerts,
		logger:  log.WithComponent("trigger-engine"),
		now:     time.Now,
	}
}

// WithClock replaces the wall clock, for deterministic tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// CheckTriggers runs all trigger checks for every subscriber of the device
// with notifications enabled. Checks are independent: one sample can raise
// several alerts for the same user. A failure while processing one user is
// logged and does not abort the remaining users.
func (e *Engine) CheckTriggers(ctx context.Context, deviceID string, sample wsnmodels.MetricSample) ([]wsnmodels.Alert, error) {
	userIDs, err := e.devices.GetDeviceUsers(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers of device %s: %w", deviceID, err)
	}

	var created []wsnmodels.Alert
	for _, userID := range userIDs {
		alerts, err := e.checkUser(ctx, userID, deviceID, sample)
		if err != nil {
			e.logger.Logger.Error().Err(err).Str("user_id", userID).Str("device_id", deviceID).Msg("Trigger checks failed for user, continuing")
			continue
		}
		created = append(created, alerts...)
	}
	return created, nil
}

func (e *Engine) checkUser(ctx context.Context, userID, deviceID string, sample wsnmodels.MetricSample) ([]wsnmodels.Alert, error) {
	user, err := e.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if !user.Settings.NotificationsEnabled {
		return nil, nil
	}

	results := []wsnmodels.TriggerResult{
		e.checkPresence(sample, user.Settings),
		e.checkInactivity(deviceID, user.Settings),
		e.checkSignalLoss(sample),
		e.checkUnauthorizedPresence(sample),
	}

	var created []wsnmodels.Alert
	for _, result := range results {
		if !result.ShouldAlert {
			continue
		}
		alert, err := e.alerts.Create(ctx, userID, deviceID, result.Type, result.Message, result.Severity)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s alert: %w", result.Type, err)
		}
		e.logger.Logger.Info().Str("type", result.Type).Str("user_id", userID).Str("device_id", deviceID).Msg("Alert created")
		created = append(created, *alert)
	}
	return created, nil
}

func (e *Engine) checkPresence(sample wsnmodels.MetricSample, settings wsnmodels.UserSettings) wsnmodels.TriggerResult {
	threshold := settings.AlertThreshold
	if threshold == 0 {
		threshold = DefaultAlertThreshold
	}

	if sample.PresenceDetected && sample.ConfidenceLevel > threshold {
		return wsnmodels.TriggerResult{
			ShouldAlert: true,
			Type:        wsnmodels.AlertTypePresence,
			Message:     fmt.Sprintf("Presença detectada com %v%% de confiança", sample.ConfidenceLevel),
			Severity:    wsnmodels.SeverityMedium,
		}
	}
	return wsnmodels.TriggerResult{}
}

// checkInactivity is an extension point. Historical-gap detection needs a
// sample-history scan that is not implemented yet, so it never fires.
func (e *Engine) checkInactivity(_ string, _ wsnmodels.UserSettings) wsnmodels.TriggerResult {
	return wsnmodels.TriggerResult{}
}

func (e *Engine) checkSignalLoss(sample wsnmodels.MetricSample) wsnmodels.TriggerResult {
	if sample.RSSI < -90 {
		return wsnmodels.TriggerResult{
			ShouldAlert: true,
			Type:        wsnmodels.AlertTypeSignalLoss,
			Message:     "Sinal Wi-Fi fraco ou perdido no sensor",
			Severity:    wsnmodels.SeverityHigh,
		}
	}
	return wsnmodels.TriggerResult{}
}

func (e *Engine) checkUnauthorizedPresence(sample wsnmodels.MetricSample) wsnmodels.TriggerResult {
	hour := e.now().Hour()
	if sample.PresenceDetected && hour >= unauthorizedStartHour && hour <= unauthorizedEndHour {
		return wsnmodels.TriggerResult{
			ShouldAlert: true,
			Type:        wsnmodels.AlertTypeUnauthorized,
			Message:     "Presença detectada em horário incomum (2:00-5:00)",
			Severity:    wsnmodels.SeverityHigh,
		}
	}
	return wsnmodels.TriggerResult{}
}
