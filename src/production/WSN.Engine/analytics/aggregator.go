// Package analytics computes bucketed statistics over a device's sample
// series.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// Supported aggregation periods.
const (
	Period1h  = "1h"
	Period24h = "24h"
	Period7d  = "7d"
	Period30d = "30d"
)

const (
	trendIntervals    = 12
	trendIntervalSize = 2 * time.Hour
	timelineLimit     = 20
)

// Aggregator computes analytics and chart series from the metric store.
type Aggregator struct {
	metrics interfaces.MetricRepository
	now     func() time.Time
}

func New(metrics interfaces.MetricRepository) *Aggregator {
	return &Aggregator{metrics: metrics, now: time.Now}
}

// WithClock replaces the wall clock, for deterministic tests.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// PeriodDuration maps a period name to its length. Unknown periods fall back
// to 24h.
func PeriodDuration(period string) time.Duration {
	switch period {
	case Period1h:
		return time.Hour
	case Period24h:
		return 24 * time.Hour
	case Period7d:
		return 7 * 24 * time.Hour
	case Period30d:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Analytics aggregates the device's samples captured within the period.
func (a *Aggregator) Analytics(ctx context.Context, deviceID, period string) (*wsnmodels.Analytics, error) {
	from := a.now().Add(-PeriodDuration(period))
	samples, err := a.metrics.GetSamples(ctx, deviceID, &from, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples for device %s: %w", deviceID, err)
	}

	result := &wsnmodels.Analytics{
		PeakHours:  peakHours(samples),
		DataPoints: len(samples),
	}

	var confidenceSum float64
	for _, sample := range samples {
		if sample.PresenceDetected {
			result.TotalDetections++
		}
		confidenceSum += sample.ConfidenceLevel
	}

	if len(samples) > 0 {
		result.AverageConfidence = confidenceSum / float64(len(samples))
		result.PresencePercentage = float64(result.TotalDetections) / float64(len(samples)) * 100
	}
	return result, nil
}

// peakHours buckets detections by hour of day regardless of the requested
// period length.
func peakHours(samples []wsnmodels.MetricSample) []int {
	hist := make([]int, 24)
	for _, sample := range samples {
		if sample.PresenceDetected {
			hist[sample.Timestamp.Hour()]++
		}
	}
	return hist
}

// ChartData builds the dashboard chart series from a set of samples.
func (a *Aggregator) ChartData(samples []wsnmodels.MetricSample) *wsnmodels.ChartData {
	if len(samples) == 0 {
		return &wsnmodels.ChartData{
			HourlyActivity:    []wsnmodels.HourlyActivity{},
			ConfidenceTrend:   []wsnmodels.ConfidencePoint{},
			DetectionTimeline: []wsnmodels.DetectionEvent{},
		}
	}

	sorted := make([]wsnmodels.MetricSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	return &wsnmodels.ChartData{
		HourlyActivity:    hourlyActivity(sorted),
		ConfidenceTrend:   a.confidenceTrend(sorted),
		DetectionTimeline: detectionTimeline(sorted),
	}
}

func hourlyActivity(samples []wsnmodels.MetricSample) []wsnmodels.HourlyActivity {
	type bucket struct {
		detections    int
		confidenceSum float64
		count         int
	}

	buckets := make([]bucket, 24)
	for _, sample := range samples {
		hour := sample.Timestamp.Hour()
		if sample.PresenceDetected {
			buckets[hour].detections++
		}
		buckets[hour].confidenceSum += sample.ConfidenceLevel
		buckets[hour].count++
	}

	activity := make([]wsnmodels.HourlyActivity, 24)
	for hour, b := range buckets {
		activity[hour] = wsnmodels.HourlyActivity{
			Hour:       fmt.Sprintf("%d:00", hour),
			Detections: b.detections,
		}
		if b.count > 0 {
			activity[hour].AverageConfidence = round2(b.confidenceSum / float64(b.count))
		}
	}
	return activity
}

// confidenceTrend always covers twelve fixed 2-hour intervals ending at the
// current time, whatever period the caller asked for elsewhere.
func (a *Aggregator) confidenceTrend(samples []wsnmodels.MetricSample) []wsnmodels.ConfidencePoint {
	now := a.now()
	trend := make([]wsnmodels.ConfidencePoint, 0, trendIntervals)

	for i := trendIntervals - 1; i >= 0; i-- {
		intervalStart := now.Add(-time.Duration(i+1) * trendIntervalSize)
		intervalEnd := now.Add(-time.Duration(i) * trendIntervalSize)

		var confidenceSum float64
		var count, detections int
		for _, sample := range samples {
			if sample.Timestamp.Before(intervalStart) || !sample.Timestamp.Before(intervalEnd) {
				continue
			}
			confidenceSum += sample.ConfidenceLevel
			count++
			if sample.PresenceDetected {
				detections++
			}
		}

		point := wsnmodels.ConfidencePoint{
			Time:       intervalEnd.Format("15:04"),
			Detections: detections,
		}
		if count > 0 {
			point.Confidence = round2(confidenceSum / float64(count))
		}
		trend = append(trend, point)
	}
	return trend
}

// detectionTimeline returns the last 20 samples with presence detected, in
// chronological order.
func detectionTimeline(samples []wsnmodels.MetricSample) []wsnmodels.DetectionEvent {
	var detections []wsnmodels.MetricSample
	for _, sample := range samples {
		if sample.PresenceDetected {
			detections = append(detections, sample)
		}
	}
	if len(detections) > timelineLimit {
		detections = detections[len(detections)-timelineLimit:]
	}

	timeline := make([]wsnmodels.DetectionEvent, 0, len(detections))
	for _, sample := range detections {
		location := sample.RoomLocation
		if location == "" {
			location = "Desconhecido"
		}
		timeline = append(timeline, wsnmodels.DetectionEvent{
			Timestamp:  sample.Timestamp,
			Time:       sample.Timestamp.Format("15:04:05"),
			Confidence: sample.ConfidenceLevel,
			DeviceID:   sample.DeviceID,
			Location:   location,
		})
	}
	return timeline
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
