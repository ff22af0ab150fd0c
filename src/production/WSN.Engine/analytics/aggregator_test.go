package analytics

import (
	"context"
	"testing"
	"time"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
	implementation "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Implementation"
)

func TestPeriodDuration(t *testing.T) {
	cases := map[string]time.Duration{
		Period1h:  time.Hour,
		Period24h: 24 * time.Hour,
		Period7d:  7 * 24 * time.Hour,
		Period30d: 30 * 24 * time.Hour,
		"bogus":   24 * time.Hour,
		"":        24 * time.Hour,
	}
	for period, want := range cases {
		if got := PeriodDuration(period); got != want {
			t.Fatalf("period %q: expected %v, got %v", period, want, got)
		}
	}
}

func TestAnalyticsEmptyDevice(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := implementation.NewMemoryKVStore()
	metrics := implementation.NewKVMetricRepository(store)
	agg := New(metrics).WithClock(func() time.Time { return now })

	result, err := agg.Analytics(context.Background(), "dev-none", Period24h)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if result.DataPoints != 0 || result.TotalDetections != 0 {
		t.Fatalf("expected zeroed analytics, got %+v", result)
	}
	if result.AverageConfidence != 0 || result.PresencePercentage != 0 {
		t.Fatalf("expected zero averages on empty series, got %+v", result)
	}
	if len(result.PeakHours) != 24 {
		t.Fatalf("expected 24 peak hour buckets, got %d", len(result.PeakHours))
	}
}

func TestAnalyticsAggregation(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := implementation.NewMemoryKVStore()

	captureAt := now.Add(-4 * time.Hour)
	metrics := implementation.NewKVMetricRepository(store).WithClock(func() time.Time {
		captureAt = captureAt.Add(30 * time.Minute)
		return captureAt
	})

	ctx := context.Background()
	presence := []bool{true, true, false, false}
	confidences := []float64{80, 60, 40, 20}
	for i := range presence {
		p := presence[i]
		c := confidences[i]
		if _, err := metrics.Capture(ctx, "dev-1", wsnmodels.RawSample{
			PresenceDetected: &p,
			ConfidenceLevel:  &c,
		}); err != nil {
			t.Fatalf("capture %d: %v", i, err)
		}
	}

	agg := New(metrics).WithClock(func() time.Time { return now })
	result, err := agg.Analytics(ctx, "dev-1", Period24h)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if result.DataPoints != 4 {
		t.Fatalf("expected 4 data points, got %d", result.DataPoints)
	}
	if result.TotalDetections != 2 {
		t.Fatalf("expected 2 detections, got %d", result.TotalDetections)
	}
	if result.AverageConfidence != 50 {
		t.Fatalf("expected average confidence 50, got %v", result.AverageConfidence)
	}
	if result.PresencePercentage != 50 {
		t.Fatalf("expected 50%% presence, got %v", result.PresencePercentage)
	}

	var peakTotal int
	for _, count := range result.PeakHours {
		peakTotal += count
	}
	if peakTotal != 2 {
		t.Fatalf("expected peak hour histogram to count 2 detections, got %d", peakTotal)
	}
}

func TestAnalyticsRespectsPeriodWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := implementation.NewMemoryKVStore()

	old := now.Add(-2 * time.Hour)
	metrics := implementation.NewKVMetricRepository(store).WithClock(func() time.Time { return old })
	ctx := context.Background()
	if _, err := metrics.Capture(ctx, "dev-1", wsnmodels.RawSample{}); err != nil {
		t.Fatalf("capture: %v", err)
	}

	agg := New(metrics).WithClock(func() time.Time { return now })
	result, err := agg.Analytics(ctx, "dev-1", Period1h)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if result.DataPoints != 0 {
		t.Fatalf("expected sample outside the 1h window to be excluded, got %d points", result.DataPoints)
	}
}

func TestChartDataEmpty(t *testing.T) {
	agg := New(nil)
	charts := agg.ChartData(nil)
	if charts.HourlyActivity == nil || charts.ConfidenceTrend == nil || charts.DetectionTimeline == nil {
		t.Fatalf("expected empty slices, not nil, got %+v", charts)
	}
	if len(charts.HourlyActivity) != 0 || len(charts.ConfidenceTrend) != 0 || len(charts.DetectionTimeline) != 0 {
		t.Fatalf("expected no chart rows for no samples")
	}
}

func TestConfidenceTrendHasTwelveBuckets(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	agg := New(nil).WithClock(func() time.Time { return now })

	samples := []wsnmodels.MetricSample{
		{DeviceID: "dev-1", Timestamp: now.Add(-time.Hour), ConfidenceLevel: 60, PresenceDetected: true},
	}
	charts := agg.ChartData(samples)
	if len(charts.ConfidenceTrend) != 12 {
		t.Fatalf("expected 12 trend intervals, got %d", len(charts.ConfidenceTrend))
	}

	// The sample lands in the final interval, which ends at now.
	last := charts.ConfidenceTrend[11]
	if last.Time != "12:00" {
		t.Fatalf("expected last interval labeled 12:00, got %s", last.Time)
	}
	if last.Confidence != 60 || last.Detections != 1 {
		t.Fatalf("expected the sample in the last interval, got %+v", last)
	}
}

func TestDetectionTimelineCappedAtTwenty(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	agg := New(nil).WithClock(func() time.Time { return now })

	var samples []wsnmodels.MetricSample
	for i := 0; i < 25; i++ {
		samples = append(samples, wsnmodels.MetricSample{
			DeviceID:         "dev-1",
			Timestamp:        now.Add(-time.Duration(25-i) * time.Minute),
			PresenceDetected: true,
			ConfidenceLevel:  70,
		})
	}

	charts := agg.ChartData(samples)
	if len(charts.DetectionTimeline) != 20 {
		t.Fatalf("expected timeline capped at 20, got %d", len(charts.DetectionTimeline))
	}
	// The cap keeps the most recent detections.
	first := charts.DetectionTimeline[0]
	if !first.Timestamp.Equal(now.Add(-20 * time.Minute)) {
		t.Fatalf("expected oldest kept detection at -20m, got %v", first.Timestamp)
	}
}

func TestDetectionTimelineLocationFallback(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	agg := New(nil).WithClock(func() time.Time { return now })

	samples := []wsnmodels.MetricSample{
		{DeviceID: "dev-1", Timestamp: now.Add(-time.Minute), PresenceDetected: true},
	}
	charts := agg.ChartData(samples)
	if len(charts.DetectionTimeline) != 1 {
		t.Fatalf("expected one timeline row, got %d", len(charts.DetectionTimeline))
	}
	if charts.DetectionTimeline[0].Location != "Desconhecido" {
		t.Fatalf("expected location fallback Desconhecido, got %q", charts.DetectionTimeline[0].Location)
	}
}

func TestHourlyActivityBuckets(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	agg := New(nil).WithClock(func() time.Time { return now })

	samples := []wsnmodels.MetricSample{
		{DeviceID: "dev-1", Timestamp: time.Date(2025, 3, 1, 9, 10, 0, 0, time.UTC), PresenceDetected: true, ConfidenceLevel: 80},
		{DeviceID: "dev-1", Timestamp: time.Date(2025, 3, 1, 9, 40, 0, 0, time.UTC), PresenceDetected: false, ConfidenceLevel: 41},
	}
	charts := agg.ChartData(samples)
	if len(charts.HourlyActivity) != 24 {
		t.Fatalf("expected 24 hourly buckets, got %d", len(charts.HourlyActivity))
	}

	nine := charts.HourlyActivity[9]
	if nine.Hour != "9:00" {
		t.Fatalf("expected bucket label 9:00, got %s", nine.Hour)
	}
	if nine.Detections != 1 {
		t.Fatalf("expected 1 detection at hour 9, got %d", nine.Detections)
	}
	if nine.AverageConfidence != 60.5 {
		t.Fatalf("expected average confidence 60.5 at hour 9, got %v", nine.AverageConfidence)
	}
}
