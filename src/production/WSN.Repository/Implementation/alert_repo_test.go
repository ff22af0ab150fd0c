package implementation

import (
	"context"
	"testing"
	"time"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

func newAlertRepo(start time.Time) *KVAlertRepository {
	at := start
	return NewKVAlertRepository(NewMemoryKVStore()).WithClock(func() time.Time {
		at = at.Add(time.Second)
		return at
	})
}

func TestCreateAndListAlerts(t *testing.T) {
	repo := newAlertRepo(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := repo.Create(ctx, "u1", "dev-1", wsnmodels.AlertTypePresence, "Presença detectada", wsnmodels.SeverityMedium)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := repo.Create(ctx, "u1", "dev-1", wsnmodels.AlertTypeSignalLoss, "Sinal perdido", wsnmodels.SeverityHigh)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if first.TriggerConditions != "Confidence level above threshold" {
		t.Fatalf("unexpected trigger conditions %q", first.TriggerConditions)
	}

	alerts, err := repo.ListByUser(ctx, "u1", true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	// Newest first.
	if alerts[0].ID != second.ID {
		t.Fatalf("expected newest alert first, got %s", alerts[0].ID)
	}
}

func TestListByUserFiltersRead(t *testing.T) {
	repo := newAlertRepo(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := repo.Create(ctx, "u1", "dev-1", wsnmodels.AlertTypePresence, "msg", wsnmodels.SeverityMedium)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, "u1", "dev-1", wsnmodels.AlertTypeSignalLoss, "msg", wsnmodels.SeverityHigh); err != nil {
		t.Fatalf("create: %v", err)
	}

	marked, err := repo.MarkRead(ctx, "u1", first.ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !marked.Read || marked.ReadAt == nil {
		t.Fatalf("expected read flag and timestamp, got %+v", marked)
	}

	unread, err := repo.ListByUser(ctx, "u1", false)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("expected 1 unread alert, got %d", len(unread))
	}

	all, err := repo.ListByUser(ctx, "u1", true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 alerts with include_read, got %d", len(all))
	}
}

func TestAcknowledgeSetsTimestamp(t *testing.T) {
	repo := newAlertRepo(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	alert, err := repo.Create(ctx, "u1", "dev-1", wsnmodels.AlertTypeUnauthorized, "msg", wsnmodels.SeverityHigh)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	acked, err := repo.Acknowledge(ctx, "u1", alert.ID)
	if err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if !acked.Acknowledged || acked.AcknowledgedAt == nil {
		t.Fatalf("expected acknowledged flag and timestamp, got %+v", acked)
	}
	// Read state is independent of acknowledgement.
	if acked.Read {
		t.Fatalf("acknowledge must not set the read flag")
	}
}

func TestForeignAlertIsIndistinguishableFromMissing(t *testing.T) {
	repo := newAlertRepo(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	alert, err := repo.Create(ctx, "owner", "dev-1", wsnmodels.AlertTypePresence, "msg", wsnmodels.SeverityMedium)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.MarkRead(ctx, "intruder", alert.ID); err != interfaces.ErrNotFoundOrUnauthorized {
		t.Fatalf("expected ErrNotFoundOrUnauthorized for foreign alert, got %v", err)
	}
	if _, err := repo.Acknowledge(ctx, "owner", "alert:owner:00000000000000000001"); err != interfaces.ErrNotFoundOrUnauthorized {
		t.Fatalf("expected ErrNotFoundOrUnauthorized for missing alert, got %v", err)
	}
	if _, err := repo.MarkRead(ctx, "owner", "not-an-alert-key"); err != interfaces.ErrNotFoundOrUnauthorized {
		t.Fatalf("expected ErrNotFoundOrUnauthorized for malformed id, got %v", err)
	}
}

func TestHistoryCutoffAndStatistics(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	at := start
	repo := NewKVAlertRepository(NewMemoryKVStore()).WithClock(func() time.Time { return at })
	ctx := context.Background()

	// One alert 40 days ago, two within the window.
	at = start.AddDate(0, 0, -40)
	if _, err := repo.Create(ctx, "u1", "dev-1", wsnmodels.AlertTypePresence, "old", wsnmodels.SeverityMedium); err != nil {
		t.Fatalf("create: %v", err)
	}
	at = start.AddDate(0, 0, -10)
	if _, err := repo.Create(ctx, "u1", "dev-1", wsnmodels.AlertTypePresence, "recent", wsnmodels.SeverityMedium); err != nil {
		t.Fatalf("create: %v", err)
	}
	at = start.AddDate(0, 0, -5)
	if _, err := repo.Create(ctx, "u1", "dev-1", wsnmodels.AlertTypeSignalLoss, "recent", wsnmodels.SeverityHigh); err != nil {
		t.Fatalf("create: %v", err)
	}

	at = start
	history, err := repo.History(ctx, "u1", 30)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if history.TotalAlerts != 2 {
		t.Fatalf("expected 2 alerts inside 30 days, got %d", history.TotalAlerts)
	}
	if history.Statistics[wsnmodels.AlertTypePresence] != 1 || history.Statistics[wsnmodels.AlertTypeSignalLoss] != 1 {
		t.Fatalf("unexpected statistics %v", history.Statistics)
	}
}

func TestAlertsAreScopedPerUser(t *testing.T) {
	repo := newAlertRepo(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := repo.Create(ctx, "u1", "dev-1", wsnmodels.AlertTypePresence, "msg", wsnmodels.SeverityMedium); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, "u2", "dev-1", wsnmodels.AlertTypePresence, "msg", wsnmodels.SeverityMedium); err != nil {
		t.Fatalf("create: %v", err)
	}

	alerts, err := repo.ListByUser(ctx, "u1", true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(alerts) != 1 || alerts[0].UserID != "u1" {
		t.Fatalf("expected only u1's alert, got %v", alerts)
	}
}
