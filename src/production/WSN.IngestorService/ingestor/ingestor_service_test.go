package wsningestor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	config "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Config"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.IngestorService/client"
	logger "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Logger"
	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
	api_models "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models/api"
	implementation "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Implementation"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func newTestIngestor(t *testing.T, apiURL string) *Ingestor {
	t.Helper()
	cfg := &config.IngestorConfig{
		ApiServiceURL: apiURL,
		RuleFilePath:  filepath.Join(t.TempDir(), "rules.json"),
	}
	cfg.MQTT.Topic = "esp32/motion"
	log := logger.NewLogger(&config.LoggingConfig{Level: "fatal", Format: "json"})
	return New(cfg, client.NewAPIClient(apiURL), implementation.NewFileRuleStore(cfg.RuleFilePath), log)
}

func TestOnMessageDropsInvalidPayloads(t *testing.T) {
	ing := newTestIngestor(t, "http://unused")

	cases := map[string][]byte{
		"malformed json": []byte("{not json"),
		"missing mac":    []byte(`{"state":"move"}`),
		"missing state":  []byte(`{"mac":"aa:bb"}`),
		"unknown state":  []byte(`{"mac":"aa:bb","state":"flying"}`),
	}
	for name, payload := range cases {
		ing.onMessage(nil, fakeMessage{topic: "esp32/motion", payload: payload})
		select {
		case qs := <-ing.msgCh:
			t.Fatalf("%s: expected message to be dropped, got %+v", name, qs)
		default:
		}
	}
}

func TestOnMessageQueuesValidMotion(t *testing.T) {
	ing := newTestIngestor(t, "http://unused")
	now := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	ing.WithClock(func() time.Time { return now })

	ing.onMessage(nil, fakeMessage{topic: "esp32/motion", payload: []byte(`{"mac":"aa:bb","state":"move"}`)})

	select {
	case qs := <-ing.msgCh:
		if qs.mac != "aa:bb" || qs.state != wsnmodels.StateMove {
			t.Fatalf("unexpected queued sample %+v", qs)
		}
		if qs.sample.RSSI != nil {
			t.Fatalf("expected no rssi without one on the wire")
		}
		if qs.sample.Extra["state"] != "move" {
			t.Fatalf("expected state in extra payload, got %v", qs.sample.Extra)
		}
		if !qs.receivedAt.Equal(now) {
			t.Fatalf("expected receivedAt %v, got %v", now, qs.receivedAt)
		}
	default:
		t.Fatalf("expected message to be queued")
	}
}

func TestOnMessageDerivesFromRSSI(t *testing.T) {
	ing := newTestIngestor(t, "http://unused")

	ing.onMessage(nil, fakeMessage{topic: "esp32/motion", payload: []byte(`{"mac":"aa:bb","state":"someone","rssi":-60}`)})

	qs := <-ing.msgCh
	if qs.sample.RSSI == nil || *qs.sample.RSSI != -60 {
		t.Fatalf("expected rssi -60 on sample, got %v", qs.sample.RSSI)
	}
	if qs.sample.PresenceDetected == nil || !*qs.sample.PresenceDetected {
		t.Fatalf("expected derived presence at -60 dBm")
	}
	if qs.sample.ConfidenceLevel == nil || *qs.sample.ConfidenceLevel != 80 {
		t.Fatalf("expected derived confidence 80, got %v", qs.sample.ConfidenceLevel)
	}
	if qs.sample.SignalStrength == nil || *qs.sample.SignalStrength != 80 {
		t.Fatalf("expected derived strength 80, got %v", qs.sample.SignalStrength)
	}
}

func TestProcessPostsCaptureToAPI(t *testing.T) {
	var captured api_models.CaptureRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/metrics" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode capture request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"metric_id":"m1"}`))
	}))
	defer srv.Close()

	ing := newTestIngestor(t, srv.URL)
	rssi := -60.0
	ing.process(context.Background(), queuedSample{
		mac:        "aa:bb",
		state:      wsnmodels.StateMove,
		sample:     wsnmodels.RawSample{RSSI: &rssi},
		receivedAt: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
	})

	if captured.DeviceID != "aa:bb" {
		t.Fatalf("expected capture for aa:bb, got %q", captured.DeviceID)
	}
	if captured.Data.RSSI == nil || *captured.Data.RSSI != -60 {
		t.Fatalf("expected rssi forwarded, got %v", captured.Data.RSSI)
	}
}

func TestReloadRules(t *testing.T) {
	ing := newTestIngestor(t, "http://unused")

	store := implementation.NewFileRuleStore(ing.cfg.RuleFilePath)
	if err := store.Save([]wsnmodels.AlertRule{{ID: "r1", State: wsnmodels.StateMove, StartTime: "00:00", EndTime: "23:59", Enabled: true}}); err != nil {
		t.Fatalf("save rules: %v", err)
	}

	if err := ing.ReloadRules(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	ing.mu.RLock()
	defer ing.mu.RUnlock()
	if len(ing.rules) != 1 || ing.rules[0].ID != "r1" {
		t.Fatalf("expected reloaded rule set, got %v", ing.rules)
	}
}
