package wsningestor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	config "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Config"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Engine/rules"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Engine/signal"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.IngestorService/client"
	logger "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Logger"
	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
	api_models "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models/api"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// motionPayload is the wire format on the motion topic. MAC and State are
// required; RSSI is optional and, when present, feeds the derived-signal
// calculator.
type motionPayload struct {
	MAC   string   `json:"mac"`
	State string   `json:"state"`
	RSSI  *float64 `json:"rssi,omitempty"`
}

type queuedSample struct {
	mac        string
	state      wsnmodels.State
	sample     wsnmodels.RawSample
	receivedAt time.Time
}

type Ingestor struct {
	cfg        *config.IngestorConfig
	apiClient  *client.APIClient
	ruleStore  interfaces.RuleStore
	mqttClient mqtt.Client
	msgCh      chan queuedSample
	wg         sync.WaitGroup
	logger     *logger.Logger

	mu    sync.RWMutex
	rules []wsnmodels.AlertRule

	now func() time.Time
}

func New(cfg *config.IngestorConfig, apiClient *client.APIClient, ruleStore interfaces.RuleStore, logger *logger.Logger) *Ingestor {
	return &Ingestor{
		cfg:       cfg,
		apiClient: apiClient,
		ruleStore: ruleStore,
		msgCh:     make(chan queuedSample, 4096),
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source, used in tests.
func (i *Ingestor) WithClock(now func() time.Time) *Ingestor {
	i.now = now
	return i
}

func (i *Ingestor) Start(ctx context.Context) error {
	loaded, err := i.ruleStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load alert rules: %w", err)
	}
	i.mu.Lock()
	i.rules = loaded
	i.mu.Unlock()
	i.logger.Logger.Info().Int("rules", len(loaded)).Str("path", i.cfg.RuleFilePath).Msg("Loaded alert rules")

	opts := mqtt.NewClientOptions().
		AddBroker(i.cfg.MQTT.BrokerURL()).
		SetClientID(i.cfg.MQTT.ClientID).
		SetOrderMatters(false).
		SetKeepAlive(i.cfg.MQTT.KeepAlive).
		SetPingTimeout(i.cfg.MQTT.PingTimeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(i.cfg.MQTT.ReconnectInterval).
		SetCleanSession(true)

	if i.cfg.MQTT.BrokerUser != "" {
		opts.SetUsername(i.cfg.MQTT.BrokerUser)
		opts.SetPassword(i.cfg.MQTT.BrokerPass)
	}

	if i.cfg.MQTT.UseTLS {
		tlsCfg, err := i.tlsConfig(i.cfg.MQTT.CACertPath)
		if err != nil {
			return err
		}
		opts.SetTLSConfig(tlsCfg)
	}

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		i.logger.Logger.Error().Err(err).Msg("MQTT connection lost")
	}
	opts.OnConnect = func(c mqtt.Client) {
		topic := i.cfg.MQTT.Topic
		i.logger.Logger.Info().Str("topic", topic).Msg("MQTT connected, subscribing to topic")
		if token := c.Subscribe(topic, 1, i.onMessage); token.Wait() && token.Error() != nil {
			i.logger.Logger.Error().Err(token.Error()).Str("topic", topic).Msg("Failed to subscribe to MQTT topic")
		}
	}

	i.mqttClient = mqtt.NewClient(opts)
	if tk := i.mqttClient.Connect(); tk.Wait() && tk.Error() != nil {
		return tk.Error()
	}

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		i.captureWriter(ctx)
	}()

	return nil
}

func (i *Ingestor) Stop() {
	if i.mqttClient != nil && i.mqttClient.IsConnected() {
		i.mqttClient.Disconnect(500)
	}
	close(i.msgCh)
	i.wg.Wait()
}

func (i *Ingestor) IsConnected() bool {
	return i.mqttClient != nil && i.mqttClient.IsConnected()
}

// ReloadRules re-reads the rule file and swaps the active rule set.
func (i *Ingestor) ReloadRules() error {
	loaded, err := i.ruleStore.Load()
	if err != nil {
		return err
	}
	i.mu.Lock()
	i.rules = loaded
	i.mu.Unlock()
	return nil
}

func (i *Ingestor) onMessage(_ mqtt.Client, m mqtt.Message) {
	i.logger.Logger.Debug().Str("topic", m.Topic()).Str("payload", string(m.Payload())).Msg("Received MQTT message")

	var payload motionPayload
	if err := json.Unmarshal(m.Payload(), &payload); err != nil {
		i.logger.Logger.Warn().Err(err).Str("payload", string(m.Payload())).Msg("Dropping malformed motion message")
		return
	}
	if payload.MAC == "" || payload.State == "" {
		i.logger.Logger.Warn().Str("payload", string(m.Payload())).Msg("Dropping motion message with missing mac or state")
		return
	}

	state, err := wsnmodels.ParseState(payload.State)
	if err != nil {
		i.logger.Logger.Warn().Err(err).Str("mac", payload.MAC).Msg("Dropping motion message with unknown state")
		return
	}

	raw := wsnmodels.RawSample{
		Extra: map[string]interface{}{
			"state": string(state),
			"topic": m.Topic(),
		},
	}
	if payload.RSSI != nil {
		derived := signal.Derive(*payload.RSSI, 0)
		raw.RSSI = payload.RSSI
		raw.SignalStrength = &derived.SignalStrength
		raw.PresenceDetected = &derived.PresenceDetected
		raw.ConfidenceLevel = &derived.ConfidenceLevel
	}

	i.logger.Logger.Debug().Str("mac", payload.MAC).Str("state", payload.State).Msg("Queuing sample")
	i.msgCh <- queuedSample{
		mac:        payload.MAC,
		state:      state,
		sample:     raw,
		receivedAt: i.now().UTC(),
	}
}

func (i *Ingestor) captureWriter(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case qs, ok := <-i.msgCh:
			if !ok {
				return
			}
			i.process(ctx, qs)
		}
	}
}

func (i *Ingestor) process(ctx context.Context, qs queuedSample) {
	metricID, err := i.apiClient.CaptureMetric(ctx, api_models.CaptureRequest{
		DeviceID: qs.mac,
		Data:     qs.sample,
	})
	if err != nil {
		i.logger.Logger.Error().Err(err).Str("mac", qs.mac).Msg("Error capturing metric via API")
		return
	}
	i.logger.Logger.Info().Str("mac", qs.mac).Str("metric_id", metricID).Msg("Captured metric")

	i.mu.RLock()
	active := i.rules
	i.mu.RUnlock()

	matched := rules.Evaluate(active, qs.mac, qs.state, rules.ClockString(qs.receivedAt))
	for _, rule := range matched {
		i.logger.Logger.Info().
			Str("rule_id", rule.ID).
			Str("rule_name", rule.Name).
			Str("mac", qs.mac).
			Str("state", string(qs.state)).
			Msg("Alert rule matched")
	}
}

func (i *Ingestor) tlsConfig(caFile string) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if caFile == "" {
		return cfg, nil
	}
	ca, err := os.ReadFile(caFile)
	if err != nil {
		return nil, err
	}
	cp := x509.NewCertPool()
	if !cp.AppendCertsFromPEM(ca) {
		return nil, fmt.Errorf("bad CA file")
	}
	cfg.RootCAs = cp
	return cfg, nil
}
