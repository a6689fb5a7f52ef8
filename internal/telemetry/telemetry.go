// internal/telemetry/telemetry.go
package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/tamzrod/fixture-panel/internal/status"
)

// Event types, also the last topic segment.
const (
	TypeMode      = "mode"
	TypeLink      = "link"
	TypeCommit    = "commit"
	TypeRecording = "recording"
	TypeShutdown  = "shutdown"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
	quiesceMs      = 250
)

// Event is one telemetry message. Unused fields are omitted from the payload.
type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`

	Mode string `json:"mode,omitempty"`
	Code uint32 `json:"code,omitempty"`

	Link *status.Snapshot `json:"link,omitempty"`

	Parameter string   `json:"parameter,omitempty"`
	Value     *float64 `json:"value,omitempty"`

	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

// Config selects the broker and topic namespace.
type Config struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// client is the subset of mqtt.Client used here.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTT publishes panel events to a broker. Publishing never blocks the caller.
type MQTT struct {
	client client
	prefix string
	log    *zap.Logger
}

// Connect dials the broker and announces availability.
func Connect(cfg Config, log *zap.Logger) (*MQTT, error) {
	if cfg.Broker == "" {
		return nil, errors.New("telemetry: broker required")
	}

	avail := availabilityTopic(cfg.TopicPrefix)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetWill(avail, "offline", 1, true)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		c.Publish(avail, 1, true, "online")
		log.Info("telemetry connected", zap.String("broker", cfg.Broker))
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn("telemetry connection lost", zap.Error(err))
	})

	c := mqtt.NewClient(opts)
	tok := c.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		c.Disconnect(0)
		return nil, fmt.Errorf("telemetry: connect %s: timeout", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("telemetry: connect %s: %w", cfg.Broker, err)
	}

	return newMQTT(c, cfg.TopicPrefix, log), nil
}

func newMQTT(c client, prefix string, log *zap.Logger) *MQTT {
	return &MQTT{client: c, prefix: prefix, log: log}
}

// Topic returns the topic an event type is published on.
func (m *MQTT) Topic(eventType string) string {
	return m.prefix + "/" + eventType
}

// Publish sends ev with QoS 0. Delivery errors are logged asynchronously.
func (m *MQTT) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b, err := json.Marshal(ev)
	if err != nil {
		m.log.Error("telemetry encode failed", zap.String("type", ev.Type), zap.Error(err))
		return
	}

	topic := m.Topic(ev.Type)
	tok := m.client.Publish(topic, 0, false, b)

	go func() {
		if !tok.WaitTimeout(publishTimeout) {
			m.log.Debug("telemetry publish pending", zap.String("topic", topic))
			return
		}
		if err := tok.Error(); err != nil {
			m.log.Warn("telemetry publish failed", zap.String("topic", topic), zap.Error(err))
		}
	}()
}

// Close marks the panel offline and disconnects.
func (m *MQTT) Close() error {
	tok := m.client.Publish(availabilityTopic(m.prefix), 1, true, "offline")
	tok.WaitTimeout(publishTimeout)
	m.client.Disconnect(quiesceMs)
	return tok.Error()
}

func availabilityTopic(prefix string) string {
	return prefix + "/status"
}

// Nop discards events. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(Event) {}
func (Nop) Close() error  { return nil }

// Float returns a pointer for Event.Value.
func Float(v float64) *float64 { return &v }
