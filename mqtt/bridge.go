// Package mqtt bridges the telemetry stream to an MQTT broker: readings go
// out on the telemetry topic and actuator commands come in on the command
// topic.
package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"aerogrow/config"
	"aerogrow/logger"
	"aerogrow/models"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	connectTimeout    = 5 * time.Second
	publishTimeout    = 2 * time.Second
	subscribeTimeout  = 5 * time.Second
	disconnectQuiesce = 250
)

// ErrNotConnected is returned by PublishReading while the broker is unreachable.
var ErrNotConnected = errors.New("mqtt not connected")

// Client is the part of paho.Client the bridge uses.
type Client interface {
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
	Disconnect(quiesce uint)
}

// CommandFunc executes an actuator command received from the broker.
type CommandFunc func(target, action string) error

// Stats reports the bridge counters.
type Stats struct {
	Published uint64 `json:"published"`
	Errors    uint64 `json:"errors"`
	Commands  uint64 `json:"commands"`
}

type Bridge struct {
	client    Client
	settings  config.MQTTSettings
	onCommand CommandFunc
	log       *slog.Logger

	published atomic.Uint64
	errors    atomic.Uint64
	commands  atomic.Uint64
}

// New wraps an existing client. Call Subscribe to start receiving commands.
func New(client Client, settings config.MQTTSettings, onCommand CommandFunc) *Bridge {
	return &Bridge{
		client:    client,
		settings:  settings,
		onCommand: onCommand,
		log:       logger.Get().With("component", "mqtt"),
	}
}

// Connect dials the broker with auto-reconnect enabled. The command
// subscription is renewed on every (re)connect.
func Connect(settings config.MQTTSettings, onCommand CommandFunc) (*Bridge, error) {
	b := New(nil, settings, onCommand)

	opts := paho.NewClientOptions()
	opts.AddBroker(brokerURL(settings.Broker))
	opts.SetClientID(settings.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c paho.Client) {
		b.log.Info("MQTT connection established", "broker", settings.Broker, "client_id", settings.ClientID)
		if err := b.subscribe(c); err != nil {
			b.log.Error("MQTT subscription failed", "topic", settings.CommandTopic, "error", err)
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		b.log.Warn("MQTT connection lost, will auto-reconnect", "broker", settings.Broker, "error", err)
	}

	client := paho.NewClient(opts)
	b.client = client

	b.log.Info("Connecting to MQTT broker", "broker", settings.Broker)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		client.Disconnect(disconnectQuiesce)
		return nil, fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connection failed: %w", err)
	}
	return b, nil
}

func brokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}

// Subscribe registers the command handler on the command topic.
func (b *Bridge) Subscribe() error {
	return b.subscribe(b.client)
}

func (b *Bridge) subscribe(c Client) error {
	token := c.Subscribe(b.settings.CommandTopic, b.settings.QoS, b.handleCommand)
	if !token.WaitTimeout(subscribeTimeout) {
		return fmt.Errorf("subscription to %s timed out", b.settings.CommandTopic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscription to %s failed: %w", b.settings.CommandTopic, err)
	}
	b.log.Info("Subscribed to command topic", "topic", b.settings.CommandTopic, "qos", b.settings.QoS)
	return nil
}

// PublishReading sends reading as JSON to the telemetry topic. Failures
// are counted and returned.
func (b *Bridge) PublishReading(reading models.SensorData) error {
	if !b.client.IsConnected() {
		b.errors.Add(1)
		return ErrNotConnected
	}

	payload, err := json.Marshal(reading)
	if err != nil {
		b.errors.Add(1)
		return fmt.Errorf("failed to encode reading: %w", err)
	}

	token := b.client.Publish(b.settings.TelemetryTopic, b.settings.QoS, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		b.errors.Add(1)
		return fmt.Errorf("publish to %s timed out", b.settings.TelemetryTopic)
	}
	if err := token.Error(); err != nil {
		b.errors.Add(1)
		return fmt.Errorf("publish to %s failed: %w", b.settings.TelemetryTopic, err)
	}

	b.published.Add(1)
	b.log.Debug("Reading published", "topic", b.settings.TelemetryTopic, "size", len(payload))
	return nil
}

func (b *Bridge) handleCommand(_ paho.Client, msg paho.Message) {
	var cmd models.CommandPayload
	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		b.log.Warn("Ignoring malformed command", "topic", msg.Topic(), "error", err)
		return
	}
	if cmd.Target == "" || cmd.Action == "" {
		b.log.Warn("Ignoring incomplete command", "topic", msg.Topic())
		return
	}

	b.commands.Add(1)
	if err := b.onCommand(cmd.Target, cmd.Action); err != nil {
		b.log.Warn("Command failed", "target", cmd.Target, "action", cmd.Action, "error", err)
		return
	}
	b.log.Info("Command executed", "target", cmd.Target, "action", cmd.Action)
}

func (b *Bridge) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Errors:    b.errors.Load(),
		Commands:  b.commands.Load(),
	}
}

// Close disconnects from the broker.
func (b *Bridge) Close() {
	if b.client != nil {
		b.client.Disconnect(disconnectQuiesce)
		b.log.Info("MQTT disconnected")
	}
}
