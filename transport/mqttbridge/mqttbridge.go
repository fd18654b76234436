// Package mqttbridge implements transport.ByteSink by tunnelling the raw
// R2000 byte stream over an MQTT broker, for readers reachable only
// through a remote RS-485-to-MQTT gateway rather than a local serial port.
package mqttbridge

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/impinj-r2000/r2000driver/transport"
)

var _ transport.ByteSink = (*Sink)(nil)

// DefaultTopicPrefix is the default MQTT topic prefix for the bridge.
const DefaultTopicPrefix = "r2000"

// Config holds the configuration for an MQTT-tunnelled ByteSink.
type Config struct {
	// Broker is the MQTT broker URL (e.g., "tcp://broker.example.com:1883").
	Broker string
	// Username for MQTT authentication. Leave empty if not required.
	Username string
	// Password for MQTT authentication. Leave empty if not required.
	Password string
	// UseTLS enables TLS for the MQTT connection.
	UseTLS bool
	// ClientID is the MQTT client identifier. If empty, a random one is
	// generated.
	ClientID string
	// TopicPrefix is the MQTT topic prefix (default: "r2000").
	TopicPrefix string
	// GatewayID identifies the remote RS-485-to-MQTT gateway this sink
	// talks to. The sink publishes outbound bytes to
	// "{TopicPrefix}/{GatewayID}/cmd" and subscribes to inbound bytes on
	// "{TopicPrefix}/{GatewayID}/reply".
	GatewayID string
	// Logger is the logger to use. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Sink implements transport.ByteSink by publishing/subscribing raw,
// base64-encoded byte chunks on a request/response MQTT topic pair.
type Sink struct {
	cfg Config
	log *slog.Logger

	mu           sync.RWMutex
	client       paho.Client
	connected    bool
	readHandler  func(data []byte)
	stateHandler transport.StateHandler
}

// New creates an MQTT-tunnelled ByteSink with the given configuration.
func New(cfg Config) *Sink {
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = DefaultTopicPrefix
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Sink{
		cfg: cfg,
		log: cfg.Logger.WithGroup("mqttbridge"),
	}
}

// Start connects to the MQTT broker and subscribes to the gateway's reply
// topic.
func (s *Sink) Start(ctx context.Context) error {
	if s.cfg.Broker == "" {
		return errors.New("mqttbridge: broker URL is required")
	}
	if s.cfg.GatewayID == "" {
		return errors.New("mqttbridge: gateway id is required")
	}

	clientID := s.cfg.ClientID
	if clientID == "" {
		clientID = "r2000-" + randomString(16)
	}

	opts := paho.NewClientOptions().
		AddBroker(s.cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(2 * time.Minute).
		SetKeepAlive(60 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetCleanSession(true).
		SetOrderMatters(true).
		SetOnConnectHandler(s.onConnected).
		SetConnectionLostHandler(s.onConnectionLost).
		SetReconnectingHandler(s.onReconnecting)

	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username)
	}
	if s.cfg.Password != "" {
		opts.SetPassword(s.cfg.Password)
	}
	if s.cfg.UseTLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	s.client = paho.NewClient(opts)

	token := s.client.Connect()
	if !token.WaitTimeout(30 * time.Second) {
		return errors.New("mqttbridge: connection timeout")
	}
	if token.Error() != nil {
		return fmt.Errorf("mqttbridge: connecting to broker: %w", token.Error())
	}
	return nil
}

// Stop gracefully disconnects from the MQTT broker.
func (s *Sink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Disconnect(1000)
		s.connected = false
	}
	return nil
}

// IsConnected reports whether the bridge is connected to the broker.
func (s *Sink) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected && s.client != nil && s.client.IsConnected()
}

// Write base64-encodes data and publishes it to the gateway's command
// topic. The gateway is expected to write the decoded bytes to its local
// serial link unmodified.
func (s *Sink) Write(data []byte) error {
	if !s.IsConnected() {
		return errors.New("mqttbridge: not connected")
	}
	payload := base64.StdEncoding.EncodeToString(data)
	token := s.client.Publish(s.cmdTopic(), 0, false, payload)
	if !token.WaitTimeout(10 * time.Second) {
		return errors.New("mqttbridge: timeout publishing command")
	}
	return token.Error()
}

// SetReadHandler sets the callback invoked with each decoded chunk of
// bytes received on the gateway's reply topic.
func (s *Sink) SetReadHandler(fn func(data []byte)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readHandler = fn
}

// SetStateHandler sets the callback for connection state changes.
func (s *Sink) SetStateHandler(fn transport.StateHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateHandler = fn
}

// SetBaudRate is not meaningful over an MQTT tunnel: the gateway owns the
// physical link's baud rate. The reader engine still issues SET_BAUDRATE
// over the wire itself; this just reports that the bridge has nothing
// further to reconfigure.
func (s *Sink) SetBaudRate(bps int) error {
	return nil
}

func (s *Sink) cmdTopic() string   { return s.cfg.TopicPrefix + "/" + s.cfg.GatewayID + "/cmd" }
func (s *Sink) replyTopic() string { return s.cfg.TopicPrefix + "/" + s.cfg.GatewayID + "/reply" }

func (s *Sink) subscribe() {
	topic := s.replyTopic()
	s.client.Subscribe(topic, 0, s.handleMessage)
	s.log.Debug("subscribed to gateway reply topic", "topic", topic)
}

func (s *Sink) handleMessage(_ paho.Client, message paho.Message) {
	s.mu.RLock()
	handler := s.readHandler
	s.mu.RUnlock()
	if handler == nil {
		return
	}

	rawData, err := base64.StdEncoding.DecodeString(string(message.Payload()))
	if err != nil {
		s.log.Debug("failed to decode base64 payload", "error", err)
		return
	}
	handler(rawData)
}

func (s *Sink) onConnected(_ paho.Client) {
	s.mu.Lock()
	s.connected = true
	handler := s.stateHandler
	s.mu.Unlock()

	s.subscribe()
	s.log.Info("connected to MQTT broker", "broker", s.cfg.Broker)
	if handler != nil {
		handler(s, transport.EventConnected)
	}
}

func (s *Sink) onConnectionLost(_ paho.Client, err error) {
	s.mu.Lock()
	s.connected = false
	handler := s.stateHandler
	s.mu.Unlock()

	s.log.Error("MQTT connection lost", "error", err)
	if handler != nil {
		handler(s, transport.EventDisconnected)
	}
}

func (s *Sink) onReconnecting(_ paho.Client, _ *paho.ClientOptions) {
	s.mu.RLock()
	handler := s.stateHandler
	s.mu.RUnlock()

	s.log.Info("reconnecting to MQTT broker")
	if handler != nil {
		handler(s, transport.EventReconnecting)
	}
}

func randomString(n int) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}
