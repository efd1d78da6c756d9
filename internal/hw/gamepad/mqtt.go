package gamepad

import (
	"encoding/json"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/cjeanneret/SumoGo/internal/config"
	"github.com/cjeanneret/SumoGo/internal/debug"
)

// MQTTLink receives controller frames over MQTT. The driver station
// publishes one JSON Snapshot per frame on the configured topic; the link
// caches the latest frame and derives liveness from the connection state
// and the frame age.
type MQTTLink struct {
	client     mqtt.Client
	topic      string
	staleAfter time.Duration

	mu      sync.Mutex
	last    Snapshot
	lastAt  time.Time
	pending bool // a connect attempt is in flight
}

// NewMQTTLink creates the link and starts the first connect attempt.
// A broker that is down at startup is not an error: the robot boots
// disconnected and the tick controller retries through Reconnect.
func NewMQTTLink(cfg config.GamepadConfig) *MQTTLink {
	link := &MQTTLink{
		topic:      cfg.Topic,
		staleAfter: time.Duration(cfg.StaleAfterMs) * time.Millisecond,
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(10 * time.Second).
		SetPingTimeout(2 * time.Second).
		SetAutoReconnect(false). // the tick controller rate-limits reconnects itself
		SetCleanSession(true)

	opts.SetOnConnectHandler(link.onConnect)
	opts.SetConnectionLostHandler(link.onConnectionLost)

	link.client = mqtt.NewClient(opts)
	_ = link.Reconnect()
	return link
}

func (l *MQTTLink) onConnect(client mqtt.Client) {
	debug.Link("connected, subscribing to " + l.topic)
	if token := client.Subscribe(l.topic, 0, l.onFrame); token.Wait() && token.Error() != nil {
		debug.Error(token.Error())
	}
}

func (l *MQTTLink) onConnectionLost(client mqtt.Client, err error) {
	debug.Link("lost: " + err.Error())
}

func (l *MQTTLink) onFrame(client mqtt.Client, msg mqtt.Message) {
	var snap Snapshot
	if err := json.Unmarshal(msg.Payload(), &snap); err != nil {
		debug.Error(err)
		return
	}

	l.mu.Lock()
	l.last = snap
	l.lastAt = time.Now()
	l.mu.Unlock()
}

// Connected reports whether the broker is reachable and the latest
// controller frame is fresh enough to drive on.
func (l *MQTTLink) Connected() bool {
	if !l.client.IsConnected() {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.lastAt.IsZero() && time.Since(l.lastAt) <= l.staleAfter
}

// Snapshot returns the latest cached controller frame.
func (l *MQTTLink) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

// Reconnect starts a connect attempt without blocking the tick.
// The attempt outcome is observed through Connected on later ticks.
func (l *MQTTLink) Reconnect() error {
	if l.client.IsConnected() {
		return nil
	}

	l.mu.Lock()
	if l.pending {
		l.mu.Unlock()
		return nil
	}
	l.pending = true
	l.mu.Unlock()

	debug.Link("reconnecting")
	token := l.client.Connect()
	go func() {
		if token.Wait() && token.Error() != nil {
			debug.Error(token.Error())
		}
		l.mu.Lock()
		l.pending = false
		l.mu.Unlock()
	}()
	return nil
}

// Close disconnects from the broker.
func (l *MQTTLink) Close() {
	if l.client.IsConnected() {
		l.client.Disconnect(250)
		debug.Link("closed")
	}
}
