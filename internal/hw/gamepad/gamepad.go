package gamepad

import (
	"sync"
)

// Snapshot is one controller frame: two signed analog axes (about -128..127)
// and the discrete action buttons. Immutable once read for a tick.
type Snapshot struct {
	SpeedAxis    int  `json:"speed"`
	RotationAxis int  `json:"rotation"`
	Dash         bool `json:"dash"`
	DashBack     bool `json:"dash_back"`
	SpinRight    bool `json:"spin_right"`
	SpinLeft     bool `json:"spin_left"`
}

// Link is the high-level gamepad interface polled by the tick controller,
// regardless of transport (MQTT, bluetooth bridge, mock).
type Link interface {
	// Connected reports whether fresh controller input is available.
	Connected() bool
	// Snapshot returns the latest controller frame.
	Snapshot() Snapshot
	// Reconnect attempts to re-establish the link. Must not block the tick.
	Reconnect() error
	// Close releases the link.
	Close()
}

// MockLink is a scriptable Link for development and tests.
type MockLink struct {
	mu         sync.Mutex
	snap       Snapshot
	connected  bool
	reconnects int
}

// NewMockLink creates a connected mock link with a neutral snapshot.
func NewMockLink() *MockLink {
	return &MockLink{connected: true}
}

func (m *MockLink) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *MockLink) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

func (m *MockLink) Reconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconnects++
	return nil
}

func (m *MockLink) Close() {}

// SetSnapshot scripts the next controller frame.
func (m *MockLink) SetSnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = s
}

// SetConnected scripts the liveness flag.
func (m *MockLink) SetConnected(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = connected
}

// Reconnects returns how many reconnect attempts were made.
func (m *MockLink) Reconnects() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reconnects
}
