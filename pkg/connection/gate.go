package connection

import (
	"sync"
	"sync/atomic"

	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// State summarizes the two gate flags.
type State uint8

const (
	// StateConnected indicates commands are admitted.
	StateConnected State = iota

	// StateDeviceDisconnected indicates the device was removed.
	StateDeviceDisconnected

	// StateClientDisconnected indicates the owning session is gone.
	// It takes precedence over StateDeviceDisconnected.
	StateClientDisconnected
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateConnected:
		return "CONNECTED"
	case StateDeviceDisconnected:
		return "DEVICE_DISCONNECTED"
	case StateClientDisconnected:
		return "CLIENT_DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// Gate admits or rejects outgoing commands for one device.
type Gate struct {
	name string

	clientConnected atomic.Bool
	deviceConnected atomic.Bool

	mu            sync.RWMutex
	onStateChange func(oldState, newState State)
}

// NewGate creates a gate for the named device with both flags set.
func NewGate(name string) *Gate {
	g := &Gate{name: name}
	g.clientConnected.Store(true)
	g.deviceConnected.Store(true)
	return g
}

// OnStateChange sets a callback invoked after a flag change alters State.
func (g *Gate) OnStateChange(fn func(oldState, newState State)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onStateChange = fn
}

// ClientConnected returns the client session flag.
func (g *Gate) ClientConnected() bool {
	return g.clientConnected.Load()
}

// DeviceConnected returns the device flag.
func (g *Gate) DeviceConnected() bool {
	return g.deviceConnected.Load()
}

// SetClientConnected sets the client session flag.
func (g *Gate) SetClientConnected(connected bool) {
	old := g.State()
	g.clientConnected.Store(connected)
	g.notify(old)
}

// SetDeviceConnected sets the device flag.
func (g *Gate) SetDeviceConnected(connected bool) {
	old := g.State()
	g.deviceConnected.Store(connected)
	g.notify(old)
}

// State returns the current gate state.
func (g *Gate) State() State {
	if !g.clientConnected.Load() {
		return StateClientDisconnected
	}
	if !g.deviceConnected.Load() {
		return StateDeviceDisconnected
	}
	return StateConnected
}

// Admit returns nil if a command may be sent now.
func (g *Gate) Admit() error {
	if !g.clientConnected.Load() {
		return wire.ErrConnectorNotConnected
	}
	if !g.deviceConnected.Load() {
		return &wire.DeviceNotConnectedError{Name: g.name}
	}
	return nil
}

func (g *Gate) notify(old State) {
	newState := g.State()
	if newState == old {
		return
	}
	g.mu.RLock()
	fn := g.onStateChange
	g.mu.RUnlock()
	if fn != nil {
		fn(old, newState)
	}
}
