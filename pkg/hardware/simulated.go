package hardware

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// SimulatedConfig configures a Simulated device.
type SimulatedConfig struct {
	// Name is the advertised device name.
	Name string

	// Endpoints holds the bytes returned by reads, per endpoint.
	Endpoints map[wire.Endpoint][]byte

	// BatteryLevel in percent, served on EndpointRxBLEBattery.
	// Nil leaves the endpoint unset.
	BatteryLevel *uint8

	// RSSI in dBm.
	RSSI int32

	// Logger receives operational logs. Nil discards them.
	Logger *slog.Logger
}

// Simulated is an in-memory Hardware.
type Simulated struct {
	mu sync.Mutex

	name      string
	endpoints map[wire.Endpoint][]byte
	rssi      int32
	logger    *slog.Logger

	writes        []WriteCmd
	subscriptions map[wire.Endpoint]NotifyFunc
	disconnected  bool
	onDisconnect  func()
}

// NewSimulated creates a simulated device.
func NewSimulated(config SimulatedConfig) *Simulated {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	endpoints := make(map[wire.Endpoint][]byte, len(config.Endpoints)+1)
	for ep, data := range config.Endpoints {
		endpoints[ep] = slices.Clone(data)
	}
	if config.BatteryLevel != nil {
		endpoints[wire.EndpointRxBLEBattery] = []byte{*config.BatteryLevel}
	}
	return &Simulated{
		name:          config.Name,
		endpoints:     endpoints,
		rssi:          config.RSSI,
		logger:        logger.With("hardware", config.Name),
		subscriptions: make(map[wire.Endpoint]NotifyFunc),
	}
}

// Name returns the device name.
func (s *Simulated) Name() string {
	return s.name
}

// OnDisconnect sets a callback invoked once when the device disconnects.
func (s *Simulated) OnDisconnect(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDisconnect = fn
}

// WriteValue records the write.
func (s *Simulated) WriteValue(ctx context.Context, cmd WriteCmd) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disconnected {
		return ErrDisconnected
	}
	cmd.Data = slices.Clone(cmd.Data)
	s.writes = append(s.writes, cmd)
	s.logger.Debug("write", "endpoint", cmd.Endpoint, "data", cmd.Data, "withResponse", cmd.WriteWithResponse)
	return nil
}

// ReadValue returns up to cmd.Length bytes preset for the endpoint.
// A zero Length returns everything.
func (s *Simulated) ReadValue(ctx context.Context, cmd ReadCmd) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disconnected {
		return nil, ErrDisconnected
	}
	data, ok := s.endpoints[cmd.Endpoint]
	if !ok {
		return nil, ErrNoEndpoint
	}
	if cmd.Length > 0 && int(cmd.Length) < len(data) {
		data = data[:cmd.Length]
	}
	return slices.Clone(data), nil
}

// Subscribe registers fn for notifications pushed with Notify.
func (s *Simulated) Subscribe(ctx context.Context, endpoint wire.Endpoint, fn NotifyFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disconnected {
		return ErrDisconnected
	}
	if _, ok := s.subscriptions[endpoint]; ok {
		return ErrAlreadySubscribed
	}
	s.subscriptions[endpoint] = fn
	return nil
}

// Unsubscribe removes the endpoint's notification callback.
func (s *Simulated) Unsubscribe(ctx context.Context, endpoint wire.Endpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disconnected {
		return ErrDisconnected
	}
	if _, ok := s.subscriptions[endpoint]; !ok {
		return ErrNotSubscribed
	}
	delete(s.subscriptions, endpoint)
	return nil
}

// RSSI returns the configured signal strength.
func (s *Simulated) RSSI(ctx context.Context) (int32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disconnected {
		return 0, ErrDisconnected
	}
	return s.rssi, nil
}

// Disconnect marks the device gone and runs the disconnect callback.
func (s *Simulated) Disconnect() error {
	s.mu.Lock()
	if s.disconnected {
		s.mu.Unlock()
		return nil
	}
	s.disconnected = true
	clear(s.subscriptions)
	fn := s.onDisconnect
	s.mu.Unlock()

	s.logger.Info("disconnected")
	if fn != nil {
		fn()
	}
	return nil
}

// Notify pushes data from endpoint to its subscriber, as a device would.
// It reports whether a subscriber received it.
func (s *Simulated) Notify(endpoint wire.Endpoint, data []byte) bool {
	s.mu.Lock()
	fn, ok := s.subscriptions[endpoint]
	s.mu.Unlock()

	if !ok {
		return false
	}
	fn(endpoint, slices.Clone(data))
	return true
}

// SetEndpointValue replaces the bytes served by reads of endpoint.
func (s *Simulated) SetEndpointValue(endpoint wire.Endpoint, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endpoints[endpoint] = slices.Clone(data)
}

// TakeWrites returns and clears the recorded writes.
func (s *Simulated) TakeWrites() []WriteCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	writes := s.writes
	s.writes = nil
	return writes
}
