package client

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/haptic-protocol/haptic-go/pkg/interaction"
	"github.com/haptic-protocol/haptic-go/pkg/log"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// Client is the controller side of one session.
type Client struct {
	mu        sync.RWMutex
	devices   map[uint32]*Device
	connected bool

	correlator *interaction.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProtocolLogger enables message capture under connID.
func WithProtocolLogger(logger log.Logger, connID string) Option {
	return func(c *Client) {
		c.correlator.SetProtocolLogger(logger, connID)
	}
}

// New creates a client sending commands through sender.
func New(sender interaction.Sender, opts ...Option) *Client {
	c := &Client{
		devices:    make(map[uint32]*Device),
		connected:  true,
		correlator: interaction.NewClient(sender),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.correlator.SetLogger(c.logger)
	c.correlator.SetEventHandler(c.handleEvent)
	return c
}

// AddDevice creates the handle for a device announced by the server.
func (c *Client) AddDevice(info wire.DeviceInfo) (*Device, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil, wire.ErrConnectorNotConnected
	}
	if _, exists := c.devices[info.Index]; exists {
		return nil, fmt.Errorf("device index %d already in use", info.Index)
	}
	d := newDevice(info, c.correlator, c.logger)
	c.devices[info.Index] = d
	c.logger.Info("device added", "device", info.Name, "index", info.Index)
	return d, nil
}

// RemoveDevice drops the device and marks its handle disconnected.
func (c *Client) RemoveDevice(index uint32) error {
	c.mu.Lock()
	d, ok := c.devices[index]
	delete(c.devices, index)
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: index %d", wire.ErrDeviceNotFound, index)
	}
	c.logger.Info("device removed", "device", d.Name(), "index", index)
	d.removed()
	return nil
}

// Device returns the handle with the given index.
func (c *Client) Device(index uint32) (*Device, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.devices[index]
	return d, ok
}

// Devices returns all handles ordered by index.
func (c *Client) Devices() []*Device {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Device, 0, len(c.devices))
	for _, d := range c.devices {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b *Device) int { return cmp.Compare(a.Index(), b.Index()) })
	return out
}

// Connected reports whether the session is up.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// HandleData processes one frame received from the server.
func (c *Client) HandleData(data []byte) error {
	return c.correlator.HandleData(data)
}

// Disconnect ends the session: pending commands fail with
// wire.ErrConnectorNotConnected and every device handle is marked
// disconnected.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil
	}
	c.connected = false
	devices := make([]*Device, 0, len(c.devices))
	for _, d := range c.devices {
		devices = append(devices, d)
	}
	c.mu.Unlock()

	err := c.correlator.Close()
	for _, d := range devices {
		d.clientDisconnected()
	}
	c.logger.Info("client disconnected")
	return err
}

func (c *Client) handleEvent(msg *wire.Message) {
	switch msg.Type {
	case wire.MsgDeviceRemoved:
		if err := c.RemoveDevice(msg.DeviceIndex); err != nil {
			c.logger.Debug("removal of unknown device", "index", msg.DeviceIndex)
		}
	default:
		d, ok := c.Device(msg.DeviceIndex)
		if !ok {
			c.logger.Debug("event for unknown device dropped", "type", msg.Type, "index", msg.DeviceIndex)
			return
		}
		d.message(msg)
	}
}
