package interaction

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/haptic-protocol/haptic-go/pkg/protocol"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// Server dispatches incoming commands to the device they address and
// builds the reply. Every command gets exactly one reply: the handler's
// answer or an MsgError carrying the failure.
type Server struct {
	mu      sync.RWMutex
	devices map[uint32]*protocol.Device
	logger  *slog.Logger
}

// NewServer creates an empty dispatcher.
func NewServer() *Server {
	return &Server{
		devices: make(map[uint32]*protocol.Device),
		logger:  slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the operational logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// AddDevice registers d under its index. An index already in use is an
// error.
func (s *Server) AddDevice(d *protocol.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := d.Info().Index
	if _, exists := s.devices[index]; exists {
		return fmt.Errorf("device index %d already in use", index)
	}
	s.devices[index] = d
	return nil
}

// RemoveDevice unregisters the device with the given index and returns it.
func (s *Server) RemoveDevice(index uint32) (*protocol.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.devices[index]
	if !ok {
		return nil, fmt.Errorf("%w: index %d", wire.ErrDeviceNotFound, index)
	}
	delete(s.devices, index)
	return d, nil
}

// Device returns the device with the given index.
func (s *Server) Device(index uint32) (*protocol.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devices[index]
	return d, ok
}

// Devices returns all registered devices ordered by index.
func (s *Server) Devices() []*protocol.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*protocol.Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b *protocol.Device) int {
		return cmp.Compare(a.Info().Index, b.Info().Index)
	})
	return out
}

// HandleMessage processes one command and returns its reply.
func (s *Server) HandleMessage(ctx context.Context, msg *wire.Message) *wire.Message {
	if !msg.Type.IsDeviceCommand() {
		return s.errorResponse(msg, &wire.UnexpectedMessageTypeError{Description: msg.String()})
	}

	d, ok := s.Device(msg.DeviceIndex)
	if !ok {
		return s.errorResponse(msg, fmt.Errorf("%w: index %d", wire.ErrDeviceNotFound, msg.DeviceIndex))
	}

	reply, err := d.ParseMessage(ctx, msg)
	if err != nil {
		return s.errorResponse(msg, err)
	}
	return reply
}

// errorResponse creates an MsgError reply for msg.
func (s *Server) errorResponse(msg *wire.Message, err error) *wire.Message {
	s.logger.Debug("command rejected", "type", msg.Type, "id", msg.ID, "device", msg.DeviceIndex, "error", err)
	reply, encErr := wire.NewMessage(msg.ID, wire.MsgError, msg.DeviceIndex, wire.NewErrorPayload(err))
	if encErr != nil {
		s.logger.Error("failed to encode error reply", "error", encErr)
		return &wire.Message{ID: msg.ID, Type: wire.MsgError, DeviceIndex: msg.DeviceIndex}
	}
	return reply
}
