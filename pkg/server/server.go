package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/haptic-protocol/haptic-go/pkg/hardware"
	"github.com/haptic-protocol/haptic-go/pkg/interaction"
	"github.com/haptic-protocol/haptic-go/pkg/log"
	"github.com/haptic-protocol/haptic-go/pkg/protocol"
	"github.com/haptic-protocol/haptic-go/pkg/transport"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// Server errors.
var (
	ErrAlreadyServing = errors.New("server already serving a connection")
	ErrNoConnection   = errors.New("no connection")
)

// Config configures a Server.
type Config struct {
	// Logger receives operational logs. Nil discards them.
	Logger *slog.Logger

	// ProtocolLogger captures messages and device state changes. Optional.
	ProtocolLogger log.Logger

	// Registry maps device models to handlers. Nil uses protocol.NewRegistry().
	Registry *protocol.Registry
}

// disconnectNotifier is implemented by hardware that reports its own
// disconnection.
type disconnectNotifier interface {
	OnDisconnect(fn func())
}

// Server is the device side of a session.
type Server struct {
	dispatcher *interaction.Server
	registry   *protocol.Registry
	logger     *slog.Logger
	protoLog   log.Logger

	mu        sync.Mutex
	conn      *transport.Conn
	nextIndex uint32
	inflight  sync.WaitGroup
}

// New creates a server with an empty roster.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	registry := config.Registry
	if registry == nil {
		registry = protocol.NewRegistry()
	}

	dispatcher := interaction.NewServer()
	dispatcher.SetLogger(logger)

	return &Server{
		dispatcher: dispatcher,
		registry:   registry,
		logger:     logger,
		protoLog:   config.ProtocolLogger,
	}
}

// Registry returns the model registry used for new devices.
func (s *Server) Registry() *protocol.Registry {
	return s.registry
}

// AddDevice registers hw under the next free index, with the handler the
// registry provides for model.
func (s *Server) AddDevice(name, model string, attrs wire.AttributesMap, hw hardware.Hardware) (wire.DeviceInfo, error) {
	s.mu.Lock()
	index := s.nextIndex
	s.nextIndex++
	s.mu.Unlock()

	info := wire.DeviceInfo{Index: index, Name: name, Model: model, Messages: attrs}
	handler := s.registry.NewHandler(model, attrs)
	if b, ok := handler.(interface{ SetLogger(*slog.Logger) }); ok {
		b.SetLogger(s.logger)
	}

	d := protocol.NewDevice(info, hw, handler,
		protocol.WithLogger(s.logger),
		protocol.WithNotifyFunc(s.forwardReading),
	)
	if err := s.dispatcher.AddDevice(d); err != nil {
		return wire.DeviceInfo{}, err
	}
	if n, ok := hw.(disconnectNotifier); ok {
		n.OnDisconnect(func() { s.deviceGone(index, "hardware disconnected") })
	}

	s.logger.Info("device added", "device", name, "index", index, "model", model)
	s.captureDevice(name, "", "added", "")
	return info, nil
}

// RemoveDevice disconnects the device and tells the client it is gone.
func (s *Server) RemoveDevice(index uint32) error {
	d, err := s.dispatcher.RemoveDevice(index)
	if err != nil {
		return err
	}
	if err := d.Disconnect(); err != nil && !errors.Is(err, hardware.ErrDisconnected) {
		s.logger.Warn("device disconnect failed", "device", d.Info().Name, "error", err)
	}
	s.announceRemoval(d.Info(), "removed")
	return nil
}

// deviceGone handles hardware that went away on its own.
func (s *Server) deviceGone(index uint32, reason string) {
	d, err := s.dispatcher.RemoveDevice(index)
	if err != nil {
		// Already removed through RemoveDevice.
		return
	}
	s.announceRemoval(d.Info(), reason)
}

func (s *Server) announceRemoval(info wire.DeviceInfo, reason string) {
	s.logger.Info("device removed", "device", info.Name, "index", info.Index, "reason", reason)
	s.captureDevice(info.Name, "added", "removed", reason)

	msg, err := wire.NewMessage(wire.EventMessageID, wire.MsgDeviceRemoved, info.Index, nil)
	if err != nil {
		s.logger.Error("failed to build event", "error", err)
		return
	}
	if err := s.send(msg); err != nil && !errors.Is(err, ErrNoConnection) {
		s.logger.Debug("device removal not delivered", "device", info.Name, "error", err)
	}
}

// Devices returns the current roster ordered by index.
func (s *Server) Devices() []wire.DeviceInfo {
	devices := s.dispatcher.Devices()
	out := make([]wire.DeviceInfo, len(devices))
	for i, d := range devices {
		out[i] = d.Info()
	}
	return out
}

// Attach registers conn as the session connection, so events raised
// before Serve starts reading (device removals, readings) reach the
// client. Attaching the connection that is already attached is a no-op.
func (s *Server) Attach(conn *transport.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		if s.conn == conn {
			return nil
		}
		return ErrAlreadyServing
	}
	s.conn = conn
	return nil
}

// Serve handles conn until it closes or ctx is done. conn is attached
// first if Attach was not called. In-flight commands finish before Serve
// returns.
func (s *Server) Serve(ctx context.Context, conn *transport.Conn) error {
	if err := s.Attach(conn); err != nil {
		return err
	}

	s.captureSession(conn.ID(), "", "active")
	s.logger.Info("session started", "conn", conn.ID())

	err := conn.Run(ctx, func(data []byte) {
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			s.handleFrame(ctx, data)
		}()
	})
	s.inflight.Wait()

	s.mu.Lock()
	s.conn = nil
	s.mu.Unlock()

	s.captureSession(conn.ID(), "active", "ended")
	s.logger.Info("session ended", "conn", conn.ID())
	return err
}

func (s *Server) handleFrame(ctx context.Context, data []byte) {
	start := time.Now()
	msg, err := wire.DecodeMessage(data)
	if err != nil {
		// Without a readable id there is nobody to answer.
		s.logger.Warn("discarding undecodable message", "error", err)
		return
	}
	s.capture(log.DirectionIn, msg, nil)

	reply := s.dispatcher.HandleMessage(ctx, msg)
	elapsed := time.Since(start)
	if err := s.sendCaptured(reply, &elapsed); err != nil {
		s.logger.Debug("reply not delivered", "id", msg.ID, "type", reply.Type, "error", err)
	}
}

func (s *Server) forwardReading(deviceIndex uint32, reading wire.RawReading) {
	msg, err := wire.NewMessage(wire.EventMessageID, wire.MsgRawReading, deviceIndex, reading)
	if err != nil {
		s.logger.Error("failed to build event", "error", err)
		return
	}
	if err := s.send(msg); err != nil {
		s.logger.Debug("raw reading not delivered", "device", deviceIndex, "endpoint", reading.Endpoint, "error", err)
	}
}

func (s *Server) send(msg *wire.Message) error {
	return s.sendCaptured(msg, nil)
}

func (s *Server) sendCaptured(msg *wire.Message, elapsed *time.Duration) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNoConnection
	}

	data, err := wire.EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Type, err)
	}
	s.capture(log.DirectionOut, msg, elapsed)
	return conn.Send(data)
}

func (s *Server) connID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ""
	}
	return s.conn.ID()
}

func (s *Server) capture(direction log.Direction, msg *wire.Message, elapsed *time.Duration) {
	if s.protoLog == nil {
		return
	}
	me := log.NewMessageEvent(msg)
	me.ProcessingTime = elapsed
	log.Emit(s.protoLog, log.Event{
		ConnectionID: s.connID(),
		Direction:    direction,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		LocalRole:    log.RoleServer,
		Message:      me,
	})
}

func (s *Server) captureSession(connID, oldState, newState string) {
	log.Emit(s.protoLog, log.Event{
		ConnectionID: connID,
		Layer:        log.LayerSession,
		Category:     log.CategoryState,
		LocalRole:    log.RoleServer,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntitySession,
			OldState: oldState,
			NewState: newState,
		},
	})
}

func (s *Server) captureDevice(name, oldState, newState, reason string) {
	log.Emit(s.protoLog, log.Event{
		ConnectionID: s.connID(),
		Layer:        log.LayerSession,
		Category:     log.CategoryState,
		LocalRole:    log.RoleServer,
		DeviceName:   name,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityDevice,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}
