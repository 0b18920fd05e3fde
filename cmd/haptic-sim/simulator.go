package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/haptic-protocol/haptic-go/pkg/client"
	"github.com/haptic-protocol/haptic-go/pkg/hardware"
	"github.com/haptic-protocol/haptic-go/pkg/interaction"
	"github.com/haptic-protocol/haptic-go/pkg/log"
	"github.com/haptic-protocol/haptic-go/pkg/server"
	"github.com/haptic-protocol/haptic-go/pkg/transport"
)

// Simulator runs the configured devices behind a server and connects a
// client to it over an in-memory connection.
type Simulator struct {
	server   *server.Server
	client   *client.Client
	hardware map[uint32]*hardware.Simulated
	logger   *slog.Logger

	clientConn *transport.Conn
	serverConn *transport.Conn

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewSimulator builds the server roster from cfg. protoLog may be nil.
func NewSimulator(cfg *Config, logger *slog.Logger, protoLog log.Logger) (*Simulator, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	srv := server.New(server.Config{
		Logger:         logger.With("component", "server"),
		ProtocolLogger: protoLog,
	})
	sim := &Simulator{
		server:   srv,
		hardware: make(map[uint32]*hardware.Simulated, len(cfg.Devices)),
		logger:   logger,
	}

	for _, d := range cfg.Devices {
		attrs, err := d.Attributes()
		if err != nil {
			return nil, fmt.Errorf("device %q: %w", d.Name, err)
		}
		hw, err := d.Simulated(&hardware.SimulatedConfig{Logger: logger.With("component", "hardware")})
		if err != nil {
			return nil, fmt.Errorf("device %q: %w", d.Name, err)
		}
		info, err := srv.AddDevice(d.Name, d.Model, attrs, hw)
		if err != nil {
			return nil, fmt.Errorf("device %q: %w", d.Name, err)
		}
		sim.hardware[info.Index] = hw
	}

	a, b := net.Pipe()
	sim.clientConn = transport.NewConn(a,
		transport.WithLogger(logger.With("component", "transport", "role", "client")),
		transport.WithProtocolLogger(protoLog, log.RoleClient),
	)
	sim.serverConn = transport.NewConn(b,
		transport.WithLogger(logger.With("component", "transport", "role", "server")),
		transport.WithProtocolLogger(protoLog, log.RoleServer),
	)
	sim.client = client.New(sim.clientConn,
		client.WithLogger(logger.With("component", "client")),
		client.WithProtocolLogger(protoLog, sim.clientConn.ID()),
	)
	return sim, nil
}

// Start serves the connection and registers every server device with the
// client. The connection is attached before Start returns, so server
// events raised afterwards always reach the client.
func (s *Simulator) Start(ctx context.Context) error {
	if err := s.server.Attach(s.serverConn); err != nil {
		return err
	}
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		if err := s.server.Serve(ctx, s.serverConn); err != nil {
			s.logger.Error("server stopped", "error", err)
		}
	}()
	go func() {
		defer s.wg.Done()
		err := s.clientConn.Run(ctx, s.handleFrame)
		if err != nil {
			s.logger.Error("client connection failed", "error", err)
		}
		_ = s.client.Disconnect()
	}()

	for _, info := range s.server.Devices() {
		if _, err := s.client.AddDevice(info); err != nil {
			return fmt.Errorf("register %s: %w", info.Name, err)
		}
	}
	return nil
}

func (s *Simulator) handleFrame(data []byte) {
	err := s.client.HandleData(data)
	switch {
	case err == nil:
	case errors.Is(err, interaction.ErrUnexpectedReply):
		// Late replies for abandoned requests.
		s.logger.Debug("dropping frame", "error", err)
	default:
		s.logger.Warn("dropping frame", "error", err)
	}
}

// Close disconnects the client and stops serving.
func (s *Simulator) Close() error {
	err := s.client.Disconnect()
	if s.cancel != nil {
		s.cancel()
	}
	err = errors.Join(err, s.clientConn.Close(), s.serverConn.Close())
	s.wg.Wait()
	return err
}

// Client returns the client side of the session.
func (s *Simulator) Client() *client.Client {
	return s.client
}

// Server returns the device side of the session.
func (s *Simulator) Server() *server.Server {
	return s.server
}

// Hardware returns the simulated hardware behind a device index.
func (s *Simulator) Hardware(index uint32) (*hardware.Simulated, bool) {
	hw, ok := s.hardware[index]
	return hw, ok
}
