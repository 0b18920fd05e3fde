package haptic_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haptic-protocol/haptic-go/pkg/client"
	"github.com/haptic-protocol/haptic-go/pkg/command"
	"github.com/haptic-protocol/haptic-go/pkg/connection"
	"github.com/haptic-protocol/haptic-go/pkg/hardware"
	"github.com/haptic-protocol/haptic-go/pkg/log"
	"github.com/haptic-protocol/haptic-go/pkg/protocol"
	"github.com/haptic-protocol/haptic-go/pkg/server"
	"github.com/haptic-protocol/haptic-go/pkg/transport"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

var jeJoueMessages = wire.AttributesMap{
	wire.MsgVibrateCmd:      {FeatureCount: 2, StepCount: []uint32{5, 5}},
	wire.MsgBatteryLevelCmd: {},
	wire.MsgRawSubscribeCmd: {},
}

type e2eSession struct {
	srv    *server.Server
	client *client.Client
	hw     *hardware.Simulated
	device *client.Device
	conn   *transport.Conn
}

// startE2E serves a simulated Je Joue and connects a client to it.
func startE2E(t *testing.T, protoLog log.Logger) *e2eSession {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	srv := server.New(server.Config{ProtocolLogger: protoLog})
	battery := uint8(64)
	hw := hardware.NewSimulated(hardware.SimulatedConfig{Name: "Je Joue", BatteryLevel: &battery})
	info, err := srv.AddDevice("Je Joue", protocol.ModelJeJoue, jeJoueMessages, hw)
	require.NoError(t, err)

	clientConn, serverConn := transport.Pipe()
	c := client.New(clientConn, client.WithProtocolLogger(protoLog, clientConn.ID()))

	require.NoError(t, srv.Attach(serverConn))
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ctx, serverConn) }()
	go func() { _ = clientConn.Run(ctx, func(data []byte) { _ = c.HandleData(data) }) }()

	t.Cleanup(func() {
		_ = c.Disconnect()
		cancel()
		_ = clientConn.Close()
		select {
		case <-served:
		case <-time.After(time.Second):
			t.Error("Serve did not return")
		}
	})

	d, err := c.AddDevice(info)
	require.NoError(t, err)
	return &e2eSession{srv: srv, client: c, hw: hw, device: d, conn: clientConn}
}

func nextEvent(t *testing.T, sub interface{ C() <-chan client.Event }) client.Event {
	t.Helper()
	select {
	case ev, ok := <-sub.C():
		require.True(t, ok, "subscription closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return client.Event{}
	}
}

func TestE2E_JeJoueVibration(t *testing.T) {
	s := startE2E(t, nil)
	ctx := context.Background()

	steps := []struct {
		name string
		run  func() error
		want []hardware.WriteCmd
	}{
		{"first motor", func() error {
			return s.device.Vibrate(ctx, command.SparseMap[float64]{0: 0.5})
		}, []hardware.WriteCmd{{Endpoint: wire.EndpointTx, Data: []byte{2, 3}}}},
		{"unchanged", func() error {
			return s.device.Vibrate(ctx, command.IndexedList[float64]{0.5, 0})
		}, nil},
		{"both motors", func() error {
			return s.device.Vibrate(ctx, command.IndexedList[float64]{0.1, 0.5})
		}, []hardware.WriteCmd{{Endpoint: wire.EndpointTx, Data: []byte{1, 1}}}},
		{"second motor only", func() error {
			return s.device.Vibrate(ctx, command.IndexedList[float64]{0, 0.9})
		}, []hardware.WriteCmd{{Endpoint: wire.EndpointTx, Data: []byte{3, 5}}}},
		{"stop", func() error {
			return s.device.Stop(ctx)
		}, []hardware.WriteCmd{{Endpoint: wire.EndpointTx, Data: []byte{1, 0}}}},
	}

	for _, step := range steps {
		require.NoError(t, step.run(), step.name)
		assert.Equal(t, step.want, s.hw.TakeWrites(), step.name)
	}

	level, err := s.device.BatteryLevel(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.64, level, 1e-9)
}

func TestE2E_CommandValidation(t *testing.T) {
	s := startE2E(t, nil)
	ctx := context.Background()

	err := s.device.Vibrate(ctx, command.IndexedList[float64]{0.1, 0.2, 0.3})
	assert.ErrorIs(t, err, wire.ErrFeatureCountMismatch)

	err = s.device.Vibrate(ctx, command.SparseMap[float64]{2: 0.5})
	assert.ErrorIs(t, err, wire.ErrFeatureIndexOutOfRange)

	err = s.device.Rotate(ctx, command.Uniform[command.Rotation]{Value: command.Rotation{Speed: 0.5}})
	assert.ErrorIs(t, err, wire.ErrMessageNotSupported)

	// Out-of-range speeds are rejected by the server and come back as
	// typed errors.
	err = s.device.Vibrate(ctx, command.Uniform[float64]{Value: 1.5})
	assert.ErrorIs(t, err, wire.ErrInvalidValue)
	assert.Empty(t, s.hw.TakeWrites())
}

func TestE2E_ConcurrentCommands(t *testing.T) {
	s := startE2E(t, nil)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				errs <- s.device.Vibrate(ctx, command.Uniform[float64]{Value: float64(i) / workers})
				return
			}
			level, err := s.device.BatteryLevel(ctx)
			if err == nil && level != 0.64 {
				err = errors.New("wrong battery level")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestE2E_RawSubscription(t *testing.T) {
	s := startE2E(t, nil)
	ctx := context.Background()

	sub := s.device.Events()
	defer sub.Close()

	require.NoError(t, s.device.RawSubscribe(ctx, wire.EndpointRx))
	require.True(t, s.hw.Notify(wire.EndpointRx, []byte{7, 8}))

	ev := nextEvent(t, sub)
	reading, ok := ev.RawReading()
	require.True(t, ok)
	assert.Equal(t, wire.RawReading{Endpoint: wire.EndpointRx, Data: []byte{7, 8}}, reading)
}

func TestE2E_DeviceRemoved(t *testing.T) {
	s := startE2E(t, nil)
	ctx := context.Background()

	sub := s.device.Events()
	defer sub.Close()

	require.NoError(t, s.hw.Disconnect())

	ev := nextEvent(t, sub)
	assert.Equal(t, client.EventDeviceRemoved, ev.Type)
	assert.Equal(t, connection.StateDeviceDisconnected, s.device.State())

	err := s.device.Vibrate(ctx, command.Uniform[float64]{Value: 0.5})
	assert.ErrorIs(t, err, wire.ErrDeviceNotConnected)
	assert.Empty(t, s.srv.Devices())
}

func TestE2E_ClientDisconnect(t *testing.T) {
	s := startE2E(t, nil)
	ctx := context.Background()

	sub := s.device.Events()
	defer sub.Close()

	require.NoError(t, s.client.Disconnect())

	ev := nextEvent(t, sub)
	assert.Equal(t, client.EventClientDisconnect, ev.Type)
	assert.False(t, s.device.Connected())

	err := s.device.Stop(ctx)
	assert.ErrorIs(t, err, wire.ErrConnectorNotConnected)
}

func TestE2E_ProtocolCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.hlog")
	fileLogger, err := log.NewFileLogger(path)
	require.NoError(t, err)

	s := startE2E(t, fileLogger)
	require.NoError(t, s.device.Vibrate(context.Background(), command.Uniform[float64]{Value: 0.5}))
	require.NoError(t, fileLogger.Close())

	msgType := wire.MsgVibrateCmd
	r, err := log.NewFilteredReader(path, log.Filter{MessageType: &msgType})
	require.NoError(t, err)
	defer r.Close()

	var roles []log.Role
	for {
		ev, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		roles = append(roles, ev.LocalRole)
	}
	assert.ElementsMatch(t, []log.Role{log.RoleClient, log.RoleServer}, roles)
}
