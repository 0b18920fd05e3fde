package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haptic-protocol/haptic-go/pkg/client"
	"github.com/haptic-protocol/haptic-go/pkg/hardware"
	"github.com/haptic-protocol/haptic-go/pkg/log"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

func startSimulator(t *testing.T, cfg *Config, protoLog log.Logger) *Simulator {
	t.Helper()
	sim, err := NewSimulator(cfg, nil, protoLog)
	require.NoError(t, err)
	require.NoError(t, sim.Start(context.Background()))
	t.Cleanup(func() { _ = sim.Close() })
	return sim
}

func TestSimulatorDemo(t *testing.T) {
	demoStepDelay = 0
	recorder := log.NewRecorder(0)
	sim := startSimulator(t, DefaultConfig(), recorder)

	var out bytes.Buffer
	require.NoError(t, runDemo(context.Background(), sim.Client(), &out))

	assert.Contains(t, out.String(), "== Je Joue (index 0")
	assert.Contains(t, out.String(), "battery      80%")
	assert.Contains(t, out.String(), "rssi         -55 dBm")
	assert.Contains(t, out.String(), "stop         ok")

	hw, ok := sim.Hardware(0)
	require.True(t, ok)
	assert.Equal(t, []hardware.WriteCmd{
		{Endpoint: wire.EndpointTx, Data: []byte{1, 3}},
		{Endpoint: wire.EndpointTx, Data: []byte{1, 0}},
	}, hw.TakeWrites())

	msgType := wire.MsgBatteryLevelReading
	assert.NotEmpty(t, recorder.Events(log.Filter{MessageType: &msgType}))
}

func TestSimulatorRemoval(t *testing.T) {
	sim := startSimulator(t, DefaultConfig(), nil)

	d, ok := sim.Client().Device(0)
	require.True(t, ok)
	sub := d.Events()
	defer sub.Close()

	require.NoError(t, sim.Server().RemoveDevice(0))

	select {
	case ev := <-sub.C():
		assert.Equal(t, client.EventDeviceRemoved, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("no removal event")
	}
	assert.False(t, d.Connected())
}

func TestSimulatorClose(t *testing.T) {
	sim, err := NewSimulator(DefaultConfig(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, sim.Start(context.Background()))
	require.NoError(t, sim.Close())

	assert.False(t, sim.Client().Connected())
	d, ok := sim.Client().Device(0)
	require.True(t, ok)
	assert.ErrorIs(t, d.Stop(context.Background()), wire.ErrConnectorNotConnected)
}

func TestSimulatorFrameLogLevels(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sim, err := NewSimulator(DefaultConfig(), logger, nil)
	require.NoError(t, err)

	// A reply nobody waits for, as left behind by an abandoned request.
	late, err := wire.NewMessage(999, wire.MsgOk, 0, nil)
	require.NoError(t, err)
	data, err := wire.EncodeMessage(late)
	require.NoError(t, err)

	sim.handleFrame(data)
	assert.Contains(t, logs.String(), "level=DEBUG msg=\"dropping frame\"")
	assert.NotContains(t, logs.String(), "level=WARN")

	logs.Reset()
	sim.handleFrame([]byte{0xff, 0x00})
	assert.Contains(t, logs.String(), "level=WARN msg=\"dropping frame\"")
}
