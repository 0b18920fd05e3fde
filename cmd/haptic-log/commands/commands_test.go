package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haptic-protocol/haptic-go/pkg/log"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

var ts = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

const connID = "abc12345-6789-0123-4567-890abcdef012"

func sampleEvents(t *testing.T) []log.Event {
	t.Helper()
	vibrate, err := wire.NewMessage(1, wire.MsgVibrateCmd, 0, wire.VibrateCmd{Speeds: []wire.VibrateSubcommand{{Index: 0, Speed: 0.5}}})
	require.NoError(t, err)
	failure, err := wire.NewMessage(2, wire.MsgError, 0, wire.NewErrorPayload(wire.ErrDeviceNotFound))
	require.NoError(t, err)

	elapsed := 1500 * time.Microsecond
	reply := log.NewMessageEvent(failure)
	reply.ProcessingTime = &elapsed

	return []log.Event{
		{Timestamp: ts, ConnectionID: connID, Direction: log.DirectionOut, Layer: log.LayerTransport,
			Category: log.CategoryMessage, LocalRole: log.RoleClient,
			Frame: &log.FrameEvent{Size: 128, Data: []byte{0xa1, 0x01}, Truncated: true}},
		{Timestamp: ts.Add(time.Millisecond), ConnectionID: connID, Direction: log.DirectionOut, Layer: log.LayerWire,
			Category: log.CategoryMessage, LocalRole: log.RoleClient, Message: log.NewMessageEvent(vibrate)},
		{Timestamp: ts.Add(2 * time.Millisecond), ConnectionID: connID, Direction: log.DirectionIn, Layer: log.LayerWire,
			Category: log.CategoryMessage, LocalRole: log.RoleClient, Message: reply},
		{Timestamp: ts.Add(3 * time.Millisecond), ConnectionID: "srv", Layer: log.LayerSession,
			Category: log.CategoryState, LocalRole: log.RoleServer, DeviceName: "Je Joue",
			StateChange: &log.StateChangeEvent{Entity: log.StateEntityDevice, OldState: "added", NewState: "removed", Reason: "hardware disconnected"}},
		{Timestamp: ts.Add(4 * time.Millisecond), ConnectionID: "srv", Direction: log.DirectionIn, Layer: log.LayerTransport,
			Category: log.CategoryError, LocalRole: log.RoleServer,
			Error: log.NewErrorEvent(log.LayerTransport, wire.ErrConnectorChannelClosed, "read frame")},
	}
}

func writeLog(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.hlog")
	logger, err := log.NewFileLogger(path)
	require.NoError(t, err)
	for _, e := range events {
		logger.Log(e)
	}
	require.NoError(t, logger.Close())
	return path
}

func TestFormatEvent(t *testing.T) {
	events := sampleEvents(t)

	tests := []struct {
		name  string
		event log.Event
		want  []string
	}{
		{"Frame", events[0], []string{"2026-01-28T10:15:32.123456Z", "[conn:abc12345]", "OUT", "CLIENT", "TRANSPORT", "Frame", "128 bytes", "a101 (truncated)"}},
		{"Command", events[1], []string{"WIRE VibrateCmd", "MessageID: 1", "Payload: {1: [{"}},
		{"ErrorReply", events[2], []string{"Error", "ErrorCode: DEVICE_NOT_FOUND (9)", "Duration: 1.500ms"}},
		{"State", events[3], []string{"SESSION State", "Device: Je Joue", "added -> removed", "Reason: hardware disconnected"}},
		{"Error", events[4], []string{"Message: connector channel closed", "Code: CONNECTOR_CHANNEL_CLOSED", "Context: read frame"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			formatEvent(&buf, tt.event)
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRunViewFilters(t *testing.T) {
	path := writeLog(t, sampleEvents(t))
	wireLayer := log.LayerWire
	vibrate := wire.MsgVibrateCmd

	var buf bytes.Buffer
	require.NoError(t, RunView(path, log.Filter{Layer: &wireLayer, MessageType: &vibrate}, &buf))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "[conn:"))
	assert.Contains(t, out, "VibrateCmd")

	buf.Reset()
	require.NoError(t, RunView(path, log.Filter{DeviceName: "Je Joue"}, &buf))
	assert.Equal(t, 1, strings.Count(buf.String(), "[conn:"))

	assert.Error(t, RunView(filepath.Join(t.TempDir(), "missing.hlog"), log.Filter{}, &buf))
}

func TestCollectStats(t *testing.T) {
	path := writeLog(t, sampleEvents(t))

	stats, err := CollectStats(path)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalEvents)
	assert.Equal(t, 2, stats.EventsByLayer[log.LayerTransport])
	assert.Equal(t, 1, stats.MessagesByType[wire.MsgVibrateCmd])
	assert.Equal(t, 1, stats.ErrorsByCode[wire.ErrorCodeDeviceNotFound])
	assert.Equal(t, 1, stats.Errors)
	require.Len(t, stats.Connections, 2)
	assert.True(t, stats.Connections["srv"].Devices["Je Joue"])
	assert.Equal(t, log.RoleClient, stats.Connections[connID].Role)

	var buf bytes.Buffer
	require.NoError(t, RunStats(path, &buf))
	assert.Contains(t, buf.String(), "Total Events: 5")
	assert.Contains(t, buf.String(), "DEVICE_NOT_FOUND:")
}

func TestParseFlags(t *testing.T) {
	layer, err := ParseLayerFlag("Session")
	require.NoError(t, err)
	assert.Equal(t, log.LayerSession, layer)
	_, err = ParseLayerFlag("service")
	assert.Error(t, err)

	dir, err := ParseDirectionFlag("IN")
	require.NoError(t, err)
	assert.Equal(t, log.DirectionIn, dir)

	cat, err := ParseCategoryFlag("error")
	require.NoError(t, err)
	assert.Equal(t, log.CategoryError, cat)

	typ, err := ParseMessageTypeFlag("rawreading")
	require.NoError(t, err)
	assert.Equal(t, wire.MsgRawReading, typ)

	typ, err = ParseMessageTypeFlag("vibrate")
	require.NoError(t, err)
	assert.Equal(t, wire.MsgVibrateCmd, typ)

	_, err = ParseMessageTypeFlag("nope")
	assert.Error(t, err)
}
