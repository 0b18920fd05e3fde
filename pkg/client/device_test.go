package client

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haptic-protocol/haptic-go/pkg/command"
	"github.com/haptic-protocol/haptic-go/pkg/connection"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

type sentCommand struct {
	Type    wire.MessageType
	Index   uint32
	Payload any
}

// fakeRequester records commands and answers with a fixed reply.
type fakeRequester struct {
	sent      []sentCommand
	replyType wire.MessageType
	reply     any
	err       error
}

func (r *fakeRequester) Send(_ context.Context, t wire.MessageType, index uint32, payload any) (*wire.Message, error) {
	r.sent = append(r.sent, sentCommand{Type: t, Index: index, Payload: payload})
	if r.err != nil {
		return nil, r.err
	}
	replyType := r.replyType
	if replyType == 0 {
		replyType = wire.MsgOk
	}
	return wire.NewMessage(1, replyType, index, r.reply)
}

var testAttrs = wire.AttributesMap{
	wire.MsgVibrateCmd:      {FeatureCount: 2},
	wire.MsgRotateCmd:       {FeatureCount: 1},
	wire.MsgLinearCmd:       {FeatureCount: 1},
	wire.MsgRawReadCmd:      {},
	wire.MsgBatteryLevelCmd: {},
}

func newTestDevice(r *fakeRequester) *Device {
	return newDevice(wire.DeviceInfo{Index: 4, Name: "Je Joue", Messages: testAttrs}, r, slog.New(slog.DiscardHandler))
}

func TestDeviceCommandsBuildPayloads(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		run  func(d *Device) error
		want sentCommand
	}{
		{
			name: "VibrateUniform",
			run:  func(d *Device) error { return d.Vibrate(ctx, command.Uniform[float64]{Value: 0.5}) },
			want: sentCommand{wire.MsgVibrateCmd, 4, wire.VibrateCmd{Speeds: []wire.VibrateSubcommand{{Index: 0, Speed: 0.5}, {Index: 1, Speed: 0.5}}}},
		},
		{
			name: "VibrateSparse",
			run:  func(d *Device) error { return d.Vibrate(ctx, command.SparseMap[float64]{1: 0.9}) },
			want: sentCommand{wire.MsgVibrateCmd, 4, wire.VibrateCmd{Speeds: []wire.VibrateSubcommand{{Index: 1, Speed: 0.9}}}},
		},
		{
			name: "Rotate",
			run: func(d *Device) error {
				return d.Rotate(ctx, command.IndexedList[command.Rotation]{{Speed: 0.3, Clockwise: true}})
			},
			want: sentCommand{wire.MsgRotateCmd, 4, wire.RotateCmd{Rotations: []wire.RotationSubcommand{{Index: 0, Speed: 0.3, Clockwise: true}}}},
		},
		{
			name: "Linear",
			run: func(d *Device) error {
				return d.Linear(ctx, command.Uniform[command.Vector]{Value: command.Vector{Duration: 500, Position: 0.25}})
			},
			want: sentCommand{wire.MsgLinearCmd, 4, wire.LinearCmd{Vectors: []wire.VectorSubcommand{{Index: 0, Duration: 500, Position: 0.25}}}},
		},
		{
			name: "Stop",
			run:  func(d *Device) error { return d.Stop(ctx) },
			want: sentCommand{wire.MsgStopDeviceCmd, 4, nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRequester{}
			require.NoError(t, tt.run(newTestDevice(r)))
			assert.Equal(t, []sentCommand{tt.want}, r.sent)
		})
	}
}

func TestDeviceRejectsBeforeSending(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		run  func(d *Device) error
		want error
	}{
		{
			name: "NotSupported",
			run:  func(d *Device) error { return d.RawWrite(ctx, wire.EndpointTx, []byte{1}, false) },
			want: wire.ErrMessageNotSupported,
		},
		{
			name: "TooManyFeatures",
			run:  func(d *Device) error { return d.Vibrate(ctx, command.IndexedList[float64]{0.1, 0.2, 0.3}) },
			want: wire.ErrFeatureCountMismatch,
		},
		{
			name: "IndexOutOfRange",
			run:  func(d *Device) error { return d.Vibrate(ctx, command.SparseMap[float64]{2: 0.1}) },
			want: wire.ErrFeatureIndexOutOfRange,
		},
		{
			name: "NilCommand",
			run:  func(d *Device) error { return d.Rotate(ctx, nil) },
			want: command.ErrNilCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRequester{}
			err := tt.run(newTestDevice(r))
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, r.sent)
		})
	}
}

func TestDeviceGate(t *testing.T) {
	ctx := context.Background()

	t.Run("DeviceRemoved", func(t *testing.T) {
		r := &fakeRequester{}
		d := newTestDevice(r)
		d.removed()

		err := d.Stop(ctx)
		var notConnected *wire.DeviceNotConnectedError
		require.ErrorAs(t, err, &notConnected)
		assert.Equal(t, "Je Joue", notConnected.Name)
		assert.Empty(t, r.sent)
		assert.False(t, d.Connected())
		assert.Equal(t, connection.StateDeviceDisconnected, d.State())
	})

	t.Run("ClientDisconnected", func(t *testing.T) {
		r := &fakeRequester{}
		d := newTestDevice(r)
		d.clientDisconnected()

		assert.ErrorIs(t, d.Vibrate(ctx, command.Uniform[float64]{Value: 1}), wire.ErrConnectorNotConnected)
		assert.Empty(t, r.sent)
	})

	t.Run("ExpansionBeforeGate", func(t *testing.T) {
		d := newTestDevice(&fakeRequester{})
		d.removed()
		err := d.Vibrate(ctx, command.IndexedList[float64]{0.1, 0.2, 0.3})
		assert.ErrorIs(t, err, wire.ErrFeatureCountMismatch)
	})
}

func TestDeviceReplies(t *testing.T) {
	ctx := context.Background()

	t.Run("BatteryLevel", func(t *testing.T) {
		d := newTestDevice(&fakeRequester{replyType: wire.MsgBatteryLevelReading, reply: wire.BatteryLevelReading{Level: 0.75}})
		level, err := d.BatteryLevel(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0.75, level)
	})

	t.Run("RawRead", func(t *testing.T) {
		r := &fakeRequester{replyType: wire.MsgRawReading, reply: wire.RawReading{Endpoint: wire.EndpointRx, Data: []byte{7}}}
		d := newTestDevice(r)
		data, err := d.RawRead(ctx, wire.EndpointRx, 1, 50*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, []byte{7}, data)
		assert.Equal(t, wire.RawReadCmd{Endpoint: wire.EndpointRx, ExpectedLength: 1, Timeout: 50}, r.sent[0].Payload)
	})

	t.Run("UnexpectedOkForReading", func(t *testing.T) {
		d := newTestDevice(&fakeRequester{})
		_, err := d.BatteryLevel(ctx)
		assert.ErrorIs(t, err, wire.ErrUnexpectedMessageType)
	})

	t.Run("UnexpectedReadingForOk", func(t *testing.T) {
		d := newTestDevice(&fakeRequester{replyType: wire.MsgRawReading, reply: wire.RawReading{}})
		assert.ErrorIs(t, d.Stop(ctx), wire.ErrUnexpectedMessageType)
	})

	t.Run("RemoteError", func(t *testing.T) {
		remote := &wire.DomainError{Code: wire.ErrorCodeDeviceCommunication, Message: "write failed"}
		d := newTestDevice(&fakeRequester{err: remote})
		err := d.Stop(ctx)
		assert.ErrorIs(t, err, wire.ErrDeviceCommunication)
		assert.True(t, errors.Is(err, remote))
	})
}

func TestDeviceEvents(t *testing.T) {
	d := newTestDevice(&fakeRequester{})

	// Published before anyone listens.
	d.message(&wire.Message{Type: wire.MsgRawReading})

	sub := d.Events()
	defer sub.Close()

	reading, err := wire.NewMessage(wire.EventMessageID, wire.MsgRawReading, 4, wire.RawReading{Endpoint: wire.EndpointRx, Data: []byte{9}})
	require.NoError(t, err)
	d.message(reading)
	d.removed()

	got := <-sub.C()
	assert.Equal(t, EventMessage, got.Type)
	raw, ok := got.RawReading()
	require.True(t, ok)
	assert.Equal(t, []byte{9}, raw.Data)

	got = <-sub.C()
	assert.Equal(t, EventDeviceRemoved, got.Type)
	_, ok = got.RawReading()
	assert.False(t, ok)

	_, ok = <-sub.C()
	assert.False(t, ok, "stream ends after EventDeviceRemoved")

	late := d.Events()
	_, ok = <-late.C()
	assert.False(t, ok, "subscribing after removal yields a closed stream")
}

func TestDeviceEventStreamEnds(t *testing.T) {
	tests := []struct {
		name     string
		terminal func(*Device)
		want     EventType
	}{
		{"DeviceRemoved", (*Device).removed, EventDeviceRemoved},
		{"ClientDisconnect", (*Device).clientDisconnected, EventClientDisconnect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDevice(&fakeRequester{})
			sub := d.Events()

			var got []EventType
			done := make(chan struct{})
			go func() {
				defer close(done)
				for ev := range sub.C() {
					got = append(got, ev.Type)
				}
			}()

			tt.terminal(d)
			// Later terminal events are ignored.
			d.removed()
			d.clientDisconnected()

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("range over Events().C() did not end")
			}
			assert.Equal(t, []EventType{tt.want}, got)
			assert.False(t, d.Connected())
		})
	}
}

func TestDeviceIdentity(t *testing.T) {
	a := newTestDevice(&fakeRequester{})
	b := newDevice(wire.DeviceInfo{Index: 4, Name: "Other"}, &fakeRequester{}, slog.New(slog.DiscardHandler))
	c := newDevice(wire.DeviceInfo{Index: 5, Name: "Je Joue"}, &fakeRequester{}, slog.New(slog.DiscardHandler))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.Equal(t, "Je Joue (index 4, CONNECTED)", a.String())

	count, ok := a.FeatureCount(wire.MsgVibrateCmd)
	assert.True(t, ok)
	assert.Equal(t, uint32(2), count)
	assert.True(t, a.Supports(wire.MsgStopDeviceCmd))
	assert.False(t, a.Supports(wire.MsgRSSILevelCmd))
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "DEVICE_REMOVED", EventDeviceRemoved.String())
	assert.Equal(t, "CLIENT_DISCONNECT", EventClientDisconnect.String())
	assert.Equal(t, "MESSAGE", EventMessage.String())
	assert.Equal(t, "UNKNOWN", EventType(9).String())
}
