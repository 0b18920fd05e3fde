package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/haptic-protocol/haptic-go/pkg/command"
	"github.com/haptic-protocol/haptic-go/pkg/connection"
	"github.com/haptic-protocol/haptic-go/pkg/event"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// requester sends one command and returns its reply.
// Implemented by interaction.Client.
type requester interface {
	Send(ctx context.Context, t wire.MessageType, deviceIndex uint32, payload any) (*wire.Message, error)
}

// Device is the handle for one device of a session.
type Device struct {
	info   wire.DeviceInfo
	sender requester
	gate   *connection.Gate
	events *event.Broadcaster[Event]
	logger *slog.Logger
}

func newDevice(info wire.DeviceInfo, sender requester, logger *slog.Logger) *Device {
	logger = logger.With("device", info.Name, "index", info.Index)
	d := &Device{
		info:   info,
		sender: sender,
		gate:   connection.NewGate(info.Name),
		events: event.NewBroadcasterWithConfig[Event](event.Config{Logger: logger}),
		logger: logger,
	}
	d.gate.OnStateChange(func(oldState, newState connection.State) {
		d.logger.Debug("connection state changed", "from", oldState, "to", newState)
	})
	return d
}

// Name returns the device name.
func (d *Device) Name() string {
	return d.info.Name
}

// Index returns the device index, unique within the session.
func (d *Device) Index() uint32 {
	return d.info.Index
}

// Attributes returns the supported message types. The map must not be
// modified.
func (d *Device) Attributes() wire.AttributesMap {
	return d.info.Messages
}

// FeatureCount returns the feature count for t and whether t is supported.
func (d *Device) FeatureCount(t wire.MessageType) (uint32, bool) {
	return d.info.Messages.FeatureCount(t)
}

// Supports reports whether the device accepts t. Stop is always accepted.
func (d *Device) Supports(t wire.MessageType) bool {
	return t == wire.MsgStopDeviceCmd || d.info.Messages.Supports(t)
}

// Connected reports whether commands may currently be sent.
func (d *Device) Connected() bool {
	return d.gate.Admit() == nil
}

// State returns the connection gate state.
func (d *Device) State() connection.State {
	return d.gate.State()
}

// Events subscribes to device events from now on.
func (d *Device) Events() *event.Subscription[Event] {
	return d.events.Subscribe()
}

// Equal reports whether d and other are the same device of a session.
func (d *Device) Equal(other *Device) bool {
	return other != nil && d.info.Index == other.info.Index
}

// String returns a short description for debug output.
func (d *Device) String() string {
	return fmt.Sprintf("%s (index %d, %s)", d.info.Name, d.info.Index, d.gate.State())
}

// Vibrate sets vibration speeds in [0.0, 1.0].
func (d *Device) Vibrate(ctx context.Context, cmd command.Command[float64]) error {
	subs, err := expand(d, wire.MsgVibrateCmd, cmd)
	if err != nil {
		return err
	}
	payload := wire.VibrateCmd{Speeds: make([]wire.VibrateSubcommand, len(subs))}
	for i, s := range subs {
		payload.Speeds[i] = wire.VibrateSubcommand{Index: s.Index, Speed: s.Value}
	}
	return d.expectOk(ctx, wire.MsgVibrateCmd, payload)
}

// Rotate sets rotation speeds in [0.0, 1.0] and directions.
func (d *Device) Rotate(ctx context.Context, cmd command.Command[command.Rotation]) error {
	subs, err := expand(d, wire.MsgRotateCmd, cmd)
	if err != nil {
		return err
	}
	payload := wire.RotateCmd{Rotations: make([]wire.RotationSubcommand, len(subs))}
	for i, s := range subs {
		payload.Rotations[i] = wire.RotationSubcommand{Index: s.Index, Speed: s.Value.Speed, Clockwise: s.Value.Clockwise}
	}
	return d.expectOk(ctx, wire.MsgRotateCmd, payload)
}

// Linear moves linear actuators to positions in [0.0, 1.0].
func (d *Device) Linear(ctx context.Context, cmd command.Command[command.Vector]) error {
	subs, err := expand(d, wire.MsgLinearCmd, cmd)
	if err != nil {
		return err
	}
	payload := wire.LinearCmd{Vectors: make([]wire.VectorSubcommand, len(subs))}
	for i, s := range subs {
		payload.Vectors[i] = wire.VectorSubcommand{Index: s.Index, Duration: s.Value.Duration, Position: s.Value.Position}
	}
	return d.expectOk(ctx, wire.MsgLinearCmd, payload)
}

// Stop stops vibration and rotation. Linear actuators keep their position.
func (d *Device) Stop(ctx context.Context) error {
	return d.expectOk(ctx, wire.MsgStopDeviceCmd, nil)
}

// BatteryLevel returns the battery level in [0.0, 1.0].
func (d *Device) BatteryLevel(ctx context.Context) (float64, error) {
	var reading wire.BatteryLevelReading
	if err := d.expect(ctx, wire.MsgBatteryLevelCmd, nil, wire.MsgBatteryLevelReading, &reading); err != nil {
		return 0, err
	}
	return reading.Level, nil
}

// RSSILevel returns the signal strength in dBm.
func (d *Device) RSSILevel(ctx context.Context) (int32, error) {
	var reading wire.RSSILevelReading
	if err := d.expect(ctx, wire.MsgRSSILevelCmd, nil, wire.MsgRSSILevelReading, &reading); err != nil {
		return 0, err
	}
	return reading.Level, nil
}

// RawWrite writes data to endpoint.
func (d *Device) RawWrite(ctx context.Context, endpoint wire.Endpoint, data []byte, withResponse bool) error {
	return d.expectOk(ctx, wire.MsgRawWriteCmd, wire.RawWriteCmd{
		Endpoint:          endpoint,
		Data:              data,
		WriteWithResponse: withResponse,
	})
}

// RawRead reads up to length bytes from endpoint. A zero timeout lets the
// hardware decide.
func (d *Device) RawRead(ctx context.Context, endpoint wire.Endpoint, length uint32, timeout time.Duration) ([]byte, error) {
	var reading wire.RawReading
	cmd := wire.RawReadCmd{Endpoint: endpoint, ExpectedLength: length, Timeout: uint32(timeout.Milliseconds())}
	if err := d.expect(ctx, wire.MsgRawReadCmd, cmd, wire.MsgRawReading, &reading); err != nil {
		return nil, err
	}
	return reading.Data, nil
}

// RawSubscribe subscribes to endpoint. Data arrives as EventMessage events.
func (d *Device) RawSubscribe(ctx context.Context, endpoint wire.Endpoint) error {
	return d.expectOk(ctx, wire.MsgRawSubscribeCmd, wire.RawSubscribeCmd{Endpoint: endpoint})
}

// RawUnsubscribe cancels an endpoint subscription.
func (d *Device) RawUnsubscribe(ctx context.Context, endpoint wire.Endpoint) error {
	return d.expectOk(ctx, wire.MsgRawUnsubscribeCmd, wire.RawUnsubscribeCmd{Endpoint: endpoint})
}

// expand checks support and expands cmd against the feature count.
func expand[T any](d *Device, t wire.MessageType, cmd command.Command[T]) ([]command.Subcommand[T], error) {
	count, ok := d.info.Messages.FeatureCount(t)
	if !ok {
		return nil, &wire.MessageNotSupportedError{Type: t}
	}
	return command.Expand(cmd, count)
}

// send admits and sends one command.
func (d *Device) send(ctx context.Context, t wire.MessageType, payload any) (*wire.Message, error) {
	if !d.Supports(t) {
		return nil, &wire.MessageNotSupportedError{Type: t}
	}
	if err := d.gate.Admit(); err != nil {
		return nil, err
	}
	return d.sender.Send(ctx, t, d.info.Index, payload)
}

func (d *Device) expectOk(ctx context.Context, t wire.MessageType, payload any) error {
	reply, err := d.send(ctx, t, payload)
	if err != nil {
		return err
	}
	if reply.Type != wire.MsgOk {
		return &wire.UnexpectedMessageTypeError{Description: reply.String()}
	}
	return nil
}

func (d *Device) expect(ctx context.Context, t wire.MessageType, payload any, want wire.MessageType, out any) error {
	reply, err := d.send(ctx, t, payload)
	if err != nil {
		return err
	}
	if reply.Type != want {
		return &wire.UnexpectedMessageTypeError{Description: reply.String()}
	}
	if err := reply.DecodePayload(out); err != nil {
		return &wire.UnexpectedMessageTypeError{Description: err.Error()}
	}
	return nil
}

// removed marks the device gone on the server side. EventDeviceRemoved
// is the last event; subscriptions close after it.
func (d *Device) removed() {
	d.gate.SetDeviceConnected(false)
	d.events.Publish(Event{Type: EventDeviceRemoved})
	d.events.Close()
}

// clientDisconnected marks the session gone. EventClientDisconnect is the
// last event; subscriptions close after it.
func (d *Device) clientDisconnected() {
	d.gate.SetClientConnected(false)
	d.events.Publish(Event{Type: EventClientDisconnect})
	d.events.Close()
}

func (d *Device) message(msg *wire.Message) {
	d.events.Publish(Event{Type: EventMessage, Message: msg})
}
