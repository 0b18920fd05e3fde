package protocol

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/haptic-protocol/haptic-go/pkg/command"
	"github.com/haptic-protocol/haptic-go/pkg/hardware"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// NotifyFunc receives raw endpoint data from subscribed endpoints.
type NotifyFunc func(deviceIndex uint32, reading wire.RawReading)

// Device is the device-side view of one connected piece of hardware.
type Device struct {
	info    wire.DeviceInfo
	hw      hardware.Hardware
	handler Handler
	logger  *slog.Logger
	notify  NotifyFunc
}

// DeviceOption configures a Device.
type DeviceOption func(*Device)

// WithLogger sets the device logger.
func WithLogger(logger *slog.Logger) DeviceOption {
	return func(d *Device) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithNotifyFunc sets the receiver for raw subscription data.
func WithNotifyFunc(fn NotifyFunc) DeviceOption {
	return func(d *Device) {
		d.notify = fn
	}
}

// NewDevice creates a device. info.Messages is treated as immutable from
// here on.
func NewDevice(info wire.DeviceInfo, hw hardware.Hardware, handler Handler, opts ...DeviceOption) *Device {
	d := &Device{
		info:    info,
		hw:      hw,
		handler: handler,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("device", info.Name, "index", info.Index)
	return d
}

// Info returns the device description.
func (d *Device) Info() wire.DeviceInfo {
	return d.info
}

// Hardware returns the underlying hardware.
func (d *Device) Hardware() hardware.Hardware {
	return d.hw
}

// Disconnect disconnects the hardware.
func (d *Device) Disconnect() error {
	return d.hw.Disconnect()
}

// ParseMessage validates msg and runs it through the handler. The reply
// carries the same id and device index as msg.
func (d *Device) ParseMessage(ctx context.Context, msg *wire.Message) (*wire.Message, error) {
	// Every device can be stopped.
	if msg.Type != wire.MsgStopDeviceCmd && !d.info.Messages.Supports(msg.Type) {
		return nil, &wire.MessageNotSupportedError{Type: msg.Type}
	}

	replyType, payload, err := d.dispatch(ctx, msg)
	if err != nil {
		d.logger.Debug("command failed", "type", msg.Type, "id", msg.ID, "error", err)
		return nil, err
	}
	return wire.NewMessage(msg.ID, replyType, msg.DeviceIndex, payload)
}

func (d *Device) dispatch(ctx context.Context, msg *wire.Message) (wire.MessageType, any, error) {
	switch msg.Type {
	case wire.MsgVibrateCmd:
		var cmd wire.VibrateCmd
		if err := decode(msg, &cmd); err != nil {
			return 0, nil, err
		}
		subs, err := d.vibrateSubcommands(cmd)
		if err != nil {
			return 0, nil, err
		}
		return wire.MsgOk, nil, d.handler.HandleVibrate(ctx, d.hw, subs)

	case wire.MsgRotateCmd:
		var cmd wire.RotateCmd
		if err := decode(msg, &cmd); err != nil {
			return 0, nil, err
		}
		subs, err := d.rotateSubcommands(cmd)
		if err != nil {
			return 0, nil, err
		}
		return wire.MsgOk, nil, d.handler.HandleRotate(ctx, d.hw, subs)

	case wire.MsgLinearCmd:
		var cmd wire.LinearCmd
		if err := decode(msg, &cmd); err != nil {
			return 0, nil, err
		}
		subs, err := d.linearSubcommands(cmd)
		if err != nil {
			return 0, nil, err
		}
		return wire.MsgOk, nil, d.handler.HandleLinear(ctx, d.hw, subs)

	case wire.MsgStopDeviceCmd:
		return wire.MsgOk, nil, d.handler.HandleStop(ctx, d.hw)

	case wire.MsgRawWriteCmd:
		var cmd wire.RawWriteCmd
		if err := decode(msg, &cmd); err != nil {
			return 0, nil, err
		}
		return wire.MsgOk, nil, d.handler.HandleRawWrite(ctx, d.hw, cmd)

	case wire.MsgRawReadCmd:
		var cmd wire.RawReadCmd
		if err := decode(msg, &cmd); err != nil {
			return 0, nil, err
		}
		reading, err := d.handler.HandleRawRead(ctx, d.hw, cmd)
		return wire.MsgRawReading, reading, err

	case wire.MsgRawSubscribeCmd:
		var cmd wire.RawSubscribeCmd
		if err := decode(msg, &cmd); err != nil {
			return 0, nil, err
		}
		return wire.MsgOk, nil, d.handler.HandleRawSubscribe(ctx, d.hw, cmd, d.forward)

	case wire.MsgRawUnsubscribeCmd:
		var cmd wire.RawUnsubscribeCmd
		if err := decode(msg, &cmd); err != nil {
			return 0, nil, err
		}
		return wire.MsgOk, nil, d.handler.HandleRawUnsubscribe(ctx, d.hw, cmd)

	case wire.MsgBatteryLevelCmd:
		reading, err := d.handler.HandleBatteryLevel(ctx, d.hw)
		return wire.MsgBatteryLevelReading, reading, err

	case wire.MsgRSSILevelCmd:
		reading, err := d.handler.HandleRSSILevel(ctx, d.hw)
		return wire.MsgRSSILevelReading, reading, err

	default:
		return 0, nil, &wire.MessageNotSupportedError{Type: msg.Type}
	}
}

func (d *Device) forward(endpoint wire.Endpoint, data []byte) {
	if d.notify == nil {
		d.logger.Debug("raw reading dropped, no receiver", "endpoint", endpoint)
		return
	}
	d.notify(d.info.Index, wire.RawReading{Endpoint: endpoint, Data: data})
}

func (d *Device) vibrateSubcommands(cmd wire.VibrateCmd) ([]command.Subcommand[float64], error) {
	values := make(map[uint32]float64, len(cmd.Speeds))
	for _, s := range cmd.Speeds {
		if err := checkUnit("speed", s.Speed); err != nil {
			return nil, err
		}
		if err := addUnique(values, s.Index, s.Speed); err != nil {
			return nil, err
		}
	}
	return expandSparse(d.info.Messages, wire.MsgVibrateCmd, values)
}

func (d *Device) rotateSubcommands(cmd wire.RotateCmd) ([]command.Subcommand[command.Rotation], error) {
	values := make(map[uint32]command.Rotation, len(cmd.Rotations))
	for _, r := range cmd.Rotations {
		if err := checkUnit("speed", r.Speed); err != nil {
			return nil, err
		}
		if err := addUnique(values, r.Index, command.Rotation{Speed: r.Speed, Clockwise: r.Clockwise}); err != nil {
			return nil, err
		}
	}
	return expandSparse(d.info.Messages, wire.MsgRotateCmd, values)
}

func (d *Device) linearSubcommands(cmd wire.LinearCmd) ([]command.Subcommand[command.Vector], error) {
	values := make(map[uint32]command.Vector, len(cmd.Vectors))
	for _, v := range cmd.Vectors {
		if err := checkUnit("position", v.Position); err != nil {
			return nil, err
		}
		if err := addUnique(values, v.Index, command.Vector{Duration: v.Duration, Position: v.Position}); err != nil {
			return nil, err
		}
	}
	return expandSparse(d.info.Messages, wire.MsgLinearCmd, values)
}

// expandSparse validates the indices against the device's feature count
// and sorts them.
func expandSparse[T any](attrs wire.AttributesMap, t wire.MessageType, values map[uint32]T) ([]command.Subcommand[T], error) {
	count, _ := attrs.FeatureCount(t)
	return command.Expand[T](command.SparseMap[T](values), count)
}

func addUnique[T any](values map[uint32]T, index uint32, v T) error {
	if _, dup := values[index]; dup {
		return fmt.Errorf("%w: feature index %d given twice", wire.ErrInvalidValue, index)
	}
	values[index] = v
	return nil
}

func checkUnit(name string, v float64) error {
	if !(v >= 0 && v <= 1) {
		return fmt.Errorf("%w: %s %v outside [0, 1]", wire.ErrInvalidValue, name, v)
	}
	return nil
}

func decode(msg *wire.Message, v any) error {
	if err := msg.DecodePayload(v); err != nil {
		return fmt.Errorf("%w: %v", wire.ErrInvalidValue, err)
	}
	return nil
}
