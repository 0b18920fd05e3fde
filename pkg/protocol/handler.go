package protocol

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/haptic-protocol/haptic-go/pkg/command"
	"github.com/haptic-protocol/haptic-go/pkg/hardware"
	"github.com/haptic-protocol/haptic-go/pkg/state"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// Handler executes validated commands against hardware for one device
// model. Subcommand slices are sorted by feature index and in range.
type Handler interface {
	HandleVibrate(ctx context.Context, hw hardware.Hardware, subs []command.Subcommand[float64]) error
	HandleRotate(ctx context.Context, hw hardware.Hardware, subs []command.Subcommand[command.Rotation]) error
	HandleLinear(ctx context.Context, hw hardware.Hardware, subs []command.Subcommand[command.Vector]) error
	HandleStop(ctx context.Context, hw hardware.Hardware) error
	HandleRawWrite(ctx context.Context, hw hardware.Hardware, cmd wire.RawWriteCmd) error
	HandleRawRead(ctx context.Context, hw hardware.Hardware, cmd wire.RawReadCmd) (wire.RawReading, error)
	HandleRawSubscribe(ctx context.Context, hw hardware.Hardware, cmd wire.RawSubscribeCmd, fn hardware.NotifyFunc) error
	HandleRawUnsubscribe(ctx context.Context, hw hardware.Hardware, cmd wire.RawUnsubscribeCmd) error
	HandleBatteryLevel(ctx context.Context, hw hardware.Hardware) (wire.BatteryLevelReading, error)
	HandleRSSILevel(ctx context.Context, hw hardware.Hardware) (wire.RSSILevelReading, error)
}

// Base is the default Handler. Motion commands go through the state cache
// and the Encoder; everything else is forwarded to the hardware.
type Base struct {
	attrs   wire.AttributesMap
	manager *state.CommandManager
	encoder Encoder
	logger  *slog.Logger
}

// NewBase creates a default handler for a device with the given attributes.
// A nil encoder selects IdentityEncoder.
func NewBase(attrs wire.AttributesMap, encoder Encoder) *Base {
	if encoder == nil {
		encoder = IdentityEncoder{}
	}
	return &Base{
		attrs:   attrs,
		manager: state.NewCommandManager(attrs),
		encoder: encoder,
		logger:  slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger for debug traces.
func (b *Base) SetLogger(logger *slog.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// HandleVibrate implements Handler.
func (b *Base) HandleVibrate(ctx context.Context, hw hardware.Hardware, subs []command.Subcommand[float64]) error {
	merged, changed, err := b.manager.UpdateVibration(subs, true)
	if err != nil || !changed {
		b.traceUnchanged(wire.MsgVibrateCmd, err)
		return err
	}
	return b.write(ctx, hw, b.encoder.EncodeVibration(b.attrs[wire.MsgVibrateCmd], merged))
}

// HandleRotate implements Handler.
func (b *Base) HandleRotate(ctx context.Context, hw hardware.Hardware, subs []command.Subcommand[command.Rotation]) error {
	merged, changed, err := b.manager.UpdateRotation(subs, true)
	if err != nil || !changed {
		b.traceUnchanged(wire.MsgRotateCmd, err)
		return err
	}
	return b.write(ctx, hw, b.encoder.EncodeRotation(b.attrs[wire.MsgRotateCmd], merged))
}

// HandleLinear implements Handler.
func (b *Base) HandleLinear(ctx context.Context, hw hardware.Hardware, subs []command.Subcommand[command.Vector]) error {
	merged, changed, err := b.manager.UpdateLinear(subs, true)
	if err != nil || !changed {
		b.traceUnchanged(wire.MsgLinearCmd, err)
		return err
	}
	return b.write(ctx, hw, b.encoder.EncodeLinear(b.attrs[wire.MsgLinearCmd], merged))
}

// HandleStop resets vibration and rotation. Linear actuators hold their
// position and are left alone.
func (b *Base) HandleStop(ctx context.Context, hw hardware.Hardware) error {
	speeds, changed, err := b.manager.StopVibration()
	if err != nil {
		return err
	}
	if changed {
		if err := b.write(ctx, hw, b.encoder.EncodeVibration(b.attrs[wire.MsgVibrateCmd], speeds)); err != nil {
			return err
		}
	}

	rotations, changed, err := b.manager.StopRotation()
	if err != nil {
		return err
	}
	if changed {
		return b.write(ctx, hw, b.encoder.EncodeRotation(b.attrs[wire.MsgRotateCmd], rotations))
	}
	return nil
}

// HandleRawWrite implements Handler.
func (b *Base) HandleRawWrite(ctx context.Context, hw hardware.Hardware, cmd wire.RawWriteCmd) error {
	return hw.WriteValue(ctx, hardware.WriteCmd{
		Endpoint:          cmd.Endpoint,
		Data:              cmd.Data,
		WriteWithResponse: cmd.WriteWithResponse,
	})
}

// HandleRawRead implements Handler.
func (b *Base) HandleRawRead(ctx context.Context, hw hardware.Hardware, cmd wire.RawReadCmd) (wire.RawReading, error) {
	data, err := hw.ReadValue(ctx, hardware.ReadCmd{
		Endpoint: cmd.Endpoint,
		Length:   cmd.ExpectedLength,
		Timeout:  time.Duration(cmd.Timeout) * time.Millisecond,
	})
	if err != nil {
		return wire.RawReading{}, err
	}
	return wire.RawReading{Endpoint: cmd.Endpoint, Data: data}, nil
}

// HandleRawSubscribe implements Handler.
func (b *Base) HandleRawSubscribe(ctx context.Context, hw hardware.Hardware, cmd wire.RawSubscribeCmd, fn hardware.NotifyFunc) error {
	return hw.Subscribe(ctx, cmd.Endpoint, fn)
}

// HandleRawUnsubscribe implements Handler.
func (b *Base) HandleRawUnsubscribe(ctx context.Context, hw hardware.Hardware, cmd wire.RawUnsubscribeCmd) error {
	return hw.Unsubscribe(ctx, cmd.Endpoint)
}

// HandleBatteryLevel reads one byte (percent) from EndpointRxBLEBattery.
func (b *Base) HandleBatteryLevel(ctx context.Context, hw hardware.Hardware) (wire.BatteryLevelReading, error) {
	data, err := hw.ReadValue(ctx, hardware.ReadCmd{Endpoint: wire.EndpointRxBLEBattery, Length: 1})
	if err != nil {
		return wire.BatteryLevelReading{}, err
	}
	if len(data) == 0 {
		return wire.BatteryLevelReading{}, fmt.Errorf("%w: empty battery reading", wire.ErrDeviceCommunication)
	}
	return wire.BatteryLevelReading{Level: float64(data[0]) / 100}, nil
}

// HandleRSSILevel implements Handler.
func (b *Base) HandleRSSILevel(ctx context.Context, hw hardware.Hardware) (wire.RSSILevelReading, error) {
	rssi, err := hw.RSSI(ctx)
	if err != nil {
		return wire.RSSILevelReading{}, err
	}
	return wire.RSSILevelReading{Level: rssi}, nil
}

func (b *Base) write(ctx context.Context, hw hardware.Hardware, cmds []hardware.WriteCmd) error {
	for _, cmd := range cmds {
		if err := hw.WriteValue(ctx, cmd); err != nil {
			return fmt.Errorf("write to %s: %w", cmd.Endpoint, err)
		}
	}
	return nil
}

func (b *Base) traceUnchanged(t wire.MessageType, err error) {
	if err == nil {
		b.logger.Debug("state unchanged, write suppressed", "type", t)
	}
}
