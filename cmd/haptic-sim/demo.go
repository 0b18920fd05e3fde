package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/haptic-protocol/haptic-go/pkg/client"
	"github.com/haptic-protocol/haptic-go/pkg/command"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

var demoStepDelay = 200 * time.Millisecond

// runDemo exercises every supported command on each device once.
func runDemo(ctx context.Context, c *client.Client, w io.Writer) error {
	for _, d := range c.Devices() {
		fmt.Fprintf(w, "== %s\n", d)
		if err := demoDevice(ctx, d, w); err != nil {
			return fmt.Errorf("%s: %w", d.Name(), err)
		}
	}
	return nil
}

func demoDevice(ctx context.Context, d *client.Device, w io.Writer) error {
	step := func(name string, fn func() error) error {
		err := fn()
		switch {
		case err == nil:
			fmt.Fprintf(w, "  %-12s ok\n", name)
		case errors.Is(err, wire.ErrMessageNotSupported):
			fmt.Fprintf(w, "  %-12s not supported\n", name)
			return nil
		default:
			fmt.Fprintf(w, "  %-12s %v\n", name, err)
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(demoStepDelay):
		}
		return nil
	}

	if d.Supports(wire.MsgVibrateCmd) {
		if err := step("vibrate", func() error {
			return d.Vibrate(ctx, command.Uniform[float64]{Value: 0.5})
		}); err != nil {
			return err
		}
	}
	if d.Supports(wire.MsgRotateCmd) {
		if err := step("rotate", func() error {
			return d.Rotate(ctx, command.Uniform[command.Rotation]{Value: command.Rotation{Speed: 0.5, Clockwise: true}})
		}); err != nil {
			return err
		}
	}
	if d.Supports(wire.MsgLinearCmd) {
		if err := step("linear", func() error {
			return d.Linear(ctx, command.Uniform[command.Vector]{Value: command.Vector{Duration: 500, Position: 0.9}})
		}); err != nil {
			return err
		}
	}
	if d.Supports(wire.MsgBatteryLevelCmd) {
		if err := step("battery", func() error {
			level, err := d.BatteryLevel(ctx)
			if err == nil {
				fmt.Fprintf(w, "  battery      %.0f%%\n", level*100)
			}
			return err
		}); err != nil {
			return err
		}
	}
	if d.Supports(wire.MsgRSSILevelCmd) {
		if err := step("rssi", func() error {
			rssi, err := d.RSSILevel(ctx)
			if err == nil {
				fmt.Fprintf(w, "  rssi         %d dBm\n", rssi)
			}
			return err
		}); err != nil {
			return err
		}
	}
	return step("stop", func() error { return d.Stop(ctx) })
}
