// Package interactive provides the interactive command-line interface
// for haptic-sim.
package interactive

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/haptic-protocol/haptic-go/pkg/client"
	"github.com/haptic-protocol/haptic-go/pkg/command"
	"github.com/haptic-protocol/haptic-go/pkg/hardware"
	"github.com/haptic-protocol/haptic-go/pkg/log"
	"github.com/haptic-protocol/haptic-go/pkg/server"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// RecorderLimit is the number of protocol events kept for the "events"
// command.
const RecorderLimit = 500

const (
	defaultEventCount  = 20
	defaultReadTimeout = time.Second
	commandTimeout     = 5 * time.Second
)

// Session is the simulated session the shell drives.
type Session interface {
	Client() *client.Client
	Server() *server.Server
	Hardware(index uint32) (*hardware.Simulated, bool)
}

// Shell handles interactive mode for haptic-sim.
type Shell struct {
	session  Session
	recorder *log.Recorder
	rl       *readline.Instance
	out      io.Writer
}

// New creates a shell reading commands from the terminal.
func New(session Session, recorder *log.Recorder) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "haptic> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	s := newShell(session, recorder, rl.Stdout())
	s.rl = rl
	return s, nil
}

func newShell(session Session, recorder *log.Recorder, out io.Writer) *Shell {
	return &Shell{session: session, recorder: recorder, out: out}
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	for _, d := range s.session.Client().Devices() {
		go s.watch(ctx, d)
	}
	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if !s.Execute(ctx, line) {
			cancel()
			return
		}
	}
}

// watch prints device events until ctx ends or the device goes away.
func (s *Shell) watch(ctx context.Context, d *client.Device) {
	sub := d.Events()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			if reading, ok := ev.RawReading(); ok {
				fmt.Fprintf(s.out, "[%s] reading on %s: %s\n", d.Name(), reading.Endpoint, hex.EncodeToString(reading.Data))
				continue
			}
			fmt.Fprintf(s.out, "[%s] %s\n", d.Name(), ev.Type)
			if ev.Type != client.EventMessage {
				return
			}
		}
	}
}

// Execute runs one command line. It returns false when the shell should
// exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()

	case "list", "ls":
		s.cmdList()

	case "vibrate", "v":
		err = s.cmdVibrate(ctx, args)

	case "rotate":
		err = s.cmdRotate(ctx, args)

	case "linear":
		err = s.cmdLinear(ctx, args)

	case "stop":
		err = s.withDevice(args, 1, func(d *client.Device) error { return d.Stop(ctx) })

	case "battery":
		err = s.cmdBattery(ctx, args)

	case "rssi":
		err = s.cmdRSSI(ctx, args)

	case "write", "w":
		err = s.cmdWrite(ctx, args)

	case "read", "r":
		err = s.cmdRead(ctx, args)

	case "subscribe", "sub":
		err = s.cmdSubscribe(ctx, args, true)

	case "unsubscribe", "unsub":
		err = s.cmdSubscribe(ctx, args, false)

	case "notify":
		err = s.cmdNotify(args)

	case "remove":
		err = s.cmdRemove(args)

	case "events", "e":
		err = s.cmdEvents(args)

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
		return true
	}

	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Haptic Simulator Commands:
  Devices:
    list                              - List devices and their messages
    remove <dev>                      - Remove a device on the server side

  Actuators:
    vibrate <dev> <speed> [feature]   - Vibrate all features (or one)
    rotate <dev> <speed> [cw|ccw] [feature]
    linear <dev> <position> <ms> [feature]
    stop <dev>                        - Stop all actuators

  Sensors:
    battery <dev>                     - Read battery level
    rssi <dev>                        - Read signal strength

  Raw Endpoints:
    write <dev> <endpoint> <hex>      - Write bytes to an endpoint
    read <dev> <endpoint> <len> [ms]  - Read bytes from an endpoint
    subscribe <dev> <endpoint>        - Stream endpoint notifications
    unsubscribe <dev> <endpoint>
    notify <dev> <endpoint> <hex>     - Push a notification from the hardware

  General:
    events [n]                        - Show recent protocol events
    help                              - Show this help
    quit                              - Exit

  Values:
    speed and position are in [0.0, 1.0]; <dev> is the device index`)
}

func (s *Shell) cmdList() {
	devices := s.session.Client().Devices()
	if len(devices) == 0 {
		fmt.Fprintln(s.out, "No devices")
		return
	}
	for _, d := range devices {
		fmt.Fprintf(s.out, "%d  %-20s %s\n", d.Index(), d.Name(), d.State())
		attrs := d.Attributes()
		types := make([]wire.MessageType, 0, len(attrs))
		for t := range attrs {
			types = append(types, t)
		}
		slices.Sort(types)
		for _, t := range types {
			if count := attrs[t].FeatureCount; count > 0 {
				fmt.Fprintf(s.out, "     %s (%d features)\n", t, count)
			} else {
				fmt.Fprintf(s.out, "     %s\n", t)
			}
		}
	}
}

func (s *Shell) cmdVibrate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: vibrate <dev> <speed> [feature]")
	}
	speed, err := parseUnit(args[1])
	if err != nil {
		return err
	}
	return s.withDevice(args, 2, func(d *client.Device) error {
		if len(args) > 2 {
			feature, err := parseIndex(args[2])
			if err != nil {
				return err
			}
			return d.Vibrate(ctx, command.SparseMap[float64]{feature: speed})
		}
		return d.Vibrate(ctx, command.Uniform[float64]{Value: speed})
	})
}

func (s *Shell) cmdRotate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: rotate <dev> <speed> [cw|ccw] [feature]")
	}
	speed, err := parseUnit(args[1])
	if err != nil {
		return err
	}
	rotation := command.Rotation{Speed: speed, Clockwise: true}
	if len(args) > 2 {
		switch strings.ToLower(args[2]) {
		case "cw":
		case "ccw":
			rotation.Clockwise = false
		default:
			return fmt.Errorf("direction must be cw or ccw, got %q", args[2])
		}
	}
	return s.withDevice(args, 2, func(d *client.Device) error {
		if len(args) > 3 {
			feature, err := parseIndex(args[3])
			if err != nil {
				return err
			}
			return d.Rotate(ctx, command.SparseMap[command.Rotation]{feature: rotation})
		}
		return d.Rotate(ctx, command.Uniform[command.Rotation]{Value: rotation})
	})
}

func (s *Shell) cmdLinear(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: linear <dev> <position> <ms> [feature]")
	}
	position, err := parseUnit(args[1])
	if err != nil {
		return err
	}
	duration, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid duration %q", args[2])
	}
	vector := command.Vector{Duration: uint32(duration), Position: position}
	return s.withDevice(args, 3, func(d *client.Device) error {
		if len(args) > 3 {
			feature, err := parseIndex(args[3])
			if err != nil {
				return err
			}
			return d.Linear(ctx, command.SparseMap[command.Vector]{feature: vector})
		}
		return d.Linear(ctx, command.Uniform[command.Vector]{Value: vector})
	})
}

func (s *Shell) cmdBattery(ctx context.Context, args []string) error {
	return s.withDevice(args, 1, func(d *client.Device) error {
		level, err := d.BatteryLevel(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Battery: %.0f%%\n", level*100)
		return nil
	})
}

func (s *Shell) cmdRSSI(ctx context.Context, args []string) error {
	return s.withDevice(args, 1, func(d *client.Device) error {
		rssi, err := d.RSSILevel(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "RSSI: %d dBm\n", rssi)
		return nil
	})
}

func (s *Shell) cmdWrite(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: write <dev> <endpoint> <hex>")
	}
	endpoint, data, err := parseEndpointData(args[1], args[2])
	if err != nil {
		return err
	}
	return s.withDevice(args, 3, func(d *client.Device) error {
		return d.RawWrite(ctx, endpoint, data, true)
	})
}

func (s *Shell) cmdRead(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: read <dev> <endpoint> <len> [ms]")
	}
	endpoint, ok := wire.ParseEndpoint(args[1])
	if !ok {
		return fmt.Errorf("unknown endpoint %q", args[1])
	}
	length, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid length %q", args[2])
	}
	timeout := defaultReadTimeout
	if len(args) > 3 {
		ms, err := strconv.ParseUint(args[3], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid timeout %q", args[3])
		}
		timeout = time.Duration(ms) * time.Millisecond
	}
	return s.withDevice(args, 3, func(d *client.Device) error {
		data, err := d.RawRead(ctx, endpoint, uint32(length), timeout)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s: %s\n", endpoint, hex.EncodeToString(data))
		return nil
	})
}

func (s *Shell) cmdSubscribe(ctx context.Context, args []string, subscribe bool) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: subscribe|unsubscribe <dev> <endpoint>")
	}
	endpoint, ok := wire.ParseEndpoint(args[1])
	if !ok {
		return fmt.Errorf("unknown endpoint %q", args[1])
	}
	return s.withDevice(args, 2, func(d *client.Device) error {
		if subscribe {
			return d.RawSubscribe(ctx, endpoint)
		}
		return d.RawUnsubscribe(ctx, endpoint)
	})
}

func (s *Shell) cmdNotify(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: notify <dev> <endpoint> <hex>")
	}
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	hw, ok := s.session.Hardware(index)
	if !ok {
		return fmt.Errorf("%w: %d", wire.ErrDeviceNotFound, index)
	}
	endpoint, data, err := parseEndpointData(args[1], args[2])
	if err != nil {
		return err
	}
	if !hw.Notify(endpoint, data) {
		fmt.Fprintf(s.out, "No subscription on %s\n", endpoint)
	}
	return nil
}

func (s *Shell) cmdRemove(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: remove <dev>")
	}
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	return s.session.Server().RemoveDevice(index)
}

func (s *Shell) cmdEvents(args []string) error {
	count := defaultEventCount
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid count %q", args[0])
		}
		count = n
	}

	// Frames duplicate the wire layer.
	var events []log.Event
	for _, e := range s.recorder.Events(log.Filter{}) {
		if e.Frame == nil {
			events = append(events, e)
		}
	}
	if len(events) > count {
		events = events[len(events)-count:]
	}
	for _, e := range events {
		fmt.Fprintln(s.out, formatEvent(e))
	}
	return nil
}

// withDevice resolves args[0] to a client device. want is the minimum
// number of arguments.
func (s *Shell) withDevice(args []string, want int, fn func(*client.Device) error) error {
	if len(args) < want {
		return fmt.Errorf("expected at least %d arguments", want)
	}
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	d, ok := s.session.Client().Device(index)
	if !ok {
		return fmt.Errorf("%w: %d", wire.ErrDeviceNotFound, index)
	}
	return fn(d)
}

func formatEvent(e log.Event) string {
	ts := e.Timestamp.Format("15:04:05.000")
	switch {
	case e.Message != nil:
		line := fmt.Sprintf("%s %-3s %s %s(id=%d, device=%d)", ts, e.Direction, e.LocalRole,
			e.Message.Type, e.Message.MessageID, e.Message.DeviceIndex)
		if e.Message.ErrorCode != nil {
			line += " " + e.Message.ErrorCode.String()
		}
		return line
	case e.StateChange != nil:
		line := fmt.Sprintf("%s %s %s %s -> %s", ts, e.LocalRole, e.StateChange.Entity,
			e.StateChange.OldState, e.StateChange.NewState)
		if e.DeviceName != "" {
			line += " (" + e.DeviceName + ")"
		}
		return line
	case e.Error != nil:
		return fmt.Sprintf("%s %s ERROR %s", ts, e.LocalRole, e.Error.Message)
	default:
		return fmt.Sprintf("%s %s %s", ts, e.LocalRole, e.Category)
	}
}

func parseIndex(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return uint32(v), nil
}

func parseUnit(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	return v, nil
}

func parseEndpointData(name, data string) (wire.Endpoint, []byte, error) {
	endpoint, ok := wire.ParseEndpoint(name)
	if !ok {
		return 0, nil, fmt.Errorf("unknown endpoint %q", name)
	}
	b, err := hex.DecodeString(data)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid hex %q: %w", data, err)
	}
	return endpoint, b, nil
}
