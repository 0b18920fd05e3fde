package state

import (
	"math"

	"github.com/haptic-protocol/haptic-go/pkg/command"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// Rotation is the cached state of one rotation feature. Speed is a
// percentage in [0, 100].
type Rotation struct {
	Speed     uint32
	Clockwise bool
}

// CommandManager holds the caches of one device, one per motion category.
// Categories the device does not support have no cache.
type CommandManager struct {
	vibration *Cache[uint32]
	rotation  *Cache[Rotation]
	linear    *Cache[command.Vector]
}

// NewCommandManager creates caches for the motion categories in attrs.
func NewCommandManager(attrs wire.AttributesMap) *CommandManager {
	m := &CommandManager{}
	if n, ok := attrs.FeatureCount(wire.MsgVibrateCmd); ok {
		m.vibration = NewCache[uint32](n)
	}
	if n, ok := attrs.FeatureCount(wire.MsgRotateCmd); ok {
		m.rotation = NewCache[Rotation](n)
	}
	if n, ok := attrs.FeatureCount(wire.MsgLinearCmd); ok {
		m.linear = NewCache[command.Vector](n)
	}
	return m
}

// Percent converts a speed in [0.0, 1.0] to a whole percentage.
// Comparing percentages keeps float noise from producing spurious writes.
func Percent(speed float64) uint32 {
	return uint32(math.Round(speed * 100))
}

// UpdateVibration merges vibration speeds and returns the full vector of
// percentages when it changed.
func (m *CommandManager) UpdateVibration(subs []command.Subcommand[float64], partial bool) ([]uint32, bool, error) {
	if m.vibration == nil {
		return nil, false, &wire.MessageNotSupportedError{Type: wire.MsgVibrateCmd}
	}
	converted := make([]command.Subcommand[uint32], len(subs))
	for i, s := range subs {
		converted[i] = command.Subcommand[uint32]{Index: s.Index, Value: Percent(s.Value)}
	}
	return m.vibration.Update(converted, partial)
}

// UpdateRotation merges rotation speeds and directions.
func (m *CommandManager) UpdateRotation(subs []command.Subcommand[command.Rotation], partial bool) ([]Rotation, bool, error) {
	if m.rotation == nil {
		return nil, false, &wire.MessageNotSupportedError{Type: wire.MsgRotateCmd}
	}
	converted := make([]command.Subcommand[Rotation], len(subs))
	for i, s := range subs {
		converted[i] = command.Subcommand[Rotation]{
			Index: s.Index,
			Value: Rotation{Speed: Percent(s.Value.Speed), Clockwise: s.Value.Clockwise},
		}
	}
	return m.rotation.Update(converted, partial)
}

// UpdateLinear merges linear movement targets.
func (m *CommandManager) UpdateLinear(subs []command.Subcommand[command.Vector], partial bool) ([]command.Vector, bool, error) {
	if m.linear == nil {
		return nil, false, &wire.MessageNotSupportedError{Type: wire.MsgLinearCmd}
	}
	return m.linear.Update(subs, partial)
}

// StopVibration resets all vibration features. It returns (nil, false, nil)
// when the device does not vibrate or is already stopped.
func (m *CommandManager) StopVibration() ([]uint32, bool, error) {
	if m.vibration == nil {
		return nil, false, nil
	}
	return m.vibration.Update(nil, false)
}

// StopRotation resets all rotation features. It returns (nil, false, nil)
// when the device does not rotate or is already stopped.
func (m *CommandManager) StopRotation() ([]Rotation, bool, error) {
	if m.rotation == nil {
		return nil, false, nil
	}
	return m.rotation.Update(nil, false)
}
