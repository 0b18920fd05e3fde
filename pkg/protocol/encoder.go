package protocol

import (
	"encoding/binary"

	"github.com/haptic-protocol/haptic-go/pkg/command"
	"github.com/haptic-protocol/haptic-go/pkg/hardware"
	"github.com/haptic-protocol/haptic-go/pkg/state"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// Encoder turns merged feature vectors into hardware writes for one
// device model. Implementations must accept any vector length the
// device's attributes allow and must not fail.
type Encoder interface {
	// EncodeVibration encodes vibration speeds given as percentages.
	EncodeVibration(attrs wire.MessageAttributes, speeds []uint32) []hardware.WriteCmd

	// EncodeRotation encodes rotation speeds (percentages) and directions.
	EncodeRotation(attrs wire.MessageAttributes, rotations []state.Rotation) []hardware.WriteCmd

	// EncodeLinear encodes linear movement targets.
	EncodeLinear(attrs wire.MessageAttributes, vectors []command.Vector) []hardware.WriteCmd
}

// IdentityEncoder passes values through unchanged as one write to
// EndpointTx per command.
//
// Vibration writes one byte per feature (percent). Rotation writes two
// bytes per feature (percent, 1 for clockwise). Linear writes five bytes
// per feature (position percent, big-endian duration in milliseconds).
type IdentityEncoder struct{}

// EncodeVibration implements Encoder.
func (IdentityEncoder) EncodeVibration(_ wire.MessageAttributes, speeds []uint32) []hardware.WriteCmd {
	data := make([]byte, len(speeds))
	for i, s := range speeds {
		data[i] = level(s)
	}
	return []hardware.WriteCmd{{Endpoint: wire.EndpointTx, Data: data}}
}

// EncodeRotation implements Encoder.
func (IdentityEncoder) EncodeRotation(_ wire.MessageAttributes, rotations []state.Rotation) []hardware.WriteCmd {
	data := make([]byte, 0, 2*len(rotations))
	for _, r := range rotations {
		var dir byte
		if r.Clockwise {
			dir = 1
		}
		data = append(data, level(r.Speed), dir)
	}
	return []hardware.WriteCmd{{Endpoint: wire.EndpointTx, Data: data}}
}

// EncodeLinear implements Encoder.
func (IdentityEncoder) EncodeLinear(_ wire.MessageAttributes, vectors []command.Vector) []hardware.WriteCmd {
	data := make([]byte, 0, 5*len(vectors))
	for _, v := range vectors {
		data = append(data, byte(state.Percent(v.Position)))
		data = binary.BigEndian.AppendUint32(data, v.Duration)
	}
	return []hardware.WriteCmd{{Endpoint: wire.EndpointTx, Data: data}}
}

// MaxStepCount is the largest step count an encoder honors. Hardware
// levels are single bytes.
const MaxStepCount = 255

// scale maps a percentage onto steps hardware levels, rounding up so any
// nonzero speed produces at least level 1. The result never exceeds
// MaxStepCount.
func scale(percent, steps uint32) uint32 {
	if percent > 100 {
		percent = 100
	}
	if steps > MaxStepCount {
		steps = MaxStepCount
	}
	return (percent*steps + 99) / 100
}

// level clamps v to a single byte.
func level(v uint32) byte {
	if v > MaxStepCount {
		return MaxStepCount
	}
	return byte(v)
}

// stepCount returns the step count of feature i, or def when the
// attributes do not declare one.
func stepCount(attrs wire.MessageAttributes, i int, def uint32) uint32 {
	if i < len(attrs.StepCount) && attrs.StepCount[i] > 0 {
		return attrs.StepCount[i]
	}
	return def
}
