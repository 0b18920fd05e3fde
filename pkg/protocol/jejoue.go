package protocol

import (
	"github.com/haptic-protocol/haptic-go/pkg/hardware"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// ModelJeJoue identifies the Je Joue two-motor vibrator.
const ModelJeJoue = "jejoue"

// Je Joue vibration patterns.
const (
	jeJoueBoth       byte = 1
	jeJoueFirstOnly  byte = 2
	jeJoueSecondOnly byte = 3
)

// jeJoueSteps is the number of magnitude levels per motor.
const jeJoueSteps = 5

// JeJoueEncoder drives the Je Joue, which takes a single [pattern, magnitude]
// write on EndpointTx for both motors.
//
// The first motor's speed is the magnitude. If it is off, the second
// motor's speed is used with the second-only pattern. If only the first
// motor runs, the first-only pattern is used. Stopped sends [1, 0].
type JeJoueEncoder struct {
	IdentityEncoder
}

// EncodeVibration implements Encoder.
func (JeJoueEncoder) EncodeVibration(attrs wire.MessageAttributes, speeds []uint32) []hardware.WriteCmd {
	var first, second uint32
	if len(speeds) > 0 {
		first = scale(speeds[0], stepCount(attrs, 0, jeJoueSteps))
	}
	if len(speeds) > 1 {
		second = scale(speeds[1], stepCount(attrs, 1, jeJoueSteps))
	}

	pattern := jeJoueBoth
	magnitude := first
	if magnitude == 0 {
		magnitude = second
		if magnitude != 0 {
			pattern = jeJoueSecondOnly
		}
	}
	if pattern == jeJoueBoth && magnitude != 0 && second == 0 {
		pattern = jeJoueFirstOnly
	}

	return []hardware.WriteCmd{{
		Endpoint: wire.EndpointTx,
		Data:     []byte{pattern, level(magnitude)},
	}}
}

// NewJeJoue creates the handler for the Je Joue.
func NewJeJoue(attrs wire.AttributesMap) Handler {
	return NewBase(attrs, JeJoueEncoder{})
}
