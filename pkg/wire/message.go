package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// EventMessageID is reserved for messages the server sends on its own
// initiative (device removal, subscribed endpoint data).
const EventMessageID uint32 = 0

// Message is the envelope for every message on the wire.
//
// CBOR encoding:
//
//	{
//	  1: id,           // uint32
//	  2: type,         // uint8
//	  3: deviceIndex,  // uint32
//	  4: payload       // raw CBOR, decoded by type
//	}
type Message struct {
	ID          uint32          `cbor:"1,keyasint"`
	Type        MessageType     `cbor:"2,keyasint"`
	DeviceIndex uint32          `cbor:"3,keyasint,omitempty"`
	Payload     cbor.RawMessage `cbor:"4,keyasint,omitempty"`
}

// NewMessage builds a message, encoding payload when it is non-nil.
func NewMessage(id uint32, t MessageType, deviceIndex uint32, payload any) (*Message, error) {
	msg := &Message{ID: id, Type: t, DeviceIndex: deviceIndex}
	if payload != nil {
		data, err := Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s payload: %w", t, err)
		}
		msg.Payload = data
	}
	return msg, nil
}

// Validate checks if the message is well formed.
func (m *Message) Validate() error {
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid message type: %d", m.Type)
	}
	if m.ID == EventMessageID && m.Type.IsDeviceCommand() {
		return fmt.Errorf("id 0 is reserved for server events")
	}
	return nil
}

// IsEvent returns true for server-initiated messages.
func (m *Message) IsEvent() bool {
	return m.ID == EventMessageID
}

// DecodePayload decodes the payload into v.
func (m *Message) DecodePayload(v any) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", m.Type)
	}
	if err := Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("%s: failed to decode payload: %w", m.Type, err)
	}
	return nil
}

// String returns a short description used in logs and UnexpectedMessageType errors.
func (m *Message) String() string {
	return fmt.Sprintf("%s(id=%d, device=%d)", m.Type, m.ID, m.DeviceIndex)
}

// VibrateSubcommand sets one vibration feature. Speed is in [0.0, 1.0].
type VibrateSubcommand struct {
	Index uint32  `cbor:"1,keyasint"`
	Speed float64 `cbor:"2,keyasint"`
}

// VibrateCmd is the payload of MsgVibrateCmd.
type VibrateCmd struct {
	Speeds []VibrateSubcommand `cbor:"1,keyasint"`
}

// RotationSubcommand sets one rotation feature. Speed is in [0.0, 1.0].
type RotationSubcommand struct {
	Index     uint32  `cbor:"1,keyasint"`
	Speed     float64 `cbor:"2,keyasint"`
	Clockwise bool    `cbor:"3,keyasint"`
}

// RotateCmd is the payload of MsgRotateCmd.
type RotateCmd struct {
	Rotations []RotationSubcommand `cbor:"1,keyasint"`
}

// VectorSubcommand moves one linear feature to Position in [0.0, 1.0]
// over Duration milliseconds.
type VectorSubcommand struct {
	Index    uint32  `cbor:"1,keyasint"`
	Duration uint32  `cbor:"2,keyasint"`
	Position float64 `cbor:"3,keyasint"`
}

// LinearCmd is the payload of MsgLinearCmd.
type LinearCmd struct {
	Vectors []VectorSubcommand `cbor:"1,keyasint"`
}

// RawWriteCmd is the payload of MsgRawWriteCmd.
type RawWriteCmd struct {
	Endpoint          Endpoint `cbor:"1,keyasint"`
	Data              []byte   `cbor:"2,keyasint"`
	WriteWithResponse bool     `cbor:"3,keyasint,omitempty"`
}

// RawReadCmd is the payload of MsgRawReadCmd.
// Timeout is in milliseconds; zero lets the hardware decide.
type RawReadCmd struct {
	Endpoint       Endpoint `cbor:"1,keyasint"`
	ExpectedLength uint32   `cbor:"2,keyasint"`
	Timeout        uint32   `cbor:"3,keyasint,omitempty"`
}

// RawSubscribeCmd is the payload of MsgRawSubscribeCmd.
type RawSubscribeCmd struct {
	Endpoint Endpoint `cbor:"1,keyasint"`
}

// RawUnsubscribeCmd is the payload of MsgRawUnsubscribeCmd.
type RawUnsubscribeCmd struct {
	Endpoint Endpoint `cbor:"1,keyasint"`
}

// RawReading is the payload of MsgRawReading.
type RawReading struct {
	Endpoint Endpoint `cbor:"1,keyasint"`
	Data     []byte   `cbor:"2,keyasint"`
}

// BatteryLevelReading is the payload of MsgBatteryLevelReading.
// Level is in [0.0, 1.0].
type BatteryLevelReading struct {
	Level float64 `cbor:"1,keyasint"`
}

// RSSILevelReading is the payload of MsgRSSILevelReading (dBm).
type RSSILevelReading struct {
	Level int32 `cbor:"1,keyasint"`
}

// ErrorPayload is the payload of MsgError.
type ErrorPayload struct {
	Code    ErrorCode `cbor:"1,keyasint"`
	Message string    `cbor:"2,keyasint,omitempty"`
}

// MessageAttributes describes what a device supports for one message type.
type MessageAttributes struct {
	// FeatureCount is the number of independently addressable features.
	FeatureCount uint32 `cbor:"1,keyasint,omitempty" yaml:"feature_count"`

	// StepCount is the number of discrete hardware steps per feature.
	StepCount []uint32 `cbor:"2,keyasint,omitempty" yaml:"step_count,omitempty"`
}

// AttributesMap maps supported message types to their attributes.
// It is treated as immutable once a device has been created.
type AttributesMap map[MessageType]MessageAttributes

// FeatureCount returns the feature count for t and whether t is supported.
func (m AttributesMap) FeatureCount(t MessageType) (uint32, bool) {
	attrs, ok := m[t]
	return attrs.FeatureCount, ok
}

// Supports returns true if t is in the map.
func (m AttributesMap) Supports(t MessageType) bool {
	_, ok := m[t]
	return ok
}

// DeviceInfo describes a device as reported by the device side.
type DeviceInfo struct {
	Index    uint32        `cbor:"1,keyasint"`
	Name     string        `cbor:"2,keyasint"`
	Model    string        `cbor:"3,keyasint,omitempty"`
	Messages AttributesMap `cbor:"4,keyasint"`
}
