package client

import "github.com/haptic-protocol/haptic-go/pkg/wire"

// EventType classifies device events.
type EventType uint8

const (
	// EventDeviceRemoved is published when the server removes the device.
	EventDeviceRemoved EventType = iota

	// EventClientDisconnect is published when the session ends.
	EventClientDisconnect

	// EventMessage carries a server message for the device, such as a
	// RawReading from a subscribed endpoint.
	EventMessage
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventDeviceRemoved:
		return "DEVICE_REMOVED"
	case EventClientDisconnect:
		return "CLIENT_DISCONNECT"
	case EventMessage:
		return "MESSAGE"
	default:
		return "UNKNOWN"
	}
}

// Event is delivered to Device.Events subscribers.
type Event struct {
	Type EventType

	// Message is set for EventMessage.
	Message *wire.Message
}

// RawReading decodes the payload of a RawReading message event.
func (e Event) RawReading() (wire.RawReading, bool) {
	var reading wire.RawReading
	if e.Type != EventMessage || e.Message == nil || e.Message.Type != wire.MsgRawReading {
		return reading, false
	}
	if err := e.Message.DecodePayload(&reading); err != nil {
		return reading, false
	}
	return reading, true
}
