// Package wire defines the CBOR wire format for haptic device messages.
//
// Every message is a small envelope with integer keys:
//
//	{
//	  1: id,           // uint32: correlation id (0 = server-initiated event)
//	  2: type,         // uint8: MessageType
//	  3: deviceIndex,  // uint32: target device (omitted when zero)
//	  4: payload       // type-specific CBOR map (omitted when empty)
//	}
//
// Payloads are kept as raw CBOR until the receiver knows which type to
// decode them into, so typed structs never travel through map[any]any.
//
// # Message Types
//
// Client to server:
//   - Generic motion: VibrateCmd, RotateCmd, LinearCmd, StopDeviceCmd
//   - Raw endpoint access: RawWriteCmd, RawReadCmd, RawSubscribeCmd, RawUnsubscribeCmd
//   - Sensors: BatteryLevelCmd, RSSILevelCmd
//
// Server to client:
//   - Ok, Error
//   - BatteryLevelReading, RSSILevelReading, RawReading
//   - DeviceRemoved (event, id 0)
//
// # Errors
//
// The error vocabulary shared by the client and the device side lives in
// errors.go. Each error kind has an ErrorCode so a failure reported by the
// remote side decodes into the same sentinel that a local failure wraps.
package wire
