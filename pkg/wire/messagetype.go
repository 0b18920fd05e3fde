package wire

// MessageType identifies the payload carried by a Message.
type MessageType uint8

const (
	// MsgOk acknowledges a command that produces no data.
	MsgOk MessageType = 1

	// MsgError reports a failure. Payload: ErrorPayload.
	MsgError MessageType = 2

	// MsgVibrateCmd sets vibration speeds. Payload: VibrateCmd.
	MsgVibrateCmd MessageType = 10

	// MsgRotateCmd sets rotation speed and direction. Payload: RotateCmd.
	MsgRotateCmd MessageType = 11

	// MsgLinearCmd moves linear actuators. Payload: LinearCmd.
	MsgLinearCmd MessageType = 12

	// MsgStopDeviceCmd stops all motion on a device.
	MsgStopDeviceCmd MessageType = 13

	// MsgRawWriteCmd writes bytes to an endpoint. Payload: RawWriteCmd.
	MsgRawWriteCmd MessageType = 14

	// MsgRawReadCmd reads bytes from an endpoint. Payload: RawReadCmd.
	MsgRawReadCmd MessageType = 15

	// MsgRawSubscribeCmd subscribes to endpoint notifications. Payload: RawSubscribeCmd.
	MsgRawSubscribeCmd MessageType = 16

	// MsgRawUnsubscribeCmd cancels an endpoint subscription. Payload: RawUnsubscribeCmd.
	MsgRawUnsubscribeCmd MessageType = 17

	// MsgBatteryLevelCmd queries the battery level.
	MsgBatteryLevelCmd MessageType = 18

	// MsgRSSILevelCmd queries the radio signal strength.
	MsgRSSILevelCmd MessageType = 19

	// MsgBatteryLevelReading answers MsgBatteryLevelCmd. Payload: BatteryLevelReading.
	MsgBatteryLevelReading MessageType = 30

	// MsgRSSILevelReading answers MsgRSSILevelCmd. Payload: RSSILevelReading.
	MsgRSSILevelReading MessageType = 31

	// MsgRawReading answers MsgRawReadCmd and carries subscribed endpoint
	// data. Payload: RawReading.
	MsgRawReading MessageType = 32

	// MsgDeviceRemoved is sent with id 0 when a device goes away.
	MsgDeviceRemoved MessageType = 40
)

// String returns the message type name.
func (t MessageType) String() string {
	switch t {
	case MsgOk:
		return "Ok"
	case MsgError:
		return "Error"
	case MsgVibrateCmd:
		return "VibrateCmd"
	case MsgRotateCmd:
		return "RotateCmd"
	case MsgLinearCmd:
		return "LinearCmd"
	case MsgStopDeviceCmd:
		return "StopDeviceCmd"
	case MsgRawWriteCmd:
		return "RawWriteCmd"
	case MsgRawReadCmd:
		return "RawReadCmd"
	case MsgRawSubscribeCmd:
		return "RawSubscribeCmd"
	case MsgRawUnsubscribeCmd:
		return "RawUnsubscribeCmd"
	case MsgBatteryLevelCmd:
		return "BatteryLevelCmd"
	case MsgRSSILevelCmd:
		return "RSSILevelCmd"
	case MsgBatteryLevelReading:
		return "BatteryLevelReading"
	case MsgRSSILevelReading:
		return "RSSILevelReading"
	case MsgRawReading:
		return "RawReading"
	case MsgDeviceRemoved:
		return "DeviceRemoved"
	default:
		return "Unknown"
	}
}

// IsValid returns true if t is a known message type.
func (t MessageType) IsValid() bool {
	return t.String() != "Unknown"
}

// IsDeviceCommand returns true for client-to-server device commands.
func (t MessageType) IsDeviceCommand() bool {
	return t >= MsgVibrateCmd && t <= MsgRSSILevelCmd
}

// ParseMessageType parses the name of a device command as used in
// configuration files ("vibrate", "rotate", "linear", "stop", "raw-write",
// "raw-read", "raw-subscribe", "raw-unsubscribe", "battery", "rssi").
// The full type names returned by String are accepted as well.
func ParseMessageType(s string) (MessageType, bool) {
	switch s {
	case "vibrate":
		return MsgVibrateCmd, true
	case "rotate":
		return MsgRotateCmd, true
	case "linear":
		return MsgLinearCmd, true
	case "stop":
		return MsgStopDeviceCmd, true
	case "raw-write":
		return MsgRawWriteCmd, true
	case "raw-read":
		return MsgRawReadCmd, true
	case "raw-subscribe":
		return MsgRawSubscribeCmd, true
	case "raw-unsubscribe":
		return MsgRawUnsubscribeCmd, true
	case "battery":
		return MsgBatteryLevelCmd, true
	case "rssi":
		return MsgRSSILevelCmd, true
	}
	for t := MsgVibrateCmd; t <= MsgRSSILevelCmd; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}
