package wire

import "strings"

// Endpoint names a hardware channel that raw commands and protocol
// encoders address.
type Endpoint uint8

const (
	EndpointCommand Endpoint = iota
	EndpointFirmware
	EndpointRx
	EndpointRxAccel
	EndpointRxBLEBattery
	EndpointRxBLEModel
	EndpointRxPressure
	EndpointRxTouch
	EndpointTx
	EndpointTxMode
	EndpointTxShock
	EndpointTxVibrate
	EndpointTxVendorControl
	EndpointWhitelist
)

var endpointNames = [...]string{
	EndpointCommand:         "command",
	EndpointFirmware:        "firmware",
	EndpointRx:              "rx",
	EndpointRxAccel:         "rxaccel",
	EndpointRxBLEBattery:    "rxblebattery",
	EndpointRxBLEModel:      "rxblemodel",
	EndpointRxPressure:      "rxpressure",
	EndpointRxTouch:         "rxtouch",
	EndpointTx:              "tx",
	EndpointTxMode:          "txmode",
	EndpointTxShock:         "txshock",
	EndpointTxVibrate:       "txvibrate",
	EndpointTxVendorControl: "txvendorcontrol",
	EndpointWhitelist:       "whitelist",
}

// String returns the endpoint name.
func (e Endpoint) String() string {
	if int(e) < len(endpointNames) {
		return endpointNames[e]
	}
	return "unknown"
}

// ParseEndpoint parses an endpoint name (case-insensitive).
func ParseEndpoint(s string) (Endpoint, bool) {
	s = strings.ToLower(s)
	for i, name := range endpointNames {
		if name == s {
			return Endpoint(i), true
		}
	}
	return 0, false
}
