// Package connection tracks whether commands to a device may be sent.
//
// A Gate holds two independent flags:
//   - client connected: the session that owns the connector is alive
//   - device connected: this device has not been removed
//
// Both start true, since a device handle is only created for a device
// that is already connected. The owning session clears them when it
// disconnects or when the server reports the device removed.
//
// # Admission
//
// Admit reads both flags once, at the moment a command is about to be
// sent:
//
//	if err := gate.Admit(); err != nil {
//	    return nil, err // nothing was sent, no message id was used
//	}
//
// A cleared client flag yields wire.ErrConnectorNotConnected. A cleared
// device flag yields a *wire.DeviceNotConnectedError carrying the device
// name. Flags may flip concurrently with Admit; a single atomic read of
// each is all the gate guarantees.
package connection
