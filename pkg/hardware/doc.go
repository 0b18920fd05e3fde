// Package hardware defines how protocol handlers reach a physical device.
//
// Hardware is the boundary below the protocol layer: a handler turns
// commands into WriteCmd and ReadCmd values addressed to endpoints, and a
// Hardware implementation moves the bytes. How they travel (BLE, serial,
// HID) is up to the implementation.
//
// Simulated is an in-memory Hardware that records writes and serves
// reads from preset endpoint values. It backs the haptic-sim binary and
// the tests.
package hardware
