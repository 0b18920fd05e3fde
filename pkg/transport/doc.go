// Package transport carries encoded messages between the client and the
// device server.
//
// Every message travels in one frame:
//
//	┌──────────────────────┬──────────────────────┐
//	│ length (4B, BE)      │ CBOR message         │
//	└──────────────────────┴──────────────────────┘
//
// A Conn wraps any io.ReadWriteCloser. Pipe returns an in-memory pair,
// which is what the simulator and the tests use. How bytes reach a
// remote process (sockets, serial links, radio) is left to the caller.
//
// Once a Conn is closed, Send fails with wire.ErrConnectorChannelClosed.
//
// Frames and connection state changes are captured with the protocol
// logger from package log when one is configured.
package transport
