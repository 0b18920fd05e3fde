package transport

// Sender hands encoded messages to the remote side.
// Implemented by Conn.
type Sender interface {
	// Send writes one message.
	Send(data []byte) error
}

// FrameReadWriter provides length-prefixed frame I/O.
// Implemented by Framer.
type FrameReadWriter interface {
	// ReadFrame reads a length-prefixed frame.
	ReadFrame() ([]byte, error)

	// WriteFrame writes a length-prefixed frame.
	WriteFrame(data []byte) error
}

// Compile-time interface satisfaction checks.
var (
	_ Sender          = (*Conn)(nil)
	_ FrameReadWriter = (*Framer)(nil)
)
