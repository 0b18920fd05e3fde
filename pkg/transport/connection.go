package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/haptic-protocol/haptic-go/pkg/log"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// ConnectionState is the lifecycle state of a Conn.
type ConnectionState int32

const (
	// StateConnected indicates an open connection.
	StateConnected ConnectionState = iota

	// StateClosed indicates the connection has been closed by either side.
	StateClosed
)

// String returns the connection state name.
func (s ConnectionState) String() string {
	switch s {
	case StateConnected:
		return "CONNECTED"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// FrameHandler receives the payload of every incoming frame.
type FrameHandler func(data []byte)

// Conn carries frames over any byte stream. It is the transport intake
// for both sides of a session.
type Conn struct {
	id     string
	rwc    io.ReadWriteCloser
	framer *Framer

	logger   *slog.Logger
	protoLog log.Logger
	role     log.Role

	state     atomic.Int32
	closeOnce sync.Once
	done      chan struct{}
}

// Option configures a Conn.
type Option func(*Conn)

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Conn) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProtocolLogger enables frame and state capture.
func WithProtocolLogger(logger log.Logger, role log.Role) Option {
	return func(c *Conn) {
		c.protoLog = logger
		c.role = role
	}
}

// WithMaxMessageSize limits frame payloads in both directions.
func WithMaxMessageSize(size uint32) Option {
	return func(c *Conn) {
		c.framer.FrameReader.SetMaxMessageSize(size)
		c.framer.FrameWriter.maxMessageSize = size
	}
}

// NewConn wraps rwc. The connection is open until Close is called or
// the stream ends.
func NewConn(rwc io.ReadWriteCloser, opts ...Option) *Conn {
	c := &Conn{
		id:     uuid.NewString(),
		rwc:    rwc,
		framer: NewFramer(rwc),
		logger: slog.New(slog.DiscardHandler),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.framer.SetLogger(c.protoLog, c.id, c.role)
	c.logger = c.logger.With("conn", c.id)
	return c
}

// Pipe returns two connected in-memory connections. Options apply to both.
func Pipe(opts ...Option) (*Conn, *Conn) {
	a, b := net.Pipe()
	return NewConn(a, opts...), NewConn(b, opts...)
}

// ID returns the connection id used in protocol capture.
func (c *Conn) ID() string {
	return c.id
}

// State returns the current connection state.
func (c *Conn) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

// Done is closed once the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Send writes one frame. After Close it fails with
// wire.ErrConnectorChannelClosed.
func (c *Conn) Send(data []byte) error {
	if c.State() == StateClosed {
		return wire.ErrConnectorChannelClosed
	}
	if err := c.framer.WriteFrame(data); err != nil {
		if errors.Is(err, ErrMessageEmpty) || errors.Is(err, ErrMessageTooLarge) {
			return err
		}
		return fmt.Errorf("%w: %v", wire.ErrConnectorChannelClosed, err)
	}
	return nil
}

// Run reads frames and passes them to handler until the stream ends, the
// connection is closed, or ctx is done. The handler runs on the read
// goroutine. A clean end of stream returns nil.
func (c *Conn) Run(ctx context.Context, handler FrameHandler) error {
	stop := context.AfterFunc(ctx, func() { c.closeWithReason("context done") })
	defer stop()

	for {
		data, err := c.framer.ReadFrame()
		if err != nil {
			if c.State() == StateClosed || errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				c.closeWithReason("end of stream")
				return nil
			}
			c.logger.Debug("read failed", "error", err)
			log.Emit(c.protoLog, log.Event{
				ConnectionID: c.id,
				Direction:    log.DirectionIn,
				Layer:        log.LayerTransport,
				Category:     log.CategoryError,
				LocalRole:    c.role,
				Error:        log.NewErrorEvent(log.LayerTransport, err, "read frame"),
			})
			c.closeWithReason(err.Error())
			return err
		}
		handler(data)
	}
}

// Close closes the connection. It is safe to call more than once.
func (c *Conn) Close() error {
	return c.closeWithReason("closed locally")
}

func (c *Conn) closeWithReason(reason string) error {
	var err error
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateClosed))
		err = c.rwc.Close()
		close(c.done)
		c.logger.Debug("connection closed", "reason", reason)
		log.Emit(c.protoLog, log.Event{
			ConnectionID: c.id,
			Layer:        log.LayerTransport,
			Category:     log.CategoryState,
			LocalRole:    c.role,
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityConnection,
				OldState: StateConnected.String(),
				NewState: StateClosed.String(),
				Reason:   reason,
			},
		})
	})
	return err
}
