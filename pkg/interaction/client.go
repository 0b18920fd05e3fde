package interaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/haptic-protocol/haptic-go/pkg/log"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// Client errors.
var (
	ErrUnexpectedReply = errors.New("unexpected reply")
)

// Sender is the transport intake the client hands encoded messages to.
type Sender interface {
	Send(data []byte) error
}

// EventHandler receives server-initiated messages (id 0).
type EventHandler func(msg *wire.Message)

// requestState is the lifecycle of a pending request.
type requestState uint8

const (
	requestPending requestState = iota
	requestResolved
	requestFailed
)

// pendingRequest is one correlation entry. Exactly one of resolve and
// fail takes effect; the result is delivered once on done.
type pendingRequest struct {
	state requestState
	reply *wire.Message
	err   error
	done  chan struct{}
}

func newPendingRequest() *pendingRequest {
	return &pendingRequest{done: make(chan struct{})}
}

// resolve and fail must be called with Client.mu held.
func (p *pendingRequest) resolve(reply *wire.Message) {
	if p.state != requestPending {
		return
	}
	p.state = requestResolved
	p.reply = reply
	close(p.done)
}

func (p *pendingRequest) fail(err error) {
	if p.state != requestPending {
		return
	}
	p.state = requestFailed
	p.err = err
	close(p.done)
}

// Client correlates outgoing commands with their replies.
type Client struct {
	mu      sync.Mutex
	pending map[uint32]*pendingRequest
	closed  bool

	sender    Sender
	nextMsgID atomic.Uint32

	onEvent  EventHandler
	logger   *slog.Logger
	protoLog log.Logger
	connID   string
}

// NewClient creates a correlator sending through sender.
func NewClient(sender Sender) *Client {
	return &Client{
		sender:  sender,
		pending: make(map[uint32]*pendingRequest),
		logger:  slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the operational logger.
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetProtocolLogger enables message capture under connID.
func (c *Client) SetProtocolLogger(logger log.Logger, connID string) {
	c.protoLog = logger
	c.connID = connID
}

// SetEventHandler sets the receiver for server-initiated messages.
func (c *Client) SetEventHandler(handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvent = handler
}

// nextMessageID returns a fresh id. Id 0 is reserved for server events
// and skipped on wrap-around.
func (c *Client) nextMessageID() uint32 {
	for {
		if id := c.nextMsgID.Add(1); id != wire.EventMessageID {
			return id
		}
	}
}

// Pending returns the number of requests awaiting a reply.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Send sends a command and waits for its reply. An MsgError reply is
// returned as a *wire.DomainError. If ctx ends first the request is
// abandoned: its entry is removed and a late reply is discarded.
func (c *Client) Send(ctx context.Context, t wire.MessageType, deviceIndex uint32, payload any) (*wire.Message, error) {
	msg, err := wire.NewMessage(c.nextMessageID(), t, deviceIndex, payload)
	if err != nil {
		return nil, err
	}
	data, err := wire.EncodeMessage(msg)
	if err != nil {
		return nil, err
	}

	req := newPendingRequest()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, wire.ErrConnectorNotConnected
	}
	c.pending[msg.ID] = req
	c.mu.Unlock()

	c.capture(log.DirectionOut, msg)
	if err := c.sender.Send(data); err != nil {
		c.mu.Lock()
		delete(c.pending, msg.ID)
		req.fail(fmt.Errorf("%w: %v", wire.ErrConnectorChannelClosed, err))
		c.mu.Unlock()
	}

	select {
	case <-req.done:
	case <-ctx.Done():
		c.mu.Lock()
		// The reply may have won the race for the lock.
		if req.state == requestPending {
			delete(c.pending, msg.ID)
			c.mu.Unlock()
			c.logger.Debug("request abandoned", "id", msg.ID, "type", t, "error", ctx.Err())
			return nil, ctx.Err()
		}
		c.mu.Unlock()
	}

	if req.state == requestFailed {
		return nil, req.err
	}
	if req.reply.Type == wire.MsgError {
		return nil, wire.ErrorFromMessage(req.reply)
	}
	return req.reply, nil
}

// HandleData decodes an incoming frame and passes it to HandleMessage.
func (c *Client) HandleData(data []byte) error {
	msg, err := wire.DecodeMessage(data)
	if err != nil {
		c.logger.Debug("discarding undecodable message", "error", err)
		return err
	}
	return c.HandleMessage(msg)
}

// HandleMessage routes an incoming message: id 0 goes to the event
// handler, a known id resolves its request, anything else is discarded
// with ErrUnexpectedReply.
func (c *Client) HandleMessage(msg *wire.Message) error {
	c.capture(log.DirectionIn, msg)

	c.mu.Lock()
	if msg.IsEvent() {
		handler := c.onEvent
		c.mu.Unlock()
		if handler != nil {
			handler(msg)
		} else {
			c.logger.Debug("event dropped, no handler", "type", msg.Type)
		}
		return nil
	}

	req, ok := c.pending[msg.ID]
	if !ok {
		c.mu.Unlock()
		c.logger.Debug("discarding reply without pending request", "id", msg.ID, "type", msg.Type)
		return fmt.Errorf("%w: id %d", ErrUnexpectedReply, msg.ID)
	}
	delete(c.pending, msg.ID)
	req.resolve(msg)
	c.mu.Unlock()
	return nil
}

// Close fails every pending request with wire.ErrConnectorNotConnected.
// Later Sends fail the same way.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for id, req := range c.pending {
		req.fail(wire.ErrConnectorNotConnected)
		delete(c.pending, id)
	}
	return nil
}

func (c *Client) capture(direction log.Direction, msg *wire.Message) {
	if c.protoLog == nil {
		return
	}
	log.Emit(c.protoLog, log.Event{
		ConnectionID: c.connID,
		Direction:    direction,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		LocalRole:    log.RoleClient,
		Message:      log.NewMessageEvent(msg),
	})
}
