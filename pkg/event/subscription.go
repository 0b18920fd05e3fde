package event

import "log/slog"

// Subscription is one listener's view of a Broadcaster.
type Subscription[T any] struct {
	id          uint32
	ch          chan T
	broadcaster *Broadcaster[T]

	// closed is guarded by broadcaster.mu.
	closed bool
}

// ID returns the subscription identifier, unique per broadcaster.
func (s *Subscription[T]) ID() uint32 {
	return s.id
}

// C returns the channel values are delivered on. It is closed when the
// subscription or its broadcaster is closed.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Close detaches the subscription from its broadcaster.
func (s *Subscription[T]) Close() {
	s.broadcaster.remove(s)
}

// deliver is called with broadcaster.mu held, so no other publisher or
// closer touches ch concurrently. Only the reader can drain it.
func (s *Subscription[T]) deliver(v T, logger *slog.Logger) {
	for {
		select {
		case s.ch <- v:
			return
		default:
		}

		select {
		case <-s.ch:
			logger.Debug("event buffer full, dropped oldest", "subscription", s.id)
		default:
		}
	}
}
