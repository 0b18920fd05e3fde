package event

import (
	"log/slog"
	"sync"
)

// DefaultBufferSize is the per-subscription buffer used by NewBroadcaster.
const DefaultBufferSize = 256

// Config configures a Broadcaster.
type Config struct {
	// BufferSize is the number of values buffered per subscription.
	BufferSize int

	// Logger receives debug traces for dropped values. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the default broadcaster configuration.
func DefaultConfig() Config {
	return Config{BufferSize: DefaultBufferSize}
}

// Broadcaster publishes values of type T to all current subscriptions.
type Broadcaster[T any] struct {
	mu sync.Mutex

	config        Config
	subscriptions map[uint32]*Subscription[T]
	nextID        uint32
	closed        bool
}

// NewBroadcaster creates a broadcaster with the default configuration.
func NewBroadcaster[T any]() *Broadcaster[T] {
	return NewBroadcasterWithConfig[T](DefaultConfig())
}

// NewBroadcasterWithConfig creates a broadcaster with a custom configuration.
func NewBroadcasterWithConfig[T any](config Config) *Broadcaster[T] {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Broadcaster[T]{
		config:        config,
		subscriptions: make(map[uint32]*Subscription[T]),
	}
}

// Subscribe creates a subscription receiving values published from now on.
// Subscribing to a closed broadcaster returns an already closed subscription.
func (b *Broadcaster[T]) Subscribe() *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription[T]{
		id:          b.nextID,
		ch:          make(chan T, b.config.BufferSize),
		broadcaster: b,
	}
	if b.closed {
		sub.closed = true
		close(sub.ch)
		return sub
	}
	b.subscriptions[sub.id] = sub
	return sub
}

// Publish delivers v to every subscription without blocking.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	if len(b.subscriptions) == 0 {
		b.config.Logger.Debug("event dropped, no subscribers")
		return
	}

	for _, sub := range b.subscriptions {
		sub.deliver(v, b.config.Logger)
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Broadcaster[T]) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscriptions)
}

// Close closes every subscription. Later publishes are ignored.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subscriptions {
		sub.closed = true
		close(sub.ch)
		delete(b.subscriptions, id)
	}
}

func (b *Broadcaster[T]) remove(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.ch)
	delete(b.subscriptions, sub.id)
}
