package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWithoutSubscribers(t *testing.T) {
	b := NewBroadcaster[int]()

	done := make(chan struct{})
	go func() {
		for i := range 1000 {
			b.Publish(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no subscribers")
	}
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestLateSubscriberSeesOnlyNewEvents(t *testing.T) {
	b := NewBroadcaster[string]()
	early := b.Subscribe()
	defer early.Close()

	b.Publish("before")

	late := b.Subscribe()
	defer late.Close()

	b.Publish("after")

	assert.Equal(t, "before", <-early.C())
	assert.Equal(t, "after", <-early.C())
	assert.Equal(t, "after", <-late.C())

	select {
	case v := <-late.C():
		t.Fatalf("late subscriber received unexpected %q", v)
	default:
	}
}

func TestSubscriptionsAreIndependent(t *testing.T) {
	b := NewBroadcaster[int]()
	subs := []*Subscription[int]{b.Subscribe(), b.Subscribe(), b.Subscribe()}
	require.Equal(t, 3, b.SubscriberCount())

	b.Publish(42)

	for _, sub := range subs {
		assert.Equal(t, 42, <-sub.C())
	}

	subs[1].Close()
	assert.Equal(t, 2, b.SubscriberCount())

	_, ok := <-subs[1].C()
	assert.False(t, ok, "closed subscription channel should be closed")

	// Closing twice is harmless.
	subs[1].Close()
}

func TestFullBufferDropsOldest(t *testing.T) {
	b := NewBroadcasterWithConfig[int](Config{BufferSize: 3})
	sub := b.Subscribe()
	defer sub.Close()

	for i := 1; i <= 5; i++ {
		b.Publish(i)
	}

	var got []int
	for range 3 {
		got = append(got, <-sub.C())
	}
	assert.Equal(t, []int{3, 4, 5}, got)
}

func TestCloseBroadcaster(t *testing.T) {
	b := NewBroadcaster[int]()
	sub := b.Subscribe()

	b.Close()

	_, ok := <-sub.C()
	assert.False(t, ok)
	assert.Equal(t, 0, b.SubscriberCount())

	// Publishing and closing after Close are no-ops.
	b.Publish(1)
	sub.Close()
	b.Close()

	after := b.Subscribe()
	_, ok = <-after.C()
	assert.False(t, ok)
}

func TestConcurrentPublish(t *testing.T) {
	b := NewBroadcasterWithConfig[int](Config{BufferSize: 8})
	sub := b.Subscribe()

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := range 100 {
				b.Publish(base*100 + i)
			}
		}(w)
	}
	wg.Wait()

	// Only the most recent values survive, never more than the buffer.
	assert.LessOrEqual(t, len(sub.C()), 8)
	sub.Close()
}
