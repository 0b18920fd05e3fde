// Package event fans device events out to independent listeners.
//
// A Broadcaster delivers every published value to each current
// Subscription through a bounded per-subscription buffer. Publishing never
// blocks:
//   - with no subscribers the value is dropped and traced at debug level
//   - when a subscriber's buffer is full, its oldest buffered value is
//     dropped to make room
//
// A subscription only observes values published after it was created.
//
//	sub := b.Subscribe()
//	defer sub.Close()
//	for ev := range sub.C() {
//	    ...
//	}
package event
