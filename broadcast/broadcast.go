// Package broadcast provides in-process fan-out of immutable state
// snapshots to registered subscribers.
package broadcast

import "sync"

const subscriberBuffer = 16

// Broadcaster delivers published values to every subscriber. Each
// subscriber gets its own buffered channel; a subscriber that falls more
// than subscriberBuffer values behind misses intermediate snapshots but
// always receives the latest one eventually, since every publish retries
// after draining one stale value.
type Broadcaster[T any] struct {
	mu      sync.Mutex
	subs    map[int]chan T
	nextID  int
	current T
	primed  bool
}

func New[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{
		subs: make(map[int]chan T),
	}
}

// Subscribe registers a new subscriber and returns its channel together
// with a cancel function. The most recently published value, if any, is
// replayed immediately so late subscribers observe the current state.
func (b *Broadcaster[T]) Subscribe() (<-chan T, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan T, subscriberBuffer)
	b.subs[id] = ch

	if b.primed {
		ch <- b.current
	}

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}

	return ch, cancel
}

// Publish records v as the current value and offers it to every
// subscriber without blocking the publisher.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = v
	b.primed = true

	for _, ch := range b.subs {
		select {
		case ch <- v:
		default:
			// Drop the oldest buffered snapshot to make room for the new one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

// Current returns the most recently published value.
func (b *Broadcaster[T]) Current() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.current, b.primed
}
