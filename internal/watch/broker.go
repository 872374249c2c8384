// ABOUTME: Fan-out broker for state change notifications
// ABOUTME: Each subscriber holds only the most recent value published

package watch

import "sync"

// Broker broadcasts values of T to its subscribers. A slow subscriber
// never blocks publishers; it sees the latest value when it next reads.
type Broker[T any] struct {
	mu   sync.Mutex
	subs map[chan T]struct{}
}

// NewBroker creates an empty broker
func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{subs: make(map[chan T]struct{})}
}

// Subscribe registers a subscriber primed with initial. The returned
// function unsubscribes and closes the channel; it is safe to call twice.
func (b *Broker[T]) Subscribe(initial T) (<-chan T, func()) {
	ch := make(chan T, 1)
	ch <- initial

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers v to every subscriber, replacing any unread value
func (b *Broker[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
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

// Len returns the number of active subscribers
func (b *Broker[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
