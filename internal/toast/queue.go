// ABOUTME: Ordered queue of short-lived user notifications
// ABOUTME: Each pushed message removes itself after a fixed time to live

package toast

import (
	"slices"
	"sync"
	"time"

	"github.com/markalston/cooking-codex/internal/watch"
)

// DefaultTTL is how long a notification stays visible
const DefaultTTL = 6 * time.Second

// Notification is a user-visible status message. Two notifications with
// the same message are indistinguishable.
type Notification struct {
	Message string
}

// Queue is the process-wide notification list, oldest first
type Queue struct {
	mu        sync.Mutex
	items     []Notification
	ttl       time.Duration
	afterFunc func(time.Duration, func())
	broker    *watch.Broker[[]Notification]
}

// Option configures a Queue
type Option func(*Queue)

// WithTTL overrides the expiry delay
func WithTTL(d time.Duration) Option {
	return func(q *Queue) {
		q.ttl = d
	}
}

// WithAfterFunc replaces the timer used for expiry
func WithAfterFunc(fn func(time.Duration, func())) Option {
	return func(q *Queue) {
		q.afterFunc = fn
	}
}

// NewQueue creates an empty queue
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		ttl: DefaultTTL,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		broker: watch.NewBroker[[]Notification](),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push appends a notification and schedules its removal
func (q *Queue) Push(message string) Notification {
	n := Notification{Message: message}

	// publish under mu so subscribers never see an older snapshot last
	q.mu.Lock()
	q.items = append(q.items, n)
	q.broker.Publish(slices.Clone(q.items))
	q.mu.Unlock()

	q.afterFunc(q.ttl, func() { q.Remove(n) })
	return n
}

// Remove deletes the first notification equal to n. Removing a value that
// is not queued does nothing, so a manual dismiss followed by expiry is safe.
func (q *Queue) Remove(n Notification) {
	q.mu.Lock()
	i := slices.Index(q.items, n)
	if i < 0 {
		q.mu.Unlock()
		return
	}
	q.items = slices.Delete(q.items, i, i+1)
	q.broker.Publish(slices.Clone(q.items))
	q.mu.Unlock()
}

// List returns the queued notifications, oldest first
func (q *Queue) List() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.items)
}

// Len returns the number of queued notifications
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Subscribe returns a channel carrying the queue contents after each
// change, primed with the current contents
func (q *Queue) Subscribe() (<-chan []Notification, func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.broker.Subscribe(slices.Clone(q.items))
}
