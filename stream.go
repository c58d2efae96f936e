package sieve

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Stream is a push-based sequence of values. Subscribers are invoked
// synchronously on the goroutine that publishes the value.
type Stream[T any] interface {
	// Subscribe registers fn and returns a handle that stops delivery.
	// Streams with replay-latest semantics invoke fn with the current value
	// before Subscribe returns.
	Subscribe(fn func(T)) Subscription
}

// Subscription releases a registration made with Stream.Subscribe.
type Subscription interface {
	// Unsubscribe stops delivery. Calling it more than once has no effect.
	Unsubscribe()
}

// StreamFunc adapts a function to the Stream interface. It is the building
// block for cold streams that set up per-subscriber state.
type StreamFunc[T any] func(fn func(T)) Subscription

// Subscribe calls f(fn).
func (f StreamFunc[T]) Subscribe(fn func(T)) Subscription {
	return f(fn)
}

// subscription runs release exactly once.
type subscription struct {
	once    sync.Once
	release func()
}

func newSubscription(release func()) *subscription {
	return &subscription{release: release}
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.release)
}

// subscriptions releases a group of upstream subscriptions together.
type subscriptions []Subscription

func (ss subscriptions) Unsubscribe() {
	for _, s := range ss {
		if s != nil {
			s.Unsubscribe()
		}
	}
}

// noSubscription is returned by closed hubs.
type noSubscription struct{}

func (noSubscription) Unsubscribe() {}

type subscriber[T any] struct {
	fn     func(T)
	active atomic.Bool
}

// hub is an ordered, replay-latest broadcaster. It is the fan-out half of
// every stream in the package.
type hub[T any] struct {
	mu     sync.Mutex
	subs   []*subscriber[T]
	latest T
	has    bool
	closed bool

	delivering bool
	pending    []T
}

// newHub returns a hub without a latest value.
func newHub[T any]() *hub[T] {
	return &hub[T]{}
}

// newSeededHub returns a hub whose latest value is seed.
func newSeededHub[T any](seed T) *hub[T] {
	return &hub[T]{latest: seed, has: true}
}

// Subscribe registers fn and replays the latest value, if any.
func (h *hub[T]) Subscribe(fn func(T)) Subscription {
	sub := &subscriber[T]{fn: fn}
	sub.active.Store(true)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return noSubscription{}
	}
	h.subs = append(h.subs, sub)
	latest, has := h.latest, h.has
	h.mu.Unlock()

	if has {
		fn(latest)
	}

	return newSubscription(func() {
		sub.active.Store(false)
		h.remove(sub)
	})
}

// publish stores v as the latest value and notifies subscribers in
// subscription order. Subscribers removed mid-broadcast are skipped.
//
// A publish made while a broadcast is in progress, such as one triggered
// from inside a subscriber, is queued and delivered after the current
// broadcast completes, so every subscriber sees values in publish order
// and ends on the latest one.
func (h *hub[T]) publish(v T) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.latest, h.has = v, true
	if h.delivering {
		h.pending = append(h.pending, v)
		h.mu.Unlock()
		return
	}
	h.delivering = true
	h.mu.Unlock()

	defer func() {
		// reset on a subscriber panic too
		h.mu.Lock()
		h.delivering = false
		h.pending = nil
		h.mu.Unlock()
	}()

	for {
		h.mu.Lock()
		subs := slices.Clone(h.subs)
		h.mu.Unlock()

		for _, sub := range subs {
			if sub.active.Load() {
				sub.fn(v)
			}
		}

		h.mu.Lock()
		if h.closed || len(h.pending) == 0 {
			h.mu.Unlock()
			return
		}
		v = h.pending[0]
		h.pending = h.pending[1:]
		h.mu.Unlock()
	}
}

// current returns the latest value and whether one has been published.
func (h *hub[T]) current() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest, h.has
}

// len returns the number of live subscribers.
func (h *hub[T]) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// close detaches every subscriber. A closed hub never emits again.
func (h *hub[T]) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, sub := range h.subs {
		sub.active.Store(false)
	}
	h.subs = nil
}

func (h *hub[T]) remove(target *subscriber[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs = slices.DeleteFunc(h.subs, func(s *subscriber[T]) bool {
		return s == target
	})
}
