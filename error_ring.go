package sieve

import "sync"

// ring is a thread-safe bounded history, oldest entries evicted first.
// A nil ring is a valid, disabled ring.
type ring[T any] struct {
	mu      sync.RWMutex
	entries []T
	size    int
	head    int
	count   int
}

// newRing creates a ring with the given capacity.
// If size is 0 or negative, the ring is disabled and newRing returns nil.
func newRing[T any](size int) *ring[T] {
	if size <= 0 {
		return nil
	}
	return &ring[T]{
		entries: make([]T, size),
		size:    size,
	}
}

// push adds an entry, evicting the oldest when full.
func (r *ring[T]) push(v T) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.head] = v
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// clear removes all entries.
func (r *ring[T]) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	for i := range r.entries {
		r.entries[i] = zero
	}
	r.head = 0
	r.count = 0
}

// all returns the retained entries, oldest first.
func (r *ring[T]) all() []T {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}

	result := make([]T, r.count)
	start := (r.head - r.count + r.size) % r.size
	for i := 0; i < r.count; i++ {
		result[i] = r.entries[(start+i)%r.size]
	}
	return result
}
