package sieve

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/zoobzio/capitan"
)

// Store owns the ordered record collection. It is mutated only through
// Mutate and publishes every new snapshot to its subscribers.
//
// A Store has a single writer. Mutate must not be called while a previous
// call is still notifying subscribers; doing so panics with
// ErrReentrantMutation.
type Store struct {
	current  atomic.Pointer[Snapshot]
	changes  *hub[Snapshot]
	version  atomic.Uint64
	nextID   atomic.Uint64
	mutating atomic.Bool
	metrics  MetricsProvider
}

// NewStore creates a Store holding records as its first snapshot.
// Records without an ID are assigned one.
func NewStore(records ...Record) *Store {
	s := &Store{}
	initial := NewSnapshot(records...)
	if s.claimIDs(initial.records) {
		for i := range initial.records {
			s.assignID(&initial.records[i])
		}
	}
	s.current.Store(&initial)
	s.changes = newSeededHub(initial)
	return s
}

// Metrics sets a metrics provider. Must be called before the Store is shared.
func (s *Store) Metrics(provider MetricsProvider) *Store {
	s.metrics = provider
	return s
}

// Current returns the latest snapshot.
func (s *Store) Current() Snapshot {
	return *s.current.Load()
}

// Changes returns the replay-latest stream of snapshots. A new subscriber
// receives the current snapshot immediately, then every snapshot published
// afterwards. The stream never errors and never completes.
func (s *Store) Changes() Stream[Snapshot] {
	return s.changes
}

// Subscribe is shorthand for Changes().Subscribe.
func (s *Store) Subscribe(fn func(Snapshot)) Subscription {
	return s.changes.Subscribe(fn)
}

// Mutate derives a new snapshot from the current one and publishes it.
// Subscribers are notified synchronously, in subscription order, before
// Mutate returns. The producer must not modify the snapshot it receives;
// Snapshot only offers copy-on-write operations for that reason.
func (s *Store) Mutate(ctx context.Context, producer func(Snapshot) Snapshot) {
	if !s.mutating.CompareAndSwap(false, true) {
		panic(ErrReentrantMutation)
	}
	defer s.mutating.Store(false)

	next := producer(s.Current())
	if s.claimIDs(next.records) {
		// never write into a slice an older snapshot may share
		next.records = append([]Record(nil), next.records...)
		for i := range next.records {
			s.assignID(&next.records[i])
		}
	}
	next = next.withVersion(s.version.Add(1))

	s.current.Store(&next)
	s.changes.publish(next)

	capitan.Emit(ctx, StorePublished,
		KeyVersion.Field(int(next.version)), //nolint:gosec // version fits an int
		KeySize.Field(next.Len()),
	)
	if s.metrics != nil {
		s.metrics.OnSnapshotPublished(next.Len())
	}
}

// Append produces one record from gen and appends it.
func (s *Store) Append(ctx context.Context, gen Generator) {
	s.Mutate(ctx, func(snap Snapshot) Snapshot {
		return snap.Append(gen.Produce())
	})
}

// Seed appends n records from gen in a single mutation.
func (s *Store) Seed(ctx context.Context, gen Generator, n int) {
	if n <= 0 {
		return
	}
	s.Mutate(ctx, func(snap Snapshot) Snapshot {
		batch := make([]Record, n)
		for i := range batch {
			batch[i] = gen.Produce()
		}
		return snap.Append(batch...)
	})
}

// Replace swaps the whole collection for records.
func (s *Store) Replace(ctx context.Context, records []Record) {
	s.Mutate(ctx, func(Snapshot) Snapshot {
		return NewSnapshot(records...)
	})
}

// claimIDs raises the ID counter past every numeric ID in records and
// reports whether any record still needs an ID.
func (s *Store) claimIDs(records []Record) bool {
	missing := false
	for _, r := range records {
		if r.ID == "" {
			missing = true
			continue
		}
		n, err := strconv.ParseUint(r.ID, 10, 64)
		if err != nil {
			continue
		}
		for {
			cur := s.nextID.Load()
			if n <= cur || s.nextID.CompareAndSwap(cur, n) {
				break
			}
		}
	}
	return missing
}

// assignID gives r the next monotonic ID if it has none. IDs are never
// reused, even after the record is removed.
func (s *Store) assignID(r *Record) {
	if r.ID != "" {
		return
	}
	r.ID = strconv.FormatUint(s.nextID.Add(1), 10)
}
