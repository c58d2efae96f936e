// Package sieve keeps a filtered view of an in-memory record collection
// correct while both the collection and the filter change underneath it.
//
// Two independent sources of change meet in a View:
//
//	Store.Mutate ─► snapshot stream ─┐
//	                                 ├─► View ─► []Record stream ─► consumer
//	Input ×3 ─► Filters ─► filter ───┘
//
// Every emission from either side triggers a fresh rescan of the latest
// snapshot against the latest filter, so the output is never computed from
// a stale half.
//
// # Store
//
// A Store owns an ordered, copy-on-write collection. Mutate derives a new
// Snapshot from the current one and notifies subscribers synchronously,
// in subscription order, before returning. Changes replays the current
// snapshot to every new subscriber.
//
//	store := sieve.NewStore()
//	store.Seed(ctx, generator, 100)
//	store.Append(ctx, generator)
//
// # Inputs
//
// An Input turns raw, bursty values (keystrokes) into settled values: a
// value passes only after the quiescence window (150ms by default) has
// elapsed without another raw value, and only if it differs from the last
// emitted value. Inputs are seeded, so downstream combination never waits
// for the user.
//
//	name := sieve.NewInput("name", "")
//	color := sieve.NewInput("color", "")
//	minProgress := sieve.NewInput("min_progress", 0.0)
//
// Filters combines the three with combine-latest semantics into a Filter.
//
// # View
//
// A View is activated by its consumer and deactivated on teardown.
// Deactivate is idempotent and releases every upstream subscription.
//
//	view := sieve.NewView(store.Changes(), sieve.Filters(name, color, minProgress))
//	sub := view.Activate(ctx).Subscribe(func(rows []sieve.Record) {
//	    render(rows)
//	})
//	defer view.Deactivate()
//	defer sub.Unsubscribe()
//
// A record whose progress is not a number fails the progress predicate;
// it is reported through the RecordSkipped signal and never breaks the
// output stream.
//
// # Threading
//
// Recomputation is run-to-completion on one logical thread. Inputs settle
// values on their own timer goroutines and hand delivery to an Executor;
// give every Input, Pump and Feed in a pipeline the same Executor (a Loop,
// or an ExecutorFunc posting into a UI event loop) so deliveries never
// overlap.
//
// # Feeds
//
// A Feed replaces the collection wholesale from an external document
// source, such as a FileWatcher, decoding with a Codec (JSON, YAML or
// JWCC) and rejecting invalid documents while keeping the previous
// collection.
//
// # Observability
//
// Every component emits capitan signals (see signals.go) and reports to an
// optional MetricsProvider. pkg/prometheus provides a Prometheus provider.
package sieve
