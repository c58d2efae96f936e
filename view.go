package sieve

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// View is the filtered data source. While active it merges a snapshot
// stream and a filter stream and, on every emission from either, rescans
// the latest snapshot against the latest filter and publishes the result.
//
// Output is recomputed from scratch on every trigger, so it always reflects
// the latest snapshot and the latest filter together. Records keep their
// snapshot order.
type View struct {
	records Stream[Snapshot]
	filters Stream[Filter]
	clock   clockz.Clock
	metrics MetricsProvider
	skipped *ring[error]

	mu     sync.Mutex
	active *fanIn

	state      atomic.Int32
	current    atomic.Pointer[[]Record]
	recomputes atomic.Uint64
}

// NewView creates an inactive View over records and filters. Both streams
// are expected to replay their latest value on subscribe, as Store.Changes
// and Filters do; the first output then appears during Activate.
//
// Example:
//
//	view := sieve.NewView(store.Changes(), sieve.Filters(name, color, minProgress))
//	rows := view.Activate(ctx)
//	sub := rows.Subscribe(func(rs []sieve.Record) { render(rs) })
//	defer view.Deactivate()
//	defer sub.Unsubscribe()
func NewView(records Stream[Snapshot], filters Stream[Filter]) *View {
	return &View{
		records: records,
		filters: filters,
		clock:   clockz.RealClock,
	}
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Clock sets the clock used to time recomputation. Must be called before Activate().
func (v *View) Clock(clock clockz.Clock) *View {
	v.clock = clock
	return v
}

// Metrics sets a metrics provider. Must be called before Activate().
func (v *View) Metrics(provider MetricsProvider) *View {
	v.metrics = provider
	return v
}

// SkipHistorySize sets how many skipped-record errors to retain.
// Use 0 (default) to keep none. Must be called before Activate().
func (v *View) SkipHistorySize(n int) *View {
	v.skipped = newRing[error](n)
	return v
}

// State returns the lifecycle state.
func (v *View) State() ViewState {
	return ViewState(v.state.Load())
}

// Current returns the most recent output and true, or nil and false if the
// View has never recomputed. The slice must be treated as read-only.
func (v *View) Current() ([]Record, bool) {
	ptr := v.current.Load()
	if ptr == nil {
		return nil, false
	}
	return *ptr, true
}

// Recomputes returns how many times the output has been recomputed.
func (v *View) Recomputes() uint64 {
	return v.recomputes.Load()
}

// Skipped returns recent errors for records left out because they could
// not be evaluated, oldest first. Returns nil unless SkipHistorySize is set.
func (v *View) Skipped() []error {
	return v.skipped.all()
}

// Activate subscribes to both upstreams and returns the output stream.
// The output stream replays the latest result to new subscribers, so a
// consumer subscribing right after Activate sees the first recomputation.
// Activating an active View returns its current output stream.
//
// Result slices are shared between subscribers and must be treated as
// read-only.
func (v *View) Activate(ctx context.Context) Stream[[]Record] {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.active != nil {
		return v.active.out
	}

	f := &fanIn{view: v, ctx: ctx, out: newHub[[]Record]()}
	v.active = f
	v.state.Store(int32(ViewActive))
	capitan.Emit(ctx, ViewActivated, KeyState.Field(ViewActive.String()))

	f.upstream = subscriptions{
		v.records.Subscribe(f.onSnapshot),
		v.filters.Subscribe(f.onFilter),
	}
	return f.out
}

// Deactivate releases both upstream subscriptions and closes the output
// stream returned by Activate; it emits nothing further. Calling Deactivate
// on an inactive View does nothing.
func (v *View) Deactivate() {
	v.mu.Lock()
	f := v.active
	v.active = nil
	v.mu.Unlock()

	if f == nil {
		return
	}

	f.closed.Store(true)
	f.upstream.Unsubscribe()
	f.out.close()
	v.state.Store(int32(ViewInactive))
	capitan.Emit(f.ctx, ViewDeactivated, KeyState.Field(ViewInactive.String()))
}

// recompute rescans snap against filter and publishes the result on out.
func (v *View) recompute(ctx context.Context, snap Snapshot, filter Filter, out *hub[[]Record]) {
	start := v.clock.Now()

	rows, errs := filter.Apply(snap)
	for _, err := range errs {
		v.skip(ctx, err)
	}

	v.current.Store(&rows)
	v.recomputes.Add(1)
	out.publish(rows)

	elapsed := v.clock.Since(start)
	capitan.Emit(ctx, ViewRecomputed,
		KeyVersion.Field(int(snap.Version())), //nolint:gosec // version fits an int
		KeySize.Field(snap.Len()),
		KeyMatched.Field(len(rows)),
		KeyDuration.Field(elapsed),
	)
	if v.metrics != nil {
		v.metrics.OnRecompute(elapsed, snap.Len(), len(rows))
	}
}

func (v *View) skip(ctx context.Context, err error) {
	v.skipped.push(err)

	var id string
	var perr *ProgressError
	if errors.As(err, &perr) {
		id = perr.ID
	}
	capitan.Emit(ctx, RecordSkipped,
		KeyRecordID.Field(id),
		KeyError.Field(err.Error()),
	)
	if v.metrics != nil {
		v.metrics.OnRecordSkipped()
	}
}

// fanIn is the merge point of one activation: it holds the latest value of
// each upstream and a flag for whether each has emitted yet. Callbacks after
// deactivation are ignored.
type fanIn struct {
	view     *View
	ctx      context.Context
	out      *hub[[]Record]
	upstream Subscription
	closed   atomic.Bool

	snap      Snapshot
	filter    Filter
	hasSnap   bool
	hasFilter bool
}

func (f *fanIn) onSnapshot(s Snapshot) {
	if f.closed.Load() {
		return
	}
	f.snap, f.hasSnap = s, true
	f.trigger()
}

func (f *fanIn) onFilter(filter Filter) {
	if f.closed.Load() {
		return
	}
	f.filter, f.hasFilter = filter, true
	f.trigger()
}

func (f *fanIn) trigger() {
	if !f.hasSnap || !f.hasFilter {
		return
	}
	f.view.recompute(f.ctx, f.snap, f.filter, f.out)
}
