package sieve

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultQuiescence is how long raw input must be silent before its latest
// value is allowed through.
const DefaultQuiescence = 150 * time.Millisecond

// rawBuffer bounds raw values queued before the watch goroutine runs.
const rawBuffer = 16

// Input smooths a high-frequency stream of raw values, such as keystrokes,
// into a stream of settled values.
//
// A raw value settles once no other raw value has arrived for the
// quiescence window; only the last value of a burst survives. A settled
// value equal to the last emitted value is suppressed. Subscribers receive
// the latest emitted value on subscribe, which is the seed until the first
// value settles, so downstream combination never waits on user input.
type Input[T comparable] struct {
	name     string
	seed     T
	debounce time.Duration
	clock    clockz.Clock
	executor Executor
	syncMode bool
	metrics  MetricsProvider

	out  *hub[T]
	raw  chan T
	done chan struct{}

	mu         sync.Mutex
	started    bool
	last       T
	pending    T
	hasPending bool
}

// NewInput creates an Input that starts out emitting seed.
//
// Example:
//
//	name := sieve.NewInput("name", "").Debounce(200 * time.Millisecond)
//	if err := name.Start(ctx); err != nil {
//	    return err
//	}
//	name.Push("am")
//	name.Push("ame") // only "ame" is emitted, 200ms after this call
func NewInput[T comparable](name string, seed T) *Input[T] {
	return &Input[T]{
		name:     name,
		seed:     seed,
		debounce: DefaultQuiescence,
		clock:    clockz.RealClock,
		executor: Inline,
		out:      newSeededHub(seed),
		raw:      make(chan T, rawBuffer),
		done:     make(chan struct{}),
		last:     seed,
	}
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Debounce sets the quiescence window. Default: 150ms. Must be called before Start().
func (in *Input[T]) Debounce(d time.Duration) *Input[T] {
	in.debounce = d
	return in
}

// Clock sets a custom clock for the quiescence timer.
// Use this with clockz.FakeClock for deterministic tests.
// Must be called before Start().
func (in *Input[T]) Clock(clock clockz.Clock) *Input[T] {
	in.clock = clock
	return in
}

// Executor sets where settled values are delivered. Default: Inline.
// When the Input runs asynchronously, set an Executor that serializes
// delivery with the rest of the pipeline, such as a Loop.
// Must be called before Start().
func (in *Input[T]) Executor(e Executor) *Input[T] {
	in.executor = e
	return in
}

// SyncMode disables the quiescence timer. Push only records the pending
// value and Flush settles it, making tests deterministic.
// Must be called before Start().
func (in *Input[T]) SyncMode() *Input[T] {
	in.syncMode = true
	return in
}

// Metrics sets a metrics provider. Must be called before Start().
func (in *Input[T]) Metrics(provider MetricsProvider) *Input[T] {
	in.metrics = provider
	return in
}

// Name returns the name the Input was created with.
func (in *Input[T]) Name() string {
	return in.name
}

// Seed returns the initial value.
func (in *Input[T]) Seed() T {
	return in.seed
}

// Current returns the latest emitted value.
func (in *Input[T]) Current() T {
	v, _ := in.out.current()
	return v
}

// Subscribe registers fn for settled values. fn is called immediately with
// the latest emitted value.
func (in *Input[T]) Subscribe(fn func(T)) Subscription {
	return in.out.Subscribe(fn)
}

// Start begins watching raw values. It returns immediately; values settle
// on a background goroutine until ctx is canceled.
//
// In sync mode, Start only records the context used for signals.
// Start can only be called once.
func (in *Input[T]) Start(ctx context.Context) error {
	in.mu.Lock()
	if in.started {
		in.mu.Unlock()
		return fmt.Errorf("input %s: %w", in.name, ErrAlreadyStarted)
	}
	in.started = true
	in.mu.Unlock()

	capitan.Emit(ctx, InputStarted,
		KeyInput.Field(in.name),
		KeyDebounce.Field(in.debounce),
	)

	if in.syncMode {
		return nil
	}

	go in.watch(ctx)
	return nil
}

// Push offers a raw value. Outside sync mode it blocks only while the raw
// queue is full and returns without effect once the Input has stopped.
func (in *Input[T]) Push(v T) {
	if in.syncMode {
		in.mu.Lock()
		in.pending = v
		in.hasPending = true
		in.mu.Unlock()
		return
	}

	select {
	case in.raw <- v:
	case <-in.done:
	}
}

// Flush settles the pending raw value immediately.
// This is only available in sync mode and is used for deterministic testing.
// Returns false if no value is pending.
func (in *Input[T]) Flush(ctx context.Context) bool {
	if !in.syncMode {
		return false
	}

	in.mu.Lock()
	if !in.hasPending {
		in.mu.Unlock()
		return false
	}
	v := in.pending
	in.hasPending = false
	in.mu.Unlock()

	in.settle(ctx, v)
	return true
}

// settle applies change suppression and delivers v.
func (in *Input[T]) settle(ctx context.Context, v T) {
	in.mu.Lock()
	if v == in.last {
		in.mu.Unlock()
		capitan.Emit(ctx, InputSuppressed,
			KeyInput.Field(in.name),
			KeyValue.Field(fmt.Sprint(v)),
		)
		if in.metrics != nil {
			in.metrics.OnInputSuppressed(in.name)
		}
		return
	}
	in.last = v
	in.mu.Unlock()

	in.executor.Execute(func() {
		in.out.publish(v)
	})

	capitan.Emit(ctx, InputSettled,
		KeyInput.Field(in.name),
		KeyValue.Field(fmt.Sprint(v)),
	)
	if in.metrics != nil {
		in.metrics.OnInputSettled(in.name)
	}
}

// watch settles raw values once they have been quiet for the debounce window.
func (in *Input[T]) watch(ctx context.Context) {
	defer func() {
		close(in.done)
		capitan.Emit(ctx, InputStopped, KeyInput.Field(in.name))
	}()

	var (
		timer      clockz.Timer
		pending    T
		hasPending bool
	)

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case v := <-in.raw:
			pending = v
			hasPending = true

			if timer == nil {
				timer = in.clock.NewTimer(in.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(in.debounce)
			}

		case <-timerC:
			if hasPending {
				in.settle(ctx, pending)
				hasPending = false
			}
		}
	}
}
