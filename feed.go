package sieve

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultFeedDebounce is the default debounce duration for document changes.
const DefaultFeedDebounce = 100 * time.Millisecond

// Feed watches a source of record documents and replaces the Store's
// collection wholesale with every valid document. An invalid document is
// rejected and the previous collection stays in place.
//
//	Source → Decode → Validate → Store.Replace
//
// A Feed follows a small state machine: Loading until the first document,
// Healthy after a successful replace, Degraded when a later document fails,
// Empty when no valid document was ever applied.
type Feed struct {
	watcher        Watcher
	store          *Store
	codec          Codec
	validate       *validator.Validate
	debounce       time.Duration
	startupTimeout time.Duration
	syncMode       bool
	clock          clockz.Clock
	executor       Executor
	metrics        MetricsProvider
	onStop         func(State)

	state        atomic.Int32
	applied      atomic.Int64
	hasApplied   atomic.Bool
	lastError    atomic.Pointer[error]
	errorHistory *ring[error]

	mu      sync.Mutex
	started bool

	// For sync mode: channel to receive changes
	changes <-chan []byte
}

// NewFeed creates a Feed that loads documents from watcher into store.
//
// Example:
//
//	feed := sieve.NewFeed(sieve.NewFileWatcher("records.yaml"), store).
//	    Codec(sieve.CodecFor("records.yaml")).
//	    Debounce(200 * time.Millisecond)
//
//	if err := feed.Start(ctx); err != nil {
//	    log.Printf("initial records rejected: %v", err)
//	}
func NewFeed(watcher Watcher, store *Store) *Feed {
	f := &Feed{
		watcher:  watcher,
		store:    store,
		codec:    JSONCodec{},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		debounce: DefaultFeedDebounce,
		clock:    clockz.RealClock,
		executor: Inline,
	}
	f.state.Store(int32(StateLoading))
	return f
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Debounce sets the debounce duration for change processing.
// Changes arriving within this duration are coalesced into a single update.
// Default: 100ms. Must be called before Start().
func (f *Feed) Debounce(d time.Duration) *Feed {
	f.debounce = d
	return f
}

// SyncMode enables synchronous processing for testing.
// In sync mode, changes are processed immediately without debouncing
// or async goroutines, making tests deterministic. Must be called before Start().
func (f *Feed) SyncMode() *Feed {
	f.syncMode = true
	return f
}

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic debounce testing.
// Must be called before Start().
func (f *Feed) Clock(clock clockz.Clock) *Feed {
	f.clock = clock
	return f
}

// Codec sets the codec for decoding documents.
// Default: JSONCodec. Must be called before Start().
func (f *Feed) Codec(codec Codec) *Feed {
	f.codec = codec
	return f
}

// Executor sets where Store replacements run. Default: Inline.
// Must be called before Start().
func (f *Feed) Executor(e Executor) *Feed {
	f.executor = e
	return f
}

// StartupTimeout sets the maximum duration to wait for the initial
// document from the watcher. If the watcher fails to emit within this
// duration, Start() returns an error.
// Default: no timeout (wait indefinitely). Must be called before Start().
func (f *Feed) StartupTimeout(d time.Duration) *Feed {
	f.startupTimeout = d
	return f
}

// Metrics sets a metrics provider. Must be called before Start().
func (f *Feed) Metrics(provider MetricsProvider) *Feed {
	f.metrics = provider
	return f
}

// OnStop sets a callback that is invoked when the feed stops watching.
// The callback receives the final state. Must be called before Start().
func (f *Feed) OnStop(fn func(State)) *Feed {
	f.onStop = fn
	return f
}

// ErrorHistorySize sets the number of recent errors to retain.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before Start().
func (f *Feed) ErrorHistorySize(n int) *Feed {
	f.errorHistory = newRing[error](n)
	return f
}

// State returns the current state of the Feed.
func (f *Feed) State() State {
	return State(f.state.Load())
}

// Applied returns how many documents have replaced the collection.
func (f *Feed) Applied() int64 {
	return f.applied.Load()
}

// LastError returns the last error encountered, or nil if the last
// document was applied.
func (f *Feed) LastError() error {
	ptr := f.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns the recent error history, oldest first.
// Returns nil if error history is not enabled (see ErrorHistorySize).
func (f *Feed) ErrorHistory() []error {
	return f.errorHistory.all()
}

// Start begins watching. It blocks until the first document is processed
// (success or failure), then continues watching asynchronously.
//
// If the initial document is rejected, Start returns the error but keeps
// watching in the background for a valid one.
//
// In sync mode, Start only processes the initial document. Use Process()
// to handle subsequent ones. Start can only be called once.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return fmt.Errorf("feed: %w", ErrAlreadyStarted)
	}
	f.started = true
	f.mu.Unlock()

	capitan.Emit(ctx, FeedStarted,
		KeyDebounce.Field(f.debounce),
	)

	changes, err := f.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	startupCtx := ctx
	if f.startupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = f.clock.WithTimeout(ctx, f.startupTimeout)
		defer cancel()
	}

	var initialErr error
	select {
	case <-startupCtx.Done():
		if f.startupTimeout > 0 && startupCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("startup timeout: watcher did not emit initial document within %v", f.startupTimeout)
		}
		return startupCtx.Err()
	case raw, ok := <-changes:
		if !ok {
			return fmt.Errorf("watcher closed before emitting initial document")
		}
		f.received(ctx)
		initialErr = f.process(ctx, raw)
	}

	if f.syncMode {
		f.changes = changes
		return initialErr
	}

	go f.watch(ctx, changes)

	return initialErr
}

// Process reads and processes the next document from the watcher.
// This is only available in sync mode and is used for deterministic testing.
// Returns false if no document is available or the channel is closed.
func (f *Feed) Process(ctx context.Context) bool {
	if !f.syncMode {
		return false
	}

	select {
	case raw, ok := <-f.changes:
		if !ok {
			return false
		}
		f.received(ctx)
		_ = f.process(ctx, raw) //nolint:errcheck // Errors stored via setError
		return true
	default:
		return false
	}
}

func (f *Feed) received(ctx context.Context) {
	capitan.Emit(ctx, FeedChangeReceived)
	if f.metrics != nil {
		f.metrics.OnChangeReceived()
	}
}

// process decodes, validates and applies a single document.
func (f *Feed) process(ctx context.Context, raw []byte) error {
	start := f.clock.Now()
	oldState := f.State()

	var records []Record
	if err := f.codec.Unmarshal(raw, &records); err != nil {
		f.fail(ctx, oldState, stageDecode, start, err)
		return fmt.Errorf("decode failed: %w", err)
	}

	if err := f.check(records); err != nil {
		f.fail(ctx, oldState, stageValidate, start, err)
		return fmt.Errorf("validation failed: %w", err)
	}

	f.executor.Execute(func() {
		f.store.Replace(ctx, records)
	})

	f.applied.Add(1)
	f.hasApplied.Store(true)
	f.lastError.Store(nil)
	f.errorHistory.clear()
	f.transitionState(ctx, oldState, StateHealthy)
	capitan.Emit(ctx, FeedApplied,
		KeySize.Field(len(records)),
	)
	if f.metrics != nil {
		f.metrics.OnProcessSuccess(f.clock.Since(start))
	}

	return nil
}

// check validates every record and rejects duplicate IDs.
func (f *Feed) check(records []Record) error {
	seen := make(map[string]int, len(records))
	for i, r := range records {
		if err := f.validate.Struct(r); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if prev, dup := seen[r.ID]; dup {
			return fmt.Errorf("records %d and %d: %w %q", prev, i, ErrDuplicateID, r.ID)
		}
		seen[r.ID] = i
	}
	return nil
}

// Processing stages reported to MetricsProvider.OnProcessFailure.
const (
	stageDecode   = "decode"
	stageValidate = "validate"
)

func (f *Feed) fail(ctx context.Context, oldState State, stage string, start time.Time, err error) {
	f.setError(err)
	f.transitionState(ctx, oldState, f.failureState())
	signal := FeedDecodeFailed
	if stage == stageValidate {
		signal = FeedValidationFailed
	}
	capitan.Emit(ctx, signal,
		KeyError.Field(err.Error()),
	)
	if f.metrics != nil {
		f.metrics.OnProcessFailure(stage, f.clock.Since(start))
	}
}

// failureState returns the appropriate failure state based on whether
// a valid document has ever been applied.
func (f *Feed) failureState() State {
	if !f.hasApplied.Load() {
		return StateEmpty
	}
	return StateDegraded
}

// transitionState updates the state and emits a state change event if changed.
func (f *Feed) transitionState(ctx context.Context, oldState, newState State) {
	if oldState == newState {
		return
	}
	f.state.Store(int32(newState))
	capitan.Emit(ctx, FeedStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
	if f.metrics != nil {
		f.metrics.OnStateChange(oldState, newState)
	}
}

// setError stores an error atomically and adds it to the error history.
func (f *Feed) setError(err error) {
	e := err
	f.lastError.Store(&e)
	f.errorHistory.push(err)
}

// watch processes documents from the watcher channel with debouncing.
func (f *Feed) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		finalState := f.State()
		capitan.Emit(ctx, FeedStopped,
			KeyState.Field(finalState.String()),
		)
		if f.onStop != nil {
			f.onStop(finalState)
		}
	}()

	var (
		timer      clockz.Timer
		pending    []byte
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

		case raw, ok := <-changes:
			if !ok {
				// Channel closed, process any pending change
				if hasPending {
					_ = f.process(ctx, pending) //nolint:errcheck // Errors stored via setError
				}
				return
			}

			f.received(ctx)
			pending = raw
			hasPending = true

			if timer == nil {
				timer = f.clock.NewTimer(f.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(f.debounce)
			}

		case <-timerC:
			if hasPending {
				_ = f.process(ctx, pending) //nolint:errcheck // Errors stored via setError
				hasPending = false
			}
		}
	}
}
