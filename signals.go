package sieve

import "github.com/zoobzio/capitan"

// Store signals.
var (
	// StorePublished is emitted after a new snapshot has been delivered to
	// every subscriber.
	StorePublished = capitan.NewSignal(
		"sieve.store.published",
		"Snapshot published to subscribers",
	)
)

// Input signals.
var (
	// InputStarted is emitted when an Input begins watching raw values.
	InputStarted = capitan.NewSignal(
		"sieve.input.started",
		"Input watching started",
	)

	// InputSettled is emitted when a raw value survives the quiescence
	// window and change suppression.
	InputSettled = capitan.NewSignal(
		"sieve.input.settled",
		"Input value settled",
	)

	// InputSuppressed is emitted when a settled value equals the last
	// emitted value and is dropped.
	InputSuppressed = capitan.NewSignal(
		"sieve.input.suppressed",
		"Input value unchanged",
	)

	// InputStopped is emitted when an Input stops watching.
	InputStopped = capitan.NewSignal(
		"sieve.input.stopped",
		"Input watching stopped",
	)
)

// View signals.
var (
	// ViewActivated is emitted when a View subscribes to its upstreams.
	ViewActivated = capitan.NewSignal(
		"sieve.view.activated",
		"View activated",
	)

	// ViewDeactivated is emitted when a View releases its upstreams.
	ViewDeactivated = capitan.NewSignal(
		"sieve.view.deactivated",
		"View deactivated",
	)

	// ViewRecomputed is emitted after every recomputation of the output.
	ViewRecomputed = capitan.NewSignal(
		"sieve.view.recomputed",
		"View output recomputed",
	)

	// RecordSkipped is emitted when a record cannot be evaluated and is
	// left out of the output.
	RecordSkipped = capitan.NewSignal(
		"sieve.view.record.skipped",
		"Record excluded from view",
	)
)

// Feed signals.
var (
	// FeedStarted is emitted when a Feed begins watching.
	FeedStarted = capitan.NewSignal(
		"sieve.feed.started",
		"Feed watching started",
	)

	// FeedStopped is emitted when a Feed stops watching.
	FeedStopped = capitan.NewSignal(
		"sieve.feed.stopped",
		"Feed watching stopped",
	)

	// FeedStateChanged is emitted when a Feed transitions between states.
	FeedStateChanged = capitan.NewSignal(
		"sieve.feed.state.changed",
		"Feed state transition",
	)

	// FeedChangeReceived is emitted when raw data arrives from the watcher.
	FeedChangeReceived = capitan.NewSignal(
		"sieve.feed.change.received",
		"Raw change received from watcher",
	)

	// FeedDecodeFailed is emitted when raw data cannot be decoded.
	FeedDecodeFailed = capitan.NewSignal(
		"sieve.feed.decode.failed",
		"Record document decode failed",
	)

	// FeedValidationFailed is emitted when a decoded document is rejected.
	FeedValidationFailed = capitan.NewSignal(
		"sieve.feed.validation.failed",
		"Record document validation failed",
	)

	// FeedApplied is emitted when a document replaced the collection.
	FeedApplied = capitan.NewSignal(
		"sieve.feed.applied",
		"Record document applied",
	)
)

// Pump signals.
var (
	// PumpStopped is emitted when a Pump returns from Run.
	PumpStopped = capitan.NewSignal(
		"sieve.pump.stopped",
		"Pump stopped",
	)
)
