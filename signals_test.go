package sieve

import "testing"

func TestSignalNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
	}{
		{"sieve.store.published", StorePublished.Name()},
		{"sieve.input.started", InputStarted.Name()},
		{"sieve.input.settled", InputSettled.Name()},
		{"sieve.input.suppressed", InputSuppressed.Name()},
		{"sieve.input.stopped", InputStopped.Name()},
		{"sieve.view.activated", ViewActivated.Name()},
		{"sieve.view.deactivated", ViewDeactivated.Name()},
		{"sieve.view.recomputed", ViewRecomputed.Name()},
		{"sieve.view.record.skipped", RecordSkipped.Name()},
		{"sieve.feed.started", FeedStarted.Name()},
		{"sieve.feed.stopped", FeedStopped.Name()},
		{"sieve.feed.state.changed", FeedStateChanged.Name()},
		{"sieve.feed.change.received", FeedChangeReceived.Name()},
		{"sieve.feed.decode.failed", FeedDecodeFailed.Name()},
		{"sieve.feed.validation.failed", FeedValidationFailed.Name()},
		{"sieve.feed.applied", FeedApplied.Name()},
		{"sieve.pump.stopped", PumpStopped.Name()},
	}

	for _, tt := range tests {
		if tt.got != tt.name {
			t.Errorf("expected name %q, got %q", tt.name, tt.got)
		}
	}
}
