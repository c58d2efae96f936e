package sieve

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key pipeline events.
// Embed NoOpMetricsProvider to implement only the methods you need.
type MetricsProvider interface {
	// OnSnapshotPublished is called after a Store delivered a snapshot.
	OnSnapshotPublished(size int)

	// OnInputSettled is called when an Input emits a new value.
	OnInputSettled(input string)

	// OnInputSuppressed is called when an Input drops an unchanged value.
	OnInputSuppressed(input string)

	// OnRecompute is called after a View recomputed its output.
	// Scanned is the snapshot size, matched the output size.
	OnRecompute(duration time.Duration, scanned, matched int)

	// OnRecordSkipped is called for each record a View could not evaluate.
	OnRecordSkipped()

	// OnStateChange is called when a Feed transitions between states.
	OnStateChange(from, to State)

	// OnChangeReceived is called when a Feed receives raw data.
	OnChangeReceived()

	// OnProcessSuccess is called when a Feed applied a document.
	OnProcessSuccess(duration time.Duration)

	// OnProcessFailure is called when a Feed rejected a document.
	// Stage is "decode" or "validate".
	OnProcessFailure(stage string, duration time.Duration)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnSnapshotPublished(_ int)                  {}
func (NoOpMetricsProvider) OnInputSettled(_ string)                    {}
func (NoOpMetricsProvider) OnInputSuppressed(_ string)                 {}
func (NoOpMetricsProvider) OnRecompute(_ time.Duration, _, _ int)      {}
func (NoOpMetricsProvider) OnRecordSkipped()                           {}
func (NoOpMetricsProvider) OnStateChange(_, _ State)                   {}
func (NoOpMetricsProvider) OnChangeReceived()                          {}
func (NoOpMetricsProvider) OnProcessSuccess(_ time.Duration)           {}
func (NoOpMetricsProvider) OnProcessFailure(_ string, _ time.Duration) {}

var _ MetricsProvider = NoOpMetricsProvider{}
