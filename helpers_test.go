package sieve

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// waitFor polls a condition until it returns true or timeout is reached.
func waitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return condition()
}

// collector records every value delivered to it.
type collector[T any] struct {
	mu     sync.Mutex
	values []T
}

func (c *collector[T]) add(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, v)
}

func (c *collector[T]) all() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.values))
	copy(out, c.values)
	return out
}

func (c *collector[T]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

func (c *collector[T]) last() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[len(c.values)-1]
}

// countingMetrics counts the callbacks tests care about.
type countingMetrics struct {
	NoOpMetricsProvider
	published  atomic.Int32
	settled    atomic.Int32
	suppressed atomic.Int32
	recomputes atomic.Int32
	skipped    atomic.Int32
	received   atomic.Int32
	successes  atomic.Int32
	failures   atomic.Int32
	lastStage  atomic.Value
}

func (m *countingMetrics) OnSnapshotPublished(_ int)             { m.published.Add(1) }
func (m *countingMetrics) OnInputSettled(_ string)               { m.settled.Add(1) }
func (m *countingMetrics) OnInputSuppressed(_ string)            { m.suppressed.Add(1) }
func (m *countingMetrics) OnRecompute(_ time.Duration, _, _ int) { m.recomputes.Add(1) }
func (m *countingMetrics) OnRecordSkipped()                      { m.skipped.Add(1) }
func (m *countingMetrics) OnChangeReceived()                     { m.received.Add(1) }
func (m *countingMetrics) OnProcessSuccess(_ time.Duration)      { m.successes.Add(1) }

func (m *countingMetrics) OnProcessFailure(stage string, _ time.Duration) {
	m.failures.Add(1)
	m.lastStage.Store(stage)
}

// sampleRecords is the two-record collection used across view tests.
func sampleRecords() []Record {
	return []Record{
		{ID: "1", Name: "Amelia J.", Progress: "42", Color: "red"},
		{ID: "2", Name: "Jack T.", Progress: "80", Color: "blue"},
	}
}
