// Package testing provides test utilities and helpers for sieve pipelines.
package testing

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/zoobzio/sieve"
)

// Pipeline is a store, three sync-mode inputs and a view over them. Every
// delivery runs inline on the calling goroutine, so a Type call returns
// after the view has recomputed.
type Pipeline struct {
	Store       *sieve.Store
	Name        *sieve.Input[string]
	Color       *sieve.Input[string]
	MinProgress *sieve.Input[float64]
	View        *sieve.View

	rows []sieve.Record
}

// NewTestPipeline creates an activated pipeline over records. The view is
// deactivated when the test ends.
func NewTestPipeline(t testing.TB, records ...sieve.Record) *Pipeline {
	t.Helper()
	ctx := context.Background()

	p := &Pipeline{
		Store:       sieve.NewStore(records...),
		Name:        sieve.NewInput("name", "").SyncMode(),
		Color:       sieve.NewInput("color", "").SyncMode(),
		MinProgress: sieve.NewInput("min_progress", 0.0).SyncMode(),
	}
	for _, start := range []func(context.Context) error{p.Name.Start, p.Color.Start, p.MinProgress.Start} {
		if err := start(ctx); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
	}

	p.View = sieve.NewView(p.Store.Changes(), sieve.Filters(p.Name, p.Color, p.MinProgress))
	p.View.Activate(ctx).Subscribe(func(rows []sieve.Record) {
		p.rows = rows
	})
	t.Cleanup(p.View.Deactivate)
	return p
}

// TypeName settles v as the name filter.
func (p *Pipeline) TypeName(ctx context.Context, v string) {
	p.Name.Push(v)
	p.Name.Flush(ctx)
}

// TypeColor settles v as the color filter.
func (p *Pipeline) TypeColor(ctx context.Context, v string) {
	p.Color.Push(v)
	p.Color.Flush(ctx)
}

// TypeMinProgress settles v as the minimum progress.
func (p *Pipeline) TypeMinProgress(ctx context.Context, v float64) {
	p.MinProgress.Push(v)
	p.MinProgress.Flush(ctx)
}

// Rows returns the latest view output.
func (p *Pipeline) Rows() []sieve.Record {
	return p.rows
}

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t testing.TB, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// WaitForState waits until the feed reaches the expected state or timeout occurs.
func WaitForState(t testing.TB, f *sieve.Feed, expected sieve.State, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return f.State() == expected
	})
}

// RequireState fails the test immediately if the feed is not in the expected state.
func RequireState(t testing.TB, f *sieve.Feed, expected sieve.State) {
	t.Helper()
	if got := f.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// RequireIDs fails the test if rows do not carry exactly ids, in order.
func RequireIDs(t testing.TB, rows []sieve.Record, ids ...string) {
	t.Helper()
	if len(rows) != len(ids) {
		t.Fatalf("expected %d rows %v, got %d: %+v", len(ids), ids, len(rows), rows)
	}
	for i, r := range rows {
		if r.ID != ids[i] {
			t.Fatalf("row %d: expected id %q, got %q", i, ids[i], r.ID)
		}
	}
}

// Records builds n records with ids "1".."n", progress i and alternating
// red and blue colors.
func Records(n int) []sieve.Record {
	colors := [2]string{"red", "blue"}
	out := make([]sieve.Record, n)
	for i := range out {
		id := strconv.Itoa(i + 1)
		out[i] = sieve.Record{
			ID:       id,
			Name:     "Person " + id,
			Progress: strconv.Itoa(i % 101),
			Color:    colors[i%2],
		}
	}
	return out
}
