package integration

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/sieve"
)

// latest keeps the most recent view output behind a lock.
type latest struct {
	mu   sync.Mutex
	rows []sieve.Record
}

func (l *latest) set(rows []sieve.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = rows
}

func (l *latest) get() []sieve.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rows
}

func names(rows []sieve.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func TestFileFeed_FiltersLiveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.yaml")
	writeFile(t, path, `
- {id: "1", name: Amelia J., progress: "42", color: red}
- {id: "2", name: Jack T., progress: "80", color: blue}
`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	loop := sieve.NewLoop(0)
	go func() { _ = loop.Run(ctx) }()

	store := sieve.NewStore()
	color := sieve.NewInput("color", "").Debounce(20 * time.Millisecond).Executor(loop)
	view := sieve.NewView(store.Changes(), sieve.Filters(
		sieve.NewInput("name", "").Executor(loop),
		color,
		sieve.NewInput("min_progress", 0.0).Executor(loop),
	))

	var out latest
	activated := make(chan struct{})
	loop.Execute(func() {
		view.Activate(ctx).Subscribe(out.set)
		close(activated)
	})
	<-activated
	defer view.Deactivate()

	if err := color.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	feed := sieve.NewFeed(sieve.NewFileWatcher(path), store).
		Codec(sieve.CodecFor(path)).
		Debounce(20 * time.Millisecond).
		Executor(loop)
	if err := feed.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if !waitFor(t, time.Second, func() bool { return len(out.get()) == 2 }) {
		t.Fatalf("expected 2 rows from file, got %v", names(out.get()))
	}

	color.Push("blue")
	if !waitFor(t, time.Second, func() bool { return len(out.get()) == 1 }) {
		t.Fatalf("expected color filter to apply, got %v", names(out.get()))
	}
	if got := out.get()[0].Name; got != "Jack T." {
		t.Errorf("expected Jack T., got %q", got)
	}

	writeFile(t, path, `
- {id: "1", name: Amelia J., progress: "42", color: red}
- {id: "2", name: Jack T., progress: "80", color: blue}
- {id: "3", name: Isla M., progress: "15", color: navy blue}
`)

	if !waitFor(t, 2*time.Second, func() bool { return len(out.get()) == 2 }) {
		t.Fatalf("expected file change to reach the view, got %v", names(out.get()))
	}
	if feed.State() != sieve.StateHealthy {
		t.Errorf("expected healthy feed, got %s", feed.State())
	}
}

func TestFileFeed_RejectsInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.json")
	writeFile(t, path, `[{"id": "1", "name": "Amelia J.", "progress": "42", "color": "red"}]`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store := sieve.NewStore()
	feed := sieve.NewFeed(sieve.NewFileWatcher(path), store).
		Debounce(20 * time.Millisecond)
	if err := feed.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if store.Current().Len() != 1 {
		t.Fatalf("expected 1 record, got %d", store.Current().Len())
	}

	// Duplicate ids are rejected.
	writeFile(t, path, `[{"id": "1", "name": "A"}, {"id": "1", "name": "B"}]`)

	if !waitFor(t, 2*time.Second, func() bool { return feed.State() == sieve.StateDegraded }) {
		t.Fatalf("expected degraded state, got %s", feed.State())
	}
	if store.Current().Len() != 1 || store.Current().At(0).Name != "Amelia J." {
		t.Errorf("expected previous collection to remain, got %+v", store.Current().Records())
	}
	if feed.LastError() == nil {
		t.Error("expected last error to be recorded")
	}
}

func TestFileWatcher_ClosesOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.json")
	writeFile(t, path, `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	out, err := sieve.NewFileWatcher(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	select {
	case <-out:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for initial contents")
	}

	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected channel to close")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}
}
