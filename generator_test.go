package sieve

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPump_Limit(t *testing.T) {
	store := NewStore()
	pump := NewPump(store, counterGenerator()).Rate(0, 1).Limit(25)

	if err := pump.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if pump.Pumped() != 25 {
		t.Errorf("expected 25 pumped, got %d", pump.Pumped())
	}
	if store.Current().Len() != 25 {
		t.Errorf("expected 25 records, got %d", store.Current().Len())
	}
}

func TestPump_StopsOnCancel(t *testing.T) {
	store := NewStore()
	pump := NewPump(store, counterGenerator()).Rate(1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := pump.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if pump.Pumped() > 1 {
		t.Errorf("expected rate limit to hold pumping to the burst, got %d", pump.Pumped())
	}
}

func TestPump_RunTwice(t *testing.T) {
	pump := NewPump(NewStore(), counterGenerator()).Rate(0, 1).Limit(1)

	if err := pump.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := pump.Run(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestPump_UsesExecutor(t *testing.T) {
	store := NewStore()

	var queued []func()
	exec := ExecutorFunc(func(fn func()) { queued = append(queued, fn) })

	pump := NewPump(store, counterGenerator()).Rate(0, 1).Limit(3).Executor(exec)
	if err := pump.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if store.Current().Len() != 0 {
		t.Errorf("expected appends to wait for the executor, got %d records", store.Current().Len())
	}
	for _, fn := range queued {
		fn()
	}
	if store.Current().Len() != 3 {
		t.Errorf("expected 3 records, got %d", store.Current().Len())
	}
}
