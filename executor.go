package sieve

import (
	"context"
	"fmt"
	"sync"
)

// Executor runs delivery work on the single logical thread that owns a
// pipeline. Settled input values, pumped records and fed snapshots are all
// handed to an Executor so that recomputation never runs in parallel.
type Executor interface {
	Execute(fn func())
}

// ExecutorFunc adapts a function to the Executor interface.
//
// A bubbletea program can act as the logical thread:
//
//	exec := sieve.ExecutorFunc(func(fn func()) { program.Send(runMsg(fn)) })
type ExecutorFunc func(fn func())

// Execute calls f(fn).
func (f ExecutorFunc) Execute(fn func()) {
	f(fn)
}

// Inline runs work immediately on the calling goroutine.
// It is the default Executor and is suitable for sync mode and for callers
// that already serialize access themselves.
var Inline Executor = ExecutorFunc(func(fn func()) { fn() })

// DefaultLoopBuffer is the default task queue size for a Loop.
const DefaultLoopBuffer = 64

// Loop is a run-to-completion event loop. Tasks posted with Execute run one
// at a time, in posting order, on the goroutine that called Run.
type Loop struct {
	tasks chan func()
	done  chan struct{}

	mu      sync.Mutex
	started bool
}

// NewLoop creates a Loop with a task queue of the given size.
// A non-positive size uses DefaultLoopBuffer.
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = DefaultLoopBuffer
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Execute queues fn. It blocks while the queue is full and drops fn once
// the loop has stopped.
func (l *Loop) Execute(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// Run processes tasks until ctx is canceled. Tasks still queued at
// cancellation are discarded. Run can only be called once.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return fmt.Errorf("loop: %w", ErrAlreadyStarted)
	}
	l.started = true
	l.mu.Unlock()

	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}
