package sieve

import (
	"context"
	"fmt"
	"sync"

	"github.com/zoobzio/capitan"
	"golang.org/x/time/rate"
)

// Generator produces new records for a Store. Records returned without an
// ID are assigned one by the Store.
type Generator interface {
	Produce() Record
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func() Record

// Produce calls f.
func (f GeneratorFunc) Produce() Record {
	return f()
}

// Default Pump settings.
const (
	DefaultPumpRate  = 2.0
	DefaultPumpBurst = 1
)

// Pump appends generated records to a Store at a bounded rate. Each append
// is handed to the configured Executor so it runs on the pipeline's logical
// thread.
type Pump struct {
	store    *Store
	gen      Generator
	limiter  *rate.Limiter
	executor Executor
	limit    int

	mu      sync.Mutex
	started bool
	pumped  int
}

// NewPump creates a Pump feeding gen into store at DefaultPumpRate records
// per second.
func NewPump(store *Store, gen Generator) *Pump {
	return &Pump{
		store:    store,
		gen:      gen,
		limiter:  rate.NewLimiter(rate.Limit(DefaultPumpRate), DefaultPumpBurst),
		executor: Inline,
	}
}

// Rate sets records per second and burst size. A rate of zero or less
// removes the limit. Must be called before Run().
func (p *Pump) Rate(perSecond float64, burst int) *Pump {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	p.limiter = rate.NewLimiter(limit, burst)
	return p
}

// Limit stops the Pump after n records. Zero means no limit.
// Must be called before Run().
func (p *Pump) Limit(n int) *Pump {
	p.limit = n
	return p
}

// Executor sets where appends run. Default: Inline. Must be called before Run().
func (p *Pump) Executor(e Executor) *Pump {
	p.executor = e
	return p
}

// Pumped returns how many records have been handed to the executor.
func (p *Pump) Pumped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pumped
}

// Run appends records until ctx is canceled or the limit is reached.
// It returns nil when the limit is reached and the context error otherwise.
func (p *Pump) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return fmt.Errorf("pump: %w", ErrAlreadyStarted)
	}
	p.started = true
	p.mu.Unlock()

	defer func() {
		capitan.Emit(ctx, PumpStopped, KeyCount.Field(p.Pumped()))
	}()

	for p.limit == 0 || p.Pumped() < p.limit {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
		p.executor.Execute(func() {
			p.store.Append(ctx, p.gen)
		})
		p.mu.Lock()
		p.pumped++
		p.mu.Unlock()
	}
	return nil
}
