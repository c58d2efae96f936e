// Package pipeline assembles a sieve pipeline from configuration: a seeded
// store, the three filter inputs, the view, and the optional pump and feed.
package pipeline

import (
	"context"
	"fmt"

	"github.com/zoobzio/sieve"
	"github.com/zoobzio/sieve/internal/config"
	"github.com/zoobzio/sieve/internal/demo"
	"golang.org/x/sync/errgroup"
)

// Pipeline holds every component of one filtered table.
type Pipeline struct {
	Store       *sieve.Store
	Name        *sieve.Input[string]
	Color       *sieve.Input[string]
	MinProgress *sieve.Input[float64]
	View        *sieve.View

	// Pump is nil when the configured rate is zero.
	Pump *sieve.Pump

	// Feed is nil when no records file is configured.
	Feed *sieve.Feed

	filter config.FilterConfig
}

// New builds a pipeline. Every delivery runs on exec; metrics may be nil.
func New(cfg *config.Config, exec sieve.Executor, metrics sieve.MetricsProvider) *Pipeline {
	if metrics == nil {
		metrics = sieve.NoOpMetricsProvider{}
	}

	var gen sieve.Generator
	if cfg.RandomSeed != 0 {
		gen = demo.Seeded(cfg.RandomSeed)
	} else {
		gen = demo.New(nil)
	}

	seed := make([]sieve.Record, cfg.Seed)
	for i := range seed {
		seed[i] = gen.Produce()
	}

	p := &Pipeline{
		Store:       sieve.NewStore(seed...).Metrics(metrics),
		Name:        newInput("name", "", cfg, exec, metrics),
		Color:       newInput("color", "", cfg, exec, metrics),
		MinProgress: newInput("min_progress", 0.0, cfg, exec, metrics),
		filter:      cfg.Filter,
	}
	p.View = sieve.NewView(p.Store.Changes(), sieve.Filters(p.Name, p.Color, p.MinProgress)).
		Metrics(metrics).
		SkipHistorySize(16)

	if cfg.Pump.Rate > 0 {
		p.Pump = sieve.NewPump(p.Store, gen).
			Rate(cfg.Pump.Rate, cfg.Pump.Burst).
			Limit(cfg.Pump.Limit).
			Executor(exec)
	}

	if cfg.Feed.Path != "" {
		p.Feed = sieve.NewFeed(sieve.NewFileWatcher(cfg.Feed.Path), p.Store).
			Codec(sieve.CodecFor(cfg.Feed.Path)).
			Debounce(cfg.Feed.Debounce).
			Executor(exec).
			Metrics(metrics).
			ErrorHistorySize(8)
	}

	return p
}

func newInput[T comparable](name string, seed T, cfg *config.Config, exec sieve.Executor, metrics sieve.MetricsProvider) *sieve.Input[T] {
	return sieve.NewInput(name, seed).
		Debounce(cfg.Quiescence).
		Executor(exec).
		Metrics(metrics)
}

// Filter returns the initial filter values Start offers to the inputs.
func (p *Pipeline) Filter() config.FilterConfig {
	return p.filter
}

// Start starts the three inputs and offers the configured initial filter
// values to them. It returns once the inputs are watching.
func (p *Pipeline) Start(ctx context.Context) error {
	if err := p.Name.Start(ctx); err != nil {
		return err
	}
	if err := p.Color.Start(ctx); err != nil {
		return err
	}
	if err := p.MinProgress.Start(ctx); err != nil {
		return err
	}

	if p.filter.Name != "" {
		p.Name.Push(p.filter.Name)
	}
	if p.filter.Color != "" {
		p.Color.Push(p.filter.Color)
	}
	if p.filter.MinProgress != 0 {
		p.MinProgress.Push(p.filter.MinProgress)
	}
	return nil
}

// Run drives the pump and the feed until ctx is canceled or one of them
// fails. A rejected initial feed document is not fatal; the feed keeps
// watching for a valid one.
func (p *Pipeline) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if p.Pump != nil {
		g.Go(func() error {
			return p.Pump.Run(ctx)
		})
	}

	if p.Feed != nil {
		g.Go(func() error {
			if err := p.Feed.Start(ctx); err != nil && p.Feed.State() == sieve.StateLoading {
				return fmt.Errorf("records feed: %w", err)
			}
			<-ctx.Done()
			return ctx.Err()
		})
	}

	return g.Wait()
}
