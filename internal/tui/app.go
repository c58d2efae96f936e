package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zoobzio/sieve"
	"github.com/zoobzio/sieve/internal/config"
	"github.com/zoobzio/sieve/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

// App wraps the Bubbletea program
type App struct {
	cfg     *config.Config
	metrics sieve.MetricsProvider
	program *tea.Program
}

// New creates a new TUI application. metrics may be nil.
func New(cfg *config.Config, metrics sieve.MetricsProvider) *App {
	return &App{cfg: cfg, metrics: metrics}
}

// Run starts the TUI application and blocks until the user quits or ctx
// is canceled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The update loop is the pipeline's single logical thread.
	exec := sieve.ExecutorFunc(func(fn func()) {
		a.program.Send(runMsg(fn))
	})

	p := pipeline.New(a.cfg, exec, a.metrics)
	model := NewModel(ctx, p)
	defer p.View.Deactivate()
	defer model.Close()

	a.program = tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("failed to start filter inputs: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		_, err := a.program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
