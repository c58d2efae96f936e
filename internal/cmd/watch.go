package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zoobzio/sieve"
	"github.com/zoobzio/sieve/internal/config"
	"github.com/zoobzio/sieve/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

var (
	stampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	countStyle = lipgloss.NewStyle().Bold(true)
	moreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

func newWatchCommand(v *viper.Viper, e *env) *cobra.Command {
	var (
		show     int
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the filtered table every time it changes",
		Long: `Run the pipeline headless and print the filtered table after every
recompute. The filter is fixed by --name, --color and --min-progress.

Examples:
  # Red records with progress of at least 50, for ten seconds
  sieve watch --color red --min-progress 50 --duration 10s

  # Follow a records file without generating any
  sieve watch --records records.yaml --seed 0 --rate 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			out := cmd.OutOrStdout()
			return withMetrics(ctx, e.cfg.Metrics.Addr, e.logger,
				func(ctx context.Context, metrics sieve.MetricsProvider) error {
					return watch(ctx, out, e.cfg, metrics, show)
				})
		},
	}

	flags := cmd.Flags()
	flags.String("name", "", "only records whose name contains this")
	flags.String("color", "", "only records whose color contains this")
	flags.Float64("min-progress", 0, "only records with at least this progress")
	flags.IntVar(&show, "show", 10, "rows printed per recompute (0 prints all)")
	flags.DurationVar(&duration, "duration", 0, "stop after this long (0 runs until interrupted)")

	bind(v, flags, map[string]string{
		"filter.name":         "name",
		"filter.color":        "color",
		"filter.min_progress": "min-progress",
	})

	return cmd
}

// watch runs one headless pipeline on a Loop until ctx ends.
func watch(ctx context.Context, w io.Writer, cfg *config.Config, metrics sieve.MetricsProvider, show int) error {
	loop := sieve.NewLoop(0)
	p := pipeline.New(cfg, loop, metrics)
	pr := &printer{w: w, store: p.Store, show: show}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(ctx)
	})

	activated := make(chan struct{})
	loop.Execute(func() {
		p.View.Activate(ctx).Subscribe(pr.print)
		close(activated)
	})
	defer p.View.Deactivate()

	select {
	case <-activated:
	case <-ctx.Done():
		return quiet(g.Wait())
	}

	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("failed to start filter inputs: %w", err)
	}
	g.Go(func() error {
		return p.Run(ctx)
	})

	return quiet(g.Wait())
}

// quiet drops the error a normal shutdown ends with.
func quiet(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// printer writes one block per view output. It runs on the loop.
type printer struct {
	w     io.Writer
	store *sieve.Store
	show  int
}

func (p *printer) print(rows []sieve.Record) {
	fmt.Fprintf(p.w, "%s %s\n",
		stampStyle.Render(time.Now().Format("15:04:05.000")),
		countStyle.Render(fmt.Sprintf("%d of %d records match", len(rows), p.store.Current().Len())),
	)

	visible := rows
	if p.show > 0 && len(visible) > p.show {
		visible = visible[:p.show]
	}
	if len(visible) > 0 {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "Name", "Progress", "Color")
		for _, r := range visible {
			t.Row(r.ID, r.Name, r.Progress, r.Color)
		}
		fmt.Fprintln(p.w, t.String())
	}
	if hidden := len(rows) - len(visible); hidden > 0 {
		fmt.Fprintln(p.w, moreStyle.Render(fmt.Sprintf("… %d more", hidden)))
	}
}
