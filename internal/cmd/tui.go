package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/zoobzio/sieve"
	"github.com/zoobzio/sieve/internal/tui"
)

const tuiCommandName = "tui"

func newTUICommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   tuiCommandName,
		Short: "Filter the record table interactively",
		Long: `Open the interactive table. Type into the name, color and min progress
fields to filter; tab moves between fields, ctrl+n adds a record and esc
quits. Logs are discarded unless --log-file is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMetrics(cmd.Context(), e.cfg.Metrics.Addr, e.logger,
				func(ctx context.Context, metrics sieve.MetricsProvider) error {
					return tui.New(e.cfg, metrics).Run(ctx)
				})
		},
	}
}
