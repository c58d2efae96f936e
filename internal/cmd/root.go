// Package cmd wires the sieve command line: a cobra root carrying the
// configuration flags, an interactive tui command and a headless watch
// command.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zoobzio/sieve/internal/config"
	"github.com/zoobzio/sieve/internal/logging"
)

// env is what every subcommand receives once configuration is loaded.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
}

// NewRootCommand builds the sieve command tree around its own viper
// instance.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var (
		cfgFile string
		e       env
	)

	root := &cobra.Command{
		Use:   "sieve",
		Short: "Live filtered table over a changing record collection",
		Long: `Sieve keeps a table of records filtered by name, color and minimum
progress while records keep arriving, either from a random generator or
from a watched records file.

Every setting can come from a flag, a sieve.yaml in the working directory,
or a SIEVE_ environment variable (SIEVE_PUMP_RATE for pump.rate).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Init(v, cfgFile); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			w, closeLog, err := logging.Open(cfg.Logging.File)
			if err != nil {
				return err
			}
			// The tui owns the terminal; only log there when a file is set.
			if cfg.Logging.File == "" && cmd.Name() == tuiCommandName {
				w = io.Discard
			}

			e.cfg = cfg
			e.logger = logging.New(w, cfg.Logging.Level, cfg.Logging.Format)
			e.closeLog = closeLog
			logging.Bridge(e.logger)
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if e.closeLog != nil {
				return e.closeLog()
			}
			return nil
		},
	}

	defaults := config.Default()

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./sieve.yaml)")
	flags.Duration("quiescence", defaults.Quiescence, "filter input quiescence window")
	flags.Int("seed", defaults.Seed, "number of records generated at startup")
	flags.Uint64("random-seed", 0, "random seed for generated records (0 picks one)")
	flags.Float64("rate", defaults.Pump.Rate, "records generated per second after startup (0 disables)")
	flags.Int("limit", 0, "stop generating after this many records (0 is unlimited)")
	flags.String("records", "", "watch a JSON, YAML or JWCC records file")
	flags.String("log-level", defaults.Logging.Level, "log level (DEBUG, INFO, WARN, ERROR)")
	flags.String("log-format", defaults.Logging.Format, "log format (text or json)")
	flags.String("log-file", "", "write logs to this file")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this host:port")

	bind(v, flags, map[string]string{
		"quiescence":     "quiescence",
		"seed":           "seed",
		"random_seed":    "random-seed",
		"pump.rate":      "rate",
		"pump.limit":     "limit",
		"feed.path":      "records",
		"logging.level":  "log-level",
		"logging.format": "log-format",
		"logging.file":   "log-file",
		"metrics.addr":   "metrics-addr",
	})

	root.AddCommand(newTUICommand(&e), newWatchCommand(v, &e))
	return root
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// bind maps config keys to the flags that override them.
func bind(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind %s: %v", name, err))
		}
	}
}
