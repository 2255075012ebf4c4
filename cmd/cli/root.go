package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gridqueue/gridbroker/cmd/cli/buckets"
	"github.com/gridqueue/gridbroker/cmd/cli/housekeeping"
	"github.com/gridqueue/gridbroker/cmd/cli/job"
	"github.com/gridqueue/gridbroker/cmd/cli/match"
	"github.com/gridqueue/gridbroker/cmd/cli/migrate"
	"github.com/gridqueue/gridbroker/cmd/cli/site"
	"github.com/gridqueue/gridbroker/cmd/cli/version"
	"github.com/gridqueue/gridbroker/cmd/util"
	"github.com/gridqueue/gridbroker/pkg/config"
	"github.com/gridqueue/gridbroker/pkg/logger"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

type rootOptions struct {
	configPath string
	logLevel   string
	logMode    string
}

func NewRootCmd(buildVersion string) *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "gridbroker",
		Short:         "Central job broker of the grid",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			if opts.logMode != "" {
				cfg.Logging.Mode = opts.logMode
			}
			logger.Configure(cfg.Logging.Level, cfg.Logging.Mode)
			cmd.SetContext(util.ContextWithConfig(cmd.Context(), cfg))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"Path to a YAML configuration file. Settings can also be given as "+config.KeyAsEnvVar(config.StorePath)+" style variables.")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&opts.logMode, "log-mode", "", "Log format: 'default' or 'json'")

	rootCmd.AddCommand(migrate.NewCmd())
	rootCmd.AddCommand(job.NewCmd())
	rootCmd.AddCommand(match.NewCmd())
	rootCmd.AddCommand(buckets.NewCmd())
	rootCmd.AddCommand(site.NewCmd())
	rootCmd.AddCommand(housekeeping.NewCmd())
	rootCmd.AddCommand(version.NewCmd(buildVersion))
	return rootCmd
}

func Execute(buildVersion string) {
	rootCmd := NewRootCmd(buildVersion)

	// Ensure commands are able to stop cleanly if someone presses ctrl+c
	ctx, cancel := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer cancel()
	rootCmd.SetContext(ctx)

	// Use stdout, not stderr for cmd.Print output, so that
	// e.g. ID=$(gridbroker job submit -f job.json) works
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		util.Fatal(rootCmd, err, 1)
	}
}
