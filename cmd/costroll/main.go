// Command costroll prices labor models and grant budgets from YAML or JSON files,
// prepares the database, and pushes documents to a running API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/govsure/costroll/internal/config"
	"github.com/govsure/costroll/internal/logging"
)

type app struct {
	cfg    config.Config
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: config.Load()}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "costroll",
		Short:         "Cost roll-up for pricing models and SF-424A budgets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			level := a.cfg.LogLevel
			if verbose {
				level = "debug"
			}
			logger, err := logging.New(level, a.cfg.IsDev())
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newPricingCmd(a),
		newBudgetCmd(a),
		newMigrateCmd(a),
		newPushCmd(a),
	)
	return root
}
