// Command recordream serves the dream record API and inspects records from
// the command line.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"recordream/internal/config"
	"recordream/internal/contextutil"
	"recordream/internal/remote"
)

// app is the state shared by every subcommand.
type app struct {
	cfg *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "recordream",
		Short:         "Dream journal record server and client",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			a.cfg = cfg

			logger := contextutil.NewLogger(cfg.LogFormat, cfg.LogLevel)
			slog.SetDefault(logger)
			cmd.SetContext(contextutil.WithLogger(cmd.Context(), logger))
			logger.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)
			return nil
		},
	}

	root.AddCommand(
		a.serveCommand(),
		a.showCommand(),
		a.feedCommand(),
		a.playCommand(),
	)
	return root
}

func (a *app) remoteClient() *remote.Client {
	return remote.NewClient(a.cfg.APIBaseURL, a.cfg.APIToken, a.cfg.APIRatePerSec, a.cfg.RequestTimeout)
}
