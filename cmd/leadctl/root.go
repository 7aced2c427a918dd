package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/intent-score/internal/bootstrap"
	"github.com/spec-kit/intent-score/internal/config"
	"github.com/spec-kit/intent-score/internal/observability"
)

// runtimeOpener builds the shared runtime for a command invocation.
type runtimeOpener func(ctx context.Context) (*bootstrap.Runtime, error)

func openRuntime(ctx context.Context) (*bootstrap.Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return bootstrap.New(ctx, cfg, logger)
}

type cli struct {
	out  io.Writer
	open runtimeOpener
	rt   *bootstrap.Runtime
}

func newRootCommand(out io.Writer, open runtimeOpener) *cobra.Command {
	c := &cli{out: out, open: open}

	root := &cobra.Command{
		Use:   "leadctl",
		Short: "Score and manage leads from the command line",
		Long: `leadctl scores leads and manages the persisted lead collection.
It uses the same configuration as the API server (STORAGE_DRIVER, SCORING_API_URL, ...).
With the redis or postgres driver, commands operate on the same storage slot the dashboard
reads; with the default memory driver changes last only for the current invocation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			c.rt = rt
			return nil
		},
	}

	root.AddCommand(
		c.scoreCommand(),
		c.addCommand(),
		c.listCommand(),
		c.removeCommand(),
		c.clearCommand(),
		c.statsCommand(),
	)
	return root
}

// run wraps a command body so the runtime is released on every exit path.
// Mutating commands warn when their changes cannot outlive the process.
func (c *cli) run(mutates bool, fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer c.close()
		if mutates && c.rt.Config.Storage.Driver == config.StorageDriverMemory {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: STORAGE_DRIVER=memory; changes are discarded when leadctl exits")
		}
		return fn(cmd, args)
	}
}

func (c *cli) close() {
	if c.rt == nil {
		return
	}
	c.rt.Close()
	_ = c.rt.Logger.Sync()
	c.rt = nil
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		c.rt.Logger.Error("write output", zap.Error(err))
		return err
	}
	return nil
}
