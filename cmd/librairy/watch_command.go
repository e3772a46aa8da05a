package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solosoyfranco/LibrAIry/internal/logging"
	"github.com/solosoyfranco/LibrAIry/internal/mover"
	"github.com/solosoyfranco/LibrAIry/internal/runlock"
	"github.com/solosoyfranco/LibrAIry/internal/watcher"
	"github.com/solosoyfranco/LibrAIry/internal/workflow"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var simulate bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the inbox and organize items as they settle",
		Long: `Runs in the foreground, watching the configured inbox directories.
Once file activity quiets down for the settle window, an organize run
fires automatically. Applies moves by default; pass --simulate to only
log what each run would do. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			runner, store, err := ctx.newRunner()
			if err != nil {
				return err
			}
			defer store.Close()

			mode := mover.Apply
			if simulate {
				mode = mover.Simulate
			}

			runCtx, stop := signalContext()
			defer stop()

			trigger := func(triggerCtx context.Context) {
				_, err := runner.Organize(triggerCtx, workflow.OrganizeOptions{Mode: mode})
				switch {
				case err == nil:
				case errors.Is(err, runlock.ErrHeld):
					logger.Warn("another run holds the lock, will retry on the next burst")
				case errors.Is(err, context.Canceled):
				default:
					logger.Error("organize run failed", logging.Error(err))
				}
			}

			w, err := watcher.New(cfg, trigger, logger)
			if err != nil {
				return err
			}
			if err := w.Start(runCtx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %d inbox directories (settle %s, mode %s). Ctrl-C to stop.\n",
				len(cfg.ManagedRoots()), w.Settle(), mode)

			<-runCtx.Done()
			w.Stop()
			logger.Info("watch stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&simulate, "simulate", false, "Log what each run would do without moving files")
	return cmd
}
