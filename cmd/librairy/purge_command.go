package main

import (
	"github.com/spf13/cobra"

	"github.com/solosoyfranco/LibrAIry/internal/workflow"
)

func newPurgeCommand(ctx *commandContext) *cobra.Command {
	var (
		apply   bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove quarantine batches older than the retention window",
		Long: `Deletes dated quarantine batches whose age exceeds retention_days.
Runs simulate unless --apply is given; the simulate run lists every batch
that would be removed without touching it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, store, err := ctx.newRunner()
			if err != nil {
				return err
			}
			defer store.Close()

			runCtx, stop := signalContext()
			defer stop()

			result, err := runner.Purge(runCtx, workflow.PurgeOptions{Mode: runMode(apply)})
			if err != nil {
				return err
			}
			if err := printRunResult(cmd, result, jsonOut); err != nil {
				return err
			}
			return statusErr(result.Status)
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Delete the expired batches instead of listing them")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run result as JSON")
	return cmd
}
