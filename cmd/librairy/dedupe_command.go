package main

import (
	"github.com/spf13/cobra"

	"github.com/solosoyfranco/LibrAIry/internal/config"
	"github.com/solosoyfranco/LibrAIry/internal/workflow"
)

func newDedupeCommand(ctx *commandContext) *cobra.Command {
	var (
		apply   bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "dedupe <report>",
		Short: "Resolve a duplicate report by quarantining redundant copies",
		Long: `Ingests a duplicate report, picks one keeper per duplicate group, and
moves every other copy into a dated quarantine batch (or deletes it when
delete_duplicates is enabled). Runs simulate unless --apply is given, so
the default invocation only prints what would happen.

Examples:
  librairy dedupe ~/reports/dupes.json            # dry run
  librairy dedupe ~/reports/dupes.json --apply    # move the files`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			runner, store, err := ctx.newRunner()
			if err != nil {
				return err
			}
			defer store.Close()

			runCtx, stop := signalContext()
			defer stop()

			opts := workflow.DedupeOptions{
				ReportPath: reportPath,
				Mode:       runMode(apply),
			}
			if apply {
				opts.Progress = newProgressCallback("Quarantining duplicates")
			}

			result, err := runner.Dedupe(runCtx, opts)
			if err != nil {
				return err
			}
			if err := printRunResult(cmd, result, jsonOut); err != nil {
				return err
			}
			return statusErr(result.Status)
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Perform the moves instead of simulating them")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run result as JSON")
	return cmd
}
