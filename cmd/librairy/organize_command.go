package main

import (
	"github.com/spf13/cobra"

	"github.com/solosoyfranco/LibrAIry/internal/config"
	"github.com/solosoyfranco/LibrAIry/internal/workflow"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var (
		apply       bool
		jsonOut     bool
		recordsPath string
	)

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "File inbox items into the library from classification records",
		Long: `Classifies each item in the configured inbox directories and moves it to
its recommended place in the library. Items whose confidence falls below
the configured threshold are routed to the review directory instead.
Runs simulate unless --apply is given.

With --records, classification records produced ahead of time are used
for the items they cover; everything else is classified live through the
configured model.

Examples:
  librairy organize                       # dry run
  librairy organize --apply               # move the files
  librairy organize --records plan.json   # reuse prepared classifications`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, store, err := ctx.newRunner()
			if err != nil {
				return err
			}
			defer store.Close()

			records := recordsPath
			if records != "" {
				records, err = config.ExpandPath(records)
				if err != nil {
					return err
				}
			}

			runCtx, stop := signalContext()
			defer stop()

			opts := workflow.OrganizeOptions{
				Mode:        runMode(apply),
				RecordsPath: records,
			}
			if apply {
				opts.Progress = newProgressCallback("Organizing inbox")
			}

			result, err := runner.Organize(runCtx, opts)
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
	cmd.Flags().StringVar(&recordsPath, "records", "", "Classification records file prepared ahead of the run")
	return cmd
}
