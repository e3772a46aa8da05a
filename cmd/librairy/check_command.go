package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solosoyfranco/LibrAIry/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify directories, free space, and the classifier endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)

			if jsonOut {
				type checkReport struct {
					Name     string `json:"name"`
					Passed   bool   `json:"passed"`
					Optional bool   `json:"optional,omitempty"`
					Detail   string `json:"detail,omitempty"`
				}
				reports := make([]checkReport, 0, len(results))
				for _, res := range results {
					reports = append(reports, checkReport(res))
				}
				if err := writeJSON(cmd, reports); err != nil {
					return err
				}
				if !preflight.AllPassed(results) {
					return errors.New("preflight failed")
				}
				return nil
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprint(out, renderSectionHeader("Preflight", colorize))
			for _, res := range results {
				kind := statusOK
				switch {
				case !res.Passed && res.Optional:
					kind = statusWarn
				case !res.Passed:
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(res.Name, kind, res.Detail, colorize))
			}

			if !preflight.AllPassed(results) {
				return errors.New("preflight failed")
			}
			fmt.Fprintln(out, "All checks passed.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit check results as JSON")
	return cmd
}
