package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/solosoyfranco/LibrAIry/internal/history"
	"github.com/solosoyfranco/LibrAIry/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded runs",
	}
	cmd.AddCommand(newHistoryListCommand(ctx))
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				reports := make([]historyRunReport, 0, len(runs))
				for _, run := range runs {
					reports = append(reports, newHistoryRunReport(run, false))
				}
				return writeJSON(cmd, reports)
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			headers := []string{"ID", "RUN", "FLOW", "MODE", "FINISHED", "MOVED", "QUAR", "DEL", "REVIEW", "SKIP", "FAIL"}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					strconv.FormatInt(run.ID, 10),
					shortRunID(run.RunID),
					run.Flow,
					run.Mode,
					humanize.Time(run.FinishedAt),
					strconv.Itoa(run.Moved),
					strconv.Itoa(run.Quarantined),
					strconv.Itoa(run.Deleted),
					strconv.Itoa(run.Reviewed),
					strconv.Itoa(run.Skipped),
					strconv.Itoa(run.Failed),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, 0, 5, 6, 7, 8, 9, 10))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the runs as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with its full outcome ledger",
		Long: `Looks up a run by its run id. A unique prefix of the id is enough, so
the short form printed by "history list" works.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.FindByRunID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("no run matches %q", strings.TrimSpace(args[0]))
			}

			if jsonOut {
				return writeJSON(cmd, newHistoryRunReport(run, true))
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprint(out, renderSectionHeader("Run "+shortRunID(run.RunID), colorize))
			fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "Run ID:", run.RunID)
			fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "Flow:", run.Flow)
			fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "Mode:", run.Mode)
			fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "Started:", run.StartedAt.Format(time.RFC3339))
			fmt.Fprintf(out, "%s%-*s %s (%s)\n", statusIndent, statusLabelWidth, "Finished:", run.FinishedAt.Format(time.RFC3339), humanize.Time(run.FinishedAt))

			var led ledger.Ledger
			if err := json.Unmarshal([]byte(run.LedgerJSON), &led); err != nil {
				return fmt.Errorf("decode run ledger: %w", err)
			}
			printEntries(out, "Moved", led.Moved)
			printEntries(out, "Quarantined", led.Quarantined)
			printEntries(out, "Deleted", led.Deleted)
			printEntries(out, "Reviewed", led.Reviewed)
			printEntries(out, "Skipped", led.Skipped)
			printEntries(out, "Failed", led.Failed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run as JSON")
	return cmd
}

type historyRunReport struct {
	ID          int64           `json:"id"`
	RunID       string          `json:"run_id"`
	Flow        string          `json:"flow"`
	Mode        string          `json:"mode"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  time.Time       `json:"finished_at"`
	Moved       int             `json:"moved"`
	Quarantined int             `json:"quarantined"`
	Deleted     int             `json:"deleted"`
	Reviewed    int             `json:"reviewed"`
	Skipped     int             `json:"skipped"`
	Failed      int             `json:"failed"`
	Ledger      json.RawMessage `json:"ledger,omitempty"`
}

func newHistoryRunReport(run *history.Run, includeLedger bool) historyRunReport {
	report := historyRunReport{
		ID:          run.ID,
		RunID:       run.RunID,
		Flow:        run.Flow,
		Mode:        run.Mode,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
		Moved:       run.Moved,
		Quarantined: run.Quarantined,
		Deleted:     run.Deleted,
		Reviewed:    run.Reviewed,
		Skipped:     run.Skipped,
		Failed:      run.Failed,
	}
	if includeLedger && strings.TrimSpace(run.LedgerJSON) != "" {
		report.Ledger = json.RawMessage(run.LedgerJSON)
	}
	return report
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printEntries(out io.Writer, label string, entries []ledger.Entry) {
	fmt.Fprintf(out, "%s%s (%d)\n", statusIndent, label, len(entries))
	for _, entry := range entries {
		line := statusIndent + statusIndent + entry.From
		if entry.To != "" {
			line += " -> " + entry.To
		}
		if entry.Reason != "" {
			line += " (" + entry.Reason + ")"
		}
		fmt.Fprintln(out, line)
	}
}
