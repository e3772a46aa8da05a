package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/solosoyfranco/LibrAIry/internal/ledger"
	"github.com/solosoyfranco/LibrAIry/internal/mover"
	"github.com/solosoyfranco/LibrAIry/internal/workflow"
)

// exitStatus carries a process exit code through the cobra error path so
// main can translate run outcomes into shell-visible statuses.
type exitStatus struct {
	code int
}

func (e exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// statusErr maps a run status to the error main should exit with. Work done
// is the zero status and returns nil.
func statusErr(status workflow.Status) error {
	if status == workflow.StatusWorkDone {
		return nil
	}
	return exitStatus{code: status.ExitCode()}
}

// signalContext returns a context canceled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runMode(apply bool) mover.Mode {
	if apply {
		return mover.Apply
	}
	return mover.Simulate
}

type runReport struct {
	RunID     string         `json:"run_id"`
	Flow      string         `json:"flow"`
	Mode      string         `json:"mode"`
	Status    string         `json:"status"`
	Duration  string         `json:"duration"`
	HistoryID int64          `json:"history_id,omitempty"`
	Ledger    *ledger.Ledger `json:"ledger"`
}

// printRunResult renders a completed run either as JSON or as the human
// summary block.
func printRunResult(cmd *cobra.Command, result *workflow.Result, jsonOut bool) error {
	if jsonOut {
		return writeJSON(cmd, runReport{
			RunID:     result.RunID,
			Flow:      result.Flow,
			Mode:      string(result.Mode),
			Status:    string(result.Status),
			Duration:  result.Duration.Round(time.Millisecond).String(),
			HistoryID: result.HistoryID,
			Ledger:    result.Ledger,
		})
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	title := fmt.Sprintf("%s (%s)", cases.Title(language.Und).String(result.Flow), result.Mode)
	fmt.Fprint(out, renderSectionHeader(title, colorize))

	led := result.Ledger
	counts := []struct {
		label string
		value int
	}{
		{"Moved", len(led.Moved)},
		{"Quarantined", len(led.Quarantined)},
		{"Deleted", len(led.Deleted)},
		{"Reviewed", len(led.Reviewed)},
		{"Skipped", len(led.Skipped)},
		{"Failed", len(led.Failed)},
	}
	for _, c := range counts {
		fmt.Fprintf(out, "%s%-*s %d\n", statusIndent, statusLabelWidth, c.label+":", c.value)
	}
	fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "Duration:", result.Duration.Round(time.Millisecond))

	kind := statusInfo
	switch result.Status {
	case workflow.StatusWorkDone:
		kind = statusOK
	case workflow.StatusFailed:
		kind = statusError
	}
	display := strings.ReplaceAll(string(result.Status), "-", " ")
	fmt.Fprintln(out, renderStatusLine("Status", kind, display, colorize))
	return nil
}
