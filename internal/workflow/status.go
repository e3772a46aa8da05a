package workflow

import "github.com/solosoyfranco/LibrAIry/internal/ledger"

// Status classifies a completed run for exit-code mapping.
type Status string

const (
	// StatusWorkDone means the run mutated, flagged, or at least examined
	// candidate items.
	StatusWorkDone Status = "work-done"
	// StatusNothingToDo means the run found no candidates at all.
	StatusNothingToDo Status = "nothing-to-do"
	// StatusFailed means every attempted mutation failed and nothing
	// succeeded, which is indistinguishable from a broken run.
	StatusFailed Status = "failed"
)

// ExitCode maps a status to the process exit code contract: 0 for work
// done, 2 for an empty run, 1 for failure.
func (s Status) ExitCode() int {
	switch s {
	case StatusWorkDone:
		return 0
	case StatusNothingToDo:
		return 2
	default:
		return 1
	}
}

// statusFor derives the run status from the ledger. planned is the number
// of plans the flow produced; zero planned items is the only path to
// nothing-to-do, so a run that examined candidates but skipped them all
// still counts as work.
func statusFor(led *ledger.Ledger, planned int) Status {
	if planned == 0 {
		return StatusNothingToDo
	}
	counts := led.Counts()
	if counts.Failed > 0 && led.Mutations() == 0 && counts.Reviewed == 0 {
		return StatusFailed
	}
	return StatusWorkDone
}
