// Package ledger accumulates the structured outcome of a run and writes the
// append-only audit trail. A run always produces a ledger, even when every
// item failed; silent partial success is never acceptable.
package ledger

import (
	"encoding/json"
	"time"
)

// Entry records one per-item outcome with enough detail to reconstruct the
// run for audit.
type Entry struct {
	From   string `json:"from"`
	To     string `json:"to,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Summary carries the per-category counts of a ledger.
type Summary struct {
	Moved       int `json:"moved"`
	Skipped     int `json:"skipped"`
	Failed      int `json:"failed"`
	Quarantined int `json:"quarantined"`
	Deleted     int `json:"deleted"`
	Reviewed    int `json:"flagged_for_review"`
}

// Ledger is the structured outcome of one run. Produced fresh each run,
// never merged across runs. Simulate and apply runs share this shape so a
// dry run diffs cleanly against the real one.
type Ledger struct {
	RunID       string    `json:"run_id"`
	Flow        string    `json:"flow"`
	Mode        string    `json:"mode"`
	StartedAt   time.Time `json:"started_at"`
	Moved       []Entry   `json:"moved"`
	Skipped     []Entry   `json:"skipped"`
	Failed      []Entry   `json:"failed"`
	Quarantined []Entry   `json:"quarantined"`
	Deleted     []Entry   `json:"deleted"`
	Reviewed    []Entry   `json:"flagged_for_review"`
}

// New builds an empty ledger. Slices are initialized so the JSON form is
// stable regardless of which categories a run exercises.
func New(runID, flow, mode string, startedAt time.Time) *Ledger {
	return &Ledger{
		RunID:       runID,
		Flow:        flow,
		Mode:        mode,
		StartedAt:   startedAt.UTC(),
		Moved:       []Entry{},
		Skipped:     []Entry{},
		Failed:      []Entry{},
		Quarantined: []Entry{},
		Deleted:     []Entry{},
		Reviewed:    []Entry{},
	}
}

func (l *Ledger) AddMoved(from, to, reason string) {
	l.Moved = append(l.Moved, Entry{From: from, To: to, Reason: reason})
}

func (l *Ledger) AddSkipped(from, reason string) {
	l.Skipped = append(l.Skipped, Entry{From: from, Reason: reason})
}

func (l *Ledger) AddFailed(from, to, reason string) {
	l.Failed = append(l.Failed, Entry{From: from, To: to, Reason: reason})
}

func (l *Ledger) AddQuarantined(from, to, reason string) {
	l.Quarantined = append(l.Quarantined, Entry{From: from, To: to, Reason: reason})
}

func (l *Ledger) AddDeleted(from, reason string) {
	l.Deleted = append(l.Deleted, Entry{From: from, Reason: reason})
}

func (l *Ledger) AddReviewed(from, to, reason string) {
	l.Reviewed = append(l.Reviewed, Entry{From: from, To: to, Reason: reason})
}

// Counts returns the per-category totals.
func (l *Ledger) Counts() Summary {
	return Summary{
		Moved:       len(l.Moved),
		Skipped:     len(l.Skipped),
		Failed:      len(l.Failed),
		Quarantined: len(l.Quarantined),
		Deleted:     len(l.Deleted),
		Reviewed:    len(l.Reviewed),
	}
}

// Mutations returns how many items were (or in simulate mode, would be)
// successfully moved, quarantined, or deleted.
func (l *Ledger) Mutations() int {
	return len(l.Moved) + len(l.Quarantined) + len(l.Deleted)
}

// HasFailures reports whether any mutation errored.
func (l *Ledger) HasFailures() bool {
	return len(l.Failed) > 0
}

// JSON renders the ledger in its canonical indented form. Two simulate runs
// over identical inputs and stamps produce byte-identical output.
func (l *Ledger) JSON() ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}
