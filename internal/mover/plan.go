// Package mover executes relocation plans. Planning decides where files
// should go; this package is the only place that mutates the filesystem, in
// either simulate or apply mode, and every outcome lands in the run's ledger.
package mover

// Action is the mutation a plan asks for.
type Action string

const (
	// ActionMove relocates an item into the library.
	ActionMove Action = "move"
	// ActionQuarantine parks a duplicate in a dated quarantine batch.
	ActionQuarantine Action = "quarantine"
	// ActionDelete removes a duplicate permanently (delete policy only).
	ActionDelete Action = "delete"
	// ActionReview routes an item to the review holding area.
	ActionReview Action = "review"
)

// Mode selects between rehearsing a run and performing it.
type Mode string

const (
	Simulate Mode = "simulate"
	Apply    Mode = "apply"
)

// Plan is one fully resolved relocation: a source, a collision-free
// destination, and the action to take. Destinations are absolute and unique
// within a run; only delete plans may omit one.
type Plan struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path,omitempty"`
	Action          Action `json:"action"`
	Reason          string `json:"reason,omitempty"`
}
