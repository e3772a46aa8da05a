// Package quarantine parks removed duplicates in dated batch directories so
// a run destroys nothing by default: every removal is a reversible move
// until the batch ages out of the retention window.
package quarantine

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/solosoyfranco/LibrAIry/internal/mover"
	"github.com/solosoyfranco/LibrAIry/internal/scope"
)

const batchLayout = "2006-01-02"

// Batch computes destinations inside one day's quarantine directory. The
// original path relative to its managed root is mirrored under the batch,
// so a quarantined file can be restored by reversing the move.
type Batch struct {
	dir   string
	roots []string
}

// NewBatch names the batch directory after now's UTC date under root.
func NewBatch(root string, now time.Time, managedRoots []string) *Batch {
	return &Batch{
		dir:   filepath.Join(root, now.UTC().Format(batchLayout)),
		roots: managedRoots,
	}
}

// Dir returns the dated batch directory.
func (b *Batch) Dir() string { return b.dir }

// DestinationFor mirrors path's location relative to its managed root under
// the batch directory. Paths outside every root keep only their base name.
func (b *Batch) DestinationFor(path string) string {
	if root, ok := b.containingRoot(path); ok {
		if rel, err := filepath.Rel(root, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			return filepath.Join(b.dir, rel)
		}
	}
	return filepath.Join(b.dir, filepath.Base(path))
}

// containingRoot picks the most specific managed root holding path, so
// nested roots mirror the shortest relative path.
func (b *Batch) containingRoot(path string) (string, bool) {
	best := ""
	for _, root := range b.roots {
		if scope.WithinRoot(path, root) && len(root) > len(best) {
			best = root
		}
	}
	return best, best != ""
}

// Planner turns removal candidates into quarantine plans, or delete plans
// under the delete-instead-of-quarantine policy.
type Planner struct {
	batch         *Batch
	namer         *mover.Namer
	deleteInstead bool
}

// NewPlanner builds a planner over batch. Pass the run's shared namer so
// quarantine destinations never collide with other flows in the same run.
func NewPlanner(batch *Batch, namer *mover.Namer, deleteInstead bool) *Planner {
	if namer == nil {
		namer = mover.NewNamer()
	}
	return &Planner{batch: batch, namer: namer, deleteInstead: deleteInstead}
}

// Plan computes one plan per candidate, in order. The reason is carried onto
// every plan so the ledger can answer "removed in favor of what".
func (p *Planner) Plan(candidates []string, reason string) []mover.Plan {
	plans := make([]mover.Plan, 0, len(candidates))
	for _, src := range candidates {
		if p.deleteInstead {
			plans = append(plans, mover.Plan{SourcePath: src, Action: mover.ActionDelete, Reason: reason})
			continue
		}
		dest, ok := p.namer.Reserve(p.batch.DestinationFor(src))
		if !ok {
			plans = append(plans, mover.Plan{SourcePath: src, Action: mover.ActionReview, Reason: "no free destination name"})
			continue
		}
		plans = append(plans, mover.Plan{SourcePath: src, DestinationPath: dest, Action: mover.ActionQuarantine, Reason: reason})
	}
	return plans
}
