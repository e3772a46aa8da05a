package workflow

import (
	"context"
	"fmt"

	"github.com/solosoyfranco/LibrAIry/internal/dupes"
	"github.com/solosoyfranco/LibrAIry/internal/logging"
	"github.com/solosoyfranco/LibrAIry/internal/mover"
	"github.com/solosoyfranco/LibrAIry/internal/quarantine"
	"github.com/solosoyfranco/LibrAIry/internal/scope"
)

// DedupeOptions parameterizes one duplicate-handling run.
type DedupeOptions struct {
	// ReportPath names the duplicate report to ingest. A missing or
	// unreadable report is the run's one fatal input condition.
	ReportPath string
	Mode       mover.Mode
	// Progress, when set, receives completion ticks during execution.
	Progress func(completed, total int)
}

// Dedupe ingests a duplicate report, selects a keeper per group, and
// quarantines (or deletes, under that policy) the rest.
func (r *Runner) Dedupe(ctx context.Context, opts DedupeOptions) (*Result, error) {
	env, err := r.begin(ctx, "dedupe", opts.Mode)
	if err != nil {
		r.notifyError(ctx, "dedupe", err)
		return nil, err
	}
	defer env.close()

	records, err := dupes.LoadReport(opts.ReportPath)
	if err != nil {
		r.notifyError(env.ctx, "dedupe", err)
		return nil, err
	}

	groups := dupes.GroupRecords(records)
	env.logger.Info("duplicate report ingested",
		logging.Int("records", len(records)),
		logging.Int("groups", len(groups)),
	)

	plans := r.planDedupe(env, groups)
	if len(plans) > 0 {
		r.notifyStarted(env, len(plans))
	}

	exec := mover.New(opts.Mode,
		mover.WithScope(scope.NewFilter(r.cfg.ManagedRoots(), r.cfg.Dedupe.RestrictToManaged)),
		mover.WithAudit(env.audit),
		mover.WithLogger(env.logger),
		mover.WithProgress(opts.Progress),
	)
	if err := exec.Execute(env.ctx, plans, env.led); err != nil {
		return nil, err
	}

	return r.finish(env, len(plans))
}

// planDedupe resolves each group to a keeper plus removal plans. The keeper
// decision is recorded on the audit trail even when the group yields no
// removable candidate.
func (r *Runner) planDedupe(env *runEnv, groups []dupes.DuplicateGroup) []mover.Plan {
	batch := quarantine.NewBatch(r.cfg.Paths.QuarantineDir, env.startedAt, r.cfg.ManagedRoots())
	planner := quarantine.NewPlanner(batch, mover.NewNamer(), r.cfg.Dedupe.DeleteDuplicates)

	var plans []mover.Plan
	for _, group := range groups {
		keeper := dupes.SelectKeeper(group, r.cfg.LibraryRoots())
		env.audit.Keeper(keeper.Path)
		env.logger.Debug("keeper selected",
			logging.String("checksum", group.Checksum),
			logging.String("keeper", keeper.Path),
			logging.Int("duplicates", len(group.Members)-1),
		)

		candidates := dupes.RemovalCandidates(group, keeper)
		paths := make([]string, 0, len(candidates))
		for _, candidate := range candidates {
			paths = append(paths, candidate.Path)
		}
		reason := fmt.Sprintf("duplicate of %s", keeper.Path)
		plans = append(plans, planner.Plan(paths, reason)...)
	}
	return plans
}
