package workflow

import (
	"context"
	"fmt"

	"github.com/solosoyfranco/LibrAIry/internal/mover"
	"github.com/solosoyfranco/LibrAIry/internal/quarantine"
)

// PurgeOptions parameterizes one retention purge run.
type PurgeOptions struct {
	Mode mover.Mode
}

// Purge removes quarantine batches that have aged past the retention
// window. Simulate mode lists what would go; apply mode deletes it. With
// retention disabled the run reports nothing to do.
func (r *Runner) Purge(ctx context.Context, opts PurgeOptions) (*Result, error) {
	env, err := r.begin(ctx, "purge", opts.Mode)
	if err != nil {
		r.notifyError(ctx, "purge", err)
		return nil, err
	}
	defer env.close()

	retention := r.cfg.Purge.RetentionDays
	reason := fmt.Sprintf("aged past %d day retention", retention)
	root := r.cfg.Paths.QuarantineDir

	var batches []string
	if opts.Mode == mover.Apply {
		batches, err = quarantine.Purge(env.ctx, root, retention, env.startedAt, env.logger)
	} else {
		batches, err = quarantine.Expired(root, retention, env.startedAt)
	}
	if err != nil {
		r.notifyError(env.ctx, "purge", err)
		return nil, err
	}

	if len(batches) > 0 {
		r.notifyStarted(env, len(batches))
	}
	for _, batch := range batches {
		env.led.AddDeleted(batch, reason)
		env.audit.Delete(batch)
	}

	return r.finish(env, len(batches))
}
