package mover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"log/slog"

	"github.com/solosoyfranco/LibrAIry/internal/fileutil"
	"github.com/solosoyfranco/LibrAIry/internal/ledger"
	"github.com/solosoyfranco/LibrAIry/internal/logging"
	"github.com/solosoyfranco/LibrAIry/internal/scope"
)

// Executor runs plans sequentially. One failed plan never aborts the batch;
// it becomes a failed ledger entry and the next plan runs. Cancellation is
// honored between plans, so an interrupted run still leaves a valid ledger
// of what completed.
type Executor struct {
	mode     Mode
	filter   *scope.Filter
	audit    *ledger.Log
	logger   *slog.Logger
	progress func(completed, total int)
}

// Option customizes the executor.
type Option func(*Executor)

// WithScope guards every plan's source against the managed-root filter.
// Sources outside the managed roots are skipped, never mutated.
func WithScope(filter *scope.Filter) Option {
	return func(e *Executor) { e.filter = filter }
}

// WithAudit routes decision lines to the given audit log.
func WithAudit(audit *ledger.Log) Option {
	return func(e *Executor) {
		if audit != nil {
			e.audit = audit
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger.With(logging.String(logging.FieldComponent, "mover"))
		}
	}
}

// WithProgress reports completion after each plan (completed out of total).
func WithProgress(fn func(completed, total int)) Option {
	return func(e *Executor) { e.progress = fn }
}

// New builds an executor for the given mode.
func New(mode Mode, opts ...Option) *Executor {
	e := &Executor{
		mode:   mode,
		audit:  ledger.Discard(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs every plan, appending outcomes to led. The only returned
// error is context cancellation; everything else is recorded per item.
func (e *Executor) Execute(ctx context.Context, plans []Plan, led *ledger.Ledger) error {
	for i, plan := range plans {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.run(plan, led)
		if e.progress != nil {
			e.progress(i+1, len(plans))
		}
	}
	return nil
}

func (e *Executor) run(plan Plan, led *ledger.Ledger) {
	src := plan.SourcePath

	if e.filter != nil && !e.filter.Allows(src) {
		led.AddSkipped(src, "protected path")
		e.audit.SkipProtected(src)
		e.logger.Info("skipping protected path", logging.String("path", src))
		return
	}

	if _, err := os.Lstat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			reason := plan.Reason
			if reason == "" {
				reason = "source missing"
			}
			led.AddSkipped(src, reason)
			e.audit.SkipMissing(src)
			return
		}
		led.AddFailed(src, plan.DestinationPath, fmt.Sprintf("stat source: %v", err))
		e.logger.Warn("cannot stat source", logging.String("path", src), logging.Error(err))
		return
	}

	switch plan.Action {
	case ActionDelete:
		if e.mode == Apply {
			if err := os.Remove(src); err != nil {
				led.AddFailed(src, "", fmt.Sprintf("delete: %v", err))
				e.logger.Warn("delete failed", logging.String("path", src), logging.Error(err))
				return
			}
		}
		led.AddDeleted(src, plan.Reason)
		e.audit.Delete(src)

	case ActionMove, ActionQuarantine, ActionReview:
		dst := plan.DestinationPath
		if dst == "" {
			// A destination-less review plan means the planner ran out of
			// free names. The file stays put and is flagged, not failed.
			if plan.Action == ActionReview {
				reason := plan.Reason
				if reason == "" {
					reason = "needs manual review"
				}
				led.AddReviewed(src, "", reason)
				e.audit.ReviewInPlace(src, reason)
				return
			}
			led.AddFailed(src, "", "plan has no destination")
			return
		}
		if e.mode == Apply {
			if err := e.moveOne(src, dst); err != nil {
				led.AddFailed(src, dst, err.Error())
				e.logger.Warn("move failed",
					logging.String("from", src),
					logging.String("to", dst),
					logging.Error(err))
				return
			}
		}
		switch plan.Action {
		case ActionMove:
			led.AddMoved(src, dst, plan.Reason)
			e.audit.Move(src, dst)
		case ActionQuarantine:
			led.AddQuarantined(src, dst, plan.Reason)
			e.audit.Quarantine(src, dst)
		case ActionReview:
			led.AddReviewed(src, dst, plan.Reason)
			e.audit.Review(src, dst, plan.Reason)
		}

	default:
		led.AddFailed(src, plan.DestinationPath, fmt.Sprintf("unknown action %q", plan.Action))
	}
}

// moveOne refuses to overwrite: rename(2) would silently replace an existing
// destination, and planned destinations are supposed to be free. An occupied
// destination means another process raced us, which is a per-file failure.
func (e *Executor) moveOne(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("destination already exists: %s", dst)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat destination: %w", err)
	}
	return fileutil.MovePath(src, dst)
}
