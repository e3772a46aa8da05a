package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/solosoyfranco/LibrAIry/internal/config"
	"github.com/solosoyfranco/LibrAIry/internal/history"
	"github.com/solosoyfranco/LibrAIry/internal/ledger"
	"github.com/solosoyfranco/LibrAIry/internal/logging"
	"github.com/solosoyfranco/LibrAIry/internal/mover"
	"github.com/solosoyfranco/LibrAIry/internal/notifications"
	"github.com/solosoyfranco/LibrAIry/internal/preflight"
	"github.com/solosoyfranco/LibrAIry/internal/runlock"
	"github.com/solosoyfranco/LibrAIry/internal/services"
)

// Runner executes flows against one configuration. It is safe to reuse
// across runs; each run acquires the advisory lock for its mutating span.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *history.Store
	notifier notifications.Service
	clock    func() time.Time
	newRunID func() string
}

// Option configures optional Runner behavior.
type Option func(*Runner)

// WithNotifier substitutes the notification service (used in tests).
func WithNotifier(n notifications.Service) Option {
	return func(r *Runner) {
		if n != nil {
			r.notifier = n
		}
	}
}

// WithClock injects the time source. Runs stamp ledgers, audit lines, and
// quarantine batches from this clock, so tests get deterministic output.
func WithClock(clock func() time.Time) Option {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithRunIDSource injects the run identifier generator. Together with
// WithClock it makes two simulate runs over unchanged input byte-identical.
func WithRunIDSource(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newRunID = fn
		}
	}
}

// NewRunner builds a runner. store may be nil, in which case runs are not
// persisted to history.
func NewRunner(cfg *config.Config, store *history.Store, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		notifier: notifications.NewService(cfg),
		clock:    time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is the outcome of one run.
type Result struct {
	RunID     string
	Flow      string
	Mode      mover.Mode
	Status    Status
	Ledger    *ledger.Ledger
	Duration  time.Duration
	HistoryID int64
}

// runEnv carries the per-run state the flows share.
type runEnv struct {
	ctx       context.Context
	flow      string
	mode      mover.Mode
	runID     string
	startedAt time.Time
	logger    *slog.Logger
	led       *ledger.Ledger
	audit     *ledger.Log
	lock      *runlock.Lock
}

func (env *runEnv) close() {
	if env.audit != nil {
		_ = env.audit.Close()
	}
	if env.lock != nil {
		_ = env.lock.Release()
	}
}

// begin establishes run identity, takes the lock, and gates apply runs on
// preflight. The caller must defer env.close() on success.
func (r *Runner) begin(ctx context.Context, flow string, mode mover.Mode) (*runEnv, error) {
	runID := r.newRunID()
	startedAt := r.clock().UTC()

	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithFlow(ctx, flow)
	ctx = services.WithMode(ctx, string(mode))
	logger := logging.WithContext(ctx, r.logger)

	lock := runlock.New(r.cfg.LockFilePath())
	if err := lock.Acquire(); err != nil {
		return nil, err
	}

	if mode == mover.Apply {
		if err := r.cfg.EnsureDirectories(); err != nil {
			lock.Release()
			return nil, services.Wrap(services.ErrConfiguration, flow, "prepare directories", "", err)
		}
		results := preflight.RunAll(ctx, r.cfg)
		if !preflight.AllPassed(results) {
			lock.Release()
			return nil, services.Wrap(services.ErrConfiguration, flow, "preflight", failedChecks(results), nil)
		}
	}

	audit := ledger.Discard()
	if mode == mover.Apply {
		opened, err := ledger.Open(r.cfg.Paths.LogDir, r.clock)
		if err != nil {
			lock.Release()
			return nil, services.Wrap(services.ErrConfiguration, flow, "open audit log", "", err)
		}
		audit = opened
	}

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
	)

	return &runEnv{
		ctx:       ctx,
		flow:      flow,
		mode:      mode,
		runID:     runID,
		startedAt: startedAt,
		logger:    logger,
		led:       ledger.New(runID, flow, string(mode), startedAt),
		audit:     audit,
		lock:      lock,
	}, nil
}

// finish derives the status, persists the run, and publishes the completion
// notifications. History and notification failures degrade to log lines;
// the run's outcome is already settled by this point.
func (r *Runner) finish(env *runEnv, planned int) (*Result, error) {
	counts := env.led.Counts()
	status := statusFor(env.led, planned)
	duration := r.clock().Sub(env.startedAt)

	env.logger.Info("run complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("status", string(status)),
		logging.Int("moved", counts.Moved),
		logging.Int("quarantined", counts.Quarantined),
		logging.Int("deleted", counts.Deleted),
		logging.Int("skipped", counts.Skipped),
		logging.Int("failed", counts.Failed),
		logging.Int("flagged_for_review", counts.Reviewed),
		logging.Duration("duration", duration),
	)

	result := &Result{
		RunID:    env.runID,
		Flow:     env.flow,
		Mode:     env.mode,
		Status:   status,
		Ledger:   env.led,
		Duration: duration,
	}

	if r.store != nil {
		id, err := r.store.RecordRun(env.ctx, env.led, r.clock())
		if err != nil {
			env.logger.Warn("history record failed; run outcome unaffected",
				logging.Error(err),
				logging.String(logging.FieldEventType, "history_record_failed"),
				logging.String(logging.FieldErrorHint, "check data_dir permissions and disk space"),
			)
		} else {
			result.HistoryID = id
		}
	}

	r.notifyCompleted(env, counts, duration)
	if counts.Reviewed > 0 {
		r.publish(env, notifications.EventReviewNeeded, notifications.Payload{
			"count": strconv.Itoa(counts.Reviewed),
			"dir":   r.cfg.Paths.ReviewDir,
		})
	}

	if env.mode == mover.Apply {
		logging.CleanupOldLogs(env.logger, r.cfg.Logging.RetentionDays,
			logging.RetentionTarget{Dir: r.cfg.Paths.LogDir, Pattern: "audit-*.log"},
		)
	}

	return result, nil
}

func (r *Runner) notifyStarted(env *runEnv, items int) {
	r.publish(env, notifications.EventRunStarted, notifications.Payload{
		"flow":  env.flow,
		"items": strconv.Itoa(items),
	})
}

func (r *Runner) notifyCompleted(env *runEnv, counts ledger.Summary, duration time.Duration) {
	r.publish(env, notifications.EventRunCompleted, notifications.Payload{
		"flow":     env.flow,
		"summary":  summarizeCounts(counts),
		"failed":   strconv.Itoa(counts.Failed),
		"duration": duration.Round(time.Second).String(),
	})
}

// notifyError reports a run that never reached completion. ctx may predate
// begin, so the flow name is passed explicitly.
func (r *Runner) notifyError(ctx context.Context, flow string, runErr error) {
	if r.notifier == nil || runErr == nil {
		return
	}
	if err := r.notifier.Publish(ctx, notifications.EventError, notifications.Payload{
		"context": flow,
		"error":   runErr.Error(),
	}); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Debug("error notification failed", logging.Error(err))
	}
}

func (r *Runner) publish(env *runEnv, event notifications.Event, payload notifications.Payload) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Publish(env.ctx, event, payload); err != nil {
		if errors.Is(err, context.Canceled) {
			env.logger.Debug("shutting down, notification not sent", logging.String("event", string(event)))
			return
		}
		env.logger.Debug("notification failed", logging.String("event", string(event)), logging.Error(err))
	}
}

// summarizeCounts renders the nonzero ledger categories in a stable order
// for the completion notification.
func summarizeCounts(counts ledger.Summary) string {
	parts := make([]string, 0, 6)
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	add(counts.Moved, "moved")
	add(counts.Quarantined, "quarantined")
	add(counts.Deleted, "deleted")
	add(counts.Reviewed, "flagged for review")
	add(counts.Skipped, "skipped")
	add(counts.Failed, "failed")
	return strings.Join(parts, ", ")
}

func failedChecks(results []preflight.Result) string {
	names := make([]string, 0, len(results))
	for _, result := range results {
		if result.Passed || result.Optional {
			continue
		}
		names = append(names, fmt.Sprintf("%s (%s)", result.Name, result.Detail))
	}
	if len(names) == 0 {
		return "preflight failed"
	}
	return strings.Join(names, "; ")
}
