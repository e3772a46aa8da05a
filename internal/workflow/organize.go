package workflow

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"log/slog"

	"github.com/solosoyfranco/LibrAIry/internal/classify"
	"github.com/solosoyfranco/LibrAIry/internal/logging"
	"github.com/solosoyfranco/LibrAIry/internal/mover"
	"github.com/solosoyfranco/LibrAIry/internal/organize"
	"github.com/solosoyfranco/LibrAIry/internal/scope"
	"github.com/solosoyfranco/LibrAIry/internal/services"
	"github.com/solosoyfranco/LibrAIry/internal/services/llm"
	"github.com/solosoyfranco/LibrAIry/internal/textutil"
)

// OrganizeOptions parameterizes one classification-driven move run.
type OrganizeOptions struct {
	Mode mover.Mode
	// RecordsPath optionally names a pre-produced classification records
	// file. Items it covers skip live classification; items it misses fall
	// through to the classifier.
	RecordsPath string
	// Progress, when set, receives completion ticks during execution.
	Progress func(completed, total int)
}

// Organize classifies inbox items and relocates them into the library,
// routing low-confidence and unresolvable items to review.
func (r *Runner) Organize(ctx context.Context, opts OrganizeOptions) (*Result, error) {
	env, err := r.begin(ctx, "organize", opts.Mode)
	if err != nil {
		r.notifyError(ctx, "organize", err)
		return nil, err
	}
	defer env.close()

	items := r.inboxItems(env.logger)
	if len(items) == 0 {
		return r.finish(env, 0)
	}

	prepared := map[string]string{}
	if opts.RecordsPath != "" {
		prepared, err = classify.LoadPrepared(opts.RecordsPath)
		if err != nil {
			r.notifyError(env.ctx, "organize", err)
			return nil, err
		}
	}

	classifier := r.newClassifier(env.logger)
	planner := organize.NewPlanner(organize.Options{
		LibraryDir:    r.cfg.Paths.LibraryDir,
		ReviewDir:     r.cfg.Paths.ReviewDir,
		DefaultBucket: r.cfg.Organize.DefaultBucket,
		CaseStyle:     textutil.CaseStyle(r.cfg.Organize.CaseStyle),
		MinConfidence: r.cfg.Organize.MinConfidence,
	}, mover.NewNamer(), env.logger)

	var plans []mover.Plan
	var bundleSources []string
	for _, item := range items {
		itemCtx := services.WithItem(env.ctx, item)
		itemLogger := logging.WithContext(itemCtx, env.logger)

		src, err := classify.ScanSource(item)
		if err != nil {
			env.led.AddSkipped(item, "item vanished before classification")
			env.audit.Skip(item, "vanished before classification")
			itemLogger.Warn("inbox item disappeared before classification", logging.Error(err))
			continue
		}

		rec, fromFile := r.recordFor(itemCtx, classifier, prepared, src, itemLogger)
		if src.IsDir {
			bundleSources = append(bundleSources, item)
		}
		itemLogger.Debug("item classified",
			logging.Bool("prepared_record", fromFile),
			logging.String("recommended_path", rec.RecommendedPath),
			logging.Float64("confidence", rec.Confidence),
		)
		plans = append(plans, planner.Plan(rec)...)
	}

	if len(plans) > 0 {
		r.notifyStarted(env, len(items))
	}

	exec := mover.New(opts.Mode,
		mover.WithScope(scope.NewFilter(r.cfg.ManagedRoots(), true)),
		mover.WithAudit(env.audit),
		mover.WithLogger(env.logger),
		mover.WithProgress(opts.Progress),
	)
	if err := exec.Execute(env.ctx, plans, env.led); err != nil {
		return nil, err
	}

	if opts.Mode == mover.Apply {
		r.removeEmptiedBundles(bundleSources, env.logger)
	}

	return r.finish(env, len(plans))
}

// inboxItems lists the top-level entries of every inbox root, skipping
// dotfiles. Order is deterministic across runs: roots in config order, items
// sorted within each root.
func (r *Runner) inboxItems(logger *slog.Logger) []string {
	var items []string
	for _, root := range r.cfg.ManagedRoots() {
		entries, err := os.ReadDir(root)
		if err != nil {
			logger.Warn("cannot list inbox; skipping root",
				logging.String("path", root),
				logging.Error(err),
			)
			continue
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			names = append(names, entry.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			items = append(items, filepath.Join(root, name))
		}
	}
	return items
}

// recordFor prefers the prepared record for the item and falls back to the
// classifier. A prepared payload that fails to adapt is classified live
// instead, so one bad record degrades rather than failing the item.
func (r *Runner) recordFor(ctx context.Context, classifier *classify.Classifier, prepared map[string]string, src classify.Source, logger *slog.Logger) (classify.Record, bool) {
	if payload, ok := prepared[src.Path]; ok {
		rec, err := classify.ParseRecord(payload, src)
		if err == nil {
			return rec, true
		}
		logger.Warn("prepared record unusable, classifying live", logging.Error(err))
	}
	return classifier.Classify(ctx, src), false
}

// newClassifier wires the LLM completer when one is configured; otherwise
// the rule engine carries the whole load.
func (r *Runner) newClassifier(logger *slog.Logger) *classify.Classifier {
	libraryFolders := classify.LibraryFolders(r.cfg.LibraryRoots())
	rules := classify.NewRuleset(r.cfg.Organize.DefaultBucket, libraryFolders)

	var completer classify.Completer
	llmCfg := r.cfg.GetLLM()
	client := llm.NewClient(llm.Config{
		APIKey:         llmCfg.APIKey,
		BaseURL:        llmCfg.BaseURL,
		Model:          llmCfg.Model,
		Referer:        llmCfg.Referer,
		Title:          llmCfg.Title,
		TimeoutSeconds: llmCfg.TimeoutSeconds,
	})
	if client.Configured() {
		completer = client
	}
	return classify.New(completer, rules, libraryFolders, logger)
}

// removeEmptiedBundles clears bundle source directories whose contents all
// moved. os.Remove refuses non-empty directories, so partially moved
// bundles stay behind with whatever the run could not relocate.
func (r *Runner) removeEmptiedBundles(sources []string, logger *slog.Logger) {
	for _, dir := range sources {
		if err := os.Remove(dir); err == nil {
			logger.Debug("removed emptied bundle directory", logging.String("path", dir))
		}
	}
}
