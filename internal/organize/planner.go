// Package organize turns classification records into relocation plans. The
// planner owns path normalization, rename resolution, and collision-safe
// destination naming; it never touches the filesystem beyond read-only
// existence checks.
package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"github.com/solosoyfranco/LibrAIry/internal/classify"
	"github.com/solosoyfranco/LibrAIry/internal/logging"
	"github.com/solosoyfranco/LibrAIry/internal/mover"
	"github.com/solosoyfranco/LibrAIry/internal/scope"
	"github.com/solosoyfranco/LibrAIry/internal/textutil"
)

// Options carries the planner's configuration.
type Options struct {
	LibraryDir    string
	ReviewDir     string
	DefaultBucket string
	CaseStyle     textutil.CaseStyle
	MinConfidence float64
}

// Planner computes plans for one run. It shares a Namer across records so
// destinations stay unique run-wide.
type Planner struct {
	opts   Options
	namer  *mover.Namer
	logger *slog.Logger
}

// NewPlanner builds a planner. A nil namer gets a fresh one; use a shared
// namer when several planners contribute to the same run.
func NewPlanner(opts Options, namer *mover.Namer, logger *slog.Logger) *Planner {
	if strings.TrimSpace(opts.DefaultBucket) == "" {
		opts.DefaultBucket = "other"
	}
	if namer == nil {
		namer = mover.NewNamer()
	}
	if logger == nil {
		logger = logging.NewNop()
	} else {
		logger = logger.With(logging.String(logging.FieldComponent, "organize"))
	}
	return &Planner{opts: opts, namer: namer, logger: logger}
}

// Plan computes the relocation plans for one record. Low-confidence and
// corrupted records skip per-file planning entirely and route the whole item
// to review.
func (p *Planner) Plan(rec classify.Record) []mover.Plan {
	if rec.Confidence < p.opts.MinConfidence {
		reason := fmt.Sprintf("confidence %.2f below threshold %.2f", rec.Confidence, p.opts.MinConfidence)
		p.logger.Info("routing item to review",
			logging.String("source", rec.SourcePath),
			logging.String("reason", reason))
		return p.wholesaleReview(rec, reason)
	}
	if textutil.IsCorruptedName(rec.SuggestedName) {
		p.logger.Info("routing item to review",
			logging.String("source", rec.SourcePath),
			logging.String("reason", "corrupted suggested name"),
			logging.String("suggested_name", rec.SuggestedName))
		return p.wholesaleReview(rec, "corrupted suggested name")
	}

	dir, presetName := p.resolveBase(rec)
	if rec.BundleType == classify.Single {
		return p.planSingle(rec, dir, presetName)
	}
	return p.planBundle(rec, dir)
}

// resolveBase normalizes the recommended path into an absolute library
// directory and, for single files, splits off a trailing segment that looks
// like a filename. Classifiers are known to return "docs/notes.txt" where
// "docs" was meant; the split recovers the intended directory and name.
func (p *Planner) resolveBase(rec classify.Record) (string, string) {
	dir := p.normalizeRecommended(rec.RecommendedPath)
	if rec.BundleType == classify.Single {
		if last := filepath.Base(dir); textutil.LooksLikeFileName(last) {
			return filepath.Dir(dir), last
		}
	}
	return dir, ""
}

func (p *Planner) normalizeRecommended(recommended string) string {
	switch {
	case recommended == "":
		return filepath.Join(p.opts.LibraryDir, p.opts.DefaultBucket)
	case strings.HasPrefix(recommended, "/"):
		abs := filepath.Clean(recommended)
		if scope.WithinRoot(abs, p.opts.LibraryDir) {
			return abs
		}
		p.logger.Warn("recommended path escapes the library, using default bucket",
			logging.String("recommended_path", recommended))
		return filepath.Join(p.opts.LibraryDir, p.opts.DefaultBucket)
	default:
		return filepath.Join(p.opts.LibraryDir, filepath.FromSlash(recommended))
	}
}

func (p *Planner) planSingle(rec classify.Record, dir, presetName string) []mover.Plan {
	entry := classify.FileEntry{OriginalName: filepath.Base(rec.SourcePath)}
	if len(rec.Files) > 0 {
		entry = rec.Files[0]
	}
	name := p.finalName(presetName, entry)
	dest, ok := p.namer.Reserve(filepath.Join(dir, name))
	if !ok {
		return p.wholesaleReview(rec, "no free destination name")
	}
	p.logger.Debug("planned move",
		logging.String("from", rec.SourcePath),
		logging.String("to", dest))
	return []mover.Plan{{SourcePath: rec.SourcePath, DestinationPath: dest, Action: mover.ActionMove}}
}

func (p *Planner) planBundle(rec classify.Record, dir string) []mover.Plan {
	bundleDir := filepath.Join(dir, p.bundleFolderName(rec))

	plans := make([]mover.Plan, 0, len(rec.Files))
	for _, entry := range rec.Files {
		if nested, isDir := strings.CutSuffix(entry.OriginalName, "/"); isDir {
			plans = append(plans, p.planNestedDir(rec.SourcePath, bundleDir, nested)...)
			continue
		}
		src := filepath.Join(rec.SourcePath, entry.OriginalName)
		if _, err := os.Lstat(src); err != nil {
			p.logger.Warn("listed file not found in bundle",
				logging.String("bundle", rec.SourcePath),
				logging.String("file", entry.OriginalName))
			plans = append(plans, mover.Plan{SourcePath: src, Action: mover.ActionReview, Reason: "listed file not found"})
			continue
		}

		targetDir := bundleDir
		if rec.Subfolder.Enabled {
			targetDir = filepath.Join(bundleDir, p.subfolderFor(entry.Category, rec.Subfolder.Mapping))
		}
		name := p.finalName("", entry)
		dest, ok := p.namer.Reserve(filepath.Join(targetDir, name))
		if !ok {
			plans = append(plans, p.fileReview(src, entry.OriginalName, "no free destination name"))
			continue
		}
		p.logger.Debug("planned move",
			logging.String("from", src),
			logging.String("to", dest))
		plans = append(plans, mover.Plan{SourcePath: src, DestinationPath: dest, Action: mover.ActionMove})
	}
	return plans
}

// planNestedDir moves a bundle's nested directory as one unit. Its contents
// were never listed individually, so splitting it would lose structure.
func (p *Planner) planNestedDir(sourceRoot, bundleDir, name string) []mover.Plan {
	src := filepath.Join(sourceRoot, name)
	if _, err := os.Lstat(src); err != nil {
		return []mover.Plan{{SourcePath: src, Action: mover.ActionReview, Reason: "listed file not found"}}
	}
	cleaned := textutil.SanitizeName(name, p.opts.CaseStyle)
	if cleaned == "" {
		cleaned = textutil.SanitizeToken(name)
	}
	dest, ok := p.namer.Reserve(filepath.Join(bundleDir, cleaned))
	if !ok {
		return []mover.Plan{p.fileReview(src, name, "no free destination name")}
	}
	return []mover.Plan{{SourcePath: src, DestinationPath: dest, Action: mover.ActionMove}}
}

func (p *Planner) bundleFolderName(rec classify.Record) string {
	if name := textutil.SanitizeName(rec.SuggestedName, p.opts.CaseStyle); name != "" {
		return name
	}
	base := filepath.Base(rec.SourcePath)
	if name := textutil.SanitizeName(base, p.opts.CaseStyle); name != "" {
		return name
	}
	return textutil.SanitizeToken(base)
}

func (p *Planner) subfolderFor(category string, mapping map[string]string) string {
	if sub := textutil.SanitizeName(mapping[category], p.opts.CaseStyle); sub != "" {
		return sub
	}
	return p.opts.DefaultBucket
}

// finalName resolves the destination filename: the pre-split name from the
// recommended path wins, then the classifier's rename, then the original
// name. The source extension is preserved whenever the chosen name lacks a
// plausible one.
func (p *Planner) finalName(preset string, entry classify.FileEntry) string {
	original := textutil.SanitizeName(entry.OriginalName, p.opts.CaseStyle)
	if original == "" {
		original = textutil.SanitizeToken(entry.OriginalName)
	}
	if preset != "" {
		if name := textutil.SanitizeName(preset, p.opts.CaseStyle); name != "" {
			return ensureExt(name, original)
		}
	}
	if entry.RenameTo != "" {
		if name := textutil.SanitizeName(entry.RenameTo, p.opts.CaseStyle); name != "" {
			return ensureExt(name, original)
		}
	}
	return original
}

// ensureExt appends original's extension when name has no plausible one.
func ensureExt(name, original string) string {
	if textutil.LooksLikeFileName(name) {
		return name
	}
	if ext := filepath.Ext(original); ext != "" && textutil.LooksLikeFileName(original) {
		return name + ext
	}
	return name
}

// wholesaleReview plans a single move of the entire source item into the
// review holding area.
func (p *Planner) wholesaleReview(rec classify.Record, reason string) []mover.Plan {
	return []mover.Plan{p.fileReview(rec.SourcePath, filepath.Base(rec.SourcePath), reason)}
}

func (p *Planner) fileReview(src, base, reason string) mover.Plan {
	dest, ok := p.namer.Reserve(filepath.Join(p.opts.ReviewDir, base))
	if !ok {
		// No free name even in review; the executor flags the item in place.
		return mover.Plan{SourcePath: src, Action: mover.ActionReview, Reason: reason}
	}
	return mover.Plan{SourcePath: src, DestinationPath: dest, Action: mover.ActionReview, Reason: reason}
}
