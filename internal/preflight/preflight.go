package preflight

import (
	"context"

	"github.com/solosoyfranco/LibrAIry/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Optional checks report status without blocking a run; a missing
	// classifier endpoint degrades to the rule engine instead of failing.
	Optional bool
	Detail   string
}

// RunAll executes the preflight checks for the given config: every directory
// a run reads or writes, the free-space floor on the library volume, and the
// classifier endpoint when one is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	for _, dir := range cfg.ManagedRoots() {
		results = append(results, CheckDirectoryAccess("Inbox directory", dir))
	}
	if cfg.Paths.LibraryDir != "" {
		results = append(results, CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir))
	}
	results = append(results, CheckDirectoryAccess("Quarantine directory", cfg.Paths.QuarantineDir))
	results = append(results, CheckDirectoryAccess("Review directory", cfg.Paths.ReviewDir))
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))

	if cfg.Workflow.MinFreeGiB > 0 && cfg.Paths.LibraryDir != "" {
		results = append(results, CheckFreeSpace("Library free space", cfg.Paths.LibraryDir, cfg.Workflow.MinFreeGiB))
	}

	if llmCfg := cfg.GetLLM(); llmCfg.APIKey != "" && llmCfg.Model != "" {
		results = append(results, CheckLLM(ctx, "Classifier LLM", llmCfg))
	}

	return results
}

// AllPassed reports whether every non-optional check passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed && !result.Optional {
			return false
		}
	}
	return true
}
