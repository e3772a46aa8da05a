package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/solosoyfranco/LibrAIry/internal/config"
)

// ConfigOption mutates the generated test configuration before its
// directories are created.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig returns a config rooted in a fresh temp directory, with every
// path section pointed at its own subdirectory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	sub := func(name string) string { return filepath.Join(base, name) }

	cfgVal := config.Default()
	cfgVal.Paths.InboxDirs = []string{sub("inbox")}
	cfgVal.Paths.LibraryDir = sub("library")
	cfgVal.Paths.QuarantineDir = sub("quarantine")
	cfgVal.Paths.ReviewDir = sub("review")
	cfgVal.Paths.LogDir = sub("logs")
	cfgVal.Paths.DataDir = sub("data")

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithInboxDirs replaces the inbox roots on the test config.
func WithInboxDirs(dirs ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.InboxDirs = dirs
	}
}

// WithExtraInbox appends another inbox root under the test base directory
// and returns its path through the config.
func WithExtraInbox(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.InboxDirs = append(b.cfg.Paths.InboxDirs, filepath.Join(b.baseDir, name))
	}
}

// WithDeleteDuplicates switches the duplicate flow from quarantine to
// outright deletion.
func WithDeleteDuplicates() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dedupe.DeleteDuplicates = true
	}
}

// WithRetentionDays overrides the quarantine retention window.
func WithRetentionDays(days int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Purge.RetentionDays = days
	}
}

// WithMinConfidence overrides the organize confidence threshold.
func WithMinConfidence(v float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.MinConfidence = v
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
