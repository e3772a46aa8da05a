package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/solosoyfranco/LibrAIry/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" || exists {
		t.Fatalf("want a resolved path to a not-yet-written file, got %q (exists=%v)", resolved, exists)
	}

	if got, want := cfg.Paths.LibraryDir, filepath.Join(tempHome, "library"); got != want {
		t.Fatalf("unexpected library dir: got %q want %q", got, want)
	}
	wantQuarantine := filepath.Join(tempHome, ".local", "share", "librairy", "quarantine")
	if cfg.Paths.QuarantineDir != wantQuarantine {
		t.Fatalf("unexpected quarantine dir: %q", cfg.Paths.QuarantineDir)
	}
	if len(cfg.Paths.InboxDirs) != 1 || cfg.Paths.InboxDirs[0] != filepath.Join(tempHome, "inbox") {
		t.Fatalf("unexpected inbox dirs: %v", cfg.Paths.InboxDirs)
	}
	if !cfg.Dedupe.RestrictToManaged {
		t.Fatal("expected restrict_to_managed on by default")
	}
	if cfg.Dedupe.DeleteDuplicates {
		t.Fatal("expected delete_duplicates off by default")
	}
	if cfg.Organize.MinConfidence != 0.5 {
		t.Fatalf("unexpected min confidence: %v", cfg.Organize.MinConfidence)
	}
	if cfg.Purge.RetentionDays != 30 {
		t.Fatalf("unexpected retention days: %d", cfg.Purge.RetentionDays)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "librairy.toml")
	body := strings.Join([]string{
		`[paths]`,
		`inbox_dirs = ["~/downloads", "~/desktop-dump"]`,
		`library_dir = "~/shelf"`,
		`[dedupe]`,
		`restrict_to_managed = false`,
		`delete_duplicates = true`,
		`[organize]`,
		`min_confidence = 0.7`,
		`case_style = "lower"`,
		`[purge]`,
		`retention_days = 7`,
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if len(cfg.Paths.InboxDirs) != 2 {
		t.Fatalf("unexpected inbox dirs: %v", cfg.Paths.InboxDirs)
	}
	if cfg.Paths.InboxDirs[0] != filepath.Join(tempHome, "downloads") {
		t.Fatalf("expected tilde expansion, got %q", cfg.Paths.InboxDirs[0])
	}
	if cfg.Dedupe.RestrictToManaged {
		t.Fatal("expected restriction disabled from file")
	}
	if !cfg.Dedupe.DeleteDuplicates {
		t.Fatal("expected delete policy enabled from file")
	}
	if cfg.Organize.MinConfidence != 0.7 {
		t.Fatalf("unexpected min confidence: %v", cfg.Organize.MinConfidence)
	}
	if cfg.Organize.CaseStyle != "lower" {
		t.Fatalf("unexpected case style: %q", cfg.Organize.CaseStyle)
	}
	if cfg.Purge.RetentionDays != 7 {
		t.Fatalf("unexpected retention days: %d", cfg.Purge.RetentionDays)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "confidence out of range",
			body: "[organize]\nmin_confidence = 1.5\n",
			want: "min_confidence",
		},
		{
			name: "unknown case style",
			body: "[organize]\ncase_style = \"shouty\"\n",
			want: "case_style",
		},
		{
			name: "negative retention",
			body: "[purge]\nretention_days = -1\n",
			want: "retention_days",
		},
		{
			name: "inbox equals quarantine",
			body: "[paths]\ninbox_dirs = [\"~/q\"]\nquarantine_dir = \"~/q\"\n",
			want: "quarantine",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSampleConfigParsesAndMatchesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	samplePath := filepath.Join(tempHome, "sample.toml")
	if err := config.CreateSample(samplePath); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	raw, err := os.ReadFile(samplePath)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}

	defaults := config.Default()
	if cfg.Organize.MinConfidence != defaults.Organize.MinConfidence {
		t.Fatalf("sample min_confidence %v differs from default %v", cfg.Organize.MinConfidence, defaults.Organize.MinConfidence)
	}
	if cfg.Purge.RetentionDays != defaults.Purge.RetentionDays {
		t.Fatalf("sample retention_days %v differs from default %v", cfg.Purge.RetentionDays, defaults.Purge.RetentionDays)
	}
	if cfg.Dedupe.RestrictToManaged != defaults.Dedupe.RestrictToManaged {
		t.Fatal("sample restrict_to_managed differs from default")
	}

	loaded, _, exists, err := config.Load(samplePath)
	if err != nil {
		t.Fatalf("Load(sample) returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if loaded.Paths.LibraryDir != filepath.Join(tempHome, "library") {
		t.Fatalf("unexpected sample library dir: %q", loaded.Paths.LibraryDir)
	}
}

func TestEnsureDirectoriesCreatesRunDirs(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.QuarantineDir, cfg.Paths.ReviewDir, cfg.Paths.LogDir, cfg.Paths.DataDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
	if _, err := os.Stat(cfg.Paths.InboxDirs[0]); !os.IsNotExist(err) {
		t.Fatalf("inbox dir must not be auto-created, stat err=%v", err)
	}
}

func TestHelperAccessors(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	body := strings.Join([]string{
		`[paths]`,
		`inbox_dirs = ["~/inbox", " "]`,
		`[dedupe]`,
		`extra_library_roots = ["~/archive"]`,
	}, "\n")
	path := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	managed := cfg.ManagedRoots()
	if len(managed) != 1 || managed[0] != filepath.Join(tempHome, "inbox") {
		t.Fatalf("unexpected managed roots: %v", managed)
	}

	roots := cfg.LibraryRoots()
	if len(roots) != 2 {
		t.Fatalf("expected library dir plus one extra root, got %v", roots)
	}
	if roots[0] != cfg.Paths.LibraryDir {
		t.Fatalf("library dir must come first, got %v", roots)
	}

	if got := cfg.HistoryDBPath(); got != filepath.Join(cfg.Paths.DataDir, "history.db") {
		t.Fatalf("unexpected history path: %q", got)
	}
	if got := cfg.LockFilePath(); got != filepath.Join(cfg.Paths.DataDir, "librairy.lock") {
		t.Fatalf("unexpected lock path: %q", got)
	}
}
