package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	InboxDirs     []string `toml:"inbox_dirs"`
	LibraryDir    string   `toml:"library_dir"`
	QuarantineDir string   `toml:"quarantine_dir"`
	ReviewDir     string   `toml:"review_dir"`
	LogDir        string   `toml:"log_dir"`
	DataDir       string   `toml:"data_dir"`
}

// Dedupe contains configuration for the duplicate handling flow.
type Dedupe struct {
	// RestrictToManaged keeps the duplicate flow from touching files outside
	// the inbox roots. Disabling it is an explicit opt-in to mutate anywhere.
	RestrictToManaged bool `toml:"restrict_to_managed"`
	// DeleteDuplicates removes duplicates outright instead of quarantining.
	DeleteDuplicates bool `toml:"delete_duplicates"`
	// ExtraLibraryRoots lists directories beyond library_dir whose members
	// win keeper selection.
	ExtraLibraryRoots []string `toml:"extra_library_roots"`
}

// Organize contains configuration for the classification-driven move flow.
type Organize struct {
	// MinConfidence routes whole records below this classifier confidence to
	// the review directory instead of the library.
	MinConfidence float64 `toml:"min_confidence"`
	// CaseStyle selects the filename case policy: keep, lower, or title.
	CaseStyle string `toml:"case_style"`
	// DefaultBucket receives files whose category has no subfolder mapping.
	DefaultBucket string `toml:"default_bucket"`
}

// Purge contains configuration for quarantine retention.
type Purge struct {
	// RetentionDays controls how long quarantine batches survive. Zero
	// disables purging entirely.
	RetentionDays int `toml:"retention_days"`
}

// LLM contains connection settings for the classification endpoint.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Notifications configures optional push delivery through ntfy.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Runs           bool   `toml:"runs"`
	Review         bool   `toml:"review"`
	Errors         bool   `toml:"errors"`
}

// Workflow contains run-level tuning.
type Workflow struct {
	// WatchSettleSeconds is how long the inbox watcher waits after the last
	// file event before starting a run.
	WatchSettleSeconds int `toml:"watch_settle_seconds"`
	// MinFreeGiB is the free-space floor preflight requires on the library
	// volume before an apply run.
	MinFreeGiB int `toml:"min_free_gib"`
}

// Logging selects output format, verbosity, and file retention.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for LibrAIry, one section
// per subsystem:
//   - Paths: inbox roots plus library, quarantine, review, log, and data dirs
//   - Dedupe: protection switch, delete-vs-quarantine policy, keeper roots
//   - Organize: confidence floor, filename case policy, default subfolder
//   - Purge: quarantine batch retention
//   - LLM: classification endpoint connection settings
//   - Notifications: ntfy topics and event toggles
//   - Workflow: watcher debounce and preflight free-space floor
//   - Logging: output format, level, and retention window
type Config struct {
	Paths         Paths         `toml:"paths"`
	Dedupe        Dedupe        `toml:"dedupe"`
	Organize      Organize      `toml:"organize"`
	Purge         Purge         `toml:"purge"`
	LLM           LLM           `toml:"llm"`
	Notifications Notifications `toml:"notifications"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath is where Load looks when no explicit path is given.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/librairy/config.toml")
}

// Load reads the config file at path, falling back to the default location
// when path is empty. Values are validated and every path field comes back
// expanded and absolute.
func Load(path string) (*Config, string, bool, error) {
	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		raw, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// resolveConfigPath picks the config file: an explicit path wins, otherwise
// the default location, then a librairy.toml in the working directory.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("librairy.toml")
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{defaultPath, projectPath} {
		if regularFile(candidate) {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

func regularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureDirectories creates the directories a run writes into. LibraryDir is
// created on a best-effort basis so configuration still loads when external
// storage is temporarily unavailable. Inbox roots are never created here;
// their absence is a preflight concern.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.QuarantineDir, c.Paths.ReviewDir, c.Paths.LogDir, c.Paths.DataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
	}
	return nil
}

// ManagedRoots returns the inbox directories the duplicate flow may mutate.
func (c *Config) ManagedRoots() []string {
	roots := make([]string, 0, len(c.Paths.InboxDirs))
	for _, dir := range c.Paths.InboxDirs {
		if trimmed := strings.TrimSpace(dir); trimmed != "" {
			roots = append(roots, trimmed)
		}
	}
	return roots
}

// LibraryRoots returns the directories whose members win keeper selection:
// the library itself plus any configured extras.
func (c *Config) LibraryRoots() []string {
	roots := make([]string, 0, 1+len(c.Dedupe.ExtraLibraryRoots))
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		roots = append(roots, c.Paths.LibraryDir)
	}
	for _, dir := range c.Dedupe.ExtraLibraryRoots {
		if trimmed := strings.TrimSpace(dir); trimmed != "" {
			roots = append(roots, trimmed)
		}
	}
	return roots
}

// HistoryDBPath returns the location of the run history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.DataDir, "history.db")
}

// LockFilePath returns the advisory lock file guarding concurrent runs.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.Paths.DataDir, "librairy.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if rest, ok := strings.CutPrefix(pathValue, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		switch {
		case rest == "":
			pathValue = home
		case rest[0] == '/' || rest[0] == '\\':
			pathValue = filepath.Join(home, rest[1:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath applies tilde and relative-path expansion for callers that
// accept paths outside the config file, such as CLI arguments.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the embedded sample config to path, creating parent
// directories as needed.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the classifier connection settings in expanded form.
type LLMConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// GetLLM returns the classifier connection settings with surrounding
// whitespace stripped, so presence checks on APIKey and Model are reliable.
func (c *Config) GetLLM() LLMConfig {
	trim := strings.TrimSpace
	return LLMConfig{
		APIKey:         trim(c.LLM.APIKey),
		Model:          trim(c.LLM.Model),
		BaseURL:        trim(c.LLM.BaseURL),
		Referer:        trim(c.LLM.Referer),
		Title:          trim(c.LLM.Title),
		TimeoutSeconds: c.LLM.TimeoutSeconds,
	}
}
