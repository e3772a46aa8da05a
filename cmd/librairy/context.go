package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"log/slog"

	"github.com/spf13/cobra"

	"github.com/solosoyfranco/LibrAIry/internal/config"
	"github.com/solosoyfranco/LibrAIry/internal/history"
	"github.com/solosoyfranco/LibrAIry/internal/logging"
	"github.com/solosoyfranco/LibrAIry/internal/workflow"
)

// commandContext loads configuration once for whichever subcommand runs, so
// the --config flag applies uniformly without each RunE resolving it again.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() { c.config, c.configErr = c.loadConfig() })
	return c.config, c.configErr
}

func (c *commandContext) loadConfig() (*config.Config, error) {
	var path string
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fileLogger builds a logger that writes only to the log directory, keeping
// stdout free for command output.
func fileLogger(cfg *config.Config) (*slog.Logger, error) {
	logPath := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
	return logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
}

// newRunner assembles a workflow runner and its history store. The caller
// closes the store once the run finishes.
func (c *commandContext) newRunner() (*workflow.Runner, *history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := fileLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	return workflow.NewRunner(cfg, store, logger), store, nil
}

// openHistory opens the run history store for read commands.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
