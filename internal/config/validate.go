package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOrganize(); err != nil {
		return err
	}
	if err := c.validatePurge(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ReviewDir) == "" {
		return errors.New("paths.review_dir must be set")
	}
	if strings.TrimSpace(c.Paths.QuarantineDir) == "" {
		return errors.New("paths.quarantine_dir must be set")
	}
	for _, inbox := range c.Paths.InboxDirs {
		if inbox == c.Paths.QuarantineDir {
			return fmt.Errorf("paths.inbox_dirs must not include the quarantine directory %q", inbox)
		}
		if inbox == c.Paths.LibraryDir {
			return fmt.Errorf("paths.inbox_dirs must not include the library directory %q", inbox)
		}
	}
	return nil
}

func (c *Config) validateOrganize() error {
	if c.Organize.MinConfidence < 0 || c.Organize.MinConfidence > 1 {
		return errors.New("organize.min_confidence must be between 0 and 1")
	}
	switch c.Organize.CaseStyle {
	case "keep", "lower", "title":
	default:
		return fmt.Errorf("organize.case_style must be keep, lower, or title, got %q", c.Organize.CaseStyle)
	}
	if strings.TrimSpace(c.Organize.DefaultBucket) == "" {
		return errors.New("organize.default_bucket must be set")
	}
	return nil
}

func (c *Config) validatePurge() error {
	if c.Purge.RetentionDays < 0 {
		return errors.New("purge.retention_days must be >= 0 (0 disables purging)")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.WatchSettleSeconds <= 0 {
		return errors.New("workflow.watch_settle_seconds must be positive")
	}
	if c.Workflow.MinFreeGiB < 0 {
		return errors.New("workflow.min_free_gib must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
