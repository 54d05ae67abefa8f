package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateArchive(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return fmt.Errorf("paths.work_dir must not be empty")
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return fmt.Errorf("paths.staging_dir must not be empty")
	}
	// A staging dir inside the work tree would make extracted workspaces
	// visible to the loose-asset discovery pass.
	rel, err := filepath.Rel(c.Paths.WorkDir, c.Paths.StagingDir)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel) {
		return fmt.Errorf("paths.staging_dir must live outside paths.work_dir")
	}
	return nil
}

func (c *Config) validateArchive() error {
	if strings.ContainsAny(c.Archive.Name, `/\`) {
		return fmt.Errorf("archive.name must be a bare file name, got %q", c.Archive.Name)
	}
	if c.Archive.MaxSizeBytes <= 0 {
		return fmt.Errorf("archive.max_size_bytes must be positive, got %d", c.Archive.MaxSizeBytes)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
