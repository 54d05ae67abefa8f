package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeArchive()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ToolsDir) != "" {
		if c.Paths.ToolsDir, err = expandPath(c.Paths.ToolsDir); err != nil {
			return fmt.Errorf("paths.tools_dir: %w", err)
		}
	} else {
		c.Paths.ToolsDir = ""
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.ArkHelper = strings.TrimSpace(c.Tools.ArkHelper)
	if c.Tools.ArkHelper == "" {
		c.Tools.ArkHelper = defaultArkHelper
	}
	c.Tools.RockAudio = strings.TrimSpace(c.Tools.RockAudio)
	if c.Tools.RockAudio == "" {
		c.Tools.RockAudio = defaultRockAudio
	}
	c.Tools.SevenZip = strings.TrimSpace(c.Tools.SevenZip)
	if c.Tools.SevenZip == "" {
		c.Tools.SevenZip = defaultSevenZip
	}
	c.Tools.ImgBurn = strings.TrimSpace(c.Tools.ImgBurn)
	if c.Tools.ImgBurn == "" {
		c.Tools.ImgBurn = defaultImgBurn
	}
	c.Tools.PS2Master = strings.TrimSpace(c.Tools.PS2Master)
	if c.Tools.PS2Master == "" {
		c.Tools.PS2Master = defaultPS2Master
	}
	c.Tools.ImgBurnINI = strings.TrimSpace(c.Tools.ImgBurnINI)
	if c.Tools.ImgBurnINI == "" {
		c.Tools.ImgBurnINI = defaultImgBurnINI
	}
}

func (c *Config) normalizeArchive() {
	c.Archive.Name = strings.TrimSpace(c.Archive.Name)
	if c.Archive.Name == "" {
		c.Archive.Name = defaultArchiveName
	}
	if c.Archive.MaxSizeBytes <= 0 {
		c.Archive.MaxSizeBytes = defaultArchiveMaxSizeBytes
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
