package config

import (
	"errors"
	"fmt"
	"path/filepath"
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
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.ProfilesDir == "" {
		return errors.New("paths.profiles_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.OutputDir == c.Paths.ProfilesDir {
		return errors.New("paths.output_dir must differ from paths.profiles_dir")
	}
	if within(c.Paths.ProfilesDir, c.Paths.OutputDir) {
		return fmt.Errorf("paths.output_dir %q must not be inside paths.profiles_dir", c.Paths.OutputDir)
	}
	if c.Paths.ChoicesFile == c.Paths.PreferencesFile {
		return errors.New("paths.choices_file and paths.preferences_file must be different files")
	}
	return nil
}

func (c *Config) validateOrganize() error {
	if len(c.Organize.Extensions) == 0 {
		return errors.New("organize.extensions must list at least one extension")
	}
	for _, ext := range c.Organize.Extensions {
		if ext == ".pdf" {
			return errors.New("organize.extensions must not include .pdf; PDFs are handled by organize.pdfs")
		}
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
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
