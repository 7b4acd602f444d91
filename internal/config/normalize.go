package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeOrganize()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ProfilesDir) == "" {
		c.Paths.ProfilesDir = defaultProfilesDir
	}
	if c.Paths.ProfilesDir, err = expandPath(c.Paths.ProfilesDir); err != nil {
		return fmt.Errorf("paths.profiles_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = filepath.Join(filepath.Dir(c.Paths.ProfilesDir), defaultOutputDir)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}

	// State files live next to the profiles directory unless set explicitly.
	stateDir := filepath.Dir(c.Paths.ProfilesDir)
	if strings.TrimSpace(c.Paths.ChoicesFile) == "" {
		c.Paths.ChoicesFile = filepath.Join(stateDir, defaultChoicesFile)
	}
	if c.Paths.ChoicesFile, err = expandPath(c.Paths.ChoicesFile); err != nil {
		return fmt.Errorf("paths.choices_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.PreferencesFile) == "" {
		c.Paths.PreferencesFile = filepath.Join(stateDir, defaultPreferencesFile)
	}
	if c.Paths.PreferencesFile, err = expandPath(c.Paths.PreferencesFile); err != nil {
		return fmt.Errorf("paths.preferences_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockFile) == "" {
		c.Paths.LockFile = filepath.Join(filepath.Dir(c.Paths.ChoicesFile), defaultLockFile)
	}
	if c.Paths.LockFile, err = expandPath(c.Paths.LockFile); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() error {
	c.Catalog.Path = strings.TrimSpace(c.Catalog.Path)
	if c.Catalog.Path == "" {
		if value, ok := os.LookupEnv(catalogEnvVar); ok {
			c.Catalog.Path = strings.TrimSpace(value)
		}
	}
	var err error
	if c.Catalog.Path, err = expandPath(c.Catalog.Path); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeOrganize() {
	if len(c.Organize.Extensions) == 0 {
		c.Organize.Extensions = append([]string(nil), defaultExtensions...)
	}
	seen := make(map[string]struct{}, len(c.Organize.Extensions))
	exts := make([]string, 0, len(c.Organize.Extensions))
	for _, ext := range c.Organize.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	c.Organize.Extensions = exts
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
