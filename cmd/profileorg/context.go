package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"profileorg/internal/catalog"
	"profileorg/internal/config"
	"profileorg/internal/logging"
	"profileorg/internal/resolver"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	verboseFlag  *bool
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, verboseFlag, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		verboseFlag:  verboseFlag,
		jsonFlag:     jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		if level := c.logLevel(); level != "" {
			cfg.Logging.Level = level
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) logLevel() string {
	if c.verboseFlag != nil && *c.verboseFlag {
		return "debug"
	}
	if c.logLevelFlag != nil {
		return strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
	}
	return ""
}

// JSONMode reports whether --json was requested.
func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// newLogger builds the run logger and a context carrying a fresh run id.
// Components add the context fields themselves through logging.WithContext.
func (c *commandContext) newLogger(ctx context.Context, cfg *config.Config, stage string) (context.Context, *slog.Logger, error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return ctx, nil, fmt.Errorf("init logger: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithRunID(ctx, uuid.NewString())
	if stage != "" {
		ctx = logging.WithStage(ctx, stage)
	}
	return ctx, logger, nil
}

// loadCatalog loads the configured catalog, falling back to the built-in
// rules when no path is set.
func (c *commandContext) loadCatalog(cfg *config.Config, logger *slog.Logger) (*catalog.Catalog, catalog.LoadReport, error) {
	return catalog.Load(cfg.Catalog.Path, logger)
}

func (c *commandContext) preferenceStore(cfg *config.Config, logger *slog.Logger) *resolver.FileStore {
	return resolver.NewFileStore(cfg.Paths.ChoicesFile, cfg.Paths.PreferencesFile, logger)
}

var errLocked = errors.New("another profileorg run holds the lock")

// acquireLock takes the run lock guarding the preference caches. The returned
// release function is safe to defer.
func acquireLock(cfg *config.Config) (func(), error) {
	path := cfg.Paths.LockFile
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", errLocked, path)
	}
	return func() { _ = lock.Unlock() }, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
