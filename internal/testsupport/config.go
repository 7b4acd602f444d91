package testsupport

import (
	"path/filepath"
	"testing"

	"profileorg/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a normalized config rooted in a unique temp directory:
// profiles in base/profiles, output in base/organized-profiles and the caches
// in base/state.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ProfilesDir = filepath.Join(base, "profiles")
	cfgVal.Paths.OutputDir = filepath.Join(base, "organized-profiles")
	cfgVal.Paths.ChoicesFile = filepath.Join(base, "state", ".profile_choices.json")
	cfgVal.Paths.PreferencesFile = filepath.Join(base, "state", ".profile_preferences.json")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Normalize(); err != nil {
		t.Fatalf("normalize test config: %v", err)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("validate test config: %v", err)
	}
	return builder.cfg
}

// WithCatalog points the config at a catalog document.
func WithCatalog(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Path = path
	}
}

// WithInteractive toggles interactive conflict resolution.
func WithInteractive(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.Interactive = enabled
	}
}

// WithoutDescriptionUpdates disables desc tag patching of copied profiles.
func WithoutDescriptionUpdates() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.UpdateDescriptions = false
	}
}

// WithDuplicatePDFDeletion enables deleting duplicate PDFs on execute.
func WithDuplicatePDFDeletion() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.DeleteDuplicatePDFs = true
	}
}

// WithConfigMutator applies an arbitrary change before normalization.
func WithConfigMutator(fn func(*config.Config)) ConfigOption {
	return func(b *configBuilder) {
		if fn != nil {
			fn(b.cfg)
		}
	}
}
