package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"profileorg/internal/config"
)

func TestLoadDefaultsDeriveStatePaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PROFILEORG_CATALOG", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "profileorg", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if cfg.Paths.ProfilesDir != filepath.Join(wd, "profiles") {
		t.Fatalf("unexpected profiles dir: %q", cfg.Paths.ProfilesDir)
	}
	if cfg.Paths.OutputDir != filepath.Join(wd, "organized-profiles") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.ChoicesFile != filepath.Join(wd, ".profile_choices.json") {
		t.Fatalf("unexpected choices file: %q", cfg.Paths.ChoicesFile)
	}
	if cfg.Paths.PreferencesFile != filepath.Join(wd, ".profile_preferences.json") {
		t.Fatalf("unexpected preferences file: %q", cfg.Paths.PreferencesFile)
	}
	if cfg.Paths.LockFile != filepath.Join(wd, ".profileorg.lock") {
		t.Fatalf("unexpected lock file: %q", cfg.Paths.LockFile)
	}
	if cfg.Catalog.Path != "" {
		t.Fatalf("expected built-in catalog, got %q", cfg.Catalog.Path)
	}
	if !cfg.Organize.Profiles || !cfg.Organize.PDFs || !cfg.Organize.UpdateDescriptions {
		t.Fatalf("unexpected organize defaults: %+v", cfg.Organize)
	}
	if cfg.Organize.DeleteDuplicatePDFs {
		t.Fatal("duplicate deletion must be opt-in")
	}
	if strings.Join(cfg.Organize.Extensions, ",") != ".icc,.icm,.emy2" {
		t.Fatalf("unexpected extensions: %v", cfg.Organize.Extensions)
	}
}

func TestLoadCustomConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PROFILEORG_CATALOG", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
profiles_dir = "~/icc/in"
output_dir = "~/icc/out"
preferences_file = "~/state/prefs.json"

[catalog]
path = "~/rules.yaml"

[organize]
interactive = true
extensions = ["ICC", ".icm", ".icc"]

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected explicit config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.ProfilesDir != filepath.Join(tempHome, "icc", "in") {
		t.Fatalf("unexpected profiles dir: %q", cfg.Paths.ProfilesDir)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "icc", "out") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.ChoicesFile != filepath.Join(tempHome, "icc", ".profile_choices.json") {
		t.Fatalf("unexpected choices file: %q", cfg.Paths.ChoicesFile)
	}
	if cfg.Paths.PreferencesFile != filepath.Join(tempHome, "state", "prefs.json") {
		t.Fatalf("unexpected preferences file: %q", cfg.Paths.PreferencesFile)
	}
	if cfg.Catalog.Path != filepath.Join(tempHome, "rules.yaml") {
		t.Fatalf("unexpected catalog path: %q", cfg.Catalog.Path)
	}
	if !cfg.Organize.Interactive {
		t.Fatal("expected interactive from file")
	}
	if strings.Join(cfg.Organize.Extensions, ",") != ".icc,.icm" {
		t.Fatalf("extensions not normalized: %v", cfg.Organize.Extensions)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
}

func TestCatalogPathFromEnvironment(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	catalogPath := filepath.Join(tempHome, "catalog.toml")
	t.Setenv("PROFILEORG_CATALOG", catalogPath)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Catalog.Path != catalogPath {
		t.Fatalf("expected env catalog path, got %q", cfg.Catalog.Path)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := t.TempDir()
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"same dirs", func(c *config.Config) { c.Paths.OutputDir = c.Paths.ProfilesDir }, "must differ"},
		{"output inside profiles", func(c *config.Config) { c.Paths.OutputDir = filepath.Join(c.Paths.ProfilesDir, "out") }, "must not be inside"},
		{"shared cache file", func(c *config.Config) { c.Paths.PreferencesFile = c.Paths.ChoicesFile }, "different files"},
		{"pdf extension", func(c *config.Config) { c.Organize.Extensions = []string{".pdf"} }, "must not include .pdf"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths = config.Paths{
				ProfilesDir:     filepath.Join(base, "profiles"),
				OutputDir:       filepath.Join(base, "out"),
				ChoicesFile:     filepath.Join(base, "choices.json"),
				PreferencesFile: filepath.Join(base, "prefs.json"),
			}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PROFILEORG_CATALOG", "")
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	raw, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	if _, _, _, err := config.Load(target); err != nil {
		t.Fatalf("sample does not load: %v", err)
	}
}

func TestEnsureDirectoriesCreatesOutputAndState(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.ChoicesFile = filepath.Join(base, "state", "choices.json")
	cfg.Paths.PreferencesFile = filepath.Join(base, "state2", "prefs.json")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{"out", "state", "state2", "logs"} {
		if info, err := os.Stat(filepath.Join(base, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
