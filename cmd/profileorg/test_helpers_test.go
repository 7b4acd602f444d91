package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"profileorg/internal/testsupport"
)

type cliTestEnv struct {
	baseDir     string
	profilesDir string
	outputDir   string
	stateDir    string
	configPath  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("PROFILEORG_CATALOG", "")

	env := &cliTestEnv{
		baseDir:     base,
		profilesDir: filepath.Join(base, "profiles"),
		outputDir:   filepath.Join(base, "organized"),
		stateDir:    filepath.Join(base, "state"),
		configPath:  filepath.Join(homeDir, ".config", "profileorg", "config.toml"),
	}
	if err := os.MkdirAll(env.profilesDir, 0o755); err != nil {
		t.Fatalf("mkdir profiles: %v", err)
	}
	env.writeConfig(t, "")
	return env
}

func (e *cliTestEnv) writeConfig(t *testing.T, catalogPath string) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nprofiles_dir = %q\noutput_dir = %q\nchoices_file = %q\npreferences_file = %q\n\n[catalog]\npath = %q\n\n[logging]\nlevel = \"error\"\n",
		e.profilesDir,
		e.outputDir,
		filepath.Join(e.stateDir, ".profile_choices.json"),
		filepath.Join(e.stateDir, ".profile_preferences.json"),
		catalogPath,
	)
	testsupport.WriteFile(t, e.configPath, []byte(content))
}

func (e *cliTestEnv) addProfile(t *testing.T, rel string) string {
	t.Helper()
	path := filepath.Join(e.profilesDir, rel)
	testsupport.WriteFile(t, path, testsupport.BuildProfile(t, testsupport.Profile{Description: "Vendor name", DescSize: 64}))
	return path
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent (err=%v)", path, err)
	}
}
