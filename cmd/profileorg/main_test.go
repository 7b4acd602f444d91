package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"profileorg/internal/icc"
	"profileorg/internal/resolver"
	"profileorg/internal/testsupport"
)

func TestMatchCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"match", "MOAB Lasal Luster P900.icc", "random.icc"}, env.configPath, "")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	requireContains(t, out, "Epson P900")
	requireContains(t, out, "Lasal Luster")
	requireContains(t, out, "(no match)")
}

func TestMatchCommandJSONReportsCandidates(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "match", "Luster P7570 P9570.icc"}, env.configPath, "")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	var views []matchView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(views) != 1 || views[0].Key != "P7570-P9570" || len(views[0].Candidates) != 2 {
		t.Fatalf("views = %+v", views)
	}
}

func TestOrganizeDryRunLeavesOutputUntouched(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addProfile(t, "MOAB Lasal Luster P900.icc")

	out, _, err := runCLI(t, []string{"organize"}, env.configPath, "")
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	requireContains(t, out, "== Profiles ==")
	requireContains(t, out, "Epson P900")
	requireContains(t, out, "Dry run: use --execute to apply changes")
	requireNotExists(t, env.outputDir)
}

func TestOrganizeExecuteCopiesAndDescribes(t *testing.T) {
	env := setupCLITestEnv(t)
	source := env.addProfile(t, "MOAB Lasal Luster P900.icc")
	env.addProfile(t, "nothing here.icc")

	out, _, err := runCLI(t, []string{"organize", "--execute", "--detailed"}, env.configPath, "")
	if err != nil {
		t.Fatalf("organize --execute: %v\n%s", err, out)
	}
	requireContains(t, out, "== Summary ==")
	requireContains(t, out, "Unclassified")

	target := filepath.Join(env.outputDir, "Epson P900", "MOAB", "Epson P900 - MOAB - Lasal Luster.icc")
	desc, err := icc.ReadFileDescription(target)
	if err != nil {
		t.Fatalf("read description: %v", err)
	}
	if desc != "Epson P900 - MOAB - Lasal Luster" {
		t.Fatalf("description = %q", desc)
	}
	if original, err := icc.ReadFileDescription(source); err != nil || original != "Vendor name" {
		t.Fatalf("source must stay untouched: %q %v", original, err)
	}
}

func TestOrganizeJSONPlan(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addProfile(t, "MOAB Lasal Luster P900.icc")

	out, _, err := runCLI(t, []string{"--json", "organize", "--profiles-only"}, env.configPath, "")
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	var view planView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if view.Executed || len(view.Operations) != 1 || view.Operations[0].Device != "Epson P900" {
		t.Fatalf("plan = %+v", view)
	}
	if view.Summary != nil {
		t.Fatal("dry run must not report a summary")
	}
}

func TestOrganizeRejectsConflictingFlags(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"organize", "--profiles-only", "--pdfs-only"}, env.configPath, ""); err == nil {
		t.Fatal("expected error for exclusive flags")
	}
	if _, _, err := runCLI(t, []string{"organize", "--export", "user"}, env.configPath, ""); err == nil {
		t.Fatal("expected error for --export without --execute")
	}
}

func TestOrganizeFailsWhileLocked(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.MkdirAll(env.stateDir, 0o755); err != nil {
		t.Fatal(err)
	}
	lock := flock.New(filepath.Join(env.stateDir, ".profileorg.lock"))
	ok, err := lock.TryLock()
	if err != nil || !ok {
		t.Fatalf("take lock: %v %v", ok, err)
	}
	defer lock.Unlock()

	_, _, err = runCLI(t, []string{"organize"}, env.configPath, "")
	if !errors.Is(err, errLocked) {
		t.Fatalf("expected errLocked, got %v", err)
	}
}

func TestOrganizeMissingProfilesDirFailsPreflight(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(env.profilesDir); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := runCLI(t, []string{"organize"}, env.configPath, "")
	if err == nil {
		t.Fatal("expected preflight error")
	}
	requireContains(t, stderr, "[ERROR]")
}

func TestInteractiveChoiceIsLearnedAndManaged(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addProfile(t, "MOAB Luster P7570 P9570.icc")

	_, stderr, err := runCLI(t, []string{"organize", "--interactive", "--profiles-only"}, env.configPath, "2\n")
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	requireContains(t, stderr, "Multiple printers match")

	out, _, err := runCLI(t, []string{"--json", "prefs", "list"}, env.configPath, "")
	if err != nil {
		t.Fatalf("prefs list: %v", err)
	}
	var entries []resolver.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	want := []resolver.Entry{
		{Kind: resolver.KindRule, Key: "P7570-P9570", Device: "Epson P9570"},
		{Kind: resolver.KindFile, Key: "MOAB Luster P7570 P9570.icc", Device: "Epson P9570"},
	}
	if len(entries) != len(want) {
		t.Fatalf("entries = %+v", entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}

	// A second run answers from the caches without prompting.
	out, stderr, err = runCLI(t, []string{"organize", "--profiles-only"}, env.configPath, "")
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	if strings.Contains(stderr, "Multiple printers match") {
		t.Fatal("cached choice should not prompt")
	}
	requireContains(t, out, "Epson P9570")

	out, _, err = runCLI(t, []string{"prefs", "remove", "1"}, env.configPath, "")
	if err != nil {
		t.Fatalf("prefs remove: %v", err)
	}
	requireContains(t, out, `Removed learned choice "P7570-P9570"`)

	if _, _, err := runCLI(t, []string{"prefs", "remove", "P7570-P9570"}, env.configPath, ""); err == nil {
		t.Fatal("removing a missing key should fail")
	}

	out, _, err = runCLI(t, []string{"prefs", "clear"}, env.configPath, "")
	if err != nil {
		t.Fatalf("prefs clear: %v", err)
	}
	requireContains(t, out, "Removed 1 learned choice(s)")

	out, _, err = runCLI(t, []string{"prefs", "list"}, env.configPath, "")
	if err != nil {
		t.Fatalf("prefs list: %v", err)
	}
	requireContains(t, out, "Learned choices: none")
}

func TestCatalogInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "catalog.toml")

	out, _, err := runCLI(t, []string{"catalog", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("catalog init: %v", err)
	}
	requireContains(t, out, "Wrote catalog")
	requireContains(t, string(testsupport.ReadFile(t, target)), "printer_names")

	if _, _, err := runCLI(t, []string{"catalog", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected error when the catalog exists")
	}

	env.writeConfig(t, target)
	out, _, err = runCLI(t, []string{"catalog", "show"}, env.configPath, "")
	if err != nil {
		t.Fatalf("catalog show: %v", err)
	}
	requireContains(t, out, target)
	requireContains(t, out, "moab_profiles")

	out, _, err = runCLI(t, []string{"catalog", "show", "--dump", "yaml"}, env.configPath, "")
	if err != nil {
		t.Fatalf("catalog show --dump: %v", err)
	}
	requireContains(t, out, "filename_patterns:")
}

func TestDescribeCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.addProfile(t, "Some Profile.icc")

	out, _, err := runCLI(t, []string{"describe", path}, "", "")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if strings.TrimSpace(out) != "Vendor name" {
		t.Fatalf("describe = %q", out)
	}

	out, _, err = runCLI(t, []string{"describe", "--set", "Custom text", path}, "", "")
	if err != nil {
		t.Fatalf("describe --set: %v", err)
	}
	if strings.TrimSpace(out) != "Custom text" {
		t.Fatalf("describe --set = %q", out)
	}

	out, _, err = runCLI(t, []string{"describe", "--from-name", path}, "", "")
	if err != nil {
		t.Fatalf("describe --from-name: %v", err)
	}
	if strings.TrimSpace(out) != "Some Profile" {
		t.Fatalf("describe --from-name = %q", out)
	}
}

func TestScanCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addProfile(t, "MOAB Lasal Luster P900.icc")
	env.addProfile(t, "nothing here.icc")

	out, _, err := runCLI(t, []string{"scan"}, env.configPath, "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "1 of 2 (50.0%)")
	requireContains(t, out, "nothing here.icc")
}

func TestDedupeCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.profilesDir, "a.pdf"), []byte("same"))
	testsupport.WriteFile(t, filepath.Join(env.profilesDir, "b.pdf"), []byte("same"))
	testsupport.WriteFile(t, filepath.Join(env.profilesDir, "c.pdf"), []byte("other"))

	out, _, err := runCLI(t, []string{"dedupe"}, env.configPath, "")
	if err != nil {
		t.Fatalf("dedupe: %v", err)
	}
	requireContains(t, out, "1 duplicate set(s) among 3 file(s)")
	requireContains(t, out, "keep a.pdf")
	requireContains(t, out, "duplicate b.pdf")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config validate: %v\n%s", err, out)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
}

func TestConfigValidateReportsMissingProfilesDir(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(env.profilesDir); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, "")
	if err == nil {
		t.Fatal("expected validation error")
	}
	requireContains(t, out, "[ERROR]")
}
