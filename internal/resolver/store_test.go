package resolver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "state", ".profile_choices.json"), filepath.Join(dir, "state", ".profile_preferences.json"), nil)
	ctx := context.Background()

	prefs, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load on fresh store: %v", err)
	}
	if len(prefs.Files) != 0 || len(prefs.Rules) != 0 {
		t.Fatalf("fresh store not empty: %+v", prefs)
	}

	prefs.Files["Luster P7570 P9570.icc"] = "Epson P7570"
	prefs.Rules["P7570-P9570"] = "Epson P7570"
	if err := store.Save(ctx, prefs); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(store.PreferencesPath)
	if err != nil {
		t.Fatalf("read preferences: %v", err)
	}
	if !strings.Contains(string(data), `"P7570-P9570": "Epson P7570"`) {
		t.Fatalf("preferences not a flat object: %s", data)
	}
	if _, err := os.Stat(store.PreferencesPath + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind")
	}

	reloaded, err := NewFileStore(store.ChoicesPath, store.PreferencesPath, nil).Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Files["Luster P7570 P9570.icc"] != "Epson P7570" || reloaded.Rules["P7570-P9570"] != "Epson P7570" {
		t.Fatalf("reloaded %+v", reloaded)
	}
}

func TestFileStoreCorruptDocumentLoadsEmpty(t *testing.T) {
	dir := t.TempDir()
	choices := filepath.Join(dir, "choices.json")
	if err := os.WriteFile(choices, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	prefs, err := NewFileStore(choices, "", nil).Load(context.Background())
	if err != nil {
		t.Fatalf("corrupt cache should not fail the load: %v", err)
	}
	if len(prefs.Files) != 0 {
		t.Fatalf("expected empty choices, got %+v", prefs.Files)
	}
}

func TestFileStoreHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewFileStore(filepath.Join(t.TempDir(), "c.json"), "", nil)
	if _, err := store.Load(ctx); err == nil {
		t.Fatal("expected context error from Load")
	}
	if err := store.Save(ctx, NewPreferences()); err == nil {
		t.Fatal("expected context error from Save")
	}
}

func TestPreferencesEntriesOrder(t *testing.T) {
	prefs := NewPreferences()
	prefs.Files["b.icc"] = "X"
	prefs.Files["a.icc"] = "Y"
	prefs.Rules["K2"] = "Z"
	entries := prefs.Entries()
	if len(entries) != 3 || entries[0].Kind != KindRule || entries[1].Key != "a.icc" || entries[2].Key != "b.icc" {
		t.Fatalf("entries = %+v", entries)
	}
}
