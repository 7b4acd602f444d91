package organizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"profileorg/internal/failure"
	"profileorg/internal/testsupport"
)

func TestSystemProfileDir(t *testing.T) {
	cases := []struct {
		goos, scope string
		want        ExportTarget
	}{
		{"darwin", ScopeSystem, ExportTarget{Dir: "/Library/ColorSync/Profiles"}},
		{"darwin", ScopeUser, ExportTarget{Dir: filepath.Join("/home/u", "Library", "ColorSync", "Profiles")}},
		{"windows", ScopeUser, ExportTarget{Dir: windowsColorDir, Flat: true}},
		{"windows", ScopeSystem, ExportTarget{Dir: windowsColorDir, Flat: true}},
		{"linux", ScopeUser, ExportTarget{Dir: filepath.Join("/home/u", ".local", "share", "icc")}},
	}
	for _, tc := range cases {
		got, err := SystemProfileDir(tc.goos, tc.scope, "/home/u")
		if err != nil || got != tc.want {
			t.Errorf("SystemProfileDir(%s, %s) = %+v, %v; want %+v", tc.goos, tc.scope, got, err, tc.want)
		}
	}
	if _, err := SystemProfileDir("plan9", ScopeUser, "/home/u"); !errors.Is(err, failure.ErrNotFound) {
		t.Fatalf("unknown os: %v", err)
	}
	if _, err := SystemProfileDir("darwin", "global", "/home/u"); !errors.Is(err, failure.ErrValidation) {
		t.Fatalf("unknown scope: %v", err)
	}
}

func TestExportTreeAndFlat(t *testing.T) {
	from := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(from, "Epson P900", "MOAB", "a.icc"), []byte("a"))
	testsupport.WriteFile(t, filepath.Join(from, "Canon iPF6450", "Canson", "b.icm"), []byte("b"))
	testsupport.WriteFile(t, filepath.Join(from, "Epson P900", "MOAB", "c.emy2"), []byte("c"))
	testsupport.WriteFile(t, filepath.Join(from, "PDFs", "Uncategorized", "d.pdf"), []byte("d"))

	cfg := testsupport.NewConfig(t)
	o := newOrganizer(t, cfg, nil)

	tree := t.TempDir()
	res, err := o.Export(context.Background(), from, tree, false)
	if err != nil || res.Copied != 2 || len(res.Failures) != 0 {
		t.Fatalf("tree export = %+v, %v", res, err)
	}
	if _, err := os.Stat(filepath.Join(tree, "Epson P900", "MOAB", "a.icc")); err != nil {
		t.Fatalf("tree layout not kept: %v", err)
	}

	flat := t.TempDir()
	res, err = o.Export(context.Background(), from, flat, true)
	if err != nil || res.Copied != 2 {
		t.Fatalf("flat export = %+v, %v", res, err)
	}
	for _, name := range []string{"a.icc", "b.icm"} {
		if _, err := os.Stat(filepath.Join(flat, name)); err != nil {
			t.Fatalf("flat export missing %s: %v", name, err)
		}
	}

	if _, err := o.Export(context.Background(), from, filepath.Join(flat, "missing"), true); !errors.Is(err, failure.ErrNotFound) {
		t.Fatalf("missing destination: %v", err)
	}
}
