package organizer

import (
	"path/filepath"
	"reflect"
	"testing"

	"profileorg/internal/catalog"
)

func TestNameAllocator(t *testing.T) {
	a := newNameAllocator()
	got := []string{a.next("A - B - C"), a.next("A - B - C"), a.next("X"), a.next("A - B - C")}
	want := []string{"A - B - C", "A - B - C [2]", "X", "A - B - C [3]"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if a.nextIn("dir1", "doc") != "doc" || a.nextIn("dir2", "doc") != "doc" || a.nextIn("dir1", "doc") != "doc [2]" {
		t.Fatal("nextIn should count per directory")
	}
}

func TestSegment(t *testing.T) {
	cases := map[string]string{
		"Epson P900":     "Epson P900",
		"P700/P900":      "P700-P900",
		"  spaced  ":     "spaced",
		"":               catalog.UnknownName,
		"..":             catalog.UnknownName,
		`back\slash:odd`: "back-slash-odd",
	}
	for in, want := range cases {
		if got := segment(in); got != want {
			t.Errorf("segment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParentsBelow(t *testing.T) {
	root := filepath.FromSlash("/data/profiles")
	got := parentsBelow(root, filepath.FromSlash("/data/profiles/a/b/file.pdf"))
	want := []string{filepath.FromSlash("/data/profiles/a/b"), filepath.FromSlash("/data/profiles/a")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := parentsBelow(root, filepath.FromSlash("/data/profiles/file.pdf")); len(got) != 0 {
		t.Fatalf("root-level file has no parents below root: %v", got)
	}
	if got := parentsBelow(root, filepath.FromSlash("/elsewhere/x/file.pdf")); len(got) != 0 {
		t.Fatalf("outside root: %v", got)
	}
}

func TestLongestDeviceKey(t *testing.T) {
	table := catalog.Default().Devices()
	key, ok := longestDeviceKey(table, "Epson SC-P900 manuals")
	if !ok || key != "SC-P900" {
		t.Fatalf("got %q, %v", key, ok)
	}
	if _, ok := longestDeviceKey(table, "misc"); ok {
		t.Fatal("expected no key")
	}
}
