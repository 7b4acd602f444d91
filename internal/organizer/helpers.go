package organizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"profileorg/internal/catalog"
	"profileorg/internal/textutil"
)

// UncategorizedDevice files PDFs whose device cannot be determined.
const UncategorizedDevice = "Uncategorized"

// nameAllocator hands out " [N]" suffixed names for repeated base names within
// one run. The first use of a name is unsuffixed; the second gets [2].
type nameAllocator struct {
	seen map[string]int
}

func newNameAllocator() *nameAllocator {
	return &nameAllocator{seen: make(map[string]int)}
}

func (a *nameAllocator) next(base string) string {
	return a.allocate(base, base)
}

// nextIn scopes the count to a directory.
func (a *nameAllocator) nextIn(dir, base string) string {
	return a.allocate(dir+"\x00"+base, base)
}

func (a *nameAllocator) allocate(key, base string) string {
	a.seen[key]++
	if n := a.seen[key]; n > 1 {
		return fmt.Sprintf("%s [%d]", base, n)
	}
	return base
}

// segment makes a name component safe for use as a single path element.
func segment(input string) string {
	return textutil.SanitizeSegment(input, catalog.UnknownName)
}

// describable reports whether the extension carries an ICC desc tag.
func describable(ext string) bool {
	switch strings.ToLower(ext) {
	case ".icc", ".icm":
		return true
	}
	return false
}

// parentsBelow lists the directories between path and root, nearest first.
// root itself is excluded.
func parentsBelow(root, path string) []string {
	root = filepath.Clean(root)
	var dirs []string
	for dir := filepath.Dir(filepath.Clean(path)); dir != root; dir = filepath.Dir(dir) {
		rel, err := filepath.Rel(root, dir)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			break
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

// longestDeviceKey finds the longest alias key contained case-insensitively in
// name. Equal lengths keep declaration order.
func longestDeviceKey(table *catalog.AliasTable, name string) (string, bool) {
	lower := strings.ToLower(name)
	best := ""
	for _, key := range table.Keys() {
		if len(key) > len(best) && strings.Contains(lower, strings.ToLower(key)) {
			best = key
		}
	}
	return best, best != ""
}
