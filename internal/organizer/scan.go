package organizer

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"profileorg/internal/failure"
)

// AppleDoublePrefix marks macOS resource-fork companions, which are skipped.
const AppleDoublePrefix = "._"

// ScanFiles walks root recursively and returns the regular files whose
// extension is in exts, compared case-insensitively, in lexicographic path
// order.
func ScanFiles(root string, exts []string) ([]string, error) {
	wanted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		wanted[ext] = struct{}{}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, AppleDoublePrefix) {
			return nil
		}
		if _, ok := wanted[strings.ToLower(filepath.Ext(name))]; !ok {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, failure.Wrap(failure.ErrIO, "organizer", "scan", root, err)
	}
	sort.Strings(files)
	return files, nil
}
