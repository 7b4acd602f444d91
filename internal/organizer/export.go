package organizer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"profileorg/internal/failure"
	"profileorg/internal/fileutil"
	"profileorg/internal/logging"
)

// Export scopes.
const (
	ScopeUser   = "user"
	ScopeSystem = "system"
)

// windowsColorDir is the Windows spool color directory.
const windowsColorDir = `C:\Windows\System32\spool\drivers\color`

// ExportTarget is an operating system profile directory.
type ExportTarget struct {
	Dir string
	// Flat targets take every profile directly in Dir; the others keep the
	// Device/Brand tree.
	Flat bool
}

// SystemProfileDir returns the profile directory of goos for scope. Windows
// has a single flat directory whatever the scope.
func SystemProfileDir(goos, scope, home string) (ExportTarget, error) {
	scope = strings.ToLower(strings.TrimSpace(scope))
	if scope != ScopeUser && scope != ScopeSystem {
		return ExportTarget{}, failure.Wrap(failure.ErrValidation, "export", "resolve directory", fmt.Sprintf("unknown scope %q", scope), nil)
	}
	switch goos {
	case "darwin":
		if scope == ScopeSystem {
			return ExportTarget{Dir: "/Library/ColorSync/Profiles"}, nil
		}
		if home == "" {
			return ExportTarget{}, failure.Wrap(failure.ErrConfiguration, "export", "resolve directory", "home directory unknown", nil)
		}
		return ExportTarget{Dir: filepath.Join(home, "Library", "ColorSync", "Profiles")}, nil
	case "windows":
		return ExportTarget{Dir: windowsColorDir, Flat: true}, nil
	case "linux":
		if scope == ScopeSystem {
			return ExportTarget{Dir: "/usr/share/color/icc"}, nil
		}
		if home == "" {
			return ExportTarget{}, failure.Wrap(failure.ErrConfiguration, "export", "resolve directory", "home directory unknown", nil)
		}
		return ExportTarget{Dir: filepath.Join(home, ".local", "share", "icc")}, nil
	default:
		return ExportTarget{}, failure.Wrap(failure.ErrNotFound, "export", "resolve directory", fmt.Sprintf("no profile directory known for %s", goos), nil)
	}
}

// ExportResult reports an Export run.
type ExportResult struct {
	Copied   int
	Failures []Failure
}

// Export copies every .icc and .icm file under from into to. The destination
// must already exist. With flat set the tree is collapsed into to.
func (o *Organizer) Export(ctx context.Context, from, to string, flat bool) (ExportResult, error) {
	logger := logging.WithContext(ctx, o.logger).With(logging.String("export_dir", to))
	var result ExportResult

	info, err := os.Stat(to)
	if err != nil {
		return result, failure.Wrap(failure.ErrNotFound, "export", "stat destination", to, err)
	}
	if !info.IsDir() {
		return result, failure.Wrap(failure.ErrValidation, "export", "stat destination", to+" is not a directory", nil)
	}

	var files []string
	err = filepath.WalkDir(from, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && describable(filepath.Ext(d.Name())) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return result, failure.Wrap(failure.ErrIO, "export", "scan", from, err)
	}
	sort.Strings(files)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		dest := filepath.Join(to, filepath.Base(path))
		if !flat {
			rel, err := filepath.Rel(from, path)
			if err != nil {
				result.Failures = append(result.Failures, newFailure(path, failure.Wrap(failure.ErrIO, "export", "relative path", path, err)))
				continue
			}
			dest = filepath.Join(to, rel)
		}
		if err := fileutil.CopyVerified(path, dest); err != nil {
			wrapped := failure.Wrap(failure.ErrIO, "export", "copy", filepath.Base(path), err)
			result.Failures = append(result.Failures, newFailure(path, wrapped))
			logging.WarnWithContext(logger, "profile not exported", "profile_export_failed",
				logging.File(path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "system directories usually need elevated privileges"),
			)
			continue
		}
		result.Copied++
	}
	logger.Info("export complete", logging.Int("copied", result.Copied), logging.Int("failures", len(result.Failures)), logging.Bool("flat", flat))
	return result, nil
}
