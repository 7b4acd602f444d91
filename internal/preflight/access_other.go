//go:build !unix

package preflight

import (
	"errors"
	"os"
)

// checkAccess opens the directory; write access is probed with a temp file.
func checkAccess(path string, write bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	f.Close()
	if !write {
		return nil
	}
	probe, err := os.CreateTemp(path, ".profileorg-access-*")
	if err != nil {
		return errors.Join(errors.New("directory not writable"), err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
