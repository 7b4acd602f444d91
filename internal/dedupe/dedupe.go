package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
)

// ChunkSize is the read size used while hashing.
const ChunkSize = 8192

// HashFile returns the hex SHA-256 of the file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, ChunkSize)); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Group is one content hash and its paths in first-seen order.
type Group struct {
	Hash  string
	Paths []string
}

// Keeper is the first path of the group.
func (g Group) Keeper() string { return g.Paths[0] }

// Duplicates are every path after the keeper.
func (g Group) Duplicates() []string { return g.Paths[1:] }

// Groups is an insertion-ordered set of groups.
type Groups struct {
	order  []string
	groups map[string]*Group
	byPath map[string]string
}

// GroupFiles hashes paths in the given order. Files that cannot be read are
// returned as errors and left out of every group. Callers fix the traversal
// order, for example with SortPaths, to get reproducible keepers.
func GroupFiles(paths []string) (*Groups, []error) {
	g := &Groups{groups: make(map[string]*Group), byPath: make(map[string]string)}
	var errs []error
	for _, path := range paths {
		if _, seen := g.byPath[path]; seen {
			continue
		}
		hash, err := HashFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		g.add(hash, path)
	}
	return g, errs
}

func (g *Groups) add(hash, path string) {
	group, ok := g.groups[hash]
	if !ok {
		group = &Group{Hash: hash}
		g.groups[hash] = group
		g.order = append(g.order, hash)
	}
	group.Paths = append(group.Paths, path)
	g.byPath[path] = hash
}

// Order returns the groups in first-encounter order.
func (g *Groups) Order() []Group {
	out := make([]Group, 0, len(g.order))
	for _, hash := range g.order {
		out = append(out, g.copyOf(hash))
	}
	return out
}

func (g *Groups) copyOf(hash string) Group {
	group := g.groups[hash]
	return Group{Hash: group.Hash, Paths: append([]string(nil), group.Paths...)}
}

func (g *Groups) Get(hash string) (Group, bool) {
	if _, ok := g.groups[hash]; !ok {
		return Group{}, false
	}
	return g.copyOf(hash), true
}

// Len is the number of distinct contents.
func (g *Groups) Len() int { return len(g.order) }

// Keepers lists one path per content, in group order.
func (g *Groups) Keepers() []string {
	out := make([]string, 0, len(g.order))
	for _, hash := range g.order {
		out = append(out, g.groups[hash].Paths[0])
	}
	return out
}

// Duplicates lists every non-keeper path, group by group.
func (g *Groups) Duplicates() []string {
	var out []string
	for _, hash := range g.order {
		out = append(out, g.groups[hash].Paths[1:]...)
	}
	return out
}

// DuplicateSets counts groups holding more than one path.
func (g *Groups) DuplicateSets() int {
	n := 0
	for _, hash := range g.order {
		if len(g.groups[hash].Paths) > 1 {
			n++
		}
	}
	return n
}

// IsDuplicate reports whether path was grouped and is not its group's keeper.
func (g *Groups) IsDuplicate(path string) bool {
	hash, ok := g.byPath[path]
	if !ok {
		return false
	}
	return g.groups[hash].Paths[0] != path
}

// KeeperOf returns the keeper of the group path belongs to.
func (g *Groups) KeeperOf(path string) (string, bool) {
	hash, ok := g.byPath[path]
	if !ok {
		return "", false
	}
	return g.groups[hash].Paths[0], true
}

// SortPaths returns a lexicographically sorted copy.
func SortPaths(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}
