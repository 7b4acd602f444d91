package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"profileorg/internal/logging"
)

// Preferences holds both persisted caches: Files maps an exact filename to the
// chosen device and overrides Rules, which maps a candidate key to a device.
type Preferences struct {
	Files map[string]string
	Rules map[string]string
}

func NewPreferences() Preferences {
	return Preferences{Files: map[string]string{}, Rules: map[string]string{}}
}

// Clone returns a deep copy with non-nil maps.
func (p Preferences) Clone() Preferences {
	out := NewPreferences()
	for k, v := range p.Files {
		out.Files[k] = v
	}
	for k, v := range p.Rules {
		out.Rules[k] = v
	}
	return out
}

// Remove deletes key from both caches and reports whether anything matched.
func (p Preferences) Remove(key string) bool {
	_, file := p.Files[key]
	_, rule := p.Rules[key]
	delete(p.Files, key)
	delete(p.Rules, key)
	return file || rule
}

// Entry kinds reported by Preferences.Entries.
const (
	KindRule = "rule"
	KindFile = "file"
)

type Entry struct {
	Kind   string `json:"kind"`
	Key    string `json:"key"`
	Device string `json:"device"`
}

// Entries lists rules then per-file choices, each sorted by key.
func (p Preferences) Entries() []Entry {
	out := make([]Entry, 0, len(p.Rules)+len(p.Files))
	out = appendSorted(out, KindRule, p.Rules)
	out = appendSorted(out, KindFile, p.Files)
	return out
}

func appendSorted(out []Entry, kind string, m map[string]string) []Entry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, Entry{Kind: kind, Key: k, Device: m[k]})
	}
	return out
}

// Store persists Preferences. Save always receives the complete state.
type Store interface {
	Load(ctx context.Context) (Preferences, error)
	Save(ctx context.Context, prefs Preferences) error
}

// FileStore keeps the two caches as flat JSON objects. An empty path disables
// that document.
type FileStore struct {
	ChoicesPath     string
	PreferencesPath string
	logger          *slog.Logger
}

func NewFileStore(choicesPath, preferencesPath string, logger *slog.Logger) *FileStore {
	return &FileStore{
		ChoicesPath:     strings.TrimSpace(choicesPath),
		PreferencesPath: strings.TrimSpace(preferencesPath),
		logger:          logging.NewComponentLogger(logger, "preferences"),
	}
}

// Load reads both documents. Missing files load as empty; a document that does
// not parse is logged and treated as empty so the run can continue.
func (s *FileStore) Load(ctx context.Context) (Preferences, error) {
	if err := ctx.Err(); err != nil {
		return Preferences{}, err
	}
	prefs := NewPreferences()
	var err error
	if prefs.Files, err = s.readDocument(s.ChoicesPath); err != nil {
		return Preferences{}, err
	}
	if prefs.Rules, err = s.readDocument(s.PreferencesPath); err != nil {
		return Preferences{}, err
	}
	s.logger.Debug("loaded preference caches",
		logging.Int("file_choices", len(prefs.Files)),
		logging.Int("rules", len(prefs.Rules)),
	)
	return prefs, nil
}

// Save rewrites both documents in full.
func (s *FileStore) Save(ctx context.Context, prefs Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeDocument(s.ChoicesPath, prefs.Files); err != nil {
		return err
	}
	return writeDocument(s.PreferencesPath, prefs.Rules)
}

func (s *FileStore) readDocument(path string) (map[string]string, error) {
	out := map[string]string{}
	if path == "" {
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		logging.WarnWithContext(s.logger, "preference cache unreadable", "preference_cache_corrupt",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete or fix the file; it is rewritten on the next choice"),
			logging.String(logging.FieldImpact, "learned choices in this file are ignored"),
		)
		return map[string]string{}, nil
	}
	return out, nil
}

// writeDocument writes atomically via a temp file in the same directory.
func writeDocument(path string, entries map[string]string) error {
	if path == "" {
		return nil
	}
	if entries == nil {
		entries = map[string]string{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests and dry runs.
type MemoryStore struct {
	mu      sync.Mutex
	prefs   Preferences
	saves   int
	LoadErr error
	SaveErr error
}

func NewMemoryStore(initial Preferences) *MemoryStore {
	return &MemoryStore{prefs: initial.Clone()}
}

func (s *MemoryStore) Load(context.Context) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return Preferences{}, s.LoadErr
	}
	return s.prefs.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, prefs Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.prefs = prefs.Clone()
	s.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Snapshot returns the last saved state.
func (s *MemoryStore) Snapshot() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.Clone()
}
