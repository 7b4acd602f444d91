package resolver

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"profileorg/internal/failure"
	"profileorg/internal/logging"
	"profileorg/internal/matcher"
)

// State is the terminal state of one resolution.
type State int

const (
	NoConflict State = iota
	Resolved
	Unresolved
)

func (s State) String() string {
	switch s {
	case NoConflict:
		return "no_conflict"
	case Resolved:
		return "resolved"
	case Unresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Source names where a resolution's device came from.
type Source string

const (
	SourceDetected Source = "detected"
	SourceFile     Source = "file"
	SourceRule     Source = "rule"
	SourceDecider  Source = "decider"
)

type Resolution struct {
	Filename   string
	Device     string
	State      State
	Source     Source
	Key        string
	Candidates []matcher.Candidate
}

// Decider picks one device for an ambiguous filename. ok is false when the
// caller declines to choose.
type Decider interface {
	Decide(ctx context.Context, filename string, candidates []matcher.Candidate) (device string, ok bool, err error)
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(ctx context.Context, filename string, candidates []matcher.Candidate) (string, bool, error)

func (f DeciderFunc) Decide(ctx context.Context, filename string, candidates []matcher.Candidate) (string, bool, error) {
	return f(ctx, filename, candidates)
}

type Option func(*Resolver)

func WithDecider(d Decider) Option {
	return func(r *Resolver) { r.decider = d }
}

// WithInteractive enables the Decider. Without it ambiguous files that no
// cache answers stay Unresolved.
func WithInteractive(enabled bool) Option {
	return func(r *Resolver) { r.interactive = enabled }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// Resolver holds the loaded preference caches for one run.
type Resolver struct {
	store       Store
	matcher     *matcher.Matcher
	decider     Decider
	interactive bool
	logger      *slog.Logger

	mu    sync.Mutex
	prefs Preferences
}

// New loads the store and returns a resolver over it.
func New(ctx context.Context, store Store, m *matcher.Matcher, opts ...Option) (*Resolver, error) {
	r := &Resolver{store: store, matcher: m}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "resolver")
	if r.store == nil {
		r.store = NewMemoryStore(NewPreferences())
	}
	if r.matcher == nil {
		r.matcher = matcher.New(nil)
	}
	prefs, err := r.store.Load(ctx)
	if err != nil {
		return nil, failure.Wrap(failure.ErrIO, "resolver", "load preferences", "", err)
	}
	r.prefs = prefs.Clone()
	return r, nil
}

// CandidateKey is the stable lookup key of a candidate set: the matched alias
// keys sorted and joined with "-".
func CandidateKey(candidates []matcher.Candidate) string {
	keys := make([]string, 0, len(candidates))
	for _, c := range candidates {
		keys = append(keys, c.Key)
	}
	sort.Strings(keys)
	return strings.Join(keys, "-")
}

// Resolve settles the device for filename. detected is the device the matcher
// chose and is returned unchanged unless the filename is ambiguous and some
// source answers. The returned Resolution is always usable; err reports a
// failed Decider or a failed write of a learned choice.
func (r *Resolver) Resolve(ctx context.Context, filename, detected string) (Resolution, error) {
	name := filepath.Base(filename)
	candidates := r.matcher.Candidates(name)
	res := Resolution{
		Filename:   name,
		Device:     detected,
		State:      NoConflict,
		Source:     SourceDetected,
		Candidates: candidates,
	}
	if len(candidates) <= 1 {
		return res, nil
	}
	res.Key = CandidateKey(candidates)
	logger := logging.WithContext(ctx, r.logger).With(
		logging.File(name),
		logging.String("candidate_key", res.Key),
	)

	r.mu.Lock()
	defer r.mu.Unlock()

	if device, ok := r.prefs.Files[name]; ok && device != "" {
		res.Device, res.State, res.Source = device, Resolved, SourceFile
		logger.Debug("device conflict resolved", logging.Args(logging.DecisionAttrs("device_conflict", device, "cached file choice")...)...)
		return res, nil
	}

	if device, ok := r.prefs.Rules[res.Key]; ok && device != "" {
		res.Device, res.State, res.Source = device, Resolved, SourceRule
		logger.Info("device conflict resolved", logging.Args(logging.DecisionAttrs("device_conflict", device, "learned rule")...)...)
		r.prefs.Files[name] = device
		return res, r.persist(ctx, logger)
	}

	if r.interactive && r.decider != nil {
		device, ok, err := r.decider.Decide(ctx, name, candidates)
		if err != nil {
			res.State = Unresolved
			logging.WarnWithContext(logger, "device choice failed", "device_conflict_prompt_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "using the rule-matched device"),
			)
			return res, failure.Wrap(failure.ErrIO, "resolver", "decide", name, err)
		}
		if ok && strings.TrimSpace(device) != "" {
			device = strings.TrimSpace(device)
			res.Device, res.State, res.Source = device, Resolved, SourceDecider
			logger.Info("device conflict resolved", logging.Args(logging.DecisionAttrs("device_conflict", device, "user choice applied to candidate set")...)...)
			r.prefs.Files[name] = device
			r.prefs.Rules[res.Key] = device
			return res, r.persist(ctx, logger)
		}
	}

	res.State = Unresolved
	logging.WarnWithContext(logger, "multiple devices detected", "device_conflict_unresolved",
		logging.Strings("candidates", candidateDevices(candidates)),
		logging.String("device", detected),
		logging.String(logging.FieldErrorHint, "rerun with --interactive or add a preference rule"),
		logging.String(logging.FieldImpact, "using the rule-matched device"),
	)
	return res, nil
}

func candidateDevices(candidates []matcher.Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Device)
	}
	return out
}

// persist must be called with r.mu held.
func (r *Resolver) persist(ctx context.Context, logger *slog.Logger) error {
	if err := r.store.Save(ctx, r.prefs.Clone()); err != nil {
		logging.WarnWithContext(logger, "preference cache not saved", "preference_cache_save_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the cache files"),
			logging.String(logging.FieldImpact, "the choice applies to this run only"),
		)
		return failure.Wrap(failure.ErrIO, "resolver", "save preferences", "", err)
	}
	return nil
}

// Preferences returns a copy of the current caches.
func (r *Resolver) Preferences() Preferences {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prefs.Clone()
}

// Forget removes key from both caches and persists the result. It reports
// false when nothing matched.
func (r *Resolver) Forget(ctx context.Context, key string) (bool, error) {
	key = strings.TrimSpace(key)
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.prefs.Remove(key) {
		return false, nil
	}
	return true, r.persist(ctx, r.logger)
}

// Clear drops every learned choice.
func (r *Resolver) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs = NewPreferences()
	return r.persist(ctx, r.logger)
}
