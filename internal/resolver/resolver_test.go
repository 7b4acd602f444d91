package resolver

import (
	"context"
	"errors"
	"testing"

	"profileorg/internal/catalog"
	"profileorg/internal/failure"
	"profileorg/internal/matcher"
)

type countingDecider struct {
	device string
	ok     bool
	err    error
	calls  int
}

func (d *countingDecider) Decide(context.Context, string, []matcher.Candidate) (string, bool, error) {
	d.calls++
	return d.device, d.ok, d.err
}

func newResolver(t *testing.T, store Store, opts ...Option) *Resolver {
	t.Helper()
	r, err := New(context.Background(), store, matcher.New(catalog.Default()), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestCandidateKeySortsKeys(t *testing.T) {
	got := CandidateKey([]matcher.Candidate{{Key: "P9570"}, {Key: "P7570"}, {Key: "Can6450"}})
	if got != "Can6450-P7570-P9570" {
		t.Fatalf("CandidateKey = %q", got)
	}
}

func TestResolveNoConflictReturnsDetected(t *testing.T) {
	store := NewMemoryStore(NewPreferences())
	r := newResolver(t, store)
	res, err := r.Resolve(context.Background(), "dir/MOAB Lasal Luster P900.icc", "Epson P900")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.State != NoConflict || res.Device != "Epson P900" || res.Source != SourceDetected {
		t.Fatalf("unexpected resolution %+v", res)
	}
	if res.Filename != "MOAB Lasal Luster P900.icc" || res.Key != "" {
		t.Fatalf("filename or key wrong: %+v", res)
	}
	if store.Saves() != 0 {
		t.Fatal("no conflict must not write")
	}
}

func TestResolveLearnsFromDecider(t *testing.T) {
	store := NewMemoryStore(NewPreferences())
	decider := &countingDecider{device: "Epson P7570", ok: true}
	r := newResolver(t, store, WithDecider(decider), WithInteractive(true))
	ctx := context.Background()

	first, err := r.Resolve(ctx, "Luster P7570 P9570.icc", "Epson P9570")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first.State != Resolved || first.Source != SourceDecider || first.Device != "Epson P7570" {
		t.Fatalf("first resolution %+v", first)
	}
	if first.Key != "P7570-P9570" {
		t.Fatalf("key = %q", first.Key)
	}

	second, err := r.Resolve(ctx, "Glossy P9570 P7570 v2.icc", "Epson P9570")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if second.State != Resolved || second.Source != SourceRule || second.Device != "Epson P7570" {
		t.Fatalf("second resolution %+v", second)
	}
	if decider.calls != 1 {
		t.Fatalf("decider called %d times, want 1", decider.calls)
	}

	snap := store.Snapshot()
	if snap.Rules["P7570-P9570"] != "Epson P7570" {
		t.Fatalf("rule not persisted: %+v", snap.Rules)
	}
	if snap.Files["Luster P7570 P9570.icc"] != "Epson P7570" || snap.Files["Glossy P9570 P7570 v2.icc"] != "Epson P7570" {
		t.Fatalf("file choices not persisted: %+v", snap.Files)
	}
	if store.Saves() != 2 {
		t.Fatalf("saves = %d, want one per mutation", store.Saves())
	}
}

func TestResolveFileChoiceOverridesRule(t *testing.T) {
	prefs := NewPreferences()
	prefs.Rules["P7570-P9570"] = "Epson P7570"
	prefs.Files["Luster P7570 P9570.icc"] = "Epson P9570"
	store := NewMemoryStore(prefs)
	r := newResolver(t, store)

	res, err := r.Resolve(context.Background(), "Luster P7570 P9570.icc", "Epson P7570")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Device != "Epson P9570" || res.Source != SourceFile {
		t.Fatalf("file cache should win: %+v", res)
	}
	if store.Saves() != 0 {
		t.Fatal("file cache hit must not write")
	}
}

func TestResolveUnresolvedWithoutInteraction(t *testing.T) {
	decider := &countingDecider{device: "Epson P7570", ok: true}
	r := newResolver(t, NewMemoryStore(NewPreferences()), WithDecider(decider))
	res, err := r.Resolve(context.Background(), "Luster P7570 P9570.icc", "Epson P9570")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.State != Unresolved || res.Device != "Epson P9570" || len(res.Candidates) != 2 {
		t.Fatalf("unexpected resolution %+v", res)
	}
	if decider.calls != 0 {
		t.Fatal("decider must not run when interaction is disabled")
	}
}

func TestResolveDeclinedAndFailingDecider(t *testing.T) {
	store := NewMemoryStore(NewPreferences())
	declined := &countingDecider{ok: false}
	r := newResolver(t, store, WithDecider(declined), WithInteractive(true))
	res, err := r.Resolve(context.Background(), "Luster P7570 P9570.icc", "Epson P9570")
	if err != nil || res.State != Unresolved || res.Device != "Epson P9570" {
		t.Fatalf("declined: %+v %v", res, err)
	}
	if store.Saves() != 0 {
		t.Fatal("declined choice must not be stored")
	}

	failing := &countingDecider{err: errors.New("stdin closed")}
	r = newResolver(t, store, WithDecider(failing), WithInteractive(true))
	res, err = r.Resolve(context.Background(), "Luster P7570 P9570.icc", "Epson P9570")
	if !errors.Is(err, failure.ErrIO) || res.State != Unresolved || res.Device != "Epson P9570" {
		t.Fatalf("failing decider: %+v %v", res, err)
	}
}

func TestResolveSaveFailureKeepsResolution(t *testing.T) {
	store := NewMemoryStore(NewPreferences())
	store.SaveErr = errors.New("disk full")
	decider := &countingDecider{device: "Epson P7570", ok: true}
	r := newResolver(t, store, WithDecider(decider), WithInteractive(true))
	res, err := r.Resolve(context.Background(), "Luster P7570 P9570.icc", "Epson P9570")
	if !errors.Is(err, failure.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
	if res.State != Resolved || res.Device != "Epson P7570" {
		t.Fatalf("resolution lost on save failure: %+v", res)
	}
	if r.Preferences().Rules["P7570-P9570"] != "Epson P7570" {
		t.Fatal("choice should still apply for the rest of the run")
	}
}

func TestNewWrapsLoadError(t *testing.T) {
	store := NewMemoryStore(NewPreferences())
	store.LoadErr = errors.New("permission denied")
	if _, err := New(context.Background(), store, nil); !errors.Is(err, failure.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestForgetAndClear(t *testing.T) {
	prefs := NewPreferences()
	prefs.Rules["P7570-P9570"] = "Epson P7570"
	prefs.Files["a.icc"] = "Epson P9570"
	store := NewMemoryStore(prefs)
	r := newResolver(t, store)
	ctx := context.Background()

	removed, err := r.Forget(ctx, "P7570-P9570")
	if err != nil || !removed {
		t.Fatalf("Forget = %v, %v", removed, err)
	}
	if _, ok := store.Snapshot().Rules["P7570-P9570"]; ok {
		t.Fatal("rule still persisted")
	}
	if removed, _ := r.Forget(ctx, "missing"); removed {
		t.Fatal("Forget reported a missing key")
	}
	if err := r.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if entries := store.Snapshot().Entries(); len(entries) != 0 {
		t.Fatalf("entries after clear: %+v", entries)
	}
}
