package editor_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/editor"
	"github.com/goliatone/go-folio/pkg/state"
	"github.com/goliatone/go-folio/registry"
)

func TestDebouncerCollapsesBursts(t *testing.T) {
	clock := &manualClock{}
	calls := 0
	d := editor.NewDebouncer(time.Second, func() { calls++ }, editor.WithClock(clock))

	d.Trigger()
	clock.Advance(500 * time.Millisecond)
	d.Trigger()
	clock.Advance(500 * time.Millisecond)
	d.Trigger()
	clock.Advance(999 * time.Millisecond)
	if calls != 0 || !d.Pending() {
		t.Fatalf("expected nothing to fire yet, calls=%d", calls)
	}
	clock.Advance(time.Millisecond)
	if calls != 1 || d.Pending() {
		t.Fatalf("expected a single call after the quiet period, calls=%d", calls)
	}
}

func TestDebouncerFlushAndStop(t *testing.T) {
	clock := &manualClock{}
	calls := 0
	d := editor.NewDebouncer(time.Second, func() { calls++ }, editor.WithClock(clock))

	d.Flush()
	if calls != 0 {
		t.Fatalf("flush without a pending call must do nothing")
	}
	d.Trigger()
	d.Flush()
	clock.Advance(2 * time.Second)
	if calls != 1 {
		t.Fatalf("expected flush to run once and cancel the timer, calls=%d", calls)
	}

	d.Trigger()
	d.Stop()
	d.Trigger()
	clock.Advance(2 * time.Second)
	if calls != 1 {
		t.Fatalf("stopped debouncer must not fire, calls=%d", calls)
	}
}

type fakePersister struct {
	mu      sync.Mutex
	err     error
	calls   int
	block   chan struct{}
	entered chan struct{}
	last    folio.Portfolio
}

func (f *fakePersister) Save(_ context.Context, who state.Identity, p folio.Portfolio, meta state.Meta) (state.Saved, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = p
	if f.err != nil {
		return state.Saved{}, f.err
	}
	slug := p.Slug
	if slug == "" {
		slug = "generated"
	}
	return state.Saved{ID: p.ID, Slug: slug, ETag: "v", Created: meta.ETag == ""}, nil
}

func TestSaverMarksCleanOnSuccess(t *testing.T) {
	s := newSession(t)
	mustAdd(t, s, registry.SectionHero, "hero-centered")
	persist := &fakePersister{}
	saver := editor.NewSaver(s, persist, state.Identity{UserID: "alice"}, "")

	if !s.Dirty() {
		t.Fatalf("expected dirty session before saving")
	}
	if _, err := saver.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if s.Dirty() {
		t.Fatalf("expected clean session after saving")
	}
	if editor.Message(nil) == "" {
		t.Fatalf("expected a success message")
	}
}

func TestSaverFailureKeepsEdits(t *testing.T) {
	s := newSession(t)
	hero := mustAdd(t, s, registry.SectionHero, "hero-centered")
	s.UpdateProp(hero.ID, "name", "Ada")
	persist := &fakePersister{err: errors.New("disk full")}
	saver := editor.NewSaver(s, persist, state.Identity{UserID: "alice"}, "")

	_, err := saver.Save(context.Background())
	var storage *editor.StorageError
	if !errors.As(err, &storage) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if !s.Dirty() {
		t.Fatalf("failed save must leave the session dirty")
	}
	got, _ := s.Instance(hero.ID)
	if got.Props["name"] != "Ada" {
		t.Fatalf("failed save lost the edit")
	}
}

func TestSaverRejectsEmptyAndInvalid(t *testing.T) {
	s := newSession(t)
	saver := editor.NewSaver(s, &fakePersister{}, state.Identity{UserID: "alice"}, "")
	if _, err := saver.Save(context.Background()); !errors.Is(err, editor.ErrNothingToSave) {
		t.Fatalf("expected ErrNothingToSave, got %v", err)
	}

	doc := folio.NewPortfolio("alice", "Broken")
	doc.Slug = "Bad Slug"
	doc.Components = []folio.Instance{{ID: "x", SectionType: "hero", VariantID: "hero-centered", IsActive: true}}
	broken := editor.NewSession(doc)
	_, err := editor.NewSaver(broken, &fakePersister{}, state.Identity{UserID: "alice"}, "").Save(context.Background())
	var verr *state.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSaverSingleFlight(t *testing.T) {
	s := newSession(t)
	mustAdd(t, s, registry.SectionHero, "hero-centered")
	persist := &fakePersister{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	saver := editor.NewSaver(s, persist, state.Identity{UserID: "alice"}, "")

	done := make(chan error, 1)
	go func() {
		_, err := saver.Save(context.Background())
		done <- err
	}()
	<-persist.entered

	if _, err := saver.Save(context.Background()); !errors.Is(err, editor.ErrSaveInFlight) {
		t.Fatalf("expected ErrSaveInFlight, got %v", err)
	}
	close(persist.block)
	if err := <-done; err != nil {
		t.Fatalf("first save: %v", err)
	}
	if saver.InFlight() {
		t.Fatalf("expected the flight to be over")
	}
}

func TestEditsDuringSaveStayDirty(t *testing.T) {
	s := newSession(t)
	hero := mustAdd(t, s, registry.SectionHero, "hero-centered")
	persist := &fakePersister{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	saver := editor.NewSaver(s, persist, state.Identity{UserID: "alice"}, "")

	done := make(chan error, 1)
	go func() {
		_, err := saver.Save(context.Background())
		done <- err
	}()
	<-persist.entered
	s.UpdateProp(hero.ID, "name", "Late edit")
	close(persist.block)
	if err := <-done; err != nil {
		t.Fatalf("save: %v", err)
	}
	if !s.Dirty() {
		t.Fatalf("edit made during the save must keep the session dirty")
	}
}

func TestAutosaverDebouncesEdits(t *testing.T) {
	clock := &manualClock{}
	s := newSession(t)
	persist := &fakePersister{}
	saver := editor.NewSaver(s, persist, state.Identity{UserID: "alice"}, "")
	var results []editor.SaveResult
	auto := editor.NewAutosaver(context.Background(), s, saver,
		editor.WithDebounce(time.Second),
		editor.WithAutosaveClock(clock),
		editor.WithResultHook(func(r editor.SaveResult) { results = append(results, r) }),
	)
	defer auto.Stop()

	hero := mustAdd(t, s, registry.SectionHero, "hero-centered")
	s.UpdateProp(hero.ID, "name", "A")
	s.UpdateProp(hero.ID, "name", "Ad")
	clock.Advance(300 * time.Millisecond)
	s.UpdateProp(hero.ID, "name", "Ada")
	if !auto.Pending() {
		t.Fatalf("expected a scheduled save")
	}
	clock.Advance(time.Second)

	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("expected one successful autosave, got %+v", results)
	}
	if persist.last.Components[0].Props["name"] != "Ada" {
		t.Fatalf("autosave stored a stale snapshot")
	}
	if s.Dirty() {
		t.Fatalf("expected clean session after autosave")
	}
}

func TestMessagesAreDistinct(t *testing.T) {
	errs := []error{
		nil,
		editor.ErrSaveInFlight,
		editor.ErrNothingToSave,
		&state.ValidationError{Err: errors.New("slug")},
		&editor.StorageError{Err: state.ErrSlugTaken},
		&editor.StorageError{Err: state.ErrDuplicateSlug},
		&editor.StorageError{Err: state.ErrAccessDenied},
		&editor.StorageError{Err: state.ErrETagMismatch},
		&editor.StorageError{Err: state.ErrIdentityRequired},
		&editor.StorageError{Err: errors.New("io")},
	}
	seen := map[string]error{}
	for _, err := range errs {
		msg := editor.Message(err)
		if prev, ok := seen[msg]; ok {
			t.Fatalf("message %q shared by %v and %v", msg, prev, err)
		}
		seen[msg] = err
	}
}
