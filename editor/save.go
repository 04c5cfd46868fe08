package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/pkg/state"
)

var (
	// ErrSaveInFlight is returned when a save starts while another one for
	// the same session is still running.
	ErrSaveInFlight = errors.New("editor: save already in progress")
	// ErrNothingToSave is returned for documents without components.
	ErrNothingToSave = state.ErrNothingToSave
)

// StorageError wraps failures that came from the persistence layer rather
// than from the document.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	if e == nil || e.Err == nil {
		return "editor: storage failure"
	}
	return "editor: storage failure: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Persister stores a document on behalf of an identity. *state.Service
// implements it.
type Persister interface {
	Save(ctx context.Context, who state.Identity, p folio.Portfolio, meta state.Meta) (state.Saved, error)
}

// Saver persists a session. Only one save runs at a time; a failed save
// leaves the in-memory document and its dirty flag untouched.
type Saver struct {
	session *Session
	persist Persister
	who     state.Identity

	mu       sync.Mutex
	inFlight bool
	etag     string
}

// NewSaver binds session to persist for who. etag is the revision the
// document was loaded at, or empty for new documents.
func NewSaver(session *Session, persist Persister, who state.Identity, etag string) *Saver {
	return &Saver{session: session, persist: persist, who: who, etag: etag}
}

// Save snapshots the session and persists it. The returned error is one of
// ErrSaveInFlight, ErrNothingToSave, a *state.ValidationError or a
// *StorageError; ownership and slug sentinels from state stay matchable.
func (s *Saver) Save(ctx context.Context) (state.Saved, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return state.Saved{}, ErrSaveInFlight
	}
	s.inFlight = true
	etag := s.etag
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	doc, revision := s.session.Snapshot()
	if len(doc.Components) == 0 {
		return state.Saved{}, ErrNothingToSave
	}
	if err := doc.Validate(); err != nil {
		return state.Saved{}, &state.ValidationError{Err: err}
	}

	saved, err := s.persist.Save(ctx, s.who, doc, state.Meta{ETag: etag})
	if err != nil {
		return state.Saved{}, classifySaveError(err)
	}

	s.mu.Lock()
	s.etag = saved.ETag
	s.mu.Unlock()
	s.session.MarkSaved(revision, saved.ID, saved.Slug)
	return saved, nil
}

// InFlight reports whether a save is running.
func (s *Saver) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

func classifySaveError(err error) error {
	var verr *state.ValidationError
	switch {
	case errors.Is(err, ErrNothingToSave), errors.As(err, &verr):
		return err
	default:
		return &StorageError{Err: err}
	}
}

// SaveResult is handed to autosave observers.
type SaveResult struct {
	Saved    state.Saved
	Err      error
	Duration time.Duration
}

// AutosaveOption configures an Autosaver.
type AutosaveOption func(*Autosaver)

// WithDebounce sets the quiet period.
func WithDebounce(delay time.Duration) AutosaveOption {
	return func(a *Autosaver) {
		a.delay = delay
	}
}

// WithAutosaveClock replaces the debounce clock.
func WithAutosaveClock(clock Clock) AutosaveOption {
	return func(a *Autosaver) {
		a.clock = clock
	}
}

// WithResultHook observes every autosave attempt.
func WithResultHook(hook func(SaveResult)) AutosaveOption {
	return func(a *Autosaver) {
		a.onResult = hook
	}
}

// Autosaver saves a session after edits settle.
type Autosaver struct {
	ctx       context.Context
	saver     *Saver
	debouncer *Debouncer
	delay     time.Duration
	clock     Clock
	onResult  func(SaveResult)
}

// NewAutosaver subscribes to session changes and saves through saver once
// they go quiet. ctx bounds every save it starts.
func NewAutosaver(ctx context.Context, session *Session, saver *Saver, opts ...AutosaveOption) *Autosaver {
	a := &Autosaver{ctx: ctx, saver: saver, delay: DefaultDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	a.debouncer = NewDebouncer(a.delay, a.run, WithClock(a.clock))
	session.AddChangeHook(func(Change) { a.debouncer.Trigger() })
	return a
}

// Pending reports whether a save is scheduled.
func (a *Autosaver) Pending() bool {
	return a.debouncer.Pending()
}

// Flush saves now if anything is scheduled.
func (a *Autosaver) Flush() {
	a.debouncer.Flush()
}

// Stop cancels scheduled saves.
func (a *Autosaver) Stop() {
	a.debouncer.Stop()
}

func (a *Autosaver) run() {
	start := time.Now()
	saved, err := a.saver.Save(a.ctx)
	if errors.Is(err, ErrSaveInFlight) {
		// the running save holds an older snapshot; try again later
		a.debouncer.Trigger()
	}
	if a.onResult != nil {
		a.onResult(SaveResult{Saved: saved, Err: err, Duration: time.Since(start)})
	}
}
