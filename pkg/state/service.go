package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/pkg/activity"
)

// SlugAttempts bounds how many generated slugs Save tries before giving up.
const SlugAttempts = 5

// ValidationError wraps document validation failures so callers can tell
// them apart from storage failures.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	if e == nil || e.Err == nil {
		return "state: invalid portfolio"
	}
	return "state: invalid portfolio: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEmitter attaches an activity emitter. Emission failures are logged
// and never fail the operation.
func WithEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *Service) {
		s.emitter = emitter
	}
}

// WithClock replaces the time source used for event timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger attaches a logger for emission failures.
func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// Service applies ownership, slug and validation rules in front of a Store.
type Service struct {
	store   Store
	emitter *activity.Emitter
	now     func() time.Time
	logger  zerolog.Logger
}

// NewService wraps store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Store returns the wrapped store.
func (s *Service) Store() Store {
	return s.store
}

// Save validates p and persists it for who. Documents without an owner are
// assigned to who; documents owned by someone else are rejected. An empty
// slug is generated from the name and retried with numbered suffixes on
// collision. A slug the caller chose is never rewritten.
func (s *Service) Save(ctx context.Context, who Identity, p folio.Portfolio, meta Meta) (Saved, error) {
	if who.Anonymous() {
		return Saved{}, ErrIdentityRequired
	}
	if p.OwnerID == "" {
		p.OwnerID = who.UserID
	}
	if p.OwnerID != who.UserID {
		return Saved{}, fmt.Errorf("%w: %s", ErrAccessDenied, p.ID)
	}
	if len(p.Components) == 0 {
		return Saved{}, ErrNothingToSave
	}

	generated := strings.TrimSpace(p.Slug) == ""
	candidates := []string{p.Slug}
	if generated {
		candidates = CandidateSlugs(p, SlugAttempts)
	} else {
		slug, err := NormalizeSlug(p.Slug)
		if err != nil {
			return Saved{}, &ValidationError{Err: fmt.Errorf("slug: %w", err)}
		}
		candidates[0] = slug
	}

	var (
		saved Saved
		err   error
	)
	for _, slug := range candidates {
		p.Slug = slug
		if verr := p.Validate(); verr != nil {
			return Saved{}, &ValidationError{Err: verr}
		}
		saved, err = s.store.Save(ctx, p, meta)
		if err == nil || !generated || !isSlugConflict(err) {
			break
		}
	}
	if err != nil {
		return Saved{}, err
	}

	input := activity.PortfolioEventInput{
		ActorID:     who.UserID,
		UserID:      p.OwnerID,
		PortfolioID: saved.ID,
		Slug:        saved.Slug,
		Components:  len(p.Components),
		OccurredAt:  s.now(),
	}
	if saved.Created {
		s.emit(ctx, activity.BuildPortfolioCreatedEvent(input))
	} else {
		s.emit(ctx, activity.BuildPortfolioUpdatedEvent(input))
	}
	return saved, nil
}

// Load returns the document visible to who. Anonymous callers only reach
// public documents.
func (s *Service) Load(ctx context.Context, who Identity, idOrSlug string) (folio.Portfolio, Meta, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return folio.Portfolio{}, Meta{}, ErrNotFound
	}
	return s.store.Load(ctx, idOrSlug, who.UserID)
}

// Delete removes a document owned by who.
func (s *Service) Delete(ctx context.Context, who Identity, id string) error {
	if who.Anonymous() {
		return ErrIdentityRequired
	}
	if err := s.store.Delete(ctx, id, who.UserID); err != nil {
		return err
	}
	s.emit(ctx, activity.BuildPortfolioDeletedEvent(activity.PortfolioEventInput{
		ActorID:     who.UserID,
		UserID:      who.UserID,
		PortfolioID: id,
		OccurredAt:  s.now(),
	}))
	return nil
}

// List returns who's documents.
func (s *Service) List(ctx context.Context, who Identity) ([]Summary, error) {
	if who.Anonymous() {
		return nil, ErrIdentityRequired
	}
	return s.store.List(ctx, who.UserID)
}

// ReportRender emits an activity event when a render painted placeholders.
func (s *Service) ReportRender(ctx context.Context, who Identity, p folio.Portfolio, report folio.RenderReport) {
	if report.OK() {
		return
	}
	failures := make([]string, len(report.Failures))
	for i, failure := range report.Failures {
		failures[i] = failure.InstanceID
	}
	s.emit(ctx, activity.BuildPortfolioRenderedWithErrorsEvent(activity.PortfolioEventInput{
		ActorID:     who.UserID,
		UserID:      p.OwnerID,
		PortfolioID: p.ID,
		Slug:        p.Slug,
		Failures:    failures,
		OccurredAt:  s.now(),
	}))
}

func (s *Service) emit(ctx context.Context, event activity.Event) {
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("verb", event.Verb).Str("object_id", event.ObjectID).Msg("activity emission failed")
	}
}

func isSlugConflict(err error) bool {
	return errors.Is(err, ErrSlugTaken) || errors.Is(err, ErrDuplicateSlug)
}
