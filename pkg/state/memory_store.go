package state

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-folio"
)

// MemoryStore is an in-memory Store intended for tests and examples.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	slugs   map[string]string
	now     func() time.Time
}

type memoryRecord struct {
	doc     folio.Portfolio
	version int
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryClock replaces the timestamp source.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		records: map[string]memoryRecord{},
		slugs:   map[string]string{},
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context, idOrSlug, ownerID string) (folio.Portfolio, Meta, error) {
	if err := ctx.Err(); err != nil {
		return folio.Portfolio{}, Meta{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[idOrSlug]
	if !ok {
		if id, bySlug := s.slugs[idOrSlug]; bySlug {
			record, ok = s.records[id]
		}
	}
	if !ok {
		return folio.Portfolio{}, Meta{}, fmt.Errorf("%w: %s", ErrNotFound, idOrSlug)
	}
	if !CanRead(record.doc, ownerID) {
		return folio.Portfolio{}, Meta{}, fmt.Errorf("%w: %s", ErrAccessDenied, idOrSlug)
	}
	return record.doc.Clone(), record.meta(), nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, p folio.Portfolio, meta Meta) (Saved, error) {
	if err := ctx.Err(); err != nil {
		return Saved{}, err
	}
	if p.Slug == "" {
		return Saved{}, ErrSlugRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.records[p.ID]
	if exists {
		if existing.doc.OwnerID != p.OwnerID {
			return Saved{}, fmt.Errorf("%w: %s", ErrAccessDenied, p.ID)
		}
		if meta.ETag != "" && meta.ETag != existing.etag() {
			return Saved{}, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, existing.etag())
		}
	}
	if holderID, taken := s.slugs[p.Slug]; taken {
		holder := s.records[holderID]
		if err := SlugConflict(p, holderID, holder.doc.OwnerID); err != nil {
			return Saved{}, err
		}
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := s.now().UTC()
	doc := p.Clone()
	doc.UpdatedAt = now
	version := 1
	if exists {
		doc.CreatedAt = existing.doc.CreatedAt
		doc.ViewCount = existing.doc.ViewCount
		version = existing.version + 1
		if existing.doc.Slug != doc.Slug {
			delete(s.slugs, existing.doc.Slug)
		}
	} else {
		doc.CreatedAt = now
	}

	record := memoryRecord{doc: doc, version: version}
	s.records[doc.ID] = record
	s.slugs[doc.Slug] = doc.ID
	return Saved{
		ID:        doc.ID,
		Slug:      doc.Slug,
		ETag:      record.etag(),
		Created:   !exists,
		UpdatedAt: now,
	}, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if record.doc.OwnerID != ownerID {
		return fmt.Errorf("%w: %s", ErrAccessDenied, id)
	}
	delete(s.records, id)
	delete(s.slugs, record.doc.Slug)
	return nil
}

// List implements Store. Rows are sorted by most recent update, then slug.
func (s *MemoryStore) List(ctx context.Context, ownerID string) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0)
	for _, record := range s.records {
		if record.doc.OwnerID == ownerID {
			out = append(out, SummaryOf(record.doc))
		}
	}
	SortSummaries(out)
	return out, nil
}

// SortSummaries orders rows by most recent update, then slug.
func SortSummaries(rows []Summary) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].UpdatedAt.Equal(rows[j].UpdatedAt) {
			return rows[i].UpdatedAt.After(rows[j].UpdatedAt)
		}
		return rows[i].Slug < rows[j].Slug
	})
}

func (r memoryRecord) etag() string {
	return strconv.Itoa(r.version)
}

func (r memoryRecord) meta() Meta {
	return Meta{ETag: r.etag(), CreatedAt: r.doc.CreatedAt, UpdatedAt: r.doc.UpdatedAt}
}
