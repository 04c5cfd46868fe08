package dynamic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-folio/layering"
)

var (
	// ErrEntryNotFound is returned when the catalog has no entry for an id.
	ErrEntryNotFound = errors.New("dynamic: marketplace entry not found")
	// ErrEntryNotApproved is returned for entries still under review or rejected.
	ErrEntryNotApproved = errors.New("dynamic: marketplace entry not approved")
)

// Status is the moderation state of a marketplace entry.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Entry is a marketplace component submission.
type Entry struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	SectionType   string         `json:"sectionType,omitempty"`
	Code          string         `json:"code"`
	DefaultProps  map[string]any `json:"defaultProps,omitempty"`
	DefaultStyles map[string]any `json:"defaultStyles,omitempty"`
	Status        Status         `json:"status"`
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	e.DefaultProps = layering.CloneMap(e.DefaultProps)
	e.DefaultStyles = layering.CloneMap(e.DefaultStyles)
	return e
}

// Catalog hands out approved marketplace entries. Moderation happens
// elsewhere; the engine only consumes what it returns.
type Catalog interface {
	Approved(ctx context.Context, id string) (Entry, error)
}

// MemoryCatalog is an in-process Catalog.
type MemoryCatalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryCatalog seeds a catalog with entries.
func NewMemoryCatalog(entries ...Entry) *MemoryCatalog {
	c := &MemoryCatalog{entries: make(map[string]Entry, len(entries))}
	for _, entry := range entries {
		c.Put(entry)
	}
	return c
}

// Put stores or replaces an entry.
func (c *MemoryCatalog) Put(entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[string]Entry{}
	}
	c.entries[entry.ID] = entry.Clone()
}

// SetStatus changes the moderation state of an entry.
func (c *MemoryCatalog) SetStatus(id string, status Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	entry.Status = status
	c.entries[id] = entry
	return nil
}

// Approved implements Catalog.
func (c *MemoryCatalog) Approved(ctx context.Context, id string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	if entry.Status != StatusApproved {
		return Entry{}, fmt.Errorf("%w: %s (%s)", ErrEntryNotApproved, id, entry.Status)
	}
	return entry.Clone(), nil
}

// List returns every entry sorted by id, regardless of status.
func (c *MemoryCatalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
