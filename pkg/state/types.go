package state

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-folio"
)

var (
	// ErrNotFound is returned when no document matches the id or slug.
	ErrNotFound = errors.New("state: portfolio not found")
	// ErrAccessDenied is returned when the identity does not own a private document.
	ErrAccessDenied = errors.New("state: access denied")
	// ErrSlugTaken is returned when the slug belongs to another owner.
	ErrSlugTaken = errors.New("state: slug taken")
	// ErrDuplicateSlug is returned when the owner already has a document with the slug.
	ErrDuplicateSlug = errors.New("state: duplicate slug for this owner")
	// ErrNothingToSave is returned for documents without components.
	ErrNothingToSave = errors.New("state: nothing to save")
	// ErrETagMismatch is returned when the stored revision moved on.
	ErrETagMismatch = errors.New("state: etag mismatch")
	// ErrIdentityRequired is returned when a write has no resolved user.
	ErrIdentityRequired = errors.New("state: identity required")
)

// Identity is the already authenticated caller. The engine performs no
// authentication; it only compares ids.
type Identity struct {
	UserID string
}

// Anonymous reports whether no user is attached.
func (i Identity) Anonymous() bool {
	return strings.TrimSpace(i.UserID) == ""
}

// Meta is storage-owned metadata used for concurrency control.
type Meta struct {
	ETag      string    `json:"etag,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Saved is what a successful save hands back to the editor.
type Saved struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	ETag      string    `json:"etag"`
	Created   bool      `json:"created"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is one row of an owner's document list.
type Summary struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	OwnerID    string    `json:"owner_id"`
	IsPublic   bool      `json:"is_public"`
	Components int       `json:"components"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store persists whole Portfolio documents.
//
// Load resolves idOrSlug and returns ErrNotFound or ErrAccessDenied; an
// empty ownerID only reaches public documents. Save creates the document
// when its id is empty or unknown and updates it otherwise. Delete and List
// are scoped to ownerID.
type Store interface {
	Load(ctx context.Context, idOrSlug, ownerID string) (folio.Portfolio, Meta, error)
	Save(ctx context.Context, p folio.Portfolio, meta Meta) (Saved, error)
	Delete(ctx context.Context, id, ownerID string) error
	List(ctx context.Context, ownerID string) ([]Summary, error)
}

// SummaryOf builds the list row for p.
func SummaryOf(p folio.Portfolio) Summary {
	return Summary{
		ID:         p.ID,
		Slug:       p.Slug,
		Name:       p.Name,
		OwnerID:    p.OwnerID,
		IsPublic:   p.IsPublic,
		Components: len(p.Components),
		UpdatedAt:  p.UpdatedAt,
	}
}

// CanRead reports whether ownerID may read p.
func CanRead(p folio.Portfolio, ownerID string) bool {
	return p.IsPublic || (ownerID != "" && p.OwnerID == ownerID)
}
