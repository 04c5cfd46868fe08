package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/validation"
)

// ErrSlugRequired is returned by stores asked to save a document without a slug.
var ErrSlugRequired = errors.New("state: slug is required")

// SlugConflict classifies a collision between the document being saved and
// the document currently holding its slug. A document keeping its own slug
// is never a conflict.
func SlugConflict(saving folio.Portfolio, holderID, holderOwner string) error {
	if holderID == "" || holderID == saving.ID {
		return nil
	}
	if holderOwner != saving.OwnerID {
		return fmt.Errorf("%w: %s", ErrSlugTaken, saving.Slug)
	}
	return fmt.Errorf("%w: %s", ErrDuplicateSlug, saving.Slug)
}

// NormalizeSlug lowercases and trims a user supplied slug and validates it.
func NormalizeSlug(slug string) (string, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return "", ErrSlugRequired
	}
	if err := validation.Slug(slug); err != nil {
		return "", err
	}
	return slug, nil
}

// CandidateSlugs lists slugs to try for a document that has none: the slug
// of its name or title, then numbered variants. Documents without a usable
// name fall back to a prefix of their id.
func CandidateSlugs(p folio.Portfolio, attempts int) []string {
	base := folio.GenerateSlug(p.Name)
	if base == "" {
		base = folio.GenerateSlug(p.Title)
	}
	if base == "" {
		id := folio.GenerateSlug(p.ID)
		if len(id) > 8 {
			id = strings.Trim(id[:8], "-")
		}
		base = "portfolio"
		if id != "" {
			base += "-" + id
		}
	}
	if attempts < 1 {
		attempts = 1
	}
	out := make([]string, 0, attempts)
	out = append(out, base)
	for i := 2; len(out) < attempts; i++ {
		suffix := fmt.Sprintf("-%d", i)
		trimmed := base
		if len(trimmed)+len(suffix) > folio.MaxSlugLength {
			trimmed = strings.TrimRight(trimmed[:folio.MaxSlugLength-len(suffix)], "-")
		}
		out = append(out, trimmed+suffix)
	}
	return out
}
