package editor

import (
	"errors"

	"github.com/goliatone/go-folio/pkg/state"
)

// Message turns a save outcome into text for the person editing.
func Message(err error) string {
	var (
		verr    *state.ValidationError
		storage *StorageError
	)
	switch {
	case err == nil:
		return "All changes saved."
	case errors.Is(err, ErrSaveInFlight):
		return "A save is already in progress."
	case errors.Is(err, ErrNothingToSave):
		return "Add at least one section before saving."
	case errors.As(err, &verr):
		return "Some settings are invalid. Fix the highlighted fields and save again."
	case errors.Is(err, state.ErrIdentityRequired):
		return "Sign in to save your portfolio."
	case errors.Is(err, state.ErrSlugTaken):
		return "That address is already taken. Choose a different slug."
	case errors.Is(err, state.ErrDuplicateSlug):
		return "You already have a portfolio at that address."
	case errors.Is(err, state.ErrAccessDenied):
		return "You do not have permission to change this portfolio."
	case errors.Is(err, state.ErrETagMismatch):
		return "This portfolio was changed somewhere else. Reload to get the latest version."
	case errors.As(err, &storage):
		return "Saving failed. Your changes are kept here; try again in a moment."
	default:
		return "Something went wrong while saving. Your changes are kept here."
	}
}
