package cli

import (
	"errors"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/dynamic"
	"github.com/goliatone/go-folio/internal/config"
	"github.com/goliatone/go-folio/pkg/state"
	"github.com/goliatone/go-folio/validation"
)

// classify attaches an errbuilder code to err so the exit code reflects
// what went wrong. Errors that already carry a code are returned as is.
func classify(msg string, err error) error {
	if err == nil {
		return nil
	}
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) {
		return err
	}
	return errbuilder.New().
		WithCode(codeFor(err)).
		WithMsg(msg).
		WithCause(err)
}

func codeFor(err error) errbuilder.ErrCode {
	var verr *state.ValidationError
	switch {
	case errors.Is(err, state.ErrNotFound),
		errors.Is(err, dynamic.ErrEntryNotFound):
		return errbuilder.CodeNotFound
	case errors.Is(err, state.ErrAccessDenied),
		errors.Is(err, state.ErrIdentityRequired):
		return errbuilder.CodePermissionDenied
	case errors.Is(err, state.ErrSlugTaken),
		errors.Is(err, state.ErrDuplicateSlug):
		return errbuilder.CodeAlreadyExists
	case errors.Is(err, state.ErrETagMismatch),
		errors.Is(err, state.ErrNothingToSave):
		return errbuilder.CodeFailedPrecondition
	case errors.As(err, &verr),
		errors.Is(err, validation.ErrInvalid),
		errors.Is(err, folio.ErrUnknownVariant),
		errors.Is(err, folio.ErrDuplicateInstanceID),
		errors.Is(err, folio.ErrMissingInstanceID),
		errors.Is(err, config.ErrInvalid):
		return errbuilder.CodeInvalidArgument
	default:
		return errbuilder.CodeInternal
	}
}

func invalidArgument(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
}

func failedPrecondition(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(msg)
}

func invalidArgumentCause(msg string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg).
		WithCause(err)
}

func errNotFound(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(msg)
}
