package activity

import (
	"strings"
	"time"
)

// Verbs emitted for portfolio lifecycle events.
const (
	VerbPortfolioCreated  = "portfolio.created"
	VerbPortfolioUpdated  = "portfolio.updated"
	VerbPortfolioDeleted  = "portfolio.deleted"
	VerbPortfolioRendered = "portfolio.rendered_with_errors"

	ObjectPortfolio = "portfolio"
)

// PortfolioEventInput describes the common fields for portfolio events.
type PortfolioEventInput struct {
	ActorID      string
	UserID       string
	TenantID     string
	PortfolioID  string
	Slug         string
	PreviousSlug string
	Channel      string
	Components   int
	Failures     []string
	Metadata     map[string]any
	OccurredAt   time.Time
}

// BuildPortfolioCreatedEvent constructs the event for a first save.
func BuildPortfolioCreatedEvent(input PortfolioEventInput) Event {
	return buildPortfolioEvent(VerbPortfolioCreated, input)
}

// BuildPortfolioUpdatedEvent constructs the event for a later save.
func BuildPortfolioUpdatedEvent(input PortfolioEventInput) Event {
	return buildPortfolioEvent(VerbPortfolioUpdated, input)
}

// BuildPortfolioDeletedEvent constructs the event for a deletion.
func BuildPortfolioDeletedEvent(input PortfolioEventInput) Event {
	return buildPortfolioEvent(VerbPortfolioDeleted, input)
}

// BuildPortfolioRenderedWithErrorsEvent reports instances that rendered as
// placeholders. Failures hold instance ids.
func BuildPortfolioRenderedWithErrorsEvent(input PortfolioEventInput) Event {
	return buildPortfolioEvent(VerbPortfolioRendered, input)
}

func buildPortfolioEvent(verb string, input PortfolioEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if slug := strings.TrimSpace(input.Slug); slug != "" {
		metadata = ensureMetadata(metadata)
		metadata["slug"] = slug
	}
	if prev := strings.TrimSpace(input.PreviousSlug); prev != "" && prev != strings.TrimSpace(input.Slug) {
		metadata = ensureMetadata(metadata)
		metadata["previous_slug"] = prev
	}
	if input.Components > 0 {
		metadata = ensureMetadata(metadata)
		metadata["components"] = input.Components
	}
	if len(input.Failures) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["failures"] = append([]string{}, input.Failures...)
	}

	objectID := strings.TrimSpace(input.PortfolioID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Slug)
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectPortfolio,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
