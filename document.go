package folio

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-folio/layering"
	"github.com/goliatone/go-folio/registry"
	"github.com/goliatone/go-folio/theme"
	"github.com/goliatone/go-folio/validation"
)

// Instance is one placed section inside a portfolio. It references a
// registry variant by section and id, or carries its own component code
// when it came from the marketplace.
type Instance struct {
	ID            string               `json:"id"`
	SectionType   registry.SectionType `json:"sectionType"`
	VariantID     string               `json:"variantId"`
	Name          string               `json:"name,omitempty"`
	Props         map[string]any       `json:"props"`
	Styles        map[string]any       `json:"styles"`
	Order         int                  `json:"order"`
	IsActive      bool                 `json:"isActive"`
	IsMarketplace bool                 `json:"isMarketplace,omitempty"`
	ComponentCode string               `json:"componentCode,omitempty"`
	MarketplaceID string               `json:"marketplaceId,omitempty"`
}

// Clone returns a deep copy of the instance.
func (i Instance) Clone() Instance {
	i.Props = layering.CloneMap(i.Props)
	i.Styles = layering.CloneMap(i.Styles)
	if i.Props == nil {
		i.Props = map[string]any{}
	}
	if i.Styles == nil {
		i.Styles = map[string]any{}
	}
	return i
}

// Label names the instance for placeholders and logs.
func (i Instance) Label() string {
	if i.Name != "" {
		return i.Name
	}
	if i.IsMarketplace || i.ComponentCode != "" {
		if i.MarketplaceID != "" {
			return "marketplace/" + i.MarketplaceID
		}
		return "marketplace/" + i.ID
	}
	return string(i.SectionType) + "/" + i.VariantID
}

// Portfolio is the persisted document. Visibility, view counts and
// timestamps belong to the persistence layer and are carried through
// untouched.
type Portfolio struct {
	ID          string            `json:"id"`
	Slug        string            `json:"slug"`
	OwnerID     string            `json:"ownerId"`
	Components  []Instance        `json:"components"`
	Theme       theme.Theme       `json:"theme"`
	Name        string            `json:"name,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Email       string            `json:"email,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Location    string            `json:"location,omitempty"`
	Avatar      string            `json:"avatar,omitempty"`
	SocialLinks map[string]string `json:"socialLinks,omitempty"`
	IsPublic    bool              `json:"isPublic"`
	ViewCount   int64             `json:"viewCount"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// NewPortfolio starts an empty document with the default theme. The slug is
// derived from name and may still be empty; persistence fills it in.
func NewPortfolio(ownerID, name string) Portfolio {
	return Portfolio{
		ID:         uuid.NewString(),
		Slug:       GenerateSlug(name),
		OwnerID:    ownerID,
		Name:       name,
		Components: []Instance{},
		Theme:      theme.Default(),
	}
}

// Clone returns a deep copy of the portfolio.
func (p Portfolio) Clone() Portfolio {
	out := p
	out.Components = make([]Instance, len(p.Components))
	for i, inst := range p.Components {
		out.Components[i] = inst.Clone()
	}
	if p.SocialLinks != nil {
		out.SocialLinks = make(map[string]string, len(p.SocialLinks))
		for k, v := range p.SocialLinks {
			out.SocialLinks[k] = v
		}
	}
	return out
}

// NeedsSlug reports whether persistence must generate a slug.
func (p Portfolio) NeedsSlug() bool {
	return p.Slug == ""
}

// Instance returns the component with id.
func (p Portfolio) Instance(id string) (Instance, bool) {
	for _, inst := range p.Components {
		if inst.ID == id {
			return inst, true
		}
	}
	return Instance{}, false
}

// Active returns the visible instances sorted by order. Ties keep document
// order.
func (p Portfolio) Active() []Instance {
	out := make([]Instance, 0, len(p.Components))
	for _, inst := range p.Components {
		if inst.IsActive {
			out = append(out, inst)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// ActiveCount returns the number of visible instances.
func (p Portfolio) ActiveCount() int {
	n := 0
	for _, inst := range p.Components {
		if inst.IsActive {
			n++
		}
	}
	return n
}

// Renumber rewrites order so active instances hold 0..n-1 in slice order.
// Instances keep their slice position; a hidden instance takes the order of
// the next active one, so hiding and showing an instance returns it to the
// same place and a stable sort on order reproduces the sequence.
func (p *Portfolio) Renumber() {
	if p == nil {
		return
	}
	next := 0
	for i := range p.Components {
		p.Components[i].Order = next
		if p.Components[i].IsActive {
			next++
		}
	}
}

// SortByOrder arranges Components by their order field, keeping document
// order for ties. Decoded documents are sorted before Renumber so stored
// positions survive.
func (p *Portfolio) SortByOrder() {
	if p == nil {
		return
	}
	sort.SliceStable(p.Components, func(i, j int) bool {
		return p.Components[i].Order < p.Components[j].Order
	})
}

var (
	// ErrMissingInstanceID flags an instance without an id.
	ErrMissingInstanceID = errors.New("folio: instance id is required")
	// ErrDuplicateInstanceID flags two instances sharing an id.
	ErrDuplicateInstanceID = errors.New("folio: duplicate instance id")
)

// Validate checks the slug, the theme and instance identity. An empty slug
// is accepted because it only means one still has to be generated.
func (p Portfolio) Validate() error {
	var errs []error
	if p.Slug != "" {
		if err := validation.Slug(p.Slug); err != nil {
			errs = append(errs, fmt.Errorf("slug: %w", err))
		}
	}
	if err := p.Theme.Validate(); err != nil {
		errs = append(errs, err)
	}
	seen := make(map[string]bool, len(p.Components))
	for i, inst := range p.Components {
		if inst.ID == "" {
			errs = append(errs, fmt.Errorf("components[%d]: %w", i, ErrMissingInstanceID))
			continue
		}
		if seen[inst.ID] {
			errs = append(errs, fmt.Errorf("components[%d]: %w: %s", i, ErrDuplicateInstanceID, inst.ID))
		}
		seen[inst.ID] = true
	}
	return errors.Join(errs...)
}
