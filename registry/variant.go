// Package registry holds the catalogue of section variants. A registry is
// populated once at start and is read-only afterwards; every read returns deep
// copies so callers can never mutate the catalogue.
package registry

import (
	"github.com/a-h/templ"

	"github.com/goliatone/go-folio/layering"
	"github.com/goliatone/go-folio/schema"
)

// SectionType groups interchangeable variants.
type SectionType string

const (
	SectionHero         SectionType = "hero"
	SectionAbout        SectionType = "about"
	SectionProjects     SectionType = "projects"
	SectionSkills       SectionType = "skills"
	SectionExperience   SectionType = "experience"
	SectionTimeline     SectionType = "timeline"
	SectionTestimonials SectionType = "testimonials"
	SectionContact      SectionType = "contact"
	SectionNavbar       SectionType = "navbar"
	SectionFooter       SectionType = "footer"
	SectionGallery      SectionType = "gallery"
	SectionCustom       SectionType = "custom"
)

// Renderer paints a resolved instance.
type Renderer func(View) templ.Component

// Variant is one selectable implementation of a section type.
type Variant struct {
	SectionType   SectionType    `json:"sectionType" yaml:"section"`
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	Tags          []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Category      string         `json:"category,omitempty" yaml:"category,omitempty"`
	Popular       bool           `json:"popular,omitempty" yaml:"popular,omitempty"`
	Premium       bool           `json:"premium,omitempty" yaml:"premium,omitempty"`
	DefaultProps  map[string]any `json:"defaultProps" yaml:"defaultProps"`
	DefaultStyles map[string]any `json:"defaultStyles" yaml:"defaultStyles"`
	PropsSchema   schema.Fields  `json:"propsSchema,omitempty" yaml:"propsSchema,omitempty"`
	RendererKey   string         `json:"renderer,omitempty" yaml:"renderer,omitempty"`
	Render        Renderer       `json:"-" yaml:"-"`
}

// Clone returns a deep copy of the variant.
func (v Variant) Clone() Variant {
	out := v
	out.Tags = append([]string(nil), v.Tags...)
	out.DefaultProps = layering.CloneMap(v.DefaultProps)
	out.DefaultStyles = layering.CloneMap(v.DefaultStyles)
	out.PropsSchema = layering.Clone(v.PropsSchema)
	if out.DefaultProps == nil {
		out.DefaultProps = map[string]any{}
	}
	if out.DefaultStyles == nil {
		out.DefaultStyles = map[string]any{}
	}
	return out
}

// Key returns the "section/id" identifier used in logs and CLI output.
func (v Variant) Key() string {
	return string(v.SectionType) + "/" + v.ID
}

type variantKey struct {
	section SectionType
	id      string
}
