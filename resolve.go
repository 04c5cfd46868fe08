package folio

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-folio/css"
	"github.com/goliatone/go-folio/layering"
	"github.com/goliatone/go-folio/registry"
	"github.com/goliatone/go-folio/theme"
)

var (
	// ErrUnknownVariant is returned when a section/variant pair is not registered.
	ErrUnknownVariant = errors.New("folio: unknown variant")
	// ErrDynamicInstance is returned for registry operations on marketplace instances.
	ErrDynamicInstance = errors.New("folio: instance renders from component code")
)

// Status describes how an instance was resolved.
type Status int

const (
	// StatusResolved means the variant was found and defaults were applied.
	StatusResolved Status = iota
	// StatusUnresolved means the variant reference dangles; instance maps
	// are used verbatim and the renderer paints a placeholder.
	StatusUnresolved
	// StatusDynamic means the instance renders from component code.
	StatusDynamic
)

func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusUnresolved:
		return "unresolved"
	case StatusDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Shared style channels the theme can supply.
const (
	StyleBackgroundColor = "backgroundColor"
	StyleTextColor       = "textColor"
	StylePrimaryColor    = "primaryColor"
	StyleSecondaryColor  = "secondaryColor"
	StyleBorderRadius    = "borderRadius"
)

// Text colors used for the textColor channel.
const (
	LightText = "#f8fafc"
	DarkText  = "#0f172a"
)

// Resolution is the effective state of one instance.
type Resolution struct {
	InstanceID string
	Status     Status
	Source     Source
	Variant    registry.Variant
	Props      map[string]any
	Styles     map[string]any
	Theme      theme.Theme
}

// View converts the resolution into what a static renderer receives.
func (r Resolution) View(inst Instance) registry.View {
	return registry.View{
		InstanceID:  inst.ID,
		SectionType: inst.SectionType,
		VariantID:   inst.VariantID,
		Props:       r.Props,
		Styles:      r.Styles,
		Theme:       r.Theme,
	}
}

// Resolver computes effective props and styles. It performs no I/O and is
// safe for concurrent use.
type Resolver struct {
	registry *registry.Registry
}

// NewResolver binds a resolver to reg, or to the built-in catalogue when
// reg is nil.
func NewResolver(reg *registry.Registry) *Resolver {
	if reg == nil {
		reg = registry.Builtin()
	}
	return &Resolver{registry: reg}
}

// Registry returns the variant registry backing the resolver.
func (r *Resolver) Registry() *registry.Registry {
	return r.registry
}

// Resolve computes the effective props and styles for inst under t.
func (r *Resolver) Resolve(inst Instance, t theme.Theme) Resolution {
	res := Resolution{
		InstanceID: inst.ID,
		Source:     SourceOf(inst),
		Theme:      t,
	}
	switch res.Source.(type) {
	case DynamicSource:
		res.Status = StatusDynamic
		res.Props = layering.MergeProps(nil, inst.Props)
		res.Styles = ResolveStyles(nil, inst.Styles, t)
		return res
	}

	variant, ok := r.registry.Lookup(inst.SectionType, inst.VariantID)
	if !ok {
		res.Status = StatusUnresolved
		res.Props = verbatim(inst.Props)
		res.Styles = verbatim(inst.Styles)
		return res
	}
	res.Status = StatusResolved
	res.Variant = variant
	res.Props = ResolveProps(variant.DefaultProps, inst.Props)
	res.Styles = ResolveStyles(variant.DefaultStyles, inst.Styles, t)
	return res
}

// SwitchVariant moves inst to another variant of the same section. Current
// props and styles are re-merged over the new defaults with the usual rules
// so user edits survive and fields only the new variant has are adopted.
func (r *Resolver) SwitchVariant(inst Instance, variantID string) (Instance, error) {
	if IsDynamic(inst) {
		return inst, fmt.Errorf("%w: %s", ErrDynamicInstance, inst.ID)
	}
	variant, ok := r.registry.Lookup(inst.SectionType, variantID)
	if !ok {
		return inst, fmt.Errorf("%w: %s/%s", ErrUnknownVariant, inst.SectionType, variantID)
	}
	out := inst.Clone()
	out.VariantID = variant.ID
	out.Props = ResolveProps(variant.DefaultProps, inst.Props)
	out.Styles = layering.Overlay(variant.DefaultStyles, inst.Styles)
	return out, nil
}

// ResolveProps applies the meaningful-value merge. Nil values, empty lists
// and empty records in overrides never erase a default; any other value
// wins, including "", 0 and false. This keeps default content such as a
// seeded project list alive while an instance is still half initialised.
func ResolveProps(defaults, overrides map[string]any) map[string]any {
	return layering.MergeProps(defaults, overrides)
}

// ResolveStyles overlays instance overrides on defaults. Shared channels the
// instance leaves undefined come from the theme, even over a variant default,
// and dark mode always forces light text.
func ResolveStyles(defaults, overrides map[string]any, t theme.Theme) map[string]any {
	styles := layering.Overlay(defaults, overrides)
	for key, value := range ThemeFallbacks(t) {
		if !defined(overrides, key) {
			styles[key] = value
		}
	}
	if t.IsDark() {
		styles[StyleTextColor] = LightText
	}
	return styles
}

// ApplyThemeFallbacks fills the shared channels styles leaves undefined and
// forces light text in dark mode. The input is not modified.
func ApplyThemeFallbacks(styles map[string]any, t theme.Theme) map[string]any {
	return ResolveStyles(nil, styles, t)
}

// ThemeFallbacks returns every shared channel value t supplies.
func ThemeFallbacks(t theme.Theme) map[string]any {
	text := DarkText
	if t.IsDark() {
		text = LightText
	}
	return map[string]any{
		StyleBackgroundColor: t.Colors.Background,
		StyleTextColor:       text,
		StylePrimaryColor:    t.Colors.Primary,
		StyleSecondaryColor:  t.Colors.Secondary,
		StyleBorderRadius:    css.Pixels(t.BorderRadius),
	}
}

func defined(m map[string]any, key string) bool {
	value, ok := m[key]
	return ok && value != nil
}

func verbatim(m map[string]any) map[string]any {
	out := layering.CloneMap(m)
	if out == nil {
		return map[string]any{}
	}
	return out
}
