package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	exprvm "github.com/expr-lang/expr/vm"
)

var (
	// ErrDuplicateVariant is returned when (section, id) is registered twice.
	ErrDuplicateVariant = errors.New("registry: duplicate variant")
	// ErrInvalidVariant is returned for variants missing a section or id.
	ErrInvalidVariant = errors.New("registry: invalid variant")
	// ErrUnknownRenderer is returned when a variant names a renderer key that
	// has not been registered.
	ErrUnknownRenderer = errors.New("registry: unknown renderer")
)

// Option configures a Registry.
type Option func(*Registry)

// WithRenderer registers a named renderer available to catalogue entries.
func WithRenderer(name string, fn Renderer) Option {
	return func(r *Registry) {
		if name == "" || fn == nil {
			return
		}
		r.renderers[name] = fn
	}
}

// Registry is the variant catalogue. Registration happens before serving;
// every read method is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	variants  map[variantKey]Variant
	order     []variantKey
	sections  []SectionType
	renderers map[string]Renderer

	exprMu    sync.Mutex
	exprCache map[string]*exprvm.Program
}

// New creates an empty registry with the built-in renderers available.
func New(opts ...Option) *Registry {
	r := &Registry{
		variants:  map[variantKey]Variant{},
		renderers: builtinRenderers(),
		exprCache: map[string]*exprvm.Program{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Register adds a variant. A variant without a Render func is bound to its
// RendererKey, or to the generic renderer when no key is set.
func (r *Registry) Register(v Variant) error {
	if v.SectionType == "" || v.ID == "" {
		return fmt.Errorf("%w: section and id are required (got %q)", ErrInvalidVariant, v.Key())
	}
	if err := v.PropsSchema.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidVariant, v.Key(), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := variantKey{section: v.SectionType, id: v.ID}
	if _, exists := r.variants[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateVariant, v.Key())
	}
	if v.Render == nil {
		name := v.RendererKey
		if name == "" {
			name = RendererGeneric
		}
		fn, ok := r.renderers[name]
		if !ok {
			return fmt.Errorf("%w %q for %s", ErrUnknownRenderer, name, v.Key())
		}
		v.Render = fn
	}
	if v.Name == "" {
		v.Name = v.ID
	}

	stored := v.Clone()
	r.variants[key] = stored
	r.order = append(r.order, key)
	if !r.hasSectionLocked(v.SectionType) {
		r.sections = append(r.sections, v.SectionType)
	}
	return nil
}

// MustRegister panics when Register fails. It is meant for static catalogues.
func (r *Registry) MustRegister(variants ...Variant) *Registry {
	for _, v := range variants {
		if err := r.Register(v); err != nil {
			panic(err)
		}
	}
	return r
}

// Lookup returns a copy of the variant. Unknown identifiers report false.
func (r *Registry) Lookup(section SectionType, id string) (Variant, bool) {
	if r == nil {
		return Variant{}, false
	}
	r.mu.RLock()
	v, ok := r.variants[variantKey{section: section, id: id}]
	r.mu.RUnlock()
	if !ok {
		return Variant{}, false
	}
	return v.Clone(), true
}

// ListBySection returns the variants of section in registration order.
func (r *Registry) ListBySection(section SectionType) []Variant {
	return r.collect(func(v Variant) bool { return v.SectionType == section })
}

// All returns every variant in registration order.
func (r *Registry) All() []Variant {
	return r.collect(func(Variant) bool { return true })
}

// ListPopular returns popular variants in registration order, truncated to
// limit. A limit of zero or less returns all of them.
func (r *Registry) ListPopular(limit int) []Variant {
	popular := r.collect(func(v Variant) bool { return v.Popular })
	if limit > 0 && len(popular) > limit {
		popular = popular[:limit]
	}
	return popular
}

// Sections returns the section types in first-registration order.
func (r *Registry) Sections() []SectionType {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]SectionType(nil), r.sections...)
}

// Len returns the number of registered variants.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Renderers returns the registered renderer keys, sorted.
func (r *Registry) Renderers() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent registry holding the same variants and
// renderers, so a host can extend a shared catalogue without mutating it.
func (r *Registry) Clone() *Registry {
	clone := New()
	if r == nil {
		return clone
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, fn := range r.renderers {
		clone.renderers[name] = fn
	}
	for _, key := range r.order {
		clone.variants[key] = r.variants[key].Clone()
	}
	clone.order = append([]variantKey(nil), r.order...)
	clone.sections = append([]SectionType(nil), r.sections...)
	return clone
}

func (r *Registry) collect(keep func(Variant) bool) []Variant {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Variant, 0)
	for _, key := range r.order {
		v := r.variants[key]
		if keep(v) {
			out = append(out, v.Clone())
		}
	}
	return out
}

func (r *Registry) hasSectionLocked(section SectionType) bool {
	for _, existing := range r.sections {
		if existing == section {
			return true
		}
	}
	return false
}
