// Package editor is the composition surface: it mutates a Portfolio in
// response to user actions and keeps instance order contiguous after every
// change. Autosave is built from a Debouncer and a single-flight Saver.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/dynamic"
	"github.com/goliatone/go-folio/layering"
	"github.com/goliatone/go-folio/registry"
	"github.com/goliatone/go-folio/schema"
	"github.com/goliatone/go-folio/theme"
)

var (
	// ErrUnknownVariant is returned when an add or switch names a variant the
	// registry does not have.
	ErrUnknownVariant = folio.ErrUnknownVariant
	// ErrInstanceNotFound is returned by operations that need an existing
	// instance. Plain updates treat unknown ids as no-ops instead.
	ErrInstanceNotFound = errors.New("editor: instance not found")
	// ErrNotList is returned when an array operation targets a non-list prop.
	ErrNotList = errors.New("editor: property is not a list")
)

// Direction moves an instance one slot.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Patch is a shallow update. Nil fields are left alone; non-nil maps
// replace the instance map wholesale.
type Patch struct {
	Name     *string
	Props    map[string]any
	Styles   map[string]any
	IsActive *bool
}

// Change describes one applied mutation.
type Change struct {
	Op         string
	InstanceID string
	Revision   int
}

// ChangeHook observes applied mutations. Hooks run after the session lock
// is released.
type ChangeHook func(Change)

// Option configures a Session.
type Option func(*Session)

// WithRegistry sets the variant registry. The resolver is rebuilt on it.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Session) {
		if reg != nil {
			s.resolver = folio.NewResolver(reg)
		}
	}
}

// WithResolver sets the resolver used for switches and previews.
func WithResolver(resolver *folio.Resolver) Option {
	return func(s *Session) {
		if resolver != nil {
			s.resolver = resolver
		}
	}
}

// WithIDGenerator replaces the instance id source.
func WithIDGenerator(next func() string) Option {
	return func(s *Session) {
		if next != nil {
			s.newID = next
		}
	}
}

// WithChangeHook registers a hook for every applied mutation.
func WithChangeHook(hook ChangeHook) Option {
	return func(s *Session) {
		if hook != nil {
			s.hooks = append(s.hooks, hook)
		}
	}
}

// Session is an editing session over one portfolio. Methods are guarded by
// a mutex so an autosave goroutine can snapshot the document while the user
// keeps editing; edits themselves are expected to come from one caller.
type Session struct {
	mu       sync.Mutex
	doc      folio.Portfolio
	resolver *folio.Resolver
	newID    func() string
	hooks    []ChangeHook

	selected      string
	revision      int
	savedRevision int
}

// NewSession starts a session on a copy of p. The copy is renumbered so
// order is contiguous from the first edit on.
func NewSession(p folio.Portfolio, opts ...Option) *Session {
	s := &Session{
		doc:      p.Clone(),
		resolver: folio.NewResolver(nil),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.doc.Theme = theme.Normalize(s.doc.Theme)
	s.doc.SortByOrder()
	s.doc.Renumber()
	return s
}

// AddChangeHook registers hook after construction.
func (s *Session) AddChangeHook(hook ChangeHook) {
	if hook == nil {
		return
	}
	s.mu.Lock()
	s.hooks = append(s.hooks, hook)
	s.mu.Unlock()
}

// Document returns a copy of the current document.
func (s *Session) Document() folio.Portfolio {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Snapshot returns a copy of the document with the revision it reflects.
func (s *Session) Snapshot() (folio.Portfolio, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone(), s.revision
}

// Registry returns the registry backing the session.
func (s *Session) Registry() *registry.Registry {
	return s.resolver.Registry()
}

// Instance returns a copy of the instance with id.
func (s *Session) Instance(id string) (folio.Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.doc.Instance(id)
	if !ok {
		return folio.Instance{}, false
	}
	return inst.Clone(), true
}

// Select marks id as the instance being edited. Selection is editor state
// and never touches the document.
func (s *Session) Select(id string) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
}

// Selected returns the selected instance id.
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Revision counts applied mutations.
func (s *Session) Revision() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Dirty reports whether there are edits newer than the last save.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision != s.savedRevision
}

// MarkSaved records that revision was persisted as id and slug. Edits made
// after the snapshot keep the session dirty.
func (s *Session) MarkSaved(revision int, id, slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" {
		s.doc.ID = id
	}
	if slug != "" {
		s.doc.Slug = slug
	}
	if revision > s.savedRevision {
		s.savedRevision = revision
	}
}

// AddInstance appends an instance of (section, variantID) with copies of the
// variant defaults and selects it.
func (s *Session) AddInstance(section registry.SectionType, variantID string) (folio.Instance, error) {
	variant, ok := s.resolver.Registry().Lookup(section, variantID)
	if !ok {
		return folio.Instance{}, fmt.Errorf("%w: %s/%s", ErrUnknownVariant, section, variantID)
	}
	return s.AddVariant(variant), nil
}

// AddVariant appends an instance of v. The new instance takes order
// count(active) and becomes the selection.
func (s *Session) AddVariant(v registry.Variant) folio.Instance {
	inst := folio.Instance{
		SectionType: v.SectionType,
		VariantID:   v.ID,
		Props:       layering.CloneMap(v.DefaultProps),
		Styles:      layering.CloneMap(v.DefaultStyles),
		IsActive:    true,
	}
	return s.appendInstance("add", inst)
}

// AddMarketplace appends an instance that renders entry's component code.
func (s *Session) AddMarketplace(entry dynamic.Entry) (folio.Instance, error) {
	if entry.Status != dynamic.StatusApproved {
		return folio.Instance{}, fmt.Errorf("%w: %s", dynamic.ErrEntryNotApproved, entry.ID)
	}
	section := registry.SectionType(entry.SectionType)
	if section == "" {
		section = registry.SectionCustom
	}
	inst := folio.Instance{
		SectionType:   section,
		VariantID:     entry.ID,
		Name:          entry.Name,
		Props:         layering.CloneMap(entry.DefaultProps),
		Styles:        layering.CloneMap(entry.DefaultStyles),
		IsActive:      true,
		IsMarketplace: true,
		ComponentCode: entry.Code,
		MarketplaceID: entry.ID,
	}
	return s.appendInstance("add-marketplace", inst), nil
}

// AddFromCatalog fetches an approved entry and adds it.
func (s *Session) AddFromCatalog(ctx context.Context, catalog dynamic.Catalog, entryID string) (folio.Instance, error) {
	entry, err := catalog.Approved(ctx, entryID)
	if err != nil {
		return folio.Instance{}, err
	}
	return s.AddMarketplace(entry)
}

func (s *Session) appendInstance(op string, inst folio.Instance) folio.Instance {
	s.mu.Lock()
	inst.ID = s.newID()
	inst.Order = s.doc.ActiveCount()
	if inst.Props == nil {
		inst.Props = map[string]any{}
	}
	if inst.Styles == nil {
		inst.Styles = map[string]any{}
	}
	s.doc.Components = append(s.doc.Components, inst)
	s.doc.Renumber()
	s.selected = inst.ID
	added, _ := s.doc.Instance(inst.ID)
	change := s.commitLocked(op, inst.ID)
	s.mu.Unlock()
	s.notify(change)
	return added.Clone()
}

// UpdateInstance applies patch to the instance with id. It reports whether
// an instance was found; unknown ids are ignored so late UI events after a
// delete are harmless.
func (s *Session) UpdateInstance(id string, patch Patch) bool {
	return s.mutate("update", id, func(inst *folio.Instance) {
		if patch.Name != nil {
			inst.Name = *patch.Name
		}
		if patch.Props != nil {
			inst.Props = layering.CloneMap(patch.Props)
		}
		if patch.Styles != nil {
			inst.Styles = layering.CloneMap(patch.Styles)
		}
		if patch.IsActive != nil {
			inst.IsActive = *patch.IsActive
		}
	})
}

// UpdateProp sets one prop.
func (s *Session) UpdateProp(id, key string, value any) bool {
	return s.mutate("update-prop", id, func(inst *folio.Instance) {
		inst.Props[key] = layering.Clone(value)
	})
}

// UpdateStyle sets one style override.
func (s *Session) UpdateStyle(id, key string, value any) bool {
	return s.mutate("update-style", id, func(inst *folio.Instance) {
		inst.Styles[key] = layering.Clone(value)
	})
}

// SetActive hides or shows an instance without removing it.
func (s *Session) SetActive(id string, active bool) bool {
	return s.mutate("set-active", id, func(inst *folio.Instance) {
		inst.IsActive = active
	})
}

// RemoveInstance deletes the instance and renumbers the rest.
func (s *Session) RemoveInstance(id string) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.doc.Components = append(s.doc.Components[:idx], s.doc.Components[idx+1:]...)
	s.doc.Renumber()
	if s.selected == id {
		s.selected = ""
	}
	change := s.commitLocked("remove", id)
	s.mu.Unlock()
	s.notify(change)
	return true
}

// Reorder swaps the instance with the nearest instance in dir that shares
// its visibility, then renumbers. Instances of the other visibility stay
// where they are. Moves past either end do nothing.
func (s *Session) Reorder(id string, dir Direction) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	next := -1
	if idx >= 0 && (dir == Up || dir == Down) {
		for i := idx + int(dir); i >= 0 && i < len(s.doc.Components); i += int(dir) {
			if s.doc.Components[i].IsActive == s.doc.Components[idx].IsActive {
				next = i
				break
			}
		}
	}
	if next < 0 {
		s.mu.Unlock()
		return false
	}
	s.doc.Components[idx], s.doc.Components[next] = s.doc.Components[next], s.doc.Components[idx]
	s.doc.Renumber()
	change := s.commitLocked("reorder-"+dir.String(), id)
	s.mu.Unlock()
	s.notify(change)
	return true
}

// Duplicate appends a copy of the instance under a fresh id.
func (s *Session) Duplicate(id string) (folio.Instance, error) {
	s.mu.Lock()
	source, ok := s.doc.Instance(id)
	if !ok {
		s.mu.Unlock()
		return folio.Instance{}, fmt.Errorf("%w: %s", ErrInstanceNotFound, id)
	}
	copied := source.Clone()
	copied.ID = s.newID()
	copied.Order = len(s.doc.Components)
	s.doc.Components = append(s.doc.Components, copied)
	s.doc.Renumber()
	out, _ := s.doc.Instance(copied.ID)
	change := s.commitLocked("duplicate", copied.ID)
	s.mu.Unlock()
	s.notify(change)
	return out.Clone(), nil
}

// BulkApplyStyle writes every key of delta into the styles of every
// instance, overwriting what was there. Props are untouched. There is no
// undo. It returns the number of instances changed.
func (s *Session) BulkApplyStyle(delta map[string]any) int {
	if len(delta) == 0 {
		return 0
	}
	s.mu.Lock()
	for i := range s.doc.Components {
		inst := &s.doc.Components[i]
		if inst.Styles == nil {
			inst.Styles = map[string]any{}
		}
		for key, value := range delta {
			inst.Styles[key] = layering.Clone(value)
		}
	}
	n := len(s.doc.Components)
	var change Change
	if n > 0 {
		change = s.commitLocked("bulk-style", "")
	}
	s.mu.Unlock()
	if n > 0 {
		s.notify(change)
	}
	return n
}

// SwitchVariant moves the instance to another variant of its section,
// keeping user edits.
func (s *Session) SwitchVariant(id, variantID string) (folio.Instance, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return folio.Instance{}, fmt.Errorf("%w: %s", ErrInstanceNotFound, id)
	}
	switched, err := s.resolver.SwitchVariant(s.doc.Components[idx], variantID)
	if err != nil {
		s.mu.Unlock()
		return folio.Instance{}, err
	}
	s.doc.Components[idx] = switched
	change := s.commitLocked("switch-variant", id)
	s.mu.Unlock()
	s.notify(change)
	return switched.Clone(), nil
}

// ApplyColorScheme replaces the theme colors with a preset.
func (s *Session) ApplyColorScheme(schemeID string) error {
	return s.updateTheme("color-scheme", func(t theme.Theme) (theme.Theme, error) {
		return theme.ApplyColorScheme(t, schemeID)
	})
}

// ApplySpacingPreset replaces the theme spacing with a preset.
func (s *Session) ApplySpacingPreset(presetID string) error {
	return s.updateTheme("spacing-preset", func(t theme.Theme) (theme.Theme, error) {
		return theme.ApplySpacingPreset(t, presetID)
	})
}

// SetTheme replaces the theme after validating it.
func (s *Session) SetTheme(t theme.Theme) error {
	return s.updateTheme("theme", func(theme.Theme) (theme.Theme, error) {
		if err := t.Validate(); err != nil {
			return theme.Theme{}, err
		}
		return t, nil
	})
}

// Theme returns the current theme.
func (s *Session) Theme() theme.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Theme
}

func (s *Session) updateTheme(op string, apply func(theme.Theme) (theme.Theme, error)) error {
	s.mu.Lock()
	next, err := apply(s.doc.Theme)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc.Theme = next
	change := s.commitLocked(op, "")
	s.mu.Unlock()
	s.notify(change)
	return nil
}

// Resolve previews the effective props and styles of an instance.
func (s *Session) Resolve(id string) (folio.Resolution, error) {
	s.mu.Lock()
	inst, ok := s.doc.Instance(id)
	t := s.doc.Theme
	s.mu.Unlock()
	if !ok {
		return folio.Resolution{}, fmt.Errorf("%w: %s", ErrInstanceNotFound, id)
	}
	return s.resolver.Resolve(inst, t), nil
}

// FormFor plans the edit form of an instance. Keys without schema metadata
// are sniffed from the variant default, so marketplace and dangling
// instances still get a usable form from their current values.
func (s *Session) FormFor(id string) (schema.Form, error) {
	inst, ok := s.Instance(id)
	if !ok {
		return schema.Form{}, fmt.Errorf("%w: %s", ErrInstanceNotFound, id)
	}
	fields, defaults := s.schemaFor(inst)
	return schema.Plan(fields, defaults, inst.Props), nil
}

// AddArrayItem appends an empty element to a list prop. Lists of records
// get a record shaped by the item schema.
func (s *Session) AddArrayItem(id, key string) error {
	inst, ok := s.Instance(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInstanceNotFound, id)
	}
	items, err := listValue(inst.Props[key], key)
	if err != nil {
		return err
	}
	fields, defaults := s.schemaFor(inst)
	field, declared := fields[key]
	if !declared {
		field = schema.Sniff(defaults[key])
		if len(field.ItemSchema) == 0 && len(items) > 0 {
			field = schema.Sniff(items)
		}
	}
	next := schema.AddItem(items, field.ItemSchema)
	s.mutate("add-item", id, func(inst *folio.Instance) {
		inst.Props[key] = next
	})
	return nil
}

// RemoveArrayItem removes element index from a list prop. Later elements
// shift down so indexes stay contiguous.
func (s *Session) RemoveArrayItem(id, key string, index int) error {
	inst, ok := s.Instance(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInstanceNotFound, id)
	}
	items, err := listValue(inst.Props[key], key)
	if err != nil {
		return err
	}
	next, err := schema.RemoveItem(items, index)
	if err != nil {
		return err
	}
	s.mutate("remove-item", id, func(inst *folio.Instance) {
		inst.Props[key] = next
	})
	return nil
}

func (s *Session) schemaFor(inst folio.Instance) (schema.Fields, map[string]any) {
	if folio.IsDynamic(inst) {
		return nil, nil
	}
	variant, ok := s.resolver.Registry().Lookup(inst.SectionType, inst.VariantID)
	if !ok {
		return nil, nil
	}
	return variant.PropsSchema, variant.DefaultProps
}

func listValue(value any, key string) ([]any, error) {
	switch typed := value.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return typed, nil
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s is %T", ErrNotList, key, value)
	}
}

func (s *Session) mutate(op, id string, apply func(*folio.Instance)) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	inst := &s.doc.Components[idx]
	if inst.Props == nil {
		inst.Props = map[string]any{}
	}
	if inst.Styles == nil {
		inst.Styles = map[string]any{}
	}
	wasActive := inst.IsActive
	apply(inst)
	if inst.IsActive != wasActive {
		s.doc.Renumber()
	}
	change := s.commitLocked(op, id)
	s.mu.Unlock()
	s.notify(change)
	return true
}

func (s *Session) indexLocked(id string) int {
	for i, inst := range s.doc.Components {
		if inst.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) commitLocked(op, id string) Change {
	s.revision++
	return Change{Op: op, InstanceID: id, Revision: s.revision}
}

func (s *Session) notify(change Change) {
	s.mu.Lock()
	hooks := append([]ChangeHook(nil), s.hooks...)
	s.mu.Unlock()
	for _, hook := range hooks {
		hook(change)
	}
}
