package editor_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/dynamic"
	"github.com/goliatone/go-folio/editor"
	"github.com/goliatone/go-folio/registry"
	"github.com/goliatone/go-folio/schema"
	"github.com/goliatone/go-folio/theme"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("inst-%d", n)
	}
}

func newSession(t *testing.T, opts ...editor.Option) *editor.Session {
	t.Helper()
	opts = append([]editor.Option{editor.WithIDGenerator(sequentialIDs())}, opts...)
	return editor.NewSession(folio.NewPortfolio("alice", "Jane Doe"), opts...)
}

func mustAdd(t *testing.T, s *editor.Session, section registry.SectionType, variant string) folio.Instance {
	t.Helper()
	inst, err := s.AddInstance(section, variant)
	if err != nil {
		t.Fatalf("add %s/%s: %v", section, variant, err)
	}
	return inst
}

func assertContiguous(t *testing.T, p folio.Portfolio) {
	t.Helper()
	next := 0
	for _, inst := range p.Components {
		if inst.Order != next {
			t.Fatalf("order gap: instance %s has order %d, want %d", inst.ID, inst.Order, next)
		}
		if inst.IsActive {
			next++
		}
	}
}

func orderOf(p folio.Portfolio) []string {
	ids := make([]string, len(p.Components))
	for i, inst := range p.Components {
		ids[i] = inst.ID
	}
	return ids
}

func TestAddInstanceCopiesDefaults(t *testing.T) {
	s := newSession(t)
	hero := mustAdd(t, s, registry.SectionHero, "hero-centered")
	about := mustAdd(t, s, registry.SectionAbout, "about-simple")

	if hero.Order != 0 || about.Order != 1 || !about.IsActive {
		t.Fatalf("unexpected orders %d %d", hero.Order, about.Order)
	}
	if s.Selected() != about.ID {
		t.Fatalf("expected new instance to be selected, got %q", s.Selected())
	}
	variant, _ := registry.Builtin().Lookup(registry.SectionHero, "hero-centered")
	if diff := cmp.Diff(variant.DefaultProps, hero.Props); diff != "" {
		t.Fatalf("props mismatch (-want +got):\n%s", diff)
	}

	hero.Props["name"] = "mutated"
	again, _ := registry.Builtin().Lookup(registry.SectionHero, "hero-centered")
	if again.DefaultProps["name"] == "mutated" {
		t.Fatalf("instance props alias the registry defaults")
	}

	if _, err := s.AddInstance(registry.SectionHero, "hero-nope"); !errors.Is(err, editor.ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestAddInstanceAfterHiddenKeepsContiguity(t *testing.T) {
	s := newSession(t)
	a := mustAdd(t, s, registry.SectionHero, "hero-centered")
	mustAdd(t, s, registry.SectionAbout, "about-simple")
	s.SetActive(a.ID, false)

	added := mustAdd(t, s, registry.SectionFooter, "footer-simple")
	if added.Order != 1 {
		t.Fatalf("expected order count(active)=1, got %d", added.Order)
	}
	assertContiguous(t, s.Document())
}

func TestHideAndShowKeepsPosition(t *testing.T) {
	s := newSession(t)
	mustAdd(t, s, registry.SectionHero, "hero-centered")
	about := mustAdd(t, s, registry.SectionAbout, "about-simple")
	mustAdd(t, s, registry.SectionFooter, "footer-simple")
	before := orderOf(s.Document())

	s.SetActive(about.ID, false)
	assertContiguous(t, s.Document())
	if diff := cmp.Diff(before, orderOf(s.Document())); diff != "" {
		t.Fatalf("hiding moved the instance (-want +got):\n%s", diff)
	}
	s.SetActive(about.ID, true)
	if diff := cmp.Diff(before, orderOf(s.Document())); diff != "" {
		t.Fatalf("showing did not restore the position (-want +got):\n%s", diff)
	}
	if got, _ := s.Instance(about.ID); got.Order != 1 {
		t.Fatalf("expected restored order 1, got %d", got.Order)
	}
}

func TestReorderSkipsHiddenNeighbours(t *testing.T) {
	s := newSession(t)
	hero := mustAdd(t, s, registry.SectionHero, "hero-centered")
	about := mustAdd(t, s, registry.SectionAbout, "about-simple")
	footer := mustAdd(t, s, registry.SectionFooter, "footer-simple")
	s.SetActive(about.ID, false)

	if !s.Reorder(footer.ID, editor.Up) {
		t.Fatalf("expected move past hidden instance to apply")
	}
	want := []string{footer.ID, about.ID, hero.ID}
	if diff := cmp.Diff(want, orderOf(s.Document())); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	assertContiguous(t, s.Document())
}

func TestOrderStaysContiguousAcrossOperations(t *testing.T) {
	s := newSession(t)
	ids := []string{}
	for _, v := range []struct {
		section registry.SectionType
		id      string
	}{
		{registry.SectionNavbar, "navbar-simple"},
		{registry.SectionHero, "hero-centered"},
		{registry.SectionAbout, "about-simple"},
		{registry.SectionProjects, "projects-grid"},
		{registry.SectionFooter, "footer-simple"},
	} {
		ids = append(ids, mustAdd(t, s, v.section, v.id).ID)
	}

	steps := []func(){
		func() { s.Reorder(ids[4], editor.Up) },
		func() { s.RemoveInstance(ids[1]) },
		func() { _, _ = s.Duplicate(ids[2]) },
		func() { s.SetActive(ids[0], false) },
		func() { s.Reorder(ids[3], editor.Down) },
		func() { mustAdd(t, s, registry.SectionContact, "contact-simple") },
		func() { s.RemoveInstance("missing") },
		func() { s.SetActive(ids[0], true) },
		func() { s.Reorder(ids[2], editor.Up) },
	}
	for i, step := range steps {
		step()
		doc := s.Document()
		assertContiguous(t, doc)
		if i == len(steps)-1 && len(doc.Components) != 6 {
			t.Fatalf("expected 6 instances, got %d", len(doc.Components))
		}
	}
}

func TestReorderBoundaries(t *testing.T) {
	s := newSession(t)
	first := mustAdd(t, s, registry.SectionHero, "hero-centered")
	mustAdd(t, s, registry.SectionAbout, "about-simple")
	last := mustAdd(t, s, registry.SectionFooter, "footer-simple")
	before := orderOf(s.Document())
	rev := s.Revision()

	if s.Reorder(first.ID, editor.Up) || s.Reorder(last.ID, editor.Down) {
		t.Fatalf("boundary moves must be no-ops")
	}
	if diff := cmp.Diff(before, orderOf(s.Document())); diff != "" {
		t.Fatalf("order changed at boundary (-want +got):\n%s", diff)
	}
	if s.Revision() != rev {
		t.Fatalf("no-op must not bump the revision")
	}

	if !s.Reorder(first.ID, editor.Down) {
		t.Fatalf("expected move down to apply")
	}
	want := []string{before[1], before[0], before[2]}
	if diff := cmp.Diff(want, orderOf(s.Document())); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDuplicateAppends(t *testing.T) {
	s := newSession(t)
	hero := mustAdd(t, s, registry.SectionHero, "hero-centered")
	mustAdd(t, s, registry.SectionAbout, "about-simple")
	s.UpdateProp(hero.ID, "name", "Ada")

	dup, err := s.Duplicate(hero.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.ID == hero.ID || dup.Order != 2 || dup.Props["name"] != "Ada" {
		t.Fatalf("unexpected duplicate %+v", dup)
	}
	s.UpdateProp(dup.ID, "name", "Grace")
	original, _ := s.Instance(hero.ID)
	if original.Props["name"] != "Ada" {
		t.Fatalf("duplicate shares props with its source")
	}
	if _, err := s.Duplicate("missing"); !errors.Is(err, editor.ErrInstanceNotFound) {
		t.Fatalf("expected ErrInstanceNotFound, got %v", err)
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	s := newSession(t)
	mustAdd(t, s, registry.SectionHero, "hero-centered")
	rev := s.Revision()
	name := "ghost"
	if s.UpdateInstance("missing", editor.Patch{Name: &name}) {
		t.Fatalf("unknown id must report false")
	}
	if s.Revision() != rev {
		t.Fatalf("unknown id must not change the document")
	}
}

func TestUpdateInstancePatch(t *testing.T) {
	s := newSession(t)
	hero := mustAdd(t, s, registry.SectionHero, "hero-centered")
	name := "Intro"
	hidden := false
	if !s.UpdateInstance(hero.ID, editor.Patch{Name: &name, Styles: map[string]any{"paddingY": "sm"}, IsActive: &hidden}) {
		t.Fatalf("expected patch to apply")
	}
	got, _ := s.Instance(hero.ID)
	if got.Name != "Intro" || got.IsActive || got.Props["name"] != "Your Name" {
		t.Fatalf("unexpected patched instance %+v", got)
	}
	if diff := cmp.Diff(map[string]any{"paddingY": "sm"}, got.Styles); diff != "" {
		t.Fatalf("styles mismatch (-want +got):\n%s", diff)
	}
}

func TestAddEditSwitchScenario(t *testing.T) {
	s := newSession(t)
	hero := mustAdd(t, s, registry.SectionHero, "hero-centered")
	s.UpdateProp(hero.ID, "name", "Ada Lovelace")
	s.UpdateProp(hero.ID, "subtitle", "")

	switched, err := s.SwitchVariant(hero.ID, "hero-split")
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if switched.VariantID != "hero-split" {
		t.Fatalf("variant not switched: %s", switched.VariantID)
	}
	if switched.Props["name"] != "Ada Lovelace" {
		t.Fatalf("user edit lost on switch: %v", switched.Props["name"])
	}
	if switched.Props["subtitle"] != "" {
		t.Fatalf("empty string is a meaningful edit, got %v", switched.Props["subtitle"])
	}
	if switched.Styles["gap"] != "lg" || switched.Styles["paddingY"] != "xl" {
		t.Fatalf("expected new defaults under kept overrides, got %v", switched.Styles)
	}

	if _, err := s.SwitchVariant(hero.ID, "hero-nope"); !errors.Is(err, editor.ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestBulkApplyStyle(t *testing.T) {
	s := newSession(t)
	hero := mustAdd(t, s, registry.SectionHero, "hero-centered")
	mustAdd(t, s, registry.SectionAbout, "about-simple")
	mustAdd(t, s, registry.SectionFooter, "footer-simple")
	s.UpdateStyle(hero.ID, "backgroundColor", "#ff0000")
	before, _ := s.Instance(hero.ID)

	n := s.BulkApplyStyle(map[string]any{"backgroundColor": "#000000", "paddingY": "sm"})
	if n != 3 {
		t.Fatalf("expected 3 instances changed, got %d", n)
	}
	for _, inst := range s.Document().Components {
		if inst.Styles["backgroundColor"] != "#000000" || inst.Styles["paddingY"] != "sm" {
			t.Fatalf("instance %s missed the bulk style: %v", inst.ID, inst.Styles)
		}
	}
	after, _ := s.Instance(hero.ID)
	if diff := cmp.Diff(before.Props, after.Props); diff != "" {
		t.Fatalf("bulk style touched props (-want +got):\n%s", diff)
	}
	if s.BulkApplyStyle(nil) != 0 {
		t.Fatalf("empty delta must change nothing")
	}
}

func TestThemeOperations(t *testing.T) {
	s := newSession(t)
	if err := s.ApplyColorScheme("ocean"); err != nil {
		t.Fatalf("color scheme: %v", err)
	}
	if s.Theme().Colors.Primary != "#0ea5e9" {
		t.Fatalf("scheme not applied: %+v", s.Theme().Colors)
	}
	if err := s.ApplySpacingPreset("spacious"); err != nil {
		t.Fatalf("spacing: %v", err)
	}
	if err := s.ApplyColorScheme("nope"); !errors.Is(err, theme.ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}

	bad := s.Theme()
	bad.Colors.Primary = "blue"
	if err := s.SetTheme(bad); err == nil {
		t.Fatalf("expected invalid theme to be rejected")
	}
	if s.Theme().Colors.Primary != "#0ea5e9" {
		t.Fatalf("rejected theme must not be applied")
	}
}

func TestFormForFallsBackToSniffing(t *testing.T) {
	s := newSession(t)
	hero := mustAdd(t, s, registry.SectionHero, "hero-centered")

	form, err := s.FormFor(hero.ID)
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	name, ok := form.Field("name")
	if !ok || name.Source != schema.SourceSchema || name.Control != schema.ControlText {
		t.Fatalf("unexpected name field %+v", name)
	}
	greeting, ok := form.Field("greeting")
	if !ok || greeting.Source != schema.SourceSniffed {
		t.Fatalf("expected sniffed greeting field, got %+v", greeting)
	}
}

func TestArrayItems(t *testing.T) {
	s := newSession(t)
	projects := mustAdd(t, s, registry.SectionProjects, "projects-grid")

	if err := s.AddArrayItem(projects.ID, "items"); err != nil {
		t.Fatalf("add item: %v", err)
	}
	got, _ := s.Instance(projects.ID)
	items := got.Props["items"].([]any)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	record := items[2].(map[string]any)
	if record["title"] != "" || record["tags"] == nil {
		t.Fatalf("expected empty record from the item schema, got %v", record)
	}

	if err := s.RemoveArrayItem(projects.ID, "items", 0); err != nil {
		t.Fatalf("remove item: %v", err)
	}
	got, _ = s.Instance(projects.ID)
	items = got.Props["items"].([]any)
	if len(items) != 2 || items[0].(map[string]any)["title"] != "Project Two" {
		t.Fatalf("remaining items must shift down, got %v", items)
	}
	if err := s.RemoveArrayItem(projects.ID, "items", 5); !errors.Is(err, schema.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := s.AddArrayItem(projects.ID, "heading"); !errors.Is(err, editor.ErrNotList) {
		t.Fatalf("expected ErrNotList, got %v", err)
	}
}

func TestAddMarketplace(t *testing.T) {
	ctx := context.Background()
	catalog := dynamic.NewMemoryCatalog(
		dynamic.Entry{ID: "mk-1", Name: "Badge", Code: "(p) => h('span', null, p.label)", DefaultProps: map[string]any{"label": "hi"}, Status: dynamic.StatusApproved},
		dynamic.Entry{ID: "mk-2", Name: "Pending", Code: "(p) => ''", Status: dynamic.StatusPending},
	)
	s := newSession(t)

	inst, err := s.AddFromCatalog(ctx, catalog, "mk-1")
	if err != nil {
		t.Fatalf("add marketplace: %v", err)
	}
	if !inst.IsMarketplace || inst.MarketplaceID != "mk-1" || inst.SectionType != registry.SectionCustom {
		t.Fatalf("unexpected marketplace instance %+v", inst)
	}
	res, err := s.Resolve(inst.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Status != folio.StatusDynamic {
		t.Fatalf("expected dynamic status, got %s", res.Status)
	}
	if _, err := s.SwitchVariant(inst.ID, "hero-split"); !errors.Is(err, folio.ErrDynamicInstance) {
		t.Fatalf("expected ErrDynamicInstance, got %v", err)
	}
	if _, err := s.AddFromCatalog(ctx, catalog, "mk-2"); !errors.Is(err, dynamic.ErrEntryNotApproved) {
		t.Fatalf("expected ErrEntryNotApproved, got %v", err)
	}
}

func TestChangeHooks(t *testing.T) {
	var changes []editor.Change
	s := newSession(t, editor.WithChangeHook(func(c editor.Change) { changes = append(changes, c) }))
	hero := mustAdd(t, s, registry.SectionHero, "hero-centered")
	s.UpdateProp(hero.ID, "name", "Ada")
	s.RemoveInstance(hero.ID)

	ops := []string{}
	for _, c := range changes {
		ops = append(ops, c.Op)
	}
	if diff := cmp.Diff([]string{"add", "update-prop", "remove"}, ops); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
	if changes[2].Revision != 3 || !s.Dirty() {
		t.Fatalf("expected revision 3 and a dirty session")
	}
}
