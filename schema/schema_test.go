package schema

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type sniffFixture struct {
	Cases []struct {
		Name      string               `json:"name"`
		Value     any                  `json:"value"`
		Type      FieldType            `json:"type"`
		ItemTypes map[string]FieldType `json:"itemTypes"`
	} `json:"cases"`
}

func TestSniffFromFixture(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "sniff.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var fx sniffFixture
	if err := json.Unmarshal(data, &fx); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	for _, tc := range fx.Cases {
		got := Sniff(tc.Value)
		if got.Type != tc.Type {
			t.Errorf("%s: got %s want %s", tc.Name, got.Type, tc.Type)
			continue
		}
		for key, want := range tc.ItemTypes {
			if got.ItemSchema[key].Type != want {
				t.Errorf("%s: item %s got %s want %s", tc.Name, key, got.ItemSchema[key].Type, want)
			}
		}
	}
}

func TestPlanUsesSchemaThenSniffsDefault(t *testing.T) {
	fields := Fields{
		"title":  {Type: TypeText, Label: "Headline", Placeholder: "Your name"},
		"layout": {Type: TypeSelect, Options: []string{"left", "center"}},
	}
	defaults := map[string]any{
		"title":     "Hi",
		"layout":    "left",
		"showPhoto": true,
		"bio":       "short",
	}
	values := map[string]any{
		"bio": "line one\nline two",
	}

	form := Plan(fields, defaults, values)
	var keys []string
	for _, f := range form.Fields {
		keys = append(keys, f.Key)
	}
	if diff := cmp.Diff([]string{"bio", "layout", "showPhoto", "title"}, keys); diff != "" {
		t.Fatalf("key order mismatch: %s", diff)
	}

	title, _ := form.Field("title")
	if title.Control != ControlText || title.Label != "Headline" || title.Source != SourceSchema {
		t.Fatalf("unexpected title field %+v", title)
	}
	bio, _ := form.Field("bio")
	if bio.Control != ControlText || bio.Source != SourceSniffed {
		t.Fatalf("expected bio sniffed from its short default, got %+v", bio)
	}
	if bio.Value != "line one\nline two" {
		t.Fatalf("expected current value, got %v", bio.Value)
	}
	photo, _ := form.Field("showPhoto")
	if photo.Control != ControlToggle || photo.Label != "Show Photo" {
		t.Fatalf("unexpected toggle %+v", photo)
	}
	layout, _ := form.Field("layout")
	if layout.Control != ControlSelect || len(layout.Options) != 2 {
		t.Fatalf("unexpected select %+v", layout)
	}
}

func TestPlanRecordListBuildsSubForms(t *testing.T) {
	fields := Fields{
		"projects": {
			Type: TypeArray,
			ItemSchema: Fields{
				"title": {Type: TypeText},
				"url":   {Type: TypeURL},
			},
		},
	}
	values := map[string]any{
		"projects": []any{
			map[string]any{"title": "One", "url": "https://one.dev"},
			map[string]any{"title": "Two"},
		},
	}
	form := Plan(fields, nil, values)
	projects, ok := form.Field("projects")
	if !ok || projects.Control != ControlRecords {
		t.Fatalf("expected records control, got %+v", projects)
	}
	if len(projects.Items) != 2 {
		t.Fatalf("expected 2 sub forms, got %d", len(projects.Items))
	}
	second := projects.Items[1]
	if second.Index != 1 || len(second.Fields) != 2 {
		t.Fatalf("unexpected second item %+v", second)
	}
	if second.Fields[1].Path != "projects.1.url" || second.Fields[1].Control != ControlURL {
		t.Fatalf("unexpected nested field %+v", second.Fields[1])
	}
}

func TestPlanObjectChildren(t *testing.T) {
	form := Plan(nil, map[string]any{"social": map[string]any{"github": "x", "public": true}}, nil)
	social, _ := form.Field("social")
	if social.Control != ControlGroup || len(social.Children) != 2 {
		t.Fatalf("unexpected group %+v", social)
	}
	if social.Children[1].Control != ControlToggle {
		t.Fatalf("expected toggle child, got %+v", social.Children[1])
	}
}

func TestAddAndRemoveItem(t *testing.T) {
	item := Fields{"title": {Type: TypeText}, "featured": {Type: TypeBoolean}}
	items := []any{map[string]any{"title": "a"}, map[string]any{"title": "b"}, map[string]any{"title": "c"}}

	added := AddItem(items, item)
	if len(added) != 4 || len(items) != 3 {
		t.Fatalf("expected append without mutating input")
	}
	if diff := cmp.Diff(map[string]any{"title": "", "featured": false}, added[3]); diff != "" {
		t.Fatalf("new record mismatch: %s", diff)
	}

	removed, err := RemoveItem(items, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	want := []any{map[string]any{"title": "a"}, map[string]any{"title": "c"}}
	if diff := cmp.Diff(want, removed); diff != "" {
		t.Fatalf("remove mismatch: %s", diff)
	}
	if len(items) != 3 {
		t.Fatalf("input mutated")
	}

	if _, err := RemoveItem(items, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if got := AddItem(nil, nil); len(got) != 1 || got[0] != "" {
		t.Fatalf("expected plain list append, got %v", got)
	}
}

func TestFieldsValidate(t *testing.T) {
	ok := Fields{
		"projects": {Type: TypeArray, ItemSchema: Fields{"kind": {Type: TypeSelect, Options: []string{"a"}}}},
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid schema: %v", err)
	}
	bad := Fields{
		"projects": {Type: TypeArray, ItemSchema: Fields{"kind": {Type: "slider"}}},
		"layout":   {Type: TypeSelect},
	}
	err := bad.Validate()
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestLabel(t *testing.T) {
	cases := map[string]string{
		"title":        "Title",
		"ctaText":      "Cta Text",
		"social_links": "Social links",
		"":             "",
	}
	for in, want := range cases {
		if got := Label(in); got != want {
			t.Errorf("Label(%q) = %q want %q", in, got, want)
		}
	}
}
