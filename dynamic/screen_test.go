package dynamic

import (
	"context"
	"errors"
	"testing"
)

func TestScreenFindsDisallowedPatterns(t *testing.T) {
	code := "function render(p) {\n  fetch('/x');\n  const s = window.location + localStorage.getItem('k');\n  return eval('1');\n}"
	findings := Screen(code)
	got := make([]string, 0, len(findings))
	for _, f := range findings {
		got = append(got, f.Pattern)
	}
	want := []string{"fetch", "window.", "localStorage", "eval("}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if findings[0].Line != 2 || findings[0].Column != 3 {
		t.Fatalf("unexpected position %+v", findings[0])
	}
}

func TestScreenCleanSource(t *testing.T) {
	if !Clean(`(p) => h("p", null, p.fetchCount, p.documentTitle)`) {
		t.Fatalf("identifiers containing pattern words should not be flagged: %+v", Screen(`(p) => h("p", null, p.fetchCount, p.documentTitle)`))
	}
}

func TestMemoryCatalogApproved(t *testing.T) {
	catalog := NewMemoryCatalog(
		Entry{ID: "m1", Name: "Neon", Code: `() => "x"`, Status: StatusApproved, DefaultProps: map[string]any{"title": "T"}},
		Entry{ID: "m2", Name: "Draft", Code: `() => "y"`, Status: StatusPending},
	)
	ctx := context.Background()

	entry, err := catalog.Approved(ctx, "m1")
	if err != nil {
		t.Fatalf("approved lookup failed: %v", err)
	}
	entry.DefaultProps["title"] = "changed"
	again, _ := catalog.Approved(ctx, "m1")
	if again.DefaultProps["title"] != "T" {
		t.Fatalf("catalog entries must be copied on read")
	}

	if _, err := catalog.Approved(ctx, "m2"); !errors.Is(err, ErrEntryNotApproved) {
		t.Fatalf("expected not approved, got %v", err)
	}
	if _, err := catalog.Approved(ctx, "nope"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := catalog.SetStatus("m2", StatusApproved); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if _, err := catalog.Approved(ctx, "m2"); err != nil {
		t.Fatalf("expected approval to take effect, got %v", err)
	}
	if len(catalog.List()) != 2 {
		t.Fatalf("expected two entries")
	}
}
