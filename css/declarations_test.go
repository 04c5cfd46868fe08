package css

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-folio/theme"
)

func TestLookupTables(t *testing.T) {
	cases := []struct {
		name   string
		lookup func(string) string
		in     string
		want   string
	}{
		{"paddingY none", PaddingY, "none", "0px"},
		{"paddingY md", PaddingY, "md", "64px"},
		{"paddingY xl", PaddingY, "xl", "128px"},
		{"paddingY unknown", PaddingY, "huge", ""},
		{"paddingX lg", PaddingX, "lg", "32px"},
		{"fontSize base", FontSize, "base", "1rem"},
		{"fontSize 4xl", FontSize, "4xl", "2.25rem"},
		{"fontWeight bold", FontWeight, "bold", "700"},
		{"textAlign center", TextAlign, "center", "center"},
		{"textAlign bogus", TextAlign, "middle", ""},
		{"shadow none", Shadow, "none", "none"},
		{"shadow sm", Shadow, "sm", "0 1px 2px 0 rgba(0, 0, 0, 0.05)"},
		{"borderWidth thin", BorderWidth, "thin", "1px"},
		{"maxWidth full", MaxWidth, "full", "100%"},
		{"gap md", Gap, "md", "16px"},
		{"layout grid", Display, "grid", "grid"},
	}
	for _, tc := range cases {
		if got := tc.lookup(tc.in); got != tc.want {
			t.Errorf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestDeclarationsExpandsAndSorts(t *testing.T) {
	got := Declarations(map[string]any{
		"paddingY":        "md",
		"textAlign":       "center",
		"backgroundColor": "#111111",
		"borderRadius":    12.0,
		"unknownKey":      "ignored",
	})
	want := []Declaration{
		{Property: "background-color", Value: "#111111"},
		{Property: "border-radius", Value: "12px"},
		{Property: "padding-bottom", Value: "64px"},
		{Property: "padding-top", Value: "64px"},
		{Property: "text-align", Value: "center"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("declarations mismatch (-want +got):\n%s", diff)
	}
}

func TestDeclarationsNumericFallsBackToPixels(t *testing.T) {
	got := Inline(map[string]any{"gap": 10, "fontSize": 18.5, "textAlign": 3})
	if got != "font-size: 18.5px; gap: 10px" {
		t.Fatalf("unexpected inline %q", got)
	}
}

func TestDeclarationsSkipsEmptyAndUnsafe(t *testing.T) {
	got := Declarations(map[string]any{
		"borderColor":     "",
		"backgroundColor": "red; position: fixed",
		"textColor":       "url(javascript:alert(1))",
		"borderRadius":    "4px",
	})
	if len(got) != 1 || got[0].Property != "border-radius" {
		t.Fatalf("expected only border-radius, got %+v", got)
	}
}

func TestInlineDeterministic(t *testing.T) {
	styles := map[string]any{"paddingX": "sm", "paddingY": "sm", "shadow": "lg", "textColor": "#fff000"}
	first := Inline(styles)
	for i := 0; i < 20; i++ {
		if Inline(styles) != first {
			t.Fatalf("inline output not deterministic")
		}
	}
}

func TestThemeVariables(t *testing.T) {
	decls := ThemeVariables(theme.Default())
	index := map[string]string{}
	for _, d := range decls {
		index[d.Property] = d.Value
	}
	checks := map[string]string{
		"--folio-color-primary":   "#3b82f6",
		"--folio-spacing-section": "2rem",
		"--folio-radius":          "8px",
		"--folio-shadow-opacity":  "0.5",
		"--folio-animation-speed": "300ms",
	}
	for property, want := range checks {
		if index[property] != want {
			t.Errorf("%s: got %q want %q", property, index[property], want)
		}
	}
	block := Block(":root", decls)
	if !strings.HasPrefix(block, ":root {") || !strings.Contains(block, "--folio-font-heading: 'Inter'") {
		t.Fatalf("unexpected block %q", block)
	}
}

func TestTiers(t *testing.T) {
	if diff := cmp.Diff([]string{"center", "justify", "left", "right"}, Tiers("textAlign")); diff != "" {
		t.Fatalf("tiers mismatch: %s", diff)
	}
	if Tiers("nope") != nil {
		t.Fatalf("expected nil tiers for unknown key")
	}
}
