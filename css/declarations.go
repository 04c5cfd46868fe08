package css

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-folio/theme"
)

// Declaration is one CSS property/value pair.
type Declaration struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

func (d Declaration) String() string {
	return d.Property + ": " + d.Value
}

type lookupFunc func(string) string

// tiered keys expand through a lookup table. numeric values fall through to
// pixels when px is set.
type tiered struct {
	properties []string
	lookup     lookupFunc
	px         bool
}

var tieredKeys = map[string]tiered{
	"paddingY":    {properties: []string{"padding-top", "padding-bottom"}, lookup: PaddingY, px: true},
	"paddingX":    {properties: []string{"padding-left", "padding-right"}, lookup: PaddingX, px: true},
	"fontSize":    {properties: []string{"font-size"}, lookup: FontSize, px: true},
	"fontWeight":  {properties: []string{"font-weight"}, lookup: FontWeight},
	"textAlign":   {properties: []string{"text-align"}, lookup: TextAlign},
	"shadow":      {properties: []string{"box-shadow"}, lookup: Shadow},
	"borderWidth": {properties: []string{"border-width"}, lookup: BorderWidth, px: true},
	"maxWidth":    {properties: []string{"max-width"}, lookup: MaxWidth, px: true},
	"gap":         {properties: []string{"gap"}, lookup: Gap, px: true},
	"layout":      {properties: []string{"display"}, lookup: Display},
}

var directKeys = map[string]string{
	"backgroundColor": "background-color",
	"textColor":       "color",
	"borderColor":     "border-color",
	"primaryColor":    "--folio-primary",
	"secondaryColor":  "--folio-secondary",
	"accentColor":     "--folio-accent",
	"lineHeight":      "line-height",
	"letterSpacing":   "letter-spacing",
	"opacity":         "opacity",
	"minHeight":       "min-height",
	"borderStyle":     "border-style",
}

var pixelKeys = map[string]string{
	"borderRadius": "border-radius",
	"marginY":      "margin-block",
	"marginX":      "margin-inline",
}

// Declarations translates a resolved style map into concrete declarations,
// sorted by property. Keys without a mapping, empty values and values that
// could escape a style attribute are skipped.
func Declarations(styles map[string]any) []Declaration {
	out := make([]Declaration, 0, len(styles))
	for key, raw := range styles {
		value, numeric, ok := scalar(raw)
		if !ok || value == "" {
			continue
		}
		switch {
		case tieredKeys[key].lookup != nil:
			spec := tieredKeys[key]
			resolved := spec.lookup(value)
			if resolved == "" && numeric && spec.px {
				resolved = value + "px"
			}
			if resolved == "" {
				continue
			}
			for _, property := range spec.properties {
				out = append(out, Declaration{Property: property, Value: resolved})
			}
		case directKeys[key] != "":
			if !Safe(value) {
				continue
			}
			out = append(out, Declaration{Property: directKeys[key], Value: value})
		case pixelKeys[key] != "":
			if numeric {
				value += "px"
			}
			if !Safe(value) {
				continue
			}
			out = append(out, Declaration{Property: pixelKeys[key], Value: value})
		}
	}
	sortDeclarations(out)
	return out
}

// Inline renders styles as a deterministic inline style attribute value.
func Inline(styles map[string]any) string {
	return Join(Declarations(styles))
}

// Join renders declarations separated by "; ".
func Join(decls []Declaration) string {
	parts := make([]string, len(decls))
	for i, decl := range decls {
		parts[i] = decl.String()
	}
	return strings.Join(parts, "; ")
}

// Block renders a rule for selector.
func Block(selector string, decls []Declaration) string {
	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {")
	for _, decl := range decls {
		b.WriteString(" ")
		b.WriteString(decl.String())
		b.WriteString(";")
	}
	b.WriteString(" }")
	return b.String()
}

// ThemeVariables exposes a theme as CSS custom properties.
func ThemeVariables(t theme.Theme) []Declaration {
	decls := []Declaration{
		{Property: "--folio-color-primary", Value: t.Colors.Primary},
		{Property: "--folio-color-secondary", Value: t.Colors.Secondary},
		{Property: "--folio-color-accent", Value: t.Colors.Accent},
		{Property: "--folio-color-background", Value: t.Colors.Background},
		{Property: "--folio-color-card", Value: t.Colors.Card},
		{Property: "--folio-color-muted", Value: t.Colors.Muted},
		{Property: "--folio-font-heading", Value: theme.FontStack(t.Typography.HeadingFont)},
		{Property: "--folio-font-body", Value: theme.FontStack(t.Typography.BodyFont)},
		{Property: "--folio-spacing-base", Value: formatNumber(t.Spacing.Base) + "rem"},
		{Property: "--folio-spacing-section", Value: formatNumber(t.Spacing.Section) + "rem"},
		{Property: "--folio-spacing-component", Value: formatNumber(t.Spacing.Component) + "rem"},
		{Property: "--folio-radius", Value: formatNumber(t.BorderRadius) + "px"},
		{Property: "--folio-shadow-opacity", Value: formatNumber(float64(t.ShadowIntensity) / 100)},
		{Property: "--folio-animation-speed", Value: strconv.Itoa(t.AnimationSpeed) + "ms"},
	}
	filtered := decls[:0]
	for _, decl := range decls {
		if Safe(decl.Value) {
			filtered = append(filtered, decl)
		}
	}
	sortDeclarations(filtered)
	return filtered
}

// Safe reports whether value can be placed inside a style attribute without
// terminating the declaration or pulling in external resources.
func Safe(value string) bool {
	if strings.ContainsAny(value, ";{}<>\"\\") {
		return false
	}
	lower := strings.ToLower(value)
	for _, banned := range []string{"url(", "expression(", "javascript:", "@import"} {
		if strings.Contains(lower, banned) {
			return false
		}
	}
	return true
}

// Pixels formats a numeric radius or size as "<n>px".
func Pixels(value float64) string {
	return formatNumber(value) + "px"
}

func scalar(value any) (string, bool, bool) {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed), false, true
	case float64:
		return formatNumber(typed), true, true
	case float32:
		return formatNumber(float64(typed)), true, true
	case int:
		return strconv.Itoa(typed), true, true
	case int64:
		return strconv.FormatInt(typed, 10), true, true
	case json.Number:
		return typed.String(), true, true
	case fmt.Stringer:
		return typed.String(), false, true
	default:
		return "", false, false
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sortDeclarations(decls []Declaration) {
	sort.SliceStable(decls, func(i, j int) bool {
		if decls[i].Property == decls[j].Property {
			return decls[i].Value < decls[j].Value
		}
		return decls[i].Property < decls[j].Property
	})
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
