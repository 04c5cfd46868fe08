package theme

import (
	"errors"
	"fmt"
)

// ErrUnknownPreset is returned when a preset id is not in the catalogue.
var ErrUnknownPreset = errors.New("theme: unknown preset")

// Font is one entry of the fixed font catalogue.
type Font struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Stack    string `json:"stack"`
}

var fonts = []Font{
	{Name: "Inter", Category: "sans-serif", Stack: "'Inter', system-ui, sans-serif"},
	{Name: "Roboto", Category: "sans-serif", Stack: "'Roboto', system-ui, sans-serif"},
	{Name: "Poppins", Category: "sans-serif", Stack: "'Poppins', system-ui, sans-serif"},
	{Name: "Montserrat", Category: "sans-serif", Stack: "'Montserrat', system-ui, sans-serif"},
	{Name: "Open Sans", Category: "sans-serif", Stack: "'Open Sans', system-ui, sans-serif"},
	{Name: "Playfair Display", Category: "serif", Stack: "'Playfair Display', Georgia, serif"},
	{Name: "Merriweather", Category: "serif", Stack: "'Merriweather', Georgia, serif"},
	{Name: "Lora", Category: "serif", Stack: "'Lora', Georgia, serif"},
	{Name: "JetBrains Mono", Category: "monospace", Stack: "'JetBrains Mono', ui-monospace, monospace"},
	{Name: "Fira Code", Category: "monospace", Stack: "'Fira Code', ui-monospace, monospace"},
}

// Fonts returns the font catalogue in display order.
func Fonts() []Font {
	out := make([]Font, len(fonts))
	copy(out, fonts)
	return out
}

// FontNames returns the catalogue names in display order.
func FontNames() []string {
	names := make([]string, len(fonts))
	for i, f := range fonts {
		names[i] = f.Name
	}
	return names
}

// FontStack returns the CSS font-family stack for name, falling back to the
// name itself for fonts outside the catalogue.
func FontStack(name string) string {
	for _, f := range fonts {
		if f.Name == name {
			return f.Stack
		}
	}
	return fmt.Sprintf("'%s', sans-serif", name)
}

// ColorScheme is a named replacement for the Colors group.
type ColorScheme struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Colors Colors `json:"colors"`
}

// SpacingPreset is a named replacement for the Spacing group.
type SpacingPreset struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Spacing Spacing `json:"spacing"`
}

var colorSchemes = []ColorScheme{
	{ID: "default", Name: "Default Blue", Colors: Default().Colors},
	{ID: "ocean", Name: "Ocean", Colors: Colors{Primary: "#0ea5e9", Secondary: "#06b6d4", Accent: "#14b8a6", Background: "#f0f9ff", Card: "#ffffff", Muted: "#64748b"}},
	{ID: "sunset", Name: "Sunset", Colors: Colors{Primary: "#f97316", Secondary: "#ef4444", Accent: "#eab308", Background: "#fff7ed", Card: "#ffffff", Muted: "#78716c"}},
	{ID: "forest", Name: "Forest", Colors: Colors{Primary: "#16a34a", Secondary: "#65a30d", Accent: "#ca8a04", Background: "#f0fdf4", Card: "#ffffff", Muted: "#6b7280"}},
	{ID: "midnight", Name: "Midnight", Colors: Colors{Primary: "#6366f1", Secondary: "#a855f7", Accent: "#22d3ee", Background: "#0f172a", Card: "#1e293b", Muted: "#94a3b8"}},
	{ID: "monochrome", Name: "Monochrome", Colors: Colors{Primary: "#111827", Secondary: "#374151", Accent: "#6b7280", Background: "#ffffff", Card: "#f9fafb", Muted: "#9ca3af"}},
	{ID: "rose", Name: "Rose", Colors: Colors{Primary: "#e11d48", Secondary: "#db2777", Accent: "#f472b6", Background: "#fff1f2", Card: "#ffffff", Muted: "#9f1239"}},
}

var spacingPresets = []SpacingPreset{
	{ID: "compact", Name: "Compact", Spacing: Spacing{Base: 0.75, Section: 1.25, Component: 0.75}},
	{ID: "comfortable", Name: "Comfortable", Spacing: Default().Spacing},
	{ID: "spacious", Name: "Spacious", Spacing: Spacing{Base: 1.5, Section: 3, Component: 1.5}},
}

// ColorSchemes lists the color scheme presets.
func ColorSchemes() []ColorScheme {
	out := make([]ColorScheme, len(colorSchemes))
	copy(out, colorSchemes)
	return out
}

// SpacingPresets lists the spacing presets.
func SpacingPresets() []SpacingPreset {
	out := make([]SpacingPreset, len(spacingPresets))
	copy(out, spacingPresets)
	return out
}

// ApplyColorScheme replaces all six color channels from the named preset.
// Typography, spacing and tuning values are left untouched.
func ApplyColorScheme(t Theme, id string) (Theme, error) {
	for _, scheme := range colorSchemes {
		if scheme.ID == id {
			t.Colors = scheme.Colors
			return t, nil
		}
	}
	return t, fmt.Errorf("%w: color scheme %q", ErrUnknownPreset, id)
}

// ApplySpacingPreset replaces the three spacing scalars from the named
// preset. Colors and typography are left untouched.
func ApplySpacingPreset(t Theme, id string) (Theme, error) {
	for _, preset := range spacingPresets {
		if preset.ID == id {
			t.Spacing = preset.Spacing
			return t, nil
		}
	}
	return t, fmt.Errorf("%w: spacing preset %q", ErrUnknownPreset, id)
}
