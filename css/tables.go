// Package css maps abstract style keys to concrete rendering units. Every
// lookup is a pure function over a fixed table; unknown tiers map to "".
package css

var paddingY = map[string]string{
	"none": "0px",
	"xs":   "16px",
	"sm":   "32px",
	"md":   "64px",
	"lg":   "96px",
	"xl":   "128px",
}

var paddingX = map[string]string{
	"none": "0px",
	"xs":   "8px",
	"sm":   "16px",
	"md":   "24px",
	"lg":   "32px",
	"xl":   "48px",
}

var fontSize = map[string]string{
	"xs":   "0.75rem",
	"sm":   "0.875rem",
	"base": "1rem",
	"lg":   "1.125rem",
	"xl":   "1.25rem",
	"2xl":  "1.5rem",
	"3xl":  "1.875rem",
	"4xl":  "2.25rem",
	"5xl":  "3rem",
	"6xl":  "3.75rem",
}

var fontWeight = map[string]string{
	"light":    "300",
	"normal":   "400",
	"medium":   "500",
	"semibold": "600",
	"bold":     "700",
	"black":    "900",
}

var textAlign = map[string]string{
	"left":    "left",
	"center":  "center",
	"right":   "right",
	"justify": "justify",
}

var shadow = map[string]string{
	"none": "none",
	"sm":   "0 1px 2px 0 rgba(0, 0, 0, 0.05)",
	"md":   "0 4px 6px -1px rgba(0, 0, 0, 0.1), 0 2px 4px -2px rgba(0, 0, 0, 0.1)",
	"lg":   "0 10px 15px -3px rgba(0, 0, 0, 0.1), 0 4px 6px -4px rgba(0, 0, 0, 0.1)",
	"xl":   "0 20px 25px -5px rgba(0, 0, 0, 0.1), 0 8px 10px -6px rgba(0, 0, 0, 0.1)",
	"2xl":  "0 25px 50px -12px rgba(0, 0, 0, 0.25)",
}

var borderWidth = map[string]string{
	"none":   "0px",
	"thin":   "1px",
	"medium": "2px",
	"thick":  "4px",
}

var maxWidth = map[string]string{
	"sm":   "640px",
	"md":   "768px",
	"lg":   "1024px",
	"xl":   "1280px",
	"2xl":  "1536px",
	"full": "100%",
}

var gap = map[string]string{
	"none": "0px",
	"xs":   "4px",
	"sm":   "8px",
	"md":   "16px",
	"lg":   "24px",
	"xl":   "32px",
}

var layout = map[string]string{
	"stack":  "flex",
	"grid":   "grid",
	"inline": "inline-flex",
	"block":  "block",
}

// PaddingY maps a vertical padding tier to pixels.
func PaddingY(tier string) string { return paddingY[tier] }

// PaddingX maps a horizontal padding tier to pixels.
func PaddingX(tier string) string { return paddingX[tier] }

// FontSize maps a font size tier to rem.
func FontSize(tier string) string { return fontSize[tier] }

// FontWeight maps a named weight to its numeric value.
func FontWeight(tier string) string { return fontWeight[tier] }

// TextAlign accepts only the four alignment keywords.
func TextAlign(value string) string { return textAlign[value] }

// Shadow maps a shadow tier to a box-shadow value.
func Shadow(tier string) string { return shadow[tier] }

// BorderWidth maps a border tier to pixels.
func BorderWidth(tier string) string { return borderWidth[tier] }

// MaxWidth maps a container tier to a max-width.
func MaxWidth(tier string) string { return maxWidth[tier] }

// Gap maps a gap tier to pixels.
func Gap(tier string) string { return gap[tier] }

// Display maps a layout keyword to a display value.
func Display(value string) string { return layout[value] }

// Tiers returns the tier names accepted by the lookup named key, so an editor
// can offer them as select options.
func Tiers(key string) []string {
	table, ok := tables[key]
	if !ok {
		return nil
	}
	return sortedKeys(table)
}

var tables = map[string]map[string]string{
	"paddingY":    paddingY,
	"paddingX":    paddingX,
	"fontSize":    fontSize,
	"fontWeight":  fontWeight,
	"textAlign":   textAlign,
	"shadow":      shadow,
	"borderWidth": borderWidth,
	"maxWidth":    maxWidth,
	"gap":         gap,
	"layout":      layout,
}
