// Package theme models the portfolio-wide theme and the presets that replace
// its color and spacing groups wholesale.
package theme

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-folio/validation"
)

// Mode selects the color mode.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
	ModeAuto  Mode = "auto"
)

// Colors is the six-channel color group. Every channel is a #RRGGBB string.
type Colors struct {
	Primary    string `json:"primary" yaml:"primary"`
	Secondary  string `json:"secondary" yaml:"secondary"`
	Accent     string `json:"accent" yaml:"accent"`
	Background string `json:"background" yaml:"background"`
	Card       string `json:"card" yaml:"card"`
	Muted      string `json:"muted" yaml:"muted"`
}

// Typography names the heading and body fonts from the Fonts catalogue.
type Typography struct {
	HeadingFont string `json:"headingFont" yaml:"headingFont"`
	BodyFont    string `json:"bodyFont" yaml:"bodyFont"`
}

// Spacing holds the three spacing scalars, expressed in rem multipliers.
type Spacing struct {
	Base      float64 `json:"base" yaml:"base"`
	Section   float64 `json:"section" yaml:"section"`
	Component float64 `json:"component" yaml:"component"`
}

// Theme is the portfolio-wide GlobalTheme. It is replaced wholesale by
// editing operations and is never partially empty once normalised.
type Theme struct {
	Colors          Colors     `json:"colors" yaml:"colors"`
	Typography      Typography `json:"typography" yaml:"typography"`
	Spacing         Spacing    `json:"spacing" yaml:"spacing"`
	Mode            Mode       `json:"mode" yaml:"mode"`
	BorderRadius    float64    `json:"borderRadius" yaml:"borderRadius"`
	ShadowIntensity int        `json:"shadowIntensity" yaml:"shadowIntensity"`
	AnimationSpeed  int        `json:"animationSpeed" yaml:"animationSpeed"`
}

// Default returns the theme a new portfolio starts with.
func Default() Theme {
	return Theme{
		Colors: Colors{
			Primary:    "#3b82f6",
			Secondary:  "#8b5cf6",
			Accent:     "#f59e0b",
			Background: "#ffffff",
			Card:       "#f8fafc",
			Muted:      "#64748b",
		},
		Typography: Typography{
			HeadingFont: "Inter",
			BodyFont:    "Inter",
		},
		Spacing: Spacing{
			Base:      1,
			Section:   2,
			Component: 1,
		},
		Mode:            ModeLight,
		BorderRadius:    8,
		ShadowIntensity: 50,
		AnimationSpeed:  300,
	}
}

// IsDark reports whether the theme forces dark rendering. Auto is treated as
// light because resolution never consults the viewer's preference.
func (t Theme) IsDark() bool {
	return t.Mode == ModeDark
}

// Normalize fills any empty group from Default so a decoded theme is never
// partially null.
func Normalize(t Theme) Theme {
	def := Default()
	if t.Colors == (Colors{}) {
		t.Colors = def.Colors
	} else {
		t.Colors = fillColors(t.Colors, def.Colors)
	}
	if t.Typography.HeadingFont == "" {
		t.Typography.HeadingFont = def.Typography.HeadingFont
	}
	if t.Typography.BodyFont == "" {
		t.Typography.BodyFont = def.Typography.BodyFont
	}
	if t.Spacing == (Spacing{}) {
		t.Spacing = def.Spacing
	}
	if t.Mode == "" {
		t.Mode = def.Mode
	}
	if t.AnimationSpeed == 0 {
		t.AnimationSpeed = def.AnimationSpeed
	}
	return t
}

func fillColors(c, def Colors) Colors {
	pick := func(value, fallback string) string {
		if value == "" {
			return fallback
		}
		return value
	}
	return Colors{
		Primary:    pick(c.Primary, def.Primary),
		Secondary:  pick(c.Secondary, def.Secondary),
		Accent:     pick(c.Accent, def.Accent),
		Background: pick(c.Background, def.Background),
		Card:       pick(c.Card, def.Card),
		Muted:      pick(c.Muted, def.Muted),
	}
}

var rules = validation.MustNew(append(validation.Builtin(),
	validation.OneOf("font", FontNames(), "must be a font from the catalogue"),
)...)

// Validate checks every field and returns the joined field errors.
func (t Theme) Validate() error {
	var errs []error
	check := func(name, field string, value any) {
		if err := rules.Check(field, value); err != nil {
			errs = append(errs, fmt.Errorf("theme.%s: %w", name, err))
		}
	}
	check("colors.primary", validation.FieldColor, t.Colors.Primary)
	check("colors.secondary", validation.FieldColor, t.Colors.Secondary)
	check("colors.accent", validation.FieldColor, t.Colors.Accent)
	check("colors.background", validation.FieldColor, t.Colors.Background)
	check("colors.card", validation.FieldColor, t.Colors.Card)
	check("colors.muted", validation.FieldColor, t.Colors.Muted)
	check("typography.headingFont", "font", t.Typography.HeadingFont)
	check("typography.bodyFont", "font", t.Typography.BodyFont)
	check("spacing.base", validation.FieldSpacingBase, t.Spacing.Base)
	check("spacing.section", validation.FieldSpacingSection, t.Spacing.Section)
	check("spacing.component", validation.FieldSpacingComponent, t.Spacing.Component)
	check("mode", validation.FieldMode, string(t.Mode))
	check("borderRadius", validation.FieldBorderRadius, t.BorderRadius)
	check("shadowIntensity", validation.FieldShadowIntensity, t.ShadowIntensity)
	check("animationSpeed", validation.FieldAnimationSpeed, t.AnimationSpeed)
	return errors.Join(errs...)
}

// ValidateField runs the rule for a single theme field so an editor can
// reject a value before it enters the document.
func ValidateField(field string, value any) error {
	return rules.Check(field, value)
}
