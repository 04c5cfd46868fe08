package theme

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-folio/validation"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected default theme to validate, got %v", err)
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, scheme := range ColorSchemes() {
		th, err := ApplyColorScheme(Default(), scheme.ID)
		if err != nil {
			t.Fatalf("apply %s: %v", scheme.ID, err)
		}
		if err := th.Validate(); err != nil {
			t.Fatalf("scheme %s invalid: %v", scheme.ID, err)
		}
	}
	for _, preset := range SpacingPresets() {
		th, err := ApplySpacingPreset(Default(), preset.ID)
		if err != nil {
			t.Fatalf("apply %s: %v", preset.ID, err)
		}
		if err := th.Validate(); err != nil {
			t.Fatalf("spacing %s invalid: %v", preset.ID, err)
		}
	}
}

func TestApplyColorSchemeReplacesOnlyColors(t *testing.T) {
	base := Default()
	base.Colors.Primary = "#000001"
	base.Typography.HeadingFont = "Lora"
	base.Spacing.Base = 2.5

	got, err := ApplyColorScheme(base, "forest")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Colors.Primary != "#16a34a" {
		t.Fatalf("expected manual tweak discarded, got %s", got.Colors.Primary)
	}
	if got.Typography.HeadingFont != "Lora" || got.Spacing.Base != 2.5 {
		t.Fatalf("expected typography/spacing untouched, got %+v", got)
	}
}

func TestApplySpacingPresetReplacesOnlySpacing(t *testing.T) {
	base := Default()
	base.Colors.Accent = "#123456"
	base.Spacing = Spacing{Base: 2.9, Section: 3.9, Component: 2.9}

	got, err := ApplySpacingPreset(base, "compact")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Spacing != (Spacing{Base: 0.75, Section: 1.25, Component: 0.75}) {
		t.Fatalf("unexpected spacing %+v", got.Spacing)
	}
	if got.Colors.Accent != "#123456" {
		t.Fatalf("expected colors untouched")
	}
}

func TestUnknownPreset(t *testing.T) {
	base := Default()
	got, err := ApplyColorScheme(base, "nope")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
	if got != base {
		t.Fatalf("expected theme unchanged on error")
	}
	if _, err := ApplySpacingPreset(base, "nope"); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestValidateReportsEachField(t *testing.T) {
	th := Default()
	th.Colors.Card = "white"
	th.Spacing.Base = 9
	th.AnimationSpeed = 5000
	th.Typography.BodyFont = "Comic Sans"

	err := th.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	for _, field := range []string{"colors.card", "spacing.base", "animationSpeed", "typography.bodyFont"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected error to mention %s: %v", field, err)
		}
	}
}

func TestValidateField(t *testing.T) {
	if err := ValidateField(validation.FieldShadowIntensity, 101); err == nil {
		t.Fatalf("expected out-of-range shadow to fail")
	}
	if err := ValidateField("font", "Inter"); err != nil {
		t.Fatalf("expected catalogue font to pass: %v", err)
	}
}

func TestNormalizeFillsMissingGroups(t *testing.T) {
	var th Theme
	if err := json.Unmarshal([]byte(`{"colors":{"primary":"#101010"},"mode":"dark"}`), &th); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := Normalize(th)
	if got.Colors.Primary != "#101010" {
		t.Fatalf("expected explicit color kept")
	}
	if got.Colors.Background != Default().Colors.Background {
		t.Fatalf("expected missing color filled")
	}
	if got.Spacing != Default().Spacing || got.Typography != Default().Typography {
		t.Fatalf("expected groups filled: %+v", got)
	}
	if !got.IsDark() {
		t.Fatalf("expected dark mode kept")
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("normalized theme invalid: %v", err)
	}
}

func TestFontStack(t *testing.T) {
	if got := FontStack("Lora"); !strings.Contains(got, "Georgia") {
		t.Fatalf("unexpected stack %q", got)
	}
	if got := FontStack("Custom"); got != "'Custom', sans-serif" {
		t.Fatalf("unexpected fallback stack %q", got)
	}
}
