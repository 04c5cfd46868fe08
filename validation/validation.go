// Package validation holds the per-field rules shared by the editor and the
// save path. Rules are CEL expressions evaluated against a single `value`
// variable, so the same rule text can be shipped to a host editor.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	celgo "github.com/google/cel-go/cel"
)

// ErrInvalid is the sentinel every FieldError unwraps to.
var ErrInvalid = errors.New("validation: invalid value")

// Field names understood by the built-in rule set.
const (
	FieldColor            = "color"
	FieldSlug             = "slug"
	FieldSpacingBase      = "spacing.base"
	FieldSpacingSection   = "spacing.section"
	FieldSpacingComponent = "spacing.component"
	FieldBorderRadius     = "borderRadius"
	FieldShadowIntensity  = "shadowIntensity"
	FieldAnimationSpeed   = "animationSpeed"
	FieldMode             = "mode"
)

// Rule binds a CEL predicate to a field name.
type Rule struct {
	Field   string
	Expr    string
	Message string
}

// FieldError reports a rejected value.
type FieldError struct {
	Field   string
	Value   any
	Rule    string
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = "invalid value"
	}
	if e.Err != nil {
		return fmt.Sprintf("validation: %s: %s (%v)", e.Field, msg, e.Err)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, msg)
}

// Unwrap lets callers match errors.Is(err, ErrInvalid).
func (e *FieldError) Unwrap() []error {
	if e == nil {
		return nil
	}
	if e.Err != nil {
		return []error{ErrInvalid, e.Err}
	}
	return []error{ErrInvalid}
}

// Builtin returns the default rule set for theme scalars, colors, mode and
// slugs.
func Builtin() []Rule {
	return []Rule{
		{Field: FieldColor, Expr: `type(value) == string && value.matches('^#[0-9a-fA-F]{6}$')`, Message: "must be a 6-digit hex color such as #1a2b3c"},
		{Field: FieldSlug, Expr: `type(value) == string && size(value) <= 64 && value.matches('^[a-z0-9]+(-[a-z0-9]+)*$')`, Message: "must be lowercase letters, digits and single hyphens"},
		{Field: FieldSpacingBase, Expr: `type(value) == double && value >= 0.5 && value <= 3.0`, Message: "must be between 0.5 and 3"},
		{Field: FieldSpacingSection, Expr: `type(value) == double && value >= 0.5 && value <= 4.0`, Message: "must be between 0.5 and 4"},
		{Field: FieldSpacingComponent, Expr: `type(value) == double && value >= 0.25 && value <= 3.0`, Message: "must be between 0.25 and 3"},
		{Field: FieldBorderRadius, Expr: `type(value) == double && value >= 0.0 && value <= 32.0`, Message: "must be between 0 and 32"},
		{Field: FieldShadowIntensity, Expr: `type(value) == double && value >= 0.0 && value <= 100.0`, Message: "must be between 0 and 100"},
		{Field: FieldAnimationSpeed, Expr: `type(value) == double && value >= 100.0 && value <= 1000.0`, Message: "must be between 100 and 1000 milliseconds"},
		{Field: FieldMode, Expr: `value in ['light', 'dark', 'auto']`, Message: "must be light, dark or auto"},
	}
}

// OneOf builds a membership rule for a closed catalogue such as font names.
func OneOf(field string, allowed []string, message string) Rule {
	quoted := make([]string, len(allowed))
	for i, item := range allowed {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return Rule{
		Field:   field,
		Expr:    fmt.Sprintf("value in [%s]", strings.Join(quoted, ", ")),
		Message: message,
	}
}

// Validator evaluates compiled rules. It is safe for concurrent use.
type Validator struct {
	mu       sync.RWMutex
	rules    map[string]Rule
	programs map[string]celgo.Program
}

// New compiles rules. Later rules replace earlier ones for the same field.
func New(rules ...Rule) (*Validator, error) {
	env, err := celgo.NewEnv(celgo.Variable("value", celgo.DynType))
	if err != nil {
		return nil, fmt.Errorf("validation: cel env: %w", err)
	}
	v := &Validator{
		rules:    make(map[string]Rule, len(rules)),
		programs: make(map[string]celgo.Program, len(rules)),
	}
	for _, rule := range rules {
		if rule.Field == "" {
			return nil, fmt.Errorf("validation: rule field must not be empty")
		}
		ast, issues := env.Parse(rule.Expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("validation: parse rule %q: %w", rule.Field, issues.Err())
		}
		checked, issues := env.Check(ast)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("validation: check rule %q: %w", rule.Field, issues.Err())
		}
		prg, err := env.Program(checked)
		if err != nil {
			return nil, fmt.Errorf("validation: program %q: %w", rule.Field, err)
		}
		v.rules[rule.Field] = rule
		v.programs[rule.Field] = prg
	}
	return v, nil
}

// MustNew is New that panics on error, for package-level rule sets.
func MustNew(rules ...Rule) *Validator {
	v, err := New(rules...)
	if err != nil {
		panic(err)
	}
	return v
}

// Check evaluates the rule registered for field against value. Fields without
// a rule are accepted.
func (v *Validator) Check(field string, value any) error {
	if v == nil {
		return nil
	}
	v.mu.RLock()
	prg, ok := v.programs[field]
	rule := v.rules[field]
	v.mu.RUnlock()
	if !ok {
		return nil
	}

	out, _, err := prg.Eval(map[string]any{"value": normalize(value)})
	if err != nil {
		return &FieldError{Field: field, Value: value, Rule: rule.Expr, Message: rule.Message, Err: err}
	}
	if passed, ok := out.Value().(bool); !ok || !passed {
		return &FieldError{Field: field, Value: value, Rule: rule.Expr, Message: rule.Message}
	}
	return nil
}

// Fields returns the field names with a registered rule, sorted.
func (v *Validator) Fields() []string {
	if v == nil {
		return nil
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	names := make([]string, 0, len(v.rules))
	for name := range v.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rule returns the rule registered for field.
func (v *Validator) Rule(field string) (Rule, bool) {
	if v == nil {
		return Rule{}, false
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	rule, ok := v.rules[field]
	return rule, ok
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// Default returns the validator compiled from Builtin.
func Default() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = MustNew(Builtin()...)
	})
	return defaultValidator
}

// Check validates value with the default rule set.
func Check(field string, value any) error {
	return Default().Check(field, value)
}

// Slug validates a portfolio slug.
func Slug(value string) error {
	return Check(FieldSlug, value)
}

// Color validates a hex color.
func Color(value string) error {
	return Check(FieldColor, value)
}

// normalize folds Go numeric kinds into float64 so numeric rules only need
// to deal with CEL doubles.
func normalize(value any) any {
	switch typed := value.(type) {
	case int:
		return float64(typed)
	case int8:
		return float64(typed)
	case int16:
		return float64(typed)
	case int32:
		return float64(typed)
	case int64:
		return float64(typed)
	case uint:
		return float64(typed)
	case uint8:
		return float64(typed)
	case uint16:
		return float64(typed)
	case uint32:
		return float64(typed)
	case uint64:
		return float64(typed)
	case float32:
		return float64(typed)
	case json.Number:
		if f, err := typed.Float64(); err == nil {
			return f
		}
		return typed.String()
	default:
		return value
	}
}
