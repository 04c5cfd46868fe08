package registry

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-folio/css"
	"github.com/goliatone/go-folio/theme"
)

// View is what a Renderer receives: the resolved props and styles for one
// instance plus the portfolio theme.
type View struct {
	InstanceID  string
	SectionType SectionType
	VariantID   string
	Props       map[string]any
	Styles      map[string]any
	Theme       theme.Theme
}

// Style returns the inline style attribute for the instance.
func (v View) Style() string {
	return css.Inline(v.Styles)
}

// String returns the prop as text. Numbers are formatted; other types yield "".
func (v View) String(key string) string {
	switch typed := v.Props[key].(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case fmt.Stringer:
		return typed.String()
	default:
		return ""
	}
}

// Bool returns the prop as a boolean.
func (v View) Bool(key string) bool {
	b, _ := v.Props[key].(bool)
	return b
}

// Strings returns the text entries of a list prop.
func (v View) Strings(key string) []string {
	items, _ := v.Props[key].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Records returns the record entries of a list prop.
func (v View) Records(key string) []map[string]any {
	items, _ := v.Props[key].([]any)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if record, ok := item.(map[string]any); ok {
			out = append(out, record)
		}
	}
	return out
}

// Record returns a nested record prop.
func (v View) Record(key string) map[string]any {
	record, _ := v.Props[key].(map[string]any)
	return record
}

func field(record map[string]any, key string) string {
	switch typed := record[key].(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	default:
		return ""
	}
}
