package schema

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrIndexOutOfRange is returned when an array item index does not exist.
var ErrIndexOutOfRange = errors.New("schema: index out of range")

// Control names the editing widget a host renders for a field.
type Control string

const (
	ControlText     Control = "text"
	ControlTextarea Control = "textarea"
	ControlToggle   Control = "toggle"
	ControlSelect   Control = "select"
	ControlNumber   Control = "number"
	ControlList     Control = "list"
	ControlRecords  Control = "records"
	ControlGroup    Control = "group"
	ControlColor    Control = "color"
	ControlURL      Control = "url"
	ControlImage    Control = "image"
)

// Source records whether a field came from the declared schema or was
// sniffed from a default value.
type Source string

const (
	SourceSchema  Source = "schema"
	SourceSniffed Source = "sniffed"
)

// FormField is one entry of a form plan.
type FormField struct {
	Key         string      `json:"key"`
	Path        string      `json:"path"`
	Label       string      `json:"label"`
	Control     Control     `json:"control"`
	Placeholder string      `json:"placeholder,omitempty"`
	Options     []string    `json:"options,omitempty"`
	Value       any         `json:"value,omitempty"`
	Source      Source      `json:"source"`
	Children    []FormField `json:"children,omitempty"`
	Items       []FormItem  `json:"items,omitempty"`
	ItemSchema  Fields      `json:"itemSchema,omitempty"`
}

// FormItem is the sub-form for one element of an array of records.
type FormItem struct {
	Index  int         `json:"index"`
	Fields []FormField `json:"fields"`
}

// Form is the ordered plan for editing a property map.
type Form struct {
	Fields []FormField `json:"fields"`
}

// Field returns the top-level form field for key.
func (f Form) Field(key string) (FormField, bool) {
	for _, field := range f.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return FormField{}, false
}

// Plan builds a form for values. Keys are the union of the schema, the
// defaults and the values, sorted. Keys without a schema entry are sniffed
// from their default, or from the value when no default exists.
func Plan(fields Fields, defaults, values map[string]any) Form {
	return Form{Fields: planFields("", fields, defaults, values)}
}

func planFields(prefix string, fields Fields, defaults, values map[string]any) []FormField {
	keys := unionKeys(fields, defaults, values)
	out := make([]FormField, 0, len(keys))
	for _, key := range keys {
		value, ok := values[key]
		if !ok {
			value = defaults[key]
		}
		field, declared := fields[key]
		source := SourceSchema
		if !declared {
			source = SourceSniffed
			if def, hasDefault := defaults[key]; hasDefault {
				field = Sniff(def)
			} else {
				field = Sniff(value)
			}
		}
		out = append(out, planField(joinPath(prefix, key), key, field, source, value))
	}
	return out
}

func planField(path, key string, field Field, source Source, value any) FormField {
	label := field.Label
	if label == "" {
		label = Label(key)
	}
	ff := FormField{
		Key:         key,
		Path:        path,
		Label:       label,
		Control:     controlFor(field),
		Placeholder: field.Placeholder,
		Options:     append([]string(nil), field.Options...),
		Value:       value,
		Source:      source,
	}
	switch {
	case field.IsRecordList():
		ff.ItemSchema = field.ItemSchema
		items, _ := value.([]any)
		for i, item := range items {
			record, _ := item.(map[string]any)
			ff.Items = append(ff.Items, FormItem{
				Index:  i,
				Fields: planFields(path+"."+strconv.Itoa(i), field.ItemSchema, nil, record),
			})
		}
	case field.Type == TypeObject:
		record, _ := value.(map[string]any)
		ff.Children = planFields(path, field.Fields, nil, record)
	}
	return ff
}

func controlFor(field Field) Control {
	switch field.Type {
	case TypeTextarea:
		return ControlTextarea
	case TypeBoolean:
		return ControlToggle
	case TypeSelect:
		return ControlSelect
	case TypeNumber:
		return ControlNumber
	case TypeArray:
		if field.IsRecordList() {
			return ControlRecords
		}
		return ControlList
	case TypeObject:
		return ControlGroup
	case TypeColor:
		return ControlColor
	case TypeURL:
		return ControlURL
	case TypeImage:
		return ControlImage
	default:
		return ControlText
	}
}

// AddItem appends a new element to an array property. Record lists get an
// empty record built from item; plain lists get an empty string. The input
// slice is not modified.
func AddItem(items []any, item Fields) []any {
	out := make([]any, len(items), len(items)+1)
	copy(out, items)
	if len(item) > 0 {
		return append(out, NewRecord(item))
	}
	return append(out, "")
}

// RemoveItem removes element index and shifts the rest down so indexes stay
// contiguous. The input slice is not modified.
func RemoveItem(items []any, index int) ([]any, error) {
	if index < 0 || index >= len(items) {
		return items, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(items))
	}
	out := make([]any, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...), nil
}

func unionKeys(fields Fields, maps ...map[string]any) []string {
	seen := map[string]struct{}{}
	for key := range fields {
		seen[key] = struct{}{}
	}
	for _, m := range maps {
		for key := range m {
			seen[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}
