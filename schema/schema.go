// Package schema describes the editable properties of a variant. A Field is a
// recursive tagged type: arrays of records carry an ItemSchema and objects
// carry nested Fields. When no schema entry exists for a property, Sniff
// infers one from the property's current default value.
package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// FieldType selects the editing control for a property.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeTextarea FieldType = "textarea"
	TypeBoolean  FieldType = "boolean"
	TypeSelect   FieldType = "select"
	TypeNumber   FieldType = "number"
	TypeArray    FieldType = "array"
	TypeObject   FieldType = "object"
	TypeColor    FieldType = "color"
	TypeURL      FieldType = "url"
	TypeImage    FieldType = "image"
)

// ErrUnknownType is returned when a field declares an unsupported type.
var ErrUnknownType = errors.New("schema: unknown field type")

// Field is the metadata for one property.
type Field struct {
	Type        FieldType `json:"type" yaml:"type"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty" yaml:"options,omitempty"`
	ItemSchema  Fields    `json:"itemSchema,omitempty" yaml:"itemSchema,omitempty"`
	Fields      Fields    `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Fields maps property names to their metadata.
type Fields map[string]Field

// Keys returns the property names sorted.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsRecordList reports whether the field is an array of structured records.
func (f Field) IsRecordList() bool {
	return f.Type == TypeArray && len(f.ItemSchema) > 0
}

// Validate checks the field types recursively.
func (f Fields) Validate() error {
	var errs []error
	for _, key := range f.Keys() {
		if err := f[key].validate(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Field) validate(path string) error {
	switch f.Type {
	case TypeText, TypeTextarea, TypeBoolean, TypeNumber, TypeColor, TypeURL, TypeImage:
	case TypeSelect:
		if len(f.Options) == 0 {
			return fmt.Errorf("schema: %s: select requires options", path)
		}
	case TypeArray:
		if err := validateNested(path+"[]", f.ItemSchema); err != nil {
			return err
		}
	case TypeObject:
		if err := validateNested(path, f.Fields); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w %q at %s", ErrUnknownType, f.Type, path)
	}
	return nil
}

func validateNested(prefix string, fields Fields) error {
	var errs []error
	for _, key := range fields.Keys() {
		if err := fields[key].validate(prefix + "." + key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Zero returns the empty value a new record entry starts with for field.
func Zero(f Field) any {
	switch f.Type {
	case TypeBoolean:
		return false
	case TypeNumber:
		return float64(0)
	case TypeSelect:
		if len(f.Options) > 0 {
			return f.Options[0]
		}
		return ""
	case TypeArray:
		return []any{}
	case TypeObject:
		return NewRecord(f.Fields)
	default:
		return ""
	}
}

// NewRecord builds an empty record for an item schema.
func NewRecord(fields Fields) map[string]any {
	record := make(map[string]any, len(fields))
	for key, field := range fields {
		record[key] = Zero(field)
	}
	return record
}

// Label turns a camelCase property name into a display label.
func Label(key string) string {
	if key == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case r == '_' || r == '-':
			b.WriteRune(' ')
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
