package schema

import (
	"reflect"
	"strings"
)

// LongTextThreshold is the length above which a sniffed string is edited as
// multi-line text.
const LongTextThreshold = 80

// Sniff infers a field from a default value: booleans become toggles, long
// strings multi-line text, arrays repeatable lists, records nested editors,
// and anything else single-line text. Arrays whose first element is a record
// get an item schema sniffed from that record.
func Sniff(value any) Field {
	switch typed := value.(type) {
	case bool:
		return Field{Type: TypeBoolean}
	case string:
		if len(typed) > LongTextThreshold || strings.Contains(typed, "\n") {
			return Field{Type: TypeTextarea}
		}
		return Field{Type: TypeText}
	case map[string]any:
		return Field{Type: TypeObject, Fields: SniffAll(typed)}
	case []any:
		field := Field{Type: TypeArray}
		if len(typed) > 0 {
			if record, ok := typed[0].(map[string]any); ok {
				field.ItemSchema = SniffAll(record)
			}
		}
		return field
	case nil:
		return Field{Type: TypeText}
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return Field{Type: TypeArray}
	case reflect.Map:
		return Field{Type: TypeObject}
	default:
		return Field{Type: TypeText}
	}
}

// SniffAll infers fields for every key of a record.
func SniffAll(record map[string]any) Fields {
	if len(record) == 0 {
		return nil
	}
	fields := make(Fields, len(record))
	for key, value := range record {
		field := Sniff(value)
		field.Label = Label(key)
		fields[key] = field
	}
	return fields
}
