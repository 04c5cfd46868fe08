package layering

import "reflect"

// MergeProps composes property maps ordered from weakest (defaults) to
// strongest, returning a new map that keeps every default key while letting
// stronger layers replace a value only when the incoming value is Meaningful.
//
// Empty slices and empty maps never replace a default. Scalars always do,
// including "", 0 and false. Keys that only exist in an override are kept
// when their value is meaningful. Inputs are never mutated.
func MergeProps(defaults map[string]any, layers ...map[string]any) map[string]any {
	merged := CloneMap(defaults)
	if merged == nil {
		merged = map[string]any{}
	}
	for _, layer := range layers {
		for key, value := range layer {
			if !Meaningful(value) {
				continue
			}
			merged[key] = Clone(value)
		}
	}
	return merged
}

// Overlay composes style maps ordered from weakest to strongest. Every key of a
// stronger layer overwrites the weaker value unconditionally, so an explicit
// empty string clears a default.
func Overlay(base map[string]any, layers ...map[string]any) map[string]any {
	merged := CloneMap(base)
	if merged == nil {
		merged = map[string]any{}
	}
	for _, layer := range layers {
		for key, value := range layer {
			merged[key] = Clone(value)
		}
	}
	return merged
}

// Meaningful reports whether value is allowed to override a default. Nil,
// empty slices/arrays and empty maps are not meaningful; anything else is.
func Meaningful(value any) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return Meaningful(rv.Elem().Interface())
	default:
		return true
	}
}

// CloneMap returns a deep copy of src. A nil map stays nil.
func CloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = Clone(value)
	}
	return out
}

// Clone returns a deep copy of value so callers can hand out defaults without
// exposing the registry's backing maps and slices.
func Clone[T any](value T) T {
	cloned := cloneValue(reflect.ValueOf(&value).Elem())
	if !cloned.IsValid() {
		var zero T
		return zero
	}
	out, _ := cloned.Interface().(T)
	return out
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(cloneValue(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := cloneValue(v.Elem())
		out := reflect.New(v.Type()).Elem()
		out.Set(elem)
		return out
	case reflect.Struct:
		clone := reflect.New(v.Type()).Elem()
		clone.Set(v)
		for i := 0; i < v.NumField(); i++ {
			field := clone.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(cloneValue(v.Field(i)))
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	default:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		return out
	}
}
