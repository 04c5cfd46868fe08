// Package hydrate turns stored document payloads into typed documents. Pre
// hooks rewrite the raw map (legacy field names, missing collections) and
// post hooks repair the decoded value (defaults, renumbering).
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context identifies the document being decoded so hooks and errors can
// name it.
type Context struct {
	ID    string
	Slug  string
	Owner string
}

func (c Context) String() string {
	switch {
	case c.Slug != "":
		return c.Slug
	case c.ID != "":
		return c.ID
	default:
		return "<unsaved>"
	}
}

// PreHook rewrites the raw payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook adjusts or validates the decoded document.
type PostHook[T any] func(Context, *T) error

// CustomDecoder replaces the default JSON decoding when provided.
type CustomDecoder[T any] func(Context, map[string]any) (T, error)

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts stored payloads into T.
type Decoder[T any] struct {
	preHooks     []PreHook
	postHooks    []PostHook[T]
	configureDec []func(*json.Decoder)
	custom       CustomDecoder[T]
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithDisallowUnknownFields rejects payload keys T does not declare.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
	}
}

// WithCustomDecoder replaces the default JSON decoding path.
func WithCustomDecoder[T any](decoder CustomDecoder[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.custom = decoder
	}
}

// NewDecoder constructs a Decoder.
func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// DecodeBytes parses a JSON object and decodes it.
func (d *Decoder[T]) DecodeBytes(ctx Context, data []byte) (T, error) {
	var zero T
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return zero, fmt.Errorf("hydrate: parse document %s: %w", ctx, err)
	}
	return d.Decode(ctx, payload)
}

// Decode converts payload into T applying the configured hooks. The payload
// map is not modified.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T

	if payload == nil {
		return zero, fmt.Errorf("hydrate: document %s is empty", ctx)
	}

	current, err := clonePayload(payload)
	if err != nil {
		return zero, fmt.Errorf("hydrate: clone document %s: %w", ctx, err)
	}

	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for document %s failed: %w", ctx, err)
		}
		if next != nil {
			current = next
		}
	}

	var result T
	if d.custom != nil {
		result, err = d.custom(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: custom decoder for document %s failed: %w", ctx, err)
		}
	} else {
		buffer, err := json.Marshal(current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: marshal document %s: %w", ctx, err)
		}
		decoder := json.NewDecoder(bytes.NewReader(buffer))
		for _, configure := range d.configureDec {
			if configure != nil {
				configure(decoder)
			}
		}
		if err := decoder.Decode(&result); err != nil {
			return zero, fmt.Errorf("hydrate: decode document %s: %w", ctx, err)
		}
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for document %s failed: %w", ctx, err)
		}
	}

	return result, nil
}

// RenameKeys returns a PreHook that moves legacy keys to their current
// names. A current key that is already set wins over its legacy alias.
func RenameKeys(aliases map[string]string) PreHook {
	return func(_ Context, payload map[string]any) (map[string]any, error) {
		renameKeys(payload, aliases)
		return payload, nil
	}
}

// RenameNestedKeys applies aliases to every record in the list stored under
// key.
func RenameNestedKeys(key string, aliases map[string]string) PreHook {
	return func(_ Context, payload map[string]any) (map[string]any, error) {
		list, ok := payload[key].([]any)
		if !ok {
			return payload, nil
		}
		for _, item := range list {
			if record, ok := item.(map[string]any); ok {
				renameKeys(record, aliases)
			}
		}
		return payload, nil
	}
}

func renameKeys(record map[string]any, aliases map[string]string) {
	for legacy, current := range aliases {
		value, ok := record[legacy]
		if !ok {
			continue
		}
		delete(record, legacy)
		if _, exists := record[current]; !exists {
			record[current] = value
		}
	}
}

func clonePayload(payload map[string]any) (map[string]any, error) {
	buffer, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(buffer, &out); err != nil {
		return nil, err
	}
	return out, nil
}
