package folio

import (
	"encoding/json"

	"github.com/goliatone/go-folio/layering"
	"github.com/goliatone/go-folio/theme"
)

// Trace explains which layer produced the effective value of one style key
// for one instance.
type Trace struct {
	InstanceID string          `json:"instance_id"`
	Key        string          `json:"key"`
	Origin     layering.Origin `json:"origin"`
	Value      any             `json:"value,omitempty"`
	Layers     []Provenance    `json:"layers"`
}

// Provenance details how a single layer contributed to a traced key.
type Provenance struct {
	Origin layering.Origin `json:"origin"`
	Value  any             `json:"value,omitempty"`
	Found  bool            `json:"found"`
}

// ToJSON serialises the trace for logging or transport.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// Trace reports, weakest first, what each layer holds for the style key and
// which one won.
func (r *Resolver) Trace(inst Instance, t theme.Theme, key string) Trace {
	trace := Trace{InstanceID: inst.ID, Key: key}

	var defaults map[string]any
	res := r.Resolve(inst, t)
	if res.Status == StatusResolved {
		defaults = res.Variant.DefaultStyles
	}

	add := func(origin layering.Origin, m map[string]any) {
		trace.Layers = append(trace.Layers, Provenance{Origin: origin, Value: m[key], Found: defined(m, key)})
	}
	add(layering.OriginDefault, defaults)
	if res.Status != StatusUnresolved {
		fallbacks := ThemeFallbacks(t)
		if _, shared := fallbacks[key]; shared && !defined(inst.Styles, key) {
			add(layering.OriginTheme, fallbacks)
		} else {
			add(layering.OriginTheme, nil)
		}
	}
	add(layering.OriginInstance, inst.Styles)
	if res.Status != StatusUnresolved && key == StyleTextColor && t.IsDark() {
		add(layering.OriginForced, map[string]any{key: LightText})
	}

	trace.Value = res.Styles[key]
	for i := len(trace.Layers) - 1; i >= 0; i-- {
		if trace.Layers[i].Found {
			trace.Origin = trace.Layers[i].Origin
			break
		}
	}
	return trace
}
