package folio

import (
	"strings"

	"github.com/goliatone/go-folio/dynamic"
	"github.com/goliatone/go-folio/registry"
)

// Source says where an instance's implementation comes from. It is either a
// StaticRef into the registry or a DynamicSource carrying component code.
type Source interface {
	isSource()
}

// StaticRef points at a registry variant.
type StaticRef struct {
	SectionType registry.SectionType
	VariantID   string
}

// DynamicSource is marketplace component code.
type DynamicSource struct {
	Code        string
	Fingerprint string
}

func (StaticRef) isSource()     {}
func (DynamicSource) isSource() {}

// SourceOf picks the implementation path for inst. The marketplace flag or
// any non-empty component code selects the dynamic path, and that check
// happens before the registry is ever consulted.
func SourceOf(inst Instance) Source {
	if inst.IsMarketplace || strings.TrimSpace(inst.ComponentCode) != "" {
		return DynamicSource{
			Code:        inst.ComponentCode,
			Fingerprint: dynamic.Fingerprint(inst.ComponentCode),
		}
	}
	return StaticRef{
		SectionType: inst.SectionType,
		VariantID:   inst.VariantID,
	}
}

// IsDynamic reports whether inst renders through the marketplace path.
func IsDynamic(inst Instance) bool {
	_, ok := SourceOf(inst).(DynamicSource)
	return ok
}
