// Package openapi exports a variant's props schema as an OpenAPI document so
// hosts can generate editors or validate payloads outside Go.
package openapi

import (
	"github.com/goliatone/go-folio/schema"
)

// Generator builds OpenAPI documents for props schemas. It holds only
// configuration and is safe for concurrent use.
type Generator struct {
	config generatorConfig
}

// NewGenerator constructs a generator with the provided options applied over
// the defaults.
func NewGenerator(opts ...GeneratorOption) Generator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return Generator{config: cfg}
}

// Generate returns the OpenAPI document for fields. Keys present only in
// defaults are included with sniffed types; scalar defaults are published as
// schema defaults.
func (g Generator) Generate(fields schema.Fields, defaults map[string]any) (map[string]any, error) {
	root := buildPropsNode(fields, defaults)
	doc := &propsDocument{config: g.config, shapes: newShapeSet(), root: root}
	return doc.build()
}

// Export is Generate with a default generator.
func Export(fields schema.Fields, defaults map[string]any, opts ...GeneratorOption) (map[string]any, error) {
	return NewGenerator(opts...).Generate(fields, defaults)
}
