package openapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/goliatone/go-folio/schema"
)

const colorPattern = "^#[0-9a-fA-F]{6}$"

type schemaNode struct {
	Type        string
	Format      string
	Title       string
	Description string
	Properties  map[string]*schemaNode
	Items       *schemaNode
	Enum        []any
	Default     any
	Pattern     string
	Control     string
}

func newObjectNode() *schemaNode {
	return &schemaNode{
		Type:       "object",
		Properties: map[string]*schemaNode{},
	}
}

func (n *schemaNode) baseMap() map[string]any {
	result := map[string]any{}
	if n.Type != "" {
		result["type"] = n.Type
	}
	if n.Format != "" {
		result["format"] = n.Format
	}
	if n.Title != "" {
		result["title"] = n.Title
	}
	if n.Description != "" {
		result["description"] = n.Description
	}
	if n.Default != nil {
		result["default"] = n.Default
	}
	if len(n.Enum) > 0 {
		result["enum"] = n.Enum
	}
	if n.Pattern != "" {
		result["pattern"] = n.Pattern
	}
	if n.Control != "" {
		result["x-folio-control"] = n.Control
	}
	return result
}

func (n *schemaNode) inlineOpenAPI() map[string]any {
	result := n.baseMap()

	if len(n.Properties) > 0 || n.Type == "object" {
		props := make(map[string]any, len(n.Properties))
		for _, name := range sortedNodeNames(n.Properties) {
			props[name] = n.Properties[name].inlineOpenAPI()
		}
		result["properties"] = props
	}

	if n.Items != nil {
		result["items"] = n.Items.inlineOpenAPI()
	}

	return result
}

// Digest identifies structurally identical nodes so repeated record shapes
// can be published once under components.
func (n *schemaNode) Digest() string {
	data, err := json.Marshal(n.inlineOpenAPI())
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// buildPropsNode turns a props schema plus defaults into a node graph. Keys
// present only in defaults are sniffed the same way the editor does.
func buildPropsNode(fields schema.Fields, defaults map[string]any) *schemaNode {
	root := newObjectNode()
	for _, key := range fields.Keys() {
		root.Properties[key] = nodeFromField(fields[key], defaults[key])
	}
	for key, value := range defaults {
		if _, declared := fields[key]; declared {
			continue
		}
		field := schema.Sniff(value)
		field.Label = schema.Label(key)
		root.Properties[key] = nodeFromField(field, value)
	}
	return root
}

func nodeFromField(field schema.Field, def any) *schemaNode {
	node := &schemaNode{
		Title:       field.Label,
		Description: field.Placeholder,
		Control:     string(field.Type),
	}
	switch field.Type {
	case schema.TypeBoolean:
		node.Type = "boolean"
	case schema.TypeNumber:
		node.Type = "number"
	case schema.TypeSelect:
		node.Type = "string"
		for _, option := range field.Options {
			node.Enum = append(node.Enum, option)
		}
	case schema.TypeColor:
		node.Type = "string"
		node.Pattern = colorPattern
	case schema.TypeURL, schema.TypeImage:
		node.Type = "string"
		node.Format = "uri"
	case schema.TypeArray:
		node.Type = "array"
		node.Items = itemNode(field, def)
	case schema.TypeObject:
		record, _ := def.(map[string]any)
		child := buildPropsNode(field.Fields, record)
		node.Type = "object"
		node.Properties = child.Properties
	default:
		node.Type = "string"
	}
	if isScalarDefault(def) {
		node.Default = def
	}
	return node
}

func itemNode(field schema.Field, def any) *schemaNode {
	if field.IsRecordList() {
		return buildPropsNode(field.ItemSchema, nil)
	}
	items, _ := def.([]any)
	if len(items) == 0 {
		return &schemaNode{Type: "string"}
	}
	return nodeFromField(schema.Sniff(items[0]), nil)
}

func isScalarDefault(value any) bool {
	switch value.(type) {
	case string, bool, float64, float32, int, int64:
		return true
	default:
		return false
	}
}

func sortedNodeNames(nodes map[string]*schemaNode) []string {
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
