package openapi

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// propsDocument assembles one OpenAPI document around a props schema: a
// single operation that replaces an instance's props.
type propsDocument struct {
	config generatorConfig
	shapes *shapeSet
	root   *schemaNode
}

func (d *propsDocument) build() (map[string]any, error) {
	if d.root == nil {
		return nil, errors.New("openapi: props schema is nil")
	}

	var body map[string]any
	if name := d.config.rootComponent; name != "" {
		body = map[string]any{"$ref": d.shapes.pin(name, d.root)}
		d.walk(name, d.root)
	} else {
		body = d.schema(d.root, d.config.info.Title)
	}

	info := map[string]any{
		"title":   d.config.info.Title,
		"version": d.config.info.Version,
	}
	if d.config.info.Description != "" {
		info["description"] = d.config.info.Description
	}

	doc := map[string]any{
		"openapi": d.config.openAPIVersion,
		"info":    info,
		"paths": map[string]any{
			d.config.operation.Path: map[string]any{
				d.config.operation.method(): d.operation(body),
			},
		},
	}
	if schemas := d.shapes.schemas(); schemas != nil {
		doc["components"] = map[string]any{"schemas": schemas}
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *propsDocument) operation(body map[string]any) map[string]any {
	statuses := make([]string, 0, len(d.config.responses))
	for status := range d.config.responses {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	responses := make(map[string]any, len(statuses))
	for _, status := range statuses {
		responses[status] = map[string]any{"description": d.config.responses[status]}
	}

	op := map[string]any{
		"operationId": d.config.operation.id(),
		"requestBody": map[string]any{
			"required": true,
			"content": map[string]any{
				d.config.contentType: map[string]any{"schema": body},
			},
		},
		"responses": responses,
	}
	if summary := strings.TrimSpace(d.config.operation.Summary); summary != "" {
		op["summary"] = summary
	}
	if params := pathParameters(d.config.operation.Path); len(params) > 0 {
		op["parameters"] = params
	}
	if v := d.config.variant; v.ID != "" {
		op["x-folio-variant"] = map[string]any{"section": v.Section, "id": v.ID}
	}
	return op
}

// schema renders node, replacing shared object shapes with references.
func (d *propsDocument) schema(node *schemaNode, hint string) map[string]any {
	if node.Type == "object" {
		if ref := d.shapes.use(hint, node); ref != "" {
			return map[string]any{"$ref": ref}
		}
	}
	out := node.baseMap()
	if len(node.Properties) > 0 || node.Type == "object" {
		props := make(map[string]any, len(node.Properties))
		for _, key := range sortedNodeNames(node.Properties) {
			props[key] = d.schema(node.Properties[key], joinComponentName(hint, key))
		}
		out["properties"] = props
	}
	if node.Items != nil {
		out["items"] = d.schema(node.Items, joinComponentName(hint, "item"))
	}
	return out
}

// walk counts the shapes below a pinned root so shared records are still
// published even though the root itself is emitted inline.
func (d *propsDocument) walk(hint string, node *schemaNode) {
	for _, key := range sortedNodeNames(node.Properties) {
		d.schema(node.Properties[key], joinComponentName(hint, key))
	}
	if node.Items != nil {
		d.schema(node.Items, joinComponentName(hint, "item"))
	}
}

var pathParamRegexp = regexp.MustCompile(`\{([^{}]+)\}`)

func pathParameters(path string) []any {
	matches := pathParamRegexp.FindAllStringSubmatch(path, -1)
	params := make([]any, 0, len(matches))
	for _, m := range matches {
		params = append(params, map[string]any{
			"name":     m[1],
			"in":       "path",
			"required": true,
			"schema":   map[string]any{"type": "string"},
		})
	}
	return params
}

// validateDocument checks the fields every consumer relies on.
func validateDocument(doc map[string]any) error {
	if doc == nil {
		return errors.New("openapi: document is nil")
	}
	if v, _ := doc["openapi"].(string); v == "" {
		return errors.New("openapi: missing version")
	}
	info, _ := doc["info"].(map[string]any)
	for _, key := range []string{"title", "version"} {
		if s, _ := info[key].(string); s == "" {
			return fmt.Errorf("openapi: info.%s must be set", key)
		}
	}
	paths, _ := doc["paths"].(map[string]any)
	if len(paths) == 0 {
		return errors.New("openapi: no paths")
	}
	for path, item := range paths {
		ops, _ := item.(map[string]any)
		if len(ops) == 0 {
			return fmt.Errorf("openapi: path %q has no operations", path)
		}
		for method, raw := range ops {
			op, _ := raw.(map[string]any)
			where := strings.ToUpper(method) + " " + path
			if _, ok := op["operationId"].(string); !ok {
				return fmt.Errorf("openapi: %s: missing operationId", where)
			}
			body, _ := op["requestBody"].(map[string]any)
			if content, _ := body["content"].(map[string]any); len(content) == 0 {
				return fmt.Errorf("openapi: %s: missing request content", where)
			}
			if _, ok := op["responses"].(map[string]any); !ok {
				return fmt.Errorf("openapi: %s: missing responses", where)
			}
		}
	}
	return nil
}
