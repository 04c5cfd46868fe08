package openapi

import (
	"regexp"
	"strconv"
	"strings"
)

const componentRefPrefix = "#/components/schemas/"

// shapeSet tracks object schemas by structure. A shape is published under
// components once it is pinned by name or used a second time; the first
// plain use stays inline.
type shapeSet struct {
	byDigest map[string]*shape
	taken    map[string]bool
}

type shape struct {
	name   string
	node   *schemaNode
	uses   int
	pinned bool
}

func newShapeSet() *shapeSet {
	return &shapeSet{byDigest: map[string]*shape{}, taken: map[string]bool{}}
}

// pin publishes node under name and returns its reference.
func (s *shapeSet) pin(name string, node *schemaNode) string {
	sh := s.track(name, node)
	if sh == nil {
		return ""
	}
	sh.pinned = true
	return componentRefPrefix + sh.name
}

// use records one occurrence of node and returns a reference when the shape
// is shared, or "" when it should be inlined.
func (s *shapeSet) use(hint string, node *schemaNode) string {
	sh := s.track(hint, node)
	if sh == nil || !sh.published() {
		return ""
	}
	return componentRefPrefix + sh.name
}

func (s *shapeSet) track(hint string, node *schemaNode) *shape {
	if node == nil {
		return nil
	}
	digest := node.Digest()
	if digest == "" {
		return nil
	}
	if sh, ok := s.byDigest[digest]; ok {
		sh.uses++
		return sh
	}
	sh := &shape{name: s.claim(hint), node: node, uses: 1}
	s.byDigest[digest] = sh
	return sh
}

func (sh *shape) published() bool {
	return sh.pinned || sh.uses > 1
}

// claim reserves a component name derived from hint, numbering repeats.
func (s *shapeSet) claim(hint string) string {
	base := sanitizeComponentName(hint)
	if base == "" {
		base = "Schema"
	}
	name := base
	for n := 1; s.taken[name]; n++ {
		name = base + strconv.Itoa(n)
	}
	s.taken[name] = true
	return name
}

// schemas returns the published component map, or nil when nothing is
// shared.
func (s *shapeSet) schemas() map[string]any {
	var out map[string]any
	for _, sh := range s.byDigest {
		if !sh.published() {
			continue
		}
		if out == nil {
			out = map[string]any{}
		}
		out[sh.name] = sh.node.inlineOpenAPI()
	}
	return out
}

var componentNameRegexp = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

func sanitizeComponentName(name string) string {
	name = strings.Trim(componentNameRegexp.ReplaceAllString(name, "_"), "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

func joinComponentName(parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return "Schema"
	}
	return strings.Join(kept, "_")
}
