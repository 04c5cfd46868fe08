package registry

import (
	"fmt"
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// Filters narrow a search. Every set filter must match.
type Filters struct {
	Category string
	Popular  *bool
	Section  SectionType
	// Expr is an expr-lang predicate over id, section, name, description,
	// tags, category, popular and premium, e.g. `premium && "dark" in tags`.
	Expr string
}

// Search applies the case-insensitive text match against name, description
// and tags first, then the structured filters. An empty query matches every
// variant. Results keep registration order.
func (r *Registry) Search(query string, filters Filters) ([]Variant, error) {
	var program *exprvm.Program
	if strings.TrimSpace(filters.Expr) != "" {
		compiled, err := r.compileFilter(filters.Expr)
		if err != nil {
			return nil, err
		}
		program = compiled
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	candidates := r.collect(func(v Variant) bool {
		return matchesText(v, needle) && matchesFilters(v, filters)
	})
	if program == nil {
		return candidates, nil
	}

	out := candidates[:0]
	for _, v := range candidates {
		result, err := exprlang.Run(program, filterEnv(v))
		if err != nil {
			return nil, fmt.Errorf("registry: filter %q on %s: %w", filters.Expr, v.Key(), err)
		}
		if keep, _ := result.(bool); keep {
			out = append(out, v)
		}
	}
	return out, nil
}

func matchesText(v Variant, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(v.Name), needle) ||
		strings.Contains(strings.ToLower(v.Description), needle) {
		return true
	}
	for _, tag := range v.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func matchesFilters(v Variant, f Filters) bool {
	if f.Category != "" && !strings.EqualFold(v.Category, f.Category) {
		return false
	}
	if f.Popular != nil && v.Popular != *f.Popular {
		return false
	}
	if f.Section != "" && v.SectionType != f.Section {
		return false
	}
	return true
}

func filterEnv(v Variant) map[string]any {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"id":          v.ID,
		"section":     string(v.SectionType),
		"name":        v.Name,
		"description": v.Description,
		"tags":        tags,
		"category":    v.Category,
		"popular":     v.Popular,
		"premium":     v.Premium,
	}
}

func (r *Registry) compileFilter(expression string) (*exprvm.Program, error) {
	r.exprMu.Lock()
	defer r.exprMu.Unlock()
	if program, ok := r.exprCache[expression]; ok {
		return program, nil
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(filterEnv(Variant{})),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("registry: compile filter %q: %w", expression, err)
	}
	r.exprCache[expression] = program
	return program, nil
}
