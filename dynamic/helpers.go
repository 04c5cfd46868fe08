package dynamic

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Helper is a pure function exposed to component code by name.
type Helper func(args ...any) (any, error)

// HelperRegistry stores helpers keyed by name. Component code can only call
// what is registered here.
type HelperRegistry struct {
	mu      sync.RWMutex
	helpers map[string]Helper
}

// NewHelperRegistry constructs an empty registry.
func NewHelperRegistry() *HelperRegistry {
	return &HelperRegistry{
		helpers: make(map[string]Helper),
	}
}

// Register stores fn under name guarding against duplicates and names that
// would shadow the element builder or the props binding.
func (r *HelperRegistry) Register(name string, fn Helper) error {
	if fn == nil {
		return fmt.Errorf("dynamic: helper %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("dynamic: helper name must not be empty")
	}
	if reservedName(name) {
		return fmt.Errorf("dynamic: helper name %q is reserved", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.helpers == nil {
		r.helpers = make(map[string]Helper)
	}
	if _, exists := r.helpers[name]; exists {
		return fmt.Errorf("dynamic: helper %q already registered", name)
	}
	r.helpers[name] = fn
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *HelperRegistry) Clone() *HelperRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &HelperRegistry{
		helpers: make(map[string]Helper, len(r.helpers)),
	}
	for name, fn := range r.helpers {
		clone.helpers[name] = fn
	}
	return clone
}

// Call executes the helper registered for name.
func (r *HelperRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("dynamic: helper registry is nil")
	}
	r.mu.RLock()
	fn := r.helpers[name]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("dynamic: helper %q not registered", name)
	}
	return fn(args...)
}

// Names returns registered helper names sorted alphabetically.
func (r *HelperRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.helpers))
	for name := range r.helpers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func reservedName(name string) bool {
	switch name {
	case "h", "props", "render", "Component", "Fragment", "helpers":
		return true
	default:
		return false
	}
}

// DefaultHelpers returns the helpers every runtime starts with: upper, lower,
// truncate and join.
func DefaultHelpers() *HelperRegistry {
	r := NewHelperRegistry()
	_ = r.Register("upper", func(args ...any) (any, error) {
		return strings.ToUpper(argString(args, 0)), nil
	})
	_ = r.Register("lower", func(args ...any) (any, error) {
		return strings.ToLower(argString(args, 0)), nil
	})
	_ = r.Register("truncate", func(args ...any) (any, error) {
		text := argString(args, 0)
		limit := argInt(args, 1)
		if limit <= 0 || utf8.RuneCountInString(text) <= limit {
			return text, nil
		}
		runes := []rune(text)
		return string(runes[:limit]) + "…", nil
	})
	_ = r.Register("join", func(args ...any) (any, error) {
		items, _ := argAt(args, 0).([]any)
		sep := ", "
		if len(args) > 1 {
			sep = argString(args, 1)
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, sep), nil
	})
	return r
}

func argAt(args []any, i int) any {
	if i >= len(args) {
		return nil
	}
	return args[i]
}

func argString(args []any, i int) string {
	switch typed := argAt(args, i).(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

func argInt(args []any, i int) int {
	switch typed := argAt(args, i).(type) {
	case int:
		return typed
	case int64:
		return int(typed)
	case float64:
		return int(typed)
	default:
		return 0
	}
}
