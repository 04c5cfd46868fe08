package dynamic

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/a-h/templ"

	"github.com/goliatone/go-folio/css"
)

// Node is an element built by h() inside component code. Children hold
// strings, numbers, nested elements or slices of those.
type Node struct {
	Tag      string
	Attrs    map[string]any
	Children []any
}

// elementMarker tags the frozen objects h() returns so the walk can tell
// elements from arbitrary objects.
const elementMarker = "$$element"

// nodeFromExport recognises an exported h() element.
func nodeFromExport(m map[string]any) (*Node, bool) {
	if marked, _ := m[elementMarker].(bool); !marked {
		return nil, false
	}
	n := &Node{}
	n.Tag, _ = m["tag"].(string)
	n.Attrs, _ = m["attrs"].(map[string]any)
	n.Children, _ = m["children"].([]any)
	return n, true
}

var allowedTags = map[string]bool{
	"a": true, "article": true, "aside": true, "b": true, "blockquote": true,
	"br": true, "code": true, "dd": true, "div": true, "dl": true, "dt": true,
	"em": true, "figcaption": true, "figure": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "i": true, "img": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "small": true,
	"span": true, "strong": true, "table": true, "tbody": true, "td": true,
	"th": true, "thead": true, "time": true, "tr": true, "u": true, "ul": true,
}

// dropped tags are removed with their children.
var droppedTags = map[string]bool{
	"script": true, "style": true, "iframe": true, "object": true, "embed": true,
	"link": true, "meta": true, "base": true, "form": true, "input": true,
	"textarea": true, "select": true, "button": true, "frame": true, "frameset": true,
	"template": true, "svg": true, "math": true,
}

var voidTags = map[string]bool{"br": true, "hr": true, "img": true}

var allowedAttrs = map[string]bool{
	"class": true, "id": true, "title": true, "alt": true, "href": true,
	"src": true, "style": true, "role": true, "target": true, "rel": true,
	"width": true, "height": true, "loading": true, "datetime": true,
	"colspan": true, "rowspan": true, "lang": true,
}

var urlAttrs = map[string]bool{"href": true, "src": true}

// limits bounds a single output walk.
type limits struct {
	maxBytes int
	maxNodes int
	maxDepth int
}

// walker converts render output to escaped markup. Tags outside the
// allowlist are unwrapped, dangerous tags are dropped with their content and
// only allowlisted attributes survive. Shared subtrees are legal but every
// visit counts against the node budget, and a container that contains itself
// is rejected.
type walker struct {
	ctx   context.Context
	b     strings.Builder
	lim   limits
	nodes int
	open  map[uintptr]bool
}

// writeHTML walks value into escaped markup, stopping as soon as a budget is
// exceeded or ctx is done.
func writeHTML(ctx context.Context, value any, lim limits) (string, error) {
	w := &walker{ctx: ctx, lim: lim, open: map[uintptr]bool{}}
	if err := w.write(value, 0); err != nil {
		return "", err
	}
	return w.b.String(), nil
}

func (w *walker) write(value any, depth int) error {
	if depth > w.lim.maxDepth {
		return fmt.Errorf("%w: nested deeper than %d", ErrOutputTooLarge, w.lim.maxDepth)
	}
	w.nodes++
	if w.nodes > w.lim.maxNodes {
		return fmt.Errorf("%w: more than %d nodes", ErrOutputTooLarge, w.lim.maxNodes)
	}
	if w.nodes%256 == 0 {
		if err := w.ctx.Err(); err != nil {
			return err
		}
	}

	switch typed := value.(type) {
	case nil, bool:
		return nil
	case string:
		w.b.WriteString(templ.EscapeString(typed))
	case int64:
		w.b.WriteString(strconv.FormatInt(typed, 10))
	case int:
		w.b.WriteString(strconv.Itoa(typed))
	case float64:
		w.b.WriteString(strconv.FormatFloat(typed, 'f', -1, 64))
	case *Node:
		if typed == nil {
			return nil
		}
		return w.enter(reflect.ValueOf(typed).Pointer(), func() error {
			return w.node(typed, depth)
		})
	case map[string]any:
		n, ok := nodeFromExport(typed)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnsupportedOutput, value)
		}
		return w.enter(reflect.ValueOf(typed).Pointer(), func() error {
			return w.node(n, depth)
		})
	case []any:
		if len(typed) == 0 {
			return nil
		}
		return w.enter(reflect.ValueOf(typed).Pointer(), func() error {
			for _, child := range typed {
				if err := w.write(child, depth+1); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedOutput, value)
	}
	return w.checkSize()
}

// enter marks a container as open for the duration of fn.
func (w *walker) enter(key uintptr, fn func() error) error {
	if w.open[key] {
		return fmt.Errorf("%w: cyclic output", ErrUnsupportedOutput)
	}
	w.open[key] = true
	defer delete(w.open, key)
	return fn()
}

func (w *walker) checkSize() error {
	if w.b.Len() > w.lim.maxBytes {
		return ErrOutputTooLarge
	}
	return nil
}

func (w *walker) node(n *Node, depth int) error {
	tag := strings.ToLower(strings.TrimSpace(n.Tag))
	if droppedTags[tag] {
		return nil
	}
	if tag == "" || !allowedTags[tag] {
		return w.write(n.Children, depth+1)
	}

	w.b.WriteString("<")
	w.b.WriteString(tag)
	writeAttrs(&w.b, n.Attrs)
	w.b.WriteString(">")
	if err := w.checkSize(); err != nil {
		return err
	}
	if voidTags[tag] {
		return nil
	}
	if err := w.write(n.Children, depth+1); err != nil {
		return err
	}
	w.b.WriteString("</")
	w.b.WriteString(tag)
	w.b.WriteString(">")
	return w.checkSize()
}

func writeAttrs(b *strings.Builder, attrs map[string]any) {
	if len(attrs) == 0 {
		return
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, raw := range names {
		name := strings.ToLower(raw)
		if name == "classname" {
			name = "class"
		}
		if !attrAllowed(name) {
			continue
		}
		value, ok := attrValue(name, attrs[raw])
		if !ok {
			continue
		}
		b.WriteString(" ")
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(templ.EscapeString(value))
		b.WriteString(`"`)
	}
}

func attrAllowed(name string) bool {
	if allowedAttrs[name] {
		return true
	}
	if strings.HasPrefix(name, "data-") || strings.HasPrefix(name, "aria-") {
		return validAttrName(name)
	}
	return false
}

func validAttrName(name string) bool {
	for _, r := range name {
		if r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func attrValue(name string, value any) (string, bool) {
	if name == "style" {
		return styleValue(value)
	}
	var text string
	switch typed := value.(type) {
	case nil:
		return "", false
	case string:
		text = typed
	case bool:
		if !typed {
			return "", false
		}
		text = name
	case int64:
		text = strconv.FormatInt(typed, 10)
	case float64:
		text = strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return "", false
	}
	if urlAttrs[name] {
		text = string(templ.URL(text))
	}
	return text, true
}

// styleValue accepts a CSS string or an object of camelCase properties.
func styleValue(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		if typed == "" || !css.Safe(typed) {
			return "", false
		}
		return typed, true
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			text, ok := scalarText(typed[key])
			if !ok || text == "" || !css.Safe(text) || !validAttrName(key) {
				continue
			}
			parts = append(parts, kebab(key)+": "+text)
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, "; "), true
	default:
		return "", false
	}
}

func kebab(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteRune('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func scalarText(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	default:
		return "", false
	}
}
