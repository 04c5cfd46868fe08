package registry

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// markup accumulates escaped HTML and remembers the first write error.
type markup struct {
	w   io.Writer
	err error
}

func (m *markup) raw(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s)
}

func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

// open writes a start tag. attrs are name/value pairs; empty values are
// dropped, values are escaped.
func (m *markup) open(tag string, attrs ...string) {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i+1] == "" {
			continue
		}
		b.WriteString(" ")
		b.WriteString(attrs[i])
		b.WriteString(`="`)
		b.WriteString(templ.EscapeString(attrs[i+1]))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	m.raw(b.String())
}

func (m *markup) close(tag string) {
	m.raw("</" + tag + ">")
}

// element writes a complete element with escaped text content.
func (m *markup) element(tag, text string, attrs ...string) {
	if text == "" {
		return
	}
	m.open(tag, attrs...)
	m.text(text)
	m.close(tag)
}

// link writes an anchor whose href is passed through templ.URL so unsafe
// schemes are replaced.
func (m *markup) link(href, text string, attrs ...string) {
	if text == "" {
		return
	}
	m.open("a", append([]string{"href", safeURL(href)}, attrs...)...)
	m.text(text)
	m.close("a")
}

func (m *markup) image(src, alt string, attrs ...string) {
	if src == "" {
		return
	}
	m.open("img", append([]string{"src", safeURL(src), "alt", alt, "loading", "lazy"}, attrs...)...)
}

func safeURL(href string) string {
	if href == "" {
		return ""
	}
	return string(templ.URL(href))
}

// section wraps body in the standard section element every static renderer
// emits so hosts can target instances by id.
func section(v View, class string, body func(m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{w: w}
		m.open("section",
			"id", v.InstanceID,
			"class", "folio-section folio-"+string(v.SectionType)+" "+class,
			"data-folio-section", string(v.SectionType),
			"data-folio-variant", v.VariantID,
			"style", v.Style(),
		)
		body(m)
		m.close("section")
		return m.err
	})
}
