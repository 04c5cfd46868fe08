package folio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/goliatone/go-folio/css"
	"github.com/goliatone/go-folio/dynamic"
	"github.com/goliatone/go-folio/theme"
)

// FailureKind classifies a per-instance render failure. It is also the value
// of the data-folio-error attribute on the placeholder.
type FailureKind string

const (
	FailureNone              FailureKind = ""
	FailureVariantNotFound   FailureKind = "variant-not-found"
	FailureDynamicEvaluation FailureKind = "dynamic-evaluation"
	FailureMissingRenderer   FailureKind = "missing-renderer"
	FailurePanic             FailureKind = "render-panic"
	FailureRender            FailureKind = "render-error"
)

// ErrRenderPanic wraps a panic recovered from a static renderer.
var ErrRenderPanic = errors.New("folio: renderer panicked")

// InstanceFailure records one instance that rendered as a placeholder.
type InstanceFailure struct {
	InstanceID string
	Label      string
	Kind       FailureKind
	Err        error
}

func (f InstanceFailure) Error() string {
	return fmt.Sprintf("folio: %s %s (%s): %v", f.Kind, f.InstanceID, f.Label, f.Err)
}

func (f InstanceFailure) Unwrap() error {
	return f.Err
}

// RenderReport summarises a render pass.
type RenderReport struct {
	Rendered int
	Skipped  int
	Failures []InstanceFailure
}

// OK reports whether every instance rendered normally.
func (r RenderReport) OK() bool {
	return len(r.Failures) == 0
}

// Err joins the failures, or returns nil.
func (r RenderReport) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, failure := range r.Failures {
		errs[i] = failure
	}
	return errors.Join(errs...)
}

func (r *RenderReport) merge(other RenderReport) {
	r.Rendered += other.Rendered
	r.Skipped += other.Skipped
	r.Failures = append(r.Failures, other.Failures...)
}

// Renderer paints portfolios. A broken instance degrades to a labelled
// placeholder and never stops its siblings from rendering.
type Renderer struct {
	resolver    *Resolver
	runtime     *dynamic.Runtime
	logger      RenderLogger
	lang        string
	stylesheets []string
}

// NewRenderer constructs a Renderer over the built-in catalogue unless
// configured otherwise.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		logger: noopRenderLogger{},
		lang:   "en",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.resolver == nil {
		r.resolver = NewResolver(nil)
	}
	if r.runtime == nil {
		r.runtime = dynamic.New()
	}
	return r
}

// Resolver returns the resolver used for static instances.
func (r *Renderer) Resolver() *Resolver {
	return r.resolver
}

// RenderPage writes a complete HTML document for p. Only active instances
// are painted, in ascending order. The returned error is reserved for write
// failures; instance failures are reported in RenderReport.
func (r *Renderer) RenderPage(ctx context.Context, w io.Writer, p Portfolio) (RenderReport, error) {
	var report RenderReport
	t := theme.Normalize(p.Theme)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"")
	b.WriteString(templ.EscapeString(r.lang))
	b.WriteString("\"><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>")
	b.WriteString(templ.EscapeString(pageTitle(p)))
	b.WriteString("</title>")
	if p.Description != "" {
		b.WriteString(`<meta name="description" content="`)
		b.WriteString(templ.EscapeString(p.Description))
		b.WriteString(`">`)
	}
	for _, href := range r.stylesheets {
		b.WriteString(`<link rel="stylesheet" href="`)
		b.WriteString(templ.EscapeString(string(templ.URL(href))))
		b.WriteString(`">`)
	}
	b.WriteString("<style>")
	b.WriteString(css.Block(":root", css.ThemeVariables(t)))
	b.WriteString("</style></head><body class=\"folio-page folio-mode-")
	b.WriteString(templ.EscapeString(string(t.Mode)))
	b.WriteString("\"><main class=\"folio-canvas\">")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return report, err
	}

	for _, inst := range p.Components {
		if !inst.IsActive {
			report.Skipped++
		}
	}
	for _, inst := range p.Active() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		one, err := r.RenderInstance(ctx, w, inst, t)
		report.merge(one)
		if err != nil {
			return report, err
		}
	}

	_, err := io.WriteString(w, "</main></body></html>\n")
	return report, err
}

// Page returns p as a templ component. Instance failures are painted as
// placeholders and otherwise discarded; use RenderPage to inspect them.
func (r *Renderer) Page(p Portfolio) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := r.RenderPage(ctx, w, p)
		return err
	})
}

// RenderInstance writes one section. Inactive instances are skipped.
func (r *Renderer) RenderInstance(ctx context.Context, w io.Writer, inst Instance, t theme.Theme) (RenderReport, error) {
	var report RenderReport
	if !inst.IsActive {
		report.Skipped++
		return report, nil
	}

	start := time.Now()
	res := r.resolver.Resolve(inst, t)
	var buf bytes.Buffer
	kind, err := r.paint(ctx, &buf, inst, res)

	event := RenderLogEvent{
		InstanceID: inst.ID,
		Label:      inst.Label(),
		Status:     res.Status,
		Failure:    kind,
		Duration:   time.Since(start),
		Err:        err,
	}
	if src, ok := res.Source.(DynamicSource); ok {
		event.Fingerprint = src.Fingerprint
	}
	r.logger.LogRender(event)

	if err != nil {
		report.Failures = append(report.Failures, InstanceFailure{
			InstanceID: inst.ID,
			Label:      inst.Label(),
			Kind:       kind,
			Err:        err,
		})
		buf.Reset()
		writePlaceholder(&buf, inst, kind)
	} else {
		report.Rendered++
	}
	_, werr := w.Write(buf.Bytes())
	return report, werr
}

// paint renders into buf. Output is buffered so a failing instance never
// leaves half-written markup behind.
func (r *Renderer) paint(ctx context.Context, buf *bytes.Buffer, inst Instance, res Resolution) (kind FailureKind, err error) {
	switch src := res.Source.(type) {
	case DynamicSource:
		html, err := r.runtime.Render(ctx, dynamic.Request{
			InstanceID: inst.ID,
			Code:       src.Code,
			Props:      res.Props,
		})
		if err != nil {
			return FailureDynamicEvaluation, err
		}
		writeDynamicSection(buf, inst, res, html)
		return FailureNone, nil
	}

	if res.Status == StatusUnresolved {
		return FailureVariantNotFound, fmt.Errorf("%w: %s/%s", ErrUnknownVariant, inst.SectionType, inst.VariantID)
	}
	if res.Variant.Render == nil {
		return FailureMissingRenderer, fmt.Errorf("folio: variant %s has no renderer", res.Variant.Key())
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			kind = FailurePanic
			err = fmt.Errorf("%w: %v", ErrRenderPanic, recovered)
		}
	}()
	component := res.Variant.Render(res.View(inst))
	if component == nil {
		return FailureRender, fmt.Errorf("folio: variant %s rendered nothing", res.Variant.Key())
	}
	if err := component.Render(ctx, buf); err != nil {
		return FailureRender, err
	}
	return FailureNone, nil
}

func writeDynamicSection(buf *bytes.Buffer, inst Instance, res Resolution, html string) {
	buf.WriteString(`<section id="`)
	buf.WriteString(templ.EscapeString(inst.ID))
	buf.WriteString(`" class="folio-section folio-marketplace" data-folio-marketplace="`)
	buf.WriteString(templ.EscapeString(inst.MarketplaceID))
	buf.WriteString(`"`)
	if style := css.Inline(res.Styles); style != "" {
		buf.WriteString(` style="`)
		buf.WriteString(templ.EscapeString(style))
		buf.WriteString(`"`)
	}
	buf.WriteString(">")
	buf.WriteString(html)
	buf.WriteString("</section>")
}

func writePlaceholder(buf *bytes.Buffer, inst Instance, kind FailureKind) {
	buf.WriteString(`<section id="`)
	buf.WriteString(templ.EscapeString(inst.ID))
	buf.WriteString(`" class="folio-section folio-placeholder" data-folio-error="`)
	buf.WriteString(templ.EscapeString(string(kind)))
	buf.WriteString(`" role="note"><p class="folio-placeholder-label">`)
	buf.WriteString(templ.EscapeString(placeholderText(kind, inst)))
	buf.WriteString("</p></section>")
}

func placeholderText(kind FailureKind, inst Instance) string {
	switch kind {
	case FailureVariantNotFound:
		return "Component unavailable: " + inst.Label()
	case FailureDynamicEvaluation:
		return "Marketplace component failed to load: " + inst.Label()
	default:
		return "Component failed to render: " + inst.Label()
	}
}

func pageTitle(p Portfolio) string {
	switch {
	case p.Title != "" && p.Name != "":
		return p.Name + " | " + p.Title
	case p.Title != "":
		return p.Title
	case p.Name != "":
		return p.Name
	default:
		return "Portfolio"
	}
}
