package folio

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/goliatone/go-folio/dynamic"
	"github.com/goliatone/go-folio/registry"
	"github.com/goliatone/go-folio/theme"
)

func renderFixture() Portfolio {
	p := NewPortfolio("owner-1", "Ada Lovelace")
	p.Title = "Engineer"
	p.Components = []Instance{
		{ID: "footer", SectionType: registry.SectionFooter, VariantID: "footer-simple", Order: 2, IsActive: true,
			Props: map[string]any{"text": "Bye"}},
		{ID: "hero", SectionType: registry.SectionHero, VariantID: "hero-centered", Order: 0, IsActive: true,
			Props: map[string]any{"name": "Ada <script>"}},
		{ID: "hidden", SectionType: registry.SectionAbout, VariantID: "about-simple", Order: 1, IsActive: false},
		{ID: "orphan", SectionType: registry.SectionHero, VariantID: "deleted-variant", Order: 1, IsActive: true},
	}
	return p
}

func TestRenderPageOrdersAndSkips(t *testing.T) {
	r := NewRenderer()
	var buf bytes.Buffer
	report, err := r.RenderPage(context.Background(), &buf, renderFixture())
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	html := buf.String()

	if report.Rendered != 2 || report.Skipped != 1 || len(report.Failures) != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Failures[0].Kind != FailureVariantNotFound || !errors.Is(report.Failures[0], ErrUnknownVariant) {
		t.Fatalf("unexpected failure %+v", report.Failures[0])
	}
	hero := strings.Index(html, `id="hero"`)
	orphan := strings.Index(html, `id="orphan"`)
	footer := strings.Index(html, `id="footer"`)
	if hero < 0 || orphan < 0 || footer < 0 || !(hero < orphan && orphan < footer) {
		t.Fatalf("instances should render by order: hero=%d orphan=%d footer=%d", hero, orphan, footer)
	}
	if strings.Contains(html, `id="hidden"`) {
		t.Fatalf("inactive instance rendered")
	}
	if !strings.Contains(html, `data-folio-error="variant-not-found"`) {
		t.Fatalf("expected placeholder for dangling reference")
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("props must be escaped")
	}
	if !strings.Contains(html, "--folio-color-primary") || !strings.Contains(html, "<title>Ada Lovelace | Engineer</title>") {
		t.Fatalf("page head incomplete: %s", html[:200])
	}
}

func TestMarketplaceInstanceBypassesRegistry(t *testing.T) {
	r := NewRenderer()
	inst := Instance{
		ID: "m", SectionType: "nonexistent", VariantID: "nope", IsActive: true, IsMarketplace: true,
		ComponentCode: `function render(props) { return h("h2", null, props.title); }`,
		Props:         map[string]any{"title": "Hello"},
	}
	var buf bytes.Buffer
	report, err := r.RenderInstance(context.Background(), &buf, inst, theme.Default())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !report.OK() {
		t.Fatalf("unexpected failures %v", report.Err())
	}
	html := buf.String()
	if strings.Contains(html, "variant-not-found") {
		t.Fatalf("marketplace instance must not hit the registry: %s", html)
	}
	if !strings.Contains(html, "<h2>Hello</h2>") || !strings.Contains(html, "folio-marketplace") {
		t.Fatalf("unexpected dynamic markup %s", html)
	}
}

func TestBrokenDynamicInstanceIsContained(t *testing.T) {
	var (
		mu     sync.Mutex
		events []RenderLogEvent
	)
	r := NewRenderer(
		WithDynamicRuntime(dynamic.New(dynamic.WithTimeout(20*time.Millisecond))),
		WithRenderLogger(RenderLoggerFunc(func(e RenderLogEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		})),
	)
	p := NewPortfolio("o", "Loop")
	p.Components = []Instance{
		{ID: "spin", IsActive: true, Order: 0, ComponentCode: `function render() { while (true) {} }`},
		{ID: "bad", IsActive: true, Order: 1, ComponentCode: `function render( {`},
		{ID: "ok", IsActive: true, Order: 2, SectionType: registry.SectionFooter, VariantID: "footer-simple"},
	}
	var buf bytes.Buffer
	report, err := r.RenderPage(context.Background(), &buf, p)
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	if report.Rendered != 1 || len(report.Failures) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	for _, failure := range report.Failures {
		if failure.Kind != FailureDynamicEvaluation {
			t.Fatalf("unexpected failure kind %+v", failure)
		}
		var evalErr *dynamic.EvaluationError
		if !errors.As(failure, &evalErr) || evalErr.InstanceID != failure.InstanceID {
			t.Fatalf("expected evaluation error with instance id, got %v", failure.Err)
		}
	}
	if !errors.Is(report.Failures[0], dynamic.ErrTimeout) {
		t.Fatalf("expected timeout for spinning component, got %v", report.Failures[0])
	}
	if strings.Count(buf.String(), `data-folio-error="dynamic-evaluation"`) != 2 || !strings.Contains(buf.String(), `id="ok"`) {
		t.Fatalf("siblings must still render: %s", buf.String())
	}
	if len(events) != 3 || events[0].Fingerprint == "" {
		t.Fatalf("expected three log events with fingerprints, got %+v", events)
	}
}

func TestHostileDynamicOutputIsContained(t *testing.T) {
	r := NewRenderer()
	p := NewPortfolio("o", "Hostile")
	p.Components = []Instance{
		{ID: "cycle", IsActive: true, Order: 0,
			ComponentCode: `() => { const a = ["x"]; a.push(a); return a; }`},
		{ID: "bomb", IsActive: true, Order: 1,
			ComponentCode: `() => { let x = h("b", null, "ab"); for (let i = 0; i < 40; i++) { x = [x, x]; } return x; }`},
		{ID: "ok", IsActive: true, Order: 2, SectionType: registry.SectionFooter, VariantID: "footer-simple",
			Props: map[string]any{"text": "Still here"}},
	}
	start := time.Now()
	var buf bytes.Buffer
	report, err := r.RenderPage(context.Background(), &buf, p)
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("hostile output was not bounded: %s", elapsed)
	}
	if report.Rendered != 1 || len(report.Failures) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if !errors.Is(report.Failures[0], dynamic.ErrUnsupportedOutput) {
		t.Fatalf("expected cyclic output failure, got %v", report.Failures[0])
	}
	if !errors.Is(report.Failures[1], dynamic.ErrOutputTooLarge) {
		t.Fatalf("expected output budget failure, got %v", report.Failures[1])
	}
	for _, failure := range report.Failures {
		if failure.Kind != FailureDynamicEvaluation {
			t.Fatalf("unexpected failure kind %+v", failure)
		}
	}
	if !strings.Contains(buf.String(), `id="ok"`) || !strings.Contains(buf.String(), "Still here") {
		t.Fatalf("sibling must still render: %s", buf.String())
	}
}

func TestRendererRecoversPanics(t *testing.T) {
	reg := registry.New(registry.WithRenderer("explode", func(registry.View) templ.Component {
		panic("boom")
	}))
	reg.MustRegister(registry.Variant{SectionType: registry.SectionCustom, ID: "x", RendererKey: "explode"})
	r := NewRenderer(WithRegistry(reg))

	var buf bytes.Buffer
	report, err := r.RenderInstance(context.Background(), &buf, Instance{ID: "p", SectionType: registry.SectionCustom, VariantID: "x", IsActive: true}, theme.Default())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(report.Failures) != 1 || report.Failures[0].Kind != FailurePanic || !errors.Is(report.Failures[0], ErrRenderPanic) {
		t.Fatalf("expected recovered panic, got %+v", report)
	}
	if !strings.Contains(buf.String(), `data-folio-error="render-panic"`) {
		t.Fatalf("expected panic placeholder, got %s", buf.String())
	}
}

func TestRenderInstanceSkipsInactive(t *testing.T) {
	var buf bytes.Buffer
	report, err := NewRenderer().RenderInstance(context.Background(), &buf, Instance{ID: "h"}, theme.Default())
	if err != nil || report.Skipped != 1 || buf.Len() != 0 {
		t.Fatalf("inactive instance should be skipped: %+v %v %q", report, err, buf.String())
	}
}

func TestEmptySlugDoesNotBlockRendering(t *testing.T) {
	p := renderFixture()
	p.Slug = ""
	var buf bytes.Buffer
	if err := NewRenderer().Page(p).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render with empty slug: %v", err)
	}
	if !p.NeedsSlug() {
		t.Fatalf("empty slug should report needs generation")
	}
}
