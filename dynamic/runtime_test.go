package dynamic

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestRenderElementTree(t *testing.T) {
	rt := New()
	code := `function render(props) {
  return h("section", { className: "hero" }, h("h1", null, props.title), h("p", null, props.count));
}`
	html, err := rt.Render(context.Background(), Request{
		InstanceID: "inst-1",
		Code:       code,
		Props:      map[string]any{"title": "<b>Hi</b>", "count": 3},
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	want := `<section class="hero"><h1>&lt;b&gt;Hi&lt;/b&gt;</h1><p>3</p></section>`
	if html != want {
		t.Fatalf("unexpected html\n got: %s\nwant: %s", html, want)
	}
}

func TestRenderSourceShapes(t *testing.T) {
	cases := []struct {
		name string
		code string
		want string
	}{
		{name: "arrow", code: `(props) => "Hello " + props.name`, want: "Hello Ada"},
		{name: "component declaration", code: "const greeting = \"Hi\";\nfunction Component(props) { return greeting + \" \" + props.name; }", want: "Hi Ada"},
		{name: "export default", code: "export default function Card(props) { return props.name; }", want: "Ada"},
		{name: "fragment", code: `(p) => h(Fragment, null, "a", ["b", h("em", null, "c")])`, want: "ab<em>c</em>"},
	}
	rt := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			html, err := rt.Render(context.Background(), Request{Code: tc.code, Props: map[string]any{"name": "Ada"}})
			if err != nil {
				t.Fatalf("render failed: %v", err)
			}
			if html != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, html)
			}
		})
	}
}

func TestRenderSanitizesOutput(t *testing.T) {
	rt := New()
	code := `() => h("div", { onclick: "steal()", "data-kind": "card", style: { backgroundColor: "red" } },
  h("script", null, "alert(1)"),
  h("a", { href: "javascript:alert(1)" }, "link"),
  h("blink", null, "ok"))`
	html, err := rt.Render(context.Background(), Request{Code: code})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	for _, banned := range []string{"script", "alert", "onclick", "blink", "javascript:"} {
		if strings.Contains(html, banned) {
			t.Fatalf("expected %q to be stripped, got %s", banned, html)
		}
	}
	if !strings.Contains(html, `data-kind="card"`) {
		t.Fatalf("expected data attribute to survive, got %s", html)
	}
	if !strings.Contains(html, `style="background-color: red"`) {
		t.Fatalf("expected style object to be converted, got %s", html)
	}
	if !strings.Contains(html, "ok") {
		t.Fatalf("expected unknown tag to be unwrapped, got %s", html)
	}
}

func TestRenderErrors(t *testing.T) {
	cases := []struct {
		name   string
		code   string
		stage  Stage
		target error
	}{
		{name: "empty", code: "   ", stage: StageCompile, target: ErrEmptySource},
		{name: "syntax", code: "function render( {", stage: StageCompile},
		{name: "not a function", code: "1 + 1", stage: StageEvaluate, target: ErrNoRenderFunction},
		{name: "throws", code: `function render() { throw new Error("boom"); }`, stage: StageEvaluate},
		{name: "object output", code: `() => ({ a: 1 })`, stage: StageOutput, target: ErrUnsupportedOutput},
		{name: "recursion", code: `function render(p) { return render(p); }`, stage: StageEvaluate},
		{name: "function constructor", code: `() => (() => {}).constructor("return 1")()`, stage: StageEvaluate},
		{name: "generator constructor", code: `() => (function* () {}).constructor("yield 1")().next().value`, stage: StageEvaluate},
		{name: "async constructor", code: `() => { (async function () {}).constructor("return 1"); return "x"; }`, stage: StageEvaluate},
	}
	rt := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rt.Render(context.Background(), Request{InstanceID: "inst-9", Code: tc.code})
			var evalErr *EvaluationError
			if !errors.As(err, &evalErr) {
				t.Fatalf("expected EvaluationError, got %T (%v)", err, err)
			}
			if evalErr.Stage != tc.stage {
				t.Fatalf("expected stage %q, got %q (%v)", tc.stage, evalErr.Stage, err)
			}
			if evalErr.InstanceID != "inst-9" {
				t.Fatalf("expected instance id to be recorded, got %q", evalErr.InstanceID)
			}
			if evalErr.Fingerprint != Fingerprint(tc.code) {
				t.Fatalf("expected fingerprint to be recorded")
			}
			if tc.target != nil && !errors.Is(err, tc.target) {
				t.Fatalf("expected %v, got %v", tc.target, err)
			}
		})
	}
}

func TestRenderTimeoutInterruptsLoop(t *testing.T) {
	rt := New(WithTimeout(20 * time.Millisecond))
	start := time.Now()
	_, err := rt.Render(context.Background(), Request{Code: `function render() { while (true) {} }`})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) || evalErr.Stage != StageTimeout {
		t.Fatalf("expected timeout stage, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("interrupt took too long: %s", elapsed)
	}
}

func TestRenderOutputLimit(t *testing.T) {
	rt := New(WithMaxOutputBytes(8))
	_, err := rt.Render(context.Background(), Request{Code: `() => "0123456789abcdef"`})
	if !errors.Is(err, ErrOutputTooLarge) {
		t.Fatalf("expected output limit error, got %v", err)
	}
}

func TestRenderRejectsCyclicOutput(t *testing.T) {
	cases := []struct {
		name string
		code string
	}{
		{name: "array contains itself", code: `() => { const a = ["x"]; a.push(a); return a; }`},
		{name: "children array contains element", code: `() => { const kids = []; const n = h("div", null, kids); kids.push(n); return n; }`},
	}
	rt := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start := time.Now()
			_, err := rt.Render(context.Background(), Request{Code: tc.code})
			if !errors.Is(err, ErrUnsupportedOutput) {
				t.Fatalf("expected unsupported output, got %v", err)
			}
			var evalErr *EvaluationError
			if !errors.As(err, &evalErr) || evalErr.Stage != StageOutput {
				t.Fatalf("expected output stage, got %v", err)
			}
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Fatalf("cycle detection took too long: %s", elapsed)
			}
		})
	}
}

func TestRenderElementsAreFrozen(t *testing.T) {
	code := `() => {
  const n = h("div", null, "x");
  try { n.children.push(n); } catch (e) {}
  n.children = [n];
  n.tag = "script";
  return n;
}`
	html, err := New().Render(context.Background(), Request{Code: code})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if html != "<div>x</div>" {
		t.Fatalf("expected element to be unchanged, got %q", html)
	}
}

func TestRenderSharedSubtreeBlowUp(t *testing.T) {
	code := `() => {
  let x = h("b", null, "ab");
  for (let i = 0; i < 40; i++) { x = [x, x]; }
  return x;
}`
	rt := New(WithTimeout(time.Second))
	start := time.Now()
	_, err := rt.Render(context.Background(), Request{Code: code})
	if !errors.Is(err, ErrOutputTooLarge) {
		t.Fatalf("expected output limit error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("walk was not bounded: %s", elapsed)
	}
}

func TestRenderSharedSubtreeWithinBudget(t *testing.T) {
	code := `() => { const item = h("li", null, "x"); return h("ul", null, [item, item, item]); }`
	html, err := New().Render(context.Background(), Request{Code: code})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if html != "<ul><li>x</li><li>x</li><li>x</li></ul>" {
		t.Fatalf("unexpected html: %q", html)
	}
}

func TestRenderNodeAndDepthLimits(t *testing.T) {
	t.Run("nodes", func(t *testing.T) {
		rt := New(WithMaxNodes(10))
		_, err := rt.Render(context.Background(), Request{Code: `() => Array.from({length: 50}, () => "a")`})
		if !errors.Is(err, ErrOutputTooLarge) {
			t.Fatalf("expected node limit error, got %v", err)
		}
	})
	t.Run("depth", func(t *testing.T) {
		rt := New(WithMaxDepth(16))
		code := `() => { let x = "a"; for (let i = 0; i < 100; i++) { x = h("div", null, x); } return x; }`
		_, err := rt.Render(context.Background(), Request{Code: code})
		if !errors.Is(err, ErrOutputTooLarge) {
			t.Fatalf("expected depth limit error, got %v", err)
		}
	})
	t.Run("bytes stop the walk early", func(t *testing.T) {
		rt := New(WithMaxOutputBytes(64), WithMaxNodes(1<<30))
		code := `() => Array.from({length: 5000}, () => h("p", null, "0123456789"))`
		_, err := rt.Render(context.Background(), Request{Code: code})
		if !errors.Is(err, ErrOutputTooLarge) {
			t.Fatalf("expected output limit error, got %v", err)
		}
	})
}

func TestRenderHelpersAndCapabilities(t *testing.T) {
	rt := New()
	code := `(p) => [upper(p.name), truncate("abcdef", 3), join(p.tags, "/"), typeof eval, typeof fetch, typeof require].join(" ")`
	html, err := rt.Render(context.Background(), Request{
		Code:  code,
		Props: map[string]any{"name": "ada", "tags": []any{"go", "js"}},
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	want := "ADA abc… go/js undefined undefined undefined"
	if html != want {
		t.Fatalf("expected %q, got %q", want, html)
	}
}

func TestWithHelpersRestrictsCapabilities(t *testing.T) {
	helpers := NewHelperRegistry()
	if err := helpers.Register("shout", func(args ...any) (any, error) {
		return argString(args, 0) + "!", nil
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	rt := New(WithHelpers(helpers))
	html, err := rt.Render(context.Background(), Request{Code: `() => shout("hi") + " " + typeof upper`})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if html != "hi! undefined" {
		t.Fatalf("unexpected output %q", html)
	}
}

func TestHelperRegistryRejectsReservedAndDuplicates(t *testing.T) {
	helpers := NewHelperRegistry()
	noop := func(args ...any) (any, error) { return nil, nil }
	if err := helpers.Register("h", noop); err == nil {
		t.Fatalf("expected reserved name error")
	}
	if err := helpers.Register("x", noop); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := helpers.Register("x", noop); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if _, err := helpers.Call("missing"); err == nil {
		t.Fatalf("expected missing helper error")
	}
}

func TestRenderCachesProgramsByFingerprint(t *testing.T) {
	var (
		mu     sync.Mutex
		events []LogEvent
	)
	cache := NewMemoryCache(4)
	rt := New(WithProgramCache(cache), WithLogger(LoggerFunc(func(event LogEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event)
	})))
	req := Request{InstanceID: "a", Code: `(p) => p.v`, Props: map[string]any{"v": "x"}}
	for i := 0; i < 2; i++ {
		if _, err := rt.Render(context.Background(), req); err != nil {
			t.Fatalf("render failed: %v", err)
		}
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one cached program, got %d", cache.Len())
	}
	if len(events) != 2 {
		t.Fatalf("expected two log events, got %d", len(events))
	}
	if events[0].CacheHit || !events[1].CacheHit {
		t.Fatalf("expected miss then hit, got %+v", events)
	}
	if events[1].Bytes != 1 || events[1].Fingerprint != Fingerprint(req.Code) {
		t.Fatalf("unexpected event %+v", events[1])
	}
}

func TestMemoryCacheClearsWhenFull(t *testing.T) {
	cache := NewMemoryCache(2)
	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("a", 3)
	if cache.Len() != 2 {
		t.Fatalf("overwrite should not evict, got %d", cache.Len())
	}
	cache.Set("c", 4)
	if cache.Len() != 1 {
		t.Fatalf("expected reset on overflow, got %d", cache.Len())
	}
	if _, ok := cache.Get("c"); !ok {
		t.Fatalf("expected newest entry to survive")
	}
}

func TestCompileReportsFingerprint(t *testing.T) {
	rt := New()
	fp, err := rt.Compile(`(p) => "ok"`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if fp != Fingerprint(`(p) => "ok"`) || len(fp) != 64 {
		t.Fatalf("unexpected fingerprint %q", fp)
	}
	if _, err := rt.Compile(""); !errors.Is(err, ErrEmptySource) {
		t.Fatalf("expected empty source error, got %v", err)
	}
	if ShortFingerprint(fp) != fp[:12] || ShortFingerprint("") != "<none>" {
		t.Fatalf("unexpected short fingerprint")
	}
}

func TestRenderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Render(ctx, Request{Code: `() => "x"`})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
