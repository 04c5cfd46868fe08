// Package dynamic renders marketplace components supplied as JavaScript
// source. Each render runs in a fresh goja runtime that sees only the
// instance props, the h() element builder and explicitly registered helpers.
// eval is removed and the Function constructors are unreachable, including
// through the constructor property of function prototypes. Evaluation is
// bounded by a timeout and a call stack limit. The returned element tree is
// converted to escaped HTML in Go under the same deadline, with byte, node
// and depth budgets.
package dynamic

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dop251/goja"
)

const (
	DefaultTimeout        = 250 * time.Millisecond
	DefaultMaxCallStack   = 256
	DefaultMaxOutputBytes = 512 << 10
	DefaultMaxNodes       = 20000
	DefaultMaxDepth       = 256
	DefaultCacheSize      = 256
)

// Request is one dynamic render.
type Request struct {
	InstanceID string
	Code       string
	Props      map[string]any
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithTimeout bounds a single render. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithMaxCallStackSize bounds recursion inside component code.
func WithMaxCallStackSize(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.maxCallStack = n
		}
	}
}

// WithMaxOutputBytes bounds the rendered markup size.
func WithMaxOutputBytes(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.maxOutput = n
		}
	}
}

// WithMaxNodes bounds how many values the output walk visits. Shared
// subtrees count once per visit.
func WithMaxNodes(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.maxNodes = n
		}
	}
}

// WithMaxDepth bounds nesting of the returned element tree.
func WithMaxDepth(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// WithHelpers replaces the helper set exposed to component code.
func WithHelpers(helpers *HelperRegistry) Option {
	return func(r *Runtime) {
		if helpers == nil {
			r.helpers = NewHelperRegistry()
			return
		}
		r.helpers = helpers.Clone()
	}
}

// WithProgramCache replaces the compiled program cache.
func WithProgramCache(cache ProgramCache) Option {
	return func(r *Runtime) {
		r.cache = cache
	}
}

// WithLogger attaches a render logger.
func WithLogger(logger Logger) Option {
	return func(r *Runtime) {
		if logger == nil {
			r.logger = noopLogger{}
			return
		}
		r.logger = logger
	}
}

// Runtime renders component source. It is safe for concurrent use; every
// call gets its own goja runtime and only compiled programs are shared.
type Runtime struct {
	timeout      time.Duration
	maxCallStack int
	maxOutput    int
	maxNodes     int
	maxDepth     int
	helpers      *HelperRegistry
	cache        ProgramCache
	logger       Logger
}

// New constructs a Runtime.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		timeout:      DefaultTimeout,
		maxCallStack: DefaultMaxCallStack,
		maxOutput:    DefaultMaxOutputBytes,
		maxNodes:     DefaultMaxNodes,
		maxDepth:     DefaultMaxDepth,
		helpers:      DefaultHelpers(),
		cache:        NewMemoryCache(DefaultCacheSize),
		logger:       noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Timeout returns the per-render budget.
func (r *Runtime) Timeout() time.Duration {
	return r.timeout
}

// Render evaluates req.Code and returns escaped HTML. Every failure is an
// *EvaluationError naming the stage, instance and code fingerprint.
func (r *Runtime) Render(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	fingerprint := Fingerprint(req.Code)
	html, hit, err := r.render(ctx, req, fingerprint)
	r.logger.LogRender(LogEvent{
		InstanceID:  req.InstanceID,
		Fingerprint: fingerprint,
		CacheHit:    hit,
		Duration:    time.Since(start),
		Bytes:       len(html),
		Err:         err,
	})
	if err != nil {
		return "", err
	}
	return html, nil
}

// Compile checks that code compiles and caches the program. It returns the
// fingerprint used as the cache key.
func (r *Runtime) Compile(code string) (string, error) {
	fingerprint := Fingerprint(code)
	if strings.TrimSpace(code) == "" {
		return fingerprint, wrapEvaluationError(StageCompile, "", fingerprint, ErrEmptySource)
	}
	if _, _, err := r.program(code, fingerprint); err != nil {
		return fingerprint, wrapEvaluationError(StageCompile, "", fingerprint, err)
	}
	return fingerprint, nil
}

func (r *Runtime) render(ctx context.Context, req Request, fingerprint string) (string, bool, error) {
	fail := func(stage Stage, err error) error {
		return wrapEvaluationError(stage, req.InstanceID, fingerprint, err)
	}
	if strings.TrimSpace(req.Code) == "" {
		return "", false, fail(StageCompile, ErrEmptySource)
	}
	program, hit, err := r.program(req.Code, fingerprint)
	if err != nil {
		return "", hit, fail(StageCompile, err)
	}

	props := req.Props
	if props == nil {
		props = map[string]any{}
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return "", hit, fail(StageEvaluate, err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return "", hit, fail(StageTimeout, timeoutCause(ctx))
	}

	vm := r.newVM()
	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ErrTimeout)
	})
	defer stop()

	value, err := vm.RunProgram(program)
	if err != nil {
		return "", hit, r.classify(ctx, fail, err)
	}
	render, ok := goja.AssertFunction(value)
	if !ok {
		return "", hit, fail(StageEvaluate, ErrNoRenderFunction)
	}

	jsonObject := vm.Get("JSON").ToObject(vm)
	parse, ok := goja.AssertFunction(jsonObject.Get("parse"))
	if !ok {
		return "", hit, fail(StageEvaluate, errors.New("dynamic: JSON.parse unavailable"))
	}
	propsValue, err := parse(jsonObject, vm.ToValue(string(propsJSON)))
	if err != nil {
		return "", hit, r.classify(ctx, fail, err)
	}

	result, err := render(goja.Undefined(), propsValue)
	if err != nil {
		return "", hit, r.classify(ctx, fail, err)
	}

	html, err := writeHTML(ctx, result.Export(), limits{
		maxBytes: r.maxOutput,
		maxNodes: r.maxNodes,
		maxDepth: r.maxDepth,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", hit, fail(StageTimeout, timeoutCause(ctx))
		}
		return "", hit, fail(StageOutput, err)
	}
	return html, hit, nil
}

func (r *Runtime) classify(ctx context.Context, fail func(Stage, error) error, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return fail(StageTimeout, timeoutCause(ctx))
	}
	return fail(StageEvaluate, err)
}

func timeoutCause(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return ErrTimeout
}

func (r *Runtime) program(code, fingerprint string) (*goja.Program, bool, error) {
	if r.cache != nil {
		if cached, ok := r.cache.Get(fingerprint); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, true, nil
			}
		}
	}
	program, err := compileSource(code)
	if err != nil {
		return nil, false, err
	}
	if r.cache != nil {
		r.cache.Set(fingerprint, program)
	}
	return program, false, nil
}

var exportPrefix = regexp.MustCompile(`(?m)^[ \t]*export[ \t]+(default[ \t]+)?`)

// compileSource accepts either a single function expression (arrow or named
// function) or a script declaring render or Component.
func compileSource(code string) (*goja.Program, error) {
	code = exportPrefix.ReplaceAllString(code, "")
	if program, err := goja.Compile("component.js", "(function(){ return (\n"+code+"\n); })()", false); err == nil {
		return program, nil
	}
	wrapped := "(function(){\n" + code + "\n;return typeof render === \"function\" ? render : (typeof Component === \"function\" ? Component : undefined);\n})()"
	return goja.Compile("component.js", wrapped, false)
}

func (r *Runtime) newVM() *goja.Runtime {
	vm := goja.New()
	vm.SetMaxCallStackSize(r.maxCallStack)
	lockdown(vm)

	vm.Set("h", elementBuilder(vm))
	vm.Set("Fragment", "")
	for _, name := range r.helpers.Names() {
		helper := name
		vm.Set(helper, func(arguments ...any) (any, error) {
			return r.helpers.Call(helper, arguments...)
		})
	}
	return vm
}

// lockdownScripts cut the constructor link from every function prototype
// so code cannot reach Function, GeneratorFunction or AsyncFunction.
var lockdownScripts = []string{
	`Object.defineProperty(Function.prototype, "constructor", {value: undefined})`,
	`Object.defineProperty(Object.getPrototypeOf(function*(){}), "constructor", {value: undefined})`,
	`Object.defineProperty(Object.getPrototypeOf(async function(){}), "constructor", {value: undefined})`,
	`Object.defineProperty(Object.getPrototypeOf(async function*(){}), "constructor", {value: undefined})`,
}

var lockdownPrograms = compileLockdown()

// compileLockdown skips scripts the engine cannot parse; a prototype that
// does not exist cannot leak a constructor.
func compileLockdown() []*goja.Program {
	programs := make([]*goja.Program, 0, len(lockdownScripts))
	for _, src := range lockdownScripts {
		program, err := goja.Compile("lockdown.js", src, true)
		if err != nil {
			continue
		}
		programs = append(programs, program)
	}
	return programs
}

func lockdown(vm *goja.Runtime) {
	for _, program := range lockdownPrograms {
		_, _ = vm.RunProgram(program)
	}
	global := vm.GlobalObject()
	_ = global.Delete("eval")
	_ = global.Delete("Function")
}

// elementBuilder implements h(tag, attrs, ...children). Elements are frozen
// plain objects, so component code can read them but cannot rewire them
// into cycles after the fact.
func elementBuilder(vm *goja.Runtime) func(goja.FunctionCall) goja.Value {
	freeze, _ := goja.AssertFunction(vm.Get("Object").ToObject(vm).Get("freeze"))
	frozen := func(obj *goja.Object) *goja.Object {
		if freeze != nil {
			_, _ = freeze(goja.Undefined(), obj)
		}
		return obj
	}
	return func(call goja.FunctionCall) goja.Value {
		el := vm.NewObject()
		_ = el.Set(elementMarker, true)
		_ = el.Set("tag", call.Argument(0).String())
		if attrs := call.Argument(1); !goja.IsUndefined(attrs) && !goja.IsNull(attrs) {
			_ = el.Set("attrs", attrs)
		}
		var children []any
		if len(call.Arguments) > 2 {
			children = make([]any, 0, len(call.Arguments)-2)
			for _, child := range call.Arguments[2:] {
				children = append(children, child)
			}
		}
		_ = el.Set("children", frozen(vm.NewArray(children...)))
		return frozen(el)
	}
}
