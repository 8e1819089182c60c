// Package engine is the single external-facing entry point for running a
// filter-language program: it owns the builtin registry, the jq-style
// standard-library prelude, and the compiled-plan cache, and exposes the
// Configuration surface (optimization level, laziness, strict mode,
// recursion depth, stats collection, worker count, memory ceiling) as a
// plain Options struct. Grounded on the teacher project's cmd/dwscript
// wiring, where a single long-lived Interpreter value is built once and
// reused across many Run calls rather than reconstructed per script.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/compiler"
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/executor"
	"github.com/tabjq/tabjq/internal/parser"
	"github.com/tabjq/tabjq/internal/registry"
	"github.com/tabjq/tabjq/internal/value"
)

// Options configures an Engine, one field per Configuration knob.
type Options struct {
	// OptimizationLevel is one of "none", "basic", "advanced"; empty means
	// "basic".
	OptimizationLevel string
	// Lazy is stored on the Engine, but neither the compiler nor Run reads
	// it: setting it does not make any source value start as a LazyFrame,
	// and `to_frame` always builds an eagerly materialized Frame.
	Lazy bool
	// DataframeOptimizations enables the columnar pushdown backend-selection
	// pass (compiler.AnnotateTabular). Only takes effect at OptimizationLevel
	// "advanced", matching compiler.Compile's own gating.
	DataframeOptimizations bool
	// StrictMode selects strict error propagation per spec §7/§8.3: a
	// row-wise TypeError over a Frame's rows aborts the query instead of
	// becoming a null for that row, and integer division/modulo by zero
	// raises ValueError instead of producing null. Defaults to false
	// (lenient), matching §6's documented default.
	StrictMode bool
	// MaxRecursionDepth bounds function-call/reduce/foreach nesting; 0 means
	// the executor's own default (100).
	MaxRecursionDepth int
	// CollectStats turns on execution counters retrievable from a Run's
	// returned *executor.Stats.
	CollectStats bool
	// ThreadCount is stored on the Engine (0 is replaced by GOMAXPROCS in
	// New); every tabular operation runs on the calling goroutine, so Run
	// does not read it.
	ThreadCount int
	// MemoryLimitBytes is stored on the Engine but not enforced: it is not
	// passed to the executor or to builtins, and no operation checks memory
	// use against it.
	MemoryLimitBytes int64
	// PlanCacheSize bounds the number of distinct (source, options) compiled
	// Plans kept in memory; 0 means the compiler's own default (128).
	PlanCacheSize int
	// Now overrides the executor's wall-clock source, as seen by builtins
	// through registry.Context.Now; nil means time.Now.
	Now func() time.Time
	// Env seeds the environment object bound to `$ENV` and returned by
	// registry.Context.Env; nil means empty.
	Env *value.Object
}

// Engine is a reusable compiler+executor front end: build one, then call Run
// as many times as needed against it. An Engine is safe for concurrent use
// from multiple goroutines — its Registry is read-only after construction
// and its plan Cache is internally synchronized.
type Engine struct {
	registry *registry.Registry
	cache    *compiler.Cache
	opts     Options
}

// New builds an Engine from opts, pre-populating its builtin registry via
// registry.Default the same way the teacher project builds one
// interpreter.Interpreter with one builtins.Registry for the lifetime of a
// process.
func New(opts Options) (*Engine, error) {
	reg := registry.Default()
	cacheSize := opts.PlanCacheSize
	cache, err := compiler.NewCache(reg, cacheSize)
	if err != nil {
		return nil, fmt.Errorf("engine: building plan cache: %w", err)
	}
	if opts.ThreadCount <= 0 {
		opts.ThreadCount = runtime.GOMAXPROCS(0)
	}
	return &Engine{registry: reg, cache: cache, opts: opts}, nil
}

// Registry exposes the engine's builtin function table, e.g. so a host
// program can list available filters for a help command.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// RunOptions configures a single Run call, layered on top of the Engine's
// construction-time Options. A zero value runs with the engine's defaults,
// no named variables, and a background context.
type RunOptions struct {
	// Vars supplies the named variables available as `$name` at the root of
	// the program (the `$ARGS.named` members, conventionally).
	Vars map[string]value.Value
	// PositionalArgs supplies `$ARGS.positional`, in order.
	PositionalArgs []value.Value
	Ctx            context.Context
}

// Result is the outcome of one Run: the ordered stream of output values plus
// the stats an Engine built with CollectStats true accumulated while
// producing them.
type Result struct {
	Values []value.Value
	Stats  *executor.Stats
}

// compile parses source with the jq-style standard-library prelude spliced
// in front of it and runs it through the Cache, so calling Run on the same
// source twice reuses both the parse-free Plan and its tabular annotations.
// Splicing works by plain concatenation: every `def` in the prelude text
// chains its Rest field through a fresh recursive parse of whatever text
// follows it (confirmed by how internal/parser/forms.go's parseFuncDef
// builds FuncDef.Rest), so the user's own source ends up as the innermost
// Rest of the last prelude definition — lexically nested under, and so able
// to call, every prelude-defined filter.
func (e *Engine) compile(source string, knownVars []string) (*compiler.Plan, error) {
	full := registry.Prelude + "\n" + source
	expr, err := parser.Parse(full)
	if err != nil {
		return nil, err
	}
	level := compiler.ParseLevel(e.opts.OptimizationLevel)
	plan, err := e.cache.Compile(expr, compiler.Options{
		Level:                  level,
		DataframeOptimizations: e.opts.DataframeOptimizations,
		KnownVars:              knownVars,
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Run compiles source (if not already cached) and evaluates it once against
// input, collecting every emitted value in order.
func (e *Engine) Run(source string, input value.Value, ro RunOptions) (*Result, error) {
	var values []value.Value
	stats, err := e.RunStream(source, input, ro, func(v value.Value) error {
		values = append(values, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{Values: values, Stats: stats}, nil
}

// RunStream is Run's streaming form: emit is called once per output value,
// in order, and may itself return an error to stop evaluation early (e.g. a
// caller that only wants the first N results). Returns the accumulated
// Stats, if the Engine was built with CollectStats.
func (e *Engine) RunStream(source string, input value.Value, ro RunOptions, emit executor.Emit) (*executor.Stats, error) {
	rootVars := e.rootEnvVars(ro)
	knownVars := make([]string, 0, len(rootVars))
	for name := range rootVars {
		knownVars = append(knownVars, name)
	}

	plan, err := e.compile(source, knownVars)
	if err != nil {
		return nil, err
	}

	ctx := ro.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	exec := executor.New(e.registry, executor.Options{
		MaxRecursionDepth: e.opts.MaxRecursionDepth,
		Strict:            e.opts.StrictMode,
		CollectStats:      e.opts.CollectStats,
		Now:               e.opts.Now,
		Env:               e.opts.Env,
		Args:              buildArgsValue(ro),
		Ctx:               ctx,
		Plan:              plan,
	})

	env := executor.NewRootEnv(rootVars)
	if err := exec.Eval(plan.Root, input, env, emit); err != nil {
		return exec.Stats(), err
	}
	return exec.Stats(), nil
}

// rootEnvVars builds the `$name` bindings visible at the root scope: every
// entry of ro.Vars, plus the conventional `$ARGS` and `$ENV` jq also binds
// there (an executor Env binding takes priority over the registry.Context
// Env/Args accessors for filters that reference `$ENV`/`$ARGS` directly by
// name).
func (e *Engine) rootEnvVars(ro RunOptions) map[string]value.Value {
	vars := make(map[string]value.Value, len(ro.Vars)+2)
	for k, v := range ro.Vars {
		vars[k] = v
	}
	env := e.opts.Env
	if env == nil {
		env = value.NewObject()
	}
	vars["ENV"] = value.Obj(env)
	vars["ARGS"] = buildArgsValue(ro)
	return vars
}

// buildArgsValue renders the `$ARGS` object (`{"positional": [...],
// "named": {...}}`), matching jq's own `$ARGS` shape.
func buildArgsValue(ro RunOptions) value.Value {
	named := value.NewObject()
	for k, v := range ro.Vars {
		named.Set(k, v)
	}
	positional := ro.PositionalArgs
	if positional == nil {
		positional = []value.Value{}
	}
	args := value.NewObject()
	args.Set("positional", value.Array(positional))
	args.Set("named", value.Obj(named))
	return value.Obj(args)
}

// Parse exposes the jq-style-prelude-free parse step directly, for callers
// (e.g. a linter or a REPL's syntax check) that want diagnostics without
// running anything.
func Parse(source string) (ast.Expr, error) {
	return parser.Parse(source)
}

// AsDiagnostic narrows err to *errors.Diagnostic if it is one, so a host
// program can render Format(color) instead of the plain Error() string.
func AsDiagnostic(err error) (*errors.Diagnostic, bool) {
	d, ok := err.(*errors.Diagnostic)
	return d, ok
}
