package executor

import (
	"context"
	"time"

	"github.com/tabjq/tabjq/internal/compiler"
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/registry"
	"github.com/tabjq/tabjq/internal/value"
)

// Options configures one Executor, mirroring spec §6's Configuration surface
// (optimization_level/dataframe_optimizations live in the compiler;
// strict_mode/max_recursion_depth/collect_stats live here).
type Options struct {
	MaxRecursionDepth int
	// Strict selects strict-mode error propagation per spec §7/§8.3: a
	// row-wise TypeError over a Frame's rows aborts the query instead of
	// becoming a null for that row (eval.go's evalIterate), and integer
	// division/modulo by zero raises ValueError instead of producing null
	// (arith.go's opDiv/opMod). Defaults to false (lenient).
	Strict       bool
	CollectStats bool
	Now          func() time.Time
	Env          *value.Object
	Args         value.Value
	Ctx          context.Context
	// Plan is the compiled plan for the tree this Executor is about to walk,
	// exposed through Executor.Plan. Evaluation does not read its tabular
	// annotations: `select` over a Frame/LazyFrame takes the columnar path
	// (evalTabularCall) whether or not Plan is set.
	Plan *compiler.Plan
}

const defaultMaxRecursionDepth = 100

// Executor runs a compiled (or raw) AST against an input stream, grounded on
// the teacher project's tree-walking Interpreter (internal/interp) — this
// engine walks internal/ast.Expr nodes directly rather than a bytecode VM,
// matching the teacher's own architecture rather than inventing a stack
// machine the corpus never shows.
type Executor struct {
	Registry *registry.Registry

	opts  Options
	stats *Stats

	depth    int
	maxDepth int

	// pos is the source position of the call/operator currently executing,
	// used to stamp Diagnostics raised through the registry.Context surface.
	pos errors.Position
}

// New builds an Executor with reg as its builtin function table.
func New(reg *registry.Registry, opts Options) *Executor {
	if opts.MaxRecursionDepth <= 0 {
		opts.MaxRecursionDepth = defaultMaxRecursionDepth
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Env == nil {
		opts.Env = value.NewObject()
	}
	if opts.Args.Kind() == value.KindNull {
		opts.Args = value.Obj(value.NewObject())
	}
	if opts.Ctx == nil {
		opts.Ctx = context.Background()
	}
	e := &Executor{Registry: reg, opts: opts, maxDepth: opts.MaxRecursionDepth}
	if opts.CollectStats {
		e.stats = NewStats()
	}
	return e
}

// Stats returns the accumulated execution statistics, or nil if
// CollectStats was not enabled.
func (e *Executor) Stats() *Stats { return e.stats }

// Plan returns the compiled tabular-safety annotations this Executor was
// built with, or nil if it is running a raw, uncompiled tree.
func (e *Executor) Plan() *compiler.Plan { return e.opts.Plan }

// Errorf implements registry.Context.
func (e *Executor) Errorf(kind errors.Kind, format string, args ...any) error {
	return errors.New(kind, e.pos, format, args...)
}

// Now implements registry.Context.
func (e *Executor) Now() time.Time { return e.opts.Now() }

// Env implements registry.Context.
func (e *Executor) Env() *value.Object { return e.opts.Env }

// Args implements registry.Context.
func (e *Executor) Args() value.Value { return e.opts.Args }

// checkCancelled reports a CancelledError diagnostic if the run context was
// cancelled, checked at pipeline-stage boundaries and before tabular
// primitives per spec §6's cancellation-token contract.
func (e *Executor) checkCancelled() error {
	select {
	case <-e.opts.Ctx.Done():
		return errors.Cancelled(e.pos)
	default:
		return nil
	}
}

// enterCall increments the recursion counter for the duration of fn,
// raising a fatal RecursionLimitError if the configured cap is exceeded,
// matching the teacher's stack-depth guard in its recursive evaluator.
func (e *Executor) enterCall(fn func() error) error {
	e.depth++
	defer func() { e.depth-- }()
	if e.stats != nil {
		e.stats.noteRecursion(e.depth)
	}
	if e.depth > e.maxDepth {
		return errors.RecursionLimit(e.pos, e.depth)
	}
	return fn()
}
