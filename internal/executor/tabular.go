package executor

import (
	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/value"
)

// tabular.go is the columnar fast path evalCall takes before falling through
// to the generic (row-materializing) evaluation of a handful of stdlib
// names, grounded on the teacher project's dataframe package picking a
// vectorized code path only when it can prove doing so doesn't change the
// result (internal/dataframe/expr_optimize.go's predicate-pushdown pass,
// adapted here from a physical query plan to this engine's tree-walking
// one). Only `select` is actually pushed down today: its output is provably
// still a Frame (TakeRows over the matching row indices), so staying
// columnar costs nothing and is never wrong. `map` is left to fall through
// to the array-producing generic prelude definition even when
// compiler.AnnotateTabular marks its body row-pure, since a mapped Frame's
// result shape (array vs a new single-column Frame) is exactly the kind of
// surface-shape Open Question spec.md leaves undecided for future work; see
// DESIGN.md. Like every other name in call.go's special-case block, this
// dispatch runs ahead of env.LookupFunc, so a program that redefines
// `select` itself still gets the fast path over Frame input — the same
// precedence jq's own C-speed builtins take over a same-named `def`.
func isTabularDispatchName(name string) bool {
	return name == "select"
}

// evalTabularCall attempts the columnar fast path for n against a Frame- or
// LazyFrame-shaped input. handled reports whether it fully owns dispatch for
// this call; when handled is false, evalCall continues on to the ordinary
// user-function/registry lookup regardless of err (err is always nil in
// that case).
func (e *Executor) evalTabularCall(n *ast.Call, input value.Value, env *Env, emit Emit) (handled bool, err error) {
	switch n.Name {
	case "select":
		return e.evalTabularSelect(n, input, env, emit)
	default:
		return false, nil
	}
}

// evalTabularSelect implements `select(f)` over a Frame/LazyFrame without
// ever boxing the *output* at all: matching row indices are collected and
// handed to Frame.TakeRows, so the result is a Frame sharing the original
// Series' backing storage for every retained row. The predicate itself is
// still evaluated one row at a time (each row boxed as a value.Object, the
// same shape `.[] | select(f)` would see), since f may be an arbitrary
// filter. Every truthy emission of f against a row counts as a separate
// selection of that row, matching jq's own
// `select(f): if f then . else empty end;` definition, which can emit `.`
// more than once when f is a generator with multiple truthy outputs.
func (e *Executor) evalTabularSelect(n *ast.Call, input value.Value, env *Env, emit Emit) (bool, error) {
	if len(n.Args) != 1 {
		return false, nil
	}

	frame, err := asFrame(input)
	if err != nil {
		return true, err
	}
	if frame == nil {
		return false, nil
	}

	var indices []int
	for i := 0; i < frame.Height(); i++ {
		row := value.Obj(frame.Row(i))
		if err := e.checkCancelled(); err != nil {
			return true, err
		}
		if err := e.Eval(n.Args[0], row, env, func(c value.Value) error {
			if c.Truthy() {
				indices = append(indices, i)
			}
			return nil
		}); err != nil {
			return true, err
		}
	}
	return true, emit(value.FrameValue(frame.TakeRows(indices)))
}
