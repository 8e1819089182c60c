package executor

import (
	"strconv"
	"strings"

	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/registry"
	"github.com/tabjq/tabjq/internal/value"
)

// call.go is the dispatch core for `name(args)` call sites, grounded on the
// teacher project's Interpreter.callFunction (internal/interp/call.go):
// first a handful of forms the executor must special-case because they need
// more than eager argument values (path expressions, regex substitution,
// tabular primitives), then user-defined functions in lexical scope, then
// the registry of simple built-ins.
func (e *Executor) evalCall(n *ast.Call, input value.Value, env *Env, emit Emit) error {
	name := n.Name
	arity := len(n.Args)

	switch {
	case name == "error" && arity == 0:
		return raiseValue(n.Pos(), input)
	case name == "error" && arity == 1:
		return e.Eval(n.Args[0], input, env, func(v value.Value) error {
			return raiseValue(n.Pos(), v)
		})
	case name == "path" && arity == 1:
		return e.evalPathCall(n.Args[0], input, env, emit)
	case (name == "paths" || name == "leaf_paths") && arity == 0:
		return e.evalPathsBuiltin(name, input, env, emit)
	case name == "sub" && (arity == 2 || arity == 3):
		return e.evalSub(n, input, env, emit, false)
	case name == "gsub" && (arity == 2 || arity == 3):
		return e.evalSub(n, input, env, emit, true)
	case strings.HasPrefix(name, "@") && arity == 0:
		return e.evalFormatCall(name, input, emit)
	}

	if isFrameLike(input) && isTabularDispatchName(name) {
		handled, err := e.evalTabularCall(n, input, env, emit)
		if handled {
			return err
		}
	}

	if cl, ok := env.LookupFunc(name, arity); ok {
		return e.callClosure(cl, n.Args, input, env, emit)
	}

	if info, ok := e.Registry.Lookup(name, arity); ok {
		if e.stats != nil {
			e.stats.noteBuiltin(name)
		}
		return e.cartesianArgs(n.Args, input, env, func(args []value.Value) error {
			return info.Func(e, input, args, emit)
		})
	}

	arities := e.Registry.Arities(name)
	if len(arities) > 0 {
		return errors.ArityMismatch(n.Pos(), name, arity, formatArities(arities))
	}
	return errors.UnknownFunction(n.Pos(), name, arity)
}

func formatArities(arities []int) string {
	parts := make([]string, len(arities))
	for i, a := range arities {
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, " or ")
}

func formatByAtName(name string) (registry.FormatFunc, bool) {
	ff, ok := registry.Formats[strings.TrimPrefix(name, "@")]
	return ff, ok
}

func isFrameLike(v value.Value) bool {
	return v.Kind() == value.KindFrame || v.Kind() == value.KindLazyFrame
}

// cartesianArgs evaluates every argument expression against input,
// producing the cross-product of their output streams — jq's actual
// argument-evaluation rule for built-ins (`pow(1,2; 3,4)` yields four
// results), in left-to-right nesting order.
func (e *Executor) cartesianArgs(argExprs []ast.Expr, input value.Value, env *Env, cont func([]value.Value) error) error {
	vals := make([]value.Value, len(argExprs))
	var rec func(i int) error
	rec = func(i int) error {
		if i == len(argExprs) {
			return cont(append([]value.Value(nil), vals...))
		}
		return e.Eval(argExprs[i], input, env, func(v value.Value) error {
			vals[i] = v
			return rec(i + 1)
		})
	}
	return rec(0)
}

func (e *Executor) evalFormatCall(name string, input value.Value, emit Emit) error {
	ff, ok := formatByAtName(name)
	if !ok {
		return e.Errorf(errors.KindRuntimeError, "unknown format %s", name)
	}
	s, err := ff(e, input)
	if err != nil {
		return err
	}
	return emit(value.String(s))
}

// callClosure invokes a user-defined function, binding every declared
// parameter as a 0-arity filter closure over the caller's scope (so a plain
// filter-parameter is re-evaluated fresh each time the body calls it) and
// additionally threading `$`-prefixed value-parameters through a nested
// `as $x` bind, matching jq's own desugaring: `def f($a): BODY` is exactly
// `def f(a): a as $a | BODY`.
func (e *Executor) callClosure(cl *Closure, argExprs []ast.Expr, callerInput value.Value, callerEnv *Env, emit Emit) error {
	return e.enterCall(func() error {
		params := cl.Def.Params
		closures := make(map[string]*Closure, len(params))
		for i, p := range params {
			name := strings.TrimPrefix(p, "$")
			closures[funcKey(name, 0)] = &Closure{
				Def: &ast.FuncDef{Name: name, Body: argExprs[i]},
				Env: callerEnv,
			}
		}
		bodyEnv := cl.Env.BindFuncs(closures)

		var bind func(i int, env *Env) error
		bind = func(i int, env *Env) error {
			if i == len(params) {
				return e.Eval(cl.Def.Body, callerInput, env, emit)
			}
			p := params[i]
			if !strings.HasPrefix(p, "$") {
				return bind(i+1, env)
			}
			name := p[1:]
			return e.Eval(argExprs[i], callerInput, callerEnv, func(v value.Value) error {
				return bind(i+1, env.BindVar(name, v))
			})
		}
		return bind(0, bodyEnv)
	})
}
