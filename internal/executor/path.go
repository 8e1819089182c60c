package executor

import (
	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
)

// path.go tracks, alongside every value a filter produces, the path that was
// walked from the query root to reach it — backing `path(EXPR)`, `paths`,
// `leaf_paths`, and the assignment forms in assign.go. It mirrors eval.go's
// structure node-for-node rather than sharing code with it, since the two
// evaluators carry genuinely different payloads (a plain value vs. a
// path+value pair); grounded on the same "one case per concrete ast node"
// shape as the teacher's Interpreter, applied to jq's own path-expression
// subset (a filter is path-able only if every node it is built from is).
type pathEmit func(path []value.Value, v value.Value) error

func appendPath(path []value.Value, comp value.Value) []value.Value {
	out := make([]value.Value, len(path)+1)
	copy(out, path)
	out[len(path)] = comp
	return out
}

func (e *Executor) evalPathCall(bodyExpr ast.Expr, input value.Value, env *Env, emit Emit) error {
	return e.evalPaths(bodyExpr, input, nil, env, func(path []value.Value, _ value.Value) error {
		return emit(value.Array(path))
	})
}

func (e *Executor) evalPathsBuiltin(name string, input value.Value, env *Env, emit Emit) error {
	return e.recursePathsValue(input, nil, func(path []value.Value, v value.Value) error {
		if len(path) == 0 {
			return nil
		}
		if name == "leaf_paths" && isContainer(v) {
			return nil
		}
		return emit(value.Array(path))
	})
}

func isContainer(v value.Value) bool {
	switch v.Kind() {
	case value.KindArray, value.KindObject, value.KindFrame, value.KindLazyFrame:
		return true
	default:
		return false
	}
}

func (e *Executor) recursePathsValue(v value.Value, path []value.Value, emit pathEmit) error {
	if err := emit(path, v); err != nil {
		return err
	}
	switch v.Kind() {
	case value.KindArray:
		for i, elem := range v.AsArray() {
			if err := e.recursePathsValue(elem, appendPath(path, value.Int(int64(i))), emit); err != nil {
				return err
			}
		}
	case value.KindObject:
		for _, k := range v.AsObject().Keys() {
			child, _ := v.AsObject().Get(k)
			if err := e.recursePathsValue(child, appendPath(path, value.String(k)), emit); err != nil {
				return err
			}
		}
	case value.KindFrame, value.KindLazyFrame:
		f, err := asFrame(v)
		if err != nil {
			return err
		}
		for i, row := range f.Rows() {
			if err := e.recursePathsValue(row, appendPath(path, value.Int(int64(i))), emit); err != nil {
				return err
			}
		}
	}
	return nil
}

// evalPaths is the path-tracking twin of Eval: cur is the ambient "." at
// this point (exactly as eval.go's input parameter), and path is the
// location of cur relative to the value path(EXPR) was originally called
// on. Only a bounded subset of the grammar can legally appear inside
// path(EXPR) — jq itself rejects the rest with "Invalid path expression".
func (e *Executor) evalPaths(expr ast.Expr, cur value.Value, path []value.Value, env *Env, emit pathEmit) error {
	switch n := expr.(type) {
	case *ast.Identity:
		return emit(path, cur)

	case *ast.RecurseDefault:
		return e.recursePathsValue(cur, path, emit)

	case *ast.Field:
		target := n.Target
		step := func(p []value.Value, v value.Value) error {
			child, err := e.fieldAccess(v, n.Name)
			if err != nil {
				if n.Optional && isSuppressible(err) {
					return nil
				}
				return err
			}
			return emit(appendPath(p, value.String(n.Name)), child)
		}
		if target == nil {
			return step(path, cur)
		}
		return e.evalPaths(target, cur, path, env, step)

	case *ast.Index:
		return e.evalPaths(n.Target, cur, path, env, func(p []value.Value, v value.Value) error {
			return e.Eval(n.Key, cur, env, func(k value.Value) error {
				child, err := e.indexAccess(v, k)
				if err != nil {
					if n.Optional && isSuppressible(err) {
						return nil
					}
					return err
				}
				return emit(appendPath(p, k), child)
			})
		})

	case *ast.Slice:
		return e.evalPaths(n.Target, cur, path, env, func(p []value.Value, v value.Value) error {
			var lo, hi *int64
			evalBound := func(be ast.Expr, cont func(*int64) error) error {
				if be == nil {
					return cont(nil)
				}
				return e.Eval(be, cur, env, func(bv value.Value) error {
					ip, err := asIntPtr(bv)
					if err != nil {
						return err
					}
					return cont(ip)
				})
			}
			return evalBound(n.Lo, func(l *int64) error {
				lo = l
				return evalBound(n.Hi, func(h *int64) error {
					hi = h
					child, err := e.sliceAccess(v, lo, hi)
					if err != nil {
						if n.Optional && isSuppressible(err) {
							return nil
						}
						return err
					}
					comp := value.Obj(value.NewObjectFromPairs([]value.KV{
						{Key: "start", Value: boundValue(lo)},
						{Key: "end", Value: boundValue(hi)},
					}))
					return emit(appendPath(p, comp), child)
				})
			})
		})

	case *ast.Iterate:
		return e.evalPaths(n.Target, cur, path, env, func(p []value.Value, v value.Value) error {
			rows, err := rowsOf(v)
			if err != nil {
				return err
			}
			if rows == nil && !isIterableKind(v) {
				if n.Optional {
					return nil
				}
				return e.Errorf(errors.KindTypeError, "Cannot iterate over %s", v.TypeName())
			}
			if v.Kind() == value.KindObject {
				for _, k := range v.AsObject().Keys() {
					child, _ := v.AsObject().Get(k)
					if err := emit(appendPath(p, value.String(k)), child); err != nil {
						return err
					}
				}
				return nil
			}
			for i, elem := range rows {
				if err := emit(appendPath(p, value.Int(int64(i))), elem); err != nil {
					return err
				}
			}
			return nil
		})

	case *ast.Pipe:
		return e.evalPaths(n.Left, cur, path, env, func(p []value.Value, v value.Value) error {
			return e.evalPaths(n.Right, v, p, env, emit)
		})

	case *ast.Comma:
		if err := e.evalPaths(n.Left, cur, path, env, emit); err != nil {
			return err
		}
		return e.evalPaths(n.Right, cur, path, env, emit)

	case *ast.Optional:
		err := e.evalPaths(n.Body, cur, path, env, emit)
		if err != nil && isSuppressible(err) {
			return nil
		}
		return err

	case *ast.TryCatch:
		err := e.evalPaths(n.Body, cur, path, env, emit)
		if err != nil && isCatchable(err) {
			return nil
		}
		return err

	case *ast.If:
		return e.Eval(n.Cond, cur, env, func(c value.Value) error {
			if c.Truthy() {
				return e.evalPaths(n.Then, cur, path, env, emit)
			}
			if n.Else == nil {
				return emit(path, cur)
			}
			return e.evalPaths(n.Else, cur, path, env, emit)
		})

	case *ast.Bind:
		return e.Eval(n.Source, cur, env, func(v value.Value) error {
			return e.evalPaths(n.Body, cur, path, env.BindVar(n.Var, v), emit)
		})

	case *ast.FuncDef:
		cl := &Closure{Def: n}
		cl.Env = env.BindFunc(n.Name, len(n.Params), cl)
		return e.evalPaths(n.Rest, cur, path, cl.Env, emit)

	case *ast.Call:
		return e.evalPathsCall(n, cur, path, env, emit)

	default:
		return e.Errorf(errors.KindRuntimeError, "Invalid path expression near %s", expr.String())
	}
}

func boundValue(p *int64) value.Value {
	if p == nil {
		return value.Null
	}
	return value.Int(*p)
}

func isIterableKind(v value.Value) bool {
	switch v.Kind() {
	case value.KindArray, value.KindObject, value.KindSeries, value.KindFrame, value.KindLazyFrame:
		return true
	default:
		return false
	}
}

// evalPathsCall supports the bounded subset of Call-wrapped forms that jq
// itself allows inside a path expression: recursion, filtering, no-ops, and
// literal-path composition. Anything else is rejected the way real jq
// rejects e.g. `path(length)`.
func (e *Executor) evalPathsCall(n *ast.Call, cur value.Value, path []value.Value, env *Env, emit pathEmit) error {
	switch {
	case n.Name == "empty" && len(n.Args) == 0:
		return nil

	case n.Name == "select" && len(n.Args) == 1:
		return e.Eval(n.Args[0], cur, env, func(c value.Value) error {
			if !c.Truthy() {
				return nil
			}
			return emit(path, cur)
		})

	case n.Name == "recurse" && len(n.Args) == 0:
		return e.recursePathsValue(cur, path, emit)

	case n.Name == "recurse" && len(n.Args) == 1:
		var rec func(v value.Value, p []value.Value) error
		rec = func(v value.Value, p []value.Value) error {
			if err := emit(p, v); err != nil {
				return err
			}
			return e.evalPaths(n.Args[0], v, p, env, func(p2 []value.Value, v2 value.Value) error {
				return rec(v2, p2)
			})
		}
		return rec(cur, path)

	case n.Name == "getpath" && len(n.Args) == 1:
		return e.Eval(n.Args[0], cur, env, func(pv value.Value) error {
			if pv.Kind() != value.KindArray {
				return e.Errorf(errors.KindTypeError, "getpath argument must be an array")
			}
			comps := pv.AsArray()
			child, err := e.getpathChain(cur, comps)
			if err != nil {
				return err
			}
			return emit(append(append([]value.Value(nil), path...), comps...), child)
		})

	default:
		if cl, ok := env.LookupFunc(n.Name, len(n.Args)); ok {
			return e.evalPathsClosure(cl, n.Args, cur, path, env, emit)
		}
		return e.Errorf(errors.KindRuntimeError, "Invalid path expression: %s is not path-able", n.Name)
	}
}

func (e *Executor) getpathChain(v value.Value, comps []value.Value) (value.Value, error) {
	cur := v
	for _, c := range comps {
		child, err := e.indexAccess(cur, c)
		if err != nil {
			return value.Null, err
		}
		cur = child
	}
	return cur, nil
}

// evalPathsClosure inlines a user-defined function call into the path
// evaluator, the path-tracking analogue of callClosure: filter-parameters
// stay lazy closures, `$`-prefixed value-parameters still bind via a
// value-level (non-path) `as`, and the function body is walked for paths.
func (e *Executor) evalPathsClosure(cl *Closure, argExprs []ast.Expr, cur value.Value, path []value.Value, callerEnv *Env, emit pathEmit) error {
	return e.enterCall(func() error {
		params := cl.Def.Params
		closures := make(map[string]*Closure, len(params))
		for i, p := range params {
			name := trimDollar(p)
			closures[funcKey(name, 0)] = &Closure{
				Def: &ast.FuncDef{Name: name, Body: argExprs[i]},
				Env: callerEnv,
			}
		}
		bodyEnv := cl.Env.BindFuncs(closures)

		var bind func(i int, env *Env) error
		bind = func(i int, env *Env) error {
			if i == len(params) {
				return e.evalPaths(cl.Def.Body, cur, path, env, emit)
			}
			p := params[i]
			if len(p) == 0 || p[0] != '$' {
				return bind(i+1, env)
			}
			name := p[1:]
			return e.Eval(argExprs[i], cur, callerEnv, func(v value.Value) error {
				return bind(i+1, env.BindVar(name, v))
			})
		}
		return bind(0, bodyEnv)
	})
}

func trimDollar(s string) string {
	if len(s) > 0 && s[0] == '$' {
		return s[1:]
	}
	return s
}
