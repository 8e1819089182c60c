package executor

import (
	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/registry"
	"github.com/tabjq/tabjq/internal/value"
)

// Emit is re-exported for callers outside the package that build an
// Executor directly rather than going through pkg/engine.
type Emit = registry.Emit

// Eval runs expr against input in env, calling emit for every output value
// in order, grounded on the teacher project's tree-walking Interpreter.Eval
// switch over ast node kinds (internal/interp/eval.go) — one case per
// concrete *ast.T, generalized from DWScript statement/expression nodes to
// this language's stream-producing filter nodes.
func (e *Executor) Eval(expr ast.Expr, input value.Value, env *Env, emit Emit) error {
	if err := e.checkCancelled(); err != nil {
		return err
	}
	e.pos = expr.Pos()

	switch n := expr.(type) {
	case *ast.Identity:
		return emit(input)

	case *ast.RecurseDefault:
		return e.recurseDefault(input, emit)

	case *ast.NullLiteral:
		return emit(value.Null)
	case *ast.BoolLiteral:
		return emit(value.Bool(n.Value))
	case *ast.IntLiteral:
		return emit(value.Int(n.Value))
	case *ast.FloatLiteral:
		return emit(value.Float(n.Value))

	case *ast.StringLiteral:
		return e.evalStringLiteral(n, input, env, emit)

	case *ast.Field:
		return e.evalField(n, input, env, emit)
	case *ast.Index:
		return e.evalIndex(n, input, env, emit)
	case *ast.Slice:
		return e.evalSlice(n, input, env, emit)
	case *ast.Iterate:
		return e.evalIterate(n, input, env, emit)

	case *ast.Pipe:
		return e.Eval(n.Left, input, env, func(v value.Value) error {
			return e.Eval(n.Right, v, env, emit)
		})

	case *ast.Comma:
		if err := e.Eval(n.Left, input, env, emit); err != nil {
			return err
		}
		return e.Eval(n.Right, input, env, emit)

	case *ast.BinOp:
		return e.evalBinOp(n, input, env, emit)

	case *ast.Not:
		return e.Eval(n.Operand, input, env, func(v value.Value) error {
			return emit(value.Bool(!v.Truthy()))
		})

	case *ast.Neg:
		return e.Eval(n.Operand, input, env, func(v value.Value) error {
			if !v.IsNumber() {
				return e.Errorf(errors.KindTypeError, "%s cannot be negated", v.TypeName())
			}
			if v.Kind() == value.KindInt {
				return emit(value.Int(-v.AsInt()))
			}
			return emit(value.Float(-v.AsFloat()))
		})

	case *ast.ArrayConstructor:
		return e.evalArrayConstructor(n, input, env, emit)

	case *ast.ObjectConstructor:
		return e.evalObjectConstructor(n, input, env, emit)

	case *ast.If:
		return e.evalIf(n, input, env, emit)

	case *ast.TryCatch:
		return e.evalTryCatch(n, input, env, emit)

	case *ast.Optional:
		err := e.Eval(n.Body, input, env, emit)
		if err != nil && isSuppressible(err) {
			return nil
		}
		return err

	case *ast.Reduce:
		return e.evalReduce(n, input, env, emit)

	case *ast.Foreach:
		return e.evalForeach(n, input, env, emit)

	case *ast.Bind:
		return e.Eval(n.Source, input, env, func(v value.Value) error {
			return e.Eval(n.Body, input, env.BindVar(n.Var, v), emit)
		})

	case *ast.VarRef:
		v, ok := env.LookupVar(n.Name)
		if !ok {
			return e.Errorf(errors.KindUndefinedVariable, "$%s is not defined", n.Name)
		}
		return emit(v)

	case *ast.FuncDef:
		cl := &Closure{Def: n}
		cl.Env = env.BindFunc(n.Name, len(n.Params), cl)
		return e.Eval(n.Rest, input, cl.Env, emit)

	case *ast.Call:
		return e.evalCall(n, input, env, emit)

	case *ast.Label:
		err := e.Eval(n.Body, input, env, emit)
		if bs, ok := err.(*breakSignal); ok && bs.name == n.Name {
			return nil
		}
		return err

	case *ast.Break:
		return &breakSignal{name: n.Name}

	case *ast.Assign:
		return e.evalAssign(n, input, env, emit)

	default:
		return e.Errorf(errors.KindRuntimeError, "unhandled expression node %T", expr)
	}
}

func (e *Executor) recurseDefault(input value.Value, emit Emit) error {
	if err := emit(input); err != nil {
		return err
	}
	switch input.Kind() {
	case value.KindArray:
		for _, v := range input.AsArray() {
			if err := e.recurseDefault(v, emit); err != nil {
				return err
			}
		}
	case value.KindObject:
		for _, k := range input.AsObject().Keys() {
			v, _ := input.AsObject().Get(k)
			if err := e.recurseDefault(v, emit); err != nil {
				return err
			}
		}
	case value.KindFrame, value.KindLazyFrame:
		f, err := asFrame(input)
		if err != nil {
			return err
		}
		for _, row := range f.Rows() {
			if err := e.recurseDefault(row, emit); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Executor) evalField(n *ast.Field, input value.Value, env *Env, emit Emit) error {
	target := n.Target
	if target == nil {
		return e.fieldResult(input, n.Name, n.Optional, emit)
	}
	return e.Eval(target, input, env, func(v value.Value) error {
		return e.fieldResult(v, n.Name, n.Optional, emit)
	})
}

func (e *Executor) fieldResult(v value.Value, name string, optional bool, emit Emit) error {
	child, err := e.fieldAccess(v, name)
	if err != nil {
		if optional && isSuppressible(err) {
			return nil
		}
		return err
	}
	return emit(child)
}

func (e *Executor) evalIndex(n *ast.Index, input value.Value, env *Env, emit Emit) error {
	return e.Eval(n.Target, input, env, func(v value.Value) error {
		return e.Eval(n.Key, input, env, func(k value.Value) error {
			child, err := e.indexAccess(v, k)
			if err != nil {
				if n.Optional && isSuppressible(err) {
					return nil
				}
				return err
			}
			return emit(child)
		})
	})
}

func (e *Executor) evalSlice(n *ast.Slice, input value.Value, env *Env, emit Emit) error {
	return e.Eval(n.Target, input, env, func(v value.Value) error {
		evalBound := func(expr ast.Expr, cont func(*int64) error) error {
			if expr == nil {
				return cont(nil)
			}
			return e.Eval(expr, input, env, func(bv value.Value) error {
				p, err := asIntPtr(bv)
				if err != nil {
					return err
				}
				return cont(p)
			})
		}
		return evalBound(n.Lo, func(lo *int64) error {
			return evalBound(n.Hi, func(hi *int64) error {
				child, err := e.sliceAccess(v, lo, hi)
				if err != nil {
					if n.Optional && isSuppressible(err) {
						return nil
					}
					return err
				}
				return emit(child)
			})
		})
	})
}

func (e *Executor) evalIterate(n *ast.Iterate, input value.Value, env *Env, emit Emit) error {
	return e.Eval(n.Target, input, env, func(v value.Value) error {
		switch v.Kind() {
		case value.KindArray:
			for _, elem := range v.AsArray() {
				if err := emit(elem); err != nil {
					return err
				}
			}
			return nil
		case value.KindObject:
			for _, k := range v.AsObject().Keys() {
				child, _ := v.AsObject().Get(k)
				if err := emit(child); err != nil {
					return err
				}
			}
			return nil
		case value.KindSeries:
			for _, elem := range v.AsSeries().Values() {
				if err := emit(elem); err != nil {
					return err
				}
			}
			return nil
		case value.KindFrame, value.KindLazyFrame:
			f, err := asFrame(v)
			if err != nil {
				return err
			}
			for _, row := range f.Rows() {
				if err := emit(row); err != nil {
					if !e.opts.Strict && errors.Is(err, errors.KindTypeError) {
						// Lenient mode (§7, §8.3 default): a TypeError raised
						// downstream of a row-wise frame iteration becomes a
						// null for that row rather than aborting the query.
						if err := emit(value.Null); err != nil {
							return err
						}
						continue
					}
					return err
				}
			}
			return nil
		default:
			if n.Optional {
				return nil
			}
			return e.Errorf(errors.KindTypeError, "Cannot iterate over %s", v.TypeName())
		}
	})
}

func (e *Executor) evalArrayConstructor(n *ast.ArrayConstructor, input value.Value, env *Env, emit Emit) error {
	if n.Body == nil {
		return emit(value.Array(nil))
	}
	var out []value.Value
	err := e.Eval(n.Body, input, env, func(v value.Value) error {
		out = append(out, v)
		return nil
	})
	if err != nil {
		return err
	}
	return emit(value.Array(out))
}

func (e *Executor) evalObjectConstructor(n *ast.ObjectConstructor, input value.Value, env *Env, emit Emit) error {
	acc := value.NewObject()
	return e.buildObjectEntry(n.Entries, 0, acc, input, env, emit)
}

func (e *Executor) buildObjectEntry(entries []ast.ObjectEntry, idx int, acc *value.Object, input value.Value, env *Env, emit Emit) error {
	if idx == len(entries) {
		return emit(value.Obj(acc))
	}
	entry := entries[idx]

	withKey := func(key string, v value.Value) error {
		next := acc.Clone()
		next.Set(key, v)
		return e.buildObjectEntry(entries, idx+1, next, input, env, emit)
	}

	switch {
	case entry.VarValue:
		v, ok := env.LookupVar(entry.KeyName)
		if !ok {
			return e.Errorf(errors.KindUndefinedVariable, "$%s is not defined", entry.KeyName)
		}
		return withKey(entry.KeyName, v)

	case entry.Value == nil:
		v, err := e.fieldAccess(input, entry.KeyName)
		if err != nil {
			return err
		}
		return withKey(entry.KeyName, v)

	case entry.KeyExpr != nil:
		return e.Eval(entry.KeyExpr, input, env, func(kv value.Value) error {
			if kv.Kind() != value.KindString {
				return e.Errorf(errors.KindTypeError, "Object keys must be strings")
			}
			return e.Eval(entry.Value, input, env, func(v value.Value) error {
				return withKey(kv.AsString(), v)
			})
		})

	default:
		return e.Eval(entry.Value, input, env, func(v value.Value) error {
			return withKey(entry.KeyName, v)
		})
	}
}

func (e *Executor) evalIf(n *ast.If, input value.Value, env *Env, emit Emit) error {
	return e.Eval(n.Cond, input, env, func(c value.Value) error {
		if c.Truthy() {
			return e.Eval(n.Then, input, env, emit)
		}
		if n.Else == nil {
			return emit(input)
		}
		return e.Eval(n.Else, input, env, emit)
	})
}

func (e *Executor) evalTryCatch(n *ast.TryCatch, input value.Value, env *Env, emit Emit) error {
	err := e.Eval(n.Body, input, env, emit)
	if err == nil {
		return nil
	}
	if !isCatchable(err) {
		return err
	}
	if n.Catch == nil {
		return nil
	}
	return e.Eval(n.Catch, errorValue(err), env, emit)
}

// firstValue evaluates expr and returns only its first output, used by
// reduce/foreach to seed the accumulator from Init.
func (e *Executor) firstValue(expr ast.Expr, input value.Value, env *Env) (value.Value, bool, error) {
	var result value.Value
	found := false
	err := e.Eval(expr, input, env, func(v value.Value) error {
		result = v
		found = true
		return errStopFirst
	})
	if err != nil && err != errStopFirst {
		return value.Null, false, err
	}
	return result, found, nil
}

func (e *Executor) evalReduce(n *ast.Reduce, input value.Value, env *Env, emit Emit) error {
	acc, _, err := e.firstValue(n.Init, input, env)
	if err != nil {
		return err
	}
	err = e.Eval(n.Source, input, env, func(srcVal value.Value) error {
		env2 := env.BindVar(n.Var, srcVal)
		var last value.Value
		emittedAny := false
		uerr := e.Eval(n.Update, acc, env2, func(v value.Value) error {
			last = v
			emittedAny = true
			return nil
		})
		if uerr != nil {
			return uerr
		}
		if emittedAny {
			acc = last
		} else {
			acc = value.Null
		}
		return nil
	})
	if err != nil {
		return err
	}
	return emit(acc)
}

func (e *Executor) evalForeach(n *ast.Foreach, input value.Value, env *Env, emit Emit) error {
	acc, _, err := e.firstValue(n.Init, input, env)
	if err != nil {
		return err
	}
	return e.Eval(n.Source, input, env, func(srcVal value.Value) error {
		env2 := env.BindVar(n.Var, srcVal)
		var last value.Value
		emittedAny := false
		uerr := e.Eval(n.Update, acc, env2, func(updOut value.Value) error {
			emittedAny = true
			last = updOut
			if n.Extract == nil {
				return emit(updOut)
			}
			return e.Eval(n.Extract, updOut, env2, emit)
		})
		if uerr != nil {
			return uerr
		}
		if emittedAny {
			acc = last
		} else {
			acc = value.Null
		}
		return nil
	})
}

func (e *Executor) evalBinOp(n *ast.BinOp, input value.Value, env *Env, emit Emit) error {
	switch n.Op {
	case ast.OpAnd:
		return e.Eval(n.Left, input, env, func(l value.Value) error {
			if !l.Truthy() {
				return emit(value.False)
			}
			return e.Eval(n.Right, input, env, func(r value.Value) error {
				return emit(value.Bool(r.Truthy()))
			})
		})
	case ast.OpOr:
		return e.Eval(n.Left, input, env, func(l value.Value) error {
			if l.Truthy() {
				return emit(value.True)
			}
			return e.Eval(n.Right, input, env, func(r value.Value) error {
				return emit(value.Bool(r.Truthy()))
			})
		})
	case ast.OpAlt:
		sawTruthy := false
		err := e.Eval(n.Left, input, env, func(l value.Value) error {
			if l.Truthy() {
				sawTruthy = true
				return emit(l)
			}
			return nil
		})
		if err != nil && !isCatchable(err) {
			return err
		}
		if sawTruthy {
			return nil
		}
		return e.Eval(n.Right, input, env, emit)
	default:
		return e.Eval(n.Left, input, env, func(l value.Value) error {
			return e.Eval(n.Right, input, env, func(r value.Value) error {
				v, err := e.binOp(n.Op, l, r)
				if err != nil {
					return err
				}
				return emit(v)
			})
		})
	}
}

func (e *Executor) evalStringLiteral(n *ast.StringLiteral, input value.Value, env *Env, emit Emit) error {
	format := n.Format
	if format == "" {
		format = "text"
	}
	ff, ok := registry.Formats[format]
	if !ok {
		return e.Errorf(errors.KindRuntimeError, "unknown format @%s", format)
	}
	return e.buildStringParts(n.Parts, 0, "", ff, input, env, emit)
}

func (e *Executor) buildStringParts(parts []ast.StringPart, idx int, prefix string, ff registry.FormatFunc, input value.Value, env *Env, emit Emit) error {
	if idx == len(parts) {
		return emit(value.String(prefix))
	}
	p := parts[idx]
	if p.Expr == nil {
		return e.buildStringParts(parts, idx+1, prefix+p.Text, ff, input, env, emit)
	}
	return e.Eval(p.Expr, input, env, func(v value.Value) error {
		s, err := ff(e, v)
		if err != nil {
			return err
		}
		return e.buildStringParts(parts, idx+1, prefix+s, ff, input, env, emit)
	})
}
