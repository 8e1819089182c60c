package executor

import (
	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/registry"
	"github.com/tabjq/tabjq/internal/value"
)

// assign.go implements the path-assignment forms (`=`, `|=`, `+=`, `-=`,
// `*=`, `/=`, `%=`, `//=`) from spec §3.2/§9, grounded on jq's own
// desugaring of these operators (documented in jq's builtin.jq as
// `_assign`/`_modify`): every form reduces to "collect the paths matched by
// the left-hand side against the ORIGINAL input, then fold a per-path
// update over an accumulator that starts as that same original input".
// `=` and the arithmetic forms bind their right-hand side once against the
// original input (so `.a += .b` reads "b" from the whole document, not from
// whatever "." a prior path update already rewrote); `|=` instead runs its
// right-hand side filter with "." rebound to each path's current
// (possibly already-updated-by-an-earlier-path) sub-value, taking only the
// first emitted value and deleting the path entirely if the filter emits
// none — the same "label $out ... break $out" shape jq's own `_modify`
// uses.
func (e *Executor) evalAssign(n *ast.Assign, input value.Value, env *Env, emit Emit) error {
	switch n.Op {
	case ast.AssignSet:
		return e.Eval(n.Value, input, env, func(v value.Value) error {
			return e.modifyPaths(n.Path, input, env, func(_ value.Value, innerEmit Emit) error {
				return innerEmit(v)
			}, emit)
		})

	case ast.AssignUpdate:
		return e.modifyPaths(n.Path, input, env, func(cur value.Value, innerEmit Emit) error {
			return e.Eval(n.Value, cur, env, innerEmit)
		}, emit)

	default:
		op, ok := arithAssignOp(n.Op)
		if !ok {
			return e.Errorf(errors.KindRuntimeError, "unsupported assignment operator %s", n.Op)
		}
		return e.Eval(n.Value, input, env, func(rhs value.Value) error {
			return e.modifyPaths(n.Path, input, env, func(cur value.Value, innerEmit Emit) error {
				if n.Op == ast.AssignAlt {
					if cur.Truthy() {
						return innerEmit(cur)
					}
					return innerEmit(rhs)
				}
				res, err := e.binOp(op, cur, rhs)
				if err != nil {
					return err
				}
				return innerEmit(res)
			}, emit)
		})
	}
}

// arithAssignOp maps an arithmetic-update AssignOp to the BinOp it threads
// through the current sub-value (`.op rhs`). AssignAlt has no BinOpKind
// counterpart since `//` short-circuits on truthiness rather than computing
// a value from both sides, so its handling stays inline in evalAssign.
func arithAssignOp(op ast.AssignOp) (ast.BinOpKind, bool) {
	switch op {
	case ast.AssignAdd:
		return ast.OpAdd, true
	case ast.AssignSub:
		return ast.OpSub, true
	case ast.AssignMul:
		return ast.OpMul, true
	case ast.AssignDiv:
		return ast.OpDiv, true
	case ast.AssignMod:
		return ast.OpMod, true
	case ast.AssignAlt:
		return "", true
	default:
		return "", false
	}
}

// modifyPaths computes every path matched by pathExpr against root (the
// value "." held at the point the assignment expression itself runs, before
// any path is touched), then folds updateOne across an accumulator seeded
// at root: for each path in turn, updateOne sees the accumulator's
// CURRENT sub-value at that path (reflecting any earlier path's update) and
// produces zero or one replacement value. Zero emissions deletes the path
// (jq's delete-on-empty-update rule for `|=`); one or more takes only the
// first, matching upstream jq's label/break short-circuit. Exactly one
// fully-folded result is emitted per call, since every path is a
// structural-sharing rewrite of the same root rather than an independent
// output stream.
func (e *Executor) modifyPaths(pathExpr ast.Expr, root value.Value, env *Env, updateOne func(cur value.Value, innerEmit Emit) error, emit Emit) error {
	var paths [][]value.Value
	if err := e.evalPaths(pathExpr, root, nil, env, func(p []value.Value, _ value.Value) error {
		paths = append(paths, append([]value.Value(nil), p...))
		return nil
	}); err != nil {
		return err
	}

	acc := root
	for _, p := range paths {
		cur, err := registry.GetPath(e, acc, p)
		if err != nil {
			return err
		}
		var first value.Value
		emitted := false
		err = updateOne(cur, func(v value.Value) error {
			if emitted {
				return errStopFirst
			}
			first = v
			emitted = true
			return errStopFirst
		})
		if err != nil && err != errStopFirst {
			return err
		}
		if emitted {
			acc, err = registry.SetPath(e, acc, p, first)
		} else {
			acc, err = registry.DelPath(e, acc, p)
		}
		if err != nil {
			return err
		}
	}
	return emit(acc)
}
