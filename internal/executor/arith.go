package executor

import (
	"strings"

	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
)

// arith.go implements the eager value-level semantics of the arithmetic and
// comparison operators, grounded on jq's own operator table: `+`/`-`/`*`/`/`
// overload differently per operand kind (number, string, array, object)
// rather than being restricted to numbers the way the teacher's DWScript
// arithmetic is. `and`/`or`/`//` are NOT handled here — they need
// short-circuit, lazy evaluation of their right operand and are implemented
// directly in eval.go's BinOp case.

func (e *Executor) binOp(op ast.BinOpKind, l, r value.Value) (value.Value, error) {
	switch op {
	case ast.OpAdd:
		return e.opAdd(l, r)
	case ast.OpSub:
		return e.opSub(l, r)
	case ast.OpMul:
		return e.opMul(l, r)
	case ast.OpDiv:
		return e.opDiv(l, r)
	case ast.OpMod:
		return e.opMod(l, r)
	case ast.OpEq:
		return value.Bool(value.EqualIEEE(l, r)), nil
	case ast.OpNe:
		return value.Bool(!value.EqualIEEE(l, r)), nil
	case ast.OpLt:
		return value.Bool(value.Compare(l, r) < 0), nil
	case ast.OpLe:
		return value.Bool(value.Compare(l, r) <= 0), nil
	case ast.OpGt:
		return value.Bool(value.Compare(l, r) > 0), nil
	case ast.OpGe:
		return value.Bool(value.Compare(l, r) >= 0), nil
	default:
		return value.Null, e.Errorf(errors.KindRuntimeError, "unsupported operator %s", op)
	}
}

func (e *Executor) opAdd(l, r value.Value) (value.Value, error) {
	switch {
	case l.IsNull():
		return r, nil
	case r.IsNull():
		return l, nil
	case l.IsNumber() && r.IsNumber():
		if l.Kind() == value.KindInt && r.Kind() == value.KindInt {
			return value.Int(l.AsInt() + r.AsInt()), nil
		}
		return value.Float(l.AsFloat() + r.AsFloat()), nil
	case l.Kind() == value.KindString && r.Kind() == value.KindString:
		return value.String(l.AsString() + r.AsString()), nil
	case l.Kind() == value.KindArray && r.Kind() == value.KindArray:
		out := make([]value.Value, 0, len(l.AsArray())+len(r.AsArray()))
		out = append(out, l.AsArray()...)
		out = append(out, r.AsArray()...)
		return value.Array(out), nil
	case l.Kind() == value.KindObject && r.Kind() == value.KindObject:
		out := l.AsObject().Clone()
		for _, k := range r.AsObject().Keys() {
			v, _ := r.AsObject().Get(k)
			out.Set(k, v)
		}
		return value.Obj(out), nil
	default:
		return value.Null, e.Errorf(errors.KindTypeError, "%s (%s) and %s (%s) cannot be added", l.TypeName(), l.String(), r.TypeName(), r.String())
	}
}

func (e *Executor) opSub(l, r value.Value) (value.Value, error) {
	switch {
	case l.IsNumber() && r.IsNumber():
		if l.Kind() == value.KindInt && r.Kind() == value.KindInt {
			return value.Int(l.AsInt() - r.AsInt()), nil
		}
		return value.Float(l.AsFloat() - r.AsFloat()), nil
	case l.Kind() == value.KindArray && r.Kind() == value.KindArray:
		sub := r.AsArray()
		var out []value.Value
		for _, v := range l.AsArray() {
			found := false
			for _, s := range sub {
				if value.Equal(v, s) {
					found = true
					break
				}
			}
			if !found {
				out = append(out, v)
			}
		}
		return value.Array(out), nil
	default:
		return value.Null, e.Errorf(errors.KindTypeError, "%s and %s cannot be subtracted", l.TypeName(), r.TypeName())
	}
}

func (e *Executor) opMul(l, r value.Value) (value.Value, error) {
	switch {
	case l.IsNumber() && r.IsNumber():
		if l.Kind() == value.KindInt && r.Kind() == value.KindInt {
			return value.Int(l.AsInt() * r.AsInt()), nil
		}
		return value.Float(l.AsFloat() * r.AsFloat()), nil
	case l.Kind() == value.KindObject && r.Kind() == value.KindObject:
		return deepMerge(l, r), nil
	case l.IsNull() || r.IsNull():
		if (l.IsNull() && r.Kind() == value.KindObject) || (r.IsNull() && l.Kind() == value.KindObject) {
			return value.Null, nil
		}
		return value.Null, e.Errorf(errors.KindTypeError, "%s and %s cannot be multiplied", l.TypeName(), r.TypeName())
	case l.Kind() == value.KindString && r.Kind() == value.KindInt:
		return repeatString(l.AsString(), r.AsInt()), nil
	case r.Kind() == value.KindString && l.Kind() == value.KindInt:
		return repeatString(r.AsString(), l.AsInt()), nil
	default:
		return value.Null, e.Errorf(errors.KindTypeError, "%s and %s cannot be multiplied", l.TypeName(), r.TypeName())
	}
}

func repeatString(s string, n int64) value.Value {
	if n <= 0 {
		return value.Null
	}
	return value.String(strings.Repeat(s, int(n)))
}

func deepMerge(a, b value.Value) value.Value {
	if a.Kind() == value.KindObject && b.Kind() == value.KindObject {
		out := a.AsObject().Clone()
		for _, k := range b.AsObject().Keys() {
			bv, _ := b.AsObject().Get(k)
			if av, ok := out.Get(k); ok {
				out.Set(k, deepMerge(av, bv))
				continue
			}
			out.Set(k, bv)
		}
		return value.Obj(out)
	}
	return b
}

func (e *Executor) opDiv(l, r value.Value) (value.Value, error) {
	switch {
	case l.IsNumber() && r.IsNumber():
		// Zero-divisor is only an error for the integer/integer case: the
		// numeric tower promotes to Float whenever either operand is a
		// Float (spec §3.1), and Float division by zero follows IEEE-754
		// (±Inf / NaN) rather than raising, per spec §8.3.
		bothInt := l.Kind() == value.KindInt && r.Kind() == value.KindInt
		if bothInt && r.AsInt() == 0 {
			if e.opts.Strict {
				return value.Null, e.Errorf(errors.KindValueError, "%s and %s cannot be divided because the divisor is zero", l.TypeName(), r.TypeName())
			}
			return value.Null, nil
		}
		if bothInt && l.AsInt()%r.AsInt() == 0 {
			return value.Int(l.AsInt() / r.AsInt()), nil
		}
		return value.Float(l.AsFloat() / r.AsFloat()), nil
	case l.Kind() == value.KindString && r.Kind() == value.KindString:
		sep := r.AsString()
		if sep == "" {
			var out []value.Value
			for _, ch := range l.AsString() {
				out = append(out, value.String(string(ch)))
			}
			return value.Array(out), nil
		}
		parts := strings.Split(l.AsString(), sep)
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.String(p)
		}
		return value.Array(out), nil
	default:
		return value.Null, e.Errorf(errors.KindTypeError, "%s and %s cannot be divided", l.TypeName(), r.TypeName())
	}
}

func (e *Executor) opMod(l, r value.Value) (value.Value, error) {
	if !l.IsNumber() || !r.IsNumber() {
		return value.Null, e.Errorf(errors.KindTypeError, "%s and %s cannot be divided (remainder)", l.TypeName(), r.TypeName())
	}
	ri := r.AsInt()
	if ri == 0 {
		if e.opts.Strict {
			return value.Null, e.Errorf(errors.KindValueError, "%s and %s cannot be divided because the divisor is zero", l.TypeName(), r.TypeName())
		}
		return value.Null, nil
	}
	li := l.AsInt()
	m := li % absInt(ri)
	return value.Int(m), nil
}

func absInt(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
