package registry

import (
	"strings"

	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
)

// =============================================================================
// Core built-ins: identity-adjacent, type introspection, containment.
// =============================================================================

// Length implements `length`: the element count of a string/array/object,
// the absolute value of a number, 0 for null, and bytes for a Bytes value.
func Length(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	switch input.Kind() {
	case value.KindNull:
		return emit(value.Int(0))
	case value.KindString:
		return emit(value.Int(int64(len([]rune(input.AsString())))))
	case value.KindBytes:
		return emit(value.Int(int64(len(input.AsBytes()))))
	case value.KindArray:
		return emit(value.Int(int64(len(input.AsArray()))))
	case value.KindObject:
		return emit(value.Int(int64(input.AsObject().Len())))
	case value.KindInt:
		n := input.AsInt()
		if n < 0 {
			n = -n
		}
		return emit(value.Int(n))
	case value.KindFloat:
		f := input.AsFloat()
		if f < 0 {
			f = -f
		}
		return emit(value.Float(f))
	case value.KindSeries:
		return emit(value.Int(int64(input.AsSeries().Len)))
	case value.KindFrame:
		return emit(value.Int(int64(input.AsFrame().Height())))
	default:
		return ctx.Errorf(errors.KindTypeError, "%s has no length", input.TypeName())
	}
}

// Utf8ByteLength implements `utf8bytelength`: the byte length of a string.
func Utf8ByteLength(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() != value.KindString {
		return ctx.Errorf(errors.KindTypeError, "%s has no utf8bytelength", input.TypeName())
	}
	return emit(value.Int(int64(len(input.AsString()))))
}

// Type implements `type`.
func Type(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return emit(value.String(input.TypeName()))
}

// Not implements `not`.
func Not(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return emit(value.Bool(!input.Truthy()))
}

// Empty implements `empty`: produces no outputs at all.
func Empty(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return nil
}

// Error0 implements the 0-arity form of `error`: raises input itself (a
// string message, or any value for a structured error) as a ValueError.
func Error0(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() == value.KindString {
		return ctx.Errorf(errors.KindValueError, "%s", input.AsString())
	}
	return ctx.Errorf(errors.KindValueError, "%s", input.String())
}

// Error1 implements `error(msg)`.
func Error1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	msg := args[0]
	if msg.Kind() == value.KindString {
		return ctx.Errorf(errors.KindValueError, "%s", msg.AsString())
	}
	return ctx.Errorf(errors.KindValueError, "%s", msg.String())
}

// Keys implements `keys`: sorted object keys, or array indices.
func Keys(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return keysImpl(ctx, input, emit, true)
}

// KeysUnsorted implements `keys_unsorted`: object keys in insertion order.
func KeysUnsorted(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return keysImpl(ctx, input, emit, false)
}

func keysImpl(ctx Context, input value.Value, emit Emit, sorted bool) error {
	switch input.Kind() {
	case value.KindObject:
		o := input.AsObject()
		if sorted {
			o = o.SortedKeys(false)
		}
		keys := o.Keys()
		out := make([]value.Value, len(keys))
		for i, k := range keys {
			out[i] = value.String(k)
		}
		return emit(value.Array(out))
	case value.KindArray, value.KindFrame, value.KindSeries:
		n := seqLen(input)
		out := make([]value.Value, n)
		for i := range out {
			out[i] = value.Int(int64(i))
		}
		return emit(value.Array(out))
	default:
		return ctx.Errorf(errors.KindTypeError, "%s has no keys", input.TypeName())
	}
}

func seqLen(v value.Value) int {
	switch v.Kind() {
	case value.KindArray:
		return len(v.AsArray())
	case value.KindSeries:
		return v.AsSeries().Len
	case value.KindFrame:
		return v.AsFrame().Height()
	default:
		return 0
	}
}

// Has implements `has($key)`: object key membership or array index bounds.
func Has(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	key := args[0]
	switch input.Kind() {
	case value.KindObject:
		if key.Kind() != value.KindString {
			return ctx.Errorf(errors.KindTypeError, "has key must be a string for objects")
		}
		_, ok := input.AsObject().Get(key.AsString())
		return emit(value.Bool(ok))
	case value.KindArray:
		if !key.IsNumber() {
			return ctx.Errorf(errors.KindTypeError, "has key must be a number for arrays")
		}
		i := key.AsInt()
		return emit(value.Bool(i >= 0 && i < int64(len(input.AsArray()))))
	default:
		return ctx.Errorf(errors.KindTypeError, "%s has no keys", input.TypeName())
	}
}

// In implements `in($container)`: the reverse of has, with input as the key.
func In(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return Has(ctx, args[0], []value.Value{input}, emit)
}

// Contains implements `contains($b)`: structural containment for strings
// (substring), arrays (every element of b found in a), and objects (every
// key of b present in a with a containing value).
func Contains(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	ok, err := contains(ctx, input, args[0])
	if err != nil {
		return err
	}
	return emit(value.Bool(ok))
}

func contains(ctx Context, a, b value.Value) (bool, error) {
	if a.Kind() != b.Kind() {
		if a.Kind() == value.KindString && b.Kind() == value.KindString {
			// handled below
		} else {
			return false, ctx.Errorf(errors.KindTypeError, "%s and %s cannot have their containment checked", a.TypeName(), b.TypeName())
		}
	}
	switch a.Kind() {
	case value.KindString:
		return stringsContains(a.AsString(), b.AsString()), nil
	case value.KindArray:
		for _, be := range b.AsArray() {
			found := false
			for _, ae := range a.AsArray() {
				if ok, _ := contains(ctx, ae, be); ok {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		}
		return true, nil
	case value.KindObject:
		ok := true
		b.AsObject().Each(func(k string, bv value.Value) {
			if !ok {
				return
			}
			av, present := a.AsObject().Get(k)
			if !present {
				ok = false
				return
			}
			sub, _ := contains(ctx, av, bv)
			if !sub {
				ok = false
			}
		})
		return ok, nil
	default:
		return value.Equal(a, b), nil
	}
}

func stringsContains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

// InsideOut implements `inside($b)`: the reverse of contains (b contains
// input).
func InsideOut(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	ok, err := contains(ctx, args[0], input)
	if err != nil {
		return err
	}
	return emit(value.Bool(ok))
}

// Add implements `add`: sums an array's elements (numeric addition for
// numbers, concatenation for strings/arrays, merge for objects). An empty
// array adds to null; any non-array input, null included, is a TypeError.
func Add(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() != value.KindArray {
		return ctx.Errorf(errors.KindTypeError, "Cannot iterate over %s", input.TypeName())
	}
	elems := input.AsArray()
	if len(elems) == 0 {
		return emit(value.Null)
	}
	acc := elems[0]
	for _, e := range elems[1:] {
		sum, err := addValues(ctx, acc, e)
		if err != nil {
			return err
		}
		acc = sum
	}
	return emit(acc)
}

func addValues(ctx Context, a, b value.Value) (value.Value, error) {
	if a.IsNull() {
		return b, nil
	}
	if b.IsNull() {
		return a, nil
	}
	switch {
	case a.IsNumber() && b.IsNumber():
		if a.Kind() == value.KindInt && b.Kind() == value.KindInt {
			return value.Int(a.AsInt() + b.AsInt()), nil
		}
		return value.Float(a.AsFloat() + b.AsFloat()), nil
	case a.Kind() == value.KindString && b.Kind() == value.KindString:
		return value.String(a.AsString() + b.AsString()), nil
	case a.Kind() == value.KindArray && b.Kind() == value.KindArray:
		out := append(append([]value.Value(nil), a.AsArray()...), b.AsArray()...)
		return value.Array(out), nil
	case a.Kind() == value.KindObject && b.Kind() == value.KindObject:
		merged := a.AsObject().Clone()
		b.AsObject().Each(func(k string, v value.Value) { merged.Set(k, v) })
		return value.Obj(merged), nil
	default:
		return value.Null, ctx.Errorf(errors.KindTypeError, "%s and %s cannot be added", a.TypeName(), b.TypeName())
	}
}

// Any0 implements `any`: true if any element of an array of booleans is true.
func Any0(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() != value.KindArray {
		return ctx.Errorf(errors.KindTypeError, "Cannot iterate over %s", input.TypeName())
	}
	for _, e := range input.AsArray() {
		if e.Truthy() {
			return emit(value.True)
		}
	}
	return emit(value.False)
}

// All0 implements `all`: true if every element of an array is truthy.
func All0(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() != value.KindArray {
		return ctx.Errorf(errors.KindTypeError, "Cannot iterate over %s", input.TypeName())
	}
	for _, e := range input.AsArray() {
		if !e.Truthy() {
			return emit(value.False)
		}
	}
	return emit(value.True)
}

// Flatten0 implements `flatten`: fully flattens nested arrays.
func Flatten0(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return flattenImpl(ctx, input, -1, emit)
}

// Flatten1 implements `flatten(depth)`.
func Flatten1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	depth := args[0].AsInt()
	if depth < 0 {
		return ctx.Errorf(errors.KindValueError, "flatten depth must not be negative")
	}
	return flattenImpl(ctx, input, int(depth), emit)
}

func flattenImpl(ctx Context, input value.Value, depth int, emit Emit) error {
	if input.Kind() != value.KindArray {
		return ctx.Errorf(errors.KindTypeError, "Cannot flatten %s", input.TypeName())
	}
	var out []value.Value
	var walk func(vs []value.Value, d int)
	walk = func(vs []value.Value, d int) {
		for _, v := range vs {
			if v.Kind() == value.KindArray && d != 0 {
				next := d - 1
				if d < 0 {
					next = -1
				}
				walk(v.AsArray(), next)
			} else {
				out = append(out, v)
			}
		}
	}
	walk(input.AsArray(), depth)
	if out == nil {
		out = []value.Value{}
	}
	return emit(value.Array(out))
}

// Reverse implements `reverse` over arrays and strings.
func Reverse(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	switch input.Kind() {
	case value.KindArray:
		src := input.AsArray()
		out := make([]value.Value, len(src))
		for i, v := range src {
			out[len(src)-1-i] = v
		}
		return emit(value.Array(out))
	case value.KindString:
		runes := []rune(input.AsString())
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return emit(value.String(string(runes)))
	default:
		return ctx.Errorf(errors.KindTypeError, "Cannot reverse %s", input.TypeName())
	}
}

// Range1 implements `range(upto)`.
func Range1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return rangeImpl(ctx, value.Int(0), args[0], value.Int(1), emit)
}

// Range2 implements `range(from; upto)`.
func Range2(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return rangeImpl(ctx, args[0], args[1], value.Int(1), emit)
}

// Range3 implements `range(from; upto; by)`.
func Range3(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return rangeImpl(ctx, args[0], args[1], args[2], emit)
}

func rangeImpl(ctx Context, from, upto, by value.Value, emit Emit) error {
	if !from.IsNumber() || !upto.IsNumber() || !by.IsNumber() {
		return ctx.Errorf(errors.KindTypeError, "Range bounds must be numeric")
	}
	step := by.AsFloat()
	if step == 0 {
		return nil
	}
	useInt := from.Kind() == value.KindInt && upto.Kind() == value.KindInt && by.Kind() == value.KindInt
	if useInt {
		f, u, s := from.AsInt(), upto.AsInt(), by.AsInt()
		if s > 0 {
			for i := f; i < u; i += s {
				if err := emit(value.Int(i)); err != nil {
					return err
				}
			}
		} else {
			for i := f; i > u; i += s {
				if err := emit(value.Int(i)); err != nil {
					return err
				}
			}
		}
		return nil
	}
	f, u := from.AsFloat(), upto.AsFloat()
	if step > 0 {
		for x := f; x < u; x += step {
			if err := emit(value.Float(x)); err != nil {
				return err
			}
		}
	} else {
		for x := f; x > u; x += step {
			if err := emit(value.Float(x)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Min0 implements `min`.
func Min0(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return minMaxImpl(ctx, input, emit, true)
}

// Max0 implements `max`.
func Max0(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return minMaxImpl(ctx, input, emit, false)
}

func minMaxImpl(ctx Context, input value.Value, emit Emit, wantMin bool) error {
	if input.Kind() != value.KindArray {
		return ctx.Errorf(errors.KindTypeError, "Cannot iterate over %s", input.TypeName())
	}
	elems := input.AsArray()
	if len(elems) == 0 {
		return emit(value.Null)
	}
	best := elems[0]
	for _, e := range elems[1:] {
		c := value.Compare(e, best)
		if (wantMin && c < 0) || (!wantMin && c >= 0) {
			best = e
		}
	}
	return emit(best)
}
