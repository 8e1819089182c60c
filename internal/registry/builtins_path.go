package registry

import (
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
)

// getpath, setpath, and delpaths operate on a path: an array of keys
// (strings for object fields, integers for array indices) describing a
// location inside a value. `path(EXPR)` itself is an executor-level form
// (it needs to track which path an arbitrary filter took through the input,
// not just walk a literal path array), so it is not registered here.

// GetPath, SetPath, and DelPath expose the internal path-walking helpers to
// the executor, which needs them to implement `path(EXPR)`-tracked
// assignment (`=`, `|=`, and the arithmetic-update forms) without
// duplicating the traversal rules for object/array path components.
func GetPath(ctx Context, v value.Value, path []value.Value) (value.Value, error) {
	return getpath(ctx, v, path)
}

func SetPath(ctx Context, v value.Value, path []value.Value, newVal value.Value) (value.Value, error) {
	return setpath(ctx, v, path, newVal)
}

func DelPath(ctx Context, v value.Value, path []value.Value) (value.Value, error) {
	return delpath(ctx, v, path)
}

func asPath(v value.Value) []value.Value {
	if v.Kind() != value.KindArray {
		return nil
	}
	return v.AsArray()
}

// Getpath1 implements `getpath($path)`.
func Getpath1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	v, err := getpath(ctx, input, asPath(args[0]))
	if err != nil {
		return err
	}
	return emit(v)
}

func getpath(ctx Context, v value.Value, path []value.Value) (value.Value, error) {
	cur := v
	for _, key := range path {
		if cur.IsNull() {
			return value.Null, nil
		}
		switch key.Kind() {
		case value.KindString:
			if cur.Kind() != value.KindObject {
				return value.Null, ctx.Errorf(errors.KindTypeError, "Cannot index %s with %q", cur.TypeName(), key.AsString())
			}
			next, ok := cur.AsObject().Get(key.AsString())
			if !ok {
				return value.Null, nil
			}
			cur = next
		case value.KindInt:
			if cur.Kind() != value.KindArray {
				return value.Null, ctx.Errorf(errors.KindTypeError, "Cannot index %s with number", cur.TypeName())
			}
			arr := cur.AsArray()
			i := normalizeIndex(key.AsInt(), len(arr))
			if i < 0 || i >= len(arr) {
				return value.Null, nil
			}
			cur = arr[i]
		default:
			return value.Null, ctx.Errorf(errors.KindTypeError, "Invalid path component %s", key.TypeName())
		}
	}
	return cur, nil
}

func normalizeIndex(i int64, n int) int {
	if i < 0 {
		i += int64(n)
	}
	return int(i)
}

// Setpath2 implements `setpath($path; $value)`, building intermediate
// objects/arrays as needed.
func Setpath2(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	v, err := setpath(ctx, input, asPath(args[0]), args[1])
	if err != nil {
		return err
	}
	return emit(v)
}

func setpath(ctx Context, v value.Value, path []value.Value, newVal value.Value) (value.Value, error) {
	if len(path) == 0 {
		return newVal, nil
	}
	key := path[0]
	rest := path[1:]
	switch key.Kind() {
	case value.KindString:
		var o *value.Object
		if v.Kind() == value.KindObject {
			o = v.AsObject().Clone()
		} else if v.IsNull() {
			o = value.NewObject()
		} else {
			return value.Null, ctx.Errorf(errors.KindTypeError, "Cannot index %s with %q", v.TypeName(), key.AsString())
		}
		child, _ := o.Get(key.AsString())
		newChild, err := setpath(ctx, child, rest, newVal)
		if err != nil {
			return value.Null, err
		}
		o.Set(key.AsString(), newChild)
		return value.Obj(o), nil
	case value.KindInt:
		var arr []value.Value
		if v.Kind() == value.KindArray {
			arr = append([]value.Value(nil), v.AsArray()...)
		} else if v.IsNull() {
			arr = []value.Value{}
		} else {
			return value.Null, ctx.Errorf(errors.KindTypeError, "Cannot index %s with number", v.TypeName())
		}
		i := normalizeIndex(key.AsInt(), len(arr))
		if i < 0 {
			return value.Null, ctx.Errorf(errors.KindValueError, "Out of bounds negative array index")
		}
		for len(arr) <= i {
			arr = append(arr, value.Null)
		}
		newChild, err := setpath(ctx, arr[i], rest, newVal)
		if err != nil {
			return value.Null, err
		}
		arr[i] = newChild
		return value.Array(arr), nil
	default:
		return value.Null, ctx.Errorf(errors.KindTypeError, "Invalid path component %s", key.TypeName())
	}
}

// Delpaths1 implements `delpaths($paths)`: deletes every listed path,
// processing longer/later paths first so earlier deletions don't shift the
// indices a later deletion needs.
func Delpaths1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if args[0].Kind() != value.KindArray {
		return ctx.Errorf(errors.KindTypeError, "Paths must be specified as an array")
	}
	paths := append([]value.Value(nil), args[0].AsArray()...)
	sortPathsDescending(paths)
	cur := input
	for _, p := range paths {
		next, err := delpath(ctx, cur, asPath(p))
		if err != nil {
			return err
		}
		cur = next
	}
	return emit(cur)
}

func sortPathsDescending(paths []value.Value) {
	for i := 1; i < len(paths); i++ {
		for j := i; j > 0 && value.Compare(paths[j-1], paths[j]) < 0; j-- {
			paths[j-1], paths[j] = paths[j], paths[j-1]
		}
	}
}

func delpath(ctx Context, v value.Value, path []value.Value) (value.Value, error) {
	if len(path) == 0 {
		return value.Null, nil
	}
	if len(path) == 1 {
		key := path[0]
		switch key.Kind() {
		case value.KindString:
			if v.IsNull() {
				return v, nil
			}
			if v.Kind() != value.KindObject {
				return value.Null, ctx.Errorf(errors.KindTypeError, "Cannot delete field of %s", v.TypeName())
			}
			o := v.AsObject().Clone()
			o.Delete(key.AsString())
			return value.Obj(o), nil
		case value.KindInt:
			if v.IsNull() {
				return v, nil
			}
			if v.Kind() != value.KindArray {
				return value.Null, ctx.Errorf(errors.KindTypeError, "Cannot delete element of %s", v.TypeName())
			}
			arr := v.AsArray()
			i := normalizeIndex(key.AsInt(), len(arr))
			if i < 0 || i >= len(arr) {
				return v, nil
			}
			out := append(append([]value.Value(nil), arr[:i]...), arr[i+1:]...)
			return value.Array(out), nil
		default:
			return value.Null, ctx.Errorf(errors.KindTypeError, "Invalid path component %s", key.TypeName())
		}
	}
	key := path[0]
	child, err := getpath(ctx, v, path[:1])
	if err != nil {
		return value.Null, err
	}
	newChild, err := delpath(ctx, child, path[1:])
	if err != nil {
		return value.Null, err
	}
	return setpath(ctx, v, []value.Value{key}, newChild)
}
