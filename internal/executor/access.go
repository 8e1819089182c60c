package executor

import (
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
)

// access.go holds the value-level field/index/slice/iterate semantics
// shared by the ordinary stream evaluator (eval.go) and the path-tracking
// evaluator (path.go), so `.a.b` and `path(.a.b)` agree by construction
// instead of maintaining two descriptions of the same traversal rule.

func rowsOf(v value.Value) ([]value.Value, error) {
	switch v.Kind() {
	case value.KindArray:
		return v.AsArray(), nil
	case value.KindFrame:
		return v.AsFrame().Rows(), nil
	case value.KindLazyFrame:
		f, err := v.AsLazyFrame().Collect()
		if err != nil {
			return nil, err
		}
		return f.Rows(), nil
	case value.KindSeries:
		return v.AsSeries().Values(), nil
	default:
		return nil, nil
	}
}

func (e *Executor) fieldAccess(v value.Value, name string) (value.Value, error) {
	switch v.Kind() {
	case value.KindNull:
		return value.Null, nil
	case value.KindObject:
		child, _ := v.AsObject().Get(name)
		return child, nil
	case value.KindFrame, value.KindLazyFrame:
		f, err := asFrame(v)
		if err != nil {
			return value.Null, err
		}
		if col, ok := f.Column(name); ok {
			return value.SeriesValue(col), nil
		}
		return value.Null, e.Errorf(errors.KindTypeError, "Cannot index frame with %q: no such column", name)
	default:
		return value.Null, e.Errorf(errors.KindTypeError, "Cannot index %s with %q", v.TypeName(), name)
	}
}

func asFrame(v value.Value) (*value.Frame, error) {
	switch v.Kind() {
	case value.KindFrame:
		return v.AsFrame(), nil
	case value.KindLazyFrame:
		return v.AsLazyFrame().Collect()
	default:
		return nil, nil
	}
}

func normalizeIndex(i int64, n int) int {
	if i < 0 {
		i += int64(n)
	}
	return int(i)
}

func (e *Executor) indexAccess(v, key value.Value) (value.Value, error) {
	if v.IsNull() {
		return value.Null, nil
	}
	switch key.Kind() {
	case value.KindString:
		return e.fieldAccess(v, key.AsString())
	case value.KindInt, value.KindFloat:
		switch v.Kind() {
		case value.KindArray:
			arr := v.AsArray()
			i := normalizeIndex(key.AsInt(), len(arr))
			if i < 0 || i >= len(arr) {
				return value.Null, nil
			}
			return arr[i], nil
		case value.KindSeries:
			s := v.AsSeries()
			i := normalizeIndex(key.AsInt(), s.Len)
			if i < 0 || i >= s.Len {
				return value.Null, nil
			}
			return s.At(i), nil
		case value.KindFrame, value.KindLazyFrame:
			f, err := asFrame(v)
			if err != nil {
				return value.Null, err
			}
			i := normalizeIndex(key.AsInt(), f.Height())
			if i < 0 || i >= f.Height() {
				return value.Null, nil
			}
			return value.Obj(f.Row(i)), nil
		default:
			return value.Null, e.Errorf(errors.KindTypeError, "Cannot index %s with number", v.TypeName())
		}
	default:
		return value.Null, e.Errorf(errors.KindTypeError, "Cannot index %s with %s", v.TypeName(), key.TypeName())
	}
}

func sliceBounds(lo, hi *int64, n int) (int, int) {
	l, h := 0, n
	if lo != nil {
		l = normalizeIndex(*lo, n)
		if l < 0 {
			l = 0
		}
		if l > n {
			l = n
		}
	}
	if hi != nil {
		h = normalizeIndex(*hi, n)
		if h < 0 {
			h = 0
		}
		if h > n {
			h = n
		}
	}
	if h < l {
		h = l
	}
	return l, h
}

func (e *Executor) sliceAccess(v value.Value, lo, hi *int64) (value.Value, error) {
	if v.IsNull() {
		return value.Null, nil
	}
	switch v.Kind() {
	case value.KindArray:
		arr := v.AsArray()
		l, h := sliceBounds(lo, hi, len(arr))
		out := append([]value.Value(nil), arr[l:h]...)
		return value.Array(out), nil
	case value.KindString:
		runes := []rune(v.AsString())
		l, h := sliceBounds(lo, hi, len(runes))
		return value.String(string(runes[l:h])), nil
	case value.KindSeries:
		s := v.AsSeries()
		l, h := sliceBounds(lo, hi, s.Len)
		return value.SeriesValue(s.Slice(l, h)), nil
	default:
		return value.Null, e.Errorf(errors.KindTypeError, "Cannot slice %s", v.TypeName())
	}
}

func asIntPtr(v value.Value) (*int64, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsNumber() {
		return nil, errors.ValueErrorf(errors.Position{}, "slice bound must be a number")
	}
	n := v.AsInt()
	return &n, nil
}
