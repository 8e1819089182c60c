package registry

import (
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
)

// Tabular built-ins cover the simple, eager frame/series operations that
// don't need a filter argument evaluated per row. `pivot`, `melt`, and
// `join` are registry built-ins too (builtins_frameops.go); `group_by` and
// `sort_by` take a key filter and so are prelude.go definitions over the
// `_group_by_impl`/`_sort_by_impl` primitives.

// ToFrame implements `to_frame`: an array of objects becomes an equal-height
// Frame, inferring each column's type from its values.
func ToFrame(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() != value.KindArray {
		return ctx.Errorf(errors.KindTypeError, "to_frame input must be an array of objects")
	}
	rows := input.AsArray()
	var colNames []string
	seen := map[string]bool{}
	for _, r := range rows {
		if r.Kind() != value.KindObject {
			return ctx.Errorf(errors.KindTypeError, "to_frame input must be an array of objects")
		}
		for _, k := range r.AsObject().Keys() {
			if !seen[k] {
				seen[k] = true
				colNames = append(colNames, k)
			}
		}
	}
	cols := make([]*value.Series, len(colNames))
	for ci, name := range colNames {
		vals := make([]value.Value, len(rows))
		for ri, r := range rows {
			v, _ := r.AsObject().Get(name)
			vals[ri] = v
		}
		cols[ci] = value.SeriesFromValues(name, vals)
	}
	f, err := value.NewFrame(cols)
	if err != nil {
		return ctx.Errorf(errors.KindValueError, "%s", err.Error())
	}
	return emit(value.FrameValue(f))
}

// ToArray implements `to_array` over a Frame: rows as an array of objects.
func ToArray(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	switch input.Kind() {
	case value.KindFrame:
		return emit(value.Array(input.AsFrame().Rows()))
	case value.KindSeries:
		return emit(value.Array(input.AsSeries().Values()))
	case value.KindLazyFrame:
		f, err := input.AsLazyFrame().Collect()
		if err != nil {
			return err
		}
		return emit(value.Array(f.Rows()))
	default:
		return ctx.Errorf(errors.KindTypeError, "to_array expects a frame or series, got %s", input.TypeName())
	}
}

func asFrame(ctx Context, v value.Value, who string) (*value.Frame, error) {
	switch v.Kind() {
	case value.KindFrame:
		return v.AsFrame(), nil
	case value.KindLazyFrame:
		return v.AsLazyFrame().Collect()
	default:
		return nil, ctx.Errorf(errors.KindTypeError, "%s expects a frame, got %s", who, v.TypeName())
	}
}

// Columns implements `columns`: the frame's column names, in order.
func Columns(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	f, err := asFrame(ctx, input, "columns")
	if err != nil {
		return err
	}
	names := f.ColumnNames()
	out := make([]value.Value, len(names))
	for i, n := range names {
		out[i] = value.String(n)
	}
	return emit(value.Array(out))
}

// Height implements `height`: the row count of a frame.
func Height(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	f, err := asFrame(ctx, input, "height")
	if err != nil {
		return err
	}
	return emit(value.Int(int64(f.Height())))
}

// Width implements `width`: the column count of a frame.
func Width(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	f, err := asFrame(ctx, input, "width")
	if err != nil {
		return err
	}
	return emit(value.Int(int64(f.Width())))
}

// Schema implements `schema`: an object mapping column name to its element
// type name.
func Schema(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	f, err := asFrame(ctx, input, "schema")
	if err != nil {
		return err
	}
	o := value.NewObject()
	for _, c := range f.Columns {
		o.Set(c.Name, value.String(c.Kind.String()))
	}
	return emit(value.Obj(o))
}

// SelectColumns1 implements `select_columns($names)`.
func SelectColumns1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	f, err := asFrame(ctx, input, "select_columns")
	if err != nil {
		return err
	}
	names, err := stringArray(ctx, args[0], "select_columns")
	if err != nil {
		return err
	}
	out, serr := f.SelectColumns(names)
	if serr != nil {
		return ctx.Errorf(errors.KindValueError, "%s", serr.Error())
	}
	return emit(value.FrameValue(out))
}

// DropColumns1 implements `drop_columns($names)`.
func DropColumns1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	f, err := asFrame(ctx, input, "drop_columns")
	if err != nil {
		return err
	}
	names, err := stringArray(ctx, args[0], "drop_columns")
	if err != nil {
		return err
	}
	out, derr := f.DropColumns(names)
	if derr != nil {
		return ctx.Errorf(errors.KindValueError, "%s", derr.Error())
	}
	return emit(value.FrameValue(out))
}

// Lazy0 implements `lazy`: wraps a resident frame as a trivial LazyFrame so
// later pipeline stages can be planned before the compiler's pushdown passes
// force materialization.
func Lazy0(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	f, err := asFrame(ctx, input, "lazy")
	if err != nil {
		return err
	}
	return emit(value.LazyFrameValue(value.NewLazyFrame(f)))
}

// Collect0 implements `collect`: forces a LazyFrame to a resident Frame.
func Collect0(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() != value.KindLazyFrame {
		if input.Kind() == value.KindFrame {
			return emit(input)
		}
		return ctx.Errorf(errors.KindTypeError, "collect expects a lazyframe, got %s", input.TypeName())
	}
	f, err := input.AsLazyFrame().Collect()
	if err != nil {
		return err
	}
	return emit(value.FrameValue(f))
}

// Explain0 implements `explain`: surfaces the pending operation description
// of a LazyFrame without forcing it.
func Explain0(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() != value.KindLazyFrame {
		return ctx.Errorf(errors.KindTypeError, "explain expects a lazyframe, got %s", input.TypeName())
	}
	return emit(value.String(input.AsLazyFrame().Explain()))
}

func stringArray(ctx Context, v value.Value, who string) ([]string, error) {
	if v.Kind() != value.KindArray {
		return nil, ctx.Errorf(errors.KindTypeError, "%s expects an array of column names", who)
	}
	out := make([]string, len(v.AsArray()))
	for i, e := range v.AsArray() {
		if e.Kind() != value.KindString {
			return nil, ctx.Errorf(errors.KindTypeError, "%s expects an array of strings", who)
		}
		out[i] = e.AsString()
	}
	return out, nil
}
