package registry

import (
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
)

// builtins_frameops.go wires up the tabular-native reshape/combine
// operations spec §4.5 names as "primitive frame operations" whose inputs
// are column references rather than row expressions: pivot, melt, and join
// have no meaningful row-wise equivalent (unlike group_by/sort_by, which
// prelude.go resolves by materializing a Frame to its row array first, so
// they share one definition with the generic backend — see DESIGN.md for
// that Open-Question resolution). These three instead call straight through
// to the value.Frame methods in frame_ops.go, since every argument here is
// already a plain value (a column name, or an array of them) rather than a
// per-row filter the executor would need to evaluate.

// Pivot3 implements `pivot($index; $columns; $values)`: reshapes a long
// Frame to wide, one row per distinct $index value and one column per
// distinct $columns value.
func Pivot3(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	f, err := asFrame(ctx, input, "pivot")
	if err != nil {
		return err
	}
	index, ierr := singleColumnName(ctx, args[0], "pivot")
	if ierr != nil {
		return ierr
	}
	columns, cerr := singleColumnName(ctx, args[1], "pivot")
	if cerr != nil {
		return cerr
	}
	values, verr := singleColumnName(ctx, args[2], "pivot")
	if verr != nil {
		return verr
	}
	out, perr := f.Pivot(index, columns, values)
	if perr != nil {
		return ctx.Errorf(errors.KindValueError, "%s", perr.Error())
	}
	return emit(value.FrameValue(out))
}

// Melt2 implements `melt($idVars; $valueVars)`: reshapes wide columns into
// long "variable"/"value" rows. An empty $valueVars means "every column not
// named in $idVars", matching the teacher's pandas-style `melt` contract
// frame_ops.go's Melt already implements.
func Melt2(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	f, err := asFrame(ctx, input, "melt")
	if err != nil {
		return err
	}
	idVars, ierr := stringArray(ctx, args[0], "melt")
	if ierr != nil {
		return ierr
	}
	valueVars, verr := stringArray(ctx, args[1], "melt")
	if verr != nil {
		return verr
	}
	out, merr := f.Melt(idVars, valueVars)
	if merr != nil {
		return ctx.Errorf(errors.KindValueError, "%s", merr.Error())
	}
	return emit(value.FrameValue(out))
}

// Join4 implements `join($other; $leftOn; $rightOn; $kind)`: an equi-join
// against another Frame on parallel key-column-name lists. $kind is one of
// "inner", "left", "outer", or "right"; "right" is not a distinct
// value.JoinKind (frame_ops.go's Join has none), so per spec §9's open
// question it is implemented here by swapping the two frames and key lists
// and requesting a left join — see DESIGN.md.
func Join4(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	left, err := asFrame(ctx, input, "join")
	if err != nil {
		return err
	}
	right, rerr := asFrame(ctx, args[0], "join")
	if rerr != nil {
		return rerr
	}
	leftOn, loerr := stringArray(ctx, args[1], "join")
	if loerr != nil {
		return loerr
	}
	rightOn, roerr := stringArray(ctx, args[2], "join")
	if roerr != nil {
		return roerr
	}
	kindStr := "inner"
	if args[3].Kind() == value.KindString {
		kindStr = args[3].AsString()
	}

	var out *value.Frame
	var jerr error
	switch kindStr {
	case "inner":
		out, jerr = left.Join(right, leftOn, rightOn, value.JoinInner)
	case "left":
		out, jerr = left.Join(right, leftOn, rightOn, value.JoinLeft)
	case "outer", "full":
		out, jerr = left.Join(right, leftOn, rightOn, value.JoinOuter)
	case "right":
		out, jerr = right.Join(left, rightOn, leftOn, value.JoinLeft)
	default:
		return ctx.Errorf(errors.KindValueError, "join: unsupported join kind %q", kindStr)
	}
	if jerr != nil {
		return ctx.Errorf(errors.KindValueError, "%s", jerr.Error())
	}
	return emit(value.FrameValue(out))
}

func singleColumnName(ctx Context, v value.Value, who string) (string, error) {
	if v.Kind() != value.KindString {
		return "", ctx.Errorf(errors.KindTypeError, "%s expects a column name string", who)
	}
	return v.AsString(), nil
}
