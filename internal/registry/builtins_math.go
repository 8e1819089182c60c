package registry

import (
	"math"

	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
)

func wantNumber(ctx Context, v value.Value, who string) (float64, error) {
	if !v.IsNumber() {
		return 0, ctx.Errorf(errors.KindTypeError, "%s input must be a number, got %s", who, v.TypeName())
	}
	return v.AsFloat(), nil
}

func unaryMath(name string, f func(float64) float64) BuiltinFunc {
	return func(ctx Context, input value.Value, args []value.Value, emit Emit) error {
		x, err := wantNumber(ctx, input, name)
		if err != nil {
			return err
		}
		return emit(value.Float(f(x)))
	}
}

var (
	Floor   = unaryMath("floor", math.Floor)
	Ceil    = unaryMath("ceil", math.Ceil)
	Round   = unaryMath("round", math.Round)
	Sqrt    = unaryMath("sqrt", math.Sqrt)
	Cbrt    = unaryMath("cbrt", math.Cbrt)
	Exp     = unaryMath("exp", math.Exp)
	Exp2    = unaryMath("exp2", math.Exp2)
	Exp10   = unaryMath("exp10", func(x float64) float64 { return math.Pow(10, x) })
	Log     = unaryMath("log", math.Log)
	Log2    = unaryMath("log2", math.Log2)
	Log10   = unaryMath("log10", math.Log10)
	Sin     = unaryMath("sin", math.Sin)
	Cos     = unaryMath("cos", math.Cos)
	Tan     = unaryMath("tan", math.Tan)
	Asin    = unaryMath("asin", math.Asin)
	Acos    = unaryMath("acos", math.Acos)
	Atan    = unaryMath("atan", math.Atan)
	Sinh    = unaryMath("sinh", math.Sinh)
	Cosh    = unaryMath("cosh", math.Cosh)
	Tanh    = unaryMath("tanh", math.Tanh)
	Trunc   = unaryMath("trunc", math.Trunc)
	Nearbyint = unaryMath("nearbyint", math.RoundToEven)
	Significand = unaryMath("significand", func(x float64) float64 {
		frac, _ := math.Frexp(x)
		return frac * 2
	})
	Logb = unaryMath("logb", func(x float64) float64 { return float64(math.Ilogb(x)) })
	Gamma = unaryMath("gamma", func(x float64) float64 {
		v, _ := math.Lgamma(x)
		return v
	})
)

// Fabs implements `fabs`: float64 absolute value (distinct from the
// type-polymorphic `length` built-in).
func Fabs(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	x, err := wantNumber(ctx, input, "fabs")
	if err != nil {
		return err
	}
	return emit(value.Float(math.Abs(x)))
}

// Pow2 implements `pow(base; exp)`.
func Pow2(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	base, err := wantNumber(ctx, args[0], "pow")
	if err != nil {
		return err
	}
	exp, err := wantNumber(ctx, args[1], "pow")
	if err != nil {
		return err
	}
	return emit(value.Float(math.Pow(base, exp)))
}

// Atan22 implements `atan2(y; x)`.
func Atan22(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	y, err := wantNumber(ctx, args[0], "atan2")
	if err != nil {
		return err
	}
	x, err := wantNumber(ctx, args[1], "atan2")
	if err != nil {
		return err
	}
	return emit(value.Float(math.Atan2(y, x)))
}

// Copysign2 implements `copysign(x; y)`.
func Copysign2(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	x, err := wantNumber(ctx, args[0], "copysign")
	if err != nil {
		return err
	}
	y, err := wantNumber(ctx, args[1], "copysign")
	if err != nil {
		return err
	}
	return emit(value.Float(math.Copysign(x, y)))
}

// Fmin2 / Fmax2 implement `fmin(a;b)` / `fmax(a;b)`.
func Fmin2(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	a, err := wantNumber(ctx, args[0], "fmin")
	if err != nil {
		return err
	}
	b, err := wantNumber(ctx, args[1], "fmin")
	if err != nil {
		return err
	}
	return emit(value.Float(math.Min(a, b)))
}

func Fmax2(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	a, err := wantNumber(ctx, args[0], "fmax")
	if err != nil {
		return err
	}
	b, err := wantNumber(ctx, args[1], "fmax")
	if err != nil {
		return err
	}
	return emit(value.Float(math.Max(a, b)))
}

// Infinite implements `infinite`.
func Infinite(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return emit(value.Float(math.Inf(1)))
}

// Nan implements `nan`.
func Nan(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return emit(value.Float(math.NaN()))
}

// Isinfinite implements `isinfinite`.
func Isinfinite(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if !input.IsNumber() {
		return emit(value.False)
	}
	return emit(value.Bool(math.IsInf(input.AsFloat(), 0)))
}

// Isnan implements `isnan`.
func Isnan(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if !input.IsNumber() {
		return emit(value.False)
	}
	return emit(value.Bool(math.IsNaN(input.AsFloat())))
}

// Isnormal implements `isnormal`.
func Isnormal(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if !input.IsNumber() {
		return emit(value.False)
	}
	x := input.AsFloat()
	normal := !math.IsNaN(x) && !math.IsInf(x, 0) && x != 0
	return emit(value.Bool(normal))
}
