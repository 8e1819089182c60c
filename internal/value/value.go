// Package value implements the unified value model that bridges JSON-ish
// scalars with tabular series and frames, grounded on the teacher project's
// internal/jsonvalue package (a closed Kind-tagged union, deliberately not a
// bare interface{} switch) and generalized to the Frame/Series/LazyFrame
// kinds the tabular backend needs.
package value

import "fmt"

// Kind identifies which variant of the tagged union a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindArray
	KindObject
	KindSeries
	KindFrame
	KindLazyFrame
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindSeries:
		return "series"
	case KindFrame:
		return "frame"
	case KindLazyFrame:
		return "lazyframe"
	default:
		return "unknown"
	}
}

// Value is the single runtime representation of every datum the engine
// manipulates: JSON-ish scalars and containers, plus the two tabular
// variants (Series, Frame) and the deferred LazyFrame. It is a closed sum
// type: exactly one payload field is meaningful, selected by kind.
type Value struct {
	kind Kind

	b     bool
	i     int64
	f     float64
	s     string
	bytes []byte

	arr []Value
	obj *Object

	series *Series
	frame  *Frame
	lazy   *LazyFrame
}

// Null is the shared null value.
var Null = Value{kind: KindNull}

// True and False are the shared boolean values.
var (
	True  = Value{kind: KindBool, b: true}
	False = Value{kind: KindBool, b: false}
)

// Bool constructs a boolean value.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Int constructs an integer value.
func Int(n int64) Value { return Value{kind: KindInt, i: n} }

// Float constructs a float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String constructs a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bytes constructs a bytes value. The slice is not copied; callers must not
// mutate it afterward, matching the value model's immutability contract.
func Bytes(b []byte) Value { return Value{kind: KindBytes, bytes: b} }

// Array constructs an array value from vs. The slice is taken by reference.
func Array(vs []Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindArray, arr: vs}
}

// Obj constructs an object value from an already-built Object.
func Obj(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// SeriesValue wraps a Series as a Value.
func SeriesValue(s *Series) Value { return Value{kind: KindSeries, series: s} }

// FrameValue wraps a Frame as a Value.
func FrameValue(f *Frame) Value { return Value{kind: KindFrame, frame: f} }

// LazyFrameValue wraps a LazyFrame as a Value.
func LazyFrameValue(lf *LazyFrame) Value { return Value{kind: KindLazyFrame, lazy: lf} }

// Kind returns the variant tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Truthy implements the language's truthiness rule: everything except null
// and false is truthy, including 0, "", [], and {}.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	default:
		return true
	}
}

// AsBool returns the boolean payload; callers must check Kind() == KindBool.
func (v Value) AsBool() bool { return v.b }

// AsInt returns the int64 payload; callers must check Kind() == KindInt.
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the float64 payload for either KindFloat or KindInt
// (promoting the integer), implementing the numeric tower from spec §3.1.
func (v Value) AsFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// AsString returns the string payload; callers must check Kind() == KindString.
func (v Value) AsString() string { return v.s }

// AsBytes returns the bytes payload; callers must check Kind() == KindBytes.
func (v Value) AsBytes() []byte { return v.bytes }

// AsArray returns the element slice; callers must check Kind() == KindArray.
// The slice is shared; callers must not mutate it.
func (v Value) AsArray() []Value { return v.arr }

// AsObject returns the underlying Object; callers must check Kind() == KindObject.
func (v Value) AsObject() *Object { return v.obj }

// AsSeries returns the underlying Series; callers must check Kind() == KindSeries.
func (v Value) AsSeries() *Series { return v.series }

// AsFrame returns the underlying Frame; callers must check Kind() == KindFrame.
func (v Value) AsFrame() *Frame { return v.frame }

// AsLazyFrame returns the underlying LazyFrame; callers must check
// Kind() == KindLazyFrame.
func (v Value) AsLazyFrame() *LazyFrame { return v.lazy }

// IsNumber reports whether v participates in the numeric tower.
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

// TypeName is the user-facing name reported by the `type` built-in. It
// collapses KindInt/KindFloat into "number" the way jq does, even though
// the value model keeps the distinction internally for arithmetic.
func (v Value) TypeName() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt, KindFloat:
		return "number"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindSeries:
		return "series"
	case KindFrame, KindLazyFrame:
		return "frame"
	default:
		return "unknown"
	}
}

// String renders v for debugging (not for data serialization; use ToJSON
// for that).
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return v.s
	case KindBytes:
		return fmt.Sprintf("<%d bytes>", len(v.bytes))
	case KindArray:
		return fmt.Sprintf("<array len=%d>", len(v.arr))
	case KindObject:
		return fmt.Sprintf("<object len=%d>", v.obj.Len())
	case KindSeries:
		return fmt.Sprintf("<series %s len=%d>", v.series.Name, v.series.Len)
	case KindFrame:
		return fmt.Sprintf("<frame cols=%d rows=%d>", len(v.frame.Columns), v.frame.Height())
	case KindLazyFrame:
		return "<lazyframe>"
	default:
		return "<unknown>"
	}
}
