package value

// Series is a named, finite, typed 1-D column. Storage is split by element
// kind into parallel typed slices rather than a generic []Value, so the
// tabular backend can operate on a column without boxing every element —
// the columnar analogue of the teacher project's split-by-kind Value
// payload (internal/jsonvalue.Value keeps separate str/num/i64/bool
// fields rather than one interface{}).
type Series struct {
	Name string
	Kind Kind // element kind: one of KindNull, KindBool, KindInt, KindFloat, KindString, KindBytes
	Len  int

	Bools   []bool
	Ints    []int64
	Floats  []float64
	Strings []string
	Bytes   [][]byte

	// Valid is a null bitmap; a nil Valid means "no nulls". When non-nil,
	// Valid[i] == false means element i is null regardless of the backing
	// slice's zero value at i.
	Valid []bool
}

// NewSeries builds an empty, typed Series with the given name and element
// kind, pre-sizing its backing slice.
func NewSeries(name string, kind Kind, n int) *Series {
	s := &Series{Name: name, Kind: kind, Len: n}
	switch kind {
	case KindBool:
		s.Bools = make([]bool, n)
	case KindInt:
		s.Ints = make([]int64, n)
	case KindFloat:
		s.Floats = make([]float64, n)
	case KindString:
		s.Strings = make([]string, n)
	case KindBytes:
		s.Bytes = make([][]byte, n)
	}
	return s
}

// SeriesFromValues builds a Series by boxing a generic slice of Values,
// inferring the element kind from the first non-null value (or KindString if
// every element is null/the slice is empty). Mixed-kind input is coerced:
// an Int participating with a Float promotes the whole column to Float,
// matching the numeric tower in spec §3.1; any other kind mismatch demotes
// the column to KindString via each value's String().
func SeriesFromValues(name string, vs []Value) *Series {
	kind := inferSeriesKind(vs)
	s := NewSeries(name, kind, len(vs))
	for i, v := range vs {
		s.SetFromValue(i, v, kind)
	}
	return s
}

func inferSeriesKind(vs []Value) Kind {
	kind := KindNull
	mixed := false
	for _, v := range vs {
		if v.IsNull() {
			continue
		}
		vk := v.Kind()
		if vk == KindFloat || vk == KindInt {
			vk = numericKind(kind, vk)
		}
		switch {
		case kind == KindNull:
			kind = vk
		case kind == vk:
			// no change
		case (kind == KindInt || kind == KindFloat) && (vk == KindInt || vk == KindFloat):
			kind = KindFloat
		default:
			mixed = true
		}
	}
	if mixed {
		return KindString
	}
	if kind == KindNull {
		return KindString
	}
	return kind
}

func numericKind(acc, v Kind) Kind {
	if acc == KindFloat || v == KindFloat {
		return KindFloat
	}
	return v
}

// SetFromValue assigns v into slot i of the series, coercing to kind as
// SeriesFromValues does per-element.
func (s *Series) SetFromValue(i int, v Value, kind Kind) {
	if v.IsNull() {
		s.markNull(i)
		return
	}
	switch kind {
	case KindBool:
		s.Bools[i] = v.AsBool()
	case KindInt:
		s.Ints[i] = v.AsInt()
	case KindFloat:
		s.Floats[i] = v.AsFloat()
	case KindString:
		if v.Kind() == KindString {
			s.Strings[i] = v.AsString()
		} else {
			s.Strings[i] = v.String()
		}
	case KindBytes:
		s.Bytes[i] = v.AsBytes()
	}
}

func (s *Series) markNull(i int) {
	if s.Valid == nil {
		s.Valid = make([]bool, s.Len)
		for j := range s.Valid {
			s.Valid[j] = true
		}
	}
	s.Valid[i] = false
}

// IsNull reports whether element i is null.
func (s *Series) IsNull(i int) bool {
	return s.Valid != nil && !s.Valid[i]
}

// At boxes element i back into a generic Value.
func (s *Series) At(i int) Value {
	if s.IsNull(i) {
		return Null
	}
	switch s.Kind {
	case KindBool:
		return Bool(s.Bools[i])
	case KindInt:
		return Int(s.Ints[i])
	case KindFloat:
		return Float(s.Floats[i])
	case KindString:
		return String(s.Strings[i])
	case KindBytes:
		return Bytes(s.Bytes[i])
	default:
		return Null
	}
}

// Values boxes the entire series into a []Value, e.g. for row-materializing
// a Frame.
func (s *Series) Values() []Value {
	out := make([]Value, s.Len)
	for i := range out {
		out[i] = s.At(i)
	}
	return out
}

// Slice returns a new Series over the half-open range [lo:hi).
func (s *Series) Slice(lo, hi int) *Series {
	n := hi - lo
	out := &Series{Name: s.Name, Kind: s.Kind, Len: n}
	if s.Bools != nil {
		out.Bools = append([]bool(nil), s.Bools[lo:hi]...)
	}
	if s.Ints != nil {
		out.Ints = append([]int64(nil), s.Ints[lo:hi]...)
	}
	if s.Floats != nil {
		out.Floats = append([]float64(nil), s.Floats[lo:hi]...)
	}
	if s.Strings != nil {
		out.Strings = append([]string(nil), s.Strings[lo:hi]...)
	}
	if s.Bytes != nil {
		out.Bytes = append([][]byte(nil), s.Bytes[lo:hi]...)
	}
	if s.Valid != nil {
		out.Valid = append([]bool(nil), s.Valid[lo:hi]...)
	}
	return out
}

// Take returns a new Series containing the elements at the given row
// indices, in order; used by sort, filter, and group-by materialization.
func (s *Series) Take(indices []int) *Series {
	out := NewSeries(s.Name, s.Kind, len(indices))
	for dst, src := range indices {
		out.SetFromValue(dst, s.At(src), s.Kind)
	}
	return out
}

// Rename returns a copy of s with a new column name (Series are otherwise
// immutable once built).
func (s *Series) Rename(name string) *Series {
	cp := *s
	cp.Name = name
	return &cp
}
