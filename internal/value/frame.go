package value

import "fmt"

// Frame is an equal-height table: an ordered list of named Series sharing a
// single row count. Construction enforces the height invariant so no other
// part of the engine has to re-check it.
type Frame struct {
	Columns []*Series
	index   map[string]int
}

// NewFrame builds a Frame from columns, which must all share the same
// length; returns an error otherwise.
func NewFrame(columns []*Series) (*Frame, error) {
	f := &Frame{Columns: columns, index: make(map[string]int, len(columns))}
	h := -1
	for i, c := range columns {
		if h == -1 {
			h = c.Len
		} else if c.Len != h {
			return nil, fmt.Errorf("frame: column %q has length %d, want %d", c.Name, c.Len, h)
		}
		if _, dup := f.index[c.Name]; dup {
			return nil, fmt.Errorf("frame: duplicate column name %q", c.Name)
		}
		f.index[c.Name] = i
	}
	return f, nil
}

// Height returns the number of rows; zero columns means height zero.
func (f *Frame) Height() int {
	if len(f.Columns) == 0 {
		return 0
	}
	return f.Columns[0].Len
}

// Width returns the number of columns.
func (f *Frame) Width() int { return len(f.Columns) }

// ColumnNames returns column names in frame order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column and whether it exists.
func (f *Frame) Column(name string) (*Series, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.Columns[i], true
}

// Row boxes row i as an Object keyed by column name, in column order — the
// representation a row-wise filter (`.[]` over a frame) sees.
func (f *Frame) Row(i int) *Object {
	o := NewObject()
	for _, c := range f.Columns {
		o.Set(c.Name, c.At(i))
	}
	return o
}

// Rows boxes every row in order.
func (f *Frame) Rows() []Value {
	n := f.Height()
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		out[i] = Obj(f.Row(i))
	}
	return out
}

// SelectColumns returns a new Frame retaining only the named columns, in the
// order names specifies; used by projection pushdown and explicit column
// selection builtins.
func (f *Frame) SelectColumns(names []string) (*Frame, error) {
	cols := make([]*Series, 0, len(names))
	for _, n := range names {
		c, ok := f.Column(n)
		if !ok {
			return nil, fmt.Errorf("frame: no such column %q", n)
		}
		cols = append(cols, c)
	}
	return NewFrame(cols)
}

// TakeRows returns a new Frame containing only the given row indices, in
// order; used by filter/sort/group-by materialization.
func (f *Frame) TakeRows(indices []int) *Frame {
	cols := make([]*Series, len(f.Columns))
	for i, c := range f.Columns {
		cols[i] = c.Take(indices)
	}
	out, _ := NewFrame(cols) // lengths agree by construction
	return out
}

// WithColumn returns a new Frame with col appended or, if a column of the
// same name already exists, replaced in place.
func (f *Frame) WithColumn(col *Series) (*Frame, error) {
	cols := append([]*Series(nil), f.Columns...)
	if i, ok := f.index[col.Name]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return NewFrame(cols)
}

// DropColumns returns a new Frame without the named columns.
func (f *Frame) DropColumns(names []string) (*Frame, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var cols []*Series
	for _, c := range f.Columns {
		if !drop[c.Name] {
			cols = append(cols, c)
		}
	}
	return NewFrame(cols)
}
