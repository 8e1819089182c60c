package value

import (
	"fmt"
	"sort"
)

// The operations in this file are the "primitive frame operations" spec §4.5
// names for group_by/sort_by/pivot/melt/join on the tabular backend: each
// takes already-computed key values (or column names) rather than an
// arbitrary filter, since evaluating a filter per row is the executor's job,
// not the value model's.

// SortByKeys returns a new Frame with rows reordered by keys (one Value per
// row, itself typically an Array of sort keys for multi-key sort_by), stable
// so that rows with equal keys retain their original relative order (spec
// §8.1.9).
func (f *Frame) SortByKeys(keys []Value, descending bool) (*Frame, error) {
	if len(keys) != f.Height() {
		return nil, fmt.Errorf("frame: sort keys length %d does not match height %d", len(keys), f.Height())
	}
	idx := make([]int, f.Height())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		c := Compare(keys[idx[i]], keys[idx[j]])
		if descending {
			return c > 0
		}
		return c < 0
	})
	return f.TakeRows(idx), nil
}

// GroupByKeys partitions rows by equal key, emitting one Frame per group in
// first-seen order of the key (spec §8.1.10 "Group order"), a deliberate
// departure from upstream jq's sorted-group behavior — see DESIGN.md.
func (f *Frame) GroupByKeys(keys []Value) ([]*Frame, []Value, error) {
	if len(keys) != f.Height() {
		return nil, nil, fmt.Errorf("frame: group keys length %d does not match height %d", len(keys), f.Height())
	}
	var order []Value
	groups := make(map[string][]int)
	indexOf := make(map[string]int)
	for i, k := range keys {
		h := hashKey(k)
		if _, seen := indexOf[h]; !seen {
			indexOf[h] = len(order)
			order = append(order, k)
		}
		groups[h] = append(groups[h], i)
	}
	out := make([]*Frame, len(order))
	for i, k := range order {
		out[i] = f.TakeRows(groups[hashKey(k)])
	}
	return out, order, nil
}

// hashKey renders a Value as a string suitable for exact-match grouping; it
// need not be collision-free across kinds since equal Values always render
// identically and group_by only needs to bucket equal keys together.
func hashKey(v Value) string {
	s, err := ToJSON(v)
	if err != nil {
		return v.String()
	}
	return s
}

// JoinKind selects the join semantics of Frame.Join.
type JoinKind string

const (
	JoinInner JoinKind = "inner"
	JoinLeft  JoinKind = "left"
	JoinOuter JoinKind = "outer"
)

// Join implements inner/left/outer equi-join on leftCols/rightCols (paired
// positionally). right_join is not a distinct JoinKind: per spec §9's open
// question, callers implement it by swapping operands and requesting
// JoinLeft, which this function is agnostic to.
func (f *Frame) Join(other *Frame, leftCols, rightCols []string, kind JoinKind) (*Frame, error) {
	if len(leftCols) == 0 || len(leftCols) != len(rightCols) {
		return nil, fmt.Errorf("frame: join needs matching non-empty key column lists")
	}
	lKeyed, err := f.SelectColumns(leftCols)
	if err != nil {
		return nil, err
	}
	rKeyed, err := other.SelectColumns(rightCols)
	if err != nil {
		return nil, err
	}

	rowKey := func(keyed *Frame, i int) string {
		vals := make([]Value, len(keyed.Columns))
		for c, col := range keyed.Columns {
			vals[c] = col.At(i)
		}
		return hashKey(Array(vals))
	}

	rIndex := make(map[string][]int)
	for i := 0; i < other.Height(); i++ {
		k := rowKey(rKeyed, i)
		rIndex[k] = append(rIndex[k], i)
	}

	var outL, outR []int
	rMatched := make([]bool, other.Height())
	for i := 0; i < f.Height(); i++ {
		key := rowKey(lKeyed, i)
		matches := rIndex[key]
		if len(matches) == 0 {
			if kind == JoinLeft || kind == JoinOuter {
				outL = append(outL, i)
				outR = append(outR, -1)
			}
			continue
		}
		for _, j := range matches {
			outL = append(outL, i)
			outR = append(outR, j)
			rMatched[j] = true
		}
	}
	if kind == JoinOuter {
		for j := 0; j < other.Height(); j++ {
			if !rMatched[j] {
				outL = append(outL, -1)
				outR = append(outR, j)
			}
		}
	}

	cols := make([]*Series, 0, len(f.Columns)+len(other.Columns))
	for _, c := range f.Columns {
		vals := make([]Value, len(outL))
		for k, i := range outL {
			if i < 0 {
				vals[k] = Null
			} else {
				vals[k] = c.At(i)
			}
		}
		cols = append(cols, SeriesFromValues(c.Name, vals))
	}
	for _, c := range other.Columns {
		name := c.Name
		if _, dup := f.index[name]; dup {
			name = name + "_right"
		}
		vals := make([]Value, len(outR))
		for k, j := range outR {
			if j < 0 {
				vals[k] = Null
			} else {
				vals[k] = c.At(j)
			}
		}
		cols = append(cols, SeriesFromValues(name, vals))
	}
	return NewFrame(cols)
}

// Pivot reshapes long-format rows into wide format: one output row per
// distinct value of indexCol, one output column per distinct value of
// columnsCol, populated from valuesCol. Cells with no matching (index,
// column) pair in the input are null.
func (f *Frame) Pivot(indexCol, columnsCol, valuesCol string) (*Frame, error) {
	idx, ok := f.Column(indexCol)
	if !ok {
		return nil, fmt.Errorf("frame: no such column %q", indexCol)
	}
	colsCol, ok := f.Column(columnsCol)
	if !ok {
		return nil, fmt.Errorf("frame: no such column %q", columnsCol)
	}
	valsCol, ok := f.Column(valuesCol)
	if !ok {
		return nil, fmt.Errorf("frame: no such column %q", valuesCol)
	}

	var indexOrder []Value
	indexSeen := map[string]int{}
	var colOrder []string
	colSeen := map[string]bool{}
	cells := map[string]map[string]Value{}

	for i := 0; i < f.Height(); i++ {
		iv := idx.At(i)
		ik := hashKey(iv)
		if _, ok := indexSeen[ik]; !ok {
			indexSeen[ik] = len(indexOrder)
			indexOrder = append(indexOrder, iv)
			cells[ik] = map[string]Value{}
		}
		cn := colsCol.At(i).String()
		if !colSeen[cn] {
			colSeen[cn] = true
			colOrder = append(colOrder, cn)
		}
		cells[ik][cn] = valsCol.At(i)
	}

	columns := make([]*Series, 0, 1+len(colOrder))
	indexVals := make([]Value, len(indexOrder))
	copy(indexVals, indexOrder)
	columns = append(columns, SeriesFromValues(indexCol, indexVals))
	for _, cn := range colOrder {
		vals := make([]Value, len(indexOrder))
		for i, iv := range indexOrder {
			if v, ok := cells[hashKey(iv)][cn]; ok {
				vals[i] = v
			} else {
				vals[i] = Null
			}
		}
		columns = append(columns, SeriesFromValues(cn, vals))
	}
	return NewFrame(columns)
}

// Melt reshapes wide-format columns (valueVars) into long format: idVars are
// repeated, and one output row is produced per (id row, value var), with a
// "variable" column naming the source column and a "value" column holding
// its value.
func (f *Frame) Melt(idVars, valueVars []string) (*Frame, error) {
	if len(valueVars) == 0 {
		var seen = map[string]bool{}
		for _, n := range idVars {
			seen[n] = true
		}
		for _, n := range f.ColumnNames() {
			if !seen[n] {
				valueVars = append(valueVars, n)
			}
		}
	}
	idCols := make([]*Series, len(idVars))
	for i, n := range idVars {
		c, ok := f.Column(n)
		if !ok {
			return nil, fmt.Errorf("frame: no such column %q", n)
		}
		idCols[i] = c
	}
	valCols := make([]*Series, len(valueVars))
	for i, n := range valueVars {
		c, ok := f.Column(n)
		if !ok {
			return nil, fmt.Errorf("frame: no such column %q", n)
		}
		valCols[i] = c
	}

	h := f.Height()
	n := h * len(valueVars)
	idOut := make([][]Value, len(idVars))
	for i := range idOut {
		idOut[i] = make([]Value, 0, n)
	}
	varOut := make([]Value, 0, n)
	valOut := make([]Value, 0, n)

	for row := 0; row < h; row++ {
		for vi, name := range valueVars {
			for ii := range idVars {
				idOut[ii] = append(idOut[ii], idCols[ii].At(row))
			}
			varOut = append(varOut, String(name))
			valOut = append(valOut, valCols[vi].At(row))
		}
	}

	cols := make([]*Series, 0, len(idVars)+2)
	for i, n := range idVars {
		cols = append(cols, SeriesFromValues(n, idOut[i]))
	}
	cols = append(cols, SeriesFromValues("variable", varOut))
	cols = append(cols, SeriesFromValues("value", valOut))
	return NewFrame(cols)
}
