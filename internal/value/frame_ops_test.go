package value

import "testing"

func mustFrame(t *testing.T, series ...*Series) *Frame {
	t.Helper()
	f, err := NewFrame(series)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	return f
}

func TestFrameSortByKeysStable(t *testing.T) {
	f := mustFrame(t,
		SeriesFromValues("name", []Value{String("b"), String("a"), String("a2")}),
		SeriesFromValues("k", []Value{Int(2), Int(1), Int(1)}),
	)
	keys := []Value{Int(2), Int(1), Int(1)}
	sorted, err := f.SortByKeys(keys, false)
	if err != nil {
		t.Fatalf("SortByKeys: %v", err)
	}
	nameCol, _ := sorted.Column("name")
	got := []string{nameCol.Strings[0], nameCol.Strings[1], nameCol.Strings[2]}
	want := []string{"a", "a2", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortByKeys order = %v, want %v (stability broken)", got, want)
		}
	}
}

func TestFrameGroupByKeysFirstSeenOrder(t *testing.T) {
	f := mustFrame(t,
		SeriesFromValues("d", []Value{String("x"), String("y"), String("x")}),
		SeriesFromValues("v", []Value{Int(1), Int(2), Int(3)}),
	)
	keys := []Value{String("x"), String("y"), String("x")}
	groups, _, err := f.GroupByKeys(keys)
	if err != nil {
		t.Fatalf("GroupByKeys: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Height() != 2 {
		t.Fatalf("group 0 (key x) should have 2 rows, got %d", groups[0].Height())
	}
	if groups[1].Height() != 1 {
		t.Fatalf("group 1 (key y) should have 1 row, got %d", groups[1].Height())
	}
}

func TestFrameJoinInnerLeftOuter(t *testing.T) {
	left := mustFrame(t,
		SeriesFromValues("id", []Value{Int(1), Int(2), Int(3)}),
		SeriesFromValues("name", []Value{String("a"), String("b"), String("c")}),
	)
	right := mustFrame(t,
		SeriesFromValues("id", []Value{Int(2), Int(3), Int(4)}),
		SeriesFromValues("score", []Value{Int(20), Int(30), Int(40)}),
	)

	inner, err := left.Join(right, []string{"id"}, []string{"id"}, JoinInner)
	if err != nil {
		t.Fatalf("inner join: %v", err)
	}
	if inner.Height() != 2 {
		t.Fatalf("inner join height = %d, want 2", inner.Height())
	}

	leftJ, err := left.Join(right, []string{"id"}, []string{"id"}, JoinLeft)
	if err != nil {
		t.Fatalf("left join: %v", err)
	}
	if leftJ.Height() != 3 {
		t.Fatalf("left join height = %d, want 3", leftJ.Height())
	}

	outer, err := left.Join(right, []string{"id"}, []string{"id"}, JoinOuter)
	if err != nil {
		t.Fatalf("outer join: %v", err)
	}
	if outer.Height() != 4 {
		t.Fatalf("outer join height = %d, want 4 (ids 1,2,3,4)", outer.Height())
	}
}

func TestFramePivotAndMelt(t *testing.T) {
	long := mustFrame(t,
		SeriesFromValues("id", []Value{Int(1), Int(1), Int(2), Int(2)}),
		SeriesFromValues("k", []Value{String("a"), String("b"), String("a"), String("b")}),
		SeriesFromValues("v", []Value{Int(10), Int(20), Int(30), Int(40)}),
	)
	wide, err := long.Pivot("id", "k", "v")
	if err != nil {
		t.Fatalf("Pivot: %v", err)
	}
	if wide.Height() != 2 {
		t.Fatalf("pivoted height = %d, want 2", wide.Height())
	}
	if _, ok := wide.Column("a"); !ok {
		t.Fatalf("pivoted frame missing column %q", "a")
	}
	if _, ok := wide.Column("b"); !ok {
		t.Fatalf("pivoted frame missing column %q", "b")
	}

	melted, err := wide.Melt([]string{"id"}, nil)
	if err != nil {
		t.Fatalf("Melt: %v", err)
	}
	if melted.Height() != 4 {
		t.Fatalf("melted height = %d, want 4", melted.Height())
	}
	if _, ok := melted.Column("variable"); !ok {
		t.Fatalf("melted frame missing variable column")
	}
	if _, ok := melted.Column("value"); !ok {
		t.Fatalf("melted frame missing value column")
	}
}
