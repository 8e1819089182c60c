package engine

import (
	"math"
	"testing"

	"github.com/tabjq/tabjq/internal/value"
)

func mustEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(Options{OptimizationLevel: "advanced", DataframeOptimizations: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng
}

func runFilter(t *testing.T, eng *Engine, source string, input value.Value) []value.Value {
	t.Helper()
	res, err := eng.Run(source, input, RunOptions{})
	if err != nil {
		t.Fatalf("Run(%q): %v", source, err)
	}
	return res.Values
}

func objFromJSON(t *testing.T, src string) value.Value {
	t.Helper()
	v, err := value.FromJSON([]byte(src))
	if err != nil {
		t.Fatalf("FromJSON(%q): %v", src, err)
	}
	return v
}

func TestRunIdentityAndFieldAccess(t *testing.T) {
	eng := mustEngine(t)

	got := runFilter(t, eng, ".", value.Int(42))
	if len(got) != 1 || got[0].AsInt() != 42 {
		t.Fatalf("identity filter = %v, want [42]", got)
	}

	obj := objFromJSON(t, `{"a": 1, "b": 2}`)
	got = runFilter(t, eng, ".a", obj)
	if len(got) != 1 || got[0].AsInt() != 1 {
		t.Fatalf(".a = %v, want [1]", got)
	}
}

func TestRunPreludeMapSelect(t *testing.T) {
	eng := mustEngine(t)
	arr := objFromJSON(t, `[1,2,3,4,5]`)

	got := runFilter(t, eng, "map(. + 1)", arr)
	want := []int64{2, 3, 4, 5, 6}
	if len(got) != 1 || got[0].Kind() != value.KindArray {
		t.Fatalf("map(.+1) = %v, want a single array result", got)
	}
	for i, v := range got[0].AsArray() {
		if v.AsInt() != want[i] {
			t.Fatalf("map(.+1)[%d] = %d, want %d", i, v.AsInt(), want[i])
		}
	}

	got = runFilter(t, eng, "map(select(. > 2))", arr)
	if got[0].Kind() != value.KindArray || len(got[0].AsArray()) != 3 {
		t.Fatalf("map(select(.>2)) = %v, want a 3-element array", got)
	}
}

func TestRunPreludeGroupByUnique(t *testing.T) {
	eng := mustEngine(t)
	arr := objFromJSON(t, `[{"d":"x","v":1},{"d":"x","v":2},{"d":"y","v":5}]`)

	got := runFilter(t, eng, "group_by(.d) | map({d: .[0].d, total: (map(.v)|add)})", arr)
	if len(got) != 1 {
		t.Fatalf("expected single result, got %d", len(got))
	}
	groups := got[0].AsArray()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	first, _ := groups[0].AsObject().Get("total")
	if first.AsInt() != 3 {
		t.Fatalf("first group total = %d, want 3", first.AsInt())
	}
	second, _ := groups[1].AsObject().Get("total")
	if second.AsInt() != 5 {
		t.Fatalf("second group total = %d, want 5", second.AsInt())
	}

	nums := objFromJSON(t, `[3,1,2,1,3]`)
	got = runFilter(t, eng, "unique", nums)
	if len(got[0].AsArray()) != 3 {
		t.Fatalf("unique([3,1,2,1,3]) = %v, want 3 distinct elements", got[0])
	}
}

func TestRunToEntriesFromEntries(t *testing.T) {
	eng := mustEngine(t)
	obj := objFromJSON(t, `{"a":1,"b":2}`)

	got := runFilter(t, eng, "to_entries", obj)
	entries := got[0].AsArray()
	if len(entries) != 2 {
		t.Fatalf("to_entries length = %d, want 2", len(entries))
	}
	k, _ := entries[0].AsObject().Get("key")
	if k.AsString() != "a" {
		t.Fatalf("to_entries[0].key = %q, want a", k.AsString())
	}

	got = runFilter(t, eng, "to_entries | from_entries", obj)
	roundTripped := got[0]
	av, _ := roundTripped.AsObject().Get("a")
	if av.AsInt() != 1 {
		t.Fatalf("round-tripped .a = %d, want 1", av.AsInt())
	}
}

func TestRunAssignmentForms(t *testing.T) {
	eng := mustEngine(t)

	got := runFilter(t, eng, ".a = 5", objFromJSON(t, `{"a":1,"b":2}`))
	av, _ := got[0].AsObject().Get("a")
	if av.AsInt() != 5 {
		t.Fatalf(".a = 5 => .a = %d, want 5", av.AsInt())
	}

	got = runFilter(t, eng, ".a += .b", objFromJSON(t, `{"a":1,"b":2}`))
	av, _ = got[0].AsObject().Get("a")
	if av.AsInt() != 3 {
		t.Fatalf(".a += .b => .a = %d, want 3", av.AsInt())
	}

	got = runFilter(t, eng, "map(select(. % 2 == 0) |= . * 10)", objFromJSON(t, `[1,2,3,4]`))
	arr := got[0].AsArray()
	if arr[1].AsInt() != 20 || arr[3].AsInt() != 40 {
		t.Fatalf("|= over select result = %v, want [1,20,3,40]", arr)
	}

	got = runFilter(t, eng, "del(.a)", objFromJSON(t, `{"a":1,"b":2}`))
	if _, ok := got[0].AsObject().Get("a"); ok {
		t.Fatalf("del(.a) left .a in place: %v", got[0])
	}
}

func TestRunFrameReshapeOperations(t *testing.T) {
	eng := mustEngine(t)
	rows := objFromJSON(t, `[{"id":1,"k":"a","v":10},{"id":1,"k":"b","v":20},{"id":2,"k":"a","v":30},{"id":2,"k":"b","v":40}]`)

	got := runFilter(t, eng, `to_frame | pivot("id"; "k"; "v") | height`, rows)
	if got[0].AsInt() != 2 {
		t.Fatalf("pivoted height = %d, want 2", got[0].AsInt())
	}

	got = runFilter(t, eng, `to_frame | pivot("id"; "k"; "v") | melt(["id"]; []) | height`, rows)
	if got[0].AsInt() != 4 {
		t.Fatalf("melted height = %d, want 4", got[0].AsInt())
	}
}

func TestRunFrameJoin(t *testing.T) {
	eng := mustEngine(t)
	left := objFromJSON(t, `[{"id":1,"name":"a"},{"id":2,"name":"b"}]`)
	other, err := value.FromJSON([]byte(`[{"id":2,"score":20},{"id":3,"score":30}]`))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	res, err := eng.Run(
		`to_frame as $l | ($other | to_frame) as $r | $l | join($r; ["id"]; ["id"]; "left") | height`,
		left,
		RunOptions{Vars: map[string]value.Value{"other": other}},
	)
	if err != nil {
		t.Fatalf("Run join: %v", err)
	}
	if res.Values[0].AsInt() != 2 {
		t.Fatalf("left join height = %d, want 2", res.Values[0].AsInt())
	}
}

func TestRunSortUsesByteOrderByDefault(t *testing.T) {
	eng := mustEngine(t)
	arr := objFromJSON(t, `["banana","apple"]`)
	got := runFilter(t, eng, "sort", arr)
	first := got[0].AsArray()[0].AsString()
	if first != "apple" {
		t.Fatalf("sort(...) first element = %q, want apple under byte ordering", first)
	}
	value.SetCollationLocale("")
}

func TestRunLenientModeNullsRowWiseTypeErrorOnFrame(t *testing.T) {
	eng := mustEngine(t)
	rows := objFromJSON(t, `[{"v":1},{"v":2}]`)

	got := runFilter(t, eng, `to_frame | map(.v + "x")`, rows)
	arr := got[0].AsArray()
	if len(arr) != 2 {
		t.Fatalf("map over frame rows = %v, want 2 elements", arr)
	}
	for i, v := range arr {
		if v.Kind() != value.KindNull {
			t.Fatalf("arr[%d] = %v, want null (lenient mode swallows the row-wise TypeError)", i, v)
		}
	}
}

func TestRunStrictModeAbortsOnRowWiseTypeErrorOnFrame(t *testing.T) {
	eng, err := New(Options{OptimizationLevel: "advanced", DataframeOptimizations: true, StrictMode: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rows := objFromJSON(t, `[{"v":1},{"v":2}]`)
	_, err = eng.Run(`to_frame | map(.v + "x")`, rows, RunOptions{})
	if err == nil {
		t.Fatalf("expected strict mode to abort on a row-wise TypeError over a frame")
	}
}

func TestRunIntegerDivisionByZero(t *testing.T) {
	lenient := mustEngine(t)
	got := runFilter(t, lenient, ". / 0", value.Int(10))
	if got[0].Kind() != value.KindNull {
		t.Fatalf("10 / 0 in lenient mode = %v, want null", got[0])
	}

	strict, err := New(Options{OptimizationLevel: "advanced", DataframeOptimizations: true, StrictMode: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := strict.Run(". / 0", value.Int(10), RunOptions{}); err == nil {
		t.Fatalf("expected strict mode to raise a ValueError for 10 / 0")
	}
}

func TestRunFloatDivisionByZeroFollowsIEEE(t *testing.T) {
	eng := mustEngine(t)
	got := runFilter(t, eng, ". / 0", value.Float(1))
	if !got[0].IsNumber() || got[0].AsFloat() != math.Inf(1) {
		t.Fatalf("1.0 / 0 = %v, want +Inf", got[0])
	}

	got = runFilter(t, eng, ". / 0", value.Float(-1))
	if got[0].AsFloat() != math.Inf(-1) {
		t.Fatalf("-1.0 / 0 = %v, want -Inf", got[0])
	}
}

func TestRunNaNNotEqualToItself(t *testing.T) {
	eng := mustEngine(t)
	got := runFilter(t, eng, "(0/0.0) == (0/0.0)", value.Null)
	if got[0].AsBool() {
		t.Fatalf("nan == nan should be false under the `==` operator's IEEE semantics")
	}
}

func TestParseErrorSurfacesAsDiagnostic(t *testing.T) {
	eng := mustEngine(t)
	_, err := eng.Run(".a | ", value.Null, RunOptions{})
	if err == nil {
		t.Fatalf("expected a parse error for trailing pipe")
	}
	if _, ok := AsDiagnostic(err); !ok {
		t.Fatalf("expected a *errors.Diagnostic, got %T: %v", err, err)
	}
}

func TestPlanCacheReusesCompiledPlan(t *testing.T) {
	eng := mustEngine(t)
	for i := 0; i < 3; i++ {
		got := runFilter(t, eng, ".x + 1", objFromJSON(t, `{"x": 1}`))
		if got[0].AsInt() != 2 {
			t.Fatalf("iteration %d: .x+1 = %d, want 2", i, got[0].AsInt())
		}
	}
	if eng.cache.Len() == 0 {
		t.Fatalf("expected at least one cached plan after repeated Run calls")
	}
}
