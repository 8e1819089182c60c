package errors

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestFormatCaretRendering(t *testing.T) {
	src := ".a | .b[\"x\"] + 1"
	d := TypeErrorf(Position{Line: 1, Column: 6, Offset: 5}, "cannot index string with \"x\"").WithSource(src)

	snaps.MatchSnapshot(t, "type_error_with_caret", d.Format(false))
}

func TestFormatWithoutPosition(t *testing.T) {
	d := New(KindCompileError, Position{}, "unknown function %s/%d", "foo", 2)

	snaps.MatchSnapshot(t, "compile_error_no_position", d.Format(false))
}

func TestFormatColorAddsEscapeCodes(t *testing.T) {
	d := ValueErrorf(Position{Line: 2, Column: 1, Offset: 10}, "division by zero").WithSource("1\n1/0")
	got := d.Format(true)
	if got == d.Format(false) {
		t.Fatalf("Format(true) should differ from Format(false) by the ANSI escape around the caret")
	}
}

func TestKindFatalAndCatchable(t *testing.T) {
	cases := []struct {
		kind      Kind
		wantFatal bool
	}{
		{KindRecursionLimit, true},
		{KindCancelled, true},
		{KindTypeError, false},
		{KindKeyError, false},
		{KindValueError, false},
	}
	for _, c := range cases {
		d := New(c.kind, Position{}, "boom")
		if d.Kind.Fatal() != c.wantFatal {
			t.Fatalf("%s.Fatal() = %v, want %v", c.kind, d.Kind.Fatal(), c.wantFatal)
		}
		if d.Catchable() == c.wantFatal {
			t.Fatalf("%s.Catchable() = %v, want %v", c.kind, d.Catchable(), !c.wantFatal)
		}
	}
}

func TestSuppressible(t *testing.T) {
	for _, kind := range []Kind{KindTypeError, KindKeyError, KindValueError} {
		if !(New(kind, Position{}, "x").Suppressible()) {
			t.Fatalf("%s should be suppressible by `?`", kind)
		}
	}
	for _, kind := range []Kind{KindRecursionLimit, KindCancelled, KindMemoryLimit} {
		if New(kind, Position{}, "x").Suppressible() {
			t.Fatalf("%s should not be suppressible by `?`", kind)
		}
	}
}
