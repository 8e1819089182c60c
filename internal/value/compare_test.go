package value

import "testing"

func TestCompareCrossKind(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"null < bool", Null, False, -1},
		{"false < true", False, True, -1},
		{"int < string", Int(5), String("a"), -1},
		{"array < object", Array(nil), Obj(NewObject()), -1},
		{"int == float", Int(3), Float(3), 0},
		{"float < int", Float(2.5), Int(3), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Fatalf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompareNaNSortsLargest(t *testing.T) {
	nan := Float(nan())
	if Compare(nan, Float(1e300)) != 1 {
		t.Fatalf("NaN should sort after every finite float")
	}
	if Compare(nan, nan) != 0 {
		t.Fatalf("NaN should compare equal to itself for sort stability")
	}
}

func nan() float64 {
	var z float64
	return z / z
}

func TestCompareObjectBeforeBytes(t *testing.T) {
	if Compare(Obj(NewObject()), Bytes([]byte("x"))) != -1 {
		t.Fatalf("an Object should sort before Bytes, per spec's ... < Object < Bytes < Series < Frame order")
	}
	if Compare(Array(nil), Bytes(nil)) != -1 {
		t.Fatalf("an Array should sort before Bytes")
	}
}

func TestEqualIEEENaNNeverEqual(t *testing.T) {
	nan := Float(nan())
	if EqualIEEE(nan, nan) {
		t.Fatalf("NaN == NaN must be false under IEEE semantics (the `==` operator)")
	}
	if !Equal(nan, nan) {
		t.Fatalf("NaN should still count as equal to itself under structural Equal (unique/group_by)")
	}
	if EqualIEEE(nan, Float(1)) {
		t.Fatalf("NaN should not equal any other float")
	}
}

func TestEqualIEEERecursesThroughContainers(t *testing.T) {
	nan := Float(nan())
	a := Array([]Value{Int(1), nan})
	b := Array([]Value{Int(1), nan})
	if EqualIEEE(a, b) {
		t.Fatalf("[1, nan] == [1, nan] must be false: the nested NaN makes the arrays unequal under ==")
	}
	if !Equal(a, b) {
		t.Fatalf("[1, nan] should still structurally Equal [1, nan] for unique/group_by purposes")
	}

	c := Array([]Value{Int(1), Float(2)})
	d := Array([]Value{Int(1), Float(2)})
	if !EqualIEEE(c, d) {
		t.Fatalf("[1, 2.0] == [1, 2.0] should be true")
	}
}

func TestEqualIgnoresObjectKeyOrder(t *testing.T) {
	a := NewObject()
	a.Set("x", Int(1))
	a.Set("y", Int(2))
	b := NewObject()
	b.Set("y", Int(2))
	b.Set("x", Int(1))
	if !Equal(Obj(a), Obj(b)) {
		t.Fatalf("objects with the same keys/values in different insertion order should be equal")
	}
}

func TestStringCompareByteOrderDefault(t *testing.T) {
	if Compare(String("apple"), String("banana")) != -1 {
		t.Fatalf("byte-wise comparison should order apple before banana")
	}
}

func TestStringCompareCollation(t *testing.T) {
	t.Cleanup(func() { _ = SetCollationLocale("") })

	if err := SetCollationLocale("sv"); err != nil {
		t.Fatalf("SetCollationLocale: %v", err)
	}
	if CollationLocale() != "sv" {
		t.Fatalf("CollationLocale() = %q, want sv", CollationLocale())
	}
	// Only identical strings are compared here: with a collator configured,
	// "a" vs "a" must still come out equal. No relative order of distinct
	// strings is asserted, since that depends on the locale's rules.
	if c := stringCompare("a", "a"); c != 0 {
		t.Fatalf("a vs a under collation should still compare equal, got %d", c)
	}

	if err := SetCollationLocale(""); err != nil {
		t.Fatalf("clearing collation: %v", err)
	}
	if CollationLocale() != "" {
		t.Fatalf("CollationLocale() after clear = %q, want empty", CollationLocale())
	}
}

func TestSetCollationLocaleRejectsBadTag(t *testing.T) {
	defer func() { _ = SetCollationLocale("") }()
	if err := SetCollationLocale("not a bcp47 tag!!"); err == nil {
		t.Fatalf("expected an error for an unparseable locale tag")
	}
}
