package value

import (
	"bytes"
	"sort"
)

// typeOrder gives the total order across kinds used by `sort`/`<`/`>` when
// operands differ in kind, per spec §4.2: null < bool < numbers < strings <
// arrays < objects < bytes < series < frames.
func typeOrder(v Value) int {
	switch v.Kind() {
	case KindNull:
		return 0
	case KindBool:
		if v.AsBool() {
			return 2
		}
		return 1
	case KindInt, KindFloat:
		return 3
	case KindString:
		return 4
	case KindArray:
		return 5
	case KindObject:
		return 6
	case KindBytes:
		return 7
	case KindSeries:
		return 8
	default:
		return 9
	}
}

// Compare implements the language's total order: -1, 0, or 1. Equal-kind
// values compare structurally; differing kinds fall back to typeOrder. NaN
// sorts as though it were the largest float, so a Frame column containing
// NaN still produces a well-defined sort instead of panicking downstream.
func Compare(a, b Value) int {
	ak, bk := a.Kind(), b.Kind()
	if ak == bk {
		switch ak {
		case KindNull:
			return 0
		case KindBool:
			return boolCompare(a.AsBool(), b.AsBool())
		case KindInt:
			return int64Compare(a.AsInt(), b.AsInt())
		case KindFloat:
			return floatCompare(a.AsFloat(), b.AsFloat())
		case KindString:
			return stringCompare(a.AsString(), b.AsString())
		case KindBytes:
			return bytes.Compare(a.AsBytes(), b.AsBytes())
		case KindArray:
			return arrayCompare(a.AsArray(), b.AsArray())
		case KindObject:
			return objectCompare(a.AsObject(), b.AsObject())
		}
	}
	if a.IsNumber() && b.IsNumber() {
		return floatCompare(a.AsFloat(), b.AsFloat())
	}
	return int64Compare(int64(typeOrder(a)), int64(typeOrder(b)))
}

// Equal reports structural equality (Compare(a, b) == 0): NaN counts as
// equal to itself here, the semantics the `unique`/`group_by`/`sort` key
// comparator needs so a NaN-valued key still groups/dedupes predictably.
func Equal(a, b Value) bool { return Compare(a, b) == 0 }

// EqualIEEE implements the `==`/`!=` operators: structurally equal per
// Equal, except that a Float participates under plain IEEE-754 identity
// (`NaN != NaN`, including against itself) rather than Compare's "NaN sorts
// as the largest float" total-order convention. Spec §3.1 splits these two
// notions deliberately: "NaN != NaN... mirrors IEEE semantics in
// comparisons but counts as equal under structural equality required for
// unique" — Equal serves the latter, EqualIEEE the former.
func EqualIEEE(a, b Value) bool {
	ak, bk := a.Kind(), b.Kind()
	if (ak == KindFloat || bk == KindFloat) && a.IsNumber() && b.IsNumber() {
		return a.AsFloat() == b.AsFloat()
	}
	if ak != bk {
		return false
	}
	switch ak {
	case KindArray:
		aa, bb := a.AsArray(), b.AsArray()
		if len(aa) != len(bb) {
			return false
		}
		for i := range aa {
			if !EqualIEEE(aa[i], bb[i]) {
				return false
			}
		}
		return true
	case KindObject:
		ao, bo := a.AsObject(), b.AsObject()
		aKeys := ao.Keys()
		if len(aKeys) != len(bo.Keys()) {
			return false
		}
		for _, k := range aKeys {
			av, _ := ao.Get(k)
			bv, ok := bo.Get(k)
			if !ok || !EqualIEEE(av, bv) {
				return false
			}
		}
		return true
	default:
		return Equal(a, b)
	}
}

func boolCompare(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func int64Compare(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func floatCompare(a, b float64) int {
	aNaN, bNaN := a != a, b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// stringCompare orders two strings by the configured collation locale
// (value.SetCollationLocale) when one is set, else by plain Go byte
// ordering — spec §3.2's documented default. Since Equal is defined as
// Compare == 0, a collation locale also decides string equality: two
// byte-distinct strings the collator ranks equal are Equal, and `==` and
// `unique` treat them as one value. With no locale set, only byte-identical
// strings compare equal.
func stringCompare(a, b string) int {
	if c := newCollator(); c != nil {
		return c.CompareString(a, b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func arrayCompare(a, b []Value) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return int64Compare(int64(len(a)), int64(len(b)))
}

// objectCompare orders objects by sorted-key sequence first, then by value
// at each shared key, matching jq's object ordering rule (key sets compare
// before any value does).
func objectCompare(a, b *Object) int {
	ak := append([]string(nil), a.Keys()...)
	bk := append([]string(nil), b.Keys()...)
	sort.Strings(ak)
	sort.Strings(bk)
	n := len(ak)
	if len(bk) < n {
		n = len(bk)
	}
	for i := 0; i < n; i++ {
		if c := stringCompare(ak[i], bk[i]); c != 0 {
			return c
		}
	}
	if c := int64Compare(int64(len(ak)), int64(len(bk))); c != 0 {
		return c
	}
	for _, k := range ak {
		av, _ := a.Get(k)
		bv, _ := b.Get(k)
		if c := Compare(av, bv); c != 0 {
			return c
		}
	}
	return 0
}
