package registry

import (
	"sort"

	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
)

// GroupByImpl1 implements `_group_by_impl($keys)`: the array-backend half of
// `group_by`, grounded on jq's own native `_group_by_impl`/`_sort_by_impl`
// split between a jq-level def (`group_by(f): _group_by_impl(map([f]))`,
// materialized in this package's prelude.go) and a C-speed primitive that never
// re-evaluates the key filter. Groups are emitted in first-seen order of
// their key (spec §8.1.10), not sorted-key order as upstream jq does — see
// DESIGN.md for why this repo's tabular/generic group_by are aligned on
// first-seen order instead.
func GroupByImpl1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() != value.KindArray {
		return ctx.Errorf(errors.KindTypeError, "Cannot group_by over %s", input.TypeName())
	}
	keys := args[0]
	if keys.Kind() != value.KindArray || len(keys.AsArray()) != len(input.AsArray()) {
		return ctx.Errorf(errors.KindValueError, "_group_by_impl: key array length mismatch")
	}
	elems := input.AsArray()
	ks := keys.AsArray()

	type group struct {
		key  value.Value
		rows []value.Value
	}
	var order []*group
	seen := map[string]*group{}
	for i, k := range elems {
		h := groupHash(ks[i])
		g, ok := seen[h]
		if !ok {
			g = &group{key: ks[i]}
			seen[h] = g
			order = append(order, g)
		}
		g.rows = append(g.rows, k)
	}
	out := make([]value.Value, len(order))
	for i, g := range order {
		out[i] = value.Array(g.rows)
	}
	return emit(value.Array(out))
}

func groupHash(v value.Value) string {
	s, err := value.ToJSON(v)
	if err != nil {
		return v.String()
	}
	return s
}

// SortByImpl1 implements `_sort_by_impl($keys)`: a stable sort of the input
// array by a parallel array of already-computed keys, the array-backend
// twin of `_group_by_impl`.
func SortByImpl1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() != value.KindArray {
		return ctx.Errorf(errors.KindTypeError, "Cannot sort_by over %s", input.TypeName())
	}
	keys := args[0]
	if keys.Kind() != value.KindArray || len(keys.AsArray()) != len(input.AsArray()) {
		return ctx.Errorf(errors.KindValueError, "_sort_by_impl: key array length mismatch")
	}
	elems := append([]value.Value(nil), input.AsArray()...)
	ks := keys.AsArray()
	idx := make([]int, len(elems))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return value.Compare(ks[idx[i]], ks[idx[j]]) < 0
	})
	out := make([]value.Value, len(elems))
	for i, j := range idx {
		out[i] = elems[j]
	}
	return emit(value.Array(out))
}

// MinMaxByImpl2 implements `_minmax_by_impl($keys; $wantMax)`, the shared
// primitive behind `min_by`/`max_by`.
func MinMaxByImpl2(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() != value.KindArray {
		return ctx.Errorf(errors.KindTypeError, "Cannot min_by/max_by over %s", input.TypeName())
	}
	keys := args[0]
	wantMax := args[1].Truthy()
	elems := input.AsArray()
	if keys.Kind() != value.KindArray || len(keys.AsArray()) != len(elems) {
		return ctx.Errorf(errors.KindValueError, "_minmax_by_impl: key array length mismatch")
	}
	if len(elems) == 0 {
		return emit(value.Null)
	}
	ks := keys.AsArray()
	bestI := 0
	for i := 1; i < len(elems); i++ {
		c := value.Compare(ks[i], ks[bestI])
		if (wantMax && c >= 0) || (!wantMax && c < 0) {
			bestI = i
		}
	}
	return emit(elems[bestI])
}
