package registry

import (
	"testing"

	"github.com/tabjq/tabjq/internal/value"
)

func noop(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return emit(input)
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	r.Register("foo", 1, noop, CategoryCore, false, "test filter")

	info, ok := r.Lookup("foo", 1)
	if !ok {
		t.Fatalf("expected foo/1 to be registered")
	}
	if info.Name != "foo" || info.Arity != 1 || info.Category != CategoryCore {
		t.Fatalf("unexpected FunctionInfo: %+v", info)
	}

	if _, ok := r.Lookup("foo", 2); ok {
		t.Fatalf("foo/2 should not exist")
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	r := New()
	r.Register("Foo", 0, noop, CategoryCore, false, "")
	if _, ok := r.Lookup("foo", 0); !ok {
		t.Fatalf("lookup should be case-insensitive")
	}
	if _, ok := r.Lookup("FOO", 0); !ok {
		t.Fatalf("lookup should be case-insensitive")
	}
}

func TestRegisterReplacesExistingEntryWithoutDuplicatingCategory(t *testing.T) {
	r := New()
	r.Register("foo", 0, noop, CategoryCore, false, "first")
	r.Register("foo", 0, noop, CategoryCore, true, "second")

	info, _ := r.Lookup("foo", 0)
	if info.Description != "second" || !info.TabularSafe {
		t.Fatalf("expected replaced entry, got %+v", info)
	}
	listed := r.GetByCategory(CategoryCore)
	if len(listed) != 1 {
		t.Fatalf("expected exactly one category entry after replace, got %d", len(listed))
	}
}

func TestArities(t *testing.T) {
	r := New()
	r.Register("range", 1, noop, CategoryCore, false, "")
	r.Register("range", 2, noop, CategoryCore, false, "")
	r.Register("range", 3, noop, CategoryCore, false, "")

	got := r.Arities("range")
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Arities(range) = %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("Arities(range)[%d] = %d, want %d", i, got[i], w)
		}
	}
}

func TestHasAndCount(t *testing.T) {
	r := New()
	if r.Has("length") {
		t.Fatalf("empty registry should not have length")
	}
	r.Register("length", 0, noop, CategoryCore, true, "")
	if !r.Has("length") {
		t.Fatalf("expected length to be registered")
	}
	if r.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", r.Count())
	}
}

func TestDefaultRegistryPopulatesCoreBuiltins(t *testing.T) {
	r := Default()
	for _, name := range []string{"length", "keys", "add", "type", "not", "empty"} {
		if !r.Has(name) {
			t.Fatalf("Default() registry missing builtin %q", name)
		}
	}
	if r.Count() == 0 {
		t.Fatalf("Default() registry should not be empty")
	}

	info, ok := r.Lookup("range", 1)
	if !ok || info.Category != CategoryCore {
		t.Fatalf("range/1 should be registered under CategoryCore, got %+v", info)
	}
	if _, ok := r.Lookup("range", 0); ok {
		t.Fatalf("range/0 should not exist")
	}
}

func TestDefaultRegistryAllSortedByNameThenArity(t *testing.T) {
	r := Default()
	all := r.All()
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if prev.Name > cur.Name {
			t.Fatalf("All() not sorted by name: %q came before %q", prev.Name, cur.Name)
		}
		if prev.Name == cur.Name && prev.Arity > cur.Arity {
			t.Fatalf("All() not sorted by arity within name %q", prev.Name)
		}
	}
}
