// Package registry implements the built-in function contract and dispatch
// table, grounded on the teacher project's internal/interp/builtins package
// (Registry/FunctionInfo/Category, case-folded name lookup, RegisterBatch).
// Functions here are the "simple" eager/streaming built-ins dispatched by
// name and arity. Higher-order forms are not Go registry entries, since
// running a filter argument against each input needs the executor's closure
// and scope machinery: reduce, foreach, and path are evaluated by the
// executor directly, and map, select, recurse, group_by, and sort_by are
// defined in the filter language in prelude.go.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Category groups related built-ins for introspection and documentation,
// mirroring the teacher's Category taxonomy.
type Category string

const (
	CategoryCore     Category = "core"
	CategoryMath     Category = "math"
	CategoryString   Category = "string"
	CategoryArray    Category = "array"
	CategoryObject   Category = "object"
	CategoryFormat   Category = "format"
	CategoryPath     Category = "path"
	CategoryTabular  Category = "tabular"
	CategoryDateTime Category = "datetime"
	CategorySystem   Category = "system"
)

// FunctionInfo holds metadata about one registered built-in, keyed by the
// (name, arity) pair the way jq's own function namespace works — `ltrimstr`
// and a hypothetical 2-arg `ltrimstr` would be distinct entries.
type FunctionInfo struct {
	Name        string
	Arity       int
	Func        BuiltinFunc
	Category    Category
	TabularSafe bool
	Description string
}

func key(name string, arity int) string {
	return strings.ToLower(name) + "/" + fmt.Sprint(arity)
}

// Registry manages all simple built-in functions, with case-insensitive
// lookup by (name, arity) and per-category listing for documentation and the
// `builtins` introspection filter.
type Registry struct {
	mu         sync.RWMutex
	functions  map[string]*FunctionInfo
	categories map[Category][]string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		functions:  make(map[string]*FunctionInfo),
		categories: make(map[Category][]string),
	}
}

// Register adds a built-in under (name, arity), replacing any existing
// entry in place without duplicating its category listing.
func (r *Registry) Register(name string, arity int, fn BuiltinFunc, category Category, tabularSafe bool, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(name, arity)
	info := &FunctionInfo{
		Name:        name,
		Arity:       arity,
		Func:        fn,
		Category:    category,
		TabularSafe: tabularSafe,
		Description: description,
	}
	if _, exists := r.functions[k]; exists {
		r.functions[k] = info
		return
	}
	r.functions[k] = info
	r.categories[category] = append(r.categories[category], info.Name+"/"+fmt.Sprint(arity))
}

// Lookup finds a built-in by name and argument count.
func (r *Registry) Lookup(name string, arity int) (*FunctionInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.functions[key(name, arity)]
	return info, ok
}

// Arities returns every registered arity for name, sorted ascending — used
// to build a helpful "did you mean foo/1?" compile error when a call is
// found by name but not by arity.
func (r *Registry) Arities(name string) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name = strings.ToLower(name)
	var out []int
	for k, info := range r.functions {
		if strings.HasPrefix(k, name+"/") {
			out = append(out, info.Arity)
		}
	}
	sort.Ints(out)
	return out
}

// GetByCategory returns every built-in in category, sorted by name.
func (r *Registry) GetByCategory(category Category) []*FunctionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*FunctionInfo
	for _, k := range r.categories[category] {
		if info, ok := r.functions[strings.ToLower(k)]; ok {
			result = append(result, info)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].Arity < result[j].Arity
	})
	return result
}

// All returns every registered built-in, sorted by name then arity.
func (r *Registry) All() []*FunctionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*FunctionInfo, 0, len(r.functions))
	for _, info := range r.functions {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].Arity < result[j].Arity
	})
	return result
}

// Count returns the number of registered (name, arity) entries.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.functions)
}

// Has reports whether any arity of name is registered.
func (r *Registry) Has(name string) bool {
	return len(r.Arities(name)) > 0
}
