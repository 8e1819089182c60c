package executor

import (
	"fmt"

	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/value"
)

// Closure is a user-defined function together with the environment it was
// defined in, grounded on the teacher project's Environment chain
// (internal/interp/environment.go): a function value must remember its
// defining scope so recursive and nested defs resolve names lexically
// rather than dynamically.
type Closure struct {
	Def *ast.FuncDef
	Env *Env
}

func funcKey(name string, arity int) string {
	return fmt.Sprintf("%s/%d", name, arity)
}

// Env is one link of the lexical scope chain: variables bound by `as`,
// reduce/foreach, function parameters, and user function definitions
// visible from this point in the program. Lookups walk outward (innermost
// scope first), matching the teacher's Environment.Lookup.
type Env struct {
	parent *Env
	vars   map[string]value.Value
	funcs  map[string]*Closure
}

// NewRootEnv builds the outermost scope, seeded with the named arguments
// supplied to the engine (the `$ARGS.named` object's members, plus `$ENV`
// and `$ARGS` conventionally set by the caller).
func NewRootEnv(vars map[string]value.Value) *Env {
	e := &Env{vars: make(map[string]value.Value, len(vars))}
	for k, v := range vars {
		e.vars[k] = v
	}
	return e
}

// Child creates a new scope nested under e.
func (e *Env) Child() *Env {
	return &Env{parent: e}
}

// BindVar returns a child scope with name bound to v.
func (e *Env) BindVar(name string, v value.Value) *Env {
	c := e.Child()
	c.vars = map[string]value.Value{name: v}
	return c
}

// LookupVar searches outward for a bound variable.
func (e *Env) LookupVar(name string) (value.Value, bool) {
	for s := e; s != nil; s = s.parent {
		if s.vars != nil {
			if v, ok := s.vars[name]; ok {
				return v, true
			}
		}
	}
	return value.Null, false
}

// BindFunc returns a child scope with a closure registered under
// (name, arity); used both for `def` bodies and per-call filter-parameter
// binding.
func (e *Env) BindFunc(name string, arity int, cl *Closure) *Env {
	c := e.Child()
	c.funcs = map[string]*Closure{funcKey(name, arity): cl}
	return c
}

// BindFuncs is BindFunc for several closures at once, sharing a single
// child scope (used when a def has several params, all visible to each
// other and to the body simultaneously via recursion).
func (e *Env) BindFuncs(entries map[string]*Closure) *Env {
	c := e.Child()
	c.funcs = entries
	return c
}

// LookupFunc searches outward for a user-defined function.
func (e *Env) LookupFunc(name string, arity int) (*Closure, bool) {
	k := funcKey(name, arity)
	for s := e; s != nil; s = s.parent {
		if s.funcs != nil {
			if cl, ok := s.funcs[k]; ok {
				return cl, true
			}
		}
	}
	return nil, false
}
