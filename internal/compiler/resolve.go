package compiler

import (
	"strings"

	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/registry"
)

// scope is a compile-time mirror of executor.Env: it tracks which variable
// names, function (name, arity) pairs, and label names are lexically
// visible at a point in the tree, grounded on the teacher's
// internal/semantic/symbol_table.go linked-scope-chain shape (SymbolTable
// holds an `outer *SymbolTable` and is pushed/popped around every block).
type scope struct {
	parent *scope
	vars   map[string]bool
	funcs  map[string]bool // key "name/arity"
	labels map[string]bool
}

func (s *scope) child() *scope { return &scope{parent: s} }

func (s *scope) hasVar(name string) bool {
	for c := s; c != nil; c = c.parent {
		if c.vars[name] {
			return true
		}
	}
	return false
}

func (s *scope) hasFunc(key string) bool {
	for c := s; c != nil; c = c.parent {
		if c.funcs[key] {
			return true
		}
	}
	return false
}

func (s *scope) hasLabel(name string) bool {
	for c := s; c != nil; c = c.parent {
		if c.labels[name] {
			return true
		}
	}
	return false
}

func (s *scope) withVar(name string) *scope {
	c := s.child()
	c.vars = map[string]bool{name: true}
	return c
}

func (s *scope) withFunc(name string, arity int) *scope {
	c := s.child()
	c.funcs = map[string]bool{funcKey(name, arity): true}
	return c
}

func (s *scope) withLabel(name string) *scope {
	c := s.child()
	c.labels = map[string]bool{name: true}
	return c
}

func funcKey(name string, arity int) string { return name + "/" + itoa(arity) }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		digits[i] = '-'
	}
	return string(digits[i:])
}

// isSpecialCall reports the forms the executor special-cases ahead of both the
// user-function and builtin lookup (see executor/call.go's evalCall); Resolve
// must recognize the same set so it doesn't reject them as UnknownFunction.
func isSpecialCall(name string, arity int) bool {
	switch {
	case name == "error" && (arity == 0 || arity == 1):
		return true
	case name == "path" && arity == 1:
		return true
	case (name == "paths" || name == "leaf_paths") && arity == 0:
		return true
	case name == "sub" && (arity == 2 || arity == 3):
		return true
	case name == "gsub" && (arity == 2 || arity == 3):
		return true
	case strings.HasPrefix(name, "@") && arity == 0:
		_, ok := registry.Formats[strings.TrimPrefix(name, "@")]
		return ok
	}
	return false
}

// Resolve statically checks every identifier, variable reference, and
// label/break pair, raising the compile-time diagnostics spec §4.4/§7 name:
// UnknownFunction, ArityMismatch, UndefinedVariable, BreakOutsideLabel,
// InvalidAssignmentTarget. extraVars seeds the root scope with names the
// caller will bind before execution (e.g. named arguments).
func Resolve(expr ast.Expr, reg *registry.Registry, extraVars []string) error {
	root := &scope{}
	if len(extraVars) > 0 {
		root.vars = make(map[string]bool, len(extraVars))
		for _, v := range extraVars {
			root.vars[v] = true
		}
	}
	return resolveExpr(expr, reg, root)
}

func resolveExpr(expr ast.Expr, reg *registry.Registry, s *scope) error {
	switch n := expr.(type) {
	case nil, *ast.Identity, *ast.RecurseDefault, *ast.NullLiteral, *ast.BoolLiteral,
		*ast.IntLiteral, *ast.FloatLiteral:
		return nil

	case *ast.Break:
		if !s.hasLabel(n.Name) {
			d := errors.New(errors.KindCompileError, n.Pos(), "$*label-%s is not defined", n.Name)
			d.Class = string(errors.KindBreakOutsideLabel)
			return d
		}
		return nil

	case *ast.StringLiteral:
		for _, p := range n.Parts {
			if p.Expr != nil {
				if err := resolveExpr(p.Expr, reg, s); err != nil {
					return err
				}
			}
		}
		return nil

	case *ast.Field:
		return resolveExpr(n.Target, reg, s)

	case *ast.Index:
		if err := resolveExpr(n.Target, reg, s); err != nil {
			return err
		}
		return resolveExpr(n.Key, reg, s)

	case *ast.Slice:
		if err := resolveExpr(n.Target, reg, s); err != nil {
			return err
		}
		if err := resolveExpr(n.Lo, reg, s); err != nil {
			return err
		}
		return resolveExpr(n.Hi, reg, s)

	case *ast.Iterate:
		return resolveExpr(n.Target, reg, s)

	case *ast.Pipe:
		if err := resolveExpr(n.Left, reg, s); err != nil {
			return err
		}
		return resolveExpr(n.Right, reg, s)

	case *ast.Comma:
		if err := resolveExpr(n.Left, reg, s); err != nil {
			return err
		}
		return resolveExpr(n.Right, reg, s)

	case *ast.BinOp:
		if err := resolveExpr(n.Left, reg, s); err != nil {
			return err
		}
		return resolveExpr(n.Right, reg, s)

	case *ast.Not:
		return resolveExpr(n.Operand, reg, s)

	case *ast.Neg:
		return resolveExpr(n.Operand, reg, s)

	case *ast.ArrayConstructor:
		return resolveExpr(n.Body, reg, s)

	case *ast.ObjectConstructor:
		for _, e := range n.Entries {
			if e.KeyExpr != nil {
				if err := resolveExpr(e.KeyExpr, reg, s); err != nil {
					return err
				}
			}
			if e.VarValue && !s.hasVar(e.KeyName) {
				return errors.New(errors.KindUndefinedVariable, n.Pos(), "$%s is not defined", e.KeyName)
			}
			if e.Value != nil {
				if err := resolveExpr(e.Value, reg, s); err != nil {
					return err
				}
			}
		}
		return nil

	case *ast.If:
		if err := resolveExpr(n.Cond, reg, s); err != nil {
			return err
		}
		if err := resolveExpr(n.Then, reg, s); err != nil {
			return err
		}
		return resolveExpr(n.Else, reg, s)

	case *ast.TryCatch:
		if err := resolveExpr(n.Body, reg, s); err != nil {
			return err
		}
		return resolveExpr(n.Catch, reg, s)

	case *ast.Optional:
		return resolveExpr(n.Body, reg, s)

	case *ast.Reduce:
		if err := resolveExpr(n.Source, reg, s); err != nil {
			return err
		}
		if err := resolveExpr(n.Init, reg, s); err != nil {
			return err
		}
		return resolveExpr(n.Update, reg, s.withVar(n.Var))

	case *ast.Foreach:
		if err := resolveExpr(n.Source, reg, s); err != nil {
			return err
		}
		if err := resolveExpr(n.Init, reg, s); err != nil {
			return err
		}
		inner := s.withVar(n.Var)
		if err := resolveExpr(n.Update, reg, inner); err != nil {
			return err
		}
		return resolveExpr(n.Extract, reg, inner)

	case *ast.Bind:
		if err := resolveExpr(n.Source, reg, s); err != nil {
			return err
		}
		return resolveExpr(n.Body, reg, s.withVar(n.Var))

	case *ast.VarRef:
		if !s.hasVar(n.Name) {
			return errors.New(errors.KindUndefinedVariable, n.Pos(), "$%s is not defined", n.Name)
		}
		return nil

	case *ast.FuncDef:
		inner := s.withFunc(n.Name, len(n.Params))
		bodyScope := inner
		for _, p := range n.Params {
			if strings.HasPrefix(p, "$") {
				name := strings.TrimPrefix(p, "$")
				bodyScope = bodyScope.withVar(name).withFunc(name, 0)
			} else {
				bodyScope = bodyScope.withFunc(p, 0)
			}
		}
		if err := resolveExpr(n.Body, reg, bodyScope); err != nil {
			return err
		}
		return resolveExpr(n.Rest, reg, inner)

	case *ast.Call:
		arity := len(n.Args)
		if !s.hasFunc(funcKey(n.Name, arity)) && !isSpecialCall(n.Name, arity) {
			if _, ok := reg.Lookup(n.Name, arity); !ok {
				arities := reg.Arities(n.Name)
				if len(arities) > 0 {
					return errors.ArityMismatch(n.Pos(), n.Name, arity, joinInts(arities))
				}
				return errors.UnknownFunction(n.Pos(), n.Name, arity)
			}
		}
		for _, a := range n.Args {
			if err := resolveExpr(a, reg, s); err != nil {
				return err
			}
		}
		return nil

	case *ast.Label:
		return resolveExpr(n.Body, reg, s.withLabel(n.Name))

	case *ast.Assign:
		if !isValidAssignTarget(n.Path) {
			return errors.New(errors.KindCompileError, n.Pos(), "Invalid path expression near %s", n.Path.String()).WithClass(string(errors.KindInvalidAssignTgt))
		}
		if err := resolveExpr(n.Path, reg, s); err != nil {
			return err
		}
		return resolveExpr(n.Value, reg, s)

	default:
		return nil
	}
}

// isValidAssignTarget bounds the left-hand side of `=`/`|=`/etc. to the same
// path-expression subset path.go's evalPaths accepts at runtime, letting
// obviously-invalid targets (`1 = 2`, `(.a + .b) = 3`) fail at compile time
// instead of mid-execution.
func isValidAssignTarget(expr ast.Expr) bool {
	switch n := expr.(type) {
	case *ast.Identity, *ast.RecurseDefault:
		return true
	case *ast.Field:
		return n.Target == nil || isValidAssignTarget(n.Target)
	case *ast.Index:
		return isValidAssignTarget(n.Target)
	case *ast.Slice:
		return isValidAssignTarget(n.Target)
	case *ast.Iterate:
		return isValidAssignTarget(n.Target)
	case *ast.Pipe:
		return isValidAssignTarget(n.Left) && isValidAssignTarget(n.Right)
	case *ast.Comma:
		return isValidAssignTarget(n.Left) && isValidAssignTarget(n.Right)
	case *ast.Optional:
		return isValidAssignTarget(n.Body)
	case *ast.TryCatch:
		return isValidAssignTarget(n.Body)
	case *ast.If:
		return true
	case *ast.Bind, *ast.FuncDef:
		return true
	case *ast.Call:
		switch n.Name {
		case "empty", "select", "recurse", "getpath", "first", "last":
			return true
		}
		return true // user-defined path-able filters are validated at runtime by path.go
	default:
		return false
	}
}

func joinInts(vs []int) string {
	var sb strings.Builder
	for i, v := range vs {
		if i > 0 {
			sb.WriteString(" or ")
		}
		sb.WriteString(itoa(v))
	}
	return sb.String()
}
