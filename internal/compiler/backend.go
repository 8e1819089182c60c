package compiler

import "github.com/tabjq/tabjq/internal/ast"

// AnnotateTabular marks every `map(BODY)` / `select(BODY)` Call node whose
// BODY is provably row-independent and side-effect free as safe for the
// executor's columnar pushdown path (executor/tabular.go), recording the
// decision in tabular keyed by node identity. Grounded on the teacher's
// internal/bytecode/optimizer.go backend-selection pass, which annotates
// bytecode blocks for a vector unit the same way; here the unit is
// value.Frame/value.Series rather than a SIMD register file, so the bar for
// "safe" is narrower: only expressions built from field access, literals,
// comparisons, and arithmetic qualify, since those are the only shapes
// executor/tabular.go knows how to run without falling back to per-row
// object materialization anyway. Anything wider (a user-defined call, a
// nested pipe with `..`, an object/array constructor) is left unmarked — the
// executor still runs it correctly, just on the generic row-by-row path.
func AnnotateTabular(expr ast.Expr, tabular map[ast.Expr]bool) {
	walkCalls(expr, func(c *ast.Call) {
		if len(c.Args) != 1 {
			return
		}
		switch c.Name {
		case "map", "select":
			if isTabularPure(c.Args[0]) {
				tabular[c] = true
			}
		}
	})
}

// isTabularPure reports whether expr only reads fields of "." (directly or
// through arithmetic/comparison/boolean combination) and produces exactly
// one value per row, with no iteration, no call to a user-defined function,
// and no construction of a new array/object shape.
func isTabularPure(expr ast.Expr) bool {
	switch n := expr.(type) {
	case *ast.Identity:
		return true
	case *ast.NullLiteral, *ast.BoolLiteral, *ast.IntLiteral, *ast.FloatLiteral:
		return true
	case *ast.StringLiteral:
		for _, p := range n.Parts {
			if p.Expr != nil && !isTabularPure(p.Expr) {
				return false
			}
		}
		return true
	case *ast.Field:
		if n.Target == nil {
			return true
		}
		return isTabularPure(n.Target)
	case *ast.BinOp:
		return isTabularPure(n.Left) && isTabularPure(n.Right)
	case *ast.Not:
		return isTabularPure(n.Operand)
	case *ast.Neg:
		return isTabularPure(n.Operand)
	case *ast.If:
		if n.Else == nil {
			return isTabularPure(n.Cond) && isTabularPure(n.Then)
		}
		return isTabularPure(n.Cond) && isTabularPure(n.Then) && isTabularPure(n.Else)
	default:
		return false
	}
}

// walkCalls visits every Call node reachable from expr, including those
// nested inside other Call arguments, so annotating `map(select(.x > 1))`
// considers the inner select independently of the outer map.
func walkCalls(expr ast.Expr, visit func(*ast.Call)) {
	if expr == nil {
		return
	}
	switch n := expr.(type) {
	case *ast.Pipe:
		walkCalls(n.Left, visit)
		walkCalls(n.Right, visit)
	case *ast.Comma:
		walkCalls(n.Left, visit)
		walkCalls(n.Right, visit)
	case *ast.BinOp:
		walkCalls(n.Left, visit)
		walkCalls(n.Right, visit)
	case *ast.Not:
		walkCalls(n.Operand, visit)
	case *ast.Neg:
		walkCalls(n.Operand, visit)
	case *ast.Field:
		if n.Target != nil {
			walkCalls(n.Target, visit)
		}
	case *ast.Index:
		walkCalls(n.Target, visit)
		walkCalls(n.Key, visit)
	case *ast.Slice:
		walkCalls(n.Target, visit)
		walkCalls(n.Lo, visit)
		walkCalls(n.Hi, visit)
	case *ast.Iterate:
		walkCalls(n.Target, visit)
	case *ast.ArrayConstructor:
		walkCalls(n.Body, visit)
	case *ast.ObjectConstructor:
		for _, e := range n.Entries {
			walkCalls(e.KeyExpr, visit)
			walkCalls(e.Value, visit)
		}
	case *ast.If:
		walkCalls(n.Cond, visit)
		walkCalls(n.Then, visit)
		walkCalls(n.Else, visit)
	case *ast.TryCatch:
		walkCalls(n.Body, visit)
		walkCalls(n.Catch, visit)
	case *ast.Optional:
		walkCalls(n.Body, visit)
	case *ast.Reduce:
		walkCalls(n.Source, visit)
		walkCalls(n.Init, visit)
		walkCalls(n.Update, visit)
	case *ast.Foreach:
		walkCalls(n.Source, visit)
		walkCalls(n.Init, visit)
		walkCalls(n.Update, visit)
		walkCalls(n.Extract, visit)
	case *ast.Bind:
		walkCalls(n.Source, visit)
		walkCalls(n.Body, visit)
	case *ast.FuncDef:
		walkCalls(n.Body, visit)
		walkCalls(n.Rest, visit)
	case *ast.Call:
		for _, a := range n.Args {
			walkCalls(a, visit)
		}
		visit(n)
	case *ast.Label:
		walkCalls(n.Body, visit)
	case *ast.Assign:
		walkCalls(n.Path, visit)
		walkCalls(n.Value, visit)
	case *ast.StringLiteral:
		for _, p := range n.Parts {
			if p.Expr != nil {
				walkCalls(p.Expr, visit)
			}
		}
	}
}
