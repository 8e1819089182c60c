package compiler

import "github.com/tabjq/tabjq/internal/ast"

// FoldConstants collapses purely literal subtrees the parser left as BinOp/
// Not/Neg nodes (arithmetic and boolean combinations of literals) into a
// single literal node, the tree-rewrite analogue of the teacher's
// internal/bytecode/optimizer.go constant-folding pass. Only total, side
// effect free operations over Null/Bool/Int/Float literals are folded;
// anything that could raise a TypeError at runtime (e.g. `"a" + 1`) is left
// alone so the diagnostic still surfaces at evaluation time with the right
// position, matching spec §4.4's "Basic" optimization level description.
func FoldConstants(expr ast.Expr) ast.Expr {
	return rewrite(expr, foldNode)
}

// CollapseIdentityPipes removes `. | X` and `X | .` links introduced by
// macro-like call expansion (the def prelude in particular chains many
// single-purpose pipes), shortening the tree the executor walks without
// changing its semantics, since piping through Identity is a no-op.
func CollapseIdentityPipes(expr ast.Expr) ast.Expr {
	return rewrite(expr, collapseNode)
}

// rewrite applies fn bottom-up: children are rewritten first, then fn is
// given the chance to replace the node itself, letting a single fold at a
// leaf enable a fold at its parent in the same pass.
func rewrite(expr ast.Expr, fn func(ast.Expr) ast.Expr) ast.Expr {
	if expr == nil {
		return nil
	}
	switch n := expr.(type) {
	case *ast.Pipe:
		n.Left = rewrite(n.Left, fn)
		n.Right = rewrite(n.Right, fn)
	case *ast.Comma:
		n.Left = rewrite(n.Left, fn)
		n.Right = rewrite(n.Right, fn)
	case *ast.BinOp:
		n.Left = rewrite(n.Left, fn)
		n.Right = rewrite(n.Right, fn)
	case *ast.Not:
		n.Operand = rewrite(n.Operand, fn)
	case *ast.Neg:
		n.Operand = rewrite(n.Operand, fn)
	case *ast.Field:
		if n.Target != nil {
			n.Target = rewrite(n.Target, fn)
		}
	case *ast.Index:
		n.Target = rewrite(n.Target, fn)
		n.Key = rewrite(n.Key, fn)
	case *ast.Slice:
		n.Target = rewrite(n.Target, fn)
		if n.Lo != nil {
			n.Lo = rewrite(n.Lo, fn)
		}
		if n.Hi != nil {
			n.Hi = rewrite(n.Hi, fn)
		}
	case *ast.Iterate:
		n.Target = rewrite(n.Target, fn)
	case *ast.ArrayConstructor:
		if n.Body != nil {
			n.Body = rewrite(n.Body, fn)
		}
	case *ast.ObjectConstructor:
		for i := range n.Entries {
			if n.Entries[i].KeyExpr != nil {
				n.Entries[i].KeyExpr = rewrite(n.Entries[i].KeyExpr, fn)
			}
			if n.Entries[i].Value != nil {
				n.Entries[i].Value = rewrite(n.Entries[i].Value, fn)
			}
		}
	case *ast.If:
		n.Cond = rewrite(n.Cond, fn)
		n.Then = rewrite(n.Then, fn)
		if n.Else != nil {
			n.Else = rewrite(n.Else, fn)
		}
	case *ast.TryCatch:
		n.Body = rewrite(n.Body, fn)
		if n.Catch != nil {
			n.Catch = rewrite(n.Catch, fn)
		}
	case *ast.Optional:
		n.Body = rewrite(n.Body, fn)
	case *ast.Reduce:
		n.Source = rewrite(n.Source, fn)
		n.Init = rewrite(n.Init, fn)
		n.Update = rewrite(n.Update, fn)
	case *ast.Foreach:
		n.Source = rewrite(n.Source, fn)
		n.Init = rewrite(n.Init, fn)
		n.Update = rewrite(n.Update, fn)
		if n.Extract != nil {
			n.Extract = rewrite(n.Extract, fn)
		}
	case *ast.Bind:
		n.Source = rewrite(n.Source, fn)
		n.Body = rewrite(n.Body, fn)
	case *ast.FuncDef:
		n.Body = rewrite(n.Body, fn)
		n.Rest = rewrite(n.Rest, fn)
	case *ast.Call:
		for i := range n.Args {
			n.Args[i] = rewrite(n.Args[i], fn)
		}
	case *ast.Label:
		n.Body = rewrite(n.Body, fn)
	case *ast.Assign:
		n.Path = rewrite(n.Path, fn)
		n.Value = rewrite(n.Value, fn)
	case *ast.StringLiteral:
		for i := range n.Parts {
			if n.Parts[i].Expr != nil {
				n.Parts[i].Expr = rewrite(n.Parts[i].Expr, fn)
			}
		}
	}
	return fn(expr)
}

func foldNode(expr ast.Expr) ast.Expr {
	switch n := expr.(type) {
	case *ast.Not:
		if b, ok := n.Operand.(*ast.BoolLiteral); ok {
			return &ast.BoolLiteral{Base: n.Base, Value: !b.Value}
		}
	case *ast.Neg:
		switch v := n.Operand.(type) {
		case *ast.IntLiteral:
			return &ast.IntLiteral{Base: n.Base, Value: -v.Value}
		case *ast.FloatLiteral:
			return &ast.FloatLiteral{Base: n.Base, Value: -v.Value}
		}
	case *ast.BinOp:
		return foldBinOp(n)
	}
	return expr
}

func foldBinOp(n *ast.BinOp) ast.Expr {
	lf, lok := asFoldFloat(n.Left)
	rf, rok := asFoldFloat(n.Right)
	_, lInt := n.Left.(*ast.IntLiteral)
	_, rInt := n.Right.(*ast.IntLiteral)
	bothInt := lInt && rInt

	switch n.Op {
	case ast.OpAnd:
		if lb, ok := n.Left.(*ast.BoolLiteral); ok {
			if !lb.Value {
				return &ast.BoolLiteral{Base: n.Base, Value: false}
			}
		}
		return n
	case ast.OpOr:
		if lb, ok := n.Left.(*ast.BoolLiteral); ok {
			if lb.Value {
				return &ast.BoolLiteral{Base: n.Base, Value: true}
			}
		}
		return n
	}

	if !lok || !rok {
		return n
	}

	switch n.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		result, ok := foldArith(n.Op, lf, rf, bothInt)
		if !ok {
			return n
		}
		if bothInt && n.Op != ast.OpDiv {
			return &ast.IntLiteral{Base: n.Base, Value: int64(result)}
		}
		return &ast.FloatLiteral{Base: n.Base, Value: result}
	}
	return n
}

func foldArith(op ast.BinOpKind, l, r float64, bothInt bool) (float64, bool) {
	switch op {
	case ast.OpAdd:
		return l + r, true
	case ast.OpSub:
		return l - r, true
	case ast.OpMul:
		return l * r, true
	case ast.OpDiv:
		if r == 0 {
			return 0, false // preserve the runtime DivideByZero diagnostic
		}
		return l / r, true
	case ast.OpMod:
		if !bothInt || int64(r) == 0 {
			return 0, false
		}
		return float64(int64(l) % int64(r)), true
	}
	return 0, false
}

func asFoldFloat(expr ast.Expr) (float64, bool) {
	switch n := expr.(type) {
	case *ast.IntLiteral:
		return float64(n.Value), true
	case *ast.FloatLiteral:
		return n.Value, true
	default:
		return 0, false
	}
}

func collapseNode(expr ast.Expr) ast.Expr {
	p, ok := expr.(*ast.Pipe)
	if !ok {
		return expr
	}
	if _, ok := p.Left.(*ast.Identity); ok {
		return p.Right
	}
	if _, ok := p.Right.(*ast.Identity); ok {
		return p.Left
	}
	return p
}
