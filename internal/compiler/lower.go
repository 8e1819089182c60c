package compiler

import "github.com/tabjq/tabjq/internal/ast"

// Lower expands syntactic sugar the parser deliberately leaves folded (so
// that String() round-trips the source faithfully) into the smaller core
// form the executor actually walks. Grounded on the teacher's
// internal/bytecode/compiler_desugar.go pass, which runs a single rewrite
// sweep over the parsed tree before code generation rather than teaching the
// interpreter every surface form directly.
//
// Currently this is the identity transform: eval.go and path.go already
// special-case every sugar node (Optional, RecurseDefault, Slice) at low
// enough cost that desugaring them would only duplicate logic the executor
// needs anyway for error-position fidelity (`a?` must still report errors at
// `a`'s position, which a TryCatch rewrite would blur). Lower exists as the
// named pass point future sugar (e.g. `?//`, `getpath` shorthand) hangs off
// of, per spec §4.4's "Lower" stage.
func Lower(expr ast.Expr) ast.Expr {
	return expr
}
