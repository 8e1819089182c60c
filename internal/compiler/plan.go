// Package compiler lowers a parsed internal/ast.Expr into an executable
// Plan: it statically resolves every name to a builtin, a lexically visible
// user function, or a free variable; expands the remaining syntactic sugar
// the parser did not already fold away; runs the configured optimization
// passes; and annotates which Call nodes are safe to push down to the
// tabular backend. Grounded on the teacher project's pass-based shape: a
// semantic analyzer that walks the tree once before interpretation
// (internal/semantic/analyzer.go) and a named, togglable optimizer pass list
// (internal/bytecode/optimizer.go) — adapted here to a tree-walking plan
// rather than a bytecode program, since that is the shape the teacher's own
// interpreter (as opposed to its separate bytecode/ package) actually uses
// at the granularity this engine borrows from it.
package compiler

import (
	"fmt"

	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/registry"
)

// Level selects how aggressively the compiler rewrites the tree, matching
// spec's optimization_level configuration knob.
type Level int

const (
	LevelNone Level = iota
	LevelBasic
	LevelAdvanced
)

// ParseLevel maps the external string form of optimization_level to a Level,
// defaulting to Basic for an unrecognized or empty string.
func ParseLevel(s string) Level {
	switch s {
	case "none":
		return LevelNone
	case "advanced":
		return LevelAdvanced
	default:
		return LevelBasic
	}
}

// Options configures one Compile call.
type Options struct {
	Level Level
	// DataframeOptimizations enables the tabular pushdown backend-selection
	// pass; when false, every operator runs on the generic backend and
	// Frame inputs are only ever consumed through row-materializing `.[]`.
	DataframeOptimizations bool
	// KnownVars lists variable names the caller will bind at the root scope
	// (e.g. named arguments supplied alongside the input value) so Resolve
	// does not flag them as undefined.
	KnownVars []string
}

// Plan is the compiled, optimized form of a Filter: an annotated AST ready
// for the executor to walk. The tree itself remains a DAG-by-sharing-only
// structure (spec §9: "cyclic graphs: none are created"); Plan adds
// out-of-band annotations keyed by node identity rather than mutating
// ast.Expr, so the same parsed tree can be recompiled at a different
// optimization level without cloning it.
type Plan struct {
	Root    ast.Expr
	Level   Level
	Tabular map[ast.Expr]bool
	key     string
}

// Key returns the cache key this plan was compiled under.
func (p *Plan) Key() string { return p.key }

// Compile resolves, lowers, and optimizes expr, returning the Plan the
// executor should run. The returned Plan's Root may differ structurally
// from expr: the FoldConstants and CollapseIdentityPipes passes may fold or
// collapse subtrees (Lower is currently the identity transform).
func Compile(expr ast.Expr, reg *registry.Registry, opts Options) (*Plan, error) {
	if err := Resolve(expr, reg, opts.KnownVars); err != nil {
		return nil, err
	}
	lowered := Lower(expr)
	optimized := lowered
	if opts.Level >= LevelBasic {
		optimized = FoldConstants(optimized)
		optimized = CollapseIdentityPipes(optimized)
	}
	tabular := map[ast.Expr]bool{}
	if opts.DataframeOptimizations && opts.Level >= LevelAdvanced {
		AnnotateTabular(optimized, tabular)
	}
	return &Plan{
		Root:    optimized,
		Level:   opts.Level,
		Tabular: tabular,
		key:     fmt.Sprintf("%s\x00%d\x00%v", optimized.String(), opts.Level, opts.DataframeOptimizations),
	}, nil
}

// IsTabularSafe reports whether n was annotated as pushable to the columnar
// backend by AnnotateTabular. A nil Plan (raw, uncompiled evaluation) always
// answers false, which is the conservative/correct default.
func (p *Plan) IsTabularSafe(n ast.Expr) bool {
	if p == nil || p.Tabular == nil {
		return false
	}
	return p.Tabular[n]
}
