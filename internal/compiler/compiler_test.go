package compiler

import (
	"testing"

	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/parser"
	"github.com/tabjq/tabjq/internal/registry"
)

func mustParse(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return expr
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"none":     LevelNone,
		"basic":    LevelBasic,
		"advanced": LevelAdvanced,
		"":         LevelBasic,
		"bogus":    LevelBasic,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestResolveUnknownFunctionFails(t *testing.T) {
	expr := mustParse(t, "totally_not_a_real_filter")
	reg := registry.Default()
	err := Resolve(expr, reg, nil)
	if err == nil {
		t.Fatalf("expected UnknownFunction error")
	}
	diag, ok := err.(*errors.Diagnostic)
	if !ok || diag.Class != string(errors.KindUnknownFunction) {
		t.Fatalf("expected KindUnknownFunction, got %#v", err)
	}
}

func TestResolveArityMismatchFails(t *testing.T) {
	expr := mustParse(t, "has(1; 2; 3)")
	reg := registry.Default()
	err := Resolve(expr, reg, nil)
	if err == nil {
		t.Fatalf("expected ArityMismatch error for has/3")
	}
	diag, ok := err.(*errors.Diagnostic)
	if !ok || diag.Class != string(errors.KindArityMismatch) {
		t.Fatalf("expected KindArityMismatch, got %#v", err)
	}
}

func TestResolveKnownVarsAllowsFreeVariable(t *testing.T) {
	expr := mustParse(t, "$x")
	reg := registry.Default()
	if err := Resolve(expr, reg, []string{"x"}); err != nil {
		t.Fatalf("Resolve with known var $x should succeed: %v", err)
	}
}

func TestResolveUndefinedVariableFails(t *testing.T) {
	expr := mustParse(t, "$undefined_var")
	reg := registry.Default()
	err := Resolve(expr, reg, nil)
	if err == nil {
		t.Fatalf("expected UndefinedVariable error")
	}
}

func TestResolveUserDefinedFunctionShadowsArity(t *testing.T) {
	expr := mustParse(t, "def length(x): x; length(1)")
	reg := registry.Default()
	if err := Resolve(expr, reg, nil); err != nil {
		t.Fatalf("user def length/1 should resolve over the builtin length/0: %v", err)
	}
}

func TestFoldConstantsCollapsesArithmetic(t *testing.T) {
	expr := mustParse(t, "1 + 2")
	folded := FoldConstants(expr)
	lit, ok := folded.(*ast.IntLiteral)
	if !ok {
		t.Fatalf("1 + 2 should fold to an IntLiteral, got %T (%s)", folded, folded.String())
	}
	if lit.Value != 3 {
		t.Fatalf("folded value = %d, want 3", lit.Value)
	}
}

func TestFoldConstantsLeavesNonLiteralAlone(t *testing.T) {
	expr := mustParse(t, ".a + 1")
	folded := FoldConstants(expr)
	if _, ok := folded.(*ast.BinOp); !ok {
		t.Fatalf(".a + 1 should remain a BinOp, got %T", folded)
	}
}

func TestCollapseIdentityPipes(t *testing.T) {
	expr := mustParse(t, ". | .a")
	collapsed := CollapseIdentityPipes(expr)
	if _, ok := collapsed.(*ast.Field); !ok {
		t.Fatalf(". | .a should collapse to a bare Field, got %T (%s)", collapsed, collapsed.String())
	}
}

func TestCompileProducesExecutablePlan(t *testing.T) {
	expr := mustParse(t, ".a + 1")
	reg := registry.Default()
	plan, err := Compile(expr, reg, Options{Level: LevelBasic})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if plan.Root == nil {
		t.Fatalf("compiled plan has a nil Root")
	}
	if plan.Key() == "" {
		t.Fatalf("compiled plan has an empty cache key")
	}
}

func TestCompilePropagatesResolveErrors(t *testing.T) {
	expr := mustParse(t, "not_a_real_function")
	reg := registry.Default()
	if _, err := Compile(expr, reg, Options{Level: LevelBasic}); err == nil {
		t.Fatalf("expected Compile to fail for an unknown function")
	}
}

func TestAnnotateTabularMarksPureSelectAndMap(t *testing.T) {
	expr := mustParse(t, "select(.a > 1)")
	tabular := map[ast.Expr]bool{}
	AnnotateTabular(expr, tabular)
	if !tabular[expr] {
		t.Fatalf("select(.a > 1) should be annotated tabular-safe")
	}

	mapExpr := mustParse(t, "map(.a > 1)")
	tabular = map[ast.Expr]bool{}
	AnnotateTabular(mapExpr, tabular)
	if !tabular[mapExpr] {
		t.Fatalf("map(.a > 1) should be annotated tabular-safe")
	}
}

func TestAnnotateTabularRejectsImpureBody(t *testing.T) {
	expr := mustParse(t, "select(foo)")
	tabular := map[ast.Expr]bool{}
	AnnotateTabular(expr, tabular)
	if tabular[expr] {
		t.Fatalf("select(foo) with a user-defined-call body should not be tabular-safe")
	}
}

func TestPlanIsTabularSafeNilSafe(t *testing.T) {
	var p *Plan
	expr := mustParse(t, ".")
	if p.IsTabularSafe(expr) {
		t.Fatalf("nil Plan should conservatively answer false")
	}
}

func TestCacheReusesCompiledPlan(t *testing.T) {
	reg := registry.Default()
	cache, err := NewCache(reg, 0)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	expr := mustParse(t, ".a + 1")
	opts := Options{Level: LevelBasic}

	p1, err := cache.Compile(expr, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	p2, err := cache.Compile(expr, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("second Compile with identical (expr, opts) should return the cached Plan")
	}
	if cache.Len() != 1 {
		t.Fatalf("cache.Len() = %d, want 1", cache.Len())
	}
}

func TestCacheMissesOnDifferentOptions(t *testing.T) {
	reg := registry.Default()
	cache, err := NewCache(reg, 0)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	expr := mustParse(t, ".a + 1")

	p1, err := cache.Compile(expr, Options{Level: LevelNone})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	p2, err := cache.Compile(expr, Options{Level: LevelAdvanced, DataframeOptimizations: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if p1 == p2 {
		t.Fatalf("different optimization levels should produce distinct cache entries")
	}
	if cache.Len() != 2 {
		t.Fatalf("cache.Len() = %d, want 2", cache.Len())
	}
}
