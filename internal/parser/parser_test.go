package parser

import (
	"testing"

	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/errors"
)

func mustParse(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return expr
}

func TestParseIdentityAndField(t *testing.T) {
	if _, ok := mustParse(t, ".").(*ast.Identity); !ok {
		t.Fatalf("'.' did not parse to *ast.Identity")
	}
	field, ok := mustParse(t, ".foo").(*ast.Field)
	if !ok {
		t.Fatalf(".foo did not parse to *ast.Field")
	}
	if field.Name != "foo" {
		t.Fatalf(".foo field name = %q, want foo", field.Name)
	}
}

func TestParseRecursiveDescent(t *testing.T) {
	if _, ok := mustParse(t, "..").(*ast.RecurseDefault); !ok {
		t.Fatalf("'..' did not parse to *ast.RecurseDefault")
	}
}

func TestParseBracketAccessWithArbitraryKey(t *testing.T) {
	expr := mustParse(t, `.["US City Name"]`)
	idx, ok := expr.(*ast.Index)
	if !ok {
		t.Fatalf(`.["US City Name"] did not parse to *ast.Index, got %T`, expr)
	}
	lit, ok := idx.Key.(*ast.StringLiteral)
	if !ok || lit.Parts[0].Text != "US City Name" {
		t.Fatalf("bracket key = %#v, want string literal 'US City Name'", idx.Key)
	}
}

func TestParseSliceAndIterate(t *testing.T) {
	slice, ok := mustParse(t, ".[1:]").(*ast.Slice)
	if !ok {
		t.Fatalf(".[1:] did not parse to *ast.Slice")
	}
	if slice.Hi != nil {
		t.Fatalf(".[1:] should leave Hi nil, got %v", slice.Hi)
	}

	if _, ok := mustParse(t, ".[]").(*ast.Iterate); !ok {
		t.Fatalf(".[] did not parse to *ast.Iterate")
	}
}

func TestParsePrecedenceArithmeticBeforeComparison(t *testing.T) {
	expr := mustParse(t, "1 + 2 == 3")
	bin, ok := expr.(*ast.BinOp)
	if !ok || bin.Op != ast.OpEq {
		t.Fatalf("top-level op = %#v, want ==", expr)
	}
	left, ok := bin.Left.(*ast.BinOp)
	if !ok || left.Op != ast.OpAdd {
		t.Fatalf("left operand = %#v, want a + BinOp", bin.Left)
	}
}

func TestParsePipeAndCommaAssociativity(t *testing.T) {
	expr := mustParse(t, "a, b | c")
	pipe, ok := expr.(*ast.Pipe)
	if !ok {
		t.Fatalf("'a, b | c' did not parse to a Pipe at the top, got %T", expr)
	}
	if _, ok := pipe.Left.(*ast.Comma); !ok {
		t.Fatalf("pipe's left side should be the comma group, got %T", pipe.Left)
	}
}

func TestParseUnaryMinusBindsTighterThanMultiplication(t *testing.T) {
	expr := mustParse(t, "-1 * 2")
	bin, ok := expr.(*ast.BinOp)
	if !ok || bin.Op != ast.OpMul {
		t.Fatalf("top-level op = %#v, want *", expr)
	}
	if _, ok := bin.Left.(*ast.Neg); !ok {
		t.Fatalf("left operand of -1*2 should be Neg, got %T", bin.Left)
	}
}

func TestParseObjectConstructorShorthand(t *testing.T) {
	expr := mustParse(t, "{a, b: 2}")
	obj, ok := expr.(*ast.ObjectConstructor)
	if !ok {
		t.Fatalf("object constructor did not parse, got %T", expr)
	}
	if len(obj.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(obj.Entries))
	}
}

func TestParseIfTryReduceForeach(t *testing.T) {
	if _, ok := mustParse(t, "if . then 1 else 2 end").(*ast.If); !ok {
		t.Fatalf("if/then/else did not parse to *ast.If")
	}
	if _, ok := mustParse(t, "try . catch .").(*ast.TryCatch); !ok {
		t.Fatalf("try/catch did not parse to *ast.TryCatch")
	}
	if _, ok := mustParse(t, "reduce .[] as $x (0; . + $x)").(*ast.Reduce); !ok {
		t.Fatalf("reduce did not parse to *ast.Reduce")
	}
	if _, ok := mustParse(t, "foreach .[] as $x (0; . + $x; .)").(*ast.Foreach); !ok {
		t.Fatalf("foreach did not parse to *ast.Foreach")
	}
}

func TestParseFuncDefChainsRest(t *testing.T) {
	expr := mustParse(t, "def inc: . + 1; inc")
	def, ok := expr.(*ast.FuncDef)
	if !ok {
		t.Fatalf("def did not parse to *ast.FuncDef, got %T", expr)
	}
	if def.Name != "inc" {
		t.Fatalf("def name = %q, want inc", def.Name)
	}
	if def.Rest == nil {
		t.Fatalf("def.Rest should hold the trailing program")
	}
}

func TestParseCallWithSemicolonArgs(t *testing.T) {
	expr := mustParse(t, "f(1; 2)")
	call, ok := expr.(*ast.Call)
	if !ok {
		t.Fatalf("call did not parse to *ast.Call, got %T", expr)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
}

func TestParseVariableBindAndRef(t *testing.T) {
	expr := mustParse(t, ". as $x | $x")
	bind, ok := expr.(*ast.Bind)
	if !ok {
		t.Fatalf("'as' did not parse to *ast.Bind, got %T", expr)
	}
	ref, ok := bind.Body.(*ast.VarRef)
	if !ok || ref.Name != "x" {
		t.Fatalf("bind.Body = %#v, want VarRef(x)", bind.Body)
	}
}

func TestParseAssignmentForms(t *testing.T) {
	cases := map[string]ast.AssignOp{
		".a = 1":  ast.AssignSet,
		".a |= 1": ast.AssignUpdate,
		".a += 1": ast.AssignAdd,
		".a -= 1": ast.AssignSub,
		".a *= 1": ast.AssignMul,
		".a /= 1": ast.AssignDiv,
		".a %= 1": ast.AssignMod,
		".a //= 1": ast.AssignAlt,
	}
	for src, op := range cases {
		expr := mustParse(t, src)
		assign, ok := expr.(*ast.Assign)
		if !ok {
			t.Fatalf("%q did not parse to *ast.Assign, got %T", src, expr)
		}
		if assign.Op != op {
			t.Fatalf("%q op = %v, want %v", src, assign.Op, op)
		}
	}
}

func TestParseErrorClasses(t *testing.T) {
	cases := map[string]string{
		`"unterminated`: "UnterminatedString",
		".a | ":         "UnexpectedToken",
		".a b":           "TrailingInput",
	}
	for src, wantClass := range cases {
		_, err := Parse(src)
		if err == nil {
			t.Fatalf("%q: expected a parse error", src)
		}
		diag, ok := err.(*errors.Diagnostic)
		if !ok {
			t.Fatalf("%q: expected *errors.Diagnostic, got %T", src, err)
		}
		if diag.Class != wantClass {
			t.Fatalf("%q: class = %q, want %q", src, diag.Class, wantClass)
		}
	}
}

// TestParseRoundTripBasic exercises spec invariant 1: pretty-printing a parsed
// AST and re-parsing it yields a structurally equal tree (approximated here
// by a second round of String() agreeing with the first, since Expr has no
// exported deep-equal of its own).
func TestParseRoundTripBasic(t *testing.T) {
	sources := []string{
		".",
		".a.b",
		".[0]",
		".[1:2]",
		"1 + 2 * 3",
		"map(select(. > 2))",
		`{a: 1, b: (2 + 3)}`,
		"if . then 1 else 2 end",
		"reduce .[] as $x (0; . + $x)",
		". as $x | $x + 1",
	}
	for _, src := range sources {
		expr := mustParse(t, src)
		printed := expr.String()
		reparsed, err := Parse(printed)
		if err != nil {
			t.Fatalf("%q: re-parsing printed form %q failed: %v", src, printed, err)
		}
		if reparsed.String() != printed {
			t.Fatalf("%q: round-trip mismatch: first print %q, second print %q", src, printed, reparsed.String())
		}
	}
}
