// Package ast defines the node types of the filter-language abstract syntax
// tree. Every node carries a source Position for diagnostics, mirroring the
// Pos()-on-every-node contract of the teacher project's ast package.
package ast

import (
	"fmt"
	"strings"

	"github.com/tabjq/tabjq/internal/errors"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() errors.Position
	String() string
}

// Expr is any node that evaluates to a stream of values. The filter language
// has no statements distinct from expressions: every production in the
// grammar is an Expr.
type Expr interface {
	Node
	exprNode()
}

// Base is embedded by every node to satisfy Node.Pos. At returns a Base
// anchored at pos, the usual way to construct one from the parser.
type Base struct {
	Position errors.Position
}

func (b Base) Pos() errors.Position { return b.Position }

// At constructs a Base at the given position.
func At(pos errors.Position) Base { return Base{Position: pos} }

// Identity is `.`.
type Identity struct {
	Base
}

func (*Identity) exprNode() {}
func (i *Identity) String() string { return "." }

// RecurseDefault is `..`, sugar for `recurse`.
type RecurseDefault struct {
	Base
}

func (*RecurseDefault) exprNode()     {}
func (r *RecurseDefault) String() string { return ".." }

// Literal kinds.

type NullLiteral struct{ Base }

func (*NullLiteral) exprNode()        {}
func (*NullLiteral) String() string   { return "null" }

type BoolLiteral struct {
	Base
	Value bool
}

func (*BoolLiteral) exprNode() {}
func (b *BoolLiteral) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

type IntLiteral struct {
	Base
	Value int64
}

func (*IntLiteral) exprNode()        {}
func (n *IntLiteral) String() string { return fmt.Sprintf("%d", n.Value) }

type FloatLiteral struct {
	Base
	Value float64
}

func (*FloatLiteral) exprNode()        {}
func (n *FloatLiteral) String() string { return fmt.Sprintf("%g", n.Value) }

// StringPart is one segment of a StringLiteral: either a literal Text run or
// an interpolated Expr.
type StringPart struct {
	Text string
	Expr Expr
}

// StringLiteral is a (possibly interpolated) double-quoted string, or a
// format string when Format is non-empty (e.g. `@base64 "\(.)"`).
type StringLiteral struct {
	Base
	Parts  []StringPart
	Format string
}

func (*StringLiteral) exprNode() {}
func (s *StringLiteral) String() string {
	var sb strings.Builder
	if s.Format != "" {
		sb.WriteString("@" + s.Format + " ")
	}
	sb.WriteByte('"')
	for _, p := range s.Parts {
		if p.Expr != nil {
			sb.WriteString("\\(")
			sb.WriteString(p.Expr.String())
			sb.WriteByte(')')
		} else {
			sb.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(p.Text))
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// IsConstant reports whether a StringLiteral has no interpolation parts, in
// which case the compiler can fold it to a plain string constant.
func (s *StringLiteral) IsConstant() bool {
	for _, p := range s.Parts {
		if p.Expr != nil {
			return false
		}
	}
	return true
}

// Field is `.name` or, chained off some other expression, `expr.name`.
// Target is nil for a bare leading `.name` (Target defaults to Identity).
type Field struct {
	Base
	Target   Expr
	Name     string
	Optional bool
}

func (*Field) exprNode() {}
func (f *Field) String() string {
	opt := ""
	if f.Optional {
		opt = "?"
	}
	if f.Target == nil {
		return "." + f.Name + opt
	}
	return f.Target.String() + "." + f.Name + opt
}

// Index is `.[expr]` / `expr[idx]`, bracket access with an arbitrary key
// expression (covers both string-keyed object access and integer array
// indexing; the value model disambiguates at runtime).
type Index struct {
	Base
	Target   Expr
	Key      Expr
	Optional bool
}

func (*Index) exprNode() {}
func (ix *Index) String() string {
	opt := ""
	if ix.Optional {
		opt = "?"
	}
	return fmt.Sprintf("%s[%s]%s", ix.Target.String(), ix.Key.String(), opt)
}

// Slice is `.[lo:hi]`; Lo and Hi may each be nil to mean "from the start" /
// "to the end".
type Slice struct {
	Base
	Target   Expr
	Lo, Hi   Expr
	Optional bool
}

func (*Slice) exprNode() {}
func (s *Slice) String() string {
	lo, hi := "", ""
	if s.Lo != nil {
		lo = s.Lo.String()
	}
	if s.Hi != nil {
		hi = s.Hi.String()
	}
	opt := ""
	if s.Optional {
		opt = "?"
	}
	return fmt.Sprintf("%s[%s:%s]%s", s.Target.String(), lo, hi, opt)
}

// Iterate is `.[]`, streaming every element of an array or value of an
// object (or, over a Frame, every row as an Object).
type Iterate struct {
	Base
	Target   Expr
	Optional bool
}

func (*Iterate) exprNode() {}
func (it *Iterate) String() string {
	opt := ""
	if it.Optional {
		opt = "?"
	}
	return it.Target.String() + "[]" + opt
}

// Pipe is `a | b`.
type Pipe struct {
	Base
	Left, Right Expr
}

func (*Pipe) exprNode() {}
func (p *Pipe) String() string { return p.Left.String() + " | " + p.Right.String() }

// Comma is `a, b`.
type Comma struct {
	Base
	Left, Right Expr
}

func (*Comma) exprNode() {}
func (c *Comma) String() string { return c.Left.String() + ", " + c.Right.String() }

// BinOp covers arithmetic, comparison, and `//` (the Alternate operator).
type BinOpKind string

const (
	OpAdd BinOpKind = "+"
	OpSub BinOpKind = "-"
	OpMul BinOpKind = "*"
	OpDiv BinOpKind = "/"
	OpMod BinOpKind = "%"
	OpEq  BinOpKind = "=="
	OpNe  BinOpKind = "!="
	OpLt  BinOpKind = "<"
	OpLe  BinOpKind = "<="
	OpGt  BinOpKind = ">"
	OpGe  BinOpKind = ">="
	OpAlt BinOpKind = "//"
	OpAnd BinOpKind = "and"
	OpOr  BinOpKind = "or"
)

type BinOp struct {
	Base
	Op          BinOpKind
	Left, Right Expr
}

func (*BinOp) exprNode() {}
func (b *BinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

// Not is the unary `not` postfix-compare prefix keyword.
type Not struct {
	Base
	Operand Expr
}

func (*Not) exprNode()          {}
func (n *Not) String() string { return "(not " + n.Operand.String() + ")" }

// Neg is unary `-expr`.
type Neg struct {
	Base
	Operand Expr
}

func (*Neg) exprNode()          {}
func (n *Neg) String() string { return "(-" + n.Operand.String() + ")" }

// ArrayConstructor is `[expr]` (expr may be nil for the empty array `[]`).
type ArrayConstructor struct {
	Base
	Body Expr
}

func (*ArrayConstructor) exprNode() {}
func (a *ArrayConstructor) String() string {
	if a.Body == nil {
		return "[]"
	}
	return "[" + a.Body.String() + "]"
}

// ObjectEntry is one `key: value` (or shorthand `key`) pair of an object
// constructor. Key may be a bare identifier, a string (possibly
// interpolated), or a parenthesized expression (`(expr): value`).
type ObjectEntry struct {
	KeyName  string // set when the key is a bare identifier or $var shorthand
	KeyExpr  Expr   // set when the key is a string literal or (expr)
	Value    Expr   // nil for `{$var}` and an interpolated-string shorthand key; the parser gives other shorthands a Field value
	VarValue bool   // true for `{$var}` shorthand: value is "$var"
}

type ObjectConstructor struct {
	Base
	Entries []ObjectEntry
}

func (*ObjectConstructor) exprNode() {}
func (o *ObjectConstructor) String() string {
	parts := make([]string, len(o.Entries))
	for i, e := range o.Entries {
		switch {
		case e.KeyExpr != nil && e.Value != nil:
			parts[i] = "(" + e.KeyExpr.String() + "): " + e.Value.String()
		case e.Value != nil:
			parts[i] = e.KeyName + ": " + e.Value.String()
		case e.VarValue:
			parts[i] = "$" + e.KeyName
		case e.KeyExpr != nil:
			parts[i] = e.KeyExpr.String()
		default:
			parts[i] = e.KeyName
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// If is `if c then t [elif c2 then t2]... [else e] end`. Elifs are folded
// left-to-right into Else (a chain of nested Ifs) by the parser.
type If struct {
	Base
	Cond Expr
	Then Expr
	Else Expr // nil means "else ."
}

func (*If) exprNode() {}
func (i *If) String() string {
	if i.Else == nil {
		return fmt.Sprintf("if %s then %s end", i.Cond, i.Then)
	}
	return fmt.Sprintf("if %s then %s else %s end", i.Cond, i.Then, i.Else)
}

// TryCatch is `try X catch Y` (Catch may be nil for the one-armed `try X`,
// equivalent to `try X catch empty`).
type TryCatch struct {
	Base
	Body  Expr
	Catch Expr
}

func (*TryCatch) exprNode() {}
func (t *TryCatch) String() string {
	if t.Catch == nil {
		return "try " + t.Body.String()
	}
	return "try " + t.Body.String() + " catch " + t.Catch.String()
}

// Optional is the postfix `?` form. Unlike `try X`, it drops only
// suppressible errors (TypeError, KeyError, ValueError) and lets every other
// error propagate.
type Optional struct {
	Base
	Body Expr
}

func (*Optional) exprNode()          {}
func (o *Optional) String() string { return o.Body.String() + "?" }

// Reduce is `reduce Source as $Var (Init; Update)`.
type Reduce struct {
	Base
	Source Expr
	Var    string
	Init   Expr
	Update Expr
}

func (*Reduce) exprNode() {}
func (r *Reduce) String() string {
	return fmt.Sprintf("reduce %s as $%s (%s; %s)", r.Source, r.Var, r.Init, r.Update)
}

// Foreach is `foreach Source as $Var (Init; Update[; Extract])`.
type Foreach struct {
	Base
	Source  Expr
	Var     string
	Init    Expr
	Update  Expr
	Extract Expr // nil means "extract the updated state itself"
}

func (*Foreach) exprNode() {}
func (f *Foreach) String() string {
	if f.Extract == nil {
		return fmt.Sprintf("foreach %s as $%s (%s; %s)", f.Source, f.Var, f.Init, f.Update)
	}
	return fmt.Sprintf("foreach %s as $%s (%s; %s; %s)", f.Source, f.Var, f.Init, f.Update, f.Extract)
}

// Bind is `Source as $Var | Body`.
type Bind struct {
	Base
	Source Expr
	Var    string
	Body   Expr
}

func (*Bind) exprNode() {}
func (b *Bind) String() string {
	return fmt.Sprintf("%s as $%s | %s", b.Source, b.Var, b.Body)
}

// VarRef is `$name`.
type VarRef struct {
	Base
	Name string
}

func (*VarRef) exprNode() {}
func (v *VarRef) String() string { return "$" + v.Name }

// FuncDef is `def name(p1; p2; ...): Body; Rest`. Rest is the remainder of
// the pipeline the definition is scoped over; it is nil only transiently
// while the parser assembles a top-level program (the final Rest is always
// set by the time parsing completes).
type FuncDef struct {
	Base
	Name   string
	Params []string
	Body   Expr
	Rest   Expr
}

func (*FuncDef) exprNode() {}
func (f *FuncDef) String() string {
	if len(f.Params) == 0 {
		return fmt.Sprintf("def %s: %s; %s", f.Name, f.Body, f.Rest)
	}
	return fmt.Sprintf("def %s(%s): %s; %s", f.Name, strings.Join(f.Params, "; "), f.Body, f.Rest)
}

// Call is `name(arg1; arg2; ...)`, or a bare `name` when Args is empty.
type Call struct {
	Base
	Name string
	Args []Expr
}

func (*Call) exprNode() {}
func (c *Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + "(" + strings.Join(parts, "; ") + ")"
}

// Label/Break: `label $out | ... break $out`.
type Label struct {
	Base
	Name string
	Body Expr
}

func (*Label) exprNode() {}
func (l *Label) String() string { return fmt.Sprintf("label $%s | %s", l.Name, l.Body) }

type Break struct {
	Base
	Name string
}

func (*Break) exprNode() {}
func (b *Break) String() string { return "break $" + b.Name }

// Assign covers `=`, `|=`, and the arithmetic-update forms (`+=`, `-=`,
// `*=`, `/=`, `%=`, `//=`). Path is the left-hand path expression; Value is
// the right-hand expression.
type AssignOp string

const (
	AssignSet     AssignOp = "="
	AssignUpdate  AssignOp = "|="
	AssignAdd     AssignOp = "+="
	AssignSub     AssignOp = "-="
	AssignMul     AssignOp = "*="
	AssignDiv     AssignOp = "/="
	AssignMod     AssignOp = "%="
	AssignAlt     AssignOp = "//="
)

type Assign struct {
	Base
	Op    AssignOp
	Path  Expr
	Value Expr
}

func (*Assign) exprNode() {}
func (a *Assign) String() string {
	return fmt.Sprintf("%s %s %s", a.Path, a.Op, a.Value)
}
