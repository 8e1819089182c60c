// Package parser implements a recursive-descent/Pratt parser that turns
// filter-language source text into an internal/ast.Expr tree, following the
// grammar fixed by the language spec. Structure mirrors the teacher
// project's internal/parser: each binary-operator precedence level and each
// syntactic form (if/try/reduce/foreach/def) gets its own parse method.
package parser

import (
	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/lexer"
)

// Precedence levels, lowest to highest. The precedences table records the
// level of each operator in the Alternate..Mul ladder; parsing does not
// consult it, since each level has its own parse method. Pipe and Comma are
// handled by dedicated loop methods since they interact with `as`/`def`
// forms.
const (
	_ int = iota
	LOWEST
	ALTERNATE // //
	LOGIC_OR  // or
	LOGIC_AND // and
	COMPARE   // == != < <= > >=
	SUM       // + -
	PRODUCT   // * / %
)

var precedences = map[lexer.TokenType]int{
	lexer.ALT:     ALTERNATE,
	lexer.KW_OR:   LOGIC_OR,
	lexer.KW_AND:  LOGIC_AND,
	lexer.EQ:      COMPARE,
	lexer.NE:      COMPARE,
	lexer.LT:      COMPARE,
	lexer.LE:      COMPARE,
	lexer.GT:      COMPARE,
	lexer.GE:      COMPARE,
	lexer.PLUS:    SUM,
	lexer.MINUS:   SUM,
	lexer.STAR:    PRODUCT,
	lexer.SLASH:   PRODUCT,
	lexer.PERCENT: PRODUCT,
}

var assignOps = map[lexer.TokenType]ast.AssignOp{
	lexer.ASSIGN:    ast.AssignSet,
	lexer.PIPEEQ:    ast.AssignUpdate,
	lexer.PLUSEQ:    ast.AssignAdd,
	lexer.MINUSEQ:   ast.AssignSub,
	lexer.STAREQ:    ast.AssignMul,
	lexer.SLASHEQ:   ast.AssignDiv,
	lexer.PERCENTEQ: ast.AssignMod,
	lexer.ALTEQ:     ast.AssignAlt,
}

var binOps = map[lexer.TokenType]ast.BinOpKind{
	lexer.ALT: ast.OpAlt, lexer.KW_OR: ast.OpOr, lexer.KW_AND: ast.OpAnd,
	lexer.EQ: ast.OpEq, lexer.NE: ast.OpNe, lexer.LT: ast.OpLt, lexer.LE: ast.OpLe,
	lexer.GT: ast.OpGt, lexer.GE: ast.OpGe,
	lexer.PLUS: ast.OpAdd, lexer.MINUS: ast.OpSub,
	lexer.STAR: ast.OpMul, lexer.SLASH: ast.OpDiv, lexer.PERCENT: ast.OpMod,
}

// Parser holds parsing state for a single filter-language source string.
type Parser struct {
	l         *lexer.Lexer
	cur, peek lexer.Token
	errs      []*errors.Diagnostic
	source    string
}

// New creates a Parser reading tokens from l.
func New(l *lexer.Lexer, source string) *Parser {
	p := &Parser{l: l, source: source}
	p.next()
	p.next()
	return p
}

// Parse tokenizes and parses source as a complete filter, returning the
// resulting expression or the first accumulated diagnostic.
func Parse(source string) (ast.Expr, error) {
	p := New(lexer.New(source), source)
	expr := p.ParsePipeline()
	if p.cur.Type != lexer.EOF {
		p.errorf("TrailingInput", "unexpected trailing input %q", p.cur.Literal)
	}
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return expr, nil
}

// Errors returns every diagnostic accumulated while parsing, including
// lexical errors forwarded from the underlying Lexer.
func (p *Parser) Errors() []*errors.Diagnostic {
	all := append([]*errors.Diagnostic{}, p.l.Errors()...)
	return append(all, p.errs...)
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.Next()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	if !p.curIs(t) {
		p.errorf("UnexpectedToken", "expected %s, got %s (%q)", t, p.cur.Type, p.cur.Literal)
		return p.cur
	}
	tok := p.cur
	p.next()
	return tok
}

func (p *Parser) errorf(class, format string, args ...any) {
	p.errs = append(p.errs, errors.ParseError(p.cur.Pos, class, format, args...).WithSource(p.source))
}

// ParsePipeline parses the top-level `Comma ( "|" Comma )*` production, plus
// the `def`/`as`/`reduce`/`foreach` forms that scope over "the rest of the
// pipeline" rather than fitting neatly into the precedence ladder.
func (p *Parser) ParsePipeline() ast.Expr {
	if p.curIs(lexer.KW_DEF) {
		return p.parseFuncDef()
	}

	left := p.parseComma()

	if p.curIs(lexer.KW_AS) {
		return p.parseBind(left)
	}

	if p.curIs(lexer.PIPE) {
		pos := p.cur.Pos
		p.next()
		right := p.ParsePipeline()
		return &ast.Pipe{Left: left, Right: right, Base: ast.At(pos)}
	}
	return left
}

func (p *Parser) parseBind(source ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.expect(lexer.KW_AS)
	varTok := p.expect(lexer.VAR)
	p.expect(lexer.PIPE)
	body := p.ParsePipeline()
	return &ast.Bind{Source: source, Var: varTok.Literal, Body: body, Base: ast.At(pos)}
}

func (p *Parser) parseComma() ast.Expr {
	left := p.parseAssign()
	for p.curIs(lexer.COMMA) {
		pos := p.cur.Pos
		p.next()
		right := p.parseAssign()
		left = &ast.Comma{Left: left, Right: right, Base: ast.At(pos)}
	}
	return left
}

// parseAssign implements the non-associative assignment forms (`=`, `|=`,
// `+=`, ...). They bind looser than `//` and tighter than `,`, matching
// jq's actual grammar more closely than the spec's simplified table, which
// is silent on assignment precedence; this choice is recorded in DESIGN.md.
func (p *Parser) parseAssign() ast.Expr {
	left := p.parseAlternate()
	if op, ok := assignOps[p.cur.Type]; ok {
		pos := p.cur.Pos
		p.next()
		right := p.parseAlternate()
		return &ast.Assign{Op: op, Path: left, Value: right, Base: ast.At(pos)}
	}
	return left
}

func (p *Parser) parseAlternate() ast.Expr {
	left := p.parseOr()
	for p.curIs(lexer.ALT) {
		pos := p.cur.Pos
		p.next()
		right := p.parseOr()
		left = &ast.BinOp{Op: ast.OpAlt, Left: left, Right: right, Base: ast.At(pos)}
	}
	return left
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.curIs(lexer.KW_OR) {
		pos := p.cur.Pos
		p.next()
		right := p.parseAnd()
		left = &ast.BinOp{Op: ast.OpOr, Left: left, Right: right, Base: ast.At(pos)}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseNot()
	for p.curIs(lexer.KW_AND) {
		pos := p.cur.Pos
		p.next()
		right := p.parseNot()
		left = &ast.BinOp{Op: ast.OpAnd, Left: left, Right: right, Base: ast.At(pos)}
	}
	return left
}

func (p *Parser) parseNot() ast.Expr {
	if p.curIs(lexer.KW_NOT) {
		pos := p.cur.Pos
		p.next()
		operand := p.parseCompare()
		return &ast.Not{Operand: operand, Base: ast.At(pos)}
	}
	return p.parseCompare()
}

func (p *Parser) parseCompare() ast.Expr {
	left := p.parseAdd()
	if kind, ok := binOps[p.cur.Type]; ok && isCompareTok(p.cur.Type) {
		pos := p.cur.Pos
		p.next()
		right := p.parseAdd()
		return &ast.BinOp{Op: kind, Left: left, Right: right, Base: ast.At(pos)}
	}
	return left
}

func isCompareTok(t lexer.TokenType) bool {
	switch t {
	case lexer.EQ, lexer.NE, lexer.LT, lexer.LE, lexer.GT, lexer.GE:
		return true
	default:
		return false
	}
}

func (p *Parser) parseAdd() ast.Expr {
	left := p.parseMul()
	for p.curIs(lexer.PLUS) || p.curIs(lexer.MINUS) {
		kind := binOps[p.cur.Type]
		pos := p.cur.Pos
		p.next()
		right := p.parseMul()
		left = &ast.BinOp{Op: kind, Left: left, Right: right, Base: ast.At(pos)}
	}
	return left
}

func (p *Parser) parseMul() ast.Expr {
	left := p.parseUnary()
	for p.curIs(lexer.STAR) || p.curIs(lexer.SLASH) || p.curIs(lexer.PERCENT) {
		kind := binOps[p.cur.Type]
		pos := p.cur.Pos
		p.next()
		right := p.parseUnary()
		left = &ast.BinOp{Op: kind, Left: left, Right: right, Base: ast.At(pos)}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.curIs(lexer.MINUS) {
		pos := p.cur.Pos
		p.next()
		operand := p.parsePostfix()
		return &ast.Neg{Operand: operand, Base: ast.At(pos)}
	}
	return p.parsePostfix()
}
