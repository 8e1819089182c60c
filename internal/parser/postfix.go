package parser

import (
	"strconv"

	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/lexer"
)

// parsePostfix implements `Primary ( "." Ident | "[" Expr? (":" Expr?)? "]" | "?" )*`.
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur.Type {
		case lexer.DOT:
			if !p.peekIs(lexer.IDENT) && !p.peekIs(lexer.STRING) {
				return expr
			}
			pos := p.cur.Pos
			p.next()
			if p.curIs(lexer.STRING) {
				key := p.parseStringLiteral()
				expr = &ast.Index{Target: expr, Key: key, Base: ast.At(pos)}
				continue
			}
			name := p.expect(lexer.IDENT).Literal
			expr = &ast.Field{Target: expr, Name: name, Base: ast.At(pos)}
		case lexer.LBRACKET:
			expr = p.parseBracketSuffix(expr)
		case lexer.QUESTION:
			pos := p.cur.Pos
			p.next()
			switch e := expr.(type) {
			case *ast.Field:
				e.Optional = true
			case *ast.Index:
				e.Optional = true
			case *ast.Slice:
				e.Optional = true
			case *ast.Iterate:
				e.Optional = true
			default:
				expr = &ast.Optional{Body: expr, Base: ast.At(pos)}
			}
		default:
			return expr
		}
	}
}

// parseBracketSuffix parses the `[...]` suffix after any postfix target:
// `.[]` (iterate), `.[expr]` (index), or `.[lo:hi]` (slice).
func (p *Parser) parseBracketSuffix(target ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.expect(lexer.LBRACKET)

	if p.curIs(lexer.RBRACKET) {
		p.next()
		return &ast.Iterate{Target: target, Base: ast.At(pos)}
	}

	if p.curIs(lexer.COLON) {
		p.next()
		hi := p.ParsePipeline()
		p.expect(lexer.RBRACKET)
		return &ast.Slice{Target: target, Hi: hi, Base: ast.At(pos)}
	}

	first := p.parseAssign()

	if p.curIs(lexer.COLON) {
		p.next()
		var hi ast.Expr
		if !p.curIs(lexer.RBRACKET) {
			hi = p.parseAssign()
		}
		p.expect(lexer.RBRACKET)
		return &ast.Slice{Target: target, Lo: first, Hi: hi, Base: ast.At(pos)}
	}

	p.expect(lexer.RBRACKET)
	return &ast.Index{Target: target, Key: first, Base: ast.At(pos)}
}

// parsePrimary implements the Primary production.
func (p *Parser) parsePrimary() ast.Expr {
	pos := p.cur.Pos
	switch p.cur.Type {
	case lexer.DOTDOT:
		p.next()
		return &ast.RecurseDefault{Base: ast.At(pos)}
	case lexer.DOT:
		return p.parseLeadingDot()
	case lexer.VAR:
		name := p.cur.Literal
		p.next()
		return &ast.VarRef{Name: name, Base: ast.At(pos)}
	case lexer.INT:
		return p.parseIntLiteral()
	case lexer.FLOAT:
		return p.parseFloatLiteral()
	case lexer.STRING:
		return p.parseStringLiteral()
	case lexer.FORMAT:
		return p.parseFormat()
	case lexer.MINUS:
		return p.parseUnary()
	case lexer.LPAREN:
		p.next()
		e := p.ParsePipeline()
		p.expect(lexer.RPAREN)
		return e
	case lexer.LBRACKET:
		return p.parseArrayConstructor()
	case lexer.LBRACE:
		return p.parseObjectConstructor()
	case lexer.KW_IF:
		return p.parseIf()
	case lexer.KW_TRY:
		return p.parseTry()
	case lexer.KW_REDUCE:
		return p.parseReduce()
	case lexer.KW_FOREACH:
		return p.parseForeach()
	case lexer.KW_DEF:
		return p.parseFuncDef()
	case lexer.KW_LABEL:
		return p.parseLabel()
	case lexer.KW_BREAK:
		p.next()
		name := p.expect(lexer.VAR).Literal
		return &ast.Break{Name: name, Base: ast.At(pos)}
	case lexer.IDENT:
		return p.parseIdentOrCall()
	default:
		p.errorf("UnexpectedToken", "unexpected token %s (%q)", p.cur.Type, p.cur.Literal)
		p.next()
		return &ast.NullLiteral{Base: ast.At(pos)}
	}
}

func (p *Parser) parseLeadingDot() ast.Expr {
	pos := p.cur.Pos
	p.next() // consume '.'
	switch p.cur.Type {
	case lexer.IDENT:
		name := p.cur.Literal
		p.next()
		return &ast.Field{Name: name, Base: ast.At(pos)}
	case lexer.STRING:
		key := p.parseStringLiteral()
		return &ast.Index{Target: &ast.Identity{Base: ast.At(pos)}, Key: key, Base: ast.At(pos)}
	case lexer.LBRACKET:
		return p.parseBracketSuffix(&ast.Identity{Base: ast.At(pos)})
	default:
		return &ast.Identity{Base: ast.At(pos)}
	}
}

func (p *Parser) parseIntLiteral() ast.Expr {
	pos := p.cur.Pos
	lit := p.cur.Literal
	p.next()
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		p.errorf("InvalidNumber", "invalid integer literal %q", lit)
	}
	return &ast.IntLiteral{Value: n, Base: ast.At(pos)}
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	pos := p.cur.Pos
	lit := p.cur.Literal
	p.next()
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		p.errorf("InvalidNumber", "invalid float literal %q", lit)
	}
	return &ast.FloatLiteral{Value: f, Base: ast.At(pos)}
}

func (p *Parser) parseStringLiteral() *ast.StringLiteral {
	pos := p.cur.Pos
	tok := p.cur
	p.next()
	parts := make([]ast.StringPart, len(tok.StringParts))
	for i, sp := range tok.StringParts {
		if sp.Expr != "" {
			sub, err := Parse(sp.Expr)
			if err != nil {
				if d, ok := err.(*errors.Diagnostic); ok {
					p.errs = append(p.errs, d)
				}
			}
			parts[i] = ast.StringPart{Expr: sub}
		} else {
			parts[i] = ast.StringPart{Text: sp.Text}
		}
	}
	return &ast.StringLiteral{Parts: parts, Base: ast.At(pos)}
}

func (p *Parser) parseFormat() ast.Expr {
	pos := p.cur.Pos
	name := p.cur.Literal
	p.next()
	if p.curIs(lexer.STRING) {
		lit := p.parseStringLiteral()
		lit.Format = name
		return lit
	}
	return &ast.Call{Name: "@" + name, Base: ast.At(pos)}
}

func (p *Parser) parseArrayConstructor() ast.Expr {
	pos := p.cur.Pos
	p.expect(lexer.LBRACKET)
	if p.curIs(lexer.RBRACKET) {
		p.next()
		return &ast.ArrayConstructor{Base: ast.At(pos)}
	}
	body := p.ParsePipeline()
	p.expect(lexer.RBRACKET)
	return &ast.ArrayConstructor{Body: body, Base: ast.At(pos)}
}

func (p *Parser) parseIdentOrCall() ast.Expr {
	pos := p.cur.Pos
	name := p.cur.Literal
	p.next()
	if !p.curIs(lexer.LPAREN) {
		return &ast.Call{Name: name, Base: ast.At(pos)}
	}
	p.next() // consume '('
	var args []ast.Expr
	if !p.curIs(lexer.RPAREN) {
		args = append(args, p.ParsePipeline())
		for p.curIs(lexer.SEMICOLON) {
			p.next()
			args = append(args, p.ParsePipeline())
		}
	}
	p.expect(lexer.RPAREN)
	return &ast.Call{Name: name, Args: args, Base: ast.At(pos)}
}
