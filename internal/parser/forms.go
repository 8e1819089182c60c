package parser

import (
	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/lexer"
)

func (p *Parser) parseObjectConstructor() ast.Expr {
	pos := p.cur.Pos
	p.expect(lexer.LBRACE)
	var entries []ast.ObjectEntry
	if !p.curIs(lexer.RBRACE) {
		entries = append(entries, p.parseObjectEntry())
		for p.curIs(lexer.COMMA) {
			p.next()
			entries = append(entries, p.parseObjectEntry())
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.ObjectConstructor{Entries: entries, Base: ast.At(pos)}
}

// parseObjectEntry implements one element of ObjEntries: `ident`, `ident:
// value`, `"str": value`, `(expr): value`, `$var`, or `@format "str"`.
func (p *Parser) parseObjectEntry() ast.ObjectEntry {
	switch p.cur.Type {
	case lexer.VAR:
		name := p.cur.Literal
		p.next()
		if p.curIs(lexer.COLON) {
			p.next()
			return ast.ObjectEntry{KeyName: name, Value: p.parseObjectValue()}
		}
		return ast.ObjectEntry{KeyName: name, VarValue: true}
	case lexer.IDENT, lexer.KW_IF, lexer.KW_THEN, lexer.KW_ELSE, lexer.KW_END,
		lexer.KW_AND, lexer.KW_OR, lexer.KW_NOT, lexer.KW_AS, lexer.KW_DEF,
		lexer.KW_TRY, lexer.KW_CATCH, lexer.KW_REDUCE, lexer.KW_FOREACH,
		lexer.KW_LABEL, lexer.KW_BREAK, lexer.KW_ELIF:
		name := p.cur.Literal
		p.next()
		if p.curIs(lexer.COLON) {
			p.next()
			return ast.ObjectEntry{KeyName: name, Value: p.parseObjectValue()}
		}
		return ast.ObjectEntry{KeyName: name, Value: &ast.Field{Name: name, Base: ast.At(p.cur.Pos)}}
	case lexer.STRING:
		key := p.parseStringLiteral()
		if p.curIs(lexer.COLON) {
			p.next()
			return ast.ObjectEntry{KeyExpr: key, Value: p.parseObjectValue()}
		}
		if key.IsConstant() {
			name := ""
			for _, part := range key.Parts {
				name += part.Text
			}
			return ast.ObjectEntry{KeyName: name, Value: &ast.Field{Name: name, Base: key.Base}}
		}
		return ast.ObjectEntry{KeyExpr: key}
	case lexer.LPAREN:
		p.next()
		keyExpr := p.ParsePipeline()
		p.expect(lexer.RPAREN)
		p.expect(lexer.COLON)
		return ast.ObjectEntry{KeyExpr: keyExpr, Value: p.parseObjectValue()}
	default:
		p.errorf("UnexpectedToken", "expected object key, got %s", p.cur.Type)
		p.next()
		return ast.ObjectEntry{}
	}
}

// parseObjectValue parses the value half of an object entry. Object values
// bind tighter than `,` (which separates entries) so this stops at Assign
// level, matching jq's grammar.
func (p *Parser) parseObjectValue() ast.Expr {
	return p.parseAssign()
}

func (p *Parser) parseIf() ast.Expr {
	pos := p.cur.Pos
	p.expect(lexer.KW_IF)
	cond := p.ParsePipeline()
	p.expect(lexer.KW_THEN)
	then := p.ParsePipeline()
	return &ast.If{Cond: cond, Then: then, Else: p.parseElifChain(), Base: ast.At(pos)}
}

func (p *Parser) parseElifChain() ast.Expr {
	switch p.cur.Type {
	case lexer.KW_ELIF:
		pos := p.cur.Pos
		p.next()
		cond := p.ParsePipeline()
		p.expect(lexer.KW_THEN)
		then := p.ParsePipeline()
		return &ast.If{Cond: cond, Then: then, Else: p.parseElifChain(), Base: ast.At(pos)}
	case lexer.KW_ELSE:
		p.next()
		e := p.ParsePipeline()
		p.expect(lexer.KW_END)
		return e
	case lexer.KW_END:
		p.next()
		return nil
	default:
		p.errorf("UnexpectedToken", "expected elif/else/end, got %s", p.cur.Type)
		return nil
	}
}

func (p *Parser) parseTry() ast.Expr {
	pos := p.cur.Pos
	p.expect(lexer.KW_TRY)
	body := p.parsePostfix()
	if p.curIs(lexer.KW_CATCH) {
		p.next()
		catch := p.parsePostfix()
		return &ast.TryCatch{Body: body, Catch: catch, Base: ast.At(pos)}
	}
	return &ast.TryCatch{Body: body, Base: ast.At(pos)}
}

func (p *Parser) parseReduce() ast.Expr {
	pos := p.cur.Pos
	p.expect(lexer.KW_REDUCE)
	source := p.parsePostfix()
	p.expect(lexer.KW_AS)
	v := p.expect(lexer.VAR).Literal
	p.expect(lexer.LPAREN)
	init := p.ParsePipeline()
	p.expect(lexer.SEMICOLON)
	update := p.ParsePipeline()
	p.expect(lexer.RPAREN)
	return &ast.Reduce{Source: source, Var: v, Init: init, Update: update, Base: ast.At(pos)}
}

func (p *Parser) parseForeach() ast.Expr {
	pos := p.cur.Pos
	p.expect(lexer.KW_FOREACH)
	source := p.parsePostfix()
	p.expect(lexer.KW_AS)
	v := p.expect(lexer.VAR).Literal
	p.expect(lexer.LPAREN)
	init := p.ParsePipeline()
	p.expect(lexer.SEMICOLON)
	update := p.ParsePipeline()
	var extract ast.Expr
	if p.curIs(lexer.SEMICOLON) {
		p.next()
		extract = p.ParsePipeline()
	}
	p.expect(lexer.RPAREN)
	return &ast.Foreach{Source: source, Var: v, Init: init, Update: update, Extract: extract, Base: ast.At(pos)}
}

func (p *Parser) parseFuncDef() ast.Expr {
	pos := p.cur.Pos
	p.expect(lexer.KW_DEF)
	name := p.expect(lexer.IDENT).Literal
	var params []string
	if p.curIs(lexer.LPAREN) {
		p.next()
		params = append(params, p.parseParam())
		for p.curIs(lexer.SEMICOLON) {
			p.next()
			params = append(params, p.parseParam())
		}
		p.expect(lexer.RPAREN)
	}
	p.expect(lexer.COLON)
	body := p.ParsePipeline()
	p.expect(lexer.SEMICOLON)
	rest := p.ParsePipeline()
	return &ast.FuncDef{Name: name, Params: params, Body: body, Rest: rest, Base: ast.At(pos)}
}

func (p *Parser) parseParam() string {
	if p.curIs(lexer.VAR) {
		name := "$" + p.cur.Literal
		p.next()
		return name
	}
	name := p.expect(lexer.IDENT).Literal
	return name
}

func (p *Parser) parseLabel() ast.Expr {
	pos := p.cur.Pos
	p.expect(lexer.KW_LABEL)
	name := p.expect(lexer.VAR).Literal
	p.expect(lexer.PIPE)
	body := p.ParsePipeline()
	return &ast.Label{Name: name, Body: body, Base: ast.At(pos)}
}
