package lexer

import "testing"

func collect(src string) []Token {
	l := New(src)
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func TestNextRecognizesOperators(t *testing.T) {
	toks := collect(`. .. ? [ ] ( ) { } : ; , | |= + += - -= * *= / /= % %= == != <= >= < > // //= =`)
	want := []TokenType{
		DOT, DOTDOT, QUESTION, LBRACKET, RBRACKET, LPAREN, RPAREN, LBRACE, RBRACE,
		COLON, SEMICOLON, COMMA, PIPE, PIPEEQ, PLUS, PLUSEQ, MINUS, MINUSEQ,
		STAR, STAREQ, SLASH, SLASHEQ, PERCENT, PERCENTEQ, EQ, NE, LE, GE, LT, GT,
		ALT, ALTEQ, ASSIGN, EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Fatalf("token %d = %v, want %v", i, toks[i].Type, tt)
		}
	}
}

func TestNextRecognizesKeywordsAndIdents(t *testing.T) {
	toks := collect("if then elif else end try catch reduce foreach as def and or not label break import map")
	wantTypes := []TokenType{
		KW_IF, KW_THEN, KW_ELIF, KW_ELSE, KW_END, KW_TRY, KW_CATCH,
		KW_REDUCE, KW_FOREACH, KW_AS, KW_DEF, KW_AND, KW_OR, KW_NOT,
		KW_LABEL, KW_BREAK, KW_IMPORT, IDENT, EOF,
	}
	if len(toks) != len(wantTypes) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(wantTypes))
	}
	for i, tt := range wantTypes {
		if toks[i].Type != tt {
			t.Fatalf("token %d = %v, want %v", i, toks[i].Type, tt)
		}
	}
	if toks[17].Literal != "map" {
		t.Fatalf("expected trailing ident literal 'map', got %q", toks[17].Literal)
	}
}

func TestNextRecognizesNumbers(t *testing.T) {
	toks := collect("123 1.5 1e10 0.25")
	want := []TokenType{INT, FLOAT, FLOAT, FLOAT, EOF}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Fatalf("token %d = %v, want %v", i, toks[i].Type, tt)
		}
	}
	if toks[0].Literal != "123" {
		t.Fatalf("int literal = %q, want 123", toks[0].Literal)
	}
}

func TestNextRecognizesVariableAndFormat(t *testing.T) {
	toks := collect("$name @base64")
	if toks[0].Type != VAR || toks[0].Literal != "name" {
		t.Fatalf("variable token = %+v, want VAR(name)", toks[0])
	}
	if toks[1].Type != FORMAT || toks[1].Literal != "base64" {
		t.Fatalf("format token = %+v, want FORMAT(base64)", toks[1])
	}
}

func TestNextSkipsCommentsAndWhitespace(t *testing.T) {
	toks := collect("# a comment\n.  # trailing\n")
	if len(toks) != 2 || toks[0].Type != DOT || toks[1].Type != EOF {
		t.Fatalf("got %v, want [DOT EOF]", toks)
	}
}

func TestStringLiteralWithInterpolation(t *testing.T) {
	toks := collect(`"hello \(1 + 2) world"`)
	if toks[0].Type != STRING {
		t.Fatalf("expected STRING token, got %v", toks[0].Type)
	}
	parts := toks[0].StringParts
	if len(parts) != 3 {
		t.Fatalf("expected 3 string parts, got %d: %+v", len(parts), parts)
	}
	if parts[0].Text != "hello " {
		t.Fatalf("part 0 = %q, want %q", parts[0].Text, "hello ")
	}
	if parts[1].Expr != "1 + 2" {
		t.Fatalf("part 1 expr = %q, want %q", parts[1].Expr, "1 + 2")
	}
	if parts[2].Text != " world" {
		t.Fatalf("part 2 = %q, want %q", parts[2].Text, " world")
	}
}

func TestUnterminatedStringRecordsError(t *testing.T) {
	l := New(`"unterminated`)
	tok := l.Next()
	if tok.Type != STRING {
		t.Fatalf("expected a STRING token even for unterminated input, got %v", tok.Type)
	}
	if len(l.Errors()) == 0 {
		t.Fatalf("expected a lexer error for an unterminated string")
	}
}

func TestIllegalCharacterRecordsError(t *testing.T) {
	l := New("~")
	tok := l.Next()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL token for '~', got %v", tok.Type)
	}
	if len(l.Errors()) == 0 {
		t.Fatalf("expected a lexer error for an illegal character")
	}
}

func TestBOMIsStripped(t *testing.T) {
	toks := collect("\xEF\xBB\xBF.")
	if len(toks) != 2 || toks[0].Type != DOT {
		t.Fatalf("BOM was not stripped: %v", toks)
	}
}

func TestPositionsTrackLineAndColumn(t *testing.T) {
	l := New(".\n.a")
	first := l.Next()
	if first.Pos.Line != 1 {
		t.Fatalf("first token line = %d, want 1", first.Pos.Line)
	}
	l.Next() // '.' on the second line
	field := l.Next()
	if field.Pos.Line != 2 {
		t.Fatalf("field token line = %d, want 2", field.Pos.Line)
	}
}
