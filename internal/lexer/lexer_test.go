package lexer

import "testing"

func TestNextTokenBasic(t *testing.T) {
	input := `agent A { position vec2 p; int energy; }
const pi = 3.14;
function f(A a in, A a2 out) {}
`
	tests := []struct {
		typ TokenType
		lit string
	}{
		{AGENT, "agent"},
		{IDENT, "A"},
		{LBRACE, "{"},
		{POSITION, "position"},
		{VEC2, "vec2"},
		{IDENT, "p"},
		{SEMICOLON, ";"},
		{IDENT, "int"},
		{IDENT, "energy"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{CONST, "const"},
		{IDENT, "pi"},
		{ASSIGN, "="},
		{FLOAT, "3.14"},
		{SEMICOLON, ";"},
		{FUNCTION, "function"},
		{IDENT, "f"},
		{LPAREN, "("},
		{IDENT, "A"},
		{IDENT, "a"},
		{IN, "in"},
		{COMMA, ","},
		{IDENT, "A"},
		{IDENT, "a2"},
		{OUT, "out"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{RBRACE, "}"},
		{EOF, ""},
	}

	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want.typ {
			t.Fatalf("token %d: type = %s, want %s (literal %q)", i, tok.Type, want.typ, tok.Literal)
		}
		if tok.Literal != want.lit {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, want.lit)
		}
	}
}

func TestNextTokenOperatorsAndRange(t *testing.T) {
	l := New("a..b && c || !d == e != f <= g >= h += 1 -= 2 *= 3 /= 4")
	var types []TokenType
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		types = append(types, tok.Type)
	}
	want := []TokenType{
		IDENT, DOTDOT, IDENT, AND_AND, IDENT, OR_OR, BANG, IDENT, EQ, IDENT,
		NEQ, IDENT, LTE, IDENT, GTE, IDENT, PLUS_ASSIGN, INT, MINUS_ASSIGN, INT,
		STAR_ASSIGN, INT, SLASH_ASSIGN, INT,
	}
	if len(types) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(types), len(want), types)
	}
	for i, tt := range want {
		if types[i] != tt {
			t.Fatalf("token %d: got %s want %s", i, types[i], tt)
		}
	}
}

func TestLexerTracksLineAndColumn(t *testing.T) {
	l := New("x\n  y")
	first := l.NextToken()
	if first.Pos.Line != 1 || first.Pos.Column != 1 {
		t.Fatalf("x position = %v, want 1:1", first.Pos)
	}
	second := l.NextToken()
	if second.Pos.Line != 2 || second.Pos.Column != 3 {
		t.Fatalf("y position = %v, want 2:3", second.Pos)
	}
}

func TestUnterminatedStringReportsError(t *testing.T) {
	l := New(`"hello`)
	tok := l.NextToken()
	if tok.Type != STRING || tok.Literal != "hello" {
		t.Fatalf("got %v, want STRING hello", tok)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 lexer error, got %d", len(l.Errors()))
	}
}
