// Package parser implements a recursive-descent / Pratt parser: tokens in,
// a *ast.Script out. A precedence table plus per-token prefix/infix parse
// functions drive expression parsing. There is no panic-mode recovery: the
// parser fails fast with the first ParseError.
package parser

import (
	"fmt"

	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/lexer"
)

// ParseError is the single diagnostic a failed parse produces.
type ParseError struct {
	Loc lexer.Position
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s on line %d", e.Msg, e.Loc.Line) }

// Precedence levels, tightest to loosest: unary > * / % >
// + - > shifts > relational > equality > bitwise > logical > ternary >
// assignment. The constants below run the other way, from LOWEST (loosest)
// to CALL/INDEX/MEMBER (tightest); assignment has no level here, since it
// is parsed as a statement rather than as an operator.
const (
	_ int = iota
	LOWEST
	TERNARY
	LOGICAL_OR
	LOGICAL_AND
	BITWISE_OR
	BITWISE_XOR
	BITWISE_AND
	EQUALITY
	RELATIONAL
	SHIFTS
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	CALL
	INDEX
	MEMBER
)

var precedences = map[lexer.TokenType]int{
	lexer.OR_OR:     LOGICAL_OR,
	lexer.AND_AND:   LOGICAL_AND,
	lexer.PIPE:      BITWISE_OR,
	lexer.CARET:     BITWISE_XOR,
	lexer.AMP:       BITWISE_AND,
	lexer.EQ:        EQUALITY,
	lexer.NEQ:       EQUALITY,
	lexer.LT:        RELATIONAL,
	lexer.LTE:       RELATIONAL,
	lexer.GT:        RELATIONAL,
	lexer.GTE:       RELATIONAL,
	lexer.SHL:       SHIFTS,
	lexer.SHR:       SHIFTS,
	lexer.PLUS:      ADDITIVE,
	lexer.MINUS:     ADDITIVE,
	lexer.STAR:      MULTIPLICATIVE,
	lexer.SLASH:     MULTIPLICATIVE,
	lexer.PERCENT:   MULTIPLICATIVE,
	lexer.LPAREN:    CALL,
	lexer.LBRACKET:  INDEX,
	lexer.DOT:       MEMBER,
	lexer.DOTDOT:    BITWISE_OR, // range binds looser than arithmetic, tighter than logical ops
	lexer.QUESTION:  TERNARY,
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser turns a token stream into a *ast.Script, or fails with the first
// ParseError encountered.
type Parser struct {
	l    *lexer.Lexer
	file string

	curToken  lexer.Token
	peekToken lexer.Token

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser reading tokens from l.
func New(l *lexer.Lexer, file string) *Parser {
	p := &Parser{l: l, file: file}
	p.prefixFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:    p.parseIdentOrCall,
		lexer.INT:      p.parseIntLiteral,
		lexer.FLOAT:    p.parseFloatLiteral,
		lexer.STRING:   p.parseStringLiteral,
		lexer.TRUE:     p.parseBoolLiteral,
		lexer.FALSE:    p.parseBoolLiteral,
		lexer.MINUS:    p.parseUnary,
		lexer.PLUS:     p.parseUnary,
		lexer.BANG:     p.parseUnary,
		lexer.TILDE:    p.parseUnary,
		lexer.LPAREN:   p.parseGroupedExpr,
		lexer.LBRACKET: p.parseArrayInitExpr,
		lexer.NEW:      p.parseNewArrayExpr,
	}
	p.infixFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS: p.parseBinary, lexer.MINUS: p.parseBinary,
		lexer.STAR: p.parseBinary, lexer.SLASH: p.parseBinary, lexer.PERCENT: p.parseBinary,
		lexer.AMP: p.parseBinary, lexer.PIPE: p.parseBinary, lexer.CARET: p.parseBinary,
		lexer.SHL: p.parseBinary, lexer.SHR: p.parseBinary,
		lexer.EQ: p.parseBinary, lexer.NEQ: p.parseBinary,
		lexer.LT: p.parseBinary, lexer.LTE: p.parseBinary, lexer.GT: p.parseBinary, lexer.GTE: p.parseBinary,
		lexer.AND_AND: p.parseBinary, lexer.OR_OR: p.parseBinary,
		lexer.DOTDOT:   p.parseBinary,
		lexer.LPAREN:   p.parseCallFromExpr,
		lexer.LBRACKET: p.parseArrayAccess,
		lexer.DOT:      p.parseMemberAccess,
		lexer.QUESTION: p.parseTernary,
	}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) loc() ast.Location {
	return ast.Location{File: p.file, Begin: p.curToken.Pos, End: p.curToken.Pos}
}

func (p *Parser) fail(format string, args ...interface{}) {
	panic(&ParseError{Loc: p.curToken.Pos, Msg: fmt.Sprintf(format, args...)})
}

func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	if !p.curIs(t) {
		p.fail("expected %s, got %s %q", t, p.curToken.Type, p.curToken.Literal)
	}
	tok := p.curToken
	p.next()
	return tok
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseScript parses an entire source file into a *ast.Script, recovering
// the first ParseError raised via panic into a returned error.
func ParseScript(input, file string) (script *ast.Script, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()

	p := New(lexer.New(input), file)
	script = p.parseScript()
	return script, nil
}

func (p *Parser) parseScript() *ast.Script {
	script := &ast.Script{}
	for !p.curIs(lexer.EOF) {
		script.Decls = append(script.Decls, p.parseDeclaration())
	}
	return script
}
