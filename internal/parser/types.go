package parser

import (
	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/lexer"
)

// parseTypeExpr parses a surface type annotation: a builtin name
// (bool/int/float/string/vec2/vec3), an agent type name, or an array of
// either (`T[]`).
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	loc := p.loc()
	name := p.curToken.Literal
	p.next()

	t := ast.TypeExpr{Loc: loc, Name: name}
	for p.curIs(lexer.LBRACKET) {
		p.next()
		p.expect(lexer.RBRACKET)
		elem := t
		t = ast.TypeExpr{Loc: loc, IsArray: true, Elem: &elem}
	}
	return t
}
