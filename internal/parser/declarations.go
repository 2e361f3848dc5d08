package parser

import (
	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/lexer"
)

func (p *Parser) parseDeclaration() ast.Declaration {
	switch p.curToken.Type {
	case lexer.ENVIRONMENT:
		return p.parseEnvironmentDeclaration()
	case lexer.AGENT:
		return p.parseAgentDeclaration()
	case lexer.CONST:
		return p.parseConstDeclaration()
	case lexer.INTERACT, lexer.FUNCTION:
		return p.parseFunctionDeclaration(false)
	case lexer.STEP:
		return p.parseFunctionDeclaration(true)
	case lexer.SIMULATE:
		stmt := p.parseSimulateStatement().(*ast.SimulateStatement)
		return &ast.SimulateDeclaration{Stmt: stmt, DeclBase: ast.NewDeclBase(stmt.Pos())}
	default:
		p.fail("unexpected top-level token %q", p.curToken.Literal)
		return nil
	}
}

func (p *Parser) parseEnvironmentDeclaration() ast.Declaration {
	loc := p.loc()
	p.expect(lexer.ENVIRONMENT)
	p.expect(lexer.LBRACE)

	decl := &ast.EnvironmentDeclaration{DeclBase: ast.NewDeclBase(loc)}
	for !p.curIs(lexer.RBRACE) {
		key := p.expect(lexer.IDENT).Literal
		p.expect(lexer.COLON)
		expr := p.parseExpression(LOWEST)
		switch key {
		case "min":
			decl.MinExpr = expr
		case "max":
			decl.MaxExpr = expr
		case "size":
			decl.SizeExpr = expr
		case "granularity":
			decl.GranularityExpr = expr
		default:
			p.fail("unknown environment key %q", key)
		}
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	return decl
}

func (p *Parser) parseAgentDeclaration() ast.Declaration {
	loc := p.loc()
	p.expect(lexer.AGENT)
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.LBRACE)

	var members []ast.AgentMember
	for !p.curIs(lexer.RBRACE) {
		isPosition := false
		if p.curIs(lexer.POSITION) {
			isPosition = true
			p.next()
		}
		typ := p.parseTypeExpr()
		memberName := p.expect(lexer.IDENT).Literal
		p.expect(lexer.SEMICOLON)
		members = append(members, ast.AgentMember{IsPosition: isPosition, Type: typ, Name: memberName})
	}
	p.expect(lexer.RBRACE)
	return &ast.AgentDeclaration{Name: name, Members: members, PositionIndex: -1, DeclBase: ast.NewDeclBase(loc)}
}

func (p *Parser) parseConstDeclaration() ast.Declaration {
	loc := p.loc()
	p.expect(lexer.CONST)
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.ASSIGN)
	value := p.parseExpression(LOWEST)
	p.expect(lexer.SEMICOLON)
	return &ast.ConstDeclaration{Name: name, Id: ast.NoVarId, Value: value, DeclBase: ast.NewDeclBase(loc)}
}

func (p *Parser) parseFunctionDeclaration(isStep bool) ast.Declaration {
	loc := p.loc()
	isInteract := false
	if p.curIs(lexer.INTERACT) {
		isInteract = true
		p.next()
	}
	if isStep {
		p.expect(lexer.STEP)
	} else {
		p.expect(lexer.FUNCTION)
	}

	var returnType ast.TypeExpr
	if !isStep {
		returnType = p.parseTypeExpr()
	}
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.LPAREN)

	var params []ast.Param
	for !p.curIs(lexer.RPAREN) {
		typ := p.parseTypeExpr()
		paramName := p.expect(lexer.IDENT).Literal
		param := ast.Param{Type: typ, Name: paramName, Id: ast.NoVarId}
		isIn := false
		switch p.curToken.Type {
		case lexer.IN:
			isIn = true
			p.next()
		case lexer.OUT:
			p.next()
		}
		if p.curIs(lexer.COMMA) {
			p.next()
			if isIn && p.isOutBindingPair() {
				p.parseTypeExpr()
				outName := p.expect(lexer.IDENT).Literal
				p.expect(lexer.OUT)
				param.OutName = outName
				param.OutId = ast.NoVarId
				if p.curIs(lexer.COMMA) {
					p.next()
				}
			}
		}
		params = append(params, param)
	}
	p.expect(lexer.RPAREN)
	body := p.parseBlockStatement()

	return &ast.FunctionDeclaration{
		IsInteract: isInteract || isStep, IsStep: isStep, ReturnType: returnType,
		Name: name, Params: params, Body: body, DeclBase: ast.NewDeclBase(loc),
	}
}

// isOutBindingPair reports whether the parameter after an `in` parameter's
// comma starts the paired `T name out` binding step functions use for
// `parfor`-style double buffering (`step f(A a in, A a out)`). It checks
// only for the leading type identifier; the caller then requires `out`.
func (p *Parser) isOutBindingPair() bool {
	return p.curIs(lexer.IDENT)
}
