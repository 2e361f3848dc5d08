package parser

import (
	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/lexer"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.PARFOR:
		return p.parseParallelForStatement()
	case lexer.SIMULATE:
		return p.parseSimulateStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.BREAK:
		loc := p.loc()
		p.next()
		p.expect(lexer.SEMICOLON)
		return &ast.BreakStatement{StmtBase: ast.NewStmtBase(loc)}
	case lexer.CONTINUE:
		loc := p.loc()
		p.next()
		p.expect(lexer.SEMICOLON)
		return &ast.ContinueStatement{StmtBase: ast.NewStmtBase(loc)}
	case lexer.VEC2, lexer.VEC3:
		return p.parseVarDeclOrExprStatement()
	case lexer.IDENT:
		if p.isTypeStart() {
			return p.parseVarDeclOrExprStatement()
		}
		return p.parseAssignOrExprStatement()
	default:
		return p.parseAssignOrExprStatement()
	}
}

// isTypeStart reports whether the current IDENT token begins a local
// variable declaration (`T name [= expr];`) as opposed to an expression
// statement: a declaration is an identifier immediately followed by
// another identifier.
func (p *Parser) isTypeStart() bool {
	return p.curIs(lexer.IDENT) && p.peekIs(lexer.IDENT)
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	loc := p.loc()
	p.expect(lexer.LBRACE)
	var stmts []ast.Statement
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(lexer.RBRACE)
	return &ast.BlockStatement{Stmts: stmts, StmtBase: ast.NewStmtBase(loc)}
}

func (p *Parser) parseVarDeclOrExprStatement() ast.Statement {
	loc := p.loc()
	typ := p.parseTypeExpr()
	name := p.expect(lexer.IDENT).Literal
	var init ast.Expression
	if p.curIs(lexer.ASSIGN) {
		p.next()
		init = p.parseExpression(LOWEST)
	}
	p.expect(lexer.SEMICOLON)
	return &ast.VarDeclarationStatement{
		Type: typ, Name: name, Id: ast.NoVarId, Initializer: init,
		StmtBase: ast.NewStmtBase(loc),
	}
}

func (p *Parser) parseAssignOrExprStatement() ast.Statement {
	loc := p.loc()
	expr := p.parseExpression(LOWEST)

	if op, ok := compoundAssignOp(p.curToken.Type); ok {
		p.next()
		right := p.parseExpression(LOWEST)
		p.expect(lexer.SEMICOLON)
		return &ast.AssignOpStatement{Op: op, Left: expr, Right: right, StmtBase: ast.NewStmtBase(loc)}
	}

	if p.curIs(lexer.ASSIGN) {
		p.next()
		right := p.parseExpression(LOWEST)
		p.expect(lexer.SEMICOLON)
		return &ast.AssignStatement{Left: expr, Right: right, StmtBase: ast.NewStmtBase(loc)}
	}

	p.expect(lexer.SEMICOLON)
	return &ast.ExpressionStatement{Expr: expr, StmtBase: ast.NewStmtBase(loc)}
}

func compoundAssignOp(t lexer.TokenType) (string, bool) {
	switch t {
	case lexer.PLUS_ASSIGN:
		return "+", true
	case lexer.MINUS_ASSIGN:
		return "-", true
	case lexer.STAR_ASSIGN:
		return "*", true
	case lexer.SLASH_ASSIGN:
		return "/", true
	default:
		return "", false
	}
}

func (p *Parser) parseIfStatement() ast.Statement {
	loc := p.loc()
	p.expect(lexer.IF)
	p.expect(lexer.LPAREN)
	cond := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN)
	then := p.parseStatement()
	var elseStmt ast.Statement
	if p.curIs(lexer.ELSE) {
		p.next()
		elseStmt = p.parseStatement()
	}
	return &ast.IfStatement{Cond: cond, Then: then, Else: elseStmt, StmtBase: ast.NewStmtBase(loc)}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	loc := p.loc()
	p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	cond := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN)
	body := p.parseStatement()
	return &ast.WhileStatement{Cond: cond, Body: body, StmtBase: ast.NewStmtBase(loc)}
}

func (p *Parser) parseForStatement() ast.Statement {
	loc := p.loc()
	p.expect(lexer.FOR)
	p.expect(lexer.LPAREN)
	typ := p.parseTypeExpr()
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.COLON)
	expr := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN)
	body := p.parseStatement()
	return &ast.ForStatement{
		Type: typ, Name: name, Id: ast.NoVarId, Expr: expr, Body: body,
		StmtBase: ast.NewStmtBase(loc),
	}
}

func (p *Parser) parseParallelForStatement() ast.Statement {
	loc := p.loc()
	p.expect(lexer.PARFOR)
	p.expect(lexer.LPAREN)
	typ := p.parseTypeExpr()
	inName := p.expect(lexer.IDENT).Literal
	p.expect(lexer.IN)
	p.expect(lexer.COMMA)
	p.parseTypeExpr() // repeated type for the out binding; discarded, so it is never compared with In's
	outName := p.expect(lexer.IDENT).Literal
	p.expect(lexer.OUT)
	p.expect(lexer.COLON)
	expr := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN)
	body := p.parseStatement()
	return &ast.ParallelForStatement{
		Type: typ, InName: inName, InId: ast.NoVarId, OutName: outName, OutId: ast.NoVarId,
		Expr: expr, Body: body, StmtBase: ast.NewStmtBase(loc),
	}
}

func (p *Parser) parseSimulateStatement() ast.Statement {
	loc := p.loc()
	p.expect(lexer.SIMULATE)
	steps := p.parseExpression(LOWEST)
	p.expect(lexer.LBRACE)
	var funcs []string
	for !p.curIs(lexer.RBRACE) {
		funcs = append(funcs, p.expect(lexer.IDENT).Literal)
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.SimulateStatement{Steps: steps, StepFuncs: funcs, StmtBase: ast.NewStmtBase(loc)}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	loc := p.loc()
	p.expect(lexer.RETURN)
	var expr ast.Expression
	if !p.curIs(lexer.SEMICOLON) {
		expr = p.parseExpression(LOWEST)
	}
	p.expect(lexer.SEMICOLON)
	return &ast.ReturnStatement{Expr: expr, StmtBase: ast.NewStmtBase(loc)}
}
