package ast

// Compile-time assertions that every concrete node type satisfies its
// interface. Kept in one place so adding a new node variant without wiring
// it into Expression/Statement/Declaration fails the build immediately,
// standing in for the exhaustive-match guarantee a tagged-union AST would
// give in a language with sum types.
var (
	_ Expression = (*BoolLiteral)(nil)
	_ Expression = (*IntLiteral)(nil)
	_ Expression = (*FloatLiteral)(nil)
	_ Expression = (*StringLiteral)(nil)
	_ Expression = (*VarExpression)(nil)
	_ Expression = (*UnaryExpression)(nil)
	_ Expression = (*BinaryExpression)(nil)
	_ Expression = (*TernaryExpression)(nil)
	_ Expression = (*CallExpression)(nil)
	_ Expression = (*MemberAccessExpression)(nil)
	_ Expression = (*ArrayAccessExpression)(nil)
	_ Expression = (*ArrayInitExpression)(nil)
	_ Expression = (*NewArrayExpression)(nil)
	_ Expression = (*AgentCreationExpression)(nil)

	_ Statement = (*ExpressionStatement)(nil)
	_ Statement = (*AssignStatement)(nil)
	_ Statement = (*AssignOpStatement)(nil)
	_ Statement = (*BlockStatement)(nil)
	_ Statement = (*VarDeclarationStatement)(nil)
	_ Statement = (*IfStatement)(nil)
	_ Statement = (*WhileStatement)(nil)
	_ Statement = (*ForStatement)(nil)
	_ Statement = (*ParallelForStatement)(nil)
	_ Statement = (*SimulateStatement)(nil)
	_ Statement = (*ReturnStatement)(nil)
	_ Statement = (*BreakStatement)(nil)
	_ Statement = (*ContinueStatement)(nil)

	_ Declaration = (*FunctionDeclaration)(nil)
	_ Declaration = (*AgentDeclaration)(nil)
	_ Declaration = (*ConstDeclaration)(nil)
	_ Declaration = (*EnvironmentDeclaration)(nil)
	_ Declaration = (*SimulateDeclaration)(nil)
)

// ExprKinds lists every concrete Expression type, used by tests to
// enumerate the closed variant set without a manual switch duplicated in
// two places.
func ExprKinds() []Expression {
	return []Expression{
		&BoolLiteral{}, &IntLiteral{}, &FloatLiteral{}, &StringLiteral{},
		&VarExpression{}, &UnaryExpression{}, &BinaryExpression{},
		&TernaryExpression{}, &CallExpression{}, &MemberAccessExpression{},
		&ArrayAccessExpression{}, &ArrayInitExpression{}, &NewArrayExpression{},
		&AgentCreationExpression{},
	}
}

// StmtKinds lists every concrete Statement type; see ExprKinds.
func StmtKinds() []Statement {
	return []Statement{
		&ExpressionStatement{}, &AssignStatement{}, &AssignOpStatement{},
		&BlockStatement{}, &VarDeclarationStatement{}, &IfStatement{},
		&WhileStatement{}, &ForStatement{}, &ParallelForStatement{},
		&SimulateStatement{}, &ReturnStatement{}, &BreakStatement{},
		&ContinueStatement{},
	}
}

// DeclKinds lists every concrete Declaration type; see ExprKinds.
func DeclKinds() []Declaration {
	return []Declaration{
		&FunctionDeclaration{}, &AgentDeclaration{}, &ConstDeclaration{},
		&EnvironmentDeclaration{}, &SimulateDeclaration{},
	}
}
