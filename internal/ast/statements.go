package ast

// ExpressionStatement wraps an expression evaluated for its side effects.
type ExpressionStatement struct {
	StmtBase
	Expr Expression
}

// AssignStatement is `left = right;`. Left must be an l-value: a
// VarExpression, MemberAccessExpression, or ArrayAccessExpression.
type AssignStatement struct {
	StmtBase
	Left  Expression
	Right Expression
}

// AssignOpStatement is a compound assignment `left op= right;`.
type AssignOpStatement struct {
	StmtBase
	Op    string
	Left  Expression
	Right Expression
}

// BlockStatement is a `{ ... }` sequence of statements introducing a new
// lexical scope.
type BlockStatement struct {
	StmtBase
	Stmts []Statement
}

// VarDeclarationStatement declares a local variable, with an optional
// initializer.
type VarDeclarationStatement struct {
	StmtBase
	Type        TypeExpr
	Name        string
	Id          VarId
	Initializer Expression // nil if absent
}

// IfStatement is `if (cond) then [else else]`.
type IfStatement struct {
	StmtBase
	Cond Expression
	Then Statement
	Else Statement // nil if absent
}

// WhileStatement is `while (cond) body`.
type WhileStatement struct {
	StmtBase
	Cond Expression
	Body Statement
}

// ForStatement is `for (T x : expr) body`, iterating a RANGE or ARRAY
// expression.
type ForStatement struct {
	StmtBase
	Type TypeExpr
	Name string
	Id   VarId
	Expr Expression
	Body Statement
}

// ParallelForStatement is `parfor (T x in, T x' out : expr) body`: the
// double-buffered parallel update over a population.
type ParallelForStatement struct {
	StmtBase
	Type    TypeExpr
	InName  string
	InId    VarId
	OutName string
	OutId   VarId
	Expr    Expression
	Body    Statement
}

// SimulateStatement is `simulate N { f1, f2, ... }`: the simulation
// driver loop. N is any compile-time-constant expression (folded to an
// int by config evaluation).
type SimulateStatement struct {
	StmtBase
	Steps     Expression
	StepFuncs []string // function names, in call order
}

// ReturnStatement is `return [expr];`.
type ReturnStatement struct {
	StmtBase
	Expr Expression // nil for a bare `return;`
}

// BreakStatement is `break;`.
type BreakStatement struct{ StmtBase }

// ContinueStatement is `continue;`.
type ContinueStatement struct{ StmtBase }
