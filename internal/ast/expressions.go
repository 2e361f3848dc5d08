package ast

import "github.com/openabl/openabl-go/internal/types"

// BoolLiteral is a `true`/`false` literal expression.
type BoolLiteral struct {
	ExprBase
	Value bool
}

// IntLiteral is an integer literal expression.
type IntLiteral struct {
	ExprBase
	Value int64
}

// FloatLiteral is a floating-point literal expression.
type FloatLiteral struct {
	ExprBase
	Value float64
}

// StringLiteral is a string literal expression.
type StringLiteral struct {
	ExprBase
	Value string
}

// VarExpression references a declared variable. Id is NoVarId until
// analysis resolves it against the scope chain.
type VarExpression struct {
	ExprBase
	Name string
	Id   VarId
}

// UnaryExpression is a prefix unary operation: -x, +x, !x, ~x.
type UnaryExpression struct {
	ExprBase
	Op   string
	Expr Expression
}

// BinaryExpression is an infix binary operation.
type BinaryExpression struct {
	ExprBase
	Op    string
	Left  Expression
	Right Expression
}

// TernaryExpression is `cond ? ifExpr : elseExpr`.
type TernaryExpression struct {
	ExprBase
	Cond Expression
	If   Expression
	Else Expression
}

// CallExpression is a call to a user function or builtin overload. Resolved
// fields (Target, Mangled) are filled by analysis.
type CallExpression struct {
	ExprBase
	Name string
	Args []Expression

	// Resolved by analysis:
	ResolvedUser    *FunctionDeclaration // non-nil if this calls a user function
	ResolvedBuiltin *BuiltinOverload     // non-nil if this calls a builtin overload
}

// BuiltinOverload is a resolved (name, paramTypes -> returnType,
// mangled target name) tuple, seeded into the analyzer's builtin table.
type BuiltinOverload struct {
	Name       string
	ParamTypes []types.Type
	ReturnType types.Type
	Mangled    string
}

// MemberAccessExpression is `expr.member`.
type MemberAccessExpression struct {
	ExprBase
	Expr   Expression
	Member string
}

// ArrayAccessExpression is `array[index]`.
type ArrayAccessExpression struct {
	ExprBase
	Array Expression
	Index Expression
}

// ArrayInitExpression is an array literal `[e1, e2, ...]`.
type ArrayInitExpression struct {
	ExprBase
	Elems []Expression
}

// NewArrayExpression is `new T[size]`.
type NewArrayExpression struct {
	ExprBase
	ElemType TypeExpr
	Size     Expression
}

// MemberInitEntry is one `name: value` pair inside an AgentCreationExpression.
type MemberInitEntry struct {
	Name  string
	Value Expression
}

// AgentCreationExpression constructs an agent value via a named-member
// initializer list, e.g. `A { pos: p, energy: 10 }`.
type AgentCreationExpression struct {
	ExprBase
	AgentName string
	Members   []MemberInitEntry
}
