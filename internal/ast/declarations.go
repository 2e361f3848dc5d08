package ast

// Param is one function parameter. OutName/OutId are set only for a
// `parfor`-style in/out pair used by step functions.
type Param struct {
	Type    TypeExpr
	Name    string
	Id      VarId
	OutName string // "" if this parameter has no paired out-binding
	OutId   VarId
}

// FunctionDeclaration is a top-level function or step function
// (IsInteract == true for `interact function`/`step`).
type FunctionDeclaration struct {
	DeclBase
	IsInteract bool
	IsStep     bool
	ReturnType TypeExpr
	Name       string
	Params     []Param
	Body       *BlockStatement

	// Filled by analysis:
	UsesRng       bool
	ReadsMembers  map[string]bool
	WritesMembers map[string]bool
	CallsNear     bool
}

// AgentMember is one field of an agent declaration.
type AgentMember struct {
	IsPosition bool
	Type       TypeExpr
	Name       string
}

// AgentDeclaration declares an agent (population element) type: an ordered
// list of members, exactly one of which is marked as the position.
type AgentDeclaration struct {
	DeclBase
	Name    string
	Members []AgentMember

	// Filled by analysis: index into Members of the position field.
	PositionIndex int
}

// ConstDeclaration declares a named compile-time constant.
type ConstDeclaration struct {
	DeclBase
	Type  TypeExpr
	Name  string
	Id    VarId
	Value Expression
}

// EnvironmentDeclaration is the script's single spatial environment block.
// Min/Size/Granularity are evaluated to constant types.Value by config
// evaluation; exactly one must exist per script.
type EnvironmentDeclaration struct {
	DeclBase
	MinExpr         Expression
	MaxExpr         Expression // analysis takes the extent from SizeExpr when set, else MaxExpr minus MinExpr
	SizeExpr        Expression
	GranularityExpr Expression
}

// SimulateDeclaration is the top-level `simulate N { f1, ..., fk }` block.
type SimulateDeclaration struct {
	DeclBase
	Stmt *SimulateStatement
}
