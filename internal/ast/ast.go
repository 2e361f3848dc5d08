// Package ast defines OpenABL's Abstract Syntax Tree: a closed set of
// expression, statement, and declaration node types, each owning its
// children and carrying a source Location and (after analysis) a resolved
// types.Type. Traversal is a Go type switch over the Node/Expression/
// Statement/Declaration interfaces rather than a virtual accept/visitor —
// see DESIGN.md for the rationale.
package ast

import (
	"github.com/openabl/openabl-go/internal/lexer"
	"github.com/openabl/openabl-go/internal/types"
)

// Location spans a node's source range for diagnostics.
type Location struct {
	File  string
	Begin lexer.Position
	End   lexer.Position
}

// VarId is an opaque dense identifier minted by the analyzer for each
// declared variable. Two VarExpressions referring to the same declaration
// carry the same VarId; it lets later passes identify aliasing without
// string lookups.
type VarId int32

// NoVarId marks a VarExpression whose declaration has not yet been (or
// could not be) resolved.
const NoVarId VarId = -1

// Node is the common interface implemented by every AST node.
type Node interface {
	Pos() Location
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	exprNode()
	GetType() types.Type
	SetType(types.Type)
}

// Statement is any node that performs an action without producing a value.
type Statement interface {
	Node
	stmtNode()
}

// Declaration is any top-level script entry.
type Declaration interface {
	Node
	declNode()
}

// ExprBase is embedded by every Expression implementation. It is exported
// so the parser can construct nodes directly with a Location.
type ExprBase struct {
	Loc Location
	Typ types.Type
}

// NewExprBase builds an ExprBase at loc with an as-yet-unresolved (Invalid)
// type, to be filled in by analysis.
func NewExprBase(loc Location) ExprBase { return ExprBase{Loc: loc, Typ: types.TInvalid} }

func (e *ExprBase) Pos() Location        { return e.Loc }
func (e *ExprBase) exprNode()            {}
func (e *ExprBase) GetType() types.Type  { return e.Typ }
func (e *ExprBase) SetType(t types.Type) { e.Typ = t }

// StmtBase is embedded by every Statement implementation.
type StmtBase struct {
	Loc Location
}

// NewStmtBase builds a StmtBase at loc.
func NewStmtBase(loc Location) StmtBase { return StmtBase{Loc: loc} }

func (s *StmtBase) Pos() Location { return s.Loc }
func (s *StmtBase) stmtNode()     {}

// DeclBase is embedded by every Declaration implementation.
type DeclBase struct {
	Loc Location
}

// NewDeclBase builds a DeclBase at loc.
func NewDeclBase(loc Location) DeclBase { return DeclBase{Loc: loc} }

func (d *DeclBase) Pos() Location { return d.Loc }
func (d *DeclBase) declNode()     {}

// Script is the AST root: an ordered list of top-level declarations.
type Script struct {
	Decls []Declaration

	// Filled by analysis: the script's unique environment and simulate
	// declarations, cached for backend use.
	Env      *EnvironmentDeclaration
	Simulate *SimulateDeclaration
	Agents   []*AgentDeclaration
	Funcs    []*FunctionDeclaration
	Consts   []*ConstDeclaration

	// EnvMin/EnvSize/EnvGranularity are the folded environment extent
	//, filled by analysis.resolveEnvironment. Valid
	// only when Env != nil.
	EnvMin, EnvSize, EnvGranularity types.Value
}
