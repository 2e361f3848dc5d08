package ast

import "github.com/openabl/openabl-go/internal/types"

// TypeExpr is the *surface* syntax for a type annotation (as written by the
// programmer), distinct from types.Type (the resolved semantic type).
// Analysis resolves a TypeExpr into a types.Type once, stored in Resolved.
type TypeExpr struct {
	Loc       Location
	Name      string   // "bool", "int", "float", "string", "vec2", "vec3", or an agent name
	IsArray   bool     // true for `T[]`
	Elem      *TypeExpr // non-nil when IsArray
	Resolved  types.Type
}

func (t *TypeExpr) Pos() Location { return t.Loc }
