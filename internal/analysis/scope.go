package analysis

import (
	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/types"
)

// varSymbol is one binding in a scope: its minted VarId and declared type.
type varSymbol struct {
	id  ast.VarId
	typ types.Type
}

// scope is one lexical level of the variable stack. OpenABL names are
// case-sensitive, and scopes never hold function symbols — functions and
// agents live in the Analyzer's flat, whole-script tables instead, since
// OpenABL has no nested function declarations.
type scope struct {
	vars  map[string]varSymbol
	outer *scope
}

func newScope(outer *scope) *scope {
	return &scope{vars: make(map[string]varSymbol), outer: outer}
}

func (s *scope) define(name string, id ast.VarId, typ types.Type) {
	s.vars[name] = varSymbol{id: id, typ: typ}
}

// lookup walks outward through enclosing scopes.
func (s *scope) lookup(name string) (varSymbol, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if sym, ok := cur.vars[name]; ok {
			return sym, true
		}
	}
	return varSymbol{}, false
}
