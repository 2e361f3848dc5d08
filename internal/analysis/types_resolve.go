package analysis

import (
	"fmt"

	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/types"
)

// resolveType turns a surface TypeExpr into a semantic types.Type,
// resolving agent-type names against the agent table and recursing for
// array element types.
func (a *Analyzer) resolveType(t *ast.TypeExpr) (types.Type, error) {
	if t.IsArray {
		elem, err := a.resolveType(t.Elem)
		if err != nil {
			return types.TInvalid, err
		}
		return types.TArray(elem), nil
	}

	switch t.Name {
	case "bool":
		return types.TBool, nil
	case "int":
		return types.TInt32, nil
	case "float":
		return types.TFloat32, nil
	case "string":
		return types.TString, nil
	case "vec2":
		return types.TVec2, nil
	case "vec3":
		return types.TVec3, nil
	}

	if _, ok := a.agents[t.Name]; ok {
		return types.TAgent(t.Name), nil
	}
	return types.TInvalid, fmt.Errorf("undefined type %q", t.Name)
}
