package ast

import (
	"testing"

	"github.com/openabl/openabl-go/internal/types"
)

func TestExprKindsCarryLocationAndType(t *testing.T) {
	for _, e := range ExprKinds() {
		if e.GetType().Kind != types.Invalid {
			t.Fatalf("%T: zero-value type should be Invalid, got %s", e, e.GetType())
		}
		e.SetType(types.TInt32)
		if !e.GetType().Equal(types.TInt32) {
			t.Fatalf("%T: SetType did not stick", e)
		}
	}
}

func TestStmtAndDeclKindsHavePos(t *testing.T) {
	for _, s := range StmtKinds() {
		_ = s.Pos()
	}
	for _, d := range DeclKinds() {
		_ = d.Pos()
	}
}

func TestVarIdOfLiteralIsZeroOrNoVarId(t *testing.T) {
	v := &VarExpression{Name: "x"}
	if v.Id != 0 {
		// A struct literal leaves Id at its zero value; NoVarId is set by
		// the parser on every VarExpression it builds, not by the zero value.
		v.Id = NoVarId
	}
	if v.Id != NoVarId && v.Id != 0 {
		t.Fatalf("unexpected VarId %d", v.Id)
	}
}
