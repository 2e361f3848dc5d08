package analysis

import (
	"fmt"

	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/types"
)

// evalConst folds a compile-time-constant expression to a types.Value:
// literal, reference to an already-folded const, or a
// unary/binary/vec-constructor combination of such. It is a pure
// function over the AST plus the Analyzer's already-resolved const table;
// it never touches a scope, since config expressions cannot reference
// local variables.
func (a *Analyzer) evalConst(expr ast.Expression) (types.Value, error) {
	switch e := expr.(type) {
	case *ast.BoolLiteral:
		return types.BoolValue(e.Value), nil
	case *ast.IntLiteral:
		return types.IntValue(e.Value), nil
	case *ast.FloatLiteral:
		return types.FloatValue(e.Value), nil
	case *ast.StringLiteral:
		return types.StringValue(e.Value), nil

	case *ast.VarExpression:
		if v, ok := a.constValues[e.Name]; ok {
			return v, nil
		}
		return types.Value{}, fmt.Errorf("%q is not a compile-time constant", e.Name)

	case *ast.UnaryExpression:
		v, err := a.evalConst(e.Expr)
		if err != nil {
			return types.Value{}, err
		}
		return evalConstUnary(e.Op, v)

	case *ast.BinaryExpression:
		l, err := a.evalConst(e.Left)
		if err != nil {
			return types.Value{}, err
		}
		r, err := a.evalConst(e.Right)
		if err != nil {
			return types.Value{}, err
		}
		return evalConstBinary(e.Op, l, r)

	case *ast.ArrayInitExpression:
		// A `[x, y]` / `[x, y, z]` literal in a const/environment
		// context constructs a vec2/vec3.
		return evalConstVec(a, e)

	default:
		return types.Value{}, fmt.Errorf("expression of type %T is not a compile-time constant", expr)
	}
}

func evalConstVec(a *Analyzer, e *ast.ArrayInitExpression) (types.Value, error) {
	if len(e.Elems) != 2 && len(e.Elems) != 3 {
		return types.Value{}, fmt.Errorf("vec literal must have 2 or 3 components, got %d", len(e.Elems))
	}
	comps := make([]float64, len(e.Elems))
	for i, elemExpr := range e.Elems {
		v, err := a.evalConst(elemExpr)
		if err != nil {
			return types.Value{}, err
		}
		if !v.Typ.IsNumeric() || v.Typ.IsVec() {
			return types.Value{}, fmt.Errorf("vec literal component must be numeric scalar, got %s", v.Typ)
		}
		comps[i] = v.AsFloat()
	}
	if len(comps) == 2 {
		return types.Vec2Value(comps[0], comps[1]), nil
	}
	return types.Vec3Value(comps[0], comps[1], comps[2]), nil
}

func evalConstUnary(op string, v types.Value) (types.Value, error) {
	switch op {
	case "-":
		switch v.Typ.Kind {
		case types.Int32:
			return types.IntValue(-v.Int), nil
		case types.Float32:
			return types.FloatValue(-v.Float), nil
		}
	case "+":
		return v, nil
	case "!":
		if v.Typ.Kind == types.Bool {
			return types.BoolValue(!v.Bool), nil
		}
	}
	return types.Value{}, fmt.Errorf("invalid unary operator %q for constant of type %s", op, v.Typ)
}

func evalConstBinary(op string, l, r types.Value) (types.Value, error) {
	if l.Typ.Kind == types.Int32 && r.Typ.Kind == types.Int32 {
		li, ri := l.Int, r.Int
		switch op {
		case "+":
			return types.IntValue(li + ri), nil
		case "-":
			return types.IntValue(li - ri), nil
		case "*":
			return types.IntValue(li * ri), nil
		case "/":
			if ri == 0 {
				return types.Value{}, fmt.Errorf("integer division by zero in constant expression")
			}
			return types.IntValue(li / ri), nil
		}
	}

	// Mixed int/float or float/float: promote both operands to float.
	if l.Typ.IsNumeric() && !l.Typ.IsVec() && r.Typ.IsNumeric() && !r.Typ.IsVec() {
		lf, rf := l.AsFloat(), r.AsFloat()
		switch op {
		case "+":
			return types.FloatValue(lf + rf), nil
		case "-":
			return types.FloatValue(lf - rf), nil
		case "*":
			return types.FloatValue(lf * rf), nil
		case "/":
			if rf == 0 {
				return types.Value{}, fmt.Errorf("division by zero in constant expression")
			}
			return types.FloatValue(lf / rf), nil
		}
	}

	return types.Value{}, fmt.Errorf("invalid constant expression: %s %s %s", l.Typ, op, r.Typ)
}
