package analysis

import (
	"fmt"

	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/types"
)

// typeOf type-checks expr bottom-up in scope s, stores the resolved type on
// the node via SetType, and returns it. It also resolves
// VarExpression -> VarId and CallExpression -> user/builtin target as a
// side effect, since both require the same scope/declaration lookups.
func (a *Analyzer) typeOf(expr ast.Expression, s *scope) types.Type {
	t := a.computeType(expr, s)
	expr.SetType(t)
	return t
}

func (a *Analyzer) computeType(expr ast.Expression, s *scope) types.Type {
	switch e := expr.(type) {
	case *ast.BoolLiteral:
		return types.TBool
	case *ast.IntLiteral:
		return types.TInt32
	case *ast.FloatLiteral:
		return types.TFloat32
	case *ast.StringLiteral:
		return types.TString

	case *ast.VarExpression:
		if sym, ok := s.lookup(e.Name); ok {
			e.Id = sym.id
			return sym.typ
		}
		if v, ok := a.constValues[e.Name]; ok {
			return v.Typ
		}
		a.errs.add(e.Pos(), "undefined variable %q", e.Name)
		return types.TInvalid

	case *ast.UnaryExpression:
		t := a.typeOf(e.Expr, s)
		rt, err := unaryResultType(e.Op, t)
		if err != nil {
			a.errs.add(e.Pos(), "%s", err)
			return types.TInvalid
		}
		return rt

	case *ast.BinaryExpression:
		lt := a.typeOf(e.Left, s)
		rt := a.typeOf(e.Right, s)
		result, err := binaryResultType(e.Op, lt, rt)
		if err != nil {
			a.errs.add(e.Pos(), "%s", err)
			return types.TInvalid
		}
		return result

	case *ast.TernaryExpression:
		ct := a.typeOf(e.Cond, s)
		if ct.Kind != types.Bool {
			a.errs.add(e.Cond.Pos(), "ternary condition must be bool, got %s", ct)
		}
		it := a.typeOf(e.If, s)
		elt := a.typeOf(e.Else, s)
		if !it.Equal(elt) {
			a.errs.add(e.Pos(), "ternary branches have mismatched types %s and %s", it, elt)
		}
		return it

	case *ast.CallExpression:
		return a.typeOfCall(e, s)

	case *ast.MemberAccessExpression:
		return a.typeOfMemberAccess(e, s)

	case *ast.ArrayAccessExpression:
		at := a.typeOf(e.Array, s)
		it := a.typeOf(e.Index, s)
		if it.Kind != types.Int32 {
			a.errs.add(e.Index.Pos(), "array index must be int, got %s", it)
		}
		if at.Kind != types.Array {
			a.errs.add(e.Array.Pos(), "cannot index non-array type %s", at)
			return types.TInvalid
		}
		return *at.Elem

	case *ast.ArrayInitExpression:
		return a.typeOfArrayInit(e, s)

	case *ast.NewArrayExpression:
		resolved, err := a.resolveType(&e.ElemType)
		if err != nil {
			a.errs.add(e.ElemType.Pos(), "%s", err)
		}
		e.ElemType.Resolved = resolved
		if sz := a.typeOf(e.Size, s); sz.Kind != types.Int32 {
			a.errs.add(e.Size.Pos(), "array size must be int, got %s", sz)
		}
		return types.TArray(resolved)

	case *ast.AgentCreationExpression:
		return a.typeOfAgentCreation(e, s)

	default:
		a.errs.add(expr.Pos(), "internal: unhandled expression type %T", expr)
		return types.TInvalid
	}
}

func (a *Analyzer) typeOfArrayInit(e *ast.ArrayInitExpression, s *scope) types.Type {
	if len(e.Elems) == 0 {
		a.errs.add(e.Pos(), "cannot infer type of empty array literal")
		return types.TInvalid
	}
	first := a.typeOf(e.Elems[0], s)
	for _, el := range e.Elems[1:] {
		t := a.typeOf(el, s)
		if !t.Equal(first) {
			a.errs.add(el.Pos(), "array literal element type %s does not match %s", t, first)
		}
	}
	// A 2- or 3-element literal of numeric scalars also doubles as a
	// vec2/vec3 constructor, e.g. for an environment's min/max/granularity;
	// the config evaluator in config.go applies that reading for
	// compile-time contexts. At the expression level we keep the literal's
	// natural array type.
	return types.TArray(first)
}

func (a *Analyzer) typeOfCall(e *ast.CallExpression, s *scope) types.Type {
	argTypes := make([]types.Type, len(e.Args))
	for i, arg := range e.Args {
		argTypes[i] = a.typeOf(arg, s)
	}

	switch e.Name {
	case builtinAdd:
		return a.typeOfAdd(e, argTypes)
	case builtinNear:
		return a.typeOfNear(e, argTypes)
	case builtinSave:
		if len(argTypes) != 1 || argTypes[0].Kind != types.String {
			a.errs.add(e.Pos(), "save expects a single string argument")
		}
		return types.TVoid
	}

	if fn, ok := a.funcs[e.Name]; ok {
		e.ResolvedUser = fn
		if len(argTypes) != len(fn.Params) {
			a.errs.add(e.Pos(), "function %q expects %d arguments, got %d", e.Name, len(fn.Params), len(argTypes))
			return fn.ReturnType.Resolved
		}
		for i, p := range fn.Params {
			if !assignable(p.Type.Resolved, argTypes[i]) {
				a.errs.add(e.Args[i].Pos(), "function %q parameter %d: cannot pass %s as %s",
					e.Name, i+1, argTypes[i], p.Type.Resolved)
			}
		}
		return fn.ReturnType.Resolved
	}

	argKinds := make([]types.Kind, len(argTypes))
	for i, t := range argTypes {
		argKinds[i] = t.Kind
	}
	if b, ok := lookupBuiltin(e.Name, argKinds); ok {
		e.ResolvedBuiltin = &ast.BuiltinOverload{
			Name: b.Name, Mangled: b.Mangled, ReturnType: types.Type{Kind: b.ReturnKind},
		}
		for _, k := range b.ParamKinds {
			e.ResolvedBuiltin.ParamTypes = append(e.ResolvedBuiltin.ParamTypes, types.Type{Kind: k})
		}
		if usesRngBuiltins[e.Name] && a.currentFunc != nil {
			a.currentFunc.UsesRng = true
		}
		return e.ResolvedBuiltin.ReturnType
	}

	a.errs.add(e.Pos(), "call to undefined function or builtin overload %q", e.Name)
	return types.TInvalid
}

// typeOfAdd enforces `add(a)` may only appear inside a step function.
func (a *Analyzer) typeOfAdd(e *ast.CallExpression, argTypes []types.Type) types.Type {
	if len(argTypes) != 1 || argTypes[0].Kind != types.Agent {
		a.errs.add(e.Pos(), "add expects a single agent-typed argument")
		return types.TVoid
	}
	if a.currentFunc == nil || !a.currentFunc.IsStep {
		a.errs.add(e.Pos(), "add(a) may only appear inside a step function")
	}
	return types.TVoid
}

// typeOfNear enforces `near(a, r)` may only appear where `a` is the `in`
// binding of an enclosing parfor, or — the `parfor (n in, n2 out :
// near(self, r))` idiom a step function's body normally takes, where the
// parfor's own population expression is type-checked (with inParforHead
// set) before that parfor pushes itself onto enclosingFor, so it isn't
// valid against itself — the step or interact function currently being
// analyzed's own in-parameter, when this near call is directly the head
// of an outermost parfor (not nested in another, and not a free-standing
// call elsewhere in the body).
func (a *Analyzer) typeOfNear(e *ast.CallExpression, argTypes []types.Type) types.Type {
	if len(argTypes) != 2 || argTypes[0].Kind != types.Agent || argTypes[1].Kind != types.Float32 {
		a.errs.add(e.Pos(), "near expects (agent, float) arguments")
		return types.TInvalid
	}
	if a.currentFunc != nil {
		a.currentFunc.CallsNear = true
	}

	varExpr, ok := e.Args[0].(*ast.VarExpression)
	valid := false
	if ok {
		if len(a.enclosingFor) > 0 {
			enclosing := a.enclosingFor[len(a.enclosingFor)-1]
			valid = varExpr.Name == enclosing.InName
		} else if a.inParforHead && a.currentFunc != nil && (a.currentFunc.IsStep || a.currentFunc.IsInteract) {
			for _, p := range a.currentFunc.Params {
				if p.Name == varExpr.Name {
					valid = true
					break
				}
			}
		}
	}
	if !valid {
		a.errs.add(e.Pos(), "near(a, r) may only appear where a is the in-binding of an enclosing parfor")
	}
	return types.TArray(argTypes[0])
}

// typeOfMemberAccess resolves `expr.member` against the receiver's agent
// type, and marks the member in the enclosing function's ReadsMembers
// flags (for any agent-typed receiver). WritesMembers is set separately,
// by markMemberWrite on assignment targets.
func (a *Analyzer) typeOfMemberAccess(e *ast.MemberAccessExpression, s *scope) types.Type {
	rt := a.typeOf(e.Expr, s)
	if rt.Kind == types.Vec2 || rt.Kind == types.Vec3 {
		switch e.Member {
		case "x", "y":
			return types.TFloat32
		case "z":
			if rt.Kind == types.Vec3 {
				return types.TFloat32
			}
		}
		a.errs.add(e.Pos(), "type %s has no member %q", rt, e.Member)
		return types.TInvalid
	}

	if rt.Kind != types.Agent {
		a.errs.add(e.Pos(), "cannot access member %q of non-agent, non-vec type %s", e.Member, rt)
		return types.TInvalid
	}
	agent, ok := a.agents[rt.AgentName]
	if !ok {
		return types.TInvalid
	}
	for _, m := range agent.Members {
		if m.Name == e.Member {
			if a.currentFunc != nil {
				a.currentFunc.ReadsMembers[e.Member] = true
			}
			return m.Type.Resolved
		}
	}
	a.errs.add(e.Pos(), "agent %q has no member %q", rt.AgentName, e.Member)
	return types.TInvalid
}

func (a *Analyzer) typeOfAgentCreation(e *ast.AgentCreationExpression, s *scope) types.Type {
	agent, ok := a.agents[e.AgentName]
	if !ok {
		a.errs.add(e.Pos(), "undefined agent type %q", e.AgentName)
		return types.TInvalid
	}
	memberType := func(name string) (types.Type, bool) {
		for _, m := range agent.Members {
			if m.Name == name {
				return m.Type.Resolved, true
			}
		}
		return types.TInvalid, false
	}
	for i := range e.Members {
		m := &e.Members[i]
		declared, ok := memberType(m.Name)
		if !ok {
			a.errs.add(e.Pos(), "agent %q has no member %q", e.AgentName, m.Name)
			continue
		}
		vt := a.typeOf(m.Value, s)
		if !assignable(declared, vt) {
			a.errs.add(m.Value.Pos(), "agent %q member %q: cannot assign %s to %s",
				e.AgentName, m.Name, vt, declared)
		}
	}
	return types.TAgent(e.AgentName)
}

func unaryResultType(op string, t types.Type) (types.Type, error) {
	switch op {
	case "-", "+":
		if !t.IsNumeric() {
			return types.TInvalid, fmt.Errorf("unary %q requires a numeric operand, got %s", op, t)
		}
		return t, nil
	case "!":
		if t.Kind != types.Bool {
			return types.TInvalid, fmt.Errorf("unary ! requires a bool operand, got %s", t)
		}
		return types.TBool, nil
	case "~":
		if t.Kind != types.Int32 {
			return types.TInvalid, fmt.Errorf("unary ~ requires an int operand, got %s", t)
		}
		return types.TInt32, nil
	}
	return types.TInvalid, fmt.Errorf("unknown unary operator %q", op)
}

// binaryResultType implements :
// INT op INT -> INT; float promotion when either side is FLOAT; VEC
// componentwise when both sides are the same VEC kind, VEC op FLOAT
// broadcasts; comparisons return BOOL; `..` produces RANGE.
func binaryResultType(op string, l, r types.Type) (types.Type, error) {
	switch op {
	case "==", "!=":
		if !l.Equal(r) && !(l.IsNumeric() && r.IsNumeric()) {
			return types.TInvalid, fmt.Errorf("cannot compare %s and %s", l, r)
		}
		return types.TBool, nil
	case "<", "<=", ">", ">=":
		if !l.IsNumeric() || !r.IsNumeric() || l.IsVec() || r.IsVec() {
			return types.TInvalid, fmt.Errorf("relational operator %q requires scalar numeric operands, got %s and %s", op, l, r)
		}
		return types.TBool, nil
	case "&&", "||":
		if l.Kind != types.Bool || r.Kind != types.Bool {
			return types.TInvalid, fmt.Errorf("logical operator %q requires bool operands, got %s and %s", op, l, r)
		}
		return types.TBool, nil
	case "&", "|", "^", "<<", ">>", "%":
		if l.Kind != types.Int32 || r.Kind != types.Int32 {
			return types.TInvalid, fmt.Errorf("bitwise operator %q requires int operands, got %s and %s", op, l, r)
		}
		return types.TInt32, nil
	case "..":
		if l.Kind != types.Int32 || r.Kind != types.Int32 {
			return types.TInvalid, fmt.Errorf("range operator .. requires int operands, got %s and %s", l, r)
		}
		return types.TRange, nil
	case "+", "-", "*", "/":
		return arithmeticResultType(op, l, r)
	}
	return types.TInvalid, fmt.Errorf("unknown binary operator %q", op)
}

func arithmeticResultType(op string, l, r types.Type) (types.Type, error) {
	if l.IsVec() || r.IsVec() {
		if l.IsVec() && r.IsVec() {
			if l.Kind != r.Kind {
				return types.TInvalid, fmt.Errorf("cannot apply %q to mismatched vec types %s and %s", op, l, r)
			}
			return l, nil
		}
		// VEC op FLOAT/INT broadcasts.
		vec, scalar := l, r
		if r.IsVec() {
			vec, scalar = r, l
		}
		if !scalar.IsNumeric() || scalar.IsVec() {
			return types.TInvalid, fmt.Errorf("cannot apply %q to %s and %s", op, l, r)
		}
		return vec, nil
	}

	if !l.IsNumeric() || !r.IsNumeric() {
		if l.Kind == types.String && r.Kind == types.String && op == "+" {
			return types.TString, nil
		}
		return types.TInvalid, fmt.Errorf("operator %q requires numeric operands, got %s and %s", op, l, r)
	}
	if l.Kind == types.Float32 || r.Kind == types.Float32 {
		return types.TFloat32, nil
	}
	return types.TInt32, nil
}
