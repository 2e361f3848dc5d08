package analysis

import (
	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/types"
)

// analyzeFunction type-checks one function's parameter list and body, and
// derives its usesRng/reads/writes/callsNear flags.
func (a *Analyzer) analyzeFunction(fn *ast.FunctionDeclaration) {
	prevFunc := a.currentFunc
	a.currentFunc = fn
	defer func() { a.currentFunc = prevFunc }()

	fn.ReadsMembers = make(map[string]bool)
	fn.WritesMembers = make(map[string]bool)

	top := newScope(nil)
	for i := range fn.Params {
		p := &fn.Params[i]
		resolved, err := a.resolveType(&p.Type)
		if err != nil {
			a.errs.add(p.Type.Pos(), "function %q parameter %q: %s", fn.Name, p.Name, err)
		}
		p.Type.Resolved = resolved
		p.Id = a.mintVarID()
		top.define(p.Name, p.Id, resolved)

		if p.OutName != "" {
			p.OutId = a.mintVarID()
			top.define(p.OutName, p.OutId, resolved)
		}
	}

	if fn.ReturnType.Name != "" {
		resolved, err := a.resolveType(&fn.ReturnType)
		if err != nil {
			a.errs.add(fn.ReturnType.Pos(), "function %q return type: %s", fn.Name, err)
		}
		fn.ReturnType.Resolved = resolved
	} else {
		fn.ReturnType.Resolved = types.TVoid
	}

	a.analyzeBlock(fn.Body, top)
}

// analyzeBlock walks a block's statements in a fresh child scope.
func (a *Analyzer) analyzeBlock(block *ast.BlockStatement, parent *scope) {
	s := newScope(parent)
	for _, stmt := range block.Stmts {
		a.analyzeStatement(stmt, s)
	}
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement, s *scope) {
	switch st := stmt.(type) {
	case *ast.ExpressionStatement:
		a.typeOf(st.Expr, s)

	case *ast.AssignStatement:
		lt := a.typeOf(st.Left, s)
		rt := a.typeOf(st.Right, s)
		a.checkLValue(st.Left)
		if !assignable(lt, rt) {
			a.errs.add(st.Pos(), "cannot assign %s to %s", rt, lt)
		}
		a.markMemberWrite(st.Left)

	case *ast.AssignOpStatement:
		lt := a.typeOf(st.Left, s)
		rt := a.typeOf(st.Right, s)
		a.checkLValue(st.Left)
		if _, err := binaryResultType(st.Op, lt, rt); err != nil {
			a.errs.add(st.Pos(), "%s", err)
		}
		a.markMemberWrite(st.Left)

	case *ast.BlockStatement:
		a.analyzeBlock(st, s)

	case *ast.VarDeclarationStatement:
		declared, err := a.resolveType(&st.Type)
		if err != nil {
			a.errs.add(st.Pos(), "%s", err)
		}
		st.Type.Resolved = declared
		if st.Initializer != nil {
			it := a.typeOf(st.Initializer, s)
			if !assignable(declared, it) {
				a.errs.add(st.Pos(), "cannot initialize %s variable %q with %s", declared, st.Name, it)
			}
		}
		st.Id = a.mintVarID()
		s.define(st.Name, st.Id, declared)

	case *ast.IfStatement:
		if ct := a.typeOf(st.Cond, s); ct.Kind != types.Bool {
			a.errs.add(st.Cond.Pos(), "if condition must be bool, got %s", ct)
		}
		a.analyzeStatement(st.Then, s)
		if st.Else != nil {
			a.analyzeStatement(st.Else, s)
		}

	case *ast.WhileStatement:
		if ct := a.typeOf(st.Cond, s); ct.Kind != types.Bool {
			a.errs.add(st.Cond.Pos(), "while condition must be bool, got %s", ct)
		}
		a.loopDepth++
		a.analyzeStatement(st.Body, s)
		a.loopDepth--

	case *ast.ForStatement:
		et := a.typeOf(st.Expr, s)
		elemType, err := forElementType(et)
		if err != nil {
			a.errs.add(st.Expr.Pos(), "%s", err)
		}
		st.Type.Resolved = elemType
		st.Id = a.mintVarID()
		inner := newScope(s)
		inner.define(st.Name, st.Id, elemType)
		a.loopDepth++
		a.analyzeStatement(st.Body, inner)
		a.loopDepth--

	case *ast.ParallelForStatement:
		a.analyzeParallelFor(st, s)

	case *ast.SimulateStatement:
		// Only reachable as a statement if a future grammar extension
		// allows inline simulate; simulate is otherwise a top-level
		// declaration. Nothing to check beyond what resolveSimulate already
		// covers.

	case *ast.ReturnStatement:
		var rt types.Type
		if st.Expr != nil {
			rt = a.typeOf(st.Expr, s)
		} else {
			rt = types.TVoid
		}
		if a.currentFunc != nil && !assignable(a.currentFunc.ReturnType.Resolved, rt) {
			a.errs.add(st.Pos(), "function %q returns %s, return statement has %s",
				a.currentFunc.Name, a.currentFunc.ReturnType.Resolved, rt)
		}

	case *ast.BreakStatement:
		if a.loopDepth == 0 {
			a.errs.add(st.Pos(), "break outside of a loop")
		}

	case *ast.ContinueStatement:
		if a.loopDepth == 0 {
			a.errs.add(st.Pos(), "continue outside of a loop")
		}
	}
}

// analyzeParallelFor checks the parfor shape invariant (
// 5: the population expression must be ARRAY(AGENT(t)); `in`/`out` share
// that agent type) and pushes onto enclosingFor so nested `near(a, r)`
// calls can validate their placement. The population expression itself
// (the `: near(self, r)` clause) is type-checked with inParforHead set, so
// a parfor written directly in a step function body can query `near` on
// that function's own in-binding even though this parfor hasn't pushed
// onto enclosingFor yet (it isn't valid against itself).
func (a *Analyzer) analyzeParallelFor(st *ast.ParallelForStatement, s *scope) {
	prevHead := a.inParforHead
	a.inParforHead = true
	popType := a.typeOf(st.Expr, s)
	a.inParforHead = prevHead
	agentType, err := forElementType(popType)
	if err != nil {
		a.errs.add(st.Expr.Pos(), "%s", err)
		agentType = types.TInvalid
	} else if agentType.Kind != types.Agent {
		a.errs.add(st.Expr.Pos(), "parfor population must be an array of agents, got array of %s", agentType)
	}

	st.Type.Resolved = agentType
	st.InId = a.mintVarID()
	st.OutId = a.mintVarID()

	inner := newScope(s)
	inner.define(st.InName, st.InId, agentType)
	inner.define(st.OutName, st.OutId, agentType)

	a.enclosingFor = append(a.enclosingFor, st)
	a.analyzeStatement(st.Body, inner)
	a.enclosingFor = a.enclosingFor[:len(a.enclosingFor)-1]
}

func forElementType(t types.Type) (types.Type, error) {
	switch t.Kind {
	case types.Array:
		return *t.Elem, nil
	case types.Range:
		return types.TInt32, nil
	default:
		return types.TInvalid, errInvalidIterable(t)
	}
}

func errInvalidIterable(t types.Type) error {
	return &Error{Message: "cannot iterate over " + t.String()}
}

// checkLValue enforces -value rule for assignment
// targets: a variable, member access, or array access.
func (a *Analyzer) checkLValue(expr ast.Expression) {
	switch expr.(type) {
	case *ast.VarExpression, *ast.MemberAccessExpression, *ast.ArrayAccessExpression:
		return
	default:
		a.errs.add(expr.Pos(), "invalid assignment target")
	}
}

// markMemberWrite records a `self.member = ...`-shaped write for the
// currently-analyzed function's WritesMembers flag set.
func (a *Analyzer) markMemberWrite(expr ast.Expression) {
	if a.currentFunc == nil {
		return
	}
	if m, ok := expr.(*ast.MemberAccessExpression); ok {
		a.currentFunc.WritesMembers[m.Member] = true
	}
}

func assignable(dst, src types.Type) bool {
	if dst.Equal(src) {
		return true
	}
	// INT -> FLOAT widening mirrors the arithmetic promotion rule below.
	if dst.Kind == types.Float32 && src.Kind == types.Int32 {
		return true
	}
	return false
}
