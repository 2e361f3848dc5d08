package analysis

import (
	"sort"

	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/types"
)

// Analyzer performs OpenABL's single semantic analysis pass over a parsed
// Script: declaration collection, const/environment folding, per-function
// scope and type checking, and the simulation structural checks. One
// struct owns every lookup table, and diagnostics accumulate in errs
// rather than aborting the walk on the first one.
type Analyzer struct {
	script *ast.Script
	errs   errorStream

	agents      map[string]*ast.AgentDeclaration
	funcs       map[string]*ast.FunctionDeclaration
	constValues map[string]types.Value

	nextVarID ast.VarId

	// Folded environment extent, filled by resolveEnvironment.
	envMin, envSize, envGranularity types.Value

	// per-function walk state
	currentFunc  *ast.FunctionDeclaration
	enclosingFor []*ast.ParallelForStatement // stack, for `near` placement checks
	inParforHead bool                        // true while type-checking a parfor's own population expr
	loopDepth    int
}

// Environment returns the folded environment extent (min, size,
// granularity), valid after Analyze returns with no errors.
func (a *Analyzer) Environment() (min, size, granularity types.Value) {
	return a.envMin, a.envSize, a.envGranularity
}

// Analyze runs every pass over script, mutating its nodes in place
// (resolved types, VarIds, call targets, per-function flags) and returns
// the accumulated diagnostics. A non-nil, non-empty return means code
// generation must be refused.
func Analyze(script *ast.Script) []*Error {
	a := &Analyzer{
		script:      script,
		agents:      make(map[string]*ast.AgentDeclaration),
		funcs:       make(map[string]*ast.FunctionDeclaration),
		constValues: make(map[string]types.Value),
	}

	a.collectDeclarations()
	a.resolveAgentMembers()
	a.foldConsts()
	a.resolveEnvironment()
	a.resolveSimulate()
	for _, fn := range a.script.Funcs {
		a.analyzeFunction(fn)
	}

	return a.errs.errs
}

func (a *Analyzer) mintVarID() ast.VarId {
	id := a.nextVarID
	a.nextVarID++
	return id
}

// collectDeclarations buckets script.Decls by kind into the Analyzer's flat
// tables and script.Agents/Funcs/Consts, and enforces the one-environment /
// one-simulate / unique-name invariants.
func (a *Analyzer) collectDeclarations() {
	constNames := make(map[string]bool)
	for _, decl := range a.script.Decls {
		switch d := decl.(type) {
		case *ast.AgentDeclaration:
			if _, dup := a.agents[d.Name]; dup {
				a.errs.add(d.Pos(), "duplicate agent declaration %q", d.Name)
				continue
			}
			a.agents[d.Name] = d
			a.script.Agents = append(a.script.Agents, d)

		case *ast.FunctionDeclaration:
			if existing, dup := a.funcs[d.Name]; dup {
				a.errs.add(d.Pos(), "duplicate function declaration %q (also declared at line %d)",
					d.Name, existing.Pos().Begin.Line)
				continue
			}
			a.funcs[d.Name] = d
			a.script.Funcs = append(a.script.Funcs, d)

		case *ast.ConstDeclaration:
			if constNames[d.Name] {
				a.errs.add(d.Pos(), "duplicate const declaration %q", d.Name)
				continue
			}
			constNames[d.Name] = true
			a.script.Consts = append(a.script.Consts, d)

		case *ast.EnvironmentDeclaration:
			if a.script.Env != nil {
				a.errs.add(d.Pos(), "duplicate environment declaration")
				continue
			}
			a.script.Env = d

		case *ast.SimulateDeclaration:
			if a.script.Simulate != nil {
				a.errs.add(d.Pos(), "duplicate simulate declaration")
				continue
			}
			a.script.Simulate = d
		}
	}

	if a.script.Env == nil {
		a.errs.add(ast.Location{}, "script has no environment declaration")
	}
	if a.script.Simulate == nil {
		a.errs.add(ast.Location{}, "script has no simulate declaration")
	}
}

// resolveAgentMembers resolves every agent's member TypeExprs to
// types.Type and enforces exactly-one position member.
func (a *Analyzer) resolveAgentMembers() {
	for _, agent := range a.script.Agents {
		agent.PositionIndex = -1
		for i := range agent.Members {
			m := &agent.Members[i]
			resolved, err := a.resolveType(&m.Type)
			if err != nil {
				a.errs.add(m.Type.Pos(), "agent %q member %q: %s", agent.Name, m.Name, err)
			}
			m.Type.Resolved = resolved
			if m.IsPosition {
				if agent.PositionIndex != -1 {
					a.errs.add(m.Type.Pos(), "agent %q has more than one position member (%q and %q)",
						agent.Name, agent.Members[agent.PositionIndex].Name, m.Name)
					continue
				}
				agent.PositionIndex = i
				if resolved.Kind != types.Vec2 && resolved.Kind != types.Vec3 {
					a.errs.add(m.Type.Pos(), "agent %q position member %q must be vec2 or vec3, got %s",
						agent.Name, m.Name, resolved)
				}
			}
		}
		if agent.PositionIndex == -1 {
			a.errs.add(agent.Pos(), "agent %q has no position member", agent.Name)
		}
	}
}

// foldConsts evaluates every const declaration in source order, so a const
// may reference an earlier one.
func (a *Analyzer) foldConsts() {
	for _, c := range a.script.Consts {
		v, err := a.evalConst(c.Value)
		if err != nil {
			a.errs.add(c.Pos(), "const %q: %s", c.Name, err)
			continue
		}
		c.Type.Resolved = v.Typ
		a.constValues[c.Name] = v
	}
}

// resolveEnvironment folds the environment block's extent/granularity
// expressions to constant types.Value and normalizes
// `max` to `size` (min+size) when the script wrote `max` instead.
func (a *Analyzer) resolveEnvironment() {
	env := a.script.Env
	if env == nil {
		return
	}

	required := map[string]ast.Expression{"min": env.MinExpr, "granularity": env.GranularityExpr}
	for key, expr := range required {
		if expr == nil {
			a.errs.add(env.Pos(), "environment block is missing required key %q", key)
		}
	}
	if env.MaxExpr == nil && env.SizeExpr == nil {
		a.errs.add(env.Pos(), "environment block must specify either \"max\" or \"size\"")
	}

	fold := func(expr ast.Expression) (types.Value, bool) {
		if expr == nil {
			return types.Value{}, false
		}
		v, err := a.evalConst(expr)
		if err != nil {
			a.errs.add(expr.Pos(), "environment block: %s", err)
			return types.Value{}, false
		}
		if !v.Typ.IsVec() && expr != env.GranularityExpr {
			a.errs.add(expr.Pos(), "environment extent must be a vec2/vec3, got %s", v.Typ)
			return types.Value{}, false
		}
		return v, true
	}

	if v, ok := fold(env.MinExpr); ok {
		a.envMin = v
	}
	if env.SizeExpr != nil {
		if v, ok := fold(env.SizeExpr); ok {
			a.envSize = v
		}
	} else if v, ok := fold(env.MaxExpr); ok {
		a.envSize = subtractVec(v, a.envMin)
	}
	if env.GranularityExpr != nil {
		v, err := a.evalConst(env.GranularityExpr)
		if err != nil {
			a.errs.add(env.GranularityExpr.Pos(), "environment granularity: %s", err)
		} else {
			a.envGranularity = v
		}
	}

	a.script.EnvMin = a.envMin
	a.script.EnvSize = a.envSize
	a.script.EnvGranularity = a.envGranularity
}

func subtractVec(a, b types.Value) types.Value {
	if a.Typ.Kind == types.Vec3 || b.Typ.Kind == types.Vec3 {
		return types.Vec3Value(a.Vec[0]-b.Vec[0], a.Vec[1]-b.Vec[1], a.Vec[2]-b.Vec[2])
	}
	return types.Vec2Value(a.Vec[0]-b.Vec[0], a.Vec[1]-b.Vec[1])
}

// resolveSimulate type-checks the step count expression and resolves every
// referenced function name to its declaration, requiring it to be a step
// function.
func (a *Analyzer) resolveSimulate() {
	sim := a.script.Simulate
	if sim == nil {
		return
	}
	v, err := a.evalConst(sim.Stmt.Steps)
	if err != nil {
		a.errs.add(sim.Stmt.Steps.Pos(), "simulate step count: %s", err)
	} else if v.Typ.Kind != types.Int32 {
		a.errs.add(sim.Stmt.Steps.Pos(), "simulate step count must be int, got %s", v.Typ)
	}

	for _, name := range sim.Stmt.StepFuncs {
		fn, ok := a.funcs[name]
		if !ok {
			a.errs.add(sim.Pos(), "simulate: undefined function %q", name)
			continue
		}
		if !fn.IsStep {
			a.errs.add(sim.Pos(), "simulate: %q is not a step function", name)
		}
	}
}

// sortedAgentNames returns agent names sorted alphabetically, an order
// that does not depend on map iteration.
func (a *Analyzer) sortedAgentNames() []string {
	names := make([]string, 0, len(a.agents))
	for name := range a.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
