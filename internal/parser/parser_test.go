package parser

import (
	"testing"

	"github.com/openabl/openabl-go/internal/ast"
)

func TestParseMinimalScript(t *testing.T) {
	src := `
environment {
  min: [0, 0],
  max: [100, 100],
  granularity: 10
}

agent Boid {
  position vec2 pos;
  vec2 vel;
}

function float length(vec2 v) {
  return v.x;
}

step move(Boid self in, Boid next out) {
  next.pos = self.pos + self.vel;
}

simulate 100 {
  move
}
`
	script, err := ParseScript(src, "test.abl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(script.Decls) != 5 {
		t.Fatalf("expected 5 top-level decls, got %d", len(script.Decls))
	}

	if _, ok := script.Decls[0].(*ast.EnvironmentDeclaration); !ok {
		t.Errorf("decl 0: expected *ast.EnvironmentDeclaration, got %T", script.Decls[0])
	}
	agent, ok := script.Decls[1].(*ast.AgentDeclaration)
	if !ok {
		t.Fatalf("decl 1: expected *ast.AgentDeclaration, got %T", script.Decls[1])
	}
	if agent.Name != "Boid" || len(agent.Members) != 2 {
		t.Errorf("unexpected agent shape: %+v", agent)
	}
	if !agent.Members[0].IsPosition {
		t.Errorf("expected first member to be marked position")
	}

	fn, ok := script.Decls[2].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("decl 2: expected *ast.FunctionDeclaration, got %T", script.Decls[2])
	}
	if fn.Name != "length" || len(fn.Params) != 1 {
		t.Errorf("unexpected function shape: %+v", fn)
	}

	step, ok := script.Decls[3].(*ast.FunctionDeclaration)
	if !ok || !step.IsStep {
		t.Fatalf("decl 3: expected step FunctionDeclaration, got %T", script.Decls[3])
	}
	if len(step.Params) != 1 {
		t.Fatalf("expected 1 in/out step param pair, got %d", len(step.Params))
	}
	if step.Params[0].Name != "self" || step.Params[0].OutName != "next" {
		t.Errorf("unexpected step param binding: %+v", step.Params[0])
	}

	sim, ok := script.Decls[4].(*ast.SimulateDeclaration)
	if !ok {
		t.Fatalf("decl 4: expected *ast.SimulateDeclaration, got %T", script.Decls[4])
	}
	if len(sim.Stmt.StepFuncs) != 1 || sim.Stmt.StepFuncs[0] != "move" {
		t.Errorf("unexpected simulate funcs: %+v", sim.Stmt.StepFuncs)
	}
}

func TestParseSpecMinimalValidScript(t *testing.T) {
	src := `environment { min: [0,0], max:[10,10], granularity: 1 } agent A { position vec2 p; } step f(A a in, A a out) {} simulate 0 { f }`
	script, err := ParseScript(src, "minimal.abl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(script.Decls) != 4 {
		t.Fatalf("expected 4 top-level decls, got %d", len(script.Decls))
	}
	step, ok := script.Decls[2].(*ast.FunctionDeclaration)
	if !ok || !step.IsStep || step.Name != "f" {
		t.Fatalf("expected step function f, got %+v", script.Decls[2])
	}
	if len(step.Body.Stmts) != 0 {
		t.Errorf("expected empty step body, got %d stmts", len(step.Body.Stmts))
	}
}

func TestParseConstDeclaration(t *testing.T) {
	script, err := ParseScript(`const pi = 3.14;`, "test.abl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := script.Decls[0].(*ast.ConstDeclaration)
	if !ok {
		t.Fatalf("expected *ast.ConstDeclaration, got %T", script.Decls[0])
	}
	if c.Name != "pi" {
		t.Errorf("expected name pi, got %q", c.Name)
	}
	if _, ok := c.Value.(*ast.FloatLiteral); !ok {
		t.Errorf("expected float literal value, got %T", c.Value)
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	src := `function float f() { return 1 + 2 * 3; }`
	script, err := ParseScript(src, "test.abl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn := script.Decls[0].(*ast.FunctionDeclaration)
	ret := fn.Body.Stmts[0].(*ast.ReturnStatement)
	bin, ok := ret.Expr.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected top-level BinaryExpression, got %T", ret.Expr)
	}
	if bin.Op != "+" {
		t.Errorf("expected top-level op +, got %q", bin.Op)
	}
	if _, ok := bin.Right.(*ast.BinaryExpression); !ok {
		t.Errorf("expected right side to be the nested * expression, got %T", bin.Right)
	}
}

func TestParseNewArrayExpression(t *testing.T) {
	script, err := ParseScript(`function int[] f() { return new int[10]; }`, "test.abl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn := script.Decls[0].(*ast.FunctionDeclaration)
	ret := fn.Body.Stmts[0].(*ast.ReturnStatement)
	na, ok := ret.Expr.(*ast.NewArrayExpression)
	if !ok {
		t.Fatalf("expected *ast.NewArrayExpression, got %T", ret.Expr)
	}
	if na.ElemType.Name != "int" {
		t.Errorf("expected elem type int, got %q", na.ElemType.Name)
	}
	if _, ok := na.Size.(*ast.IntLiteral); !ok {
		t.Errorf("expected size to be an int literal, got %T", na.Size)
	}
}

func TestParseSyntaxErrorReportsLine(t *testing.T) {
	_, err := ParseScript("const pi = ;", "test.abl")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Loc.Line != 1 {
		t.Errorf("expected error on line 1, got %d", pe.Loc.Line)
	}
}

func TestParseIfWhileForParfor(t *testing.T) {
	src := `
function float f() {
  if (1 < 2) {
    return 1;
  } else {
    return 2;
  }
}
`
	script, err := ParseScript(src, "test.abl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn := script.Decls[0].(*ast.FunctionDeclaration)
	ifStmt, ok := fn.Body.Stmts[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", fn.Body.Stmts[0])
	}
	if ifStmt.Else == nil {
		t.Error("expected else branch to be parsed")
	}
}
