package analysis

import (
	"testing"

	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/parser"
	"github.com/openabl/openabl-go/internal/types"
)

const validScript = `
environment {
  min: [0, 0],
  max: [100, 100],
  granularity: 10
}

agent Boid {
  position vec2 pos;
  vec2 vel;
}

function float speed(Boid self) {
  return length(self.vel);
}

step move(Boid self in, Boid next out) {
  next.pos = self.pos + self.vel;
}

simulate 100 {
  move
}
`

func mustParse(t *testing.T, src string) *ast.Script {
	t.Helper()
	script, err := parser.ParseScript(src, "test.abl")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return script
}

func TestAnalyzeValidScript(t *testing.T) {
	script := mustParse(t, validScript)
	errs := Analyze(script)
	if len(errs) != 0 {
		t.Fatalf("unexpected analysis errors: %v", errs)
	}

	if script.Env == nil {
		t.Fatalf("expected environment declaration to be recorded")
	}
	if script.EnvSize.Typ.Kind != types.Vec2 {
		t.Errorf("expected environment size to fold to vec2, got %s", script.EnvSize.Typ)
	}
	if got, want := script.EnvSize.Vec[0], 100.0; got != want {
		t.Errorf("expected folded size.x %v, got %v", want, got)
	}

	if len(script.Agents) != 1 || script.Agents[0].Name != "Boid" {
		t.Fatalf("unexpected agents: %+v", script.Agents)
	}
	if script.Agents[0].PositionIndex != 0 {
		t.Errorf("expected position member at index 0, got %d", script.Agents[0].PositionIndex)
	}

	if script.Simulate == nil || len(script.Simulate.Stmt.StepFuncs) != 1 {
		t.Fatalf("unexpected simulate declaration: %+v", script.Simulate)
	}
}

func TestAnalyzeMissingEnvironment(t *testing.T) {
	src := `
agent Boid {
  position vec2 pos;
}

step move(Boid self in, Boid next out) {
  next.pos = self.pos;
}

simulate 1 {
  move
}
`
	script := mustParse(t, src)
	errs := Analyze(script)
	if len(errs) == 0 {
		t.Fatalf("expected an error for a script with no environment block")
	}
}

func TestAnalyzeDuplicateAgent(t *testing.T) {
	src := `
environment { min: [0, 0], max: [1, 1], granularity: 1 }

agent Boid {
  position vec2 pos;
}

agent Boid {
  position vec2 pos2;
}

simulate 1 {
}
`
	script := mustParse(t, src)
	errs := Analyze(script)
	found := false
	for _, e := range errs {
		if e.Message == `duplicate agent declaration "Boid"` {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a duplicate agent declaration error, got %v", errs)
	}
}

func TestAnalyzeAssignTypeMismatch(t *testing.T) {
	src := `
environment { min: [0, 0], max: [1, 1], granularity: 1 }

agent Boid {
  position vec2 pos;
  int count;
}

step move(Boid self in, Boid next out) {
  next.count = self.pos;
}

simulate 1 {
  move
}
`
	script := mustParse(t, src)
	errs := Analyze(script)
	if len(errs) == 0 {
		t.Fatalf("expected a type mismatch error assigning vec2 to int")
	}
}

func TestAnalyzeNearAsParforHeadOnOwnInBinding(t *testing.T) {
	src := `
environment { min: [0, 0], max: [1, 1], granularity: 1 }

agent Boid {
  position vec2 pos;
  vec2 vel;
}

step move(Boid self in, Boid next out) {
  parfor (Boid other in, Boid other2 out : near(self, 5.0)) {
    next.pos = self.pos;
  }
}

simulate 1 {
  move
}
`
	script := mustParse(t, src)
	errs := Analyze(script)
	if len(errs) != 0 {
		t.Fatalf("expected near(self, r) as a directly-nested parfor's own head to be valid, got %v", errs)
	}
}

func TestAnalyzeNearOutsideParforRejected(t *testing.T) {
	src := `
environment { min: [0, 0], max: [1, 1], granularity: 1 }

agent Boid {
  position vec2 pos;
  vec2 vel;
}

step move(Boid self in, Boid next out) {
  near(self, 1.0);
}

simulate 1 {
  move
}
`
	script := mustParse(t, src)
	errs := Analyze(script)
	found := false
	for _, e := range errs {
		if e.Message == "near(a, r) may only appear where a is the in-binding of an enclosing parfor" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a near placement error for near(self, 1.0) outside a parfor, got %v", errs)
	}
}

func TestAnalyzeConstFloatDivisionByZero(t *testing.T) {
	src := `
const X = 1.0 / 0.0;

environment { min: [0, 0], max: [1, 1], granularity: 1 }

agent Boid {
  position vec2 pos;
}

simulate 1 {
}
`
	script := mustParse(t, src)
	errs := Analyze(script)
	if len(errs) == 0 {
		t.Fatalf("expected a division-by-zero error folding a constant float expression")
	}
}

func TestAnalyzeUndefinedSimulateFunction(t *testing.T) {
	src := `
environment { min: [0, 0], max: [1, 1], granularity: 1 }

agent Boid {
  position vec2 pos;
}

simulate 1 {
  missing
}
`
	script := mustParse(t, src)
	errs := Analyze(script)
	found := false
	for _, e := range errs {
		if e.Message == `simulate: undefined function "missing"` {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an undefined function error, got %v", errs)
	}
}
